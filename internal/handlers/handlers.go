package handlers

import (
	"github.com/ricolabs/procure-api/internal/extraction"
	"github.com/ricolabs/procure-api/internal/services"
	"github.com/ricolabs/procure-api/internal/storage"
)

// Handlers holds all handler instances
type Handlers struct {
	Health    *HealthHandler
	Auth      *AuthHandler
	Reference *ReferenceHandler
	Agreement *AgreementHandler
	Receipt   *ReceiptHandler
	Approval  *ApprovalHandler
	Proof     *ProofHandler
	Stats     *StatsHandler
}

// NewHandlers creates all handler instances
func NewHandlers(svcs *services.Services, extractor extraction.Extractor, documents storage.DocumentStore) *Handlers {
	return &Handlers{
		Health:    NewHealthHandler(),
		Auth:      NewAuthHandler(svcs.Auth),
		Reference: NewReferenceHandler(svcs.Reference),
		Agreement: NewAgreementHandler(svcs.Agreement),
		Receipt:   NewReceiptHandler(svcs.Receipt, extractor, documents),
		Approval:  NewApprovalHandler(svcs.Approval),
		Proof:     NewProofHandler(svcs.Proof),
		Stats:     NewStatsHandler(svcs.Stats),
	}
}
