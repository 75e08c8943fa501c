package services

import (
	"github.com/ricolabs/procure-api/internal/config"
	"github.com/ricolabs/procure-api/internal/ledger"
	"github.com/ricolabs/procure-api/internal/repository"
	"github.com/ricolabs/procure-api/internal/storage"
)

// Services holds all service instances
type Services struct {
	Auth       *AuthService
	Reference  *ReferenceService
	Agreement  *AgreementService
	Compliance *ComplianceService
	Receipt    *ReceiptService
	Approval   *ApprovalService
	Proof      *ProofService
	Stats      *StatsService
}

// NewServices creates all service instances
func NewServices(repos *repository.Repositories, uow repository.UnitOfWork, ldg ledger.Ledger, documents storage.DocumentStore, cfg *config.Config) *Services {
	complianceSvc := NewComplianceService(repos.Agreement, repos.Reference, cfg.ComplianceStrict)

	return &Services{
		Auth:       NewAuthService(repos.User, cfg),
		Reference:  NewReferenceService(repos.Reference),
		Agreement:  NewAgreementService(repos.Agreement, repos.Reference, uow),
		Compliance: complianceSvc,
		Receipt:    NewReceiptService(repos.Receipt, complianceSvc, uow, ldg, documents),
		Approval:   NewApprovalService(uow, repos, ldg),
		Proof:      NewProofService(repos.Proof, repos.Receipt),
		Stats:      NewStatsService(repos.Agreement, repos.Receipt, repos.Reference),
	}
}
