package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ricolabs/procure-api/internal/models"
	"github.com/ricolabs/procure-api/internal/repository"
	"github.com/ricolabs/procure-api/pkg/logger"
	"gorm.io/gorm"
)

// ProofInput describes a range disclosure claim to be attested
type ProofInput struct {
	Name           string    `json:"name" binding:"required"`
	Purpose        string    `json:"purpose"`
	DateRangeStart time.Time `json:"date_range_start" binding:"required"`
	DateRangeEnd   time.Time `json:"date_range_end" binding:"required"`
	ProofType      string    `json:"proof_type" binding:"required"`
	RangeMin       int64     `json:"range_min"`
	RangeMax       int64     `json:"range_max"`
}

// ProofService issues, verifies and revokes range disclosure proofs. A proof
// attests that the verified spend total in a window satisfies a predicate
// without ever disclosing the total itself.
type ProofService struct {
	proofRepo   repository.ProofRepository
	receiptRepo repository.ReceiptRepository
}

// NewProofService creates a new proof service
func NewProofService(proofRepo repository.ProofRepository, receiptRepo repository.ReceiptRepository) *ProofService {
	return &ProofService{
		proofRepo:   proofRepo,
		receiptRepo: receiptRepo,
	}
}

// Generate checks the claim against the actual verified spend in the window
// and, only if satisfied, persists a proof valid for 90 days. The aggregate
// total never leaves this method.
func (s *ProofService) Generate(ctx context.Context, input *ProofInput, ownerID uint) (*models.RangeProof, error) {
	if ownerID == 0 {
		return nil, fmt.Errorf("%w: owner identity is required", ErrValidation)
	}
	if !models.IsKnownProofType(input.ProofType) {
		return nil, fmt.Errorf("%w: unknown proof type %q", ErrValidation, input.ProofType)
	}
	if input.DateRangeEnd.Before(input.DateRangeStart) {
		return nil, fmt.Errorf("%w: date range end before start", ErrValidation)
	}
	if input.ProofType == models.ProofTypeBetween && input.RangeMax < input.RangeMin {
		return nil, fmt.Errorf("%w: range max below range min", ErrValidation)
	}

	start := time.Date(input.DateRangeStart.Year(), input.DateRangeStart.Month(), input.DateRangeStart.Day(), 0, 0, 0, 0, input.DateRangeStart.Location())
	end := time.Date(input.DateRangeEnd.Year(), input.DateRangeEnd.Month(), input.DateRangeEnd.Day(), 23, 59, 59, 0, input.DateRangeEnd.Location())

	actual, err := s.receiptRepo.SumVerifiedInRange(ctx, start, end)
	if err != nil {
		return nil, err
	}

	if !models.SatisfiedBy(input.ProofType, actual, input.RangeMin, input.RangeMax) {
		return nil, ErrClaimNotSatisfied
	}

	now := time.Now()
	proof := &models.RangeProof{
		ID:             uuid.NewString(),
		OwnerUserID:    ownerID,
		Name:           input.Name,
		Purpose:        input.Purpose,
		DateRangeStart: start,
		DateRangeEnd:   end,
		ProofType:      input.ProofType,
		RangeMin:       input.RangeMin,
		RangeMax:       input.RangeMax,
		ProofHash:      randomProofHash(),
		Status:         models.ProofStatusValid,
		ExpiresAt:      now.Add(models.ProofValidity),
	}
	if err := s.proofRepo.Create(ctx, proof); err != nil {
		return nil, err
	}

	logger.Info("Range proof issued", "id", proof.ID, "type", proof.ProofType, "owner", ownerID)
	return proof, nil
}

// Verify is the public read path. It returns the proof's predicate metadata
// with the status derived lazily at read time.
func (s *ProofService) Verify(ctx context.Context, id string) (*models.RangeProofResponse, error) {
	proof, err := s.proofRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: proof %s", ErrNotFound, id)
		}
		return nil, err
	}
	resp := proof.ToResponse(time.Now())
	return &resp, nil
}

// List returns all proofs of one owner, statuses derived at read time
func (s *ProofService) List(ctx context.Context, ownerID uint) ([]models.RangeProofResponse, error) {
	proofs, err := s.proofRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	responses := make([]models.RangeProofResponse, 0, len(proofs))
	for i := range proofs {
		responses = append(responses, proofs[i].ToResponse(now))
	}
	return responses, nil
}

// Revoke permanently invalidates a valid proof. Expired or already revoked
// proofs cannot be revoked.
func (s *ProofService) Revoke(ctx context.Context, id string) (*models.RangeProofResponse, error) {
	proof, err := s.proofRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: proof %s", ErrNotFound, id)
		}
		return nil, err
	}

	now := time.Now()
	if proof.EffectiveStatus(now) != models.ProofStatusValid {
		return nil, fmt.Errorf("%w: proof %s is %s", ErrInvalidState, id, proof.EffectiveStatus(now))
	}

	if err := s.proofRepo.UpdateStatus(ctx, id, models.ProofStatusRevoked); err != nil {
		return nil, err
	}
	proof.Status = models.ProofStatusRevoked

	logger.Info("Range proof revoked", "id", id)
	resp := proof.ToResponse(now)
	return &resp, nil
}

func randomProofHash() string {
	buf := make([]byte, 32)
	rand.Read(buf)
	return "0x" + hex.EncodeToString(buf)
}
