package repository

import (
	"context"

	"github.com/ricolabs/procure-api/internal/models"
	"gorm.io/gorm"
)

// ProofRepository defines the interface for range proof data access.
// Proofs are immutable after creation except for the status column
// (revocation); expiry is derived at read time and never written back.
type ProofRepository interface {
	Create(ctx context.Context, proof *models.RangeProof) error
	FindByID(ctx context.Context, id string) (*models.RangeProof, error)
	ListByOwner(ctx context.Context, ownerID uint) ([]models.RangeProof, error)
	UpdateStatus(ctx context.Context, id, status string) error
}

type proofRepository struct {
	db *gorm.DB
}

// NewProofRepository creates a new proof repository
func NewProofRepository(db *gorm.DB) ProofRepository {
	return &proofRepository{db: db}
}

func (r *proofRepository) Create(ctx context.Context, proof *models.RangeProof) error {
	return r.db.WithContext(ctx).Create(proof).Error
}

func (r *proofRepository) FindByID(ctx context.Context, id string) (*models.RangeProof, error) {
	var proof models.RangeProof
	err := r.db.WithContext(ctx).
		Preload("Owner").
		First(&proof, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &proof, nil
}

func (r *proofRepository) ListByOwner(ctx context.Context, ownerID uint) ([]models.RangeProof, error) {
	var proofs []models.RangeProof
	err := r.db.WithContext(ctx).
		Where("owner_user_id = ?", ownerID).
		Order("created_at DESC").
		Find(&proofs).Error
	return proofs, err
}

func (r *proofRepository) UpdateStatus(ctx context.Context, id, status string) error {
	return r.db.WithContext(ctx).
		Model(&models.RangeProof{}).
		Where("id = ?", id).
		Update("status", status).Error
}
