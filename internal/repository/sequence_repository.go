package repository

import (
	"context"
	"errors"

	"github.com/ricolabs/procure-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Sequence scopes for human readable document ids
const (
	SequenceScopeAgreement = "AGR"
	SequenceScopeReceipt   = "RCP"
)

// SequenceRepository hands out year-scoped sequence numbers. Next must be
// called inside the transaction that creates the numbered row; the counter
// row is locked FOR UPDATE so concurrent creations serialize instead of
// colliding.
type SequenceRepository interface {
	Next(ctx context.Context, scope string, year int) (int, error)
}

type sequenceRepository struct {
	db *gorm.DB
}

// NewSequenceRepository creates a new sequence repository
func NewSequenceRepository(db *gorm.DB) SequenceRepository {
	return &sequenceRepository{db: db}
}

func (r *sequenceRepository) Next(ctx context.Context, scope string, year int) (int, error) {
	var seq models.DocumentSequence
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("scope = ? AND year = ?", scope, year).
		First(&seq).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		seq = models.DocumentSequence{Scope: scope, Year: year, Value: 1}
		if err := r.db.WithContext(ctx).Create(&seq).Error; err != nil {
			return 0, err
		}
		return seq.Value, nil
	}
	if err != nil {
		return 0, err
	}

	seq.Value++
	if err := r.db.WithContext(ctx).Save(&seq).Error; err != nil {
		return 0, err
	}
	return seq.Value, nil
}
