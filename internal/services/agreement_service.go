package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ricolabs/procure-api/internal/models"
	"github.com/ricolabs/procure-api/internal/repository"
	"github.com/ricolabs/procure-api/pkg/logger"
	"gorm.io/gorm"
)

// AgreementItemInput is one line of a new agreement
type AgreementItemInput struct {
	ItemName       string `json:"item_name" binding:"required"`
	Specifications string `json:"specifications"`
	Quantity       int    `json:"quantity" binding:"required"`
	UnitPrice      int64  `json:"unit_price" binding:"required"`
}

// AgreementInput holds the fields for creating an agreement
type AgreementInput struct {
	VendorID     uint                 `json:"vendor_id" binding:"required"`
	CategoryID   uint                 `json:"category_id" binding:"required"`
	Title        string               `json:"title"`
	StartDate    time.Time            `json:"start_date" binding:"required"`
	EndDate      time.Time            `json:"end_date" binding:"required"`
	PaymentTerms string               `json:"payment_terms"`
	Items        []AgreementItemInput `json:"items" binding:"required"`
}

// AgreementService owns agreement creation and reads. Status transitions go
// through the ApprovalService exclusively.
type AgreementService struct {
	repo          repository.AgreementRepository
	referenceRepo repository.ReferenceRepository
	uow           repository.UnitOfWork
}

// NewAgreementService creates a new agreement service
func NewAgreementService(repo repository.AgreementRepository, referenceRepo repository.ReferenceRepository, uow repository.UnitOfWork) *AgreementService {
	return &AgreementService{
		repo:          repo,
		referenceRepo: referenceRepo,
		uow:           uow,
	}
}

// Create validates the input, derives the total value from the line items
// and persists the agreement with a year-scoped sequential id. The total is
// fixed at creation time and never recomputed.
func (s *AgreementService) Create(ctx context.Context, input *AgreementInput, creatorID uint) (*models.Agreement, error) {
	if creatorID == 0 {
		return nil, fmt.Errorf("%w: actor identity is required", ErrValidation)
	}
	if len(input.Items) == 0 {
		return nil, fmt.Errorf("%w: agreement requires at least one line item", ErrValidation)
	}
	if !input.EndDate.After(input.StartDate) {
		return nil, fmt.Errorf("%w: end date must be after start date", ErrValidation)
	}

	var totalValue int64
	items := make([]models.AgreementItem, 0, len(input.Items))
	for i, item := range input.Items {
		if item.Quantity <= 0 || item.UnitPrice <= 0 {
			return nil, fmt.Errorf("%w: line %d has non-positive quantity or price", ErrValidation, i+1)
		}
		subtotal := int64(item.Quantity) * item.UnitPrice
		totalValue += subtotal
		items = append(items, models.AgreementItem{
			ItemName:       item.ItemName,
			Specifications: item.Specifications,
			Quantity:       item.Quantity,
			UnitPrice:      item.UnitPrice,
			Subtotal:       subtotal,
		})
	}

	vendor, err := s.referenceRepo.FindVendor(ctx, input.VendorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: vendor %d", ErrNotFound, input.VendorID)
		}
		return nil, err
	}
	if _, err := s.referenceRepo.FindCategory(ctx, input.CategoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: category %d", ErrNotFound, input.CategoryID)
		}
		return nil, err
	}

	title := input.Title
	if title == "" {
		title = fmt.Sprintf("Agreement with %s", vendor.Name)
	}

	var agreement *models.Agreement
	err = s.uow.Execute(ctx, func(tx *repository.Repositories) error {
		year := time.Now().Year()
		seq, err := tx.Sequence.Next(ctx, repository.SequenceScopeAgreement, year)
		if err != nil {
			return err
		}

		agreement = &models.Agreement{
			ID:           models.FormatAgreementID(year, seq),
			VendorID:     input.VendorID,
			CategoryID:   input.CategoryID,
			Title:        title,
			StartDate:    input.StartDate,
			EndDate:      input.EndDate,
			PaymentTerms: input.PaymentTerms,
			TotalValue:   totalValue,
			Status:       models.AgreementStatusPendingVendor,
			CreatedBy:    creatorID,
			Items:        items,
		}
		return tx.Agreement.Create(ctx, agreement)
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Agreement created", "id", agreement.ID, "total_value", agreement.TotalValue)
	return agreement, nil
}

// FindByID gets an agreement with vendor, category and items joined
func (s *AgreementService) FindByID(ctx context.Context, id string) (*models.Agreement, error) {
	agreement, err := s.repo.FindByIDWithDetails(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: agreement %s", ErrNotFound, id)
		}
		return nil, err
	}
	return agreement, nil
}

// List returns agreements ordered newest-first
func (s *AgreementService) List(ctx context.Context, query *repository.AgreementQuery) ([]models.Agreement, int64, error) {
	return s.repo.List(ctx, query)
}
