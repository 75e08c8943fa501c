package services

import (
	"context"

	"github.com/ricolabs/procure-api/internal/models"
	"github.com/ricolabs/procure-api/internal/repository"
)

// ReferenceService exposes the read-only vendor/category catalogs and the
// category limit view.
type ReferenceService struct {
	repo repository.ReferenceRepository
}

// NewReferenceService creates a new reference data service
func NewReferenceService(repo repository.ReferenceRepository) *ReferenceService {
	return &ReferenceService{repo: repo}
}

// Vendors lists all vendors ordered by name
func (s *ReferenceService) Vendors(ctx context.Context) ([]models.Vendor, error) {
	return s.repo.ListVendors(ctx)
}

// Categories lists active categories ordered by name
func (s *ReferenceService) Categories(ctx context.Context) ([]models.Category, error) {
	return s.repo.ListActiveCategories(ctx)
}

// CategoryLimits returns every category with its optional daily limit row
func (s *ReferenceService) CategoryLimits(ctx context.Context) ([]models.CategoryLimit, error) {
	return s.repo.ListCategoryLimits(ctx)
}
