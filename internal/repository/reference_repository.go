package repository

import (
	"context"
	"errors"

	"github.com/ricolabs/procure-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReferenceRepository provides read access to vendor/category reference data
// and the per-category daily limits.
type ReferenceRepository interface {
	ListVendors(ctx context.Context) ([]models.Vendor, error)
	FindVendor(ctx context.Context, id uint) (*models.Vendor, error)
	ListActiveCategories(ctx context.Context) ([]models.Category, error)
	FindCategory(ctx context.Context, id uint) (*models.Category, error)

	// GetDailyLimit returns the explicit limit row for a category, or nil
	// when none has been set (callers fall back to the default ceiling).
	GetDailyLimit(ctx context.Context, categoryID uint) (*models.DailyLimit, error)
	UpsertDailyLimit(ctx context.Context, categoryID uint, amount int64) (*models.DailyLimit, error)

	// ListCategoryLimits is the left-join view of every category with its
	// optional limit, replacing ad hoc merging at call sites.
	ListCategoryLimits(ctx context.Context) ([]models.CategoryLimit, error)
}

type referenceRepository struct {
	db *gorm.DB
}

// NewReferenceRepository creates a new reference data repository
func NewReferenceRepository(db *gorm.DB) ReferenceRepository {
	return &referenceRepository{db: db}
}

func (r *referenceRepository) ListVendors(ctx context.Context) ([]models.Vendor, error) {
	var vendors []models.Vendor
	err := r.db.WithContext(ctx).Order("name ASC").Find(&vendors).Error
	return vendors, err
}

func (r *referenceRepository) FindVendor(ctx context.Context, id uint) (*models.Vendor, error) {
	var vendor models.Vendor
	if err := r.db.WithContext(ctx).First(&vendor, id).Error; err != nil {
		return nil, err
	}
	return &vendor, nil
}

func (r *referenceRepository) ListActiveCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := r.db.WithContext(ctx).Where("is_active = ?", true).Order("name ASC").Find(&categories).Error
	return categories, err
}

func (r *referenceRepository) FindCategory(ctx context.Context, id uint) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *referenceRepository) GetDailyLimit(ctx context.Context, categoryID uint) (*models.DailyLimit, error) {
	var limit models.DailyLimit
	err := r.db.WithContext(ctx).Where("category_id = ?", categoryID).First(&limit).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &limit, nil
}

func (r *referenceRepository) UpsertDailyLimit(ctx context.Context, categoryID uint, amount int64) (*models.DailyLimit, error) {
	limit := models.DailyLimit{
		CategoryID:  categoryID,
		LimitAmount: amount,
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "category_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"limit_amount", "updated_at"}),
		}).
		Create(&limit).Error
	if err != nil {
		return nil, err
	}
	return &limit, nil
}

func (r *referenceRepository) ListCategoryLimits(ctx context.Context) ([]models.CategoryLimit, error) {
	var categories []models.Category
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, err
	}

	var limits []models.DailyLimit
	if err := r.db.WithContext(ctx).Find(&limits).Error; err != nil {
		return nil, err
	}

	byCategory := make(map[uint]models.DailyLimit, len(limits))
	for _, l := range limits {
		byCategory[l.CategoryID] = l
	}

	view := make([]models.CategoryLimit, 0, len(categories))
	for _, cat := range categories {
		entry := models.CategoryLimit{
			CategoryID: cat.ID,
			Category:   cat,
		}
		if l, ok := byCategory[cat.ID]; ok {
			id := l.ID
			entry.LimitAmount = l.LimitAmount
			entry.LimitID = &id
		}
		view = append(view, entry)
	}
	return view, nil
}
