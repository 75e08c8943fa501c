package repository

import (
	"context"
	"strings"

	"github.com/ricolabs/procure-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AgreementRepository defines the interface for agreement data access
type AgreementRepository interface {
	Create(ctx context.Context, agreement *models.Agreement) error
	FindByID(ctx context.Context, id string) (*models.Agreement, error)
	FindByIDWithDetails(ctx context.Context, id string) (*models.Agreement, error)
	// FindByIDForUpdate locks the row for the duration of the surrounding
	// transaction so concurrent approvals serialize.
	FindByIDForUpdate(ctx context.Context, id string) (*models.Agreement, error)
	UpdateStatus(ctx context.Context, id, status string) error
	List(ctx context.Context, query *AgreementQuery) ([]models.Agreement, int64, error)
	FindByStatus(ctx context.Context, status string) ([]models.Agreement, error)
	CountByStatus(ctx context.Context, status string) (int64, error)
}

// AgreementQuery extends ListQuery with agreement-specific filters
type AgreementQuery struct {
	*ListQuery
	Status     string
	VendorID   uint
	CategoryID uint
}

type agreementRepository struct {
	db *gorm.DB
}

// NewAgreementRepository creates a new agreement repository
func NewAgreementRepository(db *gorm.DB) AgreementRepository {
	return &agreementRepository{db: db}
}

func (r *agreementRepository) Create(ctx context.Context, agreement *models.Agreement) error {
	return r.db.WithContext(ctx).Create(agreement).Error
}

func (r *agreementRepository) FindByID(ctx context.Context, id string) (*models.Agreement, error) {
	var agreement models.Agreement
	if err := r.db.WithContext(ctx).First(&agreement, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &agreement, nil
}

func (r *agreementRepository) FindByIDWithDetails(ctx context.Context, id string) (*models.Agreement, error) {
	var agreement models.Agreement
	err := r.db.WithContext(ctx).
		Joins("Vendor").
		Joins("Category").
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		}).
		First(&agreement, "agreements.id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &agreement, nil
}

func (r *agreementRepository) FindByIDForUpdate(ctx context.Context, id string) (*models.Agreement, error) {
	var agreement models.Agreement
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&agreement, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &agreement, nil
}

func (r *agreementRepository) UpdateStatus(ctx context.Context, id, status string) error {
	return r.db.WithContext(ctx).
		Model(&models.Agreement{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *agreementRepository) List(ctx context.Context, query *AgreementQuery) ([]models.Agreement, int64, error) {
	var agreements []models.Agreement
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Agreement{})

	if query.Status != "" {
		statuses := strings.Split(query.Status, ",")
		for i, s := range statuses {
			statuses[i] = strings.TrimSpace(s)
		}
		db = db.Where("agreements.status IN ?", statuses)
	}
	if query.VendorID > 0 {
		db = db.Where("agreements.vendor_id = ?", query.VendorID)
	}
	if query.CategoryID > 0 {
		db = db.Where("agreements.category_id = ?", query.CategoryID)
	}
	if query.Search != "" {
		search := "%" + query.Search + "%"
		db = db.Joins("LEFT JOIN vendors ON vendors.id = agreements.vendor_id").
			Where("agreements.title ILIKE ? OR vendors.name ILIKE ? OR agreements.id ILIKE ?", search, search, search)
	}

	countDB := db.Session(&gorm.Session{})
	if err := countDB.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// Creation-time ordering, newest first, is the only ordering contract
	err := db.Order("agreements.created_at DESC").
		Preload("Vendor").
		Preload("Category").
		Preload("Items").
		Offset(query.Offset()).
		Limit(query.PerPage).
		Find(&agreements).Error
	return agreements, total, err
}

func (r *agreementRepository) FindByStatus(ctx context.Context, status string) ([]models.Agreement, error) {
	var agreements []models.Agreement
	err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Preload("Vendor").
		Order("created_at DESC").
		Find(&agreements).Error
	return agreements, err
}

func (r *agreementRepository) CountByStatus(ctx context.Context, status string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Agreement{}).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}
