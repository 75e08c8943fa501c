package repository

import (
	"context"
	"time"

	"github.com/ricolabs/procure-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReceiptRepository defines the interface for receipt data access
type ReceiptRepository interface {
	Create(ctx context.Context, receipt *models.Receipt) error
	FindByID(ctx context.Context, id string) (*models.Receipt, error)
	FindByIDWithDetails(ctx context.Context, id string) (*models.Receipt, error)
	FindByIDForUpdate(ctx context.Context, id string) (*models.Receipt, error)
	UpdateStatus(ctx context.Context, id, status string) error
	AttachBlockchainRecord(ctx context.Context, record *models.BlockchainRecord) error
	List(ctx context.Context, query *ListQuery) ([]models.Receipt, int64, error)
	FindRecent(ctx context.Context, limit int) ([]models.Receipt, error)
	FindByStatus(ctx context.Context, status string) ([]models.Receipt, error)
	CountByStatus(ctx context.Context, status string) (int64, error)
	CountVerifiedSince(ctx context.Context, since time.Time) (int64, error)
	SumVerifiedCreatedSince(ctx context.Context, since time.Time) (int64, error)

	// SumVerifiedInRange aggregates total_amount over verified receipts whose
	// receipt_date falls inside the window. Read path for proof issuance.
	SumVerifiedInRange(ctx context.Context, start, end time.Time) (int64, error)

	CategorySpendSince(ctx context.Context, since time.Time) ([]CategorySpend, error)
	FindVerifiedInRange(ctx context.Context, start, end time.Time, categoryNames []string) ([]models.Receipt, error)
}

// CategorySpend is a per-category aggregate row for dashboards
type CategorySpend struct {
	CategoryID uint
	Amount     int64
	Count      int64
}

type receiptRepository struct {
	db *gorm.DB
}

// NewReceiptRepository creates a new receipt repository
func NewReceiptRepository(db *gorm.DB) ReceiptRepository {
	return &receiptRepository{db: db}
}

func (r *receiptRepository) Create(ctx context.Context, receipt *models.Receipt) error {
	return r.db.WithContext(ctx).Create(receipt).Error
}

func (r *receiptRepository) FindByID(ctx context.Context, id string) (*models.Receipt, error) {
	var receipt models.Receipt
	if err := r.db.WithContext(ctx).First(&receipt, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &receipt, nil
}

func (r *receiptRepository) FindByIDWithDetails(ctx context.Context, id string) (*models.Receipt, error) {
	var receipt models.Receipt
	err := r.db.WithContext(ctx).
		Joins("Category").
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("sequence ASC, id ASC")
		}).
		Preload("BlockchainRecord").
		Preload("IpfsRecord").
		First(&receipt, "receipts.id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &receipt, nil
}

func (r *receiptRepository) FindByIDForUpdate(ctx context.Context, id string) (*models.Receipt, error) {
	var receipt models.Receipt
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&receipt, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &receipt, nil
}

func (r *receiptRepository) UpdateStatus(ctx context.Context, id, status string) error {
	return r.db.WithContext(ctx).
		Model(&models.Receipt{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *receiptRepository) AttachBlockchainRecord(ctx context.Context, record *models.BlockchainRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *receiptRepository) List(ctx context.Context, query *ListQuery) ([]models.Receipt, int64, error) {
	var receipts []models.Receipt
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Receipt{})

	if status := query.Filters["status"]; status != "" {
		db = db.Where("receipts.status = ?", status)
	}
	if agreementID := query.Filters["agreement_id"]; agreementID != "" {
		db = db.Where("receipts.agreement_id = ?", agreementID)
	}

	countDB := db.Session(&gorm.Session{})
	if err := countDB.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Order("receipts.created_at DESC").
		Preload("Category").
		Preload("BlockchainRecord").
		Offset(query.Offset()).
		Limit(query.PerPage).
		Find(&receipts).Error
	return receipts, total, err
}

func (r *receiptRepository) FindRecent(ctx context.Context, limit int) ([]models.Receipt, error) {
	var receipts []models.Receipt
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Preload("Items").
		Preload("Category").
		Find(&receipts).Error
	return receipts, err
}

func (r *receiptRepository) FindByStatus(ctx context.Context, status string) ([]models.Receipt, error) {
	var receipts []models.Receipt
	err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Preload("Category").
		Order("created_at DESC").
		Find(&receipts).Error
	return receipts, err
}

func (r *receiptRepository) CountByStatus(ctx context.Context, status string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Receipt{}).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}

func (r *receiptRepository) CountVerifiedSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Receipt{}).
		Where("status = ? AND created_at >= ?", models.ReceiptStatusVerified, since).
		Count(&count).Error
	return count, err
}

func (r *receiptRepository) SumVerifiedCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.Receipt{}).
		Where("status = ? AND created_at >= ?", models.ReceiptStatusVerified, since).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&total).Error
	return total, err
}

func (r *receiptRepository) SumVerifiedInRange(ctx context.Context, start, end time.Time) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.Receipt{}).
		Where("status = ? AND receipt_date >= ? AND receipt_date <= ?", models.ReceiptStatusVerified, start, end).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&total).Error
	return total, err
}

func (r *receiptRepository) CategorySpendSince(ctx context.Context, since time.Time) ([]CategorySpend, error) {
	var rows []CategorySpend
	err := r.db.WithContext(ctx).
		Model(&models.Receipt{}).
		Where("status = ? AND created_at >= ?", models.ReceiptStatusVerified, since).
		Select("category_id, COALESCE(SUM(total_amount), 0) AS amount, COUNT(id) AS count").
		Group("category_id").
		Scan(&rows).Error
	return rows, err
}

func (r *receiptRepository) FindVerifiedInRange(ctx context.Context, start, end time.Time, categoryNames []string) ([]models.Receipt, error) {
	db := r.db.WithContext(ctx).
		Where("receipts.status = ? AND receipts.receipt_date >= ? AND receipts.receipt_date <= ?",
			models.ReceiptStatusVerified, start, end)

	if len(categoryNames) > 0 {
		db = db.Joins("JOIN categories ON categories.id = receipts.category_id").
			Where("categories.name IN ?", categoryNames)
	}

	var receipts []models.Receipt
	err := db.Preload("Category").
		Preload("BlockchainRecord").
		Order("receipts.receipt_date DESC").
		Find(&receipts).Error
	return receipts, err
}
