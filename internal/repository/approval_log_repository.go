package repository

import (
	"context"

	"github.com/ricolabs/procure-api/internal/models"
	"gorm.io/gorm"
)

// ApprovalLogRepository defines the interface for the append-only audit log.
// There is no update or delete: rows are write-once by design.
type ApprovalLogRepository interface {
	Create(ctx context.Context, entry *models.ApprovalLog) error
	List(ctx context.Context, query *ListQuery) ([]models.ApprovalLog, int64, error)
	FindByAgreement(ctx context.Context, agreementID string) ([]models.ApprovalLog, error)
	FindByReceipt(ctx context.Context, receiptID string) ([]models.ApprovalLog, error)
}

type approvalLogRepository struct {
	db *gorm.DB
}

// NewApprovalLogRepository creates a new approval log repository
func NewApprovalLogRepository(db *gorm.DB) ApprovalLogRepository {
	return &approvalLogRepository{db: db}
}

func (r *approvalLogRepository) Create(ctx context.Context, entry *models.ApprovalLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *approvalLogRepository) List(ctx context.Context, query *ListQuery) ([]models.ApprovalLog, int64, error) {
	var logs []models.ApprovalLog
	var total int64

	db := r.db.WithContext(ctx).Model(&models.ApprovalLog{})

	if action := query.Filters["action"]; action != "" {
		db = db.Where("action = ?", action)
	}

	countDB := db.Session(&gorm.Session{})
	if err := countDB.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Preload("Approver").
		Order("created_at DESC").
		Offset(query.Offset()).
		Limit(query.PerPage).
		Find(&logs).Error
	return logs, total, err
}

func (r *approvalLogRepository) FindByAgreement(ctx context.Context, agreementID string) ([]models.ApprovalLog, error) {
	var logs []models.ApprovalLog
	err := r.db.WithContext(ctx).
		Where("agreement_id = ?", agreementID).
		Preload("Approver").
		Order("created_at ASC").
		Find(&logs).Error
	return logs, err
}

func (r *approvalLogRepository) FindByReceipt(ctx context.Context, receiptID string) ([]models.ApprovalLog, error) {
	var logs []models.ApprovalLog
	err := r.db.WithContext(ctx).
		Where("receipt_id = ?", receiptID).
		Preload("Approver").
		Order("created_at ASC").
		Find(&logs).Error
	return logs, err
}
