package models

import (
	"time"
)

// ApprovalLog is the append-only audit record of every approval decision,
// rejection and limit change. Rows are write-once; exactly one of
// AgreementID/ReceiptID is set for entity actions, both are null for
// LIMIT_UPDATE entries.
type ApprovalLog struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	AgreementID *string   `gorm:"index;size:20" json:"agreement_id"`
	ReceiptID   *string   `gorm:"index;size:20" json:"receipt_id"`
	ApproverID  uint      `gorm:"not null;index" json:"approver_id"`
	RoleAtTime  string    `gorm:"size:20;not null" json:"role_at_time"`
	Action      string    `gorm:"size:30;not null" json:"action"` // APPROVE, REJECT, LIMIT_UPDATE
	Notes       string    `gorm:"type:text" json:"notes"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`

	// Associations
	Approver User `gorm:"foreignKey:ApproverID" json:"approver,omitempty"`
}

// TableName specifies the table name for ApprovalLog
func (ApprovalLog) TableName() string {
	return "approval_logs"
}

// Approval action constants (stored upper-cased)
const (
	ApprovalActionApprove     = "APPROVE"
	ApprovalActionReject      = "REJECT"
	ApprovalActionLimitUpdate = "LIMIT_UPDATE"
)
