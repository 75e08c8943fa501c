package models

import (
	"fmt"
	"time"
)

// Receipt represents an invoice billed against an agreement
type Receipt struct {
	ID              string    `gorm:"primaryKey;size:20" json:"id"`
	AgreementID     string    `gorm:"not null;index;size:20" json:"agreement_id"`
	CategoryID      uint      `gorm:"not null;index" json:"category_id"`
	VendorName      string    `gorm:"not null" json:"vendor_name"`
	InvoiceNumber   string    `gorm:"not null" json:"invoice_number"`
	ReceiptDate     time.Time `gorm:"not null;index" json:"receipt_date"`
	Subtotal        int64     `gorm:"not null" json:"subtotal"`
	TaxAmount       int64     `gorm:"not null" json:"tax_amount"`
	TotalAmount     int64     `gorm:"not null" json:"total_amount"`
	Status          string    `gorm:"default:pending_approval;index" json:"status"`
	ConfidenceScore float64   `gorm:"column:ai_confidence_score" json:"confidence_score"`
	CreatedBy       uint      `gorm:"not null;index" json:"created_by"`
	CreatedAt       time.Time `gorm:"index" json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	// Associations
	Agreement        Agreement         `gorm:"foreignKey:AgreementID" json:"agreement,omitempty"`
	Category         Category          `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Creator          User              `gorm:"foreignKey:CreatedBy" json:"creator,omitempty"`
	Items            []ReceiptItem     `gorm:"foreignKey:ReceiptID" json:"items,omitempty"`
	BlockchainRecord *BlockchainRecord `gorm:"foreignKey:ReceiptID" json:"blockchain_record,omitempty"`
	IpfsRecord       *IpfsRecord       `gorm:"foreignKey:ReceiptID" json:"ipfs_record,omitempty"`
}

// TableName specifies the table name for Receipt
func (Receipt) TableName() string {
	return "receipts"
}

// Receipt status constants
const (
	ReceiptStatusPendingApproval = "pending_approval"
	ReceiptStatusVerified        = "verified"
	ReceiptStatusRejected        = "rejected"
)

// FormatReceiptID builds the year-scoped human readable id, e.g. RCP-2026-0042.
func FormatReceiptID(year, seq int) string {
	return fmt.Sprintf("RCP-%d-%04d", year, seq)
}

// MayApprove returns true if the receipt is still awaiting a CFO decision
func (r *Receipt) MayApprove() bool {
	return r.Status == ReceiptStatusPendingApproval
}

// MayReject returns true if the receipt can still be rejected
func (r *Receipt) MayReject() bool {
	return r.Status == ReceiptStatusPendingApproval
}

// IsTerminal returns true once the receipt is settled or rejected
func (r *Receipt) IsTerminal() bool {
	return r.Status == ReceiptStatusVerified || r.Status == ReceiptStatusRejected
}

// GrandTotal is the billed amount compared against agreement value and limits
func (r *Receipt) GrandTotal() int64 {
	return r.TotalAmount
}

// ReceiptItem is one ordered line of a receipt
type ReceiptItem struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	ReceiptID   string `gorm:"not null;index;size:20" json:"receipt_id"`
	Description string `gorm:"not null" json:"description"`
	Quantity    int    `gorm:"not null" json:"quantity"`
	UnitPrice   int64  `gorm:"not null" json:"unit_price"`
	Total       int64  `gorm:"not null" json:"total"`
	Sequence    int    `gorm:"not null;default:1" json:"sequence"`
}

// TableName specifies the table name for ReceiptItem
func (ReceiptItem) TableName() string {
	return "receipt_items"
}

// BlockchainRecord is the external ledger's settlement confirmation,
// attached once a receipt is verified. Opaque to the workflow engine.
type BlockchainRecord struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ReceiptID   string    `gorm:"uniqueIndex;not null;size:20" json:"receipt_id"`
	TxHash      string    `gorm:"not null" json:"tx_hash"`
	BlockNumber int64     `json:"block_number"`
	Network     string    `json:"network"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName specifies the table name for BlockchainRecord
func (BlockchainRecord) TableName() string {
	return "blockchain_records"
}

// IpfsRecord references the stored source document. Populated by the
// document store collaborator, never processed here.
type IpfsRecord struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ReceiptID string    `gorm:"uniqueIndex;not null;size:20" json:"receipt_id"`
	CID       string    `gorm:"column:cid;not null" json:"cid"`
	FileType  string    `json:"file_type"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for IpfsRecord
func (IpfsRecord) TableName() string {
	return "ipfs_records"
}

// ReceiptResponse is the JSON response format for receipts
type ReceiptResponse struct {
	ID               string                `json:"id"`
	AgreementID      string                `json:"agreement_id"`
	CategoryID       uint                  `json:"category_id"`
	CategoryName     string                `json:"category_name"`
	VendorName       string                `json:"vendor_name"`
	InvoiceNumber    string                `json:"invoice_number"`
	ReceiptDate      time.Time             `json:"receipt_date"`
	Subtotal         int64                 `json:"subtotal"`
	TaxAmount        int64                 `json:"tax_amount"`
	TotalAmount      int64                 `json:"total_amount"`
	Status           string                `json:"status"`
	ConfidenceScore  float64               `json:"confidence_score"`
	CreatedBy        uint                  `json:"created_by"`
	CreatedAt        time.Time             `json:"created_at"`
	Items            []ReceiptItemResponse `json:"items"`
	BlockchainRecord *BlockchainRecord     `json:"blockchain_record,omitempty"`
	IpfsRecord       *IpfsRecord           `json:"ipfs_record,omitempty"`
}

// ReceiptItemResponse is the JSON response format for receipt items
type ReceiptItemResponse struct {
	Description string `json:"description"`
	Quantity    int    `json:"quantity"`
	UnitPrice   int64  `json:"unit_price"`
	Total       int64  `json:"total"`
	Sequence    int    `json:"sequence"`
}

// ToResponse converts Receipt to ReceiptResponse
func (r *Receipt) ToResponse() ReceiptResponse {
	resp := ReceiptResponse{
		ID:               r.ID,
		AgreementID:      r.AgreementID,
		CategoryID:       r.CategoryID,
		CategoryName:     r.Category.Name,
		VendorName:       r.VendorName,
		InvoiceNumber:    r.InvoiceNumber,
		ReceiptDate:      r.ReceiptDate,
		Subtotal:         r.Subtotal,
		TaxAmount:        r.TaxAmount,
		TotalAmount:      r.TotalAmount,
		Status:           r.Status,
		ConfidenceScore:  r.ConfidenceScore,
		CreatedBy:        r.CreatedBy,
		CreatedAt:        r.CreatedAt,
		BlockchainRecord: r.BlockchainRecord,
		IpfsRecord:       r.IpfsRecord,
	}
	for _, item := range r.Items {
		resp.Items = append(resp.Items, ReceiptItemResponse{
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Total:       item.Total,
			Sequence:    item.Sequence,
		})
	}
	return resp
}
