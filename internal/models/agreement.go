package models

import (
	"fmt"
	"time"
)

// Agreement represents a procurement contract between the organization and a vendor
type Agreement struct {
	ID           string    `gorm:"primaryKey;size:20" json:"id"`
	VendorID     uint      `gorm:"not null;index" json:"vendor_id"`
	CategoryID   uint      `gorm:"not null;index" json:"category_id"`
	Title        string    `gorm:"not null" json:"title"`
	StartDate    time.Time `gorm:"not null" json:"start_date"`
	EndDate      time.Time `gorm:"not null" json:"end_date"`
	PaymentTerms string    `json:"payment_terms"`
	TotalValue   int64     `gorm:"not null" json:"total_value"`
	Status       string    `gorm:"default:pending_vendor;index" json:"status"`
	CreatedBy    uint      `gorm:"not null;index" json:"created_by"`
	CreatedAt    time.Time `gorm:"index" json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Associations
	Vendor   Vendor          `gorm:"foreignKey:VendorID" json:"vendor,omitempty"`
	Category Category        `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Creator  User            `gorm:"foreignKey:CreatedBy" json:"creator,omitempty"`
	Items    []AgreementItem `gorm:"foreignKey:AgreementID" json:"items,omitempty"`
}

// TableName specifies the table name for Agreement
func (Agreement) TableName() string {
	return "agreements"
}

// Agreement status constants
const (
	AgreementStatusPendingVendor = "pending_vendor"
	AgreementStatusPendingCFO    = "pending_cfo"
	AgreementStatusActive        = "active"
	AgreementStatusRejected      = "rejected"
)

// FormatAgreementID builds the year-scoped human readable id, e.g. AGR-2026-007.
func FormatAgreementID(year, seq int) string {
	return fmt.Sprintf("AGR-%d-%03d", year, seq)
}

// MayVendorApprove returns true if the vendor counterparty can sign off
func (a *Agreement) MayVendorApprove() bool {
	return a.Status == AgreementStatusPendingVendor
}

// MayCFOApprove returns true if the CFO can activate the agreement
func (a *Agreement) MayCFOApprove() bool {
	return a.Status == AgreementStatusPendingCFO
}

// MayReject returns true if the agreement can still be rejected
func (a *Agreement) MayReject() bool {
	return a.Status == AgreementStatusPendingVendor || a.Status == AgreementStatusPendingCFO
}

// IsTerminal returns true once no further transition is possible
func (a *Agreement) IsTerminal() bool {
	return a.Status == AgreementStatusActive || a.Status == AgreementStatusRejected
}

// AgreementItem is one immutable line of an agreement.
// Subtotal is fixed at creation time; line items never change after the
// agreement leaves draft.
type AgreementItem struct {
	ID             uint   `gorm:"primaryKey" json:"id"`
	AgreementID    string `gorm:"not null;index;size:20" json:"agreement_id"`
	ItemName       string `gorm:"not null" json:"item_name"`
	Specifications string `gorm:"type:text" json:"specifications"`
	Quantity       int    `gorm:"not null" json:"quantity"`
	UnitPrice      int64  `gorm:"not null" json:"unit_price"`
	Subtotal       int64  `gorm:"not null" json:"subtotal"`
}

// TableName specifies the table name for AgreementItem
func (AgreementItem) TableName() string {
	return "agreement_items"
}

// AgreementResponse is the JSON response format for agreements
type AgreementResponse struct {
	ID           string                  `json:"id"`
	VendorID     uint                    `json:"vendor_id"`
	VendorName   string                  `json:"vendor_name"`
	CategoryID   uint                    `json:"category_id"`
	CategoryName string                  `json:"category_name"`
	Title        string                  `json:"title"`
	StartDate    time.Time               `json:"start_date"`
	EndDate      time.Time               `json:"end_date"`
	PaymentTerms string                  `json:"payment_terms"`
	TotalValue   int64                   `json:"total_value"`
	Status       string                  `json:"status"`
	CreatedBy    uint                    `json:"created_by"`
	CreatedAt    time.Time               `json:"created_at"`
	UpdatedAt    time.Time               `json:"updated_at"`
	Items        []AgreementItemResponse `json:"items"`
}

// AgreementItemResponse is the JSON response format for agreement items
type AgreementItemResponse struct {
	ItemName       string `json:"item_name"`
	Specifications string `json:"specifications"`
	Quantity       int    `json:"quantity"`
	UnitPrice      int64  `json:"unit_price"`
	Subtotal       int64  `json:"subtotal"`
}

// ToResponse converts Agreement to AgreementResponse
func (a *Agreement) ToResponse() AgreementResponse {
	resp := AgreementResponse{
		ID:           a.ID,
		VendorID:     a.VendorID,
		VendorName:   a.Vendor.Name,
		CategoryID:   a.CategoryID,
		CategoryName: a.Category.Name,
		Title:        a.Title,
		StartDate:    a.StartDate,
		EndDate:      a.EndDate,
		PaymentTerms: a.PaymentTerms,
		TotalValue:   a.TotalValue,
		Status:       a.Status,
		CreatedBy:    a.CreatedBy,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
	for _, item := range a.Items {
		resp.Items = append(resp.Items, AgreementItemResponse{
			ItemName:       item.ItemName,
			Specifications: item.Specifications,
			Quantity:       item.Quantity,
			UnitPrice:      item.UnitPrice,
			Subtotal:       item.Subtotal,
		})
	}
	return resp
}
