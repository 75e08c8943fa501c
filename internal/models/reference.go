package models

import (
	"time"
)

// Vendor is immutable reference data created by admin import.
type Vendor struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null;uniqueIndex" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for Vendor
func (Vendor) TableName() string {
	return "vendors"
}

// Category classifies spend and drives the daily limit lookup.
type Category struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null;uniqueIndex" json:"name"`
	IsActive  bool      `gorm:"default:true;index" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for Category
func (Category) TableName() string {
	return "categories"
}

// DefaultDailyLimit is the fallback ceiling (in minor units) applied when a
// category has no explicit limit row.
const DefaultDailyLimit int64 = 50_000_000

// DailyLimit is the per-category maximum daily spend, upserted by the CFO.
type DailyLimit struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CategoryID  uint      `gorm:"uniqueIndex;not null" json:"category_id"`
	LimitAmount int64     `gorm:"not null" json:"limit_amount"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Associations
	Category Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

// TableName specifies the table name for DailyLimit
func (DailyLimit) TableName() string {
	return "daily_limits"
}

// CategoryLimit is the left-join view of category × optional limit.
// LimitAmount is 0 and LimitID nil when no limit row has been set.
type CategoryLimit struct {
	CategoryID  uint     `json:"category_id"`
	Category    Category `json:"category"`
	LimitAmount int64    `json:"limit_amount"`
	LimitID     *uint    `json:"id"`
}
