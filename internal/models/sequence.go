package models

// DocumentSequence backs the year-scoped human readable ids (AGR-YYYY-NNN,
// RCP-YYYY-NNNN). The row is locked FOR UPDATE inside the creating
// transaction so numbering stays monotonic and collision free under
// concurrent creation.
type DocumentSequence struct {
	Scope string `gorm:"primaryKey;size:10"` // "AGR" or "RCP"
	Year  int    `gorm:"primaryKey"`
	Value int    `gorm:"not null"`
}

// TableName specifies the table name for DocumentSequence
func (DocumentSequence) TableName() string {
	return "document_sequences"
}
