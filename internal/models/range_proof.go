package models

import (
	"time"
)

// RangeProof is a time-boxed attestation that an aggregate spend total
// satisfies a numeric predicate, issued only when the claim held at
// issuance time. The underlying aggregate is never stored or exposed.
type RangeProof struct {
	ID             string    `gorm:"primaryKey;size:40" json:"id"`
	OwnerUserID    uint      `gorm:"not null;index" json:"owner_user_id"`
	Name           string    `gorm:"not null" json:"name"`
	Purpose        string    `gorm:"type:text" json:"purpose"`
	DateRangeStart time.Time `gorm:"not null" json:"date_range_start"`
	DateRangeEnd   time.Time `gorm:"not null" json:"date_range_end"`
	ProofType      string    `gorm:"size:20;not null" json:"proof_type"`
	RangeMin       int64     `json:"range_min"`
	RangeMax       int64     `json:"range_max"`
	ProofHash      string    `gorm:"not null" json:"proof_hash"`
	Status         string    `gorm:"default:valid;index" json:"status"`
	CreatedAt      time.Time `gorm:"index" json:"created_at"`
	ExpiresAt      time.Time `gorm:"not null" json:"expires_at"`

	// Associations
	Owner User `gorm:"foreignKey:OwnerUserID" json:"owner,omitempty"`
}

// TableName specifies the table name for RangeProof
func (RangeProof) TableName() string {
	return "range_proofs"
}

// Proof predicate constants
const (
	ProofTypeBetween     = "between"
	ProofTypeLessThan    = "less-than"
	ProofTypeGreaterThan = "greater-than"
	ProofTypeEquals      = "equals"
)

// Proof status constants
const (
	ProofStatusValid   = "valid"
	ProofStatusExpired = "expired"
	ProofStatusRevoked = "revoked"
)

// ProofValidity is how long an issued proof remains valid
const ProofValidity = 90 * 24 * time.Hour

// IsKnownProofType reports whether t is one of the supported predicates
func IsKnownProofType(t string) bool {
	switch t {
	case ProofTypeBetween, ProofTypeLessThan, ProofTypeGreaterThan, ProofTypeEquals:
		return true
	}
	return false
}

// EffectiveStatus derives the status at read time. Expiry is never written
// back by a sweep job; a proof past ExpiresAt reports expired even while the
// stored column still says valid.
func (p *RangeProof) EffectiveStatus(now time.Time) string {
	if p.Status == ProofStatusValid && now.After(p.ExpiresAt) {
		return ProofStatusExpired
	}
	return p.Status
}

// SatisfiedBy evaluates the proof predicate against an aggregate total
func SatisfiedBy(proofType string, actual, min, max int64) bool {
	switch proofType {
	case ProofTypeBetween:
		return actual >= min && actual <= max
	case ProofTypeLessThan:
		return actual < max
	case ProofTypeGreaterThan:
		return actual > min
	case ProofTypeEquals:
		return actual == min
	}
	return false
}

// RangeProofResponse is the public verification view of a proof. It carries
// the predicate metadata only, never the aggregate it attests to.
type RangeProofResponse struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Purpose        string    `json:"purpose"`
	DateRangeStart time.Time `json:"date_range_start"`
	DateRangeEnd   time.Time `json:"date_range_end"`
	ProofType      string    `json:"proof_type"`
	RangeMin       int64     `json:"range_min"`
	RangeMax       int64     `json:"range_max"`
	ProofHash      string    `json:"proof_hash"`
	Status         string    `json:"status"`
	Issuer         string    `json:"issuer"`
	CreatedAt      time.Time `json:"created_at"`
	ExpiresAt      time.Time `json:"expires_at"`
}

// ToResponse converts RangeProof to its public view, deriving status lazily
func (p *RangeProof) ToResponse(now time.Time) RangeProofResponse {
	return RangeProofResponse{
		ID:             p.ID,
		Name:           p.Name,
		Purpose:        p.Purpose,
		DateRangeStart: p.DateRangeStart,
		DateRangeEnd:   p.DateRangeEnd,
		ProofType:      p.ProofType,
		RangeMin:       p.RangeMin,
		RangeMax:       p.RangeMax,
		ProofHash:      p.ProofHash,
		Status:         p.EffectiveStatus(now),
		Issuer:         p.Owner.OrganizationName,
		CreatedAt:      p.CreatedAt,
		ExpiresAt:      p.ExpiresAt,
	}
}
