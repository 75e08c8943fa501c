package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents an actor in the procurement workflow
type User struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	Email             string    `gorm:"uniqueIndex;not null" json:"email"`
	EncryptedPassword string    `gorm:"column:encrypted_password;not null" json:"-"`
	Role              string    `gorm:"default:finance;index" json:"role"`
	FullName          string    `json:"full_name"`
	OrganizationName  string    `json:"organization_name"`
	WalletAddress     *string   `gorm:"uniqueIndex" json:"wallet_address"`
	Status            string    `gorm:"default:active" json:"status"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "users"
}

// Role constants
const (
	RoleFinance = "finance"
	RoleVendor  = "vendor"
	RoleCFO     = "cfo"
	RoleAuditor = "auditor"
	RoleAdmin   = "admin"
)

// Status constants
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// BeforeCreate hook for setting defaults
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.Role == "" {
		u.Role = RoleFinance
	}
	if u.Status == "" {
		u.Status = StatusActive
	}
	return nil
}

// IsCFO returns true if user has the cfo role
func (u *User) IsCFO() bool {
	return u.Role == RoleCFO
}

// IsActive returns true if user status is active
func (u *User) IsActive() bool {
	return u.Status == StatusActive
}

// CanApproveAs reports whether the user may act under the given approval role.
// Admins may act as any role; everyone else only as their own.
func (u *User) CanApproveAs(role string) bool {
	return u.Role == RoleAdmin || u.Role == role
}

// UserResponse is the JSON response format for users
type UserResponse struct {
	ID               uint   `json:"id"`
	Email            string `json:"email"`
	Role             string `json:"role"`
	FullName         string `json:"full_name"`
	OrganizationName string `json:"organization_name"`
}

// ToResponse converts User to UserResponse
func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:               u.ID,
		Email:            u.Email,
		Role:             u.Role,
		FullName:         u.FullName,
		OrganizationName: u.OrganizationName,
	}
}
