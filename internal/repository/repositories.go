package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repositories holds all repository instances
type Repositories struct {
	User        UserRepository
	Reference   ReferenceRepository
	Agreement   AgreementRepository
	Receipt     ReceiptRepository
	ApprovalLog ApprovalLogRepository
	Proof       ProofRepository
	Sequence    SequenceRepository
}

// NewRepositories creates all repository instances
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:        NewUserRepository(db),
		Reference:   NewReferenceRepository(db),
		Agreement:   NewAgreementRepository(db),
		Receipt:     NewReceiptRepository(db),
		ApprovalLog: NewApprovalLogRepository(db),
		Proof:       NewProofRepository(db),
		Sequence:    NewSequenceRepository(db),
	}
}

// UnitOfWork runs a function against transaction-scoped repositories.
// Mutation and its approval log entry commit or roll back together; a log
// row without its mutation (or the reverse) never reaches the database.
type UnitOfWork interface {
	Execute(ctx context.Context, fn func(tx *Repositories) error) error
}

type gormUnitOfWork struct {
	db *gorm.DB
}

// NewUnitOfWork creates a GORM-backed unit of work
func NewUnitOfWork(db *gorm.DB) UnitOfWork {
	return &gormUnitOfWork{db: db}
}

func (u *gormUnitOfWork) Execute(ctx context.Context, fn func(tx *Repositories) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(tx))
	})
}

// ListQuery holds common pagination parameters
type ListQuery struct {
	Page    int
	PerPage int
	Search  string
	SortBy  string
	SortDir string
	Filters map[string]string
}

// NewListQuery creates a ListQuery with defaults
func NewListQuery() *ListQuery {
	return &ListQuery{
		Page:    1,
		PerPage: 20,
		Filters: make(map[string]string),
	}
}

// Offset returns the row offset for the current page
func (q *ListQuery) Offset() int {
	if q.Page < 1 {
		q.Page = 1
	}
	return (q.Page - 1) * q.PerPage
}
