package services

import (
	"context"
	"time"

	"github.com/ricolabs/procure-api/internal/ledger"
	"github.com/ricolabs/procure-api/internal/models"
	"github.com/ricolabs/procure-api/internal/repository"
)

type mockAgreementRepo struct {
	repository.AgreementRepository
	mockCreate              func(ctx context.Context, agreement *models.Agreement) error
	mockFindByIDWithDetails func(ctx context.Context, id string) (*models.Agreement, error)
	mockFindByIDForUpdate   func(ctx context.Context, id string) (*models.Agreement, error)
	mockUpdateStatus        func(ctx context.Context, id, status string) error
	mockFindByStatus        func(ctx context.Context, status string) ([]models.Agreement, error)
}

func (m *mockAgreementRepo) Create(ctx context.Context, agreement *models.Agreement) error {
	return m.mockCreate(ctx, agreement)
}

func (m *mockAgreementRepo) FindByIDWithDetails(ctx context.Context, id string) (*models.Agreement, error) {
	return m.mockFindByIDWithDetails(ctx, id)
}

func (m *mockAgreementRepo) FindByIDForUpdate(ctx context.Context, id string) (*models.Agreement, error) {
	return m.mockFindByIDForUpdate(ctx, id)
}

func (m *mockAgreementRepo) UpdateStatus(ctx context.Context, id, status string) error {
	if m.mockUpdateStatus != nil {
		return m.mockUpdateStatus(ctx, id, status)
	}
	return nil
}

func (m *mockAgreementRepo) FindByStatus(ctx context.Context, status string) ([]models.Agreement, error) {
	return m.mockFindByStatus(ctx, status)
}

type mockReferenceRepo struct {
	repository.ReferenceRepository
	mockFindVendor       func(ctx context.Context, id uint) (*models.Vendor, error)
	mockFindCategory     func(ctx context.Context, id uint) (*models.Category, error)
	mockGetDailyLimit    func(ctx context.Context, categoryID uint) (*models.DailyLimit, error)
	mockUpsertDailyLimit func(ctx context.Context, categoryID uint, amount int64) (*models.DailyLimit, error)
}

func (m *mockReferenceRepo) FindVendor(ctx context.Context, id uint) (*models.Vendor, error) {
	return m.mockFindVendor(ctx, id)
}

func (m *mockReferenceRepo) FindCategory(ctx context.Context, id uint) (*models.Category, error) {
	return m.mockFindCategory(ctx, id)
}

func (m *mockReferenceRepo) GetDailyLimit(ctx context.Context, categoryID uint) (*models.DailyLimit, error) {
	return m.mockGetDailyLimit(ctx, categoryID)
}

func (m *mockReferenceRepo) UpsertDailyLimit(ctx context.Context, categoryID uint, amount int64) (*models.DailyLimit, error) {
	return m.mockUpsertDailyLimit(ctx, categoryID, amount)
}

type mockReceiptRepo struct {
	repository.ReceiptRepository
	mockCreate                 func(ctx context.Context, receipt *models.Receipt) error
	mockFindByIDForUpdate      func(ctx context.Context, id string) (*models.Receipt, error)
	mockUpdateStatus           func(ctx context.Context, id, status string) error
	mockAttachBlockchainRecord func(ctx context.Context, record *models.BlockchainRecord) error
	mockFindByStatus           func(ctx context.Context, status string) ([]models.Receipt, error)
	mockSumVerifiedInRange     func(ctx context.Context, start, end time.Time) (int64, error)
}

func (m *mockReceiptRepo) Create(ctx context.Context, receipt *models.Receipt) error {
	return m.mockCreate(ctx, receipt)
}

func (m *mockReceiptRepo) FindByIDForUpdate(ctx context.Context, id string) (*models.Receipt, error) {
	return m.mockFindByIDForUpdate(ctx, id)
}

func (m *mockReceiptRepo) UpdateStatus(ctx context.Context, id, status string) error {
	if m.mockUpdateStatus != nil {
		return m.mockUpdateStatus(ctx, id, status)
	}
	return nil
}

func (m *mockReceiptRepo) AttachBlockchainRecord(ctx context.Context, record *models.BlockchainRecord) error {
	if m.mockAttachBlockchainRecord != nil {
		return m.mockAttachBlockchainRecord(ctx, record)
	}
	return nil
}

func (m *mockReceiptRepo) FindByStatus(ctx context.Context, status string) ([]models.Receipt, error) {
	return m.mockFindByStatus(ctx, status)
}

func (m *mockReceiptRepo) SumVerifiedInRange(ctx context.Context, start, end time.Time) (int64, error) {
	return m.mockSumVerifiedInRange(ctx, start, end)
}

type mockApprovalLogRepo struct {
	repository.ApprovalLogRepository
	entries    []models.ApprovalLog
	mockCreate func(ctx context.Context, entry *models.ApprovalLog) error
}

func (m *mockApprovalLogRepo) Create(ctx context.Context, entry *models.ApprovalLog) error {
	if m.mockCreate != nil {
		return m.mockCreate(ctx, entry)
	}
	m.entries = append(m.entries, *entry)
	return nil
}

type mockSequenceRepo struct {
	repository.SequenceRepository
	mockNext func(ctx context.Context, scope string, year int) (int, error)
}

func (m *mockSequenceRepo) Next(ctx context.Context, scope string, year int) (int, error) {
	return m.mockNext(ctx, scope, year)
}

type mockProofRepo struct {
	repository.ProofRepository
	created          []models.RangeProof
	mockFindByID     func(ctx context.Context, id string) (*models.RangeProof, error)
	mockUpdateStatus func(ctx context.Context, id, status string) error
}

func (m *mockProofRepo) Create(ctx context.Context, proof *models.RangeProof) error {
	m.created = append(m.created, *proof)
	return nil
}

func (m *mockProofRepo) FindByID(ctx context.Context, id string) (*models.RangeProof, error) {
	return m.mockFindByID(ctx, id)
}

func (m *mockProofRepo) UpdateStatus(ctx context.Context, id, status string) error {
	if m.mockUpdateStatus != nil {
		return m.mockUpdateStatus(ctx, id, status)
	}
	return nil
}

// mockUnitOfWork invokes the callback against a fixed repository set, so the
// transactional code paths run without a database.
type mockUnitOfWork struct {
	repos *repository.Repositories
}

func (m *mockUnitOfWork) Execute(ctx context.Context, fn func(tx *repository.Repositories) error) error {
	return fn(m.repos)
}

type mockLedger struct {
	settled    []string
	mockSettle func(ctx context.Context, receiptID string, amount int64) (*ledger.SettlementRef, error)
}

func (m *mockLedger) Settle(ctx context.Context, receiptID string, amount int64) (*ledger.SettlementRef, error) {
	if m.mockSettle != nil {
		return m.mockSettle(ctx, receiptID, amount)
	}
	m.settled = append(m.settled, receiptID)
	return &ledger.SettlementRef{
		TransactionID:  "0xabc123",
		BlockReference: 12_000_042,
		NetworkName:    "sepolia",
	}, nil
}
