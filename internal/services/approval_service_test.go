package services

import (
	"context"
	"errors"
	"testing"

	"github.com/ricolabs/procure-api/internal/ledger"
	"github.com/ricolabs/procure-api/internal/models"
	"github.com/ricolabs/procure-api/internal/repository"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type approvalFixture struct {
	service       *ApprovalService
	agreementRepo *mockAgreementRepo
	receiptRepo   *mockReceiptRepo
	logRepo       *mockApprovalLogRepo
	referenceRepo *mockReferenceRepo
	ledger        *mockLedger
}

func newApprovalFixture() *approvalFixture {
	f := &approvalFixture{
		agreementRepo: &mockAgreementRepo{},
		receiptRepo:   &mockReceiptRepo{},
		logRepo:       &mockApprovalLogRepo{},
		referenceRepo: &mockReferenceRepo{},
		ledger:        &mockLedger{},
	}
	repos := &repository.Repositories{
		Agreement:   f.agreementRepo,
		Receipt:     f.receiptRepo,
		ApprovalLog: f.logRepo,
		Reference:   f.referenceRepo,
	}
	f.service = NewApprovalService(&mockUnitOfWork{repos: repos}, repos, f.ledger)
	return f
}

func TestApprovalService_AgreementVendorApprove(t *testing.T) {
	f := newApprovalFixture()

	statusWritten := ""
	f.agreementRepo.mockFindByIDForUpdate = func(ctx context.Context, id string) (*models.Agreement, error) {
		return &models.Agreement{ID: id, Status: models.AgreementStatusPendingVendor}, nil
	}
	f.agreementRepo.mockUpdateStatus = func(ctx context.Context, id, status string) error {
		statusWritten = status
		return nil
	}

	err := f.service.ApplyAction(context.Background(), &ActionInput{
		TargetType: TargetAgreement,
		TargetID:   "AGR-2026-001",
		Action:     ActionApprove,
		Role:       models.RoleVendor,
		ApproverID: 3,
	})

	assert.NoError(t, err)
	assert.Equal(t, models.AgreementStatusPendingCFO, statusWritten)
	assert.Len(t, f.logRepo.entries, 1)
	entry := f.logRepo.entries[0]
	assert.Equal(t, "APPROVE", entry.Action)
	assert.Equal(t, models.RoleVendor, entry.RoleAtTime)
	assert.Equal(t, uint(3), entry.ApproverID)
	assert.Equal(t, "AGR-2026-001", *entry.AgreementID)
	assert.Nil(t, entry.ReceiptID)
}

func TestApprovalService_AgreementCFOApproveActivates(t *testing.T) {
	f := newApprovalFixture()

	statusWritten := ""
	f.agreementRepo.mockFindByIDForUpdate = func(ctx context.Context, id string) (*models.Agreement, error) {
		return &models.Agreement{ID: id, Status: models.AgreementStatusPendingCFO}, nil
	}
	f.agreementRepo.mockUpdateStatus = func(ctx context.Context, id, status string) error {
		statusWritten = status
		return nil
	}

	err := f.service.ApplyAction(context.Background(), &ActionInput{
		TargetType: TargetAgreement,
		TargetID:   "AGR-2026-001",
		Action:     ActionApprove,
		Role:       models.RoleCFO,
		ApproverID: 5,
	})

	assert.NoError(t, err)
	assert.Equal(t, models.AgreementStatusActive, statusWritten)
	assert.Len(t, f.logRepo.entries, 1)
}

// Re-approving an already active agreement is refused. The terminal guard
// also blocks repeat approvals instead of silently re-running them.
func TestApprovalService_AgreementDoubleApproveRefused(t *testing.T) {
	f := newApprovalFixture()

	f.agreementRepo.mockFindByIDForUpdate = func(ctx context.Context, id string) (*models.Agreement, error) {
		return &models.Agreement{ID: id, Status: models.AgreementStatusActive}, nil
	}

	err := f.service.ApplyAction(context.Background(), &ActionInput{
		TargetType: TargetAgreement,
		TargetID:   "AGR-2026-001",
		Action:     ActionApprove,
		Role:       models.RoleCFO,
		ApproverID: 5,
	})

	assert.ErrorIs(t, err, ErrInvalidState)
	assert.Empty(t, f.logRepo.entries)
}

func TestApprovalService_AgreementWrongRoleStageRefused(t *testing.T) {
	f := newApprovalFixture()

	// CFO cannot approve while the agreement still awaits the vendor
	f.agreementRepo.mockFindByIDForUpdate = func(ctx context.Context, id string) (*models.Agreement, error) {
		return &models.Agreement{ID: id, Status: models.AgreementStatusPendingVendor}, nil
	}

	err := f.service.ApplyAction(context.Background(), &ActionInput{
		TargetType: TargetAgreement,
		TargetID:   "AGR-2026-001",
		Action:     ActionApprove,
		Role:       models.RoleCFO,
		ApproverID: 5,
	})

	assert.ErrorIs(t, err, ErrInvalidState)
	assert.Empty(t, f.logRepo.entries)
}

func TestApprovalService_AgreementRejectFromEitherStage(t *testing.T) {
	for _, status := range []string{models.AgreementStatusPendingVendor, models.AgreementStatusPendingCFO} {
		f := newApprovalFixture()

		statusWritten := ""
		f.agreementRepo.mockFindByIDForUpdate = func(ctx context.Context, id string) (*models.Agreement, error) {
			return &models.Agreement{ID: id, Status: status}, nil
		}
		f.agreementRepo.mockUpdateStatus = func(ctx context.Context, id, s string) error {
			statusWritten = s
			return nil
		}

		err := f.service.ApplyAction(context.Background(), &ActionInput{
			TargetType: TargetAgreement,
			TargetID:   "AGR-2026-001",
			Action:     ActionReject,
			Role:       models.RoleCFO,
			Note:       "budget withdrawn",
			ApproverID: 5,
		})

		assert.NoError(t, err)
		assert.Equal(t, models.AgreementStatusRejected, statusWritten)
		assert.Equal(t, "REJECT", f.logRepo.entries[0].Action)
		assert.Equal(t, "budget withdrawn", f.logRepo.entries[0].Notes)
	}
}

func TestApprovalService_MissingApproverRefused(t *testing.T) {
	f := newApprovalFixture()

	err := f.service.ApplyAction(context.Background(), &ActionInput{
		TargetType: TargetAgreement,
		TargetID:   "AGR-2026-001",
		Action:     ActionApprove,
		Role:       models.RoleVendor,
	})

	assert.ErrorIs(t, err, ErrValidation)
}

func TestApprovalService_FinanceCannotDecide(t *testing.T) {
	f := newApprovalFixture()

	err := f.service.ApplyAction(context.Background(), &ActionInput{
		TargetType: TargetAgreement,
		TargetID:   "AGR-2026-001",
		Action:     ActionApprove,
		Role:       models.RoleFinance,
		ApproverID: 2,
	})
	assert.ErrorIs(t, err, ErrUnauthorized)

	err = f.service.ApplyAction(context.Background(), &ActionInput{
		TargetType: TargetInvoice,
		TargetID:   "RCP-2026-0001",
		Action:     ActionApprove,
		Role:       models.RoleVendor,
		ApproverID: 3,
	})
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestApprovalService_InvoiceApproveSettlesOnLedger(t *testing.T) {
	f := newApprovalFixture()

	statusWritten := ""
	var attached *models.BlockchainRecord
	f.receiptRepo.mockFindByIDForUpdate = func(ctx context.Context, id string) (*models.Receipt, error) {
		return &models.Receipt{ID: id, Status: models.ReceiptStatusPendingApproval, TotalAmount: 9_000_000}, nil
	}
	f.receiptRepo.mockUpdateStatus = func(ctx context.Context, id, status string) error {
		statusWritten = status
		return nil
	}
	f.receiptRepo.mockAttachBlockchainRecord = func(ctx context.Context, record *models.BlockchainRecord) error {
		attached = record
		return nil
	}

	err := f.service.ApplyAction(context.Background(), &ActionInput{
		TargetType: TargetInvoice,
		TargetID:   "RCP-2026-0001",
		Action:     ActionApprove,
		Role:       models.RoleCFO,
		ApproverID: 5,
	})

	assert.NoError(t, err)
	assert.Equal(t, models.ReceiptStatusVerified, statusWritten)
	assert.Equal(t, []string{"RCP-2026-0001"}, f.ledger.settled)
	assert.NotNil(t, attached)
	assert.Equal(t, "RCP-2026-0001", attached.ReceiptID)
	assert.Equal(t, "RCP-2026-0001", *f.logRepo.entries[0].ReceiptID)
}

func TestApprovalService_InvoiceLedgerFailureAborts(t *testing.T) {
	f := newApprovalFixture()

	f.receiptRepo.mockFindByIDForUpdate = func(ctx context.Context, id string) (*models.Receipt, error) {
		return &models.Receipt{ID: id, Status: models.ReceiptStatusPendingApproval, TotalAmount: 9_000_000}, nil
	}
	f.ledger.mockSettle = func(ctx context.Context, receiptID string, amount int64) (*ledger.SettlementRef, error) {
		return nil, errors.New("network unreachable")
	}

	err := f.service.ApplyAction(context.Background(), &ActionInput{
		TargetType: TargetInvoice,
		TargetID:   "RCP-2026-0001",
		Action:     ActionApprove,
		Role:       models.RoleCFO,
		ApproverID: 5,
	})

	assert.ErrorIs(t, err, ErrDependency)
	assert.Empty(t, f.logRepo.entries)
}

func TestApprovalService_InvoiceRejectSkipsLedger(t *testing.T) {
	f := newApprovalFixture()

	statusWritten := ""
	f.receiptRepo.mockFindByIDForUpdate = func(ctx context.Context, id string) (*models.Receipt, error) {
		return &models.Receipt{ID: id, Status: models.ReceiptStatusPendingApproval}, nil
	}
	f.receiptRepo.mockUpdateStatus = func(ctx context.Context, id, status string) error {
		statusWritten = status
		return nil
	}

	err := f.service.ApplyAction(context.Background(), &ActionInput{
		TargetType: TargetInvoice,
		TargetID:   "RCP-2026-0001",
		Action:     ActionReject,
		Role:       models.RoleCFO,
		ApproverID: 5,
	})

	assert.NoError(t, err)
	assert.Equal(t, models.ReceiptStatusRejected, statusWritten)
	assert.Empty(t, f.ledger.settled)
	assert.Equal(t, "REJECT", f.logRepo.entries[0].Action)
}

func TestApprovalService_UnknownTargetRefused(t *testing.T) {
	f := newApprovalFixture()

	err := f.service.ApplyAction(context.Background(), &ActionInput{
		TargetType: "payment",
		TargetID:   "X-1",
		Action:     ActionApprove,
		Role:       models.RoleCFO,
		ApproverID: 5,
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestApprovalService_AgreementNotFound(t *testing.T) {
	f := newApprovalFixture()

	f.agreementRepo.mockFindByIDForUpdate = func(ctx context.Context, id string) (*models.Agreement, error) {
		return nil, gorm.ErrRecordNotFound
	}

	err := f.service.ApplyAction(context.Background(), &ActionInput{
		TargetType: TargetAgreement,
		TargetID:   "AGR-2026-999",
		Action:     ActionApprove,
		Role:       models.RoleVendor,
		ApproverID: 3,
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestApprovalService_UpdateDailyLimit(t *testing.T) {
	f := newApprovalFixture()

	f.referenceRepo.mockFindCategory = func(ctx context.Context, id uint) (*models.Category, error) {
		return &models.Category{ID: id, Name: "Furniture"}, nil
	}
	f.referenceRepo.mockGetDailyLimit = func(ctx context.Context, categoryID uint) (*models.DailyLimit, error) {
		return &models.DailyLimit{CategoryID: categoryID, LimitAmount: 50_000_000}, nil
	}
	f.referenceRepo.mockUpsertDailyLimit = func(ctx context.Context, categoryID uint, amount int64) (*models.DailyLimit, error) {
		return &models.DailyLimit{CategoryID: categoryID, LimitAmount: amount}, nil
	}

	limit, err := f.service.UpdateDailyLimit(context.Background(), 1, 80_000_000, 5)

	assert.NoError(t, err)
	assert.Equal(t, int64(80_000_000), limit.LimitAmount)
	assert.Len(t, f.logRepo.entries, 1)
	entry := f.logRepo.entries[0]
	assert.Equal(t, models.ApprovalActionLimitUpdate, entry.Action)
	assert.Equal(t, "Limit changed from 50000000 to 80000000", entry.Notes)
	assert.Nil(t, entry.AgreementID)
	assert.Nil(t, entry.ReceiptID)
}

func TestApprovalService_PendingQueuesByRole(t *testing.T) {
	f := newApprovalFixture()

	f.agreementRepo.mockFindByStatus = func(ctx context.Context, status string) ([]models.Agreement, error) {
		return []models.Agreement{{ID: "AGR-2026-001", Status: status}}, nil
	}
	f.receiptRepo.mockFindByStatus = func(ctx context.Context, status string) ([]models.Receipt, error) {
		return []models.Receipt{{ID: "RCP-2026-0001", Status: status}}, nil
	}

	vendorQueue, err := f.service.Pending(context.Background(), models.RoleVendor)
	assert.NoError(t, err)
	assert.Len(t, vendorQueue.Agreements, 1)
	assert.Equal(t, models.AgreementStatusPendingVendor, vendorQueue.Agreements[0].Status)
	assert.Empty(t, vendorQueue.Invoices)
	assert.Equal(t, 1, vendorQueue.TotalPending)

	cfoQueue, err := f.service.Pending(context.Background(), models.RoleCFO)
	assert.NoError(t, err)
	assert.Equal(t, models.AgreementStatusPendingCFO, cfoQueue.Agreements[0].Status)
	assert.Len(t, cfoQueue.Invoices, 1)
	assert.Equal(t, 2, cfoQueue.TotalPending)
}
