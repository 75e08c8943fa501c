package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ricolabs/procure-api/internal/ledger"
	"github.com/ricolabs/procure-api/internal/models"
	"github.com/ricolabs/procure-api/internal/repository"
	"github.com/ricolabs/procure-api/internal/statemachine"
	"github.com/ricolabs/procure-api/pkg/logger"
	"gorm.io/gorm"
)

// Action target and verb constants
const (
	TargetAgreement = "agreement"
	TargetInvoice   = "invoice"

	ActionApprove = "approve"
	ActionReject  = "reject"
)

// ActionInput describes one approval decision. The approver identity is
// mandatory; it is never resolved implicitly from storage.
type ActionInput struct {
	TargetType string `json:"type" binding:"required"`
	TargetID   string `json:"id" binding:"required"`
	Action     string `json:"action" binding:"required"`
	Role       string `json:"role"`
	Note       string `json:"note"`
	ApproverID uint   `json:"-"`
}

// PendingApprovals is the review queue for a role
type PendingApprovals struct {
	Agreements   []models.Agreement `json:"agreements"`
	Invoices     []models.Receipt   `json:"invoices"`
	TotalPending int                `json:"total_pending"`
}

// ApprovalService is the single mutation point for agreement and receipt
// status, and the exclusive writer of the approval log. Every call persists
// the state change and exactly one log row in the same transaction, with the
// target row locked so concurrent decisions serialize.
type ApprovalService struct {
	uow    repository.UnitOfWork
	repos  *repository.Repositories
	ledger ledger.Ledger
}

// NewApprovalService creates a new approval action processor
func NewApprovalService(uow repository.UnitOfWork, repos *repository.Repositories, ldg ledger.Ledger) *ApprovalService {
	return &ApprovalService{
		uow:    uow,
		repos:  repos,
		ledger: ldg,
	}
}

// ApplyAction applies a role-gated approve/reject decision to an agreement
// or invoice and appends the audit record atomically.
func (s *ApprovalService) ApplyAction(ctx context.Context, input *ActionInput) error {
	if input.ApproverID == 0 {
		return fmt.Errorf("%w: approver identity is required", ErrValidation)
	}
	if input.Action != ActionApprove && input.Action != ActionReject {
		return fmt.Errorf("%w: unknown action %q", ErrValidation, input.Action)
	}

	switch input.TargetType {
	case TargetAgreement:
		return s.applyAgreementAction(ctx, input)
	case TargetInvoice:
		return s.applyInvoiceAction(ctx, input)
	default:
		return fmt.Errorf("%w: unknown target type %q", ErrValidation, input.TargetType)
	}
}

func (s *ApprovalService) applyAgreementAction(ctx context.Context, input *ActionInput) error {
	if input.Role != models.RoleVendor && input.Role != models.RoleCFO {
		return fmt.Errorf("%w: role %q cannot act on agreements", ErrUnauthorized, input.Role)
	}

	err := s.uow.Execute(ctx, func(tx *repository.Repositories) error {
		agreement, err := tx.Agreement.FindByIDForUpdate(ctx, input.TargetID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: agreement %s", ErrNotFound, input.TargetID)
			}
			return err
		}
		if agreement.IsTerminal() {
			return fmt.Errorf("%w: agreement %s is already %s", ErrInvalidState, agreement.ID, agreement.Status)
		}

		fsm := statemachine.NewAgreementFSM(agreement)
		switch {
		case input.Action == ActionReject:
			if err := fsm.Reject(ctx); err != nil {
				return fmt.Errorf("%w: %v", ErrInvalidState, err)
			}
		case input.Role == models.RoleVendor:
			if err := fsm.VendorApprove(ctx); err != nil {
				return fmt.Errorf("%w: %v", ErrInvalidState, err)
			}
		case input.Role == models.RoleCFO:
			if err := fsm.CFOApprove(ctx); err != nil {
				return fmt.Errorf("%w: %v", ErrInvalidState, err)
			}
		}

		if err := tx.Agreement.UpdateStatus(ctx, agreement.ID, agreement.Status); err != nil {
			return err
		}

		id := agreement.ID
		return tx.ApprovalLog.Create(ctx, &models.ApprovalLog{
			AgreementID: &id,
			ApproverID:  input.ApproverID,
			RoleAtTime:  input.Role,
			Action:      strings.ToUpper(input.Action),
			Notes:       input.Note,
		})
	})
	if err != nil {
		return err
	}

	logger.Info("Agreement action applied", "id", input.TargetID, "action", input.Action, "role", input.Role)
	return nil
}

func (s *ApprovalService) applyInvoiceAction(ctx context.Context, input *ActionInput) error {
	if input.Role != models.RoleCFO {
		return fmt.Errorf("%w: role %q cannot decide invoices", ErrUnauthorized, input.Role)
	}

	err := s.uow.Execute(ctx, func(tx *repository.Repositories) error {
		receipt, err := tx.Receipt.FindByIDForUpdate(ctx, input.TargetID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: receipt %s", ErrNotFound, input.TargetID)
			}
			return err
		}
		if receipt.IsTerminal() {
			return fmt.Errorf("%w: receipt %s is already %s", ErrInvalidState, receipt.ID, receipt.Status)
		}

		fsm := statemachine.NewReceiptFSM(receipt)
		if input.Action == ActionReject {
			if err := fsm.Reject(ctx); err != nil {
				return fmt.Errorf("%w: %v", ErrInvalidState, err)
			}
		} else {
			if err := fsm.Approve(ctx); err != nil {
				return fmt.Errorf("%w: %v", ErrInvalidState, err)
			}

			// Settlement happens inside the transaction: a ledger failure
			// rolls back both the status change and the log row.
			ref, err := s.ledger.Settle(ctx, receipt.ID, receipt.TotalAmount)
			if err != nil {
				return fmt.Errorf("%w: ledger settlement: %v", ErrDependency, err)
			}
			if err := tx.Receipt.AttachBlockchainRecord(ctx, &models.BlockchainRecord{
				ReceiptID:   receipt.ID,
				TxHash:      ref.TransactionID,
				BlockNumber: ref.BlockReference,
				Network:     ref.NetworkName,
			}); err != nil {
				return err
			}
		}

		if err := tx.Receipt.UpdateStatus(ctx, receipt.ID, receipt.Status); err != nil {
			return err
		}

		id := receipt.ID
		return tx.ApprovalLog.Create(ctx, &models.ApprovalLog{
			ReceiptID:  &id,
			ApproverID: input.ApproverID,
			RoleAtTime: input.Role,
			Action:     strings.ToUpper(input.Action),
			Notes:      input.Note,
		})
	})
	if err != nil {
		return err
	}

	logger.Info("Invoice action applied", "id", input.TargetID, "action", input.Action)
	return nil
}

// UpdateDailyLimit upserts a category's daily limit and records the change
// in the approval log, under the same atomic mutate+audit contract.
func (s *ApprovalService) UpdateDailyLimit(ctx context.Context, categoryID uint, newAmount int64, approverID uint) (*models.DailyLimit, error) {
	if approverID == 0 {
		return nil, fmt.Errorf("%w: approver identity is required", ErrValidation)
	}
	if newAmount < 0 {
		return nil, fmt.Errorf("%w: limit amount cannot be negative", ErrValidation)
	}

	var limit *models.DailyLimit
	err := s.uow.Execute(ctx, func(tx *repository.Repositories) error {
		if _, err := tx.Reference.FindCategory(ctx, categoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: category %d", ErrNotFound, categoryID)
			}
			return err
		}

		var oldAmount int64
		if existing, err := tx.Reference.GetDailyLimit(ctx, categoryID); err != nil {
			return err
		} else if existing != nil {
			oldAmount = existing.LimitAmount
		}

		var err error
		limit, err = tx.Reference.UpsertDailyLimit(ctx, categoryID, newAmount)
		if err != nil {
			return err
		}

		return tx.ApprovalLog.Create(ctx, &models.ApprovalLog{
			ApproverID: approverID,
			RoleAtTime: models.RoleCFO,
			Action:     models.ApprovalActionLimitUpdate,
			Notes:      fmt.Sprintf("Limit changed from %d to %d", oldAmount, newAmount),
		})
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Daily limit updated", "category_id", categoryID, "amount", newAmount)
	return limit, nil
}

// Pending returns the review queue for the given role: the vendor sees
// agreements awaiting countersignature, everyone else gets the CFO view.
func (s *ApprovalService) Pending(ctx context.Context, role string) (*PendingApprovals, error) {
	result := &PendingApprovals{}

	if role == models.RoleVendor {
		agreements, err := s.repos.Agreement.FindByStatus(ctx, models.AgreementStatusPendingVendor)
		if err != nil {
			return nil, err
		}
		result.Agreements = agreements
	} else {
		agreements, err := s.repos.Agreement.FindByStatus(ctx, models.AgreementStatusPendingCFO)
		if err != nil {
			return nil, err
		}
		invoices, err := s.repos.Receipt.FindByStatus(ctx, models.ReceiptStatusPendingApproval)
		if err != nil {
			return nil, err
		}
		result.Agreements = agreements
		result.Invoices = invoices
	}

	result.TotalPending = len(result.Agreements) + len(result.Invoices)
	return result, nil
}

// Logs lists approval log entries, newest first
func (s *ApprovalService) Logs(ctx context.Context, query *repository.ListQuery) ([]models.ApprovalLog, int64, error) {
	return s.repos.ApprovalLog.List(ctx, query)
}
