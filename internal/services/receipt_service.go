package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ricolabs/procure-api/internal/ledger"
	"github.com/ricolabs/procure-api/internal/models"
	"github.com/ricolabs/procure-api/internal/repository"
	"github.com/ricolabs/procure-api/internal/storage"
	"github.com/ricolabs/procure-api/pkg/logger"
	"gorm.io/gorm"
)

// SubmitResult is what a submission returns: the persisted receipt plus the
// compliance report that decided its initial status.
type SubmitResult struct {
	Receipt *models.Receipt   `json:"receipt"`
	Report  *ComplianceReport `json:"report"`
}

// ReceiptService owns invoice submission and reads. A submission runs the
// compliance gate and persists the receipt with the verdict's initial
// status; auto-settled receipts are anchored on the ledger in the same
// transaction so a settlement failure leaves nothing behind.
type ReceiptService struct {
	repo       repository.ReceiptRepository
	compliance *ComplianceService
	uow        repository.UnitOfWork
	ledger     ledger.Ledger
	documents  storage.DocumentStore
}

// NewReceiptService creates a new receipt service
func NewReceiptService(repo repository.ReceiptRepository, compliance *ComplianceService, uow repository.UnitOfWork, ldg ledger.Ledger, documents storage.DocumentStore) *ReceiptService {
	return &ReceiptService{
		repo:       repo,
		compliance: compliance,
		uow:        uow,
		ledger:     ldg,
		documents:  documents,
	}
}

// Evaluate runs the compliance gate for a draft invoice without persisting
// anything.
func (s *ReceiptService) Evaluate(ctx context.Context, input *ReceiptInput) (*ComplianceReport, error) {
	report, _, err := s.compliance.Evaluate(ctx, input)
	return report, err
}

// Submit validates and persists a candidate invoice. The gate's verdict
// determines the initial status: verified (auto-settle, ledger anchored) or
// pending_approval (escalated to the CFO queue).
func (s *ReceiptService) Submit(ctx context.Context, input *ReceiptInput, creatorID uint) (*SubmitResult, error) {
	if creatorID == 0 {
		return nil, fmt.Errorf("%w: actor identity is required", ErrValidation)
	}
	if len(input.Items) == 0 {
		return nil, fmt.Errorf("%w: invoice requires at least one line item", ErrValidation)
	}
	if input.TaxAmount < 0 {
		return nil, fmt.Errorf("%w: tax amount cannot be negative", ErrValidation)
	}

	report, agreement, err := s.compliance.Evaluate(ctx, input)
	if err != nil {
		return nil, err
	}

	// Document storage happens before the transaction; its identifier is
	// opaque to the workflow and an orphaned stored document is harmless.
	var cid string
	if len(input.Document) > 0 {
		cid, err = s.documents.Put(input.Document, input.FileType)
		if err != nil {
			return nil, fmt.Errorf("%w: document store: %v", ErrDependency, err)
		}
	}

	var receipt *models.Receipt
	err = s.uow.Execute(ctx, func(tx *repository.Repositories) error {
		year := time.Now().Year()
		seq, err := tx.Sequence.Next(ctx, repository.SequenceScopeReceipt, year)
		if err != nil {
			return err
		}
		id := models.FormatReceiptID(year, seq)

		items := make([]models.ReceiptItem, 0, len(input.Items))
		for i, item := range input.Items {
			items = append(items, models.ReceiptItem{
				Description: item.Description,
				Quantity:    item.Quantity,
				UnitPrice:   item.UnitPrice,
				Total:       item.Total,
				Sequence:    i + 1,
			})
		}

		receipt = &models.Receipt{
			ID:              id,
			AgreementID:     agreement.ID,
			CategoryID:      agreement.CategoryID,
			VendorName:      input.VendorName,
			InvoiceNumber:   input.InvoiceNumber,
			ReceiptDate:     input.ReceiptDate,
			Subtotal:        input.Subtotal(),
			TaxAmount:       input.TaxAmount,
			TotalAmount:     input.GrandTotal(),
			Status:          report.InitialStatus,
			ConfidenceScore: input.ConfidenceScore,
			CreatedBy:       creatorID,
			Items:           items,
		}
		if cid != "" {
			receipt.IpfsRecord = &models.IpfsRecord{CID: cid, FileType: input.FileType}
		}

		// Auto-settled receipts are anchored before commit; a ledger
		// failure rolls the whole submission back.
		if report.InitialStatus == models.ReceiptStatusVerified {
			ref, err := s.ledger.Settle(ctx, id, receipt.TotalAmount)
			if err != nil {
				return fmt.Errorf("%w: ledger settlement: %v", ErrDependency, err)
			}
			receipt.BlockchainRecord = &models.BlockchainRecord{
				TxHash:      ref.TransactionID,
				BlockNumber: ref.BlockReference,
				Network:     ref.NetworkName,
			}
		}

		return tx.Receipt.Create(ctx, receipt)
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Receipt submitted", "id", receipt.ID, "status", receipt.Status, "needs_cfo", report.NeedsCFO)
	return &SubmitResult{Receipt: receipt, Report: report}, nil
}

// FindByID gets a receipt with category, items and settlement records joined
func (s *ReceiptService) FindByID(ctx context.Context, id string) (*models.Receipt, error) {
	receipt, err := s.repo.FindByIDWithDetails(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: receipt %s", ErrNotFound, id)
		}
		return nil, err
	}
	return receipt, nil
}

// List returns receipts ordered newest-first
func (s *ReceiptService) List(ctx context.Context, query *repository.ListQuery) ([]models.Receipt, int64, error) {
	return s.repo.List(ctx, query)
}

// Recent returns the latest submissions for dashboards
func (s *ReceiptService) Recent(ctx context.Context, limit int) ([]models.Receipt, error) {
	if limit <= 0 {
		limit = 5
	}
	return s.repo.FindRecent(ctx, limit)
}
