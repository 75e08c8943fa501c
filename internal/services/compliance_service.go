package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ricolabs/procure-api/internal/models"
	"github.com/ricolabs/procure-api/internal/repository"
	"gorm.io/gorm"
)

// PriceTolerance is the maximum allowed difference (in minor units) between
// an invoice grand total and its agreement value before the invoice is
// flagged for CFO review.
const PriceTolerance int64 = 5_000_000

// ReceiptItemInput is one candidate invoice line
type ReceiptItemInput struct {
	Description string `json:"description" binding:"required"`
	Quantity    int    `json:"quantity" binding:"required"`
	UnitPrice   int64  `json:"unit_price"`
	Total       int64  `json:"total"`
}

// ReceiptInput is a candidate invoice prior to submission. Extraction
// drafts and manual entry both arrive through this type and are validated
// identically.
type ReceiptInput struct {
	AgreementID     string             `json:"agreement_id" binding:"required"`
	VendorName      string             `json:"vendor_name" binding:"required"`
	InvoiceNumber   string             `json:"invoice_number" binding:"required"`
	ReceiptDate     time.Time          `json:"receipt_date" binding:"required"`
	TaxAmount       int64              `json:"tax_amount"`
	Items           []ReceiptItemInput `json:"items" binding:"required"`
	ConfidenceScore float64            `json:"confidence_score"`
	Document        []byte             `json:"-"`
	FileType        string             `json:"file_type"`
}

// Subtotal sums the item totals
func (in *ReceiptInput) Subtotal() int64 {
	var sum int64
	for _, item := range in.Items {
		sum += item.Total
	}
	return sum
}

// GrandTotal is the billed amount: item totals plus tax
func (in *ReceiptInput) GrandTotal() int64 {
	return in.Subtotal() + in.TaxAmount
}

// TotalQuantity sums the requested quantity across items
func (in *ReceiptInput) TotalQuantity() int {
	var sum int
	for _, item := range in.Items {
		sum += item.Quantity
	}
	return sum
}

// ComplianceCheck is one named check result with a human-readable message
type ComplianceCheck struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message"`
}

// ComplianceReport is the gate's verdict for one candidate invoice. All four
// checks are always computed and reported; it is a diagnostic report, not
// short-circuit validation.
type ComplianceReport struct {
	PriceMatch     ComplianceCheck `json:"price_match"`
	Quantity       ComplianceCheck `json:"quantity"`
	ContractPeriod ComplianceCheck `json:"contract_period"`
	DailyLimit     ComplianceCheck `json:"daily_limit"`
	NeedsCFO       bool            `json:"needs_cfo"`
	InitialStatus  string          `json:"initial_status"`
}

// ComplianceService decides whether a candidate invoice auto-settles or is
// escalated to the CFO queue. It never mutates state.
type ComplianceService struct {
	agreementRepo repository.AgreementRepository
	referenceRepo repository.ReferenceRepository
	strict        bool
}

// NewComplianceService creates the compliance gate. When strict is true any
// failed check escalates, not just price and daily limit.
func NewComplianceService(agreementRepo repository.AgreementRepository, referenceRepo repository.ReferenceRepository, strict bool) *ComplianceService {
	return &ComplianceService{
		agreementRepo: agreementRepo,
		referenceRepo: referenceRepo,
		strict:        strict,
	}
}

// Evaluate resolves the target agreement and its category limit, then runs
// the gate against the candidate invoice.
func (s *ComplianceService) Evaluate(ctx context.Context, input *ReceiptInput) (*ComplianceReport, *models.Agreement, error) {
	agreement, err := s.agreementRepo.FindByIDWithDetails(ctx, input.AgreementID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, fmt.Errorf("%w: agreement %s", ErrNotFound, input.AgreementID)
		}
		return nil, nil, err
	}

	limit, err := s.referenceRepo.GetDailyLimit(ctx, agreement.CategoryID)
	if err != nil {
		return nil, nil, err
	}
	limitAmount := models.DefaultDailyLimit
	if limit != nil && limit.LimitAmount > 0 {
		limitAmount = limit.LimitAmount
	}

	report := EvaluateReport(agreement, limitAmount, input, s.strict)
	return report, agreement, nil
}

// EvaluateReport runs the four compliance checks in fixed order. Quantity
// and contract-period failures are advisory and do not escalate on their
// own; only a price mismatch or a daily-limit breach routes the invoice to
// the CFO queue (unless strict mode is on).
func EvaluateReport(agreement *models.Agreement, dailyLimit int64, input *ReceiptInput, strict bool) *ComplianceReport {
	report := &ComplianceReport{}
	grandTotal := input.GrandTotal()

	// 1. Price consistency against the agreement value
	diff := grandTotal - agreement.TotalValue
	if diff < 0 {
		diff = -diff
	}
	if diff > PriceTolerance {
		report.PriceMatch = ComplianceCheck{
			Valid:   false,
			Message: fmt.Sprintf("Mismatch: agreement %d vs invoice %d", agreement.TotalValue, grandTotal),
		}
	} else {
		report.PriceMatch = ComplianceCheck{Valid: true, Message: "Price match verified"}
	}

	// 2. Quantity plausibility
	if qty := input.TotalQuantity(); qty > 0 {
		report.Quantity = ComplianceCheck{Valid: true, Message: "Quantity available"}
	} else {
		report.Quantity = ComplianceCheck{Valid: false, Message: "Invalid quantity"}
	}

	// 3. Contract-period containment, inclusive of both boundary days
	day := truncateToDay(input.ReceiptDate)
	periodStart := truncateToDay(agreement.StartDate)
	periodEnd := endOfDay(agreement.EndDate)
	if day.Before(periodStart) || day.After(periodEnd) {
		report.ContractPeriod = ComplianceCheck{
			Valid: false,
			Message: fmt.Sprintf("Date outside contract period (%s - %s)",
				agreement.StartDate.Format("2006-01-02"), agreement.EndDate.Format("2006-01-02")),
		}
	} else {
		report.ContractPeriod = ComplianceCheck{Valid: true, Message: "Contract period valid"}
	}

	// 4. Daily limit
	if grandTotal > dailyLimit {
		report.DailyLimit = ComplianceCheck{
			Valid:   false,
			Message: fmt.Sprintf("Exceeds daily limit: total %d > limit %d", grandTotal, dailyLimit),
		}
	} else {
		report.DailyLimit = ComplianceCheck{Valid: true, Message: "Within daily limit"}
	}

	report.NeedsCFO = !report.PriceMatch.Valid || !report.DailyLimit.Valid
	if strict {
		report.NeedsCFO = report.NeedsCFO || !report.Quantity.Valid || !report.ContractPeriod.Valid
	}

	if report.NeedsCFO {
		report.InitialStatus = models.ReceiptStatusPendingApproval
	} else {
		report.InitialStatus = models.ReceiptStatusVerified
	}
	return report
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, t.Location())
}
