package services

import (
	"context"
	"testing"
	"time"

	"github.com/ricolabs/procure-api/internal/models"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func testAgreement() *models.Agreement {
	return &models.Agreement{
		ID:         "AGR-2026-001",
		CategoryID: 1,
		TotalValue: 10_000_000,
		Status:     models.AgreementStatusActive,
		StartDate:  time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC),
	}
}

func testReceiptInput(total int64, date time.Time) *ReceiptInput {
	return &ReceiptInput{
		AgreementID:   "AGR-2026-001",
		VendorName:    "Office Supply Co",
		InvoiceNumber: "INV-100",
		ReceiptDate:   date,
		Items: []ReceiptItemInput{
			{Description: "Desk chairs", Quantity: 10, UnitPrice: total / 10, Total: total},
		},
	}
}

func TestEvaluateReport_CompliantInvoiceAutoSettles(t *testing.T) {
	agreement := testAgreement()
	input := testReceiptInput(9_000_000, time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC))

	report := EvaluateReport(agreement, models.DefaultDailyLimit, input, false)

	assert.True(t, report.PriceMatch.Valid)
	assert.True(t, report.Quantity.Valid)
	assert.True(t, report.ContractPeriod.Valid)
	assert.True(t, report.DailyLimit.Valid)
	assert.False(t, report.NeedsCFO)
	assert.Equal(t, models.ReceiptStatusVerified, report.InitialStatus)
}

func TestEvaluateReport_PriceMismatchEscalates(t *testing.T) {
	agreement := testAgreement()
	// 16M vs agreement 10M is past the 5M tolerance
	input := testReceiptInput(16_000_000, time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC))

	report := EvaluateReport(agreement, 20_000_000, input, false)

	assert.False(t, report.PriceMatch.Valid)
	assert.True(t, report.DailyLimit.Valid)
	assert.True(t, report.NeedsCFO)
	assert.Equal(t, models.ReceiptStatusPendingApproval, report.InitialStatus)
}

func TestEvaluateReport_WithinToleranceStillPasses(t *testing.T) {
	agreement := testAgreement()
	// 14M vs 10M is a 4M difference, inside the 5M tolerance
	input := testReceiptInput(14_000_000, time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC))

	report := EvaluateReport(agreement, models.DefaultDailyLimit, input, false)

	assert.True(t, report.PriceMatch.Valid)
	assert.False(t, report.NeedsCFO)
}

func TestEvaluateReport_DailyLimitBreachEscalates(t *testing.T) {
	agreement := testAgreement()
	input := testReceiptInput(9_000_000, time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC))

	report := EvaluateReport(agreement, 8_000_000, input, false)

	assert.True(t, report.PriceMatch.Valid)
	assert.False(t, report.DailyLimit.Valid)
	assert.True(t, report.NeedsCFO)
	assert.Equal(t, models.ReceiptStatusPendingApproval, report.InitialStatus)
}

// Period and quantity failures are advisory: they are reported but do not
// escalate on their own.
func TestEvaluateReport_PeriodFailureIsAdvisory(t *testing.T) {
	agreement := testAgreement()
	input := testReceiptInput(9_000_000, time.Date(2027, 3, 1, 0, 0, 0, 0, time.UTC))

	report := EvaluateReport(agreement, models.DefaultDailyLimit, input, false)

	assert.False(t, report.ContractPeriod.Valid)
	assert.False(t, report.NeedsCFO)
	assert.Equal(t, models.ReceiptStatusVerified, report.InitialStatus)
}

func TestEvaluateReport_StrictModeEscalatesAdvisoryFailures(t *testing.T) {
	agreement := testAgreement()
	input := testReceiptInput(9_000_000, time.Date(2027, 3, 1, 0, 0, 0, 0, time.UTC))

	report := EvaluateReport(agreement, models.DefaultDailyLimit, input, true)

	assert.False(t, report.ContractPeriod.Valid)
	assert.True(t, report.NeedsCFO)
	assert.Equal(t, models.ReceiptStatusPendingApproval, report.InitialStatus)
}

func TestEvaluateReport_BoundaryDaysAreInsidePeriod(t *testing.T) {
	agreement := testAgreement()

	for _, date := range []time.Time{agreement.StartDate, agreement.EndDate} {
		input := testReceiptInput(9_000_000, date)
		report := EvaluateReport(agreement, models.DefaultDailyLimit, input, false)
		assert.True(t, report.ContractPeriod.Valid, "date %s should be inside the period", date)
	}
}

func TestEvaluateReport_AllChecksAlwaysComputed(t *testing.T) {
	agreement := testAgreement()
	// Fails price, quantity, period and limit at once
	input := &ReceiptInput{
		AgreementID:   "AGR-2026-001",
		VendorName:    "Office Supply Co",
		InvoiceNumber: "INV-101",
		ReceiptDate:   time.Date(2027, 3, 1, 0, 0, 0, 0, time.UTC),
		Items: []ReceiptItemInput{
			{Description: "Desk chairs", Quantity: 0, Total: 60_000_000},
		},
	}

	report := EvaluateReport(agreement, models.DefaultDailyLimit, input, false)

	assert.False(t, report.PriceMatch.Valid)
	assert.False(t, report.Quantity.Valid)
	assert.False(t, report.ContractPeriod.Valid)
	assert.False(t, report.DailyLimit.Valid)
	assert.NotEmpty(t, report.PriceMatch.Message)
	assert.NotEmpty(t, report.DailyLimit.Message)
	assert.True(t, report.NeedsCFO)
}

func TestComplianceService_Evaluate_UnknownAgreement(t *testing.T) {
	agreementRepo := &mockAgreementRepo{
		mockFindByIDWithDetails: func(ctx context.Context, id string) (*models.Agreement, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	service := NewComplianceService(agreementRepo, &mockReferenceRepo{}, false)

	report, agreement, err := service.Evaluate(context.Background(), testReceiptInput(9_000_000, time.Now()))
	assert.Nil(t, report)
	assert.Nil(t, agreement)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestComplianceService_Evaluate_DefaultLimitApplied(t *testing.T) {
	agreementRepo := &mockAgreementRepo{
		mockFindByIDWithDetails: func(ctx context.Context, id string) (*models.Agreement, error) {
			agreement := testAgreement()
			agreement.TotalValue = 52_000_000
			return agreement, nil
		},
	}
	referenceRepo := &mockReferenceRepo{
		mockGetDailyLimit: func(ctx context.Context, categoryID uint) (*models.DailyLimit, error) {
			return nil, nil
		},
	}
	service := NewComplianceService(agreementRepo, referenceRepo, false)

	// 52M exceeds the 50M fallback ceiling even though price matches
	input := testReceiptInput(52_000_000, time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC))
	report, _, err := service.Evaluate(context.Background(), input)

	assert.NoError(t, err)
	assert.True(t, report.PriceMatch.Valid)
	assert.False(t, report.DailyLimit.Valid)
	assert.True(t, report.NeedsCFO)
}
