package services

import (
	"context"
	"time"

	"github.com/ricolabs/procure-api/internal/models"
	"github.com/ricolabs/procure-api/internal/repository"
)

// CategorySpendRow is per-category verified spend joined with its daily limit
type CategorySpendRow struct {
	CategoryID   uint   `json:"category_id"`
	CategoryName string `json:"category_name"`
	Amount       int64  `json:"amount"`
	Count        int64  `json:"count"`
	DailyLimit   int64  `json:"daily_limit"`
}

// MonthlySpend is one month of verified spend for trend charts
type MonthlySpend struct {
	Month  string `json:"month"`
	Amount int64  `json:"amount"`
	Count  int64  `json:"count"`
}

// DashboardStats is the aggregate view for the operations dashboard
type DashboardStats struct {
	ActiveAgreements  int64              `json:"active_agreements"`
	PendingAgreements int64              `json:"pending_agreements"`
	PendingInvoices   int64              `json:"pending_invoices"`
	ApprovedThisMonth int64              `json:"approved_this_month"`
	SpendThisMonth    int64              `json:"spend_this_month"`
	CategorySpending  []CategorySpendRow `json:"category_spending"`
	MonthlyTrend      []MonthlySpend     `json:"monthly_trend"`
}

// VerifiedSpendReport lists settled invoices inside a window, optionally
// filtered by category names.
type VerifiedSpendReport struct {
	Start    time.Time        `json:"start"`
	End      time.Time        `json:"end"`
	Total    int64            `json:"total"`
	Count    int              `json:"count"`
	Receipts []models.Receipt `json:"receipts"`
}

// StatsService computes dashboard aggregates and spend reports. Read-only.
type StatsService struct {
	agreementRepo repository.AgreementRepository
	receiptRepo   repository.ReceiptRepository
	referenceRepo repository.ReferenceRepository
}

// NewStatsService creates a new stats service
func NewStatsService(agreementRepo repository.AgreementRepository, receiptRepo repository.ReceiptRepository, referenceRepo repository.ReferenceRepository) *StatsService {
	return &StatsService{
		agreementRepo: agreementRepo,
		receiptRepo:   receiptRepo,
		referenceRepo: referenceRepo,
	}
}

// Dashboard assembles the headline counters, per-category spend against
// limits and a six month trend.
func (s *StatsService) Dashboard(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{}
	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	var err error
	if stats.ActiveAgreements, err = s.agreementRepo.CountByStatus(ctx, models.AgreementStatusActive); err != nil {
		return nil, err
	}
	pendingVendor, err := s.agreementRepo.CountByStatus(ctx, models.AgreementStatusPendingVendor)
	if err != nil {
		return nil, err
	}
	pendingCFO, err := s.agreementRepo.CountByStatus(ctx, models.AgreementStatusPendingCFO)
	if err != nil {
		return nil, err
	}
	stats.PendingAgreements = pendingVendor + pendingCFO

	if stats.PendingInvoices, err = s.receiptRepo.CountByStatus(ctx, models.ReceiptStatusPendingApproval); err != nil {
		return nil, err
	}
	if stats.ApprovedThisMonth, err = s.receiptRepo.CountVerifiedSince(ctx, monthStart); err != nil {
		return nil, err
	}
	if stats.SpendThisMonth, err = s.receiptRepo.SumVerifiedCreatedSince(ctx, monthStart); err != nil {
		return nil, err
	}

	if stats.CategorySpending, err = s.categorySpending(ctx, monthStart); err != nil {
		return nil, err
	}
	if stats.MonthlyTrend, err = s.monthlyTrend(ctx, now); err != nil {
		return nil, err
	}

	return stats, nil
}

func (s *StatsService) categorySpending(ctx context.Context, since time.Time) ([]CategorySpendRow, error) {
	spend, err := s.receiptRepo.CategorySpendSince(ctx, since)
	if err != nil {
		return nil, err
	}
	limits, err := s.referenceRepo.ListCategoryLimits(ctx)
	if err != nil {
		return nil, err
	}

	spendByCategory := make(map[uint]repository.CategorySpend, len(spend))
	for _, row := range spend {
		spendByCategory[row.CategoryID] = row
	}

	rows := make([]CategorySpendRow, 0, len(limits))
	for _, cl := range limits {
		row := CategorySpendRow{
			CategoryID:   cl.CategoryID,
			CategoryName: cl.Category.Name,
			DailyLimit:   cl.LimitAmount,
		}
		if row.DailyLimit == 0 {
			row.DailyLimit = models.DefaultDailyLimit
		}
		if sp, ok := spendByCategory[cl.CategoryID]; ok {
			row.Amount = sp.Amount
			row.Count = sp.Count
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// monthlyTrend buckets the last six months of verified receipts by month.
// The windows are small enough that grouping in Go keeps the query simple.
func (s *StatsService) monthlyTrend(ctx context.Context, now time.Time) ([]MonthlySpend, error) {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -5, 0)

	receipts, err := s.receiptRepo.FindVerifiedInRange(ctx, start, now, nil)
	if err != nil {
		return nil, err
	}

	buckets := make(map[string]*MonthlySpend, 6)
	trend := make([]MonthlySpend, 0, 6)
	for i := 0; i < 6; i++ {
		month := start.AddDate(0, i, 0).Format("2006-01")
		trend = append(trend, MonthlySpend{Month: month})
		buckets[month] = &trend[i]
	}
	for _, r := range receipts {
		if bucket, ok := buckets[r.ReceiptDate.Format("2006-01")]; ok {
			bucket.Amount += r.TotalAmount
			bucket.Count++
		}
	}
	return trend, nil
}

// VerifiedSpend reports settled invoices in a date window, inclusive of both
// boundary days.
func (s *StatsService) VerifiedSpend(ctx context.Context, start, end time.Time, categoryNames []string) (*VerifiedSpendReport, error) {
	windowStart := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
	windowEnd := time.Date(end.Year(), end.Month(), end.Day(), 23, 59, 59, 0, end.Location())

	receipts, err := s.receiptRepo.FindVerifiedInRange(ctx, windowStart, windowEnd, categoryNames)
	if err != nil {
		return nil, err
	}

	var total int64
	for _, r := range receipts {
		total += r.TotalAmount
	}

	return &VerifiedSpendReport{
		Start:    windowStart,
		End:      windowEnd,
		Total:    total,
		Count:    len(receipts),
		Receipts: receipts,
	}, nil
}
