package services

import (
	"context"
	"slices"
	"time"

	"github.com/hikmahsphere/hikmah-api/internal/models"
	"github.com/hikmahsphere/hikmah-api/internal/repository"
	"github.com/shopspring/decimal"
)

// DefaultRankingLimit applies when the caller does not ask for a size
const DefaultRankingLimit = 10

// MaxRankingLimit caps the donor ranking
const MaxRankingLimit = 100

type ReportService struct {
	reportRepo repository.ReportRepository
	clock      func() time.Time
}

func NewReportService(reportRepo repository.ReportRepository) *ReportService {
	return &ReportService{
		reportRepo: reportRepo,
		clock:      func() time.Time { return time.Now().UTC() },
	}
}

// DonationTotals rolls donations up per status. Grand pledged and pending totals
// leave out cancelled donations; money already received counts in every status.
func (s *ReportService) DonationTotals(ctx context.Context) (*models.DonationTotals, error) {
	rows, err := s.reportRepo.DonationTotalsByStatus(ctx)
	if err != nil {
		return nil, err
	}

	totals := &models.DonationTotals{
		ByStatus:     make([]models.StatusTotal, 0, len(models.DonationStatuses)),
		TotalPledged: decimal.Zero,
		TotalPaid:    decimal.Zero,
		TotalPending: decimal.Zero,
		CurrencyCode: models.CurrencyINR,
	}

	byStatus := make(map[string]models.StatusTotal, len(rows))
	for _, row := range rows {
		byStatus[row.Status] = row
	}

	// Every status is reported, in lifecycle order, even with no donations.
	for _, status := range models.DonationStatuses {
		row, ok := byStatus[status]
		if !ok {
			row = models.StatusTotal{Status: status}
		}
		row.TotalAmount = row.TotalAmount.Round(2)
		row.AmountPaid = row.AmountPaid.Round(2)
		row.PendingAmount = row.PendingAmount.Round(2)
		totals.ByStatus = append(totals.ByStatus, row)

		totals.Count += row.Count
		totals.TotalPaid = totals.TotalPaid.Add(row.AmountPaid)
		if status != models.DonationStatusCancelled {
			totals.TotalPledged = totals.TotalPledged.Add(row.TotalAmount)
			totals.TotalPending = totals.TotalPending.Add(row.PendingAmount)
		}
	}
	return totals, nil
}

// DonationBreakdown groups donations by category, type or Hijri year, or the
// payment ledger by method.
func (s *ReportService) DonationBreakdown(ctx context.Context, by string) ([]models.BreakdownRow, error) {
	if by == "" {
		by = models.BreakdownCategory
	}
	if !slices.Contains(models.BreakdownDimensions, by) {
		return nil, fieldError("by", "oneof", "must be one of category, type, method, hijri_year")
	}

	var rows []models.BreakdownRow
	var err error
	if by == models.BreakdownPaymentMethod {
		rows, err = s.reportRepo.PaymentMethodBreakdown(ctx)
	} else {
		rows, err = s.reportRepo.DonationBreakdown(ctx, by)
	}
	if err != nil {
		return nil, err
	}

	for i := range rows {
		rows[i].TotalAmount = rows[i].TotalAmount.Round(2)
		rows[i].AmountPaid = rows[i].AmountPaid.Round(2)
	}
	return rows, nil
}

// InstallmentTotals counts installments per effective status
func (s *ReportService) InstallmentTotals(ctx context.Context) ([]models.InstallmentTotal, error) {
	rows, err := s.reportRepo.InstallmentTotals(ctx, s.clock())
	if err != nil {
		return nil, err
	}

	byStatus := make(map[string]models.InstallmentTotal, len(rows))
	for _, row := range rows {
		byStatus[row.Status] = row
	}

	out := make([]models.InstallmentTotal, 0, len(models.InstallmentStatuses))
	for _, status := range models.InstallmentStatuses {
		row, ok := byStatus[status]
		if !ok {
			row = models.InstallmentTotal{Status: status}
		}
		row.Amount = row.Amount.Round(2)
		out = append(out, row)
	}
	return out, nil
}

// DonorRanking returns the top donors by amount paid with dense ranks
func (s *ReportService) DonorRanking(ctx context.Context, limit int) ([]models.DonorRank, error) {
	switch {
	case limit == 0:
		limit = DefaultRankingLimit
	case limit < 0 || limit > MaxRankingLimit:
		return nil, fieldError("limit", "range", "must be between 1 and 100")
	}

	rows, err := s.reportRepo.DonorRanking(ctx, limit)
	if err != nil {
		return nil, err
	}
	for i := range rows {
		rows[i].TotalPaid = rows[i].TotalPaid.Round(2)
	}
	return rows, nil
}
