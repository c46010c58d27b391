package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hikmahsphere/hikmah-api/internal/models"
	"github.com/hikmahsphere/hikmah-api/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Mock ReportRepository
type mockReportRepository struct {
	repository.ReportRepository
	totals      []models.StatusTotal
	breakdowns  map[string][]models.BreakdownRow
	methods     []models.BreakdownRow
	installment []models.InstallmentTotal
	ranking     func(limit int) ([]models.DonorRank, error)
	now         time.Time
}

func (m *mockReportRepository) DonationTotalsByStatus(ctx context.Context) ([]models.StatusTotal, error) {
	return m.totals, nil
}

func (m *mockReportRepository) DonationBreakdown(ctx context.Context, column string) ([]models.BreakdownRow, error) {
	return m.breakdowns[column], nil
}

func (m *mockReportRepository) PaymentMethodBreakdown(ctx context.Context) ([]models.BreakdownRow, error) {
	return m.methods, nil
}

func (m *mockReportRepository) InstallmentTotals(ctx context.Context, now time.Time) ([]models.InstallmentTotal, error) {
	m.now = now
	return m.installment, nil
}

func (m *mockReportRepository) DonorRanking(ctx context.Context, limit int) ([]models.DonorRank, error) {
	return m.ranking(limit)
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestReportService_DonationTotals(t *testing.T) {
	repo := &mockReportRepository{
		totals: []models.StatusTotal{
			{Status: models.DonationStatusPartial, Count: 2, TotalAmount: dec("60000"), AmountPaid: dec("25000"), PendingAmount: dec("35000")},
			{Status: models.DonationStatusCompleted, Count: 1, TotalAmount: dec("1000"), AmountPaid: dec("1000"), PendingAmount: dec("0")},
			{Status: models.DonationStatusCancelled, Count: 1, TotalAmount: dec("5000"), AmountPaid: dec("500"), PendingAmount: dec("4500")},
		},
	}
	service := NewReportService(repo)

	totals, err := service.DonationTotals(context.Background())
	require.NoError(t, err)

	require.Len(t, totals.ByStatus, 4)
	assert.Equal(t, models.DonationStatusPledged, totals.ByStatus[0].Status)
	assert.Zero(t, totals.ByStatus[0].Count)

	assert.Equal(t, int64(4), totals.Count)
	assert.True(t, totals.TotalPledged.Equal(dec("61000")), totals.TotalPledged.String())
	assert.True(t, totals.TotalPaid.Equal(dec("26500")), totals.TotalPaid.String())
	assert.True(t, totals.TotalPending.Equal(dec("35000")), totals.TotalPending.String())
	assert.Equal(t, "INR", totals.CurrencyCode)
}

func TestReportService_DonationBreakdown(t *testing.T) {
	repo := &mockReportRepository{
		breakdowns: map[string][]models.BreakdownRow{
			models.BreakdownCategory: {{Key: models.CategoryEducation, Count: 3, TotalAmount: dec("3000.004")}},
		},
		methods: []models.BreakdownRow{{Key: models.PaymentMethodUPI, Count: 5, AmountPaid: dec("750")}},
	}
	service := NewReportService(repo)

	rows, err := service.DonationBreakdown(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, models.CategoryEducation, rows[0].Key)
	assert.Equal(t, "3000", rows[0].TotalAmount.String())

	rows, err = service.DonationBreakdown(context.Background(), models.BreakdownPaymentMethod)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentMethodUPI, rows[0].Key)

	_, err = service.DonationBreakdown(context.Background(), "weekday")
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestReportService_InstallmentTotalsFillsStatuses(t *testing.T) {
	repo := &mockReportRepository{
		installment: []models.InstallmentTotal{
			{Status: models.InstallmentStatusOverdue, Count: 2, Amount: dec("25000")},
		},
	}
	service := NewReportService(repo)
	fixed := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	service.clock = func() time.Time { return fixed }

	rows, err := service.InstallmentTotals(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, len(models.InstallmentStatuses))
	assert.Equal(t, fixed, repo.now)

	for _, row := range rows {
		if row.Status == models.InstallmentStatusOverdue {
			assert.Equal(t, int64(2), row.Count)
		} else {
			assert.Zero(t, row.Count)
		}
	}
}

func TestReportService_DonorRankingLimit(t *testing.T) {
	var asked int
	repo := &mockReportRepository{
		ranking: func(limit int) ([]models.DonorRank, error) {
			asked = limit
			return []models.DonorRank{{Rank: 1, DonorID: "HKS-D-00001", TotalPaid: dec("10")}}, nil
		},
	}
	service := NewReportService(repo)

	rows, err := service.DonorRanking(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultRankingLimit, asked)
	assert.Len(t, rows, 1)

	_, err = service.DonorRanking(context.Background(), 500)
	assert.Error(t, err)

	repo.ranking = func(int) ([]models.DonorRank, error) { return nil, errors.New("boom") }
	_, err = service.DonorRanking(context.Background(), 5)
	assert.EqualError(t, err, "boom")
}
