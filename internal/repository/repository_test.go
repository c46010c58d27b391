package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/hikmahsphere/hikmah-api/internal/models"
	"github.com/hikmahsphere/hikmah-api/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newRepos(t *testing.T) *Repositories {
	return NewRepositories(testutil.NewDB(t))
}

func seedDonor(t *testing.T, repos *Repositories, id, phone string) *models.Donor {
	t.Helper()
	donor := &models.Donor{
		ID:        id,
		FullName:  "Donor " + id,
		DonorType: models.DonorTypeIndividual,
		Phone:     phone,
		Status:    models.DonorStatusActive,
	}
	require.NoError(t, repos.Donor.Create(context.Background(), donor))
	return donor
}

func seedDonation(t *testing.T, repos *Repositories, id, donorID, status string, total, paid int64) *models.Donation {
	t.Helper()
	d := &models.Donation{
		ID:                 id,
		DonorID:            donorID,
		DonationType:       models.DonationTypeSadaqah,
		TotalAmount:        decimal.NewFromInt(total),
		Currency:           models.CurrencyINR,
		PaymentMode:        models.PaymentModeFull,
		PaymentMethod:      models.PaymentMethodCash,
		Status:             status,
		AmountPaid:         decimal.NewFromInt(paid),
		AllocationCategory: models.CategoryGeneral,
		HijriYear:          1446,
	}
	d.Recalculate()
	require.NoError(t, repos.Donation.Create(context.Background(), d))
	return d
}

func TestSequence_NextIsMonotonicAndPadded(t *testing.T) {
	repos := newRepos(t)
	ctx := context.Background()

	seen := map[string]bool{}
	for i := 1; i <= 25; i++ {
		id, err := repos.Sequence.Next(ctx, models.PrefixDonor)
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("HKS-D-%05d", i), id)
		assert.False(t, seen[id])
		seen[id] = true
	}

	// Each prefix has its own counter
	id, err := repos.Sequence.Next(ctx, models.PrefixDonation)
	require.NoError(t, err)
	assert.Equal(t, "HKS-T-00001", id)

	current, err := repos.Sequence.Current(ctx, models.PrefixDonor)
	require.NoError(t, err)
	assert.Equal(t, int64(25), current)
}

func TestSequence_RolledBackWithTransaction(t *testing.T) {
	repos := newRepos(t)
	ctx := context.Background()

	boom := errors.New("boom")
	err := repos.Transaction(ctx, func(tx *Repositories) error {
		_, err := tx.Sequence.Next(ctx, models.PrefixDonor)
		require.NoError(t, err)
		return boom
	})
	require.ErrorIs(t, err, boom)

	id, err := repos.Sequence.Next(ctx, models.PrefixDonor)
	require.NoError(t, err)
	assert.Equal(t, "HKS-D-00001", id)
}

func TestDonor_PhoneUniqueAmongActive(t *testing.T) {
	repos := newRepos(t)
	ctx := context.Background()

	seedDonor(t, repos, "HKS-D-00001", "9990000001")

	dup := &models.Donor{ID: "HKS-D-00002", FullName: "Dup", DonorType: models.DonorTypeIndividual, Phone: "9990000001", Status: models.DonorStatusActive}
	err := repos.Donor.Create(ctx, dup)
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	// After soft delete the phone is free again
	require.NoError(t, repos.Donor.SoftDelete(ctx, "HKS-D-00001", time.Now()))
	require.NoError(t, repos.Donor.Create(ctx, dup))

	found, err := repos.Donor.FindActiveByPhone(ctx, "9990000001")
	require.NoError(t, err)
	assert.Equal(t, "HKS-D-00002", found.ID)

	deleted, err := repos.Donor.FindByID(ctx, "HKS-D-00001")
	require.NoError(t, err)
	assert.Equal(t, models.DonorStatusDeleted, deleted.Status)
	assert.NotNil(t, deleted.DeletedAt)
}

func TestDonor_IncrementStats(t *testing.T) {
	repos := newRepos(t)
	ctx := context.Background()
	seedDonor(t, repos, "HKS-D-00001", "9990000001")

	require.NoError(t, repos.Donor.IncrementStats(ctx, "HKS-D-00001", decimal.NewFromInt(50000)))
	require.NoError(t, repos.Donor.IncrementStats(ctx, "HKS-D-00001", decimal.RequireFromString("250.50")))

	donor, err := repos.Donor.FindByID(ctx, "HKS-D-00001")
	require.NoError(t, err)
	assert.Equal(t, int64(2), donor.TotalDonations)
	assert.True(t, donor.TotalAmount.Equal(decimal.RequireFromString("50250.50")), donor.TotalAmount.String())

	assert.ErrorIs(t, repos.Donor.IncrementStats(ctx, "HKS-D-09999", decimal.NewFromInt(1)), gorm.ErrRecordNotFound)
}

func TestDonor_ListSearchAndFilter(t *testing.T) {
	repos := newRepos(t)
	ctx := context.Background()
	seedDonor(t, repos, "HKS-D-00001", "9990000001")
	seedDonor(t, repos, "HKS-D-00002", "9990000002")
	require.NoError(t, repos.Donor.SoftDelete(ctx, "HKS-D-00002", time.Now()))

	q := NewListQuery()
	donors, total, err := repos.Donor.List(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, donors, 1)

	q = NewListQuery()
	q.Filters["status"] = models.DonorStatusDeleted
	donors, _, err = repos.Donor.List(ctx, q)
	require.NoError(t, err)
	require.Len(t, donors, 1)
	assert.Equal(t, "HKS-D-00002", donors[0].ID)

	q = NewListQuery()
	q.Search = "00001"
	donors, _, err = repos.Donor.List(ctx, q)
	require.NoError(t, err)
	require.Len(t, donors, 1)
}

func TestInstallment_EffectiveStatusFiltersAndSweep(t *testing.T) {
	repos := newRepos(t)
	ctx := context.Background()
	now := time.Now().UTC()

	seedDonor(t, repos, "HKS-D-00001", "9990000001")
	seedDonation(t, repos, "HKS-T-00001", "HKS-D-00001", models.DonationStatusPledged, 300, 0)

	mk := func(n int, dueAgo int) models.Installment {
		due := now.AddDate(0, 0, -dueAgo)
		return models.Installment{
			ID:                models.FormatID(models.PrefixInstallment, int64(n)),
			DonationID:        "HKS-T-00001",
			DonorID:           "HKS-D-00001",
			InstallmentNumber: n,
			TotalInstallments: 3,
			Amount:            decimal.NewFromInt(100),
			DueDate:           due,
			Frequency:         models.FrequencyWeekly,
			Status:            models.InstallmentStatusPending,
			GracePeriodDays:   7,
			GraceEndDate:      models.GraceEnd(due, 7),
		}
	}
	require.NoError(t, repos.Installment.CreateBatch(ctx, []models.Installment{mk(1, 10), mk(2, 3), mk(3, -4)}))

	q := NewListQuery()
	q.Filters["status"] = models.InstallmentStatusOverdue
	overdue, total, err := repos.Installment.List(ctx, q, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, overdue, 1)
	assert.Equal(t, "HKS-I-00001", overdue[0].ID)
	// Stored row is still Pending until swept
	assert.Equal(t, models.InstallmentStatusPending, overdue[0].Status)

	q = NewListQuery()
	q.Filters["status"] = models.InstallmentStatusPending
	_, total, err = repos.Installment.List(ctx, q, now)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	swept, err := repos.Installment.MarkOverdue(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), swept)

	inst, err := repos.Installment.FindByID(ctx, "HKS-I-00001")
	require.NoError(t, err)
	assert.Equal(t, models.InstallmentStatusOverdue, inst.Status)

	sum, err := repos.Installment.SumLiveByDonation(ctx, "HKS-T-00001")
	require.NoError(t, err)
	assert.True(t, sum.Equal(decimal.NewFromInt(300)))

	cancelled, err := repos.Installment.CancelOpenByDonation(ctx, "HKS-T-00001", now)
	require.NoError(t, err)
	assert.Equal(t, int64(3), cancelled)

	count, err := repos.Installment.CountLiveByDonation(ctx, "HKS-T-00001")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestInstallment_ClosedDonationsAreNotSweptOrReminded(t *testing.T) {
	repos := newRepos(t)
	ctx := context.Background()
	now := time.Now().UTC()

	seedDonor(t, repos, "HKS-D-00001", "9990000001")
	seedDonation(t, repos, "HKS-T-00001", "HKS-D-00001", models.DonationStatusPartial, 200, 100)
	seedDonation(t, repos, "HKS-T-00002", "HKS-D-00001", models.DonationStatusCompleted, 200, 200)

	due := now.AddDate(0, 0, -20)
	mk := func(n int, donationID string) models.Installment {
		return models.Installment{
			ID:                models.FormatID(models.PrefixInstallment, int64(n)),
			DonationID:        donationID,
			DonorID:           "HKS-D-00001",
			InstallmentNumber: 1,
			TotalInstallments: 2,
			Amount:            decimal.NewFromInt(100),
			DueDate:           due,
			Frequency:         models.FrequencyMonthly,
			Status:            models.InstallmentStatusPending,
			GracePeriodDays:   7,
			GraceEndDate:      models.GraceEnd(due, 7),
		}
	}
	require.NoError(t, repos.Installment.CreateBatch(ctx, []models.Installment{mk(1, "HKS-T-00001"), mk(2, "HKS-T-00002")}))

	reminders, err := repos.Installment.FindDueForReminder(ctx, now, 3)
	require.NoError(t, err)
	require.Len(t, reminders, 1)
	assert.Equal(t, "HKS-I-00001", reminders[0].ID)

	swept, err := repos.Installment.MarkOverdue(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), swept)

	settled, err := repos.Installment.SettleOpenByDonation(ctx, "HKS-T-00002", now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), settled)

	inst, err := repos.Installment.FindByID(ctx, "HKS-I-00002")
	require.NoError(t, err)
	assert.Equal(t, models.InstallmentStatusPaid, inst.Status)
	require.NotNil(t, inst.PaidDate)
}

func TestReport_RankingIsDense(t *testing.T) {
	repos := newRepos(t)
	ctx := context.Background()

	seedDonor(t, repos, "HKS-D-00001", "9990000001")
	seedDonor(t, repos, "HKS-D-00002", "9990000002")
	seedDonor(t, repos, "HKS-D-00003", "9990000003")
	seedDonation(t, repos, "HKS-T-00001", "HKS-D-00001", models.DonationStatusCompleted, 500, 500)
	seedDonation(t, repos, "HKS-T-00002", "HKS-D-00002", models.DonationStatusCompleted, 500, 500)
	seedDonation(t, repos, "HKS-T-00003", "HKS-D-00003", models.DonationStatusPartial, 900, 100)
	seedDonation(t, repos, "HKS-T-00004", "HKS-D-00003", models.DonationStatusCancelled, 9000, 0)

	ranking, err := repos.Report.DonorRanking(ctx, 10)
	require.NoError(t, err)
	require.Len(t, ranking, 3)

	assert.Equal(t, 1, ranking[0].Rank)
	assert.Equal(t, 1, ranking[1].Rank)
	assert.Equal(t, 2, ranking[2].Rank)
	assert.Equal(t, "HKS-D-00003", ranking[2].DonorID)
	assert.Equal(t, int64(1), ranking[2].DonationCount)
}

func TestReport_TotalsAndBreakdown(t *testing.T) {
	repos := newRepos(t)
	ctx := context.Background()

	seedDonor(t, repos, "HKS-D-00001", "9990000001")
	seedDonation(t, repos, "HKS-T-00001", "HKS-D-00001", models.DonationStatusCompleted, 500, 500)
	seedDonation(t, repos, "HKS-T-00002", "HKS-D-00001", models.DonationStatusPartial, 1000, 250)

	totals, err := repos.Report.DonationTotalsByStatus(ctx)
	require.NoError(t, err)
	require.Len(t, totals, 2)

	byStatus := map[string]models.StatusTotal{}
	for _, row := range totals {
		byStatus[row.Status] = row
	}
	assert.True(t, byStatus[models.DonationStatusPartial].PendingAmount.Equal(decimal.NewFromInt(750)))

	rows, err := repos.Report.DonationBreakdown(ctx, models.BreakdownHijriYear)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "1446", rows[0].Key)
	assert.Equal(t, int64(2), rows[0].Count)

	_, err = repos.Report.DonationBreakdown(ctx, "bogus")
	assert.Error(t, err)
}
