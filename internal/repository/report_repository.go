package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/hikmahsphere/hikmah-api/internal/models"
	"gorm.io/gorm"
)

// ReportRepository runs the read-only rollups behind the reports
type ReportRepository interface {
	DonationTotalsByStatus(ctx context.Context) ([]models.StatusTotal, error)
	DonationBreakdown(ctx context.Context, column string) ([]models.BreakdownRow, error)
	PaymentMethodBreakdown(ctx context.Context) ([]models.BreakdownRow, error)
	InstallmentTotals(ctx context.Context, now time.Time) ([]models.InstallmentTotal, error)
	DonorRanking(ctx context.Context, limit int) ([]models.DonorRank, error)
}

type reportRepository struct {
	db *gorm.DB
}

// NewReportRepository creates a new report repository
func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

// breakdownColumns maps a breakdown dimension to its donations column.
var breakdownColumns = map[string]string{
	models.BreakdownCategory:     "allocation_category",
	models.BreakdownDonationType: "donation_type",
	models.BreakdownHijriYear:    "hijri_year",
}

func (r *reportRepository) DonationTotalsByStatus(ctx context.Context) ([]models.StatusTotal, error) {
	var rows []models.StatusTotal
	err := r.db.WithContext(ctx).
		Model(&models.Donation{}).
		Select(`status,
			COUNT(*) AS count,
			COALESCE(SUM(total_amount), 0) AS total_amount,
			COALESCE(SUM(amount_paid), 0) AS amount_paid,
			COALESCE(SUM(pending_amount), 0) AS pending_amount`).
		Group("status").
		Order("status").
		Scan(&rows).Error
	return rows, err
}

// DonationBreakdown groups non-cancelled donations by a dimension.
func (r *reportRepository) DonationBreakdown(ctx context.Context, dimension string) ([]models.BreakdownRow, error) {
	column, ok := breakdownColumns[dimension]
	if !ok {
		return nil, fmt.Errorf("unknown breakdown dimension %q", dimension)
	}

	var rows []models.BreakdownRow
	err := r.db.WithContext(ctx).
		Model(&models.Donation{}).
		Select("CAST("+column+` AS TEXT) AS group_key,
			COUNT(*) AS count,
			COALESCE(SUM(total_amount), 0) AS total_amount,
			COALESCE(SUM(amount_paid), 0) AS amount_paid`).
		Where("status <> ?", models.DonationStatusCancelled).
		Group(column).
		Order("total_amount DESC").
		Scan(&rows).Error
	return rows, err
}

// PaymentMethodBreakdown groups money actually received by the method it came in with.
func (r *reportRepository) PaymentMethodBreakdown(ctx context.Context) ([]models.BreakdownRow, error) {
	var rows []models.BreakdownRow
	err := r.db.WithContext(ctx).
		Model(&models.DonationPayment{}).
		Select(`payment_method AS group_key,
			COUNT(*) AS count,
			COALESCE(SUM(amount), 0) AS total_amount,
			COALESCE(SUM(amount), 0) AS amount_paid`).
		Group("payment_method").
		Order("total_amount DESC").
		Scan(&rows).Error
	return rows, err
}

// InstallmentTotals groups installments by effective status as of now.
func (r *reportRepository) InstallmentTotals(ctx context.Context, now time.Time) ([]models.InstallmentTotal, error) {
	var rows []models.InstallmentTotal
	err := r.db.WithContext(ctx).
		Model(&models.Installment{}).
		Select(`CASE WHEN status = ? AND grace_end_date < ? THEN ? ELSE status END AS effective_status,
			COUNT(*) AS count,
			COALESCE(SUM(amount), 0) AS amount`,
			models.InstallmentStatusPending, now.UTC(), models.InstallmentStatusOverdue).
		Group("effective_status").
		Order("effective_status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// DonorRanking sums paid amounts of non-cancelled donations per donor, highest first.
// Rank is dense: donors with equal totals share a rank.
func (r *reportRepository) DonorRanking(ctx context.Context, limit int) ([]models.DonorRank, error) {
	var rows []models.DonorRank
	err := r.db.WithContext(ctx).
		Table("donations").
		Select(`donations.donor_id AS donor_id,
			donors.full_name AS full_name,
			COALESCE(SUM(donations.amount_paid), 0) AS total_paid,
			COUNT(*) AS donation_count`).
		Joins("JOIN donors ON donors.id = donations.donor_id").
		Where("donations.status <> ?", models.DonationStatusCancelled).
		Group("donations.donor_id, donors.full_name").
		Order("total_paid DESC, donations.donor_id ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	rank := 0
	for i := range rows {
		if i == 0 || !rows[i].TotalPaid.Equal(rows[i-1].TotalPaid) {
			rank++
		}
		rows[i].Rank = rank
	}
	return rows, nil
}
