package repository

import (
	"context"
	"time"

	"github.com/hikmahsphere/hikmah-api/internal/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// InstallmentRepository defines the interface for installment data access
type InstallmentRepository interface {
	CreateBatch(ctx context.Context, installments []models.Installment) error
	FindByID(ctx context.Context, id string) (*models.Installment, error)
	FindByIDForUpdate(ctx context.Context, id string) (*models.Installment, error)
	FindByDonationID(ctx context.Context, donationID string) ([]models.Installment, error)
	FindByDonationIDForUpdate(ctx context.Context, donationID string) ([]models.Installment, error)
	Update(ctx context.Context, installment *models.Installment) error
	UpdateAmount(ctx context.Context, id string, amount decimal.Decimal) error
	CancelOpenByDonation(ctx context.Context, donationID string, at time.Time) (int64, error)
	SettleOpenByDonation(ctx context.Context, donationID string, at time.Time) (int64, error)
	CountLiveByDonation(ctx context.Context, donationID string) (int64, error)
	SumLiveByDonation(ctx context.Context, donationID string) (decimal.Decimal, error)
	MarkOverdue(ctx context.Context, now time.Time) (int64, error)
	FindDueForReminder(ctx context.Context, now time.Time, leadDays int) ([]models.Installment, error)
	RecordReminder(ctx context.Context, id string, at time.Time, overdue bool) error
	List(ctx context.Context, query *ListQuery, now time.Time) ([]models.Installment, int64, error)
}

type installmentRepository struct {
	db *gorm.DB
}

// NewInstallmentRepository creates a new installment repository
func NewInstallmentRepository(db *gorm.DB) InstallmentRepository {
	return &installmentRepository{db: db}
}

// openStatuses still expect a payment.
var openStatuses = []string{models.InstallmentStatusPending, models.InstallmentStatusOverdue}

// payableDonations selects the IDs of donations that still accept payments.
func (r *installmentRepository) payableDonations(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&models.Donation{}).
		Select("id").
		Where("status IN ?", []string{models.DonationStatusPledged, models.DonationStatusPartial})
}

func (r *installmentRepository) CreateBatch(ctx context.Context, installments []models.Installment) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(&installments).Error
}

func (r *installmentRepository) FindByID(ctx context.Context, id string) (*models.Installment, error) {
	var installment models.Installment
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&installment).Error
	if err != nil {
		return nil, err
	}
	return &installment, nil
}

func (r *installmentRepository) FindByIDForUpdate(ctx context.Context, id string) (*models.Installment, error) {
	var installment models.Installment
	err := forUpdate(r.db.WithContext(ctx)).
		Where("id = ?", id).
		First(&installment).Error
	if err != nil {
		return nil, err
	}
	return &installment, nil
}

func (r *installmentRepository) FindByDonationID(ctx context.Context, donationID string) ([]models.Installment, error) {
	var installments []models.Installment
	err := r.db.WithContext(ctx).
		Where("donation_id = ?", donationID).
		Order("installment_number ASC").
		Find(&installments).Error
	return installments, err
}

// FindByDonationIDForUpdate locks the schedule. Lock the donation row first.
func (r *installmentRepository) FindByDonationIDForUpdate(ctx context.Context, donationID string) ([]models.Installment, error) {
	var installments []models.Installment
	err := forUpdate(r.db.WithContext(ctx)).
		Where("donation_id = ?", donationID).
		Order("installment_number ASC").
		Find(&installments).Error
	return installments, err
}

func (r *installmentRepository) Update(ctx context.Context, installment *models.Installment) error {
	return r.db.WithContext(ctx).Omit(clause.Associations, "CreatedAt").Save(installment).Error
}

func (r *installmentRepository) UpdateAmount(ctx context.Context, id string, amount decimal.Decimal) error {
	return r.db.WithContext(ctx).
		Model(&models.Installment{}).
		Where("id = ?", id).
		Update("amount", amount).Error
}

// CancelOpenByDonation cancels every Pending or Overdue installment of a donation.
func (r *installmentRepository) CancelOpenByDonation(ctx context.Context, donationID string, at time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Installment{}).
		Where("donation_id = ? AND status IN ?", donationID, openStatuses).
		Updates(map[string]interface{}{
			"status":       models.InstallmentStatusCancelled,
			"cancelled_at": at.UTC(),
			"updated_at":   at.UTC(),
		})
	return res.RowsAffected, res.Error
}

// SettleOpenByDonation marks the open installments of a fully paid donation as Paid.
// Their amounts were covered by direct payments, so no ledger rows reference them.
func (r *installmentRepository) SettleOpenByDonation(ctx context.Context, donationID string, at time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Installment{}).
		Where("donation_id = ? AND status IN ?", donationID, openStatuses).
		Updates(map[string]interface{}{
			"status":     models.InstallmentStatusPaid,
			"paid_date":  at.UTC(),
			"updated_at": at.UTC(),
		})
	return res.RowsAffected, res.Error
}

func (r *installmentRepository) CountLiveByDonation(ctx context.Context, donationID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Installment{}).
		Where("donation_id = ? AND status <> ?", donationID, models.InstallmentStatusCancelled).
		Count(&count).Error
	return count, err
}

// SumLiveByDonation sums every installment that is not Cancelled.
func (r *installmentRepository) SumLiveByDonation(ctx context.Context, donationID string) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}

	err := r.db.WithContext(ctx).
		Model(&models.Installment{}).
		Select("COALESCE(SUM(amount), 0) AS total").
		Where("donation_id = ? AND status <> ?", donationID, models.InstallmentStatusCancelled).
		Scan(&result).Error

	return result.Total, err
}

// MarkOverdue persists Pending → Overdue for every installment whose grace period ended
// before now. Installments of Completed or Cancelled donations are left alone.
func (r *installmentRepository) MarkOverdue(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Installment{}).
		Where("status = ? AND grace_end_date < ?", models.InstallmentStatusPending, now.UTC()).
		Where("donation_id IN (?)", r.payableDonations(ctx)).
		Updates(map[string]interface{}{
			"status":     models.InstallmentStatusOverdue,
			"updated_at": now.UTC(),
		})
	return res.RowsAffected, res.Error
}

// FindDueForReminder returns open installments due within leadDays, plus overdue ones,
// that were not already reminded today. Only donations still awaiting money count.
func (r *installmentRepository) FindDueForReminder(ctx context.Context, now time.Time, leadDays int) ([]models.Installment, error) {
	var installments []models.Installment
	now = now.UTC()
	horizon := now.AddDate(0, 0, leadDays)
	dayAgo := now.Add(-24 * time.Hour)

	err := r.db.WithContext(ctx).
		Preload("Donor").
		Where("status IN ?", openStatuses).
		Where("donation_id IN (?)", r.payableDonations(ctx)).
		Where("due_date <= ?", horizon).
		Where("last_reminder_at IS NULL OR last_reminder_at < ?", dayAgo).
		Order("due_date ASC").
		Find(&installments).Error
	return installments, err
}

func (r *installmentRepository) RecordReminder(ctx context.Context, id string, at time.Time, overdue bool) error {
	updates := map[string]interface{}{
		"reminder_count":   gorm.Expr("reminder_count + 1"),
		"last_reminder_at": at.UTC(),
	}
	if overdue {
		updates["follow_up_count"] = gorm.Expr("follow_up_count + 1")
	}
	return r.db.WithContext(ctx).
		Model(&models.Installment{}).
		Where("id = ?", id).
		Updates(updates).Error
}

var installmentSortable = map[string]bool{
	"due_date":           true,
	"amount":             true,
	"installment_number": true,
	"created_at":         true,
}

// List filters on the effective status: a Pending row past grace counts as Overdue.
func (r *installmentRepository) List(ctx context.Context, query *ListQuery, now time.Time) ([]models.Installment, int64, error) {
	var installments []models.Installment
	var total int64
	now = now.UTC()

	db := r.db.WithContext(ctx).Model(&models.Installment{})

	if donationID := query.Filter("donation_id"); donationID != "" {
		db = db.Where("donation_id = ?", donationID)
	}
	if donorID := query.Filter("donor_id"); donorID != "" {
		db = db.Where("donor_id = ?", donorID)
	}

	switch status := query.Filter("status"); status {
	case "":
	case models.InstallmentStatusOverdue:
		db = db.Where("status = ? OR (status = ? AND grace_end_date < ?)",
			models.InstallmentStatusOverdue, models.InstallmentStatusPending, now)
	case models.InstallmentStatusPending:
		db = db.Where("status = ? AND grace_end_date >= ?", models.InstallmentStatusPending, now)
	default:
		db = db.Where("status = ?", status)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if query.SortBy == "" {
		query.SortBy = "due_date"
	}
	err := query.apply(db, installmentSortable).Find(&installments).Error
	return installments, total, err
}
