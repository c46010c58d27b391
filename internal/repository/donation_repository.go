package repository

import (
	"context"

	"github.com/hikmahsphere/hikmah-api/internal/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DonationRepository defines the interface for donation data access
type DonationRepository interface {
	FindByID(ctx context.Context, id string) (*models.Donation, error)
	FindByIDForUpdate(ctx context.Context, id string) (*models.Donation, error)
	FindWithDetails(ctx context.Context, id string) (*models.Donation, error)
	Create(ctx context.Context, donation *models.Donation) error
	Update(ctx context.Context, donation *models.Donation) error
	UpdateNotes(ctx context.Context, id string, notes *string) error
	List(ctx context.Context, query *ListQuery) ([]models.Donation, int64, error)
	ListByDonor(ctx context.Context, donorID string) ([]models.Donation, error)
	CompletedStatsByDonor(ctx context.Context, donorID string) (int64, decimal.Decimal, error)
	ListForExport(ctx context.Context) ([]models.Donation, error)
}

type donationRepository struct {
	db *gorm.DB
}

// NewDonationRepository creates a new donation repository
func NewDonationRepository(db *gorm.DB) DonationRepository {
	return &donationRepository{db: db}
}

func (r *donationRepository) FindByID(ctx context.Context, id string) (*models.Donation, error) {
	var donation models.Donation
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&donation).Error
	if err != nil {
		return nil, err
	}
	return &donation, nil
}

// FindByIDForUpdate loads the donation and holds its row lock until the
// surrounding transaction ends. Installment rows are locked after this one.
func (r *donationRepository) FindByIDForUpdate(ctx context.Context, id string) (*models.Donation, error) {
	var donation models.Donation
	err := forUpdate(r.db.WithContext(ctx)).
		Where("id = ?", id).
		First(&donation).Error
	if err != nil {
		return nil, err
	}
	return &donation, nil
}

// FindWithDetails loads the donation with its donor and schedule.
func (r *donationRepository) FindWithDetails(ctx context.Context, id string) (*models.Donation, error) {
	var donation models.Donation
	err := r.db.WithContext(ctx).
		Preload("Donor").
		Preload("Installments", func(db *gorm.DB) *gorm.DB {
			return db.Order("installment_number ASC")
		}).
		Where("id = ?", id).
		First(&donation).Error
	if err != nil {
		return nil, err
	}
	return &donation, nil
}

func (r *donationRepository) Create(ctx context.Context, donation *models.Donation) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(donation).Error
}

func (r *donationRepository) Update(ctx context.Context, donation *models.Donation) error {
	return r.db.WithContext(ctx).Omit(clause.Associations, "CreatedAt").Save(donation).Error
}

func (r *donationRepository) UpdateNotes(ctx context.Context, id string, notes *string) error {
	res := r.db.WithContext(ctx).
		Model(&models.Donation{}).
		Where("id = ?", id).
		Update("notes", notes)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// donationFilters are the columns List accepts as exact-match filters.
var donationFilters = []string{"status", "donation_type", "allocation_category", "payment_mode", "donor_id", "hijri_year"}

var donationSortable = map[string]bool{
	"created_at":     true,
	"total_amount":   true,
	"pending_amount": true,
	"status":         true,
}

func (r *donationRepository) List(ctx context.Context, query *ListQuery) ([]models.Donation, int64, error) {
	var donations []models.Donation
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Donation{})

	if query.Search != "" {
		db = db.Where("id = ? OR donor_id = ? OR LOWER(notes) LIKE LOWER(?)",
			query.Search, query.Search, likePattern(query.Search))
	}

	for _, column := range donationFilters {
		if v := query.Filter(column); v != "" {
			db = db.Where(column+" = ?", v)
		}
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.apply(db, donationSortable).Find(&donations).Error
	return donations, total, err
}

func (r *donationRepository) ListByDonor(ctx context.Context, donorID string) ([]models.Donation, error) {
	var donations []models.Donation
	err := r.db.WithContext(ctx).
		Where("donor_id = ?", donorID).
		Order("created_at DESC").
		Find(&donations).Error
	return donations, err
}

// CompletedStatsByDonor counts and sums the donor's Completed donations.
func (r *donationRepository) CompletedStatsByDonor(ctx context.Context, donorID string) (int64, decimal.Decimal, error) {
	var result struct {
		Count int64
		Total decimal.Decimal
	}

	err := r.db.WithContext(ctx).
		Model(&models.Donation{}).
		Select("COUNT(*) AS count, COALESCE(SUM(total_amount), 0) AS total").
		Where("donor_id = ? AND status = ?", donorID, models.DonationStatusCompleted).
		Scan(&result).Error

	return result.Count, result.Total, err
}

func (r *donationRepository) ListForExport(ctx context.Context) ([]models.Donation, error) {
	var donations []models.Donation
	err := r.db.WithContext(ctx).
		Preload("Donor").
		Where("status <> ?", models.DonationStatusCancelled).
		Order("created_at ASC").
		Find(&donations).Error
	return donations, err
}
