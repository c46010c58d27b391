package repository

import (
	"context"
	"time"

	"github.com/hikmahsphere/hikmah-api/internal/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DonorRepository defines the interface for donor data access
type DonorRepository interface {
	FindByID(ctx context.Context, id string) (*models.Donor, error)
	FindActiveByPhone(ctx context.Context, phone string) (*models.Donor, error)
	FindActiveByEmail(ctx context.Context, email string) (*models.Donor, error)
	Create(ctx context.Context, donor *models.Donor) error
	Update(ctx context.Context, donor *models.Donor) error
	SoftDelete(ctx context.Context, id string, at time.Time) error
	Restore(ctx context.Context, id string) error
	IncrementStats(ctx context.Context, id string, amount decimal.Decimal) error
	SetStats(ctx context.Context, id string, count int64, total decimal.Decimal) error
	List(ctx context.Context, query *ListQuery) ([]models.Donor, int64, error)
}

type donorRepository struct {
	db *gorm.DB
}

// NewDonorRepository creates a new donor repository
func NewDonorRepository(db *gorm.DB) DonorRepository {
	return &donorRepository{db: db}
}

// FindByID returns the donor in any status, including soft deleted ones.
func (r *donorRepository) FindByID(ctx context.Context, id string) (*models.Donor, error) {
	var donor models.Donor
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&donor).Error
	if err != nil {
		return nil, err
	}
	return &donor, nil
}

func (r *donorRepository) FindActiveByPhone(ctx context.Context, phone string) (*models.Donor, error) {
	var donor models.Donor
	err := r.db.WithContext(ctx).
		Where("phone = ? AND deleted_at IS NULL", phone).
		First(&donor).Error
	if err != nil {
		return nil, err
	}
	return &donor, nil
}

func (r *donorRepository) FindActiveByEmail(ctx context.Context, email string) (*models.Donor, error) {
	var donor models.Donor
	err := r.db.WithContext(ctx).
		Where("LOWER(email) = LOWER(?) AND deleted_at IS NULL", email).
		First(&donor).Error
	if err != nil {
		return nil, err
	}
	return &donor, nil
}

func (r *donorRepository) Create(ctx context.Context, donor *models.Donor) error {
	return r.db.WithContext(ctx).Create(donor).Error
}

// Update saves profile fields. Statistics are only touched through IncrementStats and SetStats.
func (r *donorRepository) Update(ctx context.Context, donor *models.Donor) error {
	return r.db.WithContext(ctx).
		Omit("TotalDonations", "TotalAmount", "CreatedAt").
		Save(donor).Error
}

func (r *donorRepository) SoftDelete(ctx context.Context, id string, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Donor{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     models.DonorStatusDeleted,
			"deleted_at": at.UTC(),
			"updated_at": at.UTC(),
		}).Error
}

func (r *donorRepository) Restore(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Model(&models.Donor{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":      models.DonorStatusActive,
			"deleted_at":  nil,
			"disabled_at": nil,
			"updated_at":  time.Now().UTC(),
		}).Error
}

// IncrementStats adds one completed donation of amount in a single UPDATE, so
// concurrent completions for the same donor never lose an increment.
func (r *donorRepository) IncrementStats(ctx context.Context, id string, amount decimal.Decimal) error {
	res := r.db.WithContext(ctx).
		Model(&models.Donor{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"total_donations": gorm.Expr("total_donations + 1"),
			"total_amount":    gorm.Expr("total_amount + ?", amount),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *donorRepository) SetStats(ctx context.Context, id string, count int64, total decimal.Decimal) error {
	return r.db.WithContext(ctx).
		Model(&models.Donor{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"total_donations": count,
			"total_amount":    total,
		}).Error
}

var donorSortable = map[string]bool{
	"full_name":    true,
	"created_at":   true,
	"total_amount": true,
}

func (r *donorRepository) List(ctx context.Context, query *ListQuery) ([]models.Donor, int64, error) {
	var donors []models.Donor
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Donor{})

	// Deleted donors only show up when asked for explicitly
	if status := query.Filter("status"); status != "" {
		db = db.Where("status = ?", status)
	} else {
		db = db.Where("deleted_at IS NULL")
	}

	if query.Search != "" {
		search := likePattern(query.Search)
		db = db.Where("LOWER(full_name) LIKE LOWER(?) OR phone LIKE ? OR LOWER(email) LIKE LOWER(?) OR id = ?",
			search, search, search, query.Search)
	}

	if donorType := query.Filter("donor_type"); donorType != "" {
		db = db.Where("donor_type = ?", donorType)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.apply(db, donorSortable).Find(&donors).Error
	return donors, total, err
}
