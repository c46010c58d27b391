package repository

import (
	"context"
	"time"

	"github.com/hikmahsphere/hikmah-api/internal/models"
	"gorm.io/gorm"
)

// DonorLogRepository defines the interface for the audit trail. There is no update method.
type DonorLogRepository interface {
	Create(ctx context.Context, entry *models.DonorLog) error
	List(ctx context.Context, query *ListQuery) ([]models.DonorLog, int64, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type donorLogRepository struct {
	db *gorm.DB
}

// NewDonorLogRepository creates a new donor log repository
func NewDonorLogRepository(db *gorm.DB) DonorLogRepository {
	return &donorLogRepository{db: db}
}

func (r *donorLogRepository) Create(ctx context.Context, entry *models.DonorLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *donorLogRepository) List(ctx context.Context, query *ListQuery) ([]models.DonorLog, int64, error) {
	var entries []models.DonorLog
	var total int64

	db := r.db.WithContext(ctx).Model(&models.DonorLog{})

	for _, column := range []string{"action", "target_type", "target_id", "donor_id", "actor_id"} {
		if v := query.Filter(column); v != "" {
			db = db.Where(column+" = ?", v)
		}
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.apply(db, map[string]bool{"created_at": true}).Find(&entries).Error
	return entries, total, err
}

// DeleteExpired purges entries past their retention window
func (r *donorLogRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("expires_at < ?", now.UTC()).
		Delete(&models.DonorLog{})
	return res.RowsAffected, res.Error
}
