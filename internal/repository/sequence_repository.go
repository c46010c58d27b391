package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/hikmahsphere/hikmah-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SequenceRepository hands out human-readable identifiers
type SequenceRepository interface {
	Next(ctx context.Context, prefix string) (string, error)
	Current(ctx context.Context, prefix string) (int64, error)
}

type sequenceRepository struct {
	db *gorm.DB
}

// NewSequenceRepository creates a new sequence repository
func NewSequenceRepository(db *gorm.DB) SequenceRepository {
	return &sequenceRepository{db: db}
}

// Next increments the counter for prefix and returns the formatted identifier.
// The upsert takes the counter row lock, so concurrent callers are serialized
// until their surrounding transaction ends.
func (r *sequenceRepository) Next(ctx context.Context, prefix string) (string, error) {
	var value int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		seq := models.Sequence{Name: prefix, Value: 1, UpdatedAt: time.Now().UTC()}
		err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "name"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"value":      gorm.Expr("sequences.value + 1"),
				"updated_at": seq.UpdatedAt,
			}),
		}).Create(&seq).Error
		if err != nil {
			return err
		}

		return tx.Model(&models.Sequence{}).
			Select("value").
			Where("name = ?", prefix).
			Row().Scan(&value)
	})
	if err != nil {
		return "", fmt.Errorf("next %s identifier: %w", prefix, err)
	}
	return models.FormatID(prefix, value), nil
}

// Current returns the last value handed out for prefix, zero if none.
func (r *sequenceRepository) Current(ctx context.Context, prefix string) (int64, error) {
	var seq models.Sequence
	err := r.db.WithContext(ctx).Where("name = ?", prefix).Limit(1).Find(&seq).Error
	return seq.Value, err
}
