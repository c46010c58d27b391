package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/hikmahsphere/hikmah-api/internal/models"
	"github.com/hikmahsphere/hikmah-api/internal/repository"
	"github.com/hikmahsphere/hikmah-api/pkg/logger"
)

// Actor identifies who performed an operation, for the audit trail
type Actor struct {
	ID        string
	IP        string
	UserAgent string
}

// SystemActor is used by scheduled jobs
var SystemActor = Actor{ID: "system"}

type AuditService struct {
	repos *repository.Repositories
}

func NewAuditService(repos *repository.Repositories) *AuditService {
	return &AuditService{repos: repos}
}

// Record writes an audit entry. It is called after the business transaction has
// committed, and a failure here is logged and otherwise ignored.
func (s *AuditService) Record(ctx context.Context, actor Actor, action, targetType, targetID string, donorID *string, details map[string]any) {
	payload, err := json.Marshal(details)
	if err != nil {
		payload = []byte("{}")
	}

	now := time.Now().UTC()
	err = s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		id, err := tx.Sequence.Next(ctx, models.PrefixDonorLog)
		if err != nil {
			return err
		}
		return tx.DonorLog.Create(ctx, &models.DonorLog{
			ID:         id,
			Action:     action,
			TargetType: targetType,
			TargetID:   targetID,
			DonorID:    donorID,
			ActorID:    actor.ID,
			Details:    string(payload),
			IPAddress:  actor.IP,
			UserAgent:  actor.UserAgent,
			CreatedAt:  now,
			ExpiresAt:  now.Add(models.DonorLogRetention),
		})
	})
	if err != nil {
		logger.Error("[AuditService] failed to write audit entry",
			"action", action, "target_id", targetID, "error", err)
	}
}

// List retrieves audit logs with filters
func (s *AuditService) List(ctx context.Context, query *repository.ListQuery) ([]models.DonorLog, int64, error) {
	return s.repos.DonorLog.List(ctx, query)
}

// PurgeExpired deletes entries past the retention window
func (s *AuditService) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	n, err := s.repos.DonorLog.DeleteExpired(ctx, now)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		logger.Info("[AuditService] purged expired donor logs", "count", n)
	}
	return n, nil
}
