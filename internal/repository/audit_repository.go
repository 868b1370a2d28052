package repository

import (
	"context"

	"github.com/pawhome/pawhome-api/internal/models"
	"gorm.io/gorm"
)

// AuditFilter narrows an audit trail query. Zero values mean "any".
type AuditFilter struct {
	ActionType string
	ActorID    uint
	TargetID   uint
	TargetType string
}

func (f AuditFilter) isZero() bool {
	return f.ActionType == "" && f.ActorID == 0 && f.TargetID == 0 && f.TargetType == ""
}

// Matches reports whether a log row satisfies the filter.
func (f AuditFilter) Matches(log *models.AuditLog) bool {
	if f.ActionType != "" && log.ActionType != f.ActionType {
		return false
	}
	if f.ActorID != 0 && log.ActorID != f.ActorID {
		return false
	}
	if f.TargetID != 0 && log.TargetID != f.TargetID {
		return false
	}
	if f.TargetType != "" && log.TargetType != f.TargetType {
		return false
	}
	return true
}

// AuditRepository defines the interface for audit trail data access.
// Rows are append-only.
type AuditRepository interface {
	Create(ctx context.Context, log *models.AuditLog) error
	List(ctx context.Context, filter AuditFilter, limit int) ([]models.AuditLog, error)
}

type auditRepository struct {
	db *gorm.DB
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) Create(ctx context.Context, log *models.AuditLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

// fallbackScanLimit caps how many recent rows the client-side filter path
// pulls before filtering in memory.
const fallbackScanLimit = 1000

// List returns matching audit rows newest-first, capped at limit. Filtered
// queries are attempted against the store first; if the store rejects the
// query shape the filter is re-applied client-side over a recent window.
func (r *auditRepository) List(ctx context.Context, filter AuditFilter, limit int) ([]models.AuditLog, error) {
	if limit <= 0 {
		limit = 100
	}

	if !filter.isZero() {
		logs, err := r.listFiltered(ctx, filter, limit)
		if err == nil {
			return logs, nil
		}
		// Fall through to the client-side path on any query failure.
	}

	var logs []models.AuditLog
	scan := limit
	if !filter.isZero() {
		scan = fallbackScanLimit
	}
	err := r.db.WithContext(ctx).Model(&models.AuditLog{}).
		Order("created_at DESC").
		Limit(scan).
		Find(&logs).Error
	if err != nil {
		return nil, err
	}

	if filter.isZero() {
		return logs, nil
	}

	filtered := make([]models.AuditLog, 0, limit)
	for i := range logs {
		if filter.Matches(&logs[i]) {
			filtered = append(filtered, logs[i])
			if len(filtered) == limit {
				break
			}
		}
	}
	return filtered, nil
}

func (r *auditRepository) listFiltered(ctx context.Context, filter AuditFilter, limit int) ([]models.AuditLog, error) {
	var logs []models.AuditLog
	db := r.db.WithContext(ctx).Model(&models.AuditLog{})

	if filter.ActionType != "" {
		db = db.Where("action_type = ?", filter.ActionType)
	}
	if filter.ActorID != 0 {
		db = db.Where("actor_id = ?", filter.ActorID)
	}
	if filter.TargetID != 0 {
		db = db.Where("target_id = ?", filter.TargetID)
	}
	if filter.TargetType != "" {
		db = db.Where("target_type = ?", filter.TargetType)
	}

	err := db.Order("created_at DESC").Limit(limit).Find(&logs).Error
	return logs, err
}
