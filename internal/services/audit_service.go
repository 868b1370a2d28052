package services

import (
	"context"

	"github.com/pawhome/pawhome-api/internal/models"
	"github.com/pawhome/pawhome-api/internal/repository"
	"github.com/pawhome/pawhome-api/pkg/logger"
)

// AuditService records and queries the append-only moderation trail
type AuditService struct {
	audits repository.AuditRepository
}

// NewAuditService creates a new audit service
func NewAuditService(audits repository.AuditRepository) *AuditService {
	return &AuditService{audits: audits}
}

// AuditEntry describes a moderation decision to record
type AuditEntry struct {
	ActionType     string
	Actor          *models.User
	TargetID       uint
	TargetType     string
	Action         string
	Reason         *string
	PreviousStatus string
	NewStatus      string
	Metadata       models.JSONMap
}

// Record appends an audit entry. Audit writes never fail the operation that
// triggered them; a write error is logged and swallowed.
func (s *AuditService) Record(ctx context.Context, entry AuditEntry) {
	log := &models.AuditLog{
		ActionType:     entry.ActionType,
		TargetID:       entry.TargetID,
		TargetType:     entry.TargetType,
		Action:         entry.Action,
		Reason:         entry.Reason,
		PreviousStatus: entry.PreviousStatus,
		NewStatus:      entry.NewStatus,
		Metadata:       entry.Metadata,
	}
	if entry.Actor != nil {
		log.ActorID = entry.Actor.ID
		log.ActorEmail = entry.Actor.Email
		log.ActorName = entry.Actor.Name
	}

	if err := s.audits.Create(ctx, log); err != nil {
		logger.Log.Error("failed to write audit log",
			"action_type", entry.ActionType,
			"target_id", entry.TargetID,
			"error", err,
		)
	}
}

// List returns matching audit rows newest-first, capped at limit.
func (s *AuditService) List(ctx context.Context, filter repository.AuditFilter, limit int) ([]models.AuditLog, error) {
	logs, err := s.audits.List(ctx, filter, limit)
	if err != nil {
		return nil, NewInternalError("無法讀取審核紀錄", err)
	}
	return logs, nil
}
