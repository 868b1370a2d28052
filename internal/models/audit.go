package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// Audit action type constants
const (
	AuditPetReviewApprove = "PET_REVIEW_APPROVE"
	AuditPetReviewReject  = "PET_REVIEW_REJECT"
	AuditAdoptionApprove  = "ADOPTION_APPROVE"
	AuditAdoptionReject   = "ADOPTION_REJECT"
	AuditUserSuspend      = "USER_SUSPEND"
	AuditUserUnsuspend    = "USER_UNSUSPEND"
	AuditUserUpdate       = "USER_UPDATE"
)

// Audit target type constants
const (
	AuditTargetPet      = "pet"
	AuditTargetAdoption = "adoption"
	AuditTargetUser     = "user"
)

// JSONMap stores free-form metadata as a JSON column
type JSONMap map[string]any

// Value implements driver.Valuer
func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner
func (m *JSONMap) Scan(value any) error {
	if value == nil {
		*m = nil
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return errors.New("unsupported type for JSONMap")
	}
	return json.Unmarshal(data, m)
}

// AuditLog is an immutable record of a privileged state transition.
// Rows are append-only: never updated, never deleted.
type AuditLog struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	ActionType     string    `gorm:"size:50;not null;index" json:"action_type"`
	ActorID        uint      `gorm:"not null;index" json:"actor_id"`
	ActorEmail     string    `json:"actor_email"`
	ActorName      string    `json:"actor_name"`
	TargetID       uint      `gorm:"index" json:"target_id"`
	TargetType     string    `gorm:"size:20;index" json:"target_type"` // pet, adoption, user
	Action         string    `gorm:"size:50" json:"action"`            // approve, reject, suspend...
	Reason         *string   `gorm:"type:text" json:"reason"`
	PreviousStatus string    `gorm:"size:30" json:"previous_status"`
	NewStatus      string    `gorm:"size:30" json:"new_status"`
	Metadata       JSONMap   `gorm:"type:jsonb" json:"metadata"`
	CreatedAt      time.Time `gorm:"index" json:"created_at"`
}

// TableName specifies the table name for AuditLog
func (AuditLog) TableName() string {
	return "audit_logs"
}
