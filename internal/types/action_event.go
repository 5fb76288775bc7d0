package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// UserAction is the inbound shape of one tracked user action.
type UserAction struct {
	Type     string         `json:"type"`
	Target   string         `json:"target"`
	Context  map[string]any `json:"context,omitempty"`
	Duration *float64       `json:"duration,omitempty"` // minutes
	Result   string         `json:"result,omitempty"`   // "success" | "failure" | "abandoned"
}

// UserActionEvent is the append-only log row written for every well-formed
// tracked action. The behavior profile is the aggregate; this is the audit
// trail behind it.
type UserActionEvent struct {
	ID       uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	Type     string         `gorm:"column:type;not null;index" json:"type"`
	Target   string         `gorm:"column:target" json:"target"`
	Context  datatypes.JSON `gorm:"type:jsonb;column:context" json:"context"`
	Duration *float64       `gorm:"column:duration" json:"duration,omitempty"`
	Result   string         `gorm:"column:result" json:"result,omitempty"`

	CreatedAt time.Time      `gorm:"not null;default:now();index" json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (UserActionEvent) TableName() string { return "user_action_event" }
