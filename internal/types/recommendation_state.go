package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RecommendationState records a caller-posted applied/dismissed mark for one
// recommendation ID. The generator never writes here; dismissal memory is
// caller-owned and only round-trips through this table when the dashboard
// shell explicitly posts it.
type RecommendationState struct {
	ID               uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID           uuid.UUID `gorm:"type:uuid;not null;index:idx_rec_state,unique,priority:1" json:"user_id"`
	RecommendationID string    `gorm:"column:recommendation_id;not null;index:idx_rec_state,unique,priority:2" json:"recommendation_id"`

	Dismissed   bool       `gorm:"column:dismissed;not null;default:false" json:"dismissed"`
	AppliedAt   *time.Time `gorm:"column:applied_at" json:"applied_at,omitempty"`
	DismissedAt *time.Time `gorm:"column:dismissed_at" json:"dismissed_at,omitempty"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (RecommendationState) TableName() string { return "recommendation_state" }
