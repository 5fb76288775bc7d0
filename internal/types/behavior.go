package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserBehavior holds the accumulated behavioral profile for one user. Rows
// are created on the first tracked action and continuously mutated; they are
// never deleted during a session.
type UserBehavior struct {
	ID     uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`

	Patterns        BehaviorPatterns `gorm:"column:patterns;serializer:json;type:jsonb;not null" json:"patterns"`
	LearningProfile LearningProfile  `gorm:"column:learning_profile;serializer:json;type:jsonb;not null" json:"learning_profile"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (UserBehavior) TableName() string { return "user_behavior" }

type BehaviorPatterns struct {
	// Time patterns. ActiveHours/ActiveDays are sets, not counters: a second
	// occurrence in the same hour or day is a no-op.
	ActiveHours      []int            `json:"active_hours"`
	ActiveDays       []int            `json:"active_days"`
	PeakProductivity PeakProductivity `json:"peak_productivity"`

	// Usage patterns. PrimaryActivities stays sorted by descending frequency
	// after every update.
	PrimaryActivities  []ActivityPattern `json:"primary_activities"`
	FrequentSearches   []SearchPattern   `json:"frequent_searches"`
	CollaborationStyle string            `json:"collaboration_style"` // "solo" | "small-team" | "cross-functional"

	PreferredContentTypes  []ContentTypeUsage `json:"preferred_content_types"`
	AverageSessionDuration float64            `json:"average_session_duration"` // minutes
	TasksPerSession        float64            `json:"tasks_per_session"`
}

type PeakProductivity struct {
	StartHour int `json:"start_hour"`
	EndHour   int `json:"end_hour"`
}

type ActivityPattern struct {
	Activity        string    `json:"activity"`
	Frequency       int       `json:"frequency"`
	LastPerformed   time.Time `json:"last_performed"`
	AverageDuration float64   `json:"average_duration"`
}

type SearchPattern struct {
	Query          string    `json:"query"`
	Frequency      int       `json:"frequency"`
	LastSearched   time.Time `json:"last_searched"`
	ClickedResults []string  `json:"clicked_results"`
}

type ContentTypeUsage struct {
	Type       string  `json:"type"`
	Percentage float64 `json:"percentage"`
	Trend      string  `json:"trend"` // "increasing" | "stable" | "decreasing"
}

type LearningProfile struct {
	ExperienceLevel        string            `json:"experience_level"` // "beginner" | "intermediate" | "advanced" | "expert"
	PreferredLearningStyle string            `json:"preferred_learning_style"`
	CompletedTutorials     []string          `json:"completed_tutorials"`
	FeatureAdoption        []FeatureAdoption `json:"feature_adoption"`
}

type FeatureAdoption struct {
	Feature     string    `json:"feature"`
	FirstUsed   time.Time `json:"first_used"`
	UsageCount  int       `json:"usage_count"`
	Proficiency float64   `json:"proficiency"` // 0-100
}
