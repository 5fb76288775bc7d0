package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserPreferences is the per-user, per-tenant preference record. Rows are
// created lazily on first access with defaults and mutated by explicit
// preference updates; the nested groups are stored as jsonb columns.
type UserPreferences struct {
	ID       uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID   uuid.UUID `gorm:"type:uuid;not null;index:idx_user_prefs,unique,priority:1" json:"user_id"`
	TenantID uuid.UUID `gorm:"type:uuid;not null;index:idx_user_prefs,unique,priority:2" json:"tenant_id"`

	UI            UIPreferences           `gorm:"column:ui;serializer:json;type:jsonb;not null" json:"ui"`
	Workspace     WorkspacePreferences    `gorm:"column:workspace;serializer:json;type:jsonb;not null" json:"workspace"`
	Content       ContentPreferences      `gorm:"column:content;serializer:json;type:jsonb;not null" json:"content"`
	AI            AIPreferences           `gorm:"column:ai;serializer:json;type:jsonb;not null" json:"ai"`
	Notifications NotificationPreferences `gorm:"column:notifications;serializer:json;type:jsonb;not null" json:"notifications"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (UserPreferences) TableName() string { return "user_preferences" }

type UIPreferences struct {
	Theme          string `json:"theme"`   // "light" | "dark" | "auto" | "brand"
	Density        string `json:"density"` // "comfortable" | "compact" | "spacious"
	Language       string `json:"language"`
	Timezone       string `json:"timezone"`
	DateFormat     string `json:"date_format"`
	FirstDayOfWeek int    `json:"first_day_of_week"` // 0 Sunday, 1 Monday, 6 Saturday
	DefaultView    string `json:"default_view"`      // "chat" | "dashboard" | "workspace" | "integrations"
}

type WorkspacePreferences struct {
	DefaultWorkspaceID *string          `json:"default_workspace_id,omitempty"`
	FavoriteWorkspaces []string         `json:"favorite_workspaces"`
	RecentWorkspaces   []WorkspaceVisit `json:"recent_workspaces"`
	DefaultFileView    string           `json:"default_file_view"` // "grid" | "list" | "timeline" | "kanban"
	SortPreference     string           `json:"sort_preference"`   // "name" | "date" | "size" | "relevance"
	GroupBy            string           `json:"group_by"`          // "none" | "type" | "project" | "date" | "classification"
	QuickAccessFolders []string         `json:"quick_access_folders"`
}

type WorkspaceVisit struct {
	WorkspaceID      string    `json:"workspace_id"`
	LastVisited      time.Time `json:"last_visited"`
	VisitCount       int       `json:"visit_count"`
	AverageTimeSpent float64   `json:"average_time_spent"` // minutes
}

type ContentPreferences struct {
	AutoTagging           bool     `json:"auto_tagging"`
	SuggestedTags         []string `json:"suggested_tags"`
	DefaultClassification string   `json:"default_classification"` // "public" | "internal" | "confidential"
	PreferredFormats      []string `json:"preferred_formats"`
	AutoTranslate         bool     `json:"auto_translate"`
	SummarizationLevel    string   `json:"summarization_level"` // "brief" | "detailed" | "executive"
}

type AIPreferences struct {
	AutoSuggestions   bool           `json:"auto_suggestions"`
	ContextualHelp    bool           `json:"contextual_help"`
	ProactiveInsights bool           `json:"proactive_insights"`
	AutomationLevel   string         `json:"automation_level"` // "minimal" | "balanced" | "maximum"
	PreferredModel    *string        `json:"preferred_model,omitempty"`
	CustomPrompts     []CustomPrompt `json:"custom_prompts"`
}

type CustomPrompt struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Prompt     string `json:"prompt"`
	Category   string `json:"category"`
	Shortcut   string `json:"shortcut,omitempty"`
	UsageCount int    `json:"usage_count"`
}

type NotificationPreferences struct {
	Channels   NotificationChannels `json:"channels"`
	Frequency  string               `json:"frequency"` // "realtime" | "hourly" | "daily" | "weekly"
	Types      NotificationTypes    `json:"types"`
	QuietHours QuietHours           `json:"quiet_hours"`
}

type NotificationChannels struct {
	Email  bool `json:"email"`
	InApp  bool `json:"in_app"`
	Chat   bool `json:"chat"`
	Mobile bool `json:"mobile"`
}

type NotificationTypes struct {
	FileShared            bool `json:"file_shared"`
	WorkspaceUpdates      bool `json:"workspace_updates"`
	AIInsights            bool `json:"ai_insights"`
	SystemAlerts          bool `json:"system_alerts"`
	CollaborationRequests bool `json:"collaboration_requests"`
}

type QuietHours struct {
	Enabled  bool   `json:"enabled"`
	Start    string `json:"start"` // "22:00"
	End      string `json:"end"`   // "08:00"
	Timezone string `json:"timezone"`
}
