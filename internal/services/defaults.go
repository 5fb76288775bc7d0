package services

import (
	"github.com/google/uuid"

	"github.com/scoutdash/personalization-backend/internal/types"
)

// Default objects for lookup misses. Absence of a stored row is not an error
// anywhere in this service; these are the starting state every profile
// mutates from.

func defaultPreferences(userID, tenantID uuid.UUID, timezone string) *types.UserPreferences {
	if timezone == "" {
		timezone = "UTC"
	}
	return &types.UserPreferences{
		ID:       uuid.New(),
		UserID:   userID,
		TenantID: tenantID,
		UI: types.UIPreferences{
			Theme:          "auto",
			Density:        "comfortable",
			Language:       "en",
			Timezone:       timezone,
			DateFormat:     "MM/DD/YYYY",
			FirstDayOfWeek: 0,
			DefaultView:    "chat",
		},
		Workspace: types.WorkspacePreferences{
			FavoriteWorkspaces: []string{},
			RecentWorkspaces:   []types.WorkspaceVisit{},
			DefaultFileView:    "grid",
			SortPreference:     "date",
			GroupBy:            "type",
			QuickAccessFolders: []string{},
		},
		Content: types.ContentPreferences{
			AutoTagging:           true,
			SuggestedTags:         []string{},
			DefaultClassification: "internal",
			PreferredFormats:      []string{"pdf", "docx", "xlsx"},
			AutoTranslate:         false,
			SummarizationLevel:    "brief",
		},
		AI: types.AIPreferences{
			AutoSuggestions:   true,
			ContextualHelp:    true,
			ProactiveInsights: false,
			AutomationLevel:   "balanced",
			CustomPrompts:     []types.CustomPrompt{},
		},
		Notifications: types.NotificationPreferences{
			Channels: types.NotificationChannels{
				Email:  true,
				InApp:  true,
				Chat:   false,
				Mobile: false,
			},
			Frequency: "realtime",
			Types: types.NotificationTypes{
				FileShared:            true,
				WorkspaceUpdates:      true,
				AIInsights:            true,
				SystemAlerts:          true,
				CollaborationRequests: true,
			},
			QuietHours: types.QuietHours{
				Enabled:  false,
				Start:    "22:00",
				End:      "08:00",
				Timezone: timezone,
			},
		},
	}
}

func defaultBehavior(userID uuid.UUID) *types.UserBehavior {
	return &types.UserBehavior{
		ID:     uuid.New(),
		UserID: userID,
		Patterns: types.BehaviorPatterns{
			ActiveHours:            []int{},
			ActiveDays:             []int{},
			PeakProductivity:       types.PeakProductivity{StartHour: 9, EndHour: 17},
			PrimaryActivities:      []types.ActivityPattern{},
			FrequentSearches:       []types.SearchPattern{},
			CollaborationStyle:     "small-team",
			PreferredContentTypes:  []types.ContentTypeUsage{},
			AverageSessionDuration: 0,
			TasksPerSession:        0,
		},
		LearningProfile: types.LearningProfile{
			ExperienceLevel:        "beginner",
			PreferredLearningStyle: "interactive",
			CompletedTutorials:     []string{},
			FeatureAdoption:        []types.FeatureAdoption{},
		},
	}
}
