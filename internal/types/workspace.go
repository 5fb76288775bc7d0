package types

import "time"

// PersonalizedWorkspace is the derived output of a workspace request. It is
// regenerated on every call and never persisted.
type PersonalizedWorkspace struct {
	Layout          WorkspaceLayout                 `json:"layout"`
	Widgets         []Widget                        `json:"widgets"`
	Shortcuts       []Shortcut                      `json:"shortcuts"`
	Recommendations []PersonalizationRecommendation `json:"recommendations"`
}

// WorkspaceLayout is a flat configuration object, not a state machine.
type WorkspaceLayout struct {
	Density         string `json:"density"`
	Theme           string `json:"theme"`
	DefaultFileView string `json:"default_file_view"`

	ShowCollaborationPanel     bool   `json:"show_collaboration_panel,omitempty"`
	CollaborationPanelPosition string `json:"collaboration_panel_position,omitempty"`
	ShowDataPanel              bool   `json:"show_data_panel,omitempty"`
	ExpandedSidebar            bool   `json:"expanded_sidebar,omitempty"`
}

type Widget struct {
	Type     string         `json:"type"`
	Position GridPosition   `json:"position"`
	Config   map[string]any `json:"config"`
}

type GridPosition struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

type Shortcut struct {
	ID         string `json:"id"`
	Label      string `json:"label"`
	Icon       string `json:"icon"`
	Action     string `json:"action"`
	KeyBinding string `json:"key_binding,omitempty"`
}

type PersonalizationRecommendation struct {
	ID          string               `json:"id"`
	Type        string               `json:"type"` // "workspace" | "feature" | "content" | "automation" | "learning"
	Title       string               `json:"title"`
	Description string               `json:"description"`
	Benefit     string               `json:"benefit"`
	Priority    string               `json:"priority"` // "low" | "medium" | "high"
	Action      RecommendationAction `json:"action"`
	Dismissed   bool                 `json:"dismissed,omitempty"`
	AppliedAt   *time.Time           `json:"applied_at,omitempty"`
}

type RecommendationAction struct {
	Type   string         `json:"type"` // "enable" | "try" | "learn" | "customize"
	Target string         `json:"target"`
	Params map[string]any `json:"params,omitempty"`
}

// ActionInsights is the analyzer verdict for one tracked action. When
// RequiresImmediateAction is set the insights are pushed through the
// configured PersonalizationSink.
type ActionInsights struct {
	RequiresImmediateAction bool     `json:"requires_immediate_action"`
	Insights                []string `json:"insights"`
}
