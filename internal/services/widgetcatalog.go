package services

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/scoutdash/personalization-backend/internal/logger"
	"github.com/scoutdash/personalization-backend/internal/types"
)

const (
	WidgetFavoriteWorkspaces = "favorite_workspaces"
	WidgetRecentActivity     = "recent_activity"
	WidgetAIInsights         = "ai_insights"
	WidgetTeamActivity       = "team_activity"
)

// WidgetCatalog holds the grid geometry and static config defaults for every
// widget type the workspace can place. Deployments can override the built-in
// catalog with a YAML file (WIDGET_CATALOG_PATH); dynamic config fields are
// always filled in by the selection logic, never by the catalog.
type WidgetCatalog struct {
	entries map[string]CatalogEntry
}

type CatalogEntry struct {
	Position types.GridPosition `yaml:"position"`
	Config   map[string]any     `yaml:"config"`
}

type catalogFile struct {
	Widgets map[string]CatalogEntry `yaml:"widgets"`
}

func DefaultWidgetCatalog() *WidgetCatalog {
	return &WidgetCatalog{entries: map[string]CatalogEntry{
		WidgetFavoriteWorkspaces: {
			Position: types.GridPosition{X: 0, Y: 0, W: 4, H: 2},
			Config:   map[string]any{},
		},
		WidgetRecentActivity: {
			Position: types.GridPosition{X: 4, Y: 0, W: 4, H: 2},
			Config:   map[string]any{"limit": 10, "group_by": "project"},
		},
		WidgetAIInsights: {
			Position: types.GridPosition{X: 8, Y: 0, W: 4, H: 3},
			Config: map[string]any{
				"insight_types":    []string{"trends", "anomalies", "recommendations"},
				"update_frequency": "realtime",
			},
		},
		WidgetTeamActivity: {
			Position: types.GridPosition{X: 0, Y: 2, W: 6, H: 2},
			Config: map[string]any{
				"show_active_users": true,
				"show_shared_files": true,
			},
		},
	}}
}

// LoadWidgetCatalog reads a catalog override file. Entries for unknown widget
// types are ignored; entries missing from the file keep their defaults.
func LoadWidgetCatalog(path string, log *logger.Logger) (*WidgetCatalog, error) {
	catalog := DefaultWidgetCatalog()
	if path == "" {
		return catalog, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read widget catalog: %w", err)
	}
	var file catalogFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse widget catalog: %w", err)
	}
	for name, entry := range file.Widgets {
		if _, known := catalog.entries[name]; !known {
			if log != nil {
				log.Warn("Widget catalog entry for unknown widget type, skipping", "widget_type", name)
			}
			continue
		}
		if entry.Config == nil {
			entry.Config = catalog.entries[name].Config
		}
		catalog.entries[name] = entry
	}
	return catalog, nil
}

// Entry returns a copy of the catalog entry so callers can extend the config
// without mutating shared state.
func (c *WidgetCatalog) Entry(widgetType string) (CatalogEntry, bool) {
	entry, ok := c.entries[widgetType]
	if !ok {
		return CatalogEntry{}, false
	}
	cfg := make(map[string]any, len(entry.Config))
	for k, v := range entry.Config {
		cfg[k] = v
	}
	return CatalogEntry{Position: entry.Position, Config: cfg}, true
}
