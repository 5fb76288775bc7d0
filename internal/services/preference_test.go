package services

import (
	"context"
	"reflect"
	"testing"

	"github.com/google/uuid"

	"github.com/scoutdash/personalization-backend/internal/types"
)

func TestPreferenceGetOrCreate(t *testing.T) {
	prefs := newFakePrefRepo()
	svc := NewPreferenceService(nil, testLogger(t), prefs)
	ctx := context.Background()
	userID, tenantID := uuid.New(), uuid.New()

	created, err := svc.GetOrCreate(ctx, userID, tenantID)
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	if created.UI.Theme != "auto" || created.AI.AutomationLevel != "balanced" {
		t.Fatalf("unexpected defaults: %+v", created)
	}
	if created.AI.ProactiveInsights {
		t.Fatalf("proactive insights must default off")
	}
	if created.Notifications.QuietHours.Start != "22:00" || created.Notifications.QuietHours.Enabled {
		t.Fatalf("unexpected quiet hours defaults: %+v", created.Notifications.QuietHours)
	}

	again, err := svc.GetOrCreate(ctx, userID, tenantID)
	if err != nil {
		t.Fatalf("second GetOrCreate: %v", err)
	}
	if again.ID != created.ID {
		t.Fatalf("second call created a new row: %s vs %s", again.ID, created.ID)
	}

	if _, err := svc.GetOrCreate(ctx, uuid.Nil, tenantID); err == nil {
		t.Fatalf("expected error for nil user")
	}
}

func TestPreferenceUpdateMergesGroups(t *testing.T) {
	prefs := newFakePrefRepo()
	svc := NewPreferenceService(nil, testLogger(t), prefs)
	ctx := context.Background()
	userID, tenantID := uuid.New(), uuid.New()

	seeded, err := svc.GetOrCreate(ctx, userID, tenantID)
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}

	newUI := seeded.UI
	newUI.Theme = "dark"
	newUI.Density = "compact"

	updated, err := svc.Update(ctx, userID, tenantID, PreferenceUpdate{UI: &newUI})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.UI.Theme != "dark" || updated.UI.Density != "compact" {
		t.Fatalf("UI group not replaced: %+v", updated.UI)
	}
	// Groups absent from the update stay untouched.
	if !reflect.DeepEqual(updated.Workspace, seeded.Workspace) {
		t.Fatalf("workspace group changed by UI-only update")
	}
	if !reflect.DeepEqual(updated.Notifications, seeded.Notifications) {
		t.Fatalf("notifications group changed by UI-only update")
	}

	stored, err := prefs.GetByUserAndTenant(ctx, nil, userID, tenantID)
	if err != nil || stored == nil {
		t.Fatalf("updated row not persisted: %v", err)
	}
	if stored.UI.Theme != "dark" {
		t.Fatalf("persisted row missing update: %+v", stored.UI)
	}
}

func TestPreferenceUpdateCreatesMissingRow(t *testing.T) {
	prefs := newFakePrefRepo()
	svc := NewPreferenceService(nil, testLogger(t), prefs)
	ctx := context.Background()
	userID, tenantID := uuid.New(), uuid.New()

	ai := types.AIPreferences{
		AutoSuggestions:   true,
		ContextualHelp:    false,
		ProactiveInsights: true,
		AutomationLevel:   "aggressive",
		CustomPrompts:     []types.CustomPrompt{},
	}
	updated, err := svc.Update(ctx, userID, tenantID, PreferenceUpdate{AI: &ai})
	if err != nil {
		t.Fatalf("Update on missing row: %v", err)
	}
	if !updated.AI.ProactiveInsights || updated.AI.AutomationLevel != "aggressive" {
		t.Fatalf("update lost on fresh row: %+v", updated.AI)
	}
	// The untouched groups come from the defaults.
	if updated.UI.Theme != "auto" {
		t.Fatalf("fresh row not seeded from defaults: %+v", updated.UI)
	}
}
