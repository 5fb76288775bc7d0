package repos

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/scoutdash/personalization-backend/internal/repos/testutil"
	"github.com/scoutdash/personalization-backend/internal/types"
)

func TestPreferenceRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewPreferenceRepo(db, testutil.Logger(t))

	userID := uuid.New()
	tenantID := uuid.New()

	// Miss is (nil, nil).
	row, err := repo.GetByUserAndTenant(ctx, tx, userID, tenantID)
	if err != nil {
		t.Fatalf("GetByUserAndTenant (miss): %v", err)
	}
	if row != nil {
		t.Fatalf("GetByUserAndTenant (miss): expected nil, got %+v", row)
	}

	seed := &types.UserPreferences{
		ID:       uuid.New(),
		UserID:   userID,
		TenantID: tenantID,
		UI:       types.UIPreferences{Theme: "dark", Density: "compact", Language: "en"},
		Workspace: types.WorkspacePreferences{
			FavoriteWorkspaces: []string{"ws-1"},
			DefaultFileView:    "list",
		},
		AI: types.AIPreferences{AutomationLevel: "balanced"},
	}
	if err := repo.Upsert(ctx, tx, seed); err != nil {
		t.Fatalf("Upsert (insert): %v", err)
	}

	got, err := repo.GetByUserAndTenant(ctx, tx, userID, tenantID)
	if err != nil {
		t.Fatalf("GetByUserAndTenant: %v", err)
	}
	if got == nil || got.ID != seed.ID {
		t.Fatalf("GetByUserAndTenant: expected %v, got %+v", seed.ID, got)
	}
	if got.UI.Theme != "dark" || len(got.Workspace.FavoriteWorkspaces) != 1 {
		t.Fatalf("jsonb round trip lost data: %+v", got)
	}

	// Same user in a different tenant is a separate row.
	otherTenant := uuid.New()
	if row, err := repo.GetByUserAndTenant(ctx, tx, userID, otherTenant); err != nil || row != nil {
		t.Fatalf("tenant isolation broken: row=%+v err=%v", row, err)
	}

	// Conflicting insert updates in place.
	update := &types.UserPreferences{
		ID:       uuid.New(),
		UserID:   userID,
		TenantID: tenantID,
		UI:       types.UIPreferences{Theme: "light", Density: "comfortable", Language: "en"},
	}
	if err := repo.Upsert(ctx, tx, update); err != nil {
		t.Fatalf("Upsert (conflict): %v", err)
	}
	got, err = repo.GetByUserAndTenant(ctx, tx, userID, tenantID)
	if err != nil {
		t.Fatalf("GetByUserAndTenant after update: %v", err)
	}
	if got.ID != seed.ID {
		t.Fatalf("conflict created a second row: %v vs %v", got.ID, seed.ID)
	}
	if got.UI.Theme != "light" {
		t.Fatalf("conflict update not applied: %+v", got.UI)
	}

	// Invalid inputs are no-ops, not errors.
	if err := repo.Upsert(ctx, tx, nil); err != nil {
		t.Fatalf("Upsert(nil): %v", err)
	}
	if err := repo.Upsert(ctx, tx, &types.UserPreferences{UserID: uuid.Nil, TenantID: tenantID}); err != nil {
		t.Fatalf("Upsert(nil user): %v", err)
	}
	if row, err := repo.GetByUserAndTenant(ctx, tx, uuid.Nil, tenantID); err != nil || row != nil {
		t.Fatalf("GetByUserAndTenant(nil user): row=%+v err=%v", row, err)
	}
}
