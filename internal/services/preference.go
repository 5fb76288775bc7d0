package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/scoutdash/personalization-backend/internal/logger"
	"github.com/scoutdash/personalization-backend/internal/repos"
	"github.com/scoutdash/personalization-backend/internal/types"
)

// PreferenceUpdate is a partial update: only the groups present are
// replaced, the rest of the stored record is untouched.
type PreferenceUpdate struct {
	UI            *types.UIPreferences           `json:"ui,omitempty"`
	Workspace     *types.WorkspacePreferences    `json:"workspace,omitempty"`
	Content       *types.ContentPreferences      `json:"content,omitempty"`
	AI            *types.AIPreferences           `json:"ai,omitempty"`
	Notifications *types.NotificationPreferences `json:"notifications,omitempty"`
}

type PreferenceService interface {
	GetOrCreate(ctx context.Context, userID, tenantID uuid.UUID) (*types.UserPreferences, error)
	Update(ctx context.Context, userID, tenantID uuid.UUID, update PreferenceUpdate) (*types.UserPreferences, error)
}

type preferenceService struct {
	db       *gorm.DB
	log      *logger.Logger
	prefRepo repos.PreferenceRepo
}

func NewPreferenceService(db *gorm.DB, log *logger.Logger, prefRepo repos.PreferenceRepo) PreferenceService {
	return &preferenceService{
		db:       db,
		log:      log.With("service", "PreferenceService"),
		prefRepo: prefRepo,
	}
}

func (ps *preferenceService) GetOrCreate(ctx context.Context, userID, tenantID uuid.UUID) (*types.UserPreferences, error) {
	if userID == uuid.Nil || tenantID == uuid.Nil {
		return nil, fmt.Errorf("user and tenant required")
	}
	prefs, err := ps.prefRepo.GetByUserAndTenant(ctx, nil, userID, tenantID)
	if err != nil {
		return nil, fmt.Errorf("fetch preferences: %w", err)
	}
	if prefs != nil {
		return prefs, nil
	}
	prefs = defaultPreferences(userID, tenantID, "")
	if err := ps.prefRepo.Upsert(ctx, nil, prefs); err != nil {
		return nil, fmt.Errorf("store default preferences: %w", err)
	}
	return prefs, nil
}

func (ps *preferenceService) Update(ctx context.Context, userID, tenantID uuid.UUID, update PreferenceUpdate) (*types.UserPreferences, error) {
	if userID == uuid.Nil || tenantID == uuid.Nil {
		return nil, fmt.Errorf("user and tenant required")
	}

	var result *types.UserPreferences
	run := func(tx *gorm.DB) error {
		prefs, err := ps.prefRepo.GetByUserAndTenant(ctx, tx, userID, tenantID)
		if err != nil {
			return fmt.Errorf("fetch preferences: %w", err)
		}
		if prefs == nil {
			prefs = defaultPreferences(userID, tenantID, "")
		}

		if update.UI != nil {
			prefs.UI = *update.UI
		}
		if update.Workspace != nil {
			prefs.Workspace = *update.Workspace
		}
		if update.Content != nil {
			prefs.Content = *update.Content
		}
		if update.AI != nil {
			prefs.AI = *update.AI
		}
		if update.Notifications != nil {
			prefs.Notifications = *update.Notifications
		}

		if err := ps.prefRepo.Upsert(ctx, tx, prefs); err != nil {
			return fmt.Errorf("store preferences: %w", err)
		}
		result = prefs
		return nil
	}

	if ps.db == nil {
		if err := run(nil); err != nil {
			return nil, err
		}
		return result, nil
	}
	if err := ps.db.WithContext(ctx).Transaction(run); err != nil {
		return nil, err
	}
	return result, nil
}
