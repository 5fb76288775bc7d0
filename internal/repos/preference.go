package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/scoutdash/personalization-backend/internal/logger"
	"github.com/scoutdash/personalization-backend/internal/types"
)

// PreferenceRepo persists per-user, per-tenant preference records. A lookup
// miss returns (nil, nil); default construction belongs to the service layer.
type PreferenceRepo interface {
	GetByUserAndTenant(ctx context.Context, tx *gorm.DB, userID, tenantID uuid.UUID) (*types.UserPreferences, error)
	Upsert(ctx context.Context, tx *gorm.DB, row *types.UserPreferences) error
}

type preferenceRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPreferenceRepo(db *gorm.DB, baseLog *logger.Logger) PreferenceRepo {
	return &preferenceRepo{db: db, log: baseLog.With("repo", "PreferenceRepo")}
}

func (r *preferenceRepo) GetByUserAndTenant(ctx context.Context, tx *gorm.DB, userID, tenantID uuid.UUID) (*types.UserPreferences, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if userID == uuid.Nil || tenantID == uuid.Nil {
		return nil, nil
	}
	var row types.UserPreferences
	if err := t.WithContext(ctx).
		Where("user_id = ? AND tenant_id = ?", userID, tenantID).
		Limit(1).
		Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *preferenceRepo) Upsert(ctx context.Context, tx *gorm.DB, row *types.UserPreferences) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if row == nil || row.UserID == uuid.Nil || row.TenantID == uuid.Nil {
		return nil
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	row.UpdatedAt = time.Now().UTC()
	return t.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "tenant_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"ui",
				"workspace",
				"content",
				"ai",
				"notifications",
				"updated_at",
			}),
		}).
		Create(row).Error
}
