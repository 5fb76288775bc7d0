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

// BehaviorRepo persists per-user behavior profiles, keyed by user alone.
type BehaviorRepo interface {
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.UserBehavior, error)
	Upsert(ctx context.Context, tx *gorm.DB, row *types.UserBehavior) error
}

type behaviorRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewBehaviorRepo(db *gorm.DB, baseLog *logger.Logger) BehaviorRepo {
	return &behaviorRepo{db: db, log: baseLog.With("repo", "BehaviorRepo")}
}

func (r *behaviorRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.UserBehavior, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if userID == uuid.Nil {
		return nil, nil
	}
	var row types.UserBehavior
	if err := t.WithContext(ctx).
		Where("user_id = ?", userID).
		Limit(1).
		Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *behaviorRepo) Upsert(ctx context.Context, tx *gorm.DB, row *types.UserBehavior) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if row == nil || row.UserID == uuid.Nil {
		return nil
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	row.UpdatedAt = time.Now().UTC()
	return t.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"patterns",
				"learning_profile",
				"updated_at",
			}),
		}).
		Create(row).Error
}
