package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/scoutdash/personalization-backend/internal/logger"
	"github.com/scoutdash/personalization-backend/internal/types"
)

// ActionEventRepo is the append-only log of tracked actions.
type ActionEventRepo interface {
	Create(ctx context.Context, tx *gorm.DB, events []*types.UserActionEvent) ([]*types.UserActionEvent, error)
	ListByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.UserActionEvent, error)
	CountByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error)
}

type actionEventRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewActionEventRepo(db *gorm.DB, baseLog *logger.Logger) ActionEventRepo {
	return &actionEventRepo{db: db, log: baseLog.With("repo", "ActionEventRepo")}
}

func (r *actionEventRepo) Create(ctx context.Context, tx *gorm.DB, events []*types.UserActionEvent) ([]*types.UserActionEvent, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(events) == 0 {
		return []*types.UserActionEvent{}, nil
	}
	if err := t.WithContext(ctx).Create(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

func (r *actionEventRepo) ListByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.UserActionEvent, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var results []*types.UserActionEvent
	if userID == uuid.Nil {
		return results, nil
	}
	q := t.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *actionEventRepo) CountByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var count int64
	if userID == uuid.Nil {
		return 0, nil
	}
	if err := t.WithContext(ctx).
		Model(&types.UserActionEvent{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
