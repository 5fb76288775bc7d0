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

// RecommendationStateRepo stores the caller-posted applied/dismissed marks.
type RecommendationStateRepo interface {
	Upsert(ctx context.Context, tx *gorm.DB, row *types.RecommendationState) error
	ListByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.RecommendationState, error)
}

type recommendationStateRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRecommendationStateRepo(db *gorm.DB, baseLog *logger.Logger) RecommendationStateRepo {
	return &recommendationStateRepo{db: db, log: baseLog.With("repo", "RecommendationStateRepo")}
}

func (r *recommendationStateRepo) Upsert(ctx context.Context, tx *gorm.DB, row *types.RecommendationState) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if row == nil || row.UserID == uuid.Nil || row.RecommendationID == "" {
		return nil
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	row.UpdatedAt = time.Now().UTC()
	return t.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "recommendation_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"dismissed",
				"applied_at",
				"dismissed_at",
				"updated_at",
			}),
		}).
		Create(row).Error
}

func (r *recommendationStateRepo) ListByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.RecommendationState, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var results []*types.RecommendationState
	if userID == uuid.Nil {
		return results, nil
	}
	if err := t.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
