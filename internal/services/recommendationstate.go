package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/scoutdash/personalization-backend/internal/logger"
	"github.com/scoutdash/personalization-backend/internal/repos"
	"github.com/scoutdash/personalization-backend/internal/types"
)

// RecommendationStateService records what the caller did with a generated
// recommendation. The generator never calls this; marks only exist because
// the dashboard shell posted them.
//
// Marks are latest-wins: applying a previously dismissed recommendation
// clears the dismissal (it re-enters workspace output), and dismissing a
// previously applied one clears applied_at. A row holds one current mark,
// not a history; the history lives in the caller's action log.
type RecommendationStateService interface {
	MarkApplied(ctx context.Context, userID uuid.UUID, recommendationID string) error
	MarkDismissed(ctx context.Context, userID uuid.UUID, recommendationID string) error
}

type recommendationStateService struct {
	db           *gorm.DB
	log          *logger.Logger
	recStateRepo repos.RecommendationStateRepo
}

func NewRecommendationStateService(db *gorm.DB, log *logger.Logger, recStateRepo repos.RecommendationStateRepo) RecommendationStateService {
	return &recommendationStateService{
		db:           db,
		log:          log.With("service", "RecommendationStateService"),
		recStateRepo: recStateRepo,
	}
}

func (rs *recommendationStateService) MarkApplied(ctx context.Context, userID uuid.UUID, recommendationID string) error {
	if userID == uuid.Nil || recommendationID == "" {
		return fmt.Errorf("user and recommendation id required")
	}
	now := time.Now().UTC()
	return rs.recStateRepo.Upsert(ctx, nil, &types.RecommendationState{
		UserID:           userID,
		RecommendationID: recommendationID,
		AppliedAt:        &now,
	})
}

func (rs *recommendationStateService) MarkDismissed(ctx context.Context, userID uuid.UUID, recommendationID string) error {
	if userID == uuid.Nil || recommendationID == "" {
		return fmt.Errorf("user and recommendation id required")
	}
	now := time.Now().UTC()
	return rs.recStateRepo.Upsert(ctx, nil, &types.RecommendationState{
		UserID:           userID,
		RecommendationID: recommendationID,
		Dismissed:        true,
		DismissedAt:      &now,
	})
}
