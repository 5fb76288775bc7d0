package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/scoutdash/personalization-backend/internal/sse"
	"github.com/scoutdash/personalization-backend/internal/types"
)

// defaultActionAnalyzer is the built-in ActionAnalyzer. It answers "no
// immediate action" for almost everything; the one rule it implements fires
// when a mature profile (10+ activity patterns) uses an action type for the
// first time, so the shell can surface the newly adopted feature right away.
type defaultActionAnalyzer struct{}

func NewDefaultActionAnalyzer() ActionAnalyzer {
	return defaultActionAnalyzer{}
}

func (defaultActionAnalyzer) Analyze(action types.UserAction, behavior *types.UserBehavior) types.ActionInsights {
	if behavior == nil {
		return types.ActionInsights{}
	}
	if len(behavior.Patterns.PrimaryActivities) < 10 {
		return types.ActionInsights{}
	}
	for _, p := range behavior.Patterns.PrimaryActivities {
		if p.Activity == action.Type {
			if p.Frequency == 1 {
				return types.ActionInsights{
					RequiresImmediateAction: true,
					Insights:                []string{"feature_adopted:" + action.Type},
				}
			}
			break
		}
	}
	return types.ActionInsights{}
}

// hubSink delivers insights to connected clients of this instance through
// the in-process SSE hub.
type hubSink struct {
	hub *sse.Hub
}

func NewHubSink(hub *sse.Hub) PersonalizationSink {
	return &hubSink{hub: hub}
}

func (s *hubSink) Apply(ctx context.Context, userID uuid.UUID, insights types.ActionInsights) error {
	s.hub.Broadcast(sse.Message{
		Channel: sse.UserChannel(userID),
		Event:   sse.EventPersonalizationInsight,
		Data:    insights,
	})
	return nil
}

// InsightPublisher is what the redis client exposes; declared here so the
// service layer does not import the redis package.
type InsightPublisher interface {
	Publish(ctx context.Context, userID uuid.UUID, insights types.ActionInsights) error
}

// busSink hands insights to the cross-instance bus. It replaces the hub sink
// entirely when the bus is configured: the bus forwarder delivers to the
// local hub too, so publishing to both would double-send to local clients.
type busSink struct {
	bus InsightPublisher
}

func NewBusSink(bus InsightPublisher) PersonalizationSink {
	return &busSink{bus: bus}
}

func (s *busSink) Apply(ctx context.Context, userID uuid.UUID, insights types.ActionInsights) error {
	return s.bus.Publish(ctx, userID, insights)
}
