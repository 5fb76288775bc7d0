package services

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/scoutdash/personalization-backend/internal/sse"
	"github.com/scoutdash/personalization-backend/internal/types"
)

// loopbackBus models redis pub/sub: every publish is delivered to all
// subscribers, including the forwarder running on the publishing instance,
// which re-broadcasts into the local hub.
type loopbackBus struct {
	hub       *sse.Hub
	published int
}

func (b *loopbackBus) Publish(ctx context.Context, userID uuid.UUID, insights types.ActionInsights) error {
	b.published++
	b.hub.Broadcast(sse.Message{
		Channel: sse.UserChannel(userID),
		Event:   sse.EventPersonalizationInsight,
		Data:    insights,
	})
	return nil
}

func TestBusSinkDeliversOncePerLocalClient(t *testing.T) {
	hub := sse.NewHub(testLogger(t))
	userID := uuid.New()
	client := hub.NewClient(userID)
	hub.AddChannel(client, sse.UserChannel(userID))

	bus := &loopbackBus{hub: hub}
	sink := NewBusSink(bus)

	insights := types.ActionInsights{
		RequiresImmediateAction: true,
		Insights:                []string{"feature_adopted:search"},
	}
	if err := sink.Apply(context.Background(), userID, insights); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	if bus.published != 1 {
		t.Fatalf("expected 1 publish, got %d", bus.published)
	}
	// The bus forwarder is the only local delivery path; the sink must not
	// also broadcast directly or the client sees the insight twice.
	if got := len(client.Outbound); got != 1 {
		t.Fatalf("client received %d messages for one insight, want 1", got)
	}
}

func TestHubSinkBroadcastsToUserChannel(t *testing.T) {
	hub := sse.NewHub(testLogger(t))
	userID := uuid.New()
	client := hub.NewClient(userID)
	hub.AddChannel(client, sse.UserChannel(userID))

	sink := NewHubSink(hub)
	if err := sink.Apply(context.Background(), userID, types.ActionInsights{Insights: []string{"x"}}); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got := len(client.Outbound); got != 1 {
		t.Fatalf("client received %d messages, want 1", got)
	}
}
