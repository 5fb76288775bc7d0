package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/scoutdash/personalization-backend/internal/logger"
	"github.com/scoutdash/personalization-backend/internal/types"
)

// InsightBus fans personalization insights out across instances over redis
// pub/sub, so a push reaches users whose SSE stream is connected elsewhere.
type InsightBus interface {
	Publish(ctx context.Context, userID uuid.UUID, insights types.ActionInsights) error
	StartForwarder(ctx context.Context, onMsg func(userID uuid.UUID, insights types.ActionInsights)) error
	Close() error
}

type insightEnvelope struct {
	UserID   uuid.UUID            `json:"user_id"`
	Insights types.ActionInsights `json:"insights"`
}

type insightBus struct {
	log     *logger.Logger
	rdb     *goredis.Client
	channel string
}

func NewInsightBus(log *logger.Logger) (InsightBus, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	ch := strings.TrimSpace(os.Getenv("REDIS_CHANNEL"))
	if ch == "" {
		ch = "personalization-insights"
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &insightBus{
		log:     log.With("service", "RedisInsightBus"),
		rdb:     rdb,
		channel: ch,
	}, nil
}

func (b *insightBus) Publish(ctx context.Context, userID uuid.UUID, insights types.ActionInsights) error {
	if b == nil || b.rdb == nil {
		return fmt.Errorf("redis insight bus not initialized")
	}
	raw, err := json.Marshal(insightEnvelope{UserID: userID, Insights: insights})
	if err != nil {
		return err
	}
	return b.rdb.Publish(ctx, b.channel, raw).Err()
}

func (b *insightBus) StartForwarder(ctx context.Context, onMsg func(userID uuid.UUID, insights types.ActionInsights)) error {
	if b == nil || b.rdb == nil {
		return fmt.Errorf("redis insight bus not initialized")
	}
	if onMsg == nil {
		return fmt.Errorf("onMsg callback required")
	}

	sub := b.rdb.Subscribe(ctx, b.channel)

	// ensures subscription actually started
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("redis subscribe: %w", err)
	}

	go func() {
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				_ = sub.Close()
				return
			case m, ok := <-ch:
				if !ok || m == nil {
					_ = sub.Close()
					return
				}
				var env insightEnvelope
				if err := json.Unmarshal([]byte(m.Payload), &env); err != nil {
					b.log.Warn("bad redis insight payload", "error", err)
					continue
				}
				onMsg(env.UserID, env.Insights)
			}
		}
	}()

	return nil
}

func (b *insightBus) Close() error {
	if b == nil || b.rdb == nil {
		return nil
	}
	return b.rdb.Close()
}
