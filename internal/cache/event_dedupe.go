package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const eventKeyPrefix = "aquiresolve:pagarme:event:"

// EventDeduper remembers webhook event IDs for a bounded time
type EventDeduper struct {
	client *redis.Client
	ttl    time.Duration
}

// NewEventDeduper creates a deduper keeping event IDs for ttl
func NewEventDeduper(client *redis.Client, ttl time.Duration) *EventDeduper {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &EventDeduper{client: client, ttl: ttl}
}

// MarkSeen records eventID and reports whether this is its first delivery
func (d *EventDeduper) MarkSeen(ctx context.Context, eventID string) (bool, error) {
	first, err := d.client.SetNX(ctx, eventKey(eventID), time.Now().UnixMilli(), d.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to record webhook event: %w", err)
	}
	return first, nil
}

// Forget drops eventID so a redelivery is processed again
func (d *EventDeduper) Forget(ctx context.Context, eventID string) error {
	if err := d.client.Del(ctx, eventKey(eventID)).Err(); err != nil {
		return fmt.Errorf("failed to forget webhook event: %w", err)
	}
	return nil
}

func eventKey(eventID string) string {
	return eventKeyPrefix + eventID
}
