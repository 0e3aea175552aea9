package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func TestEventKey(t *testing.T) {
	assert.Equal(t, "aquiresolve:pagarme:event:hook_123", eventKey("hook_123"))
}

func TestNewEventDeduperDefaultsTTL(t *testing.T) {
	d := NewEventDeduper(nil, 0)
	assert.Equal(t, 24*time.Hour, d.ttl)

	d = NewEventDeduper(nil, time.Hour)
	assert.Equal(t, time.Hour, d.ttl)
}

func TestMarkSeenSurfacesConnectionErrors(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	d := NewEventDeduper(client, time.Minute)
	first, err := d.MarkSeen(context.Background(), "hook_1")
	assert.Error(t, err)
	assert.False(t, first)
}
