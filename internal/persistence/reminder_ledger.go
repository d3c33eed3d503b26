package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ReminderLedger marks contract reminders as sent so a re-run of the daily
// job within the same day cannot enqueue duplicates. Backed by Redis SETNX
// with a TTL slightly longer than one day.
type ReminderLedger struct {
	client *redis.Client
	ttl    time.Duration
}

// NewReminderLedger builds a ledger on top of an existing Redis client.
func NewReminderLedger(r *Redis, ttl time.Duration) *ReminderLedger {
	var client *redis.Client
	if r != nil {
		client = r.Client
	}
	return &ReminderLedger{client: client, ttl: ttl}
}

// MarkSent atomically records (contract, threshold, day). It returns true
// when this call created the marker, false when a reminder for the same
// triple was already recorded.
func (l *ReminderLedger) MarkSent(ctx context.Context, contractID string, thresholdDays int, day time.Time) (bool, error) {
	if l == nil || l.client == nil {
		// No ledger configured; fall back to the once-daily trigger discipline.
		return true, nil
	}
	key := ledgerKey(contractID, thresholdDays, day)
	return l.client.SetNX(ctx, key, "1", l.ttl).Result()
}

func ledgerKey(contractID string, thresholdDays int, day time.Time) string {
	return fmt.Sprintf("reminder:sent:%s:%d:%s", contractID, thresholdDays, day.Format("2006-01-02"))
}
