package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const dedupTTL = time.Hour

// DedupChecker provides idempotency checks for billing events backed by Redis.
// Key format: mealportal:dedup:billing:<user_id>:<timestamp>
type DedupChecker struct {
	client *redis.Client
}

// NewDedupChecker creates a DedupChecker wrapping the given Redis client.
func NewDedupChecker(client *redis.Client) *DedupChecker {
	return &DedupChecker{client: client}
}

// IsDuplicate reports whether this exact event has already been processed.
func (d *DedupChecker) IsDuplicate(ctx context.Context, userID int64, stamp string) (bool, error) {
	n, err := d.client.Exists(ctx, d.key(userID, stamp)).Result()
	if err != nil {
		return false, fmt.Errorf("dedup check: %w", err)
	}
	return n > 0, nil
}

// Mark records that this event has been processed (expires after dedupTTL).
func (d *DedupChecker) Mark(ctx context.Context, userID int64, stamp string) error {
	return d.client.Set(ctx, d.key(userID, stamp), "1", dedupTTL).Err()
}

func (d *DedupChecker) key(userID int64, stamp string) string {
	return fmt.Sprintf("mealportal:dedup:billing:%d:%s", userID, stamp)
}
