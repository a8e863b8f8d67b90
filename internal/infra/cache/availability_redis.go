package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/BruksfildServices01/agenda-engine/internal/domain/schedule"
)

const (
	keyPrefix       = "agenda:"
	rulesVersionKey = keyPrefix + "v:rules"
)

func dateVersionKey(date string) string {
	return keyPrefix + "v:date:" + date
}

// snapshotKey embeds both versions, so a bump makes every older entry
// unreachable and TTL reclaims it.
func snapshotKey(k schedule.SnapshotKey, dateVersion, rulesVersion string) string {
	return fmt.Sprintf(
		"%savail:%s:p%d:x%d:d%s:r%s",
		keyPrefix, k.Date, k.ProcedureID, k.ExcludeID, dateVersion, rulesVersion,
	)
}

// AvailabilityCache keeps computed grids in Redis. Booking and block
// mutations bump the per-date version; schedule-rule and catalogue changes
// bump the global one.
type AvailabilityCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewAvailabilityCache(rdb *redis.Client, ttl time.Duration) *AvailabilityCache {
	return &AvailabilityCache{rdb: rdb, ttl: ttl}
}

func (c *AvailabilityCache) Get(
	ctx context.Context,
	k schedule.SnapshotKey,
) (*schedule.Availability, string, error) {

	versions, err := c.rdb.MGet(ctx, dateVersionKey(k.Date), rulesVersionKey).Result()
	if err != nil {
		return nil, "", err
	}

	stamp := snapshotKey(k, versionOf(versions[0]), versionOf(versions[1]))

	raw, err := c.rdb.Get(ctx, stamp).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, stamp, nil
	}
	if err != nil {
		return nil, "", err
	}

	var a schedule.Availability
	if err := json.Unmarshal(raw, &a); err != nil {
		// unreadable entry, recompute over it
		return nil, stamp, nil
	}
	return &a, stamp, nil
}

func (c *AvailabilityCache) Put(
	ctx context.Context,
	stamp string,
	a schedule.Availability,
) error {
	raw, err := json.Marshal(a)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, stamp, raw, c.ttl).Err()
}

func (c *AvailabilityCache) InvalidateDate(ctx context.Context, date string) error {
	return c.rdb.Incr(ctx, dateVersionKey(date)).Err()
}

func (c *AvailabilityCache) InvalidateAll(ctx context.Context) error {
	return c.rdb.Incr(ctx, rulesVersionKey).Err()
}

func versionOf(v any) string {
	if s, ok := v.(string); ok && s != "" {
		return s
	}
	return "0"
}

// Compile-time check
var _ schedule.SnapshotCache = (*AvailabilityCache)(nil)
