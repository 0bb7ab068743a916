package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"studiobooking/internal/schedule"
)

const (
	dayKeyPrefix = "schedule:day:"
	dayTTL       = 15 * time.Minute
)

// ScheduleCache caches an engineer's resolved UTC ranges for one civil date.
// All methods are safe on a nil receiver so redis stays optional.
type ScheduleCache struct {
	client *redis.Client
}

func New(addr string) *ScheduleCache {
	if addr == "" {
		return nil
	}
	return &ScheduleCache{client: redis.NewClient(&redis.Options{Addr: addr})}
}

func dayKey(userID int64, date time.Time) string {
	return fmt.Sprintf("%s%d:%s", dayKeyPrefix, userID, date.Format("2006-01-02"))
}

func (c *ScheduleCache) GetDay(ctx context.Context, userID int64, date time.Time) ([]schedule.Range, bool) {
	if c == nil {
		return nil, false
	}
	val, err := c.client.Get(ctx, dayKey(userID, date)).Result()
	if err != nil {
		return nil, false
	}
	var ranges []schedule.Range
	if err := json.Unmarshal([]byte(val), &ranges); err != nil {
		return nil, false
	}
	return ranges, true
}

func (c *ScheduleCache) SetDay(ctx context.Context, userID int64, date time.Time, ranges []schedule.Range) {
	if c == nil {
		return
	}
	data, err := json.Marshal(ranges)
	if err != nil {
		return
	}
	c.client.Set(ctx, dayKey(userID, date), data, dayTTL)
}

// InvalidateUser drops every cached day for the engineer after a
// schedule or holiday change.
func (c *ScheduleCache) InvalidateUser(ctx context.Context, userID int64) {
	if c == nil {
		return
	}
	pattern := fmt.Sprintf("%s%d:*", dayKeyPrefix, userID)
	keys, err := c.client.Keys(ctx, pattern).Result()
	if err != nil || len(keys) == 0 {
		return
	}
	c.client.Del(ctx, keys...)
}
