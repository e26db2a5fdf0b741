package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis keeps the window in a sorted set per client, scored by request
// time, so multiple processes share one limit.
type Redis struct {
	client *redis.Client
	limit  int
	window time.Duration
}

func (r *Redis) Admit(ctx context.Context, clientID string, now time.Time) (bool, error) {
	key := fmt.Sprintf("ratelimit:%s", clientID)
	cutoff := now.Add(-r.window)

	if err := r.client.ZRemRangeByScore(ctx, key, "-inf",
		fmt.Sprintf("%d", cutoff.UnixNano())).Err(); err != nil {
		return false, err
	}
	count, err := r.client.ZCard(ctx, key).Result()
	if err != nil {
		return false, err
	}
	if int(count) >= r.limit {
		return false, nil
	}
	member := fmt.Sprintf("%d", now.UnixNano())
	if err := r.client.ZAdd(ctx, key, redis.Z{
		Score:  float64(now.UnixNano()),
		Member: member,
	}).Err(); err != nil {
		return false, err
	}
	_ = r.client.Expire(ctx, key, r.window).Err()
	return true, nil
}
