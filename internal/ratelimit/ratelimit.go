// Package ratelimit gates chat requests with a per-client sliding window.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	DefaultLimit  = 5
	DefaultWindow = 60 * time.Second
)

// Limiter admits or rejects a request from clientID at time now. A
// rejected attempt is not recorded against the window.
type Limiter interface {
	Admit(ctx context.Context, clientID string, now time.Time) (bool, error)
}

type BackendType string

const (
	MemoryBackend BackendType = "memory"
	RedisBackend  BackendType = "redis"
)

// New selects a limiter backend. Memory is the default and is only
// correct for single-process deployments; redis shares the window across
// processes.
func New(backend BackendType, limit int, window time.Duration, rdb *redis.Client) (Limiter, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if window <= 0 {
		window = DefaultWindow
	}
	switch backend {
	case MemoryBackend, "":
		return NewMemory(limit, window), nil
	case RedisBackend:
		if rdb == nil {
			return nil, fmt.Errorf("redis backend requires a client")
		}
		return &Redis{client: rdb, limit: limit, window: window}, nil
	default:
		return nil, fmt.Errorf("unsupported ratelimit backend: %s", backend)
	}
}
