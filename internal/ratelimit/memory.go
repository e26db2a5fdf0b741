package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Memory keeps per-client request timestamps in a mutex-guarded map.
// State is process-local; a restart resets all windows.
type Memory struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	clients map[string][]time.Time
}

func NewMemory(limit int, window time.Duration) *Memory {
	return &Memory{
		limit:   limit,
		window:  window,
		clients: make(map[string][]time.Time),
	}
}

func (m *Memory) Admit(_ context.Context, clientID string, now time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := now.Add(-m.window)
	kept := m.clients[clientID][:0]
	for _, ts := range m.clients[clientID] {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	if len(kept) >= m.limit {
		m.clients[clientID] = kept
		return false, nil
	}
	m.clients[clientID] = append(kept, now)
	return true, nil
}
