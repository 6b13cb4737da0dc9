// Package attempts remembers failed thumbnail generations so a broken book
// is retried with exponential backoff instead of on every listing.
package attempts

import (
	"context"
	"sync"
	"time"
)

// Tracker gates retries per book id.
type Tracker interface {
	ShouldAttempt(ctx context.Context, id string) bool
	RecordFailure(ctx context.Context, id string)
	RecordSuccess(ctx context.Context, id string)
}

// Backoff doubles from Base per consecutive failure, capped at Max.
type Backoff struct {
	Base time.Duration
	Max  time.Duration
}

func (b Backoff) After(failures int) time.Duration {
	if failures < 1 || b.Base <= 0 {
		return 0
	}
	d := b.Base
	for i := 1; i < failures; i++ {
		d *= 2
		if b.Max > 0 && d >= b.Max {
			return b.Max
		}
	}
	if b.Max > 0 && d > b.Max {
		return b.Max
	}
	return d
}

type entry struct {
	failures int
	next     time.Time
}

// Memory is a process-local Tracker.
type Memory struct {
	backoff Backoff
	now     func() time.Time

	mu      sync.Mutex
	entries map[string]entry
}

func NewMemory(b Backoff) *Memory {
	return &Memory{backoff: b, now: time.Now, entries: make(map[string]entry)}
}

func (m *Memory) ShouldAttempt(_ context.Context, id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[id]
	return !ok || !m.now().Before(e.next)
}

func (m *Memory) RecordFailure(_ context.Context, id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e := m.entries[id]
	e.failures++
	e.next = m.now().Add(m.backoff.After(e.failures))
	m.entries[id] = e
}

func (m *Memory) RecordSuccess(_ context.Context, id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, id)
}
