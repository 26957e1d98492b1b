// Package clock supplies the time used to stamp new posts, so tests can pin it.
package clock

import (
	"sync"
	"time"
)

type Clock interface {
	NowUTC() time.Time
}

// System reads the wall clock.
type System struct{}

func (System) NowUTC() time.Time { return time.Now().UTC() }

// Manual only moves when Set or Advance is called. Safe for concurrent use.
type Manual struct {
	mu  sync.Mutex
	now time.Time
}

func NewManual(start time.Time) *Manual {
	return &Manual{now: start.UTC()}
}

func (m *Manual) NowUTC() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

func (m *Manual) Set(now time.Time) {
	m.mu.Lock()
	m.now = now.UTC()
	m.mu.Unlock()
}

func (m *Manual) Advance(d time.Duration) time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = m.now.Add(d)
	return m.now
}
