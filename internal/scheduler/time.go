package scheduler

import (
	"sync"
	"time"
)

// TimeProvider abstracts the frame clock.
type TimeProvider interface {
	Now() time.Time
}

type MonotonicTimeProvider struct {
	start time.Time
}

func NewMonotonicTimeProvider() *MonotonicTimeProvider {
	return &MonotonicTimeProvider{start: time.Now()}
}

// Now carries the monotonic reading of the start time.
func (p *MonotonicTimeProvider) Now() time.Time {
	return p.start.Add(time.Since(p.start))
}

// MockTimeProvider is a controllable clock for tests and headless renders.
type MockTimeProvider struct {
	mu  sync.RWMutex
	now time.Time
}

func NewMockTimeProvider(start time.Time) *MockTimeProvider {
	return &MockTimeProvider{now: start}
}

func (m *MockTimeProvider) Now() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.now
}

func (m *MockTimeProvider) SetTime(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = t
}

// Advance moves the clock forward and returns the new time.
func (m *MockTimeProvider) Advance(d time.Duration) time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = m.now.Add(d)
	return m.now
}
