package data

import "time"

// TimeProvider abstracts the clock behind lease and timestamp math so
// tests can drive it directly.
type TimeProvider interface {
	Now() time.Time
}

// RealTimeProvider is the production clock.
type RealTimeProvider struct{}

// Now returns the current system time.
func (RealTimeProvider) Now() time.Time { return time.Now() }

// FixedTimeProvider is a test clock that only moves when told to.
type FixedTimeProvider struct {
	current time.Time
}

// NewFixedTimeProvider pins the clock to t.
func NewFixedTimeProvider(t time.Time) *FixedTimeProvider {
	return &FixedTimeProvider{current: t}
}

// Now returns the pinned time.
func (f *FixedTimeProvider) Now() time.Time { return f.current }

// AddTime advances the pinned time by d.
func (f *FixedTimeProvider) AddTime(d time.Duration) {
	f.current = f.current.Add(d)
}
