package job

import (
	"errors"
	"math"
	"time"
)

// ErrInvalidDefaultLease rejects lease policies built with a zero or
// negative default.
var ErrInvalidDefaultLease = errors.New("default lease must be positive")

// LeaseSource identifies how a lease duration was resolved: supplied by the
// caller, taken from the default, or clamped into the supported range.
type LeaseSource string

const (
	LeaseSourceExplicit LeaseSource = "explicit"
	LeaseSourceDefault  LeaseSource = "default"
	LeaseSourceClamped  LeaseSource = "clamped"
)

// LeasePolicy normalises lease durations for job reservations and heartbeats.
// Leases arrive from configuration as durations; the queue stores them as
// whole seconds, so every path through the policy rounds down and clamps to
// at least one second.
type LeasePolicy struct {
	defaultLease time.Duration
}

// NewLeasePolicy builds a policy around the given default lease.
func NewLeasePolicy(defaultLease time.Duration) (*LeasePolicy, error) {
	if defaultLease <= 0 {
		return nil, ErrInvalidDefaultLease
	}
	return &LeasePolicy{
		defaultLease: defaultLease,
	}, nil
}

// Default returns the configured default lease duration.
func (p *LeasePolicy) Default() time.Duration {
	if p == nil {
		return 0
	}
	return p.defaultLease
}

// HeartbeatInterval returns the cadence for re-upping a held lease: roughly
// three beats per lease, never under a second, so one missed beat cannot
// expire the claim.
func (p *LeasePolicy) HeartbeatInterval() time.Duration {
	if p == nil {
		return time.Second
	}
	interval := p.defaultLease / 3
	if interval < time.Second {
		return time.Second
	}
	return interval
}

// LeaseDecision captures the outcome of resolving a lease request.
type LeaseDecision struct {
	Seconds   int
	Source    LeaseSource
	Requested time.Duration
}

// Clamped reports whether the requested value was adjusted to fit the
// supported range.
func (d LeaseDecision) Clamped() bool {
	return d.Source == LeaseSourceClamped
}

// Resolve normalises the requested duration to a whole number of seconds.
// A zero request resolves to the default lease; a negative one is clamped
// to one second.
func (p *LeasePolicy) Resolve(request time.Duration) LeaseDecision {
	if p == nil {
		return LeaseDecision{Source: LeaseSourceDefault, Requested: request}
	}

	if request < 0 {
		return LeaseDecision{Seconds: 1, Source: LeaseSourceClamped, Requested: request}
	}

	if request == 0 {
		seconds, _ := wholeSeconds(p.defaultLease)
		return LeaseDecision{Seconds: seconds, Source: LeaseSourceDefault, Requested: request}
	}

	seconds, clamped := wholeSeconds(request)
	source := LeaseSourceExplicit
	if clamped {
		source = LeaseSourceClamped
	}
	return LeaseDecision{Seconds: seconds, Source: source, Requested: request}
}

// wholeSeconds rounds a duration down to seconds, clamping the result into
// [1, MaxInt]. The second return reports whether clamping happened.
func wholeSeconds(d time.Duration) (int, bool) {
	seconds := int64(d / time.Second)

	if seconds <= 0 {
		return 1, true
	}
	if seconds > int64(math.MaxInt) {
		return math.MaxInt, true
	}
	return int(seconds), false
}
