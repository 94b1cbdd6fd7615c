package core

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rosterd/rosterd/internal/domain/model"
)

// stubCache is an in-memory CacheRepository with error injection.
type stubCache struct {
	mu       sync.Mutex
	entries  map[string][]byte
	ttls     map[string]time.Duration
	getCalls int
	getErr   error
	setErr   error
	delErr   error
}

func newStubCache() *stubCache {
	return &stubCache{
		entries: make(map[string][]byte),
		ttls:    make(map[string]time.Duration),
	}
}

func (s *stubCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.setErr != nil {
		return s.setErr
	}
	s.entries[key] = value
	s.ttls[key] = ttl
	return nil
}

func (s *stubCache) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.getCalls++
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.entries[key], nil
}

func (s *stubCache) Delete(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.delErr != nil {
		return false, s.delErr
	}
	_, ok := s.entries[key]
	delete(s.entries, key)
	delete(s.ttls, key)
	return ok, nil
}

func (s *stubCache) Exists(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.entries[key]
	return ok, nil
}

func (s *stubCache) SetTTL(_ context.Context, key string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[key]; !ok {
		return false, nil
	}
	s.ttls[key] = ttl
	return true, nil
}

func (s *stubCache) SetIfNotExists(_ context.Context, key string, value []byte, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[key]; ok {
		return false, nil
	}
	s.entries[key] = value
	s.ttls[key] = ttl
	return true, nil
}

func (s *stubCache) Health(context.Context) error { return nil }

func sampleMetrics() model.RunMetrics {
	return model.RunMetrics{
		TotalAssignments:   12,
		AvgPreferenceScore: 0.75,
		MinAssignments:     1,
		MaxAssignments:     4,
		AvgAssignments:     2.4,
		ShiftsFilled:       5,
		ShiftsTotal:        6,
		EmployeesAssigned:  5,
		EmployeesTotal:     8,
	}
}

func TestNewRunMetricsCache_TTL(t *testing.T) {
	t.Parallel()

	stub := newStubCache()

	c := NewRunMetricsCache(stub, RunMetricsCacheConfig{})
	assert.Equal(t, 5*time.Minute, c.ttl)

	c = NewRunMetricsCache(stub, RunMetricsCacheConfig{TTL: -time.Second})
	assert.Equal(t, 5*time.Minute, c.ttl)

	c = NewRunMetricsCache(stub, RunMetricsCacheConfig{TTL: time.Hour})
	assert.Equal(t, time.Hour, c.ttl)
}

func TestRunMetricsCache_RoundTrip(t *testing.T) {
	t.Parallel()

	stub := newStubCache()
	c := NewRunMetricsCache(stub, RunMetricsCacheConfig{TTL: 10 * time.Minute})
	ctx := context.Background()

	got, hit, err := c.Get(ctx, "run-1")
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Nil(t, got)

	want := sampleMetrics()
	require.NoError(t, c.Set(ctx, "run-1", want))
	assert.Equal(t, 10*time.Minute, stub.ttls["run:metrics:run-1"])

	got, hit, err = c.Get(ctx, "run-1")
	require.NoError(t, err)
	require.True(t, hit)
	assert.Equal(t, want, *got)
}

func TestRunMetricsCache_Get(t *testing.T) {
	t.Parallel()

	t.Run("empty run id skips the backend", func(t *testing.T) {
		t.Parallel()

		stub := newStubCache()
		c := NewRunMetricsCache(stub, RunMetricsCacheConfig{})

		_, hit, err := c.Get(context.Background(), "")
		require.NoError(t, err)
		assert.False(t, hit)
		assert.Zero(t, stub.getCalls)
	})

	t.Run("corrupt entries are dropped, not surfaced", func(t *testing.T) {
		t.Parallel()

		stub := newStubCache()
		stub.entries["run:metrics:run-1"] = []byte("{not json")
		c := NewRunMetricsCache(stub, RunMetricsCacheConfig{})

		got, hit, err := c.Get(context.Background(), "run-1")
		require.NoError(t, err)
		assert.False(t, hit)
		assert.Nil(t, got)
		assert.NotContains(t, stub.entries, "run:metrics:run-1")
	})

	t.Run("backend errors surface", func(t *testing.T) {
		t.Parallel()

		stub := newStubCache()
		stub.getErr = errors.New("redis: connection refused")
		c := NewRunMetricsCache(stub, RunMetricsCacheConfig{})

		_, hit, err := c.Get(context.Background(), "run-1")
		require.Error(t, err)
		assert.False(t, hit)
	})
}

func TestRunMetricsCache_Invalidate(t *testing.T) {
	t.Parallel()

	stub := newStubCache()
	c := NewRunMetricsCache(stub, RunMetricsCacheConfig{})
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "run-1", sampleMetrics()))
	require.NoError(t, c.Invalidate(ctx, "run-1"))

	_, hit, err := c.Get(ctx, "run-1")
	require.NoError(t, err)
	assert.False(t, hit)

	stub.delErr = errors.New("redis: connection refused")
	require.Error(t, c.Invalidate(ctx, "run-2"))
}

func TestRunMetricsCache_NoopWithoutBackend(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	c := NewRunMetricsCache(nil, RunMetricsCacheConfig{})
	require.NoError(t, c.Set(ctx, "run-1", sampleMetrics()))
	_, hit, err := c.Get(ctx, "run-1")
	require.NoError(t, err)
	assert.False(t, hit)
	require.NoError(t, c.Invalidate(ctx, "run-1"))

	var nilCache *RunMetricsCache
	require.NoError(t, nilCache.Set(ctx, "run-1", sampleMetrics()))
	_, hit, err = nilCache.Get(ctx, "run-1")
	require.NoError(t, err)
	assert.False(t, hit)
	require.NoError(t, nilCache.Invalidate(ctx, "run-1"))
}
