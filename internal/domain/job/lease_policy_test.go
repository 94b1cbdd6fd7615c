package job

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLeasePolicy(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		policy, err := NewLeasePolicy(30 * time.Second)
		require.NoError(t, err)
		assert.Equal(t, 30*time.Second, policy.Default())
	})

	t.Run("invalid default lease", func(t *testing.T) {
		policy, err := NewLeasePolicy(0)
		require.ErrorIs(t, err, ErrInvalidDefaultLease)
		assert.Nil(t, policy)
	})
}

func TestLeasePolicy_HeartbeatInterval(t *testing.T) {
	cases := map[time.Duration]time.Duration{
		30 * time.Second: 10 * time.Second,
		time.Second:      time.Second,
		2 * time.Second:  time.Second,
		10 * time.Minute: 200 * time.Second,
	}

	for lease, want := range cases {
		policy, err := NewLeasePolicy(lease)
		require.NoError(t, err)
		assert.Equal(t, want, policy.HeartbeatInterval(), "lease %s", lease)
	}

	var nilPolicy *LeasePolicy
	assert.Equal(t, time.Second, nilPolicy.HeartbeatInterval())
}

func TestLeasePolicy_Resolve(t *testing.T) {
	policy, err := NewLeasePolicy(30 * time.Second)
	require.NoError(t, err)

	t.Run("explicit duration uses whole seconds", func(t *testing.T) {
		decision := policy.Resolve(45 * time.Second)
		assert.Equal(t, 45, decision.Seconds)
		assert.Equal(t, LeaseSourceExplicit, decision.Source)
		assert.False(t, decision.Clamped())
	})

	t.Run("default duration when request is zero", func(t *testing.T) {
		decision := policy.Resolve(0)
		assert.Equal(t, 30, decision.Seconds)
		assert.Equal(t, LeaseSourceDefault, decision.Source)
		assert.False(t, decision.Clamped())
	})

	t.Run("fractional seconds round down", func(t *testing.T) {
		decision := policy.Resolve(90*time.Second + 900*time.Millisecond)
		assert.Equal(t, 90, decision.Seconds)
		assert.Equal(t, LeaseSourceExplicit, decision.Source)
	})

	t.Run("sub-second duration clamps to minimum", func(t *testing.T) {
		decision := policy.Resolve(500 * time.Millisecond)
		assert.Equal(t, 1, decision.Seconds)
		assert.Equal(t, LeaseSourceClamped, decision.Source)
		assert.True(t, decision.Clamped())
	})

	t.Run("negative duration clamps to minimum", func(t *testing.T) {
		decision := policy.Resolve(-5 * time.Second)
		assert.Equal(t, 1, decision.Seconds)
		assert.Equal(t, LeaseSourceClamped, decision.Source)
		assert.True(t, decision.Clamped())
	})
}
