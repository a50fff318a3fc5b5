package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSyncNotifierRateLimitsPerUser(t *testing.T) {
	n := NewSyncNotifier(5 * time.Second)

	assert.True(t, n.Allow(1, t0))
	assert.False(t, n.Allow(1, t0.Add(time.Second)))
	assert.False(t, n.Allow(1, t0.Add(4*time.Second)))
	assert.True(t, n.Allow(1, t0.Add(5*time.Second)))

	// Other users have their own budget.
	assert.True(t, n.Allow(2, t0.Add(time.Second)))

	n.Forget(1)
	assert.True(t, n.Allow(1, t0.Add(6*time.Second)))
}

func TestSyncNotifierDefaultInterval(t *testing.T) {
	n := NewSyncNotifier(0)
	assert.Equal(t, DefaultWarnInterval, n.interval)
}
