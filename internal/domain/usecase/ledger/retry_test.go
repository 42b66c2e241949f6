package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultRetryPolicy(t *testing.T) {
	policy := DefaultRetryPolicy()
	assert.Equal(t, 3, policy.MaxAttempts)
	assert.Equal(t, 50*time.Millisecond, policy.BaseDelay)
	assert.Equal(t, 25*time.Millisecond, policy.MaxJitter)
}

func TestBackoffScalesWithAttempt(t *testing.T) {
	policy := RetryPolicy{MaxAttempts: 3, BaseDelay: 50 * time.Millisecond, MaxJitter: 0}

	assert.Equal(t, 50*time.Millisecond, policy.Backoff(1))
	assert.Equal(t, 100*time.Millisecond, policy.Backoff(2))
	assert.Equal(t, 150*time.Millisecond, policy.Backoff(3))
}

func TestBackoffJitterStaysBounded(t *testing.T) {
	policy := RetryPolicy{MaxAttempts: 3, BaseDelay: 10 * time.Millisecond, MaxJitter: 5 * time.Millisecond}

	for attempt := 1; attempt <= 3; attempt++ {
		base := policy.BaseDelay * time.Duration(attempt)
		for i := 0; i < 100; i++ {
			backoff := policy.Backoff(attempt)
			assert.GreaterOrEqual(t, backoff, base)
			assert.LessOrEqual(t, backoff, base+policy.MaxJitter)
		}
	}
}

func TestBackoffClampsAttemptBelowOne(t *testing.T) {
	policy := RetryPolicy{MaxAttempts: 3, BaseDelay: 20 * time.Millisecond, MaxJitter: 0}

	assert.Equal(t, 20*time.Millisecond, policy.Backoff(0))
	assert.Equal(t, 20*time.Millisecond, policy.Backoff(-5))
}
