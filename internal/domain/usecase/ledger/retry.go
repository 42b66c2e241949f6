package ledger

import (
	"math/rand/v2"
	"time"
)

// RetryPolicy bounds the transfer retry loop. Even with canonicalized lock
// order the store can still report a deadlock or serialization conflict
// (lock escalation, external access to the same rows), so the whole atomic
// unit is re-run from scratch up to MaxAttempts times.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxJitter   time.Duration
}

// DefaultRetryPolicy returns the retry configuration used in production
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		BaseDelay:   50 * time.Millisecond,
		MaxJitter:   25 * time.Millisecond,
	}
}

// Backoff returns the wait before re-running a failed attempt: the base
// delay scaled by the attempt number plus a random jitter, so competing
// retries desynchronize instead of colliding again.
func (p RetryPolicy) Backoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}

	backoff := p.BaseDelay * time.Duration(attempt)
	if p.MaxJitter > 0 {
		backoff += time.Duration(rand.Int64N(int64(p.MaxJitter) + 1))
	}
	return backoff
}
