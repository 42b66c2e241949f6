package core

import (
	"context"
	"time"
)

// TimeProvider abstracts time operations for the domain.
// The ledger engine's retry backoff and all entity timestamps go through it
// so tests can run without real sleeps.
type TimeProvider interface {
	Now() time.Time
	Since(t time.Time) time.Duration
	Sleep(d time.Duration)
	WithTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc)
}
