package rabbit

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// retry runs fn up to n times, sleeping between attempts unless ctx is done.
func retry(ctx context.Context, n int, sleep time.Duration, fn func() error) error {
	if n < 1 {
		n = 1
	}
	b := backoff.WithMaxRetries(backoff.NewConstantBackOff(sleep), uint64(n-1))
	return backoff.Retry(fn, backoff.WithContext(b, ctx))
}

// pause waits d or until ctx is done and reports whether the caller should keep going.
func pause(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}
