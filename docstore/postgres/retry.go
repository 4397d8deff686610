package postgres

import (
	"context"
	"math/rand/v2"
	"time"
)

// vectorDeleteRetries bounds how many times Delete retries the Vector
// Index cascade before parking a document in ORPHAN, mirroring the
// in-memory backend's retry shape for a best-effort cascade.
const vectorDeleteRetries = 3

func retryVectorDelete(ctx context.Context, fn func(ctx context.Context) error) error {
	var lastErr error
	for attempt := 0; attempt <= vectorDeleteRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(1<<uint(attempt-1)) * 50 * time.Millisecond
			jitter := time.Duration(rand.Int64N(int64(backoff)/2 + 1))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff + jitter):
			}
		}
		if err := fn(ctx); err == nil {
			return nil
		} else {
			lastErr = err
		}
	}
	return lastErr
}
