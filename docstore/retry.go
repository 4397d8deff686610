package docstore

import (
	"context"
	"math/rand/v2"
	"time"
)

// vectorDeleteRetries bounds how many times Delete retries the Vector
// Index cascade before parking a document in ORPHAN, per §4.4's "best-
// effort with bounded retries" before falling back to the reconciliation
// queue.
const vectorDeleteRetries = 3

// retryVectorDelete calls fn up to vectorDeleteRetries+1 times with a short
// exponential backoff between attempts, the same shape as the LLM
// Gateway's withRetry scaled down for an in-process cascade rather than a
// network provider call.
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
