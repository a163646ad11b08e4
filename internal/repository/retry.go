package repository

import (
	"context"
	"time"

	"github.com/fairway-commerce/storefront-service/internal/database"
)

const (
	retryAttempts = 3
	retryBackoff  = 100 * time.Millisecond
)

// withRetry re-runs fn on transient Postgres failures (serialization,
// deadlock, lock-not-available). Permanent errors and domain sentinels
// return immediately.
func withRetry(ctx context.Context, fn func() error) error {
	var err error
	for attempt := 1; attempt <= retryAttempts; attempt++ {
		err = fn()
		if err == nil || !database.IsRetryable(err) {
			return err
		}
		if attempt == retryAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt) * retryBackoff):
		}
	}
	return err
}
