package timeutils

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	ErrAllAttemptsFailed = errors.New("all attempts failed")
)

// Retry makes one attempt per entry of attemptDelays, sleeping the delay
// before the attempt. It stops at the first success or when shouldRetry
// rejects the error; a nil shouldRetry retries every error.
func Retry[T any](
	ctx context.Context,
	attemptDelays []time.Duration,
	function func(context.Context) (T, error),
	shouldRetry func(error) bool,
) (T, error) {
	var (
		zero    T
		lastErr error
	)
	for _, delay := range attemptDelays {
		if err := SleepCtx(ctx, delay); err != nil {
			return zero, err
		}
		res, err := function(ctx)
		if err == nil {
			return res, nil
		}
		if shouldRetry != nil && !shouldRetry(err) {
			return zero, err
		}
		lastErr = err
	}
	if lastErr == nil {
		return zero, ErrAllAttemptsFailed
	}
	return zero, fmt.Errorf("%w: %w", ErrAllAttemptsFailed, lastErr)
}

func SleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		if ctx.Err() != nil {
			return fmt.Errorf("sleep canceled: %w", ctx.Err())
		}
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return fmt.Errorf("sleep canceled: %w", ctx.Err())
	case <-timer.C:
		return nil
	}
}
