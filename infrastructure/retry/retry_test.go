package retry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/elizabethzhu1/newsmapper/infrastructure/retry"
	"github.com/stretchr/testify/assert"
)

var errTimeout = errors.New("i/o timeout")

func fastConfig() retry.Config {
	return retry.Config{MaxAttempts: 3, InitialDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond}
}

func TestRetry_SucceedsAfterTransientFailures(t *testing.T) {
	t.Parallel()

	calls := 0
	err := retry.Retry(context.Background(), fastConfig(), func() error {
		calls++
		if calls < 3 {
			return errTimeout
		}
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetry_StopsOnNonRetryable(t *testing.T) {
	t.Parallel()

	permanent := errors.New("invalid api key")
	calls := 0
	err := retry.Retry(context.Background(), fastConfig(), func() error {
		calls++
		return permanent
	})

	assert.ErrorIs(t, err, permanent)
	assert.Equal(t, 1, calls)
}

func TestRetry_ExhaustsAttempts(t *testing.T) {
	t.Parallel()

	err := retry.Retry(context.Background(), fastConfig(), func() error { return errTimeout })

	assert.ErrorIs(t, err, retry.ErrMaxAttemptsExceeded)
	assert.ErrorIs(t, err, errTimeout)
}

func TestRetry_ContextCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := retry.Retry(ctx, fastConfig(), func() error { return nil })
	assert.ErrorIs(t, err, retry.ErrContextCancelled)
}
