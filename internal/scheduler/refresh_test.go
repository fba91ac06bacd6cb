package scheduler_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/elizabethzhu1/newsmapper/infrastructure/logger"
	"github.com/elizabethzhu1/newsmapper/internal/domain"
	"github.com/elizabethzhu1/newsmapper/internal/scheduler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingRefresher struct {
	calls atomic.Int32
	err   error
}

func (r *countingRefresher) Refresh(ctx context.Context) ([]domain.ResolvedItem, error) {
	r.calls.Add(1)
	if _, ok := ctx.Deadline(); !ok {
		return nil, errors.New("refresh must run with a deadline")
	}
	return []domain.ResolvedItem{{ID: "1"}}, r.err
}

func TestNew_RejectsBadSchedule(t *testing.T) {
	t.Parallel()

	tests := []string{"", "every hour", "61 * * * *", "@fortnightly"}
	for _, spec := range tests {
		t.Run(spec, func(t *testing.T) {
			t.Parallel()

			_, err := scheduler.New(spec, &countingRefresher{}, logger.NewNop())
			require.Error(t, err)
		})
	}
}

func TestNew_AcceptsDescriptorsAndFields(t *testing.T) {
	t.Parallel()

	for _, spec := range []string{"@every 1h", "@hourly", "*/15 * * * *"} {
		_, err := scheduler.New(spec, &countingRefresher{}, logger.NewNop())
		require.NoError(t, err, spec)
	}
}

func TestStart_WarmRunsImmediately(t *testing.T) {
	t.Parallel()

	r := &countingRefresher{}
	s, err := scheduler.New("@every 1h", r, logger.NewNop())
	require.NoError(t, err)

	require.NoError(t, s.Start(context.Background(), true))
	s.Stop()

	assert.Equal(t, int32(1), r.calls.Load())
}

func TestStart_Twice(t *testing.T) {
	t.Parallel()

	s, err := scheduler.New("@every 1h", &countingRefresher{}, logger.NewNop())
	require.NoError(t, err)

	require.NoError(t, s.Start(context.Background(), false))
	t.Cleanup(s.Stop)

	require.ErrorIs(t, s.Start(context.Background(), false), scheduler.ErrAlreadyStarted)
}

func TestStart_FiresOnSchedule(t *testing.T) {
	t.Parallel()

	r := &countingRefresher{}
	s, err := scheduler.New("@every 1s", r, logger.NewNop())
	require.NoError(t, err)

	require.NoError(t, s.Start(context.Background(), false))
	t.Cleanup(s.Stop)

	assert.Eventually(t, func() bool { return r.calls.Load() >= 1 }, 3*time.Second, 50*time.Millisecond)
}

func TestRunOnce_ErrorIsLogged(t *testing.T) {
	t.Parallel()

	r := &countingRefresher{err: errors.New("upstream down")}
	s, err := scheduler.New("@every 1h", r, logger.NewNop())
	require.NoError(t, err)

	assert.NotPanics(t, s.RunOnce)
	assert.Equal(t, int32(1), r.calls.Load())
}

func TestStop_WithoutStart(t *testing.T) {
	t.Parallel()

	s, err := scheduler.New("@every 1h", &countingRefresher{}, logger.NewNop())
	require.NoError(t, err)

	assert.NotPanics(t, s.Stop)
}
