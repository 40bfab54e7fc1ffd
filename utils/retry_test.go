package utils

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetrySucceedsAfterFailures(t *testing.T) {
	r := &RetryConfig{MaxAttempts: 3, BaseDelay: time.Millisecond, Logger: NewNopLogger()}

	calls := 0
	err := r.Do(context.Background(), "flaky", func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("boom")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetryGivesUp(t *testing.T) {
	r := &RetryConfig{MaxAttempts: 2, BaseDelay: time.Millisecond, Logger: NewNopLogger()}
	sentinel := errors.New("down")

	calls := 0
	err := r.Do(context.Background(), "capture", func(context.Context) error {
		calls++
		return sentinel
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, sentinel)
	assert.Equal(t, 2, calls)
	assert.Contains(t, err.Error(), "capture failed after 2 attempts")
}

func TestRetryStopsOnCancel(t *testing.T) {
	r := &RetryConfig{MaxAttempts: 5, BaseDelay: time.Hour}
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	err := r.Do(ctx, "slow", func(context.Context) error {
		calls++
		cancel()
		return errors.New("fail")
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestRetryZeroAttemptsRunsOnce(t *testing.T) {
	r := &RetryConfig{}
	calls := 0
	_ = r.Do(context.Background(), "once", func(context.Context) error {
		calls++
		return nil
	})
	assert.Equal(t, 1, calls)
}
