package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastPolicy(attempts int) Policy {
	return ExponentialBackoff(time.Millisecond, 2*time.Millisecond, false, attempts)
}

func TestDo_SucceedsAfterRetries(t *testing.T) {
	calls := 0
	retries := 0
	res, err := Do(context.Background(), fastPolicy(5), func(ctx context.Context) (string, error) {
		calls++
		if calls < 3 {
			return "", errors.New("not yet")
		}
		return "ok", nil
	}, nil, func(int, error, time.Duration) { retries++ })

	require.NoError(t, err)
	assert.Equal(t, "ok", res)
	assert.Equal(t, 3, calls)
	assert.Equal(t, 2, retries)
}

func TestDo_StopsOnPermanentError(t *testing.T) {
	permanent := errors.New("permanent")
	calls := 0
	_, err := Do(context.Background(), fastPolicy(5), func(ctx context.Context) (int, error) {
		calls++
		return 0, permanent
	}, func(err error) bool { return !errors.Is(err, permanent) }, nil)

	assert.ErrorIs(t, err, permanent)
	assert.Equal(t, 1, calls)
}

func TestRun_ReturnsLastErrorAfterMaxAttempts(t *testing.T) {
	calls := 0
	err := Run(context.Background(), fastPolicy(3), func(ctx context.Context) error {
		calls++
		return errors.New("down")
	}, nil)

	require.Error(t, err)
	assert.Equal(t, 3, calls)
}

func TestDo_HonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Do(ctx, fastPolicy(0), func(ctx context.Context) (int, error) {
		return 0, errors.New("unreachable")
	}, nil, nil)

	assert.ErrorIs(t, err, context.Canceled)
}

func TestNextDelay_CappedAtMax(t *testing.T) {
	p := ExponentialBackoff(time.Second, 3*time.Second, false, 0)

	assert.Equal(t, time.Second, p.nextDelay(1))
	assert.Equal(t, 2*time.Second, p.nextDelay(2))
	assert.Equal(t, 3*time.Second, p.nextDelay(5))
}
