package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"myapi/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister_Validation(t *testing.T) {
	s := NewScheduler(logger.NewNop())
	noop := func(ctx context.Context) error { return nil }

	assert.ErrorIs(t, s.Register(Job{Schedule: "@every 1m", Timeout: time.Second, Handler: noop}), ErrInvalidJobName)
	assert.ErrorIs(t, s.Register(Job{Name: "a", Schedule: "not a schedule", Timeout: time.Second, Handler: noop}), ErrInvalidSchedule)
	assert.ErrorIs(t, s.Register(Job{Name: "a", Schedule: "@every 1m", Timeout: time.Second}), ErrInvalidHandler)
	assert.ErrorIs(t, s.Register(Job{Name: "a", Schedule: "@every 1m", Handler: noop}), ErrInvalidTimeout)

	require.NoError(t, s.Register(Job{Name: "a", Schedule: "*/5 * * * *", Timeout: time.Second, Handler: noop}))
	assert.ErrorIs(t, s.Register(Job{Name: "a", Schedule: "@every 1m", Timeout: time.Second, Handler: noop}), ErrJobAlreadyExists)
}

func TestScheduler_RunsJobsOnSchedule(t *testing.T) {
	s := NewScheduler(logger.NewNop())
	var runs int32
	require.NoError(t, s.Register(Job{
		Name:     "tick",
		Schedule: "@every 1s",
		Timeout:  time.Second,
		Handler: func(ctx context.Context) error {
			atomic.AddInt32(&runs, 1)
			return nil
		},
	}))

	s.Start()
	assert.Eventually(t, func() bool { return atomic.LoadInt32(&runs) >= 1 }, 3*time.Second, 50*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Stop(ctx))
}

func TestRunNow_AndRemove(t *testing.T) {
	s := NewScheduler(logger.NewNop())
	boom := errors.New("boom")
	require.NoError(t, s.Register(Job{
		Name:     "purge",
		Schedule: "@every 1h",
		Timeout:  time.Second,
		Handler:  func(ctx context.Context) error { return boom },
	}))

	assert.ErrorIs(t, s.RunNow(context.Background(), "purge"), boom)
	assert.ErrorIs(t, s.RunNow(context.Background(), "missing"), ErrJobNotFound)

	jobs := s.Jobs()
	require.Len(t, jobs, 1)
	assert.Equal(t, "purge", jobs[0].Name)

	require.NoError(t, s.Remove("purge"))
	assert.Empty(t, s.Jobs())
	assert.ErrorIs(t, s.Remove("purge"), ErrJobNotFound)
}
