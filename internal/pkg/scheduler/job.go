package scheduler

import (
	"context"
	"time"
)

// JobHandler is the function executed on every tick of a job's schedule.
// It should be idempotent; a missed tick is not replayed.
type JobHandler func(ctx context.Context) error

// Job defines a scheduled task
type Job struct {
	Name string
	// Schedule is a cron expression or descriptor such as "@every 5m"
	Schedule string
	// Timeout bounds each run
	Timeout time.Duration
	Handler JobHandler
}

// JobInfo describes a registered job
type JobInfo struct {
	Name     string
	Schedule string
	NextRun  time.Time
	PrevRun  time.Time
}

// Validate checks if the job configuration is valid
func (j *Job) Validate() error {
	if j.Name == "" {
		return ErrInvalidJobName
	}
	if j.Schedule == "" {
		return ErrInvalidSchedule
	}
	if j.Handler == nil {
		return ErrInvalidHandler
	}
	if j.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	return nil
}
