package scheduler

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"myapi/internal/pkg/logger"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// parser accepts standard 5-field expressions and descriptors like "@every 5m"
var parser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// Scheduler runs registered jobs on their cron schedules
type Scheduler struct {
	cron   *cron.Cron
	logger *logger.Logger

	mu   sync.RWMutex
	jobs map[string]registered
}

type registered struct {
	job Job
	id  cron.EntryID
}

// NewScheduler creates a scheduler. Overlapping runs of one job are skipped
// and a panicking job is recovered and logged.
func NewScheduler(log *logger.Logger) *Scheduler {
	log = log.With(zap.String("component", "scheduler"))
	cl := cronLogger{log: log}
	return &Scheduler{
		cron: cron.New(
			cron.WithParser(parser),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		logger: log,
		jobs:   make(map[string]registered),
	}
}

// Register adds a job; registering a name twice fails
func (s *Scheduler) Register(job Job) error {
	if err := job.Validate(); err != nil {
		return fmt.Errorf("invalid job: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[job.Name]; exists {
		return ErrJobAlreadyExists
	}

	schedule, err := parser.Parse(job.Schedule)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSchedule, err)
	}

	id := s.cron.Schedule(schedule, cron.FuncJob(func() { s.run(job) }))
	s.jobs[job.Name] = registered{job: job, id: id}

	s.logger.Info("Job registered",
		zap.String("job", job.Name),
		zap.String("schedule", job.Schedule),
		zap.Time("next_run_at", schedule.Next(time.Now())),
	)
	return nil
}

// RunNow executes a registered job synchronously, outside its schedule
func (s *Scheduler) RunNow(ctx context.Context, name string) error {
	s.mu.RLock()
	r, ok := s.jobs[name]
	s.mu.RUnlock()
	if !ok {
		return ErrJobNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, r.job.Timeout)
	defer cancel()
	return r.job.Handler(ctx)
}

// Remove unregisters a job
func (s *Scheduler) Remove(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.jobs[name]
	if !ok {
		return ErrJobNotFound
	}
	s.cron.Remove(r.id)
	delete(s.jobs, name)
	return nil
}

// Jobs lists registered jobs sorted by name
func (s *Scheduler) Jobs() []JobInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	infos := make([]JobInfo, 0, len(s.jobs))
	for name, r := range s.jobs {
		entry := s.cron.Entry(r.id)
		infos = append(infos, JobInfo{
			Name:     name,
			Schedule: r.job.Schedule,
			NextRun:  entry.Next,
			PrevRun:  entry.Prev,
		})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}

// Start begins dispatching jobs in the background
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("Scheduler started", zap.Int("jobs", len(s.Jobs())))
}

// Stop stops dispatching and waits for running jobs or ctx, whichever ends first
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		s.logger.Info("Scheduler stopped")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Scheduler stop timed out with jobs still running")
		return ctx.Err()
	}
}

func (s *Scheduler) run(job Job) {
	ctx, cancel := context.WithTimeout(context.Background(), job.Timeout)
	defer cancel()

	start := time.Now()
	err := job.Handler(ctx)
	fields := []zap.Field{
		zap.String("job", job.Name),
		zap.Duration("duration", time.Since(start)),
	}
	if err != nil {
		s.logger.Error("Job failed", append(fields, zap.Error(err))...)
		return
	}
	s.logger.Debug("Job completed", fields...)
}
