package scheduler

import "errors"

var (
	// Job validation errors
	ErrInvalidJobName  = errors.New("job name cannot be empty")
	ErrInvalidSchedule = errors.New("invalid schedule")
	ErrInvalidHandler  = errors.New("handler cannot be nil")
	ErrInvalidTimeout  = errors.New("timeout must be greater than zero")

	// Job operation errors
	ErrJobAlreadyExists = errors.New("job already exists")
	ErrJobNotFound      = errors.New("job not found")
)
