package scheduler

import "errors"

var (
	// ErrSchedulerNotRunning is returned when trying to trigger a job on a stopped scheduler
	ErrSchedulerNotRunning = errors.New("scheduler is not running")

	// ErrUnknownJob is returned for job kinds without a registered schedule
	ErrUnknownJob = errors.New("unknown job kind")

	// ErrJobInProgress is returned when the job kind is already running in this process
	ErrJobInProgress = errors.New("job already in progress")

	// ErrJobLocked is returned when another instance holds the job kind's lock
	ErrJobLocked = errors.New("job locked by another instance")

	// ErrInvalidConfig is returned when configuration is invalid
	ErrInvalidConfig = errors.New("invalid scheduler configuration")
)
