package scheduler

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// JobStatus represents the status of a job run
type JobStatus string

const (
	JobStatusPending JobStatus = "PENDING"
	JobStatusRunning JobStatus = "RUNNING"
	JobStatusSuccess JobStatus = "SUCCESS"
	JobStatusFailed  JobStatus = "FAILED"
	JobStatusSkipped JobStatus = "SKIPPED"
)

// TriggerSource tells what started a run
type TriggerSource string

const (
	TriggerSchedule TriggerSource = "SCHEDULE"
	TriggerManual   TriggerSource = "MANUAL"
)

// JobCounts summarizes what a run did
type JobCounts struct {
	Processed int `json:"processed"`
	Updated   int `json:"updated"`
	Notified  int `json:"notified"`
	Skipped   int `json:"skipped"`
	Failed    int `json:"failed"`
	Late      int `json:"late"`
}

// Job represents one run of a job kind
type Job struct {
	ID      uuid.UUID
	Kind    string
	OwnerID *uuid.UUID // nil means all users
	// Year and Month select the calendar month of monthly jobs; zero means
	// the month before the run.
	Year        int
	Month       int
	Trigger     TriggerSource
	Status      JobStatus
	Counts      JobCounts
	Error       string
	StartedAt   *time.Time
	CompletedAt *time.Time
}

// NewJob creates a new pending job
func NewJob(kind string, ownerID *uuid.UUID, trigger TriggerSource) *Job {
	return &Job{
		ID:      uuid.New(),
		Kind:    kind,
		OwnerID: ownerID,
		Trigger: trigger,
		Status:  JobStatusPending,
	}
}

// WithMonth sets the calendar month the job works on
func (j *Job) WithMonth(year, month int) *Job {
	j.Year = year
	j.Month = month
	return j
}

// Start marks the job as running
func (j *Job) Start(now time.Time) {
	j.Status = JobStatusRunning
	j.StartedAt = &now
	j.Error = ""
}

// Complete marks the job as successful
func (j *Job) Complete(now time.Time, counts JobCounts) {
	j.Status = JobStatusSuccess
	j.Counts = counts
	j.CompletedAt = &now
}

// Fail marks the job as failed
func (j *Job) Fail(now time.Time, counts JobCounts, err string) {
	j.Status = JobStatusFailed
	j.Counts = counts
	j.CompletedAt = &now
	j.Error = err
}

// Duration is how long the run took, zero while it is still running
func (j *Job) Duration() time.Duration {
	if j.StartedAt == nil || j.CompletedAt == nil {
		return 0
	}
	return j.CompletedAt.Sub(*j.StartedAt)
}

// JobExecutor is the interface for executing job runs
type JobExecutor interface {
	Execute(ctx context.Context, job *Job) (JobCounts, error)
}

// JobExecutorFunc adapts a function to JobExecutor
type JobExecutorFunc func(ctx context.Context, job *Job) (JobCounts, error)

// Execute calls f(ctx, job)
func (f JobExecutorFunc) Execute(ctx context.Context, job *Job) (JobCounts, error) {
	return f(ctx, job)
}
