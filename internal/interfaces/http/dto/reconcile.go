package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/ntqnhu0105/DoAn-CoSo-sub000/internal/infrastructure/scheduler"
)

// RunJobRequest asks for an immediate run of one job kind. Without an
// owner the run covers every user; month and year come together and
// default to the previous calendar month.
type RunJobRequest struct {
	OwnerID *string `json:"owner_id" binding:"omitempty,uuid"`
	Month   int     `json:"month" binding:"omitempty,min=1,max=12,required_with=Year"`
	Year    int     `json:"year" binding:"omitempty,min=2000,max=2100,required_with=Month"`
}

// Owner parses OwnerID; validation has already checked its format
func (r RunJobRequest) Owner() *uuid.UUID {
	if r.OwnerID == nil || *r.OwnerID == "" {
		return nil
	}
	id, err := uuid.Parse(*r.OwnerID)
	if err != nil {
		return nil
	}
	return &id
}

// JobRunResponse describes one run
type JobRunResponse struct {
	ID          uuid.UUID           `json:"id"`
	Job         string              `json:"job"`
	OwnerID     *uuid.UUID          `json:"owner_id,omitempty"`
	Year        int                 `json:"year,omitempty"`
	Month       int                 `json:"month,omitempty"`
	Trigger     string              `json:"trigger"`
	Status      string              `json:"status"`
	Counts      scheduler.JobCounts `json:"counts"`
	Error       string              `json:"error,omitempty"`
	StartedAt   *time.Time          `json:"started_at,omitempty"`
	CompletedAt *time.Time          `json:"completed_at,omitempty"`
}

// NewJobRunResponse converts an in-memory job
func NewJobRunResponse(job *scheduler.Job) JobRunResponse {
	return JobRunResponse{
		ID:          job.ID,
		Job:         job.Kind,
		OwnerID:     job.OwnerID,
		Year:        job.Year,
		Month:       job.Month,
		Trigger:     string(job.Trigger),
		Status:      string(job.Status),
		Counts:      job.Counts,
		Error:       job.Error,
		StartedAt:   job.StartedAt,
		CompletedAt: job.CompletedAt,
	}
}

// NewJobRunResponseFromRecord converts a stored run
func NewJobRunResponseFromRecord(r scheduler.JobRunRecord) JobRunResponse {
	started := r.StartedAt
	return JobRunResponse{
		ID:          r.ID,
		Job:         r.Job,
		OwnerID:     r.OwnerID,
		Trigger:     r.Trigger,
		Status:      r.Status,
		Counts:      r.Counts(),
		Error:       r.Error,
		StartedAt:   &started,
		CompletedAt: r.CompletedAt,
	}
}

// ReconcileStatusResponse is the body of GET /reconcile/status
type ReconcileStatusResponse struct {
	Running bool                   `json:"running"`
	Jobs    []scheduler.KindStatus `json:"jobs"`
	Recent  []JobRunResponse       `json:"recent,omitempty"`
}
