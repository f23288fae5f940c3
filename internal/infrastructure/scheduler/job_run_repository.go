package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// JobRunRecord is one persisted run of a job kind
type JobRunRecord struct {
	ID          uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	Job         string     `gorm:"column:job;size:50;not null;index:idx_reconcile_job_runs_job_started,priority:1"`
	OwnerID     *uuid.UUID `gorm:"column:owner_id;type:uuid"`
	Trigger     string     `gorm:"column:trigger_source;size:20;not null"`
	Status      string     `gorm:"column:status;size:20;not null"`
	Processed   int        `gorm:"column:processed;not null;default:0"`
	Updated     int        `gorm:"column:updated;not null;default:0"`
	Notified    int        `gorm:"column:notified;not null;default:0"`
	Skipped     int        `gorm:"column:skipped;not null;default:0"`
	Failed      int        `gorm:"column:failed;not null;default:0"`
	Late        int        `gorm:"column:late;not null;default:0"`
	Error       string     `gorm:"column:error;type:text"`
	StartedAt   time.Time  `gorm:"column:started_at;not null;index:idx_reconcile_job_runs_job_started,priority:2"`
	CompletedAt *time.Time `gorm:"column:completed_at"`
	CreatedAt   time.Time  `gorm:"column:created_at"`
	UpdatedAt   time.Time  `gorm:"column:updated_at"`
}

// TableName returns the table name for GORM
func (JobRunRecord) TableName() string {
	return "reconcile_job_runs"
}

// Counts returns the stored run counters
func (r *JobRunRecord) Counts() JobCounts {
	return JobCounts{
		Processed: r.Processed,
		Updated:   r.Updated,
		Notified:  r.Notified,
		Skipped:   r.Skipped,
		Failed:    r.Failed,
		Late:      r.Late,
	}
}

// JobRunRepository handles persistence of job run records
type JobRunRepository struct {
	db *gorm.DB
}

// NewJobRunRepository creates a new JobRunRepository
func NewJobRunRepository(db *gorm.DB) *JobRunRepository {
	return &JobRunRepository{db: db}
}

// Migrate creates the run table when it is missing. Deployments that run
// cmd/migrate already have it.
func (r *JobRunRepository) Migrate(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&JobRunRecord{})
}

// RecordStart inserts a RUNNING row for the job
func (r *JobRunRepository) RecordStart(ctx context.Context, job *Job) error {
	started := time.Now()
	if job.StartedAt != nil {
		started = *job.StartedAt
	}
	record := &JobRunRecord{
		ID:        job.ID,
		Job:       job.Kind,
		OwnerID:   job.OwnerID,
		Trigger:   string(job.Trigger),
		Status:    string(JobStatusRunning),
		StartedAt: started,
		CreatedAt: started,
		UpdatedAt: started,
	}
	return r.db.WithContext(ctx).Create(record).Error
}

// RecordFinish stores the outcome of the job
func (r *JobRunRepository) RecordFinish(ctx context.Context, job *Job) error {
	now := time.Now()
	if job.CompletedAt != nil {
		now = *job.CompletedAt
	}
	return r.db.WithContext(ctx).
		Model(&JobRunRecord{}).
		Where("id = ?", job.ID).
		Updates(map[string]any{
			"status":       string(job.Status),
			"processed":    job.Counts.Processed,
			"updated":      job.Counts.Updated,
			"notified":     job.Counts.Notified,
			"skipped":      job.Counts.Skipped,
			"failed":       job.Counts.Failed,
			"late":         job.Counts.Late,
			"error":        job.Error,
			"completed_at": now,
			"updated_at":   now,
		}).Error
}

// Last returns the most recent run of a job kind, or nil if it never ran
func (r *JobRunRepository) Last(ctx context.Context, kind string) (*JobRunRecord, error) {
	var record JobRunRecord
	err := r.db.WithContext(ctx).
		Where("job = ?", kind).
		Order("started_at DESC").
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// Recent returns the latest runs across all job kinds, newest first
func (r *JobRunRepository) Recent(ctx context.Context, limit int) ([]JobRunRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	var records []JobRunRecord
	err := r.db.WithContext(ctx).
		Order("started_at DESC").
		Limit(limit).
		Find(&records).Error
	return records, err
}
