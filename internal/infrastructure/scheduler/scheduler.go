package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/ntqnhu0105/DoAn-CoSo-sub000/internal/domain/shared"
	"github.com/ntqnhu0105/DoAn-CoSo-sub000/internal/infrastructure/logger"
	"github.com/ntqnhu0105/DoAn-CoSo-sub000/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// Config holds scheduler configuration
type Config struct {
	// CheckInterval is how often calendar schedules compare the clock
	CheckInterval time.Duration
	// LockTTL bounds how long a crashed instance keeps a job kind locked
	LockTTL time.Duration
	// ManualRunTimeout bounds runs started through TriggerManualRun
	ManualRunTimeout time.Duration
}

// DefaultConfig returns default scheduler configuration
func DefaultConfig() Config {
	return Config{
		CheckInterval:    time.Minute,
		LockTTL:          time.Hour,
		ManualRunTimeout: 30 * time.Minute,
	}
}

// RunRecorder receives the outcome of every run
type RunRecorder interface {
	RecordRun(ctx context.Context, job, status string, duration time.Duration, failed, notified, late int)
}

// KindStatus describes the state of one job kind
type KindStatus struct {
	Job        string     `json:"job"`
	Schedule   string     `json:"schedule"`
	Running    bool       `json:"running"`
	LastRunID  *uuid.UUID `json:"last_run_id,omitempty"`
	LastRunAt  *time.Time `json:"last_run_at,omitempty"`
	NextRunAt  *time.Time `json:"next_run_at,omitempty"`
	LastStatus JobStatus  `json:"last_status,omitempty"`
	LastError  string     `json:"last_error,omitempty"`
	LastCounts JobCounts  `json:"last_counts"`
}

type kindState struct {
	schedule Schedule
	inFlight atomic.Bool
	status   KindStatus
}

// Option configures a Scheduler
type Option func(*Scheduler)

// WithJobLock makes runs of a job kind exclusive across instances
func WithJobLock(lock shared.JobLock) Option {
	return func(s *Scheduler) {
		s.lock = lock
	}
}

// WithRunRepository persists every run
func WithRunRepository(repo *JobRunRepository) Option {
	return func(s *Scheduler) {
		s.runs = repo
	}
}

// WithRunRecorder reports every run to recorder
func WithRunRecorder(recorder RunRecorder) Option {
	return func(s *Scheduler) {
		s.recorder = recorder
	}
}

// WithClock overrides the time source
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) {
		s.now = now
	}
}

// Scheduler triggers each job kind on its own schedule. A job kind never
// runs twice at the same time, neither in this process nor, with a JobLock,
// across instances.
type Scheduler struct {
	config   Config
	executor JobExecutor
	logger   *zap.Logger
	lock     shared.JobLock
	runs     *JobRunRepository
	recorder RunRecorder
	now      func() time.Time

	kinds map[string]*kindState

	baseCtx   context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// New creates a scheduler running executor on the given schedules, keyed by
// job kind
func New(config Config, executor JobExecutor, schedules map[string]Schedule, zl *zap.Logger, opts ...Option) (*Scheduler, error) {
	if executor == nil {
		return nil, fmt.Errorf("%w: executor is required", ErrInvalidConfig)
	}
	if len(schedules) == 0 {
		return nil, fmt.Errorf("%w: no schedules", ErrInvalidConfig)
	}
	defaults := DefaultConfig()
	if config.CheckInterval <= 0 {
		config.CheckInterval = defaults.CheckInterval
	}
	if config.LockTTL <= 0 {
		config.LockTTL = defaults.LockTTL
	}
	if config.ManualRunTimeout <= 0 {
		config.ManualRunTimeout = defaults.ManualRunTimeout
	}
	if zl == nil {
		zl = zap.NewNop()
	}

	s := &Scheduler{
		config:   config,
		executor: executor,
		logger:   zl,
		now:      time.Now,
		kinds:    make(map[string]*kindState, len(schedules)),
	}
	for kind, schedule := range schedules {
		if schedule == nil {
			return nil, fmt.Errorf("%w: job %q has no schedule", ErrInvalidConfig, kind)
		}
		if iv, ok := schedule.(IntervalSchedule); ok && iv.Every <= 0 {
			return nil, fmt.Errorf("%w: job %q interval must be positive", ErrInvalidConfig, kind)
		}
		s.kinds[kind] = &kindState{
			schedule: schedule,
			status:   KindStatus{Job: kind, Schedule: schedule.String()},
		}
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Start starts one trigger loop per job kind
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.baseCtx, s.cancel = context.WithCancel(ctx)
	s.mu.Unlock()

	now := s.now()
	for kind, st := range s.kinds {
		s.restoreLastRun(ctx, kind, st)

		// interval jobs catch up right away; calendar jobs wait for their slot
		next := st.schedule.Next(now)
		if _, ok := st.schedule.(IntervalSchedule); ok {
			next = now
		}
		s.setNextRun(st, next)

		s.wg.Add(1)
		go s.loop(s.baseCtx, kind, st)

		s.logger.Info("Job scheduled",
			zap.String("job", kind),
			zap.String("schedule", st.schedule.String()),
			zap.Time("next_run_at", next),
		)
	}

	s.logger.Info("Reconciliation scheduler started", zap.Int("jobs", len(s.kinds)))
	return nil
}

// Stop stops the trigger loops and waits for running jobs
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Reconciliation scheduler stopped gracefully")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Reconciliation scheduler stop timed out")
		return ctx.Err()
	}
}

// IsRunning returns true if the scheduler is running
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isRunning
}

func (s *Scheduler) loop(ctx context.Context, kind string, st *kindState) {
	defer s.wg.Done()

	tick := s.config.CheckInterval
	if iv, ok := st.schedule.(IntervalSchedule); ok && iv.Every < tick {
		tick = iv.Every
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			now := s.now()
			if next := s.nextRun(st); next != nil && now.Before(*next) {
				continue
			}
			s.setNextRun(st, st.schedule.Next(now))

			_, err := s.Run(ctx, NewJob(kind, nil, TriggerSchedule))
			switch {
			case err == nil:
			case errors.Is(err, ErrJobInProgress), errors.Is(err, ErrJobLocked):
				s.logger.Info("Scheduled run skipped", zap.String("job", kind), zap.Error(err))
			default:
				s.logger.Error("Scheduled run failed", zap.String("job", kind), zap.Error(err))
			}
		}
	}
}

// Run executes job synchronously. It returns ErrJobInProgress when the job
// kind is already running here and ErrJobLocked when another instance holds
// it.
func (s *Scheduler) Run(ctx context.Context, job *Job) (*Job, error) {
	st, ok := s.kinds[job.Kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownJob, job.Kind)
	}
	if !st.inFlight.CompareAndSwap(false, true) {
		return nil, ErrJobInProgress
	}
	defer st.inFlight.Store(false)
	return s.execute(ctx, st, job)
}

// TriggerManualRun starts a run in the background and returns the accepted
// job. A job kind that is already running is rejected with ErrJobInProgress.
func (s *Scheduler) TriggerManualRun(kind string, ownerID *uuid.UUID, year, month int) (*Job, error) {
	st, ok := s.kinds[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownJob, kind)
	}

	// the WaitGroup is joined under mu so Stop cannot start waiting in between
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil, ErrSchedulerNotRunning
	}
	if !st.inFlight.CompareAndSwap(false, true) {
		s.mu.Unlock()
		return nil, ErrJobInProgress
	}
	s.wg.Add(1)
	baseCtx := s.baseCtx
	s.mu.Unlock()

	job := NewJob(kind, ownerID, TriggerManual).WithMonth(year, month)
	accepted := *job

	go func() {
		defer s.wg.Done()
		defer st.inFlight.Store(false)

		ctx, cancel := context.WithTimeout(baseCtx, s.config.ManualRunTimeout)
		defer cancel()
		if _, err := s.execute(ctx, st, job); err != nil && !errors.Is(err, ErrJobLocked) {
			s.logger.Error("Manual run failed",
				zap.String("job", kind),
				zap.String("run_id", job.ID.String()),
				zap.Error(err),
			)
		}
	}()

	s.logger.Info("Manual run accepted",
		zap.String("job", kind),
		zap.String("run_id", job.ID.String()),
	)
	return &accepted, nil
}

// execute runs job while the in-flight flag of its kind is held
func (s *Scheduler) execute(ctx context.Context, st *kindState, job *Job) (*Job, error) {
	if s.lock != nil {
		release, acquired, err := s.lock.Acquire(ctx, job.Kind, s.config.LockTTL)
		if err != nil {
			return nil, fmt.Errorf("acquire lock for %s: %w", job.Kind, err)
		}
		if !acquired {
			job.Status = JobStatusSkipped
			s.record(ctx, job)
			return job, ErrJobLocked
		}
		defer func() {
			if err := release(context.WithoutCancel(ctx)); err != nil {
				s.logger.Warn("Failed to release job lock", zap.String("job", job.Kind), zap.Error(err))
			}
		}()
	}

	ctx, span := telemetry.StartServiceSpan(ctx, "reconcile", job.Kind,
		telemetry.WithAttribute(telemetry.SpanAttrRunID, job.ID.String()),
		telemetry.WithAttribute(telemetry.SpanAttrTrigger, string(job.Trigger)),
	)
	defer span.End()

	ctx, log := logger.WithJob(ctx, s.logger, job.Kind, job.ID.String())
	if job.OwnerID != nil {
		ctx, log = logger.WithOwnerID(ctx, log, job.OwnerID.String())
	}
	ctx = logger.WithContext(ctx, log)

	job.Start(s.now())
	s.markStarted(st, job)
	if s.runs != nil {
		if err := s.runs.RecordStart(ctx, job); err != nil {
			log.Warn("Failed to record job start", zap.Error(err))
		}
	}
	log.Info("Job started", zap.String("trigger", string(job.Trigger)))

	var (
		counts JobCounts
		runErr error
	)
	telemetry.WithProfilingLabels(ctx, telemetry.JobLabels(job.Kind, string(job.Trigger)), func(ctx context.Context) {
		counts, runErr = s.executor.Execute(ctx, job)
	})
	if runErr != nil {
		job.Fail(s.now(), counts, runErr.Error())
		telemetry.RecordError(span, runErr)
	} else {
		job.Complete(s.now(), counts)
		telemetry.SetOK(span)
	}
	telemetry.SetAttributes(span,
		"job.processed", counts.Processed,
		"job.failed", counts.Failed,
		"job.notified", counts.Notified,
	)

	if s.runs != nil {
		if err := s.runs.RecordFinish(context.WithoutCancel(ctx), job); err != nil {
			log.Warn("Failed to record job completion", zap.Error(err))
		}
	}
	s.markFinished(st, job)
	s.record(ctx, job)

	fields := []zap.Field{
		zap.String("status", string(job.Status)),
		zap.Duration("duration", job.Duration()),
		zap.Int("processed", counts.Processed),
		zap.Int("updated", counts.Updated),
		zap.Int("notified", counts.Notified),
		zap.Int("skipped", counts.Skipped),
		zap.Int("failed", counts.Failed),
		zap.Int("late", counts.Late),
	}
	switch {
	case runErr != nil:
		log.Error("Job failed", append(fields, zap.Error(runErr))...)
	case counts.Failed > 0:
		log.Warn("Job completed with failures", fields...)
	default:
		log.Info("Job completed", fields...)
	}
	return job, runErr
}

func (s *Scheduler) record(ctx context.Context, job *Job) {
	if s.recorder == nil {
		return
	}
	s.recorder.RecordRun(ctx, job.Kind, string(job.Status), job.Duration(),
		job.Counts.Failed, job.Counts.Notified, job.Counts.Late)
}

func (s *Scheduler) restoreLastRun(ctx context.Context, kind string, st *kindState) {
	if s.runs == nil {
		return
	}
	last, err := s.runs.Last(ctx, kind)
	if err != nil {
		s.logger.Warn("Failed to load last run", zap.String("job", kind), zap.Error(err))
		return
	}
	if last == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	id := last.ID
	started := last.StartedAt
	st.status.LastRunID = &id
	st.status.LastRunAt = &started
	st.status.LastStatus = JobStatus(last.Status)
	st.status.LastError = last.Error
	st.status.LastCounts = last.Counts()
}

func (s *Scheduler) markStarted(st *kindState, job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := job.ID
	st.status.LastRunID = &id
	st.status.LastRunAt = job.StartedAt
	st.status.LastStatus = job.Status
	st.status.LastError = ""
	st.status.LastCounts = JobCounts{}
}

func (s *Scheduler) markFinished(st *kindState, job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st.status.LastStatus = job.Status
	st.status.LastError = job.Error
	st.status.LastCounts = job.Counts
}

func (s *Scheduler) nextRun(st *kindState) *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return st.status.NextRunAt
}

func (s *Scheduler) setNextRun(st *kindState, next time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st.status.NextRunAt = &next
}

// GetStatus returns the status of every job kind, ordered by name
func (s *Scheduler) GetStatus() []KindStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]KindStatus, 0, len(s.kinds))
	for _, st := range s.kinds {
		status := st.status
		status.Running = st.inFlight.Load()
		out = append(out, status)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Job < out[j].Job })
	return out
}
