package reconcile

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ntqnhu0105/DoAn-CoSo-sub000/internal/domain/finance"
	"github.com/ntqnhu0105/DoAn-CoSo-sub000/internal/domain/shared"
	"github.com/ntqnhu0105/DoAn-CoSo-sub000/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// Job identifies one kind of scheduled reconciliation
type Job string

const (
	JobBudgets          Job = "budgets"
	JobDebts            Job = "debts"
	JobGoals            Job = "goals"
	JobGoalOverdueSweep Job = "goal-overdue-sweep"
	JobReports          Job = "reports"
	JobReminders        Job = "reminders"
)

// AllJobs returns every job kind
func AllJobs() []Job {
	return []Job{
		JobBudgets,
		JobDebts,
		JobGoals,
		JobGoalOverdueSweep,
		JobReports,
		JobReminders,
	}
}

// ParseJob converts a job name into a Job
func ParseJob(s string) (Job, error) {
	j := Job(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range AllJobs() {
		if j == known {
			return j, nil
		}
	}
	return "", shared.NewDomainError("INVALID_JOB", fmt.Sprintf("Unknown reconciliation job %q", s))
}

// IsMonthly reports whether the job works on a calendar month
func (j Job) IsMonthly() bool {
	return j == JobBudgets || j == JobGoals || j == JobReports
}

// String returns the string representation of Job
func (j Job) String() string {
	return string(j)
}

// Request selects what a run covers. A nil OwnerID runs the job for every
// user; a nil Month means the calendar month before now.
type Request struct {
	OwnerID *uuid.UUID
	Month   *finance.Month
}

// RunResult counts what one run did
type RunResult struct {
	Processed int
	Updated   int
	Notified  int
	Skipped   int
	Failed    int
	// Late counts reminders dispatched after their fire time had passed by
	// more than one dispatch interval; MaxLateness is the worst of them.
	Late        int
	MaxLateness time.Duration
}

// Add accumulates other into r
func (r *RunResult) Add(other RunResult) {
	r.Processed += other.Processed
	r.Updated += other.Updated
	r.Notified += other.Notified
	r.Skipped += other.Skipped
	r.Failed += other.Failed
	r.Late += other.Late
	if other.MaxLateness > r.MaxLateness {
		r.MaxLateness = other.MaxLateness
	}
}

// Fields returns the counts as log fields
func (r RunResult) Fields() []zap.Field {
	fields := []zap.Field{
		zap.Int("processed", r.Processed),
		zap.Int("updated", r.Updated),
		zap.Int("notified", r.Notified),
		zap.Int("skipped", r.Skipped),
		zap.Int("failed", r.Failed),
	}
	if r.Late > 0 {
		fields = append(fields, zap.Int("late", r.Late), zap.Duration("max_lateness", r.MaxLateness))
	}
	return fields
}

// Config holds reconciliation settings
type Config struct {
	// Location is the reporting timezone for calendar months and days
	Location *time.Location
	// Locale renders amounts in notification messages
	Locale string
	// DedupWindow suppresses a repeated overdue-goal warning with the same text
	DedupWindow time.Duration
	// ReminderInterval is the dispatch cadence; reminders later than this are counted as late
	ReminderInterval time.Duration
	// UnitTimeout bounds one transactional unit, retries excluded
	UnitTimeout time.Duration
	// RetryAttempts is the total number of tries for a unit failing transiently
	RetryAttempts int
	// RetryDelay is the first backoff interval
	RetryDelay time.Duration
	// RetryMaxDelay caps the backoff interval
	RetryMaxDelay time.Duration
}

// DefaultConfig returns the default reconciliation configuration
func DefaultConfig() Config {
	loc, err := finance.LoadLocation(finance.DefaultReportingTimezone)
	if err != nil {
		loc = time.UTC
	}
	return Config{
		Location:         loc,
		Locale:           "vi-VN",
		DedupWindow:      24 * time.Hour,
		ReminderInterval: 5 * time.Minute,
		UnitTimeout:      30 * time.Second,
		RetryAttempts:    3,
		RetryDelay:       200 * time.Millisecond,
		RetryMaxDelay:    5 * time.Second,
	}
}

// Option customizes a Service
type Option func(*Service)

// WithClock replaces time.Now, mainly for tests
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithMessageBuilder replaces the builder derived from Config.Locale
func WithMessageBuilder(b *finance.MessageBuilder) Option {
	return func(s *Service) {
		s.messages = b
	}
}

// Service runs every reconciliation job. Each exported method is one
// parameterized (owner, period) operation; the Run* sweeps add the loop over
// all users on top.
type Service struct {
	uow      finance.UnitOfWork
	cfg      Config
	logger   *zap.Logger
	now      func() time.Time
	messages *finance.MessageBuilder
}

// NewService creates a reconciliation service
func NewService(uow finance.UnitOfWork, cfg Config, zl *zap.Logger, opts ...Option) *Service {
	defaults := DefaultConfig()
	if cfg.Location == nil {
		cfg.Location = defaults.Location
	}
	if cfg.DedupWindow <= 0 {
		cfg.DedupWindow = defaults.DedupWindow
	}
	if cfg.ReminderInterval <= 0 {
		cfg.ReminderInterval = defaults.ReminderInterval
	}
	if cfg.UnitTimeout <= 0 {
		cfg.UnitTimeout = defaults.UnitTimeout
	}
	if cfg.RetryAttempts <= 0 {
		cfg.RetryAttempts = 1
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = defaults.RetryDelay
	}
	if cfg.RetryMaxDelay < cfg.RetryDelay {
		cfg.RetryMaxDelay = cfg.RetryDelay
	}
	if zl == nil {
		zl = zap.NewNop()
	}

	s := &Service{
		uow:    uow,
		cfg:    cfg,
		logger: zl,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.messages == nil {
		s.messages = finance.NewMessageBuilder(cfg.Locale, cfg.Location)
	}
	return s
}

// Location returns the reporting timezone
func (s *Service) Location() *time.Location {
	return s.cfg.Location
}

// Now returns the current time of the service clock
func (s *Service) Now() time.Time {
	return s.now()
}

// Run executes job for the request. It returns an error only when the run
// could not start; failures of individual units are counted in the result.
func (s *Service) Run(ctx context.Context, job Job, req Request) (RunResult, error) {
	if req.OwnerID != nil && *req.OwnerID == uuid.Nil {
		return RunResult{}, shared.NewDomainError("INVALID_OWNER", "Owner ID cannot be empty")
	}
	month := finance.PreviousMonth(s.now(), s.cfg.Location)
	if req.Month != nil {
		month = *req.Month
	}

	switch job {
	case JobBudgets:
		return s.forOwners(ctx, job, req.OwnerID, func(ctx context.Context, owner uuid.UUID) (RunResult, error) {
			return s.ReconcileBudgets(ctx, owner, month)
		})
	case JobDebts:
		return s.forOwners(ctx, job, req.OwnerID, func(ctx context.Context, owner uuid.UUID) (RunResult, error) {
			return s.ReconcileDebts(ctx, owner)
		})
	case JobGoals:
		return s.forOwners(ctx, job, req.OwnerID, func(ctx context.Context, owner uuid.UUID) (RunResult, error) {
			return s.ReconcileGoals(ctx, owner)
		})
	case JobReports:
		return s.forOwners(ctx, job, req.OwnerID, func(ctx context.Context, owner uuid.UUID) (RunResult, error) {
			return s.GenerateReport(ctx, owner, month)
		})
	case JobGoalOverdueSweep:
		return s.SweepOverdueGoals(ctx, req.OwnerID)
	case JobReminders:
		return s.DispatchReminders(ctx, req.OwnerID)
	default:
		return RunResult{}, shared.NewDomainError("INVALID_JOB", fmt.Sprintf("Unknown reconciliation job %q", job))
	}
}

// forOwners runs fn for one owner, or for every user when owner is nil.
// A failing owner is logged and counted; the sweep continues with the next.
func (s *Service) forOwners(ctx context.Context, job Job, owner *uuid.UUID, fn func(context.Context, uuid.UUID) (RunResult, error)) (RunResult, error) {
	var owners []uuid.UUID
	if owner != nil {
		owners = []uuid.UUID{*owner}
	} else {
		ids, err := s.uow.Users().FindAllIDs(ctx)
		if err != nil {
			return RunResult{}, fmt.Errorf("list users: %w", err)
		}
		owners = ids
	}

	var total RunResult
	for _, id := range owners {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		ownerCtx, _ := logger.WithOwnerID(ctx, s.logger, id.String())
		res, err := fn(ownerCtx, id)
		total.Add(res)
		if err != nil {
			s.log(ownerCtx).Error("Failed to reconcile owner",
				zap.String("job", job.String()),
				zap.Error(err),
			)
		}
	}
	return total, nil
}

// log returns a logger stamped with the job, run and owner carried by ctx
func (s *Service) log(ctx context.Context) *logger.ContextLogger {
	return logger.WithLogger(ctx, s.logger)
}

// notify appends a notification stamped with the service clock
func (s *Service) notify(ctx context.Context, repos finance.Repositories, owner uuid.UUID, category finance.NotificationCategory, message string, important bool, source finance.SourceRef) error {
	n, err := finance.NewNotification(owner, category, message, important, source)
	if err != nil {
		return err
	}
	n.StampAt(s.now())
	return repos.Notifications().Create(ctx, n)
}
