package telemetry

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// BacklogProvider counts work the reconcilers have not caught up with yet.
type BacklogProvider interface {
	// DueReminders counts unsent reminders whose fire time has passed
	DueReminders(ctx context.Context, now time.Time) (int64, error)
	// OverdueGoals counts in-progress goals past their deadline
	OverdueGoals(ctx context.Context, now time.Time) (int64, error)
}

// ReconcileMetricsConfig holds configuration for reconciliation metrics.
type ReconcileMetricsConfig struct {
	Meter           metric.Meter
	Logger          *zap.Logger
	CollectInterval time.Duration // Default: 1 minute
	Backlog         BacklogProvider
	Now             func() time.Time
}

// ReconcileMetrics records the outcome of every scheduled run and samples
// the reconciliation backlog.
type ReconcileMetrics struct {
	logger *zap.Logger

	runs          *Counter
	runDuration   *Histogram
	failed        *Counter
	notifications *Counter
	lateReminders *Counter
	backlog       *Gauge

	backlogProvider BacklogProvider
	interval        time.Duration
	now             func() time.Time

	stopChan    chan struct{}
	stopOnce    sync.Once
	collectOnce sync.Once
	wg          sync.WaitGroup
}

// NewReconcileMetrics creates the reconciliation instruments.
func NewReconcileMetrics(cfg ReconcileMetricsConfig) (*ReconcileMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}
	m := &ReconcileMetrics{
		logger:          cfg.Logger,
		backlogProvider: cfg.Backlog,
		interval:        cfg.CollectInterval,
		now:             cfg.Now,
		stopChan:        make(chan struct{}),
	}
	if m.logger == nil {
		m.logger = zap.NewNop()
	}
	if m.interval <= 0 {
		m.interval = time.Minute
	}
	if m.now == nil {
		m.now = time.Now
	}

	var err error
	if m.runs, err = NewCounter(cfg.Meter, "reconcile.runs", "Scheduled reconciliation runs by job and status", "{run}"); err != nil {
		return nil, err
	}
	if m.runDuration, err = NewHistogram(cfg.Meter, HistogramOpts{
		Name:        "reconcile.run.duration",
		Description: "Duration of reconciliation runs",
		Unit:        "s",
		Boundaries:  RunDurationBuckets,
	}); err != nil {
		return nil, err
	}
	if m.failed, err = NewCounter(cfg.Meter, "reconcile.entities.failed", "Transactional units that failed after retries", "{unit}"); err != nil {
		return nil, err
	}
	if m.notifications, err = NewCounter(cfg.Meter, "reconcile.notifications", "Notifications appended by reconciliation", "{notification}"); err != nil {
		return nil, err
	}
	if m.lateReminders, err = NewCounter(cfg.Meter, "reconcile.reminders.late", "Reminders dispatched later than one dispatch interval", "{reminder}"); err != nil {
		return nil, err
	}
	if m.backlog, err = NewGauge(cfg.Meter, "reconcile.backlog", "Entities waiting for reconciliation", "{entity}"); err != nil {
		return nil, err
	}
	return m, nil
}

// RecordRun records one finished run.
func (m *ReconcileMetrics) RecordRun(ctx context.Context, job, status string, duration time.Duration, failed, notified, late int) {
	m.runs.Inc(ctx, AttrJob.String(job), AttrStatus.String(status))
	if duration > 0 {
		m.runDuration.RecordDuration(ctx, duration, AttrJob.String(job), AttrStatus.String(status))
	}
	if failed > 0 {
		m.failed.Add(ctx, int64(failed), AttrJob.String(job))
	}
	if notified > 0 {
		m.notifications.Add(ctx, int64(notified), AttrJob.String(job))
	}
	if late > 0 {
		m.lateReminders.Add(ctx, int64(late), AttrJob.String(job))
	}
}

// StartPeriodicCollection samples the backlog every interval until ctx ends
// or Stop is called. Only the first call starts a collector.
func (m *ReconcileMetrics) StartPeriodicCollection(ctx context.Context) {
	if m.backlogProvider == nil {
		m.logger.Debug("No backlog provider configured, skipping backlog collection")
		return
	}
	m.collectOnce.Do(func() {
		m.wg.Add(1)
		go m.runPeriodicCollection(ctx)
	})
}

func (m *ReconcileMetrics) runPeriodicCollection(ctx context.Context) {
	defer m.wg.Done()

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.collectBacklog(ctx)
	for {
		select {
		case <-m.stopChan:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.collectBacklog(ctx)
		}
	}
}

func (m *ReconcileMetrics) collectBacklog(ctx context.Context) {
	now := m.now()

	if n, err := m.backlogProvider.DueReminders(ctx, now); err != nil {
		m.logger.Warn("Failed to count due reminders", zap.Error(err))
	} else {
		m.backlog.Record(ctx, n, AttrBacklog.String("reminders_due"))
	}

	if n, err := m.backlogProvider.OverdueGoals(ctx, now); err != nil {
		m.logger.Warn("Failed to count overdue goals", zap.Error(err))
	} else {
		m.backlog.Record(ctx, n, AttrBacklog.String("goals_overdue"))
	}
}

// Stop stops the periodic collection. Safe to call more than once.
func (m *ReconcileMetrics) Stop() {
	m.stopOnce.Do(func() {
		close(m.stopChan)
		m.wg.Wait()
	})
}

// ErrMeterNil is returned when meter is nil.
var ErrMeterNil = &MetricsError{Op: "NewReconcileMetrics", Err: "meter cannot be nil"}

// MetricsError represents a metrics-related error.
type MetricsError struct {
	Op  string
	Err string
}

func (e *MetricsError) Error() string {
	return e.Op + ": " + e.Err
}
