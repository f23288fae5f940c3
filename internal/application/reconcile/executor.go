package reconcile

import (
	"context"
	"fmt"
	"time"

	"github.com/ntqnhu0105/DoAn-CoSo-sub000/internal/domain/finance"
	"github.com/ntqnhu0105/DoAn-CoSo-sub000/internal/infrastructure/config"
	"github.com/ntqnhu0105/DoAn-CoSo-sub000/internal/infrastructure/scheduler"
)

// Execute implements scheduler.JobExecutor
func (s *Service) Execute(ctx context.Context, job *scheduler.Job) (scheduler.JobCounts, error) {
	kind, err := ParseJob(job.Kind)
	if err != nil {
		return scheduler.JobCounts{}, err
	}

	req := Request{OwnerID: job.OwnerID}
	if job.Month != 0 {
		month, err := finance.NewMonth(job.Year, job.Month)
		if err != nil {
			return scheduler.JobCounts{}, err
		}
		req.Month = &month
	}

	res, err := s.Run(ctx, kind, req)
	return res.Counts(), err
}

// Counts converts the result to the scheduler's run counters
func (r RunResult) Counts() scheduler.JobCounts {
	return scheduler.JobCounts{
		Processed: r.Processed,
		Updated:   r.Updated,
		Notified:  r.Notified,
		Skipped:   r.Skipped,
		Failed:    r.Failed,
		Late:      r.Late,
	}
}

// Schedules builds the trigger of every job kind from configuration.
// Budgets, goals and reports share the monthly slot, debts run daily, and
// reminders and the goal overdue sweep run on fixed intervals.
func Schedules(cfg config.SchedulerConfig, loc *time.Location) (map[string]scheduler.Schedule, error) {
	daily, err := scheduler.ParseCronSchedule(cfg.DailyCronSchedule, loc)
	if err != nil {
		return nil, fmt.Errorf("daily schedule: %w", err)
	}
	monthly, err := scheduler.ParseCronSchedule(cfg.MonthlyCronSchedule, loc)
	if err != nil {
		return nil, fmt.Errorf("monthly schedule: %w", err)
	}
	if !monthly.HasDayOfMonth() {
		return nil, fmt.Errorf("%w: monthly schedule %q needs a day of month", scheduler.ErrInvalidConfig, cfg.MonthlyCronSchedule)
	}

	return map[string]scheduler.Schedule{
		JobBudgets.String():          monthly,
		JobGoals.String():            monthly,
		JobReports.String():          monthly,
		JobDebts.String():            daily,
		JobReminders.String():        scheduler.IntervalSchedule{Every: cfg.ReminderInterval},
		JobGoalOverdueSweep.String(): scheduler.IntervalSchedule{Every: cfg.GoalSweepInterval},
	}, nil
}
