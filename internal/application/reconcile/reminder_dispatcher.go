package reconcile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ntqnhu0105/DoAn-CoSo-sub000/internal/domain/finance"
	"github.com/ntqnhu0105/DoAn-CoSo-sub000/internal/domain/shared"
	"go.uber.org/zap"
)

// errAlreadyDispatched rolls back a unit whose reminder was sent by another run
var errAlreadyDispatched = errors.New("reminder already dispatched")

// DispatchReminders delivers every unsent reminder whose fire time has come,
// for all owners or only owner when set. Each reminder is its own unit: the
// notification and the Sent transition commit together, and the transition
// only applies to a row still unsent, so a reminder is delivered once even if
// two dispatchers race. Reminders due while the process was down go out on
// the first run after restart with their text unchanged and are counted as late.
func (s *Service) DispatchReminders(ctx context.Context, owner *uuid.UUID) (RunResult, error) {
	now := s.now()
	due, err := s.uow.Reminders().FindDue(ctx, now)
	if err != nil {
		return RunResult{}, fmt.Errorf("load due reminders: %w", err)
	}

	var total RunResult
	for i := range due {
		r := &due[i]
		if owner != nil && r.OwnerID != *owner {
			continue
		}
		if err := ctx.Err(); err != nil {
			return total, err
		}

		res, err := s.dispatchReminder(ctx, r.ID, now)
		if err != nil {
			total.Failed++
			s.log(ctx).Error("Failed to dispatch reminder",
				zap.String("reminder_id", r.ID.String()),
				zap.String("owner_id", r.OwnerID.String()),
				zap.Error(err),
			)
			continue
		}
		total.Add(res)
	}

	s.log(ctx).Info("Reminders dispatched", total.Fields()...)
	return total, nil
}

func (s *Service) dispatchReminder(ctx context.Context, id uuid.UUID, now time.Time) (RunResult, error) {
	var res RunResult
	err := s.unit(ctx, "reminder:"+id.String(), func(ctx context.Context, repos finance.Repositories) error {
		res = RunResult{Processed: 1}
		r, err := repos.Reminders().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if !r.IsDue(now) {
			return errAlreadyDispatched
		}

		targetText, err := s.describeTarget(ctx, repos, r.Target)
		if err != nil {
			return fmt.Errorf("resolve target: %w", err)
		}
		message := s.messages.ReminderText(targetText, r.Message)
		source := finance.SourceRef{Kind: finance.EntityKindReminder, ID: r.ID}
		if err := s.notify(ctx, repos, r.OwnerID, finance.NotificationCategoryReminder, message, true, source); err != nil {
			return err
		}

		if err := r.MarkSent(now); err != nil {
			return err
		}
		r.UpdatedAt = now
		ok, err := repos.Reminders().MarkSent(ctx, r)
		if err != nil {
			return err
		}
		if !ok {
			return errAlreadyDispatched
		}
		res.Notified++
		res.Updated++

		if lateness := r.Lateness(now); lateness > s.cfg.ReminderInterval {
			res.Late++
			res.MaxLateness = lateness
			s.log(ctx).Warn("Reminder dispatched late",
				zap.String("reminder_id", r.ID.String()),
				zap.Time("fire_at", r.FireAt),
				zap.Duration("lateness", lateness),
			)
		}
		return nil
	})
	if errors.Is(err, errAlreadyDispatched) {
		return RunResult{Processed: 1, Skipped: 1}, nil
	}
	if err != nil {
		return RunResult{}, err
	}
	return res, nil
}

// describeTarget renders the reminder's linked entity, or "" when there is
// none or it no longer exists.
func (s *Service) describeTarget(ctx context.Context, repos finance.Repositories, target finance.ReminderTarget) (string, error) {
	id, ok := target.ID()
	if !ok {
		return "", nil
	}

	var (
		text string
		err  error
	)
	switch target.Kind() {
	case finance.EntityKindGoal:
		var g *finance.SavingGoal
		if g, err = repos.Goals().FindByID(ctx, id); err == nil {
			text = s.messages.GoalReminder(g)
		}
	case finance.EntityKindDebt:
		var d *finance.Debt
		if d, err = repos.Debts().FindByID(ctx, id); err == nil {
			text = s.messages.DebtReminder(d)
		}
	case finance.EntityKindInvestment:
		var inv *finance.Investment
		if inv, err = repos.Investments().FindByID(ctx, id); err == nil {
			text = s.messages.InvestmentReminder(inv)
		}
	}
	if errors.Is(err, shared.ErrNotFound) {
		return "", nil
	}
	return text, err
}

// RunReminders dispatches due reminders of every owner
func (s *Service) RunReminders(ctx context.Context) (RunResult, error) {
	return s.Run(ctx, JobReminders, Request{})
}
