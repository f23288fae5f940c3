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

// ReconcileDebts applies the payoff, overdue and due-today rules to every
// debt of the owner that is active or has a next payment date. Each debt is
// its own transactional unit; a failing debt is logged and the rest continue.
func (s *Service) ReconcileDebts(ctx context.Context, owner uuid.UUID) (RunResult, error) {
	debts, err := s.uow.Debts().FindMonitoredByOwner(ctx, owner)
	if err != nil {
		return RunResult{Failed: 1}, fmt.Errorf("load debts: %w", err)
	}

	now := s.now()
	var total RunResult
	for _, d := range debts {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		res, err := s.reconcileDebt(ctx, d.ID, now)
		if err != nil {
			total.Failed++
			s.log(ctx).Error("Failed to reconcile debt",
				zap.String("debt_id", d.ID.String()),
				zap.Error(err),
			)
			continue
		}
		total.Add(res)
	}

	s.log(ctx).Info("Debts reconciled", total.Fields()...)
	return total, nil
}

// reconcileDebt evaluates the three rules on a fresh copy of one debt.
// Payoff and overdue are both judged on the status as loaded, so a debt
// repaid after its end date gets both notifications and ends PaidOff. The
// due-today reminder only fires for a debt still active after that.
func (s *Service) reconcileDebt(ctx context.Context, id uuid.UUID, now time.Time) (RunResult, error) {
	var res RunResult
	err := s.unit(ctx, "debt:"+id.String(), func(ctx context.Context, repos finance.Repositories) error {
		res = RunResult{}
		d, err := repos.Debts().FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				res.Skipped++
				return nil
			}
			return err
		}
		if !d.IsMonitored() {
			res.Skipped++
			return nil
		}
		res.Processed++

		source := finance.SourceRef{Kind: finance.EntityKindDebt, ID: d.ID}
		payOff := d.CanPayOff()
		overdue := d.IsOverdueAt(now)
		changed := false

		if payOff {
			if err := d.MarkPaidOff(); err != nil {
				return err
			}
			changed = true
			if err := s.notify(ctx, repos, d.OwnerID, finance.NotificationCategoryUpdate, s.messages.DebtPaidOff(d), false, source); err != nil {
				return fmt.Errorf("notify payoff: %w", err)
			}
			res.Notified++
		}

		if overdue {
			if d.Status == finance.DebtStatusActive {
				if err := d.MarkOverdue(now); err != nil {
					return err
				}
				changed = true
			}
			if err := s.notify(ctx, repos, d.OwnerID, finance.NotificationCategoryWarning, s.messages.DebtOverdue(d), false, source); err != nil {
				return fmt.Errorf("notify overdue: %w", err)
			}
			res.Notified++
		}

		if d.IsPaymentDueOn(now, s.cfg.Location) {
			sent, err := s.notifyOncePerDay(ctx, repos, d, now, source)
			if err != nil {
				return fmt.Errorf("notify payment due: %w", err)
			}
			if sent {
				res.Notified++
			}
		}

		if changed {
			d.UpdatedAt = now
			if err := repos.Debts().Save(ctx, d); err != nil {
				return fmt.Errorf("save debt: %w", err)
			}
			res.Updated++
			s.log(ctx).Info("Debt status changed",
				zap.String("debt_id", d.ID.String()),
				zap.String("status", d.Status.String()),
			)
		}
		return nil
	})
	if err != nil {
		return RunResult{}, err
	}
	return res, nil
}

// notifyOncePerDay sends the due-today reminder unless one with the same text
// already went out since the start of the local day, so a manual rerun of the
// daily job stays quiet.
func (s *Service) notifyOncePerDay(ctx context.Context, repos finance.Repositories, d *finance.Debt, now time.Time, source finance.SourceRef) (bool, error) {
	msg := s.messages.DebtPaymentDue(d)
	y, m, day := now.In(s.cfg.Location).Date()
	startOfDay := time.Date(y, m, day, 0, 0, 0, 0, s.cfg.Location)

	exists, err := repos.Notifications().ExistsSince(ctx, d.OwnerID, msg, startOfDay)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}
	if err := s.notify(ctx, repos, d.OwnerID, finance.NotificationCategoryReminder, msg, true, source); err != nil {
		return false, err
	}
	return true, nil
}

// RunDebts reconciles the debts of every user
func (s *Service) RunDebts(ctx context.Context) (RunResult, error) {
	return s.Run(ctx, JobDebts, Request{})
}
