package reconcile

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/ntqnhu0105/DoAn-CoSo-sub000/internal/domain/finance"
	"go.uber.org/zap"
)

// ReconcileGoals settles the owner's in-progress savings goals. A goal past
// its deadline fails even when its target was reached afterwards; otherwise
// a goal that reached its target completes. All goals of the owner commit
// together.
func (s *Service) ReconcileGoals(ctx context.Context, owner uuid.UUID) (RunResult, error) {
	now := s.now()

	var res RunResult
	err := s.unit(ctx, "goals:"+owner.String(), func(ctx context.Context, repos finance.Repositories) error {
		res = RunResult{}
		goals, err := repos.Goals().FindInProgressByOwner(ctx, owner)
		if err != nil {
			return fmt.Errorf("load goals: %w", err)
		}

		for i := range goals {
			g := &goals[i]
			res.Processed++
			source := finance.SourceRef{Kind: finance.EntityKindGoal, ID: g.ID}

			var (
				category finance.NotificationCategory
				message  string
			)
			switch {
			case g.IsOverdueAt(now):
				if err := g.MarkFailed(now); err != nil {
					return fmt.Errorf("goal %s: %w", g.ID, err)
				}
				category, message = finance.NotificationCategoryWarning, s.messages.GoalOverdue(g)
			case g.IsReached():
				if err := g.MarkCompleted(); err != nil {
					return fmt.Errorf("goal %s: %w", g.ID, err)
				}
				category, message = finance.NotificationCategoryUpdate, s.messages.GoalCompleted(g)
			default:
				continue
			}

			g.UpdatedAt = now
			if err := repos.Goals().Save(ctx, g); err != nil {
				return fmt.Errorf("save goal %s: %w", g.ID, err)
			}
			res.Updated++
			if err := s.notify(ctx, repos, owner, category, message, true, source); err != nil {
				return fmt.Errorf("notify goal %s: %w", g.ID, err)
			}
			res.Notified++
			s.log(ctx).Info("Savings goal settled",
				zap.String("goal_id", g.ID.String()),
				zap.String("status", g.Status.String()),
			)
		}
		return nil
	})
	if err != nil {
		return RunResult{Failed: 1}, err
	}

	s.log(ctx).Info("Savings goals reconciled", res.Fields()...)
	return res, nil
}

// RunGoals reconciles the savings goals of every user
func (s *Service) RunGoals(ctx context.Context) (RunResult, error) {
	return s.Run(ctx, JobGoals, Request{})
}

// SweepOverdueGoals warns about every in-progress goal past its deadline,
// across all owners or only owner when set. A warning is skipped when the
// owner already received the same text within the dedup window. Goal status
// is left for the monthly reconciler. Each goal is its own unit.
func (s *Service) SweepOverdueGoals(ctx context.Context, owner *uuid.UUID) (RunResult, error) {
	now := s.now()
	goals, err := s.uow.Goals().FindOverdueInProgress(ctx, now)
	if err != nil {
		return RunResult{}, fmt.Errorf("load overdue goals: %w", err)
	}

	since := now.Add(-s.cfg.DedupWindow)
	var total RunResult
	for i := range goals {
		g := &goals[i]
		if owner != nil && g.OwnerID != *owner {
			continue
		}
		if err := ctx.Err(); err != nil {
			return total, err
		}
		total.Processed++

		message := s.messages.GoalOverdue(g)
		sent := false
		err := s.unit(ctx, "goal-overdue:"+g.ID.String(), func(ctx context.Context, repos finance.Repositories) error {
			sent = false
			exists, err := repos.Notifications().ExistsSince(ctx, g.OwnerID, message, since)
			if err != nil {
				return err
			}
			if exists {
				return nil
			}
			source := finance.SourceRef{Kind: finance.EntityKindGoal, ID: g.ID}
			if err := s.notify(ctx, repos, g.OwnerID, finance.NotificationCategoryWarning, message, true, source); err != nil {
				return err
			}
			sent = true
			return nil
		})
		switch {
		case err != nil:
			total.Failed++
			s.log(ctx).Error("Failed to warn about overdue goal",
				zap.String("goal_id", g.ID.String()),
				zap.String("owner_id", g.OwnerID.String()),
				zap.Error(err),
			)
		case sent:
			total.Notified++
		default:
			total.Skipped++
		}
	}

	s.log(ctx).Info("Overdue goal sweep finished", total.Fields()...)
	return total, nil
}
