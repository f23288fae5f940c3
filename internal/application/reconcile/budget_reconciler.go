package reconcile

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/ntqnhu0105/DoAn-CoSo-sub000/internal/domain/finance"
	"go.uber.org/zap"
)

// ReconcileBudgets recomputes spend and status of the owner's active budgets
// covering month. Spend is the expense in the budget's category over the
// calendar month, whatever the budget's own period. Budgets whose spend and
// status did not change are not written. All budgets of the owner commit
// together.
func (s *Service) ReconcileBudgets(ctx context.Context, owner uuid.UUID, month finance.Month) (RunResult, error) {
	period := month.Period(s.cfg.Location)

	var res RunResult
	err := s.unit(ctx, "budgets:"+owner.String(), func(ctx context.Context, repos finance.Repositories) error {
		res = RunResult{}
		budgets, err := repos.Budgets().FindActiveByOwner(ctx, owner)
		if err != nil {
			return fmt.Errorf("load budgets: %w", err)
		}

		agg := NewAggregator(repos.Transactions())
		for i := range budgets {
			b := &budgets[i]
			if !b.Covers(period) {
				continue
			}
			res.Processed++

			categoryID := b.CategoryID
			spent, err := agg.SumTransactions(ctx, owner, finance.TransactionKindExpense, &categoryID, period)
			if err != nil {
				return fmt.Errorf("budget %s: %w", b.ID, err)
			}
			if !b.ApplySpend(spent) {
				continue
			}
			b.UpdatedAt = s.now()
			if err := repos.Budgets().Save(ctx, b); err != nil {
				return fmt.Errorf("save budget %s: %w", b.ID, err)
			}
			res.Updated++
			s.log(ctx).Debug("Budget reconciled",
				zap.String("budget_id", b.ID.String()),
				zap.String("total_spent", b.TotalSpent.String()),
				zap.String("status", b.Status.String()),
			)
		}
		return nil
	})
	if err != nil {
		return RunResult{Failed: 1}, err
	}

	s.log(ctx).Info("Budgets reconciled",
		append(res.Fields(), zap.String("month", month.String()))...,
	)
	return res, nil
}

// RunBudgets reconciles the budgets of every user for month
func (s *Service) RunBudgets(ctx context.Context, month finance.Month) (RunResult, error) {
	return s.Run(ctx, JobBudgets, Request{Month: &month})
}
