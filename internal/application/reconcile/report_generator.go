package reconcile

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/ntqnhu0105/DoAn-CoSo-sub000/internal/domain/finance"
	"github.com/ntqnhu0105/DoAn-CoSo-sub000/internal/domain/shared"
	"go.uber.org/zap"
)

// GenerateReport writes the owner's report for month unless one exists.
// Losing an insert race to a concurrent run counts as skipped, not failed.
func (s *Service) GenerateReport(ctx context.Context, owner uuid.UUID, month finance.Month) (RunResult, error) {
	period := month.Period(s.cfg.Location)

	var created *finance.Report
	err := s.unit(ctx, "report:"+owner.String(), func(ctx context.Context, repos finance.Repositories) error {
		created = nil
		exists, err := repos.Reports().ExistsForMonth(ctx, owner, month)
		if err != nil {
			return fmt.Errorf("check report: %w", err)
		}
		if exists {
			return shared.ErrAlreadyExists
		}

		totals, err := NewAggregator(repos.Transactions()).MonthlyTotals(ctx, owner, period)
		if err != nil {
			return err
		}
		report, err := finance.NewReport(owner, month, totals.Income, totals.Expense)
		if err != nil {
			return err
		}
		report.StampAt(s.now())
		// A unique violation aborts the transaction on PostgreSQL, so it is
		// returned to roll back rather than swallowed here.
		if err := repos.Reports().Create(ctx, report); err != nil {
			return err
		}
		created = report
		return nil
	})

	switch {
	case errors.Is(err, shared.ErrAlreadyExists):
		s.log(ctx).Debug("Report already exists", zap.String("month", month.String()))
		return RunResult{Processed: 1, Skipped: 1}, nil
	case err != nil:
		return RunResult{Failed: 1}, fmt.Errorf("generate report %s: %w", month, err)
	}

	s.log(ctx).Info("Monthly report generated",
		zap.String("report_id", created.ID.String()),
		zap.String("month", month.String()),
		zap.String("total_income", created.TotalIncome.String()),
		zap.String("total_expense", created.TotalExpense.String()),
		zap.String("saved_amount", created.SavedAmount.String()),
	)
	return RunResult{Processed: 1, Updated: 1}, nil
}

// RunReports generates month's report for every user
func (s *Service) RunReports(ctx context.Context, month finance.Month) (RunResult, error) {
	return s.Run(ctx, JobReports, Request{Month: &month})
}
