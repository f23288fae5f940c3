package reconcile

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/ntqnhu0105/DoAn-CoSo-sub000/internal/domain/finance"
	"github.com/shopspring/decimal"
)

// MonthlyTotals is the income and expense of one owner over a period
type MonthlyTotals struct {
	Income  decimal.Decimal
	Expense decimal.Decimal
}

// Saved is income minus expense; negative when the owner spent more than earned
func (t MonthlyTotals) Saved() decimal.Decimal {
	return t.Income.Sub(t.Expense)
}

// Aggregator derives sums from transaction records. It reads through the
// repository it is given, so inside a unit it sees the unit's snapshot.
type Aggregator struct {
	transactions finance.TransactionRepository
}

// NewAggregator creates an aggregator over repo
func NewAggregator(repo finance.TransactionRepository) *Aggregator {
	return &Aggregator{transactions: repo}
}

// SumTransactions totals the owner's transactions of kind over the half-open
// period. A nil categoryID sums every category. Zero when nothing matches.
func (a *Aggregator) SumTransactions(ctx context.Context, owner uuid.UUID, kind finance.TransactionKind, categoryID *uuid.UUID, period finance.Period) (decimal.Decimal, error) {
	if !kind.IsValid() {
		return decimal.Zero, fmt.Errorf("sum transactions: unknown kind %q", kind)
	}
	total, err := a.transactions.Sum(ctx, finance.TransactionFilter{
		OwnerID:    owner,
		Kind:       kind,
		CategoryID: categoryID,
		Period:     period,
	})
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum %s transactions: %w", kind, err)
	}
	return total, nil
}

// MonthlyTotals returns the owner's income and expense over period
func (a *Aggregator) MonthlyTotals(ctx context.Context, owner uuid.UUID, period finance.Period) (MonthlyTotals, error) {
	income, err := a.SumTransactions(ctx, owner, finance.TransactionKindIncome, nil, period)
	if err != nil {
		return MonthlyTotals{}, err
	}
	expense, err := a.SumTransactions(ctx, owner, finance.TransactionKindExpense, nil, period)
	if err != nil {
		return MonthlyTotals{}, err
	}
	return MonthlyTotals{Income: income, Expense: expense}, nil
}

// SumTransactions is the aggregation engine outside any unit of work
func (s *Service) SumTransactions(ctx context.Context, owner uuid.UUID, kind finance.TransactionKind, categoryID *uuid.UUID, period finance.Period) (decimal.Decimal, error) {
	return NewAggregator(s.uow.Transactions()).SumTransactions(ctx, owner, kind, categoryID, period)
}

// MonthlyTotals returns the owner's income and expense for a calendar month
// in the reporting timezone
func (s *Service) MonthlyTotals(ctx context.Context, owner uuid.UUID, month finance.Month) (MonthlyTotals, error) {
	return NewAggregator(s.uow.Transactions()).MonthlyTotals(ctx, owner, month.Period(s.cfg.Location))
}
