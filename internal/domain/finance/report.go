package finance

import (
	"time"

	"github.com/google/uuid"
	"github.com/ntqnhu0105/DoAn-CoSo-sub000/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Report is an immutable monthly snapshot of a user's income and expense.
// At most one report exists per owner and month.
type Report struct {
	shared.OwnedEntity
	Month        int
	Year         int
	TotalIncome  decimal.Decimal
	TotalExpense decimal.Decimal
	SavedAmount  decimal.Decimal // may be negative
	Note         string
}

// NewReport builds the report for month from the aggregated totals
func NewReport(ownerID uuid.UUID, month Month, totalIncome, totalExpense decimal.Decimal) (*Report, error) {
	if ownerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_OWNER", "Owner ID cannot be empty")
	}
	if _, err := NewMonth(month.Year, int(month.Month)); err != nil {
		return nil, err
	}
	if totalIncome.IsNegative() || totalExpense.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Report totals cannot be negative")
	}

	return &Report{
		OwnedEntity:  shared.NewOwnedEntity(ownerID),
		Month:        int(month.Month),
		Year:         month.Year,
		TotalIncome:  totalIncome,
		TotalExpense: totalExpense,
		SavedAmount:  totalIncome.Sub(totalExpense),
	}, nil
}

// CalendarMonth returns the calendar month the report covers
func (r *Report) CalendarMonth() Month {
	return Month{Year: r.Year, Month: time.Month(r.Month)}
}
