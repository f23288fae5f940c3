package finance

import (
	"time"

	"github.com/google/uuid"
	"github.com/ntqnhu0105/DoAn-CoSo-sub000/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// DebtStatus represents the lifecycle state of a debt
type DebtStatus string

const (
	DebtStatusActive  DebtStatus = "ACTIVE"
	DebtStatusPaidOff DebtStatus = "PAID_OFF"
	DebtStatusOverdue DebtStatus = "OVERDUE"
)

// IsValid checks if the status is a valid DebtStatus
func (s DebtStatus) IsValid() bool {
	switch s {
	case DebtStatusActive, DebtStatusPaidOff, DebtStatusOverdue:
		return true
	}
	return false
}

// String returns the string representation of DebtStatus
func (s DebtStatus) String() string {
	return string(s)
}

var hundred = decimal.NewFromInt(100)

// Debt is money owed by the user, repaid over a number of periods
type Debt struct {
	shared.OwnedEntity
	Principal       decimal.Decimal
	AmountPaid      decimal.Decimal
	InterestRate    decimal.Decimal // percent, simple interest applied once over the term
	Term            int
	StartDate       time.Time
	EndDate         *time.Time
	NextPaymentDate *time.Time
	Status          DebtStatus
	Note            string
}

// NewDebt creates a new active debt
func NewDebt(ownerID uuid.UUID, principal, interestRate decimal.Decimal, term int, startDate time.Time, amountPaid decimal.Decimal) (*Debt, error) {
	if ownerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_OWNER", "Owner ID cannot be empty")
	}
	if principal.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Principal must be positive")
	}
	if interestRate.IsNegative() {
		return nil, shared.NewDomainError("INVALID_INTEREST_RATE", "Interest rate cannot be negative")
	}
	if term < 0 {
		return nil, shared.NewDomainError("INVALID_TERM", "Term cannot be negative")
	}
	if amountPaid.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Amount paid cannot be negative")
	}

	d := &Debt{
		OwnedEntity:  shared.NewOwnedEntity(ownerID),
		Principal:    principal,
		AmountPaid:   amountPaid,
		InterestRate: interestRate,
		Term:         term,
		StartDate:    startDate,
		Status:       DebtStatusActive,
	}
	if amountPaid.GreaterThan(d.TotalDue()) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Amount paid cannot exceed principal plus interest")
	}
	return d, nil
}

// TotalInterest is principal × rate × term / 100
func (d *Debt) TotalInterest() decimal.Decimal {
	return d.Principal.Mul(d.InterestRate).Mul(decimal.NewFromInt(int64(d.Term))).Div(hundred)
}

// TotalDue is principal plus total interest
func (d *Debt) TotalDue() decimal.Decimal {
	return d.Principal.Add(d.TotalInterest())
}

// Outstanding is what is left to pay, never negative
func (d *Debt) Outstanding() decimal.Decimal {
	rest := d.TotalDue().Sub(d.AmountPaid)
	if rest.IsNegative() {
		return decimal.Zero
	}
	return rest
}

// IsFullyPaid reports whether payments cover principal and interest
func (d *Debt) IsFullyPaid() bool {
	return d.AmountPaid.GreaterThanOrEqual(d.TotalDue())
}

// CanPayOff reports whether the debt should move to PaidOff
func (d *Debt) CanPayOff() bool {
	return d.Status != DebtStatusPaidOff && d.IsFullyPaid()
}

// MarkPaidOff moves the debt to its terminal PaidOff state
func (d *Debt) MarkPaidOff() error {
	if d.Status == DebtStatusPaidOff {
		return shared.NewDomainError("INVALID_STATE", "Debt is already paid off")
	}
	if !d.IsFullyPaid() {
		return shared.NewDomainError("INVALID_STATE", "Debt is not fully paid")
	}
	d.Status = DebtStatusPaidOff
	d.Touch()
	return nil
}

// IsOverdueAt reports whether an active debt's end date has passed
func (d *Debt) IsOverdueAt(now time.Time) bool {
	return d.Status == DebtStatusActive && d.EndDate != nil && d.EndDate.Before(now)
}

// MarkOverdue moves an active debt past its end date to Overdue
func (d *Debt) MarkOverdue(now time.Time) error {
	if !d.IsOverdueAt(now) {
		return shared.NewDomainError("INVALID_STATE", "Only an active debt past its end date can become overdue")
	}
	d.Status = DebtStatusOverdue
	d.Touch()
	return nil
}

// IsPaymentDueOn reports whether an active debt has a payment due on the
// calendar day of now in loc
func (d *Debt) IsPaymentDueOn(now time.Time, loc *time.Location) bool {
	return d.Status == DebtStatusActive && d.NextPaymentDate != nil && SameDay(*d.NextPaymentDate, now, loc)
}

// IsMonitored reports whether the daily reconciler should look at the debt
func (d *Debt) IsMonitored() bool {
	return d.Status == DebtStatusActive || d.NextPaymentDate != nil
}
