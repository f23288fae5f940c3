package finance

import (
	"time"

	"github.com/google/uuid"
	"github.com/ntqnhu0105/DoAn-CoSo-sub000/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// BudgetStatus represents whether spending stayed inside the allotted amount
type BudgetStatus string

const (
	BudgetStatusWithinBudget BudgetStatus = "WITHIN_BUDGET"
	BudgetStatusOverBudget   BudgetStatus = "OVER_BUDGET"
)

// IsValid checks if the status is a valid BudgetStatus
func (s BudgetStatus) IsValid() bool {
	return s == BudgetStatusWithinBudget || s == BudgetStatusOverBudget
}

// String returns the string representation of BudgetStatus
func (s BudgetStatus) String() string {
	return string(s)
}

// BudgetStatusFor is the status a budget must have for the given spend.
// A budget is over only when spending strictly exceeds the allotment.
func BudgetStatusFor(totalSpent, allotted decimal.Decimal) BudgetStatus {
	if totalSpent.GreaterThan(allotted) {
		return BudgetStatusOverBudget
	}
	return BudgetStatusWithinBudget
}

// Budget caps spending in one category
type Budget struct {
	shared.OwnedEntity
	CategoryID  uuid.UUID
	Allotted    decimal.Decimal
	PeriodStart time.Time
	PeriodEnd   time.Time
	TotalSpent  decimal.Decimal
	Status      BudgetStatus
	Active      bool
}

// NewBudget creates a new active budget with nothing spent
func NewBudget(ownerID, categoryID uuid.UUID, allotted decimal.Decimal, periodStart, periodEnd time.Time) (*Budget, error) {
	if ownerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_OWNER", "Owner ID cannot be empty")
	}
	if categoryID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Budget category cannot be empty")
	}
	if allotted.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Allotted amount cannot be negative")
	}
	if !periodEnd.After(periodStart) {
		return nil, shared.NewDomainError("INVALID_PERIOD", "Budget period end must be after period start")
	}

	return &Budget{
		OwnedEntity: shared.NewOwnedEntity(ownerID),
		CategoryID:  categoryID,
		Allotted:    allotted,
		PeriodStart: periodStart,
		PeriodEnd:   periodEnd,
		TotalSpent:  decimal.Zero,
		Status:      BudgetStatusWithinBudget,
		Active:      true,
	}, nil
}

// Covers reports whether the budget's own period overlaps p
func (b *Budget) Covers(p Period) bool {
	return p.Overlaps(b.PeriodStart, b.PeriodEnd)
}

// ApplySpend sets the recomputed spend and derived status.
// It returns false, leaving the budget untouched, when nothing changed.
func (b *Budget) ApplySpend(totalSpent decimal.Decimal) bool {
	status := BudgetStatusFor(totalSpent, b.Allotted)
	if b.TotalSpent.Equal(totalSpent) && b.Status == status {
		return false
	}
	b.TotalSpent = totalSpent
	b.Status = status
	b.Touch()
	return true
}

// Remaining returns how much can still be spent; negative when over budget
func (b *Budget) Remaining() decimal.Decimal {
	return b.Allotted.Sub(b.TotalSpent)
}
