package finance

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ntqnhu0105/DoAn-CoSo-sub000/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// GoalStatus represents the state of a savings goal
type GoalStatus string

const (
	GoalStatusInProgress GoalStatus = "IN_PROGRESS"
	GoalStatusCompleted  GoalStatus = "COMPLETED"
	GoalStatusFailed     GoalStatus = "FAILED"
)

// IsValid checks if the status is a valid GoalStatus
func (s GoalStatus) IsValid() bool {
	switch s {
	case GoalStatusInProgress, GoalStatusCompleted, GoalStatusFailed:
		return true
	}
	return false
}

// String returns the string representation of GoalStatus
func (s GoalStatus) String() string {
	return string(s)
}

// IsTerminal returns true once the goal can no longer change
func (s GoalStatus) IsTerminal() bool {
	return s == GoalStatusCompleted || s == GoalStatusFailed
}

// SavingGoal is a target amount to save before a deadline
type SavingGoal struct {
	shared.OwnedEntity
	Name     string
	Target   decimal.Decimal
	Current  decimal.Decimal
	Deadline time.Time
	Status   GoalStatus
	Note     string
}

// NewSavingGoal creates a new in-progress goal
func NewSavingGoal(ownerID uuid.UUID, name string, target, current decimal.Decimal, deadline time.Time) (*SavingGoal, error) {
	if ownerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_OWNER", "Owner ID cannot be empty")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Goal name cannot be empty")
	}
	if target.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Target amount must be positive")
	}
	if current.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Current amount cannot be negative")
	}
	if deadline.IsZero() {
		return nil, shared.NewDomainError("INVALID_DATE", "Goal deadline cannot be empty")
	}

	return &SavingGoal{
		OwnedEntity: shared.NewOwnedEntity(ownerID),
		Name:        name,
		Target:      target,
		Current:     current,
		Deadline:    deadline,
		Status:      GoalStatusInProgress,
	}, nil
}

// IsReached reports whether the saved amount meets the target
func (g *SavingGoal) IsReached() bool {
	return g.Current.GreaterThanOrEqual(g.Target)
}

// IsOverdueAt reports whether an in-progress goal has passed its deadline
func (g *SavingGoal) IsOverdueAt(now time.Time) bool {
	return g.Status == GoalStatusInProgress && g.Deadline.Before(now)
}

// MarkFailed fails an in-progress goal whose deadline passed
func (g *SavingGoal) MarkFailed(now time.Time) error {
	if !g.IsOverdueAt(now) {
		return shared.NewDomainError("INVALID_STATE", "Only an in-progress goal past its deadline can fail")
	}
	g.Status = GoalStatusFailed
	g.Touch()
	return nil
}

// MarkCompleted completes an in-progress goal that reached its target
func (g *SavingGoal) MarkCompleted() error {
	if g.Status != GoalStatusInProgress {
		return shared.NewDomainError("INVALID_STATE", "Only an in-progress goal can be completed")
	}
	if !g.IsReached() {
		return shared.NewDomainError("INVALID_STATE", "Goal has not reached its target")
	}
	g.Status = GoalStatusCompleted
	g.Touch()
	return nil
}

// Progress returns the saved fraction of the target, capped at 1
func (g *SavingGoal) Progress() decimal.Decimal {
	if g.Target.IsZero() {
		return decimal.Zero
	}
	p := g.Current.Div(g.Target)
	if p.GreaterThan(decimal.NewFromInt(1)) {
		return decimal.NewFromInt(1)
	}
	return p
}
