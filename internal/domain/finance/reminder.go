package finance

import (
	"time"

	"github.com/google/uuid"
	"github.com/ntqnhu0105/DoAn-CoSo-sub000/internal/domain/shared"
)

// EntityKind names the kind of entity a reminder or notification refers to
type EntityKind string

const (
	EntityKindNone       EntityKind = ""
	EntityKindGoal       EntityKind = "GOAL"
	EntityKindDebt       EntityKind = "DEBT"
	EntityKindInvestment EntityKind = "INVESTMENT"
	EntityKindBudget     EntityKind = "BUDGET"
	EntityKindReminder   EntityKind = "REMINDER"
)

// String returns the string representation of EntityKind
func (k EntityKind) String() string {
	return string(k)
}

// ReminderTarget links a reminder to at most one goal, debt or investment.
// The zero value is "no target". The fields are unexported so that only the
// constructors below can build one, and a target always has exactly one kind.
type ReminderTarget struct {
	kind EntityKind
	id   uuid.UUID
}

// NoTarget returns a target that links nothing
func NoTarget() ReminderTarget { return ReminderTarget{} }

// GoalTarget links a reminder to a savings goal
func GoalTarget(id uuid.UUID) ReminderTarget {
	return ReminderTarget{kind: EntityKindGoal, id: id}
}

// DebtTarget links a reminder to a debt
func DebtTarget(id uuid.UUID) ReminderTarget {
	return ReminderTarget{kind: EntityKindDebt, id: id}
}

// InvestmentTarget links a reminder to an investment
func InvestmentTarget(id uuid.UUID) ReminderTarget {
	return ReminderTarget{kind: EntityKindInvestment, id: id}
}

// RestoreReminderTarget rebuilds a target from its stored kind and id
func RestoreReminderTarget(kind string, id *uuid.UUID) (ReminderTarget, error) {
	switch EntityKind(kind) {
	case EntityKindNone:
		return NoTarget(), nil
	case EntityKindGoal, EntityKindDebt, EntityKindInvestment:
		if id == nil || *id == uuid.Nil {
			return ReminderTarget{}, shared.NewDomainError("INVALID_REMINDER_TARGET", "Reminder target of kind "+kind+" has no id")
		}
		return ReminderTarget{kind: EntityKind(kind), id: *id}, nil
	default:
		return ReminderTarget{}, shared.NewDomainError("INVALID_REMINDER_TARGET", "Unknown reminder target kind "+kind)
	}
}

// Kind returns the target kind, EntityKindNone for no target
func (t ReminderTarget) Kind() EntityKind { return t.kind }

// ID returns the target id and whether a target is set
func (t ReminderTarget) ID() (uuid.UUID, bool) {
	return t.id, t.kind != EntityKindNone
}

// IsNone reports whether the reminder links nothing
func (t ReminderTarget) IsNone() bool { return t.kind == EntityKindNone }

// ReminderStatus represents the dispatch state of a reminder
type ReminderStatus string

const (
	ReminderStatusUnsent    ReminderStatus = "UNSENT"
	ReminderStatusSent      ReminderStatus = "SENT"
	ReminderStatusCancelled ReminderStatus = "CANCELLED"
)

// IsValid checks if the status is a valid ReminderStatus
func (s ReminderStatus) IsValid() bool {
	switch s {
	case ReminderStatusUnsent, ReminderStatusSent, ReminderStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of ReminderStatus
func (s ReminderStatus) String() string {
	return string(s)
}

// Reminder is a user-scheduled message delivered at FireAt
type Reminder struct {
	shared.OwnedEntity
	Target  ReminderTarget
	FireAt  time.Time
	Message string
	Status  ReminderStatus
	SentAt  *time.Time
}

// NewReminder creates a new unsent reminder
func NewReminder(ownerID uuid.UUID, target ReminderTarget, fireAt time.Time, message string) (*Reminder, error) {
	if ownerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_OWNER", "Owner ID cannot be empty")
	}
	if fireAt.IsZero() {
		return nil, shared.NewDomainError("INVALID_DATE", "Reminder time cannot be empty")
	}
	if len(message) > 500 {
		return nil, shared.NewDomainError("INVALID_MESSAGE", "Reminder message cannot exceed 500 characters")
	}

	return &Reminder{
		OwnedEntity: shared.NewOwnedEntity(ownerID),
		Target:      target,
		FireAt:      fireAt,
		Message:     message,
		Status:      ReminderStatusUnsent,
	}, nil
}

// IsDue reports whether an unsent reminder should fire at now
func (r *Reminder) IsDue(now time.Time) bool {
	return r.Status == ReminderStatusUnsent && !r.FireAt.After(now)
}

// Lateness is how long after FireAt the reminder is being dispatched
func (r *Reminder) Lateness(now time.Time) time.Duration {
	if now.Before(r.FireAt) {
		return 0
	}
	return now.Sub(r.FireAt)
}

// MarkSent records the dispatch of an unsent reminder
func (r *Reminder) MarkSent(now time.Time) error {
	if r.Status != ReminderStatusUnsent {
		return shared.NewDomainError("INVALID_STATE", "Only an unsent reminder can be sent")
	}
	r.Status = ReminderStatusSent
	r.SentAt = &now
	r.Touch()
	return nil
}

// Cancel withdraws an unsent reminder
func (r *Reminder) Cancel() error {
	if r.Status != ReminderStatusUnsent {
		return shared.NewDomainError("INVALID_STATE", "Only an unsent reminder can be cancelled")
	}
	r.Status = ReminderStatusCancelled
	r.Touch()
	return nil
}
