package finance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// UserRepository defines the interface for user persistence
type UserRepository interface {
	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// FindAllIDs returns the IDs of every user, the outer loop of every sweep
	FindAllIDs(ctx context.Context) ([]uuid.UUID, error)

	// Save creates or updates a user
	Save(ctx context.Context, user *User) error
}

// CategoryRepository defines the interface for category persistence
type CategoryRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Category, error)
	Save(ctx context.Context, category *Category) error
}

// TransactionRepository defines the interface for transaction persistence
type TransactionRepository interface {
	// Sum returns the total amount of transactions matching filter; zero when none match
	Sum(ctx context.Context, filter TransactionFilter) (decimal.Decimal, error)

	// Save creates a transaction
	Save(ctx context.Context, tx *Transaction) error
}

// BudgetRepository defines the interface for budget persistence
type BudgetRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Budget, error)

	// FindActiveByOwner returns the owner's active budgets in retrieval order
	FindActiveByOwner(ctx context.Context, ownerID uuid.UUID) ([]Budget, error)

	Save(ctx context.Context, budget *Budget) error
}

// DebtRepository defines the interface for debt persistence
type DebtRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Debt, error)

	// FindMonitoredByOwner returns debts that are active or have a next payment date
	FindMonitoredByOwner(ctx context.Context, ownerID uuid.UUID) ([]Debt, error)

	Save(ctx context.Context, debt *Debt) error
}

// SavingGoalRepository defines the interface for savings goal persistence
type SavingGoalRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*SavingGoal, error)

	// FindInProgressByOwner returns the owner's in-progress goals
	FindInProgressByOwner(ctx context.Context, ownerID uuid.UUID) ([]SavingGoal, error)

	// FindOverdueInProgress returns in-progress goals of every owner with a deadline before now
	FindOverdueInProgress(ctx context.Context, now time.Time) ([]SavingGoal, error)

	Save(ctx context.Context, goal *SavingGoal) error
}

// ReportRepository defines the interface for monthly report persistence
type ReportRepository interface {
	// FindByOwnerAndMonth returns shared.ErrNotFound when no report exists
	FindByOwnerAndMonth(ctx context.Context, ownerID uuid.UUID, month Month) (*Report, error)

	// ExistsForMonth reports whether a report exists for the owner and month
	ExistsForMonth(ctx context.Context, ownerID uuid.UUID, month Month) (bool, error)

	// Create inserts a report; returns shared.ErrAlreadyExists when one already exists for the month
	Create(ctx context.Context, report *Report) error
}

// ReminderRepository defines the interface for reminder persistence
type ReminderRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Reminder, error)

	// FindDue returns unsent reminders with a fire time at or before now, oldest first
	FindDue(ctx context.Context, now time.Time) ([]Reminder, error)

	// MarkSent persists the Sent transition only while the stored row is still
	// unsent. It reports false when another run already dispatched the reminder.
	MarkSent(ctx context.Context, reminder *Reminder) (bool, error)

	Save(ctx context.Context, reminder *Reminder) error
}

// InvestmentRepository defines the interface for investment persistence
type InvestmentRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Investment, error)
	Save(ctx context.Context, investment *Investment) error
}

// NotificationRepository defines the interface for the notification log
type NotificationRepository interface {
	// Create appends a notification
	Create(ctx context.Context, notification *Notification) error

	// ExistsSince reports whether the owner received a notification with exactly
	// this message at or after since
	ExistsSince(ctx context.Context, ownerID uuid.UUID, message string, since time.Time) (bool, error)

	// FindByOwner returns the owner's notifications, newest first
	FindByOwner(ctx context.Context, ownerID uuid.UUID, limit int) ([]Notification, error)
}

// Repositories groups the repositories that share one database session
type Repositories interface {
	Users() UserRepository
	Categories() CategoryRepository
	Transactions() TransactionRepository
	Budgets() BudgetRepository
	Debts() DebtRepository
	Goals() SavingGoalRepository
	Reports() ReportRepository
	Reminders() ReminderRepository
	Investments() InvestmentRepository
	Notifications() NotificationRepository
}

// UnitOfWork runs a transactional unit: every write made through the
// repositories passed to fn commits or aborts together.
// The embedded Repositories read outside any transaction.
type UnitOfWork interface {
	Repositories
	Do(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
}
