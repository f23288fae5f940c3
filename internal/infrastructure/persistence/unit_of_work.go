package persistence

import (
	"context"

	"github.com/ntqnhu0105/DoAn-CoSo-sub000/internal/domain/finance"
	"github.com/ntqnhu0105/DoAn-CoSo-sub000/internal/domain/shared"
	"gorm.io/gorm"
)

// gormRepositories bundles every finance repository over one *gorm.DB, which
// is either the root connection or an open transaction.
type gormRepositories struct {
	users         *GormUserRepository
	categories    *GormCategoryRepository
	transactions  *GormTransactionRepository
	budgets       *GormBudgetRepository
	debts         *GormDebtRepository
	goals         *GormSavingGoalRepository
	reports       *GormReportRepository
	reminders     *GormReminderRepository
	investments   *GormInvestmentRepository
	notifications *GormNotificationRepository
}

func newGormRepositories(db *gorm.DB) *gormRepositories {
	return &gormRepositories{
		users:         NewGormUserRepository(db),
		categories:    NewGormCategoryRepository(db),
		transactions:  NewGormTransactionRepository(db),
		budgets:       NewGormBudgetRepository(db),
		debts:         NewGormDebtRepository(db),
		goals:         NewGormSavingGoalRepository(db),
		reports:       NewGormReportRepository(db),
		reminders:     NewGormReminderRepository(db),
		investments:   NewGormInvestmentRepository(db),
		notifications: NewGormNotificationRepository(db),
	}
}

func (r *gormRepositories) Users() finance.UserRepository                 { return r.users }
func (r *gormRepositories) Categories() finance.CategoryRepository        { return r.categories }
func (r *gormRepositories) Transactions() finance.TransactionRepository   { return r.transactions }
func (r *gormRepositories) Budgets() finance.BudgetRepository             { return r.budgets }
func (r *gormRepositories) Debts() finance.DebtRepository                 { return r.debts }
func (r *gormRepositories) Goals() finance.SavingGoalRepository           { return r.goals }
func (r *gormRepositories) Reports() finance.ReportRepository             { return r.reports }
func (r *gormRepositories) Reminders() finance.ReminderRepository         { return r.reminders }
func (r *gormRepositories) Investments() finance.InvestmentRepository     { return r.investments }
func (r *gormRepositories) Notifications() finance.NotificationRepository { return r.notifications }

// GormUnitOfWork implements finance.UnitOfWork on GORM transactions
type GormUnitOfWork struct {
	*gormRepositories
	db *gorm.DB
}

// NewGormUnitOfWork creates a unit of work over db
func NewGormUnitOfWork(db *gorm.DB) *GormUnitOfWork {
	return &GormUnitOfWork{gormRepositories: newGormRepositories(db), db: db}
}

// Do runs fn inside one database transaction. The transaction commits when fn
// returns nil and rolls back otherwise, including on panic.
func (u *GormUnitOfWork) Do(ctx context.Context, fn func(ctx context.Context, repos finance.Repositories) error) error {
	err := u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, newGormRepositories(tx))
	})
	if err != nil && !shared.IsDomainError(err) {
		// Begin and commit failures come straight from the driver.
		return translate(err, "transaction")
	}
	return err
}

var _ finance.UnitOfWork = (*GormUnitOfWork)(nil)
