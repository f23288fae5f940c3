package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/ntqnhu0105/DoAn-CoSo-sub000/internal/domain/finance"
	"github.com/ntqnhu0105/DoAn-CoSo-sub000/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// UserModel is the persistence model for the User entity.
type UserModel struct {
	BaseModel
	Name   string `gorm:"type:varchar(100);not null"`
	Email  string `gorm:"type:varchar(255);not null;uniqueIndex"`
	Active bool   `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User entity.
func (m *UserModel) ToDomain() *finance.User {
	return &finance.User{
		BaseEntity: m.BaseModel.ToDomain(),
		Name:       m.Name,
		Email:      m.Email,
		Active:     m.Active,
	}
}

// UserModelFromDomain creates a new persistence model from domain.
func UserModelFromDomain(u *finance.User) *UserModel {
	m := &UserModel{
		Name:   u.Name,
		Email:  u.Email,
		Active: u.Active,
	}
	m.FromDomainBaseEntity(u.BaseEntity)
	return m
}

// CategoryModel is the persistence model for the Category entity.
type CategoryModel struct {
	OwnedModel
	Name string                  `gorm:"type:varchar(100);not null"`
	Kind finance.TransactionKind `gorm:"type:varchar(20);not null"`
}

// TableName returns the table name for GORM
func (CategoryModel) TableName() string {
	return "categories"
}

// ToDomain converts the persistence model to a domain Category entity.
func (m *CategoryModel) ToDomain() *finance.Category {
	return &finance.Category{
		OwnedEntity: m.ToOwnedEntity(),
		Name:        m.Name,
		Kind:        m.Kind,
	}
}

// CategoryModelFromDomain creates a new persistence model from domain.
func CategoryModelFromDomain(c *finance.Category) *CategoryModel {
	m := &CategoryModel{
		Name: c.Name,
		Kind: c.Kind,
	}
	m.FromDomainOwnedEntity(c.OwnedEntity)
	return m
}

// TransactionModel is the persistence model for the Transaction entity.
type TransactionModel struct {
	OwnedModel
	Kind       finance.TransactionKind `gorm:"type:varchar(20);not null;index"`
	CategoryID *uuid.UUID              `gorm:"type:uuid;index"`
	Amount     decimal.Decimal         `gorm:"type:decimal(18,4);not null"`
	OccurredAt time.Time               `gorm:"not null;index"`
	Note       string                  `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (TransactionModel) TableName() string {
	return "transactions"
}

// ToDomain converts the persistence model to a domain Transaction entity.
func (m *TransactionModel) ToDomain() *finance.Transaction {
	return &finance.Transaction{
		OwnedEntity: m.ToOwnedEntity(),
		Kind:        m.Kind,
		CategoryID:  m.CategoryID,
		Amount:      m.Amount,
		OccurredAt:  m.OccurredAt,
		Note:        m.Note,
	}
}

// TransactionModelFromDomain creates a new persistence model from domain.
func TransactionModelFromDomain(t *finance.Transaction) *TransactionModel {
	m := &TransactionModel{
		Kind:       t.Kind,
		CategoryID: t.CategoryID,
		Amount:     t.Amount,
		OccurredAt: t.OccurredAt.UTC(),
		Note:       t.Note,
	}
	m.FromDomainOwnedEntity(t.OwnedEntity)
	return m
}

// BudgetModel is the persistence model for the Budget entity.
type BudgetModel struct {
	OwnedModel
	CategoryID  uuid.UUID            `gorm:"type:uuid;not null;index"`
	Allotted    decimal.Decimal      `gorm:"type:decimal(18,4);not null"`
	PeriodStart time.Time            `gorm:"not null"`
	PeriodEnd   time.Time            `gorm:"not null"`
	TotalSpent  decimal.Decimal      `gorm:"type:decimal(18,4);not null;default:0"`
	Status      finance.BudgetStatus `gorm:"type:varchar(20);not null;default:'WITHIN_BUDGET'"`
	Active      bool                 `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (BudgetModel) TableName() string {
	return "budgets"
}

// ToDomain converts the persistence model to a domain Budget entity.
func (m *BudgetModel) ToDomain() *finance.Budget {
	return &finance.Budget{
		OwnedEntity: m.ToOwnedEntity(),
		CategoryID:  m.CategoryID,
		Allotted:    m.Allotted,
		PeriodStart: m.PeriodStart,
		PeriodEnd:   m.PeriodEnd,
		TotalSpent:  m.TotalSpent,
		Status:      m.Status,
		Active:      m.Active,
	}
}

// BudgetModelFromDomain creates a new persistence model from domain.
func BudgetModelFromDomain(b *finance.Budget) *BudgetModel {
	m := &BudgetModel{
		CategoryID:  b.CategoryID,
		Allotted:    b.Allotted,
		PeriodStart: b.PeriodStart.UTC(),
		PeriodEnd:   b.PeriodEnd.UTC(),
		TotalSpent:  b.TotalSpent,
		Status:      b.Status,
		Active:      b.Active,
	}
	m.FromDomainOwnedEntity(b.OwnedEntity)
	return m
}

// DebtModel is the persistence model for the Debt entity.
type DebtModel struct {
	OwnedModel
	Principal       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	AmountPaid      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	InterestRate    decimal.Decimal `gorm:"type:decimal(9,4);not null;default:0"`
	Term            int             `gorm:"not null;default:0"`
	StartDate       time.Time       `gorm:"not null"`
	EndDate         *time.Time
	NextPaymentDate *time.Time         `gorm:"index"`
	Status          finance.DebtStatus `gorm:"type:varchar(20);not null;default:'ACTIVE';index"`
	Note            string             `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (DebtModel) TableName() string {
	return "debts"
}

// ToDomain converts the persistence model to a domain Debt entity.
func (m *DebtModel) ToDomain() *finance.Debt {
	return &finance.Debt{
		OwnedEntity:     m.ToOwnedEntity(),
		Principal:       m.Principal,
		AmountPaid:      m.AmountPaid,
		InterestRate:    m.InterestRate,
		Term:            m.Term,
		StartDate:       m.StartDate,
		EndDate:         m.EndDate,
		NextPaymentDate: m.NextPaymentDate,
		Status:          m.Status,
		Note:            m.Note,
	}
}

// DebtModelFromDomain creates a new persistence model from domain.
func DebtModelFromDomain(d *finance.Debt) *DebtModel {
	m := &DebtModel{
		Principal:       d.Principal,
		AmountPaid:      d.AmountPaid,
		InterestRate:    d.InterestRate,
		Term:            d.Term,
		StartDate:       d.StartDate.UTC(),
		EndDate:         utcPtr(d.EndDate),
		NextPaymentDate: utcPtr(d.NextPaymentDate),
		Status:          d.Status,
		Note:            d.Note,
	}
	m.FromDomainOwnedEntity(d.OwnedEntity)
	return m
}

// SavingGoalModel is the persistence model for the SavingGoal entity.
type SavingGoalModel struct {
	OwnedModel
	Name     string             `gorm:"type:varchar(100);not null"`
	Target   decimal.Decimal    `gorm:"type:decimal(18,4);not null"`
	Current  decimal.Decimal    `gorm:"type:decimal(18,4);not null;default:0"`
	Deadline time.Time          `gorm:"not null;index"`
	Status   finance.GoalStatus `gorm:"type:varchar(20);not null;default:'IN_PROGRESS';index"`
	Note     string             `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (SavingGoalModel) TableName() string {
	return "saving_goals"
}

// ToDomain converts the persistence model to a domain SavingGoal entity.
func (m *SavingGoalModel) ToDomain() *finance.SavingGoal {
	return &finance.SavingGoal{
		OwnedEntity: m.ToOwnedEntity(),
		Name:        m.Name,
		Target:      m.Target,
		Current:     m.Current,
		Deadline:    m.Deadline,
		Status:      m.Status,
		Note:        m.Note,
	}
}

// SavingGoalModelFromDomain creates a new persistence model from domain.
func SavingGoalModelFromDomain(g *finance.SavingGoal) *SavingGoalModel {
	m := &SavingGoalModel{
		Name:     g.Name,
		Target:   g.Target,
		Current:  g.Current,
		Deadline: g.Deadline.UTC(),
		Status:   g.Status,
		Note:     g.Note,
	}
	m.FromDomainOwnedEntity(g.OwnedEntity)
	return m
}

// ReportModel is the persistence model for the monthly Report.
// (owner_id, year, month) is unique.
type ReportModel struct {
	BaseModel
	OwnerID      uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_report_owner_month,priority:1"`
	Year         int             `gorm:"not null;uniqueIndex:idx_report_owner_month,priority:2"`
	Month        int             `gorm:"not null;uniqueIndex:idx_report_owner_month,priority:3"`
	TotalIncome  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	TotalExpense decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	SavedAmount  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Note         string          `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (ReportModel) TableName() string {
	return "reports"
}

// ToDomain converts the persistence model to a domain Report entity.
func (m *ReportModel) ToDomain() *finance.Report {
	return &finance.Report{
		OwnedEntity: shared.OwnedEntity{
			BaseEntity: m.BaseModel.ToDomain(),
			OwnerID:    m.OwnerID,
		},
		Month:        m.Month,
		Year:         m.Year,
		TotalIncome:  m.TotalIncome,
		TotalExpense: m.TotalExpense,
		SavedAmount:  m.SavedAmount,
		Note:         m.Note,
	}
}

// ReportModelFromDomain creates a new persistence model from domain.
func ReportModelFromDomain(r *finance.Report) *ReportModel {
	m := &ReportModel{
		OwnerID:      r.OwnerID,
		Year:         r.Year,
		Month:        r.Month,
		TotalIncome:  r.TotalIncome,
		TotalExpense: r.TotalExpense,
		SavedAmount:  r.SavedAmount,
		Note:         r.Note,
	}
	m.FromDomainBaseEntity(r.BaseEntity)
	return m
}

// InvestmentModel is the persistence model for the Investment entity.
type InvestmentModel struct {
	OwnedModel
	Name         string          `gorm:"type:varchar(100);not null"`
	Type         string          `gorm:"type:varchar(50)"`
	Invested     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CurrentValue decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (InvestmentModel) TableName() string {
	return "investments"
}

// ToDomain converts the persistence model to a domain Investment entity.
func (m *InvestmentModel) ToDomain() *finance.Investment {
	return &finance.Investment{
		OwnedEntity:  m.ToOwnedEntity(),
		Name:         m.Name,
		Type:         m.Type,
		Invested:     m.Invested,
		CurrentValue: m.CurrentValue,
	}
}

// InvestmentModelFromDomain creates a new persistence model from domain.
func InvestmentModelFromDomain(i *finance.Investment) *InvestmentModel {
	m := &InvestmentModel{
		Name:         i.Name,
		Type:         i.Type,
		Invested:     i.Invested,
		CurrentValue: i.CurrentValue,
	}
	m.FromDomainOwnedEntity(i.OwnedEntity)
	return m
}
