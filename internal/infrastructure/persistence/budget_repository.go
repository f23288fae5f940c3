package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/ntqnhu0105/DoAn-CoSo-sub000/internal/domain/finance"
	"github.com/ntqnhu0105/DoAn-CoSo-sub000/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormBudgetRepository implements finance.BudgetRepository using GORM
type GormBudgetRepository struct {
	db *gorm.DB
}

// NewGormBudgetRepository creates a new GormBudgetRepository
func NewGormBudgetRepository(db *gorm.DB) *GormBudgetRepository {
	return &GormBudgetRepository{db: db}
}

// FindByID finds a budget by ID
func (r *GormBudgetRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.Budget, error) {
	var model models.BudgetModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translate(err, "find budget")
	}
	return model.ToDomain(), nil
}

// FindActiveByOwner returns the owner's active budgets
func (r *GormBudgetRepository) FindActiveByOwner(ctx context.Context, ownerID uuid.UUID) ([]finance.Budget, error) {
	var budgetModels []models.BudgetModel
	if err := r.db.WithContext(ctx).
		Scopes(ownedBy(ownerID)).
		Where("active = ?", true).
		Order("created_at, id").
		Find(&budgetModels).Error; err != nil {
		return nil, translate(err, "list budgets")
	}
	budgets := make([]finance.Budget, len(budgetModels))
	for i, model := range budgetModels {
		budgets[i] = *model.ToDomain()
	}
	return budgets, nil
}

// Save creates or updates a budget
func (r *GormBudgetRepository) Save(ctx context.Context, budget *finance.Budget) error {
	return translate(r.db.WithContext(ctx).Save(models.BudgetModelFromDomain(budget)).Error, "save budget")
}
