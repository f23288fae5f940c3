package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/ntqnhu0105/DoAn-CoSo-sub000/internal/domain/finance"
	"github.com/ntqnhu0105/DoAn-CoSo-sub000/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormDebtRepository implements finance.DebtRepository using GORM
type GormDebtRepository struct {
	db *gorm.DB
}

// NewGormDebtRepository creates a new GormDebtRepository
func NewGormDebtRepository(db *gorm.DB) *GormDebtRepository {
	return &GormDebtRepository{db: db}
}

// FindByID finds a debt by ID
func (r *GormDebtRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.Debt, error) {
	var model models.DebtModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translate(err, "find debt")
	}
	return model.ToDomain(), nil
}

// FindMonitoredByOwner returns the owner's debts that are active or carry a
// next payment date
func (r *GormDebtRepository) FindMonitoredByOwner(ctx context.Context, ownerID uuid.UUID) ([]finance.Debt, error) {
	var debtModels []models.DebtModel
	if err := r.db.WithContext(ctx).
		Scopes(ownedBy(ownerID)).
		Where("status = ? OR next_payment_date IS NOT NULL", finance.DebtStatusActive).
		Order("created_at, id").
		Find(&debtModels).Error; err != nil {
		return nil, translate(err, "list debts")
	}
	debts := make([]finance.Debt, len(debtModels))
	for i, model := range debtModels {
		debts[i] = *model.ToDomain()
	}
	return debts, nil
}

// Save creates or updates a debt
func (r *GormDebtRepository) Save(ctx context.Context, debt *finance.Debt) error {
	return translate(r.db.WithContext(ctx).Save(models.DebtModelFromDomain(debt)).Error, "save debt")
}
