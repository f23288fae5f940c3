package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/ntqnhu0105/DoAn-CoSo-sub000/internal/domain/finance"
	"github.com/ntqnhu0105/DoAn-CoSo-sub000/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormSavingGoalRepository implements finance.SavingGoalRepository using GORM
type GormSavingGoalRepository struct {
	db *gorm.DB
}

// NewGormSavingGoalRepository creates a new GormSavingGoalRepository
func NewGormSavingGoalRepository(db *gorm.DB) *GormSavingGoalRepository {
	return &GormSavingGoalRepository{db: db}
}

// FindByID finds a savings goal by ID
func (r *GormSavingGoalRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.SavingGoal, error) {
	var model models.SavingGoalModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translate(err, "find saving goal")
	}
	return model.ToDomain(), nil
}

// FindInProgressByOwner returns the owner's in-progress goals
func (r *GormSavingGoalRepository) FindInProgressByOwner(ctx context.Context, ownerID uuid.UUID) ([]finance.SavingGoal, error) {
	var goalModels []models.SavingGoalModel
	if err := r.db.WithContext(ctx).
		Scopes(ownedBy(ownerID)).
		Where("status = ?", finance.GoalStatusInProgress).
		Order("created_at, id").
		Find(&goalModels).Error; err != nil {
		return nil, translate(err, "list saving goals")
	}
	return goalsToDomain(goalModels), nil
}

// FindOverdueInProgress returns every owner's in-progress goals whose deadline
// is before now, grouped by owner
func (r *GormSavingGoalRepository) FindOverdueInProgress(ctx context.Context, now time.Time) ([]finance.SavingGoal, error) {
	var goalModels []models.SavingGoalModel
	if err := r.db.WithContext(ctx).
		Where("status = ? AND deadline < ?", finance.GoalStatusInProgress, now.UTC()).
		Order("owner_id, deadline, id").
		Find(&goalModels).Error; err != nil {
		return nil, translate(err, "list overdue saving goals")
	}
	return goalsToDomain(goalModels), nil
}

// Save creates or updates a savings goal
func (r *GormSavingGoalRepository) Save(ctx context.Context, goal *finance.SavingGoal) error {
	return translate(r.db.WithContext(ctx).Save(models.SavingGoalModelFromDomain(goal)).Error, "save saving goal")
}

func goalsToDomain(goalModels []models.SavingGoalModel) []finance.SavingGoal {
	goals := make([]finance.SavingGoal, len(goalModels))
	for i, model := range goalModels {
		goals[i] = *model.ToDomain()
	}
	return goals
}
