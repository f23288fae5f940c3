package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ntqnhu0105/DoAn-CoSo-sub000/internal/domain/finance"
	"github.com/ntqnhu0105/DoAn-CoSo-sub000/internal/domain/shared"
	"github.com/ntqnhu0105/DoAn-CoSo-sub000/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormReminderRepository implements finance.ReminderRepository using GORM
type GormReminderRepository struct {
	db *gorm.DB
}

// NewGormReminderRepository creates a new GormReminderRepository
func NewGormReminderRepository(db *gorm.DB) *GormReminderRepository {
	return &GormReminderRepository{db: db}
}

// FindByID finds a reminder by ID
func (r *GormReminderRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.Reminder, error) {
	var model models.ReminderModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translate(err, "find reminder")
	}
	return model.ToDomain()
}

// FindDue returns unsent reminders due at or before now, oldest first.
// Rows with an inconsistent target are returned with no target.
func (r *GormReminderRepository) FindDue(ctx context.Context, now time.Time) ([]finance.Reminder, error) {
	var reminderModels []models.ReminderModel
	if err := r.db.WithContext(ctx).
		Where("status = ? AND fire_at <= ?", finance.ReminderStatusUnsent, now.UTC()).
		Order("fire_at, id").
		Find(&reminderModels).Error; err != nil {
		return nil, translate(err, "list due reminders")
	}

	reminders := make([]finance.Reminder, 0, len(reminderModels))
	for i := range reminderModels {
		reminder, err := reminderModels[i].ToDomain()
		if err != nil {
			reminderModels[i].TargetKind = ""
			reminderModels[i].TargetID = nil
			if reminder, err = reminderModels[i].ToDomain(); err != nil {
				return nil, err
			}
		}
		reminders = append(reminders, *reminder)
	}
	return reminders, nil
}

// MarkSent flips the stored row from UNSENT to SENT. It reports false when the
// row was no longer unsent.
func (r *GormReminderRepository) MarkSent(ctx context.Context, reminder *finance.Reminder) (bool, error) {
	if reminder.SentAt == nil {
		return false, fmt.Errorf("mark reminder sent: %w", shared.ErrInvalidState)
	}
	result := r.db.WithContext(ctx).Model(&models.ReminderModel{}).
		Where("id = ? AND status = ?", reminder.ID, finance.ReminderStatusUnsent).
		Updates(map[string]any{
			"status":     finance.ReminderStatusSent,
			"sent_at":    reminder.SentAt.UTC(),
			"updated_at": reminder.UpdatedAt.UTC(),
		})
	if result.Error != nil {
		return false, translate(result.Error, "mark reminder sent")
	}
	return result.RowsAffected == 1, nil
}

// Save creates or updates a reminder
func (r *GormReminderRepository) Save(ctx context.Context, reminder *finance.Reminder) error {
	return translate(r.db.WithContext(ctx).Save(models.ReminderModelFromDomain(reminder)).Error, "save reminder")
}

// GormInvestmentRepository implements finance.InvestmentRepository using GORM
type GormInvestmentRepository struct {
	db *gorm.DB
}

// NewGormInvestmentRepository creates a new GormInvestmentRepository
func NewGormInvestmentRepository(db *gorm.DB) *GormInvestmentRepository {
	return &GormInvestmentRepository{db: db}
}

// FindByID finds an investment by ID
func (r *GormInvestmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.Investment, error) {
	var model models.InvestmentModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translate(err, "find investment")
	}
	return model.ToDomain(), nil
}

// Save creates or updates an investment
func (r *GormInvestmentRepository) Save(ctx context.Context, investment *finance.Investment) error {
	return translate(r.db.WithContext(ctx).Save(models.InvestmentModelFromDomain(investment)).Error, "save investment")
}
