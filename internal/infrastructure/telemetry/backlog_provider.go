package telemetry

import (
	"context"
	"time"

	"github.com/ntqnhu0105/DoAn-CoSo-sub000/internal/domain/finance"
	"gorm.io/gorm"
)

// GormBacklogProvider implements BacklogProvider with count queries on the
// reminders and saving_goals tables.
type GormBacklogProvider struct {
	db *gorm.DB
}

// NewGormBacklogProvider creates a new GormBacklogProvider.
func NewGormBacklogProvider(db *gorm.DB) *GormBacklogProvider {
	return &GormBacklogProvider{db: db}
}

// DueReminders counts unsent reminders whose fire time has passed.
func (p *GormBacklogProvider) DueReminders(ctx context.Context, now time.Time) (int64, error) {
	var n int64
	err := p.db.WithContext(ctx).
		Table("reminders").
		Where("status = ? AND fire_at <= ?", finance.ReminderStatusUnsent, now.UTC()).
		Count(&n).Error
	return n, err
}

// OverdueGoals counts in-progress goals whose deadline has passed.
func (p *GormBacklogProvider) OverdueGoals(ctx context.Context, now time.Time) (int64, error) {
	var n int64
	err := p.db.WithContext(ctx).
		Table("saving_goals").
		Where("status = ? AND deadline < ?", finance.GoalStatusInProgress, now.UTC()).
		Count(&n).Error
	return n, err
}
