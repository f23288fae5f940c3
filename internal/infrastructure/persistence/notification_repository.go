package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/ntqnhu0105/DoAn-CoSo-sub000/internal/domain/finance"
	"github.com/ntqnhu0105/DoAn-CoSo-sub000/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormNotificationRepository implements finance.NotificationRepository using GORM
type GormNotificationRepository struct {
	db *gorm.DB
}

// NewGormNotificationRepository creates a new GormNotificationRepository
func NewGormNotificationRepository(db *gorm.DB) *GormNotificationRepository {
	return &GormNotificationRepository{db: db}
}

// Create appends a notification
func (r *GormNotificationRepository) Create(ctx context.Context, notification *finance.Notification) error {
	return translate(r.db.WithContext(ctx).Create(models.NotificationModelFromDomain(notification)).Error, "create notification")
}

// ExistsSince reports whether the owner received a notification with this
// exact message at or after since
func (r *GormNotificationRepository) ExistsSince(ctx context.Context, ownerID uuid.UUID, message string, since time.Time) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.NotificationModel{}).
		Scopes(ownedBy(ownerID)).
		Where("message = ? AND created_at >= ?", message, since.UTC()).
		Limit(1).
		Count(&count).Error; err != nil {
		return false, translate(err, "check notification")
	}
	return count > 0, nil
}

// FindByOwner returns the owner's notifications, newest first
func (r *GormNotificationRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID, limit int) ([]finance.Notification, error) {
	query := r.db.WithContext(ctx).
		Scopes(ownedBy(ownerID)).
		Order("created_at DESC, id")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var notificationModels []models.NotificationModel
	if err := query.Find(&notificationModels).Error; err != nil {
		return nil, translate(err, "list notifications")
	}
	notifications := make([]finance.Notification, len(notificationModels))
	for i, model := range notificationModels {
		notifications[i] = *model.ToDomain()
	}
	return notifications, nil
}
