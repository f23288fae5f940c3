package finance

import (
	"strings"

	"github.com/google/uuid"
	"github.com/ntqnhu0105/DoAn-CoSo-sub000/internal/domain/shared"
)

// NotificationCategory tags a notification for presentation
type NotificationCategory string

const (
	NotificationCategoryReminder NotificationCategory = "REMINDER"
	NotificationCategoryWarning  NotificationCategory = "WARNING"
	NotificationCategoryUpdate   NotificationCategory = "UPDATE"
)

// IsValid checks if the category is a valid NotificationCategory
func (c NotificationCategory) IsValid() bool {
	switch c {
	case NotificationCategoryReminder, NotificationCategoryWarning, NotificationCategoryUpdate:
		return true
	}
	return false
}

// String returns the string representation of NotificationCategory
func (c NotificationCategory) String() string {
	return string(c)
}

// SourceRef points at the entity that caused a notification
type SourceRef struct {
	Kind EntityKind
	ID   uuid.UUID
}

// IsZero reports whether the reference is empty
func (r SourceRef) IsZero() bool {
	return r.Kind == EntityKindNone && r.ID == uuid.Nil
}

// Notification is an append-only, user-facing message
type Notification struct {
	shared.OwnedEntity
	Message   string
	Category  NotificationCategory
	Important bool
	Read      bool
	Source    SourceRef
}

// NewNotification creates a new unread notification
func NewNotification(ownerID uuid.UUID, category NotificationCategory, message string, important bool, source SourceRef) (*Notification, error) {
	if ownerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_OWNER", "Owner ID cannot be empty")
	}
	if !category.IsValid() {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Notification category is not valid")
	}
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, shared.NewDomainError("INVALID_MESSAGE", "Notification message cannot be empty")
	}

	return &Notification{
		OwnedEntity: shared.NewOwnedEntity(ownerID),
		Message:     message,
		Category:    category,
		Important:   important,
		Source:      source,
	}, nil
}
