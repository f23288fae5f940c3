package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/ntqnhu0105/DoAn-CoSo-sub000/internal/domain/finance"
)

// ReminderModel is the persistence model for the Reminder entity.
// The target is stored as a kind column plus a nullable id.
type ReminderModel struct {
	OwnedModel
	TargetKind string                 `gorm:"type:varchar(20);not null;default:''"`
	TargetID   *uuid.UUID             `gorm:"type:uuid"`
	FireAt     time.Time              `gorm:"not null;index:idx_reminder_due,priority:2"`
	Message    string                 `gorm:"type:varchar(500)"`
	Status     finance.ReminderStatus `gorm:"type:varchar(20);not null;index:idx_reminder_due,priority:1"`
	SentAt     *time.Time
}

// TableName returns the table name for GORM
func (ReminderModel) TableName() string {
	return "reminders"
}

// ToDomain converts the persistence model to a domain Reminder entity.
// It fails when the stored target columns are inconsistent.
func (m *ReminderModel) ToDomain() (*finance.Reminder, error) {
	target, err := finance.RestoreReminderTarget(m.TargetKind, m.TargetID)
	if err != nil {
		return nil, err
	}
	return &finance.Reminder{
		OwnedEntity: m.ToOwnedEntity(),
		Target:      target,
		FireAt:      m.FireAt,
		Message:     m.Message,
		Status:      m.Status,
		SentAt:      m.SentAt,
	}, nil
}

// ReminderModelFromDomain creates a new persistence model from domain.
func ReminderModelFromDomain(r *finance.Reminder) *ReminderModel {
	m := &ReminderModel{
		TargetKind: string(r.Target.Kind()),
		FireAt:     r.FireAt.UTC(),
		Message:    r.Message,
		Status:     r.Status,
		SentAt:     utcPtr(r.SentAt),
	}
	if id, ok := r.Target.ID(); ok {
		m.TargetID = &id
	}
	m.FromDomainOwnedEntity(r.OwnedEntity)
	return m
}

// NotificationModel is the persistence model for the append-only notification log.
type NotificationModel struct {
	OwnedModel
	Message    string                       `gorm:"type:text;not null"`
	Category   finance.NotificationCategory `gorm:"type:varchar(20);not null"`
	Important  bool                         `gorm:"not null"`
	Read       bool                         `gorm:"not null"`
	SourceKind string                       `gorm:"type:varchar(20)"`
	SourceID   *uuid.UUID                   `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (NotificationModel) TableName() string {
	return "notifications"
}

// ToDomain converts the persistence model to a domain Notification entity.
func (m *NotificationModel) ToDomain() *finance.Notification {
	n := &finance.Notification{
		OwnedEntity: m.ToOwnedEntity(),
		Message:     m.Message,
		Category:    m.Category,
		Important:   m.Important,
		Read:        m.Read,
	}
	if m.SourceID != nil {
		n.Source = finance.SourceRef{Kind: finance.EntityKind(m.SourceKind), ID: *m.SourceID}
	}
	return n
}

// NotificationModelFromDomain creates a new persistence model from domain.
func NotificationModelFromDomain(n *finance.Notification) *NotificationModel {
	m := &NotificationModel{
		Message:   n.Message,
		Category:  n.Category,
		Important: n.Important,
		Read:      n.Read,
	}
	if !n.Source.IsZero() {
		id := n.Source.ID
		m.SourceKind = string(n.Source.Kind)
		m.SourceID = &id
	}
	m.FromDomainOwnedEntity(n.OwnedEntity)
	return m
}
