package finance

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReminderTarget_Constructors(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name   string
		target ReminderTarget
		kind   EntityKind
		hasID  bool
	}{
		{"none", NoTarget(), EntityKindNone, false},
		{"zero value", ReminderTarget{}, EntityKindNone, false},
		{"goal", GoalTarget(id), EntityKindGoal, true},
		{"debt", DebtTarget(id), EntityKindDebt, true},
		{"investment", InvestmentTarget(id), EntityKindInvestment, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, tt.target.Kind())
			got, ok := tt.target.ID()
			assert.Equal(t, tt.hasID, ok)
			assert.Equal(t, !tt.hasID, tt.target.IsNone())
			if tt.hasID {
				assert.Equal(t, id, got)
			}
		})
	}
}

func TestRestoreReminderTarget(t *testing.T) {
	id := uuid.New()

	target, err := RestoreReminderTarget("", nil)
	require.NoError(t, err)
	assert.True(t, target.IsNone())

	target, err = RestoreReminderTarget("DEBT", &id)
	require.NoError(t, err)
	assert.Equal(t, DebtTarget(id), target)

	_, err = RestoreReminderTarget("GOAL", nil)
	assert.Error(t, err)

	_, err = RestoreReminderTarget("BUDGET", &id)
	assert.Error(t, err)
}

func TestReminder_Dispatch(t *testing.T) {
	fireAt := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	r, err := NewReminder(uuid.New(), NoTarget(), fireAt, "Pay rent")
	require.NoError(t, err)

	assert.False(t, r.IsDue(fireAt.Add(-time.Second)))
	assert.True(t, r.IsDue(fireAt))

	now := fireAt.Add(3 * time.Hour)
	assert.Equal(t, 3*time.Hour, r.Lateness(now))
	assert.Zero(t, r.Lateness(fireAt.Add(-time.Minute)))

	require.NoError(t, r.MarkSent(now))
	assert.Equal(t, ReminderStatusSent, r.Status)
	require.NotNil(t, r.SentAt)
	assert.Equal(t, now, *r.SentAt)

	// Sent is final: no second dispatch, no cancel
	assert.False(t, r.IsDue(now))
	assert.Error(t, r.MarkSent(now))
	assert.Error(t, r.Cancel())
}

func TestReminder_Cancel(t *testing.T) {
	r, err := NewReminder(uuid.New(), NoTarget(), time.Now(), "")
	require.NoError(t, err)

	require.NoError(t, r.Cancel())
	assert.Equal(t, ReminderStatusCancelled, r.Status)
	assert.False(t, r.IsDue(time.Now().Add(time.Hour)))
	assert.Error(t, r.MarkSent(time.Now()))
}

func TestNewNotification_Validation(t *testing.T) {
	owner := uuid.New()

	_, err := NewNotification(owner, NotificationCategory("LOUD"), "hi", false, SourceRef{})
	assert.Error(t, err)

	_, err = NewNotification(owner, NotificationCategoryUpdate, "   ", false, SourceRef{})
	assert.Error(t, err)

	_, err = NewNotification(uuid.Nil, NotificationCategoryUpdate, "hi", false, SourceRef{})
	assert.Error(t, err)

	n, err := NewNotification(owner, NotificationCategoryWarning, "hi", true, SourceRef{Kind: EntityKindDebt, ID: owner})
	require.NoError(t, err)
	assert.False(t, n.Read)
	assert.True(t, n.Important)
	assert.False(t, n.Source.IsZero())
}
