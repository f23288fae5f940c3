package cache

import (
	"context"
	"testing"
	"time"

	"github.com/ntqnhu0105/DoAn-CoSo-sub000/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryJobLock_Acquire(t *testing.T) {
	ctx := context.Background()

	t.Run("second acquire fails while held", func(t *testing.T) {
		lock := NewInMemoryJobLock()
		defer lock.Close()

		release, ok, err := lock.Acquire(ctx, "debts", time.Hour)
		require.NoError(t, err)
		require.True(t, ok)
		require.NotNil(t, release)

		again, ok, err := lock.Acquire(ctx, "debts", time.Hour)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Nil(t, again)

		// other keys are independent
		_, ok, err = lock.Acquire(ctx, "reminders", time.Hour)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, 2, lock.Held())
	})

	t.Run("release makes the lock available", func(t *testing.T) {
		lock := NewInMemoryJobLock()
		defer lock.Close()

		release, ok, err := lock.Acquire(ctx, "reports", time.Hour)
		require.NoError(t, err)
		require.True(t, ok)
		require.NoError(t, release(ctx))
		require.NoError(t, release(ctx))

		_, ok, err = lock.Acquire(ctx, "reports", time.Hour)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("expired lock can be taken over", func(t *testing.T) {
		lock := NewInMemoryJobLock()
		now := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
		lock.now = func() time.Time { return now }

		stale, ok, err := lock.Acquire(ctx, "budgets", time.Minute)
		require.NoError(t, err)
		require.True(t, ok)

		now = now.Add(2 * time.Minute)
		_, ok, err = lock.Acquire(ctx, "budgets", time.Minute)
		require.NoError(t, err)
		require.True(t, ok)

		// the stale holder must not release its successor's lock
		require.NoError(t, stale(ctx))
		_, ok, err = lock.Acquire(ctx, "budgets", time.Minute)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("cancelled context", func(t *testing.T) {
		lock := NewInMemoryJobLock()
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		_, ok, err := lock.Acquire(cancelled, "goals", time.Minute)
		assert.ErrorIs(t, err, context.Canceled)
		assert.False(t, ok)
	})

	t.Run("close drops every lock", func(t *testing.T) {
		lock := NewInMemoryJobLock()
		_, _, err := lock.Acquire(ctx, "goals", time.Hour)
		require.NoError(t, err)

		require.NoError(t, lock.Close())
		assert.Zero(t, lock.Held())
	})
}

func TestJobLockFactory_CreateLock_InMemoryFile(t *testing.T) {
	t.Run("redis disabled uses in-memory lock", func(t *testing.T) {
		f := NewJobLockFactory(config.RedisConfig{Enabled: false})

		lock, err := f.CreateLock()
		require.NoError(t, err)
		assert.IsType(t, &InMemoryJobLock{}, lock)
	})

	t.Run("unreachable redis falls back", func(t *testing.T) {
		f := NewJobLockFactory(config.RedisConfig{Enabled: true, Host: "127.0.0.1", Port: 1})

		lock, err := f.CreateLock()
		require.NoError(t, err)
		assert.IsType(t, &InMemoryJobLock{}, lock)
	})

	t.Run("unreachable redis without fallback fails", func(t *testing.T) {
		f := NewJobLockFactory(config.RedisConfig{Enabled: true, Host: "127.0.0.1", Port: 1}, WithInMemoryFallback(false))

		_, err := f.CreateLock()
		assert.Error(t, err)
	})
}
