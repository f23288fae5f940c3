package cache

import (
	"testing"

	"github.com/ntqnhu0105/DoAn-CoSo-sub000/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// unreachableRedis points at a port nothing listens on
var unreachableRedis = config.RedisConfig{Enabled: true, Host: "127.0.0.1", Port: 1}

func TestJobLockFactory_CreateLock(t *testing.T) {
	t.Run("redis disabled uses the in-process lock", func(t *testing.T) {
		f := NewJobLockFactory(config.RedisConfig{}, WithLogger(zap.NewNop()))

		lock, err := f.CreateLock()
		require.NoError(t, err)
		assert.IsType(t, &InMemoryJobLock{}, lock)
	})

	t.Run("unreachable redis falls back when allowed", func(t *testing.T) {
		f := NewJobLockFactory(unreachableRedis)

		lock, err := f.CreateLock()
		require.NoError(t, err)
		assert.IsType(t, &InMemoryJobLock{}, lock)
	})

	t.Run("unreachable redis fails without fallback", func(t *testing.T) {
		f := NewJobLockFactory(unreachableRedis, WithInMemoryFallback(false))

		lock, err := f.CreateLock()
		assert.Error(t, err)
		assert.Nil(t, lock)
	})
}

func TestNewRedisJobLockWithClient_DefaultPrefix(t *testing.T) {
	lock := NewRedisJobLockWithClient(nil, "")
	assert.Equal(t, "fintrack:joblock:", lock.keyPrefix)

	lock = NewRedisJobLockWithClient(nil, "custom:")
	assert.Equal(t, "custom:", lock.keyPrefix)
}
