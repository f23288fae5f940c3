package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ntqnhu0105/DoAn-CoSo-sub000/internal/domain/shared"
	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the lock only while it still holds our token, so a
// holder whose TTL ran out cannot release a lock taken over by another worker.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisJobLock implements JobLock using Redis.
// It keeps horizontally scaled schedulers single-writer per job kind.
type RedisJobLock struct {
	client    *redis.Client
	keyPrefix string
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// NewRedisJobLock connects to Redis and creates a job lock
func NewRedisJobLock(cfg RedisConfig, keyPrefix string) (*RedisJobLock, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisJobLockWithClient(client, keyPrefix), nil
}

// NewRedisJobLockWithClient creates a lock with an existing Redis client
func NewRedisJobLockWithClient(client *redis.Client, keyPrefix string) *RedisJobLock {
	if keyPrefix == "" {
		keyPrefix = shared.DefaultJobLockConfig().KeyPrefix
	}
	return &RedisJobLock{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

// Acquire takes the lock with SET NX PX and a random token
func (l *RedisJobLock) Acquire(ctx context.Context, key string, ttl time.Duration) (shared.ReleaseFunc, bool, error) {
	fullKey := l.keyPrefix + key
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, fullKey, token, ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("failed to acquire job lock %s: %w", key, err)
	}
	if !ok {
		return nil, false, nil
	}

	var once sync.Once
	release := func(ctx context.Context) error {
		var releaseErr error
		once.Do(func() {
			err := releaseScript.Run(ctx, l.client, []string{fullKey}, token).Err()
			if err != nil && !errors.Is(err, redis.Nil) {
				releaseErr = fmt.Errorf("failed to release job lock %s: %w", key, err)
			}
		})
		return releaseErr
	}
	return release, true, nil
}

// Close closes the Redis client
func (l *RedisJobLock) Close() error {
	return l.client.Close()
}

// Client returns the underlying Redis client (for health checks)
func (l *RedisJobLock) Client() *redis.Client {
	return l.client
}

// Ensure RedisJobLock implements JobLock
var _ shared.JobLock = (*RedisJobLock)(nil)
