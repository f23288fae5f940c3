package cache

import (
	"fmt"

	"github.com/ntqnhu0105/DoAn-CoSo-sub000/internal/domain/shared"
	"github.com/ntqnhu0105/DoAn-CoSo-sub000/internal/infrastructure/config"
	"go.uber.org/zap"
)

// JobLockFactory creates job locks based on configuration
type JobLockFactory struct {
	redisConfig           config.RedisConfig
	keyPrefix             string
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// JobLockFactoryOption is a functional option for configuring the factory
type JobLockFactoryOption func(*JobLockFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) JobLockFactoryOption {
	return func(f *JobLockFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to an in-memory lock when Redis is unavailable
// Default is true (allow fallback)
func WithInMemoryFallback(allow bool) JobLockFactoryOption {
	return func(f *JobLockFactory) {
		f.allowInMemoryFallback = allow
	}
}

// WithKeyPrefix namespaces lock keys in a shared Redis
func WithKeyPrefix(prefix string) JobLockFactoryOption {
	return func(f *JobLockFactory) {
		f.keyPrefix = prefix
	}
}

// NewJobLockFactory creates a new factory
func NewJobLockFactory(cfg config.RedisConfig, opts ...JobLockFactoryOption) *JobLockFactory {
	f := &JobLockFactory{
		redisConfig:           cfg,
		keyPrefix:             shared.DefaultJobLockConfig().KeyPrefix,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// CreateRedisLock creates a Redis-based job lock
func (f *JobLockFactory) CreateRedisLock() (shared.JobLock, error) {
	lock, err := NewRedisJobLock(RedisConfig{
		Host:     f.redisConfig.Host,
		Port:     f.redisConfig.Port,
		Password: f.redisConfig.Password,
		DB:       f.redisConfig.DB,
	}, f.keyPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to create Redis job lock: %w", err)
	}
	return lock, nil
}

// CreateLock returns the in-memory lock when Redis is disabled. Otherwise it
// tries Redis and falls back to in-memory if allowed.
func (f *JobLockFactory) CreateLock() (shared.JobLock, error) {
	if !f.redisConfig.Enabled {
		f.logger.Info("Redis disabled, using in-process job lock")
		return NewInMemoryJobLock(), nil
	}

	lock, err := f.CreateRedisLock()
	if err == nil {
		f.logger.Info("Using Redis job lock", zap.String("addr", f.redisConfig.Addr()))
		return lock, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("Redis required for job locking but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-process job lock. "+
		"Several scheduler instances may then run the same job concurrently.",
		zap.Error(err),
	)
	return NewInMemoryJobLock(), nil
}
