package shared

import (
	"context"
	"time"
)

// ReleaseFunc releases a previously acquired lock. It is safe to call more than once.
type ReleaseFunc func(ctx context.Context) error

// JobLock provides mutual exclusion for a named job across workers and processes
type JobLock interface {
	// Acquire tries to take the lock identified by key for at most ttl.
	// ok is false when another holder owns the lock; release is nil in that case.
	Acquire(ctx context.Context, key string, ttl time.Duration) (release ReleaseFunc, ok bool, err error)

	// Close closes the lock backend and releases resources
	Close() error
}

// JobLockConfig holds configuration for job locking
type JobLockConfig struct {
	// TTL bounds how long a crashed holder can keep a job locked
	// Default: 1 hour
	TTL time.Duration

	// KeyPrefix namespaces lock keys in a shared backend
	KeyPrefix string
}

// DefaultJobLockConfig returns the default job lock configuration
func DefaultJobLockConfig() JobLockConfig {
	return JobLockConfig{
		TTL:       time.Hour,
		KeyPrefix: "fintrack:joblock:",
	}
}
