package cache

import (
	"context"
	"sync"
	"time"

	"github.com/ntqnhu0105/DoAn-CoSo-sub000/internal/domain/shared"
)

// lockEntry is one held lock
type lockEntry struct {
	token     uint64
	expiresAt time.Time
}

// InMemoryJobLock implements JobLock inside one process.
// This is suitable for single-instance deployments and testing.
type InMemoryJobLock struct {
	mu      sync.Mutex
	entries map[string]lockEntry
	next    uint64
	now     func() time.Time
}

// NewInMemoryJobLock creates a new in-memory job lock
func NewInMemoryJobLock() *InMemoryJobLock {
	return &InMemoryJobLock{
		entries: make(map[string]lockEntry),
		now:     time.Now,
	}
}

// Acquire takes the lock unless another holder owns it and its TTL has not expired
func (l *InMemoryJobLock) Acquire(ctx context.Context, key string, ttl time.Duration) (shared.ReleaseFunc, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if e, held := l.entries[key]; held && now.Before(e.expiresAt) {
		return nil, false, nil
	}

	l.next++
	token := l.next
	l.entries[key] = lockEntry{token: token, expiresAt: now.Add(ttl)}

	release := func(context.Context) error {
		l.mu.Lock()
		defer l.mu.Unlock()
		// A holder whose TTL ran out must not release its successor's lock.
		if e, held := l.entries[key]; held && e.token == token {
			delete(l.entries, key)
		}
		return nil
	}
	return release, true, nil
}

// Close releases every lock
func (l *InMemoryJobLock) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = make(map[string]lockEntry)
	return nil
}

// Held returns the number of unexpired locks (for testing/monitoring)
func (l *InMemoryJobLock) Held() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	n := 0
	for _, e := range l.entries {
		if now.Before(e.expiresAt) {
			n++
		}
	}
	return n
}

// Ensure InMemoryJobLock implements JobLock
var _ shared.JobLock = (*InMemoryJobLock)(nil)
