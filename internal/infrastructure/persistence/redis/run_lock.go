package redis

import (
	"context"
	"time"
)

// lockStore is the slice of the cache client a lock needs.
type lockStore interface {
	SetNX(ctx context.Context, key string, value interface{}, ttl time.Duration) (bool, error)
	DeleteIfEquals(ctx context.Context, key string, value interface{}) (bool, error)
}

// RunLock is a coarse distributed lock guarding batch generation runs,
// so two schedulers cannot issue duplicate records for the same
// student population at once.
type RunLock struct {
	store lockStore
	key   string
	ttl   time.Duration
	owner string
}

// NewRunLock creates a lock for the named resource. A non-positive ttl
// uses TTLBatchLock, which bounds how long a crashed run can block the
// next one.
func NewRunLock(cache *Cache, resource string, ttl time.Duration) *RunLock {
	if ttl <= 0 {
		ttl = TTLBatchLock
	}
	return &RunLock{
		store: cache,
		key:   LockKey(resource),
		ttl:   ttl,
	}
}

// Acquire attempts to take the lock for the given owner token. Returns
// false when another run holds it.
func (l *RunLock) Acquire(ctx context.Context, owner string) (bool, error) {
	acquired, err := l.store.SetNX(ctx, l.key, owner, l.ttl)
	if err != nil {
		return false, err
	}
	if acquired {
		l.owner = owner
	}
	return acquired, nil
}

// Release drops the lock only while this owner still holds it. A run
// that outlived the TTL must not release a sibling run's lock, so the
// owner token is compared on the server before deleting. Returns
// whether the lock was actually released.
func (l *RunLock) Release(ctx context.Context) (bool, error) {
	if l.owner == "" {
		return false, nil
	}
	released, err := l.store.DeleteIfEquals(ctx, l.key, l.owner)
	if err != nil {
		return false, err
	}
	l.owner = ""
	return released, nil
}
