package verification

import (
	"context"
	"time"
)

// Store is the durable, authoritative persistence for verification
// records. Save must be atomic per record: either the full record is
// persisted or none of it is.
type Store interface {
	// Save persists a new record keyed by its unique code.
	Save(ctx context.Context, rec *Record) error

	// GetByCode returns the record for a code, or
	// shared.ErrNotFound-wrapped error when absent.
	GetByCode(ctx context.Context, code string) (*Record, error)

	// Revoke marks a record revoked. Revoking an unknown code is a
	// not-found error; revoking twice is a no-op.
	Revoke(ctx context.Context, code string, at time.Time) error

	// DeleteExpired removes records whose expiry passed before the
	// cutoff, returning how many were removed. Retention sweep only;
	// verification of expired codes already fails via IsActive.
	DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error)
}

// Cache mirrors records for fast lookup. It is a read optimization
// only: writes are best-effort and a miss falls back to the Store.
type Cache interface {
	// Get returns the cached record or a cache-miss error.
	Get(ctx context.Context, code string) (*Record, error)

	// Set stores the record with the given TTL.
	Set(ctx context.Context, rec *Record, ttl time.Duration) error

	// Delete drops the cached record, e.g. after revocation.
	Delete(ctx context.Context, code string) error
}
