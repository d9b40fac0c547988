package redis

import (
	"context"
	"errors"
	"time"

	"github.com/acadhub/academic-core/internal/domain/verification"
	"github.com/acadhub/academic-core/pkg/circuitbreaker"
)

// VerificationCache implements verification.Cache using the generic
// Redis Cache. Entries mirror durable records keyed by verification
// code; a miss or any Redis failure falls back to the store. A circuit
// breaker shields verification latency from a flapping Redis: while
// open, reads report a miss immediately instead of waiting out
// timeouts.
type VerificationCache struct {
	cache   *Cache
	breaker *circuitbreaker.CircuitBreaker
}

// NewVerificationCache creates a new VerificationCache.
func NewVerificationCache(cache *Cache) *VerificationCache {
	return &VerificationCache{
		cache: cache,
		// A miss is a normal outcome, not a Redis failure.
		breaker: circuitbreaker.New(
			"verification-cache",
			circuitbreaker.WithFailureThreshold(5),
			circuitbreaker.WithSuccessThreshold(1),
			circuitbreaker.WithTimeout(15*time.Second),
			circuitbreaker.WithMaxHalfOpenRequests(2),
			circuitbreaker.WithIsFailure(func(err error) bool {
				return !errors.Is(err, ErrCacheMiss)
			}),
		),
	}
}

// cachedRecord is the serialized cache shape. PayloadJSON rides as a
// base64 string through encoding/json's []byte handling, which keeps
// the snapshot bytes intact.
type cachedRecord struct {
	ID              string     `json:"id"`
	Code            string     `json:"code"`
	StudentRef      string     `json:"student_ref"`
	StudentName     string     `json:"student_name"`
	GeneratedAt     time.Time  `json:"generated_at"`
	Digest          string     `json:"digest"`
	InstitutionName string     `json:"institution_name"`
	VerificationURL string     `json:"verification_url"`
	PayloadJSON     []byte     `json:"payload_json,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	ExpiresAt       *time.Time `json:"expires_at,omitempty"`
	RevokedAt       *time.Time `json:"revoked_at,omitempty"`
}

// Get returns the cached record or ErrCacheMiss. An open circuit
// reports a miss so callers go straight to the store.
func (c *VerificationCache) Get(ctx context.Context, code string) (*verification.Record, error) {
	var cached cachedRecord
	err := c.breaker.Execute(ctx, func(ctx context.Context) error {
		return c.cache.Get(ctx, VerificationKey(code), &cached)
	})
	if err != nil {
		if errors.Is(err, circuitbreaker.ErrCircuitOpen) || errors.Is(err, circuitbreaker.ErrTooManyRequests) {
			return nil, ErrCacheMiss
		}
		return nil, err
	}
	return &verification.Record{
		ID:              cached.ID,
		Code:            cached.Code,
		StudentRef:      cached.StudentRef,
		StudentName:     cached.StudentName,
		GeneratedAt:     cached.GeneratedAt,
		Digest:          cached.Digest,
		InstitutionName: cached.InstitutionName,
		VerificationURL: cached.VerificationURL,
		PayloadJSON:     cached.PayloadJSON,
		CreatedAt:       cached.CreatedAt,
		ExpiresAt:       cached.ExpiresAt,
		RevokedAt:       cached.RevokedAt,
	}, nil
}

// Set stores the record with the given TTL. A non-positive TTL falls
// back to TTLVerificationCache so a mirror entry never outlives the
// retention window by much.
func (c *VerificationCache) Set(ctx context.Context, rec *verification.Record, ttl time.Duration) error {
	if rec == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = TTLVerificationCache
	}
	cached := cachedRecord{
		ID:              rec.ID,
		Code:            rec.Code,
		StudentRef:      rec.StudentRef,
		StudentName:     rec.StudentName,
		GeneratedAt:     rec.GeneratedAt,
		Digest:          rec.Digest,
		InstitutionName: rec.InstitutionName,
		VerificationURL: rec.VerificationURL,
		PayloadJSON:     rec.PayloadJSON,
		CreatedAt:       rec.CreatedAt,
		ExpiresAt:       rec.ExpiresAt,
		RevokedAt:       rec.RevokedAt,
	}
	return c.breaker.Execute(ctx, func(ctx context.Context) error {
		return c.cache.Set(ctx, VerificationKey(rec.Code), cached, ttl)
	})
}

// Delete drops the cached record, e.g. after revocation.
func (c *VerificationCache) Delete(ctx context.Context, code string) error {
	return c.breaker.Execute(ctx, func(ctx context.Context) error {
		return c.cache.Delete(ctx, VerificationKey(code))
	})
}

// InvalidateAll clears every cached verification record.
func (c *VerificationCache) InvalidateAll(ctx context.Context) error {
	return c.cache.DeleteByPattern(ctx, PrefixVerification+"*")
}
