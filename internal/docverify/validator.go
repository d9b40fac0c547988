package docverify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/acadhub/academic-core/internal/domain/shared"
	"github.com/acadhub/academic-core/internal/domain/verification"
	"github.com/acadhub/academic-core/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// DOCUMENT VERIFICATION
// ══════════════════════════════════════════════════════════════════════════════

// Failure reasons surfaced to verifiers. Unknown, expired and revoked
// codes share one message so the response does not reveal whether a
// code ever existed.
const (
	ReasonInvalidOrExpired = "invalid or expired verification code"
	ReasonTampered         = "document data does not match stored hash (possible tampering)"
)

// VerifyResult is the outcome of a verification lookup.
type VerifyResult struct {
	// Valid is true when the code resolves to an active record whose
	// recomputed digest matches the stored one.
	Valid bool `json:"valid"`

	// Reason explains a failed verification; empty on success.
	Reason string `json:"reason,omitempty"`

	// LegacyUnverified marks records issued before tamper checking:
	// the code is valid but content integrity could not be confirmed.
	LegacyUnverified bool `json:"legacy_unverified,omitempty"`

	// StudentName, InstitutionName and GeneratedAt echo the stored
	// display snapshot on success.
	StudentName     string    `json:"student_name,omitempty"`
	InstitutionName string    `json:"institution_name,omitempty"`
	GeneratedAt     time.Time `json:"generated_at,omitempty"`

	// Payload is the stored canonical snapshot, returned on success so
	// verifiers can render the document content that was certified.
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Validator resolves verification codes and performs tamper checks.
// The durable store is authoritative; the cache only short-circuits
// reads and is reseeded on miss.
type Validator struct {
	store verification.Store
	cache verification.Cache
	ttl   time.Duration
	log   *logger.Logger
	now   func() time.Time
}

// NewValidator creates a Validator. ttl bounds reseeded cache entries.
func NewValidator(store verification.Store, cache verification.Cache, ttl time.Duration, log *logger.Logger) *Validator {
	if log == nil {
		log = logger.Default()
	}
	return &Validator{
		store: store,
		cache: cache,
		ttl:   ttl,
		log:   log,
		now:   time.Now,
	}
}

// Verify resolves a code and reports whether the document it certifies
// is intact.
//
// Outcomes are structured results, not errors: an unknown, expired,
// revoked or tampered code returns Valid=false with a reason. An error
// return means the lookup itself could not be performed.
func (v *Validator) Verify(ctx context.Context, code string) (*VerifyResult, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return &VerifyResult{Valid: false, Reason: ReasonInvalidOrExpired}, nil
	}

	rec, err := v.lookup(ctx, code)
	if err != nil {
		if shared.IsNotFound(err) {
			return &VerifyResult{Valid: false, Reason: ReasonInvalidOrExpired}, nil
		}
		return nil, fmt.Errorf("failed to look up verification record: %w", err)
	}

	if !rec.IsActive(v.now().UTC()) {
		return &VerifyResult{Valid: false, Reason: ReasonInvalidOrExpired}, nil
	}

	result := &VerifyResult{
		Valid:           true,
		StudentName:     rec.StudentName,
		InstitutionName: rec.InstitutionName,
		GeneratedAt:     rec.GeneratedAt,
	}

	// Records issued before tamper checking carry no snapshot to
	// validate against. The code itself remains valid.
	if rec.IsLegacy() {
		result.LegacyUnverified = true
		return result, nil
	}

	canonical, err := CanonicalizeRaw(rec.PayloadJSON)
	if err != nil {
		v.log.Warn("stored payload is not valid JSON",
			logger.VerificationCode(code),
			logger.Err(err),
		)
		return &VerifyResult{Valid: false, Reason: ReasonTampered}, nil
	}

	if HashDocument(canonical) != rec.Digest {
		return &VerifyResult{Valid: false, Reason: ReasonTampered}, nil
	}

	result.Payload = json.RawMessage(canonical)
	return result, nil
}

// lookup reads the record cache-first. Cache errors degrade to the
// durable store; a store hit reseeds the cache best-effort.
func (v *Validator) lookup(ctx context.Context, code string) (*verification.Record, error) {
	if v.cache != nil {
		if rec, err := v.cache.Get(ctx, code); err == nil {
			return rec, nil
		}
	}

	rec, err := v.store.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	if v.cache != nil {
		if err := v.cache.Set(ctx, rec, v.ttl); err != nil {
			v.log.Debug("failed to reseed verification cache",
				logger.VerificationCode(code),
				logger.Err(err),
			)
		}
	}
	return rec, nil
}
