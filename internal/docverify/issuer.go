package docverify

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/acadhub/academic-core/internal/domain/academic"
	"github.com/acadhub/academic-core/internal/domain/verification"
	"github.com/acadhub/academic-core/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// VERIFICATION ISSUANCE
// ══════════════════════════════════════════════════════════════════════════════

const codePrefix = "TXN-"

// Issuer mints verification codes and persists verification records.
type Issuer struct {
	store     verification.Store
	cache     verification.Cache
	secret    string
	baseURL   string
	retention time.Duration
	log       *logger.Logger
	now       func() time.Time
}

// NewIssuer creates an Issuer. The secret feeds code derivation and
// must stay stable across deployments; retention bounds record
// lifetime (non-positive means no expiry).
func NewIssuer(store verification.Store, cache verification.Cache, secret, baseURL string, retention time.Duration, log *logger.Logger) *Issuer {
	if log == nil {
		log = logger.Default()
	}
	return &Issuer{
		store:     store,
		cache:     cache,
		secret:    secret,
		baseURL:   baseURL,
		retention: retention,
		log:       log,
		now:       time.Now,
	}
}

// MintCode derives a verification code from the student reference,
// generation instant, and the institution secret. The derivation is
// deterministic for a given (student, instant, secret) triple; the
// nanosecond-resolution timestamp makes practical collisions between
// distinct generations negligible.
func (i *Issuer) MintCode(studentRef string, generatedAt time.Time) string {
	seed := fmt.Sprintf("%s:%s:%s", studentRef, generatedAt.Format(time.RFC3339Nano), i.secret)
	sum := sha256.Sum256([]byte(seed))
	return codePrefix + strings.ToUpper(hex.EncodeToString(sum[:])[:12])
}

// Issued is the outcome of a successful issuance.
type Issued struct {
	Code            string
	Digest          string
	VerificationURL string
	Record          *verification.Record
}

// Issue canonicalizes the payload, fingerprints it, mints a code, and
// persists the verification record. The durable store write is the
// commit point: issuance fails if it fails. The cache mirror is
// best-effort and never blocks issuance.
func (i *Issuer) Issue(ctx context.Context, student *academic.Student, payload *Payload, inst academic.Institution) (*Issued, error) {
	canonical, err := CanonicalJSON(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to canonicalize payload: %w", err)
	}

	now := i.now().UTC()
	digest := HashDocument(canonical)
	code := i.MintCode(student.StudentRef, now)

	rec := &verification.Record{
		ID:              uuid.NewString(),
		Code:            code,
		StudentRef:      student.StudentRef,
		StudentName:     student.FullName(),
		GeneratedAt:     now,
		Digest:          digest,
		InstitutionName: inst.Name,
		VerificationURL: i.verificationURL(code),
		PayloadJSON:     canonical,
		CreatedAt:       now,
	}
	if i.retention > 0 {
		expires := now.Add(i.retention)
		rec.ExpiresAt = &expires
	}

	if err := i.store.Save(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to save verification record: %w", err)
	}

	if i.cache != nil {
		if err := i.cache.Set(ctx, rec, i.cacheTTL(rec, now)); err != nil {
			i.log.Warn("failed to cache verification record",
				logger.VerificationCode(code),
				logger.Err(err),
			)
		}
	}

	return &Issued{
		Code:            rec.Code,
		Digest:          rec.Digest,
		VerificationURL: rec.VerificationURL,
		Record:          rec,
	}, nil
}

// verificationURL builds the public lookup URL embedded in the
// generated document.
func (i *Issuer) verificationURL(code string) string {
	base := strings.TrimRight(i.baseURL, "/")
	if base == "" {
		return ""
	}
	return base + "/verify/" + code
}

// cacheTTL aligns the cache entry's lifetime with the record's expiry
// so the cache never outlives the durable record.
func (i *Issuer) cacheTTL(rec *verification.Record, now time.Time) time.Duration {
	if rec.ExpiresAt == nil {
		return i.retention
	}
	return rec.ExpiresAt.Sub(now)
}
