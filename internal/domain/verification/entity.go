// Package verification models the durable proof artifact issued when a
// document (transcript) is generated. A Record owns a frozen snapshot
// of the canonical payload: tamper detection compares a digest
// recomputed from that snapshot against the stored digest, independent
// of later edits to the live academic records.
package verification

import (
	"time"
)

// Record is the durable verification record for a generated document.
// Records are never mutated after issuance except by revocation.
type Record struct {
	// ID is the internal record id (UUID string).
	ID string

	// Code is the unique human-facing verification code, e.g.
	// "TXN-9F2C01AB34DE".
	Code string

	// StudentRef identifies the student the document belongs to.
	StudentRef string

	// StudentName is a display snapshot taken at generation time.
	StudentName string

	// GeneratedAt is when the document was generated.
	GeneratedAt time.Time

	// Digest is the SHA-256 hex fingerprint of the canonical payload.
	Digest string

	// InstitutionName and VerificationURL are display fields embedded
	// in the issued document.
	InstitutionName string
	VerificationURL string

	// PayloadJSON is the canonical payload snapshot, the input the
	// digest is recomputed from during verification. Empty on legacy
	// records issued before tamper checking existed.
	PayloadJSON []byte

	// Lifecycle timestamps.
	CreatedAt time.Time
	ExpiresAt *time.Time
	RevokedAt *time.Time
}

// IsActive reports whether the record can still be used for
// verification: not revoked, and either without expiry or not yet
// expired.
func (r *Record) IsActive(now time.Time) bool {
	if r == nil {
		return false
	}
	if r.RevokedAt != nil {
		return false
	}
	if r.ExpiresAt != nil && !r.ExpiresAt.After(now) {
		return false
	}
	return true
}

// IsLegacy reports whether the record predates tamper checking and
// carries no payload snapshot or digest to validate against.
func (r *Record) IsLegacy() bool {
	return len(r.PayloadJSON) == 0 || r.Digest == ""
}

// Revoke marks the record revoked at the given time. Revoking an
// already-revoked record keeps the original timestamp.
func (r *Record) Revoke(at time.Time) {
	if r.RevokedAt != nil {
		return
	}
	t := at
	r.RevokedAt = &t
}
