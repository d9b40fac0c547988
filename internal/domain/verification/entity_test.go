package verification

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRecordIsActive(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	future := now.Add(time.Hour)
	past := now.Add(-time.Hour)

	active := &Record{ExpiresAt: &future}
	assert.True(t, active.IsActive(now))

	noExpiry := &Record{}
	assert.True(t, noExpiry.IsActive(now))

	expired := &Record{ExpiresAt: &past}
	assert.False(t, expired.IsActive(now))

	// Expiry boundary is exclusive.
	atBoundary := &Record{ExpiresAt: &now}
	assert.False(t, atBoundary.IsActive(now))

	revoked := &Record{RevokedAt: &past}
	assert.False(t, revoked.IsActive(now))

	var nilRecord *Record
	assert.False(t, nilRecord.IsActive(now))
}

func TestRecordRevoke_KeepsOriginalTimestamp(t *testing.T) {
	rec := &Record{}
	first := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	second := first.Add(time.Hour)

	rec.Revoke(first)
	rec.Revoke(second)

	assert.Equal(t, first, *rec.RevokedAt)
}

func TestRecordIsLegacy(t *testing.T) {
	legacy := &Record{Code: "TXN-OLD"}
	assert.True(t, legacy.IsLegacy())

	noDigest := &Record{PayloadJSON: []byte(`{}`)}
	assert.True(t, noDigest.IsLegacy())

	modern := &Record{PayloadJSON: []byte(`{}`), Digest: "abc"}
	assert.False(t, modern.IsLegacy())
}
