package docverify

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acadhub/academic-core/internal/domain/academic"
)

var codePattern = regexp.MustCompile(`^TXN-[0-9A-F]{12}$`)

func TestMintCode_Format(t *testing.T) {
	i := NewIssuer(newFakeStore(), nil, "secret", "", 0, nil)
	code := i.MintCode("STU-001", time.Now())

	assert.Regexp(t, codePattern, code)
}

func TestMintCode_Deterministic(t *testing.T) {
	i := NewIssuer(newFakeStore(), nil, "secret", "", 0, nil)
	at := time.Date(2026, 3, 1, 12, 0, 0, 123456789, time.UTC)

	assert.Equal(t, i.MintCode("STU-001", at), i.MintCode("STU-001", at))
	assert.NotEqual(t, i.MintCode("STU-001", at), i.MintCode("STU-002", at))
	assert.NotEqual(t, i.MintCode("STU-001", at), i.MintCode("STU-001", at.Add(time.Nanosecond)))
}

func TestMintCode_DependsOnSecret(t *testing.T) {
	at := time.Now()
	a := NewIssuer(newFakeStore(), nil, "secret-a", "", 0, nil)
	b := NewIssuer(newFakeStore(), nil, "secret-b", "", 0, nil)

	assert.NotEqual(t, a.MintCode("STU-001", at), b.MintCode("STU-001", at))
}

func TestIssue_PersistsRecord(t *testing.T) {
	store := newFakeStore()
	cache := newFakeCache()
	i := NewIssuer(store, cache, "secret", "https://records.example.edu/", 720*time.Hour, nil)

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	i.now = func() time.Time { return now }

	b := NewBuilder(testScale(), academic.DefaultPolicy())
	student := testStudent()
	payload := b.Build(student, testEnrollments(), academic.Institution{Name: "Unity University"})

	issued, err := i.Issue(context.Background(), student, payload, academic.Institution{Name: "Unity University"})
	require.NoError(t, err)

	assert.Regexp(t, codePattern, issued.Code)
	assert.Equal(t, "https://records.example.edu/verify/"+issued.Code, issued.VerificationURL)

	rec, ok := store.records[issued.Code]
	require.True(t, ok)
	assert.Equal(t, "STU-001", rec.StudentRef)
	assert.Equal(t, "Ada Obi", rec.StudentName)
	assert.Equal(t, "Unity University", rec.InstitutionName)
	assert.Equal(t, issued.Digest, rec.Digest)
	assert.NotEmpty(t, rec.ID)
	assert.NotEmpty(t, rec.PayloadJSON)

	// Digest matches the stored snapshot.
	assert.Equal(t, HashDocument(rec.PayloadJSON), rec.Digest)

	require.NotNil(t, rec.ExpiresAt)
	assert.Equal(t, now.Add(720*time.Hour), *rec.ExpiresAt)

	// The record is mirrored into the cache.
	assert.Contains(t, cache.entries, issued.Code)
}

func TestIssue_NoRetention_NoExpiry(t *testing.T) {
	store := newFakeStore()
	i := NewIssuer(store, nil, "secret", "", 0, nil)

	student := testStudent()
	payload := NewBuilder(testScale(), academic.DefaultPolicy()).Build(student, nil, academic.Institution{})

	issued, err := i.Issue(context.Background(), student, payload, academic.Institution{})
	require.NoError(t, err)
	assert.Nil(t, issued.Record.ExpiresAt)
	assert.Empty(t, issued.VerificationURL)
}

func TestIssue_StoreFailureFailsIssuance(t *testing.T) {
	store := newFakeStore()
	store.failSave = true
	cache := newFakeCache()
	i := NewIssuer(store, cache, "secret", "", 0, nil)

	student := testStudent()
	payload := NewBuilder(testScale(), academic.DefaultPolicy()).Build(student, nil, academic.Institution{})

	_, err := i.Issue(context.Background(), student, payload, academic.Institution{})
	assert.Error(t, err)
	assert.Empty(t, cache.entries)
}

func TestIssue_CacheFailureDoesNotBlock(t *testing.T) {
	store := newFakeStore()
	cache := newFakeCache()
	cache.failSet = true
	i := NewIssuer(store, cache, "secret", "", 0, nil)

	student := testStudent()
	payload := NewBuilder(testScale(), academic.DefaultPolicy()).Build(student, nil, academic.Institution{})

	issued, err := i.Issue(context.Background(), student, payload, academic.Institution{})
	require.NoError(t, err)
	assert.Contains(t, store.records, issued.Code)
}
