package docverify

import (
	"context"
	"errors"
	"time"

	"github.com/acadhub/academic-core/internal/domain/shared"
	"github.com/acadhub/academic-core/internal/domain/verification"
)

// In-memory doubles for the verification store and cache.

type fakeStore struct {
	records  map[string]*verification.Record
	failSave bool
	gets     int
}

func newFakeStore() *fakeStore {
	return &fakeStore{records: make(map[string]*verification.Record)}
}

func (s *fakeStore) Save(ctx context.Context, rec *verification.Record) error {
	if s.failSave {
		return shared.WrapError("verification", "Save", shared.ErrStorageUnavailable, "save failed", errors.New("down"))
	}
	if _, exists := s.records[rec.Code]; exists {
		return shared.ErrDuplicateCode
	}
	clone := *rec
	s.records[rec.Code] = &clone
	return nil
}

func (s *fakeStore) GetByCode(ctx context.Context, code string) (*verification.Record, error) {
	s.gets++
	rec, ok := s.records[code]
	if !ok {
		return nil, shared.ErrRecordNotFound
	}
	clone := *rec
	return &clone, nil
}

func (s *fakeStore) Revoke(ctx context.Context, code string, at time.Time) error {
	rec, ok := s.records[code]
	if !ok {
		return shared.ErrRecordNotFound
	}
	rec.Revoke(at)
	return nil
}

func (s *fakeStore) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	var removed int64
	for code, rec := range s.records {
		if rec.ExpiresAt != nil && rec.ExpiresAt.Before(cutoff) {
			delete(s.records, code)
			removed++
		}
	}
	return removed, nil
}

var errFakeCacheMiss = errors.New("cache miss")

type fakeCache struct {
	entries map[string]*verification.Record
	failSet bool
	gets    int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string]*verification.Record)}
}

func (c *fakeCache) Get(ctx context.Context, code string) (*verification.Record, error) {
	c.gets++
	rec, ok := c.entries[code]
	if !ok {
		return nil, errFakeCacheMiss
	}
	clone := *rec
	return &clone, nil
}

func (c *fakeCache) Set(ctx context.Context, rec *verification.Record, ttl time.Duration) error {
	if c.failSet {
		return errors.New("cache down")
	}
	clone := *rec
	c.entries[rec.Code] = &clone
	return nil
}

func (c *fakeCache) Delete(ctx context.Context, code string) error {
	delete(c.entries, code)
	return nil
}
