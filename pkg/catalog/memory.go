package catalog

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/matzehuels/gtreader/pkg/errors"
)

// MemoryStore keeps records in a map. Safe for concurrent use.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]Record
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]Record)}
}

func (s *MemoryStore) Put(_ context.Context, rec Record) error {
	if rec.Hash == "" {
		return errors.New(errors.ErrCodeInvalidInput, "record has no hash")
	}
	s.mu.Lock()
	s.records[rec.Hash] = rec
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Get(_ context.Context, hash string) (Record, error) {
	s.mu.RLock()
	rec, ok := s.records[hash]
	s.mu.RUnlock()
	if !ok {
		return Record{}, errors.New(errors.ErrCodeNotFound, "no catalog record for %s", hash)
	}
	return rec, nil
}

func (s *MemoryStore) List(_ context.Context, limit int) ([]Record, error) {
	s.mu.RLock()
	out := make([]Record, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, rec)
	}
	s.mu.RUnlock()

	slices.SortFunc(out, func(a, b Record) int {
		if c := b.DecodedAt.Compare(a.DecodedAt); c != 0 {
			return c
		}
		return strings.Compare(a.Hash, b.Hash)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemoryStore) Close() error { return nil }
