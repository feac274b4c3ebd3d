package storage

import (
	"context"
	"sort"
	"sync"

	"truemark-hq/callisto/pkg/journal"
)

// MemoryStorage implements journal.Storage using an in-memory map. It is
// intended for tests and for runs where durability is not needed.
type MemoryStorage struct {
	records map[string]*journal.Record
	mu      sync.RWMutex
}

// NewMemoryStorage creates a new in-memory journal backend.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		records: make(map[string]*journal.Record),
	}
}

// Store persists a record to memory.
func (s *MemoryStorage) Store(ctx context.Context, record *journal.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	recordCopy := *record
	s.records[record.ID] = &recordCopy
	return nil
}

// Query returns records matching the query, newest first.
func (s *MemoryStorage) Query(ctx context.Context, query *journal.Query) ([]*journal.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var results []*journal.Record
	for _, record := range s.records {
		if matchesQuery(record, query) {
			recordCopy := *record
			results = append(results, &recordCopy)
		}
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].SubmittedAt.After(results[j].SubmittedAt)
	})

	start := query.Offset
	if start > len(results) {
		return []*journal.Record{}, nil
	}
	results = results[start:]

	if query.Limit > 0 && len(results) > query.Limit {
		results = results[:query.Limit]
	}

	return results, nil
}

// Count returns the number of records matching the query.
func (s *MemoryStorage) Count(ctx context.Context, query *journal.Query) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int64
	for _, record := range s.records {
		if matchesQuery(record, query) {
			count++
		}
	}
	return count, nil
}

// Delete removes records matching the query.
func (s *MemoryStorage) Delete(ctx context.Context, query *journal.Query) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var deleted int64
	for id, record := range s.records {
		if matchesQuery(record, query) {
			delete(s.records, id)
			deleted++
		}
	}
	return deleted, nil
}

// Close clears the stored records.
func (s *MemoryStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = make(map[string]*journal.Record)
	return nil
}

// Size returns the number of stored records (for testing).
func (s *MemoryStorage) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.records)
}

// GetByID returns a copy of the record with the given ID, or nil (for
// testing).
func (s *MemoryStorage) GetByID(id string) *journal.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[id]
	if !ok {
		return nil
	}
	recordCopy := *record
	return &recordCopy
}

// matchesQuery checks a record against the query filters.
func matchesQuery(record *journal.Record, query *journal.Query) bool {
	if query.StartTime != nil && record.SubmittedAt.Before(*query.StartTime) {
		return false
	}
	if query.EndTime != nil && record.SubmittedAt.After(*query.EndTime) {
		return false
	}
	if query.Operation != "" && record.Operation != query.Operation {
		return false
	}
	if query.Status != "" && record.Status != query.Status {
		return false
	}
	if query.DocumentType != "" && record.DocumentType != query.DocumentType {
		return false
	}
	if query.ProductGroup != "" && record.ProductGroup != query.ProductGroup {
		return false
	}
	return true
}
