package storage

import (
	"context"
	"sort"
	"sync"

	"prismatic-hq/prism/pkg/history"
)

// MemoryStore implements the history.Store interface using an in-memory map.
// This implementation is intended for testing only and should not be used in production.
type MemoryStore struct {
	records map[string]*history.Record
	mu      sync.RWMutex
}

// NewMemoryStore creates a new in-memory history store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string]*history.Record),
	}
}

// Store persists an analysis record to memory.
func (s *MemoryStore) Store(ctx context.Context, record *history.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Copy to avoid mutation
	recordCopy := *record
	s.records[record.ID] = &recordCopy

	return nil
}

// Query retrieves analysis records matching the query filters.
func (s *MemoryStore) Query(ctx context.Context, query *history.Query) ([]*history.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var results []*history.Record

	for _, record := range s.records {
		if matchesQuery(record, query) {
			recordCopy := *record
			results = append(results, &recordCopy)
		}
	}

	// Newest first unless the query asks for ascending order
	sort.Slice(results, func(i, j int) bool {
		if query.SortOrder == "asc" {
			return results[i].CreatedAt.Before(results[j].CreatedAt)
		}
		return results[i].CreatedAt.After(results[j].CreatedAt)
	})

	start := query.Offset
	if start > len(results) {
		return []*history.Record{}, nil
	}

	end := start + query.Limit
	if end > len(results) {
		end = len(results)
	}

	if query.Limit > 0 {
		results = results[start:end]
	}

	return results, nil
}

// Count returns the number of analysis records matching the query filters.
func (s *MemoryStore) Count(ctx context.Context, query *history.Query) (int64, error) {
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

// Delete removes analysis records matching the query filters.
func (s *MemoryStore) Delete(ctx context.Context, query *history.Query) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var deleted int64

	toDelete := []string{}
	for id, record := range s.records {
		if matchesQuery(record, query) {
			toDelete = append(toDelete, id)
		}
	}

	for _, id := range toDelete {
		delete(s.records, id)
		deleted++
	}

	return deleted, nil
}

// Close releases resources held by the store.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = make(map[string]*history.Record)
	return nil
}

// matchesQuery checks if a record matches the query filters.
func matchesQuery(record *history.Record, query *history.Query) bool {
	if query.Since != nil && record.CreatedAt.Before(*query.Since) {
		return false
	}
	if query.Until != nil && record.CreatedAt.After(*query.Until) {
		return false
	}

	if query.TargetModel != "" && record.TargetModel != query.TargetModel {
		return false
	}
	if query.Identity != "" && record.Identity != query.Identity {
		return false
	}
	if query.Provider != "" && record.Provider != query.Provider {
		return false
	}

	if query.Detailed != nil && record.Detailed != *query.Detailed {
		return false
	}

	if query.MinScore != nil && record.OverallScore < *query.MinScore {
		return false
	}
	if query.MaxScore != nil && record.OverallScore > *query.MaxScore {
		return false
	}

	return true
}

// Clear removes all records from the store (for testing).
func (s *MemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = make(map[string]*history.Record)
}

// GetByID retrieves a single record by ID (for testing).
func (s *MemoryStore) GetByID(id string) *history.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[id]
	if !ok {
		return nil
	}

	recordCopy := *record
	return &recordCopy
}

// Size returns the number of records in the store (for testing).
func (s *MemoryStore) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.records)
}
