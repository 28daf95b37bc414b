package session

import (
	"context"
	"sync"
	"time"
)

type inmemEntry struct {
	rec       Record
	expiresAt time.Time
}

// InMemStore implements Store using an in-memory map
type InMemStore struct {
	records map[string]inmemEntry
	mu      sync.Mutex
}

// NewInMemStore creates a new in-memory session store
func NewInMemStore() *InMemStore {
	return &InMemStore{
		records: make(map[string]inmemEntry),
	}
}

// Get returns the record with the given id, or nil if absent or past its ttl
func (s *InMemStore) Get(ctx context.Context, id string) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, exists := s.records[id]
	if !exists {
		return nil, nil
	}
	if time.Now().After(entry.expiresAt) {
		delete(s.records, id)
		return nil, nil
	}

	rec := entry.rec
	return &rec, nil
}

// Put saves the record with the given time-to-live
func (s *InMemStore) Put(ctx context.Context, rec *Record, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[rec.ID] = inmemEntry{
		rec:       *rec,
		expiresAt: time.Now().Add(ttl),
	}
	return nil
}

// Delete removes the record with the given id
func (s *InMemStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.records, id)
	return nil
}
