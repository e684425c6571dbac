package history

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore is an in-memory Store used by tests and dry runs. Same
// upsert semantics as the SQLite store, nothing persisted.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]Entry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]Entry)}
}

func (s *MemoryStore) Get(_ context.Context, callerID string) (Entry, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[callerID]
	return e, ok, nil
}

func (s *MemoryStore) Upsert(_ context.Context, callerID string, visitDate time.Time) (Entry, error) {
	date := DateOnly(visitDate)

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[callerID]
	if ok && !date.After(e.LastVisit) {
		return e, nil
	}
	next := Entry{CallerID: callerID, VisitCount: e.VisitCount + 1, LastVisit: date}
	s.entries[callerID] = next
	return next, nil
}

func (s *MemoryStore) List(_ context.Context) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := make([]Entry, 0, len(s.entries))
	for _, e := range s.entries {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].CallerID < entries[j].CallerID })
	return entries, nil
}

func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]Entry)
	return nil
}
