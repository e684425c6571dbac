// Package history holds the persistent per-caller visit history, the
// only state that survives across runs. The store is always passed as
// an explicit handle so classification can be tested against an
// isolated in-memory store.
package history

import (
	"context"
	"time"
)

// Entry is a caller's accumulated completed-visit history.
type Entry struct {
	CallerID   string    `json:"caller_id"`
	VisitCount int       `json:"visit_count"`
	LastVisit  time.Time `json:"last_visit"`
}

// Store is the key-value boundary for visit history. Upsert applies
// monotonic-max semantics: a date not newer than the recorded one is a
// no-op, so re-applying the same record never double-counts.
type Store interface {
	// Get returns the caller's entry; ok is false when the caller has
	// no recorded visits.
	Get(ctx context.Context, callerID string) (Entry, bool, error)
	// Upsert records a completed visit on visitDate and returns the
	// updated entry.
	Upsert(ctx context.Context, callerID string, visitDate time.Time) (Entry, error)
	// List returns all entries ordered by caller ID.
	List(ctx context.Context) ([]Entry, error)
	// Clear removes all entries. Operator-initiated resets only.
	Clear(ctx context.Context) error
}

// DateOnly truncates a timestamp to its calendar date in UTC. History
// comparisons work at day granularity.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
