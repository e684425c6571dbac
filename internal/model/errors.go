package model

import (
	"errors"
	"fmt"
)

// ErrEmptyBatch is returned when a batch yields zero usable records
// after validation. It is deliberately distinct from ordinary row-level
// validation so callers can report it with its own message.
var ErrEmptyBatch = errors.New("batch contains no usable records")

// ErrRunInFlight is returned when a run is requested while another one
// is still processing. Runs are strictly serialized.
var ErrRunInFlight = errors.New("another run is already in flight")

// StoreError wraps a history or run store failure. Store failures are
// fatal for the current run; nothing partial is reported.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// Warning records a recovered row-level problem. Rows are never dropped
// silently: every skipped or suspicious row produces one of these.
type Warning struct {
	Row      int    `json:"row,omitempty"` // 1-based position in the uploaded batch, 0 if not row-specific
	CallerID string `json:"caller_id,omitempty"`
	Reason   string `json:"reason"`
}

func (w Warning) String() string {
	if w.Row > 0 {
		return fmt.Sprintf("row %d: %s", w.Row, w.Reason)
	}
	return w.Reason
}
