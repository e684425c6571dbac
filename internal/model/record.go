package model

import (
	"strings"
	"time"
)

// Status is the scheduling state carried by an exported appointment row.
type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusCancelled Status = "cancelled"
	StatusOther     Status = "other"
)

// Outcome records whether the caller actually showed up.
type Outcome string

const (
	OutcomeVisited    Outcome = "visited"
	OutcomeNotVisited Outcome = "not_visited"
	OutcomeUnknown    Outcome = "unknown"
)

// AutoAssignMarker is the staff/slot label token meaning the caller made
// no staff request. Labels are matched exactly or by prefix, case-sensitive.
const AutoAssignMarker = "no-preference"

// AutoAssignBucket names the staff rollup bucket that collects
// auto-assigned records.
const AutoAssignBucket = "(auto-assigned)"

// IsAutoAssigned reports whether a staff/slot label is the no-preference
// marker rather than a concrete staff name.
func IsAutoAssigned(label string) bool {
	return strings.HasPrefix(label, AutoAssignMarker)
}

// Record represents a single validated appointment entry from an upload.
// CallerID and Date are never empty once a record reaches the classifier;
// rows violating that are dropped upstream with a warning.
type Record struct {
	CallerID   string            `json:"caller_id"`
	CallerName string            `json:"caller_name,omitempty"`
	Date       time.Time         `json:"date"`
	Status     Status            `json:"status"`
	RawStatus  string            `json:"raw_status,omitempty"` // original value, kept verbatim for unknown statuses
	Outcome    Outcome           `json:"outcome"`
	AppliedAt  time.Time         `json:"applied_at,omitempty"`
	StaffLabel string            `json:"staff_label,omitempty"`
	Extra      map[string]string `json:"extra,omitempty"` // opaque passthrough columns
}

// ClassifiedRecord is a Record plus the fields derived against history.
type ClassifiedRecord struct {
	Record
	Completed      bool `json:"completed"`
	VisitOrdinal   int  `json:"visit_ordinal,omitempty"` // 1-based, set only when Completed
	IsAutoAssigned bool `json:"is_auto_assigned"`
}

// OrdinalLabel renders the visit ordinal for display: "1", "2", "3+",
// or "" for records that are not completed visits. The underlying
// integer stays uncapped.
func (c ClassifiedRecord) OrdinalLabel() string {
	switch {
	case !c.Completed || c.VisitOrdinal == 0:
		return ""
	case c.VisitOrdinal == 1:
		return "1"
	case c.VisitOrdinal == 2:
		return "2"
	default:
		return "3+"
	}
}

// ReviewPattern identifies why a record was flagged for manual review.
type ReviewPattern string

const (
	PatternInconsistency ReviewPattern = "inconsistency" // cancelled but visited
	PatternNoShow        ReviewPattern = "no_show"       // scheduled but not visited
	PatternCancellation  ReviewPattern = "cancellation"  // cancelled, not visited
)

// ReviewFlag tags one classified record for manual inspection.
// Index is the record's position in the classified batch.
type ReviewFlag struct {
	Pattern ReviewPattern    `json:"pattern"`
	Index   int              `json:"index"`
	Record  ClassifiedRecord `json:"record"`
}

// CancellationEntry is the cancellation-list view of a flagged record.
// VisitOrdinal is read from history after classification, for display
// only; building the list never mutates history.
type CancellationEntry struct {
	Flag         ReviewFlag `json:"flag"`
	VisitOrdinal int        `json:"visit_ordinal,omitempty"`
}

// ParseStatus maps an exported status value onto the Status enum.
// Unknown values yield StatusOther with ok=false so callers can record
// a warning while preserving the original text.
func ParseStatus(s string) (Status, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "scheduled", "booked", "confirmed", "reserved":
		return StatusScheduled, true
	case "cancelled", "canceled", "cancel":
		return StatusCancelled, true
	default:
		return StatusOther, false
	}
}

// ParseOutcome maps an exported outcome value onto the Outcome enum.
func ParseOutcome(s string) (Outcome, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "visited", "attended", "came", "yes":
		return OutcomeVisited, true
	case "not_visited", "not visited", "no_show", "no-show", "missed", "no":
		return OutcomeNotVisited, true
	case "", "unknown":
		return OutcomeUnknown, true
	default:
		return OutcomeUnknown, false
	}
}
