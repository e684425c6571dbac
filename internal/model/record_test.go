package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseStatusSynonyms(t *testing.T) {
	for _, s := range []string{"scheduled", "Booked", " CONFIRMED ", "reserved"} {
		got, ok := ParseStatus(s)
		require.True(t, ok, s)
		require.Equal(t, StatusScheduled, got, s)
	}
	for _, s := range []string{"cancelled", "canceled", "Cancel"} {
		got, ok := ParseStatus(s)
		require.True(t, ok, s)
		require.Equal(t, StatusCancelled, got, s)
	}

	got, ok := ParseStatus("waitlisted")
	require.False(t, ok)
	require.Equal(t, StatusOther, got)
}

func TestParseOutcome(t *testing.T) {
	got, ok := ParseOutcome("no-show")
	require.True(t, ok)
	require.Equal(t, OutcomeNotVisited, got)

	got, ok = ParseOutcome("")
	require.True(t, ok, "absent outcome is a recognized unknown")
	require.Equal(t, OutcomeUnknown, got)

	got, ok = ParseOutcome("maybe")
	require.False(t, ok)
	require.Equal(t, OutcomeUnknown, got)
}

func TestIsAutoAssigned(t *testing.T) {
	require.True(t, IsAutoAssigned(AutoAssignMarker))
	require.True(t, IsAutoAssigned(AutoAssignMarker+" (morning)"))
	require.False(t, IsAutoAssigned("Tanaka"))
	require.False(t, IsAutoAssigned("No-Preference"), "marker match is case-sensitive")
	require.False(t, IsAutoAssigned(""))
}
