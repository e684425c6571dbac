package utils

import (
	"fmt"
	"strings"
	"time"
)

// dateLayouts are the formats exports have been seen to use for
// appointment dates, most common first.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"02-01-2006",
	time.RFC3339,
	"2006-01-02 15:04:05",
}

// ParseDate parses an exported date value, trying the known layouts.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", s)
}

// NormalizeHeader cleans a raw column name: trims whitespace, strips
// quotes and a UTF-8 BOM, lowercases, and collapses spaces to
// underscores so header synonyms can be matched reliably.
func NormalizeHeader(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	h = strings.TrimSpace(h)
	h = strings.ReplaceAll(h, `"`, "")
	h = strings.ToLower(h)
	h = strings.Join(strings.Fields(h), "_")
	return h
}

// Rate divides part by total, returning 0 for an empty total.
func Rate(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total)
}
