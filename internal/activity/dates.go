package activity

import (
	"strings"
	"time"
)

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006/01/02",
	"2 January 2006",
	"02 Jan 2006",
	"January 2, 2006",
	"Jan 2, 2006",
}

// ParseDate parses an event date string into its calendar day (UTC
// midnight). ok is false for empty or unrecognized strings.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
	}
	return time.Time{}, false
}

// FormatDate renders a card date like "24 Nov 2025". Unparseable dates
// are shown as given.
func FormatDate(raw string, day time.Time) string {
	if day.IsZero() {
		return strings.TrimSpace(raw)
	}
	return day.Format("02 Jan 2006")
}

// BadgeDate renders the teaser badge, e.g. "NOV 24".
func BadgeDate(raw string, day time.Time) string {
	if day.IsZero() {
		return strings.TrimSpace(raw)
	}
	return strings.ToUpper(day.Format("Jan")) + " " + day.Format("02")
}
