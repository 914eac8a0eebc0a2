package model

import "time"

// RawEvent is one event record exactly as it appears in the events JSON.
// Every field is optional and decoded permissively: a field of the wrong
// shape decodes to its zero value instead of failing the whole document.
type RawEvent struct {
	ID          Text `json:"id"`
	Title       Text `json:"title"`
	TitleML     Text `json:"title_ml"`
	Date        Text `json:"date"`
	Organizer   Text `json:"organizer"`
	OrganizerML Text `json:"organizer_ml"`
	Summary     Text `json:"summary"`
	SummaryML   Text `json:"summary_ml"`
	Folder      Text `json:"folder"`
	Icon        Text `json:"icon"`

	Images     TextList `json:"images"`
	Cover      TextList `json:"cover"`
	ImageCount Count    `json:"imageCount"`

	VideoID    Text         `json:"videoId"`
	VideoURL   Text         `json:"videoUrl"`
	VideoLinks VideoRefList `json:"videoLinks"`
}

// VideoEntry is a normalized video reference. ID is empty when the URL
// did not match any known platform shape.
type VideoEntry struct {
	ID  string `json:"id,omitempty"`
	URL string `json:"url"`
}

// Event is the canonical in-memory shape produced by the normalizer.
type Event struct {
	// ID is never empty; synthesized as "evt-<index>" when absent.
	ID string
	// Anchor is the DOM-safe identifier used for the card and outline link.
	Anchor string

	Title       string
	TitleML     string
	Organizer   string
	OrganizerML string
	Summary     string
	SummaryML   string
	Folder      string

	// Date is the raw date string; Day is its parsed calendar day and is
	// zero when the string is missing or unparseable.
	Date string
	Day  time.Time

	// Images are the image identifiers (never empty); ImagePaths the
	// resolved sources in the same order.
	Images     []string
	ImagePaths []string
	Cover      []string

	IconPath         string
	FallbackIconPath string

	Season string

	Videos []VideoEntry
}

// HasDate reports whether the event carries a parseable date.
func (e Event) HasDate() bool {
	return !e.Day.IsZero()
}

// DateGroup holds the events sharing one exact date string, in input order.
type DateGroup struct {
	Date   string
	Events []Event
}

// MonthGroup is one entry in the outline: a calendar month (or "Unknown")
// with its dates ordered most recent first.
type MonthGroup struct {
	Key    string
	Label  string
	Season string
	Dates  []DateGroup
}
