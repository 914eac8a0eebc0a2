package activity

import (
	"strings"

	"activitylog/internal/model"
)

// Filter keeps the events whose bilingual title, organizer or summary
// contains query, case-insensitively. An empty query returns events
// unchanged and in order.
func Filter(events []model.Event, query string) []model.Event {
	q := lower(strings.TrimSpace(query))
	if q == "" {
		return events
	}
	out := make([]model.Event, 0, len(events))
	for _, ev := range events {
		if strings.Contains(haystack(ev), q) {
			out = append(out, ev)
		}
	}
	return out
}

func haystack(ev model.Event) string {
	return lower(strings.Join([]string{
		ev.Title, ev.TitleML,
		ev.Organizer, ev.OrganizerML,
		ev.Summary, ev.SummaryML,
	}, " "))
}
