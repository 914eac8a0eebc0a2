// Package ics publishes the activity log as an iCalendar feed.
package ics

import (
	"fmt"
	"io"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	"activitylog/internal/activity"
	appLog "activitylog/internal/log"
	"activitylog/internal/model"
)

const productID = "-//activitylog//activity log feed//EN"

// ExportOptions controls how events become VEVENTs.
type ExportOptions struct {
	// Name is the calendar display name (X-WR-CALNAME).
	Name string
	// Domain is the right-hand side of every UID.
	Domain string
	// PageURL is the absolute URL of the activity page; each event links
	// to its card anchor on it. Empty omits URL properties.
	PageURL string
	// Lang picks SUMMARY and DESCRIPTION text ("ml" or "en").
	Lang string
	// Now stamps DTSTAMP. Zero means time.Now().
	Now time.Time
}

// Export builds a calendar with one all-day VEVENT per dated event.
// Events without a parseable date are skipped.
func Export(events []model.Event, opts ExportOptions) *ical.Calendar {
	if opts.Domain == "" {
		opts.Domain = "activitylog.local"
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	cal := ical.NewCalendar()
	cal.SetProductId(productID)
	cal.SetMethod(ical.MethodPublish)
	if opts.Name != "" {
		cal.SetXWRCalName(opts.Name)
	}

	skipped := 0
	for _, ev := range events {
		if !ev.HasDate() {
			skipped++
			continue
		}
		ve := cal.AddEvent(ev.ID + "@" + opts.Domain)
		ve.SetDtStampTime(now.UTC())
		ve.SetAllDayStartAt(ev.Day)
		ve.SetAllDayEndAt(ev.Day.AddDate(0, 0, 1))
		ve.SetSummary(summaryFor(ev, opts.Lang))
		if d := descriptionFor(ev, opts.Lang); d != "" {
			ve.SetDescription(d)
		}
		if opts.PageURL != "" {
			ve.SetURL(opts.PageURL + "#" + ev.Anchor)
		}
	}

	if skipped > 0 {
		appLog.Debug("ics export skipped undated events", "skipped", skipped)
	}
	return cal
}

// Write serializes Export's calendar to w.
func Write(w io.Writer, events []model.Event, opts ExportOptions) error {
	if err := Export(events, opts).SerializeTo(w); err != nil {
		return fmt.Errorf("ics: serialize: %w", err)
	}
	return nil
}

func summaryFor(ev model.Event, lang string) string {
	if s := activity.Pick(lang, ev.TitleML, ev.Title); s != "" {
		return s
	}
	return ev.ID
}

func descriptionFor(ev model.Event, lang string) string {
	parts := make([]string, 0, 2)
	if s := activity.Pick(lang, ev.SummaryML, ev.Summary); s != "" {
		parts = append(parts, s)
	}
	if o := activity.Pick(lang, ev.OrganizerML, ev.Organizer); o != "" {
		parts = append(parts, o)
	}
	return strings.Join(parts, "\n\n")
}
