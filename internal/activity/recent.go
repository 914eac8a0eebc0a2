package activity

import (
	"sort"

	"activitylog/internal/model"
)

// DefaultRecentCount is the size of the home page teaser.
const DefaultRecentCount = 3

// Teaser is one recent-event card on the home page.
type Teaser struct {
	ID      string `json:"id"`
	Href    string `json:"href"`
	Title   string `json:"title"`
	Summary string `json:"summary"`
	Badge   string `json:"badge"`
	Image   string `json:"image"`
}

// Recent returns the n latest events (undated last) as teasers, picking
// title and summary in lang with the other language as fallback. The
// image is the first cover entry, else the first image, else "1".
func Recent(events []model.Event, n int, lang string, opts Options) []Teaser {
	if n <= 0 {
		n = DefaultRecentCount
	}
	sorted := append([]model.Event(nil), events...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.HasDate() != b.HasDate() {
			return a.HasDate()
		}
		return a.Day.After(b.Day)
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}

	out := make([]Teaser, 0, len(sorted))
	for _, ev := range sorted {
		cover := "1"
		switch {
		case len(ev.Cover) > 0:
			cover = ev.Cover[0]
		case len(ev.Images) > 0:
			cover = ev.Images[0]
		}
		out = append(out, Teaser{
			ID:      ev.ID,
			Href:    "/activity#" + ev.Anchor,
			Title:   Pick(lang, ev.TitleML, ev.Title),
			Summary: Pick(lang, ev.SummaryML, ev.Summary),
			Badge:   BadgeDate(ev.Date, ev.Day),
			Image:   ImagePath(ev.Folder, cover, opts),
		})
	}
	return out
}

// Pick chooses the Malayalam or English text for lang, falling back to
// the other when the preferred one is empty.
func Pick(lang, ml, en string) string {
	if lang == "en" {
		if en != "" {
			return en
		}
		return ml
	}
	if ml != "" {
		return ml
	}
	return en
}
