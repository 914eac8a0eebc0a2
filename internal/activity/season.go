package activity

import "time"

// Season is the cosmetic decoration attached to a month.
type Season struct {
	Tag      string
	Glyph    string
	Gradient string
}

// SeasonScheme maps calendar months to season tags and tags to their
// decoration. Months without an entry, and undated groups, use Fallback.
type SeasonScheme struct {
	ByMonth  map[time.Month]string
	Seasons  map[string]Season
	Fallback string
}

// DefaultSeasons is the six-season Kerala palette.
func DefaultSeasons() SeasonScheme {
	return SeasonScheme{
		ByMonth: map[time.Month]string{
			time.December:  "winter",
			time.January:   "winter",
			time.February:  "winter",
			time.March:     "pre",
			time.April:     "pre",
			time.May:       "hot",
			time.June:      "monsoon",
			time.July:      "monsoon",
			time.August:    "monsoon",
			time.September: "monsoon",
			time.October:   "postmon",
			time.November:  "postmon",
		},
		Seasons: map[string]Season{
			"winter":  {Tag: "winter", Glyph: "❄️", Gradient: "linear-gradient(180deg, #6fb8ff 0%, #d7f0ff 50%, #ffffff 100%)"},
			"pre":     {Tag: "pre", Glyph: "🌸", Gradient: "linear-gradient(180deg, #ffd6f0 0%, #fff1fb 50%, #fff 100%)"},
			"hot":     {Tag: "hot", Glyph: "☀️", Gradient: "linear-gradient(180deg, #ffd89b 0%, #fff3e0 50%, #fff 100%)"},
			"monsoon": {Tag: "monsoon", Glyph: "🌧️", Gradient: "linear-gradient(180deg, #a7f3d0 0%, #e6fbf2 50%, #ffffff 100%)"},
			"postmon": {Tag: "postmon", Glyph: "🍂", Gradient: "linear-gradient(180deg, #eaffd9 0%, #f7fff0 50%, #ffffff 100%)"},
			"cool":    {Tag: "cool", Glyph: "🌬️", Gradient: "linear-gradient(180deg, #dfe9ff 0%, #f7fbff 50%, #ffffff 100%)"},
		},
		Fallback: "cool",
	}
}

// ForDay returns the season for a date; the zero time gets Fallback.
func (s SeasonScheme) ForDay(day time.Time) Season {
	tag := s.Fallback
	if !day.IsZero() {
		if t, ok := s.ByMonth[day.Month()]; ok {
			tag = t
		}
	}
	return s.Lookup(tag)
}

// Lookup returns the decoration for tag, or a bare Season carrying only
// the tag when the table has no entry.
func (s SeasonScheme) Lookup(tag string) Season {
	if season, ok := s.Seasons[tag]; ok {
		return season
	}
	return Season{Tag: tag}
}
