package activity

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"activitylog/internal/model"
)

// overlapThreshold is the token-overlap ratio at or above which two
// subtitle lines count as the same line.
const overlapThreshold = 0.6

// lower folds case without locale-specific rules. A Caser is stateful,
// so one is built per call.
func lower(s string) string {
	return cases.Lower(language.Und).String(s)
}

// normalizeText lower-cases s, keeps ASCII word characters, the
// Malayalam block and whitespace, and collapses runs of whitespace.
func normalizeText(s string) string {
	s = lower(s)
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		case r >= 0x0D00 && r <= 0x0D7F:
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// effectivelySame compares two normalized lines: equal, one containing
// the other, or token-set overlap (relative to the smaller set) of at
// least overlapThreshold.
func effectivelySame(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	if a == b || strings.Contains(a, b) || strings.Contains(b, a) {
		return true
	}
	return tokenOverlap(a, b) >= overlapThreshold
}

func tokenOverlap(a, b string) float64 {
	setA := tokenSet(a)
	setB := tokenSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}
	common := 0
	for t := range setA {
		if _, ok := setB[t]; ok {
			common++
		}
	}
	return float64(common) / float64(min(len(setA), len(setB)))
}

func tokenSet(s string) map[string]struct{} {
	fields := strings.Fields(s)
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}

// Subtitles returns the organizer lines to show under a card title:
// organizer_ml then organizer, skipping lines that are empty, repeat the
// previous line, overlap a title by containment, or are effectively the
// same as a line already accepted. Lines keep their original text.
func Subtitles(ev model.Event) []string {
	var titles []string
	for _, t := range []string{ev.TitleML, ev.Title} {
		if n := normalizeText(t); n != "" {
			titles = append(titles, n)
		}
	}

	var lines, norms []string
	for _, cand := range []string{ev.OrganizerML, ev.Organizer} {
		raw := strings.TrimSpace(cand)
		n := normalizeText(raw)
		if n == "" {
			continue
		}
		if len(norms) > 0 && norms[len(norms)-1] == n {
			continue
		}
		if containsEither(n, titles) {
			continue
		}
		dup := false
		for _, prev := range norms {
			if effectivelySame(n, prev) {
				dup = true
				break
			}
		}
		if dup {
			continue
		}
		lines = append(lines, raw)
		norms = append(norms, n)
	}
	return lines
}

func containsEither(n string, titles []string) bool {
	for _, t := range titles {
		if n == t || strings.Contains(n, t) || strings.Contains(t, n) {
			return true
		}
	}
	return false
}
