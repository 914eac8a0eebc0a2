package activity

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"activitylog/internal/model"
)

var anchorStrip = regexp.MustCompile(`[^a-z0-9_-]`)

// Normalize converts raw records into canonical events. It never fails:
// missing ids become "evt-<index>", missing images default as described
// on ResolveImages, and unparseable dates leave Day zero.
func Normalize(raws []model.RawEvent, opts Options) []model.Event {
	out := make([]model.Event, 0, len(raws))
	anchors := make(map[string]int, len(raws))

	for i, raw := range raws {
		id := raw.ID.String()
		if id == "" {
			id = fmt.Sprintf("evt-%d", i)
		}

		ev := model.Event{
			ID:          id,
			Anchor:      uniqueAnchor(anchorFor(id), anchors),
			Title:       raw.Title.String(),
			TitleML:     raw.TitleML.String(),
			Organizer:   raw.Organizer.String(),
			OrganizerML: raw.OrganizerML.String(),
			Summary:     raw.Summary.String(),
			SummaryML:   raw.SummaryML.String(),
			Folder:      raw.Folder.String(),
			Date:        raw.Date.String(),
			Images:      ResolveImages(raw),
			Cover:       append([]string(nil), raw.Cover...),
			Videos:      NormalizeVideos(raw, opts.Platform),
		}
		if day, ok := ParseDate(ev.Date); ok {
			ev.Day = day
		}
		ev.Season = opts.Seasons.ForDay(ev.Day).Tag

		ev.ImagePaths = make([]string, len(ev.Images))
		for j, name := range ev.Images {
			ev.ImagePaths[j] = ImagePath(ev.Folder, name, opts)
		}

		icon := raw.Icon.String()
		if icon == "" {
			icon = opts.DefaultIcon
		}
		ev.IconPath = ImagePath(ev.Folder, icon, opts)
		ev.FallbackIconPath = opts.FallbackIcon

		out = append(out, ev)
	}
	return out
}

// anchorFor derives the DOM id shared by a card and its outline link.
func anchorFor(id string) string {
	return "h-" + anchorStrip.ReplaceAllString(strings.ToLower(id), "")
}

// uniqueAnchor suffixes repeated anchors ("h-a", "h-a-2", ...) so the
// outline never points two links at one card.
func uniqueAnchor(a string, seen map[string]int) string {
	seen[a]++
	if n := seen[a]; n > 1 {
		candidate := a + "-" + strconv.Itoa(n)
		for seen[candidate] > 0 {
			n++
			candidate = a + "-" + strconv.Itoa(n)
		}
		seen[candidate]++
		return candidate
	}
	return a
}
