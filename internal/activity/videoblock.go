package activity

import (
	"strconv"
	"strings"

	"activitylog/internal/model"
)

const (
	posterPrimary = iota
	posterFallback
	posterBlank
)

// VideoBlock is the state of one card's video area: which entry is
// selected, whether the player has replaced the poster, and how far the
// poster has fallen back after load failures.
type VideoBlock struct {
	entries  []model.VideoEntry
	platform VideoPlatform

	selected int
	playing  bool
	poster   int
}

// VideoControl is one "Video N" selector.
type VideoControl struct {
	Index  int
	Label  string
	Active bool
}

// NewVideoBlock returns nil when there are no entries; cards without
// videos render no block at all.
func NewVideoBlock(entries []model.VideoEntry, p VideoPlatform) *VideoBlock {
	if len(entries) == 0 {
		return nil
	}
	return &VideoBlock{entries: entries, platform: p}
}

func (b *VideoBlock) Entries() []model.VideoEntry { return b.entries }
func (b *VideoBlock) Selected() int              { return b.selected }
func (b *VideoBlock) Playing() bool              { return b.playing }

// Play swaps the poster for the embedded player of the selected entry.
func (b *VideoBlock) Play() {
	b.playing = true
}

// Select makes entry i current. It reports false for an out-of-range or
// already-selected index. The poster follows the new entry and, if the
// player is already embedded, PlayerURL changes in place.
func (b *VideoBlock) Select(i int) bool {
	if i < 0 || i >= len(b.entries) || i == b.selected {
		return false
	}
	b.selected = i
	b.poster = posterPrimary
	return true
}

// PosterFailed advances the poster one fallback step and returns the new
// source. After the lower-resolution variant fails the poster stays blank.
func (b *VideoBlock) PosterFailed() string {
	if b.poster < posterBlank {
		b.poster++
	}
	return b.PosterURL()
}

// PosterURL is the poster for the selected entry at the current fallback
// step; blank when the entry has no platform id.
func (b *VideoBlock) PosterURL() string {
	id := b.entries[b.selected].ID
	switch b.poster {
	case posterPrimary:
		return b.platform.PosterURL(id)
	case posterFallback:
		return b.platform.FallbackPosterURL(id)
	default:
		return ""
	}
}

// EmbedURL is the player source without autoplay.
func (b *VideoBlock) EmbedURL() string {
	return embedFor(b.entries[b.selected], b.platform)
}

// PlayerURL is the embed source with autoplay appended.
func (b *VideoBlock) PlayerURL() string {
	return withAutoplay(b.EmbedURL())
}

// Controls returns one selector per entry when there is more than one.
func (b *VideoBlock) Controls() []VideoControl {
	if len(b.entries) < 2 {
		return nil
	}
	out := make([]VideoControl, len(b.entries))
	for i := range b.entries {
		out[i] = VideoControl{
			Index:  i,
			Label:  "Video " + strconv.Itoa(i+1),
			Active: i == b.selected,
		}
	}
	return out
}

func embedFor(e model.VideoEntry, p VideoPlatform) string {
	if e.ID != "" {
		return p.EmbedURL(e.ID)
	}
	if id, ok := p.ExtractID(e.URL); ok {
		return p.EmbedURL(id)
	}
	return e.URL
}

func withAutoplay(u string) string {
	if u == "" {
		return ""
	}
	if strings.Contains(u, "?") {
		return u + "&autoplay=1"
	}
	return u + "?autoplay=1"
}
