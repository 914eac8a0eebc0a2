package activity

import (
	"fmt"
	"regexp"
	"strings"

	"activitylog/internal/model"
)

// VideoPlatform describes how one hosting platform shapes its URLs. New
// platforms are added by registering another table entry.
type VideoPlatform struct {
	Name string

	// URLPatterns capture the video id in group 1.
	URLPatterns []*regexp.Regexp
	// BareID matches a string that is itself an id.
	BareID *regexp.Regexp

	EmbedFormat          string
	PosterFormat         string
	FallbackPosterFormat string
}

// YouTube is the default platform.
var YouTube = VideoPlatform{
	Name: "youtube",
	URLPatterns: []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:v=|/embed/|youtu\.be/|/v/|/shorts/)([A-Za-z0-9_-]{6,})`),
	},
	BareID:               regexp.MustCompile(`^[A-Za-z0-9_-]{6,}$`),
	EmbedFormat:          "https://www.youtube.com/embed/%s?rel=0",
	PosterFormat:         "https://i.ytimg.com/vi/%s/maxresdefault.jpg",
	FallbackPosterFormat: "https://i.ytimg.com/vi/%s/hqdefault.jpg",
}

var platforms = map[string]VideoPlatform{
	YouTube.Name: YouTube,
}

// RegisterPlatform adds or replaces a platform in the lookup table.
func RegisterPlatform(p VideoPlatform) {
	platforms[strings.ToLower(p.Name)] = p
}

// LookupPlatform finds a registered platform by name.
func LookupPlatform(name string) (VideoPlatform, bool) {
	p, ok := platforms[strings.ToLower(strings.TrimSpace(name))]
	return p, ok
}

// ExtractID pulls a video id out of a URL or returns s itself when it is
// a bare id. ok is false when neither applies.
func (p VideoPlatform) ExtractID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	for _, re := range p.URLPatterns {
		if m := re.FindStringSubmatch(s); len(m) > 1 {
			return m[1], true
		}
	}
	if p.BareID != nil && p.BareID.MatchString(s) {
		return s, true
	}
	return "", false
}

func (p VideoPlatform) EmbedURL(id string) string {
	if id == "" {
		return ""
	}
	return fmt.Sprintf(p.EmbedFormat, id)
}

func (p VideoPlatform) PosterURL(id string) string {
	if id == "" || p.PosterFormat == "" {
		return ""
	}
	return fmt.Sprintf(p.PosterFormat, id)
}

func (p VideoPlatform) FallbackPosterURL(id string) string {
	if id == "" || p.FallbackPosterFormat == "" {
		return ""
	}
	return fmt.Sprintf(p.FallbackPosterFormat, id)
}

// NormalizeVideos reconciles videoLinks, videoId and videoUrl into
// {id,url} entries. videoLinks wins when it yields anything; otherwise
// videoId and videoUrl are tried in that order. Entries that yield
// neither an id nor a URL are dropped and duplicates by (id,url) are
// removed, keeping first-seen order.
func NormalizeVideos(raw model.RawEvent, p VideoPlatform) []model.VideoEntry {
	var out []model.VideoEntry

	for _, ref := range raw.VideoLinks {
		if e, ok := p.fromRef(ref); ok {
			out = append(out, e)
		}
	}
	if len(out) == 0 {
		if e, ok := p.fromString(raw.VideoID.String()); ok {
			out = append(out, e)
		}
		if e, ok := p.fromString(raw.VideoURL.String()); ok {
			out = append(out, e)
		}
	}

	seen := make(map[string]struct{}, len(out))
	uniq := out[:0]
	for _, e := range out {
		key := e.URL + "|" + e.ID
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		uniq = append(uniq, e)
	}
	if len(uniq) == 0 {
		return nil
	}
	return uniq
}

func (p VideoPlatform) fromString(s string) (model.VideoEntry, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return model.VideoEntry{}, false
	}
	if id, ok := p.ExtractID(s); ok {
		return model.VideoEntry{ID: id, URL: p.EmbedURL(id)}, true
	}
	return model.VideoEntry{URL: s}, true
}

func (p VideoPlatform) fromRef(ref model.VideoRef) (model.VideoEntry, bool) {
	if !ref.IsObject() {
		return p.fromString(ref.Raw)
	}
	if ref.ID != "" {
		id, ok := p.ExtractID(ref.ID)
		if !ok {
			// An explicit id field is trusted even if it is short.
			id = ref.ID
		}
		return model.VideoEntry{ID: id, URL: p.EmbedURL(id)}, true
	}
	return p.fromString(ref.URL)
}
