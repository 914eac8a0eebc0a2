package activity

import (
	"path"
	"regexp"
	"strconv"
	"strings"

	"activitylog/internal/model"
)

var (
	protocolPrefix = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9+.\-]*:`)
	knownExt       = regexp.MustCompile(`(?i)\.[a-z0-9]{1,6}$`)
)

// defaultImages is used when an event has neither images nor imageCount.
var defaultImages = []string{"1", "2", "3"}

// ResolveImages returns the image identifiers for a raw record: the
// explicit list if non-empty, else 1..imageCount (at most
// model.MaxImageCount), else [1,2,3].
func ResolveImages(raw model.RawEvent) []string {
	if len(raw.Images) > 0 {
		return append([]string(nil), raw.Images...)
	}
	if n := min(int(raw.ImageCount), model.MaxImageCount); n > 0 {
		out := make([]string, n)
		for i := range out {
			out[i] = strconv.Itoa(i + 1)
		}
		return out
	}
	return append([]string(nil), defaultImages...)
}

// ImagePath resolves an image name to a source. Names that already carry
// a protocol or a path separator are returned verbatim; otherwise the
// name goes under <base>/<events dir>/<folder>/ (or <base>/ without a
// folder) and gets the default extension if it has none.
func ImagePath(folder, name string, opts Options) string {
	s := strings.TrimSpace(name)
	if s == "" {
		return ""
	}
	if protocolPrefix.MatchString(s) || strings.HasPrefix(s, "//") || strings.Contains(s, "/") {
		return s
	}
	if !knownExt.MatchString(s) {
		s += "." + opts.DefaultExt
	}
	folder = strings.TrimSpace(folder)
	if folder != "" {
		return path.Join(opts.ImageBase, opts.EventsDir, folder, s)
	}
	return path.Join(opts.ImageBase, s)
}
