package render

import (
	"bytes"
	"encoding/json"
	"errors"
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"activitylog/internal/activity"
	"activitylog/internal/source"
)

const fixture = `{"events": [
	{"id":"yoga","title":"Yoga Day","title_ml":"യോഗ ദിനം","date":"2025-06-21","organizer":"Karunya Trust","imageCount":8,"folder":"yoga","videoLinks":["https://youtu.be/AAAAAA111","https://youtu.be/BBBBBB222"]},
	{"id":"camp","title":"Health <Camp>","summary":"Free checkups","date":"2025-11-24","folder":"camp"}
]}`

func view(t *testing.T, st activity.ViewState) activity.View {
	t.Helper()
	raws, err := source.Decode([]byte(fixture))
	require.NoError(t, err)
	opts := activity.DefaultOptions()
	return activity.BuildView(activity.Normalize(raws, opts), st, opts)
}

func renderPage(t *testing.T, v activity.View) *html.Node {
	t.Helper()
	r, err := New()
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, r.Page(&buf, v))
	doc, err := html.Parse(&buf)
	require.NoError(t, err)
	return doc
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func hasClass(n *html.Node, class string) bool {
	v, _ := attr(n, "class")
	for _, c := range strings.Fields(v) {
		if c == class {
			return true
		}
	}
	return false
}

func findAll(n *html.Node, match func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && match(n) {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

func byTagClass(tag, class string) func(*html.Node) bool {
	return func(n *html.Node) bool {
		return n.Data == tag && (class == "" || hasClass(n, class))
	}
}

func text(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(b.String())
}

func TestPageMarkup(t *testing.T) {
	doc := renderPage(t, view(t, activity.ViewState{}))

	ready := findAll(doc, func(n *html.Node) bool {
		v, ok := attr(n, "data-ready")
		return ok && v == "true"
	})
	require.Len(t, ready, 1)

	cards := findAll(doc, byTagClass("article", "card"))
	require.Len(t, cards, 2)
	id, _ := attr(cards[0], "id")
	assert.Equal(t, "h-yoga", id)
	style, _ := attr(cards[0], "style")
	assert.Contains(t, style, "linear-gradient", "season gradient survives escaping")

	links := findAll(doc, byTagClass("a", "outline-link"))
	require.Len(t, links, 2)
	for _, l := range links {
		href, _ := attr(l, "href")
		require.True(t, strings.HasPrefix(href, "#"))
		target := findAll(doc, func(n *html.Node) bool {
			v, _ := attr(n, "id")
			return n.Data == "article" && v == href[1:]
		})
		assert.Len(t, target, 1, "outline link %s points at a card", href)
	}

	extras := findAll(cards[0], byTagClass("img", "extra"))
	require.Len(t, extras, 2)
	_, hidden := attr(extras[0], "hidden")
	assert.True(t, hidden)

	toggle := findAll(cards[0], byTagClass("button", "show-toggle"))
	require.Len(t, toggle, 1)
	assert.Equal(t, "Show more", text(toggle[0]))
	assert.Empty(t, findAll(cards[1], byTagClass("button", "show-toggle")))

	lb := findAll(doc, func(n *html.Node) bool {
		v, _ := attr(n, "id")
		return v == "lightbox"
	})
	require.Len(t, lb, 1)
	_, hidden = attr(lb[0], "hidden")
	assert.True(t, hidden)
}

func TestPageEscapesEventText(t *testing.T) {
	r, err := New()
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, r.Page(&buf, view(t, activity.ViewState{})))

	assert.NotContains(t, buf.String(), "<Camp>")
	assert.Contains(t, buf.String(), "Health &lt;Camp&gt;")
}

func TestVideoBlockMarkup(t *testing.T) {
	doc := renderPage(t, view(t, activity.ViewState{}))

	wraps := findAll(doc, byTagClass("div", "video-wrap"))
	require.Len(t, wraps, 1)

	raw, ok := attr(wraps[0], "data-videos")
	require.True(t, ok)
	var sources []activity.VideoSource
	require.NoError(t, json.Unmarshal([]byte(raw), &sources))
	require.Len(t, sources, 2)
	assert.Equal(t, "https://www.youtube.com/embed/BBBBBB222?rel=0", sources[1].Embed)
	assert.Equal(t, "https://i.ytimg.com/vi/BBBBBB222/hqdefault.jpg", sources[1].FallbackPoster)

	selects := findAll(wraps[0], byTagClass("button", "video-select"))
	require.Len(t, selects, 2)
	assert.True(t, hasClass(selects[0], "active"))
	assert.Empty(t, findAll(wraps[0], byTagClass("iframe", "")))

	playing := renderPage(t, view(t, activity.ViewState{
		Playing:       map[string]bool{"yoga": true},
		SelectedVideo: map[string]int{"yoga": 1},
	}))
	frames := findAll(playing, byTagClass("iframe", "video-player"))
	require.Len(t, frames, 1)
	src, _ := attr(frames[0], "src")
	assert.Equal(t, "https://www.youtube.com/embed/BBBBBB222?rel=0&autoplay=1", src)
}

func TestPlaceholderAndActiveLink(t *testing.T) {
	doc := renderPage(t, view(t, activity.ViewState{LoadErr: errors.New("boom")}))
	p := findAll(doc, byTagClass("p", "placeholder"))
	require.Len(t, p, 1)
	assert.Equal(t, activity.PlaceholderLoadFailed, text(p[0]))
	assert.Empty(t, findAll(doc, byTagClass("article", "card")))

	doc = renderPage(t, view(t, activity.ViewState{ActiveCard: "h-camp"}))
	active := findAll(doc, byTagClass("a", "active"))
	require.Len(t, active, 1)
	href, _ := attr(active[0], "href")
	assert.Equal(t, "#h-camp", href)
}

func TestRecentFragment(t *testing.T) {
	raws, err := source.Decode([]byte(fixture))
	require.NoError(t, err)
	opts := activity.DefaultOptions()
	teasers := activity.Recent(activity.Normalize(raws, opts), 3, "en", opts)

	r, err := New()
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, r.Recent(&buf, teasers))
	doc, err := html.Parse(&buf)
	require.NoError(t, err)

	cards := findAll(doc, byTagClass("a", "recent-card"))
	require.Len(t, cards, 2)
	href, _ := attr(cards[0], "href")
	assert.Equal(t, "/activity#h-camp", href)
	badge := findAll(cards[0], byTagClass("span", "badge"))
	require.Len(t, badge, 1)
	assert.Equal(t, "NOV 24", text(badge[0]))
}

func TestSearchControls(t *testing.T) {
	doc := renderPage(t, view(t, activity.ViewState{}))
	input := findAll(doc, func(n *html.Node) bool {
		id, _ := attr(n, "id")
		return n.Data == "input" && id == "search"
	})
	require.Len(t, input, 1)
	clearLink := findAll(doc, byTagClass("a", "clear-search"))
	require.Len(t, clearLink, 1)
	href, _ := attr(clearLink[0], "href")
	assert.Equal(t, "/activity?lang=ml", href)
	_, hidden := attr(clearLink[0], "hidden")
	assert.True(t, hidden, "nothing to clear without a query")

	doc = renderPage(t, view(t, activity.ViewState{Query: "yoga", Lang: "en"}))
	input = findAll(doc, func(n *html.Node) bool {
		id, _ := attr(n, "id")
		return n.Data == "input" && id == "search"
	})
	require.Len(t, input, 1)
	value, _ := attr(input[0], "value")
	assert.Equal(t, "yoga", value)
	clearLink = findAll(doc, byTagClass("a", "clear-search"))
	require.Len(t, clearLink, 1)
	href, _ = attr(clearLink[0], "href")
	assert.Equal(t, "/activity?lang=en", href)
	_, hidden = attr(clearLink[0], "hidden")
	assert.False(t, hidden)
	assert.Len(t, findAll(doc, byTagClass("article", "card")), 1)
}

func TestStaticAssets(t *testing.T) {
	static, err := Static()
	require.NoError(t, err)
	for _, name := range []string{"app.css", "app.js"} {
		b, err := fs.ReadFile(static, name)
		require.NoError(t, err, name)
		assert.NotEmpty(t, b)
	}

	js, err := fs.ReadFile(static, "app.js")
	require.NoError(t, err)
	assert.Contains(t, string(js), `addEventListener("input"`)
	assert.Contains(t, string(js), ".clear-search")
}
