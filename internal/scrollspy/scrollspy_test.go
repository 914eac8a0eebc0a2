package scrollspy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLayout struct {
	height float64
	tops   map[string]float64
}

func (f fakeLayout) ViewportHeight() float64 { return f.height }

func (f fakeLayout) CardTop(id string) (float64, bool) {
	top, ok := f.tops[id]
	return top, ok
}

func started(t *testing.T, cards ...string) *Coordinator {
	t.Helper()
	hrefs := make([]string, len(cards))
	for i, c := range cards {
		hrefs[i] = "#" + c
	}
	c := New()
	require.True(t, c.Start(cards, hrefs))
	require.Equal(t, Observing, c.State())
	return c
}

func TestHighestRatioWins(t *testing.T) {
	c := started(t, "h-a", "h-b", "h-c")

	id, changed := c.Observe([]Entry{
		{CardID: "h-a", Intersecting: true, Ratio: 0.3},
		{CardID: "h-b", Intersecting: true, Ratio: 0.7},
		{CardID: "h-c", Intersecting: false, Ratio: 0.9},
	}, nil)

	assert.Equal(t, "h-b", id)
	assert.True(t, changed)
	assert.Equal(t, "#h-b", c.ActiveLink())
}

func TestTieKeepsPreviouslyActive(t *testing.T) {
	c := started(t, "h-a", "h-b")
	c.Observe([]Entry{{CardID: "h-b", Intersecting: true, Ratio: 1}}, nil)

	id, changed := c.Observe([]Entry{
		{CardID: "h-a", Intersecting: true, Ratio: 0.5},
		{CardID: "h-b", Intersecting: true, Ratio: 0.5},
	}, nil)
	assert.Equal(t, "h-b", id)
	assert.False(t, changed)
}

func TestTieWithoutActiveIsFirstInCardOrder(t *testing.T) {
	c := started(t, "h-a", "h-b")

	id, _ := c.Observe([]Entry{
		{CardID: "h-b", Intersecting: true, Ratio: 0.5},
		{CardID: "h-a", Intersecting: true, Ratio: 0.5},
	}, nil)
	assert.Equal(t, "h-a", id)
}

func TestRatiosPersistAcrossBatches(t *testing.T) {
	c := started(t, "h-a", "h-b", "h-c")
	layout := fakeLayout{height: 800, tops: map[string]float64{"h-a": -400, "h-b": -100, "h-c": 700}}

	id, _ := c.Observe([]Entry{
		{CardID: "h-a", Intersecting: true, Ratio: 0.4},
		{CardID: "h-b", Intersecting: true, Ratio: 0.6},
	}, layout)
	require.Equal(t, "h-b", id)

	// Only h-b leaving is reported; h-a is still inside the band.
	id, changed := c.Observe([]Entry{{CardID: "h-b", Intersecting: false}}, layout)
	assert.Equal(t, "h-a", id)
	assert.True(t, changed)

	// An unreported card keeps its ratio against a newly reported one.
	id, _ = c.Observe([]Entry{{CardID: "h-c", Intersecting: true, Ratio: 0.2}}, layout)
	assert.Equal(t, "h-a", id)
}

func TestFallbackToQuarterLine(t *testing.T) {
	c := started(t, "h-a", "h-b", "h-c")
	layout := fakeLayout{height: 800, tops: map[string]float64{"h-a": -900, "h-b": 150, "h-c": 700}}

	id, changed := c.Observe([]Entry{{CardID: "h-a", Intersecting: false}}, layout)
	assert.Equal(t, "h-b", id, "top 150 is closest to 200")
	assert.True(t, changed)
}

func TestClickMarksActiveImmediately(t *testing.T) {
	c := started(t, "h-a", "h-b")
	c.Observe([]Entry{{CardID: "h-a", Intersecting: true, Ratio: 1}}, nil)

	target, ok := c.Click("h-b")
	require.True(t, ok)
	assert.Equal(t, "h-b", target)
	assert.Equal(t, "h-b", c.Active())

	// The next intersection batch overrides the optimistic choice.
	id, changed := c.Observe([]Entry{{CardID: "h-a", Intersecting: true, Ratio: 0.8}}, nil)
	assert.Equal(t, "h-a", id)
	assert.True(t, changed)

	_, ok = c.Click("h-missing")
	assert.False(t, ok)
}

func TestIdleIgnoresBatches(t *testing.T) {
	c := New()
	assert.False(t, c.Start(nil, []string{"#h-a"}))
	assert.Equal(t, Idle, c.State())

	id, changed := c.Observe([]Entry{{CardID: "h-a", Intersecting: true, Ratio: 1}}, nil)
	assert.Empty(t, id)
	assert.False(t, changed)

	c = started(t, "h-a")
	c.Observe([]Entry{{CardID: "h-a", Intersecting: true, Ratio: 1}}, nil)
	c.Stop()
	assert.Equal(t, Idle, c.State())
	assert.Empty(t, c.Active())
}

func TestRestartDropsOldCards(t *testing.T) {
	c := started(t, "h-a", "h-b")
	require.True(t, c.Start([]string{"h-b"}, []string{"#h-b"}))

	id, _ := c.Observe([]Entry{{CardID: "h-a", Intersecting: true, Ratio: 1}}, nil)
	assert.Empty(t, id, "cards filtered out of the new render are not selectable")
}

func TestIntersectBand(t *testing.T) {
	band := Band(1000)
	assert.Equal(t, Rect{Top: 400, Height: 200}, band)

	e := IntersectBand("h-a", Rect{Top: 300, Height: 400}, 1000)
	assert.True(t, e.Intersecting)
	assert.InDelta(t, 0.5, e.Ratio, 1e-9)

	e = IntersectBand("h-a", Rect{Top: 0, Height: 300}, 1000)
	assert.False(t, e.Intersecting)

	e = IntersectBand("h-a", Rect{Top: 450, Height: 100}, 1000)
	assert.InDelta(t, 1.0, e.Ratio, 1e-9)
}

func TestOutlineScroll(t *testing.T) {
	container := Rect{Top: 100, Height: 400}

	_, ok := OutlineScroll(Rect{Top: 150, Height: 30}, container)
	assert.False(t, ok, "visible link needs no scroll")

	off, ok := OutlineScroll(Rect{Top: 600, Height: 40}, container)
	require.True(t, ok)
	assert.InDelta(t, 320, off, 1e-9)

	off, ok = OutlineScroll(Rect{Top: 50, Height: 20}, container)
	require.True(t, ok)
	assert.InDelta(t, -240, off, 1e-9)
}
