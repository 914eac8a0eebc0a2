// Package scrollspy decides which outline entry is highlighted while the
// activity log scrolls. The browser reports card intersections with a
// band around the middle of the viewport; the Coordinator turns each
// batch into at most one active card.
package scrollspy

import (
	"math"
	"strings"
)

// BandMargin is the fraction of the viewport height trimmed from the top
// and from the bottom to form the detection band (the middle 20%).
const BandMargin = 0.4

// fallbackLine is where, as a fraction of viewport height, a card's top
// edge is compared when nothing intersects the band.
const fallbackLine = 0.25

type State int

const (
	Idle State = iota
	Observing
)

func (s State) String() string {
	if s == Observing {
		return "observing"
	}
	return "idle"
}

// Rect is a vertical extent in viewport coordinates.
type Rect struct {
	Top    float64
	Height float64
}

func (r Rect) Bottom() float64 { return r.Top + r.Height }

// Entry is one intersection report for a card.
type Entry struct {
	CardID       string
	Intersecting bool
	Ratio        float64
}

// Layout answers geometry questions for the fallback path.
type Layout interface {
	ViewportHeight() float64
	CardTop(cardID string) (float64, bool)
}

// Coordinator tracks the registered cards, the last reported ratio of
// each card inside the band and the single active entry.
type Coordinator struct {
	state  State
	cards  []string
	links  map[string]string
	ratios map[string]float64
	active string
}

func New() *Coordinator {
	return &Coordinator{links: make(map[string]string), ratios: make(map[string]float64)}
}

// Start registers the rendered cards and outline hrefs ("#<card-id>")
// and begins observing. Any previous registration is dropped. With no
// cards or no links there is nothing to observe and the coordinator
// stays idle.
func (c *Coordinator) Start(cardIDs, hrefs []string) bool {
	c.Stop()
	for _, h := range hrefs {
		id := strings.TrimPrefix(h, "#")
		if id != "" {
			c.links[id] = h
		}
	}
	if len(cardIDs) == 0 || len(c.links) == 0 {
		c.links = make(map[string]string)
		return false
	}
	c.cards = append(c.cards[:0], cardIDs...)
	c.state = Observing
	return true
}

// Stop returns to idle and forgets all registrations.
func (c *Coordinator) Stop() {
	c.state = Idle
	c.cards = nil
	c.links = make(map[string]string)
	c.ratios = make(map[string]float64)
	c.active = ""
}

func (c *Coordinator) State() State { return c.state }

// Active is the card whose outline entry is highlighted, or "".
func (c *Coordinator) Active() string { return c.active }

// ActiveLink is the href of the highlighted outline entry, or "".
func (c *Coordinator) ActiveLink() string { return c.links[c.active] }

// Observe handles one batch of intersection reports. A batch only
// carries cards whose intersection changed; every other card keeps its
// last reported state. Among all cards currently inside the band the
// highest ratio wins; on a tie the currently active card is kept,
// otherwise the first in card order wins. When nothing intersects, the
// card whose top edge is closest to a quarter of the viewport height is
// chosen. It returns the active card and whether it changed.
func (c *Coordinator) Observe(batch []Entry, layout Layout) (string, bool) {
	if c.state != Observing {
		return c.active, false
	}

	for _, e := range batch {
		if _, ok := c.links[e.CardID]; !ok {
			continue
		}
		if e.Intersecting {
			c.ratios[e.CardID] = e.Ratio
		} else {
			delete(c.ratios, e.CardID)
		}
	}

	best, bestRatio := "", -1.0
	for _, id := range c.cards {
		r, ok := c.ratios[id]
		if !ok {
			continue
		}
		if r > bestRatio || (r == bestRatio && id == c.active) {
			best, bestRatio = id, r
		}
	}

	if best != "" {
		return c.setActive(best)
	}
	if layout == nil {
		return c.active, false
	}
	if id, ok := c.closestToLine(layout); ok {
		return c.setActive(id)
	}
	return c.active, false
}

// Click marks cardID active straight away, ahead of the observer, and
// returns the card to scroll into view. The next Observe call confirms
// or overrides the choice.
func (c *Coordinator) Click(cardID string) (string, bool) {
	if _, ok := c.links[cardID]; !ok {
		return "", false
	}
	c.active = cardID
	return cardID, true
}

func (c *Coordinator) setActive(id string) (string, bool) {
	if _, ok := c.links[id]; !ok {
		return c.active, false
	}
	changed := id != c.active
	c.active = id
	return id, changed
}

func (c *Coordinator) closestToLine(layout Layout) (string, bool) {
	line := layout.ViewportHeight() * fallbackLine
	bestID, bestDist := "", math.Inf(1)
	for _, id := range c.cards {
		top, ok := layout.CardTop(id)
		if !ok {
			continue
		}
		if d := math.Abs(top - line); d < bestDist {
			bestID, bestDist = id, d
		}
	}
	return bestID, bestID != ""
}

// Band returns the detection band for a viewport height.
func Band(viewportHeight float64) Rect {
	top := viewportHeight * BandMargin
	return Rect{Top: top, Height: viewportHeight - 2*top}
}

// IntersectBand computes the report a card at r would produce: whether
// it overlaps the band and which fraction of the card's height does.
func IntersectBand(cardID string, r Rect, viewportHeight float64) Entry {
	band := Band(viewportHeight)
	overlap := math.Min(r.Bottom(), band.Bottom()) - math.Max(r.Top, band.Top)
	if overlap <= 0 || r.Height <= 0 {
		return Entry{CardID: cardID}
	}
	return Entry{CardID: cardID, Intersecting: true, Ratio: overlap / r.Height}
}

// OutlineScroll returns how far to scroll the outline panel so the
// active link sits in its vertical center. ok is false when the link is
// already fully visible.
func OutlineScroll(link, container Rect) (float64, bool) {
	if link.Top >= container.Top && link.Bottom() <= container.Bottom() {
		return 0, false
	}
	return link.Top - container.Top - container.Height/2 + link.Height/2, true
}
