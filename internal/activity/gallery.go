package activity

import (
	"strconv"
	"strings"

	"activitylog/internal/model"
)

// GalleryImage is one gallery entry. Extra images sit beyond the visible
// cap and only show while the gallery is expanded.
type GalleryImage struct {
	Index int    `json:"index"`
	Src   string `json:"src"`
	Alt   string `json:"alt"`
	Extra bool   `json:"extra,omitempty"`
}

// Gallery is a card's image list plus its show more/less state.
type Gallery struct {
	Images   []GalleryImage `json:"images"`
	Visible  int            `json:"visible"`
	Expanded bool           `json:"expanded"`
}

// NewGallery renders every resolved image; those at index >= visible are
// marked Extra.
func NewGallery(ev model.Event, visible int) Gallery {
	if visible <= 0 {
		visible = DefaultVisibleImages
	}
	name := ev.Title
	if name == "" {
		name = ev.TitleML
	}
	g := Gallery{Visible: visible, Images: make([]GalleryImage, len(ev.ImagePaths))}
	for i, src := range ev.ImagePaths {
		g.Images[i] = GalleryImage{
			Index: i,
			Src:   src,
			Alt:   strings.TrimSpace(name + " " + strconv.Itoa(i+1)),
			Extra: i >= visible,
		}
	}
	return g
}

// HasToggle reports whether there are hidden images to reveal.
func (g Gallery) HasToggle() bool {
	return len(g.Images) > g.Visible
}

// Toggle flips between collapsed and expanded.
func (g *Gallery) Toggle() {
	g.Expanded = !g.Expanded
}

// ToggleLabel is the button text for the current state.
func (g Gallery) ToggleLabel() string {
	if g.Expanded {
		return "Show less"
	}
	return "Show more"
}

// Shown returns the images currently on screen.
func (g Gallery) Shown() []GalleryImage {
	if g.Expanded {
		return g.Images
	}
	out := make([]GalleryImage, 0, min(len(g.Images), g.Visible))
	for _, img := range g.Images {
		if !img.Extra {
			out = append(out, img)
		}
	}
	return out
}
