// Package lightbox holds the state of the page's single image overlay.
package lightbox

// Target identifies what a click inside the overlay landed on.
type Target int

const (
	TargetImage Target = iota
	TargetBackdrop
	TargetClose
)

// State is a snapshot of the overlay for rendering.
type State struct {
	Open    bool   `json:"open"`
	Src     string `json:"src,omitempty"`
	Alt     string `json:"alt,omitempty"`
	Caption string `json:"caption,omitempty"`
}

// Lightbox shows at most one image. Opening replaces whatever is shown;
// there is no queue.
type Lightbox struct {
	state State
}

func New() *Lightbox { return &Lightbox{} }

// Open shows src with the given alt text and caption.
func (l *Lightbox) Open(src, alt, caption string) {
	l.state = State{Open: true, Src: src, Alt: alt, Caption: caption}
}

// Close hides the overlay and clears the image source so the browser
// releases the loaded image.
func (l *Lightbox) Close() {
	l.state = State{}
}

// HandleKey closes on Escape. It reports whether the key was consumed.
func (l *Lightbox) HandleKey(key string) bool {
	if key != "Escape" || !l.state.Open {
		return false
	}
	l.Close()
	return true
}

// HandleClick closes when the backdrop or the close control is clicked.
func (l *Lightbox) HandleClick(t Target) bool {
	if !l.state.Open || t == TargetImage {
		return false
	}
	l.Close()
	return true
}

func (l *Lightbox) IsOpen() bool { return l.state.Open }

// Snapshot returns the current state. A nil Lightbox is closed.
func (l *Lightbox) Snapshot() State {
	if l == nil {
		return State{}
	}
	return l.state
}
