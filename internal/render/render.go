// Package render turns an activity.View into HTML. The templates, the
// stylesheet and the browser script are embedded in the binary.
package render

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"io/fs"

	"activitylog/internal/activity"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Renderer holds the parsed page templates.
type Renderer struct {
	tmpl *template.Template
}

// New parses the embedded templates.
func New() (*Renderer, error) {
	funcs := template.FuncMap{
		// Gradients come from the season table, never from event data.
		"gradient": func(s string) template.CSS { return template.CSS(s) },
		"sources":  videoSources,
	}
	t, err := template.New("activity").Funcs(funcs).ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("render: parse templates: %w", err)
	}
	return &Renderer{tmpl: t}, nil
}

// Page writes the full activity page.
func (r *Renderer) Page(w io.Writer, v activity.View) error {
	return r.execute(w, "page", v)
}

// Recent writes the teaser fragment for the latest events.
func (r *Renderer) Recent(w io.Writer, teasers []activity.Teaser) error {
	return r.execute(w, "recent", teasers)
}

// execute renders into a buffer first so a template error never leaves a
// half-written response behind.
func (r *Renderer) execute(w io.Writer, name string, data any) error {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return fmt.Errorf("render: execute %s: %w", name, err)
	}
	if _, err := buf.WriteTo(w); err != nil {
		return fmt.Errorf("render: write %s: %w", name, err)
	}
	return nil
}

// Static returns the stylesheet and script, rooted so that "app.css" and
// "app.js" are top-level names.
func Static() (fs.FS, error) {
	return fs.Sub(staticFS, "static")
}

func videoSources(v *activity.VideoView) (string, error) {
	if v == nil {
		return "[]", nil
	}
	b, err := json.Marshal(v.Sources)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
