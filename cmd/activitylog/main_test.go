package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"activitylog/internal/config"
)

const events = `{"events": [
	{"id":"yoga","title":"Yoga Day","title_ml":"യോഗ ദിനം","date":"2025-06-21"},
	{"id":"camp","title":"Health Camp","date":"2025-11-24"},
	{"id":"later","title":"Someday"}
]}`

// setup writes an events file and a config pointing at it.
func setup(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	eventsPath := filepath.Join(dir, "events.json")
	require.NoError(t, os.WriteFile(eventsPath, []byte(body), 0o600))

	cfg := config.DefaultConfig()
	cfg.Source = config.SourceConfig{ID: "test", Path: eventsPath}
	cfg.CacheDir = filepath.Join(dir, "cache")
	cfg.PreviewPath = filepath.Join(dir, "preview.png")
	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, config.Save(cfgPath, cfg))
	return cfgPath
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRenderCommand(t *testing.T) {
	cfgPath := setup(t, events)

	out, err := execute(t, "--config", cfgPath, "render", "--lang", "en")
	require.NoError(t, err)
	assert.Contains(t, out, `<html lang="en">`)
	assert.Contains(t, out, `id="h-yoga"`)
	assert.Contains(t, out, `id="h-later"`)

	out, err = execute(t, "--config", cfgPath, "render", "-q", "camp")
	require.NoError(t, err)
	assert.NotContains(t, out, `id="h-yoga"`)

	out, err = execute(t, "--config", cfgPath, "render", "--recent")
	require.NoError(t, err)
	assert.Contains(t, out, "/activity#h-camp")
}

func TestRenderWritesFile(t *testing.T) {
	cfgPath := setup(t, events)
	target := filepath.Join(t.TempDir(), "site", "activity.html")

	_, err := execute(t, "--config", cfgPath, "render", "-o", target)
	require.NoError(t, err)

	b, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Contains(t, string(b), `data-ready="true"`)
}

func TestRenderReportsLoadFailure(t *testing.T) {
	cfgPath := setup(t, `"not events"`)

	out, err := execute(t, "--config", cfgPath, "render")
	require.Error(t, err)
	assert.Contains(t, out, "Unable to load events.")
}

func TestExportICSCommand(t *testing.T) {
	cfgPath := setup(t, events)

	out, err := execute(t, "--config", cfgPath, "export-ics", "--domain", "example.org", "--lang", "en")
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(out, "BEGIN:VEVENT"))
	assert.Contains(t, out, "UID:yoga@example.org")
	assert.Contains(t, out, "SUMMARY:Yoga Day")
}

func TestServeOnce(t *testing.T) {
	cfgPath := setup(t, events)
	_, err := execute(t, "--config", cfgPath, "serve", "--once")
	require.NoError(t, err)

	broken := setup(t, `{}`)
	_, err = execute(t, "--config", broken, "serve", "--once")
	assert.Error(t, err)
}

func TestFirstRunWritesDefaultConfig(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "conf", "config.yaml")

	// The default source does not exist, so the load fails, but the
	// config file is created on the way.
	_, err := execute(t, "--config", cfgPath, "serve", "--once")
	require.Error(t, err)
	_, statErr := os.Stat(cfgPath)
	assert.NoError(t, statErr)
}
