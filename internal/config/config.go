package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"
	_ "time/tzdata" // minimal images ship without a zoneinfo database

	"gopkg.in/yaml.v3"

	appLog "activitylog/internal/log"
)

// SourceConfig locates the events JSON document. Path wins over URL when
// both are set.
type SourceConfig struct {
	// Path is a local file, e.g. "data/events.json".
	Path string `yaml:"path,omitempty" json:"path,omitempty"`
	// URL is an HTTP(S) endpoint serving the same document.
	URL string `yaml:"url,omitempty" json:"url,omitempty"`
	// ID is used in logs and as the cache key prefix.
	ID string `yaml:"id" json:"id"`
}

// ImagesConfig controls how image names are resolved into paths.
type ImagesConfig struct {
	Base         string `yaml:"base" json:"base"`
	EventsDir    string `yaml:"events_dir" json:"events_dir"`
	DefaultExt   string `yaml:"default_ext" json:"default_ext"`
	DefaultIcon  string `yaml:"default_icon" json:"default_icon"`
	FallbackIcon string `yaml:"fallback_icon" json:"fallback_icon"`
	// Visible is how many gallery images show before "Show more".
	Visible int `yaml:"visible" json:"visible"`
}

// BasicAuthConfig holds HTTP Basic Auth credentials for the site.
type BasicAuthConfig struct {
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
}

// Config is the top-level application configuration.
type Config struct {
	// Listen is the HTTP listen address.
	Listen string `yaml:"listen" json:"listen"`

	Source SourceConfig `yaml:"source" json:"source"`

	// RefreshCron is a cron-style schedule (e.g. "*/30 * * * *") for
	// reloading the source. "off" disables scheduled reloads.
	RefreshCron string `yaml:"refresh" json:"refresh"`

	// Watch reloads a file source whenever it changes on disk.
	Watch bool `yaml:"watch" json:"watch"`

	// CacheDir holds conditional-GET metadata and bodies for URL sources.
	CacheDir string `yaml:"cache_dir" json:"cache_dir"`

	// Timezone is the IANA zone the refresh cron schedule runs in. The ICS
	// feed writes floating all-day dates and does not use it.
	Timezone string `yaml:"timezone" json:"timezone"`

	// Lang is the default display language: "ml" or "en".
	Lang string `yaml:"lang" json:"lang"`

	Images ImagesConfig `yaml:"images" json:"images"`

	// VideoPlatform names the entry in the video platform table.
	VideoPlatform string `yaml:"video_platform" json:"video_platform"`

	SiteTitle string `yaml:"site_title" json:"site_title"`

	// PreviewPath is where `snapshot` writes and /preview.png reads.
	PreviewPath string `yaml:"preview_path" json:"preview_path"`

	// BasicAuth, if non-nil, enables HTTP Basic Authentication on all endpoints
	// except /health.
	BasicAuth *BasicAuthConfig `yaml:"basic_auth,omitempty" json:"basic_auth,omitempty"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Listen:      "127.0.0.1:8080",
		Source:      SourceConfig{Path: "data/events.json", ID: "events"},
		RefreshCron: "*/30 * * * *",
		Watch:       true,
		CacheDir:    "./var/events-cache",
		Timezone:    "Asia/Kolkata",
		Lang:        "ml",
		Images: ImagesConfig{
			Base:         "images",
			EventsDir:    "Events",
			DefaultExt:   "jpg",
			DefaultIcon:  "icon.jpg",
			FallbackIcon: "images/fevicon-logo/Logo-Karunya.png",
			Visible:      6,
		},
		VideoPlatform: "youtube",
		SiteTitle:     "Activity Log",
		PreviewPath:   "./var/preview.png",
	}
}

// Normalize fills in missing/zero values with sensible defaults so that
// partially-filled configs still behave correctly.
func (c *Config) Normalize() {
	def := DefaultConfig()
	if c.Listen == "" {
		c.Listen = def.Listen
	}
	if c.Source.ID == "" {
		c.Source.ID = def.Source.ID
	}
	if c.Source.Path == "" && c.Source.URL == "" {
		c.Source.Path = def.Source.Path
	}
	if c.RefreshCron == "" {
		c.RefreshCron = def.RefreshCron
	}
	if c.CacheDir == "" {
		c.CacheDir = def.CacheDir
	}
	if c.Timezone == "" {
		c.Timezone = def.Timezone
	}
	switch c.Lang {
	case "ml", "en":
	default:
		c.Lang = def.Lang
	}
	if c.Images.Base == "" {
		c.Images.Base = def.Images.Base
	}
	if c.Images.EventsDir == "" {
		c.Images.EventsDir = def.Images.EventsDir
	}
	if c.Images.DefaultExt == "" {
		c.Images.DefaultExt = def.Images.DefaultExt
	}
	if c.Images.DefaultIcon == "" {
		c.Images.DefaultIcon = def.Images.DefaultIcon
	}
	if c.Images.FallbackIcon == "" {
		c.Images.FallbackIcon = def.Images.FallbackIcon
	}
	if c.Images.Visible <= 0 {
		c.Images.Visible = def.Images.Visible
	}
	if c.VideoPlatform == "" {
		c.VideoPlatform = def.VideoPlatform
	}
	if c.SiteTitle == "" {
		c.SiteTitle = def.SiteTitle
	}
	if c.PreviewPath == "" {
		c.PreviewPath = def.PreviewPath
	}
}

// RefreshEnabled reports whether scheduled reloads are configured.
func (c *Config) RefreshEnabled() bool {
	return c.RefreshCron != "" && c.RefreshCron != "off"
}

// Location resolves Timezone, falling back to the local zone when the
// name is empty or unknown.
func (c *Config) Location() *time.Location {
	if c.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		appLog.Error("failed to load timezone; falling back to local", err, "name", c.Timezone)
		return time.Local
	}
	return loc
}

// Load loads configuration from the given YAML path.
//
// Behavior:
//   - If the file does not exist:
//   - create parent directory if needed
//   - write a default config with 0600 perms
//   - return the default config
//   - If the file exists:
//   - read YAML and unmarshal into Config
//   - normalize defaults
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				// Even if save fails, return cfg with error so caller can decide.
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()

	return &cfg, nil
}

// Save writes the given configuration to the specified path atomically
// (temp file + rename) with 0600 permissions.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".activitylog-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}

	return os.Rename(tmpName, path)
}
