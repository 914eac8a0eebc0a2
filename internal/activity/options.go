// Package activity turns raw event records into the activity log: the
// normalized event list, the card and outline view description, search
// filtering and the recent-events teaser. Everything here is pure; the
// render package turns a View into markup.
package activity

import (
	"activitylog/internal/config"
	appLog "activitylog/internal/log"
)

// DefaultVisibleImages is how many gallery images show before "Show more".
const DefaultVisibleImages = 6

// Options carries the lookup tables and path settings used while
// normalizing and building views. The zero value is not usable; start
// from DefaultOptions or OptionsFromConfig.
type Options struct {
	ImageBase    string
	EventsDir    string
	DefaultExt   string
	DefaultIcon  string
	FallbackIcon string
	Visible      int

	Platform VideoPlatform
	Seasons  SeasonScheme

	SiteTitle string
	Lang      string
}

// DefaultOptions mirrors config.DefaultConfig.
func DefaultOptions() Options {
	return OptionsFromConfig(config.DefaultConfig())
}

// OptionsFromConfig builds Options from a normalized config. An unknown
// video platform falls back to YouTube.
func OptionsFromConfig(cfg *config.Config) Options {
	platform, ok := LookupPlatform(cfg.VideoPlatform)
	if !ok {
		appLog.Info("unknown video platform; using youtube", "video_platform", cfg.VideoPlatform)
		platform = YouTube
	}
	visible := cfg.Images.Visible
	if visible <= 0 {
		visible = DefaultVisibleImages
	}
	return Options{
		ImageBase:    cfg.Images.Base,
		EventsDir:    cfg.Images.EventsDir,
		DefaultExt:   cfg.Images.DefaultExt,
		DefaultIcon:  cfg.Images.DefaultIcon,
		FallbackIcon: cfg.Images.FallbackIcon,
		Visible:      visible,
		Platform:     platform,
		Seasons:      DefaultSeasons(),
		SiteTitle:    cfg.SiteTitle,
		Lang:         cfg.Lang,
	}
}
