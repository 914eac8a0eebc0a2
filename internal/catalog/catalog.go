// Package catalog owns the in-memory event list. Loads are explicit: at
// startup, from the cron scheduler, from the file watcher or from an
// HTTP reload request. A failed load is never retried on its own.
package catalog

import (
	"context"
	"fmt"
	"sync"
	"time"

	"activitylog/internal/activity"
	appLog "activitylog/internal/log"
	"activitylog/internal/model"
	"activitylog/internal/source"
)

// Snapshot is a consistent view of the catalog at one point in time.
type Snapshot struct {
	Events    []model.Event
	Err       error
	LoadedAt  time.Time
	FromCache bool
}

// Loaded reports whether a usable event list is present.
func (s Snapshot) Loaded() bool { return s.Err == nil && !s.LoadedAt.IsZero() }

// Catalog holds the normalized events of one source.
type Catalog struct {
	src     source.Source
	fetcher *source.Fetcher
	opts    activity.Options

	// loadMu serializes loads so swaps happen in fetch order.
	loadMu sync.Mutex

	mu        sync.RWMutex
	events    []model.Event
	loadedAt  time.Time
	fromCache bool
	lastErr   error
}

func New(src source.Source, fetcher *source.Fetcher, opts activity.Options) *Catalog {
	return &Catalog{src: src, fetcher: fetcher, opts: opts}
}

// Source returns the configured source.
func (c *Catalog) Source() source.Source { return c.src }

// Options returns the normalization options the catalog was built with.
func (c *Catalog) Options() activity.Options { return c.opts }

// Load fetches, decodes and normalizes the source, then swaps the list.
// On failure the previous list is kept and the error is recorded; the
// error only surfaces in Snapshot while no load has ever succeeded.
func (c *Catalog) Load(ctx context.Context) error {
	c.loadMu.Lock()
	defer c.loadMu.Unlock()

	start := time.Now()
	events, fromCache, err := c.load(ctx)
	if err != nil {
		c.mu.Lock()
		c.lastErr = err
		c.mu.Unlock()
		appLog.Error("events load failed", err, "id", c.src.ID, "source", c.src.Location())
		return err
	}

	c.mu.Lock()
	c.events = events
	c.loadedAt = time.Now()
	c.fromCache = fromCache
	c.lastErr = nil
	c.mu.Unlock()

	appLog.Info("events loaded",
		"id", c.src.ID,
		"source", c.src.Location(),
		"count", len(events),
		"from_cache", fromCache,
		"elapsed", time.Since(start).String(),
	)
	return nil
}

func (c *Catalog) load(ctx context.Context) ([]model.Event, bool, error) {
	res, err := c.fetcher.Fetch(ctx, c.src)
	if err != nil {
		return nil, false, err
	}
	raws, err := source.Decode(res.Body)
	if err != nil {
		return nil, false, fmt.Errorf("catalog: %s: %w", c.src.ID, err)
	}
	return activity.Normalize(raws, c.opts), res.FromCache, nil
}

// Snapshot returns the current list. Callers must not modify Events.
func (c *Catalog) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s := Snapshot{
		Events:    c.events,
		LoadedAt:  c.loadedAt,
		FromCache: c.fromCache,
	}
	if c.loadedAt.IsZero() {
		s.Err = c.lastErr
	}
	return s
}

// LastError is the error of the most recent load, nil if it succeeded.
func (c *Catalog) LastError() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastErr
}
