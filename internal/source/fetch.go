package source

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	appLog "activitylog/internal/log"
)

// Source locates one events document: a local file or an HTTP(S) URL.
type Source struct {
	// ID is an internal identifier used in logs.
	ID   string
	Path string
	URL  string
}

// Location returns the path or redacted URL for logging.
func (s Source) Location() string {
	if s.Path != "" {
		return s.Path
	}
	return redactURL(s.URL)
}

// FetchResult contains the outcome of fetching a source.
type FetchResult struct {
	Source    Source
	Body      []byte
	FromCache bool // true if the body came from the disk cache
}

// cacheEntry holds HTTP cache metadata for a single URL.
type cacheEntry struct {
	URL          string    `json:"url"`
	ETag         string    `json:"etag,omitempty"`
	LastModified string    `json:"last_modified,omitempty"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Fetcher reads events documents. URL sources use conditional requests
// (ETag / Last-Modified) backed by a disk cache.
type Fetcher struct {
	client   *http.Client
	cacheDir string
}

// NewFetcher creates a Fetcher. cacheDir holds one subdirectory per URL.
func NewFetcher(cacheDir string) *Fetcher {
	if cacheDir == "" {
		cacheDir = "./var/events-cache"
	}
	return &Fetcher{
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
		cacheDir: cacheDir,
	}
}

// Fetch reads src. File sources are read directly; URL sources go through
// the HTTP cache and fall back to the cached body on network errors and
// non-OK responses.
func (f *Fetcher) Fetch(ctx context.Context, src Source) (FetchResult, error) {
	switch {
	case src.Path != "":
		body, err := os.ReadFile(src.Path)
		if err != nil {
			return FetchResult{}, fmt.Errorf("source: read %s: %w", src.Path, err)
		}
		return FetchResult{Source: src, Body: body}, nil
	case src.URL != "":
		return f.fetchURL(ctx, src)
	default:
		return FetchResult{}, errors.New("source: neither path nor url is set")
	}
}

func (f *Fetcher) fetchURL(ctx context.Context, src Source) (FetchResult, error) {
	cachePath := f.cachePathForURL(src.URL)
	if err := os.MkdirAll(cachePath, 0o700); err != nil {
		return FetchResult{}, err
	}

	meta, _ := f.loadCacheMeta(cachePath)
	cachedBody, _ := f.loadCacheBody(cachePath)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src.URL, nil)
	if err != nil {
		return FetchResult{}, err
	}
	req.Header.Set("Accept", "application/json")
	if meta.ETag != "" {
		req.Header.Set("If-None-Match", meta.ETag)
	}
	if meta.LastModified != "" {
		req.Header.Set("If-Modified-Since", meta.LastModified)
	}

	appLog.Debug("events fetch start", "id", src.ID, "url", redactURL(src.URL))

	resp, err := f.client.Do(req)
	if err != nil {
		if len(cachedBody) > 0 {
			appLog.Error("events fetch network error, using cached body", err, "id", src.ID, "url", redactURL(src.URL))
			return FetchResult{Source: src, Body: cachedBody, FromCache: true}, nil
		}
		return FetchResult{}, fmt.Errorf("source: fetch %s: %w", redactURL(src.URL), err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		body, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return FetchResult{}, readErr
		}

		newMeta := cacheEntry{
			URL:          src.URL,
			ETag:         resp.Header.Get("ETag"),
			LastModified: resp.Header.Get("Last-Modified"),
		}
		if err := f.saveCache(cachePath, newMeta, body); err != nil {
			appLog.Error("events cache save failed", err, "id", src.ID, "url", redactURL(src.URL))
		}

		appLog.Info("events fetch success", "id", src.ID, "url", redactURL(src.URL), "bytes", len(body))
		return FetchResult{Source: src, Body: body}, nil

	case http.StatusNotModified:
		if len(cachedBody) == 0 {
			return FetchResult{}, errors.New("source: received 304 Not Modified but no cached body available")
		}
		appLog.Debug("events fetch not modified; using cache", "id", src.ID)
		return FetchResult{Source: src, Body: cachedBody, FromCache: true}, nil

	default:
		if len(cachedBody) > 0 {
			appLog.Error("events fetch non-OK, using cached body", errors.New(resp.Status), "id", src.ID, "status", resp.StatusCode)
			return FetchResult{Source: src, Body: cachedBody, FromCache: true}, nil
		}
		return FetchResult{}, fmt.Errorf("source: fetch %s: %s", redactURL(src.URL), resp.Status)
	}
}

func (f *Fetcher) cachePathForURL(u string) string {
	sum := sha256.Sum256([]byte(u))
	return filepath.Join(f.cacheDir, hex.EncodeToString(sum[:8]))
}

func (f *Fetcher) loadCacheMeta(cachePath string) (cacheEntry, error) {
	var meta cacheEntry
	data, err := os.ReadFile(filepath.Join(cachePath, "meta.json"))
	if err != nil {
		return meta, err
	}
	if err := json.Unmarshal(data, &meta); err != nil {
		return cacheEntry{}, err
	}
	return meta, nil
}

func (f *Fetcher) loadCacheBody(cachePath string) ([]byte, error) {
	return os.ReadFile(filepath.Join(cachePath, "body.json"))
}

func (f *Fetcher) saveCache(cachePath string, meta cacheEntry, body []byte) error {
	// Write body first so meta never points at missing body.
	if err := os.WriteFile(filepath.Join(cachePath, "body.json"), body, 0o600); err != nil {
		return err
	}

	meta.UpdatedAt = time.Now().UTC()
	data, err := json.MarshalIndent(&meta, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(cachePath, "meta.json"), data, 0o600)
}

// redactURL keeps scheme and host only.
func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "url://...(redacted)"
	}
	return u.Scheme + "://" + u.Host + "/...(redacted)"
}
