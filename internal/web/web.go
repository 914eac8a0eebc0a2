package web

import (
	"bytes"
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"activitylog/internal/activity"
	"activitylog/internal/catalog"
	"activitylog/internal/config"
	"activitylog/internal/ics"
	"activitylog/internal/lightbox"
	appLog "activitylog/internal/log"
	"activitylog/internal/render"
)

// Server serves the activity log page and its JSON / ICS views.
type Server struct {
	cfg      *config.Config
	cat      *catalog.Catalog
	renderer *render.Renderer
	mux      *http.ServeMux

	// Serialized feed for the current catalog load; rebuilt after reloads.
	icsMu    sync.Mutex
	icsCache *icsCache
}

type icsCache struct {
	loadedAt time.Time
	lang     string
	domain   string
	pageURL  string
	body     []byte
}

// NewServer constructs a new Server.
func NewServer(cfg *config.Config, cat *catalog.Catalog, renderer *render.Renderer) *Server {
	s := &Server{
		cfg:      cfg,
		cat:      cat,
		renderer: renderer,
		mux:      http.NewServeMux(),
	}
	s.registerRoutes()
	return s
}

// Handler returns the underlying http.Handler for this server.
func (s *Server) Handler() http.Handler {
	h := http.Handler(s.mux)
	if s.basicAuthEnabled() {
		appLog.Info("HTTP basic auth enabled", "listen", "http://"+s.cfg.Listen)
		return s.basicAuthMiddleware(h)
	}
	return h
}

// basicAuthEnabled reports whether HTTP Basic Auth is configured.
func (s *Server) basicAuthEnabled() bool {
	if s.cfg == nil || s.cfg.BasicAuth == nil {
		return false
	}
	// Empty credentials mean disabled.
	return s.cfg.BasicAuth.Username != "" && s.cfg.BasicAuth.Password != ""
}

// basicAuthMiddleware wraps all handlers except /health with HTTP Basic Auth.
func (s *Server) basicAuthMiddleware(next http.Handler) http.Handler {
	username := s.cfg.BasicAuth.Username
	password := s.cfg.BasicAuth.Password

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}

		u, p, ok := r.BasicAuth()
		if !ok || !secureCompare(u, username) || !secureCompare(p, password) {
			w.Header().Set("WWW-Authenticate", `Basic realm="ActivityLog", charset="UTF-8"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// secureCompare compares two strings in constant time.
func secureCompare(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// Run serves on cfg.Listen until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Listen,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		appLog.Info("starting HTTP server", "listen", "http://"+s.cfg.Listen)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	appLog.Info("shutting down HTTP server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/activity", s.handleActivity)
	s.mux.HandleFunc("/recent", s.handleRecentFragment)
	s.mux.HandleFunc("/activity.ics", s.handleICS)
	s.mux.HandleFunc("/api/events", s.handleEvents)
	s.mux.HandleFunc("/api/recent", s.handleRecent)
	s.mux.HandleFunc("/api/reload", s.handleReload)
	s.mux.HandleFunc("/preview.png", s.handlePreview)
	s.mux.Handle("/static/", s.staticFileServer())
	s.mux.HandleFunc("/", s.handleRoot)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	http.Redirect(w, r, "/activity", http.StatusFound)
}

// viewState maps query parameters onto the page state:
//
//	q=<text>          search query
//	lang=ml|en        display language
//	active=<anchor>   highlighted outline entry
//	expand=<id>       expanded gallery (repeatable)
//	play=<id>         embedded player (repeatable)
//	video=<id>:<n>    selected video entry (repeatable)
//	photo=<id>:<n>    gallery image shown in the lightbox
func (s *Server) viewState(r *http.Request, snap catalog.Snapshot) activity.ViewState {
	q := r.URL.Query()
	st := activity.ViewState{
		Query:      q.Get("q"),
		Lang:       s.lang(q.Get("lang")),
		LoadErr:    snap.Err,
		ActiveCard: q.Get("active"),
	}
	for _, id := range q["expand"] {
		if st.Expanded == nil {
			st.Expanded = make(map[string]bool)
		}
		st.Expanded[id] = true
	}
	for _, id := range q["play"] {
		if st.Playing == nil {
			st.Playing = make(map[string]bool)
		}
		st.Playing[id] = true
	}
	for _, v := range q["video"] {
		id, n, ok := idIndex(v)
		if !ok {
			continue
		}
		if st.SelectedVideo == nil {
			st.SelectedVideo = make(map[string]int)
		}
		st.SelectedVideo[id] = n
	}
	if id, n, ok := idIndex(q.Get("photo")); ok {
		st.Lightbox = s.photo(snap, id, n)
	}
	return st
}

// photo opens the lightbox on image n of event id, or returns nil.
func (s *Server) photo(snap catalog.Snapshot, id string, n int) *lightbox.Lightbox {
	for _, ev := range snap.Events {
		if ev.ID != id {
			continue
		}
		g := activity.NewGallery(ev, s.cat.Options().Visible)
		if n >= len(g.Images) {
			return nil
		}
		img := g.Images[n]
		lb := lightbox.New()
		lb.Open(img.Src, img.Alt, img.Alt)
		return lb
	}
	return nil
}

// idIndex splits "<id>:<n>" with n >= 0.
func idIndex(v string) (string, int, bool) {
	i := strings.LastIndexByte(v, ':')
	if i <= 0 {
		return "", 0, false
	}
	n, err := strconv.Atoi(v[i+1:])
	if err != nil || n < 0 {
		return "", 0, false
	}
	return v[:i], n, true
}

func (s *Server) lang(v string) string {
	if v == "ml" || v == "en" {
		return v
	}
	return s.cfg.Lang
}

func (s *Server) handleActivity(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	snap := s.cat.Snapshot()
	v := activity.BuildView(snap.Events, s.viewState(r, snap), s.cat.Options())

	var buf bytes.Buffer
	if err := s.renderer.Page(&buf, v); err != nil {
		appLog.Error("render activity page failed", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// handleEvents returns the page description as JSON.
//
// GET /api/events?q=&lang=&active=
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	snap := s.cat.Snapshot()
	if snap.Err != nil {
		writeError(w, http.StatusServiceUnavailable, activity.PlaceholderLoadFailed)
		return
	}
	v := activity.BuildView(snap.Events, s.viewState(r, snap), s.cat.Options())
	appLog.Debug("api events request", "query", v.Query, "lang", v.Lang, "total", v.Total)
	writeJSON(w, http.StatusOK, v)
}

// recentTeasers reads ?n= and ?lang= for the two recent endpoints.
func (s *Server) recentTeasers(r *http.Request, snap catalog.Snapshot) []activity.Teaser {
	q := r.URL.Query()
	n := parseIntDefault(q.Get("n"), activity.DefaultRecentCount)
	return activity.Recent(snap.Events, n, s.lang(q.Get("lang")), s.cat.Options())
}

// handleRecent returns the latest events teaser as JSON.
//
// GET /api/recent?n=3&lang=ml
func (s *Server) handleRecent(w http.ResponseWriter, r *http.Request) {
	snap := s.cat.Snapshot()
	if snap.Err != nil {
		writeError(w, http.StatusServiceUnavailable, activity.PlaceholderLoadFailed)
		return
	}
	writeJSON(w, http.StatusOK, s.recentTeasers(r, snap))
}

// handleRecentFragment returns the teaser as an HTML fragment for
// embedding on other pages.
func (s *Server) handleRecentFragment(w http.ResponseWriter, r *http.Request) {
	snap := s.cat.Snapshot()
	var buf bytes.Buffer
	if err := s.renderer.Recent(&buf, s.recentTeasers(r, snap)); err != nil {
		appLog.Error("render recent fragment failed", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

// handleICS serves the dated events as an iCalendar feed.
func (s *Server) handleICS(w http.ResponseWriter, r *http.Request) {
	snap := s.cat.Snapshot()
	if snap.Err != nil {
		http.Error(w, activity.PlaceholderLoadFailed, http.StatusServiceUnavailable)
		return
	}
	lang := s.lang(r.URL.Query().Get("lang"))
	domain, page := hostOnly(r.Host), pageURL(r)

	s.icsMu.Lock()
	defer s.icsMu.Unlock()

	// UIDs and URLs follow the requesting host, so they are part of the key.
	c := s.icsCache
	if c == nil || !c.loadedAt.Equal(snap.LoadedAt) || c.lang != lang || c.domain != domain || c.pageURL != page {
		var buf bytes.Buffer
		err := ics.Write(&buf, snap.Events, ics.ExportOptions{
			Name:    s.cfg.SiteTitle,
			Domain:  domain,
			PageURL: page,
			Lang:    lang,
		})
		if err != nil {
			appLog.Error("ics export failed", err)
			http.Error(w, "export failed", http.StatusInternalServerError)
			return
		}
		s.icsCache = &icsCache{loadedAt: snap.LoadedAt, lang: lang, domain: domain, pageURL: page, body: buf.Bytes()}
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	_, _ = w.Write(s.icsCache.body)
}

// handleReload reloads the catalog on demand.
//
// POST /api/reload
func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if err := s.cat.Load(r.Context()); err != nil {
		writeError(w, http.StatusBadGateway, "reload failed")
		return
	}
	snap := s.cat.Snapshot()
	writeJSON(w, http.StatusOK, reloadResponse{
		Count:     len(snap.Events),
		LoadedAt:  snap.LoadedAt,
		FromCache: snap.FromCache,
	})
}

type reloadResponse struct {
	Count     int       `json:"count"`
	LoadedAt  time.Time `json:"loaded_at"`
	FromCache bool      `json:"from_cache"`
}

// handlePreview serves the last snapshot PNG from disk.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	// http.ServeFile picks 404 / 500 for missing or unreadable files.
	http.ServeFile(w, r, s.cfg.PreviewPath)
}

// staticFileServer serves the embedded stylesheet and script.
func (s *Server) staticFileServer() http.Handler {
	sub, err := render.Static()
	if err != nil {
		appLog.Error("failed to initialize embedded static filesystem", err)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "static assets not available", http.StatusServiceUnavailable)
		})
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
}

func pageURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if fwd := r.Header.Get("X-Forwarded-Proto"); fwd != "" {
		scheme = fwd
	}
	return scheme + "://" + r.Host + "/activity"
}

func hostOnly(hostport string) string {
	if host, _, err := net.SplitHostPort(hostport); err == nil {
		return host
	}
	return hostport
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		appLog.Error("failed to write JSON response", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	type errResp struct {
		Error string `json:"error"`
	}
	writeJSON(w, status, errResp{Error: msg})
}
