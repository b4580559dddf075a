package web

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"

	"timeliner/internal/config"
	"timeliner/internal/forest"
	"timeliner/internal/ics"
	appLog "timeliner/internal/log"
	"timeliner/internal/source"
	"timeliner/internal/temporal"
	"timeliner/internal/timeline"
)

// Server serves the most recently built timeline over HTTP.
type Server struct {
	cfg      *config.Config
	mux      *http.ServeMux
	loader   *source.Loader
	builder  *timeline.Builder
	resolver *temporal.Resolver
	sources  []source.Source

	// Reloads replace the snapshot wholesale; handlers only read it.
	snapshotMu sync.RWMutex
	snapshot   *snapshot

	// reloadMu serializes reloads triggered by cron and /api/refresh.
	reloadMu sync.Mutex
}

// snapshot is one built timeline and the source errors seen while loading it.
type snapshot struct {
	timeline     *timeline.Timeline
	builtAt      time.Time
	sourceErrors []string
}

// NewServer constructs a Server. No timeline is available until Reload
// succeeds once.
func NewServer(cfg *config.Config) (*Server, error) {
	var ref temporal.CalendarDate
	if cfg.DefaultReferenceDate != "" {
		d, err := temporal.ParseReferenceDate(cfg.DefaultReferenceDate)
		if err != nil {
			return nil, errors.Wrap(err, "default_reference_date")
		}
		ref = d
	}

	builder, err := timeline.NewBuilder(timeline.Options{
		DefaultReference: ref,
		Workers:          cfg.ResolveWorkers,
		TokenCacheSize:   cfg.TokenCacheSize,
	})
	if err != nil {
		return nil, err
	}

	s := &Server{
		cfg:      cfg,
		mux:      http.NewServeMux(),
		loader:   source.NewLoader(source.NewFetcher(cfg.CacheDir)),
		builder:  builder,
		resolver: temporal.NewResolver(ref),
		sources:  source.FromConfig(cfg.Sources),
	}
	s.registerRoutes()
	return s, nil
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
	// Empty credentials disable auth rather than lock everyone out.
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
			w.Header().Set("WWW-Authenticate", `Basic realm="Timeliner", charset="UTF-8"`)
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

// Reload loads every configured source and rebuilds the timeline. Source
// failures are recorded on the snapshot; only a failed build keeps the
// previous snapshot in place.
func (s *Server) Reload(ctx context.Context) error {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	docs, loadErrs := s.loader.LoadAll(ctx, s.sources)
	if len(loadErrs) > 0 {
		appLog.Error("reload: one or more sources failed", stderrors.Join(loadErrs...), "error_count", len(loadErrs))
	}

	tl, err := s.builder.Build(ctx, docs)
	if err != nil {
		return errors.Wrap(err, "build timeline")
	}

	snap := &snapshot{timeline: tl, builtAt: time.Now().UTC()}
	for _, e := range loadErrs {
		snap.sourceErrors = append(snap.sourceErrors, e.Error())
	}

	s.snapshotMu.Lock()
	s.snapshot = snap
	s.snapshotMu.Unlock()
	return nil
}

func (s *Server) current() *snapshot {
	s.snapshotMu.RLock()
	defer s.snapshotMu.RUnlock()
	return s.snapshot
}

// StartServer serves cfg.Listen until ctx is canceled, reloading sources
// on cfg.RefreshCron.
func StartServer(ctx context.Context, cfg *config.Config) error {
	s, err := NewServer(cfg)
	if err != nil {
		return err
	}

	if err := s.Reload(ctx); err != nil {
		appLog.Error("initial reload failed", err)
	}

	sched := cron.New()
	if _, err := sched.AddFunc(cfg.RefreshCron, func() {
		if err := s.Reload(ctx); err != nil {
			appLog.Error("scheduled reload failed", err)
		}
	}); err != nil {
		return errors.Wrapf(err, "invalid refresh schedule %q", cfg.RefreshCron)
	}
	sched.Start()
	defer sched.Stop()

	srv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		appLog.Info("starting HTTP server", "listen", "http://"+cfg.Listen, "refresh", cfg.RefreshCron)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return errors.Wrap(err, "http server")
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "http shutdown")
	}
	appLog.Info("HTTP server stopped")
	return nil
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/api/timeline", s.handleTimeline)
	s.mux.HandleFunc("/api/events", s.handleEvents)
	s.mux.HandleFunc("/api/refresh", s.handleRefresh)
	s.mux.HandleFunc("/api/resolve", s.handleResolve)
	s.mux.HandleFunc("/timeline.ics", s.handleICS)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// eventDTO is a JSON-friendly view of a resolved event.
type eventDTO struct {
	ID            string   `json:"id"`
	DocumentID    string   `json:"document_id"`
	DocumentTitle string   `json:"document_title,omitempty"`
	Text          string   `json:"text"`
	Sentence      string   `json:"sentence"`
	Entities      []string `json:"entities,omitempty"`
	Tokens        []string `json:"tokens"`
	Start         string   `json:"start"`
	End           string   `json:"end,omitempty"`
	Label         string   `json:"label,omitempty"`
	WidthDays     int      `json:"width_days"`
}

// nodeDTO mirrors one forest node.
type nodeDTO struct {
	Start     string     `json:"start"`
	End       string     `json:"end,omitempty"`
	WidthDays int        `json:"width_days"`
	Events    []eventDTO `json:"events"`
	Children  []nodeDTO  `json:"children"`
}

type timelineResponse struct {
	BuiltAt      time.Time `json:"built_at"`
	EventCount   int       `json:"event_count"`
	Undated      int       `json:"undated"`
	Roots        []nodeDTO `json:"roots"`
	SourceErrors []string  `json:"source_errors,omitempty"`
}

type eventsResponse struct {
	BuiltAt time.Time  `json:"built_at"`
	Events  []eventDTO `json:"events"`
}

func toEventDTO(e *timeline.Event) eventDTO {
	r := e.Range()
	return eventDTO{
		ID:            e.Event.ID,
		DocumentID:    e.DocumentID,
		DocumentTitle: e.DocumentTitle,
		Text:          e.Event.Text(),
		Sentence:      e.Event.Sentence,
		Entities:      e.Event.Entities,
		Tokens:        e.Event.Tokens,
		Start:         r.Start.String(),
		End:           r.End.String(),
		Label:         e.Label(),
		WidthDays:     e.WidthDays(),
	}
}

func toNodeDTO(n *forest.Node[*timeline.Event]) nodeDTO {
	out := nodeDTO{
		Start:     n.Range.Start.String(),
		End:       n.Range.End.String(),
		WidthDays: n.Range.WidthDays(),
		Events:    make([]eventDTO, 0, len(n.Bucket)),
		Children:  make([]nodeDTO, 0, len(n.Children)),
	}
	for _, e := range n.Bucket {
		out.Events = append(out.Events, toEventDTO(e))
	}
	for _, c := range n.Children {
		out.Children = append(out.Children, toNodeDTO(c))
	}
	return out
}

// handleTimeline returns the containment forest.
//
// GET /api/timeline
func (s *Server) handleTimeline(w http.ResponseWriter, _ *http.Request) {
	snap := s.current()
	if snap == nil {
		writeError(w, http.StatusServiceUnavailable, "timeline not built yet")
		return
	}

	resp := timelineResponse{
		BuiltAt:      snap.builtAt,
		EventCount:   len(snap.timeline.Events),
		Undated:      snap.timeline.Undated,
		Roots:        make([]nodeDTO, 0, len(snap.timeline.Forest.Roots)),
		SourceErrors: snap.sourceErrors,
	}
	for _, root := range snap.timeline.Forest.Roots {
		resp.Roots = append(resp.Roots, toNodeDTO(root))
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleEvents returns resolved events in document order.
//
// GET /api/events?document=<id>
//   - document: only events of this document (optional)
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	snap := s.current()
	if snap == nil {
		writeError(w, http.StatusServiceUnavailable, "timeline not built yet")
		return
	}

	doc := r.URL.Query().Get("document")
	resp := eventsResponse{BuiltAt: snap.builtAt, Events: make([]eventDTO, 0, len(snap.timeline.Events))}
	for _, e := range snap.timeline.Events {
		if doc != "" && e.DocumentID != doc {
			continue
		}
		resp.Events = append(resp.Events, toEventDTO(e))
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleRefresh rebuilds the timeline immediately.
//
// POST /api/refresh
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, http.StatusMethodNotAllowed, "use POST")
		return
	}
	if err := s.Reload(r.Context()); err != nil {
		appLog.Error("api refresh failed", err)
		writeError(w, http.StatusInternalServerError, "refresh failed")
		return
	}
	s.handleTimeline(w, r)
}

type resolveResponse struct {
	Token     string   `json:"token"`
	Reference string   `json:"reference"`
	Dates     []string `json:"dates"`
}

// handleResolve resolves a single token.
//
// GET /api/resolve?token=2016-W47&ref=2016-12-30
//   - ref: reference date (optional, YYYY-MM-DD); defaults to the configured
//     default_reference_date
func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	token := q.Get("token")
	if strings.TrimSpace(token) == "" {
		writeError(w, http.StatusBadRequest, "token is required")
		return
	}

	ref := s.resolver.Fallback()
	if raw := q.Get("ref"); raw != "" {
		d, err := temporal.ParseReferenceDate(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid ref")
			return
		}
		ref = d
	}

	dates := s.resolver.Resolve(token, ref)
	resp := resolveResponse{Token: token, Reference: ref.String(), Dates: make([]string, 0, len(dates))}
	for _, d := range dates {
		resp.Dates = append(resp.Dates, d.String())
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleICS serves the resolved events as an iCalendar feed.
//
// GET /timeline.ics
func (s *Server) handleICS(w http.ResponseWriter, _ *http.Request) {
	snap := s.current()
	if snap == nil {
		writeError(w, http.StatusServiceUnavailable, "timeline not built yet")
		return
	}

	body, err := ics.Export(snap.timeline.Events)
	if err != nil {
		appLog.Error("ics export failed", err)
		writeError(w, http.StatusInternalServerError, "failed to export calendar")
		return
	}
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
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
