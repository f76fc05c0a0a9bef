package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/raysh454/phishguard/internal/app"
	"github.com/raysh454/phishguard/internal/dashboard"
	"github.com/raysh454/phishguard/internal/history"
	"github.com/raysh454/phishguard/internal/logging"
	"github.com/raysh454/phishguard/internal/model"
	"github.com/raysh454/phishguard/internal/navigation"
	"github.com/raysh454/phishguard/internal/report"

	_ "github.com/raysh454/phishguard/internal/server/docs" // swagger docs
)

// Server is the HTTP + WebSocket surface for PhishGuard.
type Server struct {
	cfg          Config
	orchestrator *app.Orchestrator
	router       chi.Router
	upgrader     websocket.Upgrader
	logger       logging.Logger
	routes       []navigation.Route
	pages        map[string]*pageTemplate
	now          func() time.Time
}

// NewServer wires the router around an existing orchestrator.
func NewServer(cfg Config, orch *app.Orchestrator, logger logging.Logger) (*Server, error) {
	if orch == nil {
		return nil, errors.New("nil orchestrator")
	}
	if logger == nil {
		logger = logging.NewStdoutLogger("server")
	}
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = DefaultConfig().AllowedOrigins
	}

	routes := navigation.DefaultRoutes()
	if err := navigation.Validate(routes); err != nil {
		return nil, fmt.Errorf("route table: %w", err)
	}
	pages, err := loadPages()
	if err != nil {
		return nil, fmt.Errorf("loading page templates: %w", err)
	}

	s := &Server{
		cfg:          cfg,
		orchestrator: orch,
		router:       chi.NewRouter(),
		logger:       logger,
		routes:       routes,
		pages:        pages,
		now:          func() time.Time { return time.Now().UTC() },
	}
	s.upgrader = websocket.Upgrader{CheckOrigin: s.originAllowed}

	s.mountRoutes()
	return s, nil
}

// Orchestrator returns the underlying orchestrator for advanced use (tests, etc.).
func (s *Server) Orchestrator() *app.Orchestrator {
	return s.orchestrator
}

func (s *Server) mountRoutes() {
	r := s.router

	r.Use(s.corsMiddleware)

	// CORS preflight
	r.Options("/api/sessions", s.optionsHandler("POST"))
	r.Options("/api/sessions/{id}", s.optionsHandler("GET, DELETE"))
	r.Options("/api/sessions/{id}/scan", s.optionsHandler("POST"))
	r.Options("/api/history/{id}/rescan", s.optionsHandler("POST"))

	// Shell
	r.Get("/api/navigation", s.handleNavigation)
	r.Get("/api/dashboard", s.handleDashboard)
	r.Get("/api/analytics", s.handleAnalytics)
	r.Get("/api/analytics/export", s.handleAnalyticsExport)

	// Scanner sessions
	r.Post("/api/sessions", s.handleCreateSession)
	r.Get("/api/sessions/{id}", s.handleGetSession)
	r.Delete("/api/sessions/{id}", s.handleAbandonSession)
	r.Post("/api/sessions/{id}/scan", s.handleStartScan)
	r.Get("/api/sessions/{id}/copy", s.handleCopy)
	r.Get("/ws/sessions/{id}", s.handleSessionWS)

	// History
	r.Get("/api/history", s.handleHistory)
	r.Get("/api/history/export", s.handleHistoryExport)
	r.Post("/api/history/{id}/rescan", s.handleRescan)

	// Pages
	for _, route := range s.routes {
		r.Get(route.Path, s.handlePage(route.Path))
	}

	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
}

func (s *Server) originAllowed(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	return slices.Contains(s.cfg.AllowedOrigins, "*") || slices.Contains(s.cfg.AllowedOrigins, origin)
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if slices.Contains(s.cfg.AllowedOrigins, "*") {
			w.Header().Set("Access-Control-Allow-Origin", "*")
		} else if origin := r.Header.Get("Origin"); origin != "" && s.originAllowed(r) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Add("Vary", "Origin")
		}
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Max-Age", "86400")

		next.ServeHTTP(w, r)
	})
}

func (s *Server) optionsHandler(methods string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Methods", methods)
		w.WriteHeader(http.StatusNoContent)
	}
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	fields := []logging.Field{
		{Key: "method", Value: r.Method},
		{Key: "path", Value: r.URL.Path},
	}
	if q := r.URL.Query(); len(q) > 0 {
		fields = append(fields, logging.Field{Key: "query", Value: q})
	}
	s.logger.Info("http_request", fields...)

	s.router.ServeHTTP(w, r)
}

// Close shuts down the orchestrator and its sessions.
func (s *Server) Close() error {
	if s.orchestrator == nil {
		return nil
	}
	if err := s.orchestrator.Close(); err != nil {
		s.logger.Warn("closing orchestrator", logging.Field{Key: "error", Value: err})
		return err
	}
	return nil
}

// HTTPServer creates an *http.Server ready to ListenAndServe.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:         s.cfg.ListenAddr,
		Handler:      s,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // allow streaming
	}
}

// --- JSON helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

// fail logs err and writes it with its mapped status.
func (s *Server) fail(w http.ResponseWriter, op string, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error(op, logging.Field{Key: "error", Value: err})
	} else {
		s.logger.Warn(op, logging.Field{Key: "error", Value: err})
	}
	writeError(w, status, err.Error())
}

func writeAttachment(w http.ResponseWriter, contentType, filename string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// --- HTTP handlers ---

// Shell

func (s *Server) handleNavigation(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		path = "/"
	}
	writeJSON(w, http.StatusOK, NavigationResponse{Path: path, Routes: navigation.Mark(s.routes, path)})
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dashboard.DashboardOverview())
}

func (s *Server) analytics(r *http.Request) (dashboard.Analytics, error) {
	recs, err := s.orchestrator.AllHistory(r.Context())
	if err != nil {
		return dashboard.Analytics{}, err
	}
	return dashboard.AnalyticsReport(recs), nil
}

func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	a, err := s.analytics(r)
	if err != nil {
		s.fail(w, "building analytics", err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (s *Server) handleAnalyticsExport(w http.ResponseWriter, r *http.Request) {
	a, err := s.analytics(r)
	if err != nil {
		s.fail(w, "building analytics", err)
		return
	}
	now := s.now()
	var buf bytes.Buffer
	if err := report.WriteAnalytics(&buf, a, now); err != nil {
		s.fail(w, "rendering analytics export", err)
		return
	}
	s.logger.Info("exported analytics", logging.Field{Key: "bytes", Value: buf.Len()})
	writeAttachment(w, report.FormatPDF.ContentType(), report.FormatPDF.Filename("analytics", now), buf.Bytes())
}

// Scanner sessions

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.orchestrator.CreateSession()
	if err != nil {
		s.fail(w, "creating session", err)
		return
	}
	s.logger.Info("created session", logging.Field{Key: "session_id", Value: sess.ID()})
	writeJSON(w, http.StatusCreated, sess.Snapshot())
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.orchestrator.GetSession(chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, "getting session", err)
		return
	}
	writeJSON(w, http.StatusOK, sess.Snapshot())
}

func (s *Server) handleAbandonSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.orchestrator.AbandonSession(id); err != nil {
		s.fail(w, "abandoning session", err)
		return
	}
	s.logger.Info("abandoned session", logging.Field{Key: "session_id", Value: id})
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleStartScan(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var body ScanRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.logger.Warn("decoding scan body", logging.Field{Key: "error", Value: err})
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	if err := s.orchestrator.StartScan(r.Context(), id, body.URL, body.Content); err != nil {
		s.fail(w, "starting scan", err)
		return
	}
	sess, err := s.orchestrator.GetSession(id)
	if err != nil {
		s.fail(w, "getting session", err)
		return
	}
	s.logger.Info("started scan", logging.Field{Key: "session_id", Value: id}, logging.Field{Key: "url", Value: body.URL})
	writeJSON(w, http.StatusAccepted, sess.Snapshot())
}

func (s *Server) handleCopy(w http.ResponseWriter, r *http.Request) {
	text, err := s.orchestrator.CopyText(chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, "copying result", err)
		return
	}
	writeJSON(w, http.StatusOK, CopyResponse{Text: text})
}

// History

func parseQuery(r *http.Request) (history.Query, error) {
	q := r.URL.Query()
	risk, err := model.ParseRiskFilter(q.Get("risk"))
	if err != nil {
		return history.Query{}, err
	}
	return history.Query{Search: q.Get("search"), Risk: risk}, nil
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	q, err := parseQuery(r)
	if err != nil {
		s.fail(w, "parsing history query", err)
		return
	}
	page, err := s.orchestrator.ListHistory(r.Context(), q)
	if err != nil {
		s.fail(w, "listing history", err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) handleHistoryExport(w http.ResponseWriter, r *http.Request) {
	format, err := report.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		s.fail(w, "parsing export format", err)
		return
	}
	q, err := parseQuery(r)
	if err != nil {
		s.fail(w, "parsing history query", err)
		return
	}
	page, err := s.orchestrator.ListHistory(r.Context(), q)
	if err != nil {
		s.fail(w, "listing history", err)
		return
	}

	now := s.now()
	var buf bytes.Buffer
	err = report.WriteHistory(&buf, format, report.HistoryExport{
		GeneratedAt: now,
		Query:       q,
		Summary:     page.Summary,
		Records:     page.Records,
	})
	if err != nil {
		s.fail(w, "rendering history export", err)
		return
	}
	s.logger.Info("exported history", logging.Field{Key: "format", Value: format}, logging.Field{Key: "count", Value: len(page.Records)})
	writeAttachment(w, format.ContentType(), format.Filename("history", now), buf.Bytes())
}

func (s *Server) handleRescan(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	res, err := s.orchestrator.Rescan(r.Context(), id)
	if err != nil {
		s.fail(w, "rescanning record", err)
		return
	}
	s.logger.Info("rescanned record", logging.Field{Key: "record_id", Value: id}, logging.Field{Key: "changed", Value: res.Changed})
	writeJSON(w, http.StatusOK, res)
}
