// Package web serves the password-gated diagram page.
package web

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/matsen/modelgraph/internal/datasource"
	"github.com/matsen/modelgraph/internal/gate"
	"github.com/matsen/modelgraph/internal/graph"
	"github.com/matsen/modelgraph/internal/metrics"
	"github.com/matsen/modelgraph/internal/viz"
)

// SessionCookie names the cookie carrying the session id.
const SessionCookie = "modelgraph_session"

// Options are the dependencies and settings of a Server.
type Options struct {
	Source     datasource.Source
	Gate       *gate.Gate        // nil uses the built-in plaintext password
	Renderer   *viz.Renderer     // nil stages artifacts in the system temp directory
	View       viz.Options       // zero value uses viz.DefaultOptions
	Metrics    *metrics.Registry // nil creates a private registry
	Logger     *slog.Logger
	SessionTTL time.Duration
	LoginRate  float64 // Attempts per second across all clients, 0 disables limiting
	LoginBurst int
}

// Server is the HTTP presentation shell.
type Server struct {
	source   datasource.Source
	gate     *gate.Gate
	renderer *viz.Renderer
	view     viz.Options
	sessions *SessionStore
	cache    *DocumentCache
	limiter  *rate.Limiter // nil = unlimited
	metrics  *metrics.Registry
	logger   *slog.Logger
}

// NewServer creates a Server. Source defaults to the static table.
func NewServer(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Server{
		source:   opts.Source,
		gate:     opts.Gate,
		renderer: opts.Renderer,
		view:     opts.View,
		sessions: NewSessionStore(opts.SessionTTL),
		cache:    &DocumentCache{},
		metrics:  opts.Metrics,
		logger:   logger,
	}
	if s.source == nil {
		s.source = datasource.NewStatic()
	}
	if s.gate == nil {
		s.gate = gate.New(nil)
	}
	if s.renderer == nil {
		s.renderer = viz.NewRenderer("", logger)
	}
	if s.view.Height == 0 {
		s.view = viz.DefaultOptions()
	}
	if s.metrics == nil {
		s.metrics = metrics.NewRegistry()
	}
	if opts.LoginRate > 0 {
		burst := max(opts.LoginBurst, 1)
		s.limiter = rate.NewLimiter(rate.Limit(opts.LoginRate), burst)
	}
	return s
}

// Handler returns an http.Handler with all routes registered.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.handleHealthz)
	mux.HandleFunc("GET /metrics", s.handleMetrics)

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /login", s.handleLogin)
	mux.HandleFunc("POST /refresh", s.authenticated(s.handleRefresh))
	mux.HandleFunc("GET /graph", s.authenticated(s.handleGraph))

	return mux
}

// Invalidate discards the cached document so the next request rebuilds it.
func (s *Server) Invalidate() {
	s.cache.Invalidate()
}

// --- sessions ---

// session returns the caller's session, creating one (and setting the cookie)
// when the request carries no live session id.
func (s *Server) session(w http.ResponseWriter, r *http.Request) *Session {
	if c, err := r.Cookie(SessionCookie); err == nil {
		sess, ok := s.sessions.Get(c.Value)
		s.recordSessions()
		if ok {
			return sess
		}
	}

	sess := s.sessions.Create()
	s.recordSessions()
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    sess.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return sess
}

// recordSessions publishes the number of sessions held.
func (s *Server) recordSessions() {
	s.metrics.ActiveSessions.Set(float64(s.sessions.Len()))
}

// authenticated rejects requests whose session has not passed the gate.
func (s *Server) authenticated(next func(http.ResponseWriter, *http.Request, *Session)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := s.session(w, r)
		if !sess.Gate.Authenticated() {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r, sess)
	}
}

// --- rendering ---

// document returns the current diagram, building and rendering it on a cache miss.
func (s *Server) document() (*viz.Document, error) {
	doc, hit, err := s.cache.Get(s.render)
	if hit {
		s.metrics.RenderCacheHits.Inc()
	}
	return doc, err
}

func (s *Server) render() (*viz.Document, error) {
	start := time.Now()

	g, err := graph.BuildFrom(s.source)
	if err != nil {
		s.metrics.RecordRender(err, time.Since(start), 0, 0)
		s.logger.Error("building graph", "error", err)
		return nil, err
	}

	doc, err := s.renderer.Render(g, s.view)
	s.metrics.RecordRender(err, time.Since(start), g.NodeCount(), g.EdgeCount())
	if err != nil {
		s.logger.Error("rendering graph", "error", err)
		return nil, err
	}

	s.logger.Info("rendered graph", "nodes", g.NodeCount(), "edges", g.EdgeCount(), "duration", time.Since(start))
	return doc, nil
}

// --- handlers ---

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleMetrics drops expired sessions before exposing the gauges.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if n := s.sessions.Sweep(); n > 0 {
		s.logger.Debug("expired sessions removed", "count", n)
	}
	s.recordSessions()
	s.metrics.Handler().ServeHTTP(w, r)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	data := pageData{
		Title:  PageTitle,
		Height: s.view.Height,
		Width:  s.view.Width,
	}

	switch sess.Gate.State() {
	case gate.Authenticated:
		data.Authenticated = true
		data.Version = sess.Version()
		if _, err := s.document(); err != nil {
			data.Error = msgRenderFailed + err.Error()
		}
	case gate.Rejected:
		data.Rejected = true
	}

	s.writePage(w, http.StatusOK, data)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)

	if s.limiter != nil && !s.limiter.Allow() {
		s.metrics.RecordLogin(metrics.LoginThrottled)
		s.logger.Warn("login throttled", "session", sess.ID)
		http.Error(w, "too many login attempts", http.StatusTooManyRequests)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	state := s.gate.Submit(sess.Gate, r.PostForm.Get("password"))
	if state == gate.Authenticated {
		s.metrics.RecordLogin(metrics.LoginAccepted)
		s.logger.Info("session authenticated", "session", sess.ID)
	} else {
		s.metrics.RecordLogin(metrics.LoginRejected)
		s.logger.Warn("password rejected", "session", sess.ID)
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request, sess *Session) {
	v := sess.Bump()
	s.cache.Invalidate()
	s.logger.Debug("graph refresh requested", "session", sess.ID, "version", v)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleGraph(w http.ResponseWriter, _ *http.Request, _ *Session) {
	doc, err := s.document()
	if err != nil {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(msgRenderFailed + err.Error()))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write([]byte(doc.HTML))
}

// --- helpers ---

func (s *Server) writePage(w http.ResponseWriter, status int, data pageData) {
	var buf bytes.Buffer
	if err := writePage(&buf, data); err != nil {
		s.logger.Error("failed to execute page template", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// writeJSON writes v as a JSON response.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if encErr := json.NewEncoder(w).Encode(v); encErr != nil {
		s.logger.Error("failed to encode response", "error", encErr)
	}
}

// Shutdown gracefully shuts down an http.Server with the given timeout.
func Shutdown(srv *http.Server, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return srv.Shutdown(ctx)
}
