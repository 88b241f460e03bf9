package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/arbor-ui/arbor/pkg/middleware"
	"github.com/arbor-ui/arbor/pkg/protocol"
	"github.com/arbor-ui/arbor/pkg/render"
)

// ActionFunc handles one action event on a session's event loop.
// Handlers mutate state cells; the resulting recomposition and patch
// delivery happen after the handler returns.
type ActionFunc func(sess *Session, ev *protocol.Event) error

// PageFactory builds a page instance for one live session. The session
// is nil for sessionless renders (HTTP responses and static export), so
// factories must not require it.
type PageFactory func(sess *Session) Page

// pageEntry is a registered page route.
type pageEntry struct {
	title   string
	factory PageFactory
	head    *render.HeadSink
}

// Server is the HTTP/WebSocket server for Arbor applications.
type Server struct {
	config *Config
	logger *slog.Logger

	router   chi.Router
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	pages   map[string]*pageEntry
	actions map[string]ActionFunc

	sessMu     sync.RWMutex
	sessions   map[uint64]*Session
	nextSessID atomic.Uint64

	httpServer *http.Server
}

// New creates a Server with the given configuration. A nil config uses
// defaults.
func New(config *Config) *Server {
	if config == nil {
		config = DefaultConfig()
	}
	config.fillDefaults()

	s := &Server{
		config:   config,
		logger:   config.Logger.With("component", "server"),
		pages:    make(map[string]*pageEntry),
		actions:  make(map[string]ActionFunc),
		sessions: make(map[uint64]*Session),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			CheckOrigin:     config.CheckOrigin,
		},
	}
	s.router = s.buildRouter()
	return s
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	if s.config.Tracing {
		r.Use(middleware.OpenTelemetry())
	}
	if s.config.Metrics {
		r.Use(middleware.Prometheus())
		r.Handle("/metrics", promhttp.Handler())
	}

	if s.config.StaticDir != "" {
		r.Get(s.config.StaticPrefix+"*", s.serveStatic)
	}
	r.Get("/_arbor/boot.js", s.serveBootJS)
	r.Head("/_arbor/boot.js", s.serveBootJS)
	r.Get("/_arbor/live", s.handleWebSocket)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.NotFound(s.servePage)
	return r
}

// RegisterPage registers a page at the given path. Every session
// composes the same page value, so any cells it captures are shared
// across sessions; use RegisterSessionPage for per-session state.
func (s *Server) RegisterPage(path, title string, page Page) {
	s.RegisterSessionPage(path, title, func(*Session) Page { return page })
}

// RegisterSessionPage registers a page built fresh for each session,
// so cells created in the factory are scoped to one connection. The
// factory receives a nil session for HTTP renders and static export.
func (s *Server) RegisterSessionPage(path, title string, factory PageFactory) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pages[path] = &pageEntry{title: title, factory: factory, head: render.NewHeadSink()}
}

// OnAction registers a handler for an action type. Events carrying an
// unregistered type are answered with an error frame.
func (s *Server) OnAction(actionType string, fn ActionFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.actions[actionType] = fn
}

func (s *Server) lookupPage(path string) *pageEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pages[path]
}

func (s *Server) lookupAction(actionType string) ActionFunc {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.actions[actionType]
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// RenderPage renders a registered page to a complete HTML document.
// Used by the static exporter.
func (s *Server) RenderPage(path string) (string, error) {
	entry := s.lookupPage(path)
	if entry == nil {
		return "", fmt.Errorf("no page registered at %q", path)
	}

	c := newPageComposer(s.logger)
	defer c.Dispose()

	rootHTML, err := renderRoot(c, entry.factory(nil))
	if err != nil {
		return "", err
	}
	return renderDocument(entry.title, rootHTML, entry.head), nil
}

// Pages returns the registered page paths.
func (s *Server) Pages() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.pages))
	for path := range s.pages {
		out = append(out, path)
	}
	sort.Strings(out)
	return out
}

// servePage renders a registered page to a full HTML document.
func (s *Server) servePage(w http.ResponseWriter, r *http.Request) {
	entry := s.lookupPage(r.URL.Path)
	if entry == nil {
		http.NotFound(w, r)
		return
	}

	c := newPageComposer(s.logger)
	defer c.Dispose()

	rootHTML, err := renderRoot(c, entry.factory(nil))
	if err != nil {
		s.logger.Error("page render failed", "path", r.URL.Path, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(renderDocument(entry.title, rootHTML, entry.head)))
}

// handleWebSocket upgrades the connection and starts a live session.
// The page query parameter selects which registered page the session
// composes.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	pagePath := r.URL.Query().Get("page")
	if pagePath == "" {
		pagePath = "/"
	}
	entry := s.lookupPage(pagePath)
	if entry == nil {
		http.Error(w, "unknown page", http.StatusNotFound)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "error", err)
		middleware.RecordWebSocketError("upgrade")
		return
	}

	sess := newSession(s, s.nextSessID.Add(1), conn, entry.factory)

	s.sessMu.Lock()
	s.sessions[sess.ID()] = sess
	s.sessMu.Unlock()
	middleware.RecordSessionCreate()

	sess.Start()
}

// removeSession drops a closed session from the registry.
func (s *Server) removeSession(id uint64) {
	s.sessMu.Lock()
	if _, ok := s.sessions[id]; ok {
		delete(s.sessions, id)
		middleware.RecordSessionDestroy()
	}
	s.sessMu.Unlock()
}

// SessionCount returns the number of live sessions.
func (s *Server) SessionCount() int {
	s.sessMu.RLock()
	defer s.sessMu.RUnlock()
	return len(s.sessions)
}

// ListenAndServe starts the HTTP server and blocks until it stops.
func (s *Server) ListenAndServe() error {
	s.httpServer = &http.Server{
		Addr:    s.config.Address,
		Handler: s,
	}
	s.logger.Info("listening", "address", s.config.Address)
	err := s.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown gracefully stops the server, closing live sessions first.
func (s *Server) Shutdown(ctx context.Context) error {
	s.sessMu.RLock()
	sessions := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		sessions = append(sessions, sess)
	}
	s.sessMu.RUnlock()
	for _, sess := range sessions {
		sess.Close()
	}

	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}
