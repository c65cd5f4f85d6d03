// Package httpserver serves the documentation site directly from the content tree.
package httpserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"git.home.luguber.info/inful/docsite/internal/config"
	derrors "git.home.luguber.info/inful/docsite/internal/errors"
	"git.home.luguber.info/inful/docsite/internal/logfields"
	"git.home.luguber.info/inful/docsite/internal/metrics"
	smw "git.home.luguber.info/inful/docsite/internal/server/middleware"
	"git.home.luguber.info/inful/docsite/internal/site"
)

const (
	readHeaderTimeout = 10 * time.Second
	writeTimeout      = 30 * time.Second
	idleTimeout       = 120 * time.Second
)

// Server renders pages on request.
type Server struct {
	site         *site.Site
	cfg          config.ServerConfig
	logger       *slog.Logger
	recorder     metrics.Recorder
	metrics      http.Handler
	extra        map[string]http.Handler
	errorAdapter *derrors.HTTPErrorAdapter
	started      time.Time

	mu  sync.Mutex
	srv *http.Server
	ln  net.Listener
}

// Option configures a Server.
type Option func(*Server)

// WithRecorder records per-request metrics.
func WithRecorder(r metrics.Recorder) Option {
	return func(s *Server) {
		if r != nil {
			s.recorder = r
		}
	}
}

// WithMetricsHandler mounts h on GET /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) { s.metrics = h }
}

// WithHandler mounts an additional handler, e.g. the MCP transport.
func WithHandler(pattern string, h http.Handler) Option {
	return func(s *Server) {
		if s.extra == nil {
			s.extra = map[string]http.Handler{}
		}
		s.extra[pattern] = h
	}
}

// WithLogger replaces slog.Default() for request logs.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Server for st.
func New(st *site.Site, cfg config.ServerConfig, opts ...Option) *Server {
	s := &Server{
		site:     st,
		cfg:      cfg,
		logger:   slog.Default(),
		recorder: metrics.NoopRecorder{},
		started:  time.Now(),
	}
	for _, o := range opts {
		o(s)
	}
	s.errorAdapter = derrors.NewHTTPErrorAdapter(s.logger)
	return s
}

// Handler returns the routed, middleware-wrapped handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleHome)
	mux.HandleFunc("GET /docs/{slug...}", s.handleDoc)
	mux.HandleFunc("GET /sitemap.xml", s.handleSitemap)
	mux.HandleFunc("GET /robots.txt", s.handleRobots)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	if s.metrics != nil {
		mux.Handle("GET /metrics", s.metrics)
	}
	for pattern, h := range s.extra {
		mux.Handle(pattern, h)
	}
	mux.HandleFunc("/", s.handleNotFound)
	return smw.Chain(s.logger, s.errorAdapter, s.recorder)(mux)
}

// Start binds the listen address and serves in the background. Bind errors
// are returned immediately.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.srv != nil {
		return derrors.New(derrors.CategoryRuntime, derrors.SeverityError, "server already started")
	}

	lc := net.ListenConfig{}
	ln, err := lc.Listen(ctx, "tcp", s.cfg.Addr)
	if err != nil {
		return derrors.Wrap(err, derrors.CategoryRuntime, derrors.SeverityFatal, "http startup failed").
			WithContext("addr", s.cfg.Addr)
	}
	s.ln = ln
	s.srv = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	go func(srv *http.Server) {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("HTTP server error", logfields.Error(err))
		}
	}(s.srv)
	s.logger.Info("HTTP server started", slog.String("addr", ln.Addr().String()))
	return nil
}

// Addr reports the bound address once started.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return ""
	}
	return s.ln.Addr().String()
}

// Stop gracefully shuts the server down.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	srv := s.srv
	s.srv, s.ln = nil, nil
	s.mu.Unlock()
	if srv == nil {
		return nil
	}
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	s.logger.Info("HTTP server stopped")
	return nil
}
