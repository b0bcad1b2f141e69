// Package devserver implements the development front server: requests whose
// path starts with a configured prefix are reverse-proxied to the backend,
// everything else is answered with the single-page app.
package devserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/myaxum/myaxum/internal/config"
	"github.com/myaxum/myaxum/internal/scheduler"
)

// UpstreamStatus reports the last known reachability of the proxy targets.
type UpstreamStatus interface {
	Statuses() []scheduler.Status
}

// Option configures optional Server dependencies.
type Option func(*Server)

// WithUpstreamStatus exposes check results on /__devserver/status.
func WithUpstreamStatus(u UpstreamStatus) Option {
	return func(s *Server) { s.upstreams = u }
}

// Server is the development HTTP server.
type Server struct {
	cfg        *config.DevServerConfig
	logger     *slog.Logger
	proxies    []*routeProxy
	site       *site
	upstreams  UpstreamStatus
	registry   *prometheus.Registry
	handler    http.Handler
	httpServer *http.Server
}

// New creates a dev server for cfg. frontend is the embedded SPA build; it is
// ignored when cfg.StaticDir is set. A nil frontend with no StaticDir answers
// non-proxied requests with 404.
func New(cfg *config.DevServerConfig, frontend fs.FS, logger *slog.Logger, opts ...Option) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("dev server config is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		cfg:      cfg,
		logger:   logger,
		registry: prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(s)
	}

	metrics := newProxyMetrics(s.registry)
	for _, route := range cfg.Routes {
		if route.TargetOrigin == nil {
			return nil, fmt.Errorf("proxy route %q has no target", route.PathPrefix)
		}
		s.proxies = append(s.proxies, newRouteProxy(route, metrics, logger))
	}

	spa, err := newSite(cfg.StaticDir, frontend, logger)
	if err != nil {
		return nil, err
	}
	s.site = spa

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(s.requestLogger)

	r.Route("/__devserver", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/status", s.handleStatus)
		r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	})

	r.Handle("/*", http.HandlerFunc(s.dispatch))

	s.handler = r
	s.httpServer = &http.Server{
		Addr:              cfg.Binding.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s, nil
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run starts the HTTP server and blocks until ctx is canceled.
func (s *Server) Run(ctx context.Context) error {
	defer func() {
		if err := s.Close(); err != nil {
			s.logger.Warn("closing static watcher failed", "error", err)
		}
	}()

	lc := &net.ListenConfig{}
	ln, err := lc.Listen(ctx, "tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.httpServer.Addr, err)
	}

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	s.logger.Info("dev server listening", "addr", s.httpServer.Addr, "routes", len(s.proxies))

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("shutting down dev server")
		return s.httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

// Close stops the static directory watcher, if any.
func (s *Server) Close() error {
	return s.site.Close()
}

// dispatch sends the request to the first matching proxy route, or to the SPA.
func (s *Server) dispatch(w http.ResponseWriter, r *http.Request) {
	for _, p := range s.proxies {
		if p.route.Matches(r.URL.Path) {
			p.ServeHTTP(w, r)
			return
		}
	}
	s.site.ServeHTTP(w, r)
}

// requestLogger is a chi middleware that logs each incoming request.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("http request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", ww.Status()),
			slog.Duration("duration", time.Since(start)),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
