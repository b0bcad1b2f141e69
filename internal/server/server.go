package server

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/myaxum/myaxum/internal/api"
)

// Options configures the backend HTTP server.
type Options struct {
	Host string
	Port int
	// FrontendFS is the embedded SPA build. StaticDir, when set, takes precedence.
	FrontendFS fs.FS
	StaticDir  string
	// CORSAllowedOrigins lists the browser origins allowed to call the API.
	CORSAllowedOrigins []string
}

// Server is the backend HTTP server.
type Server struct {
	frontendFS fs.FS
	logger     *slog.Logger
	httpServer *http.Server
}

// New creates a new Server. With neither FrontendFS nor StaticDir set,
// non-API paths answer 404.
func New(apiSrv *api.Server, opts Options, logger *slog.Logger) *Server {
	s := &Server{
		frontendFS: opts.FrontendFS,
		logger:     logger,
	}
	if opts.StaticDir != "" {
		s.frontendFS = os.DirFS(opts.StaticDir)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(s.requestLogger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// API routes
	r.Route("/api", func(r chi.Router) {
		apiSrv.Mount(r)
	})
	apiSrv.MountPublic(r)

	// Static files + SPA fallback
	r.Get("/*", s.spaHandler())

	s.httpServer = &http.Server{
		Addr:              net.JoinHostPort(opts.Host, fmt.Sprint(opts.Port)),
		Handler:           otelhttp.NewHandler(r, "myaxum"),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Run starts the HTTP server and blocks until ctx is canceled.
func (s *Server) Run(ctx context.Context) error {
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

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("shutting down server")
		return s.httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

// requestLogger is a chi middleware that logs each incoming request.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("http request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", ww.Status()),
			slog.Duration("duration", time.Since(start)),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

// spaHandler returns an http.HandlerFunc that serves the SPA build with an
// index.html fallback for client-side routes.
func (s *Server) spaHandler() http.HandlerFunc {
	if s.frontendFS == nil {
		return func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "frontend not available", http.StatusNotFound)
		}
	}

	return func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimPrefix(path.Clean("/"+r.URL.Path), "/")
		if name == "" {
			name = "index.html"
		}

		if info, err := fs.Stat(s.frontendFS, name); err != nil || info.IsDir() {
			// File not found, serve index.html for client-side routing.
			name = "index.html"
		}
		http.ServeFileFS(w, r, s.frontendFS, name)
	}
}
