package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/myaxum/myaxum/internal/service"
)

// Server holds all dependencies for the REST API handlers.
type Server struct {
	todoSvc service.TodoService
	userSvc service.UserService
	logger  *slog.Logger
}

// New creates a new API Server backed by the provided services.
func New(todoSvc service.TodoService, userSvc service.UserService, logger *slog.Logger) *Server {
	return &Server{
		todoSvc: todoSvc,
		userSvc: userSvc,
		logger:  logger,
	}
}

// Mount registers the JSON API routes. The caller mounts the router under /api.
func (s *Server) Mount(r chi.Router) {
	r.Get("/json_sample", s.handleJSONSample)
	r.Get("/users", s.handleListUsers)
	r.Get("/version", s.handleVersion)

	// Todos CRUD
	r.Get("/todos", s.handleListTodos)
	r.Post("/todos", s.handleCreateTodo)
	r.Get("/todos/{id}", s.handleGetTodo)
	r.Patch("/todos/{id}", s.handleUpdateTodo)
	r.Delete("/todos/{id}", s.handleDeleteTodo)
}

// MountPublic registers the routes served outside /api.
func (s *Server) MountPublic(r chi.Router) {
	r.Post("/users", s.handleCreateUser)
	r.Get("/login/", s.handleLoginForm)
	r.Post("/login/", s.handleLogin)
}

// ─── Shared helpers ───────────────────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeHTML(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}
