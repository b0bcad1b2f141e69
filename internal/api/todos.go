package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/myaxum/myaxum/internal/service"
	"github.com/myaxum/myaxum/internal/storage"
)

type createTodoRequest struct {
	Text string `json:"text"`
}

func (s *Server) handleListTodos(w http.ResponseWriter, r *http.Request) {
	todos, err := s.todoSvc.List(r.Context())
	if err != nil {
		s.logger.Error("list todos failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list todos")
		return
	}
	writeJSON(w, http.StatusOK, todos)
}

func (s *Server) handleCreateTodo(w http.ResponseWriter, r *http.Request) {
	var req createTodoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	todo, err := s.todoSvc.Create(r.Context(), req.Text)
	if err != nil {
		s.writeServiceError(w, "create todo", err)
		return
	}
	writeJSON(w, http.StatusCreated, todo)
}

func (s *Server) handleGetTodo(w http.ResponseWriter, r *http.Request) {
	id, ok := todoID(w, r)
	if !ok {
		return
	}
	todo, err := s.todoSvc.Get(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, "get todo", err)
		return
	}
	writeJSON(w, http.StatusOK, todo)
}

// handleUpdateTodo answers 201 Created on success, matching the existing clients.
func (s *Server) handleUpdateTodo(w http.ResponseWriter, r *http.Request) {
	id, ok := todoID(w, r)
	if !ok {
		return
	}

	var req storage.UpdateTodo
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	todo, err := s.todoSvc.Update(r.Context(), id, req)
	if err != nil {
		s.writeServiceError(w, "update todo", err)
		return
	}
	writeJSON(w, http.StatusCreated, todo)
}

func (s *Server) handleDeleteTodo(w http.ResponseWriter, r *http.Request) {
	id, ok := todoID(w, r)
	if !ok {
		return
	}
	if err := s.todoSvc.Delete(r.Context(), id); err != nil {
		s.writeServiceError(w, "delete todo", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func todoID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid todo id "+strconv.Quote(raw))
		return 0, false
	}
	return id, true
}

func (s *Server) writeServiceError(w http.ResponseWriter, op string, err error) {
	var nfe *service.NotFoundError
	var ve *service.ValidationError
	switch {
	case errors.As(err, &nfe):
		writeError(w, http.StatusNotFound, nfe.Error())
	case errors.As(err, &ve):
		writeError(w, http.StatusBadRequest, ve.Error())
	default:
		s.logger.Error(op+" failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to "+op)
	}
}
