package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/myaxum/myaxum/internal/service"
)

type usersResponse struct {
	Users []service.User `json:"users"`
}

type createUserRequest struct {
	Username string `json:"username"`
}

func (s *Server) handleJSONSample(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.userSvc.Sample(r.Context()))
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, usersResponse{Users: s.userSvc.List(r.Context())})
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	user, err := s.userSvc.Create(r.Context(), req.Username)
	if err != nil {
		var ve *service.ValidationError
		if errors.As(err, &ve) {
			writeError(w, http.StatusBadRequest, ve.Error())
			return
		}
		s.logger.Error("create user failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create user")
		return
	}
	writeJSON(w, http.StatusCreated, user)
}
