package api

import (
	"net/http"

	"github.com/myaxum/myaxum/internal/build"
)

func (s *Server) handleVersion(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"version":    build.Version,
		"commit":     build.Commit(),
		"build_date": build.BuildDate,
	})
}
