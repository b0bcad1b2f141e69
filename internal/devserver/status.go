package devserver

import (
	"net/http"

	"github.com/myaxum/myaxum/internal/scheduler"
)

type routeInfo struct {
	Prefix       string `json:"prefix"`
	Target       string `json:"target"`
	ChangeOrigin bool   `json:"change_origin"`
}

type statusResponse struct {
	Addr      string             `json:"addr"`
	Routes    []routeInfo        `json:"routes"`
	Upstreams []scheduler.Status `json:"upstreams"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	resp := statusResponse{
		Addr:      s.cfg.Binding.Addr(),
		Routes:    make([]routeInfo, 0, len(s.proxies)),
		Upstreams: []scheduler.Status{},
	}
	for _, p := range s.proxies {
		resp.Routes = append(resp.Routes, routeInfo{
			Prefix:       p.route.PathPrefix,
			Target:       p.route.TargetOrigin.String(),
			ChangeOrigin: p.route.ChangeOrigin,
		})
	}
	if s.upstreams != nil {
		resp.Upstreams = s.upstreams.Statuses()
	}
	writeJSON(w, http.StatusOK, resp)
}
