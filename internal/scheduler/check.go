package scheduler

import (
	"context"
	"net/http"
	"time"
)

// check sends HEAD {target}/ and records the outcome. Any HTTP response,
// whatever its status, counts as reachable.
func (s *Scheduler) check(ctx context.Context, t Target) {
	st := Status{
		Name:        t.Name,
		Target:      t.URL.String(),
		LastChecked: time.Now().UTC(),
	}

	checkURL := t.URL.JoinPath("/").String()
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, checkURL, nil)
	if err != nil {
		st.LastError = err.Error()
		s.record(st)
		return
	}

	resp, err := s.client.Do(req)
	if err != nil {
		st.LastError = err.Error()
	} else {
		_ = resp.Body.Close()
		st.Reachable = true
		st.StatusCode = resp.StatusCode
	}
	s.record(st)
}

// record stores st and logs/publishes on a reachability transition. The first
// observation of a target counts as a transition.
func (s *Scheduler) record(st Status) {
	s.mu.Lock()
	prev, seen := s.statuses[st.Name]
	s.statuses[st.Name] = st
	s.mu.Unlock()

	if seen && prev.Reachable == st.Reachable {
		return
	}

	if st.Reachable {
		s.logger.Info("upstream reachable",
			"route", st.Name, "target", st.Target, "status_code", st.StatusCode)
		s.publish(EventUpstreamUp, st)
		return
	}
	s.logger.Warn("upstream unreachable",
		"route", st.Name, "target", st.Target, "error", st.LastError)
	s.publish(EventUpstreamDown, st)
}

func (s *Scheduler) publish(eventType string, st Status) {
	if s.cfg.EventPublisher == nil {
		return
	}
	s.cfg.EventPublisher.Publish(eventType, map[string]string{
		"route":  st.Name,
		"target": st.Target,
	})
}
