// Package scheduler periodically checks the dev server's proxy targets and
// records whether each upstream is reachable.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
)

// EventPublisher allows the scheduler to emit events without depending on a
// concrete event bus implementation.
type EventPublisher interface {
	Publish(eventType string, payload map[string]string)
}

// Event type constants for reachability transitions.
const (
	EventUpstreamUp   = "devserver.upstream.up"
	EventUpstreamDown = "devserver.upstream.down"
)

const defaultCheckTimeout = 3 * time.Second

// Target is a single upstream to check.
type Target struct {
	// Name identifies the target, usually the route prefix.
	Name string
	URL  *url.URL
}

// Status is the last observed state of a target.
type Status struct {
	Name        string    `json:"name"`
	Target      string    `json:"target"`
	Reachable   bool      `json:"reachable"`
	StatusCode  int       `json:"status_code,omitempty"`
	LastError   string    `json:"last_error,omitempty"`
	LastChecked time.Time `json:"last_checked"`
}

// Config holds the scheduler configuration.
type Config struct {
	Targets  []Target
	Interval time.Duration
	// Client is used for HEAD requests. Defaults to a client with a short timeout.
	Client *http.Client
	Logger *slog.Logger
	// EventPublisher is optional. When set, reachability transitions are published.
	EventPublisher EventPublisher
}

// Scheduler runs one gocron duration job per target.
type Scheduler struct {
	cron   gocron.Scheduler
	cfg    Config
	client *http.Client
	logger *slog.Logger

	mu       sync.RWMutex
	jobs     map[string]uuid.UUID // target name → gocron job UUID
	statuses map[string]Status
}

// New creates a new Scheduler. Jobs are not registered until Start.
func New(cfg Config) (*Scheduler, error) {
	if cfg.Interval <= 0 {
		return nil, fmt.Errorf("check interval must be positive, got %s", cfg.Interval)
	}
	cron, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("creating gocron scheduler: %w", err)
	}

	client := cfg.Client
	if client == nil {
		client = &http.Client{Timeout: defaultCheckTimeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Scheduler{
		cron:     cron,
		cfg:      cfg,
		client:   client,
		logger:   logger,
		jobs:     make(map[string]uuid.UUID),
		statuses: make(map[string]Status),
	}, nil
}

// Start schedules a check job per target and starts the gocron scheduler.
// Each job also runs once immediately.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range s.cfg.Targets {
		target := t
		job, err := s.cron.NewJob(
			gocron.DurationJob(s.cfg.Interval),
			gocron.NewTask(func() { s.check(ctx, target) }),
			gocron.WithStartAt(gocron.WithStartImmediately()),
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
		)
		if err != nil {
			return fmt.Errorf("scheduling check for %q: %w", target.Name, err)
		}
		s.jobs[target.Name] = job.ID()
	}

	s.cron.Start()
	s.logger.Info("upstream check started",
		"targets", len(s.jobs), "interval", s.cfg.Interval.String())
	return nil
}

// Stop shuts down the gocron scheduler.
func (s *Scheduler) Stop() error {
	return s.cron.Shutdown()
}

// CheckAll checks every target once, synchronously.
func (s *Scheduler) CheckAll(ctx context.Context) {
	for _, t := range s.cfg.Targets {
		s.check(ctx, t)
	}
}

// Statuses returns the last observed status of every target, in target order.
// Targets that were never checked are omitted.
func (s *Scheduler) Statuses() []Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Status, 0, len(s.statuses))
	for _, t := range s.cfg.Targets {
		if st, ok := s.statuses[t.Name]; ok {
			out = append(out, st)
		}
	}
	return out
}
