// Package bootstrap implements the client start-up path: fetch the initial
// payload once, write its fields to the diagnostic stream, then mount the
// root component.
package bootstrap

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	// SamplePath is the fixed path of the initial payload.
	SamplePath = "/api/json_sample"
	// DefaultAnchor is the element the root component is mounted into.
	DefaultAnchor = "#app"
)

// Payload is the initial response body.
type Payload struct {
	Username string `json:"username"`
	ID       int64  `json:"id"`
}

// Result is the outcome of a Sequence. Exactly one of Payload or Err is
// meaningful for fetch failures; a MountError carries both.
type Result struct {
	Payload *Payload
	Err     error
}

// OK reports whether the sequence fetched and mounted successfully.
func (r Result) OK() bool { return r.Err == nil }

// Mounter attaches the root component to the element matched by anchor.
type Mounter interface {
	Mount(ctx context.Context, anchor string) error
}

// MounterFunc adapts a function to the Mounter interface.
type MounterFunc func(ctx context.Context, anchor string) error

// Mount calls f.
func (f MounterFunc) Mount(ctx context.Context, anchor string) error { return f(ctx, anchor) }

// Options configures a Sequence.
type Options struct {
	// BaseURL is the origin the sample path is resolved against.
	BaseURL string
	// Client defaults to an instrumented client without a timeout.
	Client *http.Client
	// Console receives the diagnostic lines: id, then username.
	Console io.Writer
	Mounter Mounter
	// Anchor defaults to DefaultAnchor.
	Anchor string
	Logger *slog.Logger
}

// Sequence performs one fetch-then-mount. It is safe to call Start from
// multiple goroutines; only the first call does any work.
type Sequence struct {
	url     string
	client  *http.Client
	console io.Writer
	mounter Mounter
	anchor  string
	logger  *slog.Logger
	started atomic.Bool
}

// New validates opts and returns a Sequence ready to Start.
func New(opts Options) (*Sequence, error) {
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parsing base URL %q: %w", opts.BaseURL, err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("base URL %q must be absolute", opts.BaseURL)
	}
	if base.RawQuery != "" || base.Fragment != "" || base.ForceQuery {
		return nil, fmt.Errorf("base URL %q must not carry a query or fragment", opts.BaseURL)
	}
	if opts.Console == nil {
		return nil, errors.New("console writer is required")
	}
	if opts.Mounter == nil {
		return nil, errors.New("mounter is required")
	}

	client := opts.Client
	if client == nil {
		client = &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	}
	anchor := opts.Anchor
	if anchor == "" {
		anchor = DefaultAnchor
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	return &Sequence{
		url:     base.JoinPath(SamplePath).String(),
		client:  client,
		console: opts.Console,
		mounter: opts.Mounter,
		anchor:  anchor,
		logger:  log,
	}, nil
}

// Start issues the request without blocking the caller. The returned channel
// yields exactly one Result and is then closed. Logging and mounting happen
// strictly after the response has been received and decoded.
func (s *Sequence) Start(ctx context.Context) <-chan Result {
	ch := make(chan Result, 1)
	if !s.started.CompareAndSwap(false, true) {
		ch <- Result{Err: ErrAlreadyStarted}
		close(ch)
		return ch
	}

	go func() {
		defer close(ch)
		ch <- s.run(ctx)
	}()
	return ch
}

// Run starts the sequence and waits for its Result.
func (s *Sequence) Run(ctx context.Context) Result {
	return <-s.Start(ctx)
}

func (s *Sequence) run(ctx context.Context) Result {
	payload, err := s.fetch(ctx)
	if err != nil {
		return Result{Err: err}
	}

	_, _ = fmt.Fprintln(s.console, payload.ID)
	_, _ = fmt.Fprintln(s.console, payload.Username)

	if err := s.mounter.Mount(ctx, s.anchor); err != nil {
		return Result{Payload: payload, Err: &MountError{Anchor: s.anchor, Err: err}}
	}
	s.logger.Info("root component mounted", "anchor", s.anchor, "id", payload.ID)
	return Result{Payload: payload}
}

// wirePayload detects missing fields, which a plain Payload decode would
// silently zero.
type wirePayload struct {
	Username *string `json:"username"`
	ID       *int64  `json:"id"`
}

func (s *Sequence) fetch(ctx context.Context) (*Payload, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	s.logger.Debug("fetching initial payload", "url", s.url)
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &NetworkError{URL: s.url, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &StatusError{URL: s.url, StatusCode: resp.StatusCode}
	}

	var wire wirePayload
	dec := json.NewDecoder(resp.Body)
	if err := dec.Decode(&wire); err != nil {
		return nil, &MalformedBodyError{Reason: "decoding JSON", Err: err}
	}
	// The body must be exactly one JSON value.
	if _, err := dec.Token(); err != io.EOF {
		return nil, &MalformedBodyError{Reason: "trailing data after JSON object", Err: err}
	}
	if wire.ID == nil {
		return nil, &MalformedBodyError{Reason: `missing field "id"`}
	}
	if wire.Username == nil {
		return nil, &MalformedBodyError{Reason: `missing field "username"`}
	}
	return &Payload{Username: *wire.Username, ID: *wire.ID}, nil
}
