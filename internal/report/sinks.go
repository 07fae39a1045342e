package report

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"sync"
)

// Stdout writes pass reports as JSON lines to an io.Writer (default
// os.Stdout).
type Stdout struct {
	mu  sync.Mutex
	enc *json.Encoder
}

// NewStdout creates a Stdout sink. If w is nil, os.Stdout is used.
func NewStdout(w io.Writer) *Stdout {
	if w == nil {
		w = os.Stdout
	}
	return &Stdout{enc: json.NewEncoder(w)}
}

func (s *Stdout) Send(_ context.Context, pass Pass) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enc.Encode(pass)
}

func (s *Stdout) Close() error { return nil }

// Callback delivers pass reports via an in-process function call.
type Callback struct {
	fn func(ctx context.Context, pass Pass) error
}

// NewCallback creates a Callback sink. fn may be nil.
func NewCallback(fn func(ctx context.Context, pass Pass) error) *Callback {
	return &Callback{fn: fn}
}

func (c *Callback) Send(ctx context.Context, pass Pass) error {
	if c.fn != nil {
		return c.fn(ctx, pass)
	}
	return nil
}

func (c *Callback) Close() error { return nil }

// Router fans out pass reports to all configured sinks. One sink error
// does not block the others — errors are logged and the first encountered
// is returned.
type Router struct {
	sinks  []Sink
	logger *slog.Logger
}

// NewRouter creates a fan-out router delivering to all sinks.
func NewRouter(logger *slog.Logger, sinks ...Sink) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{sinks: sinks, logger: logger}
}

func (r *Router) Send(ctx context.Context, pass Pass) error {
	var firstErr error
	for _, s := range r.sinks {
		if err := s.Send(ctx, pass); err != nil {
			r.logger.Warn("report: send pass failed", "error", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func (r *Router) Close() error {
	var firstErr error
	for _, s := range r.sinks {
		if err := s.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
