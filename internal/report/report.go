// Package report defines the diagnostic output of a fix pass and the sinks
// it is delivered to.
package report

import (
	"context"
	"time"
)

// FixResult is one fix's outcome within a pass.
type FixResult struct {
	Name    string `json:"name"`
	Present int    `json:"present"`
	Touched int    `json:"touched"`
	Err     string `json:"err,omitempty"`
}

// Pass summarises one full run of the fix registry.
type Pass struct {
	ID        string      `json:"id"`
	Reason    string      `json:"reason"`
	Timestamp time.Time   `json:"ts"`
	Fixes     []FixResult `json:"fixes"`
	Ops       int         `json:"ops"`
}

// Sink is the delivery interface for pass reports.
type Sink interface {
	Send(ctx context.Context, pass Pass) error
	Close() error
}
