// Package harness is the trigger harness: it subscribes to page-lifecycle
// signals and runs the registered fix routines whenever a signal says new
// or changed markup is plausible, without ever allowing unbounded repeated
// work.
//
// All passes run on a single event-loop goroutine, driven by the signal
// channel and timers. Timers re-inject internal signals through Notify, so
// a pending rescan continuation is never cancelled when a fresh trigger
// fires — both passes run, and the idempotency markers make the redundant
// one a no-op.
package harness

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hazyhaar/domremedy/internal/dom"
	"github.com/hazyhaar/domremedy/internal/fixes"
	"github.com/hazyhaar/domremedy/internal/report"
	"golang.org/x/net/html/atom"
)

// Page is the live document the harness operates on: a snapshot source and
// an op-log applier. Implemented by the browser tab; tests plug in fakes.
type Page interface {
	Snapshot(ctx context.Context) ([]byte, error)
	Apply(ctx context.Context, ops []dom.Op) error
}

// Config for creating a Harness.
type Config struct {
	Page  Page
	Fixes []fixes.Fix
	Sink  report.Sink

	// DebounceWindow is the resize quiet period. Default: 300ms.
	DebounceWindow time.Duration
	// NavigationDelay is the fixed repaint allowance after a client-side
	// navigation before the pass runs. Default: 400ms.
	NavigationDelay time.Duration
	// RescanSchedule is the retry budget: follow-up delays consumed
	// left-to-right while the control scan keeps coming up empty.
	RescanSchedule []time.Duration

	Logger *slog.Logger
}

func (c *Config) defaults() {
	if c.DebounceWindow <= 0 {
		c.DebounceWindow = 300 * time.Millisecond
	}
	if c.NavigationDelay <= 0 {
		c.NavigationDelay = 400 * time.Millisecond
	}
	if c.RescanSchedule == nil {
		c.RescanSchedule = DefaultRescanSchedule()
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// DefaultRescanSchedule returns the reference retry budget: four follow-up
// scans with doubling delays.
func DefaultRescanSchedule() []time.Duration {
	return []time.Duration{
		400 * time.Millisecond,
		800 * time.Millisecond,
		1600 * time.Millisecond,
		3200 * time.Millisecond,
	}
}

// Harness runs the fix registry in response to signals.
type Harness struct {
	cfg     Config
	signals chan Signal
	resize  *coalescer
	logger  *slog.Logger
}

// New creates a Harness. Call Run to start the event loop.
func New(cfg Config) *Harness {
	cfg.defaults()
	return &Harness{
		cfg:     cfg,
		signals: make(chan Signal, 64),
		resize:  newCoalescer(cfg.DebounceWindow),
		logger:  cfg.Logger,
	}
}

// Notify delivers a signal to the harness. Non-blocking: when the buffer is
// full the signal is dropped and logged — a later mutation signal will
// cover the same ground.
func (h *Harness) Notify(sig Signal) {
	select {
	case h.signals <- sig:
	default:
		h.logger.Warn("harness: signal dropped, buffer full", "kind", sig.Kind)
	}
}

// Run is the event loop. It blocks until ctx is cancelled.
func (h *Harness) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case sig := <-h.signals:
			h.handle(ctx, sig)
		case <-h.resize.timerC():
			n := h.resize.fire()
			h.pass(ctx, passOpts{reason: string(KindResize), detail: fmt.Sprintf("coalesced=%d", n)})
		}
	}
}

func (h *Harness) handle(ctx context.Context, sig Signal) {
	switch sig.Kind {
	case KindResize:
		h.resize.bump()

	case KindNavigation:
		// Let the new content paint before scanning it.
		time.AfterFunc(h.cfg.NavigationDelay, func() {
			h.Notify(Signal{Kind: kindNavPass, Detail: sig.Detail})
		})

	case kindNavPass:
		res := h.pass(ctx, passOpts{reason: string(KindNavigation), detail: sig.Detail, nav: true})
		h.maybeRescan(res, 0)

	case kindRescan:
		res := h.pass(ctx, passOpts{reason: fmt.Sprintf("rescan-%d", sig.attempt)})
		h.maybeRescan(res, sig.attempt)

	default:
		res := h.pass(ctx, passOpts{reason: string(sig.Kind), detail: sig.Detail})
		h.maybeRescan(res, 0)
	}
}

// maybeRescan consumes the next delay in the retry budget when the control
// scan found nothing at all — content may still be rendering. Exhaustion is
// silent: an empty page is not an error.
func (h *Harness) maybeRescan(res scanResult, attempt int) {
	if res.failed || res.present > 0 || res.touched > 0 {
		return
	}
	if attempt >= len(h.cfg.RescanSchedule) {
		h.logger.Debug("harness: rescan budget exhausted")
		return
	}
	delay := h.cfg.RescanSchedule[attempt]
	next := attempt + 1
	time.AfterFunc(delay, func() {
		h.Notify(Signal{Kind: kindRescan, attempt: next})
	})
}

type passOpts struct {
	reason string
	detail string
	nav    bool // clear navigation-sensitive markers, announce the title
}

// scanResult is what the control-scanning fixes reported, for the rescan
// decision.
type scanResult struct {
	present int
	touched int
	failed  bool
}

// pass runs every registered fix in order over a fresh snapshot, applies
// the accumulated op log back to the page, and emits a pass report. A
// failure inside one fix is logged with the fix's name and never stops the
// remaining fixes.
func (h *Harness) pass(ctx context.Context, opts passOpts) scanResult {
	start := time.Now()

	raw, err := h.cfg.Page.Snapshot(ctx)
	if err != nil {
		h.logger.Error("harness: snapshot failed", "reason", opts.reason, "error", err)
		return scanResult{failed: true}
	}
	doc, err := dom.Parse(raw)
	if err != nil {
		h.logger.Error("harness: parse snapshot failed", "reason", opts.reason, "error", err)
		return scanResult{failed: true}
	}

	if opts.nav {
		for _, f := range h.cfg.Fixes {
			if !f.NavSensitive {
				continue
			}
			if n := doc.ClearMarks(f.Name); n > 0 {
				h.logger.Debug("harness: cleared markers for navigation",
					"fix", f.Name, "count", n)
			}
		}
	}

	pass := report.Pass{
		ID:        uuid.NewString(),
		Reason:    opts.reason,
		Timestamp: start,
	}

	var scan scanResult
	for _, f := range h.cfg.Fixes {
		rep, err := h.applyFix(f, doc)
		fr := report.FixResult{Name: f.Name, Present: rep.Present, Touched: rep.Touched}
		if err != nil {
			fr.Err = err.Error()
			h.logger.Error("harness: fix failed", "fix", f.Name, "error", err)
		}
		pass.Fixes = append(pass.Fixes, fr)
		if f.ControlScan {
			scan.present += rep.Present
			scan.touched += rep.Touched
		}
	}

	if opts.nav {
		h.announce(doc)
	}

	ops := doc.Ops()
	pass.Ops = len(ops)
	if len(ops) > 0 {
		if err := h.cfg.Page.Apply(ctx, ops); err != nil {
			h.logger.Error("harness: apply ops failed", "reason", opts.reason, "error", err)
		}
	}

	if h.cfg.Sink != nil {
		if err := h.cfg.Sink.Send(ctx, pass); err != nil {
			h.logger.Warn("harness: send pass report failed", "error", err)
		}
	}

	h.logger.Info("harness: pass complete",
		"reason", opts.reason,
		"detail", opts.detail,
		"ops", len(ops),
		"controls", scan.present,
		"touched", scan.touched,
		"elapsed", time.Since(start))
	return scan
}

// applyFix runs one fix with a panic boundary so a broken routine cannot
// take the pass down with it.
func (h *Harness) applyFix(f fixes.Fix, doc *dom.Document) (rep fixes.Report, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("harness: fix %s panicked: %v", f.Name, r)
		}
	}()
	return f.Apply(doc)
}

// announce writes the new document title into the injected live region so
// screen readers hear client-side route changes.
func (h *Harness) announce(doc *dom.Document) {
	region := doc.ByID(fixes.LiveRegionID)
	title := doc.First(atom.Title)
	if region == nil || title == nil {
		return
	}
	if t := dom.Text(title); t != "" {
		doc.SetText(region, t)
	}
}
