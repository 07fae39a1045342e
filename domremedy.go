// Package domremedy retrofits accessibility affordances onto a third-party
// hosted website builder's rendered markup, without access to the
// underlying templates.
//
// It attaches to a live page over the Chrome DevTools Protocol, injects a
// trigger relay that reports page-lifecycle signals (document ready, host
// platform init hook, client-side navigation, content swaps, subtree
// mutation, resize), and runs an ordered registry of idempotent fix
// routines on every plausible markup change: focus-outline styling, skip
// link, landmark roles, label repair, autofill metadata repair driven by a
// field-purpose classifier, link-context labeling, and more. Fixes are
// computed in Go over a parsed snapshot of the DOM and replayed into the
// live page as an ordered op log.
//
// Usage:
//
//	r, err := domremedy.New(cfg, logger)
//	if err != nil { ... }
//	defer r.Stop()
//	if err := r.Start(ctx); err != nil { ... }
package domremedy

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hazyhaar/domremedy/internal/browser"
	"github.com/hazyhaar/domremedy/internal/config"
	"github.com/hazyhaar/domremedy/internal/dom"
	"github.com/hazyhaar/domremedy/internal/fixes"
	"github.com/hazyhaar/domremedy/internal/harness"
	"github.com/hazyhaar/domremedy/internal/observer"
	"github.com/hazyhaar/domremedy/internal/report"
)

// Remedy is the top-level orchestrator: browser, observer, harness.
type Remedy struct {
	cfg    *config.Config
	mgr    *browser.Manager
	tab    *browser.Tab
	obs    *observer.Observer
	h      *harness.Harness
	sinkR  *report.Router
	logger *slog.Logger
}

// New creates a Remedy from configuration. Extra sinks are delivered pass
// reports alongside the configured ones.
func New(cfg *config.Config, logger *slog.Logger, sinks ...report.Sink) (*Remedy, error) {
	if logger == nil {
		logger = slog.Default()
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	for _, name := range cfg.Report.Sinks {
		switch name {
		case "stdout":
			sinks = append(sinks, report.NewStdout(nil))
		default:
			return nil, fmt.Errorf("domremedy: unknown report sink %q", name)
		}
	}

	mgr := browser.NewManager(browser.Config{
		RemoteURL:        cfg.Browser.Remote,
		Headless:         cfg.Browser.Stealth != "headful",
		ResourceBlocking: cfg.Browser.ResourceBlocking,
		Logger:           logger,
	})

	return &Remedy{
		cfg:    cfg,
		mgr:    mgr,
		sinkR:  report.NewRouter(logger, sinks...),
		logger: logger,
	}, nil
}

// Start launches the browser, attaches to the configured page, installs
// the trigger relay, and begins running fix passes. Non-blocking; the
// harness loop runs until ctx is cancelled.
func (r *Remedy) Start(ctx context.Context) error {
	if _, err := r.mgr.Start(); err != nil {
		return fmt.Errorf("domremedy: start browser: %w", err)
	}

	tab, err := browser.OpenTab(ctx, r.mgr, r.cfg.Page.URL)
	if err != nil {
		return fmt.Errorf("domremedy: open tab: %w", err)
	}
	r.tab = tab

	r.h = harness.New(harness.Config{
		Page:            tab,
		Fixes:           Registry(r.cfg.ExcludeFixes, r.logger),
		Sink:            r.sinkR,
		DebounceWindow:  r.cfg.Debounce.Window,
		NavigationDelay: r.cfg.Rescan.NavigationDelay,
		RescanSchedule:  r.cfg.Rescan.Schedule,
		Logger:          r.logger,
	})
	go r.h.Run(ctx)

	r.obs = observer.New(observer.Config{
		Tab:             tab,
		Harness:         r.h,
		Container:       r.cfg.Page.Container,
		InitHook:        r.cfg.Host.InitHook,
		NavigationEvent: r.cfg.Host.NavigationEvent,
		Logger:          r.logger,
	})
	if err := r.obs.Start(ctx); err != nil {
		// The relay could not be injected; run on the retry schedule alone
		// so the page still gets its first pass.
		r.logger.Error("domremedy: trigger relay unavailable", "error", err)
		r.h.Notify(harness.Signal{Kind: harness.KindReady, Detail: "fallback"})
	}

	r.logger.Info("domremedy: attached", "url", r.cfg.Page.URL)
	return nil
}

// Stop detaches from the page and shuts the browser down.
func (r *Remedy) Stop() {
	if r.obs != nil {
		r.obs.Stop()
	}
	if r.tab != nil {
		r.tab.Close()
	}
	r.sinkR.Close()
	r.mgr.Close()
}

// Registry returns the fix registry in execution order with the named
// fixes excluded. Unknown names are logged and ignored.
func Registry(exclude []string, logger *slog.Logger) []fixes.Fix {
	if logger == nil {
		logger = slog.Default()
	}

	all := fixes.All()
	known := make(map[string]bool, len(all))
	for _, f := range all {
		known[f.Name] = true
	}

	skip := make(map[string]bool, len(exclude))
	for _, name := range exclude {
		if !known[name] {
			logger.Warn("domremedy: exclude_fixes names unknown fix", "fix", name)
			continue
		}
		skip[name] = true
		logger.Info("domremedy: fix excluded", "fix", name)
	}

	out := make([]fixes.Fix, 0, len(all))
	for _, f := range all {
		if skip[f.Name] {
			continue
		}
		out = append(out, f)
	}
	return out
}

// FixHTML runs one fix pass over raw HTML and returns the repaired
// document plus per-fix results. Static one-shot mode: no browser, no
// triggers, no retries.
func FixHTML(raw []byte, exclude []string, logger *slog.Logger) ([]byte, []report.FixResult, error) {
	if logger == nil {
		logger = slog.Default()
	}

	doc, err := dom.Parse(raw)
	if err != nil {
		return nil, nil, err
	}

	var results []report.FixResult
	for _, f := range Registry(exclude, logger) {
		rep, err := f.Apply(doc)
		fr := report.FixResult{Name: f.Name, Present: rep.Present, Touched: rep.Touched}
		if err != nil {
			fr.Err = err.Error()
			logger.Error("domremedy: fix failed", "fix", f.Name, "error", err)
		}
		results = append(results, fr)
	}

	out, err := doc.Render()
	if err != nil {
		return nil, results, err
	}
	return out, results, nil
}
