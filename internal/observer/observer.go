// Package observer installs the page-side trigger relay: a small injected
// script that forwards lifecycle signals (ready, host init hook, client-side
// navigation, content-container attribute swaps, filtered subtree mutation,
// resize) through a CDP binding to the harness.
package observer

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/go-rod/rod/lib/proto"

	"github.com/hazyhaar/domremedy/internal/browser"
	"github.com/hazyhaar/domremedy/internal/harness"
)

//go:embed triggers.js
var triggersJS []byte

const bindingName = "__remedy_binding"

// Config for creating an Observer.
type Config struct {
	Tab     *browser.Tab
	Harness *harness.Harness

	// Container is the selector of the content container whose attribute
	// swaps signal a full content replacement.
	Container string
	// InitHook is the global function slot the host platform calls when
	// its runtime is ready. Empty = source not installed.
	InitHook string
	// NavigationEvent is the host's custom navigation event name. The
	// history API is hooked regardless.
	NavigationEvent string

	Logger *slog.Logger
}

// Observer relays page signals to the harness for one tab.
type Observer struct {
	cfg    Config
	logger *slog.Logger
	ctx    context.Context
	cancel context.CancelFunc
}

// New creates an Observer for the given tab.
func New(cfg Config) *Observer {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Observer{cfg: cfg, logger: cfg.Logger}
}

// Start registers the binding and injects the trigger script. A failing
// trigger source degrades to "unavailable" inside the script itself; only a
// wholly failed injection is reported, and even that leaves the harness
// usable through its own retry schedule.
func (o *Observer) Start(ctx context.Context) error {
	o.ctx, o.cancel = context.WithCancel(ctx)
	page := o.cfg.Tab.Page

	if err := (proto.RuntimeAddBinding{Name: bindingName}.Call(page)); err != nil {
		o.logger.Warn("observer: add binding failed (may already exist)", "error", err)
	}

	go o.listenBinding()

	cfgJSON, err := json.Marshal(map[string]string{
		"container":       o.cfg.Container,
		"initHook":        o.cfg.InitHook,
		"navigationEvent": o.cfg.NavigationEvent,
	})
	if err != nil {
		return fmt.Errorf("observer: marshal config: %w", err)
	}
	if _, err := page.Eval(fmt.Sprintf("() => { window.__remedy_config = %s; }", cfgJSON)); err != nil {
		o.logger.Warn("observer: set config failed", "error", err)
	}

	if _, err := page.Eval(string(triggersJS)); err != nil {
		return fmt.Errorf("observer: inject triggers: %w", err)
	}

	o.logger.Info("observer: triggers installed", "url", o.cfg.Tab.PageURL)
	return nil
}

// Stop detaches the binding listener.
func (o *Observer) Stop() {
	if o.cancel != nil {
		o.cancel()
	}
}

// validKinds are the signal kinds the page script may emit.
var validKinds = map[harness.Kind]bool{
	harness.KindReady:      true,
	harness.KindHostInit:   true,
	harness.KindNavigation: true,
	harness.KindBodyAttr:   true,
	harness.KindSubtree:    true,
	harness.KindResize:     true,
}

// listenBinding receives trigger payloads from the injected script and
// forwards them to the harness.
func (o *Observer) listenBinding() {
	page := o.cfg.Tab.Page
	page.Context(o.ctx).EachEvent(func(e *proto.RuntimeBindingCalled) {
		if e.Name != bindingName {
			return
		}

		var payload struct {
			Kind   string `json:"kind"`
			Detail string `json:"detail"`
		}
		if err := json.Unmarshal([]byte(e.Payload), &payload); err != nil {
			o.logger.Warn("observer: parse trigger payload", "error", err)
			return
		}

		kind := harness.Kind(payload.Kind)
		if !validKinds[kind] {
			o.logger.Debug("observer: unknown trigger kind", "kind", payload.Kind)
			return
		}

		o.cfg.Harness.Notify(harness.Signal{Kind: kind, Detail: payload.Detail})
	})()
}
