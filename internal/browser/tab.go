package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/stealth"

	"github.com/hazyhaar/domremedy/internal/dom"
)

// Tab wraps the Rod page domremedy is attached to.
type Tab struct {
	Page    *rod.Page
	PageURL string
	logger  *slog.Logger
}

// OpenTab creates a stealth tab, applies resource blocking, and navigates
// to the URL. Hosted builder sites run bot detection; a flagged session can
// serve different markup than a real visitor sees.
func OpenTab(ctx context.Context, mgr *Manager, pageURL string) (*Tab, error) {
	b := mgr.Browser()
	if b == nil {
		return nil, fmt.Errorf("browser: no active browser")
	}

	page, err := stealth.Page(b)
	if err != nil {
		return nil, fmt.Errorf("browser: create tab: %w", err)
	}

	if len(mgr.cfg.ResourceBlocking) > 0 {
		if err := applyResourceBlocking(page, mgr.cfg.ResourceBlocking); err != nil {
			mgr.cfg.Logger.Warn("browser: resource blocking failed", "error", err)
		}
	}

	navCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := page.Context(navCtx).Navigate(pageURL); err != nil {
		page.Close()
		return nil, fmt.Errorf("browser: navigate %s: %w", pageURL, err)
	}
	if err := page.Context(navCtx).WaitLoad(); err != nil {
		mgr.cfg.Logger.Warn("browser: wait load timeout", "url", pageURL, "error", err)
	}

	return &Tab{Page: page, PageURL: pageURL, logger: mgr.cfg.Logger}, nil
}

// Snapshot serialises the complete live DOM as outer HTML.
func (t *Tab) Snapshot(ctx context.Context) ([]byte, error) {
	res, err := t.Page.Context(ctx).Eval(`() => document.documentElement.outerHTML`)
	if err != nil {
		return nil, fmt.Errorf("browser: snapshot: %w", err)
	}
	return []byte(res.Value.Str()), nil
}

// applierJS replays an op log inside the live page. The suppression flag is
// raised for the whole replay so the injected trigger observers ignore our
// own mutations; paths resolve through document.evaluate in log order,
// which keeps them consistent with the tree state they were recorded
// against.
const applierJS = `(ops) => {
	window.__remedy_applying = true;
	let applied = 0, missed = 0;
	try {
		for (const op of ops) {
			const el = document.evaluate(op.path, document, null,
				XPathResult.FIRST_ORDERED_NODE_TYPE, null).singleNodeValue;
			if (!el) { missed++; continue; }
			switch (op.kind) {
			case 'set_attr':     el.setAttribute(op.name, op.value); break;
			case 'remove_attr':  el.removeAttribute(op.name); break;
			case 'insert_first': el.insertAdjacentHTML('afterbegin', op.html); break;
			case 'append_child': el.insertAdjacentHTML('beforeend', op.html); break;
			case 'set_text':     el.textContent = op.value; break;
			default: missed++; continue;
			}
			applied++;
		}
	} finally {
		window.__remedy_applying = false;
	}
	return JSON.stringify({applied: applied, missed: missed});
}`

// Apply replays the op log into the live DOM in one eval.
func (t *Tab) Apply(ctx context.Context, ops []dom.Op) error {
	if len(ops) == 0 {
		return nil
	}

	res, err := t.Page.Context(ctx).Eval(applierJS, ops)
	if err != nil {
		return fmt.Errorf("browser: apply ops: %w", err)
	}

	var outcome struct {
		Applied int `json:"applied"`
		Missed  int `json:"missed"`
	}
	if err := json.Unmarshal([]byte(res.Value.Str()), &outcome); err != nil {
		return fmt.Errorf("browser: apply outcome: %w", err)
	}
	if outcome.Missed > 0 {
		// Paths go stale when the page mutated between snapshot and apply;
		// the next pass recomputes them from a fresh snapshot.
		t.logger.Warn("browser: some ops missed their target",
			"applied", outcome.Applied, "missed", outcome.Missed)
	}
	t.logger.Debug("browser: ops applied",
		"applied", outcome.Applied, "missed", outcome.Missed)
	return nil
}

// Close closes the tab.
func (t *Tab) Close() error {
	if t.Page != nil {
		return t.Page.Close()
	}
	return nil
}
