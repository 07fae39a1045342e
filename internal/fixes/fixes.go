// Package fixes contains the accessibility fix routines.
//
// Each fix is an independent, idempotent DOM repair addressing one
// checkpoint: once an element carries the fix's marker it is never
// re-mutated, so running a fix twice over unchanged markup produces no
// second diff. Fixes are registered in a fixed order, but apart from the
// documented label-repair → autocomplete ordering they do not depend on one
// another's effects.
package fixes

import (
	"github.com/hazyhaar/domremedy/internal/dom"
)

// Report summarises one fix's pass over a document.
type Report struct {
	// Present counts the candidate elements the fix found.
	Present int
	// Touched counts elements mutated for the first time in this pass.
	Touched int
}

// Fix is one registered repair routine.
type Fix struct {
	// Name identifies the fix in logs, config exclusions, markers, and
	// traces. Names must be unique across the registry.
	Name string

	// NavSensitive marks fixes whose output depends on surrounding page
	// content; the harness clears their markers before a pass triggered by
	// a client-side navigation.
	NavSensitive bool

	// ControlScan marks fixes that scan form controls; their reports feed
	// the harness's retry decision for asynchronously rendered content.
	ControlScan bool

	Apply func(doc *dom.Document) (Report, error)
}

// All returns the fix registry in execution order.
func All() []Fix {
	return []Fix{
		{Name: "focus-outline", Apply: FocusOutline},
		{Name: "skip-link", Apply: SkipLink},
		{Name: "landmarks", Apply: Landmarks},
		{Name: "label-repair", ControlScan: true, Apply: LabelRepair},
		{Name: "autocomplete", ControlScan: true, Apply: Autocomplete},
		{Name: "link-context", NavSensitive: true, Apply: LinkContext},
		{Name: "iframe-title", Apply: IframeTitle},
		{Name: "tabindex", Apply: Tabindex},
		{Name: "live-region", Apply: LiveRegion},
	}
}
