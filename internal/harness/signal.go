package harness

// Kind identifies a page-lifecycle signal source.
type Kind string

const (
	// KindReady fires once when the document becomes interactive.
	KindReady Kind = "ready"
	// KindHostInit fires once when the hosting platform's initialization
	// hook runs; its timing is not under our control.
	KindHostInit Kind = "host-init"
	// KindNavigation fires on every client-side navigation. The pass runs
	// after a short fixed delay so the new content can paint, and
	// navigation-sensitive markers are cleared first.
	KindNavigation Kind = "navigation"
	// KindBodyAttr fires when an identifying attribute changes on the
	// content container — full content swaps the navigation event misses.
	KindBodyAttr Kind = "body-attr"
	// KindSubtree fires when the observed subtree gains elements matching
	// form-control or block selectors, or a watched attribute changes on an
	// existing control.
	KindSubtree Kind = "subtree"
	// KindResize fires on window resize; coalesced behind a quiet period
	// before a pass runs.
	KindResize Kind = "resize"

	// kindNavPass is the internal continuation of KindNavigation after the
	// repaint delay.
	kindNavPass Kind = "nav-pass"
	// kindRescan is an internal retry continuation from the rescan budget.
	kindRescan Kind = "rescan"
)

// Signal is one trigger delivered to the harness.
type Signal struct {
	Kind   Kind
	Detail string // free-form diagnostics: new URL, mutated attribute, …

	attempt int // rescan continuation index
}
