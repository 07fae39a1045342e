package dom

import (
	"strings"

	"golang.org/x/net/html"
)

// Marker and trace attributes. These are the only attributes domremedy
// writes for its own bookkeeping; the observer's attribute allow-list must
// never include them, or a pass would re-trigger itself.
const (
	markerPrefix = "data-remedy-"
	traceAttr    = "data-remedy-trace"
)

// MarkerAttr returns the idempotency-marker attribute name for a fix.
func MarkerAttr(fix string) string { return markerPrefix + fix }

// Marked reports whether the element already carries the fix's marker.
func Marked(n *html.Node, fix string) bool {
	return Attr(n, MarkerAttr(fix)) == "1"
}

// Mark sets the fix's idempotency marker on the element and appends a
// trace entry. Once marked, the fix never re-mutates this element on a
// later pass unless the marker is explicitly cleared.
func (d *Document) Mark(n *html.Node, fix string) {
	d.SetAttr(n, MarkerAttr(fix), "1")
	d.appendTrace(n, fix)
}

// ClearMarks removes the fix's markers everywhere in the document. The
// harness calls this for navigation-sensitive fixes before re-running a
// pass after a client-side navigation, because the surrounding content a
// marked element was labelled against may have been swapped.
func (d *Document) ClearMarks(fix string) int {
	attr := MarkerAttr(fix)
	var cleared []*html.Node
	d.Each(func(n *html.Node) {
		if HasAttr(n, attr) {
			cleared = append(cleared, n)
		}
	})
	for _, n := range cleared {
		d.RemoveAttr(n, attr)
	}
	return len(cleared)
}

// appendTrace appends "fix@timestamp" to the element's pipe-delimited
// diagnostic trace attribute.
func (d *Document) appendTrace(n *html.Node, fix string) {
	entry := fix + "@" + d.now().UTC().Format("2006-01-02T15:04:05.000Z")
	if prev := Attr(n, traceAttr); prev != "" {
		entry = prev + "|" + entry
	}
	d.SetAttr(n, traceAttr, entry)
}

// TraceEntries parses the element's trace attribute into its entries.
func TraceEntries(n *html.Node) []string {
	v := Attr(n, traceAttr)
	if v == "" {
		return nil
	}
	return strings.Split(v, "|")
}
