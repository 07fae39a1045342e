package fixes

import (
	"github.com/hazyhaar/domremedy/internal/dom"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const landmarksName = "landmarks"

// Landmarks backfills explicit landmark roles for assistive tech that does
// not map the HTML5 sectioning elements: top-level header → banner, footer
// → contentinfo, nav → navigation. Elements nested inside article/aside/
// main/section already scope their own semantics and are left alone.
//
// Pages without any main landmark additionally get role=main on the
// content root, identified as the first h1's outermost wrapper under
// <body>.
func Landmarks(d *dom.Document) (Report, error) {
	var rep Report
	d.Each(func(n *html.Node) {
		role := landmarkRole(n)
		if role == "" {
			return
		}
		rep.Present++
		if dom.Marked(n, landmarksName) {
			return
		}
		if dom.Attr(n, "role") == "" {
			d.SetAttr(n, "role", role)
			rep.Touched++
		}
		d.Mark(n, landmarksName)
	})

	if cr := contentRoot(d); cr != nil {
		rep.Present++
		if !dom.Marked(cr, landmarksName) {
			if dom.Attr(cr, "role") == "" {
				d.SetAttr(cr, "role", "main")
				rep.Touched++
			}
			d.Mark(cr, landmarksName)
		}
	}
	return rep, nil
}

// contentRoot finds the element that should carry role=main: the first
// h1's outermost element wrapper below <body>. Returns nil when the page
// already declares a main landmark, has no h1, or the h1 sits directly
// under <body> with no wrapper to promote.
func contentRoot(d *dom.Document) *html.Node {
	if d.First(atom.Main) != nil {
		return nil
	}
	var roleMain *html.Node
	d.Each(func(n *html.Node) {
		if roleMain == nil && dom.Attr(n, "role") == "main" {
			roleMain = n
		}
	})
	if roleMain != nil {
		return nil
	}

	h1 := d.First(atom.H1)
	if h1 == nil {
		return nil
	}
	body := d.Body()
	var wrapper *html.Node
	for cur := h1.Parent; cur != nil && cur != body; cur = cur.Parent {
		if cur.Type == html.ElementNode {
			wrapper = cur
		}
	}
	if wrapper == nil {
		return nil
	}
	switch wrapper.DataAtom {
	case atom.Header, atom.Footer, atom.Nav, atom.Aside:
		return nil
	}
	return wrapper
}

func landmarkRole(n *html.Node) string {
	switch n.DataAtom {
	case atom.Nav:
		return "navigation"
	case atom.Header:
		if insideSectioning(n) {
			return ""
		}
		return "banner"
	case atom.Footer:
		if insideSectioning(n) {
			return ""
		}
		return "contentinfo"
	}
	return ""
}

func insideSectioning(n *html.Node) bool {
	for cur := n.Parent; cur != nil; cur = cur.Parent {
		switch cur.DataAtom {
		case atom.Article, atom.Aside, atom.Main, atom.Section:
			return true
		}
	}
	return false
}
