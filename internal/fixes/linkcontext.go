package fixes

import (
	"strings"

	"github.com/hazyhaar/domremedy/internal/dom"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const linkContextName = "link-context"

// genericLinkText lists link labels that carry no meaning out of context
// for a screen-reader user tabbing through the page.
var genericLinkText = map[string]bool{
	"read more": true, "learn more": true, "click here": true,
	"more": true, "see more": true, "view more": true, "details": true,
	"here": true, "continue": true,
}

// LinkContext rewrites generic link and button labels ("read more", "click
// here") into self-describing accessible names by suffixing the nearest
// preceding heading. Navigation-sensitive: the harness clears its markers
// on client-side navigation, because the heading a link was labelled
// against may have been swapped with the rest of the page content.
func LinkContext(d *dom.Document) (Report, error) {
	var rep Report
	d.Each(func(n *html.Node) {
		if n.DataAtom != atom.A && n.DataAtom != atom.Button {
			return
		}
		text := dom.Text(n)
		if !genericLinkText[strings.ToLower(text)] {
			return
		}
		rep.Present++
		if dom.Marked(n, linkContextName) {
			return
		}
		heading := precedingHeading(n)
		if heading == "" {
			// No context available yet; leave unmarked for a later pass.
			return
		}
		d.SetAttr(n, "aria-label", text+": "+heading)
		d.Mark(n, linkContextName)
		rep.Touched++
	})
	return rep, nil
}

// precedingHeading finds the text of the closest heading before the node,
// walking up through its ancestors and scanning their earlier siblings.
func precedingHeading(n *html.Node) string {
	cur := n
	for depth := 0; cur != nil && depth < 6; depth++ {
		for sib := cur.PrevSibling; sib != nil; sib = sib.PrevSibling {
			if h := lastHeading(sib); h != "" {
				return h
			}
		}
		cur = cur.Parent
	}
	return ""
}

// lastHeading returns the text of the last h1–h6 inside the subtree, or "".
func lastHeading(n *html.Node) string {
	var found string
	var walk func(*html.Node)
	walk = func(c *html.Node) {
		if c.Type == html.ElementNode {
			switch c.DataAtom {
			case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
				if t := dom.Text(c); t != "" {
					found = t
				}
			}
		}
		for cc := c.FirstChild; cc != nil; cc = cc.NextSibling {
			walk(cc)
		}
	}
	walk(n)
	return found
}
