package fixes

import (
	"github.com/hazyhaar/domremedy/internal/dom"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const skipLinkName = "skip-link"

// generatedMainID is assigned to the skip target when it has no id of its
// own.
const generatedMainID = "remedy-main-content"

// skipCSS keeps the link off-screen until it receives keyboard focus.
const skipCSS = `
.remedy-skip-link {
  position: absolute;
  left: -9999px;
  top: 0;
  z-index: 10000;
  padding: 8px 16px;
  background: #1a1a2e;
  color: #ffffff;
  text-decoration: underline;
}
.remedy-skip-link:focus {
  left: 8px;
  top: 8px;
}
`

// SkipLink injects a skip-to-content link as the first element of <body>.
// Target resolution: <main>, then [role=main], then the first <h1>; when
// the page offers none of these the fix skips. Page-wide marker on the
// root element.
func SkipLink(d *dom.Document) (Report, error) {
	root := d.DocumentElement()
	body := d.Body()
	if root == nil || body == nil {
		return Report{}, nil
	}
	if dom.Marked(root, skipLinkName) {
		return Report{Present: 1}, nil
	}

	target := skipTarget(d)
	if target == nil {
		return Report{}, nil
	}

	id := dom.Attr(target, "id")
	if id == "" {
		id = generatedMainID
		d.SetAttr(target, "id", id)
	}
	if dom.Attr(target, "tabindex") == "" {
		// The target must be programmatically focusable for the skip to
		// actually move focus.
		d.SetAttr(target, "tabindex", "-1")
	}

	if head := d.Head(); head != nil {
		style := dom.NewElement(atom.Style, "id", "remedy-skip-style")
		style.AppendChild(dom.NewText(skipCSS))
		if err := d.AppendChild(head, style); err != nil {
			return Report{}, err
		}
	}

	link := dom.NewElement(atom.A,
		"href", "#"+id,
		"class", "remedy-skip-link")
	link.AppendChild(dom.NewText("Skip to main content"))
	if err := d.InsertFirst(body, link); err != nil {
		return Report{}, err
	}

	d.Mark(root, skipLinkName)
	return Report{Present: 1, Touched: 1}, nil
}

func skipTarget(d *dom.Document) *html.Node {
	if m := d.First(atom.Main); m != nil {
		return m
	}
	var roleMain *html.Node
	d.Each(func(n *html.Node) {
		if roleMain == nil && dom.Attr(n, "role") == "main" {
			roleMain = n
		}
	})
	if roleMain != nil {
		return roleMain
	}
	return d.First(atom.H1)
}
