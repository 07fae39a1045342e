package fixes

import (
	"github.com/hazyhaar/domremedy/internal/dom"
	"golang.org/x/net/html/atom"
)

const focusOutlineName = "focus-outline"

// focusCSS forces a visible focus indicator on every focusable element.
// Hosted builders routinely reset outline to none; !important wins that
// fight without touching their stylesheets.
const focusCSS = `
a:focus-visible, button:focus-visible, input:focus-visible,
select:focus-visible, textarea:focus-visible, [tabindex]:focus-visible,
[role=button]:focus-visible, [role=link]:focus-visible {
  outline: 3px solid #1a73e8 !important;
  outline-offset: 2px !important;
}
`

// FocusOutline injects a stylesheet restoring visible keyboard-focus
// outlines. Page-wide: the marker lives on the root element.
func FocusOutline(d *dom.Document) (Report, error) {
	root := d.DocumentElement()
	head := d.Head()
	if root == nil || head == nil {
		return Report{}, nil
	}
	if dom.Marked(root, focusOutlineName) {
		return Report{Present: 1}, nil
	}

	style := dom.NewElement(atom.Style, "id", "remedy-focus-style")
	style.AppendChild(dom.NewText(focusCSS))
	if err := d.AppendChild(head, style); err != nil {
		return Report{}, err
	}
	d.Mark(root, focusOutlineName)
	return Report{Present: 1, Touched: 1}, nil
}
