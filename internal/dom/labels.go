package dom

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// LabelText resolves the accessible label text of a form control:
// aria-labelledby references, then aria-label, then an explicit
// <label for=...>, then a wrapping <label>. Returns "" when none apply.
func (d *Document) LabelText(control *html.Node) string {
	if refs := Attr(control, "aria-labelledby"); refs != "" {
		var parts []string
		for _, id := range strings.Fields(refs) {
			if ref := d.ByID(id); ref != nil {
				if t := Text(ref); t != "" {
					parts = append(parts, t)
				}
			}
		}
		if len(parts) > 0 {
			return strings.Join(parts, " ")
		}
	}
	if l := Attr(control, "aria-label"); l != "" {
		return l
	}
	if l := d.LabelFor(control); l != nil {
		if t := Text(l); t != "" {
			return t
		}
	}
	for cur := control.Parent; cur != nil; cur = cur.Parent {
		if cur.Type == html.ElementNode && cur.DataAtom == atom.Label {
			if t := Text(cur); t != "" {
				return t
			}
		}
	}
	return ""
}

// LabelFor returns the <label> whose for attribute references the control's
// id, or nil.
func (d *Document) LabelFor(control *html.Node) *html.Node {
	id := Attr(control, "id")
	if id == "" {
		return nil
	}
	var found *html.Node
	d.Each(func(n *html.Node) {
		if found == nil && n.DataAtom == atom.Label && Attr(n, "for") == id {
			found = n
		}
	})
	return found
}

// wrapperClassHints mark ancestor class lists worth feeding to the
// field-purpose classifier.
var wrapperClassHints = []string{"field", "form", "input"}

// WrapperClass returns the class list of the nearest ancestor that looks
// like a field wrapper (class containing "field", "form", or "input"),
// searched up to four levels above the control.
func WrapperClass(control *html.Node) string {
	for _, anc := range Ancestors(control, 4) {
		cls := Attr(anc, "class")
		if cls == "" {
			continue
		}
		low := strings.ToLower(cls)
		for _, hint := range wrapperClassHints {
			if strings.Contains(low, hint) {
				return cls
			}
		}
	}
	return ""
}
