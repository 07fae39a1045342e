package fixes

import (
	"github.com/hazyhaar/domremedy/internal/autofill"
	"github.com/hazyhaar/domremedy/internal/dom"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const autocompleteName = "autocomplete"

// Autocomplete repairs autofill metadata on form controls. Per control:
// data cleanup first (drop the literal autocomplete="false" some builders
// emit, rewrite the non-standard regional "tel-national" to "tel"), then
// one shot of the field-purpose classifier, then the attribute side
// effects its decision implies.
//
// Each control is classified exactly once and then marked; label text that
// changes after first processing does not cause reclassification.
func Autocomplete(d *dom.Document) (Report, error) {
	var rep Report
	for _, control := range d.FormControls() {
		rep.Present++
		if dom.Marked(control, autocompleteName) {
			continue
		}
		before := len(d.Ops())

		cleanup(d, control)

		token, ok := autofill.Classify(autofill.Signals{
			Type:         dom.Attr(control, "type"),
			Label:        d.LabelText(control),
			Name:         dom.Attr(control, "name"),
			ID:           dom.Attr(control, "id"),
			Placeholder:  dom.Attr(control, "placeholder"),
			WrapperClass: dom.WrapperClass(control),
		})
		if ok {
			applyToken(d, control, token)
		}

		// Capitalisation hint keyed on the final value, so a pre-existing
		// autocomplete="username" gets it too.
		switch dom.Attr(control, "autocomplete") {
		case "email", "url", "username":
			d.SetAttr(control, "autocapitalize", "none")
		}

		if len(d.Ops()) > before {
			rep.Touched++
		}
		d.Mark(control, autocompleteName)
	}
	return rep, nil
}

func cleanup(d *dom.Document, control *html.Node) {
	switch dom.Attr(control, "autocomplete") {
	case "false":
		d.RemoveAttr(control, "autocomplete")
	case "tel-national":
		d.SetAttr(control, "autocomplete", "tel")
	}
}

func applyToken(d *dom.Document, control *html.Node, token autofill.Token) {
	if dom.Attr(control, "autocomplete") != string(token) {
		d.SetAttr(control, "autocomplete", string(token))
	}

	switch token {
	case autofill.TokenEmail:
		upgradeType(d, control, "email")
	case autofill.TokenTel:
		upgradeType(d, control, "tel")
		d.SetAttr(control, "inputmode", "tel")
	case autofill.TokenPostalCode:
		d.SetAttr(control, "inputmode", "numeric")
	}
}

// upgradeType moves an input from the generic text type to the more
// specific one the token implies. Only generic types are upgraded; a
// deliberate type (password, search, number) is never overridden.
func upgradeType(d *dom.Document, control *html.Node, typ string) {
	if control.DataAtom != atom.Input {
		return
	}
	switch dom.Attr(control, "type") {
	case "", "text":
		d.SetAttr(control, "type", typ)
	}
}
