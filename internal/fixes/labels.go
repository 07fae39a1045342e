package fixes

import (
	"github.com/hazyhaar/domremedy/internal/dom"
)

const labelRepairName = "label-repair"

// LabelRepair gives unlabelled form controls an accessible name. A control
// already reachable through a <label> (for-association or wrapping) or
// aria-labelledby is fine as-is; otherwise the placeholder or title text is
// promoted to aria-label. Controls still nameless after that are left
// unmarked so a later pass can retry once the page has rendered more.
//
// Runs before the autocomplete fix on purpose: the classifier reads label
// text this fix may have just repaired.
func LabelRepair(d *dom.Document) (Report, error) {
	var rep Report
	for _, control := range d.FormControls() {
		rep.Present++
		if dom.Marked(control, labelRepairName) {
			continue
		}
		if d.LabelText(control) != "" {
			d.Mark(control, labelRepairName)
			continue
		}

		name := dom.Attr(control, "placeholder")
		if name == "" {
			name = dom.Attr(control, "title")
		}
		if name == "" {
			// Nameless and nothing to derive from. Not marked: the label
			// may render asynchronously.
			continue
		}

		d.SetAttr(control, "aria-label", name)
		d.Mark(control, labelRepairName)
		rep.Touched++
	}
	return rep, nil
}
