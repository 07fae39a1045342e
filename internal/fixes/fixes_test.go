package fixes

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/hazyhaar/domremedy/internal/dom"
)

func parse(t *testing.T, raw string) *dom.Document {
	t.Helper()
	d, err := dom.Parse([]byte(raw))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	d.SetClock(func() time.Time { return time.Unix(1700000000, 0) })
	return d
}

// checkIdempotent applies the fix a second time to the already-repaired
// document and asserts the markup does not change again.
func checkIdempotent(t *testing.T, d *dom.Document, apply func(*dom.Document) (Report, error)) {
	t.Helper()
	before, err := d.Render()
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	opsBefore := len(d.Ops())

	rep, err := apply(d)
	if err != nil {
		t.Fatalf("second apply: %v", err)
	}
	if rep.Touched != 0 {
		t.Errorf("second apply touched %d elements, want 0", rep.Touched)
	}
	after, err := d.Render()
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !bytes.Equal(before, after) {
		t.Errorf("second apply changed markup:\nbefore: %s\nafter:  %s", before, after)
	}
	if len(d.Ops()) != opsBefore {
		t.Errorf("second apply recorded %d new ops", len(d.Ops())-opsBefore)
	}
}

func TestAutocompleteFalseWithLabel(t *testing.T) {
	d := parse(t, `<html><body>
		<label for="fn">First Name</label>
		<input id="fn" type="text" autocomplete="false">
	</body></html>`)

	rep, err := Autocomplete(d)
	if err != nil {
		t.Fatalf("Autocomplete: %v", err)
	}
	if rep.Present != 1 || rep.Touched != 1 {
		t.Errorf("report: %+v", rep)
	}

	in := d.FormControls()[0]
	if got := dom.Attr(in, "autocomplete"); got != "given-name" {
		t.Errorf("autocomplete: got %q, want given-name", got)
	}
	out, _ := d.Render()
	if strings.Contains(string(out), `autocomplete="false"`) {
		t.Error("leftover autocomplete=false")
	}

	checkIdempotent(t, d, Autocomplete)
}

func TestAutocompleteTelNational(t *testing.T) {
	d := parse(t, `<html><body><input type="tel" autocomplete="tel-national"></body></html>`)

	if _, err := Autocomplete(d); err != nil {
		t.Fatalf("Autocomplete: %v", err)
	}

	in := d.FormControls()[0]
	if got := dom.Attr(in, "autocomplete"); got != "tel" {
		t.Errorf("autocomplete: got %q, want tel", got)
	}
	if got := dom.Attr(in, "inputmode"); got != "tel" {
		t.Errorf("inputmode: got %q, want tel", got)
	}

	checkIdempotent(t, d, Autocomplete)
}

func TestAutocompleteUpgradesType(t *testing.T) {
	d := parse(t, `<html><body><input type="text" name="email"></body></html>`)

	if _, err := Autocomplete(d); err != nil {
		t.Fatalf("Autocomplete: %v", err)
	}

	in := d.FormControls()[0]
	if got := dom.Attr(in, "type"); got != "email" {
		t.Errorf("type: got %q, want email", got)
	}
	if got := dom.Attr(in, "autocomplete"); got != "email" {
		t.Errorf("autocomplete: got %q, want email", got)
	}
	if got := dom.Attr(in, "autocapitalize"); got != "none" {
		t.Errorf("autocapitalize: got %q, want none", got)
	}
}

func TestAutocompleteNeverDowngradesDeliberateType(t *testing.T) {
	d := parse(t, `<html><body><input type="password" name="email"></body></html>`)

	if _, err := Autocomplete(d); err != nil {
		t.Fatalf("Autocomplete: %v", err)
	}
	in := d.FormControls()[0]
	if got := dom.Attr(in, "type"); got != "password" {
		t.Errorf("type: got %q, want password untouched", got)
	}
}

func TestAutocompleteExistingUsername(t *testing.T) {
	d := parse(t, `<html><body><input type="text" autocomplete="username"></body></html>`)

	if _, err := Autocomplete(d); err != nil {
		t.Fatalf("Autocomplete: %v", err)
	}
	in := d.FormControls()[0]
	if got := dom.Attr(in, "autocapitalize"); got != "none" {
		t.Errorf("autocapitalize: got %q, want none", got)
	}
}

func TestAutocompleteMarkedControlNotReclassified(t *testing.T) {
	d := parse(t, `<html><body><input type="text" name="email" data-remedy-autocomplete="1"></body></html>`)

	rep, err := Autocomplete(d)
	if err != nil {
		t.Fatalf("Autocomplete: %v", err)
	}
	if rep.Present != 1 || rep.Touched != 0 {
		t.Errorf("report: %+v", rep)
	}
	in := d.FormControls()[0]
	if dom.HasAttr(in, "autocomplete") {
		t.Error("marked control was reclassified")
	}
}

func TestSkipLinkFallsBackToHeading(t *testing.T) {
	d := parse(t, `<html><head><title>t</title></head><body><h1>Welcome</h1></body></html>`)

	rep, err := SkipLink(d)
	if err != nil {
		t.Fatalf("SkipLink: %v", err)
	}
	if rep.Touched != 1 {
		t.Errorf("report: %+v", rep)
	}

	out, _ := d.Render()
	html := string(out)
	if !strings.Contains(html, `href="#remedy-main-content"`) {
		t.Errorf("skip link target: %s", html)
	}
	if !strings.Contains(html, `<h1 id="remedy-main-content" tabindex="-1">`) {
		t.Errorf("heading id not generated: %s", html)
	}
	if !strings.Contains(html, "Skip to main content") {
		t.Errorf("skip link text missing: %s", html)
	}

	checkIdempotent(t, d, SkipLink)
}

func TestSkipLinkPrefersMain(t *testing.T) {
	d := parse(t, `<html><body><h1>A</h1><main id="mc"><p>x</p></main></body></html>`)

	if _, err := SkipLink(d); err != nil {
		t.Fatalf("SkipLink: %v", err)
	}
	out, _ := d.Render()
	if !strings.Contains(string(out), `href="#mc"`) {
		t.Errorf("skip link should target existing main: %s", out)
	}
}

func TestSkipLinkNoTarget(t *testing.T) {
	d := parse(t, `<html><body><p>nothing here</p></body></html>`)

	rep, err := SkipLink(d)
	if err != nil {
		t.Fatalf("SkipLink: %v", err)
	}
	if rep.Present != 0 || rep.Touched != 0 {
		t.Errorf("report: %+v", rep)
	}
	if len(d.Ops()) != 0 {
		t.Errorf("ops on page without target: %+v", d.Ops())
	}
}

func TestLandmarks(t *testing.T) {
	d := parse(t, `<html><body>
		<header><nav>menu</nav></header>
		<article><header>post head</header></article>
		<footer>foot</footer>
	</body></html>`)

	rep, err := Landmarks(d)
	if err != nil {
		t.Fatalf("Landmarks: %v", err)
	}
	if rep.Touched != 3 {
		t.Errorf("touched: got %d, want 3", rep.Touched)
	}

	out, _ := d.Render()
	html := string(out)
	for _, want := range []string{`role="banner"`, `role="navigation"`, `role="contentinfo"`} {
		if !strings.Contains(html, want) {
			t.Errorf("missing %s in %s", want, html)
		}
	}
	if strings.Contains(html, `<article><header role=`) {
		t.Error("header inside article must not get banner role")
	}

	checkIdempotent(t, d, Landmarks)
}

func TestLandmarksPromotesContentRoot(t *testing.T) {
	d := parse(t, `<html><body>
		<header><nav>menu</nav></header>
		<div class="page-content"><h1>Welcome</h1><p>x</p></div>
		<footer>foot</footer>
	</body></html>`)

	if _, err := Landmarks(d); err != nil {
		t.Fatalf("Landmarks: %v", err)
	}

	out, _ := d.Render()
	html := string(out)
	if !strings.Contains(html, `<div class="page-content" role="main"`) {
		t.Errorf("content root not promoted: %s", html)
	}

	checkIdempotent(t, d, Landmarks)
}

func TestLandmarksNoPromotionWhenMainExists(t *testing.T) {
	for _, raw := range []string{
		`<html><body><main><div><h1>A</h1></div></main></body></html>`,
		`<html><body><div role="main"><div><h1>A</h1></div></div></body></html>`,
	} {
		d := parse(t, raw)
		if _, err := Landmarks(d); err != nil {
			t.Fatalf("Landmarks: %v", err)
		}
		out, _ := d.Render()
		if strings.Count(string(out), `role="main"`) > strings.Count(raw, `role="main"`) {
			t.Errorf("extra role=main added: %s", out)
		}
	}
}

func TestLandmarksNoPromotionWithoutWrapper(t *testing.T) {
	d := parse(t, `<html><body><h1>Bare heading</h1><p>x</p></body></html>`)

	if _, err := Landmarks(d); err != nil {
		t.Fatalf("Landmarks: %v", err)
	}
	if len(d.Ops()) != 0 {
		t.Errorf("ops on page with no promotable wrapper: %+v", d.Ops())
	}
}

func TestLabelRepairPromotesPlaceholder(t *testing.T) {
	d := parse(t, `<html><body><input type="text" placeholder="Your email"></body></html>`)

	rep, err := LabelRepair(d)
	if err != nil {
		t.Fatalf("LabelRepair: %v", err)
	}
	if rep.Touched != 1 {
		t.Errorf("report: %+v", rep)
	}
	in := d.FormControls()[0]
	if got := dom.Attr(in, "aria-label"); got != "Your email" {
		t.Errorf("aria-label: got %q", got)
	}

	checkIdempotent(t, d, LabelRepair)
}

func TestLabelRepairLeavesLabelledAlone(t *testing.T) {
	d := parse(t, `<html><body><label for="e">Email</label><input id="e" placeholder="x"></body></html>`)

	rep, err := LabelRepair(d)
	if err != nil {
		t.Fatalf("LabelRepair: %v", err)
	}
	if rep.Touched != 0 {
		t.Errorf("report: %+v", rep)
	}
	in := d.FormControls()[0]
	if dom.HasAttr(in, "aria-label") {
		t.Error("labelled control got an aria-label")
	}
}

func TestLinkContext(t *testing.T) {
	d := parse(t, `<html><body>
		<h2>Pricing</h2>
		<p><a href="/pricing">Read more</a></p>
		<p><a href="/about">About our team</a></p>
	</body></html>`)

	rep, err := LinkContext(d)
	if err != nil {
		t.Fatalf("LinkContext: %v", err)
	}
	if rep.Present != 1 || rep.Touched != 1 {
		t.Errorf("report: %+v", rep)
	}

	out, _ := d.Render()
	if !strings.Contains(string(out), `aria-label="Read more: Pricing"`) {
		t.Errorf("context label: %s", out)
	}
	if strings.Contains(string(out), `aria-label="About our team`) {
		t.Error("descriptive link must not be relabelled")
	}

	checkIdempotent(t, d, LinkContext)
}

func TestLinkContextNoHeading(t *testing.T) {
	d := parse(t, `<html><body><p><a href="/x">Read more</a></p></body></html>`)

	rep, err := LinkContext(d)
	if err != nil {
		t.Fatalf("LinkContext: %v", err)
	}
	if rep.Present != 1 || rep.Touched != 0 {
		t.Errorf("report: %+v", rep)
	}
	// Unmarked on purpose: context may render later.
	out, _ := d.Render()
	if strings.Contains(string(out), "data-remedy-link-context") {
		t.Error("link without context must stay unmarked")
	}
}

func TestIframeTitle(t *testing.T) {
	d := parse(t, `<html><body><iframe src="https://maps.example.com/embed"></iframe></body></html>`)

	if _, err := IframeTitle(d); err != nil {
		t.Fatalf("IframeTitle: %v", err)
	}
	out, _ := d.Render()
	if !strings.Contains(string(out), `title="Embedded content from maps.example.com"`) {
		t.Errorf("iframe title: %s", out)
	}

	checkIdempotent(t, d, IframeTitle)
}

func TestTabindexDemoted(t *testing.T) {
	d := parse(t, `<html><body><a href="/x" tabindex="5">x</a><button tabindex="-1">y</button></body></html>`)

	rep, err := Tabindex(d)
	if err != nil {
		t.Fatalf("Tabindex: %v", err)
	}
	if rep.Present != 1 || rep.Touched != 1 {
		t.Errorf("report: %+v", rep)
	}
	out, _ := d.Render()
	if !strings.Contains(string(out), `tabindex="0"`) {
		t.Errorf("positive tabindex not demoted: %s", out)
	}
	if !strings.Contains(string(out), `tabindex="-1"`) {
		t.Errorf("negative tabindex must be left alone: %s", out)
	}

	checkIdempotent(t, d, Tabindex)
}

func TestFocusOutlineAndLiveRegion(t *testing.T) {
	d := parse(t, `<html><head></head><body><p>x</p></body></html>`)

	if _, err := FocusOutline(d); err != nil {
		t.Fatalf("FocusOutline: %v", err)
	}
	if _, err := LiveRegion(d); err != nil {
		t.Fatalf("LiveRegion: %v", err)
	}

	out, _ := d.Render()
	html := string(out)
	if !strings.Contains(html, "remedy-focus-style") || !strings.Contains(html, "focus-visible") {
		t.Errorf("focus style missing: %s", html)
	}
	if !strings.Contains(html, `aria-live="polite"`) {
		t.Errorf("live region missing: %s", html)
	}

	checkIdempotent(t, d, FocusOutline)
	checkIdempotent(t, d, LiveRegion)
}

func TestFixNamesUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, f := range All() {
		if seen[f.Name] {
			t.Errorf("duplicate fix name %q", f.Name)
		}
		seen[f.Name] = true
	}
}
