package domremedy

import (
	"io"
	"log/slog"
	"strings"
	"testing"
)

func quiet() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestRegistryOrder(t *testing.T) {
	reg := Registry(nil, quiet())

	want := []string{
		"focus-outline", "skip-link", "landmarks", "label-repair",
		"autocomplete", "link-context", "iframe-title", "tabindex",
		"live-region",
	}
	if len(reg) != len(want) {
		t.Fatalf("registry size: got %d, want %d", len(reg), len(want))
	}
	for i, name := range want {
		if reg[i].Name != name {
			t.Errorf("registry[%d]: got %q, want %q", i, reg[i].Name, name)
		}
	}
}

func TestRegistryExcludes(t *testing.T) {
	reg := Registry([]string{"skip-link", "live-region", "no-such-fix"}, quiet())

	for _, f := range reg {
		if f.Name == "skip-link" || f.Name == "live-region" {
			t.Errorf("excluded fix %q still registered", f.Name)
		}
	}
	if len(reg) != 7 {
		t.Errorf("registry size after exclusion: %d", len(reg))
	}
}

const builderPage = `<!DOCTYPE html>
<html lang="en">
<head><title>Contact Us - Example Studio</title></head>
<body>
  <div class="site-header"><nav><a href="/">Home</a> <a href="/contact">Contact</a></nav></div>
  <main>
    <h1>Contact Us</h1>
    <p>Questions? <a href="/faq">Read more</a></p>
    <form>
      <div class="form-field"><label for="fname">First Name</label>
        <input id="fname" type="text" name="fname" autocomplete="false"></div>
      <div class="form-field">
        <input type="text" name="contact_email" placeholder="Email Address"></div>
      <div class="form-field">
        <input type="text" name="phone" placeholder="Phone Number"></div>
      <button type="submit" tabindex="3">Send</button>
    </form>
    <iframe src="https://maps.example.net/embed?q=studio"></iframe>
  </main>
  <footer><p>© Example Studio</p></footer>
</body>
</html>`

func TestFixHTML(t *testing.T) {
	out, results, err := FixHTML([]byte(builderPage), nil, quiet())
	if err != nil {
		t.Fatal(err)
	}
	html := string(out)

	for _, frag := range []string{
		`id="remedy-focus-style"`,
		`class="remedy-skip-link"`,
		`href="#`,
		`role="navigation"`,
		`role="contentinfo"`,
		`aria-label="Email Address"`,
		`autocomplete="email"`,
		`type="email"`,
		`autocomplete="tel"`,
		`inputmode="tel"`,
		`autocomplete="given-name"`,
		`aria-label="Read more: Contact Us"`,
		`title="Embedded content from maps.example.net"`,
		`tabindex="0"`,
		`id="remedy-live-region"`,
		`aria-live="polite"`,
	} {
		if !strings.Contains(html, frag) {
			t.Errorf("repaired page missing %s", frag)
		}
	}
	if strings.Contains(html, `autocomplete="false"`) {
		t.Error("autocomplete=false survived the pass")
	}
	if strings.Contains(html, `tabindex="3"`) {
		t.Error("positive tabindex survived the pass")
	}

	for _, r := range results {
		if r.Err != "" {
			t.Errorf("fix %s failed: %s", r.Name, r.Err)
		}
	}

	// A second pass over the repaired output must be a pure no-op.
	again, results2, err := FixHTML(out, nil, quiet())
	if err != nil {
		t.Fatal(err)
	}
	if string(again) != string(out) {
		t.Error("second pass changed the document")
	}
	for _, r := range results2 {
		if r.Touched != 0 {
			t.Errorf("fix %s touched %d elements on an already-repaired page", r.Name, r.Touched)
		}
	}
}

func TestFixHTMLWithExclusions(t *testing.T) {
	out, _, err := FixHTML([]byte(builderPage), []string{"skip-link", "focus-outline"}, quiet())
	if err != nil {
		t.Fatal(err)
	}
	html := string(out)
	if strings.Contains(html, "remedy-skip-link") || strings.Contains(html, "remedy-focus-style") {
		t.Error("excluded fixes still ran")
	}
	if !strings.Contains(html, `autocomplete="email"`) {
		t.Error("remaining fixes did not run")
	}
}
