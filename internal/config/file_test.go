package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "domremedy.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFileDefaults(t *testing.T) {
	path := writeConfig(t, `
page:
  url: https://example.com
`)
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if !cfg.Logging {
		t.Error("logging must default to true")
	}
	if cfg.Browser.Stealth != "headless" {
		t.Errorf("stealth default: %q", cfg.Browser.Stealth)
	}
	if cfg.Debounce.Window != 300*time.Millisecond {
		t.Errorf("debounce window default: %v", cfg.Debounce.Window)
	}
	want := []time.Duration{400 * time.Millisecond, 800 * time.Millisecond, 1600 * time.Millisecond, 3200 * time.Millisecond}
	if len(cfg.Rescan.Schedule) != len(want) {
		t.Fatalf("rescan schedule: %v", cfg.Rescan.Schedule)
	}
	for i, d := range want {
		if cfg.Rescan.Schedule[i] != d {
			t.Errorf("rescan schedule[%d]: got %v, want %v", i, cfg.Rescan.Schedule[i], d)
		}
	}
	if cfg.Rescan.NavigationDelay != 400*time.Millisecond {
		t.Errorf("navigation delay default: %v", cfg.Rescan.NavigationDelay)
	}
	if len(cfg.Report.Sinks) != 1 || cfg.Report.Sinks[0] != "stdout" {
		t.Errorf("report sinks default: %v", cfg.Report.Sinks)
	}
}

func TestLoadFileFull(t *testing.T) {
	path := writeConfig(t, `
page:
  url: https://shop.example.com
  container: "#app"
host:
  init_hook: __platformReady
  navigation_event: platform:navigated
browser:
  remote: ws://127.0.0.1:9222
  stealth: headful
  resource_blocking: [images, fonts]
logging: false
exclude_fixes: [skip-link, tabindex]
debounce:
  window: 150ms
rescan:
  schedule: [100ms, 200ms]
  navigation_delay: 250ms
report:
  sinks: [stdout]
`)
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Page.Container != "#app" {
		t.Errorf("container: %q", cfg.Page.Container)
	}
	if cfg.Host.InitHook != "__platformReady" || cfg.Host.NavigationEvent != "platform:navigated" {
		t.Errorf("host: %+v", cfg.Host)
	}
	if cfg.Browser.Remote != "ws://127.0.0.1:9222" || cfg.Browser.Stealth != "headful" {
		t.Errorf("browser: %+v", cfg.Browser)
	}
	if cfg.Logging {
		t.Error("logging: explicit false was overridden")
	}
	if len(cfg.ExcludeFixes) != 2 || cfg.ExcludeFixes[0] != "skip-link" {
		t.Errorf("exclude_fixes: %v", cfg.ExcludeFixes)
	}
	if cfg.Debounce.Window != 150*time.Millisecond {
		t.Errorf("debounce window: %v", cfg.Debounce.Window)
	}
	if len(cfg.Rescan.Schedule) != 2 || cfg.Rescan.Schedule[1] != 200*time.Millisecond {
		t.Errorf("rescan schedule: %v", cfg.Rescan.Schedule)
	}
	if cfg.Rescan.NavigationDelay != 250*time.Millisecond {
		t.Errorf("navigation delay: %v", cfg.Rescan.NavigationDelay)
	}
}

func TestLoadFileMissingURL(t *testing.T) {
	path := writeConfig(t, `
browser:
  stealth: headless
`)
	_, err := LoadFile(path)
	if err == nil || !strings.Contains(err.Error(), "page.url") {
		t.Fatalf("want page.url error, got %v", err)
	}
}

func TestLoadFileBadStealth(t *testing.T) {
	path := writeConfig(t, `
page:
  url: https://example.com
browser:
  stealth: invisible
`)
	_, err := LoadFile(path)
	if err == nil || !strings.Contains(err.Error(), "stealth") {
		t.Fatalf("want stealth error, got %v", err)
	}
}

func TestLoadFileBadYAML(t *testing.T) {
	path := writeConfig(t, "page: [unclosed")
	if _, err := LoadFile(path); err == nil {
		t.Fatal("want parse error")
	}
}

func TestLoadFileMissing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("want read error")
	}
}
