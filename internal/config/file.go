// Package config handles domremedy configuration from YAML files.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level domremedy configuration.
type Config struct {
	Page    PageConfig    `yaml:"page"`
	Host    HostConfig    `yaml:"host"`
	Browser BrowserConfig `yaml:"browser"`

	// Logging toggles diagnostic output only, never behavior. Default true.
	Logging bool `yaml:"logging"`
	// ExcludeFixes lists fix names skipped entirely at registration.
	ExcludeFixes []string `yaml:"exclude_fixes"`

	Debounce DebounceConfig `yaml:"debounce"`
	Rescan   RescanConfig   `yaml:"rescan"`
	Report   ReportConfig   `yaml:"report"`
}

// PageConfig identifies the page to attach to.
type PageConfig struct {
	URL string `yaml:"url"`
	// Container is the selector of the builder's content container,
	// watched for attribute swaps.
	Container string `yaml:"container"`
}

// HostConfig names the host platform's lifecycle hooks.
type HostConfig struct {
	// InitHook is the global function slot the platform calls when ready.
	InitHook string `yaml:"init_hook"`
	// NavigationEvent is the custom event dispatched on in-app navigation.
	NavigationEvent string `yaml:"navigation_event"`
}

// BrowserConfig controls the Chrome connection.
type BrowserConfig struct {
	// Remote is the WebSocket URL of an external Chrome. Empty = launch.
	Remote string `yaml:"remote"`
	// Stealth: headless | headful.
	Stealth string `yaml:"stealth"`
	// ResourceBlocking lists resource types to block (images, fonts, media).
	ResourceBlocking []string `yaml:"resource_blocking"`
}

// DebounceConfig controls resize coalescing.
type DebounceConfig struct {
	Window time.Duration `yaml:"window"`
}

// RescanConfig is the retry budget for asynchronously rendered content.
type RescanConfig struct {
	// Schedule lists the follow-up delays, consumed left-to-right.
	Schedule []time.Duration `yaml:"schedule"`
	// NavigationDelay is the repaint allowance after a navigation signal.
	NavigationDelay time.Duration `yaml:"navigation_delay"`
}

// ReportConfig selects pass-report sinks.
type ReportConfig struct {
	Sinks []string `yaml:"sinks"` // stdout
}

// LoadFile reads a YAML configuration file.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Config{Logging: true}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ApplyDefaults fills zero values with the reference settings.
func (c *Config) ApplyDefaults() {
	if c.Browser.Stealth == "" {
		c.Browser.Stealth = "headless"
	}
	if c.Debounce.Window <= 0 {
		c.Debounce.Window = 300 * time.Millisecond
	}
	if len(c.Rescan.Schedule) == 0 {
		c.Rescan.Schedule = []time.Duration{
			400 * time.Millisecond,
			800 * time.Millisecond,
			1600 * time.Millisecond,
			3200 * time.Millisecond,
		}
	}
	if c.Rescan.NavigationDelay <= 0 {
		c.Rescan.NavigationDelay = 400 * time.Millisecond
	}
	if len(c.Report.Sinks) == 0 {
		c.Report.Sinks = []string{"stdout"}
	}
}

// Validate rejects configurations domremedy cannot start from.
func (c *Config) Validate() error {
	if c.Page.URL == "" {
		return fmt.Errorf("config: page.url is required")
	}
	switch c.Browser.Stealth {
	case "headless", "headful":
	default:
		return fmt.Errorf("config: browser.stealth must be headless or headful, got %q", c.Browser.Stealth)
	}
	return nil
}
