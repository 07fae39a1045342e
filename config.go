package domremedy

import (
	"github.com/hazyhaar/domremedy/internal/config"
)

// Config is the top-level domremedy configuration. Re-exported from
// internal.
type Config = config.Config

// PageConfig identifies the page to attach to.
type PageConfig = config.PageConfig

// HostConfig names the host platform's lifecycle hooks.
type HostConfig = config.HostConfig

// BrowserConfig controls the Chrome connection.
type BrowserConfig = config.BrowserConfig

// DebounceConfig controls resize coalescing.
type DebounceConfig = config.DebounceConfig

// RescanConfig is the retry budget for asynchronously rendered content.
type RescanConfig = config.RescanConfig

// ReportConfig selects pass-report sinks.
type ReportConfig = config.ReportConfig

// LoadConfigFile reads a YAML configuration file.
func LoadConfigFile(path string) (*Config, error) {
	return config.LoadFile(path)
}
