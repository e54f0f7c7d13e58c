// Package runner drives the inspection matrix: every configured route
// rendered at every configured viewport, each cell analyzed for padding,
// alignment, overlap, contrast and touch-target defects.
package runner

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ui-inspector/backend/inspector"
	"github.com/ui-inspector/backend/severity"
)

// Config describes one inspection run.
type Config struct {
	// BaseURL is prepended to every route, e.g. "http://localhost:3000".
	BaseURL string `yaml:"base_url"`

	// Routes are the paths to inspect. Empty with DiscoverRoutes set means
	// crawl the base URL's internal links instead.
	Routes         []string `yaml:"routes"`
	DiscoverRoutes bool     `yaml:"discover_routes"`
	MaxRoutes      int      `yaml:"max_routes"`

	Viewports []inspector.Viewport `yaml:"viewports"`

	// PaddingSelectors are the element groups checked for consistent padding.
	PaddingSelectors []string `yaml:"padding_selectors"`

	Thresholds severity.Thresholds `yaml:"thresholds"`

	ReportDir     string `yaml:"report_dir"`
	ScreenshotDir string `yaml:"screenshot_dir"`
	Screenshots   bool   `yaml:"screenshots"`

	// ChunkSize bounds how many routes are processed per browser session
	// batch, keeping memory steady on large sites.
	ChunkSize int `yaml:"chunk_size"`

	NavTimeoutSec   int `yaml:"nav_timeout_sec"`
	SettleDelayMs   int `yaml:"settle_delay_ms"`
	ProbeTimeoutSec int `yaml:"probe_timeout_sec"`
}

// DefaultViewports spans the device spectrum from small phones to large
// desktops.
func DefaultViewports() []inspector.Viewport {
	return []inspector.Viewport{
		{Name: "mobile-375", Width: 375, Height: 812},
		{Name: "tablet-768", Width: 768, Height: 1024},
		{Name: "laptop-1366", Width: 1366, Height: 768},
		{Name: "desktop-1440", Width: 1440, Height: 900},
		{Name: "xlarge-1920", Width: 1920, Height: 1080},
	}
}

func defaultPaddingSelectors() []string {
	return []string{"section", "header", "footer", "nav", ".card", "button"}
}

func (c *Config) defaults() {
	if c.BaseURL == "" {
		c.BaseURL = "http://localhost:3000"
	}
	if len(c.Routes) == 0 && !c.DiscoverRoutes {
		c.Routes = []string{"/"}
	}
	if c.MaxRoutes == 0 {
		c.MaxRoutes = 50
	}
	if len(c.Viewports) == 0 {
		c.Viewports = DefaultViewports()
	}
	if len(c.PaddingSelectors) == 0 {
		c.PaddingSelectors = defaultPaddingSelectors()
	}
	if c.Thresholds == (severity.Thresholds{}) {
		c.Thresholds = severity.DefaultThresholds()
	}
	if c.ReportDir == "" {
		c.ReportDir = "reports"
	}
	if c.ScreenshotDir == "" {
		c.ScreenshotDir = "screenshots"
	}
	if c.ChunkSize == 0 {
		c.ChunkSize = 5
	}
	if c.NavTimeoutSec == 0 {
		c.NavTimeoutSec = 30
	}
	if c.SettleDelayMs == 0 {
		c.SettleDelayMs = 1000
	}
	if c.ProbeTimeoutSec == 0 {
		c.ProbeTimeoutSec = 10
	}
}

// NavTimeout returns the per-navigation deadline.
func (c *Config) NavTimeout() time.Duration {
	return time.Duration(c.NavTimeoutSec) * time.Second
}

// SettleDelay returns how long to wait after load before capturing, letting
// animations and late layout settle.
func (c *Config) SettleDelay() time.Duration {
	return time.Duration(c.SettleDelayMs) * time.Millisecond
}

// ProbeTimeout returns the deadline for the pre-navigation HTTP probe.
func (c *Config) ProbeTimeout() time.Duration {
	return time.Duration(c.ProbeTimeoutSec) * time.Second
}

// DefaultConfig returns a Config with every field at its default.
func DefaultConfig() Config {
	var c Config
	c.defaults()
	return c
}

// LoadConfig reads a YAML config file and fills unset fields with defaults.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	c.defaults()
	return c, nil
}
