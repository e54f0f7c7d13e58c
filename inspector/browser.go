package inspector

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
)

// Config configures the browser.
type Config struct {
	// ControlURL is the WebSocket URL of an external Chrome instance.
	// Empty = launch a local Chrome via launcher.
	ControlURL string

	// NavTimeout bounds a single navigation. Default: 30s.
	NavTimeout time.Duration

	// SettleDelay is waited after load before sampling, so entrance
	// animations finish shifting layout. Default: 1s.
	SettleDelay time.Duration

	Logger *slog.Logger
}

func (c *Config) defaults() {
	if c.NavTimeout <= 0 {
		c.NavTimeout = 30 * time.Second
	}
	if c.SettleDelay <= 0 {
		c.SettleDelay = time.Second
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Browser owns the Chrome process for the duration of a suite.
type Browser struct {
	cfg     Config
	browser *rod.Browser
	lnch    *launcher.Launcher
}

// Launch starts (or connects to) Chrome.
func Launch(cfg Config) (*Browser, error) {
	cfg.defaults()
	log := cfg.Logger

	wsURL := cfg.ControlURL
	var lnch *launcher.Launcher

	if wsURL == "" {
		l := launcher.New().
			Headless(true).
			Set("disable-blink-features", "AutomationControlled")

		u, err := l.Launch()
		if err != nil {
			return nil, fmt.Errorf("inspector: launch chrome: %w", err)
		}
		wsURL = u
		lnch = l
		log.Info("inspector: launched local chrome", "url", wsURL)
	} else {
		log.Info("inspector: connecting to remote chrome", "url", wsURL)
	}

	b := rod.New().ControlURL(wsURL)
	if err := b.Connect(); err != nil {
		if lnch != nil {
			lnch.Cleanup()
		}
		return nil, fmt.Errorf("inspector: connect: %w", err)
	}

	// Certificate errors on a local app under test are noise.
	if err := b.IgnoreCertErrors(true); err != nil {
		log.Warn("inspector: ignore cert errors failed", "error", err)
	}

	return &Browser{cfg: cfg, browser: b, lnch: lnch}, nil
}

// NewSession opens a fresh tab.
func (b *Browser) NewSession(ctx context.Context) (Session, error) {
	page, err := b.browser.Context(ctx).Page(emptyTarget())
	if err != nil {
		return nil, fmt.Errorf("inspector: create tab: %w", err)
	}
	return newPage(page, b.cfg), nil
}

// Close shuts down Chrome.
func (b *Browser) Close() error {
	if b.browser != nil {
		if err := b.browser.Close(); err != nil {
			return fmt.Errorf("inspector: close browser: %w", err)
		}
	}
	if b.lnch != nil {
		b.lnch.Cleanup()
	}
	return nil
}
