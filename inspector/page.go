package inspector

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

const mobileUserAgent = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) " +
	"AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1"

// Session is one browser tab driven through the route × viewport matrix.
// The Rod-backed Page implements it for real runs; Fake implements it over
// synthetic snapshots for tests.
type Session interface {
	// SetViewport resizes the tab, emulating a mobile device (and user
	// agent) for narrow widths.
	SetViewport(v Viewport) error

	// Navigate opens the URL and waits for load plus a settle delay.
	Navigate(ctx context.Context, url string) error

	// Capture reduces the current render to a Snapshot.
	Capture(ctx context.Context) (*Snapshot, error)

	// Screenshot writes a full-page screenshot.
	Screenshot(path string) error

	// ScreenshotElement writes an isolated screenshot of the first element
	// matching the selector, as evidence for a reported issue.
	ScreenshotElement(selector, path string) error

	Close() error
}

// Page drives a single Rod tab.
type Page struct {
	page     *rod.Page
	cfg      Config
	log      *slog.Logger
	viewport Viewport

	mu       sync.Mutex
	pageErrs []string
}

func emptyTarget() proto.TargetCreateTarget {
	return proto.TargetCreateTarget{URL: ""}
}

func newPage(page *rod.Page, cfg Config) *Page {
	p := &Page{page: page, cfg: cfg, log: cfg.Logger}

	// Collect uncaught page exceptions; they end up in the result record's
	// errors list. The goroutine exits when the page closes.
	go page.EachEvent(func(e *proto.RuntimeExceptionThrown) {
		p.mu.Lock()
		p.pageErrs = append(p.pageErrs, e.ExceptionDetails.Text)
		p.mu.Unlock()
	})()

	return p
}

func (p *Page) SetViewport(v Viewport) error {
	mobile := v.Width <= 768

	err := p.page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             v.Width,
		Height:            v.Height,
		DeviceScaleFactor: 1,
		Mobile:            mobile,
	})
	if err != nil {
		return fmt.Errorf("inspector: set viewport %s: %w", v.Name, err)
	}

	if mobile {
		err = p.page.SetUserAgent(&proto.NetworkSetUserAgentOverride{
			UserAgent: mobileUserAgent,
		})
		if err != nil {
			return fmt.Errorf("inspector: set user agent: %w", err)
		}
	}

	p.viewport = v
	return nil
}

func (p *Page) Navigate(ctx context.Context, url string) error {
	navCtx, cancel := context.WithTimeout(ctx, p.cfg.NavTimeout)
	defer cancel()

	p.mu.Lock()
	p.pageErrs = nil
	p.mu.Unlock()

	if err := p.page.Context(navCtx).Navigate(url); err != nil {
		return fmt.Errorf("inspector: navigate %s: %w", url, err)
	}

	if err := p.page.Context(navCtx).WaitLoad(); err != nil {
		p.log.Warn("inspector: wait load timeout", "url", url, "error", err)
	}

	// Let entrance animations finish before sampling geometry.
	select {
	case <-time.After(p.cfg.SettleDelay):
	case <-ctx.Done():
		return ctx.Err()
	}

	return nil
}

func (p *Page) Capture(ctx context.Context) (*Snapshot, error) {
	res, err := p.page.Context(ctx).Eval(captureScript)
	if err != nil {
		return nil, fmt.Errorf("inspector: capture snapshot: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal([]byte(res.Value.Str()), &snap); err != nil {
		return nil, fmt.Errorf("inspector: decode snapshot: %w", err)
	}

	snap.Viewport = p.viewport

	p.mu.Lock()
	snap.ConsoleErrors = append(snap.ConsoleErrors, p.pageErrs...)
	p.mu.Unlock()

	return &snap, nil
}

func (p *Page) Screenshot(path string) error {
	data, err := p.page.Screenshot(true, nil)
	if err != nil {
		return fmt.Errorf("inspector: screenshot: %w", err)
	}
	return writeImage(path, data)
}

func (p *Page) ScreenshotElement(selector, path string) error {
	el, err := p.page.Element(selector)
	if err != nil {
		return fmt.Errorf("inspector: element %q: %w", selector, err)
	}

	data, err := el.Screenshot(proto.PageCaptureScreenshotFormatPng, 0)
	if err != nil {
		return fmt.Errorf("inspector: element screenshot %q: %w", selector, err)
	}
	return writeImage(path, data)
}

func (p *Page) Close() error {
	return p.page.Close()
}

func writeImage(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("inspector: screenshot dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("inspector: write screenshot: %w", err)
	}
	return nil
}
