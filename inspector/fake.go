package inspector

import (
	"context"
	"fmt"
	"sync"
)

// Fake is an in-memory Session backed by hand-built snapshots, for testing
// analyzers and the runner without a browser.
type Fake struct {
	mu sync.Mutex

	// Pages maps a URL to the snapshot Capture returns after navigating
	// there. PagesByViewport, keyed "url|viewport-name", takes precedence so
	// a test can vary a page across viewports.
	Pages           map[string]*Snapshot
	PagesByViewport map[string]*Snapshot

	// NavErrors scripts navigation failures by URL.
	NavErrors map[string]error

	viewport Viewport
	current  string

	// Screenshots records every screenshot path requested.
	Screenshots []string
	closed      bool
}

// NewFake returns an empty Fake; tests populate its maps directly.
func NewFake() *Fake {
	return &Fake{
		Pages:           make(map[string]*Snapshot),
		PagesByViewport: make(map[string]*Snapshot),
		NavErrors:       make(map[string]error),
	}
}

func (f *Fake) SetViewport(v Viewport) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.viewport = v
	return nil
}

func (f *Fake) Navigate(_ context.Context, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.NavErrors[url]; err != nil {
		return err
	}
	f.current = url
	return nil
}

func (f *Fake) Capture(context.Context) (*Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	snap, ok := f.PagesByViewport[f.current+"|"+f.viewport.Name]
	if !ok {
		snap, ok = f.Pages[f.current]
	}
	if !ok {
		return nil, fmt.Errorf("inspector: fake has no snapshot for %q", f.current)
	}

	// Copy so callers cannot mutate the fixture across captures.
	out := *snap
	out.Viewport = f.viewport
	out.Elements = append([]Element(nil), snap.Elements...)
	return &out, nil
}

func (f *Fake) Screenshot(path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Screenshots = append(f.Screenshots, path)
	return nil
}

func (f *Fake) ScreenshotElement(_, path string) error {
	return f.Screenshot(path)
}

func (f *Fake) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}
