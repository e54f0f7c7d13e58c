package runner

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/ui-inspector/backend/geometry"
	"github.com/ui-inspector/backend/inspector"
	"github.com/ui-inspector/backend/severity"
)

type fakeSource struct {
	fake *inspector.Fake
}

func (s fakeSource) NewSession(context.Context) (inspector.Session, error) {
	return s.fake, nil
}

// countingServer serves 200 for every path except those in fail, and counts
// hits per path.
func countingServer(t *testing.T, fail map[string]int) (*httptest.Server, func(path string) int) {
	t.Helper()
	var mu sync.Mutex
	hits := make(map[string]int)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		hits[r.URL.Path]++
		mu.Unlock()
		if code, ok := fail[r.URL.Path]; ok {
			w.WriteHeader(code)
			return
		}
		w.Write([]byte("<html><body>ok</body></html>"))
	}))
	t.Cleanup(srv.Close)

	return srv, func(path string) int {
		mu.Lock()
		defer mu.Unlock()
		return hits[path]
	}
}

func testConfig(baseURL string, routes []string, viewports []inspector.Viewport) Config {
	cfg := DefaultConfig()
	cfg.BaseURL = baseURL
	cfg.Routes = routes
	cfg.Viewports = viewports
	return cfg
}

func emptyPage() *inspector.Snapshot {
	return &inspector.Snapshot{ClientWidth: 1440, ScrollWidth: 1440}
}

func TestRunFullMatrix(t *testing.T) {
	srv, _ := countingServer(t, nil)
	viewports := []inspector.Viewport{
		{Name: "mobile-375", Width: 375, Height: 812},
		{Name: "desktop-1440", Width: 1440, Height: 900},
	}
	cfg := testConfig(srv.URL, []string{"/", "/about"}, viewports)

	fake := inspector.NewFake()
	fake.Pages[srv.URL+"/"] = emptyPage()
	fake.Pages[srv.URL+"/about"] = emptyPage()

	results, err := New(cfg, fakeSource{fake}, nil).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(results) != 4 {
		t.Fatalf("expected 2 routes x 2 viewports = 4 results, got %d", len(results))
	}

	seen := make(map[string]bool)
	for _, res := range results {
		seen[res.Route+"|"+res.Viewport] = true
		if len(res.Errors) != 0 {
			t.Errorf("cell %s/%s has errors: %v", res.Route, res.Viewport, res.Errors)
		}
	}
	if len(seen) != 4 {
		t.Fatalf("matrix cells not unique: %v", seen)
	}
}

func TestRunRecordsHTTPErrorAndContinues(t *testing.T) {
	srv, hits := countingServer(t, map[string]int{"/broken": http.StatusInternalServerError})
	viewports := []inspector.Viewport{
		{Name: "mobile-375", Width: 375, Height: 812},
		{Name: "desktop-1440", Width: 1440, Height: 900},
	}
	cfg := testConfig(srv.URL, []string{"/", "/broken"}, viewports)

	fake := inspector.NewFake()
	fake.Pages[srv.URL+"/"] = emptyPage()

	results, err := New(cfg, fakeSource{fake}, nil).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(results) != 4 {
		t.Fatalf("failing route must still produce cells, got %d results", len(results))
	}

	for _, res := range results {
		if res.Route == "/broken" {
			if len(res.Errors) == 0 {
				t.Errorf("broken cell should carry an error")
			}
			if res.IssueCount() != 0 {
				t.Errorf("broken cell should have no issues, got %d", res.IssueCount())
			}
		} else if len(res.Errors) != 0 {
			t.Errorf("healthy cell has errors: %v", res.Errors)
		}
	}

	// The probe result is cached per route across viewports.
	if got := hits("/broken"); got != 1 {
		t.Errorf("expected 1 probe of /broken, got %d", got)
	}
}

func TestRunRecordsNavigationFailure(t *testing.T) {
	srv, _ := countingServer(t, nil)
	cfg := testConfig(srv.URL, []string{"/"}, []inspector.Viewport{{Name: "desktop-1440", Width: 1440, Height: 900}})

	fake := inspector.NewFake()
	fake.NavErrors[srv.URL+"/"] = errors.New("net::ERR_CONNECTION_RESET")

	results, err := New(cfg, fakeSource{fake}, nil).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(results) != 1 || len(results[0].Errors) == 0 {
		t.Fatalf("navigation failure must be recorded, got %+v", results)
	}
}

func TestRunTouchTargetsOnlyOnMobile(t *testing.T) {
	srv, _ := countingServer(t, nil)
	viewports := []inspector.Viewport{
		{Name: "mobile-375", Width: 375, Height: 812},
		{Name: "desktop-1440", Width: 1440, Height: 900},
	}
	cfg := testConfig(srv.URL, []string{"/"}, viewports)

	tiny := inspector.Element{
		Index:       0,
		Parent:      -1,
		Tag:         "button",
		Box:         geometry.Rect{Width: 20, Height: 20},
		Styles:      map[string]string{},
		Interactive: true,
		Visible:     true,
	}
	page := emptyPage()
	page.Elements = []inspector.Element{tiny}

	fake := inspector.NewFake()
	fake.Pages[srv.URL+"/"] = page

	results, err := New(cfg, fakeSource{fake}, nil).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	for _, res := range results {
		switch res.Viewport {
		case "mobile-375":
			if len(res.TouchTargetIssues) != 1 {
				t.Errorf("mobile cell should flag the tiny button, got %+v", res.TouchTargetIssues)
			}
		case "desktop-1440":
			if len(res.TouchTargetIssues) != 0 {
				t.Errorf("desktop cells skip touch targets, got %+v", res.TouchTargetIssues)
			}
		}
	}
}

func TestRunFlagsHorizontalScroll(t *testing.T) {
	srv, _ := countingServer(t, nil)
	cfg := testConfig(srv.URL, []string{"/"}, []inspector.Viewport{{Name: "mobile-375", Width: 375, Height: 812}})

	page := &inspector.Snapshot{ScrollWidth: 425, ClientWidth: 375}
	fake := inspector.NewFake()
	fake.Pages[srv.URL+"/"] = page

	results, err := New(cfg, fakeSource{fake}, nil).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !results[0].HorizontalScroll {
		t.Error("overflowing page must set HorizontalScroll")
	}
}

func TestRunIdempotent(t *testing.T) {
	srv, _ := countingServer(t, nil)
	cfg := testConfig(srv.URL, []string{"/"}, []inspector.Viewport{{Name: "desktop-1440", Width: 1440, Height: 900}})

	card := func(i int, x, pad float64) inspector.Element {
		return inspector.Element{
			Index: i, Parent: -1, Tag: "div", Classes: []string{"card"},
			Box:     geometry.Rect{X: x, Width: 300, Height: 200},
			Visible: true,
			Styles: map[string]string{
				"padding-top": pxf(pad), "padding-right": pxf(pad),
				"padding-bottom": pxf(pad), "padding-left": pxf(pad),
			},
		}
	}
	page := emptyPage()
	page.Elements = []inspector.Element{card(0, 0, 20), card(1, 320, 36)}

	fake := inspector.NewFake()
	fake.Pages[srv.URL+"/"] = page

	r := New(cfg, fakeSource{fake}, nil)
	first, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	if first[0].IssueCount() == 0 {
		t.Fatal("fixture should produce at least one issue")
	}
	if first[0].IssueCount() != second[0].IssueCount() {
		t.Errorf("runs over identical content must match: %d vs %d",
			first[0].IssueCount(), second[0].IssueCount())
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.ChunkSize != 5 {
		t.Errorf("default chunk size is 5, got %d", cfg.ChunkSize)
	}
	if len(cfg.Viewports) != 5 {
		t.Errorf("expected 5 default viewports, got %d", len(cfg.Viewports))
	}
	if cfg.Thresholds != severity.DefaultThresholds() {
		t.Error("thresholds should default")
	}
}

func pxf(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "px"
}
