package runner

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/ui-inspector/backend/analyzer"
	"github.com/ui-inspector/backend/inspector"
)

// Result is one cell of the inspection matrix: a single route rendered at a
// single viewport.
type Result struct {
	Route     string    `json:"route"`
	Viewport  string    `json:"viewport"`
	Timestamp time.Time `json:"timestamp"`

	// LoadTime is wall-clock navigation-to-capture in milliseconds;
	// RenderTime comes from the page's own navigation timing.
	LoadTime   float64 `json:"loadTime"`
	RenderTime float64 `json:"renderTime"`

	PaddingIssues     []analyzer.PaddingIssue     `json:"paddingIssues"`
	AlignmentIssues   []analyzer.AlignmentIssue   `json:"alignmentIssues"`
	OverlapIssues     []analyzer.OverlapIssue     `json:"overlapIssues"`
	ContrastIssues    []analyzer.ContrastIssue    `json:"contrastIssues"`
	TouchTargetIssues []analyzer.TouchTargetIssue `json:"touchTargetIssues,omitempty"`

	HorizontalScroll bool     `json:"horizontalScroll"`
	ConsoleErrors    []string `json:"consoleErrors,omitempty"`
	Screenshots      []string `json:"screenshots,omitempty"`

	// Errors records why a cell could not be fully inspected. A cell with
	// errors still appears in the report.
	Errors []string `json:"errors,omitempty"`
}

// IssueCount sums every defect found in this cell.
func (r *Result) IssueCount() int {
	return len(r.PaddingIssues) + len(r.AlignmentIssues) +
		len(r.OverlapIssues) + len(r.ContrastIssues) + len(r.TouchTargetIssues)
}

// SessionSource creates browser sessions. Satisfied by inspector.Browser in
// production and by a fake in tests.
type SessionSource interface {
	NewSession(ctx context.Context) (inspector.Session, error)
}

// Runner walks the route × viewport matrix sequentially and collects one
// Result per cell.
type Runner struct {
	cfg    Config
	source SessionSource
	log    *slog.Logger
	probe  *http.Client
}

// New builds a Runner. A nil logger falls back to slog.Default.
func New(cfg Config, source SessionSource, log *slog.Logger) *Runner {
	if log == nil {
		log = slog.Default()
	}
	return &Runner{
		cfg:    cfg,
		source: source,
		log:    log,
		probe:  &http.Client{Timeout: cfg.ProbeTimeout()},
	}
}

// Run executes the full matrix. Per-cell failures are recorded in the
// corresponding Result and never abort the run; the returned error covers
// only setup problems such as having no routes at all.
func (r *Runner) Run(ctx context.Context) ([]Result, error) {
	routes := r.cfg.Routes
	if r.cfg.DiscoverRoutes {
		discovered, err := DiscoverRoutes(r.cfg.BaseURL, r.cfg.MaxRoutes, r.cfg.ProbeTimeout())
		if err != nil {
			r.log.Warn("route discovery failed, using configured routes",
				"error", err, "fallback", routes)
		} else {
			routes = discovered
		}
	}
	if len(routes) == 0 {
		return nil, fmt.Errorf("no routes to inspect")
	}

	r.log.Info("starting inspection",
		"routes", len(routes),
		"viewports", len(r.cfg.Viewports),
		"cells", len(routes)*len(r.cfg.Viewports))

	probeStatus := make(map[string]error)
	var results []Result

	for start := 0; start < len(routes); start += r.cfg.ChunkSize {
		end := start + r.cfg.ChunkSize
		if end > len(routes) {
			end = len(routes)
		}
		chunk := routes[start:end]

		chunkResults, err := r.runChunk(ctx, chunk, probeStatus)
		results = append(results, chunkResults...)
		if err != nil {
			return results, err
		}
	}

	r.log.Info("inspection complete", "cells", len(results))
	return results, nil
}

// runChunk inspects a batch of routes with a single browser session per
// viewport, so memory stays bounded on large route sets.
func (r *Runner) runChunk(ctx context.Context, routes []string, probeStatus map[string]error) ([]Result, error) {
	var results []Result

	for _, vp := range r.cfg.Viewports {
		session, err := r.source.NewSession(ctx)
		if err != nil {
			return results, fmt.Errorf("failed to open browser session: %w", err)
		}

		if err := session.SetViewport(vp); err != nil {
			session.Close()
			return results, fmt.Errorf("failed to set viewport %s: %w", vp.Name, err)
		}

		for _, route := range routes {
			if err := ctx.Err(); err != nil {
				session.Close()
				return results, err
			}
			results = append(results, r.inspectCell(ctx, session, route, vp, probeStatus))
		}

		if err := session.Close(); err != nil {
			r.log.Warn("failed to close session", "viewport", vp.Name, "error", err)
		}
	}
	return results, nil
}

func (r *Runner) inspectCell(ctx context.Context, session inspector.Session, route string, vp inspector.Viewport, probeStatus map[string]error) Result {
	result := Result{
		Route:     route,
		Viewport:  vp.Name,
		Timestamp: time.Now().UTC(),
	}
	pageURL := strings.TrimSuffix(r.cfg.BaseURL, "/") + route

	// Rod does not surface the HTTP status of a navigation, so probe the
	// route first and skip rendering anything the server rejects.
	probeErr, probed := probeStatus[route]
	if !probed {
		probeErr = r.probeRoute(ctx, pageURL)
		probeStatus[route] = probeErr
	}
	if probeErr != nil {
		result.Errors = append(result.Errors, probeErr.Error())
		r.log.Warn("skipping route", "route", route, "viewport", vp.Name, "error", probeErr)
		return result
	}

	start := time.Now()
	if err := session.Navigate(ctx, pageURL); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("navigation failed: %v", err))
		r.log.Warn("navigation failed", "route", route, "viewport", vp.Name, "error", err)
		return result
	}

	snap, err := session.Capture(ctx)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("capture failed: %v", err))
		r.log.Warn("capture failed", "route", route, "viewport", vp.Name, "error", err)
		return result
	}
	result.LoadTime = float64(time.Since(start).Milliseconds())
	result.RenderTime = snap.RenderTime
	result.ConsoleErrors = snap.ConsoleErrors
	result.HorizontalScroll = snap.HorizontalScroll()

	th := r.cfg.Thresholds
	result.PaddingIssues = analyzer.NewPaddingAnalyzer(th).Analyze(snap, r.cfg.PaddingSelectors)
	result.AlignmentIssues = analyzer.DetectAlignment(snap, th)
	result.OverlapIssues = analyzer.ScanOverlaps(snap, th)
	result.ContrastIssues = analyzer.ValidateContrast(snap, th)
	if vp.Width <= th.MobileWidth {
		result.TouchTargetIssues = analyzer.CheckTouchTargets(snap, th)
	}

	if r.cfg.Screenshots {
		r.captureEvidence(session, &result)
	}

	r.log.Info("inspected",
		"route", route,
		"viewport", vp.Name,
		"issues", result.IssueCount(),
		"loadMs", result.LoadTime)
	return result
}

func (r *Runner) probeRoute(ctx context.Context, pageURL string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return fmt.Errorf("invalid URL %s: %w", pageURL, err)
	}
	resp, err := r.probe.Do(req)
	if err != nil {
		return fmt.Errorf("route unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("route returned HTTP %d", resp.StatusCode)
	}
	return nil
}

// captureEvidence saves a full-page screenshot plus one element screenshot
// per defect category. Screenshot failures are logged and never fail a cell.
func (r *Runner) captureEvidence(session inspector.Session, result *Result) {
	base := cellSlug(result.Route, result.Viewport)

	full := filepath.Join(r.cfg.ScreenshotDir, base+".png")
	if err := session.Screenshot(full); err != nil {
		r.log.Warn("screenshot failed", "path", full, "error", err)
	} else {
		result.Screenshots = append(result.Screenshots, full)
	}

	shoot := func(kind, selector string) string {
		path := filepath.Join(r.cfg.ScreenshotDir, base+"-"+kind+".png")
		if err := session.ScreenshotElement(selector, path); err != nil {
			r.log.Warn("element screenshot failed", "selector", selector, "error", err)
			return ""
		}
		result.Screenshots = append(result.Screenshots, path)
		return path
	}

	if len(result.PaddingIssues) > 0 {
		result.PaddingIssues[0].Screenshot = shoot("padding", result.PaddingIssues[0].Selector)
	}
	if len(result.AlignmentIssues) > 0 {
		result.AlignmentIssues[0].Screenshot = shoot("alignment", result.AlignmentIssues[0].Selector)
	}
	if len(result.OverlapIssues) > 0 {
		result.OverlapIssues[0].Screenshot = shoot("overlap", result.OverlapIssues[0].Selector1)
	}
	if len(result.ContrastIssues) > 0 {
		result.ContrastIssues[0].Screenshot = shoot("contrast", result.ContrastIssues[0].Selector)
	}
}

// cellSlug turns "/about/team" + "mobile-375" into "about-team-mobile-375".
func cellSlug(route, viewport string) string {
	slug := strings.Trim(route, "/")
	if slug == "" {
		slug = "home"
	}
	slug = strings.ReplaceAll(slug, "/", "-")
	return slug + "-" + viewport
}
