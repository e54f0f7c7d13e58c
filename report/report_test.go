package report

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ui-inspector/backend/analyzer"
	"github.com/ui-inspector/backend/runner"
	"github.com/ui-inspector/backend/severity"
)

func fixtureResults() []runner.Result {
	ts := time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)
	return []runner.Result{
		{
			Route:     "/",
			Viewport:  "mobile-375",
			Timestamp: ts,
			LoadTime:  1200,
			ContrastIssues: []analyzer.ContrastIssue{
				{Selector: ".hero-text", Severity: severity.Critical, Ratio: 1.8, RequiredRatio: 4.5, WCAGCriteria: "1.4.3 (Normal Text)"},
			},
			TouchTargetIssues: []analyzer.TouchTargetIssue{
				{Selector: ".menu-toggle", Severity: severity.Major, Size: "40x40", Minimum: "44x44"},
			},
			HorizontalScroll: true,
		},
		{
			Route:     "/about",
			Viewport:  "mobile-375",
			Timestamp: ts,
			LoadTime:  800,
			PaddingIssues: []analyzer.PaddingIssue{
				{Selector: ".card:nth-of-type(2)", Severity: severity.Minor, Deviation: 25},
			},
		},
		{
			Route:     "/broken",
			Viewport:  "mobile-375",
			Timestamp: ts,
			Errors:    []string{"route returned HTTP 500"},
		},
	}
}

func fixtureMeta() Metadata {
	return Metadata{
		GeneratedAt: time.Date(2026, 3, 14, 10, 35, 0, 0, time.UTC),
		BaseURL:     "http://localhost:3000",
		Routes:      []string{"/", "/about", "/broken"},
		Viewports:   []string{"mobile-375"},
		Duration:    "42s",
	}
}

func TestBuildSummary(t *testing.T) {
	r := Build(fixtureResults(), fixtureMeta())

	if r.Summary.TotalCells != 3 {
		t.Errorf("TotalCells = %d, want 3", r.Summary.TotalCells)
	}
	if r.Summary.TotalIssues != 3 {
		t.Errorf("TotalIssues = %d, want 3", r.Summary.TotalIssues)
	}
	if r.Summary.BySeverity["critical"] != 1 || r.Summary.BySeverity["major"] != 1 || r.Summary.BySeverity["minor"] != 1 {
		t.Errorf("unexpected severity counts: %v", r.Summary.BySeverity)
	}
	if r.Summary.ByCategory["contrast"] != 1 || r.Summary.ByCategory["padding"] != 1 || r.Summary.ByCategory["touchTarget"] != 1 {
		t.Errorf("unexpected category counts: %v", r.Summary.ByCategory)
	}
	if r.Summary.CellsWithErrors != 1 {
		t.Errorf("CellsWithErrors = %d, want 1", r.Summary.CellsWithErrors)
	}
	if r.Summary.HorizontalScrollCells != 1 {
		t.Errorf("HorizontalScrollCells = %d, want 1", r.Summary.HorizontalScrollCells)
	}
	// The errored cell has no load time and must not drag the average down.
	if r.Summary.AverageLoadTime != 1000 {
		t.Errorf("AverageLoadTime = %v, want 1000", r.Summary.AverageLoadTime)
	}
}

func TestBuildRecommendations(t *testing.T) {
	r := Build(fixtureResults(), fixtureMeta())

	priorities := make(map[string]bool)
	for _, rec := range r.Recommendations {
		priorities[rec.Priority] = true
	}
	if !priorities["CRITICAL"] {
		t.Error("critical issues must produce a CRITICAL recommendation")
	}
	if !priorities["HIGH"] {
		t.Error("contrast failures and horizontal scroll must produce HIGH recommendations")
	}
}

func TestBuildCleanRun(t *testing.T) {
	clean := []runner.Result{{Route: "/", Viewport: "desktop-1440", LoadTime: 300}}
	r := Build(clean, fixtureMeta())

	if len(r.Recommendations) != 1 || r.Recommendations[0].Priority != "LOW" {
		t.Fatalf("clean run should get a single LOW recommendation, got %+v", r.Recommendations)
	}
}

func TestWriteAllFormats(t *testing.T) {
	dir := t.TempDir()
	r := Build(fixtureResults(), fixtureMeta())

	if err := WriteAll(r, dir); err != nil {
		t.Fatalf("WriteAll: %v", err)
	}

	for _, name := range []string{"report.json", "report.html", "report.csv", "report.md"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}
}

func TestWriteJSONRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	r := Build(fixtureResults(), fixtureMeta())

	if err := WriteJSON(r, path); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	var decoded Report
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.Summary.TotalIssues != r.Summary.TotalIssues {
		t.Errorf("round trip changed TotalIssues: %d vs %d",
			decoded.Summary.TotalIssues, r.Summary.TotalIssues)
	}
	if len(decoded.Results) != len(r.Results) {
		t.Errorf("round trip lost results")
	}
}

func TestWriteCSVRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.csv")
	r := Build(fixtureResults(), fixtureMeta())

	if err := WriteCSV(r, path); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("parse CSV: %v", err)
	}

	// Header + 3 issues + 1 error row.
	if len(rows) != 5 {
		t.Fatalf("expected 5 rows, got %d: %v", len(rows), rows)
	}
	if rows[0][2] != "Issue Type" {
		t.Errorf("unexpected header: %v", rows[0])
	}

	types := make(map[string]int)
	for _, row := range rows[1:] {
		types[row[2]]++
	}
	for _, want := range []string{"contrast", "touchTarget", "padding", "error"} {
		if types[want] != 1 {
			t.Errorf("expected one %q row, got %d", want, types[want])
		}
	}
}

func TestWriteMarkdownContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.md")
	r := Build(fixtureResults(), fixtureMeta())

	if err := WriteMarkdown(r, path); err != nil {
		t.Fatalf("WriteMarkdown: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	md := string(data)
	for _, want := range []string{"# UI Inspection Report", "http://localhost:3000", "| critical | 1 |", "CRITICAL"} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q", want)
		}
	}
}

func TestWriteHTMLRenders(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.html")
	r := Build(fixtureResults(), fixtureMeta())

	if err := WriteHTML(r, path); err != nil {
		t.Fatalf("WriteHTML: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	html := string(data)
	if !strings.Contains(html, "UI Inspection Report") {
		t.Error("missing title")
	}
	if !strings.Contains(html, "mobile-375") {
		t.Error("missing viewport column")
	}
}
