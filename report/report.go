// Package report aggregates inspection results into a summary with
// prioritized recommendations and renders it as JSON, HTML, CSV and
// Markdown.
package report

import (
	"fmt"
	"time"

	"github.com/ui-inspector/backend/runner"
	"github.com/ui-inspector/backend/severity"
)

// Metadata describes the run that produced a report.
type Metadata struct {
	GeneratedAt time.Time `json:"generatedAt"`
	BaseURL     string    `json:"baseUrl"`
	Routes      []string  `json:"routes"`
	Viewports   []string  `json:"viewports"`
	Duration    string    `json:"duration"`
}

// Summary is the aggregate view across every matrix cell.
type Summary struct {
	TotalCells  int `json:"totalCells"`
	TotalIssues int `json:"totalIssues"`

	BySeverity map[string]int `json:"bySeverity"`
	ByCategory map[string]int `json:"byCategory"`

	CellsWithErrors       int     `json:"cellsWithErrors"`
	HorizontalScrollCells int     `json:"horizontalScrollCells"`
	AverageLoadTime       float64 `json:"averageLoadTime"`
	AverageRenderTime     float64 `json:"averageRenderTime"`
}

// Recommendation is an ordered action item derived from the summary.
type Recommendation struct {
	Priority string `json:"priority"` // CRITICAL | HIGH | MEDIUM | LOW
	Message  string `json:"message"`
}

// Report is the complete output of one inspection run.
type Report struct {
	Metadata        Metadata         `json:"metadata"`
	Summary         Summary          `json:"summary"`
	Results         []runner.Result  `json:"results"`
	Recommendations []Recommendation `json:"recommendations"`
}

// slowLoadThresholdMs marks the average page load above which performance
// gets a recommendation.
const slowLoadThresholdMs = 2000

// Build aggregates results into a Report.
func Build(results []runner.Result, meta Metadata) *Report {
	sum := Summary{
		TotalCells: len(results),
		BySeverity: make(map[string]int),
		ByCategory: make(map[string]int),
	}

	var loadTotal, renderTotal float64
	var timed int
	for i := range results {
		res := &results[i]

		for _, iss := range res.PaddingIssues {
			sum.ByCategory["padding"]++
			sum.BySeverity[string(iss.Severity)]++
		}
		for _, iss := range res.AlignmentIssues {
			sum.ByCategory["alignment"]++
			sum.BySeverity[string(iss.Severity)]++
		}
		for _, iss := range res.OverlapIssues {
			sum.ByCategory["overlap"]++
			sum.BySeverity[string(iss.Severity)]++
		}
		for _, iss := range res.ContrastIssues {
			sum.ByCategory["contrast"]++
			sum.BySeverity[string(iss.Severity)]++
		}
		for _, iss := range res.TouchTargetIssues {
			sum.ByCategory["touchTarget"]++
			sum.BySeverity[string(iss.Severity)]++
		}

		sum.TotalIssues += res.IssueCount()
		if len(res.Errors) > 0 {
			sum.CellsWithErrors++
		}
		if res.HorizontalScroll {
			sum.HorizontalScrollCells++
		}
		if res.LoadTime > 0 {
			loadTotal += res.LoadTime
			renderTotal += res.RenderTime
			timed++
		}
	}
	if timed > 0 {
		sum.AverageLoadTime = loadTotal / float64(timed)
		sum.AverageRenderTime = renderTotal / float64(timed)
	}

	return &Report{
		Metadata:        meta,
		Summary:         sum,
		Results:         results,
		Recommendations: recommend(sum),
	}
}

func recommend(sum Summary) []Recommendation {
	var recs []Recommendation

	if n := sum.BySeverity[string(severity.Critical)]; n > 0 {
		recs = append(recs, Recommendation{
			Priority: "CRITICAL",
			Message:  fmt.Sprintf("Fix %d critical issues before release", n),
		})
	}
	if n := sum.ByCategory["contrast"]; n > 0 {
		recs = append(recs, Recommendation{
			Priority: "HIGH",
			Message:  fmt.Sprintf("Resolve %d color contrast failures to meet WCAG AA", n),
		})
	}
	if n := sum.ByCategory["overlap"]; n > 0 {
		recs = append(recs, Recommendation{
			Priority: "HIGH",
			Message:  fmt.Sprintf("Review %d element overlaps that may block content or interaction", n),
		})
	}
	if sum.HorizontalScrollCells > 0 {
		recs = append(recs, Recommendation{
			Priority: "HIGH",
			Message:  fmt.Sprintf("Eliminate horizontal scrolling on %d page renders", sum.HorizontalScrollCells),
		})
	}
	if sum.AverageLoadTime > slowLoadThresholdMs {
		recs = append(recs, Recommendation{
			Priority: "MEDIUM",
			Message:  fmt.Sprintf("Average page load of %.0fms exceeds the 2s target", sum.AverageLoadTime),
		})
	}
	if len(recs) == 0 {
		recs = append(recs, Recommendation{
			Priority: "LOW",
			Message:  "No major issues found; review minor findings at leisure",
		})
	}
	return recs
}
