package report

import (
	"fmt"
	"os"
	"sort"
	"strings"
)

// WriteMarkdown renders the summary in a form that pastes cleanly into a
// pull request or issue.
func WriteMarkdown(r *Report, path string) error {
	var b strings.Builder

	fmt.Fprintf(&b, "# UI Inspection Report\n\n")
	fmt.Fprintf(&b, "**Target:** %s  \n", r.Metadata.BaseURL)
	fmt.Fprintf(&b, "**Generated:** %s  \n", r.Metadata.GeneratedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(&b, "**Duration:** %s  \n", r.Metadata.Duration)
	fmt.Fprintf(&b, "**Matrix:** %d routes × %d viewports = %d cells\n\n",
		len(r.Metadata.Routes), len(r.Metadata.Viewports), r.Summary.TotalCells)

	fmt.Fprintf(&b, "## Summary\n\n")
	fmt.Fprintf(&b, "| Severity | Count |\n|---|---|\n")
	for _, sev := range severityOrder {
		fmt.Fprintf(&b, "| %s | %d |\n", sev, r.Summary.BySeverity[sev])
	}
	fmt.Fprintf(&b, "\n| Category | Count |\n|---|---|\n")
	for _, cat := range sortedKeys(r.Summary.ByCategory) {
		fmt.Fprintf(&b, "| %s | %d |\n", cat, r.Summary.ByCategory[cat])
	}
	fmt.Fprintf(&b, "\nAverage load time: %.0fms, average render time: %.0fms.\n",
		r.Summary.AverageLoadTime, r.Summary.AverageRenderTime)
	if r.Summary.CellsWithErrors > 0 {
		fmt.Fprintf(&b, "\n%d cells could not be fully inspected.\n", r.Summary.CellsWithErrors)
	}

	fmt.Fprintf(&b, "\n## Recommendations\n\n")
	for _, rec := range r.Recommendations {
		fmt.Fprintf(&b, "- **%s** %s\n", rec.Priority, rec.Message)
	}

	fmt.Fprintf(&b, "\n## Results\n\n")
	fmt.Fprintf(&b, "| Route | Viewport | Issues | Load (ms) | Errors |\n|---|---|---|---|---|\n")
	for i := range r.Results {
		res := &r.Results[i]
		fmt.Fprintf(&b, "| %s | %s | %d | %.0f | %s |\n",
			res.Route, res.Viewport, res.IssueCount(), res.LoadTime,
			strings.Join(res.Errors, "; "))
	}

	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("failed to write markdown report: %w", err)
	}
	return nil
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
