package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// WriteAll renders the report in every format into dir. Each format is
// attempted independently; the returned error aggregates any failures so a
// broken HTML template never loses the JSON output.
func WriteAll(r *Report, dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}

	var errs []error
	write := func(name string, fn func(*Report, string) error) {
		path := filepath.Join(dir, name)
		if err := fn(r, path); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}

	write("report.json", WriteJSON)
	write("report.html", WriteHTML)
	write("report.csv", WriteCSV)
	write("report.md", WriteMarkdown)

	if len(errs) > 0 {
		combined := errs[0]
		for _, e := range errs[1:] {
			combined = fmt.Errorf("%v; %w", combined, e)
		}
		return combined
	}
	return nil
}

// WriteJSON writes the full report. The write goes through a temporary file
// and a rename so a crash never leaves a truncated report behind.
func WriteJSON(r *Report, path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	tempFile := path + ".tmp"
	if err := os.WriteFile(tempFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write temporary file: %w", err)
	}
	if err := os.Rename(tempFile, path); err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}
	return nil
}

// WriteCSV emits one row per issue across every cell, a shape spreadsheet
// users can pivot on.
func WriteCSV(r *Report, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"Route", "Viewport", "Issue Type", "Severity", "Description", "Selector", "Timestamp"}); err != nil {
		return err
	}

	for i := range r.Results {
		res := &r.Results[i]
		ts := res.Timestamp.Format(time.RFC3339)

		for _, iss := range res.PaddingIssues {
			desc := fmt.Sprintf("Padding deviates %.1f%% from baseline", iss.Deviation)
			if iss.ExpectedPadding == nil {
				desc = fmt.Sprintf("Asymmetric padding (%.0fpx difference)", iss.Deviation)
			}
			w.Write([]string{res.Route, res.Viewport, "padding", string(iss.Severity), desc, iss.Selector, ts})
		}
		for _, iss := range res.AlignmentIssues {
			desc := fmt.Sprintf("%s misalignment of %.1fpx", iss.Type, iss.Deviation)
			w.Write([]string{res.Route, res.Viewport, "alignment", string(iss.Severity), desc, iss.Selector, ts})
		}
		for _, iss := range res.OverlapIssues {
			w.Write([]string{res.Route, res.Viewport, "overlap", string(iss.Severity), iss.Description, iss.Selector1 + " / " + iss.Selector2, ts})
		}
		for _, iss := range res.ContrastIssues {
			desc := fmt.Sprintf("Contrast %.2f:1, requires %.1f:1 (%s)", iss.Ratio, iss.RequiredRatio, iss.WCAGCriteria)
			w.Write([]string{res.Route, res.Viewport, "contrast", string(iss.Severity), desc, iss.Selector, ts})
		}
		for _, iss := range res.TouchTargetIssues {
			desc := fmt.Sprintf("Touch target %s below minimum %s", iss.Size, iss.Minimum)
			w.Write([]string{res.Route, res.Viewport, "touchTarget", string(iss.Severity), desc, iss.Selector, ts})
		}
		for _, e := range res.Errors {
			w.Write([]string{res.Route, res.Viewport, "error", "", e, "", ts})
		}
	}

	w.Flush()
	return w.Error()
}

// severityOrder ranks severities for display, worst first.
var severityOrder = []string{"critical", "major", "minor"}
