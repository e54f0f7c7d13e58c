package report

import (
	"fmt"
	"html/template"
	"os"
)

const htmlTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>UI Inspection Report</title>
<style>
body { font-family: -apple-system, Segoe UI, sans-serif; margin: 2rem; color: #1a1a2e; }
h1 { border-bottom: 2px solid #16213e; padding-bottom: .5rem; }
.cards { display: flex; gap: 1rem; flex-wrap: wrap; margin: 1.5rem 0; }
.card { border: 1px solid #ddd; border-radius: 8px; padding: 1rem 1.5rem; min-width: 10rem; }
.card .num { font-size: 2rem; font-weight: 700; }
.critical { color: #c0392b; }
.major { color: #d35400; }
.minor { color: #7f8c8d; }
table { border-collapse: collapse; width: 100%; margin-top: 1rem; }
th, td { text-align: left; padding: .4rem .6rem; border-bottom: 1px solid #eee; font-size: .9rem; }
th { background: #f4f4f8; }
.rec { padding: .6rem 1rem; border-left: 4px solid #ccc; margin: .5rem 0; background: #fafafa; }
.rec.CRITICAL { border-color: #c0392b; }
.rec.HIGH { border-color: #d35400; }
.rec.MEDIUM { border-color: #f1c40f; }
.err { color: #c0392b; }
</style>
</head>
<body>
<h1>UI Inspection Report</h1>
<p>{{.Metadata.BaseURL}} &mdash; generated {{.Metadata.GeneratedAt.Format "2006-01-02 15:04:05 MST"}} in {{.Metadata.Duration}}</p>

<div class="cards">
  <div class="card"><div class="num">{{.Summary.TotalIssues}}</div>total issues</div>
  <div class="card"><div class="num critical">{{index .Summary.BySeverity "critical"}}</div>critical</div>
  <div class="card"><div class="num major">{{index .Summary.BySeverity "major"}}</div>major</div>
  <div class="card"><div class="num minor">{{index .Summary.BySeverity "minor"}}</div>minor</div>
  <div class="card"><div class="num">{{.Summary.TotalCells}}</div>cells inspected</div>
  <div class="card"><div class="num">{{printf "%.0f" .Summary.AverageLoadTime}}ms</div>avg load</div>
</div>

<h2>Recommendations</h2>
{{range .Recommendations}}<div class="rec {{.Priority}}"><strong>{{.Priority}}</strong> {{.Message}}</div>
{{end}}

<h2>Issues by category</h2>
<table>
<tr><th>Category</th><th>Count</th></tr>
{{range $cat, $n := .Summary.ByCategory}}<tr><td>{{$cat}}</td><td>{{$n}}</td></tr>
{{end}}
</table>

<h2>Results</h2>
<table>
<tr><th>Route</th><th>Viewport</th><th>Padding</th><th>Alignment</th><th>Overlap</th><th>Contrast</th><th>Touch</th><th>Load (ms)</th><th>Errors</th></tr>
{{range .Results}}<tr>
  <td>{{.Route}}</td>
  <td>{{.Viewport}}</td>
  <td>{{len .PaddingIssues}}</td>
  <td>{{len .AlignmentIssues}}</td>
  <td>{{len .OverlapIssues}}</td>
  <td>{{len .ContrastIssues}}</td>
  <td>{{len .TouchTargetIssues}}</td>
  <td>{{printf "%.0f" .LoadTime}}</td>
  <td class="err">{{range .Errors}}{{.}} {{end}}</td>
</tr>
{{end}}
</table>
</body>
</html>
`

var htmlTmpl = template.Must(template.New("report").Parse(htmlTemplate))

// WriteHTML renders the dashboard-style HTML report.
func WriteHTML(r *Report, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create HTML report: %w", err)
	}
	defer f.Close()

	if err := htmlTmpl.Execute(f, r); err != nil {
		return fmt.Errorf("failed to render HTML report: %w", err)
	}
	return nil
}
