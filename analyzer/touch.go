package analyzer

import (
	"fmt"

	"github.com/ui-inspector/backend/inspector"
	"github.com/ui-inspector/backend/severity"
)

// CheckTouchTargets flags visible interactive elements smaller than the
// mobile accessibility minimum. Only meaningful on mobile-sized viewports;
// the caller gates on viewport width.
func CheckTouchTargets(snap *inspector.Snapshot, th severity.Thresholds) []TouchTargetIssue {
	var issues []TouchTargetIssue
	for i := range snap.Elements {
		el := &snap.Elements[i]
		if !el.Visible || !el.Interactive || el.Box.Empty() {
			continue
		}
		sev := th.ForTouchTarget(el.Box.Width, el.Box.Height)
		if sev == severity.None {
			continue
		}
		issues = append(issues, TouchTargetIssue{
			Selector: el.Selector(),
			Viewport: snap.Viewport.Name,
			Size:     fmt.Sprintf("%.0fx%.0f", el.Box.Width, el.Box.Height),
			Minimum:  fmt.Sprintf("%.0fx%.0f", th.TouchTarget, th.TouchTarget),
			Severity: sev,
		})
	}
	return issues
}
