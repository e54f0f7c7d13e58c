package analyzer

import (
	"fmt"

	"github.com/ui-inspector/backend/geometry"
	"github.com/ui-inspector/backend/inspector"
	"github.com/ui-inspector/backend/severity"
)

// PaddingAnalyzer detects inconsistent padding among elements that should
// look alike. The first visible element matched by a selector seeds that
// selector's baseline; later matches are compared against it. Baselines are
// scoped to a single Analyze call, so the same route rendered at different
// viewports never shares a baseline.
type PaddingAnalyzer struct {
	thresholds severity.Thresholds
	baseline   map[string]geometry.Padding
}

// NewPaddingAnalyzer returns an analyzer with empty baselines.
func NewPaddingAnalyzer(th severity.Thresholds) *PaddingAnalyzer {
	return &PaddingAnalyzer{
		thresholds: th,
		baseline:   make(map[string]geometry.Padding),
	}
}

// Analyze inspects every visible element matched by the given selectors and
// reports baseline deviations and internal asymmetry.
func (a *PaddingAnalyzer) Analyze(snap *inspector.Snapshot, selectors []string) []PaddingIssue {
	a.baseline = make(map[string]geometry.Padding)

	var issues []PaddingIssue

	for _, sel := range selectors {
		nth := 0
		for i := range snap.Elements {
			el := &snap.Elements[i]
			if !matchSelector(el, sel) {
				continue
			}
			nth++
			if !el.Visible {
				continue
			}

			padding := el.Padding()

			if base, ok := a.baseline[sel]; !ok {
				a.baseline[sel] = padding
			} else {
				deviation := geometry.Deviation(padding, base)
				if sev := a.thresholds.ForPadding(deviation); sev != severity.None {
					expected := base
					issues = append(issues, PaddingIssue{
						Selector:        fmt.Sprintf("%s:nth-of-type(%d)", sel, nth),
						Element:         sel,
						Viewport:        snap.Viewport.Name,
						ComputedPadding: padding,
						ExpectedPadding: &expected,
						Deviation:       deviation,
						Severity:        sev,
					})
				}
			}

			// Asymmetry is reported independently of the baseline: a lone
			// element can still be lopsided.
			if asym := geometry.Asymmetry(padding); asym > a.thresholds.PaddingAsymmetry {
				issues = append(issues, PaddingIssue{
					Selector:        fmt.Sprintf("%s:nth-of-type(%d)", sel, nth),
					Element:         sel,
					Viewport:        snap.Viewport.Name,
					ComputedPadding: padding,
					Deviation:       asym,
					Severity:        severity.Minor,
				})
			}
		}
	}

	return issues
}
