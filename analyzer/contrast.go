package analyzer

import (
	"math"

	"github.com/ui-inspector/backend/inspector"
	"github.com/ui-inspector/backend/severity"
	"github.com/ui-inspector/backend/wcag"
)

// criticalContrastSelectors name the interactive and structural elements that
// get the non-text contrast check on top of the AA text check.
var criticalContrastSelectors = []string{
	"button", "a", "input", "select", "textarea",
	`[role="button"]`, `[role="link"]`,
	"nav", "header", "footer",
}

// formFieldSelectors are the controls whose borders must stay perceivable.
var formFieldSelectors = []string{"input", "select", "textarea"}

// ValidateContrast checks every text leaf against WCAG AA, interactive and
// structural elements against the 3:1 non-text floor, and form field borders
// against the same floor.
func ValidateContrast(snap *inspector.Snapshot, th severity.Thresholds) []ContrastIssue {
	issues := validateTextContrast(snap, th)
	issues = append(issues, validateInteractiveContrast(snap, th)...)
	issues = append(issues, validateBorderContrast(snap, th)...)
	return issues
}

func validateTextContrast(snap *inspector.Snapshot, th severity.Thresholds) []ContrastIssue {
	var issues []ContrastIssue
	for i := range snap.Elements {
		el := &snap.Elements[i]
		if !el.Visible || el.Text == "" || el.ChildCount > 0 {
			continue
		}

		fg, ok := wcag.ParseColor(el.Style("color"))
		if !ok {
			continue
		}
		bg := effectiveBackground(snap, i)

		ratio := wcag.ContrastRatio(fg, bg)
		fontSize := el.StyleFloat("font-size")
		fontWeight := el.Style("font-weight")
		large := wcag.IsLargeText(fontSize, wcag.ParseFontWeight(fontWeight))
		required := wcag.RequiredRatio(large)
		if ratio >= required {
			continue
		}

		criteria := "1.4.3 (Normal Text)"
		if large {
			criteria = "1.4.3 (Large Text)"
		}
		issues = append(issues, ContrastIssue{
			Selector:       el.Selector(),
			Viewport:       snap.Viewport.Name,
			Foreground:     el.Style("color"),
			Background:     bg.CSS(),
			Ratio:          round2(ratio),
			RequiredRatio:  required,
			Level:          "AA",
			FontSize:       fontSize,
			FontWeight:     fontWeight,
			IsLargeText:    large,
			Severity:       th.ForContrast(ratio),
			WCAGCriteria:   criteria,
			Recommendation: wcag.Recommendation(fg, bg, required),
		})
	}
	return issues
}

func validateInteractiveContrast(snap *inspector.Snapshot, th severity.Thresholds) []ContrastIssue {
	var issues []ContrastIssue
	for i := range snap.Elements {
		el := &snap.Elements[i]
		if !el.Visible || !matchAny(el, criticalContrastSelectors) {
			continue
		}

		fg, ok := wcag.ParseColor(el.Style("color"))
		if !ok {
			continue
		}
		bg := effectiveBackground(snap, i)

		ratio := wcag.ContrastRatio(fg, bg)
		if ratio >= wcag.RatioInteractive {
			continue
		}

		issues = append(issues, ContrastIssue{
			Selector:       el.Selector(),
			Viewport:       snap.Viewport.Name,
			Foreground:     el.Style("color"),
			Background:     bg.CSS(),
			Ratio:          round2(ratio),
			RequiredRatio:  wcag.RatioInteractive,
			Level:          "AA",
			FontSize:       el.StyleFloat("font-size"),
			FontWeight:     el.Style("font-weight"),
			Severity:       severity.Critical,
			WCAGCriteria:   "1.4.11 (Non-text Contrast)",
			Recommendation: wcag.Recommendation(fg, bg, wcag.RatioInteractive),
		})
	}
	return issues
}

// validateBorderContrast checks that form field borders remain perceivable
// against the field's own background.
func validateBorderContrast(snap *inspector.Snapshot, th severity.Thresholds) []ContrastIssue {
	var issues []ContrastIssue
	for i := range snap.Elements {
		el := &snap.Elements[i]
		if !el.Visible || !matchAny(el, formFieldSelectors) {
			continue
		}

		border, ok := wcag.ParseColor(el.Style("border-color"))
		if !ok {
			continue
		}
		bg := effectiveBackground(snap, i)

		ratio := wcag.ContrastRatio(border, bg)
		if ratio >= wcag.RatioInteractive {
			continue
		}

		issues = append(issues, ContrastIssue{
			Selector:       el.Selector() + " (border)",
			Viewport:       snap.Viewport.Name,
			Foreground:     el.Style("border-color"),
			Background:     bg.CSS(),
			Ratio:          round2(ratio),
			RequiredRatio:  wcag.RatioInteractive,
			Level:          "AA",
			Severity:       severity.Major,
			WCAGCriteria:   "1.4.11 (Non-text Contrast)",
			Recommendation: wcag.Recommendation(border, bg, wcag.RatioInteractive),
		})
	}
	return issues
}

// effectiveBackground walks the parent chain until it finds an opaque
// background colour, defaulting to white when every ancestor is transparent.
func effectiveBackground(snap *inspector.Snapshot, idx int) wcag.RGB {
	for i := idx; i >= 0; i = snap.Elements[i].Parent {
		if bg, ok := wcag.ParseColor(snap.Elements[i].Style("background-color")); ok {
			return bg
		}
	}
	return wcag.RGB{R: 255, G: 255, B: 255}
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
