package analyzer

import (
	"github.com/ui-inspector/backend/geometry"
	"github.com/ui-inspector/backend/inspector"
	"github.com/ui-inspector/backend/severity"
)

// maxOverlapElements caps the pairwise scan; beyond this the O(n²) pass gets
// too expensive for a single page.
const maxOverlapElements = 2000

// ScanOverlaps finds pairs of unrelated elements whose bounding boxes
// intersect, then runs a stricter pass over text leaves where any meaningful
// overlap destroys readability.
func ScanOverlaps(snap *inspector.Snapshot, th severity.Thresholds) []OverlapIssue {
	candidates := overlapCandidates(snap)
	if len(candidates) > maxOverlapElements {
		candidates = candidates[:maxOverlapElements]
	}

	var issues []OverlapIssue
	for a := 0; a < len(candidates); a++ {
		for b := a + 1; b < len(candidates); b++ {
			i, j := candidates[a], candidates[b]
			if snap.IsAncestor(i, j) {
				continue
			}

			e1, e2 := &snap.Elements[i], &snap.Elements[j]
			inter := geometry.Intersection(e1.Box, e2.Box)
			if inter.Empty() {
				continue
			}

			zSeparated := e1.ZIndex() != e2.ZIndex()
			sev, desc, report := th.ForOverlap(
				e1.Interactive && e2.Interactive,
				e1.Interactive || e2.Interactive,
				zSeparated,
				inter.Area(),
			)
			if !report {
				continue
			}

			issues = append(issues, OverlapIssue{
				Selector1:   e1.Selector(),
				Selector2:   e2.Selector(),
				Viewport:    snap.Viewport.Name,
				OverlapArea: inter,
				Severity:    sev,
				ZIndex1:     e1.Style("z-index"),
				ZIndex2:     e2.Style("z-index"),
				Description: desc,
			})
		}
	}

	issues = append(issues, scanTextOverlaps(snap, th)...)
	return issues
}

// scanTextOverlaps checks text-bearing leaves against each other. Overlapping
// text is always critical regardless of stacking.
func scanTextOverlaps(snap *inspector.Snapshot, th severity.Thresholds) []OverlapIssue {
	var leaves []int
	for i := range snap.Elements {
		el := &snap.Elements[i]
		if el.Visible && !el.Box.Empty() && isTextLeaf(el) {
			leaves = append(leaves, i)
		}
	}

	var issues []OverlapIssue
	for a := 0; a < len(leaves); a++ {
		for b := a + 1; b < len(leaves); b++ {
			i, j := leaves[a], leaves[b]
			if snap.IsAncestor(i, j) {
				continue
			}

			e1, e2 := &snap.Elements[i], &snap.Elements[j]
			inter := geometry.Intersection(e1.Box, e2.Box)
			if inter.Width <= th.TextOverlap || inter.Height <= th.TextOverlap {
				continue
			}

			issues = append(issues, OverlapIssue{
				Selector1:   e1.Selector(),
				Selector2:   e2.Selector(),
				Viewport:    snap.Viewport.Name,
				OverlapArea: inter,
				Severity:    severity.Critical,
				ZIndex1:     e1.Style("z-index"),
				ZIndex2:     e2.Style("z-index"),
				Description: "Text content overlapping - affects readability",
			})
		}
	}
	return issues
}

func overlapCandidates(snap *inspector.Snapshot) []int {
	var out []int
	for i := range snap.Elements {
		el := &snap.Elements[i]
		if el.Visible && !el.Box.Empty() {
			out = append(out, i)
		}
	}
	return out
}

func isTextLeaf(el *inspector.Element) bool {
	if el.Text == "" || el.ChildCount > 0 {
		return false
	}
	switch el.Tag {
	case "h1", "h2", "h3", "h4", "h5", "h6", "p", "span", "a", "button", "label":
		return true
	}
	return false
}
