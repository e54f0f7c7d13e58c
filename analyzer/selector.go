package analyzer

import (
	"strings"

	"github.com/ui-inspector/backend/inspector"
)

// matchSelector tests an element against the small selector grammar the
// inspection config uses: tag names, `.class`, `#id`, `[class*="token"]`,
// `[role="x"]`, `[onclick]`, and a tag prefix on any attribute form
// (e.g. `a[role="button"]`).
func matchSelector(el *inspector.Element, sel string) bool {
	sel = strings.TrimSpace(sel)
	if sel == "" {
		return false
	}

	if i := strings.Index(sel, "["); i >= 0 {
		tag := sel[:i]
		if tag != "" && el.Tag != tag {
			return false
		}
		return matchAttribute(el, sel[i:])
	}

	switch sel[0] {
	case '.':
		for _, c := range el.Classes {
			if c == sel[1:] {
				return true
			}
		}
		return false
	case '#':
		return el.ID == sel[1:]
	}

	return el.Tag == sel
}

func matchAttribute(el *inspector.Element, attr string) bool {
	attr = strings.TrimSuffix(strings.TrimPrefix(attr, "["), "]")

	switch {
	case strings.HasPrefix(attr, "class*="):
		return el.HasClassToken(unquote(strings.TrimPrefix(attr, "class*=")))
	case strings.HasPrefix(attr, "role="):
		return el.Role == unquote(strings.TrimPrefix(attr, "role="))
	case attr == "onclick":
		return el.Interactive
	}
	return false
}

func unquote(v string) string {
	return strings.Trim(v, `"'`)
}

// matchAny reports whether the element matches any selector in the list.
func matchAny(el *inspector.Element, selectors []string) bool {
	for _, sel := range selectors {
		if matchSelector(el, sel) {
			return true
		}
	}
	return false
}
