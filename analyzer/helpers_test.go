package analyzer

import (
	"github.com/ui-inspector/backend/geometry"
	"github.com/ui-inspector/backend/inspector"
)

// el builds a visible test element; tests mutate the returned value for
// anything beyond the common fields.
func el(index, parent int, tag string, classes []string, box geometry.Rect, styles map[string]string) inspector.Element {
	if styles == nil {
		styles = map[string]string{}
	}
	return inspector.Element{
		Index:   index,
		Parent:  parent,
		Tag:     tag,
		Classes: classes,
		Box:     box,
		Styles:  styles,
		Visible: true,
	}
}

func testSnapshot(elements ...inspector.Element) *inspector.Snapshot {
	return &inspector.Snapshot{
		Viewport: inspector.Viewport{Name: "desktop-1440", Width: 1440, Height: 900},
		Elements: elements,
	}
}
