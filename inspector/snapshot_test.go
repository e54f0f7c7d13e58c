package inspector

import (
	"context"
	"errors"
	"testing"

	"github.com/ui-inspector/backend/geometry"
)

func TestIsAncestor(t *testing.T) {
	// 0 ─ 1 ─ 2, 3 is a sibling of 1.
	snap := &Snapshot{Elements: []Element{
		{Index: 0, Parent: -1},
		{Index: 1, Parent: 0},
		{Index: 2, Parent: 1},
		{Index: 3, Parent: 0},
	}}

	tests := []struct {
		i, j int
		want bool
	}{
		{0, 1, true},
		{0, 2, true},
		{2, 0, true}, // symmetric
		{1, 3, false},
		{2, 3, false},
	}
	for _, tc := range tests {
		if got := snap.IsAncestor(tc.i, tc.j); got != tc.want {
			t.Errorf("IsAncestor(%d, %d) = %v, want %v", tc.i, tc.j, got, tc.want)
		}
	}
}

func TestHorizontalScroll(t *testing.T) {
	if (&Snapshot{ScrollWidth: 375, ClientWidth: 375}).HorizontalScroll() {
		t.Error("equal widths are not overflow")
	}
	if !(&Snapshot{ScrollWidth: 425, ClientWidth: 375}).HorizontalScroll() {
		t.Error("wider scroll width is overflow")
	}
}

func TestElementStyleHelpers(t *testing.T) {
	el := Element{Styles: map[string]string{
		"padding-top": "12.5px",
		"font-size":   "16px",
		"z-index":     "auto",
	}}

	if v := el.StyleFloat("padding-top"); v != 12.5 {
		t.Errorf("StyleFloat = %v, want 12.5", v)
	}
	if v := el.StyleFloat("missing"); v != 0 {
		t.Errorf("missing style should be 0, got %v", v)
	}
	if z := el.ZIndex(); z != 0 {
		t.Errorf("auto z-index should be 0, got %d", z)
	}

	el.Styles["z-index"] = "50"
	if z := el.ZIndex(); z != 50 {
		t.Errorf("z-index = %d, want 50", z)
	}
}

func TestElementSelector(t *testing.T) {
	tests := []struct {
		el   Element
		want string
	}{
		{Element{Tag: "div", ID: "hero", Classes: []string{"card"}}, "#hero"},
		{Element{Tag: "div", Classes: []string{"card", "raised"}}, ".card"},
		{Element{Tag: "button"}, "button"},
	}
	for _, tc := range tests {
		if got := tc.el.Selector(); got != tc.want {
			t.Errorf("Selector() = %q, want %q", got, tc.want)
		}
	}
}

func TestElementPadding(t *testing.T) {
	el := Element{Styles: map[string]string{
		"padding-top":    "8px",
		"padding-right":  "16px",
		"padding-bottom": "8px",
		"padding-left":   "16px",
	}}
	want := geometry.Padding{Top: 8, Right: 16, Bottom: 8, Left: 16}
	if got := el.Padding(); got != want {
		t.Errorf("Padding() = %+v, want %+v", got, want)
	}
}

func TestFakeViewportPrecedence(t *testing.T) {
	f := NewFake()
	wide := &Snapshot{ScrollWidth: 1440, ClientWidth: 1440}
	narrow := &Snapshot{ScrollWidth: 425, ClientWidth: 375}
	f.Pages["http://site/"] = wide
	f.PagesByViewport["http://site/|mobile-375"] = narrow

	ctx := context.Background()

	f.SetViewport(Viewport{Name: "mobile-375", Width: 375, Height: 812})
	if err := f.Navigate(ctx, "http://site/"); err != nil {
		t.Fatalf("Navigate: %v", err)
	}
	snap, err := f.Capture(ctx)
	if err != nil {
		t.Fatalf("Capture: %v", err)
	}
	if !snap.HorizontalScroll() {
		t.Error("viewport-specific snapshot should take precedence")
	}
	if snap.Viewport.Name != "mobile-375" {
		t.Errorf("capture should stamp the active viewport, got %q", snap.Viewport.Name)
	}

	f.SetViewport(Viewport{Name: "desktop-1440", Width: 1440, Height: 900})
	snap, err = f.Capture(ctx)
	if err != nil {
		t.Fatalf("Capture: %v", err)
	}
	if snap.HorizontalScroll() {
		t.Error("other viewports should fall back to the generic page")
	}
}

func TestFakeNavError(t *testing.T) {
	f := NewFake()
	f.NavErrors["http://site/broken"] = errors.New("connection refused")

	if err := f.Navigate(context.Background(), "http://site/broken"); err == nil {
		t.Fatal("expected scripted navigation error")
	}
}
