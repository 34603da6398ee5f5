// Package layout implements the box-model, block, inline, flex, grid, and
// absolute-positioning algorithms (spec §4.5-4.10): the stage that turns a
// styled DOM tree into a tree of positioned boxes ready for display-list
// construction.
package layout

import (
	"gocko/internal/dom"
	"gocko/internal/geometry"
	"gocko/internal/style/values"
)

// BoxKind classifies a Box for the layout driver's dispatch (spec §9
// "a tagged variant dispatched in one central driver").
type BoxKind int

const (
	KindBlock BoxKind = iota
	KindInline
	KindInlineBlock
	KindFlex
	KindGrid
	KindText
	KindAnonymousBlock
	KindLineBox
)

// Box is one node (or anonymous wrapper) in the layout tree (spec §3
// LayoutResult, generalized into a tree rather than a flat per-node map so
// recursive algorithms have a natural home; the incremental engine reads
// back individual LayoutResult values from this tree per NodeID).
type Box struct {
	Node  dom.NodeID // RootID-valued for anonymous boxes with no backing DOM node
	Kind  BoxKind
	Style *values.ComputedStyle

	Margin  geometry.Edges
	Border  geometry.Edges
	Padding geometry.Edges

	// ContentRect is the content-box rectangle in the coordinate space of
	// the layout root (absolute, not parent-relative) after layout runs.
	ContentRect geometry.Rect

	// Text is the literal run for a KindText box, already whitespace
	// collapsed by the white-space:normal rule whatever the white-space
	// value (see collapseWhitespace).
	Text string

	// Baseline is the distance from ContentRect.Y to the text baseline,
	// used by inline and flex baseline alignment.
	Baseline geometry.Subpixel

	Children []*Box

	// IsAnonymous marks a box synthesized during tree normalization (spec
	// §4.5) that has no DOM node of its own.
	IsAnonymous bool
}

// MarginBoxRect returns the box's outer (margin-box) rectangle.
func (b *Box) MarginBoxRect() geometry.Rect {
	r := b.BorderBoxRect()
	return geometry.Rect{
		X:      r.X - b.Margin.Left,
		Y:      r.Y - b.Margin.Top,
		Width:  r.Width + b.Margin.Horizontal(),
		Height: r.Height + b.Margin.Vertical(),
	}
}

// BorderBoxRect returns the box's border-box rectangle.
func (b *Box) BorderBoxRect() geometry.Rect {
	r := b.PaddingBoxRect()
	return geometry.Rect{
		X:      r.X - b.Border.Left,
		Y:      r.Y - b.Border.Top,
		Width:  r.Width + b.Border.Horizontal(),
		Height: r.Height + b.Border.Vertical(),
	}
}

// PaddingBoxRect returns the box's padding-box rectangle.
func (b *Box) PaddingBoxRect() geometry.Rect {
	return geometry.Rect{
		X:      b.ContentRect.X - b.Padding.Left,
		Y:      b.ContentRect.Y - b.Padding.Top,
		Width:  b.ContentRect.Width + b.Padding.Horizontal(),
		Height: b.ContentRect.Height + b.Padding.Vertical(),
	}
}

// Flatten collects every non-anonymous box's border-box rectangle by
// NodeID, the "Layout query output" of spec §6 ("{ NodeId -> LayoutRect }").
func Flatten(root *Box) map[dom.NodeID]geometry.PixelRect {
	out := make(map[dom.NodeID]geometry.PixelRect)
	var walk func(b *Box)
	walk = func(b *Box) {
		if !b.IsAnonymous && b.Kind != KindLineBox {
			out[b.Node] = b.BorderBoxRect().Round()
		}
		for _, c := range b.Children {
			walk(c)
		}
	}
	walk(root)
	return out
}

// resolveBoxEdges resolves a box's margin/border/padding against ctx.
func resolveBoxEdges(style *values.ComputedStyle, ctx values.ResolveContext) (margin, border, padding geometry.Edges) {
	margin = geometry.Edges{
		Top:    style.MarginTop.SubpixelHeight(ctx),
		Right:  style.MarginRight.Subpixel(ctx),
		Bottom: style.MarginBottom.SubpixelHeight(ctx),
		Left:   style.MarginLeft.Subpixel(ctx),
	}
	border = geometry.Edges{
		Top:    style.BorderTopWidth.SubpixelHeight(ctx),
		Right:  style.BorderRightWidth.Subpixel(ctx),
		Bottom: style.BorderBottomWidth.SubpixelHeight(ctx),
		Left:   style.BorderLeftWidth.Subpixel(ctx),
	}
	padding = geometry.Edges{
		Top:    style.PaddingTop.SubpixelHeight(ctx),
		Right:  style.PaddingRight.Subpixel(ctx),
		Bottom: style.PaddingBottom.SubpixelHeight(ctx),
		Left:   style.PaddingLeft.Subpixel(ctx),
	}
	return
}

// resolveContextFor builds a values.ResolveContext for style given the
// containing block size and viewport (spec §3 ConstraintSpace inputs).
func resolveContextFor(style *values.ComputedStyle, containingWidth, containingHeight, viewportW, viewportH geometry.Subpixel) values.ResolveContext {
	return values.ResolveContext{
		FontSize:       style.FontSize,
		RootFontSize:   16,
		ParentWidth:    containingWidth.ToPixels(),
		ParentHeight:   containingHeight.ToPixels(),
		ViewportWidth:  viewportW.ToPixels(),
		ViewportHeight: viewportH.ToPixels(),
		CharWidth:      style.FontSize * 0.55,
		XHeight:        style.FontSize * 0.5,
	}
}
