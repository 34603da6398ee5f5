package layout

import (
	"gocko/internal/geometry"
	"gocko/internal/style/values"
)

// ResolveAbsolutePositioning is the final layout pass (spec §4.10): every
// absolutely or fixed positioned box, already embedded in its flow parent's
// Children with a recorded static position but not yet sized or placed, is
// laid out against its containing block and moved to its final rect.
func ResolveAbsolutePositioning(root *Box, viewportW, viewportH geometry.Subpixel) {
	var walk func(b *Box, containingBlock *Box)
	walk = func(b *Box, containingBlock *Box) {
		next := containingBlock
		if b.Style != nil && b.Style.IsPositioned() && !isOutOfFlow(b.Style) {
			next = b
		}
		if b.Style != nil && isOutOfFlow(b.Style) {
			resolveAbsoluteBox(b, containingBlock, root, viewportW, viewportH)
			next = b
		}
		for _, c := range b.Children {
			walk(c, next)
		}
	}
	walk(root, nil)
}

func resolveAbsoluteBox(b *Box, containing, root *Box, viewportW, viewportH geometry.Subpixel) {
	fixed := b.Style.Position == "fixed"
	var containingRect geometry.Rect
	switch {
	case fixed || containing == nil:
		containingRect = geometry.Rect{X: 0, Y: 0, Width: viewportW, Height: viewportH}
	default:
		containingRect = containing.PaddingBoxRect()
	}

	ctx := resolveContextFor(b.Style, containingRect.Width, containingRect.Height, viewportW, viewportH)

	left, haveLeft := resolvedOrAuto(b.Style.Left, ctx)
	right, haveRight := resolvedOrAuto(b.Style.Right, ctx)
	top, haveTop := resolvedOrAuto(b.Style.Top, ctx)
	bottom, haveBottom := resolvedOrAuto(b.Style.Bottom, ctx)

	staticX, staticY := b.ContentRect.X, b.ContentRect.Y

	width := containingRect.Width
	if !b.Style.Width.IsAuto() {
		width = b.Style.Width.Subpixel(ctx)
	}

	layoutAt := func(w geometry.Subpixel) {
		switch b.Kind {
		case KindFlex:
			LayoutFlex(b, 0, 0, w, viewportW, viewportH)
		case KindGrid:
			LayoutGrid(b, 0, 0, w, viewportW, viewportH)
		default:
			LayoutBlock(b, 0, 0, w, viewportW, viewportH)
		}
	}

	layoutAt(width)

	// CSS 2.1 §10.3.7/§10.6.4 "sized to fit": when both opposite insets are
	// set and the size on that axis is auto, the used size is whatever
	// makes the margin box exactly span the containing block between the
	// two insets, not whatever the first pass produced from the containing
	// block's full size.
	if b.Style.Width.IsAuto() && haveLeft && haveRight {
		edges := b.MarginBoxRect().Width - b.ContentRect.Width
		fit := (containingRect.Width - left - right - edges).Clamp(0, containingRect.Width)
		layoutAt(fit)
	}
	if b.Style.Height.IsAuto() && haveTop && haveBottom {
		edgesV := b.MarginBoxRect().Height - b.ContentRect.Height
		fit := (containingRect.Height - top - bottom - edgesV).Clamp(0, containingRect.Height)
		b.ContentRect.Height = fit
	}

	marginBox := b.MarginBoxRect()

	var finalX, finalY geometry.Subpixel
	switch {
	case haveLeft:
		finalX = containingRect.X + left
	case haveRight:
		finalX = containingRect.Right() - right - marginBox.Width
	default:
		finalX = staticX
	}
	switch {
	case haveTop:
		finalY = containingRect.Y + top
	case haveBottom:
		finalY = containingRect.Bottom() - bottom - marginBox.Height
	default:
		finalY = staticY
	}

	shiftBox(b, finalX-marginBox.X, finalY-marginBox.Y)
}

func resolvedOrAuto(l values.Length, ctx values.ResolveContext) (geometry.Subpixel, bool) {
	if l.IsAuto() {
		return 0, false
	}
	return l.Subpixel(ctx), true
}
