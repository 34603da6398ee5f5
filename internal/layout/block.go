package layout

import (
	"gocko/internal/geometry"
	"gocko/internal/style/values"
)

// LayoutBlock lays out b (a block, anonymous-block, or inline-block box) and
// its subtree within a containing block of width containingWidth, placing
// b's margin box at (x, y) (spec §4.6). Absolutely/fixed positioned
// children are recorded with their static position but excluded from flow;
// the driver resolves their final rect in a later pass (spec §4.10).
func LayoutBlock(b *Box, x, y, containingWidth, viewportW, viewportH geometry.Subpixel) {
	ctx := resolveContextFor(b.Style, containingWidth, 0, viewportW, viewportH)
	margin, border, padding := resolveBoxEdges(b.Style, ctx)
	resolveAutoMargins(b.Style, ctx, containingWidth, &margin, border, padding)
	b.Margin, b.Border, b.Padding = margin, border, padding

	contentWidth := computeContentWidth(b.Style, ctx, containingWidth, margin, border, padding)

	b.ContentRect.X = x + margin.Left + border.Left + padding.Left
	b.ContentRect.Y = y + margin.Top + border.Top + padding.Top
	b.ContentRect.Width = contentWidth

	if isInlineLevelRun(b.Children) {
		lines, height := LayoutInlineRun(b.Children, b.ContentRect.X, b.ContentRect.Y, contentWidth, b.Style, viewportW, viewportH)
		b.Children = lines
		b.ContentRect.Height = resolveAutoHeight(b.Style, ctx, height)
		return
	}

	cursorY := b.ContentRect.Y
	var prevMarginBottom geometry.Subpixel
	havePrev := false
	// parentCollapsesTop reports whether b's own top margin already
	// collapsed with its first in-flow child's (spec §4.6 "a parent with
	// no top padding/border and not a BFC collapses its top margin with
	// the first in-flow child's"). That collapse was folded into the
	// value b's own caller used to position b (effectiveMarginTop), so the
	// first child here must not add its own top margin a second time.
	parentCollapsesTop := border.Top == 0 && padding.Top == 0 && !b.Style.EstablishesBFC()

	var leftFloats, rightFloats []geometry.Rect

	for _, child := range b.Children {
		if child.Style != nil && isOutOfFlow(child.Style) {
			staticY := cursorY
			child.ContentRect.X = b.ContentRect.X
			child.ContentRect.Y = staticY
			continue
		}

		if child.Style != nil && child.Style.IsFloated() {
			layoutFloat(child, b, cursorY, contentWidth, viewportW, viewportH, &leftFloats, &rightFloats)
			continue
		}

		if child.Style != nil {
			cursorY = clearFloor(cursorY, leftFloats, rightFloats, child.Style.Clear)
		}

		inLeft, inRight := floatIntrusionAt(leftFloats, rightFloats, cursorY, b.ContentRect.X, contentWidth)
		childX := b.ContentRect.X + inLeft
		childAvail := contentWidth - inLeft - inRight
		if childAvail < 0 {
			childAvail = 0
		}

		switch child.Kind {
		case KindFlex:
			LayoutFlex(child, childX, cursorY, childAvail, viewportW, viewportH)
		case KindGrid:
			LayoutGrid(child, childX, cursorY, childAvail, viewportW, viewportH)
		default:
			LayoutBlock(child, childX, cursorY, childAvail, viewportW, viewportH)
		}

		childMarginBox := child.MarginBoxRect()
		topMargin := effectiveMarginTop(child, ctx)
		switch {
		case !havePrev && parentCollapsesTop && canCollapse(child):
			shiftBox(child, 0, -child.Margin.Top)
			childMarginBox = child.MarginBoxRect()
		case havePrev && canCollapse(child):
			// child sits below its own top margin; move it so the gap is the
			// collapsed margin instead.
			collapsed := collapseMargins(prevMarginBottom, topMargin)
			shiftBox(child, 0, collapsed-prevMarginBottom-child.Margin.Top)
			childMarginBox = child.MarginBoxRect()
		}
		cursorY = childMarginBox.Bottom()
		prevMarginBottom = effectiveMarginBottom(child, ctx)
		havePrev = true
	}

	// A box only grows to contain its floats' bottoms when it establishes
	// its own BFC (spec §9.5); otherwise an all-floated-children box
	// collapses to zero height, same as a browser without a clearfix.
	if b.Style != nil && b.Style.EstablishesBFC() {
		for _, f := range leftFloats {
			cursorY = cursorY.Max(f.Bottom())
		}
		for _, f := range rightFloats {
			cursorY = cursorY.Max(f.Bottom())
		}
	}

	contentHeight := cursorY - b.ContentRect.Y
	b.ContentRect.Height = resolveAutoHeight(b.Style, ctx, contentHeight)
}

// layoutFloat lays out child against the left or right content edge at or
// below y (spec §9.5), stacking it below any already-placed float on the
// same side, and records its margin box in leftFloats/rightFloats for
// later intrusion queries. Float width falls back to the same shrink-to-
// fit-less auto behavior as in-flow blocks (known simplification, see
// DESIGN.md); same-side floats stack vertically rather than packing side
// by side when room permits.
func layoutFloat(child *Box, parent *Box, y, contentWidth geometry.Subpixel, viewportW, viewportH geometry.Subpixel, leftFloats, rightFloats *[]geometry.Rect) {
	side := child.Style.Float
	floatY := y
	if side == "left" {
		if n := len(*leftFloats); n > 0 {
			floatY = floatY.Max((*leftFloats)[n-1].Bottom())
		}
	} else {
		if n := len(*rightFloats); n > 0 {
			floatY = floatY.Max((*rightFloats)[n-1].Bottom())
		}
	}

	inLeft, inRight := floatIntrusionAt(*leftFloats, *rightFloats, floatY, parent.ContentRect.X, contentWidth)
	avail := contentWidth - inLeft - inRight
	if avail < 0 {
		avail = 0
	}

	LayoutBlock(child, parent.ContentRect.X+inLeft, floatY, avail, viewportW, viewportH)
	rect := child.MarginBoxRect()

	if side == "right" {
		desiredX := parent.ContentRect.X + contentWidth - inRight - rect.Width
		shiftBox(child, desiredX-rect.X, 0)
		rect = child.MarginBoxRect()
		*rightFloats = append(*rightFloats, rect)
		return
	}
	*leftFloats = append(*leftFloats, rect)
}

// floatIntrusionAt reports how far floats already placed in leftFloats and
// rightFloats intrude into the content box at vertical position y,
// measured from contentX and contentX+contentWidth respectively.
func floatIntrusionAt(leftFloats, rightFloats []geometry.Rect, y, contentX, contentWidth geometry.Subpixel) (left, right geometry.Subpixel) {
	for _, f := range leftFloats {
		if y >= f.Y && y < f.Bottom() {
			left = left.Max(f.Right() - contentX)
		}
	}
	for _, f := range rightFloats {
		if y >= f.Y && y < f.Bottom() {
			right = right.Max((contentX + contentWidth) - f.X)
		}
	}
	return
}

// clearFloor pushes y below the bottom of whichever float side(s) clear
// names (spec §9.5.2).
func clearFloor(y geometry.Subpixel, leftFloats, rightFloats []geometry.Rect, clear string) geometry.Subpixel {
	if clear == "" || clear == "none" {
		return y
	}
	floor := y
	if clear == "left" || clear == "both" {
		for _, f := range leftFloats {
			floor = floor.Max(f.Bottom())
		}
	}
	if clear == "right" || clear == "both" {
		for _, f := range rightFloats {
			floor = floor.Max(f.Bottom())
		}
	}
	return floor
}

func isInlineLevelRun(children []*Box) bool {
	for _, c := range children {
		switch c.Kind {
		case KindBlock, KindFlex, KindGrid, KindAnonymousBlock:
			return false
		}
	}
	return len(children) > 0
}

func isOutOfFlow(style *values.ComputedStyle) bool {
	return style.Position == "absolute" || style.Position == "fixed"
}

// canCollapse reports whether child's top margin participates in adjoining-
// margin collapsing with the previous sibling's bottom margin (spec §4.6):
// a box that establishes its own BFC never collapses through.
func canCollapse(child *Box) bool {
	return child.Style == nil || !child.Style.EstablishesBFC()
}

// collapseMargins implements the three collapsing rules (spec §4.6,
// grounded on the teacher's CollapseMargins): both positive take the max,
// both negative take the min, mixed sign sums.
func collapseMargins(a, b geometry.Subpixel) geometry.Subpixel {
	switch {
	case a >= 0 && b >= 0:
		return a.Max(b)
	case a < 0 && b < 0:
		return a.Min(b)
	default:
		return a + b
	}
}

// firstInFlowBlockChild returns b's first in-flow, non-floated block-level
// child, or nil if b has none (empty, or its first content is inline/flex/
// grid). Used by effectiveMarginTop to walk a structurally-empty chain.
func firstInFlowBlockChild(b *Box) *Box {
	for _, c := range b.Children {
		if c.Style != nil && (isOutOfFlow(c.Style) || c.Style.IsFloated()) {
			continue
		}
		switch c.Kind {
		case KindBlock, KindAnonymousBlock:
			return c
		default:
			return nil
		}
	}
	return nil
}

// lastInFlowBlockChild is firstInFlowBlockChild's mirror, walked from the
// end, for effectiveMarginBottom.
func lastInFlowBlockChild(b *Box) *Box {
	for i := len(b.Children) - 1; i >= 0; i-- {
		c := b.Children[i]
		if c.Style != nil && (isOutOfFlow(c.Style) || c.Style.IsFloated()) {
			continue
		}
		switch c.Kind {
		case KindBlock, KindAnonymousBlock:
			return c
		default:
			return nil
		}
	}
	return nil
}

// effectiveMarginTop returns b's top margin after collapsing through any
// chain of structurally-empty first-block-children (spec §4.6 "structurally
// empty chains ... collapse through"; grounded on original_source's
// part_8_3_1_collapsing_margins.rs effective_child_top_margin). A box that
// establishes a BFC, or has nonzero top border/padding, stops the chain:
// its own margin is the final word.
func effectiveMarginTop(b *Box, ctx values.ResolveContext) geometry.Subpixel {
	if b.Style == nil {
		return 0
	}
	own := b.Style.MarginTop.SubpixelHeight(ctx)
	if b.Style.EstablishesBFC() {
		return own
	}
	_, border, padding := resolveBoxEdges(b.Style, ctx)
	if border.Top != 0 || padding.Top != 0 {
		return own
	}
	first := firstInFlowBlockChild(b)
	if first == nil {
		return own
	}
	return collapseMargins(own, effectiveMarginTop(first, ctx))
}

// effectiveMarginBottom is effectiveMarginTop's mirror, walked through the
// chain of last block children.
func effectiveMarginBottom(b *Box, ctx values.ResolveContext) geometry.Subpixel {
	if b.Style == nil {
		return 0
	}
	own := b.Style.MarginBottom.SubpixelHeight(ctx)
	if b.Style.EstablishesBFC() {
		return own
	}
	_, border, padding := resolveBoxEdges(b.Style, ctx)
	if border.Bottom != 0 || padding.Bottom != 0 {
		return own
	}
	last := lastInFlowBlockChild(b)
	if last == nil {
		return own
	}
	return collapseMargins(own, effectiveMarginBottom(last, ctx))
}

// resolveAutoMargins implements CSS 2.1 §10.3.3: once width resolves to a
// definite value, margin-left/right set to auto absorb the leftover inline
// space (split evenly if both are auto; a single auto margin absorbs all
// of it). Width itself being auto already leaves both margins at 0 via
// Length.Resolve, which is correct, so this only runs when width is not
// auto.
func resolveAutoMargins(style *values.ComputedStyle, ctx values.ResolveContext, containingWidth geometry.Subpixel, margin *geometry.Edges, border, padding geometry.Edges) {
	if style.Width.IsAuto() {
		return
	}
	leftAuto := style.MarginLeft.IsAuto()
	rightAuto := style.MarginRight.IsAuto()
	if !leftAuto && !rightAuto {
		return
	}

	width := style.Width.Subpixel(ctx)
	if style.BoxSizing == "border-box" {
		width -= padding.Horizontal() + border.Horizontal()
	}
	if !style.MinWidth.IsNone() {
		width = width.Max(style.MinWidth.Subpixel(ctx))
	}
	if !style.MaxWidth.IsNone() {
		width = width.Min(style.MaxWidth.Subpixel(ctx))
	}

	remaining := containingWidth - width - border.Horizontal() - padding.Horizontal()
	if !leftAuto {
		remaining -= margin.Left
	}
	if !rightAuto {
		remaining -= margin.Right
	}
	if remaining < 0 {
		remaining = 0
	}

	switch {
	case leftAuto && rightAuto:
		half := remaining / 2
		margin.Left, margin.Right = half, remaining-half
	case leftAuto:
		margin.Left = remaining
	case rightAuto:
		margin.Right = remaining
	}
}

func computeContentWidth(style *values.ComputedStyle, ctx values.ResolveContext, containingWidth geometry.Subpixel, margin, border, padding geometry.Edges) geometry.Subpixel {
	var contentWidth geometry.Subpixel
	if style.Width.IsAuto() {
		contentWidth = containingWidth - margin.Horizontal() - border.Horizontal() - padding.Horizontal()
	} else {
		resolved := style.Width.Subpixel(ctx)
		if style.BoxSizing == "border-box" {
			contentWidth = resolved - padding.Horizontal() - border.Horizontal()
		} else {
			contentWidth = resolved
		}
	}
	if !style.MinWidth.IsNone() {
		contentWidth = contentWidth.Max(style.MinWidth.Subpixel(ctx))
	}
	if !style.MaxWidth.IsNone() {
		contentWidth = contentWidth.Min(style.MaxWidth.Subpixel(ctx))
	}
	if contentWidth < 0 {
		contentWidth = 0
	}
	return contentWidth
}

func resolveAutoHeight(style *values.ComputedStyle, ctx values.ResolveContext, contentHeight geometry.Subpixel) geometry.Subpixel {
	height := contentHeight
	if !style.Height.IsAuto() {
		resolved := style.Height.SubpixelHeight(ctx)
		if style.BoxSizing == "border-box" {
			pad := style.PaddingTop.SubpixelHeight(ctx) + style.PaddingBottom.SubpixelHeight(ctx)
			bor := style.BorderTopWidth.SubpixelHeight(ctx) + style.BorderBottomWidth.SubpixelHeight(ctx)
			resolved -= pad + bor
		}
		height = resolved
	}
	if !style.MinHeight.IsNone() {
		height = height.Max(style.MinHeight.SubpixelHeight(ctx))
	}
	if !style.MaxHeight.IsNone() {
		height = height.Min(style.MaxHeight.SubpixelHeight(ctx))
	}
	if height < 0 {
		height = 0
	}
	return height
}
