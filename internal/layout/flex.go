package layout

import (
	"sort"

	"gocko/internal/geometry"
	"gocko/internal/style/values"
)

// flexItem is a Box augmented with the flex algorithm's per-item working
// state (spec §4.8, grounded on the teacher's gocko/layout/flexbox.go
// FlexItem/FlexContainer, generalized to subpixel units and to the
// expanded ComputedStyle).
type flexItem struct {
	box              *Box
	flexBaseSize     geometry.Subpixel
	mainSize         geometry.Subpixel
	crossSize        geometry.Subpixel
	marginMainStart  geometry.Subpixel
	marginMainEnd    geometry.Subpixel
	marginCrossStart geometry.Subpixel
	marginCrossEnd   geometry.Subpixel
	mainPos          geometry.Subpixel
	crossPos         geometry.Subpixel
}

type flexLine struct {
	items     []*flexItem
	mainSize  geometry.Subpixel
	crossSize geometry.Subpixel
	crossPos  geometry.Subpixel
}

// LayoutFlex lays out a flex container b at (x, y) against a containing
// block of width containingWidth (spec §4.8). Items are taken from b's
// already-built Children (each an ordinary Box produced by BuildBoxTree);
// this function replaces their ContentRect/Margin/Border/Padding in place.
func LayoutFlex(b *Box, x, y, containingWidth, viewportW, viewportH geometry.Subpixel) {
	ctx := resolveContextFor(b.Style, containingWidth, 0, viewportW, viewportH)
	margin, border, padding := resolveBoxEdges(b.Style, ctx)
	b.Margin, b.Border, b.Padding = margin, border, padding

	contentWidth := computeContentWidth(b.Style, ctx, containingWidth, margin, border, padding)
	b.ContentRect.X = x + margin.Left + border.Left + padding.Left
	b.ContentRect.Y = y + margin.Top + border.Top + padding.Top
	b.ContentRect.Width = contentWidth

	isRow := b.Style.FlexDirection == "row" || b.Style.FlexDirection == "row-reverse" || b.Style.FlexDirection == ""
	isReverse := b.Style.FlexDirection == "row-reverse" || b.Style.FlexDirection == "column-reverse"

	var mainSize geometry.Subpixel
	if isRow {
		mainSize = contentWidth
	} else if !b.Style.Height.IsAuto() {
		mainSize = b.Style.Height.SubpixelHeight(ctx)
	}

	children := make([]*Box, len(b.Children))
	copy(children, b.Children)
	sort.SliceStable(children, func(i, j int) bool { return children[i].Style.Order < children[j].Style.Order })

	var items []*flexItem
	var deferredAbspos []*Box
	for _, child := range children {
		if child.Style != nil && isOutOfFlow(child.Style) {
			deferredAbspos = append(deferredAbspos, child)
			continue
		}
		items = append(items, buildFlexItem(child, ctx, isRow))
	}
	b.Children = nil
	for _, it := range items {
		b.Children = append(b.Children, it.box)
	}
	b.Children = append(b.Children, deferredAbspos...)
	for _, ab := range deferredAbspos {
		ab.ContentRect.X, ab.ContentRect.Y = b.ContentRect.X, b.ContentRect.Y
	}
	if len(items) == 0 {
		b.ContentRect.Height = resolveAutoHeight(b.Style, ctx, 0)
		return
	}

	gap := b.Style.Gap.Subpixel(ctx)
	if b.Style.RowGap.Value != 0 || b.Style.ColumnGap.Value != 0 {
		if isRow {
			gap = b.Style.ColumnGap.Subpixel(ctx)
		} else {
			gap = b.Style.RowGap.Subpixel(ctx)
		}
	}

	lines := collectIntoLines(items, mainSize, b.Style.FlexWrap, gap)
	for i := range lines {
		resolveFlexibleLengths(lines[i], mainSize, gap)
		alignMainAxis(lines[i], mainSize, b.Style.JustifyContent, isReverse, gap)
	}

	crossSize := mainSize
	if isRow {
		crossSize = 0 // computed below from content unless b.Style.Height set
	}
	_ = crossSize

	var containerCross geometry.Subpixel
	if isRow {
		if !b.Style.Height.IsAuto() {
			containerCross = b.Style.Height.SubpixelHeight(ctx)
		}
	} else {
		containerCross = contentWidth
	}

	// In a row container an item's height depends on its resolved width, so
	// each item is laid out at its main size before cross sizes are read.
	if isRow {
		for _, ln := range lines {
			for _, it := range ln.items {
				placeFlexItem(it, 0, 0, it.mainSize, it.crossSize, viewportW, viewportH)
			}
		}
	}
	determineCrossSizes(lines, b.Style.AlignItems)
	alignContent := b.Style.AlignContent
	if alignContent == "" {
		// Open-question decision: indefinite cross size with align-content
		// unset falls back to flex-start rather than stretch (avoids an
		// unbounded container trying to "fill" an undefined size).
		alignContent = "flex-start"
	}
	alignCrossAxis(lines, containerCross, alignContent, gap)

	var totalCross geometry.Subpixel
	for _, ln := range lines {
		totalCross = totalCross.Max(ln.crossPos + ln.crossSize)
	}

	for _, ln := range lines {
		for _, it := range ln.items {
			var cx, cy, w, h geometry.Subpixel
			if isRow {
				cx, cy, w, h = it.mainPos, it.crossPos, it.mainSize, it.crossSize
			} else {
				cx, cy, w, h = it.crossPos, it.mainPos, it.crossSize, it.mainSize
			}
			placeFlexItem(it, b.ContentRect.X+cx, b.ContentRect.Y+cy, w, h, viewportW, viewportH)
			if isRow && !it.box.Style.Width.IsAuto() {
				it.box.ContentRect.Width = w
			}
			if it.box.Style.Height.IsAuto() {
				it.box.ContentRect.Height = (h - it.box.Border.Vertical() - it.box.Padding.Vertical()).Max(0)
			}
		}
	}

	if isRow {
		b.ContentRect.Height = resolveAutoHeight(b.Style, ctx, totalCross)
	} else {
		b.ContentRect.Height = resolveAutoHeight(b.Style, ctx, totalCross)
	}
}

func buildFlexItem(child *Box, parentCtx values.ResolveContext, isRow bool) *flexItem {
	childCtx := resolveContextFor(child.Style, geometry.FromPixels(parentCtx.ParentWidth), geometry.FromPixels(parentCtx.ParentHeight),
		geometry.FromPixels(parentCtx.ViewportWidth), geometry.FromPixels(parentCtx.ViewportHeight))
	margin, border, padding := resolveBoxEdges(child.Style, childCtx)
	child.Margin, child.Border, child.Padding = margin, border, padding

	var base geometry.Subpixel
	if !child.Style.FlexBasis.IsAuto() {
		base = child.Style.FlexBasis.Subpixel(childCtx)
	} else if isRow && !child.Style.Width.IsAuto() {
		base = child.Style.Width.Subpixel(childCtx)
	} else if !isRow && !child.Style.Height.IsAuto() {
		base = child.Style.Height.SubpixelHeight(childCtx)
	} else {
		base = measureIntrinsicMain(child, isRow)
	}

	it := &flexItem{box: child, flexBaseSize: base, mainSize: base}
	if isRow {
		it.marginMainStart, it.marginMainEnd = margin.Left, margin.Right
		it.marginCrossStart, it.marginCrossEnd = margin.Top, margin.Bottom
	} else {
		it.marginMainStart, it.marginMainEnd = margin.Top, margin.Bottom
		it.marginCrossStart, it.marginCrossEnd = margin.Left, margin.Right
	}
	return it
}

// measureIntrinsicMain gives a content-driven flex-basis for an item whose
// basis and the relevant size property are both auto: lay it out tentatively
// against an effectively unconstrained main axis and read back its size.
func measureIntrinsicMain(child *Box, isRow bool) geometry.Subpixel {
	const unconstrained = geometry.Subpixel(1 << 30)
	if isRow {
		LayoutBlock(child, 0, 0, unconstrained, unconstrained, unconstrained)
		return child.MarginBoxRect().Width
	}
	LayoutBlock(child, 0, 0, 0, unconstrained, unconstrained)
	return child.MarginBoxRect().Height
}

func collectIntoLines(items []*flexItem, mainSize geometry.Subpixel, wrap string, gap geometry.Subpixel) []*flexLine {
	if wrap == "nowrap" || wrap == "" {
		return []*flexLine{{items: items}}
	}
	var lines []*flexLine
	var cur []*flexItem
	var curMain geometry.Subpixel
	for _, it := range items {
		size := it.flexBaseSize + it.marginMainStart + it.marginMainEnd
		add := size
		if len(cur) > 0 {
			add += gap
		}
		if len(cur) > 0 && curMain+add > mainSize {
			lines = append(lines, &flexLine{items: cur})
			cur = nil
			curMain = 0
			add = size
		}
		cur = append(cur, it)
		curMain += add
	}
	if len(cur) > 0 {
		lines = append(lines, &flexLine{items: cur})
	}
	return lines
}

func resolveFlexibleLengths(line *flexLine, availableMain geometry.Subpixel, gap geometry.Subpixel) {
	var used geometry.Subpixel
	for _, it := range line.items {
		used += it.flexBaseSize + it.marginMainStart + it.marginMainEnd
	}
	if len(line.items) > 1 {
		used += gap * geometry.Subpixel(len(line.items)-1)
	}
	free := availableMain - used

	// Iteration-capped clamp-and-redistribute loop (spec §4.8 steps 3-4):
	// items pinned to zero by a previous round are excluded from the next.
	frozen := make([]bool, len(line.items))
	for iter := 0; iter < 8; iter++ {
		var totalGrow, totalShrinkWeighted float64
		var unfrozenFree geometry.Subpixel
		for i, it := range line.items {
			if frozen[i] {
				continue
			}
			totalGrow += it.box.Style.FlexGrow
			totalShrinkWeighted += it.box.Style.FlexShrink * it.flexBaseSize.ToPixels()
		}
		unfrozenFree = free
		changed := false
		for i, it := range line.items {
			if frozen[i] {
				continue
			}
			switch {
			case unfrozenFree > 0 && totalGrow > 0:
				it.mainSize = it.flexBaseSize + geometry.FromPixels(unfrozenFree.ToPixels()*it.box.Style.FlexGrow/totalGrow)
			case unfrozenFree < 0 && totalShrinkWeighted > 0:
				ratio := (it.box.Style.FlexShrink * it.flexBaseSize.ToPixels()) / totalShrinkWeighted
				it.mainSize = it.flexBaseSize + geometry.FromPixels(unfrozenFree.ToPixels()*ratio)
			default:
				it.mainSize = it.flexBaseSize
			}
			if it.mainSize < 0 {
				it.mainSize = 0
				frozen[i] = true
				changed = true
			}
		}
		if !changed {
			break
		}
	}
}

func alignMainAxis(line *flexLine, mainSize geometry.Subpixel, justify string, reverse bool, gap geometry.Subpixel) {
	var used geometry.Subpixel
	for _, it := range line.items {
		used += it.mainSize + it.marginMainStart + it.marginMainEnd
	}
	if len(line.items) > 1 {
		used += gap * geometry.Subpixel(len(line.items)-1)
	}
	free := (mainSize - used).Max(0)

	n := len(line.items)
	var start, spacing geometry.Subpixel
	switch justify {
	case "flex-end", "end":
		start = free
	case "center":
		start = free / 2
	case "space-between":
		if n > 1 {
			spacing = free / geometry.Subpixel(n-1)
		}
	case "space-around":
		if n > 0 {
			spacing = free / geometry.Subpixel(n)
		}
		start = spacing / 2
	case "space-evenly":
		spacing = free / geometry.Subpixel(n+1)
		start = spacing
	}

	items := line.items
	if reverse {
		items = make([]*flexItem, n)
		for i, it := range line.items {
			items[n-1-i] = it
		}
	}
	pos := start
	for i, it := range items {
		it.mainPos = pos + it.marginMainStart
		pos += it.marginMainStart + it.mainSize + it.marginMainEnd
		if i < n-1 {
			pos += gap + spacing
		}
	}
	line.mainSize = used
}

func determineCrossSizes(lines []*flexLine, alignItems string) {
	for _, ln := range lines {
		var maxCross geometry.Subpixel
		for _, it := range ln.items {
			c := it.box.MarginBoxRect()
			cross := geometry.FromPixels(c.Height.ToPixels()) + it.marginCrossStart + it.marginCrossEnd
			maxCross = maxCross.Max(cross)
		}
		ln.crossSize = maxCross
		for _, it := range ln.items {
			align := it.box.Style.AlignSelf
			if align == "" || align == "auto" {
				align = alignItems
			}
			if align == "stretch" || align == "" {
				it.crossSize = ln.crossSize - it.marginCrossStart - it.marginCrossEnd
			} else {
				it.crossSize = it.box.MarginBoxRect().Height - it.marginCrossStart - it.marginCrossEnd
			}
		}
	}
}

func alignCrossAxis(lines []*flexLine, available geometry.Subpixel, alignContent string, gap geometry.Subpixel) {
	var total geometry.Subpixel
	for _, ln := range lines {
		total += ln.crossSize
	}
	if len(lines) > 1 {
		total += gap * geometry.Subpixel(len(lines)-1)
	}
	free := (available - total).Max(0)
	n := len(lines)

	var start, spacing geometry.Subpixel
	switch alignContent {
	case "flex-end", "end":
		start = free
	case "center":
		start = free / 2
	case "space-between":
		if n > 1 {
			spacing = free / geometry.Subpixel(n-1)
		}
	case "space-around":
		if n > 0 {
			spacing = free / geometry.Subpixel(n)
		}
		start = spacing / 2
	case "stretch":
		if n > 0 {
			extra := free / geometry.Subpixel(n)
			for _, ln := range lines {
				ln.crossSize += extra
			}
		}
	}

	pos := start
	for _, ln := range lines {
		ln.crossPos = pos
		pos += ln.crossSize + gap + spacing
		for _, it := range ln.items {
			align := it.box.Style.AlignSelf
			if align == "" || align == "auto" {
				align = "stretch"
			}
			itemSize := it.crossSize + it.marginCrossStart + it.marginCrossEnd
			switch align {
			case "flex-end", "end":
				it.crossPos = ln.crossPos + ln.crossSize - itemSize + it.marginCrossStart
			case "center":
				it.crossPos = ln.crossPos + (ln.crossSize-itemSize)/2 + it.marginCrossStart
			default:
				it.crossPos = ln.crossPos + it.marginCrossStart
			}
		}
	}
}

func placeFlexItem(it *flexItem, x, y, w, h geometry.Subpixel, viewportW, viewportH geometry.Subpixel) {
	switch it.box.Kind {
	case KindFlex:
		LayoutFlex(it.box, x, y, w, viewportW, viewportH)
	case KindGrid:
		LayoutGrid(it.box, x, y, w, viewportW, viewportH)
	default:
		LayoutBlock(it.box, x, y, w, viewportW, viewportH)
	}
	// Move the laid-out box so its margin box starts at the flex-assigned
	// origin. h is not applied here: LayoutFlex sets the item's flex-assigned
	// size after this call.
	mb := it.box.MarginBoxRect()
	shiftBox(it.box, x-mb.X, y-mb.Y)
}
