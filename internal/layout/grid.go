package layout

import (
	"strconv"
	"strings"

	"gocko/internal/geometry"
)

// track is one sized grid column or row (spec §4.9).
type track struct {
	fixed   geometry.Subpixel // resolved size for px tracks
	isFr    bool
	fr      float64
	isAuto  bool
	percent float64 // nonzero for a percentage track
	size    geometry.Subpixel // final resolved size after distribution
}

// LayoutGrid performs two-pass grid track sizing and item placement: a
// column pass that sizes columns from grid-template-columns and the content
// width alone (items are not measured for it; auto columns share the space
// left over only when no fr track is present), then a row pass that
// measures each item at its resolved column width. grid-auto-flow controls how items
// without an explicit grid-column/grid-row are placed into the implicit
// track sequence.
func LayoutGrid(b *Box, x, y, containingWidth, viewportW, viewportH geometry.Subpixel) {
	ctx := resolveContextFor(b.Style, containingWidth, 0, viewportW, viewportH)
	margin, border, padding := resolveBoxEdges(b.Style, ctx)
	b.Margin, b.Border, b.Padding = margin, border, padding

	contentWidth := computeContentWidth(b.Style, ctx, containingWidth, margin, border, padding)
	b.ContentRect.X = x + margin.Left + border.Left + padding.Left
	b.ContentRect.Y = y + margin.Top + border.Top + padding.Top
	b.ContentRect.Width = contentWidth

	colGap := b.Style.ColumnGap.Subpixel(ctx)
	rowGap := b.Style.RowGap.Subpixel(ctx)
	if colGap == 0 && b.Style.Gap.Value != 0 {
		colGap = b.Style.Gap.Subpixel(ctx)
	}
	if rowGap == 0 && b.Style.Gap.Value != 0 {
		rowGap = b.Style.Gap.Subpixel(ctx)
	}

	cols := parseTracks(b.Style.GridTemplateColumns)
	if len(cols) == 0 {
		cols = []track{{isAuto: true}}
	}

	var children []*Box
	var deferred []*Box
	for _, c := range b.Children {
		if c.Style != nil && isOutOfFlow(c.Style) {
			deferred = append(deferred, c)
			continue
		}
		children = append(children, c)
	}

	dense := strings.Contains(b.Style.GridAutoFlow, "dense")
	columnFlow := strings.HasPrefix(b.Style.GridAutoFlow, "column")
	placements := placeItems(children, len(cols), columnFlow, dense)

	rowCount := 0
	for _, p := range placements {
		if p.row+1 > rowCount {
			rowCount = p.row + 1
		}
	}
	rows := parseTracks(b.Style.GridTemplateRows)
	for len(rows) < rowCount {
		rows = append(rows, track{isAuto: true})
	}

	resolveColumnPass(cols, contentWidth, colGap)

	// Row pass: measure each item's intrinsic height at its resolved column
	// width, then size auto rows to the max measured height in that row.
	rowIntrinsic := make([]geometry.Subpixel, len(rows))
	for i, p := range placements {
		child := children[i]
		colWidth := spanSize(cols, p.col, p.colSpan, colGap)
		measureIntrinsic(child, colWidth, viewportW, viewportH)
		h := child.MarginBoxRect().Height
		if p.rowSpan == 1 && h > rowIntrinsic[p.row] {
			rowIntrinsic[p.row] = h
		}
	}
	for i := range rows {
		if rows[i].isAuto {
			rows[i].size = rowIntrinsic[i]
		} else if rows[i].isFr {
			rows[i].size = rowIntrinsic[i] // no definite block size to distribute fr against; fall back to content
		} else {
			rows[i].size = rows[i].fixed
		}
	}

	for i, p := range placements {
		child := children[i]
		colX := trackOffset(cols, p.col, colGap)
		rowY := trackOffset(rows, p.row, rowGap)
		w := spanSize(cols, p.col, p.colSpan, colGap)
		placeFlexItemLike(child, b.ContentRect.X+colX, b.ContentRect.Y+rowY, w, viewportW, viewportH)
	}

	var totalHeight geometry.Subpixel
	for i, r := range rows {
		if i > 0 {
			totalHeight += rowGap
		}
		totalHeight += r.size
	}
	b.ContentRect.Height = resolveAutoHeight(b.Style, ctx, totalHeight)

	for _, ab := range deferred {
		ab.ContentRect.X, ab.ContentRect.Y = b.ContentRect.X, b.ContentRect.Y
	}
	b.Children = append(children, deferred...)
}

func placeFlexItemLike(child *Box, x, y, w, viewportW, viewportH geometry.Subpixel) {
	switch child.Kind {
	case KindFlex:
		LayoutFlex(child, x, y, w, viewportW, viewportH)
	case KindGrid:
		LayoutGrid(child, x, y, w, viewportW, viewportH)
	default:
		LayoutBlock(child, x, y, w, viewportW, viewportH)
	}
}

func measureIntrinsic(child *Box, width, viewportW, viewportH geometry.Subpixel) {
	placeFlexItemLike(child, 0, 0, width, viewportW, viewportH)
}

type placement struct {
	row, col         int
	rowSpan, colSpan int
}

// placeItems assigns each item a grid cell following grid-auto-flow: items
// that name an explicit grid-column/grid-row are honored as a 1-based
// single-track placement (line-range syntax is out of scope, spec's
// Non-goals on full CSS3 conformance covers the rest); everything else
// auto-places into the next free cell in flow order.
func placeItems(children []*Box, colCount int, columnFlow, dense bool) []placement {
	occupied := map[[2]int]bool{}
	out := make([]placement, len(children))
	nextRow, nextCol := 0, 0

	place := func(row, col int) {
		occupied[[2]int{row, col}] = true
	}
	free := func(row, col int) bool { return !occupied[[2]int{row, col}] }

	advance := func() (int, int) {
		for {
			r, c := nextRow, nextCol
			if columnFlow {
				nextRow++
				if nextRow >= 1_000_000 { // safety valve; real bound is colCount-independent for column flow
					nextRow = 0
					nextCol++
				}
			} else {
				nextCol++
				if nextCol >= colCount {
					nextCol = 0
					nextRow++
				}
			}
			if free(r, c) {
				return r, c
			}
		}
	}

	for i, child := range children {
		explicitCol := parseGridLine(child.Style.GridColumn)
		explicitRow := parseGridLine(child.Style.GridRow)
		var row, col int
		switch {
		case explicitCol > 0 && explicitRow > 0:
			row, col = explicitRow-1, (explicitCol-1)%colCount
		case explicitCol > 0:
			col = (explicitCol - 1) % colCount
			row = nextRow
		case explicitRow > 0:
			row, col = explicitRow-1, nextCol
		default:
			if dense {
				nextRow, nextCol = 0, 0
			}
			row, col = advance()
		}
		place(row, col)
		out[i] = placement{row: row, col: col, rowSpan: 1, colSpan: 1}
	}
	return out
}

func parseGridLine(v string) int {
	v = strings.TrimSpace(v)
	if v == "" || v == "auto" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}

// parseTracks parses a grid-template-columns/rows value into tracks:
// supports px lengths, percentages, the fr unit, "auto", and "repeat(n, X)".
func parseTracks(value string) []track {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	var tokens []string
	for _, tok := range strings.Fields(value) {
		if strings.HasPrefix(tok, "repeat(") {
			tokens = append(tokens, expandRepeat(tok)...)
			continue
		}
		tokens = append(tokens, tok)
	}
	var tracks []track
	for _, tok := range tokens {
		tracks = append(tracks, parseTrack(tok))
	}
	return tracks
}

func expandRepeat(tok string) []string {
	inner := strings.TrimSuffix(strings.TrimPrefix(tok, "repeat("), ")")
	parts := strings.SplitN(inner, ",", 2)
	if len(parts) != 2 {
		return nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || n <= 0 || n > 1000 {
		return nil
	}
	pattern := strings.Fields(strings.TrimSpace(parts[1]))
	var out []string
	for i := 0; i < n; i++ {
		out = append(out, pattern...)
	}
	return out
}

func parseTrack(tok string) track {
	switch {
	case tok == "auto":
		return track{isAuto: true}
	case strings.HasSuffix(tok, "fr"):
		v, _ := strconv.ParseFloat(strings.TrimSuffix(tok, "fr"), 64)
		return track{isFr: true, fr: v}
	case strings.HasSuffix(tok, "%"):
		v, _ := strconv.ParseFloat(strings.TrimSuffix(tok, "%"), 64)
		return track{percent: v}
	default:
		v, err := strconv.ParseFloat(strings.TrimSuffix(tok, "px"), 64)
		if err != nil {
			return track{isAuto: true}
		}
		return track{fixed: geometry.FromPixels(v)}
	}
}

func resolveColumnPass(cols []track, available geometry.Subpixel, gap geometry.Subpixel) {
	var fixedTotal geometry.Subpixel
	var totalFr float64
	autoCount := 0
	for _, c := range cols {
		switch {
		case c.isFr:
			totalFr += c.fr
		case c.percent != 0:
			fixedTotal += geometry.FromPixels(available.ToPixels() * c.percent / 100)
		case c.isAuto:
			autoCount++
		default:
			fixedTotal += c.fixed
		}
	}
	if len(cols) > 1 {
		fixedTotal += gap * geometry.Subpixel(len(cols)-1)
	}
	remaining := (available - fixedTotal).Max(0)

	autoShare := geometry.Subpixel(0)
	if autoCount > 0 && totalFr == 0 {
		autoShare = remaining / geometry.Subpixel(autoCount)
	}
	frUnit := 0.0
	if totalFr > 0 {
		frUnit = remaining.ToPixels() / totalFr
	}

	for i := range cols {
		switch {
		case cols[i].isFr:
			cols[i].size = geometry.FromPixels(cols[i].fr * frUnit)
		case cols[i].percent != 0:
			cols[i].size = geometry.FromPixels(available.ToPixels() * cols[i].percent / 100)
		case cols[i].isAuto:
			cols[i].size = autoShare
		default:
			cols[i].size = cols[i].fixed
		}
	}
}

func trackOffset(tracks []track, index int, gap geometry.Subpixel) geometry.Subpixel {
	var offset geometry.Subpixel
	for i := 0; i < index && i < len(tracks); i++ {
		offset += tracks[i].size + gap
	}
	return offset
}

func spanSize(tracks []track, start, span int, gap geometry.Subpixel) geometry.Subpixel {
	var size geometry.Subpixel
	for i := start; i < start+span && i < len(tracks); i++ {
		if i > start {
			size += gap
		}
		size += tracks[i].size
	}
	return size
}
