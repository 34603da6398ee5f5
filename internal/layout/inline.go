package layout

import (
	"strings"

	"gocko/internal/geometry"
	"gocko/internal/style/values"
)

// inlineWord is one atomic unit on a line: either a run of non-breaking
// text or an atomic inline-level box (inline-block, replaced element).
type inlineWord struct {
	text    string
	style   *values.ComputedStyle
	atomic  *Box // non-nil for an inline-block/replaced atomic item
	width   geometry.Subpixel
	ascent  geometry.Subpixel
	descent geometry.Subpixel
}

// flattenInline walks an inline-level box run depth-first, producing the
// word sequence the line breaker consumes. A plain inline wrapper (span, a)
// contributes its text with its own style for color/decoration but does not
// itself become a line item; an inline-block does (spec §4.7 "atomic
// inline-level boxes participate in line layout as a unit").
func flattenInline(boxes []*Box, ctx values.ResolveContext) []inlineWord {
	var out []inlineWord
	var walk func(b *Box)
	walk = func(b *Box) {
		switch b.Kind {
		case KindText:
			for _, w := range strings.Fields(b.Text) {
				out = append(out, measureWord(w, b.Style, ctx))
			}
		case KindInlineBlock:
			out = append(out, inlineWord{atomic: b, style: b.Style})
		default: // KindInline and anything else nested inline
			for _, c := range b.Children {
				walk(c)
			}
		}
	}
	for _, b := range boxes {
		walk(b)
	}
	return out
}

func measureWord(word string, style *values.ComputedStyle, ctx values.ResolveContext) inlineWord {
	charWidth := style.FontSize * 0.55
	lineHeight := style.ResolvedLineHeight()
	ascent := lineHeight * 0.8
	descent := lineHeight - ascent
	return inlineWord{
		text:    word,
		style:   style,
		width:   geometry.FromPixels(float64(len([]rune(word))) * charWidth),
		ascent:  geometry.FromPixels(ascent),
		descent: geometry.FromPixels(descent),
	}
}

// LayoutInlineRun line-boxes a run of inline-level boxes inside a block
// container of content width maxWidth, starting at (originX, originY), and
// returns the resulting line boxes plus the total height consumed (spec
// §4.7).
func LayoutInlineRun(boxes []*Box, originX, originY, maxWidth geometry.Subpixel, containerStyle *values.ComputedStyle, viewportW, viewportH geometry.Subpixel) ([]*Box, geometry.Subpixel) {
	ctx := resolveContextFor(containerStyle, maxWidth, 0, viewportW, viewportH)
	words := flattenInline(boxes, ctx)
	spaceWidth := geometry.FromPixels(containerStyle.FontSize * 0.55)

	var lines []*Box
	var cur []inlineWord
	var curWidth geometry.Subpixel
	cursorY := originY

	flush := func(isLast bool) {
		if len(cur) == 0 {
			return
		}
		lines = append(lines, assembleLine(cur, originX, cursorY, maxWidth, containerStyle, isLast))
		var maxLH geometry.Subpixel
		for _, w := range cur {
			lh := w.ascent + w.descent
			if w.atomic != nil {
				lh = w.atomic.MarginBoxRect().Height
			}
			maxLH = maxLH.Max(lh)
		}
		cursorY += maxLH
		cur = nil
		curWidth = 0
	}

	for _, w := range words {
		itemWidth := w.width
		if w.atomic != nil {
			LayoutBlock(w.atomic, 0, 0, maxWidth, viewportW, viewportH)
			itemWidth = w.atomic.MarginBoxRect().Width
		}
		addWidth := itemWidth
		if len(cur) > 0 {
			addWidth += spaceWidth
		}
		if len(cur) > 0 && curWidth+addWidth > maxWidth {
			flush(false)
			addWidth = itemWidth
		}
		cur = append(cur, w)
		curWidth += addWidth
	}
	flush(true)

	return lines, cursorY - originY
}

// assembleLine positions one line's words left-to-right (spec §4.7; only
// text-align: start/left is laid out as a first pass, center/right/justify
// are applied as a final offset pass per line below). isLast marks the run's
// final line, which text-align: justify never stretches.
func assembleLine(words []inlineWord, x, y, maxWidth geometry.Subpixel, containerStyle *values.ComputedStyle, isLast bool) *Box {
	lineHeight := geometry.FromPixels(containerStyle.ResolvedLineHeight())
	var maxAscent, maxDescent geometry.Subpixel
	for _, w := range words {
		if w.atomic != nil {
			h := w.atomic.MarginBoxRect().Height
			maxAscent = maxAscent.Max(h)
			continue
		}
		maxAscent = maxAscent.Max(w.ascent)
		maxDescent = maxDescent.Max(w.descent)
	}
	lineHeight = lineHeight.Max(maxAscent + maxDescent)

	line := &Box{Kind: KindLineBox, Style: containerStyle, IsAnonymous: true,
		ContentRect: geometry.Rect{X: x, Y: y, Width: maxWidth, Height: lineHeight},
		Baseline:    maxAscent,
	}

	var contentWidth geometry.Subpixel
	cursor := x
	spaceWidth := geometry.FromPixels(containerStyle.FontSize * 0.55)
	for i, w := range words {
		if i > 0 {
			cursor += spaceWidth
		}
		if w.atomic != nil {
			r := w.atomic.MarginBoxRect()
			dy := line.Baseline - r.Height
			shiftBox(w.atomic, cursor-r.X, y+dy-r.Y)
			line.Children = append(line.Children, w.atomic)
			cursor += r.Width
			contentWidth = cursor - x
			continue
		}
		wordBox := &Box{Kind: KindText, Style: w.style, Text: w.text,
			ContentRect: geometry.Rect{X: cursor, Y: y + line.Baseline - w.ascent, Width: w.width, Height: w.ascent + w.descent},
			Baseline:    w.ascent,
		}
		line.Children = append(line.Children, wordBox)
		cursor += w.width
		contentWidth = cursor - x
	}

	switch containerStyle.TextAlign {
	case "center":
		offsetLine(line, (maxWidth-contentWidth)/2)
	case "right", "end":
		offsetLine(line, maxWidth-contentWidth)
	case "justify":
		if !isLast {
			justifyLine(line, maxWidth-contentWidth)
		}
	}

	return line
}

func offsetLine(line *Box, dx geometry.Subpixel) {
	if dx <= 0 {
		return
	}
	for _, c := range line.Children {
		shiftBox(c, dx, 0)
	}
}

// justifyLine distributes extra space evenly across a line's inter-word
// gaps (spec §4.7 text-align: justify, best-effort). Single-word lines have
// no gap to stretch.
func justifyLine(line *Box, extra geometry.Subpixel) {
	gaps := len(line.Children) - 1
	if extra <= 0 || gaps <= 0 {
		return
	}
	perGap := extra / geometry.Subpixel(gaps)
	for i, c := range line.Children {
		if i == 0 {
			continue
		}
		shiftBox(c, perGap*geometry.Subpixel(i), 0)
	}
}

// shiftBox translates b and its entire subtree by (dx, dy). Used to move an
// already-laid-out atomic box (inline-block) into its final line position.
func shiftBox(b *Box, dx, dy geometry.Subpixel) {
	b.ContentRect.X += dx
	b.ContentRect.Y += dy
	for _, c := range b.Children {
		shiftBox(c, dx, dy)
	}
}
