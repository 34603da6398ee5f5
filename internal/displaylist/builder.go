package displaylist

import (
	"sort"
	"strings"

	"gocko/internal/layout"
	"gocko/internal/style/values"
)

// Build walks a fully laid-out Box tree and produces the display-list item
// stream in CSS 2.2 §9.9 stacking order (spec §4.12). The document root
// always opens the outermost stacking context.
func Build(root *layout.Box) []Item {
	var out []Item
	paintBox(root, &out, true)
	return out
}

// establishesStackingContext decides whether b needs its own
// BeginStackingContext/EndStackingContext pair. Per the open-question
// decision recorded in SPEC_FULL.md, opacity<1 combined with a set z-index
// still yields exactly one context, not a nested pair — this function is
// the sole gate, so a box matching both conditions still only triggers one
// Begin/End.
func establishesStackingContext(b *layout.Box) bool {
	if b.Style == nil {
		return false
	}
	if b.Style.Opacity < 1 {
		return true
	}
	if b.Style.IsPositioned() && b.Style.ZIndexSet {
		return true
	}
	return false
}

func paintBox(b *layout.Box, out *[]Item, forceContext bool) {
	isContext := forceContext || establishesStackingContext(b)
	if isContext {
		opacity := 1.0
		if b.Style != nil {
			opacity = b.Style.Opacity
		}
		*out = append(*out, Item{Kind: ItemBeginStackingContext, Opacity: opacity})
	}

	emitDecorations(b, out)

	for _, child := range orderChildrenForPainting(b.Children) {
		paintBox(child, out, false)
	}

	if isContext {
		*out = append(*out, Item{Kind: ItemEndStackingContext})
	}
}

// orderChildrenForPainting implements the CSS 2.2 §9.9 painting order in
// full: negative z-index stacking contexts, then block-level in-flow
// descendants, then non-positioned floats, then inline-level in-flow
// descendants, then positioned descendants with z-index:auto or 0, then
// positive z-index stacking contexts. Each bucket keeps document order
// except the two z-index buckets, which are additionally sorted by z-index.
func orderChildrenForPainting(children []*layout.Box) []*layout.Box {
	var neg, block, float, inline, positionedAuto, pos []*layout.Box
	for _, c := range children {
		style := c.Style
		switch {
		case style != nil && style.IsPositioned() && style.ZIndexSet && style.ZIndex < 0:
			neg = append(neg, c)
		case style != nil && style.IsPositioned() && style.ZIndexSet && style.ZIndex > 0:
			pos = append(pos, c)
		case style != nil && style.IsPositioned():
			// z-index:auto, or explicitly 0 — CSS 2.1 Appendix E lumps both
			// into the same paint step as ordinary positioned descendants.
			positionedAuto = append(positionedAuto, c)
		case style != nil && style.IsFloated():
			float = append(float, c)
		case isBlockLevelForPainting(c):
			block = append(block, c)
		default:
			inline = append(inline, c)
		}
	}
	sort.SliceStable(neg, func(i, j int) bool { return neg[i].Style.ZIndex < neg[j].Style.ZIndex })
	sort.SliceStable(pos, func(i, j int) bool { return pos[i].Style.ZIndex < pos[j].Style.ZIndex })

	out := make([]*layout.Box, 0, len(children))
	out = append(out, neg...)
	out = append(out, block...)
	out = append(out, float...)
	out = append(out, inline...)
	out = append(out, positionedAuto...)
	out = append(out, pos...)
	return out
}

// isBlockLevelForPainting classifies a box as block-level for the purposes
// of the painting-order split above; everything else (inline, inline-block,
// text, line boxes) is treated as inline-level.
func isBlockLevelForPainting(b *layout.Box) bool {
	switch b.Kind {
	case layout.KindBlock, layout.KindFlex, layout.KindGrid, layout.KindAnonymousBlock:
		return true
	}
	return false
}

func emitDecorations(b *layout.Box, out *[]Item) {
	switch b.Kind {
	case layout.KindText:
		emitText(b, out)
		return
	case layout.KindLineBox, layout.KindAnonymousBlock:
		return
	}
	if b.Style == nil {
		return
	}
	emitBoxShadow(b, out)
	emitBackground(b, out)
	emitBorder(b, out)
}

func emitBackground(b *layout.Box, out *[]Item) {
	bg := b.Style.BackgroundColor
	rect := b.PaddingBoxRect().Round()
	if !bg.IsTransparent() {
		*out = append(*out, Item{Kind: ItemRect, Rect: rect, Color: bg, Radii: cornerRadii(b.Style)})
	}
	if b.Style.BackgroundImage != "" && strings.HasPrefix(b.Style.BackgroundImage, "url(") {
		url := strings.TrimSuffix(strings.TrimPrefix(b.Style.BackgroundImage, "url("), ")")
		url = strings.Trim(url, `"'`)
		*out = append(*out, Item{Kind: ItemImage, Rect: rect, ImageURL: url})
	} else if strings.Contains(b.Style.BackgroundImage, "linear-gradient") {
		*out = append(*out, Item{Kind: ItemLinearGradient, Rect: rect, GradientStops: parseGradientStops(b.Style)})
	}
}

func cornerRadii(style *values.ComputedStyle) [4]int {
	ctx := values.DefaultContext()
	return [4]int{
		int(style.BorderTopLeftRadius.Resolve(ctx)),
		int(style.BorderTopRightRadius.Resolve(ctx)),
		int(style.BorderBottomRightRadius.Resolve(ctx)),
		int(style.BorderBottomLeftRadius.Resolve(ctx)),
	}
}

// parseGradientStops is a minimal linear-gradient() color-stop extractor:
// full gradient syntax (angles, multi-keyword directions) is out of scope
// beyond giving the painter a usable stop list.
func parseGradientStops(style *values.ComputedStyle) []GradientStop {
	inner := strings.TrimSuffix(strings.TrimPrefix(style.BackgroundImage, "linear-gradient("), ")")
	parts := strings.Split(inner, ",")
	var stops []GradientStop
	n := len(parts)
	for i, p := range parts {
		p = strings.TrimSpace(p)
		if strings.Contains(p, "deg") || strings.HasPrefix(p, "to ") {
			continue
		}
		if c, err := values.ParseColor(p); err == nil {
			offset := 0.0
			if n > 1 {
				offset = float64(i) / float64(n-1)
			}
			stops = append(stops, GradientStop{Offset: offset, Color: c})
		}
	}
	return stops
}

func emitBorder(b *layout.Box, out *[]Item) {
	if b.Border.Top == 0 && b.Border.Right == 0 && b.Border.Bottom == 0 && b.Border.Left == 0 {
		return
	}
	s := b.Style
	*out = append(*out, Item{
		Kind: ItemBorder,
		Rect: b.BorderBoxRect().Round(),
		BorderEdges: BorderEdges{
			TopWidth: b.Border.Top.Round(), RightWidth: b.Border.Right.Round(),
			BottomWidth: b.Border.Bottom.Round(), LeftWidth: b.Border.Left.Round(),
			TopStyle: s.BorderTopStyle, RightStyle: s.BorderRightStyle,
			BottomStyle: s.BorderBottomStyle, LeftStyle: s.BorderLeftStyle,
			TopColor: s.BorderTopColor, RightColor: s.BorderRightColor,
			BottomColor: s.BorderBottomColor, LeftColor: s.BorderLeftColor,
		},
		Radii: cornerRadii(s),
	})
}

func emitBoxShadow(b *layout.Box, out *[]Item) {
	if b.Style.BoxShadow == "" || b.Style.BoxShadow == "none" {
		return
	}
	fields := strings.Fields(b.Style.BoxShadow)
	if len(fields) < 2 {
		return
	}
	item := Item{Kind: ItemBoxShadow, Rect: b.BorderBoxRect().Round(), ShadowColor: values.Black()}
	nums := 0
	for _, f := range fields {
		if c, err := values.ParseColor(f); err == nil {
			item.ShadowColor = c
			continue
		}
		l, err := values.ParseLength(f)
		if err != nil {
			continue
		}
		px := int(l.Resolve(values.DefaultContext()))
		switch nums {
		case 0:
			item.ShadowDX = px
		case 1:
			item.ShadowDY = px
		case 2:
			item.ShadowBlur = px
		}
		nums++
	}
	*out = append(*out, item)
}

func emitText(b *layout.Box, out *[]Item) {
	if b.Style == nil || strings.TrimSpace(b.Text) == "" {
		return
	}
	rect := b.ContentRect.Round()
	*out = append(*out, Item{
		Kind: ItemText, Rect: rect, Text: b.Text,
		Color: b.Style.Color, FontFamily: b.Style.FontFamily,
		FontSize: b.Style.FontSize, FontWeight: b.Style.FontWeight, FontStyle: b.Style.FontStyle,
		Baseline: (b.ContentRect.Y + b.Baseline).Round(),
	})
}
