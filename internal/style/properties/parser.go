// Package properties turns a parsed CSS declaration (property name +
// value-token string) into a mutation of a values.ComputedStyle (spec
// §4.4). ParseProperty is the central dispatch the cascade calls once per
// winning declaration: custom properties first, then font-size, then the
// remaining winners (see internal/css/cascade.go).
package properties

import (
	"strconv"
	"strings"

	"gocko/internal/style/values"
)

// ParseProperty applies one property:value pair to style. Unknown
// properties and unrecognized values are silently ignored (spec §6
// "unknown at-rules ... are parsed and discarded").
func ParseProperty(style *values.ComputedStyle, property, value string) {
	property = strings.ToLower(strings.TrimSpace(property))
	value = strings.TrimSpace(value)

	if strings.HasPrefix(property, "--") {
		style.CustomProperties[property] = value
		return
	}

	switch property {
	// ----- dimensions -----
	case "width":
		style.Width = parseLength(value)
	case "height":
		style.Height = parseLength(value)
	case "min-width":
		style.MinWidth = parseLength(value)
	case "max-width":
		style.MaxWidth = parseLength(value)
	case "min-height":
		style.MinHeight = parseLength(value)
	case "max-height":
		style.MaxHeight = parseLength(value)

	// ----- margin -----
	case "margin":
		t, r, b, l := parseBoxShorthand(value)
		style.MarginTop, style.MarginRight, style.MarginBottom, style.MarginLeft = t, r, b, l
	case "margin-top":
		style.MarginTop = parseLength(value)
	case "margin-right":
		style.MarginRight = parseLength(value)
	case "margin-bottom":
		style.MarginBottom = parseLength(value)
	case "margin-left":
		style.MarginLeft = parseLength(value)

	// ----- padding -----
	case "padding":
		t, r, b, l := parseBoxShorthand(value)
		style.PaddingTop, style.PaddingRight, style.PaddingBottom, style.PaddingLeft = t, r, b, l
	case "padding-top":
		style.PaddingTop = parseLength(value)
	case "padding-right":
		style.PaddingRight = parseLength(value)
	case "padding-bottom":
		style.PaddingBottom = parseLength(value)
	case "padding-left":
		style.PaddingLeft = parseLength(value)

	// ----- border -----
	case "border":
		parseBorderShorthand(style, value)
	case "border-width":
		w := parseLength(value)
		style.BorderTopWidth, style.BorderRightWidth = w, w
		style.BorderBottomWidth, style.BorderLeftWidth = w, w
	case "border-top-width":
		style.BorderTopWidth = parseLength(value)
	case "border-right-width":
		style.BorderRightWidth = parseLength(value)
	case "border-bottom-width":
		style.BorderBottomWidth = parseLength(value)
	case "border-left-width":
		style.BorderLeftWidth = parseLength(value)
	case "border-color":
		c := parseColor(value)
		style.BorderTopColor, style.BorderRightColor = c, c
		style.BorderBottomColor, style.BorderLeftColor = c, c
	case "border-style":
		style.BorderTopStyle, style.BorderRightStyle = value, value
		style.BorderBottomStyle, style.BorderLeftStyle = value, value
	case "border-radius":
		r := parseLength(value)
		style.BorderTopLeftRadius, style.BorderTopRightRadius = r, r
		style.BorderBottomRightRadius, style.BorderBottomLeftRadius = r, r
	case "border-top-left-radius":
		style.BorderTopLeftRadius = parseLength(value)
	case "border-top-right-radius":
		style.BorderTopRightRadius = parseLength(value)
	case "border-bottom-left-radius":
		style.BorderBottomLeftRadius = parseLength(value)
	case "border-bottom-right-radius":
		style.BorderBottomRightRadius = parseLength(value)

	case "box-sizing":
		style.BoxSizing = value

	// ----- layout -----
	case "display":
		style.Display = value
	case "position":
		style.Position = value
	case "float":
		style.Float = value
	case "clear":
		style.Clear = value
	case "direction":
		style.Direction = value
	case "writing-mode":
		style.WritingMode = value
	case "top":
		style.Top = parseLength(value)
	case "right":
		style.Right = parseLength(value)
	case "bottom":
		style.Bottom = parseLength(value)
	case "left":
		style.Left = parseLength(value)
	case "z-index":
		if value == "auto" {
			style.ZIndexSet = false
		} else if v, err := strconv.Atoi(value); err == nil {
			style.ZIndex = v
			style.ZIndexSet = true
		}

	// ----- flexbox -----
	case "flex":
		parseFlexShorthand(style, value)
	case "flex-direction":
		style.FlexDirection = value
	case "flex-wrap":
		style.FlexWrap = value
	case "flex-flow":
		for _, p := range strings.Fields(value) {
			switch p {
			case "row", "column", "row-reverse", "column-reverse":
				style.FlexDirection = p
			case "wrap", "nowrap", "wrap-reverse":
				style.FlexWrap = p
			}
		}
	case "justify-content":
		style.JustifyContent = value
	case "align-items":
		style.AlignItems = value
	case "align-content":
		style.AlignContent = value
	case "align-self":
		style.AlignSelf = value
	case "justify-items":
		style.JustifyItems = value
	case "justify-self":
		style.JustifySelf = value
	case "flex-grow":
		if v, err := strconv.ParseFloat(value, 64); err == nil {
			style.FlexGrow = v
		}
	case "flex-shrink":
		if v, err := strconv.ParseFloat(value, 64); err == nil {
			style.FlexShrink = v
		}
	case "flex-basis":
		style.FlexBasis = parseLength(value)
	case "order":
		if v, err := strconv.Atoi(value); err == nil {
			style.Order = v
		}
	case "gap":
		g := parseLength(value)
		style.Gap, style.RowGap, style.ColumnGap = g, g, g
	case "row-gap":
		style.RowGap = parseLength(value)
	case "column-gap":
		style.ColumnGap = parseLength(value)

	// ----- grid -----
	case "grid-template-columns":
		style.GridTemplateColumns = value
	case "grid-template-rows":
		style.GridTemplateRows = value
	case "grid-auto-flow":
		style.GridAutoFlow = value
	case "grid-column":
		style.GridColumn = value
	case "grid-row":
		style.GridRow = value

	// ----- overflow -----
	case "overflow":
		style.OverflowX, style.OverflowY = value, value
	case "overflow-x":
		style.OverflowX = value
	case "overflow-y":
		style.OverflowY = value

	// ----- typography -----
	case "color":
		style.Color = parseColor(value)
	case "font-family":
		style.FontFamily = value
	case "font-size":
		// style.FontSize still holds the inherited (parent) value at this
		// point, so em/% resolve against it (spec §4.4).
		style.FontSize = parseFontSize(value, style.FontSize)
	case "font-weight":
		style.FontWeight = parseFontWeight(value)
	case "font-style":
		style.FontStyle = value
	case "line-height":
		parseLineHeight(style, value)
	case "text-align":
		style.TextAlign = value
	case "text-decoration":
		style.TextDecoration = value
	case "text-transform":
		style.TextTransform = value
	case "letter-spacing":
		style.LetterSpacing = parseLength(value)
	case "word-spacing":
		style.WordSpacing = parseLength(value)
	case "white-space":
		style.WhiteSpace = value
	case "vertical-align":
		parseVerticalAlign(style, value)

	// ----- visual -----
	case "background":
		parseBackgroundShorthand(style, value)
	case "background-color":
		style.BackgroundColor = parseColor(value)
	case "background-image":
		style.BackgroundImage = value
	case "background-size":
		style.BackgroundSize = value
	case "background-position":
		style.BackgroundPosition = value
	case "background-repeat":
		style.BackgroundRepeat = value
	case "opacity":
		if v, err := strconv.ParseFloat(value, 64); err == nil {
			style.Opacity = v
		}
	case "visibility":
		style.Visibility = value
	case "box-shadow":
		style.BoxShadow = value
	case "cursor":
		style.Cursor = value
	case "transform":
		style.Transform = value

	// ----- list -----
	case "list-style-type":
		style.ListStyleType = value
	case "list-style-position":
		style.ListStylePosition = value
	case "list-style":
		for _, p := range strings.Fields(value) {
			switch {
			case p == "inside" || p == "outside":
				style.ListStylePosition = p
			case p != "none":
				style.ListStyleType = p
			}
		}

	// ----- table -----
	case "border-collapse":
		style.BorderCollapse = value
	case "border-spacing":
		style.BorderSpacing = parseLength(value)
	}
}

func parseLength(s string) values.Length {
	l, _ := values.ParseLength(s)
	return l
}

func parseColor(s string) values.Color {
	c, _ := values.ParseColor(s)
	return c
}

func parseBoxShorthand(value string) (top, right, bottom, left values.Length) {
	parts := strings.Fields(value)
	switch len(parts) {
	case 1:
		v := parseLength(parts[0])
		return v, v, v, v
	case 2:
		tb, lr := parseLength(parts[0]), parseLength(parts[1])
		return tb, lr, tb, lr
	case 3:
		t, lr, b := parseLength(parts[0]), parseLength(parts[1]), parseLength(parts[2])
		return t, lr, b, lr
	case 4:
		return parseLength(parts[0]), parseLength(parts[1]), parseLength(parts[2]), parseLength(parts[3])
	}
	return values.Zero(), values.Zero(), values.Zero(), values.Zero()
}

func parseBorderShorthand(style *values.ComputedStyle, value string) {
	for _, p := range strings.Fields(value) {
		if l, err := values.ParseLength(p); err == nil && !l.IsZero() {
			style.BorderTopWidth, style.BorderRightWidth = l, l
			style.BorderBottomWidth, style.BorderLeftWidth = l, l
			continue
		}
		if isBorderStyle(p) {
			style.BorderTopStyle, style.BorderRightStyle = p, p
			style.BorderBottomStyle, style.BorderLeftStyle = p, p
			continue
		}
		if c, err := values.ParseColor(p); err == nil {
			style.BorderTopColor, style.BorderRightColor = c, c
			style.BorderBottomColor, style.BorderLeftColor = c, c
		}
	}
}

func isBorderStyle(s string) bool {
	switch s {
	case "none", "solid", "dashed", "dotted", "double", "groove", "ridge", "inset", "outset":
		return true
	}
	return false
}

func parseFlexShorthand(style *values.ComputedStyle, value string) {
	switch value {
	case "none":
		style.FlexGrow, style.FlexShrink, style.FlexBasis = 0, 0, values.Auto()
		return
	case "auto":
		style.FlexGrow, style.FlexShrink, style.FlexBasis = 1, 1, values.Auto()
		return
	}
	parts := strings.Fields(value)
	// The single-number form ("flex: 1") is shorthand for "1 1 0%", not
	// "1 <unchanged-shrink> auto" (CSS Flexbox §7.1.1).
	style.FlexShrink, style.FlexBasis = 1, values.Zero()
	if len(parts) >= 1 {
		if v, err := strconv.ParseFloat(parts[0], 64); err == nil {
			style.FlexGrow = v
		}
	}
	if len(parts) >= 2 {
		if v, err := strconv.ParseFloat(parts[1], 64); err == nil {
			style.FlexShrink = v
		}
	}
	if len(parts) >= 3 {
		style.FlexBasis = parseLength(parts[2])
	}
}

var namedFontSizes = map[string]float64{
	"xx-small": 9, "x-small": 10, "small": 13, "medium": 16,
	"large": 18, "x-large": 24, "xx-large": 32, "xxx-large": 48,
	"smaller": 13, "larger": 19,
}

// parseFontSize resolves value to an absolute pixel size. em and % are
// relative to parentFontSize, not a fixed default (spec §4.4).
func parseFontSize(value string, parentFontSize float64) float64 {
	if size, ok := namedFontSizes[value]; ok {
		return size
	}
	l := parseLength(value)
	if l.Unit == values.UnitPercent {
		return l.Value / 100 * parentFontSize
	}
	ctx := values.DefaultContext()
	ctx.FontSize = parentFontSize
	return l.Resolve(ctx)
}

var namedFontWeights = map[string]int{
	"normal": 400, "bold": 700, "lighter": 300, "bolder": 600,
}

func parseFontWeight(value string) int {
	if w, ok := namedFontWeights[value]; ok {
		return w
	}
	if w, err := strconv.Atoi(value); err == nil {
		return w
	}
	return 400
}

func parseLineHeight(style *values.ComputedStyle, value string) {
	if value == "normal" {
		style.LineHeight, style.LineHeightUnit = 1.2, "number"
		return
	}
	if v, err := strconv.ParseFloat(value, 64); err == nil {
		style.LineHeight, style.LineHeightUnit = v, "number"
		return
	}
	l := parseLength(value)
	if l.Unit == values.UnitPercent {
		style.LineHeight, style.LineHeightUnit = l.Value/100*style.FontSize, "px"
		return
	}
	ctx := values.DefaultContext()
	ctx.FontSize = style.FontSize
	style.LineHeight = l.Resolve(ctx)
	style.LineHeightUnit = "px"
}

var verticalAlignKeywords = map[string]bool{
	"baseline": true, "top": true, "bottom": true, "middle": true,
	"text-top": true, "text-bottom": true, "sub": true, "super": true,
}

func parseVerticalAlign(style *values.ComputedStyle, value string) {
	if verticalAlignKeywords[value] {
		style.VerticalAlign = value
		return
	}
	if l, err := values.ParseLength(value); err == nil {
		style.VerticalAlign = "length"
		style.VerticalAlignLength = l
	}
}

func parseBackgroundShorthand(style *values.ComputedStyle, value string) {
	if c, err := values.ParseColor(value); err == nil {
		style.BackgroundColor = c
		return
	}
	if strings.HasPrefix(value, "url(") || strings.Contains(value, "gradient") {
		style.BackgroundImage = value
		return
	}
	for _, p := range strings.Fields(value) {
		if c, err := values.ParseColor(p); err == nil {
			style.BackgroundColor = c
		}
	}
}
