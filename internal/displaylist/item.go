// Package displaylist builds the serializable paint instruction stream
// consumed by an external painter (spec §4.12, §6 "Display-list schema").
// It never imports a rendering backend — internal/paint is the only
// consumer that knows about ebiten.
package displaylist

import (
	"encoding/json"

	"gocko/internal/geometry"
	"gocko/internal/style/values"
)

// ItemKind tags a display-list Item's variant.
type ItemKind int

const (
	ItemRect ItemKind = iota
	ItemText
	ItemBorder
	ItemBoxShadow
	ItemImage
	ItemLinearGradient
	ItemRadialGradient
	ItemBeginClip
	ItemEndClip
	ItemBeginStackingContext
	ItemEndStackingContext
)

func (k ItemKind) String() string {
	switch k {
	case ItemRect:
		return "rect"
	case ItemText:
		return "text"
	case ItemBorder:
		return "border"
	case ItemBoxShadow:
		return "box-shadow"
	case ItemImage:
		return "image"
	case ItemLinearGradient:
		return "linear-gradient"
	case ItemRadialGradient:
		return "radial-gradient"
	case ItemBeginClip:
		return "begin-clip"
	case ItemEndClip:
		return "end-clip"
	case ItemBeginStackingContext:
		return "begin-stacking-context"
	case ItemEndStackingContext:
		return "end-stacking-context"
	default:
		return "unknown"
	}
}

// Item is one paint instruction. Only the fields relevant to Kind are
// populated; the rest are zero. This mirrors spec §6's flat, tagged-union
// wire schema so a painter can switch on Kind alone.
type Item struct {
	Kind ItemKind
	Rect geometry.PixelRect

	// ItemRect / ItemBorder / ItemBoxShadow
	Color       values.Color
	BorderEdges BorderEdges
	ShadowBlur  int
	ShadowColor values.Color
	ShadowDX    int
	ShadowDY    int
	Radii       [4]int // top-left, top-right, bottom-right, bottom-left

	// ItemText
	Text       string
	FontFamily string
	FontSize   float64
	FontWeight int
	FontStyle  string
	Baseline   int

	// ItemImage
	ImageURL string

	// ItemLinearGradient / ItemRadialGradient
	GradientStops []GradientStop
	GradientAngle float64

	// ItemBeginStackingContext
	Opacity float64
}

// BorderEdges carries per-edge width, style, and color for an ItemBorder.
type BorderEdges struct {
	TopWidth, RightWidth, BottomWidth, LeftWidth     int
	TopStyle, RightStyle, BottomStyle, LeftStyle     string
	TopColor, RightColor, BottomColor, LeftColor      values.Color
}

// GradientStop is one color stop in a linear or radial gradient.
type GradientStop struct {
	Offset float64
	Color  values.Color
}

// MarshalJSON renders Kind as its string name for the `gocko run --out
// displaylist` JSON schema (spec §6 "Display-list schema").
func (it Item) MarshalJSON() ([]byte, error) {
	type alias Item
	return json.Marshal(struct {
		Kind string `json:"kind"`
		alias
		// Hides alias's int Kind, which would otherwise encode as "Kind".
		KindShade *struct{} `json:"Kind,omitempty"`
	}{Kind: it.Kind.String(), alias: alias(it)})
}
