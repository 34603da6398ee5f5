package values

import "image/color"

// ComputedStyle is the fully resolved, inheritance-aware set of visual
// properties for one node after the cascade (spec §3, §4.4). Field
// groupings follow the teacher's gocko/css/values.ComputedStyle layout;
// fields spec.md names that the teacher's version didn't carry (float,
// clear, direction, writing-mode, vertical-align, grid-auto-flow, custom
// properties) are added in place, grouped with their nearest relatives.
type ComputedStyle struct {
	// ===== BOX MODEL =====
	Width, Height         Length
	MinWidth, MaxWidth     Length
	MinHeight, MaxHeight   Length

	MarginTop, MarginRight, MarginBottom, MarginLeft Length
	PaddingTop, PaddingRight, PaddingBottom, PaddingLeft Length

	BorderTopWidth, BorderRightWidth, BorderBottomWidth, BorderLeftWidth Length
	BorderTopColor, BorderRightColor, BorderBottomColor, BorderLeftColor Color
	BorderTopStyle, BorderRightStyle, BorderBottomStyle, BorderLeftStyle string

	BorderTopLeftRadius, BorderTopRightRadius, BorderBottomRightRadius, BorderBottomLeftRadius Length

	BoxSizing string // content-box, border-box

	// ===== LAYOUT =====
	Display  string // block, inline, inline-block, flex, inline-flex, grid, none, contents, list-item
	Position string // static, relative, absolute, fixed, sticky
	Float    string // none, left, right
	Clear    string // none, left, right, both

	Top, Right, Bottom, Left Length

	Direction   string // ltr, rtl
	WritingMode string // horizontal-tb, vertical-rl, vertical-lr

	FlexDirection  string
	FlexWrap       string
	JustifyContent string
	AlignItems     string
	AlignContent   string
	Gap, RowGap, ColumnGap Length

	FlexGrow   float64
	FlexShrink float64
	FlexBasis  Length
	AlignSelf  string
	Order      int

	GridTemplateColumns string
	GridTemplateRows    string
	GridAutoFlow        string // row, column, row-dense, column-dense
	GridColumn          string
	GridRow              string
	JustifyItems        string
	JustifySelf         string

	OverflowX, OverflowY string

	ZIndex    int
	ZIndexSet bool

	// ===== TYPOGRAPHY =====
	Color          Color
	FontFamily     string
	FontSize       float64
	FontWeight     int
	FontStyle      string
	LineHeight     float64
	LineHeightUnit string // "px" or "number"
	TextAlign      string
	TextDecoration string
	TextTransform  string
	LetterSpacing  Length
	WordSpacing    Length
	WhiteSpace     string
	VerticalAlign  string // baseline, top, bottom, middle, text-top, text-bottom, sub, super, or a <length>
	VerticalAlignLength Length

	// ===== VISUAL =====
	BackgroundColor    Color
	BackgroundImage    string
	BackgroundSize     string
	BackgroundPosition string
	BackgroundRepeat   string

	Opacity    float64
	Visibility string

	BoxShadow string
	Cursor    string
	Transform string

	// ===== LIST =====
	ListStyleType     string
	ListStylePosition string

	// ===== TABLE =====
	BorderCollapse string
	BorderSpacing  Length

	// Custom properties (--x) collected per element, substituted into
	// var(--x, default) before the rest of the cascade runs (spec §6).
	CustomProperties map[string]string
}

// inheritedProperties lists the properties that, per spec §4.4, inherit
// from the parent's computed style when a node does not specify them.
var inheritedProperties = map[string]bool{
	"color": true, "font-family": true, "font-size": true, "font-weight": true,
	"font-style": true, "line-height": true, "text-align": true,
	"text-transform": true, "white-space": true, "letter-spacing": true,
	"word-spacing": true, "direction": true, "writing-mode": true,
	"visibility": true, "list-style-type": true, "list-style-position": true,
	"border-collapse": true, "cursor": true,
}

// Inherited reports whether property inherits from parent per spec §4.4.
func Inherited(property string) bool { return inheritedProperties[property] }

// NewComputedStyle returns the initial values spec.md's ComputedStyle needs
// before any cascade rule is applied — the engine's implicit "UA defaults"
// for properties not backed by an explicit UA-origin rule.
func NewComputedStyle() *ComputedStyle {
	return &ComputedStyle{
		Width: Auto(), Height: Auto(),
		MinWidth: Zero(), MaxWidth: None(),
		MinHeight: Zero(), MaxHeight: None(),
		BoxSizing: "content-box",

		Display: "inline", Position: "static", Float: "none", Clear: "none",
		Top: Auto(), Right: Auto(), Bottom: Auto(), Left: Auto(),
		Direction: "ltr", WritingMode: "horizontal-tb",

		FlexDirection: "row", FlexWrap: "nowrap",
		JustifyContent: "flex-start", AlignItems: "stretch", AlignContent: "stretch",
		FlexGrow: 0, FlexShrink: 1, FlexBasis: Auto(), AlignSelf: "auto",

		GridAutoFlow: "row", JustifyItems: "stretch", JustifySelf: "auto",

		OverflowX: "visible", OverflowY: "visible",

		Color: Black(), FontFamily: "sans-serif", FontSize: 16, FontWeight: 400,
		FontStyle: "normal", LineHeight: 1.2, LineHeightUnit: "number",
		TextAlign: "start", TextDecoration: "none", TextTransform: "none",
		WhiteSpace: "normal", VerticalAlign: "baseline",

		BackgroundColor: Transparent(), Opacity: 1.0, Visibility: "visible", Cursor: "auto",

		ListStyleType: "disc", ListStylePosition: "outside",
		BorderCollapse: "separate",

		CustomProperties: make(map[string]string),
	}
}

// Clone deep-copies cs (the CustomProperties map is not shared).
func (cs *ComputedStyle) Clone() *ComputedStyle {
	clone := *cs
	clone.CustomProperties = make(map[string]string, len(cs.CustomProperties))
	for k, v := range cs.CustomProperties {
		clone.CustomProperties[k] = v
	}
	return &clone
}

func (cs *ComputedStyle) GetColor() color.RGBA           { return cs.Color.ToRGBA() }
func (cs *ComputedStyle) GetBackgroundColor() color.RGBA { return cs.BackgroundColor.ToRGBA() }

func (cs *ComputedStyle) IsBlock() bool {
	switch cs.Display {
	case "block", "flex", "grid", "table", "list-item":
		return true
	}
	return false
}

func (cs *ComputedStyle) IsInline() bool  { return cs.Display == "inline" || cs.Display == "inline-block" }
func (cs *ComputedStyle) IsFlex() bool    { return cs.Display == "flex" || cs.Display == "inline-flex" }
func (cs *ComputedStyle) IsGrid() bool    { return cs.Display == "grid" || cs.Display == "inline-grid" }
func (cs *ComputedStyle) IsHidden() bool  { return cs.Display == "none" || cs.Visibility == "hidden" }
func (cs *ComputedStyle) IsFloated() bool { return cs.Float == "left" || cs.Float == "right" }

// IsPositioned reports whether the element participates in positioned-
// element containing-block resolution (spec §4.10): anything but static.
func (cs *ComputedStyle) IsPositioned() bool { return cs.Position != "static" }

// EstablishesBFC reports whether this element is a new block-formatting
// context root (spec §4.6 "a child that establishes a BFC does not
// collapse with its neighbors").
func (cs *ComputedStyle) EstablishesBFC() bool {
	return cs.IsFloated() || cs.Position == "absolute" || cs.Position == "fixed" ||
		cs.OverflowX != "visible" || cs.OverflowY != "visible" || cs.IsFlex() || cs.IsGrid()
}

func (cs *ComputedStyle) GetMargin() [4]Length {
	return [4]Length{cs.MarginTop, cs.MarginRight, cs.MarginBottom, cs.MarginLeft}
}
func (cs *ComputedStyle) GetPadding() [4]Length {
	return [4]Length{cs.PaddingTop, cs.PaddingRight, cs.PaddingBottom, cs.PaddingLeft}
}
func (cs *ComputedStyle) GetBorderWidth() [4]Length {
	return [4]Length{cs.BorderTopWidth, cs.BorderRightWidth, cs.BorderBottomWidth, cs.BorderLeftWidth}
}

// ResolveWidth resolves Width against ctx; auto resolves to the parent's
// content width (final resolution for auto happens in block layout, which
// needs margin context too — this is the bare Length resolution).
func (cs *ComputedStyle) ResolveWidth(ctx ResolveContext) float64 {
	if cs.Width.IsAuto() {
		return ctx.ParentWidth
	}
	return cs.Width.Resolve(ctx)
}

// ResolveHeight resolves Height against ctx; auto is signaled as -1 (the
// caller must compute height from content).
func (cs *ComputedStyle) ResolveHeight(ctx ResolveContext) float64 {
	if cs.Height.IsAuto() {
		return -1
	}
	return cs.Height.ResolveHeight(ctx)
}

// ResolvedLineHeight converts LineHeight to an absolute pixel value given a
// font-size (spec §4.4 "line-height: normal -> 1.2 multiplier; a bare
// number is a multiplier; px/em is resolved to a multiplier").
func (cs *ComputedStyle) ResolvedLineHeight() float64 {
	if cs.LineHeightUnit == "px" {
		return cs.LineHeight
	}
	return cs.LineHeight * cs.FontSize
}
