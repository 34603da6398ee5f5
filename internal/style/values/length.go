// Package values implements the CSS value types resolved by the cascade:
// lengths, colors, and the ComputedStyle record itself (spec §3, §4.4).
package values

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"gocko/internal/geometry"
)

// Unit is a CSS length unit (W3C CSS Values and Units Level 4, the subset
// named in spec §3/§4.4).
type Unit int

const (
	UnitPx Unit = iota
	UnitEm
	UnitRem
	UnitPercent
	UnitVw
	UnitVh
	UnitVmin
	UnitVmax
	UnitCh
	UnitEx
	UnitPt
	UnitCm
	UnitMm
	UnitIn
	UnitAuto
	UnitNone
)

// Length is a CSS length value with its authored unit, resolved against a
// ResolveContext at layout time.
type Length struct {
	Value float64
	Unit  Unit
}

func Zero() Length    { return Length{Value: 0, Unit: UnitPx} }
func Auto() Length    { return Length{Value: 0, Unit: UnitAuto} }
func None() Length    { return Length{Unit: UnitNone} }
func Px(v float64) Length  { return Length{Value: v, Unit: UnitPx} }
func Em(v float64) Length  { return Length{Value: v, Unit: UnitEm} }
func Rem(v float64) Length { return Length{Value: v, Unit: UnitRem} }
func Percent(v float64) Length { return Length{Value: v, Unit: UnitPercent} }
func Vw(v float64) Length { return Length{Value: v, Unit: UnitVw} }
func Vh(v float64) Length { return Length{Value: v, Unit: UnitVh} }

func (l Length) IsAuto() bool { return l.Unit == UnitAuto }
func (l Length) IsNone() bool { return l.Unit == UnitNone }
func (l Length) IsZero() bool { return l.Value == 0 && l.Unit != UnitAuto && l.Unit != UnitNone }

// ResolveContext bundles every input a Length, percentage, or font-relative
// unit needs to become a pixel value (spec §3 ConstraintSpace-adjacent
// inputs: font-size, percentage base, viewport).
type ResolveContext struct {
	FontSize       float64
	RootFontSize   float64
	ParentWidth    float64
	ParentHeight   float64
	ViewportWidth  float64
	ViewportHeight float64
	CharWidth      float64
	XHeight        float64
}

func DefaultContext() ResolveContext {
	return ResolveContext{
		FontSize: 16, RootFontSize: 16,
		ParentWidth: 0, ParentHeight: 0,
		ViewportWidth: 1024, ViewportHeight: 768,
		CharWidth: 8, XHeight: 8,
	}
}

// Resolve converts l to a pixel float64 against the inline/percentage-width
// axis. Percentages resolve against ParentWidth; use ResolveHeight for the
// block axis.
func (l Length) Resolve(ctx ResolveContext) float64 {
	switch l.Unit {
	case UnitPx:
		return l.Value
	case UnitEm:
		return l.Value * ctx.FontSize
	case UnitRem:
		return l.Value * ctx.RootFontSize
	case UnitPercent:
		return l.Value / 100 * ctx.ParentWidth
	case UnitVw:
		return l.Value / 100 * ctx.ViewportWidth
	case UnitVh:
		return l.Value / 100 * ctx.ViewportHeight
	case UnitVmin:
		m := ctx.ViewportWidth
		if ctx.ViewportHeight < m {
			m = ctx.ViewportHeight
		}
		return l.Value / 100 * m
	case UnitVmax:
		m := ctx.ViewportWidth
		if ctx.ViewportHeight > m {
			m = ctx.ViewportHeight
		}
		return l.Value / 100 * m
	case UnitCh:
		return l.Value * ctx.CharWidth
	case UnitEx:
		return l.Value * ctx.XHeight
	case UnitPt:
		return l.Value * 96 / 72
	case UnitCm:
		return l.Value * 96 / 2.54
	case UnitMm:
		return l.Value * 96 / 25.4
	case UnitIn:
		return l.Value * 96
	default: // UnitAuto, UnitNone
		return 0
	}
}

// ResolveHeight is Resolve but with percentages measured against
// ParentHeight, for the block axis.
func (l Length) ResolveHeight(ctx ResolveContext) float64 {
	if l.Unit == UnitPercent {
		return l.Value / 100 * ctx.ParentHeight
	}
	return l.Resolve(ctx)
}

// Subpixel resolves l and converts straight to the engine's internal
// fixed-point unit, so layout code never touches a raw float64 once a
// Length leaves the cascade.
func (l Length) Subpixel(ctx ResolveContext) geometry.Subpixel {
	return geometry.FromPixels(l.Resolve(ctx))
}

// SubpixelHeight is Subpixel but on the block axis (see ResolveHeight).
func (l Length) SubpixelHeight(ctx ResolveContext) geometry.Subpixel {
	return geometry.FromPixels(l.ResolveHeight(ctx))
}

func (l Length) String() string {
	switch l.Unit {
	case UnitAuto:
		return "auto"
	case UnitNone:
		return "none"
	}
	units := []string{"px", "em", "rem", "%", "vw", "vh", "vmin", "vmax", "ch", "ex", "pt", "cm", "mm", "in"}
	if int(l.Unit) < len(units) {
		return fmt.Sprintf("%g%s", l.Value, units[l.Unit])
	}
	return fmt.Sprintf("%gpx", l.Value)
}

var lengthUnits = map[string]Unit{
	"px": UnitPx, "em": UnitEm, "rem": UnitRem, "%": UnitPercent,
	"vw": UnitVw, "vh": UnitVh, "vmin": UnitVmin, "vmax": UnitVmax,
	"ch": UnitCh, "ex": UnitEx, "pt": UnitPt, "cm": UnitCm, "mm": UnitMm, "in": UnitIn,
}

// lengthSuffixesByLength lists lengthUnits' keys longest-first so ParseLength
// tries "rem"/"vmin"/"vmax" before the shorter suffixes ("em"/"in") that are
// themselves substrings of them — map iteration order is randomized in Go,
// so checking suffixes in map order would make rem/vmin/vmax parsing
// nondeterministic.
var lengthSuffixesByLength = func() []string {
	out := make([]string, 0, len(lengthUnits))
	for suffix := range lengthUnits {
		out = append(out, suffix)
	}
	sort.Slice(out, func(i, j int) bool { return len(out[i]) > len(out[j]) })
	return out
}()

// ParseLength parses a CSS length token. Unitless zero and "auto"/"none"
// are recognized as special cases; any other bare number is implicit px.
func ParseLength(s string) (Length, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	switch s {
	case "":
		return Zero(), fmt.Errorf("empty length")
	case "0":
		return Zero(), nil
	case "auto":
		return Auto(), nil
	case "none":
		return None(), nil
	}
	for _, suffix := range lengthSuffixesByLength {
		if strings.HasSuffix(s, suffix) {
			numStr := strings.TrimSuffix(s, suffix)
			v, err := strconv.ParseFloat(numStr, 64)
			if err != nil {
				return Zero(), fmt.Errorf("invalid length value %q", s)
			}
			return Length{Value: v, Unit: lengthUnits[suffix]}, nil
		}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Zero(), fmt.Errorf("invalid length %q", s)
	}
	return Px(v), nil
}
