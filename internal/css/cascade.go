package css

import (
	"strings"

	"gocko/internal/dom"
	"gocko/internal/incremental"
	"gocko/internal/style/properties"
	"gocko/internal/style/values"
)

// Cascade resolves ComputedStyle for every node in a Store against a merged
// Stylesheet's RuleIndex (spec §4.4). It is the glue between selector
// matching (matcher.go) and property application (internal/style/properties).
type Cascade struct {
	store *dom.Store
	index *RuleIndex
}

// NewCascade builds a Cascade over store using idx for candidate selection.
func NewCascade(store *dom.Store, idx *RuleIndex) *Cascade {
	return &Cascade{store: store, index: idx}
}

// entry is one declaration in cascade-priority-comparable form.
type entry struct {
	property    string
	value       string
	important   bool
	inline      bool
	origin      Origin
	specificity Specificity
	sourceOrder int
}

// winsOver reports whether a outranks b per spec §4.4's winner rule: inline
// boost, then !important, then origin, then specificity, then source order.
func (a entry) winsOver(b entry) bool {
	if a.inline != b.inline {
		return a.inline
	}
	if a.important != b.important {
		return a.important
	}
	if a.origin != b.origin {
		return a.origin > b.origin
	}
	if cmp := a.specificity.Compare(b.specificity); cmp != 0 {
		return cmp > 0
	}
	return a.sourceOrder > b.sourceOrder
}

// ResolveTree computes a ComputedStyle for every node reachable from root,
// in document order, so each node's inherited properties can be seeded from
// its already-resolved parent (spec §4.4 "inheritance flows parent before
// child").
func (c *Cascade) ResolveTree(root dom.NodeID) map[dom.NodeID]*values.ComputedStyle {
	out := make(map[dom.NodeID]*values.ComputedStyle)
	var walk func(id dom.NodeID, parent *values.ComputedStyle)
	walk = func(id dom.NodeID, parent *values.ComputedStyle) {
		style := c.ResolveNode(id, parent)
		out[id] = style
		for _, child := range c.store.Children(id) {
			walk(child, style)
		}
	}
	walk(root, nil)
	return out
}

// ResolveNode computes the ComputedStyle for a single node given its
// parent's already-resolved style (nil for the document root). Text nodes
// inherit their parent's style wholesale — they carry no declarations of
// their own (spec §3 "a text node has no box-model properties").
func (c *Cascade) ResolveNode(node dom.NodeID, parent *values.ComputedStyle) *values.ComputedStyle {
	if c.store.IsText(node) {
		if parent != nil {
			return parent
		}
		return values.NewComputedStyle()
	}

	style := values.NewComputedStyle()
	if parent != nil {
		inheritFrom(style, parent)
	}

	var entries []entry
	for _, m := range MatchingDeclarations(c.store, c.index, node) {
		for _, d := range m.Rule.Declarations {
			entries = append(entries, entry{
				property:    d.Property,
				value:       d.Value,
				important:   d.Important,
				origin:      m.Rule.Origin,
				specificity: m.Specificity,
				sourceOrder: m.Rule.SourceOrder,
			})
		}
	}
	if styleAttr, ok := c.store.Attr(node, "style"); ok && styleAttr != "" {
		for _, d := range ParseInlineStyle(styleAttr) {
			entries = append(entries, entry{
				property:  d.Property,
				value:     d.Value,
				important: d.Important,
				inline:    true,
				origin:    OriginAuthor,
			})
		}
	}

	winners := make(map[string]entry)
	for _, e := range entries {
		cur, ok := winners[e.property]
		if !ok || e.winsOver(cur) {
			winners[e.property] = e
		}
	}

	// Custom properties (--x) are stored before var() substitution runs, so
	// a declaration on the same node can reference a custom property
	// declared earlier in the same winners set (spec §6).
	for prop, e := range winners {
		if strings.HasPrefix(prop, "--") {
			properties.ParseProperty(style, prop, e.value)
		}
	}
	// font-size is applied before the remaining properties so that any
	// em-relative value on the same node (line-height, padding, ...)
	// resolves against this node's own computed font-size, not the
	// parent's (spec §4.4).
	if e, ok := winners["font-size"]; ok {
		value := substituteVars(e.value, style.CustomProperties)
		properties.ParseProperty(style, "font-size", value)
	}
	for prop, e := range winners {
		if strings.HasPrefix(prop, "--") || prop == "font-size" {
			continue
		}
		value := substituteVars(e.value, style.CustomProperties)
		properties.ParseProperty(style, prop, value)
	}

	return style
}

// ResolveTreeIncremental resolves the same result as ResolveTree, but routes
// every node's ComputedStyle through engine's (NodeId, QueryKind) memo table
// (spec §4.11): a node's compute function records its parent's
// QueryComputedStyle key as a dependency (inheritance flows parent->child),
// so InvalidateNode on one node also dirties every descendant already known
// to depend on it — recomputing only the affected subtree on the next call,
// and leaving every other node's entry, and its *values.ComputedStyle
// pointer, untouched.
func (c *Cascade) ResolveTreeIncremental(engine *incremental.Engine, root dom.NodeID) (map[dom.NodeID]*values.ComputedStyle, error) {
	out := make(map[dom.NodeID]*values.ComputedStyle)
	var walk func(id dom.NodeID, parent *values.ComputedStyle) error
	walk = func(id dom.NodeID, parent *values.ComputedStyle) error {
		key := incremental.Key{Node: id, Kind: incremental.QueryComputedStyle}
		parentID, hasParent := c.store.Parent(id)

		value, err := engine.Get(key, func(rec incremental.Recorder) any {
			if hasParent {
				rec(incremental.Key{Node: parentID, Kind: incremental.QueryComputedStyle})
			}
			return c.ResolveNode(id, parent)
		})
		if err != nil {
			return err
		}
		style := value.(*values.ComputedStyle)
		out[id] = style

		for _, child := range c.store.Children(id) {
			if err := walk(child, style); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(root, nil); err != nil {
		return nil, err
	}
	return out, nil
}

// inheritFrom copies every spec §4.4 inherited property from parent into
// style, plus custom properties (which always inherit in CSS).
func inheritFrom(style, parent *values.ComputedStyle) {
	style.Color = parent.Color
	style.FontFamily = parent.FontFamily
	style.FontSize = parent.FontSize
	style.FontWeight = parent.FontWeight
	style.FontStyle = parent.FontStyle
	style.LineHeight = parent.LineHeight
	style.LineHeightUnit = parent.LineHeightUnit
	style.TextAlign = parent.TextAlign
	style.TextTransform = parent.TextTransform
	style.WhiteSpace = parent.WhiteSpace
	style.LetterSpacing = parent.LetterSpacing
	style.WordSpacing = parent.WordSpacing
	style.Direction = parent.Direction
	style.WritingMode = parent.WritingMode
	style.Visibility = parent.Visibility
	style.ListStyleType = parent.ListStyleType
	style.ListStylePosition = parent.ListStylePosition
	style.BorderCollapse = parent.BorderCollapse
	style.Cursor = parent.Cursor
	for k, v := range parent.CustomProperties {
		style.CustomProperties[k] = v
	}
}

// substituteVars replaces every var(--name) or var(--name, default) token in
// value with its resolved custom property, falling back to the supplied
// default (or leaving the token untouched if neither resolves — spec §6).
// Nested var() in the default position is resolved innermost-first because
// each pass replaces the first (outermost-opening) occurrence and re-scans.
func substituteVars(value string, custom map[string]string) string {
	for {
		idx := strings.Index(value, "var(")
		if idx == -1 {
			return value
		}
		open := idx + 3
		end := findMatchingParen(value, open)
		if end == -1 {
			return value
		}
		name, def := splitVarArgs(value[open+1 : end])
		resolved, ok := custom[name]
		if !ok {
			resolved = substituteVars(def, custom)
		}
		value = value[:idx] + resolved + value[end+1:]
	}
}

func findMatchingParen(s string, start int) int {
	depth := 1
	var quote byte
	for i := start + 1; i < len(s); i++ {
		c := s[i]
		if quote != 0 {
			if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'':
			quote = c
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func splitVarArgs(inner string) (name, def string) {
	depth := 0
	for i := 0; i < len(inner); i++ {
		switch inner[i] {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				return strings.TrimSpace(inner[:i]), strings.TrimSpace(inner[i+1:])
			}
		}
	}
	return strings.TrimSpace(inner), ""
}
