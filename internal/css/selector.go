// Package css implements the CSS parser, selector matcher, and cascade
// (spec §4.2-§4.4): a streaming, brace-balanced stylesheet parser; a
// bucketed selector matcher keyed against an internal/dom.Store; and a
// winner-takes-all cascade over (origin, specificity, source order).
package css

import "strings"

// Combinator joins two compound selectors in a complex selector.
type Combinator int

const (
	// CombinatorNone marks the first (leftmost, matched last) compound.
	CombinatorNone Combinator = iota
	CombinatorDescendant
	CombinatorChild
)

// AttrMatch is a `[attr]` or `[attr=value]` simple selector.
type AttrMatch struct {
	Name  string
	Value string // "" means presence-only ([attr])
	HasEq bool
}

// Compound is one compound selector: a tag/universal plus zero or more
// class/id/attribute qualifiers, all of which must match the same node.
type Compound struct {
	Universal bool
	Tag       string // "" unless a tag was named; always lower-cased
	ID        string
	Classes   []string
	Attrs     []AttrMatch
	// Combinator is how this compound relates to the one before it (i.e.
	// to its left in source text, matched after it during right-to-left
	// matching). CombinatorNone on the first (leftmost) compound.
	Combinator Combinator
}

// ComplexSelector is a sequence of compounds joined by combinators,
// right-to-left matching order: Compounds[len-1] is the "key" compound that
// must match the candidate node itself.
type ComplexSelector struct {
	Compounds []Compound
	Raw       string
}

// Specificity is the (ids, classes-and-attrs, types) tuple of spec §3,
// compared lexicographically. Inline styles are not part of Specificity;
// they are handled as a separate "inline boost" flag in the cascade.
type Specificity struct {
	IDs, Classes, Types int
}

// Compare returns 1 if s > other, -1 if s < other, 0 if equal.
func (s Specificity) Compare(other Specificity) int {
	if s.IDs != other.IDs {
		return sign(s.IDs - other.IDs)
	}
	if s.Classes != other.Classes {
		return sign(s.Classes - other.Classes)
	}
	if s.Types != other.Types {
		return sign(s.Types - other.Types)
	}
	return 0
}

func sign(v int) int {
	if v > 0 {
		return 1
	}
	if v < 0 {
		return -1
	}
	return 0
}

// Specificity sums the specificity contribution of every compound.
func (c ComplexSelector) Specificity() Specificity {
	var spec Specificity
	for _, cp := range c.Compounds {
		if cp.ID != "" {
			spec.IDs++
		}
		spec.Classes += len(cp.Classes) + len(cp.Attrs)
		if cp.Tag != "" && !cp.Universal {
			spec.Types++
		}
	}
	return spec
}

// ParseSelectorList splits a comma-separated selector list and parses each
// complex selector (spec §4.2 "each selector list is split on `,`").
func ParseSelectorList(text string) []ComplexSelector {
	var out []ComplexSelector
	for _, part := range splitTopLevel(text, ',') {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if cs, ok := parseComplexSelector(part); ok {
			out = append(out, cs)
		}
	}
	return out
}

func parseComplexSelector(text string) (ComplexSelector, bool) {
	tokens, combs := tokenizeCombinators(text)
	if len(tokens) == 0 {
		return ComplexSelector{}, false
	}
	compounds := make([]Compound, 0, len(tokens))
	for i, tok := range tokens {
		cp, ok := parseCompound(tok)
		if !ok {
			return ComplexSelector{}, false
		}
		if i > 0 {
			cp.Combinator = combs[i-1]
		}
		compounds = append(compounds, cp)
	}
	return ComplexSelector{Compounds: compounds, Raw: text}, true
}

// tokenizeCombinators splits "div.a > span, em" style text (already without
// commas) into compound-selector tokens and the combinator following each
// one except the last.
func tokenizeCombinators(text string) ([]string, []Combinator) {
	var tokens []string
	var combs []Combinator
	var cur strings.Builder
	pendingChild := false

	flush := func() {
		tok := strings.TrimSpace(cur.String())
		if tok != "" {
			tokens = append(tokens, tok)
			if len(tokens) > 1 {
				if pendingChild {
					combs = append(combs, CombinatorChild)
				} else {
					combs = append(combs, CombinatorDescendant)
				}
			}
			pendingChild = false
		}
		cur.Reset()
	}

	i := 0
	for i < len(text) {
		c := text[i]
		switch {
		case c == '[':
			end := strings.IndexByte(text[i:], ']')
			if end == -1 {
				cur.WriteByte(c)
				i++
				continue
			}
			cur.WriteString(text[i : i+end+1])
			i += end + 1
			continue
		case c == '>':
			flush()
			pendingChild = true
			i++
		case c == ' ' || c == '\t' || c == '\n':
			flush()
			i++
		default:
			cur.WriteByte(c)
			i++
		}
	}
	flush()
	return tokens, combs
}

func parseCompound(text string) (Compound, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Compound{}, false
	}
	cp := Compound{}
	i := 0
	if text[0] == '*' {
		cp.Universal = true
		i = 1
	} else if isNameStart(text[0]) {
		start := i
		for i < len(text) && isNameChar(text[i]) {
			i++
		}
		cp.Tag = strings.ToLower(text[start:i])
	}
	for i < len(text) {
		switch text[i] {
		case '#':
			i++
			start := i
			for i < len(text) && isNameChar(text[i]) {
				i++
			}
			cp.ID = text[start:i]
		case '.':
			i++
			start := i
			for i < len(text) && isNameChar(text[i]) {
				i++
			}
			cp.Classes = append(cp.Classes, text[start:i])
		case '[':
			end := strings.IndexByte(text[i:], ']')
			if end == -1 {
				return cp, cp.Tag != "" || cp.Universal || cp.ID != "" || len(cp.Classes) > 0
			}
			inner := text[i+1 : i+end]
			i += end + 1
			if eq := strings.IndexByte(inner, '='); eq >= 0 {
				val := strings.Trim(strings.TrimSpace(inner[eq+1:]), `"'`)
				cp.Attrs = append(cp.Attrs, AttrMatch{Name: strings.TrimSpace(inner[:eq]), Value: val, HasEq: true})
			} else {
				cp.Attrs = append(cp.Attrs, AttrMatch{Name: strings.TrimSpace(inner)})
			}
		case ':':
			// Pseudo-classes, :root included, are parsed and discarded (spec §6).
			return cp, cp.Tag != "" || cp.Universal || cp.ID != "" || len(cp.Classes) > 0 || len(cp.Attrs) > 0
		default:
			i++
		}
	}
	if cp.Tag == "" && !cp.Universal && cp.ID == "" && len(cp.Classes) == 0 && len(cp.Attrs) == 0 {
		return cp, false
	}
	return cp, true
}

func isNameStart(c byte) bool {
	return c == '_' || c == '-' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isNameChar(c byte) bool {
	return isNameStart(c) || (c >= '0' && c <= '9')
}

// splitTopLevel splits s on sep, ignoring occurrences inside [] or quotes.
func splitTopLevel(s string, sep byte) []string {
	var out []string
	depth := 0
	var quote byte
	var cur strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			cur.WriteByte(c)
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
			cur.WriteByte(c)
		case c == '[' || c == '(':
			depth++
			cur.WriteByte(c)
		case c == ']' || c == ')':
			depth--
			cur.WriteByte(c)
		case c == sep && depth == 0:
			out = append(out, cur.String())
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
	}
	out = append(out, cur.String())
	return out
}
