package css

import (
	"strings"

	"gocko/internal/dom"
)

// indexedRule pairs a Rule with the one ComplexSelector from it that
// matched a given bucket — a rule with multiple selectors in its selector
// list is indexed once per selector, so the matcher never re-parses.
type indexedRule struct {
	rule     *Rule
	selector ComplexSelector
}

// RuleIndex accelerates candidate selection with buckets by id, class, tag,
// and a universal bucket (spec §4.3 "a rule-indexing map accelerates
// candidate selection").
type RuleIndex struct {
	byID      map[string][]indexedRule
	byClass   map[string][]indexedRule
	byTag     map[string][]indexedRule
	universal []indexedRule
}

// BuildRuleIndex buckets every rule in sheet by the key (rightmost)
// compound of each of its selectors.
func BuildRuleIndex(sheet *Stylesheet) *RuleIndex {
	idx := &RuleIndex{
		byID:    make(map[string][]indexedRule),
		byClass: make(map[string][]indexedRule),
		byTag:   make(map[string][]indexedRule),
	}
	for i := range sheet.Rules {
		r := &sheet.Rules[i]
		for _, sel := range r.Selectors {
			idx.bucket(indexedRule{rule: r, selector: sel})
		}
	}
	return idx
}

func (idx *RuleIndex) bucket(ir indexedRule) {
	key := ir.selector.Compounds[len(ir.selector.Compounds)-1]
	switch {
	case key.ID != "":
		idx.byID[key.ID] = append(idx.byID[key.ID], ir)
	case len(key.Classes) > 0:
		for _, c := range key.Classes {
			lc := strings.ToLower(c)
			idx.byClass[lc] = append(idx.byClass[lc], ir)
		}
	case key.Tag != "":
		idx.byTag[key.Tag] = append(idx.byTag[key.Tag], ir)
	default:
		idx.universal = append(idx.universal, ir)
	}
}

// MatchingDeclarations returns every (rule, selector, specificity) match
// for node, scanning only the buckets that could possibly apply (spec
// §4.3).
func MatchingDeclarations(store *dom.Store, idx *RuleIndex, node dom.NodeID) []Match {
	type seenKey struct {
		rule *Rule
		raw  string
	}
	seen := make(map[seenKey]bool)
	var out []Match

	add := func(ir indexedRule) {
		key := seenKey{rule: ir.rule, raw: ir.selector.Raw}
		if seen[key] {
			return
		}
		if matchesComplex(store, ir.selector, node) {
			seen[key] = true
			out = append(out, Match{Rule: ir.rule, Selector: ir.selector, Specificity: ir.selector.Specificity()})
		}
	}

	if id, ok := store.Attr(node, "id"); ok {
		for _, ir := range idx.byID[id] {
			add(ir)
		}
	}
	for _, c := range store.Classes(node) {
		for _, ir := range idx.byClass[strings.ToLower(c)] {
			add(ir)
		}
	}
	if tag := store.Tag(node); tag != "" {
		for _, ir := range idx.byTag[tag] {
			add(ir)
		}
	}
	for _, ir := range idx.universal {
		add(ir)
	}
	return out
}

// Match is one selector-list match against a node, carrying enough to rank
// it in the cascade.
type Match struct {
	Rule        *Rule
	Selector    ComplexSelector
	Specificity Specificity
}

// MatchesComplex reports whether node satisfies sel. It is the exported
// entry point for callers outside the cascade — e.g. a querySelector
// implementation — that need to test one already-parsed selector against an
// arbitrary node rather than rank every rule in a stylesheet.
func MatchesComplex(store *dom.Store, sel ComplexSelector, node dom.NodeID) bool {
	return matchesComplex(store, sel, node)
}

// matchesComplex matches a complex selector right-to-left against node and
// its ancestors (spec §4.3).
func matchesComplex(store *dom.Store, sel ComplexSelector, node dom.NodeID) bool {
	n := len(sel.Compounds)
	if n == 0 {
		return false
	}
	if !matchesCompound(store, sel.Compounds[n-1], node) {
		return false
	}
	current := node
	for i := n - 2; i >= 0; i-- {
		comb := sel.Compounds[i+1].Combinator
		switch comb {
		case CombinatorChild:
			parent, ok := store.Parent(current)
			if !ok || !matchesCompound(store, sel.Compounds[i], parent) {
				return false
			}
			current = parent
		default: // CombinatorDescendant
			found := false
			cur := current
			for {
				parent, ok := store.Parent(cur)
				if !ok {
					break
				}
				if matchesCompound(store, sel.Compounds[i], parent) {
					current = parent
					found = true
					break
				}
				cur = parent
			}
			if !found {
				return false
			}
		}
	}
	return true
}

func matchesCompound(store *dom.Store, cp Compound, node dom.NodeID) bool {
	if store.IsText(node) {
		return false
	}
	if cp.Tag != "" && store.Tag(node) != cp.Tag {
		return false
	}
	if cp.ID != "" {
		if v, ok := store.Attr(node, "id"); !ok || v != cp.ID {
			return false
		}
	}
	for _, c := range cp.Classes {
		if !store.HasClass(node, c) {
			return false
		}
	}
	for _, a := range cp.Attrs {
		v, ok := store.Attr(node, a.Name)
		if !ok {
			return false
		}
		if a.HasEq && !strings.EqualFold(v, a.Value) {
			return false
		}
	}
	return true
}
