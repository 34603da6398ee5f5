package dom

import "strings"

// Synchronous accessors for JS host calls and the selector matcher (spec
// §4.1). All of these take the read lock; none ever blocks on Apply for
// longer than a lookup.

// Tag returns the lower-cased tag name of an element node, or "" for a text
// node or unknown id.
func (s *Store) Tag(id NodeID) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if n := s.nodes[id]; n != nil && n.kind == KindElement {
		return n.tag
	}
	return ""
}

// IsText reports whether id names a text node.
func (s *Store) IsText(id NodeID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := s.nodes[id]
	return n != nil && n.kind == KindText
}

// Exists reports whether id currently names a live node.
func (s *Store) Exists(id NodeID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.nodes[id]
	return ok
}

// Parent returns the parent of id, or (0, false) for ROOT or an unknown id.
func (s *Store) Parent(id NodeID) (NodeID, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := s.nodes[id]
	if n == nil || id == RootID {
		return 0, false
	}
	return n.parent, true
}

// Children returns a copy of id's ordered child list.
func (s *Store) Children(id NodeID) []NodeID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := s.nodes[id]
	if n == nil {
		return nil
	}
	out := make([]NodeID, len(n.children))
	copy(out, n.children)
	return out
}

// Attr returns an attribute value and whether it was present. Names are
// compared case-insensitively; "id" values are stored verbatim (case
// preserved) but looked up here by exact key match as authored.
func (s *Store) Attr(id NodeID, name string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := s.nodes[id]
	if n == nil || n.kind != KindElement {
		return "", false
	}
	return n.getAttr(name)
}

// Attrs returns a stable-ordered copy of id's attribute list.
func (s *Store) Attrs(id NodeID) []Attr {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := s.nodes[id]
	if n == nil || n.kind != KindElement {
		return nil
	}
	out := make([]Attr, 0, len(n.attrKeys))
	for _, k := range n.attrKeys {
		out = append(out, Attr{Name: k, Value: n.attrs[k]})
	}
	return out
}

// Attr is a name/value pair in authored order.
type Attr struct{ Name, Value string }

// Classes returns the node's class list, split on ASCII whitespace.
func (s *Store) Classes(id NodeID) []string {
	v, ok := s.Attr(id, "class")
	if !ok {
		return nil
	}
	return strings.Fields(v)
}

// HasClass reports case-insensitive class membership.
func (s *Store) HasClass(id NodeID, class string) bool {
	class = strings.ToLower(class)
	for _, c := range s.Classes(id) {
		if strings.ToLower(c) == class {
			return true
		}
	}
	return false
}

// TextOf returns the literal text payload of a text node, or "".
func (s *Store) TextOf(id NodeID) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := s.nodes[id]
	if n == nil || n.kind != KindText {
		return ""
	}
	return n.text
}

// TextContent concatenates the text content of id and all descendants,
// depth-first, matching the teacher's dom.Node.TextContent idiom.
func (s *Store) TextContent(id NodeID) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var sb strings.Builder
	s.textContentLocked(id, &sb)
	return strings.TrimSpace(sb.String())
}

func (s *Store) textContentLocked(id NodeID, sb *strings.Builder) {
	n := s.nodes[id]
	if n == nil {
		return
	}
	if n.kind == KindText {
		sb.WriteString(n.text)
		return
	}
	for _, c := range n.children {
		s.textContentLocked(c, sb)
		sb.WriteString(" ")
	}
}

// GetElementByID finds the single element whose "id" attribute equals id.
func (s *Store) GetElementByID(id string) (NodeID, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n, ok := s.byID[id]
	return n, ok
}

// GetElementsByClassName returns every element carrying the given class,
// in document order.
func (s *Store) GetElementsByClassName(class string) []NodeID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	set := s.byClass[strings.ToLower(class)]
	return s.orderedLocked(set)
}

// GetElementsByTagName returns every element with the given tag name, in
// document order.
func (s *Store) GetElementsByTagName(tag string) []NodeID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	set := s.byTag[strings.ToLower(tag)]
	return s.orderedLocked(set)
}

func (s *Store) orderedLocked(set map[NodeID]struct{}) []NodeID {
	if len(set) == 0 {
		return nil
	}
	var out []NodeID
	var walk func(NodeID)
	walk = func(id NodeID) {
		n := s.nodes[id]
		if n == nil {
			return
		}
		if _, ok := set[id]; ok {
			out = append(out, id)
		}
		for _, c := range n.children {
			walk(c)
		}
	}
	walk(RootID)
	return out
}

// Ancestors returns every ancestor of id, nearest first, root last.
func (s *Store) Ancestors(id NodeID) []NodeID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []NodeID
	n := s.nodes[id]
	if n == nil || id == RootID {
		return nil
	}
	cur := n.parent
	for {
		out = append(out, cur)
		if cur == RootID {
			break
		}
		p := s.nodes[cur]
		if p == nil {
			break
		}
		cur = p.parent
	}
	return out
}

// Depth returns id's depth in the tree; ROOT is depth 0.
func (s *Store) Depth(id NodeID) int {
	return len(s.Ancestors(id))
}
