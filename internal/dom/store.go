package dom

import (
	"fmt"
	"strings"
	"sync"

	"gocko/internal/engineerr"
	"gocko/internal/logging"
)

// Kind distinguishes element and text nodes, mirroring the teacher's
// dom.NodeType but scoped to what spec §3 actually models (no separate
// "document" node kind — NodeID(0) is the document/root).
type Kind int

const (
	KindElement Kind = iota
	KindText
)

type node struct {
	kind     Kind
	tag      string // element only, ASCII lower-cased
	text     string // text only
	parent   NodeID
	children []NodeID
	attrs    map[string]string
	attrKeys []string // insertion order, for stable iteration/serialization
}

func (n *node) getAttr(name string) (string, bool) {
	v, ok := n.attrs[strings.ToLower(name)]
	return v, ok
}

// Store is the authoritative mutable DOM tree: node identity, an attribute
// index (id -> node, class -> set<node>, tag -> set<node>), and fan-out of
// the mutation stream to subscribers. It is the single writer; every other
// component holds only NodeIDs and reads through Store's accessors.
type Store struct {
	mu sync.RWMutex

	nodes  map[NodeID]*node
	nextID NodeID

	byID    map[string]NodeID
	byClass map[string]map[NodeID]struct{}
	byTag   map[string]map[NodeID]struct{}

	subs []chan Batch

	ended bool
	log   *logging.Logger
}

// NewStore creates an empty document with just the root node.
func NewStore(log *logging.Logger) *Store {
	if log == nil {
		log = logging.Default()
	}
	s := &Store{
		nodes:   make(map[NodeID]*node),
		nextID:  RootID + 1,
		byID:    make(map[string]NodeID),
		byClass: make(map[string]map[NodeID]struct{}),
		byTag:   make(map[string]map[NodeID]struct{}),
		log:     log,
	}
	s.nodes[RootID] = &node{kind: KindElement, tag: "#document", attrs: map[string]string{}}
	s.byTag["#document"] = map[NodeID]struct{}{RootID: {}}
	return s
}

// MintID allocates a fresh, never-reused NodeID for a mutation about to be
// applied (the HTML parser / JS bridge call this before building a
// Mutation). It does not touch the tree.
func (s *Store) MintID() NodeID {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	return id
}

// Subscribe returns a channel that receives every batch applied from this
// point on, in order. Each subscriber sees the full ordered stream from its
// attach point (spec §4.1), delivered through a bounded channel; when a
// subscriber is not caught up, Apply blocks (sync-send) rather than drop a
// batch (spec §5 backpressure).
func (s *Store) Subscribe() <-chan Batch {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch := make(chan Batch, 64)
	s.subs = append(s.subs, ch)
	return ch
}

// Apply validates and applies a batch atomically: either every mutation
// succeeds or none do. Invalid batches are logged and dropped (spec §4.1,
// §7 InputMalformed).
func (s *Store) Apply(batch Batch) error {
	s.mu.Lock()

	if err := s.validate(batch); err != nil {
		s.mu.Unlock()
		s.log.Warn("dom: dropping malformed mutation batch", "error", err)
		return err
	}

	for _, m := range batch {
		s.applyOne(m)
	}
	subs := append([]chan Batch(nil), s.subs...)
	s.mu.Unlock()

	for _, ch := range subs {
		ch <- batch
	}
	return nil
}

func (s *Store) validate(batch Batch) error {
	for _, m := range batch {
		switch m.Kind {
		case InsertElement:
			if m.Node == RootID {
				return engineerr.New(engineerr.InputMalformed, "InsertElement cannot target ROOT")
			}
			if _, ok := s.nodes[m.Parent]; !ok {
				return engineerr.New(engineerr.InputMalformed, fmt.Sprintf("InsertElement: unknown parent %d", m.Parent))
			}
			if _, exists := s.nodes[m.Node]; exists {
				return engineerr.New(engineerr.InputMalformed, fmt.Sprintf("InsertElement: node %d already exists", m.Node))
			}
		case InsertText:
			if m.Node == RootID {
				return engineerr.New(engineerr.InputMalformed, "InsertText cannot target ROOT")
			}
			if _, ok := s.nodes[m.Parent]; !ok {
				return engineerr.New(engineerr.InputMalformed, fmt.Sprintf("InsertText: unknown parent %d", m.Parent))
			}
			if _, exists := s.nodes[m.Node]; exists {
				return engineerr.New(engineerr.InputMalformed, fmt.Sprintf("InsertText: node %d already exists", m.Node))
			}
		case UpdateText:
			n, ok := s.nodes[m.Node]
			if !ok || n.kind != KindText {
				return engineerr.New(engineerr.InputMalformed, fmt.Sprintf("UpdateText: unknown text node %d", m.Node))
			}
		case SetAttr:
			n, ok := s.nodes[m.Node]
			if !ok || n.kind != KindElement {
				return engineerr.New(engineerr.InputMalformed, fmt.Sprintf("SetAttr: unknown element %d", m.Node))
			}
		case RemoveNode:
			if m.Node == RootID {
				return engineerr.New(engineerr.InputMalformed, "RemoveNode cannot target ROOT")
			}
			if _, ok := s.nodes[m.Node]; !ok {
				return engineerr.New(engineerr.InputMalformed, fmt.Sprintf("RemoveNode: unknown node %d", m.Node))
			}
		case EndOfDocument:
			// always valid
		default:
			return engineerr.New(engineerr.InputMalformed, fmt.Sprintf("unknown mutation kind %v", m.Kind))
		}
	}
	return nil
}

// applyOne assumes m already passed validate() under s.mu.
func (s *Store) applyOne(m Mutation) {
	switch m.Kind {
	case InsertElement:
		n := &node{kind: KindElement, tag: strings.ToLower(m.Tag), parent: m.Parent, attrs: map[string]string{}}
		s.nodes[m.Node] = n
		s.insertChild(m.Parent, m.Node, m.Pos)
		s.indexTag(m.Node, n.tag)
	case InsertText:
		n := &node{kind: KindText, text: m.Text, parent: m.Parent}
		s.nodes[m.Node] = n
		s.insertChild(m.Parent, m.Node, m.Pos)
	case UpdateText:
		s.nodes[m.Node].text = m.Text
	case SetAttr:
		s.setAttr(m.Node, m.Name, m.Value)
	case RemoveNode:
		s.removeSubtree(m.Node)
	case EndOfDocument:
		s.ended = true
	}
}

func (s *Store) insertChild(parent, child NodeID, pos int) {
	p := s.nodes[parent]
	if pos < 0 || pos > len(p.children) {
		pos = len(p.children)
	}
	p.children = append(p.children, RootID)
	copy(p.children[pos+1:], p.children[pos:])
	p.children[pos] = child
}

func (s *Store) indexTag(id NodeID, tag string) {
	set, ok := s.byTag[tag]
	if !ok {
		set = make(map[NodeID]struct{})
		s.byTag[tag] = set
	}
	set[id] = struct{}{}
}

func (s *Store) setAttr(id NodeID, name, value string) {
	n := s.nodes[id]
	key := strings.ToLower(name)

	if old, had := n.attrs[key]; had && key == "id" {
		delete(s.byID, old)
	}
	if old, had := n.attrs[key]; had && key == "class" {
		for _, c := range strings.Fields(old) {
			if set, ok := s.byClass[strings.ToLower(c)]; ok {
				delete(set, id)
			}
		}
	}

	if value == "" {
		if _, had := n.attrs[key]; had {
			delete(n.attrs, key)
			n.attrKeys = removeString(n.attrKeys, key)
		}
	} else {
		if _, had := n.attrs[key]; !had {
			n.attrKeys = append(n.attrKeys, key)
		}
		n.attrs[key] = value

		if key == "id" {
			s.byID[value] = id
		}
		if key == "class" {
			for _, c := range strings.Fields(value) {
				lc := strings.ToLower(c)
				set, ok := s.byClass[lc]
				if !ok {
					set = make(map[NodeID]struct{})
					s.byClass[lc] = set
				}
				set[id] = struct{}{}
			}
		}
	}
}

func removeString(ss []string, s string) []string {
	for i, v := range ss {
		if v == s {
			return append(ss[:i], ss[i+1:]...)
		}
	}
	return ss
}

func (s *Store) removeSubtree(id NodeID) {
	n := s.nodes[id]
	if n == nil {
		return
	}
	if p := s.nodes[n.parent]; p != nil {
		for i, c := range p.children {
			if c == id {
				p.children = append(p.children[:i], p.children[i+1:]...)
				break
			}
		}
	}
	s.deindexAndDelete(id)
}

func (s *Store) deindexAndDelete(id NodeID) {
	n := s.nodes[id]
	if n == nil {
		return
	}
	for _, c := range n.children {
		s.deindexAndDelete(c)
	}
	if n.kind == KindElement {
		if idv, ok := n.attrs["id"]; ok {
			delete(s.byID, idv)
		}
		if cls, ok := n.attrs["class"]; ok {
			for _, c := range strings.Fields(cls) {
				if set, ok := s.byClass[strings.ToLower(c)]; ok {
					delete(set, id)
				}
			}
		}
		if set, ok := s.byTag[n.tag]; ok {
			delete(set, id)
		}
	}
	delete(s.nodes, id)
}
