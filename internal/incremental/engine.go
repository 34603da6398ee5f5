// Package incremental implements the dependency-tracked recomputation
// engine (spec §4.11): every derived value (a computed style, a layout
// result, a display-list fragment) is memoized under a Key and only
// recomputed when one of the inputs it read on its last computation has
// changed.
package incremental

import (
	"fmt"
	"reflect"
	"sync"

	"gocko/internal/dom"
	"gocko/internal/engineerr"
)

// QueryKind names which derived value a Key refers to (spec §4.11 "a
// (NodeID, QueryKind)-keyed dependency graph").
type QueryKind int

const (
	QueryComputedStyle QueryKind = iota
	QueryLayout
	QueryDisplayList
)

func (k QueryKind) String() string {
	switch k {
	case QueryComputedStyle:
		return "computed-style"
	case QueryLayout:
		return "layout"
	case QueryDisplayList:
		return "display-list"
	default:
		return "unknown"
	}
}

// Key identifies one memoized query result.
type Key struct {
	Node dom.NodeID
	Kind QueryKind
}

// Recorder is handed to a query's compute function so it can declare which
// other keys its result depends on. Only keys passed to the Recorder become
// dependencies: a Get call made against Engine inside the compute function
// is not recorded on its own.
type Recorder func(dep Key)

type entry struct {
	value   any
	deps    map[Key]bool
	dirty   bool
	hasRun  bool
}

// Engine is the incremental query cache and dependency graph (spec §4.11).
type Engine struct {
	mu      sync.Mutex
	entries map[Key]*entry
	rdeps   map[Key]map[Key]bool
	stack   []Key
}

// New creates an empty Engine.
func New() *Engine {
	return &Engine{
		entries: make(map[Key]*entry),
		rdeps:   make(map[Key]map[Key]bool),
	}
}

// Get returns the memoized value for key, recomputing it via compute only
// if key is new or has been invalidated. compute receives a Recorder to
// declare the keys it depends on; nested Get calls on the same Engine are
// not recorded as dependencies unless also passed to the Recorder.
//
// Early-cut: if a recompute produces a value reflect.DeepEqual to the
// previous one, key's dirty flag clears without propagating invalidation to
// keys that depend on it (spec §4.11 "early-cut on unchanged output").
func (e *Engine) Get(key Key, compute func(rec Recorder) any) (any, error) {
	e.mu.Lock()
	for _, onStack := range e.stack {
		if onStack == key {
			e.mu.Unlock()
			return nil, engineerr.New(engineerr.Internal, fmt.Sprintf("cyclic dependency on %v", key))
		}
	}
	ent, ok := e.entries[key]
	if ok && ent.hasRun && !ent.dirty {
		value := ent.value
		e.mu.Unlock()
		return value, nil
	}
	e.stack = append(e.stack, key)
	e.mu.Unlock()

	deps := make(map[Key]bool)
	rec := func(dep Key) { deps[dep] = true }
	value := compute(rec)

	e.mu.Lock()
	e.stack = e.stack[:len(e.stack)-1]

	prev, existed := e.entries[key]
	changed := !existed || !prev.hasRun || !reflect.DeepEqual(prev.value, value)

	if existed {
		for dep := range prev.deps {
			if set := e.rdeps[dep]; set != nil {
				delete(set, key)
			}
		}
	}
	for dep := range deps {
		if e.rdeps[dep] == nil {
			e.rdeps[dep] = make(map[Key]bool)
		}
		e.rdeps[dep][key] = true
	}
	e.entries[key] = &entry{value: value, deps: deps, hasRun: true, dirty: false}
	e.mu.Unlock()

	if changed {
		e.propagateDirty(key)
	}
	return value, nil
}

// Invalidate marks key (typically a node whose underlying input — a DOM
// mutation, an attribute change — was just applied) dirty, along with
// every key in its reverse-dependency closure.
func (e *Engine) Invalidate(key Key) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.markDirtyLocked(key)
}

func (e *Engine) markDirtyLocked(key Key) {
	if ent, ok := e.entries[key]; ok {
		if ent.dirty {
			return
		}
		ent.dirty = true
	}
	for dep := range e.rdeps[key] {
		e.markDirtyLocked(dep)
	}
}

// propagateDirty marks every reverse dependent of key dirty; called after a
// recompute whose value changed, so downstream queries know to recompute
// next time they're requested.
func (e *Engine) propagateDirty(key Key) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for dep := range e.rdeps[key] {
		e.markDirtyLocked(dep)
	}
}

// InvalidateNode marks every QueryKind for node dirty — used when a DOM
// mutation (spec §4.1) touches node directly (SetAttr, UpdateText) and the
// caller doesn't know which derived queries read it.
func (e *Engine) InvalidateNode(node dom.NodeID) {
	for _, kind := range []QueryKind{QueryComputedStyle, QueryLayout, QueryDisplayList} {
		e.Invalidate(Key{Node: node, Kind: kind})
	}
}

// Forget removes key's memoized entry entirely — used when a node is
// removed from the DOM (spec §4.1 RemoveNode) so a later reused NodeID (for
// a re-inserted node — which never happens, since NodeID is never reused
// per spec §3, but a removed node's own future queries must still miss
// rather than resurrect a stale cached value) always recomputes.
func (e *Engine) Forget(node dom.NodeID) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, kind := range []QueryKind{QueryComputedStyle, QueryLayout, QueryDisplayList} {
		key := Key{Node: node, Kind: kind}
		delete(e.entries, key)
		delete(e.rdeps, key)
	}
}
