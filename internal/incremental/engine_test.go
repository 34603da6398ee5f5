package incremental

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gocko/internal/dom"
)

// TestEngine_MemoizesUntilInvalidated verifies a Get call only recomputes
// after the key (or a dependency) is invalidated (spec §4.11's memoization
// contract).
func TestEngine_MemoizesUntilInvalidated(t *testing.T) {
	e := New()
	key := Key{Node: dom.NodeID(1), Kind: QueryComputedStyle}
	runs := 0

	compute := func(rec Recorder) any {
		runs++
		return runs
	}

	v1, err := e.Get(key, compute)
	require.NoError(t, err)
	assert.Equal(t, 1, v1)

	v2, err := e.Get(key, compute)
	require.NoError(t, err)
	assert.Equal(t, 1, v2, "second Get before invalidation must return the memoized value")

	e.Invalidate(key)
	v3, err := e.Get(key, compute)
	require.NoError(t, err)
	assert.Equal(t, 2, v3, "Get after Invalidate must recompute")
}

// TestEngine_ForgetClearsNodeEntirely verifies Forget removes a node's
// memoized entries outright (spec §4.1 RemoveNode), so a later query for
// that node never resurrects a stale cached value.
func TestEngine_ForgetClearsNodeEntirely(t *testing.T) {
	e := New()
	key := Key{Node: dom.NodeID(3), Kind: QueryLayout}

	runs := 0
	_, err := e.Get(key, func(rec Recorder) any { runs++; return runs })
	require.NoError(t, err)
	assert.Equal(t, 1, runs)

	// Without Forget, a second Get with no invalidation stays memoized.
	_, err = e.Get(key, func(rec Recorder) any { runs++; return runs })
	require.NoError(t, err)
	assert.Equal(t, 1, runs)

	e.Forget(dom.NodeID(3))
	_, err = e.Get(key, func(rec Recorder) any { runs++; return runs })
	require.NoError(t, err)
	assert.Equal(t, 2, runs, "Forget must force a fresh compute even without an explicit Invalidate")
}

// TestEngine_InvalidateNodeDirtiesAllItsKeys verifies InvalidateNode marks
// every QueryKind for that node dirty, not just one.
func TestEngine_InvalidateNodeDirtiesAllItsKeys(t *testing.T) {
	e := New()
	node := dom.NodeID(7)
	styleKey := Key{Node: node, Kind: QueryComputedStyle}
	layoutKey := Key{Node: node, Kind: QueryLayout}

	_, err := e.Get(styleKey, func(rec Recorder) any { return 1 })
	require.NoError(t, err)
	_, err = e.Get(layoutKey, func(rec Recorder) any { return 1 })
	require.NoError(t, err)

	e.InvalidateNode(node)

	styleRuns := 0
	_, err = e.Get(styleKey, func(rec Recorder) any { styleRuns++; return styleRuns })
	require.NoError(t, err)
	assert.Equal(t, 1, styleRuns, "style key must have recomputed after InvalidateNode")

	layoutRuns := 0
	_, err = e.Get(layoutKey, func(rec Recorder) any { layoutRuns++; return layoutRuns })
	require.NoError(t, err)
	assert.Equal(t, 1, layoutRuns, "layout key must have recomputed after InvalidateNode")
}
