package displaylist

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gocko/internal/geometry"
)

// TestItem_MarshalJSON_RendersKindAsString verifies the wire schema exposes
// Kind as a readable string (spec §6 "Display-list schema"), not its raw
// int encoding, and that the shadowed alias field never leaks a duplicate.
func TestItem_MarshalJSON_RendersKindAsString(t *testing.T) {
	it := Item{
		Kind: ItemRect,
		Rect: geometry.PixelRect{X: 1, Y: 2, Width: 3, Height: 4},
	}
	encoded, err := json.Marshal(it)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(encoded, &decoded))
	assert.Equal(t, "rect", decoded["kind"])

	count := 0
	for k := range decoded {
		if strings.EqualFold(k, "kind") {
			count++
		}
	}
	assert.Equal(t, 1, count, "kind must appear exactly once in the encoded object")
}

// TestItemKind_String_CoversEveryVariant verifies every declared ItemKind
// has a non-"unknown" string form, since the wire schema relies on it.
func TestItemKind_String_CoversEveryVariant(t *testing.T) {
	kinds := []ItemKind{
		ItemRect, ItemText, ItemBorder, ItemBoxShadow, ItemImage,
		ItemLinearGradient, ItemRadialGradient, ItemBeginClip, ItemEndClip,
		ItemBeginStackingContext, ItemEndStackingContext,
	}
	for _, k := range kinds {
		assert.NotEqual(t, "unknown", k.String(), "kind %d has no string form", k)
	}
}
