package core

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleGraph() Graph {
	g := NewGraph()
	g.Creators["cr1"] = Creator{ID: "cr1", Name: "Ada", AvatarURL: "https://example.com/a.png"}
	g.Categories["c1"] = Category{
		ID:      "c1",
		Label:   "Essays",
		Order:   0,
		PostIDs: []string{"p1"},
	}
	g.Posts["p1"] = Post{
		ID:         "p1",
		Label:      "First",
		Content:    "hello",
		CreatorID:  "cr1",
		CategoryID: "c1",
		Timestamp:  1_699_999_999_999,
	}
	return g
}

func TestCloneIsIndependent(t *testing.T) {
	original := sampleGraph()
	original.Posts["p1"] = Post{
		ID: "p1", Label: "First", Content: "hello",
		CreatorID: "cr1", CategoryID: "c1", Timestamp: 1_699_999_999_999,
		Extra: map[string]any{"pinned": true, "views": big.NewInt(42)},
	}

	clone := original.Clone()
	require.True(t, original.Equal(clone))

	// Mutating the clone must not leak into the original.
	cat := clone.Categories["c1"]
	cat.PostIDs = append(cat.PostIDs, "p2")
	cat.Label = "Changed"
	clone.Categories["c1"] = cat

	post := clone.Posts["p1"]
	post.Extra["pinned"] = false
	post.Extra["views"].(*big.Int).SetInt64(7)
	clone.Posts["p1"] = post

	assert.Equal(t, []string{"p1"}, original.Categories["c1"].PostIDs)
	assert.Equal(t, "Essays", original.Categories["c1"].Label)
	assert.Equal(t, true, original.Posts["p1"].Extra["pinned"])
	assert.Zero(t, original.Posts["p1"].Extra["views"].(*big.Int).Cmp(big.NewInt(42)))
}

func TestEqualIgnoresMapOrderButNotPostOrder(t *testing.T) {
	a := NewGraph()
	b := NewGraph()
	for _, id := range []string{"x", "y", "z"} {
		a.Creators[id] = Creator{ID: id, Name: id}
	}
	for _, id := range []string{"z", "x", "y"} {
		b.Creators[id] = Creator{ID: id, Name: id}
	}
	assert.True(t, a.Equal(b), "map insertion order must not affect equality")

	a.Categories["c"] = Category{ID: "c", Label: "L", PostIDs: []string{"p1", "p2"}}
	b.Categories["c"] = Category{ID: "c", Label: "L", PostIDs: []string{"p2", "p1"}}
	assert.False(t, a.Equal(b), "postIds order is display order and must be compared")
}

func TestEqualTreatsNilAndEmptyExtraAlike(t *testing.T) {
	a := Creator{ID: "cr", Name: "Ada", Extra: nil}
	b := Creator{ID: "cr", Name: "Ada", Extra: map[string]any{}}
	assert.True(t, a.Equal(b))
	assert.True(t, b.Equal(a))
}

func TestEqualComparesExtraStructurally(t *testing.T) {
	a := Post{ID: "p", Extra: map[string]any{
		"meta": map[string]any{"tags": []any{"a", "b"}},
		"big":  big.NewInt(1),
	}}
	b := Post{ID: "p", Extra: map[string]any{
		"meta": map[string]any{"tags": []any{"a", "b"}},
		"big":  big.NewInt(1),
	}}
	assert.True(t, a.Equal(b))

	b.Extra["meta"].(map[string]any)["tags"] = []any{"a", "c"}
	assert.False(t, a.Equal(b))
}

func TestNewIDIsUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewID()
		require.NotEmpty(t, id)
		require.False(t, seen[id])
		seen[id] = true
	}
}
