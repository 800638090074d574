package session

import (
	"context"
	"errors"
	"testing"

	"studio-backend/domain/core"
	"studio-backend/infrastructure/persistence/memory"
	pkgerrors "studio-backend/pkg/errors"
	"studio-backend/pkg/wirecodec"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func seedPayload() wirecodec.Payload {
	g := core.NewGraph()
	g.Creators["cr1"] = core.Creator{ID: "cr1", Name: "Ada"}
	g.Categories["c1"] = core.Category{ID: "c1", Label: "Essays", Order: 0, PostIDs: []string{"p1"}}
	g.Categories["c2"] = core.Category{ID: "c2", Label: "Notes", Order: 1, PostIDs: []string{}}
	g.Posts["p1"] = core.Post{
		ID:         "p1",
		Label:      "First",
		Content:    "hello",
		CreatorID:  "cr1",
		CategoryID: "c1",
		Timestamp:  1_699_999_999_999,
	}
	return wirecodec.Encode(g)
}

func newLoadedEngine(t *testing.T) (*Engine, *memory.ContentStore) {
	t.Helper()
	store := memory.NewContentStoreWithPayload(seedPayload())
	engine := NewEngine(store, nil, zap.NewNop())
	engine.Load(context.Background())
	return engine, store
}

func TestMutationsBeforeLoadAreRejected(t *testing.T) {
	engine := NewEngine(memory.NewContentStore(), nil, zap.NewNop())
	err := engine.CreateCreator(core.Creator{ID: "x", Name: "X"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, pkgerrors.ErrSessionNotLoaded))

	_, ok := engine.Working()
	assert.False(t, ok)
	assert.False(t, engine.IsDirty())
}

func TestLoadResetsBaselineAndWorking(t *testing.T) {
	engine, _ := newLoadedEngine(t)

	working, ok := engine.Working()
	require.True(t, ok)
	baseline, ok := engine.Baseline()
	require.True(t, ok)
	assert.True(t, working.Equal(baseline))
	assert.False(t, engine.IsDirty())
}

func TestLoadFailureDegradesToEmptySession(t *testing.T) {
	store := memory.NewContentStore()
	store.FailFetch = errors.New("backend down")
	engine := NewEngine(store, nil, zap.NewNop())

	working := engine.Load(context.Background())
	assert.Empty(t, working.Creators)
	assert.Empty(t, working.Posts)

	_, hasBaseline := engine.Baseline()
	assert.False(t, hasBaseline, "a degraded session has no baseline")
	assert.True(t, engine.IsDirty())

	// The session is still editable.
	require.NoError(t, engine.CreateCreator(core.Creator{ID: "cr", Name: "New"}))
}

func TestDirtyLifecycle(t *testing.T) {
	engine, _ := newLoadedEngine(t)
	assert.False(t, engine.IsDirty())

	require.NoError(t, engine.CreateCreator(core.Creator{ID: "cr2", Name: "Grace"}))
	assert.True(t, engine.IsDirty())

	require.NoError(t, engine.DeleteCreator("cr2"))
	assert.False(t, engine.IsDirty(), "undoing the edit must compare clean again")
}

func TestWorkingReturnsCopy(t *testing.T) {
	engine, _ := newLoadedEngine(t)
	working, _ := engine.Working()
	working.Creators["cr1"] = core.Creator{ID: "cr1", Name: "Tampered"}
	assert.False(t, engine.IsDirty(), "mutating the returned copy must not touch the session")
}

func TestCreateRejectsIDCollision(t *testing.T) {
	engine, _ := newLoadedEngine(t)
	err := engine.CreateCreator(core.Creator{ID: "cr1", Name: "Dup"})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsConflict(err))

	err = engine.CreatePost(core.Post{ID: "p1"})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsConflict(err))
}

func TestUpdateMissingEntityFails(t *testing.T) {
	engine, _ := newLoadedEngine(t)
	err := engine.UpdateCreator(core.Creator{ID: "ghost", Name: "X"})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestUpdatePostCannotChangeCategory(t *testing.T) {
	engine, _ := newLoadedEngine(t)
	require.NoError(t, engine.UpdatePost(core.Post{
		ID: "p1", Label: "Edited", Content: "new", CreatorID: "cr1",
		CategoryID: "c2", Timestamp: 1_699_999_999_999,
	}))
	working, _ := engine.Working()
	assert.Equal(t, "c1", working.Posts["p1"].CategoryID,
		"category membership changes only through relocation")
	assert.Equal(t, "Edited", working.Posts["p1"].Label)
}

func TestRelocatePostMovesMembership(t *testing.T) {
	engine, _ := newLoadedEngine(t)
	require.NoError(t, engine.RelocatePost("p1", "c2"))

	working, _ := engine.Working()
	assert.Equal(t, "c2", working.Posts["p1"].CategoryID)
	assert.NotContains(t, working.Categories["c1"].PostIDs, "p1")
	assert.Contains(t, working.Categories["c2"].PostIDs, "p1")
}

func TestRelocatePostIsIdempotent(t *testing.T) {
	engine, _ := newLoadedEngine(t)
	require.NoError(t, engine.RelocatePost("p1", "c2"))
	require.NoError(t, engine.RelocatePost("p1", "c2"))

	working, _ := engine.Working()
	count := 0
	for _, id := range working.Categories["c2"].PostIDs {
		if id == "p1" {
			count++
		}
	}
	assert.Equal(t, 1, count, "relocating to the current category must not duplicate membership")
}

func TestRelocatePostToUnknownCategory(t *testing.T) {
	engine, _ := newLoadedEngine(t)
	err := engine.RelocatePost("p1", "ghost")
	require.Error(t, err)
	domainErr := pkgerrors.GetDomainError(err)
	require.NotNil(t, domainErr)
	assert.Equal(t, "UNKNOWN_CATEGORY", domainErr.Code)
}

func TestRelocatePostToUnknownCategoryLeavesWorkingCopyIntact(t *testing.T) {
	engine, _ := newLoadedEngine(t)
	require.Error(t, engine.RelocatePost("p1", "ghost"))

	// A failed relocation must not half-apply: the post keeps its category
	// and is still listed by it.
	working, _ := engine.Working()
	assert.Equal(t, "c1", working.Posts["p1"].CategoryID)
	assert.Contains(t, working.Categories["c1"].PostIDs, "p1")
	assert.False(t, engine.IsDirty())
}

func TestRelocatePostToEmptyClearsCategory(t *testing.T) {
	engine, _ := newLoadedEngine(t)
	require.NoError(t, engine.RelocatePost("p1", ""))

	working, _ := engine.Working()
	assert.Equal(t, "", working.Posts["p1"].CategoryID)
	assert.NotContains(t, working.Categories["c1"].PostIDs, "p1")
}

func TestDeletePostRemovesMembership(t *testing.T) {
	engine, _ := newLoadedEngine(t)
	require.NoError(t, engine.DeletePost("p1"))

	working, _ := engine.Working()
	assert.NotContains(t, working.Posts, "p1")
	assert.NotContains(t, working.Categories["c1"].PostIDs, "p1")
}

func TestDeleteCategoryOrphansMemberPosts(t *testing.T) {
	engine, _ := newLoadedEngine(t)
	require.NoError(t, engine.DeleteCategory("c1"))

	working, _ := engine.Working()
	assert.NotContains(t, working.Categories, "c1")
	require.Contains(t, working.Posts, "p1")
	assert.Equal(t, "", working.Posts["p1"].CategoryID,
		"posts of a deleted category stay in the graph without a category")

	// The orphaned post blocks saving until relocated or deleted.
	err := engine.Save(context.Background())
	require.Error(t, err)
	assert.True(t, pkgerrors.IsValidation(err))

	require.NoError(t, engine.RelocatePost("p1", "c2"))
	require.NoError(t, engine.Save(context.Background()))
}

func TestNormalizeCategoryOrderIsContiguous(t *testing.T) {
	engine, _ := newLoadedEngine(t)
	require.NoError(t, engine.CreateCategory(core.Category{ID: "c3", Label: "Drafts", Order: 40}))
	require.NoError(t, engine.CreateCategory(core.Category{ID: "c4", Label: "Archive", Order: 40}))

	engine.NormalizeCategoryOrder()

	working, _ := engine.Working()
	seen := make(map[int64]string, len(working.Categories))
	for id, c := range working.Categories {
		prev, dup := seen[c.Order]
		require.False(t, dup, "orders must be unique, %s and %s share %d", prev, id, c.Order)
		seen[c.Order] = id
	}
	for rank := int64(0); rank < int64(len(working.Categories)); rank++ {
		assert.Contains(t, seen, rank, "orders must be contiguous from 0")
	}
	// Equal orders break ties on id.
	assert.Less(t, working.Categories["c3"].Order, working.Categories["c4"].Order)
}

func TestNormalizeCategoryOrderIsIdempotent(t *testing.T) {
	engine, _ := newLoadedEngine(t)
	engine.NormalizeCategoryOrder()
	snapshot, _ := engine.Working()
	engine.NormalizeCategoryOrder()
	again, _ := engine.Working()
	assert.True(t, snapshot.Equal(again))
}

func TestReorderCategories(t *testing.T) {
	engine, _ := newLoadedEngine(t)
	require.NoError(t, engine.ReorderCategories([]string{"c2", "c1"}))

	working, _ := engine.Working()
	assert.Equal(t, int64(0), working.Categories["c2"].Order)
	assert.Equal(t, int64(1), working.Categories["c1"].Order)

	err := engine.ReorderCategories([]string{"ghost"})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestRevertRestoresBaseline(t *testing.T) {
	engine, _ := newLoadedEngine(t)
	require.NoError(t, engine.CreateCreator(core.Creator{ID: "cr2", Name: "Grace"}))
	require.NoError(t, engine.RelocatePost("p1", "c2"))
	require.True(t, engine.IsDirty())

	engine.Revert()
	assert.False(t, engine.IsDirty())

	working, _ := engine.Working()
	assert.NotContains(t, working.Creators, "cr2")
	assert.Equal(t, "c1", working.Posts["p1"].CategoryID)
}

func TestSaveRejectsInvalidGraphWithoutTouchingBackend(t *testing.T) {
	engine, store := newLoadedEngine(t)
	require.NoError(t, engine.CreatePost(core.Post{
		ID: "p2", Label: "Orphan", Content: "x", CreatorID: "cr1",
		Timestamp: 1_699_999_999_999,
	}))

	err := engine.Save(context.Background())
	require.Error(t, err)
	assert.True(t, pkgerrors.IsValidation(err))
	assert.Equal(t, 0, store.ReplaceCalls, "an invalid graph must never reach the backend")
	assert.True(t, engine.IsDirty(), "the rejected edits stay in the working copy")
}

func TestSavePersistsAndResetsBaseline(t *testing.T) {
	engine, store := newLoadedEngine(t)
	require.NoError(t, engine.CreateCreator(core.Creator{ID: "cr2", Name: "Grace"}))

	require.NoError(t, engine.Save(context.Background()))
	assert.Equal(t, 1, store.ReplaceCalls)
	assert.False(t, engine.IsDirty())

	baseline, _ := engine.Baseline()
	assert.Contains(t, baseline.Creators, "cr2")

	// A second engine loading from the same store sees the saved state.
	other := NewEngine(store, nil, zap.NewNop())
	loaded := other.Load(context.Background())
	assert.Contains(t, loaded.Creators, "cr2")
}

func TestSaveBackendFailureKeepsWorkingCopy(t *testing.T) {
	engine, store := newLoadedEngine(t)
	require.NoError(t, engine.CreateCreator(core.Creator{ID: "cr2", Name: "Grace"}))
	store.FailReplace = errors.New("conditional check failed")

	err := engine.Save(context.Background())
	require.Error(t, err)
	assert.True(t, pkgerrors.IsBackend(err))
	assert.True(t, engine.IsDirty(), "edits survive a failed save")

	working, _ := engine.Working()
	assert.Contains(t, working.Creators, "cr2")

	store.FailReplace = nil
	require.NoError(t, engine.Save(context.Background()))
	assert.False(t, engine.IsDirty())
}
