// Package session implements the edit-session engine: it owns the working
// copy of the content graph, tracks the baseline it diverged from, and is
// the only place category membership may be rewired.
package session

import (
	"context"
	"sort"

	"studio-backend/application/ports"
	"studio-backend/domain/core"
	"studio-backend/domain/core/validators"
	pkgerrors "studio-backend/pkg/errors"
	"studio-backend/pkg/wirecodec"

	"go.uber.org/zap"
)

// Engine holds the baseline snapshot and the working copy of one edit
// session. A nil working copy means the session has not loaded yet; a nil
// baseline with a non-nil working copy is a degraded session (load failed)
// that can still edit but cannot diff against committed state.
//
// All mutating operations are synchronous and act only on the working copy.
// The engine performs no internal locking; callers serialize Save.
type Engine struct {
	backend   ports.ContentBackend
	validator *validators.GraphValidator
	logger    *zap.Logger

	baseline *core.Graph
	working  *core.Graph
}

// NewEngine creates an engine bound to a content backend
func NewEngine(backend ports.ContentBackend, validator *validators.GraphValidator, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validator == nil {
		validator = validators.NewGraphValidator(logger)
	}
	return &Engine{
		backend:   backend,
		validator: validator,
		logger:    logger,
	}
}

// Load fetches the persisted graph and resets both baseline and working
// copy to independent copies of it. A backend failure degrades to an empty
// working graph instead of propagating, so the editor stays usable; the
// baseline is left unset to mark the session as degraded.
func (e *Engine) Load(ctx context.Context) core.Graph {
	payload, err := e.backend.FetchAll(ctx)
	if err != nil {
		e.logger.Warn("content fetch failed, starting degraded session", zap.Error(err))
		working := core.NewGraph()
		e.baseline = nil
		e.working = &working
		return working.Clone()
	}

	graph := wirecodec.Decode(payload)
	baseline := graph.Clone()
	working := graph.Clone()
	e.baseline = &baseline
	e.working = &working

	e.logger.Info("content loaded",
		zap.Int("creators", len(working.Creators)),
		zap.Int("categories", len(working.Categories)),
		zap.Int("posts", len(working.Posts)),
	)
	return working.Clone()
}

// Working returns a copy of the working graph and whether one exists
func (e *Engine) Working() (core.Graph, bool) {
	if e.working == nil {
		return core.Graph{}, false
	}
	return e.working.Clone(), true
}

// Baseline returns a copy of the baseline graph and whether one exists.
// A missing baseline after Load means the session is degraded.
func (e *Engine) Baseline() (core.Graph, bool) {
	if e.baseline == nil {
		return core.Graph{}, false
	}
	return e.baseline.Clone(), true
}

// IsDirty reports whether the working copy differs from the baseline.
// Both unset compares clean; exactly one unset is dirty.
func (e *Engine) IsDirty() bool {
	if e.working == nil && e.baseline == nil {
		return false
	}
	if e.working == nil || e.baseline == nil {
		return true
	}
	return !e.working.Equal(*e.baseline)
}

// CreateCreator inserts a new creator keyed by its id
func (e *Engine) CreateCreator(c core.Creator) error {
	if e.working == nil {
		return pkgerrors.ErrSessionNotLoaded
	}
	if _, exists := e.working.Creators[c.ID]; exists {
		return pkgerrors.NewIDCollision(validators.KindCreators, c.ID)
	}
	e.working.Creators[c.ID] = c.Clone()
	return nil
}

// UpdateCreator replaces a creator wholesale; the caller carries forward
// any fields it did not mean to change
func (e *Engine) UpdateCreator(c core.Creator) error {
	if e.working == nil {
		return pkgerrors.ErrSessionNotLoaded
	}
	if _, exists := e.working.Creators[c.ID]; !exists {
		return pkgerrors.NewEntityNotFound(validators.KindCreators, c.ID)
	}
	e.working.Creators[c.ID] = c.Clone()
	return nil
}

// DeleteCreator removes a creator from the working copy
func (e *Engine) DeleteCreator(id string) error {
	if e.working == nil {
		return pkgerrors.ErrSessionNotLoaded
	}
	if _, exists := e.working.Creators[id]; !exists {
		return pkgerrors.NewEntityNotFound(validators.KindCreators, id)
	}
	delete(e.working.Creators, id)
	return nil
}

// CreateCategory inserts a new category keyed by its id
func (e *Engine) CreateCategory(c core.Category) error {
	if e.working == nil {
		return pkgerrors.ErrSessionNotLoaded
	}
	if _, exists := e.working.Categories[c.ID]; exists {
		return pkgerrors.NewIDCollision(validators.KindCategories, c.ID)
	}
	e.working.Categories[c.ID] = c.Clone()
	return nil
}

// UpdateCategory replaces a category wholesale. The post membership list is
// owned by RelocatePost: the stored PostIDs are preserved so an update
// cannot smuggle in a membership change.
func (e *Engine) UpdateCategory(c core.Category) error {
	if e.working == nil {
		return pkgerrors.ErrSessionNotLoaded
	}
	current, exists := e.working.Categories[c.ID]
	if !exists {
		return pkgerrors.NewEntityNotFound(validators.KindCategories, c.ID)
	}
	replacement := c.Clone()
	replacement.PostIDs = current.PostIDs
	e.working.Categories[c.ID] = replacement
	return nil
}

// DeleteCategory removes a category. Member posts have their CategoryID
// cleared; they stay in the graph and fail validation until relocated or
// deleted, which is what surfaces them to the creator.
func (e *Engine) DeleteCategory(id string) error {
	if e.working == nil {
		return pkgerrors.ErrSessionNotLoaded
	}
	category, exists := e.working.Categories[id]
	if !exists {
		return pkgerrors.NewEntityNotFound(validators.KindCategories, id)
	}
	for _, postID := range category.PostIDs {
		if post, ok := e.working.Posts[postID]; ok && post.CategoryID == id {
			post.CategoryID = ""
			e.working.Posts[postID] = post
		}
	}
	delete(e.working.Categories, id)
	return nil
}

// CreatePost inserts a new post keyed by its id. Membership in the target
// category is established separately via RelocatePost.
func (e *Engine) CreatePost(p core.Post) error {
	if e.working == nil {
		return pkgerrors.ErrSessionNotLoaded
	}
	if _, exists := e.working.Posts[p.ID]; exists {
		return pkgerrors.NewIDCollision(validators.KindPosts, p.ID)
	}
	e.working.Posts[p.ID] = p.Clone()
	return nil
}

// UpdatePost replaces a post wholesale, except for CategoryID: category
// membership may only change through RelocatePost, so the stored value is
// preserved.
func (e *Engine) UpdatePost(p core.Post) error {
	if e.working == nil {
		return pkgerrors.ErrSessionNotLoaded
	}
	current, exists := e.working.Posts[p.ID]
	if !exists {
		return pkgerrors.NewEntityNotFound(validators.KindPosts, p.ID)
	}
	replacement := p.Clone()
	replacement.CategoryID = current.CategoryID
	e.working.Posts[p.ID] = replacement
	return nil
}

// DeletePost removes a post and, in the same operation, removes its id from
// the owning category's PostIDs so no dangling reference survives.
func (e *Engine) DeletePost(id string) error {
	if e.working == nil {
		return pkgerrors.ErrSessionNotLoaded
	}
	post, exists := e.working.Posts[id]
	if !exists {
		return pkgerrors.NewEntityNotFound(validators.KindPosts, id)
	}
	if post.CategoryID != "" {
		if category, ok := e.working.Categories[post.CategoryID]; ok {
			category.PostIDs = removeID(category.PostIDs, id)
			e.working.Categories[post.CategoryID] = category
		}
	}
	delete(e.working.Posts, id)
	return nil
}

// RelocatePost moves a post's category membership. It is the sole operation
// that mutates CategoryID, keeping both sides of the bidirectional reference
// consistent: the post leaves its current category's list, joins the target's
// list at most once, and its CategoryID is rewritten. An empty target leaves
// the post uncategorized.
func (e *Engine) RelocatePost(postID, newCategoryID string) error {
	if e.working == nil {
		return pkgerrors.ErrSessionNotLoaded
	}
	post, exists := e.working.Posts[postID]
	if !exists {
		return pkgerrors.NewEntityNotFound(validators.KindPosts, postID)
	}
	// Resolve the target before touching anything, so a failed relocation
	// leaves the working copy exactly as it was.
	if newCategoryID != "" {
		if _, ok := e.working.Categories[newCategoryID]; !ok {
			return pkgerrors.NewUnknownCategory(newCategoryID)
		}
	}

	if post.CategoryID != "" {
		if current, ok := e.working.Categories[post.CategoryID]; ok {
			current.PostIDs = removeID(current.PostIDs, postID)
			e.working.Categories[post.CategoryID] = current
		}
	}

	if newCategoryID != "" {
		target := e.working.Categories[newCategoryID]
		if !containsID(target.PostIDs, postID) {
			target.PostIDs = append(target.PostIDs, postID)
			e.working.Categories[newCategoryID] = target
		}
	}

	post.CategoryID = newCategoryID
	e.working.Posts[postID] = post
	return nil
}

// ReorderCategories applies an explicit ordering: each listed category gets
// its rank as Order, then the whole set is renormalized. Categories absent
// from the list keep their relative position after the listed ones.
func (e *Engine) ReorderCategories(orderedIDs []string) error {
	if e.working == nil {
		return pkgerrors.ErrSessionNotLoaded
	}
	for _, id := range orderedIDs {
		if _, ok := e.working.Categories[id]; !ok {
			return pkgerrors.NewEntityNotFound(validators.KindCategories, id)
		}
	}
	offset := int64(len(e.working.Categories))
	for id, category := range e.working.Categories {
		category.Order += offset
		e.working.Categories[id] = category
	}
	for rank, id := range orderedIDs {
		category := e.working.Categories[id]
		category.Order = int64(rank)
		e.working.Categories[id] = category
	}
	e.NormalizeCategoryOrder()
	return nil
}

// NormalizeCategoryOrder rewrites every category's Order to its 0-based
// rank, collapsing gaps and duplicate ranks left behind by inserts, deletes
// and reorders. Ties break on id so the result is deterministic. Must run
// after any structural category change and before save.
func (e *Engine) NormalizeCategoryOrder() {
	if e.working == nil {
		return
	}
	ids := make([]string, 0, len(e.working.Categories))
	for id := range e.working.Categories {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, b := e.working.Categories[ids[i]], e.working.Categories[ids[j]]
		if a.Order != b.Order {
			return a.Order < b.Order
		}
		return ids[i] < ids[j]
	})
	for rank, id := range ids {
		category := e.working.Categories[id]
		category.Order = int64(rank)
		e.working.Categories[id] = category
	}
}

// Revert discards the working copy and replaces it with a fresh copy of
// the baseline
func (e *Engine) Revert() {
	if e.baseline == nil {
		working := core.NewGraph()
		e.working = &working
		return
	}
	working := e.baseline.Clone()
	e.working = &working
}

// Save validates the working copy, encodes it and submits one atomic bulk
// replace. A validation failure returns the typed error without contacting
// the backend. A backend failure leaves the working copy untouched so no
// edits are lost. On success the working copy becomes the new baseline.
func (e *Engine) Save(ctx context.Context) error {
	if e.working == nil {
		return pkgerrors.ErrSessionNotLoaded
	}
	if err := e.validator.Validate(*e.working); err != nil {
		return err
	}

	payload := wirecodec.Encode(*e.working)
	if err := e.backend.ReplaceAll(ctx, payload); err != nil {
		e.logger.Error("content save failed, working copy preserved", zap.Error(err))
		return pkgerrors.NewBackendError("replaceAll", err)
	}

	baseline := e.working.Clone()
	e.baseline = &baseline
	e.logger.Info("content saved",
		zap.Int("creators", len(baseline.Creators)),
		zap.Int("categories", len(baseline.Categories)),
		zap.Int("posts", len(baseline.Posts)),
	)
	return nil
}

func removeID(ids []string, id string) []string {
	out := ids[:0]
	for _, candidate := range ids {
		if candidate != id {
			out = append(out, candidate)
		}
	}
	return out
}

func containsID(ids []string, id string) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
