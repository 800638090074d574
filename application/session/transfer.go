package session

import (
	"encoding/json"
	"io"

	"studio-backend/domain/core"
	pkgerrors "studio-backend/pkg/errors"
	"studio-backend/pkg/wirecodec"
)

// ExportJSON writes the working graph to w as a map-keyed graph document,
// the same shape the session state endpoint returns. Export is
// unconditional: an invalid working copy still exports, so a creator can
// take a snapshot of unsaved work before untangling validation failures.
func (e *Engine) ExportJSON(w io.Writer) error {
	if e.working == nil {
		return pkgerrors.ErrSessionNotLoaded
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(*e.working); err != nil {
		return pkgerrors.Wrap(err, "failed to encode content export")
	}
	return nil
}

// ImportJSON reads a graph document from r and, if it validates, replaces
// the working copy with it. A graph that fails validation is rejected and
// the current working copy is left untouched.
func (e *Engine) ImportJSON(r io.Reader) error {
	if e.working == nil {
		return pkgerrors.ErrSessionNotLoaded
	}
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var graph core.Graph
	if err := dec.Decode(&graph); err != nil {
		return pkgerrors.NewShapeError("import", "", "malformed content document").WithCause(err)
	}
	promoteExtras(&graph)
	if err := e.validator.Validate(graph); err != nil {
		return err
	}
	e.working = &graph
	return nil
}

// promoteExtras rewrites the json.Number values UseNumber left in the
// passthrough fields to the types the rest of the engine expects, so an
// imported graph compares equal to the same graph decoded off the wire.
func promoteExtras(g *core.Graph) {
	for id, creator := range g.Creators {
		if creator.Extra != nil {
			creator.Extra = wirecodec.PromoteNumbers(creator.Extra).(map[string]any)
			g.Creators[id] = creator
		}
	}
	for id, category := range g.Categories {
		if category.Extra != nil {
			category.Extra = wirecodec.PromoteNumbers(category.Extra).(map[string]any)
			g.Categories[id] = category
		}
	}
	for id, post := range g.Posts {
		if post.Extra != nil {
			post.Extra = wirecodec.PromoteNumbers(post.Extra).(map[string]any)
			g.Posts[id] = post
		}
	}
}
