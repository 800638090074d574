package core

import (
	"math/big"

	"github.com/google/uuid"
)

// Creator is a person who authors posts
type Creator struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	AvatarURL string         `json:"avatarUrl"`
	Extra     map[string]any `json:"extra,omitempty"`
}

// Category groups posts and carries their display order
type Category struct {
	ID             string         `json:"id"`
	Label          string         `json:"categoryLabel"`
	Order          int64          `json:"order"`
	NFTRequirement int64          `json:"nftRequirement"`
	PostIDs        []string       `json:"postIds"`
	Extra          map[string]any `json:"extra,omitempty"`
}

// Post is a single piece of content belonging to one creator and one category
type Post struct {
	ID             string         `json:"id"`
	Label          string         `json:"postLabel"`
	Content        string         `json:"content"`
	CreatorID      string         `json:"creatorId"`
	CategoryID     string         `json:"categoryId"`
	NFTRequirement int64          `json:"nftRequirement"`
	Timestamp      int64          `json:"timestamp"`
	Extra          map[string]any `json:"extra,omitempty"`
}

// Graph is the in-memory content graph: creators, categories, posts and
// their cross-references. Category membership is bidirectional: every post's
// CategoryID category lists it exactly once, and no other category lists it.
type Graph struct {
	Creators   map[string]Creator  `json:"creators"`
	Categories map[string]Category `json:"categories"`
	Posts      map[string]Post     `json:"posts"`
}

// NewGraph creates an empty graph with all maps initialized
func NewGraph() Graph {
	return Graph{
		Creators:   make(map[string]Creator),
		Categories: make(map[string]Category),
		Posts:      make(map[string]Post),
	}
}

// NewID returns a fresh opaque entity id
func NewID() string {
	return uuid.New().String()
}

// Clone returns a deep, independent copy of the creator
func (c Creator) Clone() Creator {
	c.Extra = cloneExtra(c.Extra)
	return c
}

// Clone returns a deep, independent copy of the category
func (c Category) Clone() Category {
	if c.PostIDs != nil {
		ids := make([]string, len(c.PostIDs))
		copy(ids, c.PostIDs)
		c.PostIDs = ids
	}
	c.Extra = cloneExtra(c.Extra)
	return c
}

// Clone returns a deep, independent copy of the post
func (p Post) Clone() Post {
	p.Extra = cloneExtra(p.Extra)
	return p
}

// Clone returns a deep, independent copy of the whole graph
func (g Graph) Clone() Graph {
	out := Graph{
		Creators:   make(map[string]Creator, len(g.Creators)),
		Categories: make(map[string]Category, len(g.Categories)),
		Posts:      make(map[string]Post, len(g.Posts)),
	}
	for k, v := range g.Creators {
		out.Creators[k] = v.Clone()
	}
	for k, v := range g.Categories {
		out.Categories[k] = v.Clone()
	}
	for k, v := range g.Posts {
		out.Posts[k] = v.Clone()
	}
	return out
}

// Equal reports structural equality with the other graph. Map key order
// never affects the result; PostIDs order does, because it is the display
// order of posts within a category.
func (g Graph) Equal(other Graph) bool {
	if len(g.Creators) != len(other.Creators) ||
		len(g.Categories) != len(other.Categories) ||
		len(g.Posts) != len(other.Posts) {
		return false
	}
	for k, a := range g.Creators {
		b, ok := other.Creators[k]
		if !ok || !a.Equal(b) {
			return false
		}
	}
	for k, a := range g.Categories {
		b, ok := other.Categories[k]
		if !ok || !a.Equal(b) {
			return false
		}
	}
	for k, a := range g.Posts {
		b, ok := other.Posts[k]
		if !ok || !a.Equal(b) {
			return false
		}
	}
	return true
}

// Equal reports structural equality with the other creator
func (c Creator) Equal(other Creator) bool {
	return c.ID == other.ID &&
		c.Name == other.Name &&
		c.AvatarURL == other.AvatarURL &&
		valueEqual(c.Extra, other.Extra)
}

// Equal reports structural equality with the other category
func (c Category) Equal(other Category) bool {
	if c.ID != other.ID || c.Label != other.Label ||
		c.Order != other.Order || c.NFTRequirement != other.NFTRequirement {
		return false
	}
	if len(c.PostIDs) != len(other.PostIDs) {
		return false
	}
	for i, id := range c.PostIDs {
		if id != other.PostIDs[i] {
			return false
		}
	}
	return valueEqual(c.Extra, other.Extra)
}

// Equal reports structural equality with the other post
func (p Post) Equal(other Post) bool {
	return p.ID == other.ID &&
		p.Label == other.Label &&
		p.Content == other.Content &&
		p.CreatorID == other.CreatorID &&
		p.CategoryID == other.CategoryID &&
		p.NFTRequirement == other.NFTRequirement &&
		p.Timestamp == other.Timestamp &&
		valueEqual(p.Extra, other.Extra)
}

func cloneExtra(extra map[string]any) map[string]any {
	if extra == nil {
		return nil
	}
	out := make(map[string]any, len(extra))
	for k, v := range extra {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return cloneExtra(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}
		return out
	case *big.Int:
		return new(big.Int).Set(val)
	default:
		return v
	}
}

// valueEqual is a recursive structural comparison over the dynamic values
// carried in Extra. A nil map and an empty map compare equal.
func valueEqual(a, b any) bool {
	switch av := a.(type) {
	case nil:
		if b == nil {
			return true
		}
		if bm, ok := b.(map[string]any); ok {
			return len(bm) == 0
		}
		return false
	case map[string]any:
		bm, ok := b.(map[string]any)
		if !ok {
			return b == nil && len(av) == 0
		}
		if len(av) != len(bm) {
			return false
		}
		for k, v := range av {
			bv, ok := bm[k]
			if !ok || !valueEqual(v, bv) {
				return false
			}
		}
		return true
	case []any:
		bs, ok := b.([]any)
		if !ok || len(av) != len(bs) {
			return false
		}
		for i, v := range av {
			if !valueEqual(v, bs[i]) {
				return false
			}
		}
		return true
	case *big.Int:
		switch bv := b.(type) {
		case *big.Int:
			return av.Cmp(bv) == 0
		case int64:
			return av.IsInt64() && av.Int64() == bv
		case float64:
			f, _ := new(big.Float).SetInt(av).Float64()
			return f == bv
		}
		return false
	default:
		return a == b
	}
}
