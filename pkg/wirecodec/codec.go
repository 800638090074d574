package wirecodec

import (
	"math"
	"math/big"

	"studio-backend/domain/core"
)

var (
	maxInt64 = big.NewInt(math.MaxInt64)
	minInt64 = big.NewInt(math.MinInt64)
)

// Decode reshapes a wire payload into a graph. It never validates
// referential integrity; a malformed payload produces zero-valued fields
// that the validator reports later. Unknown fields pass through into Extra.
func Decode(p Payload) core.Graph {
	g := core.NewGraph()
	for _, entry := range p.Creators {
		c := core.Creator{}
		extra := map[string]any{}
		for k, v := range entry.Fields {
			switch k {
			case "id":
				c.ID = asString(v)
			case "name":
				c.Name = asString(v)
			case "avatarUrl":
				c.AvatarURL = asString(v)
			default:
				extra[k] = v
			}
		}
		if len(extra) > 0 {
			c.Extra = extra
		}
		g.Creators[entry.ID] = c
	}
	for _, entry := range p.Categories {
		c := core.Category{}
		extra := map[string]any{}
		for k, v := range entry.Fields {
			switch k {
			case "id":
				c.ID = asString(v)
			case "categoryLabel":
				c.Label = asString(v)
			case "order":
				c.Order = asInt64(v)
			case "nftRequirement":
				c.NFTRequirement = asInt64(v)
			case "postIds":
				c.PostIDs = asStringSlice(v)
			default:
				extra[k] = v
			}
		}
		if len(extra) > 0 {
			c.Extra = extra
		}
		g.Categories[entry.ID] = c
	}
	for _, entry := range p.Posts {
		post := core.Post{}
		extra := map[string]any{}
		for k, v := range entry.Fields {
			switch k {
			case "id":
				post.ID = asString(v)
			case "postLabel":
				post.Label = asString(v)
			case "content":
				post.Content = asString(v)
			case "creatorId":
				post.CreatorID = asString(v)
			case "categoryId":
				post.CategoryID = asString(v)
			case "nftRequirement":
				post.NFTRequirement = asInt64(v)
			case "timestamp":
				post.Timestamp = asInt64(v)
			default:
				extra[k] = v
			}
		}
		if len(extra) > 0 {
			post.Extra = extra
		}
		g.Posts[entry.ID] = post
	}
	return g
}

// Encode reshapes a graph into a wire payload. Entries follow the map's own
// key enumeration; the backend tolerates arbitrary order, so no re-sort is
// performed. Numeric fields go out as *big.Int, matching what the backend
// hands back. Extra fields are re-emitted unchanged.
func Encode(g core.Graph) Payload {
	p := Payload{
		Creators:   make([]Entry, 0, len(g.Creators)),
		Categories: make([]Entry, 0, len(g.Categories)),
		Posts:      make([]Entry, 0, len(g.Posts)),
	}
	for key, c := range g.Creators {
		fields := map[string]any{
			"id":        c.ID,
			"name":      c.Name,
			"avatarUrl": c.AvatarURL,
		}
		mergeExtra(fields, c.Extra)
		p.Creators = append(p.Creators, Entry{ID: key, Fields: fields})
	}
	for key, c := range g.Categories {
		postIDs := make([]any, len(c.PostIDs))
		for i, id := range c.PostIDs {
			postIDs[i] = id
		}
		fields := map[string]any{
			"id":             c.ID,
			"categoryLabel":  c.Label,
			"order":          big.NewInt(c.Order),
			"nftRequirement": big.NewInt(c.NFTRequirement),
			"postIds":        postIDs,
		}
		mergeExtra(fields, c.Extra)
		p.Categories = append(p.Categories, Entry{ID: key, Fields: fields})
	}
	for key, post := range g.Posts {
		fields := map[string]any{
			"id":             post.ID,
			"postLabel":      post.Label,
			"content":        post.Content,
			"creatorId":      post.CreatorID,
			"categoryId":     post.CategoryID,
			"nftRequirement": big.NewInt(post.NFTRequirement),
			"timestamp":      big.NewInt(post.Timestamp),
		}
		mergeExtra(fields, post.Extra)
		p.Posts = append(p.Posts, Entry{ID: key, Fields: fields})
	}
	return p
}

func mergeExtra(fields map[string]any, extra map[string]any) {
	for k, v := range extra {
		if _, taken := fields[k]; !taken {
			fields[k] = v
		}
	}
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asStringSlice(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// asInt64 converts a wire numeric value to int64, clamping values outside
// the representable range to the nearest bound.
func asInt64(v any) int64 {
	switch n := v.(type) {
	case *big.Int:
		if n.IsInt64() {
			return n.Int64()
		}
		if n.Cmp(maxInt64) > 0 {
			return math.MaxInt64
		}
		if n.Cmp(minInt64) < 0 {
			return math.MinInt64
		}
		return n.Int64()
	case float64:
		// float64(math.MaxInt64) rounds up to 2^63, which int64 cannot
		// hold, so the upper comparison must be inclusive.
		if n >= math.MaxInt64 {
			return math.MaxInt64
		}
		if n <= math.MinInt64 {
			return math.MinInt64
		}
		return int64(n)
	case int64:
		return n
	case int:
		return int64(n)
	default:
		return 0
	}
}
