package validators

import (
	"fmt"
	"sort"

	"studio-backend/domain/config"
	"studio-backend/domain/core"
	pkgerrors "studio-backend/pkg/errors"

	"go.uber.org/zap"
)

// Entity kind names used in validation failures
const (
	KindCreators   = "creators"
	KindCategories = "categories"
	KindPosts      = "posts"
)

// GraphValidator decides whether a graph may be persisted. It is read-only
// and deterministic: the same graph always produces the same pass/fail
// result, and the first failing check wins. Keys are visited in sorted
// order so the reported entity never depends on map iteration.
type GraphValidator struct {
	cfg    *config.DomainConfig
	logger *zap.Logger
}

// NewGraphValidator creates a validator with default domain rules
func NewGraphValidator(logger *zap.Logger) *GraphValidator {
	return NewGraphValidatorWithConfig(config.DefaultDomainConfig(), logger)
}

// NewGraphValidatorWithConfig creates a validator with explicit rules
func NewGraphValidatorWithConfig(cfg *config.DomainConfig, logger *zap.Logger) *GraphValidator {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GraphValidator{cfg: cfg, logger: logger}
}

// Validate checks the whole graph and returns the first violation found,
// or nil when the graph may be sent to the content backend.
func (v *GraphValidator) Validate(g core.Graph) error {
	if err := v.validateShape(g); err != nil {
		return err
	}
	for _, key := range sortedCreatorKeys(g) {
		if err := v.validateCreator(key, g.Creators[key]); err != nil {
			return err
		}
	}
	for _, key := range sortedCategoryKeys(g) {
		if err := v.validateCategory(key, g.Categories[key], g); err != nil {
			return err
		}
	}
	for _, key := range sortedPostKeys(g) {
		if err := v.validatePost(key, g.Posts[key], g); err != nil {
			return err
		}
	}
	return nil
}

// validateShape checks the graph's top-level structure
func (v *GraphValidator) validateShape(g core.Graph) error {
	if g.Creators == nil {
		return pkgerrors.NewShapeError(KindCreators, "", "creators map is missing")
	}
	if g.Categories == nil {
		return pkgerrors.NewShapeError(KindCategories, "", "categories map is missing")
	}
	if g.Posts == nil {
		return pkgerrors.NewShapeError(KindPosts, "", "posts map is missing")
	}
	if len(g.Creators) > v.cfg.MaxCreators {
		return pkgerrors.NewBoundsError(KindCreators, "",
			fmt.Sprintf("creator count %d exceeds the limit of %d", len(g.Creators), v.cfg.MaxCreators))
	}
	if len(g.Categories) > v.cfg.MaxCategories {
		return pkgerrors.NewBoundsError(KindCategories, "",
			fmt.Sprintf("category count %d exceeds the limit of %d", len(g.Categories), v.cfg.MaxCategories))
	}
	return nil
}

func (v *GraphValidator) validateCreator(key string, c core.Creator) error {
	if key == "" {
		return v.fail(pkgerrors.NewShapeError(KindCreators, key, "empty map key"), c)
	}
	if c.ID != key {
		return v.fail(pkgerrors.NewShapeError(KindCreators, key, fmt.Sprintf("id %q does not match map key", c.ID)), c)
	}
	if c.Name == "" {
		return v.fail(pkgerrors.NewShapeError(KindCreators, key, "name must not be empty"), c)
	}
	return nil
}

func (v *GraphValidator) validateCategory(key string, c core.Category, g core.Graph) error {
	if key == "" {
		return v.fail(pkgerrors.NewShapeError(KindCategories, key, "empty map key"), c)
	}
	if c.ID != key {
		return v.fail(pkgerrors.NewShapeError(KindCategories, key, fmt.Sprintf("id %q does not match map key", c.ID)), c)
	}
	if c.Label == "" {
		return v.fail(pkgerrors.NewShapeError(KindCategories, key, "categoryLabel must not be empty"), c)
	}
	if len(c.Label) > v.cfg.MaxLabelLength {
		return v.fail(pkgerrors.NewBoundsError(KindCategories, key,
			fmt.Sprintf("categoryLabel exceeds %d characters", v.cfg.MaxLabelLength)), c)
	}
	if c.NFTRequirement < 0 {
		return v.fail(pkgerrors.NewShapeError(KindCategories, key, "nftRequirement must not be negative"), c)
	}
	if len(c.PostIDs) > v.cfg.MaxPostsPerCategory {
		return v.fail(pkgerrors.NewBoundsError(KindCategories, key,
			fmt.Sprintf("postIds count %d exceeds the limit of %d", len(c.PostIDs), v.cfg.MaxPostsPerCategory)), c)
	}
	seen := make(map[string]bool, len(c.PostIDs))
	for _, postID := range c.PostIDs {
		if _, ok := g.Posts[postID]; !ok {
			return v.fail(pkgerrors.NewReferentialError(KindCategories, key,
				fmt.Sprintf("post %q does not exist", postID)), c)
		}
		if seen[postID] {
			return v.fail(pkgerrors.NewReferentialError(KindCategories, key,
				fmt.Sprintf("duplicates in postIds: %q", postID)), c)
		}
		seen[postID] = true
	}
	return nil
}

func (v *GraphValidator) validatePost(key string, p core.Post, g core.Graph) error {
	if key == "" {
		return v.fail(pkgerrors.NewShapeError(KindPosts, key, "empty map key"), p)
	}
	if p.Timestamp == 0 {
		return v.fail(pkgerrors.NewShapeError(KindPosts, key, "timestamp is missing"), p)
	}
	if p.Timestamp < v.cfg.TimestampMin {
		return v.fail(pkgerrors.NewBoundsError(KindPosts, key,
			fmt.Sprintf("timestamp %d is too small; expected milliseconds since the epoch", p.Timestamp)), p)
	}
	if p.Timestamp > v.cfg.TimestampMax {
		return v.fail(pkgerrors.NewBoundsError(KindPosts, key,
			fmt.Sprintf("timestamp %d is too large; expected milliseconds since the epoch", p.Timestamp)), p)
	}
	if p.ID != key {
		return v.fail(pkgerrors.NewShapeError(KindPosts, key, fmt.Sprintf("id %q does not match map key", p.ID)), p)
	}
	if p.CategoryID == "" {
		return v.fail(pkgerrors.NewShapeError(KindPosts, key, "post is missing a category"), p)
	}
	if p.CreatorID == "" {
		return v.fail(pkgerrors.NewShapeError(KindPosts, key, "post is missing a creator"), p)
	}
	if p.Content == "" {
		return v.fail(pkgerrors.NewShapeError(KindPosts, key, "content must not be empty"), p)
	}
	if p.Label == "" {
		return v.fail(pkgerrors.NewShapeError(KindPosts, key, "postLabel must not be empty"), p)
	}
	if len(p.Label) > v.cfg.MaxLabelLength {
		return v.fail(pkgerrors.NewBoundsError(KindPosts, key,
			fmt.Sprintf("postLabel exceeds %d characters", v.cfg.MaxLabelLength)), p)
	}
	if len(p.Content) > v.cfg.MaxContentLength {
		return v.fail(pkgerrors.NewBoundsError(KindPosts, key,
			fmt.Sprintf("content exceeds %d characters", v.cfg.MaxContentLength)), p)
	}
	if p.NFTRequirement < 0 {
		return v.fail(pkgerrors.NewShapeError(KindPosts, key, "nftRequirement must not be negative"), p)
	}

	category, ok := g.Categories[p.CategoryID]
	if !ok {
		return v.fail(pkgerrors.NewReferentialError(KindPosts, key,
			fmt.Sprintf("category %q does not exist", p.CategoryID)), p)
	}
	if !contains(category.PostIDs, key) {
		return v.fail(pkgerrors.NewReferentialError(KindPosts, key,
			fmt.Sprintf("category %q does not list this post", p.CategoryID)), p)
	}
	for _, otherKey := range sortedCategoryKeys(g) {
		if otherKey == p.CategoryID {
			continue
		}
		if contains(g.Categories[otherKey].PostIDs, key) {
			return v.fail(pkgerrors.NewReferentialError(KindPosts, key,
				fmt.Sprintf("also listed by category %q", otherKey)), p)
		}
	}
	if _, ok := g.Creators[p.CreatorID]; !ok {
		return v.fail(pkgerrors.NewReferentialError(KindPosts, key,
			fmt.Sprintf("creator %q does not exist", p.CreatorID)), p)
	}
	return nil
}

// fail logs the offending entity before returning the error, so a rejected
// save always leaves a trace of what was actually in the working copy.
func (v *GraphValidator) fail(err error, entity any) error {
	domainErr := pkgerrors.GetDomainError(err)
	v.logger.Warn("graph validation failed",
		zap.String("reason", domainErr.Message),
		zap.Any("entity", entity),
	)
	return err
}

func contains(ids []string, id string) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

func sortedCreatorKeys(g core.Graph) []string {
	keys := make([]string, 0, len(g.Creators))
	for k := range g.Creators {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedCategoryKeys(g core.Graph) []string {
	keys := make([]string, 0, len(g.Categories))
	for k := range g.Categories {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedPostKeys(g core.Graph) []string {
	keys := make([]string, 0, len(g.Posts))
	for k := range g.Posts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
