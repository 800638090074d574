// Package services contains the application services that sit between the
// HTTP surface and the edit-session engine.
package services

import (
	"context"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"studio-backend/application/ports"
	"studio-backend/application/session"
	"studio-backend/domain/core"
	"studio-backend/domain/events"
	pkgerrors "studio-backend/pkg/errors"
	"studio-backend/pkg/observability"

	"go.uber.org/zap"
)

// DashboardService orchestrates the edit session for the creator dashboard.
// The engine itself is not safe for concurrent use, so every operation runs
// under the service mutex; Save additionally takes a non-blocking in-flight
// guard so an overlapping save is rejected instead of queued.
type DashboardService struct {
	engine    *session.Engine
	publisher ports.EventPublisher
	metrics   *observability.Metrics
	tracer    *observability.Tracer
	logger    *zap.Logger

	mu     sync.Mutex
	saving atomic.Bool
}

// NewDashboardService creates the dashboard service
func NewDashboardService(
	engine *session.Engine,
	publisher ports.EventPublisher,
	metrics *observability.Metrics,
	tracer *observability.Tracer,
	logger *zap.Logger,
) *DashboardService {
	return &DashboardService{
		engine:    engine,
		publisher: publisher,
		metrics:   metrics,
		tracer:    tracer,
		logger:    logger,
	}
}

// SessionState is the dashboard's view of the edit session
type SessionState struct {
	Working  core.Graph
	Dirty    bool
	Degraded bool
}

// Load pulls a fresh baseline from the backend and resets the session.
// Any unsaved edits are discarded, which is the documented contract of
// reloading the dashboard.
func (s *DashboardService) Load(ctx context.Context) SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()

	var working core.Graph
	_ = s.tracer.Capture(ctx, "load", func(ctx context.Context) error {
		working = s.engine.Load(ctx)
		return nil
	})
	_, hasBaseline := s.engine.Baseline()
	state := SessionState{
		Working:  working,
		Dirty:    s.engine.IsDirty(),
		Degraded: !hasBaseline,
	}

	event := events.NewContentLoaded(
		len(working.Creators), len(working.Categories), len(working.Posts),
		state.Degraded, time.Now().UTC(),
	)
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish content.loaded", zap.Error(err))
	}
	return state
}

// State returns the current session view without touching the backend
func (s *DashboardService) State(ctx context.Context) (SessionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	working, ok := s.engine.Working()
	if !ok {
		return SessionState{}, pkgerrors.ErrSessionNotLoaded
	}
	_, hasBaseline := s.engine.Baseline()
	return SessionState{
		Working:  working,
		Dirty:    s.engine.IsDirty(),
		Degraded: !hasBaseline,
	}, nil
}

// Save validates and persists the working copy. Overlapping saves are
// rejected with a conflict error rather than queued behind each other.
func (s *DashboardService) Save(ctx context.Context) error {
	if !s.saving.CompareAndSwap(false, true) {
		return pkgerrors.ErrSaveInFlight
	}
	defer s.saving.Store(false)

	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	err := s.tracer.Capture(ctx, "save", func(ctx context.Context) error {
		return s.engine.Save(ctx)
	})
	s.metrics.RecordDuration(ctx, "SaveLatency", time.Since(start), nil)
	if err != nil {
		s.tracer.RecordError(ctx, err)
		s.metrics.RecordCount(ctx, "SaveFailure", 1, map[string]string{
			"Validation": boolLabel(pkgerrors.IsValidation(err)),
		})
		return err
	}
	s.metrics.RecordCount(ctx, "SaveSuccess", 1, nil)

	working, _ := s.engine.Working()
	event := events.NewContentSaved(
		len(working.Creators), len(working.Categories), len(working.Posts),
		time.Now().UTC(),
	)
	if pubErr := s.publisher.Publish(ctx, event); pubErr != nil {
		// The save itself succeeded; a lost event only delays downstream
		// listeners until the next one.
		s.logger.Warn("failed to publish content.saved", zap.Error(pubErr))
	}
	return nil
}

// Revert discards the working copy in favor of the baseline
func (s *DashboardService) Revert(ctx context.Context) (SessionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.engine.Revert()
	working, ok := s.engine.Working()
	if !ok {
		return SessionState{}, pkgerrors.ErrSessionNotLoaded
	}
	_, hasBaseline := s.engine.Baseline()
	return SessionState{Working: working, Dirty: s.engine.IsDirty(), Degraded: !hasBaseline}, nil
}

// CreateCreator adds a creator to the working copy
func (s *DashboardService) CreateCreator(ctx context.Context, c core.Creator) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.CreateCreator(c)
}

// UpdateCreator replaces a creator in the working copy
func (s *DashboardService) UpdateCreator(ctx context.Context, c core.Creator) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.UpdateCreator(c)
}

// DeleteCreator removes a creator from the working copy
func (s *DashboardService) DeleteCreator(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.DeleteCreator(id)
}

// CreateCategory adds a category and renormalizes ordering
func (s *DashboardService) CreateCategory(ctx context.Context, c core.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.engine.CreateCategory(c); err != nil {
		return err
	}
	s.engine.NormalizeCategoryOrder()
	return nil
}

// UpdateCategory replaces a category and renormalizes ordering
func (s *DashboardService) UpdateCategory(ctx context.Context, c core.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.engine.UpdateCategory(c); err != nil {
		return err
	}
	s.engine.NormalizeCategoryOrder()
	return nil
}

// DeleteCategory removes a category and renormalizes ordering
func (s *DashboardService) DeleteCategory(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.engine.DeleteCategory(id); err != nil {
		return err
	}
	s.engine.NormalizeCategoryOrder()
	return nil
}

// ReorderCategories applies an explicit category ordering
func (s *DashboardService) ReorderCategories(ctx context.Context, orderedIDs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.ReorderCategories(orderedIDs)
}

// CreatePost adds a post and optionally places it in a category
func (s *DashboardService) CreatePost(ctx context.Context, p core.Post, categoryID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.engine.CreatePost(p); err != nil {
		return err
	}
	if categoryID != "" {
		return s.engine.RelocatePost(p.ID, categoryID)
	}
	return nil
}

// UpdatePost replaces a post in the working copy
func (s *DashboardService) UpdatePost(ctx context.Context, p core.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.UpdatePost(p)
}

// DeletePost removes a post and its category membership
func (s *DashboardService) DeletePost(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.DeletePost(id)
}

// RelocatePost moves a post between categories
func (s *DashboardService) RelocatePost(ctx context.Context, postID, categoryID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.RelocatePost(postID, categoryID)
}

// Export writes the working graph as JSON
func (s *DashboardService) Export(ctx context.Context, w io.Writer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.ExportJSON(w)
}

// Import replaces the working graph from a JSON document if it validates
func (s *DashboardService) Import(ctx context.Context, r io.Reader) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.ImportJSON(r)
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
