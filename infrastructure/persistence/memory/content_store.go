// Package memory provides an in-memory content backend for tests and
// local development. It records call counts and supports error injection
// so session behavior around backend failures can be exercised directly.
package memory

import (
	"context"
	"sync"

	"studio-backend/pkg/wirecodec"
)

// ContentStore is an in-memory ports.ContentBackend
type ContentStore struct {
	mu      sync.Mutex
	payload wirecodec.Payload

	// Injected failures; nil means the operation succeeds
	FailFetch   error
	FailReplace error

	// Call counters, readable after the fact by tests
	FetchCalls   int
	ReplaceCalls int
}

// NewContentStore creates an empty store
func NewContentStore() *ContentStore {
	return &ContentStore{}
}

// NewContentStoreWithPayload creates a store seeded with a payload
func NewContentStoreWithPayload(payload wirecodec.Payload) *ContentStore {
	return &ContentStore{payload: payload}
}

// FetchAll returns the stored payload
func (s *ContentStore) FetchAll(ctx context.Context) (wirecodec.Payload, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.FetchCalls++
	if s.FailFetch != nil {
		return wirecodec.Payload{}, s.FailFetch
	}
	return s.payload, nil
}

// ReplaceAll swaps the stored payload in one step
func (s *ContentStore) ReplaceAll(ctx context.Context, payload wirecodec.Payload) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ReplaceCalls++
	if s.FailReplace != nil {
		return s.FailReplace
	}
	s.payload = payload
	return nil
}
