package ports

import (
	"context"

	"studio-backend/domain/events"
	"studio-backend/pkg/wirecodec"
)

// ContentBackend is the collaborator that persists the content graph.
// It exposes exactly two operations: a bulk read and a single atomic bulk
// replace. No partial-entity update primitive exists; atomicity of the
// replace is a requirement on the backend, not something the edit session
// can enforce from here.
type ContentBackend interface {
	// FetchAll reads the entire persisted graph in wire form
	FetchAll(ctx context.Context) (wirecodec.Payload, error)

	// ReplaceAll atomically replaces the entire persisted graph
	ReplaceAll(ctx context.Context, payload wirecodec.Payload) error
}

// EventPublisher publishes domain events to interested listeners
type EventPublisher interface {
	// Publish sends a single event
	Publish(ctx context.Context, event events.DomainEvent) error

	// PublishBatch sends multiple events
	PublishBatch(ctx context.Context, events []events.DomainEvent) error
}
