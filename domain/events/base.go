package events

import "time"

// SourceBackend identifies this service as the event source
const SourceBackend = "studio.content"

// DomainEvent is the base interface for all domain events
type DomainEvent interface {
	GetAggregateID() string
	GetEventType() string
	GetTimestamp() time.Time
	GetVersion() int
}

// BaseEvent provides common event fields
type BaseEvent struct {
	AggregateID string    `json:"aggregate_id"`
	EventType   string    `json:"event_type"`
	Timestamp   time.Time `json:"timestamp"`
	Version     int       `json:"version"`
}

func (e BaseEvent) GetAggregateID() string  { return e.AggregateID }
func (e BaseEvent) GetEventType() string    { return e.EventType }
func (e BaseEvent) GetTimestamp() time.Time { return e.Timestamp }
func (e BaseEvent) GetVersion() int         { return e.Version }

// ContentLoaded is raised when an edit session pulls a fresh baseline
type ContentLoaded struct {
	BaseEvent
	Creators   int  `json:"creators"`
	Categories int  `json:"categories"`
	Posts      int  `json:"posts"`
	Degraded   bool `json:"degraded"`
}

// NewContentLoaded creates a ContentLoaded event
func NewContentLoaded(creators, categories, posts int, degraded bool, timestamp time.Time) ContentLoaded {
	return ContentLoaded{
		BaseEvent: BaseEvent{
			AggregateID: "content",
			EventType:   "content.loaded",
			Timestamp:   timestamp,
			Version:     1,
		},
		Creators:   creators,
		Categories: categories,
		Posts:      posts,
		Degraded:   degraded,
	}
}

// ContentSaved is raised after the backend accepted a bulk replace
type ContentSaved struct {
	BaseEvent
	Creators   int `json:"creators"`
	Categories int `json:"categories"`
	Posts      int `json:"posts"`
}

// NewContentSaved creates a ContentSaved event
func NewContentSaved(creators, categories, posts int, timestamp time.Time) ContentSaved {
	return ContentSaved{
		BaseEvent: BaseEvent{
			AggregateID: "content",
			EventType:   "content.saved",
			Timestamp:   timestamp,
			Version:     1,
		},
		Creators:   creators,
		Categories: categories,
		Posts:      posts,
	}
}
