package models

import "time"

// FeedKind tags the two feed entry variants.
type FeedKind string

const (
	FeedKindEvent FeedKind = "event"
	FeedKindDrop  FeedKind = "drop"
)

// FeedEntry is a derived activity-log record projected from an event or a
// drop. Exactly one of Event/Drop is set, matching Kind.
type FeedEntry struct {
	ID        string    `json:"id"`
	Kind      FeedKind  `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Event     *Event    `json:"event,omitempty"`
	Drop      *Drop     `json:"drop,omitempty"`
}

// NewEventFeedEntry builds the event-created variant.
func NewEventFeedEntry(event *Event, at time.Time) FeedEntry {
	return FeedEntry{
		ID:        "event-" + event.ID,
		Kind:      FeedKindEvent,
		Timestamp: at,
		Event:     event,
	}
}

// NewDropFeedEntry builds the drop-logged variant.
func NewDropFeedEntry(drop *Drop, at time.Time) FeedEntry {
	return FeedEntry{
		ID:        "drop-" + drop.ID,
		Kind:      FeedKindDrop,
		Timestamp: at,
		Drop:      drop,
	}
}
