package store

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/varrock/clanhall-api/internal/models"
)

// NewEventParams carries the fields of a user-submitted event.
type NewEventParams struct {
	Name            string
	Description     string
	StartsAt        time.Time
	Host            string
	ReminderMinutes *int
}

// EventStore holds the clan event list in memory. The list is kept sorted
// ascending by start time.
type EventStore struct {
	mu     sync.RWMutex
	events []models.Event
	now    func() time.Time
}

// NewEventStore constructs an empty event store.
func NewEventStore() *EventStore {
	return &EventStore{now: time.Now}
}

// WithClock overrides the store clock. Intended for tests.
func (s *EventStore) WithClock(now func() time.Time) *EventStore {
	s.now = now
	return s
}

// Add creates a new event with a fresh id and the host as first attendee.
func (s *EventStore) Add(params NewEventParams) models.Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	event := models.Event{
		ID:              uuid.NewString(),
		Name:            params.Name,
		Description:     params.Description,
		Time:            params.StartsAt.Format(models.DisplayTimeLayout),
		StartsAt:        params.StartsAt,
		Host:            params.Host,
		Attendees:       []string{params.Host},
		ReminderMinutes: params.ReminderMinutes,
		CreatedAt:       s.now().UTC(),
	}

	s.events = append(s.events, event)
	sort.SliceStable(s.events, func(i, j int) bool {
		return s.events[i].StartsAt.Before(s.events[j].StartsAt)
	})

	return event
}

// List returns a copy of the events, sorted ascending by start time.
func (s *EventStore) List() []models.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Event, len(s.events))
	copy(out, s.events)
	return out
}

// Get returns the event with the given id.
func (s *EventStore) Get(id string) (models.Event, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, event := range s.events {
		if event.ID == id {
			return event, true
		}
	}
	return models.Event{}, false
}

// ToggleSignup removes the member from the attendee list when present, or
// appends them when absent. Unknown ids are a silent no-op (ok=false).
func (s *EventStore) ToggleSignup(id, member string) (models.Event, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.events {
		if s.events[i].ID != id {
			continue
		}
		event := &s.events[i]
		if event.HasAttendee(member) {
			kept := make([]string, 0, len(event.Attendees)-1)
			for _, a := range event.Attendees {
				if a != member {
					kept = append(kept, a)
				}
			}
			event.Attendees = kept
		} else {
			event.Attendees = append(event.Attendees, member)
		}
		return *event, true
	}
	return models.Event{}, false
}

// SetReminderMinutes updates only the reminder field. Timer bookkeeping is
// the scheduler's job.
func (s *EventStore) SetReminderMinutes(id string, minutes *int) (models.Event, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.events {
		if s.events[i].ID != id {
			continue
		}
		s.events[i].ReminderMinutes = minutes
		return s.events[i], true
	}
	return models.Event{}, false
}
