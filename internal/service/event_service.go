package service

import (
	"context"
	"errors"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/varrock/clanhall-api/internal/dto"
	"github.com/varrock/clanhall-api/internal/models"
	"github.com/varrock/clanhall-api/internal/store"
	appErrors "github.com/varrock/clanhall-api/pkg/errors"
)

type reminderScheduler interface {
	Arm(ctx context.Context, event models.Event) error
	Disarm(eventID string)
}

// EventService orchestrates event creation, signups, and reminder toggles.
type EventService struct {
	events      *store.EventStore
	feed        *store.FeedStore
	reminders   reminderScheduler
	validate    *validator.Validate
	logger      *zap.Logger
	currentUser string
	now         func() time.Time
}

// NewEventService constructs the event service.
func NewEventService(events *store.EventStore, feed *store.FeedStore, reminders reminderScheduler, validate *validator.Validate, currentUser string, logger *zap.Logger) *EventService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &EventService{
		events:      events,
		feed:        feed,
		reminders:   reminders,
		validate:    validate,
		logger:      logger,
		currentUser: currentUser,
		now:         time.Now,
	}
}

// List returns all events, soonest first.
func (s *EventService) List() []models.Event {
	return s.events.List()
}

// Create validates and stores a new event, prepends a feed entry, and arms
// the reminder when one was requested. The event is created even when the
// notification permission is denied; the denial is returned as a warning so
// the caller can surface it without losing the event.
func (s *EventService) Create(ctx context.Context, req dto.CreateEventRequest) (*models.Event, string, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid event payload")
	}

	event := s.events.Add(store.NewEventParams{
		Name:            req.Name,
		Description:     req.Description,
		StartsAt:        req.StartsAt.UTC(),
		Host:            req.Host,
		ReminderMinutes: req.ReminderMinutes,
	})
	s.feed.Prepend(models.NewEventFeedEntry(&event, s.now().UTC()))

	warning := ""
	if req.ReminderMinutes != nil {
		if err := s.reminders.Arm(ctx, event); err != nil {
			if !errors.Is(err, appErrors.ErrNotifyDenied) {
				return nil, "", err
			}
			warning = appErrors.FromError(err).Message
			s.logger.Warn("reminder not armed for new event", zap.String("event_id", event.ID), zap.Error(err))
		}
	}

	s.logger.Info("event created", zap.String("event_id", event.ID), zap.String("name", event.Name))
	return &event, warning, nil
}

// ToggleSignup adds or removes the current user from the attendee list.
// Toggling twice restores the original attendee set.
func (s *EventService) ToggleSignup(eventID string) (*models.Event, error) {
	event, ok := s.events.ToggleSignup(eventID, s.currentUser)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "event not found")
	}
	return &event, nil
}

// SetReminder updates the event's reminder lead time. A nil value disarms
// any pending notification and clears the field. A non-nil value arms
// first: on permission denial the field is left unchanged and no timer is
// created; a past-dated fire time stores the field without arming.
func (s *EventService) SetReminder(ctx context.Context, eventID string, minutes *int) (*models.Event, error) {
	event, ok := s.events.Get(eventID)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "event not found")
	}

	if minutes == nil {
		s.reminders.Disarm(eventID)
		event, _ = s.events.SetReminderMinutes(eventID, nil)
		return &event, nil
	}

	candidate := event
	candidate.ReminderMinutes = minutes
	if err := s.reminders.Arm(ctx, candidate); err != nil {
		return nil, err
	}

	event, _ = s.events.SetReminderMinutes(eventID, minutes)
	return &event, nil
}

// ICS renders the event list as an iCalendar feed so members can subscribe
// from their own calendar apps.
func (s *EventService) ICS() string {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//Clanhall//Events//EN")

	for _, event := range s.events.List() {
		entry := cal.AddEvent("event-" + event.ID + "@clanhall")
		entry.SetCreatedTime(event.CreatedAt)
		entry.SetDtStampTime(event.CreatedAt)
		entry.SetStartAt(event.StartsAt)
		entry.SetEndAt(event.StartsAt.Add(time.Hour))
		entry.SetSummary(event.Name)
		entry.SetDescription(event.Description)
		entry.SetOrganizer(event.Host)
	}

	return cal.Serialize()
}
