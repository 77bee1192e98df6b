// Package scheduler owns every pending reminder timer. Timer handles never
// escape this package: callers arm and disarm by event id only.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/varrock/clanhall-api/internal/models"
	appErrors "github.com/varrock/clanhall-api/pkg/errors"
)

// Sink receives fired reminders and answers the permission check. In
// production it is the queue-backed notification dispatcher.
type Sink interface {
	Authorize(ctx context.Context) error
	Deliver(n models.Notification) error
}

// Config carries notification presentation settings. OnFired, when set, is
// invoked once per delivered reminder (metrics hook).
type Config struct {
	Title   string
	IconURL string
	OnFired func()
}

type pendingReminder struct {
	seq    uint64
	timer  *time.Timer
	fireAt time.Time
}

// ReminderScheduler keeps at most one pending one-shot timer per event id.
// Each event is either unarmed (no timer) or armed (exactly one timer set
// for startsAt minus the reminder lead time).
type ReminderScheduler struct {
	sink   Sink
	logger *zap.Logger
	cfg    Config
	now    func() time.Time

	mu         sync.Mutex
	seq        uint64
	pending    map[string]*pendingReminder
	authorized bool
}

// New constructs a scheduler with no armed reminders.
func New(sink Sink, cfg Config, logger *zap.Logger) *ReminderScheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Title == "" {
		cfg.Title = "OSRS Clan Event Reminder"
	}
	return &ReminderScheduler{
		sink:    sink,
		logger:  logger,
		cfg:     cfg,
		now:     time.Now,
		pending: map[string]*pendingReminder{},
	}
}

// WithClock overrides the scheduler clock. Intended for tests.
func (s *ReminderScheduler) WithClock(now func() time.Time) *ReminderScheduler {
	s.now = now
	return s
}

// Arm schedules the event's reminder, replacing any pending timer for the
// same event first. Events without a reminder lead time are ignored. A
// computed fire time in the past is refused silently: the reminder field
// may stay set for display, but no timer is created and nothing ever fires.
// The first successful arm performs the lazy permission check; denial is
// returned to the caller and not retried here.
func (s *ReminderScheduler) Arm(ctx context.Context, event models.Event) error {
	if event.ReminderMinutes == nil {
		return nil
	}
	if err := s.ensureAuthorized(ctx); err != nil {
		return err
	}

	minutes := *event.ReminderMinutes

	s.mu.Lock()
	defer s.mu.Unlock()

	// Never leave two timers outstanding for one event.
	s.cancelLocked(event.ID)

	fireAt := event.StartsAt.Add(-time.Duration(minutes) * time.Minute)
	delay := fireAt.Sub(s.now())
	if delay <= 0 {
		return nil
	}

	s.seq++
	seq := s.seq
	id, name := event.ID, event.Name
	timer := time.AfterFunc(delay, func() {
		s.fire(id, seq, name, minutes)
	})
	s.pending[id] = &pendingReminder{seq: seq, timer: timer, fireAt: fireAt}

	s.logger.Debug("reminder armed",
		zap.String("event_id", id),
		zap.Time("fire_at", fireAt),
		zap.Int("lead_minutes", minutes),
	)
	return nil
}

// Disarm cancels the event's pending reminder. Safe to call when none
// exists.
func (s *ReminderScheduler) Disarm(eventID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancelLocked(eventID) {
		s.logger.Debug("reminder disarmed", zap.String("event_id", eventID))
	}
}

// ArmAll arms every event that currently has a future-dated reminder. Used
// once at startup; events whose permission check fails are skipped without
// prompting again.
func (s *ReminderScheduler) ArmAll(ctx context.Context, events []models.Event) int {
	armed := 0
	for _, event := range events {
		if event.ReminderMinutes == nil {
			continue
		}
		if err := s.Arm(ctx, event); err != nil {
			if errors.Is(err, appErrors.ErrNotifyDenied) {
				s.logger.Info("notifications not granted, skipping reminder arming")
				return armed
			}
			s.logger.Warn("failed to arm reminder", zap.String("event_id", event.ID), zap.Error(err))
			continue
		}
		if s.Armed(event.ID) {
			armed++
		}
	}
	return armed
}

// Armed reports whether the event currently has a pending timer.
func (s *ReminderScheduler) Armed(eventID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.pending[eventID]
	return ok
}

// Pending returns the number of outstanding timers.
func (s *ReminderScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// FireAt returns the wall-clock fire time of the event's pending timer.
func (s *ReminderScheduler) FireAt(eventID string) (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.pending[eventID]
	if !ok {
		return time.Time{}, false
	}
	return p.fireAt, true
}

// Stop cancels every pending timer. Called on shutdown.
func (s *ReminderScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, p := range s.pending {
		p.timer.Stop()
		delete(s.pending, id)
	}
}

func (s *ReminderScheduler) ensureAuthorized(ctx context.Context) error {
	s.mu.Lock()
	authorized := s.authorized
	s.mu.Unlock()
	if authorized {
		return nil
	}
	if err := s.sink.Authorize(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	s.authorized = true
	s.mu.Unlock()
	return nil
}

func (s *ReminderScheduler) cancelLocked(eventID string) bool {
	p, ok := s.pending[eventID]
	if !ok {
		return false
	}
	p.timer.Stop()
	delete(s.pending, eventID)
	return true
}

func (s *ReminderScheduler) fire(eventID string, seq uint64, name string, minutes int) {
	s.mu.Lock()
	p, ok := s.pending[eventID]
	if !ok || p.seq != seq {
		// Disarmed or re-armed after this timer drained; cancel wins.
		s.mu.Unlock()
		return
	}
	delete(s.pending, eventID)
	s.mu.Unlock()

	n := models.Notification{
		Title:   s.cfg.Title,
		Body:    fmt.Sprintf("%s is starting in %d minutes!", name, minutes),
		IconURL: s.cfg.IconURL,
	}
	if err := s.sink.Deliver(n); err != nil {
		s.logger.Warn("reminder delivery failed", zap.String("event_id", eventID), zap.Error(err))
		return
	}
	if s.cfg.OnFired != nil {
		s.cfg.OnFired()
	}
	s.logger.Info("reminder fired", zap.String("event_id", eventID), zap.Int("lead_minutes", minutes))
}
