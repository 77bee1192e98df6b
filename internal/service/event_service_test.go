package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/varrock/clanhall-api/internal/dto"
	"github.com/varrock/clanhall-api/internal/models"
	"github.com/varrock/clanhall-api/internal/store"
	appErrors "github.com/varrock/clanhall-api/pkg/errors"
)

type fakeScheduler struct {
	armErr   error
	armed    []models.Event
	disarmed []string
}

func (f *fakeScheduler) Arm(_ context.Context, event models.Event) error {
	if f.armErr != nil {
		return f.armErr
	}
	f.armed = append(f.armed, event)
	return nil
}

func (f *fakeScheduler) Disarm(eventID string) {
	f.disarmed = append(f.disarmed, eventID)
}

func newEventFixture(t *testing.T) (*EventService, *store.EventStore, *store.FeedStore, *fakeScheduler) {
	t.Helper()
	events := store.NewEventStore()
	feed := store.NewFeedStore()
	sched := &fakeScheduler{}
	svc := NewEventService(events, feed, sched, nil, "RuneScaper99", nil)
	return svc, events, feed, sched
}

func TestEventServiceCreateStoresAndArms(t *testing.T) {
	svc, events, feed, sched := newEventFixture(t)

	created, warning, err := svc.Create(context.Background(), dto.CreateEventRequest{
		Name:            "Corporeal Beast",
		Description:     "Mass trip",
		StartsAt:        time.Now().Add(2 * time.Hour),
		Host:            "IronmanBTW",
		ReminderMinutes: intPtr(30),
	})
	require.NoError(t, err)
	assert.Empty(t, warning)
	require.NotNil(t, created)

	assert.Len(t, events.List(), 1)
	require.Len(t, sched.armed, 1)
	assert.Equal(t, created.ID, sched.armed[0].ID)

	entries := feed.List()
	require.Len(t, entries, 1)
	assert.Equal(t, "event-"+created.ID, entries[0].ID)
}

func TestEventServiceCreateRejectsInvalidPayload(t *testing.T) {
	svc, events, _, _ := newEventFixture(t)

	_, _, err := svc.Create(context.Background(), dto.CreateEventRequest{
		Description: "no name, no host",
		StartsAt:    time.Now().Add(time.Hour),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrValidation)
	assert.Empty(t, events.List())
}

func TestEventServiceCreateSurvivesDeniedNotifications(t *testing.T) {
	svc, events, _, sched := newEventFixture(t)
	sched.armErr = appErrors.ErrNotifyDenied

	created, warning, err := svc.Create(context.Background(), dto.CreateEventRequest{
		Name:            "Wilderness Bossing",
		StartsAt:        time.Now().Add(time.Hour),
		Host:            "Pker",
		ReminderMinutes: intPtr(10),
	})
	require.NoError(t, err, "denied permission must not lose the event")
	require.NotNil(t, created)
	assert.NotEmpty(t, warning)
	assert.Len(t, events.List(), 1)
}

func TestEventServiceCreateSkipsArmWithoutReminder(t *testing.T) {
	svc, _, _, sched := newEventFixture(t)

	_, _, err := svc.Create(context.Background(), dto.CreateEventRequest{
		Name:     "Skilling Comp",
		StartsAt: time.Now().Add(time.Hour),
		Host:     "Maxed Btw",
	})
	require.NoError(t, err)
	assert.Empty(t, sched.armed)
}

func TestEventServiceToggleSignup(t *testing.T) {
	svc, _, _, _ := newEventFixture(t)

	created, _, err := svc.Create(context.Background(), dto.CreateEventRequest{
		Name:     "Corp",
		StartsAt: time.Now().Add(time.Hour),
		Host:     "host",
	})
	require.NoError(t, err)

	joined, err := svc.ToggleSignup(created.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"host", "RuneScaper99"}, joined.Attendees)

	left, err := svc.ToggleSignup(created.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"host"}, left.Attendees)
}

func TestEventServiceToggleSignupUnknownEvent(t *testing.T) {
	svc, _, _, _ := newEventFixture(t)

	_, err := svc.ToggleSignup("missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestEventServiceSetReminderArmsThenStores(t *testing.T) {
	svc, events, _, sched := newEventFixture(t)

	created, _, err := svc.Create(context.Background(), dto.CreateEventRequest{
		Name:     "Corp",
		StartsAt: time.Now().Add(2 * time.Hour),
		Host:     "host",
	})
	require.NoError(t, err)

	updated, err := svc.SetReminder(context.Background(), created.ID, intPtr(45))
	require.NoError(t, err)
	require.NotNil(t, updated.ReminderMinutes)
	assert.Equal(t, 45, *updated.ReminderMinutes)
	require.Len(t, sched.armed, 1)

	stored, ok := events.Get(created.ID)
	require.True(t, ok)
	require.NotNil(t, stored.ReminderMinutes)
	assert.Equal(t, 45, *stored.ReminderMinutes)
}

func TestEventServiceSetReminderDenialLeavesFieldUnchanged(t *testing.T) {
	svc, events, _, sched := newEventFixture(t)

	created, _, err := svc.Create(context.Background(), dto.CreateEventRequest{
		Name:     "Corp",
		StartsAt: time.Now().Add(2 * time.Hour),
		Host:     "host",
	})
	require.NoError(t, err)

	sched.armErr = appErrors.ErrNotifyDenied
	_, err = svc.SetReminder(context.Background(), created.ID, intPtr(15))
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrNotifyDenied)

	stored, ok := events.Get(created.ID)
	require.True(t, ok)
	assert.Nil(t, stored.ReminderMinutes, "denied arm must not persist the lead time")
}

func TestEventServiceSetReminderNilDisarmsAndClears(t *testing.T) {
	svc, events, _, sched := newEventFixture(t)

	created, _, err := svc.Create(context.Background(), dto.CreateEventRequest{
		Name:            "Corp",
		StartsAt:        time.Now().Add(2 * time.Hour),
		Host:            "host",
		ReminderMinutes: intPtr(30),
	})
	require.NoError(t, err)

	updated, err := svc.SetReminder(context.Background(), created.ID, nil)
	require.NoError(t, err)
	assert.Nil(t, updated.ReminderMinutes)
	assert.Equal(t, []string{created.ID}, sched.disarmed)

	stored, _ := events.Get(created.ID)
	assert.Nil(t, stored.ReminderMinutes)
}

func TestEventServiceSetReminderUnknownEvent(t *testing.T) {
	svc, _, _, _ := newEventFixture(t)

	_, err := svc.SetReminder(context.Background(), "missing", intPtr(10))
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestEventServiceICS(t *testing.T) {
	svc, _, _, _ := newEventFixture(t)

	_, _, err := svc.Create(context.Background(), dto.CreateEventRequest{
		Name:        "Chambers of Xeric",
		Description: "Learner raid",
		StartsAt:    time.Now().Add(24 * time.Hour),
		Host:        "Godslayer",
	})
	require.NoError(t, err)

	ics := svc.ICS()
	assert.True(t, strings.HasPrefix(ics, "BEGIN:VCALENDAR"))
	assert.Contains(t, ics, "BEGIN:VEVENT")
	assert.Contains(t, ics, "SUMMARY:Chambers of Xeric")
	assert.Contains(t, ics, "METHOD:PUBLISH")
}
