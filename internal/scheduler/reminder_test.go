package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/varrock/clanhall-api/internal/models"
	appErrors "github.com/varrock/clanhall-api/pkg/errors"
)

type fakeSink struct {
	mu         sync.Mutex
	authErr    error
	authCalls  int
	delivered  []models.Notification
	deliverErr error
}

func (f *fakeSink) Authorize(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.authCalls++
	return f.authErr
}

func (f *fakeSink) Deliver(n models.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deliverErr != nil {
		return f.deliverErr
	}
	f.delivered = append(f.delivered, n)
	return nil
}

func (f *fakeSink) deliveredCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.delivered)
}

func intPtr(v int) *int { return &v }

func futureEvent(id string, startsIn time.Duration, leadMinutes int) models.Event {
	return models.Event{
		ID:              id,
		Name:            "Corporeal Beast",
		StartsAt:        time.Now().Add(startsIn),
		ReminderMinutes: intPtr(leadMinutes),
	}
}

func TestArmWithoutReminderIsNoop(t *testing.T) {
	sink := &fakeSink{}
	sched := New(sink, Config{}, nil)
	defer sched.Stop()

	event := futureEvent("e1", time.Hour, 10)
	event.ReminderMinutes = nil

	require.NoError(t, sched.Arm(context.Background(), event))
	assert.Equal(t, 0, sched.Pending())
	assert.Equal(t, 0, sink.authCalls, "no permission check without a reminder")
}

func TestArmSchedulesBeforeStart(t *testing.T) {
	sink := &fakeSink{}
	sched := New(sink, Config{}, nil)
	defer sched.Stop()

	event := futureEvent("e1", time.Hour, 15)
	require.NoError(t, sched.Arm(context.Background(), event))

	require.True(t, sched.Armed("e1"))
	fireAt, ok := sched.FireAt("e1")
	require.True(t, ok)
	assert.WithinDuration(t, event.StartsAt.Add(-15*time.Minute), fireAt, time.Second)
}

func TestArmPastDueStaysSilent(t *testing.T) {
	sink := &fakeSink{}
	sched := New(sink, Config{}, nil)
	defer sched.Stop()

	// Lead time longer than the gap until start: fire time already passed.
	event := futureEvent("e1", 5*time.Minute, 30)
	require.NoError(t, sched.Arm(context.Background(), event))

	assert.False(t, sched.Armed("e1"))
	assert.Equal(t, 0, sched.Pending())
}

func TestRearmReplacesPendingTimer(t *testing.T) {
	sink := &fakeSink{}
	sched := New(sink, Config{}, nil)
	defer sched.Stop()

	event := futureEvent("e1", time.Hour, 10)
	require.NoError(t, sched.Arm(context.Background(), event))

	event.ReminderMinutes = intPtr(30)
	require.NoError(t, sched.Arm(context.Background(), event))

	assert.Equal(t, 1, sched.Pending())
	fireAt, ok := sched.FireAt("e1")
	require.True(t, ok)
	assert.WithinDuration(t, event.StartsAt.Add(-30*time.Minute), fireAt, time.Second)
}

func TestDisarmCancelsDelivery(t *testing.T) {
	sink := &fakeSink{}
	sched := New(sink, Config{}, nil)
	defer sched.Stop()

	event := models.Event{
		ID:              "e1",
		Name:            "Corporeal Beast",
		StartsAt:        time.Now().Add(time.Minute + 40*time.Millisecond),
		ReminderMinutes: intPtr(1),
	}
	require.NoError(t, sched.Arm(context.Background(), event))
	require.True(t, sched.Armed("e1"))

	sched.Disarm("e1")
	assert.False(t, sched.Armed("e1"))

	time.Sleep(120 * time.Millisecond)
	assert.Equal(t, 0, sink.deliveredCount(), "cancelled reminder must never deliver")
}

func TestFireDeliversNotification(t *testing.T) {
	sink := &fakeSink{}
	fired := make(chan struct{}, 1)
	sched := New(sink, Config{Title: "Clan Reminder", IconURL: "http://icon", OnFired: func() {
		fired <- struct{}{}
	}}, nil)
	defer sched.Stop()

	event := models.Event{
		ID:              "e1",
		Name:            "Chambers of Xeric",
		StartsAt:        time.Now().Add(time.Minute + 30*time.Millisecond),
		ReminderMinutes: intPtr(1),
	}
	require.NoError(t, sched.Arm(context.Background(), event))

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("reminder never fired")
	}

	sink.mu.Lock()
	defer sink.mu.Unlock()
	require.Len(t, sink.delivered, 1)
	assert.Equal(t, "Clan Reminder", sink.delivered[0].Title)
	assert.Equal(t, "Chambers of Xeric is starting in 1 minutes!", sink.delivered[0].Body)
	assert.Equal(t, "http://icon", sink.delivered[0].IconURL)

	assert.False(t, sched.Armed("e1"), "one-shot timer must remove its own handle")
}

func TestArmDeniedSurfacesError(t *testing.T) {
	sink := &fakeSink{authErr: appErrors.ErrNotifyDenied}
	sched := New(sink, Config{}, nil)
	defer sched.Stop()

	err := sched.Arm(context.Background(), futureEvent("e1", time.Hour, 10))
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrNotifyDenied)
	assert.Equal(t, 0, sched.Pending())
}

func TestAuthorizationCheckedOnceThenCached(t *testing.T) {
	sink := &fakeSink{}
	sched := New(sink, Config{}, nil)
	defer sched.Stop()

	require.NoError(t, sched.Arm(context.Background(), futureEvent("e1", time.Hour, 10)))
	require.NoError(t, sched.Arm(context.Background(), futureEvent("e2", time.Hour, 10)))

	assert.Equal(t, 1, sink.authCalls)
}

func TestDenialIsNotCached(t *testing.T) {
	sink := &fakeSink{authErr: appErrors.ErrNotifyDenied}
	sched := New(sink, Config{}, nil)
	defer sched.Stop()

	require.Error(t, sched.Arm(context.Background(), futureEvent("e1", time.Hour, 10)))

	// Permission granted later: the next arm retries the check.
	sink.mu.Lock()
	sink.authErr = nil
	sink.mu.Unlock()
	require.NoError(t, sched.Arm(context.Background(), futureEvent("e1", time.Hour, 10)))
	assert.True(t, sched.Armed("e1"))
}

func TestArmAllSkipsEventsWithoutReminders(t *testing.T) {
	sink := &fakeSink{}
	sched := New(sink, Config{}, nil)
	defer sched.Stop()

	noReminder := futureEvent("e2", time.Hour, 0)
	noReminder.ReminderMinutes = nil
	events := []models.Event{
		futureEvent("e1", time.Hour, 10),
		noReminder,
		futureEvent("e3", 5*time.Minute, 30), // past-due, silently skipped
	}

	armed := sched.ArmAll(context.Background(), events)
	assert.Equal(t, 1, armed)
	assert.True(t, sched.Armed("e1"))
	assert.False(t, sched.Armed("e3"))
}

func TestArmAllStopsOnDenial(t *testing.T) {
	sink := &fakeSink{authErr: appErrors.ErrNotifyDenied}
	sched := New(sink, Config{}, nil)
	defer sched.Stop()

	events := []models.Event{
		futureEvent("e1", time.Hour, 10),
		futureEvent("e2", time.Hour, 10),
	}
	armed := sched.ArmAll(context.Background(), events)
	assert.Equal(t, 0, armed)
	assert.Equal(t, 1, sink.authCalls, "denial stops the sweep, no re-prompt per event")
}

func TestStopCancelsEverything(t *testing.T) {
	sink := &fakeSink{}
	sched := New(sink, Config{}, nil)

	require.NoError(t, sched.Arm(context.Background(), futureEvent("e1", time.Hour, 10)))
	require.NoError(t, sched.Arm(context.Background(), futureEvent("e2", time.Hour, 10)))
	require.Equal(t, 2, sched.Pending())

	sched.Stop()
	assert.Equal(t, 0, sched.Pending())
}
