package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/varrock/clanhall-api/internal/models"
	appErrors "github.com/varrock/clanhall-api/pkg/errors"
)

func TestWebhookNotifierAuthorizeDeniedWithoutURL(t *testing.T) {
	notifier := NewWebhookNotifier("", nil)

	err := notifier.Authorize(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrNotifyDenied)
}

func TestWebhookNotifierSend(t *testing.T) {
	var received models.Notification
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	notifier := NewWebhookNotifier(srv.URL, nil)
	require.NoError(t, notifier.Authorize(context.Background()))

	err := notifier.Send(context.Background(), models.Notification{
		Title: "OSRS Clan Event Reminder",
		Body:  "Corp is starting in 30 minutes!",
	})
	require.NoError(t, err)
	assert.Equal(t, "Corp is starting in 30 minutes!", received.Body)
}

func TestWebhookNotifierSendNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	notifier := NewWebhookNotifier(srv.URL, nil)
	err := notifier.Send(context.Background(), models.Notification{Title: "t"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestLogNotifierAlwaysAuthorized(t *testing.T) {
	notifier := NewLogNotifier(nil)
	assert.NoError(t, notifier.Authorize(context.Background()))
	assert.NoError(t, notifier.Send(context.Background(), models.Notification{Title: "t"}))
}

func TestDispatcherDeliversThroughQueue(t *testing.T) {
	done := make(chan models.Notification, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var n models.Notification
		_ = json.NewDecoder(r.Body).Decode(&n)
		done <- n
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	dispatcher := NewDispatcher(NewWebhookNotifier(srv.URL, nil), DispatcherConfig{Workers: 1, BufferSize: 4}, nil)
	dispatcher.Start(context.Background())
	defer dispatcher.Stop()

	require.NoError(t, dispatcher.Deliver(models.Notification{Body: "Corp is starting in 15 minutes!"}))

	select {
	case n := <-done:
		assert.Equal(t, "Corp is starting in 15 minutes!", n.Body)
	case <-time.After(2 * time.Second):
		t.Fatal("notification never delivered")
	}
}
