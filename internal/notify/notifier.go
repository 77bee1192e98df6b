package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/varrock/clanhall-api/internal/models"
	appErrors "github.com/varrock/clanhall-api/pkg/errors"
)

// Notifier is the local notification surface. Authorize performs the
// one-time permission grant; it is checked lazily, the first time a
// reminder is armed.
type Notifier interface {
	Authorize(ctx context.Context) error
	Send(ctx context.Context, n models.Notification) error
}

// WebhookNotifier posts notifications to a configured webhook URL.
// Permission is considered denied while no URL is configured.
type WebhookNotifier struct {
	url    string
	client *http.Client
	logger *zap.Logger
}

// NewWebhookNotifier constructs a webhook notifier.
func NewWebhookNotifier(url string, logger *zap.Logger) *WebhookNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WebhookNotifier{url: url, client: http.DefaultClient, logger: logger}
}

// Authorize reports whether notifications may be delivered.
func (w *WebhookNotifier) Authorize(ctx context.Context) error {
	if w.url == "" {
		return appErrors.ErrNotifyDenied
	}
	return nil
}

// Send delivers the notification to the webhook.
func (w *WebhookNotifier) Send(ctx context.Context, n models.Notification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("webhook responded with status %d", resp.StatusCode)
	}

	w.logger.Debug("notification delivered", zap.String("title", n.Title))
	return nil
}

// LogNotifier writes notifications to the application log. Used in
// development when no webhook is configured but notifications should still
// be visible.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier constructs a log-backed notifier.
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogNotifier{logger: logger}
}

// Authorize always grants permission.
func (l *LogNotifier) Authorize(ctx context.Context) error { return nil }

// Send logs the notification.
func (l *LogNotifier) Send(ctx context.Context, n models.Notification) error {
	l.logger.Info("notification",
		zap.String("title", n.Title),
		zap.String("body", n.Body),
	)
	return nil
}
