package notify

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/varrock/clanhall-api/internal/models"
	"github.com/varrock/clanhall-api/pkg/jobs"
)

const jobTypeReminder = "reminder_notification"

// Dispatcher decouples timer firing from notification delivery: fired
// reminders are enqueued and delivered by a small worker pool, so a slow
// webhook never blocks the scheduler.
type Dispatcher struct {
	notifier Notifier
	queue    *jobs.Queue
	logger   *zap.Logger
}

// DispatcherConfig tunes the delivery queue.
type DispatcherConfig struct {
	Workers    int
	BufferSize int
}

// NewDispatcher constructs a dispatcher around the given notifier.
func NewDispatcher(notifier Notifier, cfg DispatcherConfig, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	d := &Dispatcher{notifier: notifier, logger: logger}
	d.queue = jobs.NewQueue("notifications", d.handle, jobs.QueueConfig{
		Workers:    cfg.Workers,
		BufferSize: cfg.BufferSize,
		Logger:     logger,
	})
	return d
}

// Start launches the delivery workers.
func (d *Dispatcher) Start(ctx context.Context) {
	d.queue.Start(ctx)
}

// Stop drains the workers.
func (d *Dispatcher) Stop() {
	d.queue.Stop()
}

// Authorize defers to the underlying notifier's permission check.
func (d *Dispatcher) Authorize(ctx context.Context) error {
	return d.notifier.Authorize(ctx)
}

// Deliver enqueues the notification for asynchronous delivery.
func (d *Dispatcher) Deliver(n models.Notification) error {
	return d.queue.Enqueue(jobs.Job{
		ID:      uuid.NewString(),
		Type:    jobTypeReminder,
		Payload: n,
	})
}

func (d *Dispatcher) handle(ctx context.Context, job jobs.Job) error {
	n, ok := job.Payload.(models.Notification)
	if !ok {
		return fmt.Errorf("unexpected payload type for job %s", job.ID)
	}
	return d.notifier.Send(ctx, n)
}
