package notifier

import (
	"context"
	"time"

	"github.com/Aadyothcoding/ece-project-connect/internal/entities"
	"github.com/Aadyothcoding/ece-project-connect/internal/metrics"

	"go.uber.org/zap"
)

const defaultBatch = 100

// Outbox is the part of the repository the dispatcher drains.
type Outbox interface {
	UndeliveredNotifications(ctx context.Context, limit int) ([]entities.Notification, error)
	MarkDelivered(ctx context.Context, ids []string, at time.Time) error
}

// Dispatcher moves undelivered notifications from the outbox to a Publisher.
// Delivery is at least once: a crash between publish and mark repeats a batch.
type Dispatcher struct {
	log    *zap.SugaredLogger
	outbox Outbox
	pub    Publisher
	batch  int
	now    func() time.Time
}

// NewDispatcher creates a dispatcher draining up to batch notifications per run.
func NewDispatcher(log *zap.SugaredLogger, outbox Outbox, pub Publisher, batch int) *Dispatcher {
	if batch <= 0 {
		batch = defaultBatch
	}
	return &Dispatcher{
		log:    log.Named("notifier"),
		outbox: outbox,
		pub:    pub,
		batch:  batch,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Dispatch publishes one batch in creation order. It stops at the first
// publish failure so later notifications are not delivered ahead of it.
func (d *Dispatcher) Dispatch(ctx context.Context) (int, error) {
	pending, err := d.outbox.UndeliveredNotifications(ctx, d.batch)
	if err != nil {
		d.log.Errorw("failed to load undelivered notifications", "error", err)
		return 0, err
	}
	if len(pending) == 0 {
		return 0, nil
	}

	sent := make([]string, 0, len(pending))
	var pubErr error
	for _, n := range pending {
		if pubErr = d.pub.Publish(ctx, n); pubErr != nil {
			d.log.Warnw("failed to publish notification", "notification_id", n.ID, "error", pubErr)
			break
		}
		sent = append(sent, n.ID)
	}
	metrics.RecordDispatch(true, len(sent))
	if pubErr != nil {
		metrics.RecordDispatch(false, 1)
	}

	if len(sent) > 0 {
		if err := d.outbox.MarkDelivered(ctx, sent, d.now()); err != nil {
			d.log.Errorw("failed to mark notifications delivered", "count", len(sent), "error", err)
			return 0, err
		}
		d.log.Debugw("notifications dispatched", "count", len(sent))
	}
	return len(sent), pubErr
}
