package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Aadyothcoding/ece-project-connect/internal/entities"
)

const (
	notificationColumns = `id, recipient_id, kind, payload, created_at, delivered_at`

	insertNotificationQuery = `INSERT INTO notifications(id, recipient_id, kind, payload, created_at) VALUES ($1,$2,$3,$4,$5)`
	selectInboxQuery        = `SELECT ` + notificationColumns + ` FROM notifications WHERE recipient_id=$1 ORDER BY created_at DESC, id DESC`
	selectUndeliveredQuery  = `SELECT ` + notificationColumns + ` FROM notifications WHERE delivered_at IS NULL ORDER BY created_at, id LIMIT $1`
	deleteNotificationQuery = `DELETE FROM notifications WHERE id=$1 AND recipient_id=$2`
	markDeliveredQuery      = `UPDATE notifications SET delivered_at=$2 WHERE id = ANY($1) AND delivered_at IS NULL`
	purgeNotificationsQuery = `DELETE FROM notifications WHERE created_at < $1`
	purgeTombstonesQuery    = `DELETE FROM superseded_applications WHERE superseded_at < $1`
)

// Notifications returns the recipient's inbox, newest first.
func (p *Postgres) Notifications(ctx context.Context, recipientID string) ([]entities.Notification, error) {
	return p.queryNotifications(ctx, selectInboxQuery, recipientID)
}

// DeleteNotification removes one inbox entry owned by the recipient.
func (p *Postgres) DeleteNotification(ctx context.Context, recipientID, id string) error {
	tag, err := p.db.Exec(ctx, deleteNotificationQuery, id, recipientID)
	if err != nil {
		return fmt.Errorf("delete notification: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return entities.ErrNotificationNotFound
	}
	return nil
}

// UndeliveredNotifications returns the oldest intents not yet handed to the notifier.
func (p *Postgres) UndeliveredNotifications(ctx context.Context, limit int) ([]entities.Notification, error) {
	return p.queryNotifications(ctx, selectUndeliveredQuery, limit)
}

// MarkDelivered stamps intents as handed over.
func (p *Postgres) MarkDelivered(ctx context.Context, ids []string, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	if _, err := p.db.Exec(ctx, markDeliveredQuery, ids, at); err != nil {
		return fmt.Errorf("mark delivered: %w", err)
	}
	return nil
}

// DeleteNotificationsBefore purges inbox entries older than cutoff.
func (p *Postgres) DeleteNotificationsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := p.db.Exec(ctx, purgeNotificationsQuery, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge notifications: %w", err)
	}
	return tag.RowsAffected(), nil
}

// DeleteTombstonesBefore purges cascade markers older than cutoff.
func (p *Postgres) DeleteTombstonesBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := p.db.Exec(ctx, purgeTombstonesQuery, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge tombstones: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (t *pgTx) InsertNotifications(ctx context.Context, notes []entities.Notification) error {
	for _, n := range notes {
		payload := n.Payload
		if payload == nil {
			payload = map[string]string{}
		}
		if _, err := t.q.Exec(ctx, insertNotificationQuery, n.ID, n.RecipientID, string(n.Kind), payload, n.CreatedAt); err != nil {
			t.log.Errorw("failed to insert notification", "error", err, "recipient_id", n.RecipientID, "kind", n.Kind)
			return fmt.Errorf("insert notification: %w", err)
		}
	}
	return nil
}

func (p *Postgres) queryNotifications(ctx context.Context, query string, arg any) ([]entities.Notification, error) {
	rows, err := p.db.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("select notifications: %w", err)
	}
	defer rows.Close()

	res := make([]entities.Notification, 0)
	for rows.Next() {
		var (
			n    entities.Notification
			kind string
		)
		if err := rows.Scan(&n.ID, &n.RecipientID, &kind, &n.Payload, &n.CreatedAt, &n.DeliveredAt); err != nil {
			p.log.Errorw("failed to scan notification", "error", err)
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		n.Kind = entities.NotificationKind(kind)
		res = append(res, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notifications: %w", err)
	}
	return res, nil
}
