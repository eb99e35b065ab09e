// Package notifier delivers stored notification intents to subscribers.
package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Aadyothcoding/ece-project-connect/internal/entities"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// Publisher pushes one notification to the outside world.
type Publisher interface {
	Publish(ctx context.Context, n entities.Notification) error
	Close() error
}

// Event is the wire form of a published notification.
type Event struct {
	ID          string            `json:"id"`
	RecipientID string            `json:"recipient_id"`
	Kind        string            `json:"kind"`
	Payload     map[string]string `json:"payload,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
}

// NewEvent converts a notification to its wire form.
func NewEvent(n entities.Notification) Event {
	return Event{
		ID:          n.ID,
		RecipientID: n.RecipientID,
		Kind:        string(n.Kind),
		Payload:     n.Payload,
		CreatedAt:   n.CreatedAt,
	}
}

// RedisPublisher publishes notifications as JSON on a Redis pub/sub channel.
type RedisPublisher struct {
	client  *redis.Client
	channel string
}

// NewRedisPublisher connects to Redis and verifies the connection.
func NewRedisPublisher(ctx context.Context, addr, password string, db int, channel string) (*RedisPublisher, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &RedisPublisher{client: client, channel: channel}, nil
}

// Publish sends the notification to the configured channel.
func (p *RedisPublisher) Publish(ctx context.Context, n entities.Notification) error {
	body, err := json.Marshal(NewEvent(n))
	if err != nil {
		return fmt.Errorf("encode notification %s: %w", n.ID, err)
	}
	if err := p.client.Publish(ctx, p.channel, body).Err(); err != nil {
		return fmt.Errorf("publish notification %s: %w", n.ID, err)
	}
	return nil
}

// Close releases the Redis connection pool.
func (p *RedisPublisher) Close() error {
	return p.client.Close()
}

// LogPublisher only logs notifications. Used when no broker is configured.
type LogPublisher struct {
	log *zap.SugaredLogger
}

// NewLogPublisher creates a publisher that writes to the log.
func NewLogPublisher(log *zap.SugaredLogger) *LogPublisher {
	return &LogPublisher{log: log.Named("notifier.log")}
}

// Publish logs the notification.
func (p *LogPublisher) Publish(_ context.Context, n entities.Notification) error {
	p.log.Debugw("notification", "notification_id", n.ID, "recipient_id", n.RecipientID, "kind", n.Kind)
	return nil
}

// Close is a no-op.
func (p *LogPublisher) Close() error { return nil }
