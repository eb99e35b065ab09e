package notifier

import (
	"context"
	"testing"
	"time"

	"github.com/Aadyothcoding/ece-project-connect/internal/entities"

	"github.com/go-redis/redis/v8"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/require"
)

const testChannel = "project-connect.notifications"

func TestRedisPublisher_PublishesEventOnChannel(t *testing.T) {
	ctx := context.Background()
	addr := setupRedis(t)

	pub, err := NewRedisPublisher(ctx, addr, "", 0, testChannel)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pub.Close() })

	sub := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = sub.Close() })
	ps := sub.Subscribe(ctx, testChannel)
	t.Cleanup(func() { _ = ps.Close() })
	_, err = ps.Receive(ctx)
	require.NoError(t, err)

	require.NoError(t, pub.Publish(ctx, entities.Notification{
		ID:          "n1",
		RecipientID: "s1",
		Kind:        entities.KindApproved,
		Payload:     map[string]string{"team_id": "t1"},
		CreatedAt:   time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
	}))

	recvCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	msg, err := ps.ReceiveMessage(recvCtx)
	require.NoError(t, err)
	require.Equal(t, testChannel, msg.Channel)
	require.JSONEq(t,
		`{"id":"n1","recipient_id":"s1","kind":"approved","payload":{"team_id":"t1"},"created_at":"2024-03-01T09:00:00Z"}`,
		msg.Payload)
}

func TestNewRedisPublisher_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := NewRedisPublisher(ctx, "127.0.0.1:1", "", 0, testChannel)
	require.ErrorContains(t, err, "ping redis")
}

func setupRedis(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("integration test")
	}

	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("docker unavailable: %v", err)
	}
	if err := pool.Client.Ping(); err != nil {
		t.Skipf("docker unavailable: %v", err)
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "redis",
		Tag:        "7-alpine",
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = pool.Purge(resource) })

	addr := "localhost:" + resource.GetPort("6379/tcp")
	require.NoError(t, pool.Retry(func() error {
		c := redis.NewClient(&redis.Options{Addr: addr})
		defer func() { _ = c.Close() }()
		return c.Ping(context.Background()).Err()
	}))
	return addr
}
