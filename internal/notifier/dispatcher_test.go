package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/Aadyothcoding/ece-project-connect/internal/entities"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeOutbox struct {
	notes     []entities.Notification
	delivered []string
	loadErr   error
}

func (f *fakeOutbox) UndeliveredNotifications(_ context.Context, limit int) ([]entities.Notification, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	res := make([]entities.Notification, 0)
	for _, n := range f.notes {
		if n.DeliveredAt == nil {
			res = append(res, n)
		}
	}
	if len(res) > limit {
		res = res[:limit]
	}
	return res, nil
}

func (f *fakeOutbox) MarkDelivered(_ context.Context, ids []string, at time.Time) error {
	f.delivered = append(f.delivered, ids...)
	for i := range f.notes {
		for _, id := range ids {
			if f.notes[i].ID == id {
				stamp := at
				f.notes[i].DeliveredAt = &stamp
			}
		}
	}
	return nil
}

type fakePublisher struct {
	got    []string
	failOn string
}

func (p *fakePublisher) Publish(_ context.Context, n entities.Notification) error {
	if n.ID == p.failOn {
		return errors.New("broker unavailable")
	}
	p.got = append(p.got, n.ID)
	return nil
}

func (p *fakePublisher) Close() error { return nil }

func outbox(ids ...string) *fakeOutbox {
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	o := &fakeOutbox{}
	for i, id := range ids {
		o.notes = append(o.notes, entities.Notification{
			ID: id, RecipientID: "s1", Kind: entities.KindInvited, CreatedAt: base.Add(time.Duration(i) * time.Second),
		})
	}
	return o
}

func TestDispatch_PublishesInOrderAndMarks(t *testing.T) {
	o := outbox("n1", "n2", "n3")
	pub := &fakePublisher{}
	d := NewDispatcher(zap.NewNop().Sugar(), o, pub, 2)

	n, err := d.Dispatch(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, n)
	require.Equal(t, []string{"n1", "n2"}, pub.got)

	n, err = d.Dispatch(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, n)
	require.Equal(t, []string{"n1", "n2", "n3"}, o.delivered)

	n, err = d.Dispatch(context.Background())
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestDispatch_StopsAtFirstFailure(t *testing.T) {
	o := outbox("n1", "n2", "n3")
	pub := &fakePublisher{failOn: "n2"}
	d := NewDispatcher(zap.NewNop().Sugar(), o, pub, 0)

	n, err := d.Dispatch(context.Background())
	require.Error(t, err)
	require.Equal(t, 1, n)
	require.Equal(t, []string{"n1"}, o.delivered)

	pub.failOn = ""
	n, err = d.Dispatch(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, n)
	require.Equal(t, []string{"n1", "n2", "n3"}, pub.got)
}

func TestDispatch_LoadError(t *testing.T) {
	o := &fakeOutbox{loadErr: errors.New("db down")}
	d := NewDispatcher(zap.NewNop().Sugar(), o, &fakePublisher{}, 10)

	_, err := d.Dispatch(context.Background())
	require.EqualError(t, err, "db down")
}

func TestNewEvent_WireForm(t *testing.T) {
	at := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	body, err := json.Marshal(NewEvent(entities.Notification{
		ID:          "n1",
		RecipientID: "f1",
		Kind:        entities.KindReadyForReview,
		Payload:     map[string]string{"application_id": "a1"},
		CreatedAt:   at,
	}))
	require.NoError(t, err)
	require.JSONEq(t, `{
		"id": "n1",
		"recipient_id": "f1",
		"kind": "ready_for_review",
		"payload": {"application_id": "a1"},
		"created_at": "2024-03-01T09:00:00Z"
	}`, string(body))
}

func TestLogPublisher(t *testing.T) {
	p := NewLogPublisher(zap.NewNop().Sugar())
	require.NoError(t, p.Publish(context.Background(), entities.Notification{ID: "n1"}))
	require.NoError(t, p.Close())
}
