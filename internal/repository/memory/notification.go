package memory

import (
	"context"
	"sort"
	"time"

	"github.com/Aadyothcoding/ece-project-connect/internal/entities"
)

// Notifications returns the recipient's inbox, newest first.
func (m *Memory) Notifications(_ context.Context, recipientID string) ([]entities.Notification, error) {
	res := make([]entities.Notification, 0)
	m.read(func(st *state) {
		for _, n := range st.notes {
			if n.RecipientID == recipientID {
				res = append(res, n)
			}
		}
	})
	sort.SliceStable(res, func(i, j int) bool {
		if res[i].CreatedAt.Equal(res[j].CreatedAt) {
			return res[i].ID > res[j].ID
		}
		return res[i].CreatedAt.After(res[j].CreatedAt)
	})
	return res, nil
}

// DeleteNotification removes one inbox entry owned by the recipient.
func (m *Memory) DeleteNotification(_ context.Context, recipientID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, n := range m.st.notes {
		if n.ID == id && n.RecipientID == recipientID {
			m.st.notes = append(m.st.notes[:i:i], m.st.notes[i+1:]...)
			return nil
		}
	}
	return entities.ErrNotificationNotFound
}

// UndeliveredNotifications returns the oldest intents not yet handed to the notifier.
func (m *Memory) UndeliveredNotifications(_ context.Context, limit int) ([]entities.Notification, error) {
	res := make([]entities.Notification, 0)
	m.read(func(st *state) {
		for _, n := range st.notes {
			if n.DeliveredAt == nil {
				res = append(res, n)
			}
		}
	})
	sort.SliceStable(res, func(i, j int) bool { return res[i].CreatedAt.Before(res[j].CreatedAt) })
	if limit > 0 && len(res) > limit {
		res = res[:limit]
	}
	return res, nil
}

// MarkDelivered stamps intents as handed over.
func (m *Memory) MarkDelivered(_ context.Context, ids []string, at time.Time) error {
	want := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.st.notes {
		if _, ok := want[m.st.notes[i].ID]; ok && m.st.notes[i].DeliveredAt == nil {
			stamp := at
			m.st.notes[i].DeliveredAt = &stamp
		}
	}
	return nil
}

// DeleteNotificationsBefore purges inbox entries older than cutoff.
func (m *Memory) DeleteNotificationsBefore(_ context.Context, cutoff time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := make([]entities.Notification, 0, len(m.st.notes))
	for _, n := range m.st.notes {
		if !n.CreatedAt.Before(cutoff) {
			kept = append(kept, n)
		}
	}
	removed := int64(len(m.st.notes) - len(kept))
	m.st.notes = kept
	return removed, nil
}

// DeleteTombstonesBefore purges cascade markers older than cutoff.
func (m *Memory) DeleteTombstonesBefore(_ context.Context, cutoff time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var removed int64
	for id, at := range m.st.tombstones {
		if at.Before(cutoff) {
			delete(m.st.tombstones, id)
			removed++
		}
	}
	return removed, nil
}
