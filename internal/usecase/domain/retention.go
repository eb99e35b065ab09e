package domain

import (
	"context"

	"github.com/Aadyothcoding/ece-project-connect/internal/entities"
	"github.com/Aadyothcoding/ece-project-connect/internal/metrics"
	"github.com/Aadyothcoding/ece-project-connect/internal/repository"
)

// ExpireStale discards live applications older than the retention window and
// tells every member. Rows held by an in-flight operation are skipped and
// picked up by the next sweep.
func (u *Usecase) ExpireStale(ctx context.Context) (int, error) {
	cutoff := u.now().Add(-u.applicationTTL)

	expired := 0
	err := u.repo.InTx(ctx, nil, func(tx repository.Tx) error {
		stale, err := tx.LockApplicationsAppliedBefore(ctx, cutoff)
		if err != nil {
			return err
		}
		notes := make([]entities.Notification, 0)
		for _, a := range stale {
			if err := tx.DeleteApplication(ctx, a.ID); err != nil {
				return err
			}
			for _, m := range a.Members {
				notes = append(notes, u.note(m.StudentID, entities.KindExpired, map[string]string{
					"application_id": a.ID,
					"project_id":     a.ProjectID,
				}))
			}
		}
		expired = len(stale)
		return tx.InsertNotifications(ctx, notes)
	})
	if err != nil {
		u.log.Errorw("failed to expire applications", "error", err)
		return 0, err
	}

	metrics.RecordExpired(expired)
	if expired > 0 {
		u.log.Infow("applications expired", "count", expired, "cutoff", cutoff)
	}
	return expired, nil
}

// PurgeNotifications deletes inbox entries past their retention and stale cascade markers.
func (u *Usecase) PurgeNotifications(ctx context.Context) (int64, error) {
	now := u.now()

	purged, err := u.repo.DeleteNotificationsBefore(ctx, now.Add(-u.notificationTTL))
	if err != nil {
		u.log.Errorw("failed to purge notifications", "error", err)
		return 0, err
	}
	if _, err := u.repo.DeleteTombstonesBefore(ctx, now.Add(-u.applicationTTL)); err != nil {
		u.log.Errorw("failed to purge tombstones", "error", err)
		return purged, err
	}
	if purged > 0 {
		u.log.Infow("notifications purged", "count", purged)
	}
	return purged, nil
}

// Sweep runs every retention step once.
func (u *Usecase) Sweep(ctx context.Context) error {
	if _, err := u.ExpireStale(ctx); err != nil {
		return err
	}
	_, err := u.PurgeNotifications(ctx)
	return err
}
