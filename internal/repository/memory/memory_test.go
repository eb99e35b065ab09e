package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Aadyothcoding/ece-project-connect/internal/entities"
	"github.com/Aadyothcoding/ece-project-connect/internal/repository/txn"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func solo(id, project, student string, priority int, at time.Time) entities.Application {
	return entities.Application{
		ID: id, ProjectID: project, Type: entities.TypeIndividual, LeaderID: student, Priority: priority,
		Status: entities.StatusPendingFacultyApproval, AppliedAt: at,
		Members: []entities.Member{{StudentID: student, Status: entities.MemberApproved}},
	}
}

func TestInTx_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	repo := New(zap.NewNop().Sugar())
	boom := errors.New("boom")

	err := repo.InTx(ctx, nil, func(tx txn.Tx) error {
		if err := tx.InsertApplication(ctx, solo("a1", "p1", "s1", 1, time.Now())); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = repo.Application(ctx, "a1")
	require.ErrorIs(t, err, entities.ErrApplicationNotFound)
}

func TestInsertApplication_Constraints(t *testing.T) {
	ctx := context.Background()
	repo := New(zap.NewNop().Sugar())
	now := time.Now()

	require.NoError(t, repo.InTx(ctx, nil, func(tx txn.Tx) error {
		return tx.InsertApplication(ctx, solo("a1", "p1", "s1", 1, now))
	}))

	err := repo.InTx(ctx, nil, func(tx txn.Tx) error {
		return tx.InsertApplication(ctx, solo("a2", "p1", "s1", 2, now))
	})
	require.ErrorIs(t, err, entities.ErrDuplicateApplication)

	err = repo.InTx(ctx, nil, func(tx txn.Tx) error {
		return tx.InsertApplication(ctx, solo("a3", "p2", "s1", 1, now))
	})
	require.ErrorIs(t, err, entities.ErrQuotaExceeded)
}

func TestDeleteApplicationsByMembers_LeavesTombstones(t *testing.T) {
	ctx := context.Background()
	repo := New(zap.NewNop().Sugar())
	now := time.Now()

	require.NoError(t, repo.InTx(ctx, nil, func(tx txn.Tx) error {
		if err := tx.InsertApplication(ctx, solo("a1", "p1", "s1", 1, now)); err != nil {
			return err
		}
		return tx.InsertApplication(ctx, solo("a2", "p2", "s1", 2, now))
	}))

	require.NoError(t, repo.InTx(ctx, nil, func(tx txn.Tx) error {
		deleted, err := tx.DeleteApplicationsByMembers(ctx, []string{"s1"}, now)
		require.Len(t, deleted, 2)
		return err
	}))

	ok, err := repo.Superseded(ctx, "a2")
	require.NoError(t, err)
	require.True(t, ok)

	n, err := repo.DeleteTombstonesBefore(ctx, now.Add(time.Second))
	require.NoError(t, err)
	require.Equal(t, int64(2), n)
}

func TestSnapshot_IsReadOnly(t *testing.T) {
	ctx := context.Background()
	repo := New(zap.NewNop().Sugar())

	err := repo.Snapshot(ctx, func(tx txn.Tx) error {
		return tx.InsertApplication(ctx, solo("a1", "p1", "s1", 1, time.Now()))
	})
	require.ErrorIs(t, err, errReadOnly)
}

func TestTeams_MembershipExclusive(t *testing.T) {
	ctx := context.Background()
	repo := New(zap.NewNop().Sugar())
	team := entities.Team{ID: "t1", ProjectID: "p1", FacultyID: "f1", Members: []entities.TeamMember{{StudentID: "s1"}}}

	require.NoError(t, repo.InTx(ctx, nil, func(tx txn.Tx) error { return tx.InsertTeam(ctx, team) }))

	other := team
	other.ID = "t2"
	err := repo.InTx(ctx, nil, func(tx txn.Tx) error { return tx.InsertTeam(ctx, other) })
	require.ErrorIs(t, err, entities.ErrAlreadyInTeam)

	err = repo.InTx(ctx, nil, func(tx txn.Tx) error { return tx.RemoveTeamMember(ctx, "t1", "s9") })
	require.ErrorIs(t, err, entities.ErrNotAMember)

	teams, err := repo.TeamsByFaculty(ctx, "f1")
	require.NoError(t, err)
	require.Len(t, teams, 1)
}

func TestNotifications_Inbox(t *testing.T) {
	ctx := context.Background()
	repo := New(zap.NewNop().Sugar())
	old := time.Now().Add(-time.Hour)
	now := time.Now()

	require.NoError(t, repo.InTx(ctx, nil, func(tx txn.Tx) error {
		return tx.InsertNotifications(ctx, []entities.Notification{
			{ID: "n1", RecipientID: "s1", Kind: entities.KindInvited, CreatedAt: old},
			{ID: "n2", RecipientID: "s1", Kind: entities.KindApproved, CreatedAt: now},
			{ID: "n3", RecipientID: "s2", Kind: entities.KindInvited, CreatedAt: now},
		})
	}))

	inbox, err := repo.Notifications(ctx, "s1")
	require.NoError(t, err)
	require.Equal(t, "n2", inbox[0].ID)
	require.Len(t, inbox, 2)

	pending, err := repo.UndeliveredNotifications(ctx, 2)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	require.Equal(t, "n1", pending[0].ID)

	require.NoError(t, repo.MarkDelivered(ctx, []string{"n1", "n2"}, now))
	pending, err = repo.UndeliveredNotifications(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	require.ErrorIs(t, repo.DeleteNotification(ctx, "s2", "n1"), entities.ErrNotificationNotFound)
	require.NoError(t, repo.DeleteNotification(ctx, "s1", "n1"))

	n, err := repo.DeleteNotificationsBefore(ctx, now)
	require.NoError(t, err)
	require.Zero(t, n)
}
