package postgres

import (
	"context"
	"database/sql"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/Aadyothcoding/ece-project-connect/config"
	"github.com/Aadyothcoding/ece-project-connect/internal/entities"
	"github.com/Aadyothcoding/ece-project-connect/internal/repository/txn"

	_ "github.com/lib/pq"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRepositoryIntegration(t *testing.T) {
	ctx := context.Background()

	cfg, cleanup := setupPostgres(t)
	t.Cleanup(cleanup)

	repo := New(ctx, testLogger(t), cfg)
	require.NoError(t, repo.OnStart(ctx))
	t.Cleanup(func() { _ = repo.OnStop(ctx) })

	seedCatalog(ctx, t, repo)

	project, err := repo.Project(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, "f1", project.FacultyID)
	_, err = repo.Project(ctx, "missing")
	require.ErrorIs(t, err, entities.ErrProjectNotFound)

	byReg, err := repo.Student(ctx, "RA002")
	require.NoError(t, err)
	require.Equal(t, "s2", byReg.ID)

	appliedAt := time.Now().UTC().Truncate(time.Microsecond)
	group := entities.Application{
		ID: "a1", ProjectID: "p1", Type: entities.TypeGroup, LeaderID: "s1", Priority: 1,
		Status: entities.StatusPendingMemberApproval, AppliedAt: appliedAt,
		Members: []entities.Member{
			{StudentID: "s1", Name: "Asha", RegNo: "RA001", Status: entities.MemberApproved},
			{StudentID: "s2", Name: "Bala", RegNo: "RA002", Status: entities.MemberPending},
			{StudentID: "s3", Name: "Chitra", RegNo: "RA003", Status: entities.MemberPending},
		},
	}
	require.NoError(t, repo.InTx(ctx, []string{"student:s1", "student:s2", "student:s3"}, func(tx txn.Tx) error {
		return tx.InsertApplication(ctx, group)
	}))

	dup := group
	dup.ID = "a-dup"
	dup.LeaderID = "s4"
	dup.Priority = 1
	dup.Members = []entities.Member{{StudentID: "s2", Status: entities.MemberApproved}}
	err = repo.InTx(ctx, nil, func(tx txn.Tx) error { return tx.InsertApplication(ctx, dup) })
	require.ErrorIs(t, err, entities.ErrDuplicateApplication)

	invites, err := repo.PendingInvitations(ctx, "s2")
	require.NoError(t, err)
	require.Len(t, invites, 1)
	require.Equal(t, "Asha", invites[0].LeaderName)
	require.Equal(t, "Project One", invites[0].ProjectTitle)

	require.NoError(t, repo.InTx(ctx, nil, func(tx txn.Tx) error {
		app, err := tx.LockApplication(ctx, "a1")
		if err != nil {
			return err
		}
		app.SetMemberStatus("s2", entities.MemberApproved)
		app.SetMemberStatus("s3", entities.MemberApproved)
		app.Status = entities.StatusPendingFacultyApproval
		return tx.UpdateApplication(ctx, app)
	}))

	got, err := repo.Application(ctx, "a1")
	require.NoError(t, err)
	require.Equal(t, entities.StatusPendingFacultyApproval, got.Status)
	require.Equal(t, []string{"s1", "s2", "s3"}, got.MemberIDs())
	require.True(t, got.AllApproved())

	require.NoError(t, repo.Snapshot(ctx, func(tx txn.Tx) error {
		set, err := tx.PriorityOneMembers(ctx, []string{"s2", "s4"})
		require.NoError(t, err)
		require.Contains(t, set, "s2")
		require.NotContains(t, set, "s4")
		return nil
	}))

	team := entities.Team{
		ID: "t1", ProjectID: "p1", FacultyID: "f1", FacultyName: "Dr. Rao", Type: entities.TypeGroup,
		Members:    []entities.TeamMember{{StudentID: "s1"}, {StudentID: "s2"}, {StudentID: "s3"}},
		ApprovedAt: appliedAt,
	}
	require.NoError(t, repo.InTx(ctx, []string{"student:s1", "student:s2", "student:s3"}, func(tx txn.Tx) error {
		if err := tx.InsertTeam(ctx, team); err != nil {
			return err
		}
		deleted, err := tx.DeleteApplicationsByMembers(ctx, []string{"s1", "s2", "s3"}, appliedAt)
		if err != nil {
			return err
		}
		require.Len(t, deleted, 1)
		return tx.InsertNotifications(ctx, []entities.Notification{{
			ID: "n1", RecipientID: "s1", Kind: entities.KindApproved,
			Payload: map[string]string{"team_id": "t1"}, CreatedAt: appliedAt,
		}})
	}))

	superseded, err := repo.Superseded(ctx, "a1")
	require.NoError(t, err)
	require.True(t, superseded)

	_, err = repo.Application(ctx, "a1")
	require.ErrorIs(t, err, entities.ErrApplicationNotFound)

	err = repo.InTx(ctx, nil, func(tx txn.Tx) error {
		return tx.AddTeamMember(ctx, "t1", entities.TeamMember{StudentID: "s2"})
	})
	require.ErrorIs(t, err, entities.ErrAlreadyInTeam)

	teams, err := repo.TeamsByFaculty(ctx, "f1")
	require.NoError(t, err)
	require.Len(t, teams, 1)
	require.Len(t, teams[0].Members, 3)

	inbox, err := repo.Notifications(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, inbox, 1)
	require.Equal(t, "t1", inbox[0].Payload["team_id"])

	pending, err := repo.UndeliveredNotifications(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	require.NoError(t, repo.MarkDelivered(ctx, []string{"n1"}, time.Now()))
	pending, err = repo.UndeliveredNotifications(ctx, 10)
	require.NoError(t, err)
	require.Empty(t, pending)

	require.ErrorIs(t, repo.DeleteNotification(ctx, "s2", "n1"), entities.ErrNotificationNotFound)
	require.NoError(t, repo.DeleteNotification(ctx, "s1", "n1"))

	stats, err := repo.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(3), stats.StudentsInTeams)
	require.Equal(t, int64(1), stats.TeamsByType[entities.TypeGroup])
}

func TestRepositoryExpiryIntegration(t *testing.T) {
	ctx := context.Background()

	cfg, cleanup := setupPostgres(t)
	t.Cleanup(cleanup)

	repo := New(ctx, testLogger(t), cfg)
	require.NoError(t, repo.OnStart(ctx))
	t.Cleanup(func() { _ = repo.OnStop(ctx) })

	seedCatalog(ctx, t, repo)

	old := time.Now().Add(-72 * time.Hour)
	require.NoError(t, repo.InTx(ctx, nil, func(tx txn.Tx) error {
		return tx.InsertApplication(ctx, entities.Application{
			ID: "old", ProjectID: "p1", Type: entities.TypeIndividual, LeaderID: "s4", Priority: 1,
			Status: entities.StatusPendingFacultyApproval, AppliedAt: old,
			Members: []entities.Member{{StudentID: "s4", Status: entities.MemberApproved}},
		})
	}))

	require.NoError(t, repo.InTx(ctx, nil, func(tx txn.Tx) error {
		stale, err := tx.LockApplicationsAppliedBefore(ctx, time.Now().Add(-48*time.Hour))
		if err != nil {
			return err
		}
		require.Len(t, stale, 1)
		return tx.DeleteApplication(ctx, stale[0].ID)
	}))

	apps, err := repo.ApplicationsByMember(ctx, "s4")
	require.NoError(t, err)
	require.Empty(t, apps)
}

func seedCatalog(ctx context.Context, t *testing.T, repo *Postgres) {
	t.Helper()

	require.NoError(t, repo.SaveProject(ctx, entities.Project{ID: "p1", FacultyID: "f1", FacultyName: "Dr. Rao", Title: "Project One"}))
	require.NoError(t, repo.SaveProject(ctx, entities.Project{ID: "p2", FacultyID: "f2", FacultyName: "Dr. Iyer", Title: "Project Two", Capacity: 1}))
	for i, name := range []string{"Asha", "Bala", "Chitra", "Devi"} {
		n := strconv.Itoa(i + 1)
		require.NoError(t, repo.SaveStudent(ctx, entities.Student{ID: "s" + n, FullName: name, RegNo: "RA00" + n}))
	}
}

func setupPostgres(t *testing.T) (*config.Config, func()) {
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
		Repository: "postgres",
		Tag:        "16-alpine",
		Env: []string{
			"POSTGRES_PASSWORD=postgres",
			"POSTGRES_USER=postgres",
			"POSTGRES_DB=project_connect_db",
		},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
	})
	require.NoError(t, err)

	hostPort := resource.GetPort("5432/tcp")

	port, err := strconv.Atoi(hostPort)
	require.NoError(t, err)
	migrationsDir, err := filepath.Abs(filepath.Join("..", "..", "..", "db", "migrations"))
	require.NoError(t, err)
	require.DirExists(t, migrationsDir)

	cfg := &config.Config{
		Server: config.ServerConfig{Host: "0.0.0.0", Port: 8080, ShutdownTimeout: 5 * time.Second},
		HTTP:   config.HTTPConfig{RequestTimeout: 5 * time.Second},
		Postgres: config.PostgresConfig{
			Host:           "localhost",
			Port:           port,
			User:           "postgres",
			Password:       "postgres",
			DBName:         "project_connect_db",
			SSLMode:        "disable",
			MigrationsDir:  migrationsDir,
			QueryTimeout:   10 * time.Second,
			MigrateTimeout: 20 * time.Second,
			MaxConns:       4,
			MinConns:       1,
		},
	}

	require.NoError(t, pool.Retry(func() error {
		db, err := sql.Open("postgres", "host=localhost port="+hostPort+" user=postgres password=postgres dbname=project_connect_db sslmode=disable")
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()
		return db.Ping()
	}))

	cleanup := func() {
		_ = pool.Purge(resource)
	}

	return cfg, cleanup
}

func testLogger(t *testing.T) *zap.SugaredLogger {
	t.Helper()

	l, _ := zap.NewDevelopment()
	t.Cleanup(func() { _ = l.Sync() })
	return l.Sugar()
}
