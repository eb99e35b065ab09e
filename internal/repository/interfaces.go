// Package repository contains repository interfaces for persistence layers.
package repository

import (
	"context"
	"time"

	"github.com/Aadyothcoding/ece-project-connect/internal/entities"
	"github.com/Aadyothcoding/ece-project-connect/internal/repository/txn"
)

// LifecycleInterface describes storage startup/shutdown hooks.
type LifecycleInterface interface {
	OnStart(_ context.Context) error
	OnStop(_ context.Context) error
}

// CatalogInterface reads the project catalog and the student directory.
// Both are read-only references owned outside the workflow.
type CatalogInterface interface {
	Project(ctx context.Context, id string) (entities.Project, error)
	// Student resolves a student by id or registration number.
	Student(ctx context.Context, key string) (entities.Student, error)
}

// CatalogWriterInterface loads catalog entries, used for seeding.
type CatalogWriterInterface interface {
	SaveProject(ctx context.Context, p entities.Project) error
	SaveStudent(ctx context.Context, s entities.Student) error
}

// ApplicationInterface exposes committed application reads.
type ApplicationInterface interface {
	Application(ctx context.Context, id string) (entities.Application, error)
	ApplicationsByProject(ctx context.Context, projectID string) ([]entities.Application, error)
	ApplicationsByMember(ctx context.Context, studentID string) ([]entities.Application, error)
	PendingInvitations(ctx context.Context, studentID string) ([]entities.Invitation, error)
	// Superseded reports whether the application was removed by a team-forming cascade.
	Superseded(ctx context.Context, id string) (bool, error)
}

// TeamInterface exposes committed team reads.
type TeamInterface interface {
	Team(ctx context.Context, id string) (entities.Team, error)
	TeamsByFaculty(ctx context.Context, facultyID string) ([]entities.Team, error)
}

// NotificationInterface exposes the notification outbox and inbox.
type NotificationInterface interface {
	Notifications(ctx context.Context, recipientID string) ([]entities.Notification, error)
	DeleteNotification(ctx context.Context, recipientID, id string) error
	UndeliveredNotifications(ctx context.Context, limit int) ([]entities.Notification, error)
	MarkDelivered(ctx context.Context, ids []string, at time.Time) error
	DeleteNotificationsBefore(ctx context.Context, cutoff time.Time) (int64, error)
	DeleteTombstonesBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// StatsInterface exposes aggregated statistics operations.
type StatsInterface interface {
	Stats(ctx context.Context) (entities.Stats, error)
}

// TransactorInterface runs workflow operations as single transactions.
type TransactorInterface interface {
	// InTx runs fn in a read-write transaction after acquiring every lock key,
	// in order. A nil return commits, anything else rolls back.
	InTx(ctx context.Context, lockKeys []string, fn func(Tx) error) error
	// Snapshot runs fn against a consistent read-only view.
	Snapshot(ctx context.Context, fn func(Tx) error) error
}

// Tx is the set of reads and writes available inside a transaction.
type Tx = txn.Tx
