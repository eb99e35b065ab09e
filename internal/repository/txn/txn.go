// Package txn defines the transactional view shared by every storage backend.
package txn

import (
	"context"
	"time"

	"github.com/Aadyothcoding/ece-project-connect/internal/entities"
)

// Tx is the set of reads and writes available inside a transaction.
// Methods returning a single record report a missing row with the matching
// NotFound sentinel.
type Tx interface {
	// LockApplication loads and row-locks an application.
	LockApplication(ctx context.Context, id string) (entities.Application, error)
	ApplicationsByMember(ctx context.Context, studentID string) ([]entities.Application, error)
	ApplicationsByProject(ctx context.Context, projectID string) ([]entities.Application, error)
	// PriorityOneMembers returns the subset of studentIDs that belong to a live priority 1 application.
	PriorityOneMembers(ctx context.Context, studentIDs []string) (map[string]struct{}, error)
	InsertApplication(ctx context.Context, app entities.Application) error
	UpdateApplication(ctx context.Context, app entities.Application) error
	DeleteApplication(ctx context.Context, id string) error
	// DeleteApplicationsByMembers removes every live application containing any
	// of the students and leaves a tombstone for each.
	DeleteApplicationsByMembers(ctx context.Context, studentIDs []string, at time.Time) ([]entities.Application, error)
	// LockApplicationsAppliedBefore locks live applications older than cutoff,
	// skipping rows another transaction already holds.
	LockApplicationsAppliedBefore(ctx context.Context, cutoff time.Time) ([]entities.Application, error)

	LockTeam(ctx context.Context, id string) (entities.Team, error)
	// MembersInTeams returns the subset of studentIDs that already belong to a team.
	MembersInTeams(ctx context.Context, studentIDs []string) ([]string, error)
	CountTeamsByProject(ctx context.Context, projectID string) (int, error)
	InsertTeam(ctx context.Context, team entities.Team) error
	AddTeamMember(ctx context.Context, teamID string, member entities.TeamMember) error
	RemoveTeamMember(ctx context.Context, teamID, studentID string) error

	InsertNotifications(ctx context.Context, notes []entities.Notification) error
}
