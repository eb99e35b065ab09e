package usecase

import (
	"context"

	"github.com/Aadyothcoding/ece-project-connect/internal/entities"
)

// ApplicationUsecaseInterface abstracts application submission and reads.
type ApplicationUsecaseInterface interface {
	Submit(ctx context.Context, actor entities.Principal, projectID string, appType entities.ApplicationType, teammates []string) (entities.Application, error)
	Application(ctx context.Context, actor entities.Principal, id string) (entities.Application, error)
	ListForProject(ctx context.Context, actor entities.Principal, projectID string) ([]entities.Application, error)
	MyApplications(ctx context.Context, actor entities.Principal) ([]entities.Application, error)
}

// ConsentUsecaseInterface abstracts teammate consent.
type ConsentUsecaseInterface interface {
	Respond(ctx context.Context, actor entities.Principal, applicationID, memberID string, decision entities.Decision) (entities.ConsentResult, error)
	PendingInvitations(ctx context.Context, actor entities.Principal) ([]entities.Invitation, error)
}

// VisibilityUsecaseInterface abstracts the faculty review queue.
type VisibilityUsecaseInterface interface {
	ApplicationsVisibleToFaculty(ctx context.Context, actor entities.Principal, projectID string) ([]entities.Application, error)
}

// DecisionUsecaseInterface abstracts faculty decisions.
type DecisionUsecaseInterface interface {
	Approve(ctx context.Context, actor entities.Principal, applicationID string) (entities.Team, error)
	Reject(ctx context.Context, actor entities.Principal, applicationID string) error
}

// TeamUsecaseInterface abstracts team-related operations.
type TeamUsecaseInterface interface {
	TeamsForFaculty(ctx context.Context, actor entities.Principal) ([]entities.Team, error)
	AddTeamMember(ctx context.Context, actor entities.Principal, teamID, regNo string) (entities.Team, error)
	RemoveTeamMember(ctx context.Context, actor entities.Principal, teamID, studentID string) (entities.Team, error)
}

// NotificationUsecaseInterface abstracts the notification inbox.
type NotificationUsecaseInterface interface {
	Notifications(ctx context.Context, actor entities.Principal) ([]entities.Notification, error)
	DeleteNotification(ctx context.Context, actor entities.Principal, id string) error
}

// StatsUsecaseInterface abstracts statistics operations.
type StatsUsecaseInterface interface {
	Stats(ctx context.Context, actor entities.Principal) (entities.Stats, error)
}

// RetentionUsecaseInterface abstracts background retention steps.
type RetentionUsecaseInterface interface {
	ExpireStale(ctx context.Context) (int, error)
	PurgeNotifications(ctx context.Context) (int64, error)
	Sweep(ctx context.Context) error
}
