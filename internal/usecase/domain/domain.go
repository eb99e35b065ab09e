package domain

import (
	"context"
	"time"

	"github.com/Aadyothcoding/ece-project-connect/internal/entities"
	"github.com/Aadyothcoding/ece-project-connect/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultApplicationTTL  = 48 * time.Hour
	defaultNotificationTTL = 15 * 24 * time.Hour
)

// Usecase struct implements all usecase interfaces.
type Usecase struct {
	ctx     context.Context
	log     *zap.SugaredLogger
	repo    repository.Repository
	timeout time.Duration

	applicationTTL  time.Duration
	notificationTTL time.Duration
	now             func() time.Time
	newID           func() string
}

// Option customizes a Usecase.
type Option func(*Usecase)

// WithRetention overrides the application and notification retention windows.
func WithRetention(applicationTTL, notificationTTL time.Duration) Option {
	return func(u *Usecase) {
		if applicationTTL > 0 {
			u.applicationTTL = applicationTTL
		}
		if notificationTTL > 0 {
			u.notificationTTL = notificationTTL
		}
	}
}

// WithClock replaces the wall clock.
func WithClock(now func() time.Time) Option {
	return func(u *Usecase) { u.now = now }
}

// WithIDGenerator replaces uuid generation for new records.
func WithIDGenerator(newID func() string) Option {
	return func(u *Usecase) { u.newID = newID }
}

// New constructs a new usecase layer with its dependencies.
func New(
	log *zap.SugaredLogger,
	ctx context.Context,
	repo repository.Repository,
	timeout time.Duration,
	opts ...Option,
) *Usecase {
	u := &Usecase{
		ctx:             ctx,
		log:             log.Named("usecase"),
		repo:            repo,
		timeout:         timeout,
		applicationTTL:  defaultApplicationTTL,
		notificationTTL: defaultNotificationTTL,
		now:             func() time.Time { return time.Now().UTC() },
		newID:           func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

func requireStudent(actor entities.Principal) error {
	if actor.ID == "" || !actor.IsStudent() {
		return entities.ErrWrongRole
	}
	return nil
}

func requireTeacher(actor entities.Principal) error {
	if actor.ID == "" || !actor.IsTeacher() {
		return entities.ErrWrongRole
	}
	return nil
}

// ownedProject loads a project and checks the acting teacher owns it.
func (u *Usecase) ownedProject(ctx context.Context, actor entities.Principal, projectID string) (entities.Project, error) {
	project, err := u.repo.Project(ctx, projectID)
	if err != nil {
		return entities.Project{}, err
	}
	if !project.OwnedBy(actor.ID) {
		u.log.Warnw("project access denied", "project_id", projectID, "faculty_id", actor.ID)
		return entities.Project{}, entities.ErrNotOwner
	}
	return project, nil
}

// note builds a notification intent stamped with the usecase clock.
func (u *Usecase) note(recipientID string, kind entities.NotificationKind, payload map[string]string) entities.Notification {
	return entities.Notification{
		ID:          u.newID(),
		RecipientID: recipientID,
		Kind:        kind,
		Payload:     payload,
		CreatedAt:   u.now(),
	}
}
