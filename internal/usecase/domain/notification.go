package domain

import (
	"context"
	"fmt"

	"github.com/Aadyothcoding/ece-project-connect/internal/entities"
)

// Notifications returns the acting user's inbox, newest first.
func (u *Usecase) Notifications(ctx context.Context, actor entities.Principal) ([]entities.Notification, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if actor.ID == "" || !actor.Role.Valid() {
		return nil, entities.ErrWrongRole
	}
	return u.repo.Notifications(ctx, actor.ID)
}

// DeleteNotification removes one of the acting user's notifications.
func (u *Usecase) DeleteNotification(ctx context.Context, actor entities.Principal, id string) error {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if actor.ID == "" || !actor.Role.Valid() {
		return entities.ErrWrongRole
	}
	if id == "" {
		return fmt.Errorf("%w: notification id is required", entities.ErrInvalidArgument)
	}
	return u.repo.DeleteNotification(ctx, actor.ID, id)
}
