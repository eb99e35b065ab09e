package domain

import (
	"context"
	"fmt"

	"github.com/Aadyothcoding/ece-project-connect/internal/entities"
	"github.com/Aadyothcoding/ece-project-connect/internal/metrics"
	"github.com/Aadyothcoding/ece-project-connect/internal/repository"
	"github.com/Aadyothcoding/ece-project-connect/internal/rules"
)

// ApplicationsVisibleToFaculty returns the applications of an owned project
// that are currently eligible for review, oldest first.
func (u *Usecase) ApplicationsVisibleToFaculty(ctx context.Context, actor entities.Principal, projectID string) (res []entities.Application, err error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()
	defer func() { metrics.RecordOperation("visible", err) }()

	if err := requireTeacher(actor); err != nil {
		return nil, err
	}
	if projectID == "" {
		return nil, fmt.Errorf("%w: project id is required", entities.ErrInvalidArgument)
	}
	if _, err := u.ownedProject(ctx, actor, projectID); err != nil {
		return nil, err
	}

	err = u.repo.Snapshot(ctx, func(tx repository.Tx) error {
		res, err = reviewQueue(ctx, tx, projectID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// reviewQueue resolves a project's visible applications as seen by tx.
func reviewQueue(ctx context.Context, tx repository.Tx, projectID string) ([]entities.Application, error) {
	apps, err := tx.ApplicationsByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	candidates := make([]string, 0)
	for _, a := range apps {
		if a.Status == entities.StatusPendingFacultyApproval && a.Priority == entities.PrioritySecond {
			candidates = append(candidates, a.MemberIDs()...)
		}
	}
	firstChoice, err := tx.PriorityOneMembers(ctx, candidates)
	if err != nil {
		return nil, err
	}
	return rules.VisibleToFaculty(apps, firstChoice), nil
}
