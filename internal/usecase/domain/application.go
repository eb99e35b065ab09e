// Package domain contains application Usecases orchestrating the application workflow.
package domain

import (
	"context"
	"errors"
	"fmt"

	"github.com/Aadyothcoding/ece-project-connect/internal/entities"
	"github.com/Aadyothcoding/ece-project-connect/internal/metrics"
	"github.com/Aadyothcoding/ece-project-connect/internal/repository"
	"github.com/Aadyothcoding/ece-project-connect/internal/rules"
)

// Submit creates an application led by the acting student. Teammates are
// resolved by student id or registration number.
func (u *Usecase) Submit(
	ctx context.Context,
	actor entities.Principal,
	projectID string,
	appType entities.ApplicationType,
	teammateKeys []string,
) (app entities.Application, err error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()
	defer func() { metrics.RecordOperation("submit", err) }()

	if err := requireStudent(actor); err != nil {
		return entities.Application{}, err
	}
	if projectID == "" || !appType.Valid() {
		return entities.Application{}, fmt.Errorf("%w: project_id and a valid application_type are required", entities.ErrInvalidArgument)
	}
	want := 0
	if appType == entities.TypeGroup {
		want = entities.GroupTeammates
	}
	if len(teammateKeys) != want {
		return entities.Application{}, entities.ErrInvalidTeammateCount
	}

	project, err := u.repo.Project(ctx, projectID)
	if err != nil {
		return entities.Application{}, err
	}

	teammates, err := u.resolveTeammates(ctx, actor, teammateKeys)
	if err != nil {
		return entities.Application{}, err
	}

	leader := entities.Student{ID: actor.ID, FullName: actor.FullName, RegNo: actor.RegNo}
	memberIDs := []string{actor.ID}
	for _, t := range teammates {
		memberIDs = append(memberIDs, t.ID)
	}

	err = u.repo.InTx(ctx, rules.LockKeys(memberIDs...), func(tx repository.Tx) error {
		held, err := tx.ApplicationsByMember(ctx, actor.ID)
		if err != nil {
			return err
		}
		if appliedTo(held, projectID) {
			return entities.ErrDuplicateApplication
		}
		priority, err := rules.NextPriority(held)
		if err != nil {
			return err
		}

		// Teammates are not held to the quota, only to one application per project.
		for _, t := range teammates {
			theirs, err := tx.ApplicationsByMember(ctx, t.ID)
			if err != nil {
				return err
			}
			if appliedTo(theirs, projectID) {
				return entities.ErrDuplicateApplication
			}
		}

		inTeams, err := tx.MembersInTeams(ctx, memberIDs)
		if err != nil {
			return err
		}
		if len(inTeams) > 0 {
			return entities.ErrAlreadyInTeam
		}

		app = rules.NewApplication(u.newID(), project, leader, teammates, priority, u.now())
		if err := tx.InsertApplication(ctx, app); err != nil {
			return err
		}

		notes := make([]entities.Notification, 0, len(teammates))
		for _, t := range teammates {
			notes = append(notes, u.note(t.ID, entities.KindInvited, map[string]string{
				"application_id": app.ID,
				"project_id":     project.ID,
				"project_title":  project.Title,
				"leader_name":    leader.FullName,
			}))
		}
		return tx.InsertNotifications(ctx, notes)
	})
	if err != nil {
		u.log.Infow("submit rejected", "student_id", actor.ID, "project_id", projectID, "error", err)
		return entities.Application{}, err
	}

	u.log.Infow("application submitted", "application_id", app.ID, "project_id", projectID,
		"student_id", actor.ID, "priority", app.Priority, "type", app.Type)
	return app, nil
}

func (u *Usecase) resolveTeammates(ctx context.Context, actor entities.Principal, keys []string) ([]entities.Student, error) {
	res := make([]entities.Student, 0, len(keys))
	seen := map[string]struct{}{actor.ID: {}}
	for _, key := range keys {
		if key == "" {
			return nil, entities.ErrInvalidTeammateCount
		}
		s, err := u.repo.Student(ctx, key)
		if err != nil {
			if errors.Is(err, entities.ErrStudentNotFound) {
				return nil, fmt.Errorf("%w: %s", entities.ErrTeammateNotFound, key)
			}
			return nil, err
		}
		if _, dup := seen[s.ID]; dup {
			return nil, entities.ErrInvalidTeammateCount
		}
		seen[s.ID] = struct{}{}
		res = append(res, s)
	}
	return res, nil
}

// Application returns one application visible to the actor: a member, or the project's faculty.
func (u *Usecase) Application(ctx context.Context, actor entities.Principal, id string) (entities.Application, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if id == "" {
		return entities.Application{}, fmt.Errorf("%w: application id is required", entities.ErrInvalidArgument)
	}
	app, err := u.repo.Application(ctx, id)
	if err != nil {
		return entities.Application{}, err
	}

	switch {
	case actor.IsStudent():
		if !app.HasMember(actor.ID) {
			return entities.Application{}, entities.ErrNotAMember
		}
	case actor.IsTeacher():
		if _, err := u.ownedProject(ctx, actor, app.ProjectID); err != nil {
			return entities.Application{}, err
		}
	default:
		return entities.Application{}, entities.ErrWrongRole
	}
	return app, nil
}

// ListForProject returns every live application of an owned project, in any status.
func (u *Usecase) ListForProject(ctx context.Context, actor entities.Principal, projectID string) ([]entities.Application, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if err := requireTeacher(actor); err != nil {
		return nil, err
	}
	if _, err := u.ownedProject(ctx, actor, projectID); err != nil {
		return nil, err
	}
	return u.repo.ApplicationsByProject(ctx, projectID)
}

// MyApplications lists the acting student's live applications by priority.
func (u *Usecase) MyApplications(ctx context.Context, actor entities.Principal) ([]entities.Application, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if err := requireStudent(actor); err != nil {
		return nil, err
	}
	return u.repo.ApplicationsByMember(ctx, actor.ID)
}

func appliedTo(apps []entities.Application, projectID string) bool {
	for _, a := range apps {
		if a.ProjectID == projectID {
			return true
		}
	}
	return false
}
