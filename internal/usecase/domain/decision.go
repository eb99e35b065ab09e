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

// Approve promotes a reviewable application into a team and deletes every
// other live application sharing a member, in one transaction.
func (u *Usecase) Approve(ctx context.Context, actor entities.Principal, applicationID string) (team entities.Team, err error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()
	defer func() { metrics.RecordOperation("approve", err) }()

	app, project, err := u.decidable(ctx, actor, applicationID)
	if err != nil {
		return entities.Team{}, err
	}

	var cascaded []entities.Application
	err = u.repo.InTx(ctx, rules.ApprovalLockKeys(project, app.MemberIDs()...), func(tx repository.Tx) error {
		cur, err := lockForDecision(ctx, tx, applicationID)
		if err != nil {
			return err
		}

		memberIDs := cur.MemberIDs()
		inTeams, err := tx.MembersInTeams(ctx, memberIDs)
		if err != nil {
			return err
		}
		if len(inTeams) > 0 {
			return entities.ErrAlreadyInTeam
		}
		if project.Capacity > 0 {
			n, err := tx.CountTeamsByProject(ctx, project.ID)
			if err != nil {
				return err
			}
			if n >= project.Capacity {
				return entities.ErrCapacityReached
			}
		}

		now := u.now()
		team = rules.TeamFromApplication(u.newID(), cur, project, now)
		if err := tx.InsertTeam(ctx, team); err != nil {
			return err
		}
		if err := tx.DeleteApplication(ctx, cur.ID); err != nil {
			return err
		}
		cascaded, err = tx.DeleteApplicationsByMembers(ctx, memberIDs, now)
		if err != nil {
			return err
		}

		notes := make([]entities.Notification, 0, len(memberIDs))
		for _, m := range team.Members {
			notes = append(notes, u.note(m.StudentID, entities.KindApproved, map[string]string{
				"team_id":       team.ID,
				"project_id":    project.ID,
				"project_title": project.Title,
				"faculty_name":  project.FacultyName,
			}))
		}
		notes = append(notes, u.supersededNotes(cascaded, team)...)
		return tx.InsertNotifications(ctx, notes)
	})
	if err != nil {
		u.log.Infow("approve rejected", "application_id", applicationID, "faculty_id", actor.ID, "error", err)
		return entities.Team{}, err
	}

	metrics.RecordCascade(len(cascaded))
	u.log.Infow("application approved", "application_id", applicationID, "team_id", team.ID,
		"project_id", project.ID, "cascaded", len(cascaded))
	return team, nil
}

// Reject deletes a reviewable application. When a first choice is rejected
// the faculty of the leader's second choice is told it is now under review.
func (u *Usecase) Reject(ctx context.Context, actor entities.Principal, applicationID string) (err error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()
	defer func() { metrics.RecordOperation("reject", err) }()

	app, project, err := u.decidable(ctx, actor, applicationID)
	if err != nil {
		return err
	}

	err = u.repo.InTx(ctx, rules.LockKeys(app.MemberIDs()...), func(tx repository.Tx) error {
		cur, err := lockForDecision(ctx, tx, applicationID)
		if err != nil {
			return err
		}
		if err := tx.DeleteApplication(ctx, cur.ID); err != nil {
			return err
		}

		notes := make([]entities.Notification, 0, len(cur.Members)+1)
		for _, m := range cur.Members {
			notes = append(notes, u.note(m.StudentID, entities.KindRejected, map[string]string{
				"application_id": cur.ID,
				"project_id":     project.ID,
				"project_title":  project.Title,
			}))
		}

		if cur.Priority == entities.PriorityFirst {
			fallback, err := u.fallbackNote(ctx, tx, cur)
			if err != nil {
				return err
			}
			if fallback != nil {
				notes = append(notes, *fallback)
			}
		}
		return tx.InsertNotifications(ctx, notes)
	})
	if err != nil {
		u.log.Infow("reject refused", "application_id", applicationID, "faculty_id", actor.ID, "error", err)
		return err
	}

	u.log.Infow("application rejected", "application_id", applicationID, "project_id", project.ID)
	return nil
}

// decidable runs the checks shared by Approve and Reject outside the transaction.
func (u *Usecase) decidable(ctx context.Context, actor entities.Principal, applicationID string) (entities.Application, entities.Project, error) {
	if err := requireTeacher(actor); err != nil {
		return entities.Application{}, entities.Project{}, err
	}
	if applicationID == "" {
		return entities.Application{}, entities.Project{}, fmt.Errorf("%w: application id is required", entities.ErrInvalidArgument)
	}

	app, err := u.repo.Application(ctx, applicationID)
	if errors.Is(err, entities.ErrApplicationNotFound) {
		superseded, serr := u.repo.Superseded(ctx, applicationID)
		if serr != nil {
			return entities.Application{}, entities.Project{}, serr
		}
		if superseded {
			return entities.Application{}, entities.Project{}, entities.ErrApplicationSuperseded
		}
	}
	if err != nil {
		return entities.Application{}, entities.Project{}, err
	}

	project, err := u.ownedProject(ctx, actor, app.ProjectID)
	if err != nil {
		return entities.Application{}, entities.Project{}, err
	}
	return app, project, nil
}

// lockForDecision re-reads the application under lock. It existed a moment
// ago, so a missing row means a concurrent decision removed it.
func lockForDecision(ctx context.Context, tx repository.Tx, applicationID string) (entities.Application, error) {
	cur, err := tx.LockApplication(ctx, applicationID)
	if errors.Is(err, entities.ErrApplicationNotFound) {
		return entities.Application{}, entities.ErrApplicationSuperseded
	}
	if err != nil {
		return entities.Application{}, err
	}
	if cur.Status != entities.StatusPendingFacultyApproval {
		return entities.Application{}, entities.ErrNotReady
	}
	return cur, nil
}

// fallbackNote tells the faculty of the leader's second choice that it just
// entered their queue. A second choice still waiting on teammates, or held
// back by another member's first choice, gets no note.
func (u *Usecase) fallbackNote(ctx context.Context, tx repository.Tx, rejected entities.Application) (*entities.Notification, error) {
	held, err := tx.ApplicationsByMember(ctx, rejected.LeaderID)
	if err != nil {
		return nil, err
	}
	for _, a := range held {
		if a.LeaderID != rejected.LeaderID || a.Priority != entities.PrioritySecond {
			continue
		}
		if a.Status != entities.StatusPendingFacultyApproval {
			return nil, nil
		}
		queue, err := reviewQueue(ctx, tx, a.ProjectID)
		if err != nil {
			return nil, err
		}
		if !containsApplication(queue, a.ID) {
			return nil, nil
		}
		project, err := u.repo.Project(ctx, a.ProjectID)
		if err != nil {
			return nil, err
		}
		leader, _ := a.Leader()
		n := u.note(project.FacultyID, entities.KindNowUnderReview, map[string]string{
			"application_id": a.ID,
			"project_id":     project.ID,
			"project_title":  project.Title,
			"leader_name":    leader.Name,
		})
		return &n, nil
	}
	return nil, nil
}

func containsApplication(apps []entities.Application, id string) bool {
	for _, a := range apps {
		if a.ID == id {
			return true
		}
	}
	return false
}

// supersededNotes tells members outside the new team that their application is gone.
func (u *Usecase) supersededNotes(cascaded []entities.Application, team entities.Team) []entities.Notification {
	notes := make([]entities.Notification, 0)
	for _, a := range cascaded {
		for _, m := range a.Members {
			if team.HasMember(m.StudentID) {
				continue
			}
			notes = append(notes, u.note(m.StudentID, entities.KindWithdrawn, map[string]string{
				"application_id": a.ID,
				"project_id":     a.ProjectID,
				"reason":         "member_joined_team",
			}))
		}
	}
	return notes
}
