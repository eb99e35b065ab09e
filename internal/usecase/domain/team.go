// Package domain contains application Usecases orchestrating domain logic by team.
package domain

import (
	"context"
	"fmt"

	"github.com/Aadyothcoding/ece-project-connect/internal/entities"
	"github.com/Aadyothcoding/ece-project-connect/internal/metrics"
	"github.com/Aadyothcoding/ece-project-connect/internal/repository"
	"github.com/Aadyothcoding/ece-project-connect/internal/rules"
)

// TeamsForFaculty lists teams on the acting teacher's projects.
func (u *Usecase) TeamsForFaculty(ctx context.Context, actor entities.Principal) ([]entities.Team, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if err := requireTeacher(actor); err != nil {
		return nil, err
	}
	return u.repo.TeamsByFaculty(ctx, actor.ID)
}

// AddTeamMember adds a student, found by registration number, to an owned
// team. The student's live applications are deleted like an approval cascade.
func (u *Usecase) AddTeamMember(ctx context.Context, actor entities.Principal, teamID, regNo string) (team entities.Team, err error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()
	defer func() { metrics.RecordOperation("team_add_member", err) }()

	if err := requireTeacher(actor); err != nil {
		return entities.Team{}, err
	}
	if teamID == "" || regNo == "" {
		u.log.Errorw("failed to add team member: missing team_id or reg_no")
		return entities.Team{}, fmt.Errorf("%w: team_id and reg_no are required", entities.ErrInvalidArgument)
	}

	team, err = u.repo.Team(ctx, teamID)
	if err != nil {
		return entities.Team{}, err
	}
	project, err := u.ownedProject(ctx, actor, team.ProjectID)
	if err != nil {
		return entities.Team{}, err
	}
	student, err := u.repo.Student(ctx, regNo)
	if err != nil {
		return entities.Team{}, err
	}

	var cascaded []entities.Application
	err = u.repo.InTx(ctx, rules.LockKeys(student.ID), func(tx repository.Tx) error {
		cur, err := tx.LockTeam(ctx, teamID)
		if err != nil {
			return err
		}
		inTeams, err := tx.MembersInTeams(ctx, []string{student.ID})
		if err != nil {
			return err
		}
		if len(inTeams) > 0 {
			return entities.ErrAlreadyInTeam
		}

		member := entities.TeamMember{StudentID: student.ID, Name: student.FullName, RegNo: student.RegNo}
		if err := tx.AddTeamMember(ctx, teamID, member); err != nil {
			return err
		}
		cascaded, err = tx.DeleteApplicationsByMembers(ctx, []string{student.ID}, u.now())
		if err != nil {
			return err
		}

		cur.Members = append(cur.Members, member)
		team = cur
		notes := []entities.Notification{u.note(student.ID, entities.KindTeamMemberAdded, map[string]string{
			"team_id":       team.ID,
			"project_id":    project.ID,
			"project_title": project.Title,
		})}
		notes = append(notes, u.supersededNotes(cascaded, team)...)
		return tx.InsertNotifications(ctx, notes)
	})
	if err != nil {
		return entities.Team{}, err
	}

	metrics.RecordCascade(len(cascaded))
	u.log.Infow("team member added", "team_id", teamID, "student_id", student.ID, "cascaded", len(cascaded))
	return team, nil
}

// RemoveTeamMember drops a student from an owned team. A team never becomes empty.
func (u *Usecase) RemoveTeamMember(ctx context.Context, actor entities.Principal, teamID, studentID string) (team entities.Team, err error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()
	defer func() { metrics.RecordOperation("team_remove_member", err) }()

	if err := requireTeacher(actor); err != nil {
		return entities.Team{}, err
	}
	if teamID == "" || studentID == "" {
		u.log.Errorw("failed to remove team member: missing team_id or student_id")
		return entities.Team{}, fmt.Errorf("%w: team_id and student_id are required", entities.ErrInvalidArgument)
	}

	team, err = u.repo.Team(ctx, teamID)
	if err != nil {
		return entities.Team{}, err
	}
	project, err := u.ownedProject(ctx, actor, team.ProjectID)
	if err != nil {
		return entities.Team{}, err
	}

	err = u.repo.InTx(ctx, rules.LockKeys(studentID), func(tx repository.Tx) error {
		cur, err := tx.LockTeam(ctx, teamID)
		if err != nil {
			return err
		}
		if !cur.HasMember(studentID) {
			return entities.ErrNotAMember
		}
		if len(cur.Members) == 1 {
			return fmt.Errorf("%w: a team cannot be left without members", entities.ErrInvalidArgument)
		}
		if err := tx.RemoveTeamMember(ctx, teamID, studentID); err != nil {
			return err
		}

		members := make([]entities.TeamMember, 0, len(cur.Members)-1)
		for _, m := range cur.Members {
			if m.StudentID != studentID {
				members = append(members, m)
			}
		}
		cur.Members = members
		team = cur
		return tx.InsertNotifications(ctx, []entities.Notification{
			u.note(studentID, entities.KindTeamMemberRemoved, map[string]string{
				"team_id":       team.ID,
				"project_id":    project.ID,
				"project_title": project.Title,
			}),
		})
	})
	if err != nil {
		return entities.Team{}, err
	}

	u.log.Infow("team member removed", "team_id", teamID, "student_id", studentID)
	return team, nil
}
