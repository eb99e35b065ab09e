package domain

import (
	"context"
	"fmt"

	"github.com/Aadyothcoding/ece-project-connect/internal/entities"
	"github.com/Aadyothcoding/ece-project-connect/internal/metrics"
	"github.com/Aadyothcoding/ece-project-connect/internal/repository"
	"github.com/Aadyothcoding/ece-project-connect/internal/rules"
)

// Respond records the acting teammate's answer to a group invitation.
// Approval by the last pending member makes the application reviewable;
// any rejection withdraws it.
func (u *Usecase) Respond(
	ctx context.Context,
	actor entities.Principal,
	applicationID, memberID string,
	decision entities.Decision,
) (res entities.ConsentResult, err error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()
	defer func() { metrics.RecordOperation("respond", err) }()

	if err := requireStudent(actor); err != nil {
		return entities.ConsentResult{}, err
	}
	if applicationID == "" || memberID == "" || !decision.Valid() {
		return entities.ConsentResult{}, fmt.Errorf("%w: application_id, member_id and a valid decision are required", entities.ErrInvalidArgument)
	}
	if memberID != actor.ID {
		return entities.ConsentResult{}, entities.ErrNotAMember
	}

	err = u.repo.InTx(ctx, nil, func(tx repository.Tx) error {
		app, err := tx.LockApplication(ctx, applicationID)
		if err != nil {
			return err
		}
		outcome, err := rules.ApplyResponse(&app, actor.ID, decision)
		if err != nil {
			return err
		}

		res = entities.ConsentResult{Application: app}
		switch outcome {
		case rules.OutcomeWithdrawn:
			res.Withdrawn = true
			if err := tx.DeleteApplication(ctx, app.ID); err != nil {
				return err
			}
			return tx.InsertNotifications(ctx, []entities.Notification{
				u.note(app.LeaderID, entities.KindWithdrawn, map[string]string{
					"application_id": app.ID,
					"project_id":     app.ProjectID,
					"member_name":    actor.FullName,
					"reason":         "member_declined",
				}),
			})
		case rules.OutcomeReady:
			if err := tx.UpdateApplication(ctx, app); err != nil {
				return err
			}
			project, err := u.repo.Project(ctx, app.ProjectID)
			if err != nil {
				return err
			}
			leader, _ := app.Leader()
			return tx.InsertNotifications(ctx, []entities.Notification{
				u.note(project.FacultyID, entities.KindReadyForReview, map[string]string{
					"application_id": app.ID,
					"project_id":     project.ID,
					"project_title":  project.Title,
					"leader_name":    leader.Name,
				}),
			})
		default:
			return tx.UpdateApplication(ctx, app)
		}
	})
	if err != nil {
		u.log.Infow("response rejected", "application_id", applicationID, "student_id", actor.ID, "error", err)
		return entities.ConsentResult{}, err
	}

	u.log.Infow("invitation answered", "application_id", applicationID, "student_id", actor.ID,
		"decision", decision, "status", res.Application.Status, "withdrawn", res.Withdrawn)
	return res, nil
}

// PendingInvitations lists invitations still waiting on the acting student.
func (u *Usecase) PendingInvitations(ctx context.Context, actor entities.Principal) ([]entities.Invitation, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if err := requireStudent(actor); err != nil {
		return nil, err
	}
	return u.repo.PendingInvitations(ctx, actor.ID)
}
