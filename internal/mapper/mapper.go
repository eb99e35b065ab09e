// Package mapper converts between domain models and transport DTOs.
package mapper

import (
	"github.com/Aadyothcoding/ece-project-connect/internal/entities"
	oapi "github.com/Aadyothcoding/ece-project-connect/internal/oapi"
)

// ToOAPIApplication maps entities.Application to transport model.
func ToOAPIApplication(app entities.Application) oapi.Application {
	members := make([]oapi.Member, 0, len(app.Members))
	for _, m := range app.Members {
		members = append(members, oapi.Member{
			StudentId: m.StudentID,
			Name:      m.Name,
			RegNo:     m.RegNo,
			Status:    string(m.Status),
		})
	}

	return oapi.Application{
		ApplicationId:   app.ID,
		ProjectId:       app.ProjectID,
		ApplicationType: string(app.Type),
		LeaderId:        app.LeaderID,
		Members:         members,
		Priority:        app.Priority,
		Status:          string(app.Status),
		AppliedAt:       app.AppliedAt,
	}
}

// ToOAPIApplicationList maps a slice of applications to transport slice.
func ToOAPIApplicationList(list []entities.Application) []oapi.Application {
	res := make([]oapi.Application, 0, len(list))
	for _, app := range list {
		res = append(res, ToOAPIApplication(app))
	}
	return res
}

// ToOAPIConsentResult maps the outcome of an invitation answer.
func ToOAPIConsentResult(res entities.ConsentResult) oapi.ConsentResult {
	if res.Withdrawn {
		return oapi.ConsentResult{Withdrawn: true}
	}
	app := ToOAPIApplication(res.Application)
	return oapi.ConsentResult{Application: &app}
}

// ToOAPIInvitationList maps pending invitations to transport slice.
func ToOAPIInvitationList(list []entities.Invitation) []oapi.Invitation {
	res := make([]oapi.Invitation, 0, len(list))
	for _, inv := range list {
		res = append(res, oapi.Invitation{
			ApplicationId: inv.ApplicationID,
			MemberId:      inv.MemberID,
			ProjectId:     inv.ProjectID,
			ProjectTitle:  inv.ProjectTitle,
			FacultyName:   inv.FacultyName,
			LeaderName:    inv.LeaderName,
			Priority:      inv.Priority,
			AppliedAt:     inv.AppliedAt,
		})
	}
	return res
}

// ToOAPITeam maps entities.Team to transport model.
func ToOAPITeam(team entities.Team) oapi.Team {
	members := make([]oapi.TeamMember, 0, len(team.Members))
	for _, m := range team.Members {
		members = append(members, oapi.TeamMember{
			StudentId: m.StudentID,
			Name:      m.Name,
			RegNo:     m.RegNo,
		})
	}

	return oapi.Team{
		TeamId:          team.ID,
		ProjectId:       team.ProjectID,
		FacultyId:       team.FacultyID,
		FacultyName:     team.FacultyName,
		ApplicationType: string(team.Type),
		Members:         members,
		ApprovedAt:      team.ApprovedAt,
	}
}

// ToOAPITeamList maps a slice of teams to transport slice.
func ToOAPITeamList(list []entities.Team) []oapi.Team {
	res := make([]oapi.Team, 0, len(list))
	for _, t := range list {
		res = append(res, ToOAPITeam(t))
	}
	return res
}

// ToOAPINotificationList maps inbox entries to transport slice.
func ToOAPINotificationList(list []entities.Notification) []oapi.Notification {
	res := make([]oapi.Notification, 0, len(list))
	for _, n := range list {
		payload := n.Payload
		if payload == nil {
			payload = map[string]string{}
		}
		res = append(res, oapi.Notification{
			NotificationId: n.ID,
			Kind:           string(n.Kind),
			Payload:        payload,
			CreatedAt:      n.CreatedAt,
		})
	}
	return res
}
