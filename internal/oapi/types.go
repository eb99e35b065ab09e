// Package oapi provides transport DTOs and route registration for the HTTP API.
package oapi

import "time"

// ErrorResponseErrorCode is a stable machine-readable error code.
type ErrorResponseErrorCode string

// Defines values for ErrorResponseErrorCode.
const (
	ALREADYDECIDED  ErrorResponseErrorCode = "ALREADY_DECIDED"
	ALREADYINTEAM   ErrorResponseErrorCode = "ALREADY_IN_TEAM"
	CAPACITYREACHED ErrorResponseErrorCode = "CAPACITY_REACHED"
	CONFLICT        ErrorResponseErrorCode = "CONFLICT"
	DUPLICATE       ErrorResponseErrorCode = "DUPLICATE_APPLICATION"
	FORBIDDEN       ErrorResponseErrorCode = "FORBIDDEN"
	INTERNAL        ErrorResponseErrorCode = "INTERNAL"
	INVALID         ErrorResponseErrorCode = "INVALID_ARGUMENT"
	NOTFOUND        ErrorResponseErrorCode = "NOT_FOUND"
	NOTREADY        ErrorResponseErrorCode = "NOT_READY"
	QUOTAEXCEEDED   ErrorResponseErrorCode = "QUOTA_EXCEEDED"
	SUPERSEDED      ErrorResponseErrorCode = "SUPERSEDED"
	UNAUTHORIZED    ErrorResponseErrorCode = "UNAUTHORIZED"
)

// ErrorResponse defines model for ErrorResponse.
type ErrorResponse struct {
	Error struct {
		Code    ErrorResponseErrorCode `json:"code"`
		Message string                 `json:"message"`
	} `json:"error"`
}

// Member defines model for Member.
type Member struct {
	StudentId string `json:"student_id"`
	Name      string `json:"name"`
	RegNo     string `json:"reg_no"`
	Status    string `json:"status"`
}

// Application defines model for Application.
type Application struct {
	ApplicationId   string    `json:"application_id"`
	ProjectId       string    `json:"project_id"`
	ApplicationType string    `json:"application_type"`
	LeaderId        string    `json:"leader_id"`
	Members         []Member  `json:"members"`
	Priority        int       `json:"priority"`
	Status          string    `json:"status"`
	AppliedAt       time.Time `json:"applied_at"`
}

// Invitation defines model for Invitation.
type Invitation struct {
	ApplicationId string    `json:"application_id"`
	MemberId      string    `json:"member_id"`
	ProjectId     string    `json:"project_id"`
	ProjectTitle  string    `json:"project_title"`
	FacultyName   string    `json:"faculty_name"`
	LeaderName    string    `json:"leader_name"`
	Priority      int       `json:"priority"`
	AppliedAt     time.Time `json:"applied_at"`
}

// ConsentResult defines model for ConsentResult. Application is nil when withdrawn.
type ConsentResult struct {
	Withdrawn   bool         `json:"withdrawn"`
	Application *Application `json:"application,omitempty"`
}

// TeamMember defines model for TeamMember.
type TeamMember struct {
	StudentId string `json:"student_id"`
	Name      string `json:"name"`
	RegNo     string `json:"reg_no"`
}

// Team defines model for Team.
type Team struct {
	TeamId          string       `json:"team_id"`
	ProjectId       string       `json:"project_id"`
	FacultyId       string       `json:"faculty_id"`
	FacultyName     string       `json:"faculty_name"`
	ApplicationType string       `json:"application_type"`
	Members         []TeamMember `json:"members"`
	ApprovedAt      time.Time    `json:"approved_at"`
}

// Notification defines model for Notification.
type Notification struct {
	NotificationId string            `json:"notification_id"`
	Kind           string            `json:"kind"`
	Payload        map[string]string `json:"payload"`
	CreatedAt      time.Time         `json:"created_at"`
}

// PostApplicationsJSONBody defines parameters for PostApplications.
type PostApplicationsJSONBody struct {
	ProjectId       string   `json:"project_id" validate:"required"`
	ApplicationType string   `json:"application_type" validate:"required,oneof=individual group"`
	Teammates       []string `json:"teammates" validate:"omitempty,dive,required"`
}

// PostInvitationsRespondJSONBody defines parameters for PostInvitationsRespond.
type PostInvitationsRespondJSONBody struct {
	ApplicationId string `json:"application_id" validate:"required"`
	MemberId      string `json:"member_id" validate:"required"`
	Decision      string `json:"decision" validate:"required,oneof=approved rejected"`
}

// PostTeamsTeamIdMembersJSONBody defines parameters for PostTeamsTeamIdMembers.
type PostTeamsTeamIdMembersJSONBody struct {
	RegNo string `json:"reg_no" validate:"required"`
}

// PostApplicationsJSONRequestBody defines body for PostApplications for application/json ContentType.
type PostApplicationsJSONRequestBody = PostApplicationsJSONBody

// PostInvitationsRespondJSONRequestBody defines body for PostInvitationsRespond for application/json ContentType.
type PostInvitationsRespondJSONRequestBody = PostInvitationsRespondJSONBody

// PostTeamsTeamIdMembersJSONRequestBody defines body for PostTeamsTeamIdMembers for application/json ContentType.
type PostTeamsTeamIdMembersJSONRequestBody = PostTeamsTeamIdMembersJSONBody
