package oapi

import (
	"github.com/gofiber/fiber/v2"
)

// ServerInterface represents all server handlers.
type ServerInterface interface {
	// Submit an application
	// (POST /applications)
	PostApplications(c *fiber.Ctx) error
	// Applications of the acting student
	// (GET /applications/mine)
	GetApplicationsMine(c *fiber.Ctx) error
	// One application
	// (GET /applications/{id})
	GetApplicationsId(c *fiber.Ctx, id string) error
	// Approve a reviewable application
	// (POST /applications/{id}/approve)
	PostApplicationsIdApprove(c *fiber.Ctx, id string) error
	// Reject a reviewable application
	// (POST /applications/{id}/reject)
	PostApplicationsIdReject(c *fiber.Ctx, id string) error
	// Pending invitations of the acting student
	// (GET /invitations)
	GetInvitations(c *fiber.Ctx) error
	// Answer an invitation
	// (POST /invitations/respond)
	PostInvitationsRespond(c *fiber.Ctx) error
	// Review queue of a project
	// (GET /projects/{projectId}/applications)
	GetProjectsProjectIdApplications(c *fiber.Ctx, projectId string) error
	// Every live application of a project
	// (GET /projects/{projectId}/applications/all)
	GetProjectsProjectIdApplicationsAll(c *fiber.Ctx, projectId string) error
	// Teams of the acting faculty
	// (GET /teams)
	GetTeams(c *fiber.Ctx) error
	// Add a student to a team
	// (POST /teams/{teamId}/members)
	PostTeamsTeamIdMembers(c *fiber.Ctx, teamId string) error
	// Remove a student from a team
	// (DELETE /teams/{teamId}/members/{studentId})
	DeleteTeamsTeamIdMembersStudentId(c *fiber.Ctx, teamId string, studentId string) error
	// Inbox of the acting user
	// (GET /notifications)
	GetNotifications(c *fiber.Ctx) error
	// Delete an inbox entry
	// (DELETE /notifications/{id})
	DeleteNotificationsId(c *fiber.Ctx, id string) error
	// Workflow statistics
	// (GET /stats)
	GetStats(c *fiber.Ctx) error
}

// ServerInterfaceWrapper converts contexts to parameters.
type ServerInterfaceWrapper struct {
	Handler ServerInterface
}

// MiddlewareFunc is a fiber handler run before every registered route.
type MiddlewareFunc fiber.Handler

// FiberServerOptions provides options for the Fiber server.
type FiberServerOptions struct {
	BaseURL     string
	Middlewares []MiddlewareFunc
}

func pathParam(c *fiber.Ctx, name string) (string, error) {
	v := c.Params(name)
	if v == "" {
		return "", fiber.NewError(fiber.StatusBadRequest, "missing path parameter "+name)
	}
	return v, nil
}

// PostApplications operation middleware
func (w *ServerInterfaceWrapper) PostApplications(c *fiber.Ctx) error {
	return w.Handler.PostApplications(c)
}

// GetApplicationsMine operation middleware
func (w *ServerInterfaceWrapper) GetApplicationsMine(c *fiber.Ctx) error {
	return w.Handler.GetApplicationsMine(c)
}

// GetApplicationsId operation middleware
func (w *ServerInterfaceWrapper) GetApplicationsId(c *fiber.Ctx) error {
	id, err := pathParam(c, "id")
	if err != nil {
		return err
	}
	return w.Handler.GetApplicationsId(c, id)
}

// PostApplicationsIdApprove operation middleware
func (w *ServerInterfaceWrapper) PostApplicationsIdApprove(c *fiber.Ctx) error {
	id, err := pathParam(c, "id")
	if err != nil {
		return err
	}
	return w.Handler.PostApplicationsIdApprove(c, id)
}

// PostApplicationsIdReject operation middleware
func (w *ServerInterfaceWrapper) PostApplicationsIdReject(c *fiber.Ctx) error {
	id, err := pathParam(c, "id")
	if err != nil {
		return err
	}
	return w.Handler.PostApplicationsIdReject(c, id)
}

// GetInvitations operation middleware
func (w *ServerInterfaceWrapper) GetInvitations(c *fiber.Ctx) error {
	return w.Handler.GetInvitations(c)
}

// PostInvitationsRespond operation middleware
func (w *ServerInterfaceWrapper) PostInvitationsRespond(c *fiber.Ctx) error {
	return w.Handler.PostInvitationsRespond(c)
}

// GetProjectsProjectIdApplications operation middleware
func (w *ServerInterfaceWrapper) GetProjectsProjectIdApplications(c *fiber.Ctx) error {
	projectID, err := pathParam(c, "projectId")
	if err != nil {
		return err
	}
	return w.Handler.GetProjectsProjectIdApplications(c, projectID)
}

// GetProjectsProjectIdApplicationsAll operation middleware
func (w *ServerInterfaceWrapper) GetProjectsProjectIdApplicationsAll(c *fiber.Ctx) error {
	projectID, err := pathParam(c, "projectId")
	if err != nil {
		return err
	}
	return w.Handler.GetProjectsProjectIdApplicationsAll(c, projectID)
}

// GetTeams operation middleware
func (w *ServerInterfaceWrapper) GetTeams(c *fiber.Ctx) error {
	return w.Handler.GetTeams(c)
}

// PostTeamsTeamIdMembers operation middleware
func (w *ServerInterfaceWrapper) PostTeamsTeamIdMembers(c *fiber.Ctx) error {
	teamID, err := pathParam(c, "teamId")
	if err != nil {
		return err
	}
	return w.Handler.PostTeamsTeamIdMembers(c, teamID)
}

// DeleteTeamsTeamIdMembersStudentId operation middleware
func (w *ServerInterfaceWrapper) DeleteTeamsTeamIdMembersStudentId(c *fiber.Ctx) error {
	teamID, err := pathParam(c, "teamId")
	if err != nil {
		return err
	}
	studentID, err := pathParam(c, "studentId")
	if err != nil {
		return err
	}
	return w.Handler.DeleteTeamsTeamIdMembersStudentId(c, teamID, studentID)
}

// GetNotifications operation middleware
func (w *ServerInterfaceWrapper) GetNotifications(c *fiber.Ctx) error {
	return w.Handler.GetNotifications(c)
}

// DeleteNotificationsId operation middleware
func (w *ServerInterfaceWrapper) DeleteNotificationsId(c *fiber.Ctx) error {
	id, err := pathParam(c, "id")
	if err != nil {
		return err
	}
	return w.Handler.DeleteNotificationsId(c, id)
}

// GetStats operation middleware
func (w *ServerInterfaceWrapper) GetStats(c *fiber.Ctx) error {
	return w.Handler.GetStats(c)
}

// RegisterHandlers registers every API route on the router.
func RegisterHandlers(router fiber.Router, si ServerInterface) {
	RegisterHandlersWithOptions(router, si, FiberServerOptions{})
}

// RegisterHandlersWithOptions registers every API route with a base URL and middlewares.
func RegisterHandlersWithOptions(router fiber.Router, si ServerInterface, options FiberServerOptions) {
	wrapper := ServerInterfaceWrapper{
		Handler: si,
	}

	for _, m := range options.Middlewares {
		router.Use(fiber.Handler(m))
	}

	router.Post(options.BaseURL+"/applications", wrapper.PostApplications)
	router.Get(options.BaseURL+"/applications/mine", wrapper.GetApplicationsMine)
	router.Get(options.BaseURL+"/applications/:id", wrapper.GetApplicationsId)
	router.Post(options.BaseURL+"/applications/:id/approve", wrapper.PostApplicationsIdApprove)
	router.Post(options.BaseURL+"/applications/:id/reject", wrapper.PostApplicationsIdReject)
	router.Get(options.BaseURL+"/invitations", wrapper.GetInvitations)
	router.Post(options.BaseURL+"/invitations/respond", wrapper.PostInvitationsRespond)
	router.Get(options.BaseURL+"/projects/:projectId/applications", wrapper.GetProjectsProjectIdApplications)
	router.Get(options.BaseURL+"/projects/:projectId/applications/all", wrapper.GetProjectsProjectIdApplicationsAll)
	router.Get(options.BaseURL+"/teams", wrapper.GetTeams)
	router.Post(options.BaseURL+"/teams/:teamId/members", wrapper.PostTeamsTeamIdMembers)
	router.Delete(options.BaseURL+"/teams/:teamId/members/:studentId", wrapper.DeleteTeamsTeamIdMembersStudentId)
	router.Get(options.BaseURL+"/notifications", wrapper.GetNotifications)
	router.Delete(options.BaseURL+"/notifications/:id", wrapper.DeleteNotificationsId)
	router.Get(options.BaseURL+"/stats", wrapper.GetStats)
}
