package handlers_fiber

import (
	"net/http"

	"github.com/Aadyothcoding/ece-project-connect/internal/entities"
	"github.com/Aadyothcoding/ece-project-connect/internal/mapper"
	api "github.com/Aadyothcoding/ece-project-connect/internal/oapi"

	"github.com/gofiber/fiber/v2"
)

// PostApplications submits an application led by the acting student.
func (h *Handler) PostApplications(c *fiber.Ctx) error {
	actor, err := h.principal(c)
	if err != nil {
		return h.writeError(c, err)
	}
	var body api.PostApplicationsJSONRequestBody
	if err := h.bind(c, &body); err != nil {
		return h.writeError(c, err)
	}

	app, err := h.uc.Submit(c.Context(), actor, body.ProjectId, entities.ApplicationType(body.ApplicationType), body.Teammates)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.Status(http.StatusCreated).JSON(struct {
		Application api.Application `json:"application"`
	}{Application: mapper.ToOAPIApplication(app)})
}

// GetApplicationsMine lists the acting student's live applications.
func (h *Handler) GetApplicationsMine(c *fiber.Ctx) error {
	actor, err := h.principal(c)
	if err != nil {
		return h.writeError(c, err)
	}
	apps, err := h.uc.MyApplications(c.Context(), actor)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(struct {
		Applications []api.Application `json:"applications"`
	}{Applications: mapper.ToOAPIApplicationList(apps)})
}

// GetApplicationsId returns one application to a member or the owning faculty.
func (h *Handler) GetApplicationsId(c *fiber.Ctx, id string) error {
	actor, err := h.principal(c)
	if err != nil {
		return h.writeError(c, err)
	}
	app, err := h.uc.Application(c.Context(), actor, id)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(struct {
		Application api.Application `json:"application"`
	}{Application: mapper.ToOAPIApplication(app)})
}

// GetProjectsProjectIdApplications returns the project's review queue.
func (h *Handler) GetProjectsProjectIdApplications(c *fiber.Ctx, projectID string) error {
	actor, err := h.principal(c)
	if err != nil {
		return h.writeError(c, err)
	}
	apps, err := h.uc.ApplicationsVisibleToFaculty(c.Context(), actor, projectID)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(struct {
		ProjectID    string            `json:"project_id"`
		Applications []api.Application `json:"applications"`
	}{ProjectID: projectID, Applications: mapper.ToOAPIApplicationList(apps)})
}

// GetProjectsProjectIdApplicationsAll returns every live application of the project.
func (h *Handler) GetProjectsProjectIdApplicationsAll(c *fiber.Ctx, projectID string) error {
	actor, err := h.principal(c)
	if err != nil {
		return h.writeError(c, err)
	}
	apps, err := h.uc.ListForProject(c.Context(), actor, projectID)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(struct {
		ProjectID    string            `json:"project_id"`
		Applications []api.Application `json:"applications"`
	}{ProjectID: projectID, Applications: mapper.ToOAPIApplicationList(apps)})
}

// PostApplicationsIdApprove turns a reviewable application into a team.
func (h *Handler) PostApplicationsIdApprove(c *fiber.Ctx, id string) error {
	actor, err := h.principal(c)
	if err != nil {
		return h.writeError(c, err)
	}
	team, err := h.uc.Approve(c.Context(), actor, id)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.Status(http.StatusCreated).JSON(struct {
		Team api.Team `json:"team"`
	}{Team: mapper.ToOAPITeam(team)})
}

// PostApplicationsIdReject deletes a reviewable application.
func (h *Handler) PostApplicationsIdReject(c *fiber.Ctx, id string) error {
	actor, err := h.principal(c)
	if err != nil {
		return h.writeError(c, err)
	}
	if err := h.uc.Reject(c.Context(), actor, id); err != nil {
		return h.writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(struct {
		ApplicationID string `json:"application_id"`
		Deleted       bool   `json:"deleted"`
	}{ApplicationID: id, Deleted: true})
}
