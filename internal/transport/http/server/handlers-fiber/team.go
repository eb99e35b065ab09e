package handlers_fiber

import (
	"net/http"

	"github.com/Aadyothcoding/ece-project-connect/internal/mapper"
	api "github.com/Aadyothcoding/ece-project-connect/internal/oapi"

	"github.com/gofiber/fiber/v2"
)

// GetTeams returns the teams on the acting faculty's projects.
func (h *Handler) GetTeams(c *fiber.Ctx) error {
	actor, err := h.principal(c)
	if err != nil {
		return h.writeError(c, err)
	}
	teams, err := h.uc.TeamsForFaculty(c.Context(), actor)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(struct {
		Teams []api.Team `json:"teams"`
	}{Teams: mapper.ToOAPITeamList(teams)})
}

// PostTeamsTeamIdMembers adds a student to a team by registration number.
func (h *Handler) PostTeamsTeamIdMembers(c *fiber.Ctx, teamID string) error {
	actor, err := h.principal(c)
	if err != nil {
		return h.writeError(c, err)
	}
	var body api.PostTeamsTeamIdMembersJSONRequestBody
	if err := h.bind(c, &body); err != nil {
		return h.writeError(c, err)
	}

	team, err := h.uc.AddTeamMember(c.Context(), actor, teamID, body.RegNo)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(struct {
		Team api.Team `json:"team"`
	}{Team: mapper.ToOAPITeam(team)})
}

// DeleteTeamsTeamIdMembersStudentId removes a student from a team.
func (h *Handler) DeleteTeamsTeamIdMembersStudentId(c *fiber.Ctx, teamID, studentID string) error {
	actor, err := h.principal(c)
	if err != nil {
		return h.writeError(c, err)
	}
	team, err := h.uc.RemoveTeamMember(c.Context(), actor, teamID, studentID)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(struct {
		Team api.Team `json:"team"`
	}{Team: mapper.ToOAPITeam(team)})
}
