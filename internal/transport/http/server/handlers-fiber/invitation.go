package handlers_fiber

import (
	"net/http"

	"github.com/Aadyothcoding/ece-project-connect/internal/entities"
	"github.com/Aadyothcoding/ece-project-connect/internal/mapper"
	api "github.com/Aadyothcoding/ece-project-connect/internal/oapi"

	"github.com/gofiber/fiber/v2"
)

// GetInvitations lists invitations waiting on the acting student.
func (h *Handler) GetInvitations(c *fiber.Ctx) error {
	actor, err := h.principal(c)
	if err != nil {
		return h.writeError(c, err)
	}
	invites, err := h.uc.PendingInvitations(c.Context(), actor)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(struct {
		Invitations []api.Invitation `json:"invitations"`
	}{Invitations: mapper.ToOAPIInvitationList(invites)})
}

// PostInvitationsRespond records the acting teammate's answer.
func (h *Handler) PostInvitationsRespond(c *fiber.Ctx) error {
	actor, err := h.principal(c)
	if err != nil {
		return h.writeError(c, err)
	}
	var body api.PostInvitationsRespondJSONRequestBody
	if err := h.bind(c, &body); err != nil {
		return h.writeError(c, err)
	}

	res, err := h.uc.Respond(c.Context(), actor, body.ApplicationId, body.MemberId, entities.Decision(body.Decision))
	if err != nil {
		return h.writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(mapper.ToOAPIConsentResult(res))
}
