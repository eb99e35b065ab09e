package handlers_fiber

import (
	"net/http"

	"github.com/Aadyothcoding/ece-project-connect/internal/mapper"
	api "github.com/Aadyothcoding/ece-project-connect/internal/oapi"

	"github.com/gofiber/fiber/v2"
)

// GetNotifications returns the acting user's inbox.
func (h *Handler) GetNotifications(c *fiber.Ctx) error {
	actor, err := h.principal(c)
	if err != nil {
		return h.writeError(c, err)
	}
	notes, err := h.uc.Notifications(c.Context(), actor)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(struct {
		Notifications []api.Notification `json:"notifications"`
	}{Notifications: mapper.ToOAPINotificationList(notes)})
}

// DeleteNotificationsId removes one inbox entry.
func (h *Handler) DeleteNotificationsId(c *fiber.Ctx, id string) error {
	actor, err := h.principal(c)
	if err != nil {
		return h.writeError(c, err)
	}
	if err := h.uc.DeleteNotification(c.Context(), actor, id); err != nil {
		return h.writeError(c, err)
	}
	return c.SendStatus(http.StatusNoContent)
}
