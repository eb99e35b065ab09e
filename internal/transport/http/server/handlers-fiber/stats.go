package handlers_fiber

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// GetStats returns workflow counters to faculty.
func (h *Handler) GetStats(c *fiber.Ctx) error {
	actor, err := h.principal(c)
	if err != nil {
		return h.writeError(c, err)
	}
	statsRes, err := h.uc.Stats(c.Context(), actor)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(statsRes)
}
