package handlers_fiber

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/Aadyothcoding/ece-project-connect/internal/entities"
	api "github.com/Aadyothcoding/ece-project-connect/internal/oapi"
	"github.com/Aadyothcoding/ece-project-connect/internal/transport/http/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

const internalMessage = "internal error, please retry"

type errorMapping struct {
	target error
	status int
	code   api.ErrorResponseErrorCode
	msg    string
}

// Specific sentinels first; category sentinels catch the rest.
var errorMappings = []errorMapping{
	{entities.ErrProjectNotFound, http.StatusNotFound, api.NOTFOUND, "project not found"},
	{entities.ErrApplicationNotFound, http.StatusNotFound, api.NOTFOUND, "application not found"},
	{entities.ErrTeammateNotFound, http.StatusNotFound, api.NOTFOUND, "teammate not found"},
	{entities.ErrStudentNotFound, http.StatusNotFound, api.NOTFOUND, "student not found"},
	{entities.ErrTeamNotFound, http.StatusNotFound, api.NOTFOUND, "team not found"},
	{entities.ErrNotificationNotFound, http.StatusNotFound, api.NOTFOUND, "notification not found"},
	{entities.ErrNotFound, http.StatusNotFound, api.NOTFOUND, "resource not found"},

	{entities.ErrWrongRole, http.StatusForbidden, api.FORBIDDEN, "operation not allowed for this role"},
	{entities.ErrNotOwner, http.StatusForbidden, api.FORBIDDEN, "project belongs to another faculty member"},
	{entities.ErrNotAMember, http.StatusForbidden, api.FORBIDDEN, "not a member of this application or team"},
	{entities.ErrForbidden, http.StatusForbidden, api.FORBIDDEN, "forbidden"},

	{entities.ErrDuplicateApplication, http.StatusConflict, api.DUPLICATE, "a member has already applied to this project"},
	{entities.ErrQuotaExceeded, http.StatusConflict, api.QUOTAEXCEEDED, "a student may hold at most two applications"},
	{entities.ErrAlreadyDecided, http.StatusConflict, api.ALREADYDECIDED, "invitation already answered"},
	{entities.ErrNotReady, http.StatusConflict, api.NOTREADY, "application is still waiting for teammates"},
	{entities.ErrApplicationSuperseded, http.StatusConflict, api.SUPERSEDED, "application was removed by another decision"},
	{entities.ErrAlreadyInTeam, http.StatusConflict, api.ALREADYINTEAM, "a member already belongs to a team"},
	{entities.ErrCapacityReached, http.StatusConflict, api.CAPACITYREACHED, "project has no team slots left"},
	{entities.ErrConflict, http.StatusConflict, api.CONFLICT, "request conflicts with current state"},

	{entities.ErrInvalidTeammateCount, http.StatusBadRequest, api.INVALID, "individual applications take no teammates, group applications exactly two distinct ones"},
}

func (h *Handler) writeError(c *fiber.Ctx, err error) error {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			return c.Status(m.status).JSON(errorResponse(m.code, m.msg))
		}
	}
	if errors.Is(err, entities.ErrInvalid) {
		return c.Status(http.StatusBadRequest).JSON(errorResponse(api.INVALID, err.Error()))
	}

	h.log.Errorw("request failed", "method", c.Method(), "path", c.Path(), "error", err)
	return c.Status(http.StatusInternalServerError).JSON(errorResponse(api.INTERNAL, internalMessage))
}

func errorResponse(code api.ErrorResponseErrorCode, msg string) api.ErrorResponse {
	return api.ErrorResponse{Error: struct {
		Code    api.ErrorResponseErrorCode `json:"code"`
		Message string                     `json:"message"`
	}{Code: code, Message: msg}}
}

func (h *Handler) principal(c *fiber.Ctx) (entities.Principal, error) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return entities.Principal{}, entities.ErrWrongRole
	}
	return p, nil
}

// bind parses and validates a JSON body.
func (h *Handler) bind(c *fiber.Ctx, dst interface{}) error {
	if err := c.BodyParser(dst); err != nil {
		h.log.Infow("failed to parse body", "path", c.Path(), "error", err)
		return fmt.Errorf("%w: invalid body", entities.ErrInvalidArgument)
	}
	if err := h.validate.Struct(dst); err != nil {
		return fmt.Errorf("%w: %s", entities.ErrInvalidArgument, describe(err))
	}
	return nil
}

func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
	}
	return strings.Join(parts, "; ")
}
