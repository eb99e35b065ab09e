package handlers_fiber

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Aadyothcoding/ece-project-connect/internal/entities"
	api "github.com/Aadyothcoding/ece-project-connect/internal/oapi"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func errorApp(err error) *fiber.App {
	h := &Handler{log: zap.NewNop().Sugar()}
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return h.writeError(c, err)
	})
	return app
}

func TestWriteError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   api.ErrorResponseErrorCode
		msg    string
	}{
		{"project_not_found", entities.ErrProjectNotFound, http.StatusNotFound, api.NOTFOUND, "project not found"},
		{"wrapped_teammate", fmt.Errorf("%w: RA009", entities.ErrTeammateNotFound), http.StatusNotFound, api.NOTFOUND, "teammate not found"},
		{"not_owner", entities.ErrNotOwner, http.StatusForbidden, api.FORBIDDEN, "project belongs to another faculty member"},
		{"quota", entities.ErrQuotaExceeded, http.StatusConflict, api.QUOTAEXCEEDED, "a student may hold at most two applications"},
		{"superseded", entities.ErrApplicationSuperseded, http.StatusConflict, api.SUPERSEDED, "application was removed by another decision"},
		{"not_ready", entities.ErrNotReady, http.StatusConflict, api.NOTREADY, "application is still waiting for teammates"},
		{"in_team", entities.ErrAlreadyInTeam, http.StatusConflict, api.ALREADYINTEAM, "a member already belongs to a team"},
		{"duplicate", entities.ErrDuplicateApplication, http.StatusConflict, api.DUPLICATE, "a member has already applied to this project"},
		{"bare_conflict", fmt.Errorf("insert team: %w", entities.ErrConflict), http.StatusConflict, api.CONFLICT, "request conflicts with current state"},
		{"teammate_count", entities.ErrInvalidTeammateCount, http.StatusBadRequest, api.INVALID,
			"individual applications take no teammates, group applications exactly two distinct ones"},
		{"invalid_argument", fmt.Errorf("%w: team_id is required", entities.ErrInvalidArgument), http.StatusBadRequest, api.INVALID,
			"invalid: invalid argument: team_id is required"},
		{"storage", errors.New(`pq: relation "applications" does not exist`), http.StatusInternalServerError, api.INTERNAL, internalMessage},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			resp, err := errorApp(tt.err).Test(httptest.NewRequest(http.MethodGet, "/", nil))
			require.NoError(t, err)
			defer resp.Body.Close()

			require.Equal(t, tt.status, resp.StatusCode)

			var body api.ErrorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			require.Equal(t, tt.code, body.Error.Code)
			require.Equal(t, tt.msg, body.Error.Message)
		})
	}
}
