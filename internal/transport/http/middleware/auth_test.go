package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Aadyothcoding/ece-project-connect/internal/entities"
	api "github.com/Aadyothcoding/ece-project-connect/internal/oapi"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "test-secret"

func authApp() *fiber.App {
	app := fiber.New()
	app.Use(Auth(zap.NewNop().Sugar(), testSecret, "project-connect"))
	app.Get("/", func(c *fiber.Ctx) error {
		p, ok := PrincipalFrom(c)
		if !ok {
			return c.SendStatus(http.StatusTeapot)
		}
		return c.JSON(p)
	})
	return app
}

func doAuth(t *testing.T, app *fiber.App, header string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set(fiber.HeaderAuthorization, header)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestAuth_ValidToken(t *testing.T) {
	want := entities.Principal{ID: "s1", Role: entities.RoleStudent, FullName: "Asha", RegNo: "RA001"}
	token, err := SignToken(testSecret, "project-connect", want, time.Hour)
	require.NoError(t, err)

	resp := doAuth(t, authApp(), "Bearer "+token)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got entities.Principal
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	require.Equal(t, want, got)
}

func TestAuth_Rejections(t *testing.T) {
	student := entities.Principal{ID: "s1", Role: entities.RoleStudent, FullName: "Asha"}
	expired, err := SignToken(testSecret, "project-connect", student, -time.Minute)
	require.NoError(t, err)
	wrongKey, err := SignToken("other", "project-connect", student, time.Hour)
	require.NoError(t, err)
	wrongIssuer, err := SignToken(testSecret, "elsewhere", student, time.Hour)
	require.NoError(t, err)
	noRole, err := SignToken(testSecret, "project-connect", entities.Principal{ID: "x", Role: "admin"}, time.Hour)
	require.NoError(t, err)
	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "s1", "role": "student"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		msg    string
	}{
		{"missing", "", "missing bearer token"},
		{"not_bearer", "Basic abc", "missing bearer token"},
		{"expired", "Bearer " + expired, "token expired"},
		{"wrong_key", "Bearer " + wrongKey, "invalid token"},
		{"wrong_issuer", "Bearer " + wrongIssuer, "invalid token"},
		{"alg_none", "Bearer " + none, "invalid token"},
		{"bad_role", "Bearer " + noRole, "token has no valid subject or role"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doAuth(t, authApp(), tt.header)
			defer resp.Body.Close()
			require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

			var body api.ErrorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			require.Equal(t, api.UNAUTHORIZED, body.Error.Code)
			require.Equal(t, tt.msg, body.Error.Message)
		})
	}
}

func TestMetricsAndLoggerPassThrough(t *testing.T) {
	app := fiber.New()
	app.Use(Metrics(), RequestLogger(zap.NewNop().Sugar()))
	app.Get("/ok", func(c *fiber.Ctx) error { return c.SendStatus(http.StatusNoContent) })
	app.Get("/boom", func(c *fiber.Ctx) error { return fiber.NewError(http.StatusBadGateway, "upstream") })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/ok", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/boom", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusBadGateway, resp.StatusCode)
}
