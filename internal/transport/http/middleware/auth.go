package middleware

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Aadyothcoding/ece-project-connect/internal/entities"
	api "github.com/Aadyothcoding/ece-project-connect/internal/oapi"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const principalKey = "principal"

// Claims is the bearer token payload identifying the acting user.
type Claims struct {
	Role  string `json:"role"`
	Name  string `json:"name"`
	RegNo string `json:"reg_no,omitempty"`
	jwt.RegisteredClaims
}

// Auth verifies an HS256 bearer token and stores the acting Principal in the request locals.
func Auth(log *zap.SugaredLogger, secret, issuer string) fiber.Handler {
	key := []byte(secret)
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}
	parser := jwt.NewParser(opts...)

	return func(c *fiber.Ctx) error {
		raw, ok := bearer(c.Get(fiber.HeaderAuthorization))
		if !ok {
			return unauthorized(c, "missing bearer token")
		}

		claims := &Claims{}
		_, err := parser.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
			return key, nil
		})
		if err != nil {
			log.Debugw("token rejected", "error", err)
			if errors.Is(err, jwt.ErrTokenExpired) {
				return unauthorized(c, "token expired")
			}
			return unauthorized(c, "invalid token")
		}

		p := entities.Principal{
			ID:       claims.Subject,
			Role:     entities.Role(claims.Role),
			FullName: claims.Name,
			RegNo:    claims.RegNo,
		}
		if p.ID == "" || !p.Role.Valid() {
			return unauthorized(c, "token has no valid subject or role")
		}
		c.Locals(principalKey, p)
		return c.Next()
	}
}

// PrincipalFrom returns the acting user stored by Auth.
func PrincipalFrom(c *fiber.Ctx) (entities.Principal, bool) {
	p, ok := c.Locals(principalKey).(entities.Principal)
	return p, ok
}

// SignToken issues an HS256 token for the principal.
func SignToken(secret, issuer string, p entities.Principal, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Role:  string(p.Role),
		Name:  p.FullName,
		RegNo: p.RegNo,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.ID,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func bearer(header string) (string, bool) {
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	return strings.TrimSpace(header[len(prefix):]), true
}

func unauthorized(c *fiber.Ctx, msg string) error {
	var body api.ErrorResponse
	body.Error.Code = api.UNAUTHORIZED
	body.Error.Message = msg
	return c.Status(fiber.StatusUnauthorized).JSON(body)
}
