package middleware

import (
	"strings"

	"volunteer-attendance/internal/transport/http/api"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// LocalPersonID is the fiber.Ctx local holding the authenticated person id.
const LocalPersonID = "person_id"

// Claims is the bearer token payload. Subject carries the person id; Role is
// informational only, the stored role is authoritative.
type Claims struct {
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Actor verifies an HS256 bearer token and stores its subject under LocalPersonID.
func Actor(secret []byte) fiber.Handler {
	return func(c *fiber.Ctx) error {
		auth := c.Get(fiber.HeaderAuthorization)
		if len(auth) < 7 || !strings.EqualFold(auth[:7], "bearer ") {
			return unauthorized(c, "missing bearer token")
		}

		var claims Claims
		token, err := jwt.ParseWithClaims(
			strings.TrimSpace(auth[7:]),
			&claims,
			func(*jwt.Token) (any, error) { return secret, nil },
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		)
		if err != nil || !token.Valid {
			return unauthorized(c, "invalid token")
		}
		if claims.Subject == "" {
			return unauthorized(c, "token has no subject")
		}

		c.Locals(LocalPersonID, claims.Subject)
		return c.Next()
	}
}

// PersonID returns the id stored by Actor, or "".
func PersonID(c *fiber.Ctx) string {
	id, _ := c.Locals(LocalPersonID).(string)
	return id
}

func unauthorized(c *fiber.Ctx, msg string) error {
	var body api.ErrorResponse
	body.Error.Code = api.UNAUTHORIZED
	body.Error.Message = msg
	return c.Status(fiber.StatusUnauthorized).JSON(body)
}
