package httpapi

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

const principalKey = "principal"

// requireAuth validates the bearer token and records the principal's id.
func (s *Server) requireAuth(c *fiber.Ctx) error {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		return detail(c, fiber.StatusUnauthorized, "Not authenticated")
	}

	claims, err := s.jwt.Validate(strings.TrimPrefix(header, "Bearer "))
	if err != nil {
		return detail(c, fiber.StatusUnauthorized, "Invalid or expired token")
	}

	c.Locals(principalKey, claims.Subject)
	return c.Next()
}

// enforceOwner rejects requests whose path owner differs from the
// token's subject. Task data never crosses principals.
func (s *Server) enforceOwner(c *fiber.Ctx) error {
	if c.Params("userID") != c.Locals(principalKey) {
		return detail(c, fiber.StatusForbidden, "Access denied")
	}
	return c.Next()
}

// principal returns the authenticated user id set by requireAuth.
func principal(c *fiber.Ctx) string {
	id, _ := c.Locals(principalKey).(string)
	return id
}
