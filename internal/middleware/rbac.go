package middleware

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/unilancer-labs/unilancer-api/internal/utils"
)

// RequireRole gates the back-office surface to staff roles. The role is read
// from the request locals set by the JWT middleware; anything outside the
// allowed set is rejected with 403.
func RequireRole(roles ...string) fiber.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		if normalized := normalizeRole(role); normalized != "" {
			allowed[normalized] = struct{}{}
		}
	}

	return func(c *fiber.Ctx) error {
		role := ""
		switch v := c.Locals("user_role").(type) {
		case string:
			role = normalizeRole(v)
		case nil:
		default:
			role = normalizeRole(fmt.Sprintf("%v", v))
		}

		if _, ok := allowed[role]; !ok {
			return utils.SendError(c, fiber.StatusForbidden, "insufficient permissions")
		}
		return c.Next()
	}
}

func normalizeRole(role string) string {
	return strings.ToLower(strings.TrimSpace(role))
}
