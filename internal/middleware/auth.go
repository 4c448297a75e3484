package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/yxngashy/studietid/internal/utils"
)

// RequireUser gates routes that need an authenticated identity. Anonymous
// browser requests are redirected to the landing page rather than answered
// 401, matching the browser-first surface of this application. Bearer
// clients have no use for a redirect and get a 401 envelope instead.
func RequireUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := IdentityFromContext(c); !ok {
			return rejectAnonymous(c)
		}
		return c.Next()
	}
}

// RequireAdmin gates admin-only routes. Anonymous requests are turned away
// like RequireUser; authenticated non-admins get a 403 with no redirect.
// This is the single, deterministic gate policy: the admin check always runs.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := IdentityFromContext(c)
		if !ok {
			return rejectAnonymous(c)
		}

		if !user.IsAdmin {
			return utils.SendError(c, fiber.StatusForbidden, utils.KindForbidden, "admin access required")
		}

		return c.Next()
	}
}

func rejectAnonymous(c *fiber.Ctx) error {
	if strings.HasPrefix(strings.ToLower(c.Get("Authorization")), "bearer ") {
		return utils.SendError(c, fiber.StatusUnauthorized, utils.KindUnauthenticated, "authentication required")
	}
	return c.Redirect("/", fiber.StatusFound)
}
