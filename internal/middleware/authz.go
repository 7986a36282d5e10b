package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/moonbase-api/internal/models"
	"github.com/noah-isme/moonbase-api/internal/utils"
)

// Role names accepted by WithAuth and RequireRole. AuthRoleAny admits every
// authenticated caller regardless of group.
const (
	AuthRoleAny     = "any"
	AuthRoleTeacher = string(models.RoleTeacher)
	AuthRoleStudent = string(models.RoleStudent)
)

// AuthOptions configures WithAuth.
type AuthOptions struct {
	Role        string
	RequireUser bool
}

// WithAuth guards a single handler.
func WithAuth(handler fiber.Handler, opts AuthOptions) fiber.Handler {
	guard := newRoleGuard(opts.Role)
	requireUser := opts.RequireUser || !guard.open()

	return func(c *fiber.Ctx) error {
		if status, message := guard.reject(c, requireUser); status != 0 {
			return utils.SendError(c, status, message)
		}
		return handler(c)
	}
}

// RequireRole rejects callers outside the listed groups. It always requires a user.
func RequireRole(roles ...string) fiber.Handler {
	guard := newRoleGuard(roles...)

	return func(c *fiber.Ctx) error {
		if status, message := guard.reject(c, true); status != 0 {
			return utils.SendError(c, status, message)
		}
		return c.Next()
	}
}

type roleGuard map[models.Role]struct{}

func newRoleGuard(roles ...string) roleGuard {
	guard := roleGuard{}
	for _, raw := range roles {
		if raw == "" || raw == AuthRoleAny {
			continue
		}
		role := models.ParseRole(raw)
		if role == models.RoleNone {
			// Kept as an unmatchable entry so an unknown name never opens the guard.
			role = models.Role("unmatched:" + raw)
		}
		guard[role] = struct{}{}
	}
	return guard
}

func (g roleGuard) open() bool {
	return len(g) == 0
}

// reject returns a zero status when the caller may proceed.
func (g roleGuard) reject(c *fiber.Ctx, requireUser bool) (int, string) {
	if _, ok := c.Locals("user_id").(uint); !ok && requireUser {
		return fiber.StatusUnauthorized, "authentication required"
	}
	if g.open() {
		return 0, ""
	}

	role, _ := c.Locals("user_role").(string)
	if _, ok := g[models.ParseRole(role)]; !ok {
		return fiber.StatusForbidden, "insufficient permissions"
	}
	return 0, ""
}
