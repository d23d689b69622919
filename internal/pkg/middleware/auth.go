package middleware

import (
	"slices"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/rl-Rahul/balu-property-sub003/internal/pkg/identity"
)

// RequireJWT authenticates a bearer token and stores the caller identity.
func RequireJWT(secret []byte) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := extractBearerToken(c)
		if raw == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error":   "unauthorized",
				"message": "Missing bearer token",
			})
		}

		id, err := identity.ParseToken(secret, raw)
		if err != nil {
			log.Debugf("[Auth] Rejected token from %s: %v", c.IP(), err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error":   "unauthorized",
				"message": "Invalid bearer token",
			})
		}

		identity.Set(c, id)
		return c.Next()
	}
}

// RequireAdmin ensures a platform admin; returns JSON 403 otherwise.
func RequireAdmin(c *fiber.Ctx) error {
	if !identity.FromCtx(c).IsAdmin {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error":   "forbidden",
			"message": "admin role required",
		})
	}
	return c.Next()
}

// RequireCompanyAccess checks that the company id in route parameter param
// belongs to the caller, admins pass for every company.
func RequireCompanyAccess(param string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		accountID, err := strconv.ParseUint(c.Params(param), 10, 64)
		if err != nil || accountID == 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error":   "bad_request",
				"message": "invalid company id",
			})
		}
		if !identity.FromCtx(c).CanAccessCompany(uint(accountID)) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error":   "forbidden",
				"message": "no access to this company",
			})
		}
		return c.Next()
	}
}

// RequireCompanyRole lets through platform admins and callers holding one
// of the given company roles. It runs after RequireCompanyAccess.
func RequireCompanyRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := identity.FromCtx(c)
		if id.IsAdmin || slices.Contains(roles, id.Role) {
			return c.Next()
		}
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error":   "forbidden",
			"message": "company role " + strings.Join(roles, " or ") + " required",
		})
	}
}

func extractBearerToken(c *fiber.Ctx) string {
	auth := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	if len(auth) > 7 && strings.EqualFold(auth[:7], "bearer ") {
		return strings.TrimSpace(auth[7:])
	}
	return ""
}
