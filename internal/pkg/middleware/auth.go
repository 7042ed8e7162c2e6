package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/tahlil-one/tahlil/internal/pkg/entitlements"
	"github.com/tahlil-one/tahlil/internal/pkg/usercontext"
)

// RequireAuth ensures a signed in user and returns JSON 401 otherwise.
func RequireAuth(c *fiber.Ctx) error {
	if !usercontext.IsLoggedIn(c) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error":   "unauthorized",
			"message": "login required",
		})
	}
	return c.Next()
}

// RequireAdmin ensures a signed in admin.
func RequireAdmin(c *fiber.Ctx) error {
	uc := usercontext.GetUserContext(c)
	if !uc.IsLoggedIn {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error":   "unauthorized",
			"message": "login required",
		})
	}
	if !uc.IsAdmin {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error":   "forbidden",
			"message": "admin access required",
		})
	}
	return c.Next()
}

// RequireSubscription lets through admins and users whose subscription covers tier.
// Denials are answered before any handler touches the store.
func RequireSubscription(tier entitlements.Tier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		uc := usercontext.GetUserContext(c)
		if !uc.IsLoggedIn {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error":   "unauthorized",
				"message": "login required",
			})
		}
		if !entitlements.HasAccess(uc.SubscriptionState(), tier, time.Now()) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error":   "forbidden",
				"message": "an active subscription is required",
			})
		}
		return c.Next()
	}
}
