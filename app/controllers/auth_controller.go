package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/tahlil-one/tahlil/internal/pkg/subscription"
	"github.com/tahlil-one/tahlil/internal/pkg/usercontext"
)

// SessionRemover deletes sessions on logout.
type SessionRemover interface {
	Delete(token string) error
}

// AuthController serves the signed in user's own resources.
type AuthController struct {
	sessions SessionRemover
	subs     *subscription.Service
}

func NewAuthController(sessions SessionRemover, subs *subscription.Service) *AuthController {
	return &AuthController{sessions: sessions, subs: subs}
}

// HandleMe returns the current user.
func (ac *AuthController) HandleMe(c *fiber.Ctx) error {
	uc := usercontext.GetUserContext(c)
	return c.JSON(uc.User)
}

// HandleLogout deletes the session and clears the cookie.
func (ac *AuthController) HandleLogout(c *fiber.Ctx) error {
	token := usercontext.GetSessionToken(c)
	if token != "" {
		if err := ac.sessions.Delete(token); err != nil {
			return internalError(c, "Failed to end session", err)
		}
	}
	c.Cookie(&fiber.Cookie{
		Name:     usercontext.SessionCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		Secure:   true,
		SameSite: fiber.CookieSameSiteNoneMode,
	})
	log.Infof("[Auth] User %s logged out", usercontext.GetUserID(c))
	return c.JSON(fiber.Map{"message": "Logged out successfully"})
}

// HandleSubscriptionStatus returns the subscription summary of the current user.
func (ac *AuthController) HandleSubscriptionStatus(c *fiber.Ctx) error {
	uc := usercontext.GetUserContext(c)
	return c.JSON(ac.subs.Status(uc.User))
}
