package usercontext

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tahlil-one/tahlil/app/models"
	"github.com/tahlil-one/tahlil/internal/pkg/entitlements"
)

// UserContext represents the complete user context for a request
type UserContext struct {
	UserID     string       `json:"user_id"`
	Email      string       `json:"email"`
	Name       string       `json:"name"`
	IsLoggedIn bool         `json:"is_logged_in"`
	IsAdmin    bool         `json:"is_admin"`
	User       *models.User `json:"-"`
}

// FromUser builds the context of a signed in user.
func FromUser(u *models.User) UserContext {
	return UserContext{
		UserID:     u.UserID,
		Email:      u.Email,
		Name:       u.Name,
		IsLoggedIn: true,
		IsAdmin:    u.IsAdmin(),
		User:       u,
	}
}

// SubscriptionState returns the gating view, empty for anonymous requests.
func (uc UserContext) SubscriptionState() entitlements.SubscriptionState {
	if uc.User == nil {
		return entitlements.SubscriptionState{}
	}
	return uc.User.SubscriptionState()
}

// GetUserContext retrieves the user context from fiber context
// Returns a default anonymous context if none is set
func GetUserContext(c *fiber.Ctx) UserContext {
	if ctx, ok := c.Locals(KeyUserContext).(UserContext); ok {
		return ctx
	}
	return UserContext{IsLoggedIn: false, IsAdmin: false}
}

// SetUserContext stores the user context on the request
func SetUserContext(c *fiber.Ctx, uc UserContext) {
	c.Locals(KeyUserContext, uc)
}

// IsLoggedIn checks if the current user is logged in
func IsLoggedIn(c *fiber.Ctx) bool {
	return GetUserContext(c).IsLoggedIn
}

// IsAdmin checks if the current user is an admin
func IsAdmin(c *fiber.Ctx) bool {
	return GetUserContext(c).IsAdmin
}

// GetUserID returns the current user's ID, or "" if not logged in
func GetUserID(c *fiber.Ctx) string {
	return GetUserContext(c).UserID
}

// GetSessionToken returns the token that authenticated the request
func GetSessionToken(c *fiber.Ctx) string {
	if tok, ok := c.Locals(KeySessionToken).(string); ok {
		return tok
	}
	return ""
}
