package middleware

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/tahlil-one/tahlil/app/models"
	"github.com/tahlil-one/tahlil/internal/pkg/usercontext"
)

// SessionLookup resolves opaque session tokens.
type SessionLookup interface {
	GetByToken(token string) (*models.UserSession, error)
}

// UserLookup loads users by id.
type UserLookup interface {
	GetByID(id string) (*models.User, error)
}

// ExpiryEnforcer persists lapsed subscriptions as expired.
type ExpiryEnforcer interface {
	EnforceExpiry(ctx context.Context, user *models.User) (bool, error)
}

// SessionAuthMiddleware resolves the session token from the session_token cookie or an
// Authorization bearer header and stores the user context. Unknown or expired tokens
// leave the request anonymous; the Require* handlers decide what that means.
func SessionAuthMiddleware(sessions SessionLookup, users UserLookup, subs ExpiryEnforcer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		usercontext.SetUserContext(c, usercontext.UserContext{})

		token := extractSessionToken(c)
		if token == "" {
			return c.Next()
		}

		sess, err := sessions.GetByToken(token)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.Next()
			}
			log.Errorf("[Auth] session lookup failed: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Session verification failed"})
		}
		if sess.IsExpired(time.Now()) {
			return c.Next()
		}

		user, err := users.GetByID(sess.UserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				log.Warnf("[Auth] session %s... points to missing user %s", tokenPrefix(token), sess.UserID)
				return c.Next()
			}
			log.Errorf("[Auth] user lookup failed: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Session verification failed"})
		}

		if subs != nil {
			if _, err := subs.EnforceExpiry(c.UserContext(), user); err != nil {
				log.Warnf("[Auth] could not persist subscription expiry for %s: %v", user.UserID, err)
			}
		}

		usercontext.SetUserContext(c, usercontext.FromUser(user))
		c.Locals(usercontext.KeySessionToken, token)
		return c.Next()
	}
}

func extractSessionToken(c *fiber.Ctx) string {
	if tok := strings.TrimSpace(c.Cookies(usercontext.SessionCookie)); tok != "" {
		return tok
	}
	auth := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	if len(auth) > 7 && strings.EqualFold(auth[:7], "bearer ") {
		return strings.TrimSpace(auth[7:])
	}
	return ""
}

func tokenPrefix(token string) string {
	if len(token) > 6 {
		return token[:6]
	}
	return token
}
