package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/tahlil-one/tahlil/app/models"
	"github.com/tahlil-one/tahlil/internal/pkg/entitlements"
	"github.com/tahlil-one/tahlil/internal/pkg/usercontext"
)

type sessionMap struct {
	sessions map[string]models.UserSession
	err      error
}

func (s sessionMap) GetByToken(token string) (*models.UserSession, error) {
	if s.err != nil {
		return nil, s.err
	}
	sess, ok := s.sessions[token]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &sess, nil
}

type userMap map[string]models.User

func (u userMap) GetByID(id string) (*models.User, error) {
	user, ok := u[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &user, nil
}

type expiryRecorder struct {
	users []string
	err   error
}

func (e *expiryRecorder) EnforceExpiry(ctx context.Context, user *models.User) (bool, error) {
	e.users = append(e.users, user.UserID)
	if e.err != nil {
		return false, e.err
	}
	if entitlements.IsLapsed(user.SubscriptionState(), time.Now()) {
		user.SubscriptionStatus = entitlements.StatusExpired
		return true, nil
	}
	return false, nil
}

func newTestApp(sessions SessionLookup, users UserLookup, subs ExpiryEnforcer, handlers ...fiber.Handler) *fiber.App {
	app := fiber.New()
	app.Use(SessionAuthMiddleware(sessions, users, subs))
	handlers = append(handlers, func(c *fiber.Ctx) error {
		uc := usercontext.GetUserContext(c)
		return c.JSON(fiber.Map{"user_id": uc.UserID, "logged_in": uc.IsLoggedIn, "token": usercontext.GetSessionToken(c)})
	})
	app.Get("/", handlers...)
	return app
}

func fixtures() (sessionMap, userMap) {
	now := time.Now()
	past := now.Add(-time.Hour)
	sessions := sessionMap{sessions: map[string]models.UserSession{
		"good":   {SessionToken: "good", UserID: "u_1", ExpiresAt: now.Add(time.Hour)},
		"old":    {SessionToken: "old", UserID: "u_1", ExpiresAt: now.Add(-time.Second)},
		"orphan": {SessionToken: "orphan", UserID: "u_gone", ExpiresAt: now.Add(time.Hour)},
		"lapsed": {SessionToken: "lapsed", UserID: "u_2", ExpiresAt: now.Add(time.Hour)},
		"admin":  {SessionToken: "admin", UserID: "u_admin", ExpiresAt: now.Add(time.Hour)},
	}}
	users := userMap{
		"u_1":     {UserID: "u_1", AccessLevel: entitlements.AccessLevelLimited, SubscriptionType: "Beginner", SubscriptionStatus: entitlements.StatusActive},
		"u_2":     {UserID: "u_2", AccessLevel: entitlements.AccessLevelLimited, SubscriptionType: "Premium", SubscriptionStatus: entitlements.StatusActive, SubscriptionEndDate: &past},
		"u_admin": {UserID: "u_admin", AccessLevel: entitlements.AccessLevelAdmin, SubscriptionStatus: entitlements.StatusNone},
	}
	return sessions, users
}

func get(t *testing.T, app *fiber.App, token string, cookie bool) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		if cookie {
			req.AddCookie(&http.Cookie{Name: usercontext.SessionCookie, Value: token})
		} else {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestSessionAuthResolvesCookieAndBearer(t *testing.T) {
	sessions, users := fixtures()
	subs := &expiryRecorder{}
	app := newTestApp(sessions, users, subs, RequireAuth)

	assert.Equal(t, fiber.StatusOK, get(t, app, "good", true).StatusCode)
	assert.Equal(t, fiber.StatusOK, get(t, app, "good", false).StatusCode)
	assert.Equal(t, []string{"u_1", "u_1"}, subs.users)
}

func TestSessionAuthLeavesBadTokensAnonymous(t *testing.T) {
	sessions, users := fixtures()
	app := newTestApp(sessions, users, &expiryRecorder{}, RequireAuth)

	for _, token := range []string{"", "unknown", "old", "orphan"} {
		assert.Equal(t, fiber.StatusUnauthorized, get(t, app, token, false).StatusCode, token)
	}
}

func TestSessionAuthStoreFailureIs500(t *testing.T) {
	_, users := fixtures()
	app := newTestApp(sessionMap{err: errors.New("connection refused")}, users, nil)

	assert.Equal(t, fiber.StatusInternalServerError, get(t, app, "good", false).StatusCode)
}

func TestSessionAuthExpiryErrorDoesNotFailRequest(t *testing.T) {
	sessions, users := fixtures()
	app := newTestApp(sessions, users, &expiryRecorder{err: errors.New("db down")}, RequireAuth)

	assert.Equal(t, fiber.StatusOK, get(t, app, "good", false).StatusCode)
}

func TestRequireSubscription(t *testing.T) {
	sessions, users := fixtures()
	app := newTestApp(sessions, users, &expiryRecorder{}, RequireSubscription(entitlements.TierAdvanced))

	assert.Equal(t, fiber.StatusUnauthorized, get(t, app, "", false).StatusCode)
	assert.Equal(t, fiber.StatusForbidden, get(t, app, "good", false).StatusCode)
	assert.Equal(t, fiber.StatusForbidden, get(t, app, "lapsed", false).StatusCode)
	assert.Equal(t, fiber.StatusOK, get(t, app, "admin", false).StatusCode)
}

func TestRequireAdmin(t *testing.T) {
	sessions, users := fixtures()
	app := newTestApp(sessions, users, nil, RequireAdmin)

	assert.Equal(t, fiber.StatusUnauthorized, get(t, app, "", false).StatusCode)
	assert.Equal(t, fiber.StatusForbidden, get(t, app, "good", false).StatusCode)
	assert.Equal(t, fiber.StatusOK, get(t, app, "admin", true).StatusCode)
}
