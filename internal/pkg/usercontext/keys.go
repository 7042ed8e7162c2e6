package usercontext

// Shared Locals keys used across controllers and middlewares
const (
	KeyUserContext  = "USER_CONTEXT"
	KeySessionToken = "session_token"
)

// SessionCookie is the cookie set by the sign-in service.
const SessionCookie = "session_token"
