package middleware

// identity.go holds the context plumbing shared by the middleware and the
// handlers: the authenticated session is stored on the echo context by
// Authenticate and read back with SessionFrom.

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/fitness-records/internal/auth"
)

const sessionKey = "session"

// SetSession attaches an authenticated session to the request.
func SetSession(c echo.Context, s auth.Session) {
	c.Set(sessionKey, s)
}

// SessionFrom returns the session attached by Authenticate.
func SessionFrom(c echo.Context) (auth.Session, bool) {
	s, ok := c.Get(sessionKey).(auth.Session)
	return s, ok && s.UserID != 0
}

// userID returns the caller's id as a string, or "guest" when the request is
// not authenticated.
func userID(c echo.Context) string {
	if s, ok := SessionFrom(c); ok {
		return strconv.FormatUint(s.UserID, 10)
	}
	return "guest"
}
