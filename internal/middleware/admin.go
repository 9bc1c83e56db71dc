package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/fitness-records/internal/auth"
)

// RequireAdmin lets a request through only when the authenticated caller
// currently holds the admin flag.  It must be composed after Authenticate.
func RequireAdmin(g *auth.Gate, log logrus.FieldLogger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			var id *auth.Identity
			if s, ok := SessionFrom(c); ok {
				id = &s.Identity
			}
			err := g.AuthorizeAdmin(c.Request().Context(), id)
			switch {
			case err == nil:
				return next(c)
			case errors.Is(err, auth.ErrMissingIdentity):
				return echo.NewHTTPError(http.StatusUnauthorized, "User ID is missing from request")
			case errors.Is(err, auth.ErrUserNotFound):
				return echo.NewHTTPError(http.StatusNotFound, "User not found")
			case errors.Is(err, auth.ErrNotAuthorized):
				return echo.NewHTTPError(http.StatusForbidden, "User is not authorised as an admin")
			}
			log.WithError(err).WithField("user_id", userID(c)).Error("admin check failed")
			return echo.NewHTTPError(http.StatusInternalServerError, "Error checking user admin status").SetInternal(err)
		}
	}
}
