package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/fitness-records/internal/auth"
)

// Authenticate rejects requests without a usable bearer token and attaches
// the caller's session otherwise.  Rejections are returned as
// *echo.HTTPError so the application error handler renders them in the
// response envelope.
func Authenticate(g *auth.Gate, log logrus.FieldLogger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			s, err := g.Authenticate(c.Request().Context(), c.Request().Header.Get(echo.HeaderAuthorization))
			switch {
			case err == nil:
				SetSession(c, s)
				return next(c)
			case errors.Is(err, auth.ErrAuthenticationRequired):
				return echo.NewHTTPError(http.StatusUnauthorized, "Authentication token required")
			case errors.Is(err, auth.ErrTokenRevoked):
				return echo.NewHTTPError(http.StatusUnauthorized, "Authentication token logged out")
			case errors.Is(err, auth.ErrInvalidOrExpiredToken):
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
			}
			log.WithError(err).Error("authentication check failed")
			return echo.NewHTTPError(http.StatusInternalServerError, "Error checking authentication token").SetInternal(err)
		}
	}
}
