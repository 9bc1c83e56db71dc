package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/fitness-records/internal/auth"
	"github.com/iliyamo/fitness-records/internal/middleware"
)

const (
	requestTimeout = 5 * time.Second
	noDataMessage  = "The database connection is valid but there is no data"
)

func requestContext(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), requestTimeout)
}

// pathID parses the :id route parameter.
func pathID(c echo.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "ID must be a number")
	}
	return id, nil
}

// session returns the caller's session.  Routes using it sit behind
// middleware.Authenticate, so a missing session means the route was wired
// without it.
func session(c echo.Context) (auth.Session, error) {
	s, ok := middleware.SessionFrom(c)
	if !ok {
		return s, echo.NewHTTPError(http.StatusUnauthorized, "Authentication token required")
	}
	return s, nil
}

func bind(c echo.Context, v any) error {
	if err := c.Bind(v); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Request body is not valid").SetInternal(err)
	}
	return nil
}

// views maps records to their public form.
func views[T any, V any](records []T, view func(T) V) []V {
	out := make([]V, len(records))
	for i, r := range records {
		out[i] = view(r)
	}
	return out
}
