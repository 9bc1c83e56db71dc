package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/fitness-records/internal/metrics"
)

// RequestLogger writes one log entry per request and feeds the HTTP
// metrics.  It runs outermost, so the status it sees is the one written by
// the error handler.
func RequestLogger(log logrus.FieldLogger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			done := metrics.RequestStarted()

			err := next(c)
			if err != nil {
				// Render now so status and size below are final.
				c.Error(err)
			}

			req, res := c.Request(), c.Response()
			done(req.Method, c.Path(), res.Status)

			entry := log.WithFields(logrus.Fields{
				"method":     req.Method,
				"path":       req.URL.Path,
				"route":      c.Path(),
				"status":     res.Status,
				"bytes":      res.Size,
				"latency_ms": time.Since(start).Milliseconds(),
				"remote_ip":  c.RealIP(),
				"user_id":    userID(c),
			})
			switch {
			case res.Status >= 500:
				entry.Error("request")
			case res.Status >= 400:
				entry.Warn("request")
			default:
				entry.Info("request")
			}
			return nil
		}
	}
}
