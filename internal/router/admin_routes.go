package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/fitness-records/internal/handler"
)

// RegisterAdmin registers the admin-only endpoints.  RequireAdmin runs after
// Authenticate, so the privilege check always has an identity to look up.
func RegisterAdmin(e *echo.Echo, h *handler.AdminHandler, g Guards) {
	a := e.Group("/records/admin", g.Authenticate, g.RequireAdmin, g.Cache)
	a.GET("/profiles/", h.ListProfiles)
	a.GET("/profile/:id", h.GetProfile)
	a.DELETE("/profile/:id", h.DeleteProfile)
	a.POST("/reset-password/:id", h.ResetPassword)
}
