package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/fitness-records/internal/handler"
)

// Records bundles the handlers for the caller's own data.
type Records struct {
	Profile         *handler.ProfileHandler
	Workouts        *handler.WorkoutHandler
	Meals           *handler.MealHandler
	Goals           *handler.GoalHandler
	Recommendations *handler.RecommendationHandler
}

// RegisterRecords registers the per-user endpoints under /records.  Every
// route requires a valid session and only ever touches rows owned by the
// caller.
func RegisterRecords(e *echo.Echo, h Records, g Guards) {
	r := e.Group("/records", g.Authenticate, g.Cache)

	r.GET("/profile/", h.Profile.Get)
	r.PATCH("/profile/", h.Profile.Patch)
	r.DELETE("/profile/", h.Profile.Delete)

	r.GET("/workouts/", h.Workouts.List)
	r.POST("/workouts/", h.Workouts.Create)
	r.GET("/workouts/:id", h.Workouts.Get)
	r.PATCH("/workouts/:id", h.Workouts.Patch)
	r.DELETE("/workouts/:id", h.Workouts.Delete)

	r.GET("/meals/", h.Meals.List)
	r.POST("/meals/", h.Meals.Create)
	r.GET("/meals/:id", h.Meals.Get)
	r.PATCH("/meals/:id", h.Meals.Patch)
	r.DELETE("/meals/:id", h.Meals.Delete)

	r.GET("/goals/", h.Goals.List)
	r.POST("/goals/", h.Goals.Create)
	r.GET("/goals/:id", h.Goals.Get)
	r.PATCH("/goals/:id", h.Goals.Patch)
	r.DELETE("/goals/:id", h.Goals.Delete)

	// Recommendations are read-only apart from deletion.  Single items are
	// reachable under both the singular and the plural prefix.
	r.GET("/recommendations/", h.Recommendations.List)
	r.GET("/recommendations/:id", h.Recommendations.Get)
	r.DELETE("/recommendations/:id", h.Recommendations.Delete)
	r.GET("/recommendation/:id", h.Recommendations.Get)
	r.DELETE("/recommendation/:id", h.Recommendations.Delete)
}
