package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/fitness-records/internal/model"
	"github.com/iliyamo/fitness-records/internal/repository"
)

// RecommendationHandler serves the advisories stored for the caller.  They
// are created as a side effect of logging meals and workouts, so there is no
// create or update route.
type RecommendationHandler struct {
	Recs *repository.RecommendationRepo
}

func NewRecommendationHandler(r *repository.RecommendationRepo) *RecommendationHandler {
	return &RecommendationHandler{Recs: r}
}

func (h *RecommendationHandler) List(c echo.Context) error {
	s, err := session(c)
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	rows, err := h.Recs.ListByUser(ctx, s.UserID)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return respond(c, http.StatusNotFound, false, noDataMessage, nil)
	}
	return read(c, views(rows, model.Recommendation.View))
}

func (h *RecommendationHandler) Get(c echo.Context) error {
	s, err := session(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	r, err := h.Recs.GetByIDAndUser(ctx, id, s.UserID)
	if err != nil {
		return err
	}
	return read(c, r.View())
}

func (h *RecommendationHandler) Delete(c echo.Context) error {
	s, err := session(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.Recs.DeleteByIDAndUser(ctx, id, s.UserID); err != nil {
		return err
	}
	return done(c, fmt.Sprintf("Successfully deleted recommendation %d", id), nil)
}
