package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/fitness-records/internal/model"
	"github.com/iliyamo/fitness-records/internal/recommend"
	"github.com/iliyamo/fitness-records/internal/repository"
	"github.com/iliyamo/fitness-records/internal/service"
)

// MealHandler serves the caller's meals.
type MealHandler struct {
	Meals   *repository.MealRepo
	Advisor *service.Advisor
	Log     logrus.FieldLogger
}

func NewMealHandler(m *repository.MealRepo, a *service.Advisor, log logrus.FieldLogger) *MealHandler {
	return &MealHandler{Meals: m, Advisor: a, Log: log}
}

func (h *MealHandler) List(c echo.Context) error {
	s, err := session(c)
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	rows, err := h.Meals.ListByUser(ctx, s.UserID)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return respond(c, http.StatusNotFound, false, noDataMessage, nil)
	}
	return read(c, views(rows, model.Meal.View))
}

func (h *MealHandler) Get(c echo.Context) error {
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

	m, err := h.Meals.GetByIDAndUser(ctx, id, s.UserID)
	if err != nil {
		return err
	}
	return read(c, m.View())
}

// Create stores the meal and, when a rule fires, the advisory for it.
func (h *MealHandler) Create(c echo.Context) error {
	s, err := session(c)
	if err != nil {
		return err
	}
	var in model.MealInput
	if err := bind(c, &in); err != nil {
		return err
	}
	m, err := model.NewMeal(0, s.UserID, in)
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.Meals.Create(ctx, &m); err != nil {
		return err
	}
	if _, _, err := h.Advisor.Record(ctx, s.UserID, model.SourceMeal, m.ID, recommend.ForMeal(m)); err != nil {
		h.Log.WithError(err).WithFields(logrus.Fields{"user_id": s.UserID, "meal_id": m.ID}).Error("store meal recommendation")
	}
	return created(c, "", m.View())
}

func (h *MealHandler) Patch(c echo.Context) error {
	s, err := session(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var in model.MealInput
	if err := bind(c, &in); err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	current, err := h.Meals.GetByIDAndUser(ctx, id, s.UserID)
	if err != nil {
		return err
	}
	m, err := model.NewMeal(id, s.UserID, in.Merge(current))
	if err != nil {
		return err
	}
	if err := h.Meals.Update(ctx, m); err != nil {
		return err
	}
	return done(c, "", m.View())
}

func (h *MealHandler) Delete(c echo.Context) error {
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

	if err := h.Meals.DeleteByIDAndUser(ctx, id, s.UserID); err != nil {
		return err
	}
	return done(c, fmt.Sprintf("Successfully deleted meal %d", id), nil)
}
