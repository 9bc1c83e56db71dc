package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/fitness-records/internal/model"
	"github.com/iliyamo/fitness-records/internal/repository"
)

// GoalHandler serves the caller's goals.
type GoalHandler struct {
	Goals *repository.GoalRepo
}

func NewGoalHandler(g *repository.GoalRepo) *GoalHandler {
	return &GoalHandler{Goals: g}
}

func (h *GoalHandler) List(c echo.Context) error {
	s, err := session(c)
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	rows, err := h.Goals.ListByUser(ctx, s.UserID)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return respond(c, http.StatusNotFound, false, noDataMessage, nil)
	}
	return read(c, views(rows, model.Goal.View))
}

func (h *GoalHandler) Get(c echo.Context) error {
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

	g, err := h.Goals.GetByIDAndUser(ctx, id, s.UserID)
	if err != nil {
		return err
	}
	return read(c, g.View())
}

func (h *GoalHandler) Create(c echo.Context) error {
	s, err := session(c)
	if err != nil {
		return err
	}
	var in model.GoalInput
	if err := bind(c, &in); err != nil {
		return err
	}
	g, err := model.NewGoal(0, s.UserID, in)
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.Goals.Create(ctx, &g); err != nil {
		return err
	}
	return created(c, "", g.View())
}

func (h *GoalHandler) Patch(c echo.Context) error {
	s, err := session(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var in model.GoalInput
	if err := bind(c, &in); err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	current, err := h.Goals.GetByIDAndUser(ctx, id, s.UserID)
	if err != nil {
		return err
	}
	g, err := model.NewGoal(id, s.UserID, in.Merge(current))
	if err != nil {
		return err
	}
	if err := h.Goals.Update(ctx, g); err != nil {
		return err
	}
	return done(c, "", g.View())
}

func (h *GoalHandler) Delete(c echo.Context) error {
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

	if err := h.Goals.DeleteByIDAndUser(ctx, id, s.UserID); err != nil {
		return err
	}
	return done(c, fmt.Sprintf("Successfully deleted goal %d", id), nil)
}
