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

// WorkoutHandler serves the caller's workouts.
type WorkoutHandler struct {
	Workouts *repository.WorkoutRepo
	Advisor  *service.Advisor
	Log      logrus.FieldLogger
}

func NewWorkoutHandler(w *repository.WorkoutRepo, a *service.Advisor, log logrus.FieldLogger) *WorkoutHandler {
	return &WorkoutHandler{Workouts: w, Advisor: a, Log: log}
}

func (h *WorkoutHandler) List(c echo.Context) error {
	s, err := session(c)
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	rows, err := h.Workouts.ListByUser(ctx, s.UserID)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return respond(c, http.StatusNotFound, false, noDataMessage, nil)
	}
	return read(c, views(rows, model.Workout.View))
}

func (h *WorkoutHandler) Get(c echo.Context) error {
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

	w, err := h.Workouts.GetByIDAndUser(ctx, id, s.UserID)
	if err != nil {
		return err
	}
	return read(c, w.View())
}

// Create stores the workout and, when a rule fires, the advisory for it.
// The advisory is best effort: the workout is kept even if storing it fails.
func (h *WorkoutHandler) Create(c echo.Context) error {
	s, err := session(c)
	if err != nil {
		return err
	}
	var in model.WorkoutInput
	if err := bind(c, &in); err != nil {
		return err
	}
	w, err := model.NewWorkout(0, s.UserID, in)
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.Workouts.Create(ctx, &w); err != nil {
		return err
	}
	if _, _, err := h.Advisor.Record(ctx, s.UserID, model.SourceWorkout, w.ID, recommend.ForWorkout(w)); err != nil {
		h.Log.WithError(err).WithFields(logrus.Fields{"user_id": s.UserID, "workout_id": w.ID}).Error("store workout recommendation")
	}
	return created(c, "", w.View())
}

func (h *WorkoutHandler) Patch(c echo.Context) error {
	s, err := session(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var in model.WorkoutInput
	if err := bind(c, &in); err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	current, err := h.Workouts.GetByIDAndUser(ctx, id, s.UserID)
	if err != nil {
		return err
	}
	w, err := model.NewWorkout(id, s.UserID, in.Merge(current))
	if err != nil {
		return err
	}
	if err := h.Workouts.Update(ctx, w); err != nil {
		return err
	}
	return done(c, "", w.View())
}

func (h *WorkoutHandler) Delete(c echo.Context) error {
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

	if err := h.Workouts.DeleteByIDAndUser(ctx, id, s.UserID); err != nil {
		return err
	}
	return done(c, fmt.Sprintf("Successfully deleted workout %d", id), nil)
}
