package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/fitness-records/internal/model"
)

type WorkoutRepo struct{ DB *sql.DB }

func NewWorkoutRepo(db *sql.DB) *WorkoutRepo { return &WorkoutRepo{DB: db} }

const workoutColumns = "WorkoutID, Date, Time, WorkoutDescription, Duration, CaloriesBurnt, UserID"

func scanWorkout(s rowScanner) (model.Workout, error) {
	var (
		w     model.Workout
		clock string
	)
	if err := s.Scan(&w.ID, &w.Date, &clock, &w.Description, &w.Duration, &w.CaloriesBurnt, &w.UserID); err != nil {
		return w, err
	}
	w.Time = clockOf(clock)
	return w, nil
}

// ListByUser returns the caller's workouts ordered by id.
func (r *WorkoutRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Workout, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+workoutColumns+" FROM Workouts WHERE UserID = ? ORDER BY WorkoutID", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Workout
	for rows.Next() {
		w, err := scanWorkout(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

// GetByIDAndUser fetches one workout owned by userID.
func (r *WorkoutRepo) GetByIDAndUser(ctx context.Context, id, userID uint64) (model.Workout, error) {
	w, err := scanWorkout(r.DB.QueryRowContext(ctx,
		"SELECT "+workoutColumns+" FROM Workouts WHERE WorkoutID = ? AND UserID = ?", id, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return w, ErrNotFound
	}
	return w, err
}

// Create inserts w and fills in its ID.
func (r *WorkoutRepo) Create(ctx context.Context, w *model.Workout) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO Workouts (Date, Time, WorkoutDescription, Duration, CaloriesBurnt, UserID) VALUES (?,?,?,?,?,?)",
		w.Date.Format(dateLayout), w.Time, w.Description, w.Duration, w.CaloriesBurnt, w.UserID)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	w.ID = uint64(id)
	return nil
}

// Update overwrites every column of a workout owned by w.UserID.
func (r *WorkoutRepo) Update(ctx context.Context, w model.Workout) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE Workouts SET Date = ?, Time = ?, WorkoutDescription = ?, Duration = ?, CaloriesBurnt = ? WHERE WorkoutID = ? AND UserID = ?",
		w.Date.Format(dateLayout), w.Time, w.Description, w.Duration, w.CaloriesBurnt, w.ID, w.UserID)
	if err != nil {
		return err
	}
	return affectedOrNotFound(res)
}

// DeleteByIDAndUser removes one workout owned by userID.
func (r *WorkoutRepo) DeleteByIDAndUser(ctx context.Context, id, userID uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM Workouts WHERE WorkoutID = ? AND UserID = ?", id, userID)
	if err != nil {
		return err
	}
	return affectedOrNotFound(res)
}
