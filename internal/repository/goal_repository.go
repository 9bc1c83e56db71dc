package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/fitness-records/internal/model"
)

// GoalRepo stores fitness goals in the FitnessGoals table.
type GoalRepo struct{ DB *sql.DB }

func NewGoalRepo(db *sql.DB) *GoalRepo { return &GoalRepo{DB: db} }

const goalColumns = "GoalID, GoalDescription, StartDate, EndDate, Status, UserID"

func scanGoal(s rowScanner) (model.Goal, error) {
	var g model.Goal
	err := s.Scan(&g.ID, &g.Description, &g.StartDate, &g.EndDate, &g.Status, &g.UserID)
	return g, err
}

func (r *GoalRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Goal, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+goalColumns+" FROM FitnessGoals WHERE UserID = ? ORDER BY GoalID", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Goal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (r *GoalRepo) GetByIDAndUser(ctx context.Context, id, userID uint64) (model.Goal, error) {
	g, err := scanGoal(r.DB.QueryRowContext(ctx,
		"SELECT "+goalColumns+" FROM FitnessGoals WHERE GoalID = ? AND UserID = ?", id, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return g, ErrNotFound
	}
	return g, err
}

func (r *GoalRepo) Create(ctx context.Context, g *model.Goal) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO FitnessGoals (GoalDescription, StartDate, EndDate, Status, UserID) VALUES (?,?,?,?,?)",
		g.Description, g.StartDate.Format(dateLayout), g.EndDate.Format(dateLayout), g.Status, g.UserID)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	g.ID = uint64(id)
	return nil
}

func (r *GoalRepo) Update(ctx context.Context, g model.Goal) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE FitnessGoals SET GoalDescription = ?, StartDate = ?, EndDate = ?, Status = ? WHERE GoalID = ? AND UserID = ?",
		g.Description, g.StartDate.Format(dateLayout), g.EndDate.Format(dateLayout), g.Status, g.ID, g.UserID)
	if err != nil {
		return err
	}
	return affectedOrNotFound(res)
}

func (r *GoalRepo) DeleteByIDAndUser(ctx context.Context, id, userID uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM FitnessGoals WHERE GoalID = ? AND UserID = ?", id, userID)
	if err != nil {
		return err
	}
	return affectedOrNotFound(res)
}
