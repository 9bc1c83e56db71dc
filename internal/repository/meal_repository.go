package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/fitness-records/internal/model"
)

type MealRepo struct{ DB *sql.DB }

func NewMealRepo(db *sql.DB) *MealRepo { return &MealRepo{DB: db} }

const mealColumns = "MealID, Date, Time, MealDescription, Calories, Protein, Carbs, Fats, UserID"

func scanMeal(s rowScanner) (model.Meal, error) {
	var (
		m     model.Meal
		clock string
	)
	if err := s.Scan(&m.ID, &m.Date, &clock, &m.Description, &m.Calories, &m.Protein, &m.Carbs, &m.Fats, &m.UserID); err != nil {
		return m, err
	}
	m.Time = clockOf(clock)
	return m, nil
}

// ListByUser returns the caller's meals ordered by id.
func (r *MealRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Meal, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+mealColumns+" FROM Meals WHERE UserID = ? ORDER BY MealID", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Meal
	for rows.Next() {
		m, err := scanMeal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *MealRepo) GetByIDAndUser(ctx context.Context, id, userID uint64) (model.Meal, error) {
	m, err := scanMeal(r.DB.QueryRowContext(ctx,
		"SELECT "+mealColumns+" FROM Meals WHERE MealID = ? AND UserID = ?", id, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return m, ErrNotFound
	}
	return m, err
}

// Create inserts m and fills in its ID.
func (r *MealRepo) Create(ctx context.Context, m *model.Meal) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO Meals (Date, Time, MealDescription, Calories, Protein, Carbs, Fats, UserID) VALUES (?,?,?,?,?,?,?,?)",
		m.Date.Format(dateLayout), m.Time, m.Description, m.Calories, m.Protein, m.Carbs, m.Fats, m.UserID)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = uint64(id)
	return nil
}

func (r *MealRepo) Update(ctx context.Context, m model.Meal) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE Meals SET Date = ?, Time = ?, MealDescription = ?, Calories = ?, Protein = ?, Carbs = ?, Fats = ? WHERE MealID = ? AND UserID = ?",
		m.Date.Format(dateLayout), m.Time, m.Description, m.Calories, m.Protein, m.Carbs, m.Fats, m.ID, m.UserID)
	if err != nil {
		return err
	}
	return affectedOrNotFound(res)
}

func (r *MealRepo) DeleteByIDAndUser(ctx context.Context, id, userID uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM Meals WHERE MealID = ? AND UserID = ?", id, userID)
	if err != nil {
		return err
	}
	return affectedOrNotFound(res)
}
