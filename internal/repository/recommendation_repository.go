package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/fitness-records/internal/model"
)

// RecommendationRepo stores engine advisories.  Recommendations are created
// by the server, never by clients, so there is no update.
type RecommendationRepo struct{ DB *sql.DB }

func NewRecommendationRepo(db *sql.DB) *RecommendationRepo { return &RecommendationRepo{DB: db} }

const recommendationColumns = "RecommendationID, RecommendationDescription, UserID"

func scanRecommendation(s rowScanner) (model.Recommendation, error) {
	var rec model.Recommendation
	err := s.Scan(&rec.ID, &rec.Description, &rec.UserID)
	return rec, err
}

func (r *RecommendationRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Recommendation, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+recommendationColumns+" FROM Recommendations WHERE UserID = ? ORDER BY RecommendationID", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Recommendation
	for rows.Next() {
		rec, err := scanRecommendation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *RecommendationRepo) GetByIDAndUser(ctx context.Context, id, userID uint64) (model.Recommendation, error) {
	rec, err := scanRecommendation(r.DB.QueryRowContext(ctx,
		"SELECT "+recommendationColumns+" FROM Recommendations WHERE RecommendationID = ? AND UserID = ?", id, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return rec, ErrNotFound
	}
	return rec, err
}

// Create inserts rec and fills in its ID.
func (r *RecommendationRepo) Create(ctx context.Context, rec *model.Recommendation) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO Recommendations (RecommendationDescription, UserID) VALUES (?, ?)",
		rec.Description, rec.UserID)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rec.ID = uint64(id)
	return nil
}

func (r *RecommendationRepo) DeleteByIDAndUser(ctx context.Context, id, userID uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM Recommendations WHERE RecommendationID = ? AND UserID = ?", id, userID)
	if err != nil {
		return err
	}
	return affectedOrNotFound(res)
}
