package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/fitness-records/internal/model"
)

// UserRepo is the credential store: it owns the Users table and the cascade
// that removes a user together with everything they logged.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = "UserID, Username, Password, Forename, Surname, Age, Height, Weight, Admin"

func scanUser(s rowScanner) (model.User, error) {
	var u model.User
	err := s.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Forename, &u.Surname, &u.Age, &u.Height, &u.Weight, &u.IsAdmin)
	return u, err
}

// Create inserts a validated account with an already hashed password and
// returns its ID.
func (r *UserRepo) Create(ctx context.Context, a model.Account, passwordHash string) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO Users (Username, Password, Forename, Surname, Age, Height, Weight) VALUES (?,?,?,?,?,?,?)",
		a.Username, passwordHash, a.Forename, a.Surname, a.Age, a.Height, a.Weight)
	if err != nil {
		if isDuplicate(err) {
			return 0, ErrUsernameExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByUsername fetches a user for login.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (model.User, error) {
	u, err := scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM Users WHERE Username = ? LIMIT 1", username))
	if errors.Is(err, sql.ErrNoRows) {
		return u, ErrNotFound
	}
	return u, err
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	u, err := scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM Users WHERE UserID = ? LIMIT 1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return u, ErrNotFound
	}
	return u, err
}

// List returns every user ordered by id.
func (r *UserRepo) List(ctx context.Context) ([]model.User, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT "+userColumns+" FROM Users ORDER BY UserID")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// IsAdmin reads the privilege flag.  It returns sql.ErrNoRows for an
// unknown user, as the admin gate expects.
func (r *UserRepo) IsAdmin(ctx context.Context, id uint64) (bool, error) {
	var admin bool
	err := r.DB.QueryRowContext(ctx, "SELECT Admin FROM Users WHERE UserID = ?", id).Scan(&admin)
	return admin, err
}

// UpdateProfile overwrites the editable profile columns.
func (r *UserRepo) UpdateProfile(ctx context.Context, p model.Profile) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE Users SET Forename = ?, Surname = ?, Age = ?, Height = ?, Weight = ? WHERE UserID = ?",
		p.Forename, p.Surname, p.Age, p.Height, p.Weight, p.ID)
	if err != nil {
		return err
	}
	return affectedOrNotFound(res)
}

// UpdatePassword stores a new password hash.
func (r *UserRepo) UpdatePassword(ctx context.Context, id uint64, passwordHash string) error {
	res, err := r.DB.ExecContext(ctx, "UPDATE Users SET Password = ? WHERE UserID = ?", passwordHash, id)
	if err != nil {
		return err
	}
	return affectedOrNotFound(res)
}

// DeleteCascade removes a user and every workout, meal, goal and
// recommendation they own.  All statements run in one transaction; a failure
// at any step leaves the data untouched.
func (r *UserRepo) DeleteCascade(ctx context.Context, id uint64) (err error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var found uint64
	if err = tx.QueryRowContext(ctx, "SELECT UserID FROM Users WHERE UserID = ? FOR UPDATE", id).Scan(&found); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = ErrNotFound
		}
		return err
	}
	for _, q := range []string{
		"DELETE FROM Workouts WHERE UserID = ?",
		"DELETE FROM Meals WHERE UserID = ?",
		"DELETE FROM FitnessGoals WHERE UserID = ?",
		"DELETE FROM Recommendations WHERE UserID = ?",
		"DELETE FROM Users WHERE UserID = ?",
	} {
		if _, err = tx.ExecContext(ctx, q, id); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func affectedOrNotFound(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
