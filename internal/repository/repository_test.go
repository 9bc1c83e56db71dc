package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/fitness-records/internal/model"
	"github.com/iliyamo/fitness-records/internal/utils"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return db, mock
}

func q(s string) string { return regexp.QuoteMeta(s) }

var day = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

func TestUserRepoCreate(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepo(db)
	a := model.Account{Username: "alice", Forename: "Alice", Surname: "Smith", Age: 30, Height: 170, Weight: 65.5}

	mock.ExpectExec(q("INSERT INTO Users (Username, Password, Forename, Surname, Age, Height, Weight) VALUES (?,?,?,?,?,?,?)")).
		WithArgs("alice", "hash", "Alice", "Smith", 30, 170.0, 65.5).
		WillReturnResult(sqlmock.NewResult(12, 1))

	id, err := repo.Create(context.Background(), a, "hash")
	require.NoError(t, err)
	assert.Equal(t, uint64(12), id)
}

func TestUserRepoCreateDuplicate(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec("INSERT INTO Users").
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'alice' for key 'Username'"})

	_, err := NewUserRepo(db).Create(context.Background(), model.Account{Username: "alice"}, "hash")
	assert.ErrorIs(t, err, ErrUsernameExists)
}

func TestUserRepoGetByUsername(t *testing.T) {
	db, mock := newMock(t)
	cols := []string{"UserID", "Username", "Password", "Forename", "Surname", "Age", "Height", "Weight", "Admin"}
	mock.ExpectQuery("SELECT (.+) FROM Users WHERE Username = \\?").
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows(cols).AddRow(3, "alice", "hash", "Alice", "Smith", 30, 170.0, 65.5, true))

	u, err := NewUserRepo(db).GetByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, model.User{ID: 3, Username: "alice", PasswordHash: "hash", Forename: "Alice", Surname: "Smith", Age: 30, Height: 170, Weight: 65.5, IsAdmin: true}, u)
}

func TestUserRepoGetByIDNotFound(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery("SELECT (.+) FROM Users WHERE UserID = \\?").
		WithArgs(uint64(9)).
		WillReturnError(sql.ErrNoRows)

	_, err := NewUserRepo(db).GetByID(context.Background(), 9)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserRepoIsAdminKeepsNoRows(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(q("SELECT Admin FROM Users WHERE UserID = ?")).
		WithArgs(uint64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"Admin"}))

	_, err := NewUserRepo(db).IsAdmin(context.Background(), 9)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestUserRepoUpdatePasswordNotFound(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec(q("UPDATE Users SET Password = ? WHERE UserID = ?")).
		WithArgs("hash", uint64(4)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := NewUserRepo(db).UpdatePassword(context.Background(), 4, "hash")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserRepoUpdateProfile(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec("UPDATE Users SET Forename").
		WithArgs("Al", "Smith", 31, 171.0, 66.0, uint64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := NewUserRepo(db).UpdateProfile(context.Background(), model.Profile{ID: 3, Forename: "Al", Surname: "Smith", Age: 31, Height: 171, Weight: 66})
	assert.NoError(t, err)
}

func TestUserRepoDeleteCascadeCommits(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT UserID FROM Users WHERE UserID = \\? FOR UPDATE").
		WithArgs(uint64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"UserID"}).AddRow(5))
	for _, table := range []string{"Workouts", "Meals", "FitnessGoals", "Recommendations", "Users"} {
		mock.ExpectExec(q("DELETE FROM " + table + " WHERE UserID = ?")).
			WithArgs(uint64(5)).
			WillReturnResult(sqlmock.NewResult(0, 1))
	}
	mock.ExpectCommit()

	assert.NoError(t, NewUserRepo(db).DeleteCascade(context.Background(), 5))
}

func TestUserRepoDeleteCascadeRollsBack(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT UserID FROM Users").
		WithArgs(uint64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"UserID"}).AddRow(5))
	mock.ExpectExec(q("DELETE FROM Workouts WHERE UserID = ?")).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(q("DELETE FROM Meals WHERE UserID = ?")).WillReturnError(errors.New("lock wait timeout"))
	mock.ExpectRollback()

	err := NewUserRepo(db).DeleteCascade(context.Background(), 5)
	assert.EqualError(t, err, "lock wait timeout")
}

func TestUserRepoDeleteCascadeUnknownUser(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT UserID FROM Users").
		WithArgs(uint64(5)).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	assert.ErrorIs(t, NewUserRepo(db).DeleteCascade(context.Background(), 5), ErrNotFound)
}

func TestWorkoutRepoListTrimsClock(t *testing.T) {
	db, mock := newMock(t)
	cols := []string{"WorkoutID", "Date", "Time", "WorkoutDescription", "Duration", "CaloriesBurnt", "UserID"}
	mock.ExpectQuery("SELECT (.+) FROM Workouts WHERE UserID = \\? ORDER BY WorkoutID").
		WithArgs(uint64(2)).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(1, day, "07:45:00", "run", 40, 400, 2).
			AddRow(2, day, "18:00", "swim", 30, 300, 2))

	ws, err := NewWorkoutRepo(db).ListByUser(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, ws, 2)
	assert.Equal(t, "07:45", ws[0].Time)
	assert.Equal(t, "18:00", ws[1].Time)
	assert.Equal(t, "swim", ws[1].Description)
}

func TestWorkoutRepoCreate(t *testing.T) {
	db, mock := newMock(t)
	w := &model.Workout{UserID: 2, Date: day, Time: "07:45", Description: "run", Duration: 40, CaloriesBurnt: 400}
	mock.ExpectExec("INSERT INTO Workouts").
		WithArgs("2025-03-10", "07:45", "run", 40, 400, uint64(2)).
		WillReturnResult(sqlmock.NewResult(8, 1))

	require.NoError(t, NewWorkoutRepo(db).Create(context.Background(), w))
	assert.Equal(t, uint64(8), w.ID)
}

func TestWorkoutRepoGetScopedToOwner(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery("SELECT (.+) FROM Workouts WHERE WorkoutID = \\? AND UserID = \\?").
		WithArgs(uint64(8), uint64(3)).
		WillReturnError(sql.ErrNoRows)

	_, err := NewWorkoutRepo(db).GetByIDAndUser(context.Background(), 8, 3)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestWorkoutRepoDeleteNotFound(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec(q("DELETE FROM Workouts WHERE WorkoutID = ? AND UserID = ?")).
		WithArgs(uint64(8), uint64(3)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, NewWorkoutRepo(db).DeleteByIDAndUser(context.Background(), 8, 3), ErrNotFound)
}

func TestMealRepoUpdate(t *testing.T) {
	db, mock := newMock(t)
	m := model.Meal{ID: 4, UserID: 2, Date: day, Time: "12:30", Description: "salad", Calories: 450, Protein: 20, Carbs: 30, Fats: 10}
	mock.ExpectExec("UPDATE Meals SET").
		WithArgs("2025-03-10", "12:30", "salad", 450.0, 20.0, 30.0, 10.0, uint64(4), uint64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, NewMealRepo(db).Update(context.Background(), m))
}

func TestMealRepoGet(t *testing.T) {
	db, mock := newMock(t)
	cols := []string{"MealID", "Date", "Time", "MealDescription", "Calories", "Protein", "Carbs", "Fats", "UserID"}
	mock.ExpectQuery("SELECT (.+) FROM Meals WHERE MealID = \\? AND UserID = \\?").
		WithArgs(uint64(4), uint64(2)).
		WillReturnRows(sqlmock.NewRows(cols).AddRow(4, day, "12:30:00", "salad", 450.0, 20.0, 30.0, 10.0, 2))

	m, err := NewMealRepo(db).GetByIDAndUser(context.Background(), 4, 2)
	require.NoError(t, err)
	assert.Equal(t, model.Meal{ID: 4, UserID: 2, Date: day, Time: "12:30", Description: "salad", Calories: 450, Protein: 20, Carbs: 30, Fats: 10}, m)
}

func TestGoalRepoCreate(t *testing.T) {
	db, mock := newMock(t)
	g := &model.Goal{UserID: 2, Description: "5k", StartDate: day, EndDate: day.AddDate(0, 1, 0), Status: model.GoalInProgress}
	mock.ExpectExec("INSERT INTO FitnessGoals").
		WithArgs("5k", "2025-03-10", "2025-04-10", "in progress", uint64(2)).
		WillReturnResult(sqlmock.NewResult(6, 1))

	require.NoError(t, NewGoalRepo(db).Create(context.Background(), g))
	assert.Equal(t, uint64(6), g.ID)
}

func TestGoalRepoListEmpty(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery("SELECT (.+) FROM FitnessGoals WHERE UserID = \\?").
		WithArgs(uint64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"GoalID", "GoalDescription", "StartDate", "EndDate", "Status", "UserID"}))

	gs, err := NewGoalRepo(db).ListByUser(context.Background(), 2)
	require.NoError(t, err)
	assert.Empty(t, gs)
}

func TestRecommendationRepoCreateAndDelete(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRecommendationRepo(db)
	rec := &model.Recommendation{UserID: 2, Description: "drink water"}

	mock.ExpectExec(q("INSERT INTO Recommendations (RecommendationDescription, UserID) VALUES (?, ?)")).
		WithArgs("drink water", uint64(2)).
		WillReturnResult(sqlmock.NewResult(11, 1))
	mock.ExpectExec(q("DELETE FROM Recommendations WHERE RecommendationID = ? AND UserID = ?")).
		WithArgs(uint64(11), uint64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Create(context.Background(), rec))
	assert.Equal(t, uint64(11), rec.ID)
	assert.NoError(t, repo.DeleteByIDAndUser(context.Background(), rec.ID, 2))
}

func TestRevokedTokenRepo(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRevokedTokenRepo(db)
	ctx := context.Background()
	exp := time.Date(2025, 3, 10, 13, 0, 0, 0, time.UTC)
	hash := utils.HashToken("tok")

	mock.ExpectExec("INSERT INTO RevokedTokens").
		WithArgs(hash, exp).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(q("SELECT 1 FROM RevokedTokens WHERE TokenHash = ? LIMIT 1")).
		WithArgs(hash).
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	mock.ExpectQuery(q("SELECT 1 FROM RevokedTokens WHERE TokenHash = ? LIMIT 1")).
		WithArgs(utils.HashToken("other")).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec(q("DELETE FROM RevokedTokens WHERE ExpiresAt <= ?")).
		WithArgs(exp).
		WillReturnResult(sqlmock.NewResult(0, 3))

	require.NoError(t, repo.Revoke(ctx, "tok", exp))
	ok, err := repo.IsRevoked(ctx, "tok")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = repo.IsRevoked(ctx, "other")
	require.NoError(t, err)
	assert.False(t, ok)
	n, err := repo.Prune(ctx, exp)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}
