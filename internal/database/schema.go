package database

import (
	"context"
	"database/sql"
	"fmt"
)

// schema creates the tables the service reads and writes.  Statements are
// idempotent so Migrate can run on every boot.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS Users (
		UserID   INT UNSIGNED NOT NULL AUTO_INCREMENT,
		Username VARCHAR(30)  NOT NULL,
		Password VARCHAR(255) NOT NULL,
		Forename VARCHAR(30)  NOT NULL,
		Surname  VARCHAR(30)  NOT NULL,
		Age      INT          NOT NULL,
		Height   DOUBLE       NOT NULL,
		Weight   DOUBLE       NOT NULL,
		Admin    TINYINT(1)   NOT NULL DEFAULT 0,
		PRIMARY KEY (UserID),
		UNIQUE KEY uq_users_username (Username)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS Workouts (
		WorkoutID          INT UNSIGNED NOT NULL AUTO_INCREMENT,
		Date               DATE         NOT NULL,
		Time               TIME         NOT NULL,
		WorkoutDescription VARCHAR(200) NOT NULL,
		Duration           INT          NOT NULL,
		CaloriesBurnt      INT          NOT NULL,
		UserID             INT UNSIGNED NOT NULL,
		PRIMARY KEY (WorkoutID),
		KEY idx_workouts_user (UserID),
		CONSTRAINT fk_workouts_user FOREIGN KEY (UserID) REFERENCES Users (UserID)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS Meals (
		MealID          INT UNSIGNED NOT NULL AUTO_INCREMENT,
		Date            DATE         NOT NULL,
		Time            TIME         NOT NULL,
		MealDescription VARCHAR(200) NOT NULL,
		Calories        DOUBLE       NOT NULL,
		Protein         DOUBLE       NOT NULL,
		Carbs           DOUBLE       NOT NULL,
		Fats            DOUBLE       NOT NULL,
		UserID          INT UNSIGNED NOT NULL,
		PRIMARY KEY (MealID),
		KEY idx_meals_user (UserID),
		CONSTRAINT fk_meals_user FOREIGN KEY (UserID) REFERENCES Users (UserID)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS FitnessGoals (
		GoalID          INT UNSIGNED NOT NULL AUTO_INCREMENT,
		GoalDescription VARCHAR(200) NOT NULL,
		StartDate       DATE         NOT NULL,
		EndDate         DATE         NOT NULL,
		Status          VARCHAR(20)  NOT NULL,
		UserID          INT UNSIGNED NOT NULL,
		PRIMARY KEY (GoalID),
		KEY idx_goals_user (UserID),
		CONSTRAINT fk_goals_user FOREIGN KEY (UserID) REFERENCES Users (UserID)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS Recommendations (
		RecommendationID          INT UNSIGNED NOT NULL AUTO_INCREMENT,
		RecommendationDescription TEXT         NOT NULL,
		UserID                    INT UNSIGNED NOT NULL,
		PRIMARY KEY (RecommendationID),
		KEY idx_recommendations_user (UserID),
		CONSTRAINT fk_recommendations_user FOREIGN KEY (UserID) REFERENCES Users (UserID)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS RevokedTokens (
		TokenHash CHAR(64) NOT NULL,
		ExpiresAt DATETIME NOT NULL,
		RevokedAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (TokenHash),
		KEY idx_revoked_expires (ExpiresAt)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// Migrate creates any missing table.
func Migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate step %d: %w", i+1, err)
		}
	}
	return nil
}
