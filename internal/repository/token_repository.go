package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/fitness-records/internal/utils"
)

// RevokedTokenRepo is a revocation registry kept in the RevokedTokens table.
// Only the SHA-256 digest of a token is stored.  Rows are removed by Prune
// once the token they describe has expired.
type RevokedTokenRepo struct{ DB *sql.DB }

func NewRevokedTokenRepo(db *sql.DB) *RevokedTokenRepo { return &RevokedTokenRepo{DB: db} }

// Revoke records token until expiresAt.  Revoking twice keeps the later expiry.
func (r *RevokedTokenRepo) Revoke(ctx context.Context, token string, expiresAt time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO RevokedTokens (TokenHash, ExpiresAt) VALUES (?, ?) ON DUPLICATE KEY UPDATE ExpiresAt = GREATEST(ExpiresAt, VALUES(ExpiresAt))",
		utils.HashToken(token), expiresAt.UTC())
	return err
}

// IsRevoked reports whether a row exists for token.
func (r *RevokedTokenRepo) IsRevoked(ctx context.Context, token string) (bool, error) {
	var one int
	err := r.DB.QueryRowContext(ctx,
		"SELECT 1 FROM RevokedTokens WHERE TokenHash = ? LIMIT 1", utils.HashToken(token)).Scan(&one)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return false, nil
	case err != nil:
		return false, err
	}
	return true, nil
}

// Prune deletes revocations whose token expired before now.
func (r *RevokedTokenRepo) Prune(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM RevokedTokens WHERE ExpiresAt <= ?", now.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
