package auth

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/iliyamo/fitness-records/internal/metrics"
)

// Authentication outcomes.  The first three map to 401, a failed revocation
// lookup is a server fault.
var (
	ErrAuthenticationRequired = errors.New("authentication required")
	ErrTokenRevoked           = errors.New("token has been revoked")
	ErrInvalidOrExpiredToken  = errors.New("invalid or expired token")
	ErrRevocationCheckFailed  = errors.New("revocation check failed")
)

// Authorization outcomes for admin-only routes.
var (
	ErrUserNotFound             = errors.New("user not found")
	ErrNotAuthorized            = errors.New("not authorized")
	ErrAuthorizationCheckFailed = errors.New("authorization check failed")
)

// TokenVerifier is the part of Issuer the gate depends on.
type TokenVerifier interface {
	Verify(raw string) (Identity, time.Time, error)
}

// PrivilegeStore answers whether a user currently holds the admin flag.
// Implementations return sql.ErrNoRows when the user does not exist.
type PrivilegeStore interface {
	IsAdmin(ctx context.Context, userID uint64) (bool, error)
}

// Session is the result of a successful authentication: the identity the
// token vouches for plus the token itself, kept so logout can revoke it.
type Session struct {
	Identity
	Token     string
	ExpiresAt time.Time
}

// Gate admits or rejects requests.
type Gate struct {
	Tokens     TokenVerifier
	Revoked    RevocationRegistry
	Privileges PrivilegeStore
}

// BearerToken extracts the token from an Authorization header value.  It
// returns "" unless the header reads "Bearer <token>".
func BearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// Authenticate checks an Authorization header.  Checks run in a fixed order:
// a missing token, then a revoked token, then a token that fails
// verification.  A revoked token is reported as revoked even when it has
// also expired.
func (g *Gate) Authenticate(ctx context.Context, header string) (Session, error) {
	raw := BearerToken(header)
	if raw == "" {
		metrics.RecordAuthDecision("authenticate", "missing")
		return Session{}, ErrAuthenticationRequired
	}
	revoked, err := g.Revoked.IsRevoked(ctx, raw)
	if err != nil {
		metrics.RecordAuthDecision("authenticate", "error")
		return Session{}, errors.Join(ErrRevocationCheckFailed, err)
	}
	if revoked {
		metrics.RecordAuthDecision("authenticate", "revoked")
		return Session{}, ErrTokenRevoked
	}
	id, exp, err := g.Tokens.Verify(raw)
	if err != nil {
		metrics.RecordAuthDecision("authenticate", "invalid")
		return Session{}, ErrInvalidOrExpiredToken
	}
	metrics.RecordAuthDecision("authenticate", "allowed")
	return Session{Identity: id, Token: raw, ExpiresAt: exp}, nil
}

// AuthorizeAdmin reads the caller's admin flag from the store on every call,
// so a revoked privilege takes effect on the next request.
func (g *Gate) AuthorizeAdmin(ctx context.Context, id *Identity) error {
	if id == nil || id.UserID == 0 {
		metrics.RecordAuthDecision("admin", "missing")
		return ErrMissingIdentity
	}
	ok, err := g.Privileges.IsAdmin(ctx, id.UserID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		metrics.RecordAuthDecision("admin", "unknown_user")
		return ErrUserNotFound
	case err != nil:
		metrics.RecordAuthDecision("admin", "error")
		return errors.Join(ErrAuthorizationCheckFailed, err)
	case !ok:
		metrics.RecordAuthDecision("admin", "denied")
		return ErrNotAuthorized
	}
	metrics.RecordAuthDecision("admin", "allowed")
	return nil
}
