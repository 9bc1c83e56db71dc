package auth

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingRegistry struct{ err error }

func (f failingRegistry) Revoke(context.Context, string, time.Time) error { return f.err }
func (f failingRegistry) IsRevoked(context.Context, string) (bool, error) { return false, f.err }

type privileges map[uint64]bool

func (p privileges) IsAdmin(_ context.Context, id uint64) (bool, error) {
	admin, ok := p[id]
	if !ok {
		return false, sql.ErrNoRows
	}
	return admin, nil
}

type brokenPrivileges struct{}

func (brokenPrivileges) IsAdmin(context.Context, uint64) (bool, error) {
	return false, errors.New("connection refused")
}

func newGate(t *testing.T) (*Gate, *Issuer) {
	t.Helper()
	iss := NewIssuer("s3cret", time.Hour)
	return &Gate{Tokens: iss, Revoked: NewMemoryRegistry(), Privileges: privileges{1: true, 2: false}}, iss
}

func TestBearerToken(t *testing.T) {
	assert.Equal(t, "abc", BearerToken("Bearer abc"))
	assert.Equal(t, "abc", BearerToken("bearer  abc "))
	assert.Empty(t, BearerToken(""))
	assert.Empty(t, BearerToken("Bearer"))
	assert.Empty(t, BearerToken("Bearer "))
	assert.Empty(t, BearerToken("Basic abc"))
}

func TestAuthenticateAllows(t *testing.T) {
	g, iss := newGate(t)
	tok, err := iss.Issue(Identity{UserID: 7, Username: "carol"})
	require.NoError(t, err)

	s, err := g.Authenticate(context.Background(), "Bearer "+tok.Raw)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), s.UserID)
	assert.Equal(t, "carol", s.Username)
	assert.Equal(t, tok.Raw, s.Token)
	assert.True(t, s.ExpiresAt.Equal(tok.ExpiresAt))
}

func TestAuthenticateMissing(t *testing.T) {
	g, _ := newGate(t)
	_, err := g.Authenticate(context.Background(), "")
	assert.ErrorIs(t, err, ErrAuthenticationRequired)
}

func TestAuthenticateRevoked(t *testing.T) {
	g, iss := newGate(t)
	ctx := context.Background()
	tok, err := iss.Issue(Identity{UserID: 7, Username: "carol"})
	require.NoError(t, err)
	require.NoError(t, g.Revoked.Revoke(ctx, tok.Raw, tok.ExpiresAt))

	_, err = g.Authenticate(ctx, "Bearer "+tok.Raw)
	assert.ErrorIs(t, err, ErrTokenRevoked)
}

func TestAuthenticateRevokedWinsOverExpired(t *testing.T) {
	g, iss := newGate(t)
	ctx := context.Background()
	at := time.Now().Add(-2 * time.Hour)
	iss.now = func() time.Time { return at }
	tok, err := iss.Issue(Identity{UserID: 7, Username: "carol"})
	require.NoError(t, err)
	iss.now = time.Now
	require.NoError(t, g.Revoked.Revoke(ctx, tok.Raw, time.Time{}))

	_, err = g.Authenticate(ctx, "Bearer "+tok.Raw)
	assert.ErrorIs(t, err, ErrTokenRevoked)
}

func TestAuthenticateInvalid(t *testing.T) {
	g, _ := newGate(t)
	_, err := g.Authenticate(context.Background(), "Bearer not-a-token")
	assert.ErrorIs(t, err, ErrInvalidOrExpiredToken)

	other, err := NewIssuer("other", time.Hour).Issue(Identity{UserID: 7, Username: "carol"})
	require.NoError(t, err)
	_, err = g.Authenticate(context.Background(), "Bearer "+other.Raw)
	assert.ErrorIs(t, err, ErrInvalidOrExpiredToken)
}

func TestAuthenticateRegistryFailureIsNotTrusted(t *testing.T) {
	g, iss := newGate(t)
	g.Revoked = failingRegistry{err: errors.New("redis down")}
	tok, err := iss.Issue(Identity{UserID: 7, Username: "carol"})
	require.NoError(t, err)

	_, err = g.Authenticate(context.Background(), "Bearer "+tok.Raw)
	assert.ErrorIs(t, err, ErrRevocationCheckFailed)
}

func TestAuthorizeAdmin(t *testing.T) {
	g, _ := newGate(t)
	ctx := context.Background()

	assert.NoError(t, g.AuthorizeAdmin(ctx, &Identity{UserID: 1, Username: "root"}))
	assert.ErrorIs(t, g.AuthorizeAdmin(ctx, &Identity{UserID: 2, Username: "dave"}), ErrNotAuthorized)
	assert.ErrorIs(t, g.AuthorizeAdmin(ctx, &Identity{UserID: 99, Username: "ghost"}), ErrUserNotFound)
	assert.ErrorIs(t, g.AuthorizeAdmin(ctx, nil), ErrMissingIdentity)

	g.Privileges = brokenPrivileges{}
	assert.ErrorIs(t, g.AuthorizeAdmin(ctx, &Identity{UserID: 1, Username: "root"}), ErrAuthorizationCheckFailed)
}

func TestAuthorizeAdminReadsPrivilegeEachTime(t *testing.T) {
	g, _ := newGate(t)
	ctx := context.Background()
	store := privileges{5: true}
	g.Privileges = store

	id := &Identity{UserID: 5, Username: "erin"}
	require.NoError(t, g.AuthorizeAdmin(ctx, id))
	store[5] = false
	assert.ErrorIs(t, g.AuthorizeAdmin(ctx, id), ErrNotAuthorized)
}
