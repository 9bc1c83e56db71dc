// Package auth issues and verifies session tokens, tracks revoked tokens and
// decides whether a request may proceed.
package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	// ErrMissingIdentity is returned when an identity lacks a user id or
	// username, or when an admin check runs without an authenticated caller.
	ErrMissingIdentity = errors.New("identity is missing")
	// ErrInvalidToken covers bad signatures, foreign algorithms and
	// malformed claims.
	ErrInvalidToken = errors.New("invalid token")
	// ErrExpiredToken is returned once the exp claim has passed.
	ErrExpiredToken = errors.New("token has expired")
)

// Identity is what a session token vouches for.
type Identity struct {
	UserID   uint64
	Username string
}

// Token is a signed session token and the instant it stops being accepted.
type Token struct {
	Raw       string
	ExpiresAt time.Time
}

type sessionClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Issuer signs and verifies HS256 session tokens with a shared secret.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewIssuer returns an Issuer whose tokens live for ttl.
func NewIssuer(secret string, ttl time.Duration) *Issuer {
	return &Issuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// TTL reports the lifetime given to issued tokens.
func (i *Issuer) TTL() time.Duration { return i.ttl }

// Issue builds and signs a token for id.  The subject is the decimal user id
// and every token carries a random jti, so two logins in the same second
// still produce different tokens.
func (i *Issuer) Issue(id Identity) (Token, error) {
	if id.UserID == 0 || id.Username == "" {
		return Token{}, ErrMissingIdentity
	}
	now := i.now().UTC().Truncate(time.Second)
	exp := now.Add(i.ttl)
	claims := sessionClaims{
		Username: id.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(id.UserID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
			ID:        uuid.NewString(),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return Token{}, err
	}
	return Token{Raw: signed, ExpiresAt: exp}, nil
}

// Verify checks the signature and expiry of raw and returns the identity it
// carries together with its expiry.
func (i *Issuer) Verify(raw string) (Identity, time.Time, error) {
	var claims sessionClaims
	_, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Identity{}, time.Time{}, ErrExpiredToken
		}
		return Identity{}, time.Time{}, ErrInvalidToken
	}
	uid, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || uid == 0 || claims.Username == "" {
		return Identity{}, time.Time{}, ErrInvalidToken
	}
	return Identity{UserID: uid, Username: claims.Username}, claims.ExpiresAt.Time, nil
}
