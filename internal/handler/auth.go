package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/fitness-records/internal/auth"
	"github.com/iliyamo/fitness-records/internal/metrics"
	"github.com/iliyamo/fitness-records/internal/model"
	"github.com/iliyamo/fitness-records/internal/repository"
	"github.com/iliyamo/fitness-records/internal/utils"
)

// AuthHandler bundles dependencies for the account endpoints.
type AuthHandler struct {
	Users   *repository.UserRepo
	Tokens  *auth.Issuer
	Revoked auth.RevocationRegistry
	Hasher  utils.PasswordHasher
}

func NewAuthHandler(u *repository.UserRepo, tokens *auth.Issuer, revoked auth.RevocationRegistry, hasher utils.PasswordHasher) *AuthHandler {
	return &AuthHandler{Users: u, Tokens: tokens, Revoked: revoked, Hasher: hasher}
}

// ----- DTOs -----

// json matching is case-insensitive, so "username" and "Username" both land
// here.
type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type resetReq struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type loginResp struct {
	Token string            `json:"token" xml:"token"`
	User  model.AccountView `json:"user" xml:"user"`
}

// Register validates the account, stores it with a hashed password and
// returns the public view.
func (h *AuthHandler) Register(c echo.Context) error {
	var in model.AccountInput
	if err := bind(c, &in); err != nil {
		return err
	}
	acct, err := model.NewAccount(in)
	if err != nil {
		return err
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	hash, err := h.Hasher.Hash(acct.Password)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Error registering user").SetInternal(err)
	}
	id, err := h.Users.Create(ctx, acct, hash)
	if err != nil {
		if errors.Is(err, repository.ErrUsernameExists) {
			return echo.NewHTTPError(http.StatusConflict, "Username already exists")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Error registering user").SetInternal(err)
	}
	acct.ID = id
	return created(c, "User registered successfully", acct.View())
}

// Login checks the credentials and issues a session token.  Unknown users and
// wrong passwords get the same answer.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := bind(c, &req); err != nil {
		return err
	}
	if req.Username == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Username and Password are required")
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	u, err := h.Users.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid credentials")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Error during login").SetInternal(err)
	}
	if !h.Hasher.Verify(u.PasswordHash, req.Password) {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid credentials")
	}

	tok, err := h.Tokens.Issue(auth.Identity{UserID: u.ID, Username: u.Username})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Error during login").SetInternal(err)
	}
	return done(c, "Login successful", loginResp{Token: tok.Raw, User: u.AccountView()})
}

// Logout revokes the token the request was authenticated with.
func (h *AuthHandler) Logout(c echo.Context) error {
	s, err := session(c)
	if err != nil {
		return err
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.Revoked.Revoke(ctx, s.Token, s.ExpiresAt); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Error logging out user").SetInternal(err)
	}
	metrics.RecordRevocation()
	return done(c, "User logged out successfully", nil)
}

// ResetPassword changes the caller's password after checking the current one.
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	s, err := session(c)
	if err != nil {
		return err
	}
	var req resetReq
	if err := bind(c, &req); err != nil {
		return err
	}
	if req.CurrentPassword == "" || req.NewPassword == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Current and new passwords are required")
	}
	if err := model.ValidatePassword(req.NewPassword); err != nil {
		return err
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	u, err := h.Users.GetByID(ctx, s.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Error resetting password").SetInternal(err)
	}
	if !h.Hasher.Verify(u.PasswordHash, req.CurrentPassword) {
		return echo.NewHTTPError(http.StatusUnauthorized, "Current password is incorrect")
	}
	hash, err := h.Hasher.Hash(req.NewPassword)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Error resetting password").SetInternal(err)
	}
	if err := h.Users.UpdatePassword(ctx, u.ID, hash); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Error resetting password").SetInternal(err)
	}
	return done(c, "Password updated successfully", nil)
}
