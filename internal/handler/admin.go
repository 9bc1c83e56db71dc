package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/fitness-records/internal/middleware"
	"github.com/iliyamo/fitness-records/internal/model"
	"github.com/iliyamo/fitness-records/internal/repository"
	"github.com/iliyamo/fitness-records/internal/utils"
)

// AdminHandler serves the admin-only account routes.  The router places it
// behind Authenticate and RequireAdmin.
type AdminHandler struct {
	Users  *repository.UserRepo
	Hasher utils.PasswordHasher
}

func NewAdminHandler(u *repository.UserRepo, hasher utils.PasswordHasher) *AdminHandler {
	return &AdminHandler{Users: u, Hasher: hasher}
}

// ----- DTOs -----

type adminResetReq struct {
	NewPassword string `json:"NewPassword"`
}

// ListProfiles returns every user's profile.
func (h *AdminHandler) ListProfiles(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	users, err := h.Users.List(ctx)
	if err != nil {
		return err
	}
	if len(users) == 0 {
		return respond(c, http.StatusNotFound, false, noDataMessage, nil)
	}
	return read(c, views(users, func(u model.User) model.ProfileView { return u.Profile().View() }))
}

// GetProfile returns one user's profile.
func (h *AdminHandler) GetProfile(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return read(c, u.Profile().View())
}

// ResetPassword sets a new password for any user without knowing the
// current one.
func (h *AdminHandler) ResetPassword(c echo.Context) error {
	var req adminResetReq
	if err := bind(c, &req); err != nil {
		return err
	}
	if req.NewPassword == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "New password is required")
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := model.ValidatePassword(req.NewPassword); err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	hash, err := h.Hasher.Hash(req.NewPassword)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Error resetting password").SetInternal(err)
	}
	if err := h.Users.UpdatePassword(ctx, id, hash); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Error resetting password").SetInternal(err)
	}
	return done(c, "Password updated successfully", nil)
}

// DeleteProfile removes a user and everything they own.
func (h *AdminHandler) DeleteProfile(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.Users.DeleteCascade(ctx, id); err != nil {
		return err
	}
	middleware.MarkStale(c, id)
	return done(c, "Successfully deleted user", nil)
}
