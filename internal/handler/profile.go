package handler

import (
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/fitness-records/internal/auth"
	"github.com/iliyamo/fitness-records/internal/metrics"
	"github.com/iliyamo/fitness-records/internal/model"
	"github.com/iliyamo/fitness-records/internal/repository"
)

// ProfileHandler serves the caller's own profile.
type ProfileHandler struct {
	Users   *repository.UserRepo
	Revoked auth.RevocationRegistry
	Log     logrus.FieldLogger
}

func NewProfileHandler(u *repository.UserRepo, revoked auth.RevocationRegistry, log logrus.FieldLogger) *ProfileHandler {
	return &ProfileHandler{Users: u, Revoked: revoked, Log: log}
}

// Get returns the caller's profile.
func (h *ProfileHandler) Get(c echo.Context) error {
	s, err := session(c)
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	u, err := h.Users.GetByID(ctx, s.UserID)
	if err != nil {
		return err
	}
	return read(c, u.Profile().View())
}

// Patch merges the body over the stored profile and saves the result.
func (h *ProfileHandler) Patch(c echo.Context) error {
	s, err := session(c)
	if err != nil {
		return err
	}
	var in model.ProfileInput
	if err := bind(c, &in); err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	u, err := h.Users.GetByID(ctx, s.UserID)
	if err != nil {
		return err
	}
	p, err := model.NewProfile(u.ID, in.Merge(u.Profile()))
	if err != nil {
		return err
	}
	if err := h.Users.UpdateProfile(ctx, p); err != nil {
		return err
	}
	return done(c, "", p.View())
}

// Delete removes the caller and everything they own, then logs them out.
func (h *ProfileHandler) Delete(c echo.Context) error {
	s, err := session(c)
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.Users.DeleteCascade(ctx, s.UserID); err != nil {
		return err
	}
	// The account is gone either way; a failed revocation only leaves a
	// token that now resolves to no user.
	if err := h.Revoked.Revoke(ctx, s.Token, s.ExpiresAt); err != nil {
		h.Log.WithError(err).WithField("user_id", s.UserID).Error("revoke token after account deletion")
	} else {
		metrics.RecordRevocation()
	}
	return done(c, "Successfully deleted user and logged out", nil)
}
