package httpserver

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/beauty_shop/pkg/domain"
	"github.com/Skotchmaster/beauty_shop/pkg/logging"
	"github.com/Skotchmaster/beauty_shop/services/storefront/internal/store"
)

type AccountHTTP struct{}

type signUpRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	FullName        string `json:"full_name"`
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type profileResponse struct {
	User     domain.User `json:"user"`
	FullName string      `json:"full_name"`
	IsAdmin  bool        `json:"is_admin"`
}

func profileOf(u domain.User) profileResponse {
	return profileResponse{User: u, FullName: u.FullName(), IsAdmin: u.IsAdmin()}
}

func (h *AccountHTTP) SignUp(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "account.sign_up")

	var req signUpRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "sign_up_error", "invalid body", err)
	}

	auth := sessionOf(c).Auth
	if err := auth.SignUp(ctx, req.Email, req.Password, req.ConfirmPassword, req.FullName); err != nil {
		return fail(l, "sign_up_failed", err)
	}

	u, _ := auth.User()
	l.Info("signed_up", "user_id", u.ID)
	return c.JSON(http.StatusCreated, profileOf(u))
}

func (h *AccountHTTP) SignIn(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "account.sign_in")

	var req signInRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "sign_in_error", "invalid body", err)
	}

	auth := sessionOf(c).Auth
	if err := auth.SignIn(ctx, req.Email, req.Password); err != nil {
		return fail(l, "sign_in_failed", err)
	}

	u, _ := auth.User()
	return c.JSON(http.StatusOK, profileOf(u))
}

func (h *AccountHTTP) SignOut(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "account.sign_out")

	if err := sessionOf(c).Auth.SignOut(ctx); err != nil {
		return fail(l, "sign_out_failed", err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AccountHTTP) Profile(c echo.Context) error {
	u, _ := sessionOf(c).Auth.User()
	return c.JSON(http.StatusOK, profileOf(u))
}

type detailsRequest struct {
	FullName string `json:"full_name"`
}

func (h *AccountHTTP) UpdateDetails(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "account.update_details")

	var req detailsRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "update_details_error", "invalid body", err)
	}
	name := strings.TrimSpace(req.FullName)
	if name == "" {
		return badRequest(l, "update_details_error", "full name required", nil)
	}

	u, err := sessionOf(c).Auth.UpdateUser(ctx, domain.UserAttributes{Data: map[string]any{domain.MetaFullName: name}})
	if err != nil {
		return fail(l, "update_details_failed", err)
	}
	return c.JSON(http.StatusOK, profileOf(u))
}

type passwordRequest struct {
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

func (h *AccountHTTP) UpdatePassword(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "account.update_password")

	var req passwordRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "update_password_error", "invalid body", err)
	}
	if err := store.ValidateNewPassword(req.Password, req.ConfirmPassword); err != nil {
		return fail(l, "update_password_failed", err)
	}

	if _, err := sessionOf(c).Auth.UpdateUser(ctx, domain.UserAttributes{Password: &req.Password}); err != nil {
		return fail(l, "update_password_failed", err)
	}
	return c.NoContent(http.StatusNoContent)
}
