package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/beauty_shop/pkg/domain"
	"github.com/Skotchmaster/beauty_shop/pkg/logging"
	middleware "github.com/Skotchmaster/beauty_shop/pkg/middleware/auth"
	"github.com/Skotchmaster/beauty_shop/services/backend/internal/service"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

func (h *AuthHTTP) SignUp(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.signup")

	var req domain.SignUpRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("signup_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	session, err := h.Svc.SignUp(ctx, req)
	if err != nil {
		return fail(l, "signup_error", err)
	}
	return c.JSON(http.StatusOK, session)
}

// Token serves both the password and the refresh_token grants.
func (h *AuthHTTP) Token(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.token")

	grant := c.QueryParam("grant_type")
	switch grant {
	case "password":
		var req domain.SignInRequest
		if err := c.Bind(&req); err != nil {
			l.Warn("login_error", "status", 400, "reason", "invalid body", "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
		}
		session, err := h.Svc.SignIn(ctx, req.Email, req.Password)
		if err != nil {
			return fail(l, "login_failed", err)
		}
		l.Info("login_successful", "user_id", session.User.ID)
		return c.JSON(http.StatusOK, session)

	case "refresh_token":
		var req domain.RefreshRequest
		if err := c.Bind(&req); err != nil || req.RefreshToken == "" {
			l.Warn("refresh_error", "status", 400, "reason", "refresh token missing", "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, "refresh token missing")
		}
		session, err := h.Svc.Refresh(ctx, req.RefreshToken)
		if err != nil {
			return fail(l, "refresh_failed", err)
		}
		return c.JSON(http.StatusOK, session)
	}

	l.Warn("token_error", "status", 400, "reason", "unsupported grant_type", "grant_type", grant)
	return echo.NewHTTPError(http.StatusBadRequest, "unsupported grant_type")
}

func (h *AuthHTTP) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.logout")

	var req domain.RefreshRequest
	_ = c.Bind(&req)

	if err := h.Svc.Logout(ctx, middleware.UserID(c), req.RefreshToken); err != nil {
		l.Error("logout_failed", "status", 500, "reason", "cannot revoke refresh token", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot revoke refresh token")
	}

	l.Info("successful_logout")
	return c.NoContent(http.StatusNoContent)
}

func (h *AuthHTTP) GetUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.get_user")

	user, err := h.Svc.GetUser(ctx, middleware.UserID(c))
	if err != nil {
		return fail(l, "get_user_failed", err)
	}
	return c.JSON(http.StatusOK, user)
}

func (h *AuthHTTP) UpdateUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.update_user")

	var req domain.UserAttributes
	if err := c.Bind(&req); err != nil {
		l.Warn("update_user_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	user, err := h.Svc.UpdateUser(ctx, middleware.UserID(c), req)
	if err != nil {
		return fail(l, "update_user_failed", err)
	}

	l.Info("update_user_success", "password_changed", req.Password != nil)
	return c.JSON(http.StatusOK, user)
}
