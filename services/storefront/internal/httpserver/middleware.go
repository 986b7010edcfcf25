package httpserver

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/beauty_shop/pkg/backendclient"
	"github.com/Skotchmaster/beauty_shop/pkg/logging"
	"github.com/Skotchmaster/beauty_shop/services/storefront/internal/session"
)

const (
	HeaderWarning = "X-Storefront-Warning"
	HeaderCSRF    = "X-CSRF-Token"
	CookieCSRF    = "_csrf"
	sessionKey    = "session"
	cookieMaxAge  = 365 * 24 * time.Hour
)

// warningHeader marks every response while the backend is unconfigured.
func warningHeader(warning string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if warning != "" {
				c.Response().Header().Set(HeaderWarning, warning)
			}
			return next(c)
		}
	}
}

// csrf protects the cookie-identified device routes: unsafe methods must
// echo the _csrf cookie in the X-CSRF-Token header.
func csrf(secure bool) echo.MiddlewareFunc {
	return echomw.CSRFWithConfig(echomw.CSRFConfig{
		TokenLookup:    "header:" + HeaderCSRF,
		CookieName:     CookieCSRF,
		CookiePath:     "/",
		CookieMaxAge:   int((24 * time.Hour).Seconds()),
		CookieSecure:   secure,
		CookieSameSite: http.SameSiteLaxMode,
	})
}

// deviceSession resolves the device cookie, issuing a new device ID when it
// is missing, and waits for the device's initial auth state.
func deviceSession(reg *session.Registry, secure bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			l := logging.FromContext(ctx).With("middleware", "device_session")

			id := ""
			if ck, err := c.Cookie(session.CookieName); err == nil && session.ValidDeviceID(ck.Value) {
				id = ck.Value
			} else {
				id = session.NewDeviceID()
				c.SetCookie(&http.Cookie{
					Name:     session.CookieName,
					Value:    id,
					Path:     "/",
					MaxAge:   int(cookieMaxAge.Seconds()),
					HttpOnly: true,
					Secure:   secure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			s, err := reg.Get(ctx, id)
			if err != nil {
				return fail(l, "device_session_failed", err)
			}
			if err := s.Auth.Wait(ctx); err != nil {
				return fail(l, "device_session_failed", err)
			}

			c.Set(sessionKey, s)
			return next(c)
		}
	}
}

func sessionOf(c echo.Context) *session.Session {
	s, _ := c.Get(sessionKey).(*session.Session)
	return s
}

// requireUser rejects anonymous devices and attaches the user's bearer token
// to the request context for backend calls.
func requireUser(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		l := logging.FromContext(ctx).With("middleware", "require_user")

		s := sessionOf(c)
		if s == nil || s.Auth.Session() == nil {
			l.Warn("unauthorized", "status", http.StatusUnauthorized, "reason", "not signed in")
			return echo.NewHTTPError(http.StatusUnauthorized, "sign in required")
		}

		tok, err := s.Auth.AccessToken(ctx)
		if err != nil {
			return fail(l, "access_token_failed", err)
		}
		if tok == "" {
			l.Warn("unauthorized", "status", http.StatusUnauthorized, "reason", "session expired")
			return echo.NewHTTPError(http.StatusUnauthorized, "session expired, sign in again")
		}
		c.SetRequest(c.Request().WithContext(backendclient.WithAccessToken(ctx, tok)))
		return next(c)
	}
}

// requireAdmin runs after requireUser.
func requireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		u, ok := sessionOf(c).Auth.User()
		if !ok || !u.IsAdmin() {
			logging.FromContext(c.Request().Context()).Warn("forbidden", "status", http.StatusForbidden, "reason", "admin only")
			return echo.NewHTTPError(http.StatusForbidden, "admin only")
		}
		return next(c)
	}
}

// optionalUser attaches a bearer token when the device is signed in.
func optionalUser(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		s := sessionOf(c)
		if s != nil && s.Auth.Session() != nil {
			ctx := c.Request().Context()
			if tok, err := s.Auth.AccessToken(ctx); err == nil && tok != "" {
				c.SetRequest(c.Request().WithContext(backendclient.WithAccessToken(ctx, tok)))
			}
		}
		return next(c)
	}
}
