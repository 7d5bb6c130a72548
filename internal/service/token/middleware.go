package token

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dokkan/bookstore/internal/models"
)

func (t *TokenService) refreshCookies(c echo.Context, access, refresh string) {
	c.SetCookie(CreateCookie("accessToken", access, "/", time.Now().Add(AccessTTL)))
	c.SetCookie(CreateCookie("refreshToken", refresh, "/", time.Now().Add(RefreshTTL)))
}

// RequireLogin rejects anonymous requests and transparently rotates an
// expired access token when a valid refresh token is present.
func (t *TokenService) RequireLogin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		newAccess, newRefresh, _, err := t.CheckCookie(c)
		if err != nil {
			return err
		}
		if newRefresh != "" {
			t.refreshCookies(c, newAccess, newRefresh)
		}
		return next(c)
	}
}

// RequireAdmin is the single authorization gate for the admin surfaces.
func (t *TokenService) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		newAccess, newRefresh, role, err := t.CheckCookie(c)
		if err != nil {
			return err
		}
		if role != models.RoleAdmin {
			return echo.NewHTTPError(http.StatusForbidden, "Forbidden")
		}
		if newRefresh != "" {
			t.refreshCookies(c, newAccess, newRefresh)
		}
		return next(c)
	}
}

// OptionalAuth attaches the user to the context when a valid session exists
// and lets anonymous requests pass through untouched. Checkout uses this so
// guests can order.
func (t *TokenService) OptionalAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		newAccess, newRefresh, _, err := t.CheckCookie(c)
		if err == nil && newRefresh != "" {
			t.refreshCookies(c, newAccess, newRefresh)
		}
		return next(c)
	}
}
