package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/coveradmin/insurance-portal/internal/api/middleware"
	"github.com/coveradmin/insurance-portal/internal/core/domain"
)

// Script-readable twins of the session cookies. They carry only the role —
// enough for a UI to render "logged in" state — never the token itself.
const (
	AdminIdentityCookie    = "authUser"
	CustomerIdentityCookie = "customer_user"
)

const cookieMaxAge = 86400 // 24h, matching the token lifetime

// SessionCookies materializes a session across its two channels: the
// httpOnly token cookie the guard verifies, and the script-readable
// identity cookie the UI reads. Each session tier (admin, customer) has its
// own independent pair.
type SessionCookies struct {
	secure bool
}

// NewSessionCookies builds the writer. Cookies are marked Secure outside
// local development.
func NewSessionCookies(env string) *SessionCookies {
	return &SessionCookies{secure: env != "development"}
}

// Write persists both channels for the principal's tier in one call. Callers
// must never write one channel without the other.
func (s *SessionCookies) Write(c echo.Context, tokenStr string, principal *domain.Principal) {
	tokenName, identityName := channelNames(principal.Role)

	c.SetCookie(s.cookie(tokenName, tokenStr, true, cookieMaxAge))
	c.SetCookie(s.cookie(identityName, principal.Role, false, cookieMaxAge))
}

// Clear expires every channel of both session tiers. Overwriting with an
// epoch expiry is the only way a server can delete a cookie.
func (s *SessionCookies) Clear(c echo.Context) {
	for _, name := range []string{
		middleware.AdminTokenCookie,
		AdminIdentityCookie,
		middleware.CustomerTokenCookie,
		CustomerIdentityCookie,
	} {
		expired := s.cookie(name, "", true, -1)
		expired.Expires = time.Unix(0, 0)
		c.SetCookie(expired)
	}
}

func (s *SessionCookies) cookie(name, value string, httpOnly bool, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: httpOnly,
		Secure:   s.secure,
		SameSite: http.SameSiteStrictMode,
	}
}

func channelNames(role string) (tokenName, identityName string) {
	if role == domain.RoleCustomer {
		return middleware.CustomerTokenCookie, CustomerIdentityCookie
	}
	return middleware.AdminTokenCookie, AdminIdentityCookie
}
