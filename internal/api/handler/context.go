package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/coveradmin/insurance-portal/internal/api/middleware"
)

// ctxIdentity extracts the identity injected by the access guard and
// fast-fails before any further work: a non-empty role proves the guard ran
// and allowed the request.
func ctxIdentity(c echo.Context) (userID, email, role string, err error) {
	role, _ = c.Get(middleware.CtxRole).(string)
	if role == "" {
		return "", "", "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	userID, _ = c.Get(middleware.CtxUserID).(string)
	email, _ = c.Get(middleware.CtxEmail).(string)
	return userID, email, role, nil
}
