package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/coveradmin/insurance-portal/internal/api/metrics"
	"github.com/coveradmin/insurance-portal/internal/api/middleware"
	"github.com/coveradmin/insurance-portal/internal/core/domain"
	"github.com/coveradmin/insurance-portal/internal/core/ports"
	"github.com/coveradmin/insurance-portal/internal/core/session"
	"github.com/coveradmin/insurance-portal/internal/core/token"
)

// AuthHandler serves login, logout, and session status.
type AuthHandler struct {
	authService ports.AuthService
	codec       *token.Codec
	cookies     *SessionCookies
	registry    *session.Registry
	coordinator *session.Coordinator
	audit       session.AuditQueue
	// baseCtx outlives individual requests; session monitors started at
	// login must not die with the login request's context.
	baseCtx context.Context
}

func NewAuthHandler(
	baseCtx context.Context,
	authService ports.AuthService,
	codec *token.Codec,
	cookies *SessionCookies,
	registry *session.Registry,
	coordinator *session.Coordinator,
	audit session.AuditQueue,
) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		codec:       codec,
		cookies:     cookies,
		registry:    registry,
		coordinator: coordinator,
		audit:       audit,
		baseCtx:     baseCtx,
	}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Message string            `json:"message"`
	User    *domain.Principal `json:"user"`
	Token   string            `json:"token"`
}

type sessionResponse struct {
	State            string `json:"state"`
	RemainingSeconds int    `json:"remaining_seconds"`
}

// Login authenticates a credential and establishes a session.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	signed, principal, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return h.loginFailure(c, req.Email, err)
	}

	h.cookies.Write(c, signed, principal)
	h.registry.Start(h.baseCtx, signed, func() {
		metrics.SessionsExpiredTotal.Inc()
		h.coordinator.Logout(h.baseCtx, signed, domain.AuditSessionExpired)
	})

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	h.enqueueAudit(domain.AuditLoginSuccess, principal.Email, principal.Role, c.RealIP(), "")

	return c.JSON(http.StatusOK, loginResponse{
		Message: "login successful",
		User:    principal,
		Token:   signed,
	})
}

func (h *AuthHandler) loginFailure(c echo.Context, email string, err error) error {
	switch err {
	case domain.ErrMissingCredentials:
		metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	case domain.ErrInvalidCredentials:
		metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
		h.enqueueAudit(domain.AuditLoginFailure, email, "", c.RealIP(), "invalid credentials")
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": err.Error()})
	case domain.ErrAccountDeactivated:
		metrics.LoginsTotal.WithLabelValues("deactivated").Inc()
		h.enqueueAudit(domain.AuditLoginFailure, email, "", c.RealIP(), "account deactivated")
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": err.Error()})
	default:
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return err // central error handler logs and renders a generic 500
	}
}

// Logout tears down every session present on the request: both cookie
// channels are expired unconditionally, each presented token is ended
// server-side.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	for _, name := range []string{middleware.AdminTokenCookie, middleware.CustomerTokenCookie} {
		if cookie, err := c.Cookie(name); err == nil && cookie.Value != "" {
			h.coordinator.Logout(c.Request().Context(), cookie.Value, domain.AuditLogout)
		}
	}

	h.cookies.Clear(c)

	return c.JSON(http.StatusOK, map[string]string{"message": "logged out"})
}

// SessionStatus reports the inactivity countdown for the caller's session so
// clients can surface the 5-minute and 1-minute warnings.
//
// @Summary      Session status
// @Tags         auth
// @Produce      json
// @Success      200  {object}  sessionResponse
// @Failure      401  {object}  map[string]string
// @Router       /auth/session [get]
func (h *AuthHandler) SessionStatus(c echo.Context) error {
	tokenStr := requestToken(c)
	if tokenStr == "" {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
	}
	if _, err := h.codec.Verify(tokenStr); err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
	}

	state, remaining, err := h.registry.Snapshot(tokenStr)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
	}

	return c.JSON(http.StatusOK, sessionResponse{
		State:            string(state),
		RemainingSeconds: remaining,
	})
}

func (h *AuthHandler) enqueueAudit(eventType domain.AuditEventType, email, role, remoteIP, reason string) {
	if h.audit == nil {
		return
	}
	h.audit.Enqueue(ports.AuditEvent{
		Type:     eventType,
		Email:    email,
		Role:     role,
		RemoteIP: remoteIP,
		Reason:   reason,
		At:       time.Now().UTC(),
	})
}

// requestToken finds the caller's token in either session cookie or a Bearer
// header, in that order.
func requestToken(c echo.Context) string {
	for _, name := range []string{middleware.AdminTokenCookie, middleware.CustomerTokenCookie} {
		if cookie, err := c.Cookie(name); err == nil && cookie.Value != "" {
			return cookie.Value
		}
	}

	authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return parts[1]
	}
	return ""
}
