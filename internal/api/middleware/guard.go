package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/coveradmin/insurance-portal/internal/api/metrics"
	"github.com/coveradmin/insurance-portal/internal/core/domain"
	"github.com/coveradmin/insurance-portal/internal/core/session"
	"github.com/coveradmin/insurance-portal/internal/core/token"
)

// Session cookie names. Admin and customer sessions are independent: a
// browser may hold one, both, or neither.
const (
	AdminTokenCookie    = "authToken"
	CustomerTokenCookie = "customer_token"
)

// Echo context keys set by the guard on allowed requests.
const (
	CtxUserID = "userId"
	CtxEmail  = "email"
	CtxRole   = "role"
	CtxTier   = "route_tier"
)

// Identity headers injected for downstream API handlers, which trust them
// without re-verifying.
const (
	HeaderUserID = "X-User-Id"
	HeaderEmail  = "X-User-Email"
	HeaderRole   = "X-User-Role"
)

const (
	adminLoginPath    = "/login"
	customerLoginPath = "/customer/login"
)

// RevocationChecker reports whether a token was blacklisted by a logout or a
// forced expiry. May be nil when no blacklist is configured.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, tokenStr string) (bool, error)
}

// GuardConfig carries the guard's collaborators.
type GuardConfig struct {
	Classifier *RouteClassifier
	Codec      *token.Codec
	// Registry receives an activity touch for every allowed admin or
	// customer request. Optional.
	Registry *session.Registry
	// Revoked is consulted after signature verification. Optional.
	Revoked RevocationChecker
}

// Guard classifies every request and enforces its tier. The decision is a
// pure function of the request's path, cookies, and headers plus the fixed
// secret; there is no shared mutable state. Browser navigations are denied
// with a redirect to the matching login page, API paths with a structured
// 401 body. A missing, expired, tampered, or wrong-role token all deny the
// same way: the response never reveals why verification failed.
func Guard(cfg GuardConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Request().URL.Path
			tier := cfg.Classifier.Classify(path)
			c.Set(CtxTier, string(tier))

			switch tier {
			case domain.TierPublic:
				metrics.GuardDecisionsTotal.WithLabelValues(string(tier), "allowed").Inc()
				return next(c)
			case domain.TierAdmin:
				return cfg.enforce(c, next, tier, AdminTokenCookie, adminLoginPath, domain.AdminRole)
			case domain.TierCustomer:
				return cfg.enforce(c, next, tier, CustomerTokenCookie, customerLoginPath, func(role string) bool {
					return role == domain.RoleCustomer
				})
			default:
				metrics.GuardDecisionsTotal.WithLabelValues(string(tier), "denied").Inc()
				return c.Redirect(http.StatusFound, "/")
			}
		}
	}
}

func (cfg GuardConfig) enforce(c echo.Context, next echo.HandlerFunc, tier domain.Tier, cookieName, loginPath string, roleAllowed func(string) bool) error {
	tokenStr := extractToken(c, cookieName)
	if tokenStr == "" {
		return deny(c, tier, loginPath, "")
	}

	claims, err := cfg.Codec.Verify(tokenStr)
	if err != nil {
		// Expired and tampered collapse into the same denial.
		return deny(c, tier, loginPath, "unauthorized")
	}

	if cfg.Revoked != nil {
		revoked, err := cfg.Revoked.IsRevoked(c.Request().Context(), tokenStr)
		if err == nil && revoked {
			return deny(c, tier, loginPath, "unauthorized")
		}
	}

	if !roleAllowed(claims.Role) {
		return deny(c, tier, loginPath, "unauthorized")
	}

	c.Set(CtxUserID, claims.UserID)
	c.Set(CtxEmail, claims.Email)
	c.Set(CtxRole, claims.Role)
	if isAPIPath(c.Request().URL.Path) {
		c.Request().Header.Set(HeaderUserID, claims.UserID)
		c.Request().Header.Set(HeaderEmail, claims.Email)
		c.Request().Header.Set(HeaderRole, claims.Role)
	}

	if cfg.Registry != nil {
		cfg.Registry.Touch(tokenStr)
	}

	metrics.GuardDecisionsTotal.WithLabelValues(string(tier), "allowed").Inc()
	return next(c)
}

// extractToken reads the session cookie, falling back to a Bearer header for
// non-browser callers.
func extractToken(c echo.Context, cookieName string) string {
	if cookie, err := c.Cookie(cookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return parts[1]
	}
	return ""
}

func deny(c echo.Context, tier domain.Tier, loginPath, reason string) error {
	metrics.GuardDecisionsTotal.WithLabelValues(string(tier), "denied").Inc()

	if isAPIPath(c.Request().URL.Path) {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
	}

	target := loginPath
	if reason != "" {
		target += "?reason=" + reason
	}
	return c.Redirect(http.StatusFound, target)
}

func isAPIPath(path string) bool {
	return strings.HasPrefix(path, "/api/")
}
