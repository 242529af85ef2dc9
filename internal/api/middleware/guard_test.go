package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/coveradmin/insurance-portal/internal/core/domain"
	"github.com/coveradmin/insurance-portal/internal/core/session"
	"github.com/coveradmin/insurance-portal/internal/core/token"
)

const testSecret = "test-secret"

func testCodec() *token.Codec {
	return token.NewCodec(testSecret, time.Hour)
}

func signToken(t *testing.T, codec *token.Codec, role string) string {
	t.Helper()
	signed, _, err := codec.Sign("user_1", "user@insurance.com", role)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func newGuard(codec *token.Codec) echo.MiddlewareFunc {
	return Guard(GuardConfig{Classifier: NewRouteClassifier(), Codec: codec})
}

func doRequest(t *testing.T, mw echo.MiddlewareFunc, req *http.Request) (*httptest.ResponseRecorder, bool, echo.Context) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := mw(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec, called, c
}

func TestGuard_PublicAlwaysAllowed(t *testing.T) {
	mw := newGuard(testCodec())

	for _, path := range []string{"/", "/login", "/auth/login", "/static/style.css"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec, called, _ := doRequest(t, mw, req)
		if !called || rec.Code != http.StatusOK {
			t.Fatalf("%s: expected allowed, got code %d called %v", path, rec.Code, called)
		}
	}
}

func TestGuard_AdminPage_NoToken_RedirectsToLogin(t *testing.T) {
	mw := newGuard(testCodec())

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	rec, called, _ := doRequest(t, mw, req)

	if called {
		t.Fatalf("next handler reached without a token")
	}
	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	if loc := rec.Header().Get(echo.HeaderLocation); loc != "/login" {
		t.Fatalf("expected redirect to /login, got %q", loc)
	}
}

func TestGuard_AdminPage_InvalidToken_RedirectsUnauthorized(t *testing.T) {
	mw := newGuard(testCodec())

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: AdminTokenCookie, Value: "garbage"})
	rec, called, _ := doRequest(t, mw, req)

	if called {
		t.Fatalf("next handler reached with an invalid token")
	}
	if loc := rec.Header().Get(echo.HeaderLocation); loc != "/login?reason=unauthorized" {
		t.Fatalf("expected unauthorized redirect, got %q", loc)
	}
}

func TestGuard_AdminPage_ExpiredToken_DeniedSameAsInvalid(t *testing.T) {
	claims := &token.Claims{
		UserID: "user_1",
		Email:  "user@insurance.com",
		Role:   domain.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign expired token: %v", err)
	}

	mw := newGuard(testCodec())
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: AdminTokenCookie, Value: signed})
	rec, called, _ := doRequest(t, mw, req)

	if called {
		t.Fatalf("next handler reached with an expired token")
	}
	if loc := rec.Header().Get(echo.HeaderLocation); loc != "/login?reason=unauthorized" {
		t.Fatalf("expected unauthorized redirect, got %q", loc)
	}
}

func TestGuard_AdminPage_CustomerRole_Denied(t *testing.T) {
	codec := testCodec()
	mw := newGuard(codec)

	req := httptest.NewRequest(http.MethodGet, "/policies", nil)
	req.AddCookie(&http.Cookie{Name: AdminTokenCookie, Value: signToken(t, codec, domain.RoleCustomer)})
	rec, called, _ := doRequest(t, mw, req)

	if called {
		t.Fatalf("customer role reached an admin page")
	}
	if loc := rec.Header().Get(echo.HeaderLocation); loc != "/login?reason=unauthorized" {
		t.Fatalf("expected unauthorized redirect, got %q", loc)
	}
}

func TestGuard_AdminPage_AllowedRoles(t *testing.T) {
	codec := testCodec()
	mw := newGuard(codec)

	for _, role := range []string{domain.RoleAdmin, domain.RoleAgent} {
		req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
		req.AddCookie(&http.Cookie{Name: AdminTokenCookie, Value: signToken(t, codec, role)})
		rec, called, c := doRequest(t, mw, req)

		if !called || rec.Code != http.StatusOK {
			t.Fatalf("role %s: expected allowed, got %d", role, rec.Code)
		}
		if c.Get(CtxRole) != role || c.Get(CtxUserID) != "user_1" {
			t.Fatalf("role %s: identity not injected into context", role)
		}
	}
}

func TestGuard_AdminAPI_NoToken_JSON401(t *testing.T) {
	mw := newGuard(testCodec())

	req := httptest.NewRequest(http.MethodGet, "/api/policies", nil)
	rec, called, _ := doRequest(t, mw, req)

	if called {
		t.Fatalf("next handler reached without a token")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if body := rec.Body.String(); body == "" {
		t.Fatalf("expected structured error body")
	}
}

func TestGuard_AdminAPI_BearerToken_InjectsIdentityHeaders(t *testing.T) {
	codec := testCodec()
	mw := newGuard(codec)

	req := httptest.NewRequest(http.MethodGet, "/api/policies", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+signToken(t, codec, domain.RoleAdmin))
	rec, called, c := doRequest(t, mw, req)

	if !called || rec.Code != http.StatusOK {
		t.Fatalf("expected allowed, got %d", rec.Code)
	}
	headers := c.Request().Header
	if headers.Get(HeaderUserID) != "user_1" ||
		headers.Get(HeaderEmail) != "user@insurance.com" ||
		headers.Get(HeaderRole) != domain.RoleAdmin {
		t.Fatalf("identity headers not injected: %+v", headers)
	}
}

func TestGuard_CustomerTier_VerifiesSignedToken(t *testing.T) {
	codec := testCodec()
	mw := newGuard(codec)

	// Valid CUSTOMER token → allowed.
	req := httptest.NewRequest(http.MethodGet, "/customer/portal", nil)
	req.AddCookie(&http.Cookie{Name: CustomerTokenCookie, Value: signToken(t, codec, domain.RoleCustomer)})
	rec, called, _ := doRequest(t, mw, req)
	if !called || rec.Code != http.StatusOK {
		t.Fatalf("expected customer allowed, got %d", rec.Code)
	}

	// A non-empty but unverifiable marker must be denied, not trusted.
	req = httptest.NewRequest(http.MethodGet, "/customer/portal", nil)
	req.AddCookie(&http.Cookie{Name: CustomerTokenCookie, Value: "present-but-bogus"})
	rec, called, _ = doRequest(t, mw, req)
	if called {
		t.Fatalf("presence-only customer marker was trusted")
	}
	if loc := rec.Header().Get(echo.HeaderLocation); loc != "/customer/login?reason=unauthorized" {
		t.Fatalf("expected customer login redirect, got %q", loc)
	}

	// Admin token in the customer channel is the wrong role.
	req = httptest.NewRequest(http.MethodGet, "/customer/portal", nil)
	req.AddCookie(&http.Cookie{Name: CustomerTokenCookie, Value: signToken(t, codec, domain.RoleAdmin)})
	_, called, _ = doRequest(t, mw, req)
	if called {
		t.Fatalf("admin role reached a customer page")
	}
}

func TestGuard_CustomerTier_NoToken_RedirectsToCustomerLogin(t *testing.T) {
	mw := newGuard(testCodec())

	req := httptest.NewRequest(http.MethodGet, "/customer/portal", nil)
	rec, _, _ := doRequest(t, mw, req)

	if loc := rec.Header().Get(echo.HeaderLocation); loc != "/customer/login" {
		t.Fatalf("expected redirect to /customer/login, got %q", loc)
	}
}

func TestGuard_Unclassified_RedirectsToLanding(t *testing.T) {
	mw := newGuard(testCodec())

	req := httptest.NewRequest(http.MethodGet, "/definitely/not/mapped", nil)
	rec, called, _ := doRequest(t, mw, req)

	if called {
		t.Fatalf("unclassified path reached a handler")
	}
	if rec.Code != http.StatusFound || rec.Header().Get(echo.HeaderLocation) != "/" {
		t.Fatalf("expected redirect to /, got %d %q", rec.Code, rec.Header().Get(echo.HeaderLocation))
	}
}

type stubRevocations struct {
	revoked map[string]bool
}

func (s *stubRevocations) IsRevoked(_ context.Context, tokenStr string) (bool, error) {
	return s.revoked[tokenStr], nil
}

func TestGuard_RevokedTokenDenied(t *testing.T) {
	codec := testCodec()
	signed := signToken(t, codec, domain.RoleAdmin)

	mw := Guard(GuardConfig{
		Classifier: NewRouteClassifier(),
		Codec:      codec,
		Revoked:    &stubRevocations{revoked: map[string]bool{signed: true}},
	})

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: AdminTokenCookie, Value: signed})
	_, called, _ := doRequest(t, mw, req)

	if called {
		t.Fatalf("revoked token reached a handler")
	}
}

func TestGuard_AllowedRequestTouchesSession(t *testing.T) {
	codec := testCodec()
	signed := signToken(t, codec, domain.RoleAdmin)

	registry := session.NewRegistry(30*time.Minute, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	registry.Start(ctx, signed, nil)

	mw := Guard(GuardConfig{Classifier: NewRouteClassifier(), Codec: codec, Registry: registry})
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: AdminTokenCookie, Value: signed})
	_, called, _ := doRequest(t, mw, req)

	if !called {
		t.Fatalf("expected request allowed")
	}
	state, remaining, err := registry.Snapshot(signed)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if state != session.StateActive || remaining < 1799 {
		t.Fatalf("expected rearmed session, got %s/%d", state, remaining)
	}
}
