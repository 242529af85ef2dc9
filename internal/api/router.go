package api

import (
	"context"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/coveradmin/insurance-portal/docs"
	"github.com/coveradmin/insurance-portal/internal/api/handler"
	"github.com/coveradmin/insurance-portal/internal/api/middleware"
	"github.com/coveradmin/insurance-portal/internal/core/domain"
	"github.com/coveradmin/insurance-portal/internal/core/ports"
	"github.com/coveradmin/insurance-portal/internal/core/service"
	"github.com/coveradmin/insurance-portal/internal/core/session"
	"github.com/coveradmin/insurance-portal/internal/core/token"
	redisdb "github.com/coveradmin/insurance-portal/internal/infrastructure/db/redis"
	"github.com/coveradmin/insurance-portal/internal/pkg/config"
)

// Dependencies carries the externally-owned collaborators into the router.
// Blacklist, Audit, Mongo, and Redis may be nil; the routes degrade to
// in-process behaviour without them.
type Dependencies struct {
	Log         zerolog.Logger
	Credentials ports.CredentialSource
	Blacklist   *redisdb.TokenBlacklist
	Audit       session.AuditQueue
	Mongo       *mongo.Database
	Redis       *redis.Client
}

// NewRouter builds and returns the Echo instance with all routes registered.
// ctx bounds the lifetime of session monitors started by logins.
func NewRouter(ctx context.Context, cfg *config.Config, deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("portal"))

	// --- Core wiring ---
	codec := token.NewCodec(cfg.JWTSecret, cfg.TokenTTL)
	authService := service.NewAuthService(deps.Credentials, codec)
	registry := session.NewRegistry(cfg.SessionIdleTimeout, deps.Log)

	var blacklist session.Blacklist
	var revoked middleware.RevocationChecker
	if deps.Blacklist != nil {
		blacklist = deps.Blacklist
		revoked = deps.Blacklist
	}
	coordinator := session.NewCoordinator(registry, blacklist, codec, deps.Audit, deps.Log)

	cookies := handler.NewSessionCookies(cfg.Env)
	authHandler := handler.NewAuthHandler(ctx, authService, codec, cookies, registry, coordinator, deps.Audit)

	// --- Access guard ---
	e.Use(middleware.Guard(middleware.GuardConfig{
		Classifier: middleware.NewRouteClassifier(),
		Codec:      codec,
		Registry:   registry,
		Revoked:    revoked,
	}))

	// --- Auth routes ---
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/logout", authHandler.Logout)
	e.GET("/auth/session", authHandler.SessionStatus)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Mongo, deps.Redis)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Observability & docs ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Guarded portal sink ---
	// Stands in for the business pages and APIs; master data is ADMIN-only
	// even inside the admin tier.
	portalHandler := handler.NewPortalHandler()
	e.Any("/master-data/*", portalHandler.Handle, middleware.RBAC(domain.RoleAdmin))
	e.Any("/", portalHandler.Handle)
	e.Any("/*", portalHandler.Handle)

	return e
}
