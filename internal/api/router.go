package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/userhub/account-service/internal/api/handler"
	"github.com/userhub/account-service/internal/api/middleware"
	"github.com/userhub/account-service/internal/core/ports"
	"github.com/userhub/account-service/internal/core/service"
	"github.com/userhub/account-service/internal/core/token"
	mongodb "github.com/userhub/account-service/internal/infrastructure/db/mongo"
	redisdb "github.com/userhub/account-service/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes registered.
// The audit sink is constructed by the caller so its worker lifecycle stays
// bound to the process context rather than the router.
func NewRouter(db *mongo.Database, rdb *redis.Client, issuer *token.Issuer, audit ports.AuditSink, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("account"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	profileCache := redisdb.NewProfileCache(rdb)
	userService := service.NewUserService(userRepo, profileCache, issuer, audit, log)
	userHandler := handler.NewUserHandler(userService)
	authMiddleware := middleware.Auth(issuer)

	// --- Account routes ---
	e.POST("/api/users", userHandler.Register)
	e.GET("/api/users/me", userHandler.Me, authMiddleware)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Metrics ---
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
