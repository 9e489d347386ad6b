package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/authkit/identity-api/docs"
	"github.com/authkit/identity-api/internal/api/handler"
	"github.com/authkit/identity-api/internal/api/middleware"
	"github.com/authkit/identity-api/internal/core/domain"
	"github.com/authkit/identity-api/internal/core/ports"
)

// Dependencies carries everything the router needs wired at startup.
type Dependencies struct {
	AuthService ports.AuthService
	UserService ports.UserService
	Mongo       *mongo.Database
	Redis       *redis.Client
	JWTSecret   string
	Logger      zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("identity"))

	authHandler := handler.NewAuthHandler(deps.AuthService)
	userHandler := handler.NewUserHandler(deps.UserService)
	authMiddleware := middleware.Auth(deps.JWTSecret)

	v1 := e.Group("/api/v1")

	// --- Auth routes ---
	v1.POST("/auth/signup", authHandler.SignUp)
	v1.POST("/auth/signin", authHandler.SignIn)
	v1.POST("/auth/password", authHandler.ChangePassword, authMiddleware)

	// --- User routes ---
	// The role set attached to each route is the declared requirement the
	// RBAC middleware enforces; ownership checks run inside the service.
	users := v1.Group("/users", authMiddleware)
	users.GET("/me", userHandler.Me, middleware.RBAC())
	users.GET("", userHandler.List, middleware.RBAC(domain.RoleAdmin))
	users.GET("/:id", userHandler.Get, middleware.RBAC(domain.RoleAdmin))
	users.PATCH("/:id", userHandler.Update, middleware.RBAC(domain.RoleAdmin, domain.RoleUser))
	users.DELETE("/:id", userHandler.Delete, middleware.RBAC(domain.RoleAdmin, domain.RoleUser))

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Mongo, deps.Redis)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Operational endpoints ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
