package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/conectar/admin-api/docs"
	"github.com/conectar/admin-api/internal/api/handler"
	"github.com/conectar/admin-api/internal/api/middleware"
	"github.com/conectar/admin-api/internal/core/ports"
	"github.com/conectar/admin-api/internal/core/service"
	mongodb "github.com/conectar/admin-api/internal/infrastructure/db/mongo"
	redisguard "github.com/conectar/admin-api/internal/infrastructure/db/redis"
	"github.com/conectar/admin-api/internal/pkg/config"
	"github.com/conectar/admin-api/internal/pkg/token"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, cfg *config.Config, audit ports.AuditSink, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("conectar"))

	// --- Dependencies ---
	accessTTL, err := token.ParseTTL(cfg.JWT.ExpiresIn)
	if err != nil {
		log.Warn().Err(err).Str("value", cfg.JWT.ExpiresIn).Msg("invalid JWT_EXPIRES_IN, using default")
	}

	userRepo := mongodb.NewUserRepository(db)
	clientRepo := mongodb.NewClientRepository(db)
	guard := redisguard.NewLoginGuard(rdb)

	authService := service.NewAuthService(userRepo, guard, audit, service.TokenConfig{
		AccessSecret:  cfg.JWT.Secret,
		AccessTTL:     accessTTL,
		RefreshSecret: cfg.JWT.RefreshSecret,
	}, log)
	userService := service.NewUserService(userRepo, audit, log)
	profileService := service.NewProfileService(userRepo, audit, log)
	clientService := service.NewClientService(clientRepo, userRepo, audit, log)

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	clientHandler := handler.NewClientHandler(clientService)
	profileHandler := handler.NewProfileHandler(userService, profileService)

	authMW := middleware.Auth(cfg.JWT.Secret)

	// --- Auth routes (public) ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	// --- Users ---
	users := e.Group("/users", authMW)
	users.POST("", userHandler.Create, middleware.Authorize(middleware.OpUserCreate))
	users.GET("", userHandler.List, middleware.Authorize(middleware.OpUserList))
	users.GET("/:id", userHandler.Get, middleware.Authorize(middleware.OpUserGet))
	users.PATCH("/:id", userHandler.Update, middleware.Authorize(middleware.OpUserUpdate))
	users.DELETE("/:id", userHandler.Delete, middleware.Authorize(middleware.OpUserDelete))

	// --- Clients ---
	clients := e.Group("/clients", authMW)
	clients.GET("/users-options", clientHandler.UserOptions, middleware.Authorize(middleware.OpClientUserOptions))
	clients.POST("", clientHandler.Create, middleware.Authorize(middleware.OpClientCreate))
	clients.GET("", clientHandler.List, middleware.Authorize(middleware.OpClientList))
	clients.GET("/:id", clientHandler.Get, middleware.Authorize(middleware.OpClientGet))
	clients.PATCH("/:id", clientHandler.Update, middleware.Authorize(middleware.OpClientUpdate))
	clients.DELETE("/:id", clientHandler.Delete, middleware.Authorize(middleware.OpClientDelete))
	clients.POST("/:id/users/:userId", clientHandler.AddUser, middleware.Authorize(middleware.OpClientMemberAdd))
	clients.DELETE("/:id/users/:userId", clientHandler.RemoveUser, middleware.Authorize(middleware.OpClientMemberRemove))

	// --- Profile ---
	profile := e.Group("/profile", authMW)
	profile.GET("", profileHandler.Get, middleware.Authorize(middleware.OpProfileGet))
	profile.PATCH("", profileHandler.Update, middleware.Authorize(middleware.OpProfileUpdate))

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Operational endpoints ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
