package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/tasktracker/task-service/internal/api/handler"
	"github.com/tasktracker/task-service/internal/api/middleware"
	"github.com/tasktracker/task-service/internal/core/domain"
	"github.com/tasktracker/task-service/internal/core/service"
	googleauth "github.com/tasktracker/task-service/internal/infrastructure/auth"
	mongostore "github.com/tasktracker/task-service/internal/infrastructure/db/mongo"
	redisstore "github.com/tasktracker/task-service/internal/infrastructure/db/redis"
	"github.com/tasktracker/task-service/internal/pkg/config"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("tasktracker"))

	// --- Dependencies ---
	userRepo := mongostore.NewUserRepository(db)
	taskRepo := mongostore.NewTaskRepository(db)
	stateStore := redisstore.NewStateStore(rdb)

	tokenService := service.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	authService := service.NewAuthService(userRepo, tokenService, log)
	taskService := service.NewTaskService(taskRepo, log)

	googleProvider := googleauth.NewGoogleProvider(googleauth.GoogleConfig{
		ClientID:     cfg.Google.ClientID,
		ClientSecret: cfg.Google.ClientSecret,
		RedirectURL:  cfg.Google.RedirectURL,
	})
	oauthService := service.NewOAuthService(googleProvider, stateStore, userRepo, tokenService, log)

	authHandler := handler.NewAuthHandler(authService, oauthService, cfg.FrontendURL, log)
	taskHandler := handler.NewTaskHandler(taskService)

	// --- Auth routes (no bearer token required) ---
	auth := e.Group("/api/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/logout", authHandler.Logout)
	auth.GET("/google", authHandler.GoogleLogin)
	auth.GET("/google/callback", authHandler.GoogleCallback)

	// --- Task routes (bearer token required) ---
	tasks := e.Group("/api/tasks",
		middleware.Auth(tokenService),
		middleware.RBAC(domain.RoleUser, domain.RoleAdmin),
	)
	tasks.GET("", taskHandler.List)
	tasks.POST("", taskHandler.Create)
	tasks.PUT("/:id", taskHandler.Update)
	tasks.DELETE("/:id", taskHandler.Delete)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
