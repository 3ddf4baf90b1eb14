package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/praaneshanandan/Investment-Approval/docs"
	"github.com/praaneshanandan/Investment-Approval/internal/api/handler"
	"github.com/praaneshanandan/Investment-Approval/internal/api/middleware"
	"github.com/praaneshanandan/Investment-Approval/internal/core/domain"
	"github.com/praaneshanandan/Investment-Approval/internal/core/service"
	mongodb "github.com/praaneshanandan/Investment-Approval/internal/infrastructure/db/mongo"
	redisdb "github.com/praaneshanandan/Investment-Approval/internal/infrastructure/db/redis"
)

const (
	roleAdmin   = string(domain.RoleAdmin)
	roleManager = string(domain.RoleManager)
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, jwtSecret string, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("investment"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	investmentRepo := mongodb.NewInvestmentRepository(db)
	idemStore := redisdb.NewIdempotencyStore(rdb)

	authService := service.NewAuthService(userRepo, jwtSecret, 24*time.Hour)
	investmentService := service.NewInvestmentService(investmentRepo, userRepo, idemStore, log)
	userService := service.NewUserService(userRepo, log)

	authHandler := handler.NewAuthHandler(authService)
	investmentHandler := handler.NewInvestmentHandler(investmentService)
	userHandler := handler.NewUserHandler(userService)
	authRequired := middleware.Auth(jwtSecret)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	// --- Investment workflow ---
	// The RBAC middleware mirrors the coarse route gates; the service guards
	// remain authoritative for every decision.
	inv := e.Group("/v1/investments", authRequired)
	inv.POST("", investmentHandler.Submit)
	inv.GET("/my-requests", investmentHandler.ListOwn)
	inv.GET("/managed-requests", investmentHandler.ListManaged, middleware.RBAC(roleManager, roleAdmin))
	inv.GET("/escalated-requests", investmentHandler.ListEscalated, middleware.RBAC(roleAdmin))
	inv.GET("/all", investmentHandler.ListAll, middleware.RBAC(roleAdmin))
	inv.PUT("/:id/approve", investmentHandler.Approve, middleware.RBAC(roleManager, roleAdmin))
	inv.PUT("/:id/reject", investmentHandler.Reject, middleware.RBAC(roleManager, roleAdmin))
	inv.PUT("/:id/escalate", investmentHandler.Escalate, middleware.RBAC(roleManager))

	// --- Hierarchy administration ---
	users := e.Group("/v1/users", authRequired)
	users.GET("", userHandler.List, middleware.RBAC(roleManager, roleAdmin))
	users.GET("/subordinates", userHandler.Subordinates, middleware.RBAC(roleManager))
	users.GET("/:id", userHandler.Get, middleware.RBAC(roleManager, roleAdmin))
	users.PUT("/role", userHandler.SetRole, middleware.RBAC(roleAdmin))
	users.PUT("/manager", userHandler.SetManager, middleware.RBAC(roleAdmin))

	// --- Health probes and operational endpoints (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
