// Package main runs the training platform HTTP server with graceful shutdown.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/skillforge/backend/config"
	"github.com/skillforge/backend/internal/analytics"
	"github.com/skillforge/backend/internal/auth"
	"github.com/skillforge/backend/internal/courses"
	"github.com/skillforge/backend/internal/enrollments"
	"github.com/skillforge/backend/internal/groups"
	"github.com/skillforge/backend/internal/middleware"
	"github.com/skillforge/backend/internal/organizations"
	"github.com/skillforge/backend/internal/users"
	"github.com/skillforge/backend/pkg/database"
	"github.com/skillforge/backend/pkg/redis"
	"github.com/skillforge/backend/pkg/response"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx := context.Background()
	pool, err := database.NewPostgresPool(ctx, cfg.Database.DSN(), logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}

	rdb, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
	if err != nil {
		logger.Fatal("redis", zap.Error(err))
	}
	defer rdb.Close()

	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpireHours)
	revocations := auth.NewRevocationStore(rdb.Client)

	// Auth
	authRepo := auth.NewRepository(pool)
	authHandler := auth.NewHandler(authRepo, jwtService, revocations, logger)

	// Organizations
	orgRepo := organizations.NewRepository(pool)
	orgService := organizations.NewService(orgRepo)
	orgHandler := organizations.NewHandler(orgService)

	// Users
	userRepo := users.NewRepository(pool)
	userService := users.NewService(userRepo)
	userHandler := users.NewHandler(userService)

	// Courses
	courseRepo := courses.NewRepository(pool)
	courseService := courses.NewService(courseRepo)
	courseHandler := courses.NewHandler(courseService)

	// Groups
	groupRepo := groups.NewRepository(pool)
	groupService := groups.NewService(groupRepo, userRepo)
	groupHandler := groups.NewHandler(groupService)

	// Enrollments
	enrollmentRepo := enrollments.NewRepository(pool)
	enrollmentService := enrollments.NewService(enrollmentRepo, userRepo, courseRepo)
	enrollmentHandler := enrollments.NewHandler(enrollmentService)

	// Analytics (dashboards and per-employee score breakdowns)
	analyticsService := analytics.NewService(orgRepo, courseRepo, enrollmentRepo, userRepo)
	analyticsHandler := analytics.NewHandler(analyticsService)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))
	router.Use(middleware.Logger(logger))

	// Health
	router.GET("/health", func(c *gin.Context) { response.OK(c, gin.H{"status": "ok"}) })

	// Auth (public)
	authGroup := router.Group("/auth")
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
	}

	// Protected API (bearer token required; role and tenant checks live in
	// the services)
	api := router.Group("")
	api.Use(middleware.Auth(jwtService, revocations, authRepo))
	{
		api.POST("/auth/logout", authHandler.Logout)
		api.GET("/me", userHandler.Me)

		// Organizations
		api.GET("/organizations", orgHandler.List)
		api.POST("/organizations", orgHandler.Create)
		api.GET("/organizations/:id", orgHandler.Get)
		api.GET("/organizations/slug/:slug", orgHandler.GetBySlug)
		api.GET("/organizations/:id/dashboard", analyticsHandler.Dashboard)
		api.GET("/organizations/:id/scores", analyticsHandler.EmployeeScores)

		// Users
		api.GET("/users", userHandler.List)
		api.GET("/users/:id", userHandler.Get)

		// Courses
		api.GET("/courses", courseHandler.List)
		api.POST("/courses", courseHandler.Create)
		api.GET("/courses/:id", courseHandler.Get)
		api.POST("/courses/:id/topics", courseHandler.AddTopic)

		// Groups
		api.GET("/groups", groupHandler.List)
		api.POST("/groups", groupHandler.Create)
		api.POST("/groups/:id/members", groupHandler.AssignMember)
		api.DELETE("/groups/:id/members/:userId", groupHandler.RemoveMember)

		// Enrollments
		api.GET("/enrollments", enrollmentHandler.List)
		api.POST("/enrollments", enrollmentHandler.Enroll)
		api.PATCH("/enrollments/:id/score", enrollmentHandler.UpdateScore)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
