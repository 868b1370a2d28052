package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	sentrygin "github.com/getsentry/sentry-go/gin"

	"github.com/getsentry/sentry-go"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	_ "github.com/joho/godotenv/autoload"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/pawhome/pawhome-api/docs"
	"github.com/pawhome/pawhome-api/internal/config"
	"github.com/pawhome/pawhome-api/internal/database"
	"github.com/pawhome/pawhome-api/internal/handlers"
	"github.com/pawhome/pawhome-api/internal/jobs"
	"github.com/pawhome/pawhome-api/internal/middleware"
	"github.com/pawhome/pawhome-api/internal/repository"
	"github.com/pawhome/pawhome-api/internal/services"
	"github.com/pawhome/pawhome-api/internal/storage"
	"github.com/pawhome/pawhome-api/pkg/logger"
)

// @title PawHome API
// @version 1.0
// @description Pet adoption platform with moderated listings and audited
// @description adoption workflow.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logger.Setup(cfg.Environment)

	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.SentryDSN,
			Environment: cfg.Environment,
		}); err != nil {
			logger.Log.Error("sentry init failed", "error", err)
		}
		defer sentry.Flush(2 * time.Second)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Log.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(db); err != nil {
		logger.Log.Error("migration failed", "error", err)
		os.Exit(1)
	}

	store, err := storage.NewLocalStorage(cfg.StoragePath, cfg.StorageAppURL)
	if err != nil {
		logger.Log.Error("storage init failed", "error", err)
		os.Exit(1)
	}

	repos := repository.NewRepositories(db)
	worker := jobs.NewWorker(cfg.WorkerCount, 200)
	svcs := services.NewServices(repos, worker, store, cfg)

	if err := svcs.Shelter.Seed(context.Background()); err != nil {
		logger.Log.Error("shelter seed failed", "error", err)
	}

	scheduleMaintenance(worker, repos)

	router := setupRouter(cfg, handlers.New(svcs))

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		logger.Log.Info("server starting", "port", cfg.Port, "environment", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("forced shutdown", "error", err)
	}
	worker.Shutdown(10 * time.Second)
}

// scheduleMaintenance runs periodic cleanup. Expired lockouts clear on read
// anyway; the sweep keeps stored state tidy for account listings.
func scheduleMaintenance(worker *jobs.Worker, repos *repository.Repositories) {
	worker.ScheduleEvery(10*time.Minute, func(ctx context.Context) error {
		cleared, err := repos.User.ClearExpiredLocks(ctx)
		if err != nil {
			return err
		}
		if cleared > 0 {
			logger.Log.Info("cleared expired lockouts", "count", cleared)
		}
		return nil
	})

	worker.ScheduleEvery(time.Hour, func(ctx context.Context) error {
		deleted, err := repos.RefreshToken.DeleteExpired(ctx)
		if err != nil {
			return err
		}
		if deleted > 0 {
			logger.Log.Info("deleted expired refresh tokens", "count", deleted)
		}
		return nil
	})
}

func setupRouter(cfg *config.Config, h *handlers.Handlers) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	if cfg.SentryDSN != "" {
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	router.Use(middleware.RequestLogger())
	router.Use(middleware.CORS(cfg.AllowedOrigins))
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	router.GET("/health", handlers.HealthCheck)
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.Static("/uploads", cfg.StoragePath)

	api := router.Group("/api/v1")

	// Public routes
	api.POST("/auth/register", h.Auth.Register)
	api.POST("/auth/login", h.Auth.Login)
	api.POST("/auth/refresh", h.Auth.Refresh)
	api.POST("/auth/forgot-password", h.Auth.ForgotPassword)
	api.POST("/auth/reset-password", h.Auth.ResetPassword)
	api.GET("/pets", h.Pet.Search)
	api.GET("/pets/:id", h.Pet.Get)
	api.GET("/shelters", h.Shelter.List)
	api.GET("/shelters/:id", h.Shelter.Get)

	// Authenticated routes
	auth := api.Group("")
	auth.Use(middleware.Auth(cfg.JWTSecret))
	{
		auth.POST("/auth/logout", h.Auth.Logout)
		auth.GET("/auth/me", h.Auth.Me)
		auth.POST("/auth/change-password", h.Auth.ChangePassword)
		auth.PUT("/users/me", h.User.UpdateProfile)

		auth.POST("/pets", h.Pet.Submit)
		auth.GET("/pets/mine", h.Pet.MyListings)

		auth.POST("/adoptions", h.Adoption.Submit)
		auth.GET("/adoptions/mine", h.Adoption.Mine)
		auth.GET("/adoptions/:id", h.Adoption.Get)

		auth.GET("/notifications", h.Notification.List)
		auth.GET("/notifications/unread-count", h.Notification.UnreadCount)
		auth.POST("/notifications/:id/read", h.Notification.MarkAsRead)
		auth.POST("/notifications/read-all", h.Notification.MarkAllAsRead)
	}

	// Admin routes
	admin := api.Group("/admin")
	admin.Use(middleware.Auth(cfg.JWTSecret), middleware.RequireAdmin())
	{
		admin.GET("/pets/pending", h.Pet.ListPendingReview)
		admin.POST("/pets/:id/review", h.Pet.Review)

		admin.GET("/adoptions", h.Adoption.List)
		admin.POST("/adoptions/:id/review", h.Adoption.Review)

		admin.GET("/users", h.User.List)
		admin.POST("/users/:id/suspend", h.User.Suspend)
		admin.POST("/users/:id/unsuspend", h.User.Unsuspend)

		admin.GET("/audit", h.Audit.List)
		admin.GET("/audit/export", h.Audit.Export)
	}

	return router
}
