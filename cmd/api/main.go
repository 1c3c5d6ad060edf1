package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"netrates/internal/config"
	"netrates/internal/database"
	"netrates/internal/middleware"
	"netrates/internal/modules/auth"
	"netrates/internal/modules/export"
	"netrates/internal/modules/mailer"
	"netrates/internal/modules/pricelist"
	"netrates/internal/modules/ratesheet"
	jwtsvc "netrates/internal/pkg/jwt"
	"netrates/internal/pkg/logger"
	"netrates/internal/repository"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load("config.yaml")
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log, err := logger.New(cfg.App.Env, os.Getenv("LOG_LEVEL"))
	if err != nil {
		panic("failed to build logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	if cfg.Auth.JWTSecret == "" {
		log.Fatal("auth.jwt_secret (APP_AUTH_JWT_SECRET) is required")
	}

	db, err := database.Connect(cfg.App.DatabaseURL)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := repository.AutoMigrate(db); err != nil {
		log.Fatal("failed to migrate database", zap.Error(err))
	}

	settings, err := config.OpenSettings(cfg.App.SettingsPath)
	if err != nil {
		log.Fatal("failed to open settings", zap.Error(err))
	}

	jwtService := jwtsvc.New(cfg.Auth.JWTSecret, cfg.Auth.JWTTTL)

	sheetRepo := repository.NewRateSheetRepository(db)
	priceListRepo := repository.NewPriceListRepository(db)
	emailLogRepo := repository.NewEmailLogRepository(db)
	userRepo := repository.NewUserRepository(db)

	sheetService := ratesheet.NewService(sheetRepo)
	priceListService := pricelist.NewService(priceListRepo, sheetRepo)
	exportService := export.NewService(priceListService, cfg.App.HeadersDir)
	mailerService := mailer.NewService(priceListService, exportService, emailLogRepo, settings, log)
	authService := auth.NewService(userRepo, jwtService)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := authService.EnsureAdmin(ctx, os.Getenv("ADMIN_EMAIL"), os.Getenv("ADMIN_PASSWORD")); err != nil {
		log.Fatal("failed to ensure admin account", zap.Error(err))
	}

	if cfg.App.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.CORS())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if cfg.Metrics.Enabled {
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	sheetHandler := ratesheet.NewHandler(sheetService)
	priceListHandler := pricelist.NewHandler(priceListService)
	exportHandler := export.NewHandler(exportService)
	mailerHandler := mailer.NewHandler(mailerService)
	authHandler := auth.NewHandler(authService)

	api := r.Group("/api/v1")
	authHandler.RegisterRoutes(api)
	sheetHandler.RegisterRoutes(api)
	priceListHandler.RegisterRoutes(api)
	exportHandler.RegisterRoutes(api)
	mailerHandler.RegisterRoutes(api)

	admin := api.Group("", middleware.Auth(jwtService))
	sheetHandler.RegisterAdminRoutes(admin)
	exportHandler.RegisterAdminRoutes(admin)
	mailerHandler.RegisterAdminRoutes(admin)

	srv := &http.Server{
		Addr:         cfg.App.Addr,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	go func() {
		log.Info("server listening", zap.String("addr", cfg.App.Addr), zap.String("env", cfg.App.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
}
