package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"bistro/docs"
	"bistro/internal/auth"
	"bistro/internal/cache"
	"bistro/internal/config"
	"bistro/internal/db"
	"bistro/internal/events"
	"bistro/internal/handler"
	"bistro/internal/logger"
	"bistro/internal/repository"
	"bistro/internal/router"
	"bistro/internal/service"
	"bistro/internal/storage"
)

const shutdownTimeout = 10 * time.Second

// @title Restaurant API
// @version 1.0
// @description Menu, table booking and contact form API for the restaurant site.
// @host localhost:5000
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name x-auth-token
// @description JWT issued by /auth/login or /auth/register.
func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogPretty)

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Str("env", cfg.AppEnv).Msg("invalid configuration")
	}
	if cfg.UsesDefaultJWTSecret() {
		log.Warn().Msg("JWT_SECRET is not set, using the development default")
	}

	gormDB, err := db.Open(context.Background(), cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("database init")
	}
	if cfg.ResetDB {
		log.Warn().Msg("RESET_DB=true detected, dropping all tables")
	}
	if err := db.Migrate(gormDB, cfg.ResetDB); err != nil {
		log.Fatal().Err(err).Msg("auto-migrate")
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	publisher := events.New(cfg.KafkaBrokers, cfg.KafkaTopic)

	store, err := storage.NewDiskStore(cfg.UploadDir, cfg.UploadURLPrefix, cfg.MaxUploadBytes)
	if err != nil {
		log.Fatal().Err(err).Msg("upload dir")
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	menuRepo := repository.NewMenuRepository(gormDB)
	bookingRepo := repository.NewBookingRepository(gormDB)
	contactRepo := repository.NewContactRepository(gormDB)

	jwtService := auth.NewJWTService(cfg.JWTSecret)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtService)
	userService := service.NewUserService(userRepo)
	menuService := service.NewMenuService(menuRepo, store, cacheClient, publisher)
	bookingService := service.NewBookingService(bookingRepo, publisher)
	contactService := service.NewContactService(contactRepo, publisher)

	janitor := service.NewUploadJanitor(store, menuRepo, cfg.OrphanGrace)
	if err := janitor.Start(cfg.OrphanSweepSchedule); err != nil {
		log.Fatal().Err(err).Msg("orphan janitor")
	}

	e := echo.New()
	e.HideBanner = true
	router.Register(
		e,
		cfg,
		jwtService,
		userService,
		handler.NewAuthHandler(authService, userService),
		handler.NewMenuHandler(menuService),
		handler.NewBookingHandler(bookingService),
		handler.NewContactHandler(contactService),
	)

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = strings.TrimPrefix(strings.TrimPrefix(cfg.SwaggerHost, "https://"), "http://")
	}
	log.Info().Str("url", "http://"+docs.SwaggerInfo.Host+"/swagger/index.html").Msg("swagger documentation available")

	go func() {
		addr := ":" + cfg.ServerPort
		log.Info().Str("addr", addr).Msg("server starting")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	janitor.Stop(ctx)
	if err := e.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}
	if err := publisher.Close(); err != nil {
		log.Error().Err(err).Msg("close event publisher")
	}
	if err := cacheClient.Close(); err != nil {
		log.Error().Err(err).Msg("close cache")
	}
	if sqlDB, err := gormDB.DB(); err == nil {
		_ = sqlDB.Close()
	}

	log.Info().Msg("server exiting")
}
