package main

import (
	"context"
	"flag"
	"os"

	"github.com/rs/zerolog/log"

	"bistro/internal/config"
	"bistro/internal/db"
	"bistro/internal/logger"
	"bistro/internal/repository"
	"bistro/internal/service"
)

// Registration always creates guests, so the first admin comes from here.
func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogPretty)

	name := flag.String("name", getEnv("ADMIN_NAME", "Administrator"), "admin display name")
	email := flag.String("email", os.Getenv("ADMIN_EMAIL"), "admin email (required)")
	password := flag.String("password", os.Getenv("ADMIN_PASSWORD"), "admin password, used only when the account is created")
	flag.Parse()

	if *email == "" {
		log.Fatal().Msg("admin email is required (ADMIN_EMAIL or -email)")
	}

	ctx := context.Background()
	gormDB, err := db.Open(ctx, cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	log.Info().Str("driver", cfg.DBDriver).Msg("Connected to database")

	if err := db.Migrate(gormDB, false); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	users := service.NewUserService(repository.NewUserRepository(gormDB))
	user, created, err := users.EnsureAdmin(ctx, *name, *email, *password)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to seed admin")
	}

	if created {
		log.Info().Str("email", user.Email).Str("id", user.ID.String()).Msg("Admin account created")
	} else {
		log.Info().Str("email", user.Email).Str("id", user.ID.String()).Msg("Existing account is admin")
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
