package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// DefaultJWTSecret is the signing key used when JWT_SECRET is unset. It is
// only accepted in the development environment.
const DefaultJWTSecret = "change-me"

// EnvDevelopment is the default APP_ENV.
const EnvDevelopment = "development"

// ErrInsecureJWTSecret is returned by Validate when a non-development
// environment runs without its own JWT_SECRET.
var ErrInsecureJWTSecret = errors.New("JWT_SECRET must be set outside development")

// Config holds application level configuration loaded from environment variables.
type Config struct {
	AppEnv     string
	ServerPort string
	DBDriver   string
	DBDSN      string
	ResetDB    bool

	JWTSecret  string
	ClientURLs []string

	UploadDir       string
	UploadURLPrefix string
	MaxUploadBytes  int64

	RedisAddr string
	RedisDB   int
	RedisPass string

	KafkaBrokers []string
	KafkaTopic   string

	OrphanSweepSchedule string
	OrphanGrace         time.Duration

	LogLevel    string
	LogPretty   bool
	SwaggerHost string
}

// Load builds Config from the environment with sensible defaults. A .env file
// in the working directory is read first when present.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg("could not read .env, using process environment")
	}

	return &Config{
		AppEnv:     strings.ToLower(getEnv("APP_ENV", EnvDevelopment)),
		ServerPort: getEnv("SERVER_PORT", "5000"),
		DBDriver:   strings.ToLower(getEnv("DB_DRIVER", "mysql")),
		DBDSN:      getEnv("DATABASE_DSN", "user:password@tcp(localhost:3306)/restaurant?charset=utf8mb4&parseTime=True&loc=UTC"),
		ResetDB:    getEnvBool("RESET_DB", false),

		JWTSecret:  getEnv("JWT_SECRET", DefaultJWTSecret),
		ClientURLs: getEnvCSV("CLIENT_URLS", []string{"http://localhost:5173", "http://localhost:5174"}),

		UploadDir:       getEnv("UPLOAD_DIR", "./public/uploads"),
		UploadURLPrefix: getEnv("UPLOAD_URL_PREFIX", "/uploads"),
		MaxUploadBytes:  int64(getEnvInt("MAX_UPLOAD_BYTES", 5<<20)),

		RedisAddr: os.Getenv("REDIS_ADDR"),
		RedisDB:   getEnvInt("REDIS_DB", 0),
		RedisPass: os.Getenv("REDIS_PASSWORD"),

		KafkaBrokers: getEnvCSV("KAFKA_BROKERS", nil),
		KafkaTopic:   getEnv("KAFKA_TOPIC", "restaurant-events"),

		OrphanSweepSchedule: os.Getenv("ORPHAN_SWEEP_SCHEDULE"),
		OrphanGrace:         getEnvDuration("ORPHAN_GRACE", time.Hour),

		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogPretty:   getEnvBool("LOG_PRETTY", false),
		SwaggerHost: os.Getenv("SWAGGER_HOST"),
	}
}

// Validate reports settings that are unsafe for the configured environment.
func (c *Config) Validate() error {
	if c.AppEnv != EnvDevelopment && (c.JWTSecret == "" || c.JWTSecret == DefaultJWTSecret) {
		return ErrInsecureJWTSecret
	}
	return nil
}

// UsesDefaultJWTSecret reports whether tokens are signed with the public default key.
func (c *Config) UsesDefaultJWTSecret() bool {
	return c.JWTSecret == DefaultJWTSecret
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvCSV(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
