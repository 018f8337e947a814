package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SERVER_PORT", "")
	t.Setenv("CLIENT_URLS", "")
	t.Setenv("MAX_UPLOAD_BYTES", "")
	t.Setenv("KAFKA_BROKERS", "")
	t.Setenv("APP_ENV", "")
	t.Setenv("JWT_SECRET", "")

	cfg := Load()

	assert.Equal(t, EnvDevelopment, cfg.AppEnv)
	assert.Equal(t, DefaultJWTSecret, cfg.JWTSecret)
	assert.True(t, cfg.UsesDefaultJWTSecret())
	assert.NoError(t, cfg.Validate())

	assert.Equal(t, "5000", cfg.ServerPort)
	assert.Equal(t, []string{"http://localhost:5173", "http://localhost:5174"}, cfg.ClientURLs)
	assert.EqualValues(t, 5<<20, cfg.MaxUploadBytes)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Equal(t, time.Hour, cfg.OrphanGrace)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("CLIENT_URLS", " https://a.example , ,https://b.example")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("ORPHAN_GRACE", "15m")
	t.Setenv("RESET_DB", "true")
	t.Setenv("REDIS_DB", "not-a-number")

	cfg := Load()

	assert.Equal(t, "9000", cfg.ServerPort)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.ClientURLs)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 15*time.Minute, cfg.OrphanGrace)
	assert.True(t, cfg.ResetDB)
	assert.Equal(t, 0, cfg.RedisDB)
}

func TestValidate_JWTSecret(t *testing.T) {
	tests := []struct {
		name    string
		env     string
		secret  string
		wantErr bool
	}{
		{name: "development default", env: "", secret: "", wantErr: false},
		{name: "production without secret", env: "production", secret: "", wantErr: true},
		{name: "production with default literal", env: "Production", secret: DefaultJWTSecret, wantErr: true},
		{name: "staging with secret", env: "staging", secret: "s3cr3t-value", wantErr: false},
		{name: "production with secret", env: "production", secret: "s3cr3t-value", wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("APP_ENV", tt.env)
			t.Setenv("JWT_SECRET", tt.secret)

			err := Load().Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInsecureJWTSecret)
			} else {
				assert.NoError(t, err)
			}
		})
	}

	cfg := &Config{AppEnv: "production"}
	assert.ErrorIs(t, cfg.Validate(), ErrInsecureJWTSecret)
}
