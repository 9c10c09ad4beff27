package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, []string{"http://localhost:5173", "http://localhost:5174"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 3306, cfg.Database.Port)
	assert.True(t, cfg.Database.Migrate)
	assert.Equal(t, "test-secret", cfg.Auth.JWTSecret)
	assert.Equal(t, time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, "local", cfg.Storage.Driver)
}

func TestLoad_MissingSecretFails(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	require.ErrorIs(t, err, ErrMissingJWTSecret)
}

func TestLoad_Overrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("JWT_SECRET", "s")
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("TOKEN_TTL", "30m")
	t.Setenv("DB_MIGRATE", "false")
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://admin.example.com , ,https://jobs.example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, 30*time.Minute, cfg.Auth.TokenTTL)
	assert.False(t, cfg.Database.Migrate)
	assert.Equal(t, []string{"https://admin.example.com", "https://jobs.example.com"}, cfg.Server.AllowedOrigins)
}

func TestLoad_InvalidValues(t *testing.T) {
	cases := map[string][2]string{
		"bad port":      {"SERVER_PORT", "eighty"},
		"bad ttl":       {"TOKEN_TTL", "soon"},
		"negative ttl":  {"TOKEN_TTL", "-1h"},
		"bad migrate":   {"DB_MIGRATE", "maybe"},
		"zero hashers":  {"HASH_CONCURRENCY", "0"},
		"cost too high": {"BCRYPT_COST", "32"},
		"cost too low":  {"BCRYPT_COST", "3"},
		"unknown store": {"STORAGE_DRIVER", "ftp"},
		"s3 no bucket":  {"STORAGE_DRIVER", "s3"},
	}
	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			chdir(t, t.TempDir())
			t.Setenv("JWT_SECRET", "s")
			t.Setenv("S3_BUCKET", "")
			t.Setenv(kv[0], kv[1])

			_, err := Load()
			require.Error(t, err)
		})
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	c := DatabaseConfig{Host: "db", Port: 3306, User: "u", Password: "p", Name: "jobs"}
	assert.Equal(t, "u:p@tcp(db:3306)/jobs?parseTime=true", c.DSN())
}

func TestValidate_BcryptCostBounds(t *testing.T) {
	cfg := &Config{
		Auth:    AuthConfig{JWTSecret: "s", TokenTTL: time.Hour, BcryptCost: 31, HashConcurrency: 1},
		Storage: StorageConfig{Driver: "local"},
	}
	require.NoError(t, cfg.Validate())

	cfg.Auth.BcryptCost = 32
	assert.EqualError(t, cfg.Validate(), "BCRYPT_COST must be between 4 and 31, got 32")
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir, added in Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
