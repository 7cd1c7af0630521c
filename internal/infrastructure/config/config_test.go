package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	// Save original env vars and restore after tests
	originalEnv := map[string]string{
		"PHARMACY_APP_NAME":                os.Getenv("PHARMACY_APP_NAME"),
		"PHARMACY_APP_ENV":                 os.Getenv("PHARMACY_APP_ENV"),
		"PHARMACY_APP_PORT":                os.Getenv("PHARMACY_APP_PORT"),
		"PHARMACY_DATABASE_HOST":           os.Getenv("PHARMACY_DATABASE_HOST"),
		"PHARMACY_DATABASE_PORT":           os.Getenv("PHARMACY_DATABASE_PORT"),
		"PHARMACY_DATABASE_USER":           os.Getenv("PHARMACY_DATABASE_USER"),
		"PHARMACY_DATABASE_PASSWORD":       os.Getenv("PHARMACY_DATABASE_PASSWORD"),
		"PHARMACY_DATABASE_DBNAME":         os.Getenv("PHARMACY_DATABASE_DBNAME"),
		"PHARMACY_DATABASE_SSLMODE":        os.Getenv("PHARMACY_DATABASE_SSLMODE"),
		"PHARMACY_DATABASE_MAX_OPEN_CONNS": os.Getenv("PHARMACY_DATABASE_MAX_OPEN_CONNS"),
		"PHARMACY_DATABASE_MAX_IDLE_CONNS": os.Getenv("PHARMACY_DATABASE_MAX_IDLE_CONNS"),
	}

	defer func() {
		for k, v := range originalEnv {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	clearEnv := func() {
		for k := range originalEnv {
			os.Unsetenv(k)
		}
	}

	t.Run("loads default values when env vars not set", func(t *testing.T) {
		clearEnv()

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "pharmacy-backend", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "postgres", cfg.Database.User)
		assert.Equal(t, "pharmacy", cfg.Database.DBName)
		assert.Equal(t, "disable", cfg.Database.SSLMode)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, 5, cfg.Database.MaxIdleConns)
	})

	t.Run("loads values from environment variables with PHARMACY prefix", func(t *testing.T) {
		clearEnv()
		os.Setenv("PHARMACY_APP_NAME", "test-app")
		os.Setenv("PHARMACY_APP_ENV", "testing")
		os.Setenv("PHARMACY_APP_PORT", "9000")
		os.Setenv("PHARMACY_DATABASE_HOST", "testdb.local")
		os.Setenv("PHARMACY_DATABASE_PORT", "5433")
		os.Setenv("PHARMACY_DATABASE_USER", "testuser")
		os.Setenv("PHARMACY_DATABASE_PASSWORD", "testpass")
		os.Setenv("PHARMACY_DATABASE_DBNAME", "testdb")
		os.Setenv("PHARMACY_DATABASE_SSLMODE", "require")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "test-app", cfg.App.Name)
		assert.Equal(t, "testing", cfg.App.Env)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "testdb.local", cfg.Database.Host)
		assert.Equal(t, 5433, cfg.Database.Port)
		assert.Equal(t, "testuser", cfg.Database.User)
		assert.Equal(t, "testpass", cfg.Database.Password)
		assert.Equal(t, "testdb", cfg.Database.DBName)
		assert.Equal(t, "require", cfg.Database.SSLMode)
	})

	t.Run("validates MaxIdleConns cannot exceed MaxOpenConns", func(t *testing.T) {
		clearEnv()
		os.Setenv("PHARMACY_DATABASE_MAX_OPEN_CONNS", "10")
		os.Setenv("PHARMACY_DATABASE_MAX_IDLE_CONNS", "20")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_idle_conns")
	})

	t.Run("production requires a database password", func(t *testing.T) {
		clearEnv()
		os.Setenv("PHARMACY_APP_ENV", "production")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "password")
	})

	t.Run("production rejects sslmode disable", func(t *testing.T) {
		clearEnv()
		os.Setenv("PHARMACY_APP_ENV", "production")
		os.Setenv("PHARMACY_DATABASE_PASSWORD", "secret")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sslmode")
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := &DatabaseConfig{
		Host:     "db.internal",
		Port:     5432,
		User:     "pharmacy",
		Password: "p@ss/word",
		DBName:   "ledger",
		SSLMode:  "require",
	}

	dsn := d.DSN()
	assert.Contains(t, dsn, "postgres://")
	assert.Contains(t, dsn, "db.internal:5432")
	assert.Contains(t, dsn, "sslmode=require")
	// Special characters in the password must be escaped
	assert.NotContains(t, dsn, "p@ss/word")
}
