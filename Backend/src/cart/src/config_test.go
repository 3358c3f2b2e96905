package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearCartEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"CART_HTTP_ADDR", "CART_GRPC_ADDR", "CART_DB_DRIVER", "CART_DB_PATH",
		"RABBIT_URL", "RABBIT_EXCHANGE", "CART_SEED_FILE", "CART_SEED_ON_START",
		"CART_RECIPE_CACHE_SIZE", "CART_CORS_ORIGINS", "LOG_LEVEL", "LOG_FORMAT",
		"CART_SHUTDOWN_GRACE",
	} {
		// t.Setenv restaura el valor al terminar; godotenv no pisa variables
		// ya definidas, por eso ademas se quitan.
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearCartEnv(t)
	chdir(t, t.TempDir()) // sin .env

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, ":50061", cfg.GRPCAddr)
	assert.Equal(t, DriverModernc, cfg.DBDriver)
	assert.Equal(t, "./data/cart.db", cfg.DBPath)
	assert.Empty(t, cfg.RabbitURL)
	assert.Equal(t, "domain_events", cfg.RabbitExchange)
	assert.True(t, cfg.SeedOnStart)
	assert.Equal(t, 128, cfg.RecipeCacheSize)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, 10*time.Second, cfg.ShutdownGrace)
}

func TestLoadConfig_FromEnvFile(t *testing.T) {
	clearCartEnv(t)
	path := filepath.Join(t.TempDir(), "cart.env")
	require.NoError(t, os.WriteFile(path, []byte(
		"CART_DB_DRIVER=sqlite3\n"+
			"CART_SEED_ON_START=false\n"+
			"CART_RECIPE_CACHE_SIZE=16\n"+
			"CART_CORS_ORIGINS=http://a.test, http://b.test\n"+
			"CART_SHUTDOWN_GRACE=3s\n"), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, DriverMattn, cfg.DBDriver)
	assert.False(t, cfg.SeedOnStart)
	assert.Equal(t, 16, cfg.RecipeCacheSize)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
	assert.Equal(t, 3*time.Second, cfg.ShutdownGrace)
}

func TestLoadConfig_Invalid(t *testing.T) {
	cases := map[string]string{
		"CART_SEED_ON_START":     "maybe",
		"CART_RECIPE_CACHE_SIZE": "lots",
		"CART_SHUTDOWN_GRACE":    "soon",
		"CART_DB_DRIVER":         "postgres",
	}
	for key, val := range cases {
		t.Run(key, func(t *testing.T) {
			clearCartEnv(t)
			chdir(t, t.TempDir())
			t.Setenv(key, val)

			_, err := LoadConfig("")
			require.Error(t, err)
			assert.Contains(t, err.Error(), key)
		})
	}
}

func TestLoadConfig_MissingEnvFile(t *testing.T) {
	clearCartEnv(t)
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.env"))
	require.Error(t, err)
}
