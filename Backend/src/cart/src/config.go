package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	HTTPAddr        string
	GRPCAddr        string
	DBDriver        string
	DBPath          string
	RabbitURL       string
	RabbitExchange  string
	SeedFile        string
	SeedOnStart     bool
	RecipeCacheSize int
	CORSOrigins     []string
	LogLevel        string
	LogFormat       string
	ShutdownGrace   time.Duration
}

// LoadConfig lee las variables de entorno, cargando antes envFile (o .env)
// si existe.
func LoadConfig(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return Config{}, fmt.Errorf("load env file %s: %w", envFile, err)
		}
	} else {
		_ = godotenv.Load()
	}

	cfg := Config{
		HTTPAddr:       getenv("CART_HTTP_ADDR", ":8080"),
		GRPCAddr:       getenv("CART_GRPC_ADDR", ":50061"),
		DBDriver:       getenv("CART_DB_DRIVER", DriverModernc),
		DBPath:         getenv("CART_DB_PATH", "./data/cart.db"),
		RabbitURL:      getenv("RABBIT_URL", ""),
		RabbitExchange: getenv("RABBIT_EXCHANGE", "domain_events"),
		SeedFile:       getenv("CART_SEED_FILE", ""),
		CORSOrigins:    splitList(getenv("CART_CORS_ORIGINS", "*")),
		LogLevel:       getenv("LOG_LEVEL", "info"),
		LogFormat:      getenv("LOG_FORMAT", ""),
	}

	var err error
	if cfg.SeedOnStart, err = strconv.ParseBool(getenv("CART_SEED_ON_START", "true")); err != nil {
		return Config{}, fmt.Errorf("CART_SEED_ON_START: %w", err)
	}
	if cfg.RecipeCacheSize, err = strconv.Atoi(getenv("CART_RECIPE_CACHE_SIZE", "128")); err != nil {
		return Config{}, fmt.Errorf("CART_RECIPE_CACHE_SIZE: %w", err)
	}
	if cfg.ShutdownGrace, err = time.ParseDuration(getenv("CART_SHUTDOWN_GRACE", "10s")); err != nil {
		return Config{}, fmt.Errorf("CART_SHUTDOWN_GRACE: %w", err)
	}
	if cfg.DBDriver != DriverModernc && cfg.DBDriver != DriverMattn {
		return Config{}, fmt.Errorf("CART_DB_DRIVER: unsupported driver %q", cfg.DBDriver)
	}
	return cfg, nil
}

func (c Config) log() {
	log.Info().
		Str("http", c.HTTPAddr).
		Str("grpc", c.GRPCAddr).
		Str("driver", c.DBDriver).
		Str("db", c.DBPath).
		Bool("events", c.RabbitURL != "").
		Str("exchange", c.RabbitExchange).
		Int("recipe_cache", c.RecipeCacheSize).
		Msg("[cart] config loaded")
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
