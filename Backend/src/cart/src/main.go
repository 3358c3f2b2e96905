package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var envFile string

	loadConfig := func() (Config, error) {
		cfg, err := LoadConfig(envFile)
		if err != nil {
			return Config{}, err
		}
		if err := setupLogger(cfg.LogLevel, cfg.LogFormat); err != nil {
			return Config{}, err
		}
		cfg.log()
		return cfg, nil
	}

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the gRPC admin server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg)
		},
	}

	root := &cobra.Command{
		Use:          "recipecart",
		Short:        "Recipe-based shopping cart service",
		SilenceUsage: true,
		RunE:         serve.RunE,
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", "", "load environment variables from this file instead of .env")

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			repo, err := openRepo(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer repo.Close()
			log.Info().Str("db", cfg.DBPath).Msg("schema up to date")
			return nil
		},
	}

	var seedFile string
	seedCmd := &cobra.Command{
		Use:   "seed",
		Short: "Load the product and recipe catalog",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if seedFile != "" {
				cfg.SeedFile = seedFile
			}
			repo, err := openRepo(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer repo.Close()
			return seedCatalog(cmd.Context(), repo, cfg.SeedFile)
		},
	}
	seedCmd.Flags().StringVar(&seedFile, "file", "", "YAML catalog (default: embedded catalog)")

	root.AddCommand(serve, migrateCmd, seedCmd)
	return root
}

func openRepo(ctx context.Context, cfg Config) (*sqliteRepo, error) {
	db, err := openSQLite(cfg.DBDriver, cfg.DBPath)
	if err != nil {
		return nil, err
	}
	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return NewSQLiteRepo(db), nil
}

func seedCatalog(ctx context.Context, repo *sqliteRepo, file string) error {
	cat, err := LoadCatalog(file)
	if err != nil {
		return err
	}
	if err := repo.Seed(ctx, cat); err != nil {
		return err
	}
	log.Info().
		Int("products", len(cat.Products)).
		Int("recipes", len(cat.Recipes)).
		Msg("seeded catalog")
	return nil
}

func runServe(ctx context.Context, cfg Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	repo, err := openRepo(ctx, cfg)
	if err != nil {
		return err
	}
	defer repo.Close()

	if cfg.SeedOnStart {
		if err := seedCatalog(ctx, repo, cfg.SeedFile); err != nil {
			return err
		}
	}

	var events Events
	rb, err := NewRabbit(cfg.RabbitURL, cfg.RabbitExchange)
	if err != nil {
		log.Warn().Err(err).Msg("RabbitMQ not available, continuing without events")
	} else if rb != nil {
		defer rb.Close()
		events = rb
	}

	recipes, err := NewCachedRecipes(repo, cfg.RecipeCacheSize)
	if err != nil {
		return err
	}
	svc := NewService(repo, recipes, events)

	// gRPC admin
	grpcSrv, healthSrv := newAdminServer()
	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		return err
	}
	// GracefulStop ya lo cierra; esto cubre los retornos de error previos
	defer lis.Close()
	cc, healthClient, err := dialHealth(lis.Addr())
	if err != nil {
		return err
	}
	defer cc.Close()

	handler, err := NewCartServer(svc).Handler(healthClient, cfg.CORSOrigins)
	if err != nil {
		return err
	}
	httpSrv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	// Señales para apagado limpio
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 2)
	go func() {
		log.Info().Str("addr", lis.Addr().String()).Msg("gRPC admin listening")
		if err := grpcSrv.Serve(lis); err != nil {
			errCh <- err
		}
	}()
	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("HTTP listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	setServing(healthSrv, true)

	var runErr error
	select {
	case <-ctx.Done():
		log.Warn().Msg("shutting down...")
	case runErr = <-errCh:
		log.Error().Err(runErr).Msg("server failed")
	}

	setServing(healthSrv, false)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownGrace)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil && runErr == nil {
		runErr = err
	}
	grpcSrv.GracefulStop()
	return runErr
}
