package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"levelup_api/internal/auth"
	"levelup_api/internal/catalog"
	"levelup_api/internal/config"
	"levelup_api/internal/middleware"
	"levelup_api/internal/routes"
	"levelup_api/internal/storage"
	"levelup_api/internal/storage/mariadb"
	"levelup_api/internal/storage/postgres"
	"levelup_api/internal/storage/sqlite"

	ssogrpc "levelup_api/internal/clients/sso/grpc"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {
	cfg := config.MustLoad()

	log := setupLogger(cfg.Env)

	log.Info("starting levelup",
		slog.String("env", cfg.Env),
		slog.String("driver", cfg.Database.Driver),
		slog.String("auth", cfg.Auth.Mode))

	store, err := openStorage(cfg.Database)
	if err != nil {
		log.Error("failed to open database", slog.String("error", err.Error()))
		os.Exit(1)
	}

	defer func() {
		if err := store.Close(); err != nil {
			log.Error("failed to close database", slog.String("error", err.Error()))
		}
	}()

	if err := store.Migrate(); err != nil {
		log.Error("migration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log.Info("database init")

	resolver, closeAuth, err := setupAuth(log, cfg)
	if err != nil {
		log.Error("failed to set up auth", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closeAuth()

	r := routes.SetupRouter(
		log,
		store,
		middleware.NewAuthMiddleware(resolver, log),
		catalog.New(cfg.Catalog.Timeout, cfg.Catalog.AllowedHosts, log),
		routes.Options{
			Cors:             cfg.Cors,
			EnforceOwnership: cfg.Events.EnforceOwnership,
		},
	)

	log.Info("routes init")

	server := &http.Server{
		Addr:         cfg.Address,
		Handler:      r,
		ReadTimeout:  cfg.Timeout,
		WriteTimeout: cfg.Timeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	serverErrors := make(chan error, 1)

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Info("listening", slog.String("address", cfg.Address))
		serverErrors <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		log.Error("server error", slog.String("error", err.Error()))
		return

	case sig := <-shutdown:
		log.Info("shutting down", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			log.Error("graceful shutdown error", slog.String("error", err.Error()))
			if err := server.Close(); err != nil {
				log.Error("force shutdown error", slog.String("error", err.Error()))
			}
		}
	}

	log.Info("server stopped")
}

func openStorage(cfg config.Database) (*storage.Storage, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		return postgres.New(cfg)
	case config.DriverSQLite:
		return sqlite.New(cfg.GetDSN())
	default:
		return mariadb.New(cfg)
	}
}

// setupAuth picks the identity resolver for cfg.Auth.Mode. This service only
// verifies credentials; jwt tokens are minted by an issuer sharing the secret.
func setupAuth(log *slog.Logger, cfg *config.Config) (auth.Resolver, func(), error) {
	noop := func() {}

	switch cfg.Auth.Mode {
	case config.AuthModeJWT:
		ts, err := auth.NewTokenService(cfg.Auth.Secret, cfg.Auth.Issuer, cfg.Auth.TokenTTL)
		if err != nil {
			return nil, noop, err
		}
		return ts, noop, nil

	case config.AuthModeSSO:
		client, err := ssogrpc.New(
			context.Background(),
			log,
			cfg.Clients.SSO.Address,
			cfg.Clients.SSO.Timeout,
			cfg.Clients.SSO.RetriesCount,
		)
		if err != nil {
			return nil, noop, err
		}
		closeClient := func() {
			if err := client.Close(); err != nil {
				log.Error("failed to close sso client", slog.String("error", err.Error()))
			}
		}
		return auth.NewSSOResolver(client), closeClient, nil
	}

	log.Warn("header auth trusts the Authorization value as the gamer uid")

	return auth.HeaderResolver{}, noop, nil
}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envDev, envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	default:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
		log.Warn("unknown env, logging as prod", slog.String("env", env))
	}

	return log
}
