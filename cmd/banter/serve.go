// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Banter Contributors

package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/banterchat/banter/internal/auth"
	authpg "github.com/banterchat/banter/internal/auth/postgres"
	"github.com/banterchat/banter/internal/chat"
	chatpg "github.com/banterchat/banter/internal/chat/postgres"
	"github.com/banterchat/banter/internal/config"
	"github.com/banterchat/banter/internal/logging"
	"github.com/banterchat/banter/internal/observability"
	"github.com/banterchat/banter/internal/realtime"
	"github.com/banterchat/banter/internal/store"
	"github.com/banterchat/banter/internal/web"
	"github.com/banterchat/banter/internal/xdg"
	"github.com/banterchat/banter/pkg/errutil"
)

const shutdownTimeout = 5 * time.Second

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the Banter chat server",
		Long: `Start the Banter chat server.

Serves the HTTP API and websocket endpoint on the listen address and
exposes metrics and health probes on the observability address.`,
		RunE: runServe,
	}

	cmd.Flags().String("listen-addr", "", "API listen address (default :8080)")
	cmd.Flags().String("observability-addr", "", "metrics and health listen address (default 127.0.0.1:9100)")
	cmd.Flags().String("log-format", "", "log format: json or text (default json)")
	cmd.Flags().String("log-level", "", "log level: debug, info, warn, error (default info)")
	cmd.Flags().Bool("auto-migrate", false, "apply pending database migrations on startup")

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	path := configFile
	if path == "" {
		path = xdg.DefaultConfigPath()
	}
	cfg, err := config.Load(path, cmd.Flags())
	if err != nil {
		return oops.With("operation", "load config").Wrap(err)
	}

	logging.SetDefault("banter", version, cfg.LogFormat, cfg.LogLevel)
	logger := slog.Default()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	autoMigrate, _ := cmd.Flags().GetBool("auto-migrate") //nolint:errcheck // flag is registered above
	if autoMigrate {
		if err := applyMigrations(cfg.DatabaseURL, logger); err != nil {
			return err
		}
	}

	pool, err := store.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return oops.With("operation", "connect database").Wrap(err)
	}
	defer pool.Close()

	hasher := auth.NewBcryptHasher()
	issuer, err := auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		return oops.With("operation", "create token issuer").Wrap(err)
	}

	userRepo := authpg.NewUserRepository(pool)
	authSvc, err := auth.NewService(userRepo, hasher, issuer, logger)
	if err != nil {
		return oops.With("operation", "create auth service").Wrap(err)
	}

	hub := realtime.NewHub(logger)
	defer hub.Close()

	messageRepo := chatpg.NewMessageRepository(pool)
	chatSvc, err := chat.NewService(messageRepo, userRepo, hub, logger)
	if err != nil {
		return oops.With("operation", "create chat service").Wrap(err)
	}

	obsServer := observability.NewServer(cfg.ObservabilityAddr, func() bool {
		pingCtx, pingCancel := context.WithTimeout(context.Background(), time.Second)
		defer pingCancel()
		return pool.Ping(pingCtx) == nil
	})
	obsErrCh, err := obsServer.Start()
	if err != nil {
		return oops.With("operation", "start observability server").Wrap(err)
	}

	router, err := web.NewRouter(logger, authSvc, chatSvc, hub, issuer, obsServer.Metrics(), web.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		SecureCookies:  cfg.SecureCookies,
	})
	if err != nil {
		return oops.With("operation", "create router").Wrap(err)
	}

	apiServer := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	apiErrCh := make(chan error, 1)
	go func() {
		defer close(apiErrCh)
		if serveErr := apiServer.ListenAndServe(); serveErr != nil && serveErr != http.ErrServerClosed {
			apiErrCh <- serveErr
		}
	}()

	logger.Info("banter server started",
		"listen_addr", cfg.ListenAddr,
		"observability_addr", obsServer.Addr(),
		"version", version)

	go monitorServerErrors(ctx, cancel, obsErrCh, "observability")
	go monitorServerErrors(ctx, cancel, apiErrCh, "api")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("received signal, shutting down", "signal", sig.String())
	case <-ctx.Done():
		logger.Info("server stopping")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		errutil.LogError(logger, "api server shutdown failed", err)
	}
	if err := obsServer.Stop(shutdownCtx); err != nil {
		errutil.LogError(logger, "observability server shutdown failed", err)
	}
	hub.Close()

	logger.Info("banter server stopped")
	return nil
}

// applyMigrations brings the schema up to date before the server accepts
// traffic.
func applyMigrations(databaseURL string, logger *slog.Logger) error {
	migrator, err := store.NewMigrator(databaseURL)
	if err != nil {
		return oops.With("operation", "create migrator").Wrap(err)
	}
	defer func() {
		if closeErr := migrator.Close(); closeErr != nil {
			errutil.LogError(logger, "failed to close migrator", closeErr)
		}
	}()

	if err := migrator.Up(); err != nil {
		return oops.With("operation", "apply migrations").Wrap(err)
	}
	logger.Info("database migrations applied")
	return nil
}

// monitorServerErrors watches a server's error channel and cancels the run
// context on failure so the process shuts down instead of limping along.
func monitorServerErrors(ctx context.Context, cancel context.CancelFunc, errCh <-chan error, name string) {
	select {
	case err, ok := <-errCh:
		if ok && err != nil {
			slog.Error("server failed", "server", name, "error", err)
			cancel()
		}
	case <-ctx.Done():
	}
}
