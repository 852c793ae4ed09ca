package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	httphandler "github.com/ericfisherdev/opticatalog/internal/adapter/driving/http"
	webhandler "github.com/ericfisherdev/opticatalog/internal/adapter/driving/web"
	"github.com/ericfisherdev/opticatalog/internal/bootstrap"
	"github.com/ericfisherdev/opticatalog/internal/config"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load configuration (fail fast on invalid env vars).
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.Info("config loaded",
		"listen_addr", cfg.ListenAddr,
		"storage", cfg.Storage,
		"password_hasher", cfg.PasswordHasher,
		"session_ttl", cfg.SessionTTL,
	)

	// 2. Setup signal-based context (SIGINT, SIGTERM).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Open the configured storage backend.
	stores, err := bootstrap.OpenStores(ctx, cfg, slog.Default())
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := stores.Close(); closeErr != nil {
			slog.Error("error closing storage", "error", closeErr)
		}
	}()

	// 4. Wire application services; writes the default credential on first start.
	svc, err := bootstrap.NewServices(ctx, cfg, stores, slog.Default())
	if err != nil {
		return err
	}
	if warning, err := svc.Auth.DefaultCredentialWarning(ctx); err == nil && warning != "" {
		slog.Warn("default admin password in use", "hint", "change it from the admin panel or with catalogctl passwd")
	}

	// 5. Register API routes.
	mux := http.NewServeMux()
	apiHandler := httphandler.NewHandler(svc.Catalog, svc.Auth, slog.Default())
	httphandler.RegisterAPIRoutes(mux, apiHandler)

	// 6. Register web GUI routes.
	sessions := webhandler.NewSessionStore(cfg.SessionTTL)
	webHandler := webhandler.NewHandler(svc.Catalog, svc.Auth, sessions, slog.Default())
	webhandler.RegisterRoutes(mux, webHandler)

	// Apply middleware.
	handler := httphandler.ApplyMiddleware(mux, slog.Default())

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("http server starting", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	slog.Info("opticatalog started", "listen_addr", cfg.ListenAddr, "storage", cfg.Storage)

	// 7. Wait for shutdown signal or a listener failure.
	select {
	case <-ctx.Done():
		slog.Info("shutting down")
	case err := <-serveErr:
		if err != nil {
			return err
		}
	}

	// 8. Graceful shutdown with 10s timeout to drain in-flight requests.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http server shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
	return nil
}
