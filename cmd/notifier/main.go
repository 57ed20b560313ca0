package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	_ "time/tzdata"

	environment "subtracker/internal/env"
)

func main() {
	ctx := context.Background()

	env, err := environment.Setup(ctx)
	if err != nil {
		log.Fatalf("Failed to setup environment: %v", err)
	}

	logger := env.Logger
	logger.Info("Starting subtracker notifier")

	for name, srv := range map[string]*http.Server{
		"observability": env.Servers.HTTP.Observability,
		"api":           env.Servers.HTTP.API,
	} {
		if srv == nil {
			continue
		}
		go func(name string, srv *http.Server) {
			logger.Info("Starting HTTP server", slog.String("server", name), slog.String("addr", srv.Addr))
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("HTTP server error", slog.String("server", name), slog.Any("error", err))
			}
		}(name, srv)
	}

	if err := env.Services.WorkerManager.Start(); err != nil {
		logger.Error("Failed to start workers", slog.Any("error", err))
		shutdown(env)
		os.Exit(1)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("Notifier started. Press Ctrl+C to stop.")
	<-quit

	logger.Info("Shutting down application...")
	shutdown(env)
	logger.Info("Application stopped")
}

func shutdown(env *environment.Env) {
	logger := env.Logger

	shutdownCtx, cancel := context.WithTimeout(context.Background(), env.Config.ShutdownDuration)
	defer cancel()

	env.Services.WorkerManager.Stop()

	for _, srv := range []*http.Server{env.Servers.HTTP.API, env.Servers.HTTP.Observability} {
		if srv == nil {
			continue
		}
		if err := srv.Shutdown(shutdownCtx); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server shutdown error", slog.String("addr", srv.Addr), slog.Any("error", err))
		}
	}

	for _, closer := range env.Closers {
		closer()
	}
}
