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

	webAdapter "employee-directory/internal/adapters/web"
	"employee-directory/internal/config"
	"employee-directory/internal/core"
	"employee-directory/internal/db"

	"github.com/joho/godotenv"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.Database.URL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	directory := core.NewDirectoryService(core.NewEmployeeStore(pool))
	users := core.NewUserService(core.NewIdentityStore(pool), core.DefaultAccounts{
		AdminEmail:       cfg.DefaultUsers.AdminEmail,
		AdminPassword:    cfg.DefaultUsers.AdminPassword,
		ReadOnlyEmail:    cfg.DefaultUsers.ReadOnlyEmail,
		ReadOnlyPassword: cfg.DefaultUsers.ReadOnlyPassword,
	})

	// Startup seeding. Roles first, then the example accounts that need
	// them, then the example directory rows. Any failure aborts startup.
	if err := users.EnsureRoles(ctx); err != nil {
		slog.Error("failed to ensure roles", "error", err)
		os.Exit(1)
	}
	if err := users.SeedExampleUsers(ctx); err != nil {
		slog.Error("failed to seed example users", "error", err)
		os.Exit(1)
	}
	if err := directory.SeedExamples(ctx); err != nil {
		slog.Error("failed to seed example employees", "error", err)
		os.Exit(1)
	}

	handler, err := webAdapter.NewHandler(
		directory, users,
		cfg.Server.AllowedOrigins,
		cfg.JWT.Secret,
		time.Duration(cfg.JWT.Expiration)*time.Second,
	)
	if err != nil {
		slog.Error("failed to build HTTP handler", "error", err)
		os.Exit(1)
	}

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Server.Port, "environment", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server stopped unexpectedly", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(ctx, time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
