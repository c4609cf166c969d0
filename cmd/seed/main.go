// Package main заполняет базу супер-администратором и стандартными планами.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/adarsh1278/HSass-backend/internal/app/seed"
	"github.com/adarsh1278/HSass-backend/internal/config"
	"github.com/adarsh1278/HSass-backend/internal/lib/password"
	"github.com/adarsh1278/HSass-backend/internal/lib/sl"
	"github.com/adarsh1278/HSass-backend/internal/migrations"
	"github.com/adarsh1278/HSass-backend/internal/storage/repository"
)

func main() {
	cfg := config.MustLoad()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		logger.Error("failed to connect to database", sl.Err(err))
		os.Exit(1)
	}
	defer db.Close()

	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		logger.Error("failed to apply migrations", sl.Err(err))
		os.Exit(1)
	}

	if err = seed.Run(ctx, db, password.Hasher{}, cfg.Seed, logger); err != nil {
		logger.Error("seeding failed", sl.Err(err))
		os.Exit(1)
	}

	logger.Warn("default super admin password is in use, change it in production",
		slog.String("email", cfg.SuperAdminEmail))
	logger.Info("database seeding completed")
}
