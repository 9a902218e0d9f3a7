// Command migrate applies or rolls back the embedded SQL migrations.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"strings"

	"chorus/internal/config"
	"chorus/internal/database"
	"chorus/internal/observability"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func usage() error {
	return fmt.Errorf("usage: go run ./cmd/migrate <up|down|status>")
}

func run() error {
	flag.Parse()
	if flag.NArg() < 1 {
		return usage()
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger, err := observability.NewLogger(cfg.LogLevel, cfg.Env)
	if err != nil {
		return err
	}

	db, _, err := database.Connect(cfg, logger, database.ConnectOptions{})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}

	migrator, err := database.NewMigrator(db, logger)
	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}

	ctx := context.Background()
	switch strings.ToLower(strings.TrimSpace(flag.Arg(0))) {
	case "up":
		if err := migrator.Up(ctx); err != nil {
			return fmt.Errorf("sql migrations failed: %w", err)
		}
		logger.Info("sql migrations applied")
	case "down":
		if err := migrator.Down(ctx); err != nil {
			return fmt.Errorf("rollback failed: %w", err)
		}
	case "status":
		applied, pending, err := migrator.Status(ctx)
		if err != nil {
			return fmt.Errorf("migration status failed: %w", err)
		}
		logger.Info("migration status", slog.Int("applied", len(applied)), slog.Int("pending", len(pending)))
		for _, m := range pending {
			logger.Info("pending migration", slog.String("migration", m.String()))
		}
	default:
		return usage()
	}
	return nil
}
