// Command server runs the chorus HTTP API.
package main

import (
	"context"
	"log"
	"log/slog"
	"time"

	"chorus/internal/bootstrap"
	"chorus/internal/config"
	"chorus/internal/server"
)

// @title Chorus API
// @version 1.0
// @description Social feed API with posts, likes, comments and follows

// @contact.name API Support

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8375
// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()
	rt, err := bootstrap.InitRuntime(ctx, cfg, bootstrap.Options{
		AutoMigrate: !cfg.IsProduction(),
		ServiceName: "chorus-api",
	})
	if err != nil {
		log.Fatalf("Failed to initialize runtime: %v", err)
	}

	srv := server.NewServer(rt)
	runErr := srv.Run()

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := rt.Close(shutdownCtx); err != nil {
		rt.Logger.Error("runtime shutdown error", slog.String("error", err.Error()))
	}
	if runErr != nil {
		log.Fatalf("Server error: %v", runErr)
	}
	rt.Logger.Info("server stopped")
}
