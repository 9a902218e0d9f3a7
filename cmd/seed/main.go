// Command seed populates an empty development database with demo data.
package main

import (
	"context"
	"flag"
	"log"

	"chorus/internal/config"
	"chorus/internal/database"
	"chorus/internal/observability"
	"chorus/internal/seed"
)

func main() {
	defaults := seed.DefaultOptions()
	numUsers := flag.Int("users", defaults.NumUsers, "Number of users to create")
	maxPosts := flag.Int("posts-per-user", defaults.MaxPostsPerUser, "Maximum posts per user")
	maxFollows := flag.Int("follows", defaults.MaxFollows, "Maximum accounts each user follows")
	randSeed := flag.Int64("seed", 0, "Random seed (0 = time based)")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.IsProduction() {
		log.Fatal("Refusing to seed a production database")
	}

	logger, err := observability.NewLogger(cfg.LogLevel, cfg.Env)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}

	db, _, err := database.Connect(cfg, logger, database.ConnectOptions{AutoMigrate: true})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	res, err := seed.NewSeeder(db, seed.Options{
		NumUsers:        *numUsers,
		MaxPostsPerUser: *maxPosts,
		MaxFollows:      *maxFollows,
		RandSeed:        *randSeed,
	}, logger).Run(context.Background())
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
	if !res.Skipped {
		log.Printf("All seeded users have the password: %s", seed.DemoPassword)
	}
}
