package main

import (
	"context"
	"fmt"
	"os"

	"github.com/courtside-app/courtside/backend/internal/config"
	"github.com/courtside-app/courtside/backend/internal/database"
	"github.com/courtside-app/courtside/backend/internal/logger"
	"github.com/courtside-app/courtside/backend/internal/seed"
	"go.uber.org/zap"
)

func main() {
	command := "dev"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}
	if command != "dev" && command != "test" && command != "clean" {
		fmt.Println("Usage: seed [dev|test|clean]")
		fmt.Println("  dev   - Seed development database with realistic data")
		fmt.Println("  test  - Seed test database with a fixed cast (alice, bob, charlie, diana, eve)")
		fmt.Println("  clean - Remove all seed data (every @" + seed.SeedEmailDomain + " account)")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Initialize(cfg.LogLevel, cfg.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Close()

	if cfg.IsProduction() && command != "clean" {
		logger.Log.Fatal("Refusing to seed a production database")
	}

	if err := database.Initialize(cfg.DatabaseURL, false); err != nil {
		logger.FatalWithFields("Failed to connect to database", err)
	}
	defer database.Close()

	if err := database.Migrate(database.DB); err != nil {
		logger.FatalWithFields("Failed to run migrations", err)
	}

	ctx := context.Background()
	seeder := seed.NewSeeder(database.DB)

	switch command {
	case "dev":
		counts := seed.DefaultCounts()
		logger.Log.Info("Seeding development database", zap.Int("players", counts.Players), zap.Int("posts", counts.Posts))
		err = seeder.SeedDev(ctx, counts)
	case "test":
		logger.Log.Info("Seeding test database")
		err = seeder.SeedTest(ctx)
	case "clean":
		logger.Log.Warn("Removing seed data")
		err = seeder.Clean(ctx)
	}
	if err != nil {
		logger.FatalWithFields("Seeding failed", err)
	}

	logger.Log.Info("Done", zap.String("command", command),
		zap.String("login", "any seeded username @"+seed.SeedEmailDomain+" / "+seed.DefaultPassword))
}
