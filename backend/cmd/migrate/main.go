package main

import (
	"fmt"
	"os"

	"github.com/courtside-app/courtside/backend/internal/config"
	"github.com/courtside-app/courtside/backend/internal/database"
	"github.com/courtside-app/courtside/backend/internal/logger"
)

func main() {
	command := "up"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	if command != "up" {
		fmt.Println("Usage: migrate [up]")
		fmt.Println("  up - Create or update every table and index")
		fmt.Println("Schema changes are made on the models in internal/models; rollbacks are not supported.")
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

	if err := database.Initialize(cfg.DatabaseURL, cfg.LogLevel == "debug"); err != nil {
		logger.FatalWithFields("Failed to connect to database", err)
	}
	defer database.Close()

	logger.Log.Info("Running migrations...")
	if err := database.Migrate(database.DB); err != nil {
		logger.FatalWithFields("Migration failed", err)
	}
	logger.Log.Info("All migrations completed successfully")
}
