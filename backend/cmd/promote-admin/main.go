package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/courtside-app/courtside/backend/internal/config"
	"github.com/courtside-app/courtside/backend/internal/database"
	"github.com/courtside-app/courtside/backend/internal/logger"
	"github.com/courtside-app/courtside/backend/internal/repository"
	"go.uber.org/zap"
)

func main() {
	email := flag.String("email", "", "Email address of user to promote to admin")
	revoke := flag.Bool("revoke", false, "Revoke admin privileges instead of granting")
	flag.Parse()

	if *email == "" {
		fmt.Println("Usage: promote-admin -email=user@example.com [-revoke]")
		os.Exit(2)
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

	if err := database.Initialize(cfg.DatabaseURL, false); err != nil {
		logger.FatalWithFields("Failed to initialize database", err)
	}
	defer database.Close()

	ctx := context.Background()
	users := repository.NewUserRepository(database.DB)

	user, err := users.GetUserByEmail(ctx, *email)
	if err != nil {
		logger.Log.Fatal("User not found", zap.String("email", *email), zap.Error(err))
	}

	grant := !*revoke
	if user.IsAdmin == grant {
		logger.Log.Info("Nothing to do", zap.String("username", user.Username), zap.Bool("is_admin", user.IsAdmin))
		return
	}

	if err := users.SetAdmin(ctx, user.ID, grant); err != nil {
		logger.FatalWithFields("Failed to update admin flag", err)
	}

	logger.Log.Info("Admin flag updated",
		zap.String("username", user.Username),
		zap.String("user_id", user.ID),
		zap.Bool("is_admin", grant))
	if grant {
		// the flag is read per request, so existing tokens pick it up
		fmt.Printf("%s (%s) is now an admin\n", user.Username, user.Email)
	}
}
