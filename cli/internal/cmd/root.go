package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/courtside-app/courtside/cli/pkg/auth"
	"github.com/courtside-app/courtside/cli/pkg/client"
	"github.com/courtside-app/courtside/cli/pkg/config"
	clierrors "github.com/courtside-app/courtside/cli/pkg/errors"
	"github.com/courtside-app/courtside/cli/pkg/logger"
	"github.com/courtside-app/courtside/cli/pkg/output"
	"github.com/spf13/cobra"
)

var (
	verbose    bool
	configPath string
	outputFmt  string
)

var rootCmd = &cobra.Command{
	Use:   "courtside",
	Short: "Courtside CLI - find players and share your game",
	Long: `Courtside is a command-line client for the Courtside tennis
community. Read the feed, post about matches, message other players and
find partners near you directly from the terminal.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Init(configPath); err != nil {
			return fmt.Errorf("error initializing config: %w", err)
		}

		logger.Init(verbose)

		if cmd.Flags().Changed("output") {
			if !output.ValidateOutputFormat(outputFmt) {
				return clierrors.ValidationError("output", "must be text, json or table")
			}
			config.Set("output.format", outputFmt)
		}

		client.Init()
		return nil
	},
}

// Execute runs the root command and exits non-zero on failure
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprint(os.Stderr, clierrors.FormatError(err))
		os.Exit(clierrors.ExitCode(err))
	}
}

// requireAdmin restores the session and checks the admin flag stored at
// login. The server enforces the same rule.
func requireAdmin() error {
	creds, err := auth.RequireSession()
	if err != nil {
		return err
	}
	if !creds.IsAdmin {
		return clierrors.NewCLIError(clierrors.ErrorTypeForbidden, "this command requires an admin account", nil)
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default: ~/.config/courtside/config.toml)")
	rootCmd.PersistentFlags().StringVarP(&outputFmt, "output", "o", "text", "Output format: text, json, table")

	rootCmd.AddCommand(authCmd)
	rootCmd.AddCommand(feedCmd)
	rootCmd.AddCommand(postCmd)
	rootCmd.AddCommand(messageCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(discoverCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(adminCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(completionCmd)
	rootCmd.AddCommand(versionCmd)
}
