package cmd

import (
	"github.com/courtside-app/courtside/cli/pkg/service"
	"github.com/spf13/cobra"
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Admin commands (requires admin account)",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := rootCmd.PersistentPreRunE(cmd, args); err != nil {
			return err
		}
		return requireAdmin()
	},
}

var adminCacheStatsCmd = &cobra.Command{
	Use:   "cache-stats",
	Short: "Show response cache hit ratios",
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewAdminService().CacheStats(cmd.Context())
	},
}

func init() {
	adminCmd.AddCommand(adminCacheStatsCmd)
}
