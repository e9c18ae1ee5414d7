package cmd

import (
	"fmt"

	"github.com/courtside-app/courtside/cli/pkg/client"
	"github.com/spf13/cobra"
)

// Version is set at build time with -ldflags "-X .../cmd.Version=..."
var Version = "0.1.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show CLI version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "Courtside CLI v%s\n", Version)
	},
}

func init() {
	client.UserAgent = "Courtside-CLI/" + Version
}
