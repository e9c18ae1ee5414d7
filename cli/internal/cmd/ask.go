package cmd

import (
	"strings"

	"github.com/courtside-app/courtside/cli/pkg/auth"
	"github.com/courtside-app/courtside/cli/pkg/service"
	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask the coaching assistant",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := auth.RequireSession(); err != nil {
			return err
		}
		return service.NewAssistantService().Ask(cmd.Context(), strings.Join(args, " "))
	},
}
