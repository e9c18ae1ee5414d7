package cmd

import (
	"strings"

	"github.com/courtside-app/courtside/cli/pkg/auth"
	"github.com/courtside-app/courtside/cli/pkg/service"
	"github.com/spf13/cobra"
)

var messagePage int

var messageCmd = &cobra.Command{
	Use:     "message",
	Aliases: []string{"msg"},
	Short:   "Direct message commands",
}

// messageService restores the session so sent and received messages can be told apart
func messageService() (*service.MessageService, error) {
	creds, err := auth.RequireSession()
	if err != nil {
		return nil, err
	}
	return service.NewMessageService(creds.UserID), nil
}

var messageSendCmd = &cobra.Command{
	Use:   "send <user-id> <body>",
	Short: "Send a direct message",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ms, err := messageService()
		if err != nil {
			return err
		}
		return ms.Send(cmd.Context(), args[0], strings.Join(args[1:], " "))
	},
}

var messageListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your conversations",
	RunE: func(cmd *cobra.Command, args []string) error {
		ms, err := messageService()
		if err != nil {
			return err
		}
		return ms.List(cmd.Context(), messagePage)
	},
}

var messageThreadCmd = &cobra.Command{
	Use:   "thread <user-id>",
	Short: "Show the conversation with a player and mark it read",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ms, err := messageService()
		if err != nil {
			return err
		}
		return ms.Thread(cmd.Context(), args[0], messagePage)
	},
}

func init() {
	messageListCmd.Flags().IntVar(&messagePage, "page", 1, "Page number")
	messageThreadCmd.Flags().IntVar(&messagePage, "page", 1, "Page number")

	messageCmd.AddCommand(messageSendCmd)
	messageCmd.AddCommand(messageListCmd)
	messageCmd.AddCommand(messageThreadCmd)
}
