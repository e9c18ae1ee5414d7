package cmd

import (
	"github.com/courtside-app/courtside/cli/pkg/api"
	"github.com/courtside-app/courtside/cli/pkg/service"
	"github.com/spf13/cobra"
)

var (
	loginEmail    string
	loginPassword string
	registerReq   api.RegisterRequest
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authentication commands",
	Long:  "Manage your Courtside session",
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Login to Courtside",
	Long:  "Authenticate with email and password. Missing values are prompted for.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewAuthService(nil).Login(cmd.Context(), loginEmail, loginPassword)
	},
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a new Courtside account",
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewAuthService(nil).Register(cmd.Context(), registerReq)
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Logout from Courtside",
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewAuthService(nil).Logout()
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Display the logged in user",
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewAuthService(nil).Whoami(cmd.Context())
	},
}

func init() {
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "Account email")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "Account password (prompted when omitted)")

	registerCmd.Flags().StringVar(&registerReq.Email, "email", "", "Account email")
	registerCmd.Flags().StringVar(&registerReq.Username, "username", "", "Username")
	registerCmd.Flags().StringVar(&registerReq.DisplayName, "name", "", "Display name")

	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(registerCmd)
	authCmd.AddCommand(logoutCmd)
	authCmd.AddCommand(whoamiCmd)
}
