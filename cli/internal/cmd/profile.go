package cmd

import (
	"github.com/courtside-app/courtside/cli/pkg/api"
	"github.com/courtside-app/courtside/cli/pkg/auth"
	"github.com/courtside-app/courtside/cli/pkg/service"
	"github.com/spf13/cobra"
)

var (
	profileName     string
	profileBio      string
	profileLocation string
	profileLat      float64
	profileLng      float64
	profileSkill    float64
	profileRole     string
	profilePlays    string
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Player profile commands",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := rootCmd.PersistentPreRunE(cmd, args); err != nil {
			return err
		}
		_, err := auth.RequireSession()
		return err
	},
}

var profileShowCmd = &cobra.Command{
	Use:   "show [user-id]",
	Short: "Show a profile, yours by default",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		userID := ""
		if len(args) == 1 {
			userID = args[0]
		}
		return service.NewProfileService().Show(cmd.Context(), userID)
	},
}

var profileUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update your profile",
	Long:  "Update your profile. Only the flags you pass are changed.",
	RunE: func(cmd *cobra.Command, args []string) error {
		var req api.UpdateProfileRequest
		flags := cmd.Flags()
		if flags.Changed("name") {
			req.DisplayName = &profileName
		}
		if flags.Changed("bio") {
			req.Bio = &profileBio
		}
		if flags.Changed("location") {
			req.Location = &profileLocation
		}
		if flags.Changed("lat") {
			req.Latitude = &profileLat
		}
		if flags.Changed("lng") {
			req.Longitude = &profileLng
		}
		if flags.Changed("skill") {
			req.SkillLevel = &profileSkill
		}
		if flags.Changed("role") {
			req.Role = &profileRole
		}
		if flags.Changed("plays") {
			req.Plays = &profilePlays
		}
		return service.NewProfileService().Update(cmd.Context(), req)
	},
}

var profileAvatarCmd = &cobra.Command{
	Use:   "avatar <image-path>",
	Short: "Upload a new avatar",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewProfileService().UploadAvatar(cmd.Context(), args[0])
	},
}

func init() {
	f := profileUpdateCmd.Flags()
	f.StringVar(&profileName, "name", "", "Display name")
	f.StringVar(&profileBio, "bio", "", "Short bio")
	f.StringVar(&profileLocation, "location", "", "City or club")
	f.Float64Var(&profileLat, "lat", 0, "Latitude of your home court")
	f.Float64Var(&profileLng, "lng", 0, "Longitude of your home court")
	f.Float64Var(&profileSkill, "skill", 0, "Skill level (1.0 to 7.0)")
	f.StringVar(&profileRole, "role", "", "player or coach")
	f.StringVar(&profilePlays, "plays", "", "right or left handed")

	profileCmd.AddCommand(profileShowCmd)
	profileCmd.AddCommand(profileUpdateCmd)
	profileCmd.AddCommand(profileAvatarCmd)
}
