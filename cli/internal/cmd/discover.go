package cmd

import (
	"github.com/courtside-app/courtside/cli/pkg/api"
	"github.com/courtside-app/courtside/cli/pkg/auth"
	clierrors "github.com/courtside-app/courtside/cli/pkg/errors"
	"github.com/courtside-app/courtside/cli/pkg/service"
	"github.com/spf13/cobra"
)

var discoverQuery api.DiscoverQuery

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Find players near a location",
	Long: `Find players near a location, closest first. Without --lat and --lng
the coordinates saved on your profile are used.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := auth.RequireSession(); err != nil {
			return err
		}

		q := discoverQuery
		flags := cmd.Flags()
		if flags.Changed("lat") != flags.Changed("lng") {
			return clierrors.ValidationError("lat", "--lat and --lng must be set together")
		}
		if !flags.Changed("lat") {
			me, err := api.GetMyProfile(cmd.Context())
			if err != nil {
				return err
			}
			if me.Latitude == nil || me.Longitude == nil {
				return clierrors.ValidationError("lat", "no location on your profile; pass --lat and --lng or run 'courtside profile update --lat --lng'")
			}
			q.Lat, q.Lng = *me.Latitude, *me.Longitude
		}
		return service.NewDiscoverService().Find(cmd.Context(), q)
	},
}

func init() {
	f := discoverCmd.Flags()
	f.Float64Var(&discoverQuery.Lat, "lat", 0, "Latitude")
	f.Float64Var(&discoverQuery.Lng, "lng", 0, "Longitude")
	f.Float64Var(&discoverQuery.RadiusKm, "radius", 0, "Search radius in km (server default when omitted)")
	f.Float64Var(&discoverQuery.MinSkill, "min-skill", 0, "Minimum skill level")
	f.Float64Var(&discoverQuery.MaxSkill, "max-skill", 0, "Maximum skill level")
	f.StringVar(&discoverQuery.Role, "role", "", "player or coach")
	f.IntVar(&discoverQuery.Page, "page", 1, "Page number")
}
