package service

import (
	"context"
	"fmt"
	"io"

	"github.com/courtside-app/courtside/cli/pkg/api"
	"github.com/courtside-app/courtside/cli/pkg/formatter"
	"github.com/courtside-app/courtside/cli/pkg/output"
)

// ProfileService shows and edits player profiles
type ProfileService struct{}

func NewProfileService() *ProfileService {
	return &ProfileService{}
}

// Show prints the profile of userID, or the caller's own when empty
func (s *ProfileService) Show(ctx context.Context, userID string) error {
	var (
		u   *api.User
		err error
	)
	if userID == "" {
		u, err = api.GetMyProfile(ctx)
	} else {
		u, err = api.GetProfile(ctx, userID)
	}
	if err != nil {
		return fmt.Errorf("failed to fetch profile: %w", err)
	}
	return s.print(u)
}

// Update applies the set fields of req
func (s *ProfileService) Update(ctx context.Context, req api.UpdateProfileRequest) error {
	if req.Empty() {
		return fmt.Errorf("nothing to update: pass at least one field flag")
	}
	if (req.Latitude == nil) != (req.Longitude == nil) {
		return fmt.Errorf("--lat and --lng must be set together")
	}

	u, err := api.UpdateProfile(ctx, req)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	output.PrintSuccess("Profile updated")
	return s.print(u)
}

// UploadAvatar replaces the caller's avatar
func (s *ProfileService) UploadAvatar(ctx context.Context, path string) error {
	u, err := api.UploadAvatar(ctx, path)
	if err != nil {
		return fmt.Errorf("failed to upload avatar: %w", err)
	}
	return output.Render(u, func(w io.Writer) {
		output.PrintSuccess("Avatar updated: %s", u.AvatarURL)
	})
}

func (s *ProfileService) print(u *api.User) error {
	return output.Render(u, func(w io.Writer) {
		output.PrintRecord(u.DisplayName, formatter.ProfileFields(*u))
	})
}

// DiscoverService finds nearby players
type DiscoverService struct{}

func NewDiscoverService() *DiscoverService {
	return &DiscoverService{}
}

// Find prints players matching q, closest first
func (s *DiscoverService) Find(ctx context.Context, q api.DiscoverQuery) error {
	if q.Lat < -90 || q.Lat > 90 || q.Lng < -180 || q.Lng > 180 {
		return fmt.Errorf("coordinates out of range: %.4f, %.4f", q.Lat, q.Lng)
	}
	res, err := api.DiscoverPlayers(ctx, q)
	if err != nil {
		return fmt.Errorf("failed to discover players: %w", err)
	}

	return output.Render(res, func(w io.Writer) {
		if len(res.Players) == 0 {
			fmt.Fprintf(w, "No players within %.0f km.\n", res.RadiusKm)
			return
		}
		rows := make([][]string, 0, len(res.Players))
		for _, p := range res.Players {
			status := ""
			if p.Online {
				status = "online"
			}
			rows = append(rows, []string{
				fmt.Sprintf("%.1f km", p.DistanceKm),
				"@" + p.Username,
				p.DisplayName,
				formatter.Skill(p.SkillLevel),
				p.Role,
				p.Location,
				status,
			})
		}
		output.PrintTable([]string{"DISTANCE", "USERNAME", "NAME", "SKILL", "ROLE", "LOCATION", "STATUS"}, rows)
		if res.HasMore {
			formatter.Faint.Fprintf(w, "More players: --page %d\n", res.Page+1)
		}
	})
}
