package service

import (
	"context"
	"fmt"
	"io"

	"github.com/courtside-app/courtside/cli/pkg/api"
	"github.com/courtside-app/courtside/cli/pkg/output"
)

// SettingsService manages the caller's key/value settings
type SettingsService struct{}

func NewSettingsService() *SettingsService {
	return &SettingsService{}
}

func (s *SettingsService) List(ctx context.Context) error {
	all, err := api.ListSettings(ctx)
	if err != nil {
		return fmt.Errorf("failed to list settings: %w", err)
	}
	return output.Render(all, func(w io.Writer) {
		if len(all) == 0 {
			fmt.Fprintln(w, "No settings stored.")
			return
		}
		rows := make([][]string, len(all))
		for i, st := range all {
			rows[i] = []string{st.Key, st.Value}
		}
		output.PrintTable([]string{"KEY", "VALUE"}, rows)
	})
}

func (s *SettingsService) Get(ctx context.Context, key string) error {
	st, err := api.GetSetting(ctx, key)
	if err != nil {
		return fmt.Errorf("failed to read setting %q: %w", key, err)
	}
	return output.Render(st, func(w io.Writer) {
		fmt.Fprintln(w, st.Value)
	})
}

func (s *SettingsService) Set(ctx context.Context, key, value string) error {
	st, err := api.PutSetting(ctx, key, value)
	if err != nil {
		return fmt.Errorf("failed to store setting %q: %w", key, err)
	}
	return output.Render(st, func(w io.Writer) {
		output.PrintSuccess("%s = %s", st.Key, st.Value)
	})
}

func (s *SettingsService) Remove(ctx context.Context, key string) error {
	if err := api.DeleteSetting(ctx, key); err != nil {
		return fmt.Errorf("failed to remove setting %q: %w", key, err)
	}
	return output.Render(map[string]interface{}{"deleted": true, "key": key}, func(w io.Writer) {
		output.PrintSuccess("Removed %s", key)
	})
}

// AdminService wraps the admin-only endpoints
type AdminService struct{}

func NewAdminService() *AdminService {
	return &AdminService{}
}

// CacheStats prints the hit ratio of each server-side response cache
func (s *AdminService) CacheStats(ctx context.Context) error {
	stats, err := api.GetCacheStats(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch cache stats: %w", err)
	}
	return output.Render(stats, func(w io.Writer) {
		rows := make([][]string, len(stats))
		for i, st := range stats {
			rows[i] = []string{
				st.Name,
				fmt.Sprintf("%d", st.Hits),
				fmt.Sprintf("%d", st.Misses),
				fmt.Sprintf("%.1f%%", st.HitRatio*100),
				st.TTL,
			}
		}
		output.PrintTable([]string{"CACHE", "HITS", "MISSES", "HIT RATIO", "TTL"}, rows)
	})
}
