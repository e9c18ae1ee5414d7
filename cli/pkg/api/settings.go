package api

import (
	"context"
	"sort"

	"github.com/courtside-app/courtside/cli/pkg/client"
)

// ListSettings returns every setting of the caller, sorted by key
func ListSettings(ctx context.Context) ([]Setting, error) {
	var result struct {
		Settings map[string]string `json:"settings"`
	}
	resp, err := client.GetClient().R().
		SetContext(ctx).
		SetResult(&result).
		Get("/api/v1/settings")
	if err := CheckResponse(resp, err); err != nil {
		return nil, err
	}

	out := make([]Setting, 0, len(result.Settings))
	for k, v := range result.Settings {
		out = append(out, Setting{Key: k, Value: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

// GetSetting reads one setting
func GetSetting(ctx context.Context, key string) (*Setting, error) {
	var result Setting
	resp, err := client.GetClient().R().
		SetContext(ctx).
		SetPathParam("key", key).
		SetResult(&result).
		Get("/api/v1/settings/{key}")
	if err := CheckResponse(resp, err); err != nil {
		return nil, err
	}
	return &result, nil
}

// PutSetting creates or replaces one setting
func PutSetting(ctx context.Context, key, value string) (*Setting, error) {
	var result Setting
	resp, err := client.GetClient().R().
		SetContext(ctx).
		SetPathParam("key", key).
		SetBody(map[string]string{"value": value}).
		SetResult(&result).
		Put("/api/v1/settings/{key}")
	if err := CheckResponse(resp, err); err != nil {
		return nil, err
	}
	return &result, nil
}

// DeleteSetting removes one setting
func DeleteSetting(ctx context.Context, key string) error {
	resp, err := client.GetClient().R().
		SetContext(ctx).
		SetPathParam("key", key).
		Delete("/api/v1/settings/{key}")
	return CheckResponse(resp, err)
}
