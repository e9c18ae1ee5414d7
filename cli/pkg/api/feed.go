package api

import (
	"context"
	"strconv"

	"github.com/courtside-app/courtside/cli/pkg/client"
	"github.com/courtside-app/courtside/cli/pkg/logger"
)

func pageParams(page, pageSize int) map[string]string {
	params := map[string]string{"page": strconv.Itoa(page)}
	if pageSize > 0 {
		params["page_size"] = strconv.Itoa(pageSize)
	}
	return params
}

// GetFeed retrieves one page of the feed, newest first
func GetFeed(ctx context.Context, page, pageSize int) (*FeedResponse, error) {
	logger.Debug("Fetching feed", "page", page, "page_size", pageSize)

	var feed FeedResponse
	resp, err := client.GetClient().R().
		SetContext(ctx).
		SetQueryParams(pageParams(page, pageSize)).
		SetResult(&feed).
		Get("/api/v1/feed")
	if err := CheckResponse(resp, err); err != nil {
		return nil, err
	}
	return &feed, nil
}

// GetUserPosts retrieves one page of a user's posts
func GetUserPosts(ctx context.Context, userID string, page, pageSize int) (*FeedResponse, error) {
	logger.Debug("Fetching user posts", "user_id", userID, "page", page)

	var feed FeedResponse
	resp, err := client.GetClient().R().
		SetContext(ctx).
		SetPathParam("id", userID).
		SetQueryParams(pageParams(page, pageSize)).
		SetResult(&feed).
		Get("/api/v1/users/{id}/posts")
	if err := CheckResponse(resp, err); err != nil {
		return nil, err
	}
	return &feed, nil
}
