package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/courtside-app/courtside/cli/pkg/api"
	"github.com/courtside-app/courtside/cli/pkg/config"
	"github.com/courtside-app/courtside/cli/pkg/formatter"
	"github.com/courtside-app/courtside/cli/pkg/logger"
	"github.com/courtside-app/courtside/cli/pkg/output"
	"github.com/courtside-app/courtside/cli/pkg/pagination"
)

// PageFetcher loads one page of posts
type PageFetcher func(ctx context.Context, page, pageSize int) (*api.FeedResponse, error)

// FeedService provides feed-related operations
type FeedService struct {
	fetch    PageFetcher
	pageSize int
	maxPages int
	now      func() time.Time
}

// NewFeedService reads the home feed with feed.page_size and feed.max_pages
// from the config
func NewFeedService() *FeedService {
	return NewFeedServiceWith(api.GetFeed, config.GetInt("feed.page_size"), config.GetInt("feed.max_pages"))
}

// NewUserPostsService reads one user's posts
func NewUserPostsService(userID string) *FeedService {
	fetch := func(ctx context.Context, page, pageSize int) (*api.FeedResponse, error) {
		return api.GetUserPosts(ctx, userID, page, pageSize)
	}
	return NewFeedServiceWith(fetch, config.GetInt("feed.page_size"), config.GetInt("feed.max_pages"))
}

// NewFeedServiceWith builds a service over any page source
func NewFeedServiceWith(fetch PageFetcher, pageSize, maxPages int) *FeedService {
	if pageSize <= 0 {
		pageSize = pagination.DefaultPageSize
	}
	if maxPages <= 0 {
		maxPages = pagination.DefaultMaxPages
	}
	return &FeedService{fetch: fetch, pageSize: pageSize, maxPages: maxPages, now: time.Now}
}

// PageSize is the page size requested from the server
func (fs *FeedService) PageSize() int {
	return fs.pageSize
}

// NewController returns a pagination controller fed by this service
func (fs *FeedService) NewController() *pagination.Controller[api.Post] {
	return pagination.New(pagination.Options[api.Post]{
		PageSize: fs.pageSize,
		MaxPages: fs.maxPages,
		Logger:   logger.GetLogger(),
		OnLoadMore: func(ctx context.Context, page int) ([]api.Post, error) {
			resp, err := fs.fetch(ctx, page, fs.pageSize)
			if err != nil {
				return nil, err
			}
			return resp.Posts, nil
		},
	})
}

// ViewPage prints a single page
func (fs *FeedService) ViewPage(ctx context.Context, page int) error {
	logger.Debug("Viewing feed page", "page", page, "page_size", fs.pageSize)

	feed, err := fs.fetch(ctx, page, fs.pageSize)
	if err != nil {
		return fmt.Errorf("failed to fetch feed: %w", err)
	}

	return output.Render(feed, func(w io.Writer) {
		if len(feed.Posts) == 0 {
			fmt.Fprintln(w, "No posts on this page.")
			return
		}
		formatter.WritePosts(w, feed.Posts, fs.now())
		if feed.HasMore {
			formatter.Faint.Fprintf(w, "\nMore posts: --page %d\n", page+1)
		}
	})
}

// CollectAll drives the controller until the feed is exhausted, MaxPages is
// reached or a fetch fails. The posts gathered so far are returned together
// with the failure.
func (fs *FeedService) CollectAll(ctx context.Context) (pagination.State[api.Post], error) {
	c := fs.NewController()
	for c.LoadMore(ctx) {
		if c.Err() != "" {
			break
		}
	}

	state := c.State()
	logger.Debug("Feed collected", "posts", len(state.Items), "next_page", state.Page, "has_more", state.HasMore)
	if state.Err != "" {
		return state, fmt.Errorf("stopped at page %d: %s", state.Page, state.Err)
	}
	return state, nil
}

// ViewAll prints every post CollectAll gathers
func (fs *FeedService) ViewAll(ctx context.Context) error {
	state, fetchErr := fs.CollectAll(ctx)

	err := output.Render(state, func(w io.Writer) {
		if len(state.Items) == 0 {
			fmt.Fprintln(w, "No posts yet.")
			return
		}
		formatter.WritePosts(w, state.Items, fs.now())
		fmt.Fprintln(w)
		summary := fmt.Sprintf("%d posts from %d pages", len(state.Items), state.Page-1)
		if state.HasMore && fetchErr == nil {
			summary += fmt.Sprintf(" (stopped at the %d page limit)", fs.maxPages)
		}
		formatter.Faint.Fprintln(w, summary)
	})
	if err != nil {
		return err
	}
	return fetchErr
}
