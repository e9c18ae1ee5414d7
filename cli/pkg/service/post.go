package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/courtside-app/courtside/cli/pkg/api"
	"github.com/courtside-app/courtside/cli/pkg/formatter"
	"github.com/courtside-app/courtside/cli/pkg/logger"
	"github.com/courtside-app/courtside/cli/pkg/output"
)

// PostTypes are the post types the server accepts
var PostTypes = []string{"general", "match", "looking_for_partner", "tip"}

// PostService creates and interacts with posts
type PostService struct {
	now func() time.Time
}

func NewPostService() *PostService {
	return &PostService{now: time.Now}
}

// CreatePostOptions are the optional parts of a new post
type CreatePostOptions struct {
	PostType  string
	ImagePath string
}

// Create publishes a post, uploading the image first when one is given
func (ps *PostService) Create(ctx context.Context, content string, opts CreatePostOptions) error {
	if opts.PostType != "" && !contains(PostTypes, opts.PostType) {
		return fmt.Errorf("invalid post type %q (want one of %v)", opts.PostType, PostTypes)
	}

	req := api.CreatePostRequest{Content: content, PostType: opts.PostType}
	if opts.ImagePath != "" {
		url, err := api.UploadPostImage(ctx, opts.ImagePath)
		if err != nil {
			return fmt.Errorf("failed to upload image: %w", err)
		}
		logger.Debug("Image uploaded", "url", url)
		req.ImageURL = url
	}

	post, err := api.CreatePost(ctx, req)
	if err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}

	return output.Render(post, func(w io.Writer) {
		output.PrintSuccess("Post published (%s)", post.ID)
		formatter.WritePost(w, *post, ps.now())
	})
}

// Show prints a post and its first page of comments
func (ps *PostService) Show(ctx context.Context, postID string) error {
	post, err := api.GetPost(ctx, postID)
	if err != nil {
		return fmt.Errorf("failed to fetch post: %w", err)
	}
	comments, err := api.GetComments(ctx, postID, 1, 20)
	if err != nil {
		return fmt.Errorf("failed to fetch comments: %w", err)
	}

	data := struct {
		Post     *api.Post     `json:"post"`
		Comments []api.Comment `json:"comments"`
	}{post, comments.Comments}

	return output.Render(data, func(w io.Writer) {
		formatter.WritePost(w, *post, ps.now())
		for _, c := range comments.Comments {
			fmt.Fprintf(w, "  %s: %s ", formatter.Bold.Sprint("@"+c.Author.Username), c.Content)
			formatter.Faint.Fprintln(w, formatter.Ago(c.CreatedAt, ps.now()))
		}
		if comments.HasMore {
			formatter.Faint.Fprintln(w, "  ...")
		}
	})
}

// Like likes or unlikes a post
func (ps *PostService) Like(ctx context.Context, postID string, liked bool) error {
	var (
		res *api.LikeResponse
		err error
	)
	if liked {
		res, err = api.LikePost(ctx, postID)
	} else {
		res, err = api.UnlikePost(ctx, postID)
	}
	if err != nil {
		return fmt.Errorf("failed to update like: %w", err)
	}

	return output.Render(res, func(w io.Writer) {
		verb := "Unliked"
		if res.Liked {
			verb = "Liked"
		}
		output.PrintSuccess("%s %s (%d likes)", verb, res.PostID, res.LikeCount)
	})
}

// Comment adds a comment to a post
func (ps *PostService) Comment(ctx context.Context, postID, content string) error {
	c, err := api.AddComment(ctx, postID, content)
	if err != nil {
		return fmt.Errorf("failed to comment: %w", err)
	}
	return output.Render(c, func(w io.Writer) {
		output.PrintSuccess("Comment added (%s)", c.ID)
	})
}

// Delete removes one of the caller's posts
func (ps *PostService) Delete(ctx context.Context, postID string) error {
	if err := api.DeletePost(ctx, postID); err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	return output.Render(map[string]interface{}{"deleted": true, "post_id": postID}, func(w io.Writer) {
		output.PrintSuccess("Post %s deleted", postID)
	})
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
