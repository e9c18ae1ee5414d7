package api

import (
	"context"
	"os"
	"path/filepath"

	"github.com/courtside-app/courtside/cli/pkg/client"
	"github.com/courtside-app/courtside/cli/pkg/logger"
	"github.com/go-resty/resty/v2"
)

type postEnvelope struct {
	Post Post `json:"post"`
}

type commentEnvelope struct {
	Comment Comment `json:"comment"`
}

// CreatePost publishes a post
func CreatePost(ctx context.Context, req CreatePostRequest) (*Post, error) {
	logger.Debug("Creating post", "type", req.PostType, "length", len(req.Content))

	var env postEnvelope
	resp, err := client.GetClient().R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&env).
		Post("/api/v1/posts")
	if err := CheckResponse(resp, err); err != nil {
		return nil, err
	}
	return &env.Post, nil
}

// UploadPostImage uploads an image and returns the URL to attach to a post
func UploadPostImage(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var result struct {
		URL string `json:"url"`
	}
	resp, err := client.GetClient().R().
		SetContext(ctx).
		SetFileReader("image", filepath.Base(path), f).
		SetResult(&result).
		Post("/api/v1/posts/image")
	if err := CheckResponse(resp, err); err != nil {
		return "", err
	}
	return result.URL, nil
}

// GetPost fetches a single post
func GetPost(ctx context.Context, postID string) (*Post, error) {
	var env postEnvelope
	resp, err := client.GetClient().R().
		SetContext(ctx).
		SetPathParam("id", postID).
		SetResult(&env).
		Get("/api/v1/posts/{id}")
	if err := CheckResponse(resp, err); err != nil {
		return nil, err
	}
	return &env.Post, nil
}

// DeletePost deletes one of the caller's posts
func DeletePost(ctx context.Context, postID string) error {
	resp, err := client.GetClient().R().
		SetContext(ctx).
		SetPathParam("id", postID).
		Delete("/api/v1/posts/{id}")
	return CheckResponse(resp, err)
}

// LikePost likes a post. Liking twice is not an error.
func LikePost(ctx context.Context, postID string) (*LikeResponse, error) {
	return like(ctx, postID, true)
}

// UnlikePost removes the caller's like
func UnlikePost(ctx context.Context, postID string) (*LikeResponse, error) {
	return like(ctx, postID, false)
}

func like(ctx context.Context, postID string, liked bool) (*LikeResponse, error) {
	var result LikeResponse
	req := client.GetClient().R().
		SetContext(ctx).
		SetPathParam("id", postID).
		SetResult(&result)

	method := resty.MethodPost
	if !liked {
		method = resty.MethodDelete
	}
	resp, err := req.Execute(method, "/api/v1/posts/{id}/like")
	if err := CheckResponse(resp, err); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetComments retrieves one page of comments, oldest first
func GetComments(ctx context.Context, postID string, page, pageSize int) (*CommentsResponse, error) {
	var result CommentsResponse
	resp, err := client.GetClient().R().
		SetContext(ctx).
		SetPathParam("id", postID).
		SetQueryParams(pageParams(page, pageSize)).
		SetResult(&result).
		Get("/api/v1/posts/{id}/comments")
	if err := CheckResponse(resp, err); err != nil {
		return nil, err
	}
	return &result, nil
}

// AddComment comments on a post
func AddComment(ctx context.Context, postID, content string) (*Comment, error) {
	var env commentEnvelope
	resp, err := client.GetClient().R().
		SetContext(ctx).
		SetPathParam("id", postID).
		SetBody(map[string]string{"content": content}).
		SetResult(&env).
		Post("/api/v1/posts/{id}/comments")
	if err := CheckResponse(resp, err); err != nil {
		return nil, err
	}
	return &env.Comment, nil
}
