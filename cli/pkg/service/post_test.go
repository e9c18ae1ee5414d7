package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/courtside-app/courtside/cli/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateRejectsUnknownType(t *testing.T) {
	setup(t, "text")
	err := NewPostService().Create(context.Background(), "hello", CreatePostOptions{PostType: "rant"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid post type")
}

func TestCreatePost(t *testing.T) {
	buf := setup(t, "text")
	var got api.CreatePostRequest
	serve(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/posts", r.URL.Path)
		assert.NoError(t, decodeBody(r, &got))
		writeJSON(w, http.StatusCreated, map[string]interface{}{"post": api.Post{
			ID: "p1", Content: got.Content, PostType: got.PostType,
			Author: api.Author{Username: "serena"}, CreatedAt: time.Now(),
		}})
	})

	require.NoError(t, NewPostService().Create(context.Background(), "Doubles at 6?", CreatePostOptions{PostType: "looking_for_partner"}))
	assert.Equal(t, "looking_for_partner", got.PostType)
	assert.Contains(t, buf.String(), "Post published (p1)")
	assert.Contains(t, buf.String(), "Doubles at 6?")
}

func TestLikeAndUnlike(t *testing.T) {
	buf := setup(t, "text")
	serve(t, func(w http.ResponseWriter, r *http.Request) {
		liked := r.Method == http.MethodPost
		count := 0
		if liked {
			count = 1
		}
		writeJSON(w, http.StatusOK, api.LikeResponse{PostID: "p1", Liked: liked, LikeCount: int64(count)})
	})

	ps := NewPostService()
	require.NoError(t, ps.Like(context.Background(), "p1", true))
	require.NoError(t, ps.Like(context.Background(), "p1", false))
	assert.Contains(t, buf.String(), "Liked p1 (1 likes)")
	assert.Contains(t, buf.String(), "Unliked p1 (0 likes)")
}

func TestShowIncludesComments(t *testing.T) {
	buf := setup(t, "text")
	serve(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/posts/p1":
			writeJSON(w, http.StatusOK, map[string]interface{}{"post": api.Post{ID: "p1", Content: "Great match", Author: api.Author{Username: "serena"}, CreatedAt: time.Now()}})
		case "/api/v1/posts/p1/comments":
			writeJSON(w, http.StatusOK, api.CommentsResponse{Comments: []api.Comment{
				{ID: "c1", Content: "Well played", Author: api.Author{Username: "rafa"}, CreatedAt: time.Now()},
			}})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	require.NoError(t, NewPostService().Show(context.Background(), "p1"))
	assert.Contains(t, buf.String(), "Great match")
	assert.Contains(t, buf.String(), "@rafa: Well played")
}

func TestDeleteNotFound(t *testing.T) {
	setup(t, "text")
	serve(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, api.ErrorResponse{Code: "not_found", Message: "post not found"})
	})

	err := NewPostService().Delete(context.Background(), "nope")
	require.Error(t, err)
	assert.True(t, api.IsNotFound(err))
}
