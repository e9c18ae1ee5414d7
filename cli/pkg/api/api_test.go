package api

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/courtside-app/courtside/cli/pkg/client"
	"github.com/courtside-app/courtside/cli/pkg/config"
	json "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// serve points the shared client at a test server running handler
func serve(t *testing.T, handler http.HandlerFunc) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	require.NoError(t, config.Init(filepath.Join(t.TempDir(), "config.toml")))
	config.Set("api.base_url", srv.URL)
	client.Init()
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func TestLogin(t *testing.T) {
	serve(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/auth/login", r.URL.Path)

		var req LoginRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.Password != "password123" {
			writeJSON(w, http.StatusUnauthorized, ErrorResponse{Code: "UNAUTHORIZED", Message: "invalid email or password"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"token":      "jwt-token",
			"expires_at": "2030-01-01T00:00:00Z",
			"user":       map[string]interface{}{"id": "u-1", "username": "rafa", "email": req.Email},
		})
	})

	resp, err := Login(context.Background(), "rafa@courtside.app", "password123")
	require.NoError(t, err)
	assert.Equal(t, "jwt-token", resp.Token)
	assert.Equal(t, "rafa", resp.User.Username)
	assert.Equal(t, 2030, resp.ExpiresAt.Year())

	_, err = Login(context.Background(), "rafa@courtside.app", "wrong")
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
	assert.False(t, IsNotFound(err))
}

func TestParseErrorVariants(t *testing.T) {
	serve(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("page") {
		case "0":
			writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{Code: "VALIDATION_ERROR", Message: "page must be between 1 and 2147483647", Field: "page"})
		case "2":
			w.Header().Set("Retry-After", "42")
			writeJSON(w, http.StatusTooManyRequests, ErrorResponse{Code: "RATE_LIMITED", Message: "rate limit exceeded"})
		default:
			w.WriteHeader(http.StatusBadGateway)
			_, _ = io.WriteString(w, "upstream down")
		}
	})
	ctx := context.Background()

	_, err := GetFeed(ctx, 0, 10)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "VALIDATION_ERROR", apiErr.Code)
	assert.Equal(t, "page", apiErr.Field)
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
	assert.Contains(t, apiErr.Error(), "field: page")

	_, err = GetFeed(ctx, 2, 10)
	require.ErrorAs(t, err, &apiErr)
	assert.True(t, IsRateLimited(err))
	assert.Equal(t, 42, apiErr.RetryAfter)

	_, err = GetFeed(ctx, 3, 10)
	require.ErrorAs(t, err, &apiErr)
	assert.True(t, IsServerError(err))
	assert.Equal(t, "UNKNOWN_ERROR", apiErr.Code)
	assert.Equal(t, "upstream down", apiErr.Message)
}

func TestGetFeedSendsPageParams(t *testing.T) {
	serve(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/feed", r.URL.Path)
		assert.Equal(t, "3", r.URL.Query().Get("page"))
		assert.Equal(t, "5", r.URL.Query().Get("page_size"))
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"posts":     []map[string]interface{}{{"id": "p-1", "content": "Looking for doubles", "author": map[string]interface{}{"username": "serena"}}},
			"page":      3,
			"page_size": 5,
			"has_more":  false,
		})
	})

	feed, err := GetFeed(context.Background(), 3, 5)
	require.NoError(t, err)
	require.Len(t, feed.Posts, 1)
	assert.Equal(t, "p-1", feed.Posts[0].ItemID())
	assert.Equal(t, "serena", feed.Posts[0].Author.Username)
	assert.False(t, feed.HasMore)
}

func TestLikeAndUnlikeUseMethods(t *testing.T) {
	var methods []string
	serve(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/posts/p-9/like", r.URL.Path)
		methods = append(methods, r.Method)
		liked := r.Method == http.MethodPost
		count := 0
		if liked {
			count = 1
		}
		writeJSON(w, http.StatusOK, LikeResponse{PostID: "p-9", Liked: liked, LikeCount: int64(count)})
	})
	ctx := context.Background()

	res, err := LikePost(ctx, "p-9")
	require.NoError(t, err)
	assert.True(t, res.Liked)
	assert.EqualValues(t, 1, res.LikeCount)

	res, err = UnlikePost(ctx, "p-9")
	require.NoError(t, err)
	assert.False(t, res.Liked)

	assert.Equal(t, []string{http.MethodPost, http.MethodDelete}, methods)
}

func TestDiscoverOmitsUnsetFilters(t *testing.T) {
	serve(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "48.8566", q.Get("lat"))
		assert.Equal(t, "2.3522", q.Get("lng"))
		assert.Equal(t, "3.5", q.Get("min_skill"))
		assert.Equal(t, "1", q.Get("page"))
		assert.False(t, q.Has("radius_km"))
		assert.False(t, q.Has("max_skill"))
		assert.False(t, q.Has("role"))
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"players":   []map[string]interface{}{{"id": "u-2", "username": "gael", "distance_km": 1.25}},
			"radius_km": 25,
		})
	})

	res, err := DiscoverPlayers(context.Background(), DiscoverQuery{Lat: 48.8566, Lng: 2.3522, MinSkill: 3.5})
	require.NoError(t, err)
	require.Len(t, res.Players, 1)
	assert.Equal(t, "gael", res.Players[0].Username)
	assert.InDelta(t, 1.25, res.Players[0].DistanceKm, 1e-9)
	assert.EqualValues(t, 25, res.RadiusKm)
}

func TestUpdateProfileSendsOnlySetFields(t *testing.T) {
	serve(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		var body map[string]interface{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]interface{}{"bio": "Lefty grinder", "skill_level": 4.5}, body)
		writeJSON(w, http.StatusOK, map[string]interface{}{"user": map[string]interface{}{"id": "u-1", "bio": "Lefty grinder", "skill_level": 4.5}})
	})

	bio, skill := "Lefty grinder", 4.5
	req := UpdateProfileRequest{Bio: &bio, SkillLevel: &skill}
	assert.False(t, req.Empty())
	assert.True(t, UpdateProfileRequest{}.Empty())

	u, err := UpdateProfile(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "Lefty grinder", u.Bio)
}

func TestSettingsRoundTrip(t *testing.T) {
	store := map[string]string{"theme": "dark", "email_notifications": "false"}
	serve(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/v1/settings":
			writeJSON(w, http.StatusOK, map[string]interface{}{"settings": store})
		case r.Method == http.MethodPut:
			var body map[string]string
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			store["units"] = body["value"]
			writeJSON(w, http.StatusOK, Setting{Key: "units", Value: body["value"]})
		case r.Method == http.MethodDelete:
			delete(store, "theme")
			writeJSON(w, http.StatusOK, map[string]interface{}{"deleted": true, "key": "theme"})
		case r.Method == http.MethodGet:
			writeJSON(w, http.StatusNotFound, ErrorResponse{Code: "NOT_FOUND", Message: "setting not found"})
		}
	})
	ctx := context.Background()

	all, err := ListSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, []Setting{{"email_notifications", "false"}, {"theme", "dark"}}, all)

	s, err := PutSetting(ctx, "units", "metric")
	require.NoError(t, err)
	assert.Equal(t, "metric", s.Value)

	require.NoError(t, DeleteSetting(ctx, "theme"))

	_, err = GetSetting(ctx, "missing")
	assert.True(t, IsNotFound(err))
}

func TestSendMessageAndThread(t *testing.T) {
	serve(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/messages":
			writeJSON(w, http.StatusCreated, map[string]interface{}{
				"message":  map[string]interface{}{"id": "m-1", "recipient_id": "u-2", "body": "Court 3 at 7?"},
				"delivery": "realtime",
			})
		case "/api/v1/messages/with/u-2":
			writeJSON(w, http.StatusOK, map[string]interface{}{
				"messages": []map[string]interface{}{{"id": "m-1", "body": "Court 3 at 7?"}},
				"has_more": false,
			})
		case "/api/v1/messages/with/u-2/read":
			writeJSON(w, http.StatusOK, map[string]interface{}{"marked_read": 2})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
	ctx := context.Background()

	sent, err := SendMessage(ctx, "u-2", "Court 3 at 7?")
	require.NoError(t, err)
	assert.Equal(t, "realtime", sent.Delivery)
	assert.Equal(t, "m-1", sent.Message.ID)

	thread, err := GetThread(ctx, "u-2", 1, 20)
	require.NoError(t, err)
	require.Len(t, thread.Messages, 1)

	n, err := MarkThreadRead(ctx, "u-2")
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
}
