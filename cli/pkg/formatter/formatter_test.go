package formatter

import (
	"bytes"
	"testing"
	"time"

	"github.com/courtside-app/courtside/cli/pkg/api"
	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func TestAgo(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	testCases := []struct {
		at   time.Time
		want string
	}{
		{now.Add(-10 * time.Second), "just now"},
		{now.Add(-5 * time.Minute), "5m ago"},
		{now.Add(-3 * time.Hour), "3h ago"},
		{now.Add(-49 * time.Hour), "2d ago"},
		{now.AddDate(0, -2, 0), "2024-04-01"},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.want, Ago(tc.at, now))
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "Looking...", Truncate("Looking for a hitting partner", 10))
	assert.Equal(t, "a b c", Truncate("a\n  b\tc", 10))
	assert.Equal(t, "ab", Truncate("abcdef", 2))
	assert.Equal(t, "café...", Truncate("café au lait", 7))
}

func TestPostTypeLabel(t *testing.T) {
	assert.Empty(t, PostTypeLabel("general"))
	assert.Equal(t, "[partner wanted]", PostTypeLabel("looking_for_partner"))
	assert.Equal(t, "[drill]", PostTypeLabel("drill"))
}

func TestWritePost(t *testing.T) {
	color.NoColor = true
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	var buf bytes.Buffer

	WritePost(&buf, api.Post{
		ID:        "p-1",
		Content:   "Won 6-4 7-5 today",
		PostType:  "match",
		Author:    api.Author{Username: "serena", DisplayName: "Serena"},
		LikeCount: 3,
		LikedByMe: true,
		CreatedAt: now.Add(-2 * time.Hour),
	}, now)

	assert.Equal(t,
		"Serena (@serena) [match]  2h ago  p-1\n"+
			"Won 6-4 7-5 today\n"+
			"3 likes (liked), 0 comments\n",
		buf.String())
}

func TestProfileFields(t *testing.T) {
	lat, lng := 48.8566, 2.3522
	fields := ProfileFields(api.User{
		ID: "u-1", Username: "gael", Role: "coach", SkillLevel: 5,
		Plays: "left", Latitude: &lat, Longitude: &lng,
	})

	labels := make([]string, len(fields))
	for i, f := range fields {
		labels[i] = f.Label
	}
	assert.Equal(t, []string{"ID", "Username", "Display Name", "Role", "Skill", "Plays", "Coordinates", "Posts"}, labels)
	assert.Equal(t, "5.0", fields[4].Value)
	assert.Equal(t, "left-handed", fields[5].Value)
	assert.Equal(t, "unrated", Skill(0))
}
