package seed

import (
	"context"
	"testing"

	"github.com/courtside-app/courtside/backend/internal/database"
	"github.com/courtside-app/courtside/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestSeedDevAndClean(t *testing.T) {
	db, err := database.OpenMemory()
	require.NoError(t, err)
	ctx := context.Background()

	// an account the seeder must leave alone
	keep := models.User{Email: "keep@courtside.app", Username: "realplayer", DisplayName: "Real", PasswordHash: "x"}
	require.NoError(t, db.Create(&keep).Error)

	s := NewSeeder(db)
	require.NoError(t, s.SeedDev(ctx, Counts{Players: 8, Posts: 20, Comments: 10, Likes: 15, Conversations: 5}))

	var users int64
	db.Model(&models.User{}).Where("email LIKE ?", "%@"+SeedEmailDomain).Count(&users)
	assert.EqualValues(t, 9, users, "8 players plus the admin")

	var admin models.User
	require.NoError(t, db.Where("username = ?", "admin").First(&admin).Error)
	assert.True(t, admin.IsAdmin)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(DefaultPassword)))

	var posts int64
	db.Model(&models.Post{}).Count(&posts)
	assert.EqualValues(t, 20, posts)

	var located int64
	db.Model(&models.User{}).Where("latitude IS NOT NULL AND skill_level BETWEEN 2 AND 6").Count(&located)
	assert.EqualValues(t, 8, located)

	require.NoError(t, s.Clean(ctx))

	var remaining []models.User
	require.NoError(t, db.Find(&remaining).Error)
	require.Len(t, remaining, 1)
	assert.Equal(t, keep.ID, remaining[0].ID)

	for _, model := range []interface{}{&models.Post{}, &models.Comment{}, &models.Like{}, &models.Message{}, &models.Conversation{}} {
		var n int64
		db.Model(model).Count(&n)
		assert.Zero(t, n)
	}
}

func TestSeedTestIsIdempotent(t *testing.T) {
	db, err := database.OpenMemory()
	require.NoError(t, err)
	ctx := context.Background()

	s := NewSeeder(db)
	require.NoError(t, s.SeedTest(ctx))
	require.NoError(t, s.SeedTest(ctx))

	var users int64
	db.Model(&models.User{}).Count(&users)
	assert.EqualValues(t, 5, users)

	var alice models.User
	require.NoError(t, db.Where("username = ?", "alice").First(&alice).Error)
	assert.Equal(t, "alice@example.com", alice.Email)
	require.NotNil(t, alice.Latitude)
}

func TestPostContentFillsTemplates(t *testing.T) {
	author := models.User{Location: "Lyon", SkillLevel: 4.5}
	for _, pt := range postTypes {
		for i := 0; i < 10; i++ {
			content := postContent(pt, author)
			assert.NotContains(t, content, "%")
			assert.NotEmpty(t, content)
		}
	}
}
