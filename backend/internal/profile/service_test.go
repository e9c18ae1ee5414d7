package profile

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/courtside-app/courtside/backend/internal/database"
	"github.com/courtside-app/courtside/backend/internal/dto"
	"github.com/courtside-app/courtside/backend/internal/models"
	"github.com/courtside-app/courtside/backend/internal/repository"
	"github.com/courtside-app/courtside/backend/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

const fakeBase = "https://cdn.test"

type fakeUploader struct {
	uploads []storage.ImageKind
	deleted []string
}

func (f *fakeUploader) UploadImage(_ context.Context, _ []byte, kind storage.ImageKind, userID, ext, _ string) (*storage.UploadResult, error) {
	f.uploads = append(f.uploads, kind)
	key := fmt.Sprintf("%s/%s/%d%s", kind, userID, len(f.uploads), ext)
	return &storage.UploadResult{Key: key, URL: fakeBase + "/" + key}, nil
}

func (f *fakeUploader) DeleteFile(_ context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeUploader) KeyFromURL(url string) (string, bool) {
	if !strings.HasPrefix(url, fakeBase+"/") {
		return "", false
	}
	return strings.TrimPrefix(url, fakeBase+"/"), true
}

type onlineSet map[string]bool

func (o onlineSet) IsUserOnline(id string) bool { return o[id] }

type ProfileServiceTestSuite struct {
	suite.Suite
	db       *gorm.DB
	uploader *fakeUploader
	service  *Service
	ctx      context.Context
	user     *models.User
}

func (suite *ProfileServiceTestSuite) SetupTest() {
	db, err := database.OpenMemory()
	require.NoError(suite.T(), err)
	suite.db = db
	suite.uploader = &fakeUploader{}
	suite.ctx = context.Background()

	suite.user = &models.User{Email: "rafa@test.com", Username: "rafa", DisplayName: "Rafa", PasswordHash: "x", AvatarURL: "https://gravatar.example/rafa.png"}
	require.NoError(suite.T(), db.Create(suite.user).Error)
	require.NoError(suite.T(), db.Create(&models.Post{UserID: suite.user.ID, Content: "first"}).Error)

	suite.service = NewService(repository.NewUserRepository(db), suite.uploader, onlineSet{suite.user.ID: true})
}

func (suite *ProfileServiceTestSuite) TearDownTest() {
	sqlDB, _ := suite.db.DB()
	sqlDB.Close()
}

func (suite *ProfileServiceTestSuite) TestGet() {
	t := suite.T()

	p, err := suite.service.Get(suite.ctx, suite.user.ID)
	require.NoError(t, err)
	assert.Equal(t, "rafa", p.Username)
	assert.EqualValues(t, 1, p.PostCount)
	assert.True(t, p.Online)

	_, err = suite.service.Get(suite.ctx, "missing")
	assert.ErrorIs(t, err, ErrUserNotFound)

	me, err := suite.service.Me(suite.ctx, suite.user.ID)
	require.NoError(t, err)
	assert.Equal(t, "rafa@test.com", me.Email)
}

func (suite *ProfileServiceTestSuite) TestUpdatePartial() {
	t := suite.T()

	bio := "  Lefty, loves clay  "
	lat, lng := 40.4168, -3.7038
	skill := 4.5
	role := models.RoleCoach
	plays := models.PlaysLeft

	p, err := suite.service.Update(suite.ctx, suite.user.ID, dto.UpdateProfileRequest{
		Bio: &bio, Latitude: &lat, Longitude: &lng, SkillLevel: &skill, Role: &role, Plays: &plays,
	})
	require.NoError(t, err)
	assert.Equal(t, "Lefty, loves clay", p.Bio)
	assert.Equal(t, "Rafa", p.DisplayName)
	require.NotNil(t, p.Latitude)
	assert.InDelta(t, lat, *p.Latitude, 1e-9)
	assert.Equal(t, 4.5, p.SkillLevel)
	assert.Equal(t, models.RoleCoach, p.Role)
	assert.Equal(t, models.PlaysLeft, p.Plays)

	// empty update returns the profile unchanged
	p, err = suite.service.Update(suite.ctx, suite.user.ID, dto.UpdateProfileRequest{})
	require.NoError(t, err)
	assert.Equal(t, "Lefty, loves clay", p.Bio)
}

func (suite *ProfileServiceTestSuite) TestUpdateValidation() {
	t := suite.T()
	blank := "   "
	long := strings.Repeat("b", MaxBioLength+1)
	lat, badLng := 10.0, 200.0
	skill := 7.5
	role := models.PlayerRole("umpire")
	plays := models.Handedness("both")

	cases := []struct {
		field string
		req   dto.UpdateProfileRequest
	}{
		{"display_name", dto.UpdateProfileRequest{DisplayName: &blank}},
		{"bio", dto.UpdateProfileRequest{Bio: &long}},
		{"latitude", dto.UpdateProfileRequest{Latitude: &lat}},
		{"longitude", dto.UpdateProfileRequest{Latitude: &lat, Longitude: &badLng}},
		{"skill_level", dto.UpdateProfileRequest{SkillLevel: &skill}},
		{"role", dto.UpdateProfileRequest{Role: &role}},
		{"plays", dto.UpdateProfileRequest{Plays: &plays}},
	}
	for _, tc := range cases {
		_, err := suite.service.Update(suite.ctx, suite.user.ID, tc.req)
		var fe *FieldError
		require.ErrorAs(t, err, &fe, tc.field)
		assert.Equal(t, tc.field, fe.Field)
	}
}

func (suite *ProfileServiceTestSuite) TestUploadAvatarReplacesOwnedImage() {
	t := suite.T()

	p, err := suite.service.UploadAvatar(suite.ctx, suite.user.ID, []byte("img"), ".png", "image/png")
	require.NoError(t, err)
	assert.Equal(t, fakeBase+"/avatars/"+suite.user.ID+"/1.png", p.AvatarURL)
	// the gravatar URL was not ours to delete
	assert.Empty(t, suite.uploader.deleted)

	_, err = suite.service.UploadAvatar(suite.ctx, suite.user.ID, []byte("img"), ".jpg", "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, []string{"avatars/" + suite.user.ID + "/1.png"}, suite.uploader.deleted)
}

func (suite *ProfileServiceTestSuite) TestUploadPostImage() {
	url, err := suite.service.UploadPostImage(suite.ctx, suite.user.ID, []byte("img"), ".webp", "image/webp")
	require.NoError(suite.T(), err)
	assert.Contains(suite.T(), url, "/posts/")
	assert.Equal(suite.T(), []storage.ImageKind{storage.KindPostImage}, suite.uploader.uploads)
}

func (suite *ProfileServiceTestSuite) TestUploadWithoutStorage() {
	svc := NewService(repository.NewUserRepository(suite.db), nil, nil)
	assert.False(suite.T(), svc.CanUpload())
	_, err := svc.UploadAvatar(suite.ctx, suite.user.ID, []byte("img"), ".png", "image/png")
	assert.Error(suite.T(), err)
}

func TestProfileServiceSuite(t *testing.T) {
	suite.Run(t, new(ProfileServiceTestSuite))
}
