package auth

import (
	"context"
	"testing"
	"time"

	"github.com/courtside-app/courtside/backend/internal/database"
	"github.com/courtside-app/courtside/backend/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

// AuthServiceTestSuite runs the auth service against in-memory SQLite
type AuthServiceTestSuite struct {
	suite.Suite
	db          *gorm.DB
	authService *Service
	ctx         context.Context
}

func (suite *AuthServiceTestSuite) SetupTest() {
	db, err := database.OpenMemory()
	require.NoError(suite.T(), err)
	suite.db = db
	suite.authService = NewService(db, []byte("test_jwt_secret_key"), time.Hour)
	suite.ctx = context.Background()
}

func (suite *AuthServiceTestSuite) TearDownTest() {
	sqlDB, _ := suite.db.DB()
	sqlDB.Close()
}

func (suite *AuthServiceTestSuite) TestRegister() {
	t := suite.T()

	req := RegisterRequest{
		Email:       "Serena@Court.com",
		Username:    "serena",
		Password:    "password123",
		DisplayName: "Serena",
	}

	resp, err := suite.authService.Register(suite.ctx, req)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "serena@court.com", resp.User.Email)
	assert.Equal(t, models.RolePlayer, resp.User.Role)
	assert.NotEqual(t, "password123", resp.User.PasswordHash)
	assert.WithinDuration(t, time.Now().Add(time.Hour), resp.ExpiresAt, time.Minute)

	// duplicate email, any case
	req.Username = "other"
	req.Email = "SERENA@court.com"
	_, err = suite.authService.Register(suite.ctx, req)
	assert.ErrorIs(t, err, ErrUserExists)

	// duplicate username
	req.Email = "new@court.com"
	req.Username = "Serena"
	_, err = suite.authService.Register(suite.ctx, req)
	assert.ErrorIs(t, err, ErrUsernameExists)
}

func (suite *AuthServiceTestSuite) TestLogin() {
	t := suite.T()

	_, err := suite.authService.Register(suite.ctx, RegisterRequest{
		Email:       "login@test.com",
		Username:    "logintest",
		Password:    "testpass123",
		DisplayName: "Login Test",
	})
	require.NoError(t, err)

	resp, err := suite.authService.Login(suite.ctx, LoginRequest{Email: "LOGIN@TEST.COM", Password: "testpass123"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.NotNil(t, resp.User.LastActiveAt)

	_, err = suite.authService.Login(suite.ctx, LoginRequest{Email: "login@test.com", Password: "wrongpassword"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = suite.authService.Login(suite.ctx, LoginRequest{Email: "nobody@test.com", Password: "testpass123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func (suite *AuthServiceTestSuite) TestValidateToken() {
	t := suite.T()

	resp, err := suite.authService.Register(suite.ctx, RegisterRequest{
		Email:       "jwt@test.com",
		Username:    "jwttest",
		Password:    "testpass123",
		DisplayName: "JWT Test",
	})
	require.NoError(t, err)

	user, err := suite.authService.ValidateToken(suite.ctx, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, user.ID)

	_, err = suite.authService.ValidateToken(suite.ctx, "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	// signed with a different secret
	other := NewService(suite.db, []byte("another_secret"), time.Hour)
	forged, err := other.issue(&resp.User)
	require.NoError(t, err)
	_, err = suite.authService.ValidateToken(suite.ctx, forged.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func (suite *AuthServiceTestSuite) TestValidateTokenRejectsExpired() {
	t := suite.T()

	resp, err := suite.authService.Register(suite.ctx, RegisterRequest{
		Email:       "exp@test.com",
		Username:    "exptest",
		Password:    "testpass123",
		DisplayName: "Expired",
	})
	require.NoError(t, err)

	suite.authService.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = suite.authService.ValidateToken(suite.ctx, resp.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func (suite *AuthServiceTestSuite) TestValidateTokenRejectsNoneAlg() {
	t := suite.T()

	token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"user_id": "someone",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	s, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = suite.authService.ValidateToken(suite.ctx, s)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthServiceSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}

func (suite *AuthServiceTestSuite) TestTokenCarriesSubjectAndIssuer() {
	t := suite.T()

	resp, err := suite.authService.Register(suite.ctx, RegisterRequest{
		Email:       "claims@test.com",
		Username:    "claims",
		Password:    "testpass123",
		DisplayName: "Claims",
	})
	require.NoError(t, err)

	var claims Claims
	_, _, err = jwt.NewParser().ParseUnverified(resp.Token, &claims)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.Subject)
	assert.Equal(t, "courtside", claims.Issuer)
	assert.Equal(t, "claims", claims.Username)

	// right secret, wrong issuer
	claims.Issuer = "someone-else"
	foreign, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test_jwt_secret_key"))
	require.NoError(t, err)
	_, err = suite.authService.ValidateToken(suite.ctx, foreign)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
