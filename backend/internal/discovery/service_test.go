package discovery

import (
	"context"
	"testing"

	"github.com/courtside-app/courtside/backend/internal/database"
	"github.com/courtside-app/courtside/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func player(username string, p *Point, skill float64, role models.PlayerRole) *models.User {
	u := &models.User{
		Email:        username + "@test.com",
		Username:     username,
		DisplayName:  username,
		PasswordHash: "x",
		SkillLevel:   skill,
		Role:         role,
	}
	if p != nil {
		u.Latitude, u.Longitude = &p.Lat, &p.Lng
	}
	return u
}

func TestFindPlayers(t *testing.T) {
	db, err := database.OpenMemory()
	require.NoError(t, err)
	ctx := context.Background()

	me := player("me", &london, 4.0, models.RolePlayer)
	near := player("near", &Point{Lat: 51.52, Lng: -0.10}, 3.5, models.RolePlayer)
	mid := player("mid", &Point{Lat: 51.60, Lng: -0.20}, 4.5, models.RoleCoach)
	far := player("far", &paris, 4.0, models.RolePlayer)
	nowhere := player("nowhere", nil, 4.0, models.RolePlayer)
	for _, u := range []*models.User{me, near, mid, far, nowhere} {
		require.NoError(t, db.Create(u).Error)
	}

	svc := NewService(db)

	res, err := svc.FindPlayers(ctx, me.ID, Query{Center: london, Page: 1, PageSize: 10})
	require.NoError(t, err)
	require.Len(t, res.Players, 2)
	assert.Equal(t, "near", res.Players[0].Username)
	assert.Equal(t, "mid", res.Players[1].Username)
	assert.Less(t, res.Players[0].DistanceKm, res.Players[1].DistanceKm)
	assert.Empty(t, res.Players[0].Email)

	res, err = svc.FindPlayers(ctx, me.ID, Query{Center: london, Role: models.RoleCoach, Page: 1, PageSize: 10})
	require.NoError(t, err)
	require.Len(t, res.Players, 1)
	assert.Equal(t, "mid", res.Players[0].Username)

	res, err = svc.FindPlayers(ctx, me.ID, Query{Center: london, MaxSkill: 4.0, Page: 1, PageSize: 10})
	require.NoError(t, err)
	require.Len(t, res.Players, 1)
	assert.Equal(t, "near", res.Players[0].Username)

	res, err = svc.FindPlayers(ctx, me.ID, Query{Center: london, RadiusKm: 200, Page: 1, PageSize: 1})
	require.NoError(t, err)
	assert.Len(t, res.Players, 1)
	assert.True(t, res.HasMore)

	_, err = svc.FindPlayers(ctx, me.ID, Query{Center: london, RadiusKm: 500, Page: 1, PageSize: 10})
	assert.ErrorIs(t, err, ErrInvalidRadius)
}
