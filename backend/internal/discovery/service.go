package discovery

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/courtside-app/courtside/backend/internal/models"
	"gorm.io/gorm"
)

const (
	DefaultRadiusKm = 25.0
	MaxRadiusKm     = 200.0
)

var (
	ErrInvalidLocation = errors.New("lat/lng out of range")
	ErrInvalidRadius   = errors.New("radius_km must be between 0 and 200")
	ErrInvalidSkill    = errors.New("skill range must be within 1.0-7.0 and min <= max")
	ErrInvalidRole     = errors.New("role must be player or coach")
)

// Query describes a player search around a point
type Query struct {
	Center   Point
	RadiusKm float64
	MinSkill float64 // 0 means no lower bound
	MaxSkill float64 // 0 means no upper bound
	Role     models.PlayerRole
	Page     int
	PageSize int
}

// Nearby is a player with their distance from the query center
type Nearby struct {
	models.User
	DistanceKm float64 `json:"distance_km"`
}

// Result is one page of nearby players, closest first
type Result struct {
	Players  []Nearby `json:"players"`
	Page     int      `json:"page"`
	PageSize int      `json:"page_size"`
	HasMore  bool     `json:"has_more"`
	RadiusKm float64  `json:"radius_km"`
}

// Service finds players on the map
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Validate applies defaults and checks ranges
func (q *Query) Validate() error {
	if !q.Center.Valid() {
		return ErrInvalidLocation
	}
	if q.RadiusKm == 0 {
		q.RadiusKm = DefaultRadiusKm
	}
	if q.RadiusKm < 0 || q.RadiusKm > MaxRadiusKm {
		return ErrInvalidRadius
	}
	if q.MinSkill != 0 && (q.MinSkill < models.MinSkillLevel || q.MinSkill > models.MaxSkillLevel) {
		return ErrInvalidSkill
	}
	if q.MaxSkill != 0 && (q.MaxSkill < models.MinSkillLevel || q.MaxSkill > models.MaxSkillLevel) {
		return ErrInvalidSkill
	}
	if q.MinSkill != 0 && q.MaxSkill != 0 && q.MinSkill > q.MaxSkill {
		return ErrInvalidSkill
	}
	if q.Role != "" && !q.Role.Valid() {
		return ErrInvalidRole
	}
	return nil
}

// FindPlayers returns players within the query radius, excluding callerID.
// The bounding box narrows rows in SQL; the exact haversine distance then
// filters the corners and orders the result.
func (s *Service) FindPlayers(ctx context.Context, callerID string, q Query) (*Result, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	box := BoundingBox(q.Center, q.RadiusKm)
	db := s.db.WithContext(ctx).Model(&models.User{}).
		Where("id <> ?", callerID).
		Where("latitude IS NOT NULL AND longitude IS NOT NULL").
		Where("latitude BETWEEN ? AND ?", box.MinLat, box.MaxLat)

	if box.CrossesAntimeridian() {
		db = db.Where("(longitude >= ? OR longitude <= ?)", box.MinLng, box.MaxLng)
	} else {
		db = db.Where("longitude BETWEEN ? AND ?", box.MinLng, box.MaxLng)
	}
	if q.MinSkill > 0 {
		db = db.Where("skill_level >= ?", q.MinSkill)
	}
	if q.MaxSkill > 0 {
		db = db.Where("skill_level <= ?", q.MaxSkill)
	}
	if q.Role != "" {
		db = db.Where("role = ?", q.Role)
	}

	var candidates []models.User
	if err := db.Find(&candidates).Error; err != nil {
		return nil, fmt.Errorf("failed to query players: %w", err)
	}

	nearby := make([]Nearby, 0, len(candidates))
	for _, u := range candidates {
		d := DistanceKm(q.Center, Point{Lat: *u.Latitude, Lng: *u.Longitude})
		if d <= q.RadiusKm {
			nearby = append(nearby, Nearby{User: u.PublicUser(), DistanceKm: d})
		}
	}
	sort.SliceStable(nearby, func(i, j int) bool {
		if nearby[i].DistanceKm != nearby[j].DistanceKm {
			return nearby[i].DistanceKm < nearby[j].DistanceKm
		}
		return nearby[i].ID < nearby[j].ID
	})

	start := (q.Page - 1) * q.PageSize
	end := start + q.PageSize
	res := &Result{Page: q.Page, PageSize: q.PageSize, RadiusKm: q.RadiusKm, Players: []Nearby{}}
	if start < len(nearby) {
		if end > len(nearby) {
			end = len(nearby)
		}
		res.Players = nearby[start:end]
		res.HasMore = end < len(nearby)
	}
	return res, nil
}
