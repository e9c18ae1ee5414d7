package seed

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/courtside-app/courtside/backend/internal/logger"
	"github.com/courtside-app/courtside/backend/internal/models"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SeedEmailDomain marks every account the seeder owns; Clean removes only these
const SeedEmailDomain = "example.com"

// DefaultPassword is the password of every seeded account
const DefaultPassword = "password123"

// City is a centre that seeded players are scattered around
type City struct {
	Name string
	Lat  float64
	Lng  float64
}

var cities = []City{
	{"Paris", 48.8566, 2.3522},
	{"London", 51.5072, -0.1276},
	{"New York", 40.7128, -74.0060},
	{"Melbourne", -37.8136, 144.9631},
	{"Madrid", 40.4168, -3.7038},
}

var postTemplates = map[models.PostType][]string{
	models.PostGeneral: {
		"Finally restrung my racquet, feels like a new frame.",
		"Anyone else playing through this heat? Hydrate, folks.",
		"New grip, new me. %s courts tonight.",
	},
	models.PostMatch: {
		"Won 6-4 3-6 7-5 at %s today. Legs are gone.",
		"Lost a tight tiebreak in the third set. Serve let me down.",
		"Doubles final this weekend at %s. Wish us luck!",
	},
	models.PostLookingForPartner: {
		"Looking for a hitting partner around NTRP %.1f near %s.",
		"Need a fourth for doubles Saturday morning in %s.",
		"Anyone up for early rallies before work? Based in %s.",
	},
	models.PostTip: {
		"Tip: split step as your opponent makes contact, not after.",
		"Tip: aim your second serve with more spin, not less pace.",
		"Tip: on the return, shorten your backswing and block it deep.",
	},
}

var postTypes = []models.PostType{
	models.PostGeneral, models.PostMatch, models.PostLookingForPartner, models.PostTip,
}

// Seeder handles database seeding operations
type Seeder struct {
	db  *gorm.DB
	now func() time.Time
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	// Seed returns an error only for invalid sources
	_ = gofakeit.Seed(time.Now().UnixNano())
	return &Seeder{db: db, now: time.Now}
}

// Counts controls how much SeedDev creates
type Counts struct {
	Players       int
	Posts         int
	Comments      int
	Likes         int
	Conversations int
}

// DefaultCounts is a development data set that fills a few feed pages
func DefaultCounts() Counts {
	return Counts{Players: 60, Posts: 200, Comments: 300, Likes: 800, Conversations: 40}
}

// SeedDev seeds the development database with realistic data
func (s *Seeder) SeedDev(ctx context.Context, counts Counts) error {
	db := s.db.WithContext(ctx)
	hash, err := passwordHash()
	if err != nil {
		return err
	}

	logger.Log.Info("Creating players...")
	users, err := s.seedPlayers(db, hash, counts.Players)
	if err != nil {
		return fmt.Errorf("failed to seed players: %w", err)
	}
	if _, err := s.ensureUser(db, hash, "admin", "Courtside Admin", true); err != nil {
		return fmt.Errorf("failed to seed admin: %w", err)
	}

	logger.Log.Info("Creating posts...")
	posts, err := s.seedPosts(db, users, counts.Posts)
	if err != nil {
		return fmt.Errorf("failed to seed posts: %w", err)
	}

	logger.Log.Info("Creating likes and comments...")
	if err := s.seedLikes(db, users, posts, counts.Likes); err != nil {
		return fmt.Errorf("failed to seed likes: %w", err)
	}
	if err := s.seedComments(db, users, posts, counts.Comments); err != nil {
		return fmt.Errorf("failed to seed comments: %w", err)
	}

	logger.Log.Info("Creating conversations...")
	if err := s.seedConversations(db, users, counts.Conversations); err != nil {
		return fmt.Errorf("failed to seed conversations: %w", err)
	}

	return nil
}

// SeedTest creates a small fixed cast with known credentials
func (s *Seeder) SeedTest(ctx context.Context) error {
	db := s.db.WithContext(ctx)
	hash, err := passwordHash()
	if err != nil {
		return err
	}

	testUsers := []struct {
		username    string
		displayName string
	}{
		{"alice", "Alice Smith"},
		{"bob", "Bob Johnson"},
		{"charlie", "Charlie Brown"},
		{"diana", "Diana Prince"},
		{"eve", "Eve Wilson"},
	}

	users := make([]models.User, 0, len(testUsers))
	for i, tu := range testUsers {
		u, err := s.ensureUser(db, hash, tu.username, tu.displayName, false)
		if err != nil {
			return fmt.Errorf("failed to create test user %s: %w", tu.username, err)
		}
		// everyone in Paris so discovery has results
		lat, lng := cities[0].Lat+float64(i)*0.01, cities[0].Lng
		u.Latitude, u.Longitude = &lat, &lng
		u.SkillLevel = 3.0 + float64(i)*0.5
		u.Location = cities[0].Name
		if err := db.Save(u).Error; err != nil {
			return err
		}
		users = append(users, *u)
	}

	_, err = s.seedPosts(db, users, 15)
	return err
}

// Clean removes every row owned by seeded accounts
func (s *Seeder) Clean(ctx context.Context) error {
	db := s.db.WithContext(ctx)
	seedUsers := db.Model(&models.User{}).Select("id").Where("email LIKE ?", "%@"+SeedEmailDomain)

	return db.Transaction(func(tx *gorm.DB) error {
		steps := []struct {
			name  string
			model interface{}
			where string
		}{
			{"settings", &models.Setting{}, "user_id IN (?)"},
			{"messages", &models.Message{}, "sender_id IN (?) OR recipient_id IN (?)"},
			{"conversations", &models.Conversation{}, "user_a_id IN (?) OR user_b_id IN (?)"},
			{"likes", &models.Like{}, "user_id IN (?)"},
			{"comments", &models.Comment{}, "user_id IN (?)"},
		}
		for _, step := range steps {
			args := []interface{}{seedUsers}
			if strings.Count(step.where, "?") == 2 {
				args = append(args, seedUsers)
			}
			if err := tx.Where(step.where, args...).Delete(step.model).Error; err != nil {
				return fmt.Errorf("failed to clean %s: %w", step.name, err)
			}
		}

		// likes and comments other users left on seeded posts
		seedPosts := tx.Model(&models.Post{}).Select("id").Where("user_id IN (?)", seedUsers)
		if err := tx.Where("post_id IN (?)", seedPosts).Delete(&models.Like{}).Error; err != nil {
			return fmt.Errorf("failed to clean likes: %w", err)
		}
		if err := tx.Where("post_id IN (?)", seedPosts).Delete(&models.Comment{}).Error; err != nil {
			return fmt.Errorf("failed to clean comments: %w", err)
		}
		if err := tx.Where("user_id IN (?)", seedUsers).Delete(&models.Post{}).Error; err != nil {
			return fmt.Errorf("failed to clean posts: %w", err)
		}
		if err := tx.Where("email LIKE ?", "%@"+SeedEmailDomain).Delete(&models.User{}).Error; err != nil {
			return fmt.Errorf("failed to clean users: %w", err)
		}
		return nil
	})
}

func passwordHash() (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// ensureUser returns the seeded account for username, creating it if needed
func (s *Seeder) ensureUser(db *gorm.DB, hash, username, displayName string, admin bool) (*models.User, error) {
	email := username + "@" + SeedEmailDomain
	var user models.User
	err := db.Where("username = ? OR email = ?", username, email).First(&user).Error
	if err == nil {
		return &user, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	user = models.User{
		Email:        email,
		Username:     username,
		DisplayName:  displayName,
		PasswordHash: hash,
		IsAdmin:      admin,
		AvatarURL:    fmt.Sprintf("https://api.dicebear.com/7.x/avataaars/png?seed=%s", username),
	}
	if err := db.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// seedPlayers creates players scattered within about 20km of the seed cities
func (s *Seeder) seedPlayers(db *gorm.DB, hash string, count int) ([]models.User, error) {
	users := make([]models.User, 0, count)
	handed := []models.Handedness{models.PlaysRight, models.PlaysRight, models.PlaysRight, models.PlaysLeft}

	for i := 0; i < count; i++ {
		username := strings.ToLower(gofakeit.Username())
		var existing int64
		for {
			db.Model(&models.User{}).Where("username = ?", username).Count(&existing)
			if existing == 0 {
				break
			}
			username = strings.ToLower(gofakeit.Username())
		}

		city := cities[i%len(cities)]
		lat := city.Lat + gofakeit.Float64Range(-0.18, 0.18)
		lng := city.Lng + gofakeit.Float64Range(-0.18, 0.18)
		role := models.RolePlayer
		if gofakeit.Number(1, 10) == 1 {
			role = models.RoleCoach
		}
		lastActive := gofakeit.DateRange(s.now().AddDate(0, 0, -30), s.now())

		user := models.User{
			Email:        username + "@" + SeedEmailDomain,
			Username:     username,
			DisplayName:  gofakeit.Name(),
			PasswordHash: hash,
			Bio:          gofakeit.HipsterSentence(),
			Location:     city.Name,
			Latitude:     &lat,
			Longitude:    &lng,
			// NTRP levels come in half steps
			SkillLevel:   float64(gofakeit.Number(4, 12)) / 2,
			Role:         role,
			Plays:        handed[gofakeit.Number(0, len(handed)-1)],
			AvatarURL:    fmt.Sprintf("https://api.dicebear.com/7.x/avataaars/png?seed=%s", username),
			LastActiveAt: &lastActive,
		}
		if err := db.Create(&user).Error; err != nil {
			return nil, fmt.Errorf("failed to create user: %w", err)
		}
		users = append(users, user)
	}

	logger.Log.Info("Created seed players", zap.Int("count", len(users)))
	return users, nil
}

func (s *Seeder) seedPosts(db *gorm.DB, users []models.User, count int) ([]models.Post, error) {
	if len(users) == 0 {
		return nil, nil
	}
	posts := make([]models.Post, 0, count)
	for i := 0; i < count; i++ {
		author := users[gofakeit.Number(0, len(users)-1)]
		postType := postTypes[gofakeit.Number(0, len(postTypes)-1)]
		post := models.Post{
			UserID:    author.ID,
			Content:   postContent(postType, author),
			PostType:  postType,
			CreatedAt: gofakeit.DateRange(s.now().AddDate(0, 0, -14), s.now()),
		}
		if err := db.Create(&post).Error; err != nil {
			return nil, fmt.Errorf("failed to create post: %w", err)
		}
		posts = append(posts, post)
	}
	logger.Log.Info("Created seed posts", zap.Int("count", len(posts)))
	return posts, nil
}

func postContent(t models.PostType, author models.User) string {
	templates := postTemplates[t]
	tmpl := templates[gofakeit.Number(0, len(templates)-1)]
	place := author.Location
	if place == "" {
		place = gofakeit.City()
	}
	switch strings.Count(tmpl, "%") {
	case 2:
		return fmt.Sprintf(tmpl, author.SkillLevel, place)
	case 1:
		return fmt.Sprintf(tmpl, place)
	}
	return tmpl
}

func (s *Seeder) seedLikes(db *gorm.DB, users []models.User, posts []models.Post, count int) error {
	if len(users) == 0 || len(posts) == 0 {
		return nil
	}
	for i := 0; i < count; i++ {
		like := models.Like{
			PostID: posts[gofakeit.Number(0, len(posts)-1)].ID,
			UserID: users[gofakeit.Number(0, len(users)-1)].ID,
		}
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&like).Error; err != nil {
			return err
		}
	}
	return nil
}

func (s *Seeder) seedComments(db *gorm.DB, users []models.User, posts []models.Post, count int) error {
	if len(users) == 0 || len(posts) == 0 {
		return nil
	}
	replies := []string{
		"Count me in!", "Great result, well played.", "Which courts?",
		"That tip fixed my serve, thanks.", "I'm around that level, DM me.",
	}
	for i := 0; i < count; i++ {
		post := posts[gofakeit.Number(0, len(posts)-1)]
		comment := models.Comment{
			PostID:    post.ID,
			UserID:    users[gofakeit.Number(0, len(users)-1)].ID,
			Content:   replies[gofakeit.Number(0, len(replies)-1)],
			CreatedAt: gofakeit.DateRange(post.CreatedAt, s.now()),
		}
		if err := db.Create(&comment).Error; err != nil {
			return err
		}
	}
	return nil
}

// seedConversations opens conversations between random pairs, each with a
// short back-and-forth
func (s *Seeder) seedConversations(db *gorm.DB, users []models.User, count int) error {
	if len(users) < 2 {
		return nil
	}
	lines := []string{
		"Hey! Saw your post, still looking for a partner?",
		"Yes! How about Thursday evening?",
		"Works for me. Court 3 at 7?",
		"See you there, I'll bring balls.",
	}

	for i := 0; i < count; i++ {
		a := users[gofakeit.Number(0, len(users)-1)]
		b := users[gofakeit.Number(0, len(users)-1)]
		if a.ID == b.ID {
			continue
		}
		ua, ub := models.ConversationPair(a.ID, b.ID)
		conv := models.Conversation{UserAID: ua, UserBID: ub}
		if err := db.Where(models.Conversation{UserAID: ua, UserBID: ub}).FirstOrCreate(&conv).Error; err != nil {
			return err
		}

		at := gofakeit.DateRange(s.now().AddDate(0, 0, -7), s.now().Add(-time.Hour))
		n := gofakeit.Number(1, len(lines))
		for j := 0; j < n; j++ {
			sender, recipient := a, b
			if j%2 == 1 {
				sender, recipient = b, a
			}
			at = at.Add(time.Duration(gofakeit.Number(1, 30)) * time.Minute)
			msg := models.Message{
				ConversationID: conv.ID,
				SenderID:       sender.ID,
				RecipientID:    recipient.ID,
				Body:           lines[j],
				CreatedAt:      at,
			}
			// everything but the last message has been read
			if j < n-1 {
				readAt := at.Add(time.Minute)
				msg.ReadAt = &readAt
			}
			if err := db.Create(&msg).Error; err != nil {
				return err
			}
		}
		if err := db.Model(&conv).Update("last_message_at", at).Error; err != nil {
			return err
		}
	}
	return nil
}
