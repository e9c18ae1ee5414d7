package database

import (
	"fmt"
	"strings"
	"time"

	"github.com/courtside-app/courtside/backend/internal/logger"
	"github.com/courtside-app/courtside/backend/internal/models"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// DB holds the process-wide database connection opened by Initialize
var DB *gorm.DB

// Initialize opens the database named by databaseURL and stores it in DB.
// URLs starting with "sqlite:" or "file:" open SQLite, anything else is
// handed to the postgres driver.
func Initialize(databaseURL string, verbose bool) error {
	gormLogger := gormlogger.Default.LogMode(gormlogger.Warn)
	if verbose {
		gormLogger = gormlogger.Default.LogMode(gormlogger.Info)
	}

	db, err := gorm.Open(dialector(databaseURL), &gorm.Config{
		Logger: gormLogger,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	DB = db
	logger.Log.Info("Database connected", zap.String("driver", db.Dialector.Name()))
	return nil
}

func dialector(databaseURL string) gorm.Dialector {
	switch {
	case strings.HasPrefix(databaseURL, "sqlite:"):
		return sqlite.Open(strings.TrimPrefix(databaseURL, "sqlite:"))
	case strings.HasPrefix(databaseURL, "file:"):
		return sqlite.Open(databaseURL)
	default:
		return postgres.Open(databaseURL)
	}
}

// OpenMemory opens a private in-memory SQLite database with the schema
// migrated. Used by tests and `seed --memory`.
func OpenMemory() (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, err
	}

	// every pooled connection would otherwise get its own empty database
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates or updates every table and the feed/discovery indexes
func Migrate(db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("database not initialized")
	}

	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := createIndexes(db); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	logger.Log.Debug("Database migrations completed")
	return nil
}

func createIndexes(db *gorm.DB) error {
	stmts := []string{
		// feed keyset order
		"CREATE INDEX IF NOT EXISTS idx_posts_created_id ON posts (created_at DESC, id DESC)",
		"CREATE INDEX IF NOT EXISTS idx_posts_user_created ON posts (user_id, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_likes_post ON likes (post_id)",
		"CREATE INDEX IF NOT EXISTS idx_comments_post_created ON comments (post_id, created_at)",
		"CREATE INDEX IF NOT EXISTS idx_messages_recipient_unread ON messages (recipient_id, read_at)",
		"CREATE INDEX IF NOT EXISTS idx_conversations_a ON conversations (user_a_id, last_message_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_conversations_b ON conversations (user_b_id, last_message_at DESC)",
	}
	if db.Dialector.Name() == "postgres" {
		stmts = append(stmts,
			"CREATE INDEX IF NOT EXISTS idx_users_email_lower ON users (LOWER(email))",
			"CREATE INDEX IF NOT EXISTS idx_users_username_lower ON users (LOWER(username))",
		)
	}

	for _, stmt := range stmts {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}

// Close closes DB
func Close() error {
	if DB == nil {
		return nil
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Health pings DB
func Health() error {
	if DB == nil {
		return fmt.Errorf("database not initialized")
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
