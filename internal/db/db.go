package db

import (
	"errors"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const defaultSQLitePath = "pigs.db"

// Open connects to Postgres when DATABASE_URL is set and otherwise falls back
// to a local SQLite file, which is how the app runs in development.
func Open() (*gorm.DB, error) {
	cfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)}
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		return gorm.Open(postgres.Open(dsn), cfg)
	}
	path := os.Getenv("SQLITE_PATH")
	if path == "" {
		path = defaultSQLitePath
	}
	return gorm.Open(sqlite.Open(path), cfg)
}

// Migrate runs GORM auto-migrations for the core tables.
func Migrate(conn *gorm.DB) error {
	if conn == nil {
		return errors.New("db connection is nil")
	}
	return conn.AutoMigrate(
		&Pig{},
		&Comment{},
		&SubmissionLog{},
		&CommentSubmissionLog{},
		&Event{},
	)
}
