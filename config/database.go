package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const sqliteScheme = "sqlite://"

var DB *gorm.DB

// ConnectDatabase opens the database at databaseURL and stores it as the
// process-wide handle returned by GetDB
func ConnectDatabase(databaseURL string) error {
	if databaseURL == "" {
		return fmt.Errorf("database URL is required")
	}

	db, err := OpenDatabase(databaseURL)
	if err != nil {
		return err
	}
	DB = db

	log.Info().Str("driver", db.Dialector.Name()).Msg("database connection established")
	return nil
}

// gormLogWriter sends GORM's slow-query and error traces to zerolog at warn level
type gormLogWriter struct {
	logger zerolog.Logger
}

func (w gormLogWriter) Printf(format string, args ...interface{}) {
	w.logger.Warn().Msgf(format, args...)
}

// OpenDatabase opens a GORM connection. URLs of the form sqlite://<path>
// (or sqlite://:memory:) use SQLite with foreign keys enabled; anything else
// is handed to the PostgreSQL driver.
func OpenDatabase(databaseURL string) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		TranslateError: true,
		Logger: gormlogger.New(gormLogWriter{logger: log.Logger.With().Str("component", "gorm").Logger()}, gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	}

	if strings.HasPrefix(databaseURL, sqliteScheme) {
		path := strings.TrimPrefix(databaseURL, sqliteScheme)
		db, err := gorm.Open(sqlite.Open(path+"?_foreign_keys=on"), gormConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}

		// every connection to :memory: is a separate database
		if path == ":memory:" {
			sqlDB, err := db.DB()
			if err != nil {
				return nil, fmt.Errorf("failed to get database instance: %w", err)
			}
			sqlDB.SetMaxOpenConns(1)
		}
		return db, nil
	}

	db, err := gorm.Open(postgres.Open(databaseURL), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return DB
}

// SetDB replaces the database instance (used by tests)
func SetDB(db *gorm.DB) {
	DB = db
}
