package testutil

import (
	"os"
	"testing"

	"github.com/kendall-kelly/pawsitter-api/config"
	"github.com/kendall-kelly/pawsitter-api/models"
	"gorm.io/gorm"
)

// RequireTestEnvironment ensures that tests are running in the test environment.
// This prevents accidental execution of tests against production or development databases.
// It will fail the test immediately if GO_ENV is not set to "test".
func RequireTestEnvironment(t *testing.T) {
	t.Helper()

	env := os.Getenv("GO_ENV")
	if env != "test" {
		t.Fatalf("SAFETY CHECK FAILED: Tests must run with GO_ENV=test to prevent data loss. Current GO_ENV=%q. Set GO_ENV=test before running tests.", env)
	}
}

// NewTestDB opens a migrated in-memory SQLite database and installs it as the
// process-wide handle
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := config.OpenDatabase("sqlite://:memory:")
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := models.Migrate(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	config.SetDB(db)
	return db
}

// CreateUser inserts a user row for subject
func CreateUser(t *testing.T, db *gorm.DB, subject, email, name string) *models.User {
	t.Helper()

	user := &models.User{Auth0ID: subject, Email: email, Name: name}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create user %q: %v", subject, err)
	}
	return user
}
