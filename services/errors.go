package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// Errors returned by the data services. Controllers translate them to HTTP
// responses in one place; callers should test with errors.Is.
var (
	ErrNotFound         = errors.New("resource not found")
	ErrInvalidInput     = errors.New("invalid input")
	ErrInvalidReference = errors.New("referenced resource does not exist")
	ErrConflict         = errors.New("resource already exists")
)

// isDuplicateKey works with both PostgreSQL and SQLite, with or without
// GORM error translation
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique constraint")
}

func isForeignKeyViolation(err error) bool {
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "foreign key")
}
