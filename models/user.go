package models

import (
	"time"
)

// User is an account known to the identity provider. Rows are created on
// first verification and never deleted.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Auth0ID   string    `gorm:"uniqueIndex;not null" json:"auth0Id"` // Auth0 user ID (from 'sub' claim)
	Email     string    `gorm:"index" json:"email"`
	Name      string    `json:"name"`
	Contact   string    `json:"contact"`
	Address   string    `json:"address"`
	SupplyReg bool      `gorm:"not null;default:false" json:"supplyReg"` // registered as a pet sitter
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}
