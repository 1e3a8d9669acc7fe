package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func init() {
	// rates and prices are rendered as JSON numbers, e.g. "price":50
	decimal.MarshalJSONWithoutQuotes = true
}

// Migrate creates or updates the tables for every model. Users must be
// migrated first because suppliers and orders reference users.auth0_id.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&User{}, &Supplier{}, &Order{})
}
