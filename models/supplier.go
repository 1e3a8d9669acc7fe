package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Supplier is a pet sitter profile. At most one supplier exists per user.
type Supplier struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	Name           string          `gorm:"not null" json:"name"`
	Email          string          `json:"email"`
	Phone          string          `json:"phone"`
	Address        string          `json:"address"`
	Rate           decimal.Decimal `gorm:"type:numeric(10,2);not null;check:rate >= 0" json:"rate"` // price per day
	Experience     bool            `gorm:"not null;default:false" json:"experience"`
	HasChildren    bool            `gorm:"not null;default:false" json:"hasChildren"`
	HasPetSupplies bool            `gorm:"not null;default:false" json:"hasPetSupplies"`
	UserAuth0ID    *string         `gorm:"uniqueIndex" json:"userAuth0Id"`
	User           *User           `gorm:"foreignKey:UserAuth0ID;references:Auth0ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	PhotoS3Key     *string         `json:"photoKey,omitempty"`
	PhotoURL       *string         `gorm:"-" json:"photoUrl,omitempty"` // computed, presigned URL for the photo
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// TableName specifies the table name for the Supplier model
func (Supplier) TableName() string {
	return "suppliers"
}
