package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Order is a booking of a supplier by a user. Orders start pending, may be
// completed once, and are soft deleted on cancellation.
type Order struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	UserAuth0ID string          `gorm:"not null;index" json:"userAuth0Id"`
	User        *User           `gorm:"foreignKey:UserAuth0ID;references:Auth0ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	SupplierID  uint            `gorm:"not null;index" json:"supplierId"`
	Supplier    *Supplier       `gorm:"foreignKey:SupplierID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	OrderDate   time.Time       `gorm:"not null" json:"orderDate"`
	Price       decimal.Decimal `gorm:"type:numeric(10,2);not null;check:price >= 0" json:"price"` // supplier rate at booking time
	Completed   bool            `gorm:"not null;default:false" json:"completed"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// Status reports the lifecycle state of the order
func (o Order) Status() string {
	switch {
	case o.DeletedAt.Valid:
		return OrderStatusDeleted
	case o.Completed:
		return OrderStatusCompleted
	default:
		return OrderStatusPending
	}
}

const (
	OrderStatusPending   = "pending"
	OrderStatusCompleted = "completed"
	OrderStatusDeleted   = "deleted"
)
