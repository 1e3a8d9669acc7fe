package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kendall-kelly/pawsitter-api/metrics"
	"github.com/kendall-kelly/pawsitter-api/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderInput holds the fields of a booking
type OrderInput struct {
	UserAuth0ID string
	SupplierID  uint
	OrderDate   time.Time
	Price       *decimal.Decimal // nil books at the supplier's current rate
}

// OrderService runs the order lifecycle: pending, completed, deleted
type OrderService struct {
	db *gorm.DB
}

// NewOrderService creates an order service backed by db
func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{db: db}
}

// Create books a supplier for a user. The price is fixed at booking time.
func (s *OrderService) Create(ctx context.Context, in OrderInput) (*models.Order, error) {
	if in.UserAuth0ID == "" {
		return nil, fmt.Errorf("%w: userAuth0Id is required", ErrInvalidInput)
	}
	if in.SupplierID == 0 {
		return nil, fmt.Errorf("%w: supplierId is required", ErrInvalidInput)
	}
	if in.OrderDate.IsZero() {
		return nil, fmt.Errorf("%w: orderDate is required", ErrInvalidInput)
	}

	var price decimal.Decimal
	if in.Price != nil {
		if err := validateAmount("price", *in.Price); err != nil {
			return nil, err
		}
		price = *in.Price
	} else {
		var supplier models.Supplier
		if err := s.db.WithContext(ctx).First(&supplier, in.SupplierID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("supplier %d: %w", in.SupplierID, ErrInvalidReference)
			}
			return nil, fmt.Errorf("find supplier: %w", err)
		}
		price = supplier.Rate
	}

	order := models.Order{
		UserAuth0ID: in.UserAuth0ID,
		SupplierID:  in.SupplierID,
		OrderDate:   in.OrderDate.UTC(),
		Price:       price,
		Completed:   false,
	}
	if err := s.db.WithContext(ctx).Create(&order).Error; err != nil {
		if isForeignKeyViolation(err) {
			return nil, fmt.Errorf("user %q or supplier %d: %w", in.UserAuth0ID, in.SupplierID, ErrInvalidReference)
		}
		return nil, fmt.Errorf("create order: %w", err)
	}

	metrics.OrderTransitionsTotal.WithLabelValues("created").Inc()
	return &order, nil
}

// ListForUser returns the user's orders in creation order
func (s *OrderService) ListForUser(ctx context.Context, subject string) ([]models.Order, error) {
	orders := []models.Order{}
	if err := s.db.WithContext(ctx).Where("user_auth0_id = ?", subject).Order("id").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

// Get finds an order that has not been deleted
func (s *OrderService) Get(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	if err := s.db.WithContext(ctx).First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("find order: %w", err)
	}
	return &order, nil
}

// Complete marks an order completed. Completing a completed order is a no-op.
func (s *OrderService) Complete(ctx context.Context, id uint) (*models.Order, error) {
	order, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.Completed {
		return order, nil
	}

	if err := s.db.WithContext(ctx).Model(order).Update("completed", true).Error; err != nil {
		return nil, fmt.Errorf("complete order: %w", err)
	}
	order.Completed = true

	metrics.OrderTransitionsTotal.WithLabelValues("completed").Inc()
	return order, nil
}

// Delete cancels an order regardless of its completion state
func (s *OrderService) Delete(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&models.Order{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete order: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("order %d: %w", id, ErrNotFound)
	}

	metrics.OrderTransitionsTotal.WithLabelValues("deleted").Inc()
	return nil
}
