package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kendall-kelly/pawsitter-api/metrics"
	"github.com/kendall-kelly/pawsitter-api/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SupplierInput holds the fields of a supplier registration
type SupplierInput struct {
	Name           string
	Email          string
	Phone          string
	Address        string
	Rate           decimal.Decimal
	Experience     bool
	HasChildren    bool
	HasPetSupplies bool
	UserAuth0ID    string // empty registers a supplier without a linked user
}

// SupplierService manages the pet sitter directory
type SupplierService struct {
	db *gorm.DB
}

// NewSupplierService creates a supplier service backed by db
func NewSupplierService(db *gorm.DB) *SupplierService {
	return &SupplierService{db: db}
}

// Register creates a supplier. A user may own at most one supplier.
func (s *SupplierService) Register(ctx context.Context, in SupplierInput) (*models.Supplier, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if err := validateAmount("rate", in.Rate); err != nil {
		return nil, err
	}

	supplier := models.Supplier{
		Name:           name,
		Email:          in.Email,
		Phone:          in.Phone,
		Address:        in.Address,
		Rate:           in.Rate,
		Experience:     in.Experience,
		HasChildren:    in.HasChildren,
		HasPetSupplies: in.HasPetSupplies,
	}
	if in.UserAuth0ID != "" {
		owner := in.UserAuth0ID
		supplier.UserAuth0ID = &owner
	}

	if err := s.db.WithContext(ctx).Create(&supplier).Error; err != nil {
		switch {
		case isDuplicateKey(err):
			return nil, fmt.Errorf("supplier for user %q: %w", in.UserAuth0ID, ErrConflict)
		case isForeignKeyViolation(err):
			return nil, fmt.Errorf("user %q: %w", in.UserAuth0ID, ErrInvalidReference)
		}
		return nil, fmt.Errorf("create supplier: %w", err)
	}

	metrics.SuppliersRegisteredTotal.Inc()
	return &supplier, nil
}

// List returns every supplier ordered by id
func (s *SupplierService) List(ctx context.Context) ([]models.Supplier, error) {
	suppliers := []models.Supplier{}
	if err := s.db.WithContext(ctx).Order("id").Find(&suppliers).Error; err != nil {
		return nil, fmt.Errorf("list suppliers: %w", err)
	}
	return suppliers, nil
}

// GetByID finds a supplier by id
func (s *SupplierService) GetByID(ctx context.Context, id uint) (*models.Supplier, error) {
	var supplier models.Supplier
	if err := s.db.WithContext(ctx).First(&supplier, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("supplier %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("find supplier: %w", err)
	}
	return &supplier, nil
}

// GetBySubject finds the supplier registered by the given user
func (s *SupplierService) GetBySubject(ctx context.Context, subject string) (*models.Supplier, error) {
	var supplier models.Supplier
	if err := s.db.WithContext(ctx).Where("user_auth0_id = ?", subject).First(&supplier).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("supplier for user %q: %w", subject, ErrNotFound)
		}
		return nil, fmt.Errorf("find supplier: %w", err)
	}
	return &supplier, nil
}

// AttachPhoto records the storage key of the supplier's photo
func (s *SupplierService) AttachPhoto(ctx context.Context, id uint, photoKey string) (*models.Supplier, error) {
	supplier, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Model(supplier).Updates(models.Supplier{PhotoS3Key: &photoKey}).Error; err != nil {
		return nil, fmt.Errorf("attach supplier photo: %w", err)
	}

	return s.GetByID(ctx, id)
}
