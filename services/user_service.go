package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/kendall-kelly/pawsitter-api/metrics"
	"github.com/kendall-kelly/pawsitter-api/models"
	"gorm.io/gorm"
)

// Claims are the profile attributes the identity provider vouches for
type Claims struct {
	Email string
	Name  string
}

// IsEmpty reports whether no profile claim was supplied
func (c Claims) IsEmpty() bool {
	return c.Email == "" && c.Name == ""
}

// ProfileUpdate carries the fields of a profile update. Nil fields are left
// untouched; a pointer to "" clears the field.
type ProfileUpdate struct {
	Name    *string
	Contact *string
	Address *string
}

// UserService provisions users and maintains their profiles
type UserService struct {
	db *gorm.DB
}

// NewUserService creates a user service backed by db
func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// VerifyOrCreate returns the user for subject, creating it from claims when
// it does not exist yet. Existing users are returned unchanged; claims never
// overwrite stored values. The boolean reports whether a row was created.
func (s *UserService) VerifyOrCreate(ctx context.Context, subject string, claims Claims) (*models.User, bool, error) {
	if subject == "" {
		return nil, false, fmt.Errorf("%w: subject is required", ErrInvalidInput)
	}

	user, err := s.GetBySubject(ctx, subject)
	if err == nil {
		return user, false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, false, err
	}

	user = &models.User{
		Auth0ID: subject,
		Email:   claims.Email,
		Name:    claims.Name,
	}
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		if isDuplicateKey(err) {
			// a concurrent first request created the row
			existing, getErr := s.GetBySubject(ctx, subject)
			if getErr != nil {
				return nil, false, getErr
			}
			return existing, false, nil
		}
		return nil, false, fmt.Errorf("create user: %w", err)
	}

	metrics.UsersProvisionedTotal.Inc()
	return user, true, nil
}

// GetBySubject finds a user by identity provider subject
func (s *UserService) GetBySubject(ctx context.Context, subject string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("auth0_id = ?", subject).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %q: %w", subject, ErrNotFound)
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}

// UpdateProfile writes the provided fields of the user's profile
func (s *UserService) UpdateProfile(ctx context.Context, subject string, update ProfileUpdate) (*models.User, error) {
	user, err := s.GetBySubject(ctx, subject)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if update.Name != nil {
		updates["name"] = *update.Name
	}
	if update.Contact != nil {
		updates["contact"] = *update.Contact
	}
	if update.Address != nil {
		updates["address"] = *update.Address
	}

	if len(updates) == 0 {
		return user, nil
	}

	if err := s.db.WithContext(ctx).Model(user).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("update user profile: %w", err)
	}

	return s.GetBySubject(ctx, subject)
}

// SetSupplyReg sets the supplier-registration flag. It does not check
// whether a supplier row exists for the user.
func (s *UserService) SetSupplyReg(ctx context.Context, subject string, flag bool) (*models.User, error) {
	user, err := s.GetBySubject(ctx, subject)
	if err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Model(user).Update("supply_reg", flag).Error; err != nil {
		return nil, fmt.Errorf("update supply registration: %w", err)
	}

	return s.GetBySubject(ctx, subject)
}
