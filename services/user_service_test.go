package services

import (
	"context"
	"testing"

	"github.com/kendall-kelly/pawsitter-api/models"
	"github.com/kendall-kelly/pawsitter-api/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestVerifyOrCreate(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := NewUserService(db)
	ctx := context.Background()

	user, created, err := svc.VerifyOrCreate(ctx, "auth0|ana", Claims{Email: "ana@example.com", Name: "Ana"})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "auth0|ana", user.Auth0ID)
	assert.Equal(t, "ana@example.com", user.Email)
	assert.Equal(t, "Ana", user.Name)
	assert.False(t, user.SupplyReg)

	again, created, err := svc.VerifyOrCreate(ctx, "auth0|ana", Claims{Email: "new@example.com", Name: "Changed"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, user.ID, again.ID)
	assert.Equal(t, "ana@example.com", again.Email, "claims never overwrite stored values")
	assert.Equal(t, "Ana", again.Name)

	var count int64
	db.Model(&models.User{}).Where("auth0_id = ?", "auth0|ana").Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestVerifyOrCreate_EmptyClaims(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := NewUserService(db)

	user, created, err := svc.VerifyOrCreate(context.Background(), "auth0|bare", Claims{})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Empty(t, user.Email)
	assert.Empty(t, user.Name)
}

func TestVerifyOrCreate_RequiresSubject(t *testing.T) {
	svc := NewUserService(testutil.NewTestDB(t))

	_, _, err := svc.VerifyOrCreate(context.Background(), "", Claims{})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestGetBySubject_NotFound(t *testing.T) {
	svc := NewUserService(testutil.NewTestDB(t))

	_, err := svc.GetBySubject(context.Background(), "auth0|missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateProfile(t *testing.T) {
	tests := []struct {
		name        string
		update      ProfileUpdate
		wantName    string
		wantContact string
		wantAddress string
	}{
		{
			name:        "updates every field",
			update:      ProfileUpdate{Name: strPtr("Ana B"), Contact: strPtr("555-0100"), Address: strPtr("1 Main St")},
			wantName:    "Ana B",
			wantContact: "555-0100",
			wantAddress: "1 Main St",
		},
		{
			name:        "nil fields are left unchanged",
			update:      ProfileUpdate{Contact: strPtr("555-0199")},
			wantName:    "Ana",
			wantContact: "555-0199",
			wantAddress: "Old Road",
		},
		{
			name:        "empty string clears a field",
			update:      ProfileUpdate{Address: strPtr("")},
			wantName:    "Ana",
			wantContact: "555-0000",
			wantAddress: "",
		},
		{
			name:        "empty update is a no-op",
			update:      ProfileUpdate{},
			wantName:    "Ana",
			wantContact: "555-0000",
			wantAddress: "Old Road",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := testutil.NewTestDB(t)
			require.NoError(t, db.Create(&models.User{Auth0ID: "auth0|ana", Name: "Ana", Contact: "555-0000", Address: "Old Road"}).Error)

			user, err := NewUserService(db).UpdateProfile(context.Background(), "auth0|ana", tt.update)
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, user.Name)
			assert.Equal(t, tt.wantContact, user.Contact)
			assert.Equal(t, tt.wantAddress, user.Address)
		})
	}
}

func TestUpdateProfile_NotFound(t *testing.T) {
	svc := NewUserService(testutil.NewTestDB(t))

	_, err := svc.UpdateProfile(context.Background(), "auth0|missing", ProfileUpdate{Name: strPtr("x")})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSetSupplyReg(t *testing.T) {
	db := testutil.NewTestDB(t)
	testutil.CreateUser(t, db, "auth0|ana", "ana@example.com", "Ana")
	svc := NewUserService(db)
	ctx := context.Background()

	user, err := svc.SetSupplyReg(ctx, "auth0|ana", true)
	require.NoError(t, err)
	assert.True(t, user.SupplyReg)

	user, err = svc.SetSupplyReg(ctx, "auth0|ana", false)
	require.NoError(t, err)
	assert.False(t, user.SupplyReg)

	_, err = svc.SetSupplyReg(ctx, "auth0|missing", true)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClaimsIsEmpty(t *testing.T) {
	assert.True(t, Claims{}.IsEmpty())
	assert.False(t, Claims{Email: "a@example.com"}.IsEmpty())
	assert.False(t, Claims{Name: "A"}.IsEmpty())
}
