package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/pawsitter-api/config"
	"github.com/kendall-kelly/pawsitter-api/logger"
	"github.com/kendall-kelly/pawsitter-api/middleware"
	"github.com/kendall-kelly/pawsitter-api/services"
)

// UpdateUserRequest represents the request body for updating a user profile.
// Omitted fields are left unchanged.
type UpdateUserRequest struct {
	Name    *string `json:"name"`
	Contact *string `json:"contact"`
	Address *string `json:"address"`
}

// UpdateSupplyRegRequest represents the request body for PUT /user/substatus/:id
type UpdateSupplyRegRequest struct {
	SupplyReg *bool `json:"supplyReg" binding:"required"`
}

// VerifyUser handles POST /verify-user - returns the caller's user record,
// creating it from the token's profile claims on first call
func VerifyUser(c *gin.Context) {
	auth0ID, ok := currentSubject(c)
	if !ok {
		return
	}

	claims := tokenProfileClaims(c)
	if claims.IsEmpty() {
		claims = userInfoClaims(c)
	}

	user, created, err := services.NewUserService(config.GetDB()).VerifyOrCreate(c.Request.Context(), auth0ID, claims)
	if err != nil {
		serviceError(c, entityUser, err)
		return
	}

	status := http.StatusOK
	if created {
		logger.FromContext(c.Request.Context()).Info().Str("auth0_id", auth0ID).Msg("provisioned new user")
		status = http.StatusCreated
	}

	dataResponse(c, status, user)
}

func tokenProfileClaims(c *gin.Context) services.Claims {
	custom, err := middleware.GetCustomClaims(c)
	if err != nil {
		return services.Claims{}
	}
	return services.Claims{Email: custom.Email, Name: custom.Name}
}

// userInfoClaims asks the identity provider for the profile when the token
// carries none. Failures leave the profile empty.
func userInfoClaims(c *gin.Context) services.Claims {
	fetcher := services.GetUserInfoFetcher()
	if fetcher == nil {
		return services.Claims{}
	}

	accessToken, err := middleware.GetAccessToken(c)
	if err != nil {
		return services.Claims{}
	}

	info, err := fetcher.GetUserInfo(c.Request.Context(), accessToken)
	if err != nil {
		logger.FromContext(c.Request.Context()).Warn().Err(err).Msg("userinfo lookup failed, provisioning without profile")
		return services.Claims{}
	}

	return info.Claims()
}

// GetMe handles GET /me - returns the caller's user record
func GetMe(c *gin.Context) {
	auth0ID, ok := currentSubject(c)
	if !ok {
		return
	}

	user, err := services.NewUserService(config.GetDB()).GetBySubject(c.Request.Context(), auth0ID)
	if err != nil {
		serviceError(c, entityUser, err)
		return
	}

	dataResponse(c, http.StatusOK, user)
}

// GetUser handles GET /user/:id - :id is the user's Auth0 subject
func GetUser(c *gin.Context) {
	user, err := services.NewUserService(config.GetDB()).GetBySubject(c.Request.Context(), c.Param("id"))
	if err != nil {
		serviceError(c, entityUser, err)
		return
	}

	dataResponse(c, http.StatusOK, user)
}

// UpdateUser handles PUT /user/:id - updates the caller's own profile
func UpdateUser(c *gin.Context) {
	auth0ID, ok := requireSelf(c)
	if !ok {
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationError(c, err)
		return
	}

	user, err := services.NewUserService(config.GetDB()).UpdateProfile(c.Request.Context(), auth0ID, services.ProfileUpdate{
		Name:    req.Name,
		Contact: req.Contact,
		Address: req.Address,
	})
	if err != nil {
		serviceError(c, entityUser, err)
		return
	}

	dataResponse(c, http.StatusOK, user)
}

// UpdateSupplyReg handles PUT /user/substatus/:id - sets the caller's
// supplier-registration flag
func UpdateSupplyReg(c *gin.Context) {
	auth0ID, ok := requireSelf(c)
	if !ok {
		return
	}

	var req UpdateSupplyRegRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationError(c, err)
		return
	}

	user, err := services.NewUserService(config.GetDB()).SetSupplyReg(c.Request.Context(), auth0ID, *req.SupplyReg)
	if err != nil {
		serviceError(c, entityUser, err)
		return
	}

	dataResponse(c, http.StatusOK, user)
}

// requireSelf checks that the :id path parameter names the caller
func requireSelf(c *gin.Context) (string, bool) {
	auth0ID, ok := currentSubject(c)
	if !ok {
		return "", false
	}

	if c.Param("id") != auth0ID {
		errorResponse(c, http.StatusForbidden, "FORBIDDEN", "You can only modify your own profile")
		return "", false
	}

	return auth0ID, true
}
