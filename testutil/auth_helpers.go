package testutil

import (
	"net/http"
	"strings"

	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/pawsitter-api/middleware"
)

// MockValidatedClaims creates a mock ValidatedClaims for testing
func MockValidatedClaims(subject, email, name string) *validator.ValidatedClaims {
	return &validator.ValidatedClaims{
		RegisteredClaims: validator.RegisteredClaims{
			Issuer:  "https://test.auth0.com/",
			Subject: subject,
		},
		CustomClaims: &middleware.CustomClaims{
			Email: email,
			Name:  name,
		},
	}
}

// SetMockAuthContext sets up the context exactly as EnsureValidToken does
func SetMockAuthContext(c *gin.Context, subject, email, name, accessToken string) {
	c.Set(middleware.UserIDKey, subject)
	c.Set(middleware.ClaimsKey, MockValidatedClaims(subject, email, name))
	c.Set(middleware.AccessTokenKey, accessToken)
}

// MockAuthMiddleware authenticates every request as subject
func MockAuthMiddleware(subject, email, name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		SetMockAuthContext(c, subject, email, name, "mock-token")
		c.Next()
	}
}

// BearerSubjectMiddleware treats the bearer token itself as the subject, so
// one router can serve several users. Requests without a token get 401.
func BearerSubjectMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		subject := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		if subject == "" || subject == c.GetHeader("Authorization") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INVALID_TOKEN",
					"message": "Failed to validate JWT.",
				},
			})
			return
		}

		SetMockAuthContext(c, subject, "", "", subject)
		c.Next()
	}
}
