package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/auth0/go-jwt-middleware/v2"
	"github.com/auth0/go-jwt-middleware/v2/jwks"
	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/pawsitter-api/config"
	"github.com/kendall-kelly/pawsitter-api/logger"
	"github.com/kendall-kelly/pawsitter-api/metrics"
	"github.com/rs/zerolog/log"
)

// Gin context keys set by EnsureValidToken
const (
	UserIDKey      = "user_id"
	ClaimsKey      = "validated_claims"
	AccessTokenKey = "access_token"
)

const invalidTokenBody = `{"success":false,"error":{"code":"INVALID_TOKEN","message":"Failed to validate JWT."}}`

// CustomClaims holds the profile claims Auth0 adds to access tokens under
// the API namespace, e.g. "https://api.pawsitter.app/email".
type CustomClaims struct {
	Email string
	Name  string

	emailKey string
	nameKey  string
}

// NewCustomClaims returns a claims value that decodes the profile claims
// published under namespace
func NewCustomClaims(namespace string) *CustomClaims {
	ns := strings.TrimSuffix(namespace, "/")
	return &CustomClaims{
		emailKey: ns + "/email",
		nameKey:  ns + "/name",
	}
}

// UnmarshalJSON picks the namespaced claims out of the token payload and
// falls back to the plain OIDC "email" and "name" claims.
func (c *CustomClaims) UnmarshalJSON(data []byte) error {
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(data, &payload); err != nil {
		return err
	}

	c.Email = firstStringClaim(payload, c.emailKey, "email")
	c.Name = firstStringClaim(payload, c.nameKey, "name")
	return nil
}

// Validate satisfies validator.CustomClaims; profile claims are optional.
func (c *CustomClaims) Validate(ctx context.Context) error {
	return nil
}

func firstStringClaim(payload map[string]json.RawMessage, keys ...string) string {
	for _, key := range keys {
		raw, ok := payload[key]
		if !ok {
			continue
		}
		var value string
		if err := json.Unmarshal(raw, &value); err == nil && value != "" {
			return value
		}
	}
	return ""
}

// EnsureValidToken is a middleware that will check the validity of our JWT.
// Requests without a valid token are answered with 401 and the handler
// chain is aborted.
func EnsureValidToken(cfg *config.Config) gin.HandlerFunc {
	issuerURL, err := url.Parse(cfg.Auth0Issuer)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to parse the issuer url")
	}

	provider := jwks.NewCachingProvider(issuerURL, 5*time.Minute)

	jwtValidator, err := validator.New(
		provider.KeyFunc,
		validator.RS256,
		issuerURL.String(),
		[]string{cfg.Auth0Audience},
		validator.WithCustomClaims(
			func() validator.CustomClaims {
				return NewCustomClaims(cfg.Auth0ClaimsNamespace)
			},
		),
		validator.WithAllowedClockSkew(time.Minute),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to set up the jwt validator")
	}

	errorHandler := func(w http.ResponseWriter, r *http.Request, err error) {
		logger.FromContext(r.Context()).Warn().Err(err).Msg("rejected request with invalid JWT")
		writeUnauthorized(w)
	}

	middleware := jwtmiddleware.New(
		jwtValidator.ValidateToken,
		jwtmiddleware.WithErrorHandler(errorHandler),
	)

	return func(c *gin.Context) {
		authenticated := false

		var handler http.HandlerFunc = func(w http.ResponseWriter, r *http.Request) {
			token, ok := r.Context().Value(jwtmiddleware.ContextKey{}).(*validator.ValidatedClaims)
			if !ok || token.RegisteredClaims.Subject == "" {
				logger.FromContext(r.Context()).Warn().Msg("validated token carries no subject")
				writeUnauthorized(w)
				return
			}

			authenticated = true
			c.Request = r
			c.Set(UserIDKey, token.RegisteredClaims.Subject)
			c.Set(ClaimsKey, token)
			c.Set(AccessTokenKey, bearerToken(r))

			c.Next()
		}

		middleware.CheckJWT(handler).ServeHTTP(c.Writer, c.Request)

		if !authenticated {
			metrics.AuthFailuresTotal.Inc()
			c.Abort()
		}
	}
}

func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	if _, err := w.Write([]byte(invalidTokenBody)); err != nil {
		log.Error().Err(err).Msg("failed to write error response")
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}

// GetUserID extracts the user ID from the Gin context
func GetUserID(c *gin.Context) (string, error) {
	userID, exists := c.Get(UserIDKey)
	if !exists {
		return "", &AuthError{Code: "MISSING_USER_ID", Message: "User ID not found in context"}
	}

	userIDStr, ok := userID.(string)
	if !ok || userIDStr == "" {
		return "", &AuthError{Code: "INVALID_USER_ID", Message: "User ID is not a string"}
	}

	return userIDStr, nil
}

// GetClaims extracts the validated JWT claims from the Gin context
func GetClaims(c *gin.Context) (*validator.ValidatedClaims, error) {
	claims, exists := c.Get(ClaimsKey)
	if !exists {
		return nil, &AuthError{Code: "MISSING_CLAIMS", Message: "Claims not found in context"}
	}

	validatedClaims, ok := claims.(*validator.ValidatedClaims)
	if !ok {
		return nil, &AuthError{Code: "INVALID_CLAIMS", Message: "Claims are not in the expected format"}
	}

	return validatedClaims, nil
}

// GetCustomClaims extracts the namespaced profile claims from the Gin context
func GetCustomClaims(c *gin.Context) (*CustomClaims, error) {
	claims, err := GetClaims(c)
	if err != nil {
		return nil, err
	}

	customClaims, ok := claims.CustomClaims.(*CustomClaims)
	if !ok {
		return nil, &AuthError{Code: "INVALID_CLAIMS", Message: "Custom claims are not in the expected format"}
	}

	return customClaims, nil
}

// GetAccessToken extracts the raw bearer token from the Gin context
func GetAccessToken(c *gin.Context) (string, error) {
	token, exists := c.Get(AccessTokenKey)
	if !exists {
		return "", &AuthError{Code: "MISSING_TOKEN", Message: "Access token not found in context"}
	}

	tokenStr, ok := token.(string)
	if !ok || tokenStr == "" {
		return "", &AuthError{Code: "INVALID_TOKEN", Message: "Access token is not a string"}
	}

	return tokenStr, nil
}

// AuthError represents an authentication error
type AuthError struct {
	Code    string
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}
