package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomClaims_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name      string
		namespace string
		payload   string
		wantEmail string
		wantName  string
	}{
		{
			name:      "reads namespaced claims",
			namespace: "https://api.pawsitter.app",
			payload:   `{"https://api.pawsitter.app/email":"ana@example.com","https://api.pawsitter.app/name":"Ana"}`,
			wantEmail: "ana@example.com",
			wantName:  "Ana",
		},
		{
			name:      "trailing slash on namespace",
			namespace: "https://api.pawsitter.app/",
			payload:   `{"https://api.pawsitter.app/email":"ana@example.com"}`,
			wantEmail: "ana@example.com",
		},
		{
			name:      "falls back to plain claims",
			namespace: "https://api.pawsitter.app",
			payload:   `{"email":"bo@example.com","name":"Bo"}`,
			wantEmail: "bo@example.com",
			wantName:  "Bo",
		},
		{
			name:      "namespaced claims win over plain claims",
			namespace: "https://api.pawsitter.app",
			payload:   `{"email":"plain@example.com","https://api.pawsitter.app/email":"ns@example.com"}`,
			wantEmail: "ns@example.com",
		},
		{
			name:      "other namespaces are ignored",
			namespace: "https://api.pawsitter.app",
			payload:   `{"https://other.app/email":"x@example.com"}`,
		},
		{
			name:      "non-string claim is ignored",
			namespace: "https://api.pawsitter.app",
			payload:   `{"https://api.pawsitter.app/email":42}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims := NewCustomClaims(tt.namespace)
			require.NoError(t, json.Unmarshal([]byte(tt.payload), claims))

			assert.Equal(t, tt.wantEmail, claims.Email)
			assert.Equal(t, tt.wantName, claims.Name)
			assert.NoError(t, claims.Validate(t.Context()))
		})
	}
}

func TestGetUserID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name      string
		setupFunc func(*gin.Context)
		wantID    string
		wantErr   bool
	}{
		{
			name: "successfully extracts user ID",
			setupFunc: func(c *gin.Context) {
				c.Set(UserIDKey, "auth0|123456")
			},
			wantID:  "auth0|123456",
			wantErr: false,
		},
		{
			name:      "user ID not found in context",
			setupFunc: func(c *gin.Context) {},
			wantID:    "",
			wantErr:   true,
		},
		{
			name: "user ID is not a string",
			setupFunc: func(c *gin.Context) {
				c.Set(UserIDKey, 12345)
			},
			wantID:  "",
			wantErr: true,
		},
		{
			name: "user ID is empty",
			setupFunc: func(c *gin.Context) {
				c.Set(UserIDKey, "")
			},
			wantID:  "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			tt.setupFunc(c)

			gotID, err := GetUserID(c)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Empty(t, gotID)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantID, gotID)
			}
		})
	}
}

func TestGetCustomClaims(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name      string
		setupFunc func(*gin.Context)
		wantEmail string
		wantErr   bool
	}{
		{
			name: "successfully extracts claims",
			setupFunc: func(c *gin.Context) {
				c.Set(ClaimsKey, &validator.ValidatedClaims{
					RegisteredClaims: validator.RegisteredClaims{
						Issuer:  "https://test.auth0.com/",
						Subject: "auth0|123456",
					},
					CustomClaims: &CustomClaims{Email: "ana@example.com"},
				})
			},
			wantEmail: "ana@example.com",
		},
		{
			name:      "claims not found in context",
			setupFunc: func(c *gin.Context) {},
			wantErr:   true,
		},
		{
			name: "claims are not the expected type",
			setupFunc: func(c *gin.Context) {
				c.Set(ClaimsKey, "invalid")
			},
			wantErr: true,
		},
		{
			name: "custom claims missing",
			setupFunc: func(c *gin.Context) {
				c.Set(ClaimsKey, &validator.ValidatedClaims{})
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			tt.setupFunc(c)

			claims, err := GetCustomClaims(c)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, claims)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantEmail, claims.Email)
			}
		})
	}
}

func TestGetAccessToken(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	_, err := GetAccessToken(c)
	assert.Error(t, err)

	c.Set(AccessTokenKey, "abc.def.ghi")
	token, err := GetAccessToken(c)
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", token)
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{header: "Bearer abc", want: "abc"},
		{header: "bearer abc", want: "abc"},
		{header: "Basic abc", want: ""},
		{header: "", want: ""},
	}

	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		if tt.header != "" {
			r.Header.Set("Authorization", tt.header)
		}
		assert.Equal(t, tt.want, bearerToken(r), tt.header)
	}
}

func TestAuthError(t *testing.T) {
	err := &AuthError{
		Code:    "TEST_ERROR",
		Message: "This is a test error",
	}

	assert.Equal(t, "This is a test error", err.Error())
}
