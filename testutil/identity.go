package testutil

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const identityKeyID = "test-key-1"

// IdentityProvider is a local stand-in for the Auth0 tenant. It serves OpenID
// discovery, a JWKS and /userinfo, and mints RS256 tokens.
type IdentityProvider struct {
	Server   *httptest.Server
	Audience string

	key *rsa.PrivateKey

	mu       sync.Mutex
	userInfo map[string]map[string]string
}

// NewIdentityProvider starts a provider that issues tokens for audience
func NewIdentityProvider(t *testing.T, audience string) *IdentityProvider {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("Failed to generate signing key: %v", err)
	}

	p := &IdentityProvider{
		Audience: audience,
		key:      key,
		userInfo: make(map[string]map[string]string),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/.well-known/openid-configuration", p.serveDiscovery)
	mux.HandleFunc("/.well-known/jwks.json", p.serveJWKS)
	mux.HandleFunc("/userinfo", p.serveUserInfo)

	p.Server = httptest.NewServer(mux)
	t.Cleanup(p.Server.Close)

	return p
}

// Issuer returns the issuer URL tokens are minted with
func (p *IdentityProvider) Issuer() string {
	return p.Server.URL + "/"
}

// Token mints a valid access token for subject with the given extra claims
func (p *IdentityProvider) Token(t *testing.T, subject string, extra map[string]interface{}) string {
	t.Helper()

	now := time.Now()
	claims := jwt.MapClaims{
		"iss": p.Issuer(),
		"sub": subject,
		"aud": []string{p.Audience},
		"iat": now.Unix(),
		"exp": now.Add(time.Hour).Unix(),
	}
	for k, v := range extra {
		claims[k] = v
	}

	return p.Sign(t, claims)
}

// Sign signs arbitrary claims with the provider key
func (p *IdentityProvider) Sign(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = identityKeyID

	signed, err := token.SignedString(p.key)
	if err != nil {
		t.Fatalf("Failed to sign token: %v", err)
	}
	return signed
}

// SetUserInfo registers the /userinfo profile returned for accessToken
func (p *IdentityProvider) SetUserInfo(accessToken, subject, email, name string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.userInfo[accessToken] = map[string]string{
		"sub":   subject,
		"email": email,
		"name":  name,
	}
}

func (p *IdentityProvider) serveDiscovery(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{
		"issuer":                 p.Issuer(),
		"jwks_uri":               p.Server.URL + "/.well-known/jwks.json",
		"userinfo_endpoint":      p.Server.URL + "/userinfo",
		"authorization_endpoint": p.Server.URL + "/authorize",
	})
}

func (p *IdentityProvider) serveJWKS(w http.ResponseWriter, r *http.Request) {
	pub := p.key.PublicKey
	writeJSON(w, map[string]interface{}{
		"keys": []map[string]string{{
			"kty": "RSA",
			"use": "sig",
			"alg": "RS256",
			"kid": identityKeyID,
			"n":   base64.RawURLEncoding.EncodeToString(pub.N.Bytes()),
			"e":   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(pub.E)).Bytes()),
		}},
	})
}

func (p *IdentityProvider) serveUserInfo(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")

	p.mu.Lock()
	info, ok := p.userInfo[token]
	p.mu.Unlock()

	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	writeJSON(w, info)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
