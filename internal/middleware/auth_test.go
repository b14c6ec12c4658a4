package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SscSPs/masjid_treasury/internal/core/domain"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testAuth = AuthConfig{Secret: "test-secret", Issuer: "treasury-test"}

func newAuthRouter(t *testing.T, seen *domain.Actor) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AuthMiddleware(testAuth))
	r.GET("/whoami", func(c *gin.Context) {
		actor, ok := GetActorFromContext(c)
		require.True(t, ok)
		*seen = actor
		c.Status(http.StatusNoContent)
	})
	return r
}

func TestAuthMiddleware_ValidTokenBuildsActor(t *testing.T) {
	var seen domain.Actor
	r := newAuthRouter(t, &seen)

	token, err := IssueToken(testAuth, domain.NewActor("user-1", domain.CapVerifier, domain.CapAuditor), time.Hour)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "user-1", seen.ID)
	assert.True(t, seen.Has(domain.CapVerifier))
	assert.True(t, seen.Has(domain.CapAuditor))
	assert.False(t, seen.Has(domain.CapTreasurer))
}

func TestAuthMiddleware_UnknownCapabilitiesAreDropped(t *testing.T) {
	var seen domain.Actor
	r := newAuthRouter(t, &seen)

	claims := TreasuryClaims{
		Caps: []string{" treasurer ", "superuser"},
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-2",
			Issuer:    testAuth.Issuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testAuth.Secret))
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, []domain.Capability{domain.CapTreasurer}, seen.Capabilities)
}

func TestAuthMiddleware_Rejections(t *testing.T) {
	expired, err := IssueToken(testAuth, domain.NewActor("user-1"), -time.Minute)
	require.NoError(t, err)
	wrongIssuer, err := IssueToken(AuthConfig{Secret: testAuth.Secret, Issuer: "other"}, domain.NewActor("user-1"), time.Hour)
	require.NoError(t, err)
	wrongSecret, err := IssueToken(AuthConfig{Secret: "nope", Issuer: testAuth.Issuer}, domain.NewActor("user-1"), time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		msg    string
	}{
		{"missing header", "", "Authorization header required"},
		{"bad scheme", "Basic abc", "Authorization header format must be Bearer {token}"},
		{"expired", "Bearer " + expired, "Token has expired"},
		{"wrong issuer", "Bearer " + wrongIssuer, "Invalid token"},
		{"wrong secret", "Bearer " + wrongSecret, "Invalid token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen domain.Actor
			r := newAuthRouter(t, &seen)
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			r.ServeHTTP(w, req)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Contains(t, w.Body.String(), tt.msg)
			assert.Empty(t, seen.ID)
		})
	}
}

func TestRateLimit_BlocksAfterLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	lim, err := NewMemoryLimiter("2-M")
	require.NoError(t, err)

	r := gin.New()
	r.Use(RateLimit(lim))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 3)
	for i := range codes {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		codes[i] = w.Code
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	_, err = NewMemoryLimiter("lots")
	assert.Error(t, err)
}
