package handler

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/studorg/portal-api/internal/domain"
	"github.com/studorg/portal-api/internal/utils"
)

func newTestJWTManager() *utils.JWTManager {
	return utils.NewJWTManager(
		"test-secret-key-that-is-at-least-32-characters-long",
		"test-refresh-secret-that-is-also-32-characters-long",
		time.Minute,
		time.Hour,
		time.Minute,
	)
}

func newOAuthTestHandler(clientID, clientSecret string) *OAuthHandler {
	return NewOAuthHandler(
		nil,
		newTestJWTManager(),
		zap.NewNop(),
		clientID,
		clientSecret,
		"http://localhost:8080/api/v1/auth/google/redirect",
		"http://localhost:3000",
		false,
	)
}

func newOAuthRouter(h *OAuthHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/google", h.Login)
	router.GET("/google/redirect", h.Callback)
	return router
}

// newLinkedOAuthRouter wires the login route behind a stub middleware that
// attaches the given caller, the way OptionalAuth does for a valid token.
func newLinkedOAuthRouter(h *OAuthHandler, claims *domain.AccessClaims) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/google", func(c *gin.Context) {
		if claims != nil {
			c.Set(claimsContextKey, claims)
		}
		c.Next()
	}, h.Login)
	return router
}

func TestOAuthLogin_RedirectsToGoogle(t *testing.T) {
	router := newOAuthRouter(newOAuthTestHandler("client-id", "client-secret"))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/google", nil))

	require.Equal(t, http.StatusTemporaryRedirect, w.Code)

	location, err := url.Parse(w.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "accounts.google.com", location.Host)
	assert.Equal(t, "client-id", location.Query().Get("client_id"))

	// The state parameter is a verifiable signed token.
	state, err := newTestJWTManager().ValidateStateToken(location.Query().Get("state"))
	require.NoError(t, err)
	assert.False(t, state.LinkAccount)
	assert.NotEmpty(t, state.Nonce)
}

func TestOAuthLogin_Unconfigured(t *testing.T) {
	router := newOAuthRouter(newOAuthTestHandler("", ""))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/google", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestOAuthLogin_LinkAccount(t *testing.T) {
	h := newOAuthTestHandler("client-id", "client-secret")
	router := newLinkedOAuthRouter(h, &domain.AccessClaims{UserID: "user-1", Role: domain.RoleMember})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/google?linkAccount=true", nil))

	require.Equal(t, http.StatusTemporaryRedirect, w.Code)

	location, err := url.Parse(w.Header().Get("Location"))
	require.NoError(t, err)

	state, err := newTestJWTManager().ValidateStateToken(location.Query().Get("state"))
	require.NoError(t, err)
	assert.True(t, state.LinkAccount)
	assert.Equal(t, "user-1", state.UserID)
}

func TestOAuthLogin_LinkRequiresAuth(t *testing.T) {
	h := newOAuthTestHandler("client-id", "client-secret")
	router := newLinkedOAuthRouter(h, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/google?linkAccount=true", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "NO_TOKEN", decodeError(t, w).Code)
}

func TestOAuthCallback_DeniedByUser(t *testing.T) {
	router := newOAuthRouter(newOAuthTestHandler("client-id", "client-secret"))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/google/redirect?error=access_denied", nil))

	// The callback always answers with an HTML interstitial.
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/html"))
	assert.Contains(t, w.Body.String(), "google_denied")
	assert.Contains(t, w.Body.String(), "http://localhost:3000")
}

func TestOAuthCallback_InvalidState(t *testing.T) {
	router := newOAuthRouter(newOAuthTestHandler("client-id", "client-secret"))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/google/redirect?state=forged&code=abc", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_state")
}

func TestOAuthCallback_MissingCode(t *testing.T) {
	h := newOAuthTestHandler("client-id", "client-secret")
	router := newOAuthRouter(h)

	state, err := newTestJWTManager().GenerateStateToken(false, "")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/google/redirect?state="+url.QueryEscape(state), nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_code")
}
