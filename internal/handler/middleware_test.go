package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studorg/portal-api/internal/domain"
	"github.com/studorg/portal-api/internal/dto"
	"github.com/studorg/portal-api/internal/service"
	"github.com/studorg/portal-api/internal/utils"
)

// stubAuthService fakes token validation; all other AuthService methods panic
// via the embedded nil interface.
type stubAuthService struct {
	service.AuthService
	claims map[string]*domain.AccessClaims
}

func (s *stubAuthService) ValidateAccessToken(token string) (*domain.AccessClaims, error) {
	if token == "expired" {
		return nil, utils.ErrTokenExpired
	}
	claims, ok := s.claims[token]
	if !ok {
		return nil, utils.ErrTokenInvalid
	}
	return claims, nil
}

func newAuthStub() *stubAuthService {
	return &stubAuthService{
		claims: map[string]*domain.AccessClaims{
			"member-token": {UserID: "u-member", Role: domain.RoleMember},
			"core-token":   {UserID: "u-core", Role: domain.RoleCore},
			"admin-token":  {UserID: "u-admin", Role: domain.RoleAdmin},
		},
	}
}

func newTestRouter(authService service.AuthService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	router.GET("/protected", RequireAuth(authService), func(c *gin.Context) {
		claims, _ := claimsFromContext(c)
		c.JSON(http.StatusOK, gin.H{"userId": claims.UserID})
	})
	router.GET("/optional", OptionalAuth(authService), func(c *gin.Context) {
		claims, ok := claimsFromContext(c)
		if !ok {
			c.JSON(http.StatusOK, gin.H{"userId": ""})
			return
		}
		c.JSON(http.StatusOK, gin.H{"userId": claims.UserID})
	})
	router.GET("/staff", RequireAuth(authService), RequireRoles(domain.RoleAdmin, domain.RoleCore), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	return router
}

func doRequest(router *gin.Engine, path string, decorate func(*http.Request)) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", path, nil)
	if decorate != nil {
		decorate(req)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()
	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestRequireAuth_NoToken(t *testing.T) {
	router := newTestRouter(newAuthStub())

	w := doRequest(router, "/protected", nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "NO_TOKEN", decodeError(t, w).Code)
}

func TestRequireAuth_ExpiredToken(t *testing.T) {
	router := newTestRouter(newAuthStub())

	w := doRequest(router, "/protected", func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer expired")
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "TOKEN_EXPIRED", decodeError(t, w).Code)
}

func TestRequireAuth_InvalidToken(t *testing.T) {
	router := newTestRouter(newAuthStub())

	w := doRequest(router, "/protected", func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer junk")
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "TOKEN_INVALID", decodeError(t, w).Code)
}

func TestRequireAuth_CookieToken(t *testing.T) {
	router := newTestRouter(newAuthStub())

	w := doRequest(router, "/protected", func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: "accessToken", Value: "member-token"})
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "u-member")
}

func TestRequireAuth_CookieBeatsHeader(t *testing.T) {
	router := newTestRouter(newAuthStub())

	w := doRequest(router, "/protected", func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: "accessToken", Value: "member-token"})
		req.Header.Set("Authorization", "Bearer admin-token")
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "u-member")
}

func TestRequireAuth_MalformedHeader(t *testing.T) {
	router := newTestRouter(newAuthStub())

	for _, header := range []string{"member-token", "Basic abc", "Bearer"} {
		w := doRequest(router, "/protected", func(req *http.Request) {
			req.Header.Set("Authorization", header)
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code, "header %q should not authenticate", header)
		assert.Equal(t, "NO_TOKEN", decodeError(t, w).Code)
	}
}

func TestOptionalAuth(t *testing.T) {
	router := newTestRouter(newAuthStub())

	// Anonymous passes through.
	w := doRequest(router, "/optional", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// A bad token is ignored rather than rejected.
	w = doRequest(router, "/optional", func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer junk")
	})
	assert.Equal(t, http.StatusOK, w.Code)

	// A valid token attaches claims.
	w = doRequest(router, "/optional", func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer core-token")
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "u-core")
}

func TestRequireRoles(t *testing.T) {
	router := newTestRouter(newAuthStub())

	cases := []struct {
		token  string
		status int
	}{
		{"admin-token", http.StatusOK},
		{"core-token", http.StatusOK},
		{"member-token", http.StatusForbidden},
	}

	for _, tc := range cases {
		w := doRequest(router, "/staff", func(req *http.Request) {
			req.Header.Set("Authorization", "Bearer "+tc.token)
		})
		assert.Equal(t, tc.status, w.Code, "token %s", tc.token)
	}
}

func TestRequireRoles_RejectionPayload(t *testing.T) {
	router := newTestRouter(newAuthStub())

	w := doRequest(router, "/staff", func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer member-token")
	})

	resp := decodeError(t, w)
	assert.Equal(t, "member", resp.Current)
	assert.ElementsMatch(t, []string{"admin", "core"}, resp.Required)
}
