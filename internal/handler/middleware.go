package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/studorg/portal-api/internal/apperr"
	"github.com/studorg/portal-api/internal/domain"
	"github.com/studorg/portal-api/internal/dto"
	"github.com/studorg/portal-api/internal/service"
	"github.com/studorg/portal-api/internal/utils"
)

const claimsContextKey = "claims"

// extractAccessToken pulls the access token from the accessToken cookie,
// falling back to the Authorization bearer header for non-browser clients.
func extractAccessToken(c *gin.Context) string {
	if token, err := c.Cookie(accessTokenCookie); err == nil && token != "" {
		return token
	}

	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}

	return parts[1]
}

// RequireAuth validates the access token and stores its claims in the
// request context. The response code discriminates expired tokens from
// malformed ones so clients know when to attempt a refresh.
func RequireAuth(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractAccessToken(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, dto.ErrorResponse{
				Error:   "Unauthorized",
				Message: "authentication required",
				Code:    apperr.CodeNoToken,
			})
			c.Abort()
			return
		}

		claims, err := authService.ValidateAccessToken(token)
		if err != nil {
			code := apperr.CodeTokenInvalid
			message := "invalid token"
			if errors.Is(err, utils.ErrTokenExpired) {
				code = apperr.CodeTokenExpired
				message = "token expired"
			}
			c.JSON(http.StatusUnauthorized, dto.ErrorResponse{
				Error:   "Unauthorized",
				Message: message,
				Code:    code,
			})
			c.Abort()
			return
		}

		c.Set(claimsContextKey, claims)
		c.Next()
	}
}

// OptionalAuth stores claims in the context when a valid access token is
// present and lets the request through anonymously otherwise.
func OptionalAuth(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := extractAccessToken(c); token != "" {
			if claims, err := authService.ValidateAccessToken(token); err == nil {
				c.Set(claimsContextKey, claims)
			}
		}
		c.Next()
	}
}

// RequireRoles rejects callers whose role is not in the allowed set. Must run
// after RequireAuth.
func RequireRoles(roles ...domain.Role) gin.HandlerFunc {
	required := make([]string, len(roles))
	for i, r := range roles {
		required[i] = string(r)
	}

	return func(c *gin.Context) {
		claims, ok := claimsFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, dto.ErrorResponse{
				Error:   "Unauthorized",
				Message: "authentication required",
				Code:    apperr.CodeNoToken,
			})
			c.Abort()
			return
		}

		for _, r := range roles {
			if claims.Role == r {
				c.Next()
				return
			}
		}

		c.JSON(http.StatusForbidden, dto.ErrorResponse{
			Error:    "Forbidden",
			Message:  "insufficient permissions",
			Required: required,
			Current:  string(claims.Role),
		})
		c.Abort()
	}
}

// claimsFromContext returns the authenticated caller's claims, if any.
func claimsFromContext(c *gin.Context) (*domain.AccessClaims, bool) {
	value, exists := c.Get(claimsContextKey)
	if !exists {
		return nil, false
	}
	claims, ok := value.(*domain.AccessClaims)
	return claims, ok
}

// isStaff reports whether the caller may see unpublished content.
func isStaff(claims *domain.AccessClaims) bool {
	return claims != nil && (claims.Role == domain.RoleAdmin || claims.Role == domain.RoleCore)
}
