package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/studorg/portal-api/internal/apperr"
	"github.com/studorg/portal-api/internal/dto"
	"github.com/studorg/portal-api/internal/service"
)

const (
	accessTokenCookie  = "accessToken"
	refreshTokenCookie = "refreshToken"
)

// AuthHandler handles authentication and account requests
type AuthHandler struct {
	authService   service.AuthService
	logger        *zap.Logger
	secureCookies bool
}

// NewAuthHandler creates a new auth handler. secureCookies should be true in
// production so cookies only travel over TLS.
func NewAuthHandler(authService service.AuthService, logger *zap.Logger, secureCookies bool) *AuthHandler {
	return &AuthHandler{
		authService:   authService,
		logger:        logger,
		secureCookies: secureCookies,
	}
}

// setAuthCookies installs the token pair as httpOnly cookies.
func setAuthCookies(c *gin.Context, result *service.AuthResult, secure bool) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(accessTokenCookie, result.Response.AccessToken, result.Response.ExpiresIn, "/", "", secure, true)
	c.SetCookie(refreshTokenCookie, result.RefreshToken, result.RefreshTTL, "/", "", secure, true)
}

// clearAuthCookies expires both token cookies.
func clearAuthCookies(c *gin.Context, secure bool) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(accessTokenCookie, "", -1, "/", "", secure, true)
	c.SetCookie(refreshTokenCookie, "", -1, "/", "", secure, true)
}

// Register handles user registration
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	setAuthCookies(c, result, h.secureCookies)
	c.JSON(http.StatusCreated, result.Response)
}

// Login handles user login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	setAuthCookies(c, result, h.secureCookies)
	c.JSON(http.StatusOK, result.Response)
}

// Refresh rotates the token pair using the refresh cookie.
func (h *AuthHandler) Refresh(c *gin.Context) {
	refreshToken, err := c.Cookie(refreshTokenCookie)
	if err != nil || refreshToken == "" {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error:   "Unauthorized",
			Message: "refresh token not found",
			Code:    apperr.CodeNoToken,
		})
		return
	}

	result, err := h.authService.Refresh(c.Request.Context(), refreshToken)
	if err != nil {
		clearAuthCookies(c, h.secureCookies)
		respondError(c, h.logger, err)
		return
	}

	setAuthCookies(c, result, h.secureCookies)
	c.JSON(http.StatusOK, dto.RefreshResponse{
		AccessToken: result.Response.AccessToken,
		TokenType:   result.Response.TokenType,
		ExpiresIn:   result.Response.ExpiresIn,
	})
}

// Logout clears the session. Succeeds even without a valid token.
func (h *AuthHandler) Logout(c *gin.Context) {
	refreshToken, _ := c.Cookie(refreshTokenCookie)

	if err := h.authService.Logout(c.Request.Context(), refreshToken); err != nil {
		respondError(c, h.logger, err)
		return
	}

	clearAuthCookies(c, h.secureCookies)
	c.JSON(http.StatusOK, dto.SuccessResponse{
		Message: "Logged out successfully",
	})
}

// Me returns the authenticated caller's record with profile.
func (h *AuthHandler) Me(c *gin.Context) {
	claims, _ := claimsFromContext(c)

	user, err := h.authService.CurrentUser(c.Request.Context(), claims.UserID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// Status reports whether the caller holds a valid session. Always 200.
func (h *AuthHandler) Status(c *gin.Context) {
	claims, ok := claimsFromContext(c)
	if !ok {
		c.JSON(http.StatusOK, dto.StatusResponse{IsAuthenticated: false})
		return
	}

	user, err := h.authService.CurrentUser(c.Request.Context(), claims.UserID)
	if err != nil {
		c.JSON(http.StatusOK, dto.StatusResponse{IsAuthenticated: false})
		return
	}

	c.JSON(http.StatusOK, dto.StatusResponse{IsAuthenticated: true, User: user})
}

// PublicProfile returns the anonymous-readable subset of a user.
func (h *AuthHandler) PublicProfile(c *gin.Context) {
	profile, err := h.authService.PublicProfile(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// UpdateProfile merges partial updates into the caller's account.
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	claims, _ := claimsFromContext(c)

	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.authService.UpdateProfile(c.Request.Context(), claims.UserID, &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// ChangePassword rotates the caller's password.
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	claims, _ := claimsFromContext(c)

	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	if err := h.authService.ChangePassword(c.Request.Context(), claims.UserID, &req); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{
		Message: "Password changed successfully",
	})
}

// LinkGoogle binds a Google identity to the caller's account by ID.
func (h *AuthHandler) LinkGoogle(c *gin.Context) {
	claims, _ := claimsFromContext(c)

	var req dto.LinkGoogleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	if err := h.authService.LinkGoogle(c.Request.Context(), claims.UserID, req.GoogleID); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{
		Message: "Google account linked",
	})
}

// UnlinkGoogle removes the caller's Google binding.
func (h *AuthHandler) UnlinkGoogle(c *gin.Context) {
	claims, _ := claimsFromContext(c)

	if err := h.authService.UnlinkGoogle(c.Request.Context(), claims.UserID); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{
		Message: "Google account unlinked",
	})
}
