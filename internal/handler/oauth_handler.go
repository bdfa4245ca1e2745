package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/studorg/portal-api/internal/apperr"
	"github.com/studorg/portal-api/internal/dto"
	"github.com/studorg/portal-api/internal/service"
	"github.com/studorg/portal-api/internal/utils"
)

// callbackPage is served at the end of the Google round-trip. Opened as a
// popup it notifies the opener and closes itself; opened as a top-level
// navigation it falls back to a frontend redirect.
var callbackPage = template.Must(template.New("callback").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Student Portal</title></head>
<body>
<script>
(function () {
	var payload = {{.Payload}};
	if (window.opener) {
		window.opener.postMessage(payload, {{.TargetOrigin}});
		window.close();
	} else {
		window.location.replace({{.RedirectURL}});
	}
})();
</script>
<p>You can close this window.</p>
</body>
</html>
`))

// OAuthHandler handles the Google OAuth round-trip. The CSRF state parameter
// is a short-lived signed token, so no server-side state store is needed.
type OAuthHandler struct {
	authService     service.AuthService
	jwtManager      *utils.JWTManager
	logger          *zap.Logger
	config          *oauth2.Config
	frontendBaseURL string
	secureCookies   bool
}

// NewOAuthHandler creates a new Google OAuth handler. clientID may be empty,
// in which case the handler reports itself unconfigured.
func NewOAuthHandler(
	authService service.AuthService,
	jwtManager *utils.JWTManager,
	logger *zap.Logger,
	clientID, clientSecret, redirectURL, frontendBaseURL string,
	secureCookies bool,
) *OAuthHandler {
	return &OAuthHandler{
		authService: authService,
		jwtManager:  jwtManager,
		logger:      logger,
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes: []string{
				"openid",
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
		frontendBaseURL: frontendBaseURL,
		secureCookies:   secureCookies,
	}
}

// IsConfigured reports whether Google OAuth credentials are present.
func (h *OAuthHandler) IsConfigured() bool {
	return h.config.ClientID != "" && h.config.ClientSecret != ""
}

// Login starts the Google round-trip. With linkAccount=true the flow binds
// the Google identity to the authenticated caller instead of signing in.
func (h *OAuthHandler) Login(c *gin.Context) {
	if c.Query("linkAccount") == "true" {
		claims, ok := claimsFromContext(c)
		if !ok {
			respondError(c, h.logger, apperr.Unauthorized("authentication required").WithCode(apperr.CodeNoToken))
			return
		}
		h.beginFlow(c, true, claims.UserID)
		return
	}

	h.beginFlow(c, false, "")
}

func (h *OAuthHandler) beginFlow(c *gin.Context, linkAccount bool, userID string) {
	if !h.IsConfigured() {
		c.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{
			Error:   "Service unavailable",
			Message: "google sign-in is not configured",
		})
		return
	}

	state, err := h.jwtManager.GenerateStateToken(linkAccount, userID)
	if err != nil {
		h.logger.Error("failed to generate oauth state", zap.Error(err))
		respondError(c, h.logger, apperr.Internal("failed to start google sign-in", err))
		return
	}

	c.Redirect(http.StatusTemporaryRedirect, h.config.AuthCodeURL(state))
}

// Callback finishes the Google round-trip. It always answers with HTML: this
// endpoint is navigated to by the browser, not fetched by the frontend.
func (h *OAuthHandler) Callback(c *gin.Context) {
	if !h.IsConfigured() {
		h.renderResult(c, "error", "google_not_configured")
		return
	}

	if errParam := c.Query("error"); errParam != "" {
		h.logger.Warn("google oauth denied", zap.String("error", errParam))
		h.renderResult(c, "error", "google_denied")
		return
	}

	state, err := h.jwtManager.ValidateStateToken(c.Query("state"))
	if err != nil {
		h.logger.Warn("invalid oauth state", zap.Error(err))
		h.renderResult(c, "error", "invalid_state")
		return
	}

	code := c.Query("code")
	if code == "" {
		h.renderResult(c, "error", "invalid_code")
		return
	}

	token, err := h.config.Exchange(c.Request.Context(), code)
	if err != nil {
		h.logger.Error("failed to exchange oauth code", zap.Error(err))
		h.renderResult(c, "error", "token_exchange")
		return
	}

	googleUser, err := fetchGoogleUser(c.Request.Context(), token)
	if err != nil {
		h.logger.Error("failed to fetch google user info", zap.Error(err))
		h.renderResult(c, "error", "user_info")
		return
	}

	if state.LinkAccount && state.UserID != "" {
		h.finishLink(c, state.UserID, googleUser)
		return
	}

	h.finishLogin(c, googleUser)
}

func (h *OAuthHandler) finishLink(c *gin.Context, userID string, googleUser *service.GoogleUser) {
	if err := h.authService.LinkGoogle(c.Request.Context(), userID, googleUser.GoogleID); err != nil {
		appErr := apperr.From(err)
		h.logger.Warn("google link failed", zap.String("user_id", userID), zap.String("reason", appErr.Message))
		if appErr.Status == http.StatusConflict {
			h.renderResult(c, "error", "google_already_linked")
			return
		}
		h.renderResult(c, "error", "link_failed")
		return
	}

	h.renderResult(c, "linked", "")
}

func (h *OAuthHandler) finishLogin(c *gin.Context, googleUser *service.GoogleUser) {
	result, err := h.authService.LoginWithGoogle(c.Request.Context(), googleUser)
	if err != nil {
		appErr := apperr.From(err)
		switch appErr.Code {
		case apperr.CodeGoogleNotLinked:
			h.renderResult(c, "error", "google_not_linked")
		default:
			h.logger.Warn("google login failed", zap.String("reason", appErr.Message))
			h.renderResult(c, "error", "login_failed")
		}
		return
	}

	setAuthCookies(c, result, h.secureCookies)
	h.renderResult(c, "success", "")
}

// renderResult writes the interstitial HTML page carrying the flow outcome.
func (h *OAuthHandler) renderResult(c *gin.Context, status, reason string) {
	payload := map[string]string{
		"type":   "google-auth",
		"status": status,
	}
	if reason != "" {
		payload["reason"] = reason
	}

	redirectURL := h.frontendBaseURL + "/login?google=" + status
	if reason != "" {
		redirectURL += "&reason=" + reason
	}
	if status == "linked" {
		redirectURL = h.frontendBaseURL + "/profile?google=linked"
	}

	c.Status(http.StatusOK)
	c.Header("Content-Type", "text/html; charset=utf-8")
	err := callbackPage.Execute(c.Writer, gin.H{
		"Payload":      payload,
		"TargetOrigin": h.frontendBaseURL,
		"RedirectURL":  redirectURL,
	})
	if err != nil {
		h.logger.Error("failed to render oauth callback page", zap.Error(err))
	}
}

// fetchGoogleUser retrieves the caller's identity from Google's userinfo
// endpoint.
func fetchGoogleUser(ctx context.Context, token *oauth2.Token) (*service.GoogleUser, error) {
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(token))

	resp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var info struct {
		ID      string `json:"id"`
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("failed to decode user info: %w", err)
	}

	if info.ID == "" {
		return nil, errors.New("user info response missing id")
	}

	return &service.GoogleUser{
		GoogleID:  info.ID,
		Email:     info.Email,
		Name:      info.Name,
		AvatarURL: info.Picture,
	}, nil
}
