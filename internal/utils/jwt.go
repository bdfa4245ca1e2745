package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/studorg/portal-api/internal/domain"
)

// Token verification failure modes. Anything that is not an expiry collapses
// into ErrTokenInvalid so callers cannot leak parse details.
var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

// JWTManager mints and verifies the three signed artifacts the portal uses:
// access tokens, refresh tokens, and the OAuth state parameter. It is pure
// over its secrets and performs no I/O.
type JWTManager struct {
	accessSecret       []byte
	refreshSecret      []byte
	accessTokenExpiry  time.Duration
	refreshTokenExpiry time.Duration
	stateExpiry        time.Duration
}

// NewJWTManager creates a new JWT manager. refreshSecret may equal
// accessSecret when no dedicated refresh secret is configured.
func NewJWTManager(accessSecret, refreshSecret string, accessTokenExpiry, refreshTokenExpiry, stateExpiry time.Duration) *JWTManager {
	return &JWTManager{
		accessSecret:       []byte(accessSecret),
		refreshSecret:      []byte(refreshSecret),
		accessTokenExpiry:  accessTokenExpiry,
		refreshTokenExpiry: refreshTokenExpiry,
		stateExpiry:        stateExpiry,
	}
}

// GenerateAccessToken generates a new access token carrying the user's public
// claim set.
func (j *JWTManager) GenerateAccessToken(user *domain.User) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":        user.ID,
		"email":     user.Email,
		"name":      user.Name,
		"role":      string(user.Role),
		"avatarUrl": user.AvatarURL,
		"exp":       now.Add(j.accessTokenExpiry).Unix(),
		"iat":       now.Unix(),
	})

	tokenString, err := token.SignedString(j.accessSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}

	return tokenString, nil
}

// GenerateRefreshToken generates a new refresh token.
func (j *JWTManager) GenerateRefreshToken(user *domain.User) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":        user.ID,
		"email":     user.Email,
		"tokenType": "refresh",
		"jti":       uuid.New().String(),
		"exp":       now.Add(j.refreshTokenExpiry).Unix(),
		"iat":       now.Unix(),
	})

	tokenString, err := token.SignedString(j.refreshSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign refresh token: %w", err)
	}

	return tokenString, nil
}

// ValidateAccessToken verifies an access token and returns its claims.
// Returns ErrTokenExpired when the token is structurally sound but past its
// expiry, ErrTokenInvalid for every other failure.
func (j *JWTManager) ValidateAccessToken(tokenString string) (*domain.AccessClaims, error) {
	claims, err := j.parse(tokenString, j.accessSecret)
	if err != nil {
		return nil, err
	}

	userID, _ := claims["id"].(string)
	email, _ := claims["email"].(string)
	role, _ := claims["role"].(string)
	if userID == "" || !domain.Role(role).Valid() {
		return nil, ErrTokenInvalid
	}

	name, _ := claims["name"].(string)
	avatarURL, _ := claims["avatarUrl"].(string)
	exp, _ := claims["exp"].(float64)
	iat, _ := claims["iat"].(float64)

	return &domain.AccessClaims{
		UserID:    userID,
		Email:     email,
		Name:      name,
		Role:      domain.Role(role),
		AvatarURL: avatarURL,
		Exp:       int64(exp),
		Iat:       int64(iat),
	}, nil
}

// ValidateRefreshToken verifies a refresh token and returns its claims.
func (j *JWTManager) ValidateRefreshToken(tokenString string) (*domain.RefreshClaims, error) {
	claims, err := j.parse(tokenString, j.refreshSecret)
	if err != nil {
		return nil, err
	}

	if claims["tokenType"] != "refresh" {
		return nil, ErrTokenInvalid
	}

	userID, _ := claims["id"].(string)
	if userID == "" {
		return nil, ErrTokenInvalid
	}

	email, _ := claims["email"].(string)
	exp, _ := claims["exp"].(float64)
	iat, _ := claims["iat"].(float64)

	return &domain.RefreshClaims{
		UserID:    userID,
		Email:     email,
		TokenType: "refresh",
		Exp:       int64(exp),
		Iat:       int64(iat),
	}, nil
}

// GenerateStateToken mints the signed OAuth state parameter carried through
// the Google consent round-trip.
func (j *JWTManager) GenerateStateToken(linkAccount bool, userID string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"nonce": uuid.New().String(),
		"link":  linkAccount,
		"exp":   now.Add(j.stateExpiry).Unix(),
		"iat":   now.Unix(),
	}
	if userID != "" {
		claims["uid"] = userID
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(j.accessSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign state token: %w", err)
	}

	return tokenString, nil
}

// ValidateStateToken verifies the OAuth state parameter.
func (j *JWTManager) ValidateStateToken(tokenString string) (*domain.OAuthState, error) {
	claims, err := j.parse(tokenString, j.accessSecret)
	if err != nil {
		return nil, err
	}

	nonce, _ := claims["nonce"].(string)
	if nonce == "" {
		return nil, ErrTokenInvalid
	}

	link, _ := claims["link"].(bool)
	userID, _ := claims["uid"].(string)
	exp, _ := claims["exp"].(float64)

	return &domain.OAuthState{
		Nonce:       nonce,
		LinkAccount: link,
		UserID:      userID,
		Exp:         int64(exp),
	}, nil
}

// GetAccessTokenExpiry returns the access token expiry duration in seconds
func (j *JWTManager) GetAccessTokenExpiry() int {
	return int(j.accessTokenExpiry.Seconds())
}

// GetRefreshTokenExpiry returns the refresh token expiry duration in seconds
func (j *JWTManager) GetRefreshTokenExpiry() int {
	return int(j.refreshTokenExpiry.Seconds())
}

func (j *JWTManager) parse(tokenString string, secret []byte) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	if !token.Valid {
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}
