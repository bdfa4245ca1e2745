package service

import (
	"context"

	"github.com/studorg/portal-api/internal/apperr"
	"github.com/studorg/portal-api/internal/domain"
	"github.com/studorg/portal-api/internal/dto"
)

// issueTokens mints a fresh access and refresh token pair and stores the
// refresh token hash, displacing whatever token was valid before.
func (s *authService) issueTokens(ctx context.Context, user *domain.User) (*AuthResult, error) {
	accessToken, err := s.jwtManager.GenerateAccessToken(user)
	if err != nil {
		return nil, apperr.Internal("failed to generate access token", err)
	}

	refreshToken, err := s.jwtManager.GenerateRefreshToken(user)
	if err != nil {
		return nil, apperr.Internal("failed to generate refresh token", err)
	}

	tokenHash := hashToken(refreshToken)
	if err := s.userRepo.SetRefreshTokenHash(ctx, user.ID, &tokenHash); err != nil {
		return nil, apperr.Internal("failed to save refresh token", err)
	}

	return &AuthResult{
		Response: &dto.AuthResponse{
			User:        userResponse(user, nil),
			AccessToken: accessToken,
			TokenType:   "Bearer",
			ExpiresIn:   s.jwtManager.GetAccessTokenExpiry(),
		},
		RefreshToken: refreshToken,
		RefreshTTL:   s.jwtManager.GetRefreshTokenExpiry(),
	}, nil
}
