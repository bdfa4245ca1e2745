package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/studorg/portal-api/internal/apperr"
	"github.com/studorg/portal-api/internal/domain"
	"github.com/studorg/portal-api/internal/dto"
	"github.com/studorg/portal-api/internal/repository"
	"github.com/studorg/portal-api/internal/utils"
)

// authService implements AuthService interface
type authService struct {
	userRepo   repository.UserRepository
	jwtManager *utils.JWTManager
	imageStore ImageStore
	logger     *zap.Logger
	bcryptCost int
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo repository.UserRepository,
	jwtManager *utils.JWTManager,
	imageStore ImageStore,
	logger *zap.Logger,
	bcryptCost int,
) AuthService {
	return &authService{
		userRepo:   userRepo,
		jwtManager: jwtManager,
		imageStore: imageStore,
		logger:     logger,
		bcryptCost: bcryptCost,
	}
}

// Register registers a new user and signs them in.
func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*AuthResult, error) {
	if !utils.ValidateEmail(req.Email) {
		return nil, apperr.BadRequest("invalid email format")
	}

	if !utils.ValidatePassword(req.Password) {
		return nil, apperr.BadRequest("password must be at least 8 characters long and contain uppercase, lowercase, and number")
	}

	passwordHash, err := utils.HashPassword(req.Password, s.bcryptCost)
	if err != nil {
		return nil, apperr.Internal("failed to hash password", err)
	}

	user := &domain.User{
		Email:           utils.SanitizeEmail(req.Email),
		PasswordHash:    passwordHash,
		Name:            req.Name,
		Role:            domain.RoleMember,
		IsActive:        true,
		IsEmailVerified: false,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, apperr.Conflict("user with this email already exists")
		}
		return nil, apperr.Internal("failed to create user", err)
	}

	s.logger.Info("user registered", zap.String("user_id", user.ID))

	return s.issueTokens(ctx, user)
}

// Login authenticates a user by email and password.
func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*AuthResult, error) {
	user, err := s.userRepo.GetByEmail(ctx, utils.SanitizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Burn a bcrypt comparison so the response time does not
			// reveal whether the email exists.
			utils.DummyCompare(req.Password)
			return nil, apperr.Unauthorized("invalid email or password")
		}
		return nil, apperr.Internal("failed to get user", err)
	}

	if !user.HasPassword() {
		utils.DummyCompare(req.Password)
		return nil, apperr.Unauthorized("invalid email or password")
	}

	if !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, apperr.Unauthorized("invalid email or password")
	}

	if !user.IsActive {
		return nil, apperr.Unauthorized("account is disabled")
	}

	if err := s.userRepo.UpdateLastLogin(ctx, user.ID); err != nil {
		s.logger.Warn("failed to update last login", zap.String("user_id", user.ID), zap.Error(err))
	}

	return s.issueTokens(ctx, user)
}

// Refresh rotates the refresh token. The presented token must match the
// single stored hash; rotation invalidates it even if the new token is never
// used.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	claims, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		if errors.Is(err, utils.ErrTokenExpired) {
			return nil, apperr.Unauthorized("refresh token expired").WithCode(apperr.CodeTokenExpired)
		}
		return nil, apperr.Unauthorized("invalid refresh token").WithCode(apperr.CodeTokenInvalid)
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.Unauthorized("invalid refresh token").WithCode(apperr.CodeTokenInvalid)
		}
		return nil, apperr.Internal("failed to get user", err)
	}

	tokenHash := hashToken(refreshToken)
	if user.RefreshTokenHash == nil || *user.RefreshTokenHash != tokenHash {
		return nil, apperr.Unauthorized("invalid refresh token").WithCode(apperr.CodeTokenInvalid)
	}

	if !user.IsActive {
		return nil, apperr.Unauthorized("account is disabled")
	}

	return s.issueTokens(ctx, user)
}

// Logout clears the stored refresh token. It never fails the request: an
// unparseable token means there is nothing to revoke.
func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}

	claims, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil
	}

	if err := s.userRepo.SetRefreshTokenHash(ctx, claims.UserID, nil); err != nil && !errors.Is(err, repository.ErrNotFound) {
		s.logger.Warn("failed to clear refresh token", zap.String("user_id", claims.UserID), zap.Error(err))
	}

	return nil
}

// ValidateAccessToken verifies an access token and returns its claims.
func (s *authService) ValidateAccessToken(token string) (*domain.AccessClaims, error) {
	return s.jwtManager.ValidateAccessToken(token)
}

// CurrentUser returns the caller's own record with its profile. A disabled
// account is rejected even when its access token still verifies.
func (s *authService) CurrentUser(ctx context.Context, userID string) (*dto.UserResponse, error) {
	user, profile, err := s.userRepo.GetWithProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, apperr.Internal("failed to get user", err)
	}

	if !user.IsActive {
		return nil, apperr.Unauthorized("account is disabled")
	}

	return userResponse(user, profile), nil
}

// PublicProfile returns the anonymous-readable subset of a user.
func (s *authService) PublicProfile(ctx context.Context, userID string) (*dto.PublicProfileResponse, error) {
	user, profile, err := s.userRepo.GetWithProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, apperr.Internal("failed to get user", err)
	}

	if !user.IsActive {
		return nil, apperr.NotFound("user not found")
	}

	return &dto.PublicProfileResponse{
		ID:        user.ID,
		Name:      user.Name,
		AvatarURL: user.AvatarURL,
		Role:      user.Role,
		Profile:   profileResponse(profile),
	}, nil
}

// UpdateProfile merges non-nil fields into the user and profile records.
func (s *authService) UpdateProfile(ctx context.Context, userID string, req *dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	user, profile, err := s.userRepo.GetWithProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, apperr.Internal("failed to get user", err)
	}

	userChanged := false
	if req.Name != nil {
		user.Name = *req.Name
		userChanged = true
	}
	if req.Avatar != nil {
		url, err := s.imageStore.Persist(ctx, "avatars", *req.Avatar)
		if err != nil {
			return nil, err
		}
		user.AvatarURL = url
		userChanged = true
	}

	if req.Banner != nil {
		url, err := s.imageStore.Persist(ctx, "banners", *req.Banner)
		if err != nil {
			return nil, err
		}
		profile.BannerURL = url
	}
	if req.Bio != nil {
		profile.Bio = *req.Bio
	}
	if req.Location != nil {
		profile.Location = *req.Location
	}
	if req.Company != nil {
		profile.Company = *req.Company
	}
	if req.Website != nil {
		profile.Website = *req.Website
	}
	if req.Phone != nil {
		profile.Phone = *req.Phone
	}
	if req.LinkedinURL != nil {
		profile.LinkedinURL = *req.LinkedinURL
	}
	if req.GithubURL != nil {
		profile.GithubURL = *req.GithubURL
	}
	if req.TwitterURL != nil {
		profile.TwitterURL = *req.TwitterURL
	}
	if req.Skills != nil {
		profile.Skills = *req.Skills
	}
	if req.Interests != nil {
		profile.Interests = *req.Interests
	}
	if req.Education != nil {
		profile.Education = *req.Education
	}
	if req.Experience != nil {
		profile.Experience = *req.Experience
	}

	if userChanged {
		if err := s.userRepo.Update(ctx, user); err != nil {
			return nil, apperr.Internal("failed to update user", err)
		}
	}

	if err := s.userRepo.UpdateProfile(ctx, profile); err != nil {
		return nil, apperr.Internal("failed to update profile", err)
	}

	return userResponse(user, profile), nil
}

// ChangePassword rotates the caller's password. The current password is
// required unless the account has none yet (Google-only accounts setting
// their first password).
func (s *authService) ChangePassword(ctx context.Context, userID string, req *dto.ChangePasswordRequest) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("user not found")
		}
		return apperr.Internal("failed to get user", err)
	}

	if user.HasPassword() {
		if req.CurrentPassword == "" {
			return apperr.BadRequest("current password is required")
		}
		if !utils.CheckPasswordHash(req.CurrentPassword, user.PasswordHash) {
			return apperr.Unauthorized("current password is incorrect")
		}
	}

	if !utils.ValidatePassword(req.NewPassword) {
		return apperr.BadRequest("password must be at least 8 characters long and contain uppercase, lowercase, and number")
	}

	passwordHash, err := utils.HashPassword(req.NewPassword, s.bcryptCost)
	if err != nil {
		return apperr.Internal("failed to hash password", err)
	}

	user.PasswordHash = passwordHash
	if err := s.userRepo.Update(ctx, user); err != nil {
		return apperr.Internal("failed to update user", err)
	}

	s.logger.Info("password changed", zap.String("user_id", userID))

	return nil
}

// LoginWithGoogle authenticates a Google identity that is already linked to a
// portal account. Unknown identities are rejected, never provisioned.
func (s *authService) LoginWithGoogle(ctx context.Context, g *GoogleUser) (*AuthResult, error) {
	user, err := s.userRepo.GetByGoogleID(ctx, g.GoogleID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("google account is not linked to any user").WithCode(apperr.CodeGoogleNotLinked)
		}
		return nil, apperr.Internal("failed to get user", err)
	}

	if !user.IsActive {
		return nil, apperr.Unauthorized("account is disabled")
	}

	if g.AvatarURL != "" && g.AvatarURL != user.AvatarURL {
		user.AvatarURL = g.AvatarURL
		if err := s.userRepo.Update(ctx, user); err != nil {
			s.logger.Warn("failed to update avatar from google profile", zap.String("user_id", user.ID), zap.Error(err))
		}
	}

	if err := s.userRepo.UpdateLastLogin(ctx, user.ID); err != nil {
		s.logger.Warn("failed to update last login", zap.String("user_id", user.ID), zap.Error(err))
	}

	return s.issueTokens(ctx, user)
}

// LinkGoogle binds a Google identity to the user. Re-linking the same
// identity is a no-op; everything else conflicts.
func (s *authService) LinkGoogle(ctx context.Context, userID, googleID string) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("user not found")
		}
		return apperr.Internal("failed to get user", err)
	}

	if user.GoogleID != nil {
		if *user.GoogleID == googleID {
			return nil
		}
		return apperr.Conflict("a different google account is already linked")
	}

	if err := s.userRepo.SetGoogleID(ctx, userID, &googleID); err != nil {
		if errors.Is(err, repository.ErrDuplicateGoogleID) {
			return apperr.Conflict("google account is already linked to another user")
		}
		return apperr.Internal("failed to link google account", err)
	}

	s.logger.Info("google account linked", zap.String("user_id", userID))

	return nil
}

// UnlinkGoogle removes the Google binding. Refused when the account has no
// password, which would leave it with no way to sign in.
func (s *authService) UnlinkGoogle(ctx context.Context, userID string) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("user not found")
		}
		return apperr.Internal("failed to get user", err)
	}

	if user.GoogleID == nil {
		return apperr.BadRequest("no google account is linked")
	}

	if !user.HasPassword() {
		return apperr.Conflict("set a password before unlinking google")
	}

	if err := s.userRepo.SetGoogleID(ctx, userID, nil); err != nil {
		return apperr.Internal("failed to unlink google account", err)
	}

	s.logger.Info("google account unlinked", zap.String("user_id", userID))

	return nil
}

// hashToken hashes a token using SHA256
func hashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}

func profileResponse(p *domain.Profile) *dto.ProfileResponse {
	if p == nil {
		return nil
	}
	skills := p.Skills
	if skills == nil {
		skills = []string{}
	}
	interests := p.Interests
	if interests == nil {
		interests = []string{}
	}
	return &dto.ProfileResponse{
		Bio:         p.Bio,
		Location:    p.Location,
		Company:     p.Company,
		Website:     p.Website,
		Phone:       p.Phone,
		BannerURL:   p.BannerURL,
		LinkedinURL: p.LinkedinURL,
		GithubURL:   p.GithubURL,
		TwitterURL:  p.TwitterURL,
		Skills:      skills,
		Interests:   interests,
		Education:   p.Education,
		Experience:  p.Experience,
	}
}

func userResponse(user *domain.User, profile *domain.Profile) *dto.UserResponse {
	resp := &dto.UserResponse{
		ID:              user.ID,
		Email:           user.Email,
		Name:            user.Name,
		AvatarURL:       user.AvatarURL,
		Role:            user.Role,
		IsActive:        user.IsActive,
		IsEmailVerified: user.IsEmailVerified,
		GoogleLinked:    user.GoogleID != nil,
		CreatedAt:       user.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       user.UpdatedAt.Format(time.RFC3339),
		Profile:         profileResponse(profile),
	}

	if user.LastLoginAt != nil {
		lastLogin := user.LastLoginAt.Format(time.RFC3339)
		resp.LastLoginAt = &lastLogin
	}

	return resp
}
