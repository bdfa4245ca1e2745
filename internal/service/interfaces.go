package service

import (
	"context"

	"github.com/studorg/portal-api/internal/domain"
	"github.com/studorg/portal-api/internal/dto"
)

// AuthResult bundles the browser-facing auth payload with the refresh token
// that goes into the httpOnly cookie.
type AuthResult struct {
	Response     *dto.AuthResponse
	RefreshToken string
	RefreshTTL   int // seconds
}

// GoogleUser is the identity subset fetched from Google's userinfo endpoint.
type GoogleUser struct {
	GoogleID  string
	Email     string
	Name      string
	AvatarURL string
}

// AuthService defines methods for authentication and account operations
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*AuthResult, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*AuthResult, error)
	Refresh(ctx context.Context, refreshToken string) (*AuthResult, error)
	Logout(ctx context.Context, refreshToken string) error
	ValidateAccessToken(token string) (*domain.AccessClaims, error)

	CurrentUser(ctx context.Context, userID string) (*dto.UserResponse, error)
	PublicProfile(ctx context.Context, userID string) (*dto.PublicProfileResponse, error)
	UpdateProfile(ctx context.Context, userID string, req *dto.UpdateProfileRequest) (*dto.UserResponse, error)
	ChangePassword(ctx context.Context, userID string, req *dto.ChangePasswordRequest) error

	// LoginWithGoogle authenticates an already linked Google identity. It
	// never creates users.
	LoginWithGoogle(ctx context.Context, g *GoogleUser) (*AuthResult, error)
	LinkGoogle(ctx context.Context, userID, googleID string) error
	UnlinkGoogle(ctx context.Context, userID string) error
}

// EventService defines methods for event operations
type EventService interface {
	Create(ctx context.Context, actor *domain.AccessClaims, req *dto.CreateEventRequest) (*domain.Event, error)
	Get(ctx context.Context, id string) (*domain.Event, error)
	List(ctx context.Context, q *dto.EventListQuery, includeUnpublished bool) (*dto.EventListResponse, error)
	Update(ctx context.Context, actor *domain.AccessClaims, id string, req *dto.UpdateEventRequest) (*domain.Event, error)
	Delete(ctx context.Context, actor *domain.AccessClaims, id string) error
}

// AnnouncementService defines methods for announcement operations
type AnnouncementService interface {
	Create(ctx context.Context, actor *domain.AccessClaims, req *dto.CreateAnnouncementRequest) (*domain.Announcement, error)
	Get(ctx context.Context, id string) (*domain.Announcement, error)
	List(ctx context.Context, q *dto.ListQuery, includeUnpublished bool) (*dto.AnnouncementListResponse, error)
	Update(ctx context.Context, actor *domain.AccessClaims, id string, req *dto.UpdateAnnouncementRequest) (*domain.Announcement, error)
	Delete(ctx context.Context, actor *domain.AccessClaims, id string) error
}

// GalleryService defines methods for gallery operations
type GalleryService interface {
	Create(ctx context.Context, actor *domain.AccessClaims, req *dto.CreateGalleryItemRequest) (*domain.GalleryItem, error)
	Get(ctx context.Context, id string) (*domain.GalleryItem, error)
	List(ctx context.Context, q *dto.GalleryListQuery) (*dto.GalleryListResponse, error)
	Update(ctx context.Context, actor *domain.AccessClaims, id string, req *dto.UpdateGalleryItemRequest) (*domain.GalleryItem, error)
	Delete(ctx context.Context, actor *domain.AccessClaims, id string) error
}

// CoreTeamService defines methods for core team cards
type CoreTeamService interface {
	Create(ctx context.Context, req *dto.CreateCoreTeamMemberRequest) (*domain.CoreTeamMember, error)
	List(ctx context.Context, includeInactive bool) ([]*domain.CoreTeamMember, error)
	Update(ctx context.Context, id string, req *dto.UpdateCoreTeamMemberRequest) (*domain.CoreTeamMember, error)
	Delete(ctx context.Context, id string) error
}

// CategoryService defines methods for categories
type CategoryService interface {
	Create(ctx context.Context, req *dto.CreateCategoryRequest) (*domain.Category, error)
	List(ctx context.Context) ([]*domain.Category, error)
	Delete(ctx context.Context, id string) error
}

// ImageStore persists inline image payloads and returns stable URLs. Plain
// URLs pass through untouched.
type ImageStore interface {
	Persist(ctx context.Context, folder, image string) (string, error)
}
