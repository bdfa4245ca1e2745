package dto

import (
	"encoding/json"

	"github.com/studorg/portal-api/internal/domain"
)

// ErrorResponse represents an error response. Code carries a machine-readable
// discriminator (for example TOKEN_EXPIRED) when one applies; Required and
// Current are filled on role-gate rejections.
type ErrorResponse struct {
	Error    string      `json:"error"`
	Message  string      `json:"message"`
	Code     string      `json:"code,omitempty"`
	Required []string    `json:"required,omitempty"`
	Current  string      `json:"current,omitempty"`
	Details  interface{} `json:"details,omitempty"`
}

// SuccessResponse represents a success response
type SuccessResponse struct {
	Message string `json:"message"`
}

// ProfileResponse is the serialized profile extension.
type ProfileResponse struct {
	Bio         string          `json:"bio"`
	Location    string          `json:"location"`
	Company     string          `json:"company"`
	Website     string          `json:"website"`
	Phone       string          `json:"phone"`
	BannerURL   string          `json:"bannerUrl"`
	LinkedinURL string          `json:"linkedinUrl"`
	GithubURL   string          `json:"githubUrl"`
	TwitterURL  string          `json:"twitterUrl"`
	Skills      []string        `json:"skills"`
	Interests   []string        `json:"interests"`
	Education   json.RawMessage `json:"education,omitempty"`
	Experience  json.RawMessage `json:"experience,omitempty"`
}

// UserResponse is the caller-facing view of a user.
type UserResponse struct {
	ID              string           `json:"id"`
	Email           string           `json:"email"`
	Name            string           `json:"name"`
	AvatarURL       string           `json:"avatarUrl"`
	Role            domain.Role      `json:"role"`
	IsActive        bool             `json:"isActive"`
	IsEmailVerified bool             `json:"isEmailVerified"`
	GoogleLinked    bool             `json:"googleLinked"`
	LastLoginAt     *string          `json:"lastLoginAt"`
	CreatedAt       string           `json:"createdAt"`
	UpdatedAt       string           `json:"updatedAt"`
	Profile         *ProfileResponse `json:"profile,omitempty"`
}

// PublicProfileResponse is the anonymous-readable subset of a user.
type PublicProfileResponse struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	AvatarURL string           `json:"avatarUrl"`
	Role      domain.Role      `json:"role"`
	Profile   *ProfileResponse `json:"profile,omitempty"`
}

// AuthResponse is returned from register and login.
type AuthResponse struct {
	User        *UserResponse `json:"user"`
	AccessToken string        `json:"accessToken"`
	TokenType   string        `json:"tokenType"`
	ExpiresIn   int           `json:"expiresIn"`
}

// RefreshResponse is returned from a successful token rotation.
type RefreshResponse struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType"`
	ExpiresIn   int    `json:"expiresIn"`
}

// StatusResponse answers the optional-auth status probe.
type StatusResponse struct {
	IsAuthenticated bool          `json:"isAuthenticated"`
	User            *UserResponse `json:"user"`
}

// Pagination describes the window a list response covers.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// NewPagination derives page counts from a total row count.
func NewPagination(page, limit, total int) Pagination {
	pages := total / limit
	if total%limit != 0 {
		pages++
	}
	return Pagination{Page: page, Limit: limit, Total: total, TotalPages: pages}
}

// EventListResponse is a paginated event listing.
type EventListResponse struct {
	Events     []*domain.Event `json:"events"`
	Pagination Pagination      `json:"pagination"`
}

// AnnouncementListResponse is a paginated announcement listing.
type AnnouncementListResponse struct {
	Announcements []*domain.Announcement `json:"announcements"`
	Pagination    Pagination             `json:"pagination"`
}

// GalleryListResponse is a paginated gallery listing.
type GalleryListResponse struct {
	Items      []*domain.GalleryItem `json:"items"`
	Pagination Pagination            `json:"pagination"`
}
