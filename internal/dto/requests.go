package dto

import (
	"encoding/json"
	"time"
)

// RegisterRequest represents a registration request
type RegisterRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// ChangePasswordRequest carries a password rotation. CurrentPassword may be
// empty only when the account has no password set yet.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword" binding:"required,min=8"`
}

// LinkGoogleRequest binds an external Google identity to the caller.
type LinkGoogleRequest struct {
	GoogleID string `json:"googleId" binding:"required"`
}

// UpdateProfileRequest is a partial merge into the user and profile records.
// Nil fields are left untouched. Avatar and Banner accept either a plain URL
// or an inline data URL; inline payloads are persisted to the image store and
// replaced with a stable URL before saving.
type UpdateProfileRequest struct {
	Name        *string          `json:"name"`
	Avatar      *string          `json:"avatar"`
	Bio         *string          `json:"bio"`
	Location    *string          `json:"location"`
	Company     *string          `json:"company"`
	Website     *string          `json:"website"`
	Phone       *string          `json:"phone"`
	Banner      *string          `json:"banner"`
	LinkedinURL *string          `json:"linkedinUrl"`
	GithubURL   *string          `json:"githubUrl"`
	TwitterURL  *string          `json:"twitterUrl"`
	Skills      *[]string        `json:"skills"`
	Interests   *[]string        `json:"interests"`
	Education   *json.RawMessage `json:"education"`
	Experience  *json.RawMessage `json:"experience"`
}

// ListQuery carries common pagination parameters.
type ListQuery struct {
	Page  int `form:"page,default=1" binding:"omitempty,min=1"`
	Limit int `form:"limit,default=10" binding:"omitempty,min=1,max=100"`
}

// Offset returns the row offset for the query.
func (q ListQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

// EventListQuery adds event filters on top of pagination.
type EventListQuery struct {
	ListQuery
	Category string `form:"category"`
	Upcoming bool   `form:"upcoming"`
	Search   string `form:"q"`
}

// GalleryListQuery adds gallery filters on top of pagination.
type GalleryListQuery struct {
	ListQuery
	Category string `form:"category"`
}

// CreateEventRequest creates an event. Image accepts a URL or an inline data
// URL.
type CreateEventRequest struct {
	Title       string     `json:"title" binding:"required,max=200"`
	Description string     `json:"description"`
	Location    string     `json:"location"`
	StartsAt    time.Time  `json:"startsAt" binding:"required"`
	EndsAt      *time.Time `json:"endsAt"`
	Image       string     `json:"image"`
	CategoryID  *string    `json:"categoryId"`
	Tags        []string   `json:"tags"`
	IsPublished *bool      `json:"isPublished"`
}

// UpdateEventRequest is a partial event update.
type UpdateEventRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Location    *string    `json:"location"`
	StartsAt    *time.Time `json:"startsAt"`
	EndsAt      *time.Time `json:"endsAt"`
	Image       *string    `json:"image"`
	CategoryID  *string    `json:"categoryId"`
	Tags        *[]string  `json:"tags"`
	IsPublished *bool      `json:"isPublished"`
}

// CreateAnnouncementRequest creates an announcement.
type CreateAnnouncementRequest struct {
	Title       string `json:"title" binding:"required,max=200"`
	Body        string `json:"body" binding:"required"`
	Pinned      bool   `json:"pinned"`
	Image       string `json:"image"`
	IsPublished *bool  `json:"isPublished"`
}

// UpdateAnnouncementRequest is a partial announcement update.
type UpdateAnnouncementRequest struct {
	Title       *string `json:"title"`
	Body        *string `json:"body"`
	Pinned      *bool   `json:"pinned"`
	Image       *string `json:"image"`
	IsPublished *bool   `json:"isPublished"`
}

// CreateGalleryItemRequest uploads a gallery photo. Image is required and may
// be inline.
type CreateGalleryItemRequest struct {
	Title      string     `json:"title" binding:"required,max=200"`
	Image      string     `json:"image" binding:"required"`
	Caption    string     `json:"caption"`
	CategoryID *string    `json:"categoryId"`
	TakenAt    *time.Time `json:"takenAt"`
}

// UpdateGalleryItemRequest is a partial gallery item update.
type UpdateGalleryItemRequest struct {
	Title      *string    `json:"title"`
	Image      *string    `json:"image"`
	Caption    *string    `json:"caption"`
	CategoryID *string    `json:"categoryId"`
	TakenAt    *time.Time `json:"takenAt"`
}

// CreateCoreTeamMemberRequest creates a core team card.
type CreateCoreTeamMemberRequest struct {
	UserID       *string `json:"userId"`
	Name         string  `json:"name" binding:"required,max=100"`
	Position     string  `json:"position" binding:"required,max=100"`
	Bio          string  `json:"bio"`
	Photo        string  `json:"photo"`
	LinkedinURL  string  `json:"linkedinUrl"`
	GithubURL    string  `json:"githubUrl"`
	DisplayOrder int     `json:"displayOrder"`
	IsActive     *bool   `json:"isActive"`
}

// UpdateCoreTeamMemberRequest is a partial core team card update.
type UpdateCoreTeamMemberRequest struct {
	UserID       *string `json:"userId"`
	Name         *string `json:"name"`
	Position     *string `json:"position"`
	Bio          *string `json:"bio"`
	Photo        *string `json:"photo"`
	LinkedinURL  *string `json:"linkedinUrl"`
	GithubURL    *string `json:"githubUrl"`
	DisplayOrder *int    `json:"displayOrder"`
	IsActive     *bool   `json:"isActive"`
}

// CreateCategoryRequest creates a category.
type CreateCategoryRequest struct {
	Name string `json:"name" binding:"required,max=100"`
	Slug string `json:"slug" binding:"required,max=100"`
}
