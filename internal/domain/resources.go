package domain

import "time"

// Category groups events and gallery items.
type Category struct {
	ID   string `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
	Slug string `json:"slug" db:"slug"`
}

// Event is a scheduled organization event.
type Event struct {
	ID          string     `json:"id" db:"id"`
	Title       string     `json:"title" db:"title"`
	Description string     `json:"description" db:"description"`
	Location    string     `json:"location" db:"location"`
	StartsAt    time.Time  `json:"starts_at" db:"starts_at"`
	EndsAt      *time.Time `json:"ends_at" db:"ends_at"`
	ImageURL    string     `json:"image_url" db:"image_url"`
	CategoryID  *string    `json:"category_id" db:"category_id"`
	Category    *Category  `json:"category,omitempty" db:"-"`
	Tags        []string   `json:"tags" db:"-"`
	CreatedBy   string     `json:"created_by" db:"created_by"`
	IsPublished bool       `json:"is_published" db:"is_published"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// Announcement is a portal-wide notice. Pinned announcements sort first.
type Announcement struct {
	ID          string    `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Body        string    `json:"body" db:"body"`
	Pinned      bool      `json:"pinned" db:"pinned"`
	ImageURL    string    `json:"image_url" db:"image_url"`
	CreatedBy   string    `json:"created_by" db:"created_by"`
	IsPublished bool      `json:"is_published" db:"is_published"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// CoreTeamMember is a public-facing profile card for the organization's core
// team. It may reference a portal user but does not have to.
type CoreTeamMember struct {
	ID           string    `json:"id" db:"id"`
	UserID       *string   `json:"user_id" db:"user_id"`
	Name         string    `json:"name" db:"name"`
	Position     string    `json:"position" db:"position"`
	Bio          string    `json:"bio" db:"bio"`
	PhotoURL     string    `json:"photo_url" db:"photo_url"`
	LinkedinURL  string    `json:"linkedin_url" db:"linkedin_url"`
	GithubURL    string    `json:"github_url" db:"github_url"`
	DisplayOrder int       `json:"display_order" db:"display_order"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// GalleryItem is a photo in the organization gallery.
type GalleryItem struct {
	ID         string     `json:"id" db:"id"`
	Title      string     `json:"title" db:"title"`
	ImageURL   string     `json:"image_url" db:"image_url"`
	Caption    string     `json:"caption" db:"caption"`
	CategoryID *string    `json:"category_id" db:"category_id"`
	Category   *Category  `json:"category,omitempty" db:"-"`
	UploadedBy string     `json:"uploaded_by" db:"uploaded_by"`
	TakenAt    *time.Time `json:"taken_at" db:"taken_at"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at" db:"updated_at"`
}
