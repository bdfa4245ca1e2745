package repository

import (
	"context"

	"github.com/studorg/portal-api/internal/domain"
)

// UserRepository is the credential store: user records plus their lazily
// created profiles.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByGoogleID(ctx context.Context, googleID string) (*domain.User, error)

	// GetWithProfile loads a user together with its profile, creating an
	// empty profile row on first access. This is the single place the
	// "every user has exactly one profile" invariant is enforced.
	GetWithProfile(ctx context.Context, id string) (*domain.User, *domain.Profile, error)

	Update(ctx context.Context, user *domain.User) error
	UpdateProfile(ctx context.Context, profile *domain.Profile) error
	UpdateLastLogin(ctx context.Context, userID string) error

	// SetRefreshTokenHash overwrites the single currently valid refresh
	// token hash; nil clears it. Last writer wins.
	SetRefreshTokenHash(ctx context.Context, userID string, hash *string) error

	// SetGoogleID binds or clears (nil) the Google identity.
	SetGoogleID(ctx context.Context, userID string, googleID *string) error
}

// EventFilter narrows an event listing.
type EventFilter struct {
	Offset        int
	Limit         int
	CategorySlug  string
	UpcomingOnly  bool
	Search        string
	PublishedOnly bool
}

// EventRepository defines methods for event operations
type EventRepository interface {
	Create(ctx context.Context, event *domain.Event) error
	GetByID(ctx context.Context, id string) (*domain.Event, error)
	List(ctx context.Context, filter EventFilter) ([]*domain.Event, int, error)
	Update(ctx context.Context, event *domain.Event) error
	Delete(ctx context.Context, id string) error
}

// AnnouncementRepository defines methods for announcement operations
type AnnouncementRepository interface {
	Create(ctx context.Context, a *domain.Announcement) error
	GetByID(ctx context.Context, id string) (*domain.Announcement, error)
	List(ctx context.Context, offset, limit int, publishedOnly bool) ([]*domain.Announcement, int, error)
	Update(ctx context.Context, a *domain.Announcement) error
	Delete(ctx context.Context, id string) error
}

// GalleryRepository defines methods for gallery operations
type GalleryRepository interface {
	Create(ctx context.Context, item *domain.GalleryItem) error
	GetByID(ctx context.Context, id string) (*domain.GalleryItem, error)
	List(ctx context.Context, offset, limit int, categorySlug string) ([]*domain.GalleryItem, int, error)
	Update(ctx context.Context, item *domain.GalleryItem) error
	Delete(ctx context.Context, id string) error
}

// CoreTeamRepository defines methods for core team cards
type CoreTeamRepository interface {
	Create(ctx context.Context, m *domain.CoreTeamMember) error
	GetByID(ctx context.Context, id string) (*domain.CoreTeamMember, error)
	List(ctx context.Context, activeOnly bool) ([]*domain.CoreTeamMember, error)
	Update(ctx context.Context, m *domain.CoreTeamMember) error
	Delete(ctx context.Context, id string) error
}

// CategoryRepository defines methods for categories
type CategoryRepository interface {
	Create(ctx context.Context, c *domain.Category) error
	GetBySlug(ctx context.Context, slug string) (*domain.Category, error)
	List(ctx context.Context) ([]*domain.Category, error)
	Delete(ctx context.Context, id string) error
}
