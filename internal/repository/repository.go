package repository

import (
	"github.com/studorg/portal-api/pkg/database"
)

// Repositories holds all repository interfaces
type Repositories struct {
	User         UserRepository
	Event        EventRepository
	Announcement AnnouncementRepository
	Gallery      GalleryRepository
	CoreTeam     CoreTeamRepository
	Category     CategoryRepository
}

// NewRepositories creates all repositories
func NewRepositories(db *database.Postgres) *Repositories {
	return &Repositories{
		User:         NewUserRepository(db),
		Event:        NewEventRepository(db),
		Announcement: NewAnnouncementRepository(db),
		Gallery:      NewGalleryRepository(db),
		CoreTeam:     NewCoreTeamRepository(db),
		Category:     NewCategoryRepository(db),
	}
}
