package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/studorg/portal-api/internal/domain"
	"github.com/studorg/portal-api/pkg/database"
)

const announcementColumns = `id, title, body, pinned, image_url, created_by, is_published, created_at, updated_at`

// announcementRepository implements AnnouncementRepository interface
type announcementRepository struct {
	db *database.Postgres
}

// NewAnnouncementRepository creates a new announcement repository
func NewAnnouncementRepository(db *database.Postgres) AnnouncementRepository {
	return &announcementRepository{db: db}
}

// Create creates a new announcement
func (r *announcementRepository) Create(ctx context.Context, a *domain.Announcement) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}

	now := time.Now()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	if a.UpdatedAt.IsZero() {
		a.UpdatedAt = now
	}

	query := `
		INSERT INTO announcements (` + announcementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.DB.ExecContext(ctx, query,
		a.ID,
		a.Title,
		a.Body,
		a.Pinned,
		a.ImageURL,
		a.CreatedBy,
		a.IsPublished,
		a.CreatedAt,
		a.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("failed to create announcement: %w", ErrForeignKey)
		}
		return fmt.Errorf("failed to create announcement: %w", err)
	}

	return nil
}

// GetByID retrieves an announcement by ID
func (r *announcementRepository) GetByID(ctx context.Context, id string) (*domain.Announcement, error) {
	query := `SELECT ` + announcementColumns + ` FROM announcements WHERE id = $1`

	a, err := scanAnnouncement(r.db.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("announcement with id %s not found: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get announcement by id: %w", err)
	}

	return a, nil
}

// List returns a page of announcements, pinned first, newest first within a
// pin group, plus the total count.
func (r *announcementRepository) List(ctx context.Context, offset, limit int, publishedOnly bool) ([]*domain.Announcement, int, error) {
	where := ""
	if publishedOnly {
		where = "WHERE is_published = true"
	}

	var total int
	if err := r.db.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM announcements `+where).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count announcements: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM announcements
		%s
		ORDER BY pinned DESC, created_at DESC
		LIMIT $1 OFFSET $2
	`, announcementColumns, where)

	rows, err := r.db.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list announcements: %w", err)
	}
	defer rows.Close()

	var announcements []*domain.Announcement
	for rows.Next() {
		a, err := scanAnnouncement(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan announcement: %w", err)
		}
		announcements = append(announcements, a)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate announcements: %w", err)
	}

	return announcements, total, nil
}

// Update overwrites an announcement.
func (r *announcementRepository) Update(ctx context.Context, a *domain.Announcement) error {
	query := `
		UPDATE announcements
		SET title = $2, body = $3, pinned = $4, image_url = $5, is_published = $6, updated_at = $7
		WHERE id = $1
	`

	result, err := r.db.DB.ExecContext(ctx, query,
		a.ID,
		a.Title,
		a.Body,
		a.Pinned,
		a.ImageURL,
		a.IsPublished,
		time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to update announcement: %w", err)
	}

	return requireRowsAffected(result, a.ID)
}

// Delete deletes an announcement by ID
func (r *announcementRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.DB.ExecContext(ctx, `DELETE FROM announcements WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete announcement: %w", err)
	}

	return requireRowsAffected(result, id)
}

func scanAnnouncement(row rowScanner) (*domain.Announcement, error) {
	a := &domain.Announcement{}

	err := row.Scan(
		&a.ID,
		&a.Title,
		&a.Body,
		&a.Pinned,
		&a.ImageURL,
		&a.CreatedBy,
		&a.IsPublished,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return a, nil
}
