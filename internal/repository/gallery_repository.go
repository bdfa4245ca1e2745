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

// galleryRepository implements GalleryRepository interface
type galleryRepository struct {
	db *database.Postgres
}

// NewGalleryRepository creates a new gallery repository
func NewGalleryRepository(db *database.Postgres) GalleryRepository {
	return &galleryRepository{db: db}
}

// Create creates a new gallery item
func (r *galleryRepository) Create(ctx context.Context, item *domain.GalleryItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}

	now := time.Now()
	if item.CreatedAt.IsZero() {
		item.CreatedAt = now
	}
	if item.UpdatedAt.IsZero() {
		item.UpdatedAt = now
	}

	query := `
		INSERT INTO gallery_items (id, title, image_url, caption, category_id, uploaded_by, taken_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.DB.ExecContext(ctx, query,
		item.ID,
		item.Title,
		item.ImageURL,
		item.Caption,
		item.CategoryID,
		item.UploadedBy,
		item.TakenAt,
		item.CreatedAt,
		item.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("failed to create gallery item: %w", ErrForeignKey)
		}
		return fmt.Errorf("failed to create gallery item: %w", err)
	}

	return nil
}

// GetByID retrieves a gallery item with its category.
func (r *galleryRepository) GetByID(ctx context.Context, id string) (*domain.GalleryItem, error) {
	query := `
		SELECT g.id, g.title, g.image_url, g.caption, g.category_id, g.uploaded_by, g.taken_at, g.created_at, g.updated_at,
		       c.id, c.name, c.slug
		FROM gallery_items g
		LEFT JOIN categories c ON c.id = g.category_id
		WHERE g.id = $1
	`

	item, err := scanGalleryItem(r.db.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("gallery item with id %s not found: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get gallery item by id: %w", err)
	}

	return item, nil
}

// List returns a page of gallery items, newest first, plus the total count.
func (r *galleryRepository) List(ctx context.Context, offset, limit int, categorySlug string) ([]*domain.GalleryItem, int, error) {
	where := "WHERE 1=1"
	args := []interface{}{}

	if categorySlug != "" {
		args = append(args, categorySlug)
		where += fmt.Sprintf(" AND c.slug = $%d", len(args))
	}

	countQuery := `SELECT COUNT(*) FROM gallery_items g LEFT JOIN categories c ON c.id = g.category_id ` + where

	var total int
	if err := r.db.DB.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count gallery items: %w", err)
	}

	args = append(args, limit, offset)
	query := fmt.Sprintf(`
		SELECT g.id, g.title, g.image_url, g.caption, g.category_id, g.uploaded_by, g.taken_at, g.created_at, g.updated_at,
		       c.id, c.name, c.slug
		FROM gallery_items g
		LEFT JOIN categories c ON c.id = g.category_id
		%s
		ORDER BY g.created_at DESC
		LIMIT $%d OFFSET $%d
	`, where, len(args)-1, len(args))

	rows, err := r.db.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list gallery items: %w", err)
	}
	defer rows.Close()

	var items []*domain.GalleryItem
	for rows.Next() {
		item, err := scanGalleryItem(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan gallery item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate gallery items: %w", err)
	}

	return items, total, nil
}

// Update overwrites a gallery item.
func (r *galleryRepository) Update(ctx context.Context, item *domain.GalleryItem) error {
	query := `
		UPDATE gallery_items
		SET title = $2, image_url = $3, caption = $4, category_id = $5, taken_at = $6, updated_at = $7
		WHERE id = $1
	`

	result, err := r.db.DB.ExecContext(ctx, query,
		item.ID,
		item.Title,
		item.ImageURL,
		item.Caption,
		item.CategoryID,
		item.TakenAt,
		time.Now(),
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("failed to update gallery item: %w", ErrForeignKey)
		}
		return fmt.Errorf("failed to update gallery item: %w", err)
	}

	return requireRowsAffected(result, item.ID)
}

// Delete deletes a gallery item by ID
func (r *galleryRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.DB.ExecContext(ctx, `DELETE FROM gallery_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete gallery item: %w", err)
	}

	return requireRowsAffected(result, id)
}

func scanGalleryItem(row rowScanner) (*domain.GalleryItem, error) {
	item := &domain.GalleryItem{}
	var (
		categoryID sql.NullString
		takenAt    sql.NullTime
		catID      sql.NullString
		catName    sql.NullString
		catSlug    sql.NullString
	)

	err := row.Scan(
		&item.ID,
		&item.Title,
		&item.ImageURL,
		&item.Caption,
		&categoryID,
		&item.UploadedBy,
		&takenAt,
		&item.CreatedAt,
		&item.UpdatedAt,
		&catID,
		&catName,
		&catSlug,
	)
	if err != nil {
		return nil, err
	}

	if categoryID.Valid {
		item.CategoryID = &categoryID.String
	}
	if takenAt.Valid {
		item.TakenAt = &takenAt.Time
	}
	if catID.Valid {
		item.Category = &domain.Category{ID: catID.String, Name: catName.String, Slug: catSlug.String}
	}

	return item, nil
}
