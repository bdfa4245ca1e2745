package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/studorg/portal-api/internal/domain"
	"github.com/studorg/portal-api/pkg/database"
)

// categoryRepository implements CategoryRepository interface
type categoryRepository struct {
	db *database.Postgres
}

// NewCategoryRepository creates a new category repository
func NewCategoryRepository(db *database.Postgres) CategoryRepository {
	return &categoryRepository{db: db}
}

// Create creates a new category
func (r *categoryRepository) Create(ctx context.Context, c *domain.Category) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}

	query := `INSERT INTO categories (id, name, slug) VALUES ($1, $2, $3)`

	_, err := r.db.DB.ExecContext(ctx, query, c.ID, c.Name, c.Slug)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return fmt.Errorf("failed to create category: %w", ErrDuplicateCategory)
		}
		return fmt.Errorf("failed to create category: %w", err)
	}

	return nil
}

// GetBySlug retrieves a category by slug
func (r *categoryRepository) GetBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	query := `SELECT id, name, slug FROM categories WHERE slug = $1`

	c := &domain.Category{}
	err := r.db.DB.QueryRowContext(ctx, query, slug).Scan(&c.ID, &c.Name, &c.Slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("category with slug %s not found: %w", slug, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get category by slug: %w", err)
	}

	return c, nil
}

// List returns all categories ordered by name
func (r *categoryRepository) List(ctx context.Context) ([]*domain.Category, error) {
	rows, err := r.db.DB.QueryContext(ctx, `SELECT id, name, slug FROM categories ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var categories []*domain.Category
	for rows.Next() {
		c := &domain.Category{}
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate categories: %w", err)
	}

	return categories, nil
}

// Delete deletes a category by ID. Events and gallery items keep their rows
// with category_id set to NULL.
func (r *categoryRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.DB.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}

	return requireRowsAffected(result, id)
}
