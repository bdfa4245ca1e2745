package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/studorg/portal-api/internal/domain"
	"github.com/studorg/portal-api/pkg/database"
)

// eventRepository implements EventRepository interface
type eventRepository struct {
	db *database.Postgres
}

// NewEventRepository creates a new event repository
func NewEventRepository(db *database.Postgres) EventRepository {
	return &eventRepository{db: db}
}

// Create inserts an event and its tags in one transaction.
func (r *eventRepository) Create(ctx context.Context, event *domain.Event) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}

	now := time.Now()
	if event.CreatedAt.IsZero() {
		event.CreatedAt = now
	}
	if event.UpdatedAt.IsZero() {
		event.UpdatedAt = now
	}

	tx, err := r.db.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO events (id, title, description, location, starts_at, ends_at, image_url, category_id, created_by, is_published, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err = tx.ExecContext(ctx, query,
		event.ID,
		event.Title,
		event.Description,
		event.Location,
		event.StartsAt,
		event.EndsAt,
		event.ImageURL,
		event.CategoryID,
		event.CreatedBy,
		event.IsPublished,
		event.CreatedAt,
		event.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("failed to create event: %w", ErrForeignKey)
		}
		return fmt.Errorf("failed to create event: %w", err)
	}

	if err := replaceEventTags(ctx, tx, event.ID, event.Tags); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit event: %w", err)
	}

	return nil
}

// GetByID retrieves an event with its category and tags.
func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := `
		SELECT e.id, e.title, e.description, e.location, e.starts_at, e.ends_at, e.image_url, e.category_id, e.created_by, e.is_published, e.created_at, e.updated_at,
		       c.id, c.name, c.slug
		FROM events e
		LEFT JOIN categories c ON c.id = e.category_id
		WHERE e.id = $1
	`

	event, err := scanEvent(r.db.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("event with id %s not found: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get event by id: %w", err)
	}

	if err := r.attachTags(ctx, []*domain.Event{event}); err != nil {
		return nil, err
	}

	return event, nil
}

// List returns a page of events matching the filter plus the total count.
func (r *eventRepository) List(ctx context.Context, filter EventFilter) ([]*domain.Event, int, error) {
	where := "WHERE 1=1"
	args := []interface{}{}

	if filter.PublishedOnly {
		where += " AND e.is_published = true"
	}
	if filter.CategorySlug != "" {
		args = append(args, filter.CategorySlug)
		where += fmt.Sprintf(" AND c.slug = $%d", len(args))
	}
	if filter.UpcomingOnly {
		where += " AND e.starts_at >= now()"
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		where += fmt.Sprintf(" AND (e.title ILIKE $%d OR e.description ILIKE $%d)", len(args), len(args))
	}

	countQuery := `SELECT COUNT(*) FROM events e LEFT JOIN categories c ON c.id = e.category_id ` + where

	var total int
	if err := r.db.DB.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count events: %w", err)
	}

	args = append(args, filter.Limit, filter.Offset)
	query := fmt.Sprintf(`
		SELECT e.id, e.title, e.description, e.location, e.starts_at, e.ends_at, e.image_url, e.category_id, e.created_by, e.is_published, e.created_at, e.updated_at,
		       c.id, c.name, c.slug
		FROM events e
		LEFT JOIN categories c ON c.id = e.category_id
		%s
		ORDER BY e.starts_at ASC
		LIMIT $%d OFFSET $%d
	`, where, len(args)-1, len(args))

	rows, err := r.db.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	var events []*domain.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate events: %w", err)
	}

	if err := r.attachTags(ctx, events); err != nil {
		return nil, 0, err
	}

	return events, total, nil
}

// Update overwrites an event and replaces its tags.
func (r *eventRepository) Update(ctx context.Context, event *domain.Event) error {
	tx, err := r.db.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		UPDATE events
		SET title = $2, description = $3, location = $4, starts_at = $5, ends_at = $6, image_url = $7, category_id = $8, is_published = $9, updated_at = $10
		WHERE id = $1
	`

	result, err := tx.ExecContext(ctx, query,
		event.ID,
		event.Title,
		event.Description,
		event.Location,
		event.StartsAt,
		event.EndsAt,
		event.ImageURL,
		event.CategoryID,
		event.IsPublished,
		time.Now(),
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("failed to update event: %w", ErrForeignKey)
		}
		return fmt.Errorf("failed to update event: %w", err)
	}

	if err := requireRowsAffected(result, event.ID); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM event_tags WHERE event_id = $1`, event.ID); err != nil {
		return fmt.Errorf("failed to clear event tags: %w", err)
	}

	if err := replaceEventTags(ctx, tx, event.ID, event.Tags); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit event update: %w", err)
	}

	return nil
}

// Delete deletes an event; tags cascade.
func (r *eventRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.DB.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}

	return requireRowsAffected(result, id)
}

func (r *eventRepository) attachTags(ctx context.Context, events []*domain.Event) error {
	if len(events) == 0 {
		return nil
	}

	ids := make([]string, len(events))
	byID := make(map[string]*domain.Event, len(events))
	for i, e := range events {
		ids[i] = e.ID
		byID[e.ID] = e
		e.Tags = []string{}
	}

	rows, err := r.db.DB.QueryContext(ctx,
		`SELECT event_id, tag FROM event_tags WHERE event_id = ANY($1) ORDER BY tag`,
		pq.Array(ids),
	)
	if err != nil {
		return fmt.Errorf("failed to load event tags: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var eventID, tag string
		if err := rows.Scan(&eventID, &tag); err != nil {
			return fmt.Errorf("failed to scan event tag: %w", err)
		}
		if e, ok := byID[eventID]; ok {
			e.Tags = append(e.Tags, tag)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate event tags: %w", err)
	}

	return nil
}

func replaceEventTags(ctx context.Context, tx *sql.Tx, eventID string, tags []string) error {
	for _, tag := range tags {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO event_tags (event_id, tag) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			eventID, tag,
		); err != nil {
			return fmt.Errorf("failed to insert event tag: %w", err)
		}
	}
	return nil
}

func scanEvent(row rowScanner) (*domain.Event, error) {
	event := &domain.Event{}
	var (
		endsAt     sql.NullTime
		categoryID sql.NullString
		catID      sql.NullString
		catName    sql.NullString
		catSlug    sql.NullString
	)

	err := row.Scan(
		&event.ID,
		&event.Title,
		&event.Description,
		&event.Location,
		&event.StartsAt,
		&endsAt,
		&event.ImageURL,
		&categoryID,
		&event.CreatedBy,
		&event.IsPublished,
		&event.CreatedAt,
		&event.UpdatedAt,
		&catID,
		&catName,
		&catSlug,
	)
	if err != nil {
		return nil, err
	}

	if endsAt.Valid {
		event.EndsAt = &endsAt.Time
	}
	if categoryID.Valid {
		event.CategoryID = &categoryID.String
	}
	if catID.Valid {
		event.Category = &domain.Category{ID: catID.String, Name: catName.String, Slug: catSlug.String}
	}

	return event, nil
}

func isForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23503"
}
