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

const coreTeamColumns = `id, user_id, name, position, bio, photo_url, linkedin_url, github_url, display_order, is_active, created_at, updated_at`

// coreTeamRepository implements CoreTeamRepository interface
type coreTeamRepository struct {
	db *database.Postgres
}

// NewCoreTeamRepository creates a new core team repository
func NewCoreTeamRepository(db *database.Postgres) CoreTeamRepository {
	return &coreTeamRepository{db: db}
}

// Create creates a new core team card
func (r *coreTeamRepository) Create(ctx context.Context, m *domain.CoreTeamMember) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}

	now := time.Now()
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}
	if m.UpdatedAt.IsZero() {
		m.UpdatedAt = now
	}

	query := `
		INSERT INTO core_team_members (` + coreTeamColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.db.DB.ExecContext(ctx, query,
		m.ID,
		m.UserID,
		m.Name,
		m.Position,
		m.Bio,
		m.PhotoURL,
		m.LinkedinURL,
		m.GithubURL,
		m.DisplayOrder,
		m.IsActive,
		m.CreatedAt,
		m.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("failed to create core team member: %w", ErrForeignKey)
		}
		return fmt.Errorf("failed to create core team member: %w", err)
	}

	return nil
}

// GetByID retrieves a core team card by ID
func (r *coreTeamRepository) GetByID(ctx context.Context, id string) (*domain.CoreTeamMember, error) {
	query := `SELECT ` + coreTeamColumns + ` FROM core_team_members WHERE id = $1`

	m, err := scanCoreTeamMember(r.db.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("core team member with id %s not found: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get core team member by id: %w", err)
	}

	return m, nil
}

// List returns core team cards ordered for display.
func (r *coreTeamRepository) List(ctx context.Context, activeOnly bool) ([]*domain.CoreTeamMember, error) {
	query := `SELECT ` + coreTeamColumns + ` FROM core_team_members`
	if activeOnly {
		query += ` WHERE is_active = true`
	}
	query += ` ORDER BY display_order ASC, name ASC`

	rows, err := r.db.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list core team members: %w", err)
	}
	defer rows.Close()

	var members []*domain.CoreTeamMember
	for rows.Next() {
		m, err := scanCoreTeamMember(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan core team member: %w", err)
		}
		members = append(members, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate core team members: %w", err)
	}

	return members, nil
}

// Update overwrites a core team card.
func (r *coreTeamRepository) Update(ctx context.Context, m *domain.CoreTeamMember) error {
	query := `
		UPDATE core_team_members
		SET user_id = $2, name = $3, position = $4, bio = $5, photo_url = $6, linkedin_url = $7, github_url = $8, display_order = $9, is_active = $10, updated_at = $11
		WHERE id = $1
	`

	result, err := r.db.DB.ExecContext(ctx, query,
		m.ID,
		m.UserID,
		m.Name,
		m.Position,
		m.Bio,
		m.PhotoURL,
		m.LinkedinURL,
		m.GithubURL,
		m.DisplayOrder,
		m.IsActive,
		time.Now(),
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("failed to update core team member: %w", ErrForeignKey)
		}
		return fmt.Errorf("failed to update core team member: %w", err)
	}

	return requireRowsAffected(result, m.ID)
}

// Delete deletes a core team card by ID
func (r *coreTeamRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.DB.ExecContext(ctx, `DELETE FROM core_team_members WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete core team member: %w", err)
	}

	return requireRowsAffected(result, id)
}

func scanCoreTeamMember(row rowScanner) (*domain.CoreTeamMember, error) {
	m := &domain.CoreTeamMember{}
	var userID sql.NullString

	err := row.Scan(
		&m.ID,
		&userID,
		&m.Name,
		&m.Position,
		&m.Bio,
		&m.PhotoURL,
		&m.LinkedinURL,
		&m.GithubURL,
		&m.DisplayOrder,
		&m.IsActive,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if userID.Valid {
		m.UserID = &userID.String
	}

	return m, nil
}
