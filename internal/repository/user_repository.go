package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/studorg/portal-api/internal/domain"
	"github.com/studorg/portal-api/pkg/database"
)

const userColumns = `id, email, password_hash, name, avatar_url, google_id, role, is_active, is_email_verified, refresh_token_hash, last_login_at, created_at, updated_at`

// userRepository implements UserRepository interface
type userRepository struct {
	db *database.Postgres
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *database.Postgres) UserRepository {
	return &userRepository{db: db}
}

// Create creates a new user in the database
func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (id, email, password_hash, name, avatar_url, google_id, role, is_active, is_email_verified, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.Role == "" {
		user.Role = domain.RoleMember
	}

	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	if user.UpdatedAt.IsZero() {
		user.UpdatedAt = now
	}

	_, err := r.db.DB.ExecContext(ctx, query,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.Name,
		user.AvatarURL,
		user.GoogleID,
		string(user.Role),
		user.IsActive,
		user.IsEmailVerified,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		if dup := mapUserUniqueViolation(err, user.Email); dup != nil {
			return dup
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetByEmail retrieves a user by email
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	user, err := scanUser(r.db.DB.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user with email %s not found: %w", email, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return user, nil
}

// GetByID retrieves a user by ID
func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.db.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user with id %s not found: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}

	return user, nil
}

// GetByGoogleID retrieves a user by its linked Google identity. Lookup is by
// the external id only; there is no email fallback.
func (r *userRepository) GetByGoogleID(ctx context.Context, googleID string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE google_id = $1`

	user, err := scanUser(r.db.DB.QueryRowContext(ctx, query, googleID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user with google id not found: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user by google id: %w", err)
	}

	return user, nil
}

// GetWithProfile loads a user and its profile, creating the profile row on
// first access.
func (r *userRepository) GetWithProfile(ctx context.Context, id string) (*domain.User, *domain.Profile, error) {
	user, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	upsert := `INSERT INTO profiles (user_id, created_at, updated_at) VALUES ($1, $2, $2) ON CONFLICT (user_id) DO NOTHING`
	if _, err := r.db.DB.ExecContext(ctx, upsert, id, time.Now()); err != nil {
		return nil, nil, fmt.Errorf("failed to ensure profile: %w", err)
	}

	query := `
		SELECT user_id, bio, location, company, website, phone, banner_url, linkedin_url, github_url, twitter_url, skills, interests, education, experience, created_at, updated_at
		FROM profiles
		WHERE user_id = $1
	`

	profile := &domain.Profile{}
	var education, experience []byte

	err = r.db.DB.QueryRowContext(ctx, query, id).Scan(
		&profile.UserID,
		&profile.Bio,
		&profile.Location,
		&profile.Company,
		&profile.Website,
		&profile.Phone,
		&profile.BannerURL,
		&profile.LinkedinURL,
		&profile.GithubURL,
		&profile.TwitterURL,
		pq.Array(&profile.Skills),
		pq.Array(&profile.Interests),
		&education,
		&experience,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get profile: %w", err)
	}

	profile.Education = education
	profile.Experience = experience

	return user, profile, nil
}

// Update updates mutable user fields.
func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	query := `
		UPDATE users
		SET email = $2, password_hash = $3, name = $4, avatar_url = $5, role = $6, is_active = $7, is_email_verified = $8, updated_at = $9
		WHERE id = $1
	`

	result, err := r.db.DB.ExecContext(ctx, query,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.Name,
		user.AvatarURL,
		string(user.Role),
		user.IsActive,
		user.IsEmailVerified,
		time.Now(),
	)

	if err != nil {
		if dup := mapUserUniqueViolation(err, user.Email); dup != nil {
			return dup
		}
		return fmt.Errorf("failed to update user: %w", err)
	}

	return requireRowsAffected(result, user.ID)
}

// UpdateProfile overwrites the profile row for its user.
func (r *userRepository) UpdateProfile(ctx context.Context, profile *domain.Profile) error {
	query := `
		UPDATE profiles
		SET bio = $2, location = $3, company = $4, website = $5, phone = $6, banner_url = $7, linkedin_url = $8, github_url = $9, twitter_url = $10, skills = $11, interests = $12, education = $13, experience = $14, updated_at = $15
		WHERE user_id = $1
	`

	result, err := r.db.DB.ExecContext(ctx, query,
		profile.UserID,
		profile.Bio,
		profile.Location,
		profile.Company,
		profile.Website,
		profile.Phone,
		profile.BannerURL,
		profile.LinkedinURL,
		profile.GithubURL,
		profile.TwitterURL,
		pq.Array(profile.Skills),
		pq.Array(profile.Interests),
		[]byte(profile.Education),
		[]byte(profile.Experience),
		time.Now(),
	)

	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}

	return requireRowsAffected(result, profile.UserID)
}

// UpdateLastLogin updates the last login timestamp for a user
func (r *userRepository) UpdateLastLogin(ctx context.Context, userID string) error {
	query := `UPDATE users SET last_login_at = $1 WHERE id = $2`

	result, err := r.db.DB.ExecContext(ctx, query, time.Now(), userID)
	if err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}

	return requireRowsAffected(result, userID)
}

// SetRefreshTokenHash overwrites the stored refresh token hash. The write is
// a plain last-writer-wins update; concurrent refreshes race benignly.
func (r *userRepository) SetRefreshTokenHash(ctx context.Context, userID string, hash *string) error {
	query := `UPDATE users SET refresh_token_hash = $2, updated_at = $3 WHERE id = $1`

	result, err := r.db.DB.ExecContext(ctx, query, userID, hash, time.Now())
	if err != nil {
		return fmt.Errorf("failed to set refresh token: %w", err)
	}

	return requireRowsAffected(result, userID)
}

// SetGoogleID binds or clears the Google identity for a user.
func (r *userRepository) SetGoogleID(ctx context.Context, userID string, googleID *string) error {
	query := `UPDATE users SET google_id = $2, updated_at = $3 WHERE id = $1`

	result, err := r.db.DB.ExecContext(ctx, query, userID, googleID, time.Now())
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return fmt.Errorf("google id already bound: %w", ErrDuplicateGoogleID)
		}
		return fmt.Errorf("failed to set google id: %w", err)
	}

	return requireRowsAffected(result, userID)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanUser(row rowScanner) (*domain.User, error) {
	user := &domain.User{}
	var (
		role         string
		passwordHash sql.NullString
		googleID     sql.NullString
		refreshHash  sql.NullString
		lastLoginAt  sql.NullTime
	)

	err := row.Scan(
		&user.ID,
		&user.Email,
		&passwordHash,
		&user.Name,
		&user.AvatarURL,
		&googleID,
		&role,
		&user.IsActive,
		&user.IsEmailVerified,
		&refreshHash,
		&lastLoginAt,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	user.Role = domain.Role(role)
	if passwordHash.Valid {
		user.PasswordHash = passwordHash.String
	}
	if googleID.Valid {
		user.GoogleID = &googleID.String
	}
	if refreshHash.Valid {
		user.RefreshTokenHash = &refreshHash.String
	}
	if lastLoginAt.Valid {
		user.LastLoginAt = &lastLoginAt.Time
	}

	return user, nil
}

// mapUserUniqueViolation translates pq unique violations on the users table
// into typed errors; returns nil for anything else.
func mapUserUniqueViolation(err error, email string) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || pqErr.Code != "23505" {
		return nil
	}
	if strings.Contains(pqErr.Constraint, "google") {
		return fmt.Errorf("google id already bound: %w", ErrDuplicateGoogleID)
	}
	return fmt.Errorf("user with email %s already exists: %w", email, ErrDuplicateEmail)
}

func requireRowsAffected(result sql.Result, id string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("record %s not found: %w", id, ErrNotFound)
	}

	return nil
}
