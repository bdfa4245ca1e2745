package domain

import (
	"encoding/json"
	"time"
)

// Role is the portal-wide authorization level of a user.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleCore   Role = "core"
	RoleMember Role = "member"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleCore, RoleMember:
		return true
	}
	return false
}

// User represents an identity record. A user may carry a password credential,
// a linked Google identity, or both; Google identities are never provisioned
// implicitly.
type User struct {
	ID               string     `json:"id" db:"id"`
	Email            string     `json:"email" db:"email"`
	PasswordHash     string     `json:"-" db:"password_hash"`
	Name             string     `json:"name" db:"name"`
	AvatarURL        string     `json:"avatar_url" db:"avatar_url"`
	GoogleID         *string    `json:"-" db:"google_id"`
	Role             Role       `json:"role" db:"role"`
	IsActive         bool       `json:"is_active" db:"is_active"`
	IsEmailVerified  bool       `json:"is_email_verified" db:"is_email_verified"`
	RefreshTokenHash *string    `json:"-" db:"refresh_token_hash"`
	LastLoginAt      *time.Time `json:"last_login_at" db:"last_login_at"`
	CreatedAt        time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at" db:"updated_at"`
}

// HasPassword reports whether the user can authenticate locally. Unlinking
// Google is refused when this is false.
func (u *User) HasPassword() bool {
	return u.PasswordHash != ""
}

// Profile is the 1:1 extension of a User, created lazily on first access.
type Profile struct {
	UserID      string          `json:"user_id" db:"user_id"`
	Bio         string          `json:"bio" db:"bio"`
	Location    string          `json:"location" db:"location"`
	Company     string          `json:"company" db:"company"`
	Website     string          `json:"website" db:"website"`
	Phone       string          `json:"phone" db:"phone"`
	BannerURL   string          `json:"banner_url" db:"banner_url"`
	LinkedinURL string          `json:"linkedin_url" db:"linkedin_url"`
	GithubURL   string          `json:"github_url" db:"github_url"`
	TwitterURL  string          `json:"twitter_url" db:"twitter_url"`
	Skills      []string        `json:"skills" db:"skills"`
	Interests   []string        `json:"interests" db:"interests"`
	Education   json.RawMessage `json:"education" db:"education"`
	Experience  json.RawMessage `json:"experience" db:"experience"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`
}
