package model

import (
	"strings"
	"time"
	"unicode/utf8"

	apperrors "github.com/rollbook/rollbook-api/internal/errors"
)

const (
	minDisplayNameLen = 2
	maxDisplayNameLen = 50
)

// UserStatus is the account state.
type UserStatus int

const (
	// UserStatusInactive blocks login without deleting the account.
	UserStatusInactive UserStatus = 0
	// UserStatusActive allows login.
	UserStatusActive UserStatus = 1
)

// Role represents an application authorization role.
// Kept in string form for easy persistence.
type Role string

const (
	RoleMember Role = "member"
	RoleAdmin  Role = "admin"
)

// User is an account provisioned by an external identity-provider callback.
// Accounts are never hard-deleted; deactivation flips Status.
type User struct {
	ID           string     `json:"id"                   db:"id"`
	ProviderSub  string     `json:"provider_sub"         db:"provider_sub"`
	AuthProvider string     `json:"auth_provider"        db:"auth_provider"`
	Status       UserStatus `json:"status"               db:"status"`
	Email        string     `json:"email"                db:"email"`
	DisplayName  string     `json:"display_name"         db:"display_name"`
	Role         Role       `json:"role"                 db:"role"`
	JoinedAt     time.Time  `json:"joined_at"            db:"joined_at"`
	LastLogin    *time.Time `json:"last_login,omitempty" db:"last_login"`
	ModAt        *time.Time `json:"mod_at,omitempty"     db:"mod_at"`
}

// UserSummary is the read-only projection exposed to authenticated callers
// who need to show "who am I".
type UserSummary struct {
	ID          string    `json:"id"           db:"id"`
	Email       string    `json:"email"        db:"email"`
	DisplayName string    `json:"display_name" db:"display_name"`
	Role        Role      `json:"role"         db:"role"`
	JoinedAt    time.Time `json:"joined_at"    db:"joined_at"`
}

// CreateUserRequest carries inputs for provisioning a user.
type CreateUserRequest struct {
	ProviderSub  string `json:"provider_sub"`
	AuthProvider string `json:"auth_provider"`
	Email        string `json:"email"`
	DisplayName  string `json:"display_name"`
}

// Validate checks required fields and normalizes the provider name.
func (r *CreateUserRequest) Validate() error {
	if strings.TrimSpace(r.ProviderSub) == "" {
		return apperrors.ValidationField("provider_sub", "provider_sub is required")
	}
	if strings.TrimSpace(r.Email) == "" {
		return apperrors.ValidationField("email", "email is required")
	}
	if strings.TrimSpace(r.DisplayName) == "" {
		return apperrors.ValidationField("display_name", "display_name is required")
	}
	r.AuthProvider = strings.ToLower(strings.TrimSpace(r.AuthProvider))
	if r.AuthProvider == "" {
		r.AuthProvider = "google"
	}
	return nil
}

// UpdateDisplayNameRequest carries inputs for a profile display-name edit.
type UpdateDisplayNameRequest struct {
	DisplayName string `json:"display_name"`
}

// Validate trims and bounds the display name.
func (r *UpdateDisplayNameRequest) Validate() error {
	r.DisplayName = strings.TrimSpace(r.DisplayName)
	if n := utf8.RuneCountInString(r.DisplayName); n < minDisplayNameLen || n > maxDisplayNameLen {
		return apperrors.ValidationField("display_name", "display name must be between 2 and 50 characters")
	}
	return nil
}
