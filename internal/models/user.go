package models

import (
	"strings"
	"time"
)

// UserRole is the closed set of account roles.
type UserRole string

const (
	RoleInstructor UserRole = "INSTRUCTOR"
	RoleStudent    UserRole = "STUDENT"
)

// Valid reports whether r is a known role.
func (r UserRole) Valid() bool {
	return r == RoleInstructor || r == RoleStudent
}

// User represents an account stored in the users table.
type User struct {
	ID           string     `db:"id" json:"id"`
	FirstName    string     `db:"first_name" json:"first_name"`
	LastName     string     `db:"last_name" json:"last_name"`
	Email        string     `db:"email" json:"email"`
	PasswordHash string     `db:"password_hash" json:"-"`
	Role         UserRole   `db:"role" json:"role"`
	Active       bool       `db:"active" json:"active"`
	Staff        bool       `db:"staff" json:"staff"`
	LastLogin    *time.Time `db:"last_login" json:"last_login,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// FullName joins first and last name.
func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// RegisterRequest creates a new account.
type RegisterRequest struct {
	FirstName string   `json:"first_name" validate:"required,max=60"`
	LastName  string   `json:"last_name" validate:"required,max=60"`
	Email     string   `json:"email" validate:"required,email,max=254"`
	Password  string   `json:"password" validate:"required,min=8,max=128"`
	Role      UserRole `json:"role" validate:"required,oneof=INSTRUCTOR STUDENT"`
	Staff     bool     `json:"-"`
}

// UpdateUserRequest changes profile fields. Role cannot be changed.
type UpdateUserRequest struct {
	FirstName *string `json:"first_name" validate:"omitempty,max=60"`
	LastName  *string `json:"last_name" validate:"omitempty,max=60"`
	Email     *string `json:"email" validate:"omitempty,email,max=254"`
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
