// Package models defines user accounts and login payloads.
package models

import (
	"strings"
	"time"

	dErrors "aoiconsole/pkg/domain-errors"
)

// User is an account with an organizational placement. The password hash
// never leaves the server.
type User struct {
	ID             int64     `json:"id"`
	Email          string    `json:"email"`
	Name           string    `json:"name"`
	PasswordHash   string    `json:"-"`
	Role           string    `json:"role"`
	Directorate    string    `json:"directorate"`
	Subdirectorate string    `json:"subdirectorate"`
	Division       string    `json:"division"`
	Year           int       `json:"year"`
	CreatedAt      time.Time `json:"createdAt"`
}

// Credentials is the login request.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks the login request shape.
func (c Credentials) Validate() error {
	if strings.TrimSpace(c.Email) == "" || c.Password == "" {
		return dErrors.New(dErrors.CodeBadRequest, "email and password are required")
	}
	return nil
}

// NewUser is the admin-side account creation request.
type NewUser struct {
	Email          string `json:"email"`
	Name           string `json:"name"`
	Password       string `json:"password"`
	Role           string `json:"role"`
	Directorate    string `json:"directorate"`
	Subdirectorate string `json:"subdirectorate"`
	Division       string `json:"division"`
	Year           int    `json:"year"`
}

// Validate checks the request shape before any store access.
func (n NewUser) Validate() error {
	if strings.TrimSpace(n.Email) == "" {
		return dErrors.New(dErrors.CodeBadRequest, "email is required")
	}
	if n.Password == "" {
		return dErrors.New(dErrors.CodeBadRequest, "password is required")
	}
	return nil
}

// UserUpdate replaces the editable account fields. A blank Password keeps
// the current one.
type UserUpdate struct {
	Name           string `json:"name"`
	Password       string `json:"password"`
	Role           string `json:"role"`
	Directorate    string `json:"directorate"`
	Subdirectorate string `json:"subdirectorate"`
	Division       string `json:"division"`
	Year           int    `json:"year"`
}
