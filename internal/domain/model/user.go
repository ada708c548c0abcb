package model

import (
	"net/mail"
	"strings"
	"time"

	apperrors "github.com/scribbly/notes-api/internal/errors"
)

// User is a full identity record as stored. HashedPassword is opaque and
// must never be logged or returned to HTTP callers; handlers work with the
// auth.Identity projection instead.
type User struct {
	ID             int64      `db:"id"             json:"id"`
	Username       string     `db:"username"       json:"username"`
	Email          string     `db:"email"          json:"email"`
	HashedPassword string     `db:"hashed_password" json:"-"`
	CreatedAt      time.Time  `db:"created_at"     json:"created_at"`
	UpdatedAt      *time.Time `db:"updated_at"     json:"updated_at,omitempty"`
}

// CreateUserRequest carries the fields needed to insert a new user.
// HashedPassword must already be hashed; the data layer never sees plaintext.
type CreateUserRequest struct {
	Username       string
	Email          string
	HashedPassword string
}

// Validate checks required fields and basic shape.
func (r *CreateUserRequest) Validate() error {
	if strings.TrimSpace(r.Username) == "" {
		return apperrors.ValidationField("username", "username is required")
	}
	if strings.TrimSpace(r.Email) == "" {
		return apperrors.ValidationField("email", "email is required")
	}
	if _, err := mail.ParseAddress(r.Email); err != nil {
		return apperrors.ValidationField("email", "email is not a valid address")
	}
	if r.HashedPassword == "" {
		return apperrors.ValidationField("password", "password is required")
	}
	return nil
}
