package model

import (
	"strings"
	"time"

	apperrors "github.com/scribbly/notes-api/internal/errors"
)

// Note is a short text note owned by a user.
type Note struct {
	ID        int64      `db:"id"         json:"id"`
	Title     string     `db:"title"      json:"title"`
	Body      *string    `db:"body"       json:"body,omitempty"`
	AuthorID  int64      `db:"author_id"  json:"author_id"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt *time.Time `db:"updated_at" json:"updated_at,omitempty"`
}

// CreateNoteRequest carries the fields needed to insert a new note.
type CreateNoteRequest struct {
	Title    string
	Body     string
	AuthorID int64
}

// Validate checks required fields.
func (r *CreateNoteRequest) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return apperrors.ValidationField("title", "Note title required")
	}
	if r.AuthorID <= 0 {
		return apperrors.ValidationField("author_id", "author is required")
	}
	return nil
}
