package ports

// Package ports defines interfaces (hexagonal ports) for the auth gate's
// collaborators. Implementations live in internal/token, internal/session,
// and internal/data; orchestration in internal/service.

import (
	"context"

	"github.com/scribbly/notes-api/internal/domain/model"
)

// UserStore persists and resolves identity records.
type UserStore interface {
	// FindByIdentifier resolves a user by username or email (either matches).
	FindByIdentifier(ctx context.Context, identifier string) (*model.User, error)

	// FindByID resolves a user by primary key.
	FindByID(ctx context.Context, id int64) (*model.User, error)

	// Create inserts a new user. Username/email uniqueness is enforced by
	// the store itself (unique constraints), not by a pre-read, so
	// concurrent signups cannot race past the check.
	Create(ctx context.Context, req *model.CreateUserRequest) (*model.User, error)
}

// NoteStore persists notes.
type NoteStore interface {
	Create(ctx context.Context, req *model.CreateNoteRequest) (*model.Note, error)
	List(ctx context.Context) ([]*model.Note, error)
}

// TokenCodec signs and verifies compact identity tokens.
type TokenCodec interface {
	// Issue produces a signed token embedding the user ID with the
	// configured TTL.
	Issue(userID int64) (string, error)

	// Verify checks signature and expiry, returning the embedded user ID.
	// Failures are token.ErrExpired or token.ErrMalformed.
	Verify(tokenString string) (int64, error)
}

// PasswordHasher performs one-way password hashing and comparison.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	// Compare reports whether plaintext matches the stored hash.
	Compare(plaintext, hash string) bool
}
