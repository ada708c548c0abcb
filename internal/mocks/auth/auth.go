package auth

// Package auth contains simple hand-written test doubles for auth ports.
// These are lightweight in-memory implementations suitable for HTTP-level
// tests without codegen.

import (
	"context"
	"sync"
	"time"

	"github.com/scribbly/notes-api/internal/domain/model"
	apperrors "github.com/scribbly/notes-api/internal/errors"
	"github.com/scribbly/notes-api/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.UserStore      = (*MemoryUserStore)(nil)
	_ ports.NoteStore      = (*MemoryNoteStore)(nil)
	_ ports.PasswordHasher = (*PlainHasher)(nil)
)

// MemoryUserStore is an in-memory UserStore with constraint-like uniqueness
// behavior: a duplicate username or email yields a Conflict error, matching
// what the real store maps from a unique violation.
type MemoryUserStore struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]*model.User
}

// NewMemoryUserStore creates an empty MemoryUserStore.
func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{nextID: 1, users: make(map[int64]*model.User)}
}

// Seed inserts a user directly, bypassing validation. Returns the stored user.
func (s *MemoryUserStore) Seed(username, email, hashedPassword string) *model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := &model.User{
		ID:             s.nextID,
		Username:       username,
		Email:          email,
		HashedPassword: hashedPassword,
		CreatedAt:      time.Now().UTC(),
	}
	s.users[u.ID] = u
	s.nextID++
	return u
}

// Delete removes a user, simulating account deletion after token issuance.
func (s *MemoryUserStore) Delete(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, id)
}

func (s *MemoryUserStore) Create(_ context.Context, req *model.CreateUserRequest) (*model.User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == req.Username {
			return nil, &apperrors.AppError{
				Code:    apperrors.ErrCodeConflict,
				Message: "This value already exists. Please choose a different one.",
				Field:   "username",
			}
		}
		if u.Email == req.Email {
			return nil, &apperrors.AppError{
				Code:    apperrors.ErrCodeConflict,
				Message: "This value already exists. Please choose a different one.",
				Field:   "email",
			}
		}
	}
	u := &model.User{
		ID:             s.nextID,
		Username:       req.Username,
		Email:          req.Email,
		HashedPassword: req.HashedPassword,
		CreatedAt:      time.Now().UTC(),
	}
	s.users[u.ID] = u
	s.nextID++
	return u, nil
}

func (s *MemoryUserStore) FindByIdentifier(_ context.Context, identifier string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == identifier || u.Email == identifier {
			copied := *u
			return &copied, nil
		}
	}
	return nil, apperrors.NotFound("Resource not found")
}

func (s *MemoryUserStore) FindByID(_ context.Context, id int64) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, apperrors.NotFound("Resource not found")
}

// MemoryNoteStore is an in-memory NoteStore.
type MemoryNoteStore struct {
	mu     sync.Mutex
	nextID int64
	notes  []*model.Note
}

// NewMemoryNoteStore creates an empty MemoryNoteStore.
func NewMemoryNoteStore() *MemoryNoteStore {
	return &MemoryNoteStore{nextID: 1}
}

func (s *MemoryNoteStore) Create(_ context.Context, req *model.CreateNoteRequest) (*model.Note, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	n := &model.Note{
		ID:        s.nextID,
		Title:     req.Title,
		AuthorID:  req.AuthorID,
		CreatedAt: time.Now().UTC(),
	}
	if req.Body != "" {
		body := req.Body
		n.Body = &body
	}
	s.notes = append(s.notes, n)
	s.nextID++
	return n, nil
}

func (s *MemoryNoteStore) List(_ context.Context) ([]*model.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*model.Note, 0, len(s.notes))
	// Newest first, matching the real store's ordering.
	for i := len(s.notes) - 1; i >= 0; i-- {
		copied := *s.notes[i]
		out = append(out, &copied)
	}
	return out, nil
}

// PlainHasher is a no-op hasher for tests that do not exercise bcrypt.
// Hash prefixes the plaintext so a stored "hash" is visibly not a password.
type PlainHasher struct{}

func (PlainHasher) Hash(plaintext string) (string, error) {
	return "plain:" + plaintext, nil
}

func (PlainHasher) Compare(plaintext, hash string) bool {
	return "plain:"+plaintext == hash
}
