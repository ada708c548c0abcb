package service

import (
	"context"

	"github.com/scribbly/notes-api/internal/domain/model"
	"github.com/scribbly/notes-api/internal/ports"
)

// NoteServiceOptions groups dependencies for NoteService.
type NoteServiceOptions struct {
	Notes ports.NoteStore
}

// NoteService provides note operations for authenticated users.
type NoteService struct {
	notes ports.NoteStore
}

// NewNoteService constructs a new NoteService.
func NewNoteService(opts NoteServiceOptions) *NoteService {
	return &NoteService{notes: opts.Notes}
}

// CreateNoteInput groups parameters for note creation.
type CreateNoteInput struct {
	Title    string
	Body     string
	AuthorID int64
}

// Create inserts a new note authored by the given user.
func (s *NoteService) Create(ctx context.Context, input CreateNoteInput) (*model.Note, error) {
	return s.notes.Create(ctx, &model.CreateNoteRequest{
		Title:    input.Title,
		Body:     input.Body,
		AuthorID: input.AuthorID,
	})
}

// List returns all notes, newest first.
func (s *NoteService) List(ctx context.Context) ([]*model.Note, error) {
	return s.notes.List(ctx)
}
