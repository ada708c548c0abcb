package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/scribbly/notes-api/internal/data/pgxutil"
	"github.com/scribbly/notes-api/internal/domain/model"
	apperrors "github.com/scribbly/notes-api/internal/errors"
)

// NoteRepo provides database operations for notes.
// It implements ports.NoteStore.
type NoteRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewNoteRepo creates a new NoteRepo with real time provider.
func NewNoteRepo(db *sql.DB) *NoteRepo {
	return &NoteRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

const noteColumns = `id, title, body, author_id, created_at, updated_at`

// Create inserts a new note.
func (r *NoteRepo) Create(ctx context.Context, req *model.CreateNoteRequest) (*model.Note, error) {
	if req == nil {
		return nil, errors.New("create note request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// Empty body is stored as NULL, matching the original schema.
	var body *string
	if req.Body != "" {
		body = &req.Body
	}

	createdAt := r.timeProvider.Now().UTC()
	var out model.Note
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO notes (title, body, author_id, created_at)
			VALUES ($1, $2, $3, $4)
			RETURNING `+noteColumns,
			strings.TrimSpace(req.Title),
			body,
			req.AuthorID,
			createdAt,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Note])
		return err
	}); err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// List retrieves all notes, newest first.
func (r *NoteRepo) List(ctx context.Context) ([]*model.Note, error) {
	var rowsOut []model.Note
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT `+noteColumns+` FROM notes
			ORDER BY created_at DESC, id DESC`)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.Note])
		return err
	}); err != nil {
		return nil, fmt.Errorf("list notes: %w", apperrors.MapDBError(err))
	}

	res := make([]*model.Note, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}
