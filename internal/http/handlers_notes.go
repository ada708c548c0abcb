package httpx

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/scribbly/notes-api/internal/domain/model"
	apperrors "github.com/scribbly/notes-api/internal/errors"
	"github.com/scribbly/notes-api/internal/service"
)

// NoteServiceInterface defines the note operations the HTTP layer depends on.
type NoteServiceInterface interface {
	Create(ctx context.Context, input service.CreateNoteInput) (*model.Note, error)
	List(ctx context.Context) ([]*model.Note, error)
}

// NoteHandlers provides HTTP handlers for the notes board.
type NoteHandlers struct {
	Svc    NoteServiceInterface
	Logger *slog.Logger
}

func (h *NoteHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// Home serves the shared notes board.
// GET /.
//
// The board is shared: every authenticated user sees all notes, newest first.
func (h *NoteHandlers) Home(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		// RequireAuth guards this route; reaching here without an identity
		// means the route was wired wrong.
		WriteAppError(w, apperrors.Internal("request context carries no identity"))
		return
	}

	notes, err := h.Svc.List(r.Context())
	if err != nil {
		h.logger().ErrorContext(r.Context(), "listing notes failed",
			slog.String("request_id", RequestIDFromContext(r.Context())),
			slog.Any("error", err))
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"user":  identity,
		"notes": notes,
	})
}

// noteForm carries the note creation form or JSON body.
type noteForm struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Create adds a note to the board.
// POST /notes.
func (h *NoteHandlers) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		WriteAppError(w, apperrors.Internal("request context carries no identity"))
		return
	}

	form, decoded := h.decodeNote(w, r)
	if !decoded {
		return
	}

	note, err := h.Svc.Create(r.Context(), service.CreateNoteInput{
		Title:    form.Title,
		Body:     form.Body,
		AuthorID: identity.ID,
	})
	if err != nil {
		if !apperrors.IsValidation(err) {
			h.logger().ErrorContext(r.Context(), "creating note failed",
				slog.String("request_id", RequestIDFromContext(r.Context())),
				slog.Any("error", err))
		}
		WriteAppError(w, err)
		return
	}

	if isBrowserRequest(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	WriteJSON(w, http.StatusCreated, note)
}

func (h *NoteHandlers) decodeNote(w http.ResponseWriter, r *http.Request) (noteForm, bool) {
	if isJSONRequest(r) {
		var form noteForm
		if !DecodeJSON(w, r, &form) {
			return noteForm{}, false
		}
		return form, true
	}

	if err := r.ParseForm(); err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_form", Err: err})
		return noteForm{}, false
	}
	return noteForm{
		Title: r.PostFormValue("new-note-title"),
		Body:  r.PostFormValue("new-note-body"),
	}, true
}
