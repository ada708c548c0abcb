package data

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scribbly/notes-api/internal/domain/model"
	apperrors "github.com/scribbly/notes-api/internal/errors"
	"github.com/scribbly/notes-api/internal/testutil"
)

func TestNoteRepo_CreateAndList(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	users := NewUserRepo(db)
	notes := NewNoteRepo(db)
	ctx := context.Background()

	author, err := users.Create(ctx, newUserRequest("kody", "kody@example.com"))
	require.NoError(t, err)

	first, err := notes.Create(ctx, &model.CreateNoteRequest{
		Title:    "first",
		Body:     "body text",
		AuthorID: author.ID,
	})
	require.NoError(t, err)
	assert.Positive(t, first.ID)
	require.NotNil(t, first.Body)
	assert.Equal(t, "body text", *first.Body)

	second, err := notes.Create(ctx, &model.CreateNoteRequest{
		Title:    "second",
		AuthorID: author.ID,
	})
	require.NoError(t, err)
	// Empty body stores as NULL, not an empty string.
	assert.Nil(t, second.Body)

	listed, err := notes.List(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, "second", listed[0].Title)
	assert.Equal(t, "first", listed[1].Title)
}

func TestNoteRepo_CreateMissingTitle(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	notes := NewNoteRepo(db)

	_, err := notes.Create(context.Background(), &model.CreateNoteRequest{AuthorID: 1})
	assert.True(t, apperrors.IsValidation(err))
}

func TestNoteRepo_CreateUnknownAuthor(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	notes := NewNoteRepo(db)

	_, err := notes.Create(context.Background(), &model.CreateNoteRequest{
		Title:    "orphan",
		AuthorID: 424242,
	})
	require.Error(t, err)
	// The foreign key violation maps to a validation error.
	assert.True(t, apperrors.IsValidation(err))
}
