package httpx

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotesHome_ListsAllNotesNewestFirst(t *testing.T) {
	stack := newTestStack(t)
	aliceID := stack.seedUser(t, "alice", "alice@example.com", "pw-alice")
	bobID := stack.seedUser(t, "bob", "bob@example.com", "pw-bob")

	tok, err := stack.Codec.Issue(aliceID)
	require.NoError(t, err)
	cookie := stack.sessionCookieWithToken(t, tok)

	for _, n := range []struct {
		title  string
		author int64
	}{
		{"first", aliceID},
		{"second", bobID},
	} {
		form := "new-note-title=" + n.title
		tok2, err := stack.Codec.Issue(n.author)
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodPost, "/notes", strings.NewReader(form))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set("Accept", "text/html")
		req.AddCookie(stack.sessionCookieWithToken(t, tok2))
		w := stack.do(req)
		require.Equal(t, http.StatusSeeOther, w.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept", "text/html")
	req.AddCookie(cookie)
	w := stack.do(req)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		User struct {
			Username string `json:"username"`
		} `json:"user"`
		Notes []struct {
			Title    string `json:"title"`
			AuthorID int64  `json:"author_id"`
		} `json:"notes"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	assert.Equal(t, "alice", body.User.Username)
	// The board is shared: alice sees bob's note too, newest first.
	require.Len(t, body.Notes, 2)
	assert.Equal(t, "second", body.Notes[0].Title)
	assert.Equal(t, bobID, body.Notes[0].AuthorID)
	assert.Equal(t, "first", body.Notes[1].Title)
}

func TestCreateNote_JSON(t *testing.T) {
	stack := newTestStack(t)
	userID := stack.seedUser(t, "kody", "kody@example.com", "twixrox")

	tok, err := stack.Codec.Issue(userID)
	require.NoError(t, err)

	body := `{"title":"groceries","body":"milk, eggs"}`
	req := httptest.NewRequest(http.MethodPost, "/notes", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.AddCookie(stack.sessionCookieWithToken(t, tok))

	w := stack.do(req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"title":"groceries"`)
}

func TestCreateNote_MissingTitle(t *testing.T) {
	stack := newTestStack(t)
	userID := stack.seedUser(t, "kody", "kody@example.com", "twixrox")

	tok, err := stack.Codec.Issue(userID)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/notes", strings.NewReader(`{"title":""}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.AddCookie(stack.sessionCookieWithToken(t, tok))

	w := stack.do(req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Note title required")
}
