package session

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCarrier(t *testing.T, secrets ...string) *Carrier {
	t.Helper()
	c, err := NewCarrier(Config{Secrets: secrets, MaxAge: time.Hour})
	require.NoError(t, err)
	return c
}

func TestNewCarrier_RequiresSecrets(t *testing.T) {
	_, err := NewCarrier(Config{})
	require.Error(t, err)

	_, err = NewCarrier(Config{Secrets: []string{"ok", ""}})
	require.Error(t, err)
}

func TestCarrier_LoadEmptyValue(t *testing.T) {
	c := newTestCarrier(t, "s1")

	s := c.Load("")
	assert.True(t, s.IsEmpty())
	assert.Equal(t, "", s.Token())
}

func TestCarrier_CommitLoadRoundTrip(t *testing.T) {
	c := newTestCarrier(t, "s1")

	s := &Session{}
	s.SetToken("the-jwt")

	cookie, err := c.Commit(s)
	require.NoError(t, err)
	assert.Equal(t, DefaultCookieName, cookie.Name)
	assert.True(t, cookie.HttpOnly)
	assert.True(t, cookie.Secure)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	assert.Equal(t, "/", cookie.Path)
	assert.Equal(t, 3600, cookie.MaxAge)

	loaded := c.Load(cookie.Value)
	assert.Equal(t, "the-jwt", loaded.Token())
}

func TestCarrier_TamperedValueYieldsEmptySession(t *testing.T) {
	c := newTestCarrier(t, "s1")

	s := &Session{}
	s.SetToken("the-jwt")
	cookie, err := c.Commit(s)
	require.NoError(t, err)

	// Corrupt one byte of the signed body.
	mutated := "A" + cookie.Value[1:]
	assert.True(t, c.Load(mutated).IsEmpty())

	// Value signed with a different secret is rejected too.
	other := newTestCarrier(t, "different")
	foreign, err := other.Commit(s)
	require.NoError(t, err)
	assert.True(t, c.Load(foreign.Value).IsEmpty())

	// Structurally broken values never panic or error.
	for _, raw := range []string{"garbage", "a.b", "..", strings.Repeat(".", 10)} {
		assert.True(t, c.Load(raw).IsEmpty(), "raw %q", raw)
	}
}

func TestCarrier_SecretRotation(t *testing.T) {
	old := newTestCarrier(t, "old-secret")
	s := &Session{}
	s.SetToken("the-jwt")
	cookie, err := old.Commit(s)
	require.NoError(t, err)

	// After rotation the carrier signs with the new secret but still
	// verifies cookies signed with the old one.
	rotated := newTestCarrier(t, "new-secret", "old-secret")
	loaded := rotated.Load(cookie.Value)
	assert.Equal(t, "the-jwt", loaded.Token())

	reissued, err := rotated.Commit(loaded)
	require.NoError(t, err)
	onlyNew := newTestCarrier(t, "new-secret")
	assert.Equal(t, "the-jwt", onlyNew.Load(reissued.Value).Token())
}

func TestCarrier_DestroyExpiresCookie(t *testing.T) {
	c := newTestCarrier(t, "s1")

	cookie := c.Destroy()
	assert.Equal(t, DefaultCookieName, cookie.Name)
	assert.Equal(t, "", cookie.Value)
	assert.Equal(t, -1, cookie.MaxAge)
	assert.True(t, cookie.HttpOnly)
}

func TestSession_FlashIsOneShot(t *testing.T) {
	c := newTestCarrier(t, "s1")

	s := &Session{}
	s.SetFlash("Invalid username/email or password")
	cookie, err := c.Commit(s)
	require.NoError(t, err)

	loaded := c.Load(cookie.Value)
	msg, ok := loaded.Flash()
	require.True(t, ok)
	assert.Equal(t, "Invalid username/email or password", msg)

	// Second read sees nothing; a re-commit persists the cleared state.
	_, ok = loaded.Flash()
	assert.False(t, ok)

	recommitted, err := c.Commit(loaded)
	require.NoError(t, err)
	_, ok = c.Load(recommitted.Value).Flash()
	assert.False(t, ok)
}

func TestCarrier_LoadRequest(t *testing.T) {
	c := newTestCarrier(t, "s1")

	// No cookie header at all.
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.True(t, c.LoadRequest(r).IsEmpty())

	// With a committed cookie attached.
	s := &Session{}
	s.SetToken("tok")
	cookie, err := c.Commit(s)
	require.NoError(t, err)

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(cookie)
	assert.Equal(t, "tok", c.LoadRequest(r).Token())
}

func TestCarrier_InsecureDevMode(t *testing.T) {
	c, err := NewCarrier(Config{Secrets: []string{"s1"}, MaxAge: time.Hour, Insecure: true})
	require.NoError(t, err)

	cookie, err := c.Commit(&Session{})
	require.NoError(t, err)
	assert.False(t, cookie.Secure)
	assert.False(t, c.Destroy().Secure)
}
