package httpx

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/scribbly/notes-api/internal/domain/auth"
	"github.com/scribbly/notes-api/internal/domain/model"
	apperrors "github.com/scribbly/notes-api/internal/errors"
	"github.com/scribbly/notes-api/internal/service"
	"github.com/scribbly/notes-api/internal/session"
	"github.com/scribbly/notes-api/internal/token"
)

func TestRequireAuth_NoCookie_BrowserRedirects(t *testing.T) {
	stack := newTestStack(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept", "text/html")

	w := stack.do(req)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}

func TestRequireAuth_NoCookie_APIGets401(t *testing.T) {
	stack := newTestStack(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept", "application/json")

	w := stack.do(req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "authentication_required")
}

func TestRequireAuth_RedirectPreservesDestination(t *testing.T) {
	stack := newTestStack(t)

	req := httptest.NewRequest(http.MethodPost, "/notes", nil)
	req.Header.Set("Accept", "text/html")

	w := stack.do(req)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login?redirect_uri=%2Fnotes", w.Header().Get("Location"))
}

func TestRequireAuth_ExpiredToken_RedirectsAndClearsCookie(t *testing.T) {
	stack := newTestStack(t)
	userID := stack.seedUser(t, "kody", "kody@example.com", "twixrox")

	// Issue with a clock two hours in the past so the TTL has elapsed.
	pastCodec, err := token.NewCodec(testJWTSecret, testTokenTTL,
		token.WithClock(func() time.Time { return time.Now().Add(-2 * time.Hour) }))
	require.NoError(t, err)
	expired, err := pastCodec.Issue(userID)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept", "text/html")
	req.AddCookie(stack.sessionCookieWithToken(t, expired))

	w := stack.do(req)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))

	cleared := sessionCookieFromResponse(w, session.DefaultCookieName)
	require.NotNil(t, cleared, "expired token must clear the session cookie")
	assert.Less(t, cleared.MaxAge, 0)
	assert.Empty(t, cleared.Value)
}

func TestRequireAuth_MalformedToken_RedirectsWithoutClearing(t *testing.T) {
	stack := newTestStack(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept", "text/html")
	req.AddCookie(stack.sessionCookieWithToken(t, "not.a.jwt"))

	w := stack.do(req)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
	assert.Nil(t, sessionCookieFromResponse(w, session.DefaultCookieName))
}

func TestRequireAuth_UnknownUser_Redirects(t *testing.T) {
	stack := newTestStack(t)
	userID := stack.seedUser(t, "kody", "kody@example.com", "twixrox")

	tok, err := stack.Codec.Issue(userID)
	require.NoError(t, err)
	stack.Users.Delete(userID)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept", "text/html")
	req.AddCookie(stack.sessionCookieWithToken(t, tok))

	w := stack.do(req)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}

func TestRequireAuth_ValidToken_PassesIdentity(t *testing.T) {
	stack := newTestStack(t)
	userID := stack.seedUser(t, "kody", "kody@example.com", "twixrox")

	tok, err := stack.Codec.Issue(userID)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept", "text/html")
	req.AddCookie(stack.sessionCookieWithToken(t, tok))

	w := stack.do(req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"username":"kody"`)
}

// failingGate simulates an operational fault inside the gate.
type failingGate struct {
	err error
}

func (g *failingGate) Check(context.Context, string) (domainauth.CheckResult, error) {
	return domainauth.CheckResult{}, g.err
}

func (g *failingGate) Login(context.Context, service.LoginInput) (*service.LoginResult, error) {
	return nil, g.err
}

func (g *failingGate) Signup(context.Context, service.SignupInput) (*model.User, error) {
	return nil, g.err
}

func TestRequireAuth_GateFailure_Is500NotRedirect(t *testing.T) {
	carrier, err := session.NewCarrier(session.Config{
		Secrets:  []string{testCookieSecret},
		Insecure: true,
	})
	require.NoError(t, err)

	gate := &failingGate{err: apperrors.Misconfigured("token signing secret is not configured")}
	handler := RequireAuth(gate, carrier, discardLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run when the gate fails")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept", "text/html")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Empty(t, w.Header().Get("Location"))
	// The configuration detail must not reach the client.
	assert.NotContains(t, w.Body.String(), "secret")
}

func TestRedirectIfAuthenticated_GateFailure_Is500NotPassThrough(t *testing.T) {
	carrier, err := session.NewCarrier(session.Config{
		Secrets:  []string{testCookieSecret},
		Insecure: true,
	})
	require.NoError(t, err)

	var logged bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logged, nil))

	gate := &failingGate{err: apperrors.Internal("user store unavailable")}
	handler := RedirectIfAuthenticated(gate, carrier, logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run when the gate fails")
	}))

	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	req.Header.Set("Accept", "text/html")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, logged.String(), "auth gate check failed")
	// The fault detail must not reach the client.
	assert.NotContains(t, w.Body.String(), "user store unavailable")
}

func TestRedirectIfAuthenticated_SendsLoggedInUserHome(t *testing.T) {
	stack := newTestStack(t)
	userID := stack.seedUser(t, "kody", "kody@example.com", "twixrox")

	tok, err := stack.Codec.Issue(userID)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	req.Header.Set("Accept", "text/html")
	req.AddCookie(stack.sessionCookieWithToken(t, tok))

	w := stack.do(req)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
}

func TestRedirectIfAuthenticated_AnonymousPassesThrough(t *testing.T) {
	stack := newTestStack(t)

	req := httptest.NewRequest(http.MethodGet, "/login", nil)

	w := stack.do(req)

	assert.Equal(t, http.StatusOK, w.Code)
}
