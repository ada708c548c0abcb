package httpx

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	mocksauth "github.com/scribbly/notes-api/internal/mocks/auth"
	"github.com/scribbly/notes-api/internal/service"
	"github.com/scribbly/notes-api/internal/session"
	"github.com/scribbly/notes-api/internal/token"
)

const (
	testJWTSecret    = "test-jwt-secret"
	testCookieSecret = "test-cookie-secret"
	testTokenTTL     = time.Hour
)

// testStack wires a router against in-memory stores, a real token codec, and
// a real cookie carrier.
type testStack struct {
	Router  http.Handler
	Users   *mocksauth.MemoryUserStore
	Notes   *mocksauth.MemoryNoteStore
	Carrier *session.Carrier
	Codec   *token.Codec
}

func newTestStack(t *testing.T) *testStack {
	t.Helper()

	codec, err := token.NewCodec(testJWTSecret, testTokenTTL)
	require.NoError(t, err)

	carrier, err := session.NewCarrier(session.Config{
		Secrets:  []string{testCookieSecret},
		MaxAge:   testTokenTTL,
		Insecure: true,
	})
	require.NoError(t, err)

	users := mocksauth.NewMemoryUserStore()
	notes := mocksauth.NewMemoryNoteStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	authSvc := service.NewAuthService(service.AuthServiceOptions{
		Users:  users,
		Codec:  codec,
		Hasher: mocksauth.PlainHasher{},
		Logger: logger,
	})
	noteSvc := service.NewNoteService(service.NoteServiceOptions{Notes: notes})

	router := NewRouter(RouterServices{
		Auth:    authSvc,
		Notes:   noteSvc,
		Carrier: carrier,
		Logger:  logger,
	})

	return &testStack{
		Router:  router,
		Users:   users,
		Notes:   notes,
		Carrier: carrier,
		Codec:   codec,
	}
}

// seedUser registers a user whose password round-trips through PlainHasher.
func (s *testStack) seedUser(t *testing.T, username, email, password string) int64 {
	t.Helper()
	user := s.Users.Seed(username, email, "plain:"+password)
	return user.ID
}

// sessionCookieWithToken builds a signed session cookie carrying the token.
func (s *testStack) sessionCookieWithToken(t *testing.T, tok string) *http.Cookie {
	t.Helper()
	sess := session.New()
	sess.SetToken(tok)
	cookie, err := s.Carrier.Commit(sess)
	require.NoError(t, err)
	return cookie
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// do runs a request against the router and returns the recorder.
func (s *testStack) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.Router.ServeHTTP(w, req)
	return w
}

// formRequest builds a browser-style form POST.
func formRequest(target string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "text/html")
	return req
}

// sessionCookieFromResponse extracts the session cookie set on a response, or
// nil when none was set.
func sessionCookieFromResponse(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}
