package httpx

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	domainauth "github.com/scribbly/notes-api/internal/domain/auth"
	"github.com/scribbly/notes-api/internal/domain/model"
	apperrors "github.com/scribbly/notes-api/internal/errors"
	"github.com/scribbly/notes-api/internal/service"
	"github.com/scribbly/notes-api/internal/session"
)

// AuthGate defines the authentication operations the HTTP layer depends on.
type AuthGate interface {
	Check(ctx context.Context, rawToken string) (domainauth.CheckResult, error)
	Login(ctx context.Context, input service.LoginInput) (*service.LoginResult, error)
	Signup(ctx context.Context, input service.SignupInput) (*model.User, error)
}

// AuthHandlers provides HTTP handlers for login, signup, and logout.
type AuthHandlers struct {
	Svc     AuthGate
	Carrier *session.Carrier
	Logger  *slog.Logger
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// loginCredentials carries the login form or JSON body.
type loginCredentials struct {
	Identifier string `json:"username_or_email"`
	Password   string `json:"password"`
	RedirectTo string `json:"redirect_to"`
}

// LoginPage serves the login form data.
// GET /login.
//
// A flash message left by a failed login attempt is surfaced once and the
// cleared session is committed back so a refresh shows a clean form.
func (h *AuthHandlers) LoginPage(w http.ResponseWriter, r *http.Request) {
	sess := h.Carrier.LoadRequest(r)

	body := map[string]any{}
	if msg, ok := sess.Flash(); ok {
		body["error"] = msg
		h.commitSession(w, r, sess)
	}

	WriteJSON(w, http.StatusOK, body)
}

// Login handles credential submission.
// POST /login.
//
// On success the issued token is committed into the session cookie and the
// client is sent to its requested destination. Invalid credentials carry no
// signal about whether the identifier exists.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	creds, ok := h.decodeLogin(w, r)
	if !ok {
		return
	}

	result, err := h.Svc.Login(r.Context(), service.LoginInput{
		Identifier: creds.Identifier,
		Password:   creds.Password,
	})
	if err != nil {
		h.loginFailure(w, r, err)
		return
	}

	sess := session.New()
	sess.SetToken(result.Token)
	if !h.commitSession(w, r, sess) {
		return
	}

	target := safeRedirectPath(creds.RedirectTo)
	if target == "" {
		target = "/"
	}

	if isBrowserRequest(r) {
		http.Redirect(w, r, target, http.StatusSeeOther)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"user":        result.Identity,
		"redirect_to": target,
	})
}

// decodeLogin extracts credentials from a form or JSON body.
func (h *AuthHandlers) decodeLogin(w http.ResponseWriter, r *http.Request) (loginCredentials, bool) {
	if isJSONRequest(r) {
		var creds loginCredentials
		if !DecodeJSON(w, r, &creds) {
			return loginCredentials{}, false
		}
		return creds, true
	}

	if err := r.ParseForm(); err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_form", Err: err})
		return loginCredentials{}, false
	}
	return loginCredentials{
		Identifier: r.PostFormValue("username-or-email"),
		Password:   r.PostFormValue("password"),
		RedirectTo: r.PostFormValue("redirect_uri"),
	}, true
}

// loginFailure reports a failed login. Browsers get the message as a one-shot
// flash and a redirect back to the form; API clients get the mapped status.
// Server-side failures never leak detail either way.
func (h *AuthHandlers) loginFailure(w http.ResponseWriter, r *http.Request, err error) {
	if apperrors.IsInvalidCredentials(err) || apperrors.IsValidation(err) {
		if isBrowserRequest(r) {
			sess := session.New()
			sess.SetFlash(err.Error())
			if h.commitSession(w, r, sess) {
				http.Redirect(w, r, "/login", http.StatusSeeOther)
			}
			return
		}
		WriteAppError(w, err)
		return
	}

	h.logger().ErrorContext(r.Context(), "login failed",
		slog.String("request_id", RequestIDFromContext(r.Context())),
		slog.Any("error", err))
	WriteAppError(w, err)
}

// SignupPage serves the signup form data.
// GET /signup.
func (h *AuthHandlers) SignupPage(w http.ResponseWriter, r *http.Request) {
	sess := h.Carrier.LoadRequest(r)

	body := map[string]any{}
	if msg, ok := sess.Flash(); ok {
		body["error"] = msg
		h.commitSession(w, r, sess)
	}

	WriteJSON(w, http.StatusOK, body)
}

// signupForm carries the signup form or JSON body.
type signupForm struct {
	Email           string `json:"email"`
	Username        string `json:"username"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// Signup handles account creation.
// POST /signup.
//
// A new account does not start a session; the client is sent to the login
// page to authenticate with the credentials it just registered.
func (h *AuthHandlers) Signup(w http.ResponseWriter, r *http.Request) {
	form, ok := h.decodeSignup(w, r)
	if !ok {
		return
	}

	user, err := h.Svc.Signup(r.Context(), service.SignupInput{
		Email:           form.Email,
		Username:        form.Username,
		Password:        form.Password,
		ConfirmPassword: form.ConfirmPassword,
	})
	if err != nil {
		h.signupFailure(w, r, err)
		return
	}

	if isBrowserRequest(r) {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	WriteJSON(w, http.StatusCreated, map[string]any{
		"user":        user,
		"redirect_to": "/login",
	})
}

func (h *AuthHandlers) decodeSignup(w http.ResponseWriter, r *http.Request) (signupForm, bool) {
	if isJSONRequest(r) {
		var form signupForm
		if !DecodeJSON(w, r, &form) {
			return signupForm{}, false
		}
		return form, true
	}

	if err := r.ParseForm(); err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_form", Err: err})
		return signupForm{}, false
	}
	return signupForm{
		Email:           r.PostFormValue("email"),
		Username:        r.PostFormValue("username"),
		Password:        r.PostFormValue("password"),
		ConfirmPassword: r.PostFormValue("confirm-password"),
	}, true
}

func (h *AuthHandlers) signupFailure(w http.ResponseWriter, r *http.Request, err error) {
	if apperrors.IsValidation(err) || apperrors.IsConflict(err) {
		if isBrowserRequest(r) {
			sess := session.New()
			sess.SetFlash(err.Error())
			if h.commitSession(w, r, sess) {
				http.Redirect(w, r, "/signup", http.StatusSeeOther)
			}
			return
		}
		WriteAppError(w, err)
		return
	}

	h.logger().ErrorContext(r.Context(), "signup failed",
		slog.String("request_id", RequestIDFromContext(r.Context())),
		slog.Any("error", err))
	WriteAppError(w, err)
}

// Logout destroys the session and sends the client to the login page.
// POST /logout.
//
// Logout is unconditional: it succeeds whether or not the request carried a
// valid session, so repeated submissions are harmless.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, h.Carrier.Destroy())

	isAJAX := strings.Contains(r.Header.Get("Accept"), "application/json") ||
		strings.EqualFold(r.Header.Get("X-Requested-With"), "XMLHttpRequest")
	if isAJAX {
		WriteJSON(w, http.StatusOK, map[string]string{
			"status":      "success",
			"redirect_to": "/login",
		})
		return
	}

	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// commitSession signs the session into a cookie. A signing failure means the
// cookie secrets are unusable, which is a server-side fault.
func (h *AuthHandlers) commitSession(w http.ResponseWriter, r *http.Request, sess *session.Session) bool {
	cookie, err := h.Carrier.Commit(sess)
	if err != nil {
		h.logger().ErrorContext(r.Context(), "committing session failed",
			slog.String("request_id", RequestIDFromContext(r.Context())),
			slog.Any("error", err))
		WriteAppError(w, apperrors.Misconfigured("session cookie could not be signed"))
		return false
	}
	http.SetCookie(w, cookie)
	return true
}

// isJSONRequest reports whether the request body is JSON.
func isJSONRequest(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Content-Type"), "application/json")
}
