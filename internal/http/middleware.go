package httpx

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"runtime/debug"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/scribbly/notes-api/internal/session"
)

// Logging returns a middleware that logs HTTP requests and responses.
// Each request is tagged with a generated request ID, available to
// downstream handlers via RequestIDFromContext.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			requestID := uuid.NewString()
			const defaultHTTPStatus = 200
			ww := &respWriter{ResponseWriter: w, status: defaultHTTPStatus}

			ctx := ContextWithRequestID(r.Context(), requestID)
			next.ServeHTTP(ww, r.WithContext(ctx))

			logger.Info("http",
				slog.String("request_id", requestID),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

type respWriter struct {
	http.ResponseWriter
	status int
}

func (w *respWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Recover returns a middleware that recovers from panics and logs them.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic",
						slog.Any("error", err),
						slog.String("path", r.URL.Path),
						slog.String("method", r.Method),
						slog.String("stack", string(debug.Stack())))
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuth returns a middleware that admits only authenticated requests.
// For browser requests without a valid token it redirects to /login; for API
// requests it returns a 401 JSON response. An expired token additionally
// destroys the session cookie so the browser stops replaying it. A gate
// failure (misconfiguration, store outage) is a 500, never a redirect.
func RequireAuth(gate AuthGate, carrier *session.Carrier, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := carrier.LoadRequest(r)

			result, err := gate.Check(r.Context(), sess.Token())
			if err != nil {
				logger.ErrorContext(r.Context(), "auth gate check failed",
					slog.String("request_id", RequestIDFromContext(r.Context())),
					slog.Any("error", err))
				WriteAppError(w, err)
				return
			}

			if !result.Authenticated() {
				if result.ClearSession {
					http.SetCookie(w, carrier.Destroy())
				}
				if isBrowserRequest(r) {
					redirectToLogin(w, r)
					return
				}
				WriteError(w, ErrorParams{
					Code:    http.StatusUnauthorized,
					ErrCode: "authentication_required",
					Err:     errors.New("authentication required"),
				})
				return
			}

			ctx := ContextWithIdentity(r.Context(), *result.Identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RedirectIfAuthenticated returns a middleware for the login and signup pages
// that sends already-authenticated users to the home page. Requests without a
// valid token pass through untouched; a stale cookie is not cleared here, the
// login flow overwrites it. A gate failure is a 500, same as RequireAuth.
func RedirectIfAuthenticated(gate AuthGate, carrier *session.Carrier, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := carrier.LoadRequest(r)

			result, err := gate.Check(r.Context(), sess.Token())
			if err != nil {
				logger.ErrorContext(r.Context(), "auth gate check failed",
					slog.String("request_id", RequestIDFromContext(r.Context())),
					slog.Any("error", err))
				WriteAppError(w, err)
				return
			}

			if result.Authenticated() {
				http.Redirect(w, r, "/", http.StatusSeeOther)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// isBrowserRequest determines if a request is from a browser based on:
// 1. Path prefix - API routes start with /api/
// 2. Accept header - browsers typically accept text/html.
func isBrowserRequest(r *http.Request) bool {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		return false
	}

	accept := r.Header.Get("Accept")
	if accept == "" {
		// No Accept header, assume browser for non-API routes
		return true
	}

	return strings.Contains(accept, "text/html")
}

// redirectToLogin redirects browser requests to the login page with the
// current URL as redirect_uri.
func redirectToLogin(w http.ResponseWriter, r *http.Request) {
	redirectPath := safeRedirectPath(r.URL.RequestURI())
	if redirectPath == "" || redirectPath == "/login" {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	loginURL := "/login?redirect_uri=" + url.QueryEscape(redirectPath)
	http.Redirect(w, r, loginURL, http.StatusSeeOther)
}

// safeRedirectPath keeps post-login redirects within the app. Anything that
// is not a plain absolute path (scheme-relative references included) is
// rejected.
func safeRedirectPath(raw string) string {
	if raw == "" || !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") {
		return ""
	}

	u, err := url.Parse(raw)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return ""
	}

	return u.RequestURI()
}
