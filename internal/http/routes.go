package httpx

import (
	"log/slog"
	"net/http"

	"github.com/scribbly/notes-api/internal/session"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Auth    AuthGate
	Notes   NoteServiceInterface
	Carrier *session.Carrier
	Logger  *slog.Logger
}

// NewRouter creates and configures a new HTTP router.
func NewRouter(services RouterServices) http.Handler {
	mux := http.NewServeMux()

	authHandlers := &AuthHandlers{
		Svc:     services.Auth,
		Carrier: services.Carrier,
		Logger:  services.Logger,
	}
	noteHandlers := &NoteHandlers{
		Svc:    services.Notes,
		Logger: services.Logger,
	}

	logger := routerLogger(services.Logger)
	requireAuth := RequireAuth(services.Auth, services.Carrier, logger)
	redirectIfAuthed := RedirectIfAuthenticated(services.Auth, services.Carrier, logger)

	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))

	mux.Handle("GET /login", redirectIfAuthed(http.HandlerFunc(authHandlers.LoginPage)))
	mux.Handle("POST /login", http.HandlerFunc(authHandlers.Login))
	mux.Handle("GET /signup", redirectIfAuthed(http.HandlerFunc(authHandlers.SignupPage)))
	mux.Handle("POST /signup", http.HandlerFunc(authHandlers.Signup))
	mux.Handle("POST /logout", http.HandlerFunc(authHandlers.Logout))

	mux.Handle("GET /{$}", requireAuth(http.HandlerFunc(noteHandlers.Home)))
	mux.Handle("POST /notes", requireAuth(http.HandlerFunc(noteHandlers.Create)))

	return mux
}

func routerLogger(logger *slog.Logger) *slog.Logger {
	if logger != nil {
		return logger
	}
	return slog.Default()
}
