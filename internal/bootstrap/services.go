package bootstrap

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/scribbly/notes-api/config"
	"github.com/scribbly/notes-api/internal/data"
	"github.com/scribbly/notes-api/internal/data/cryptoutil"
	"github.com/scribbly/notes-api/internal/service"
	"github.com/scribbly/notes-api/internal/session"
	"github.com/scribbly/notes-api/internal/token"
)

// ServiceContainer holds all application services.
type ServiceContainer struct {
	Auth    *service.AuthService
	Notes   *service.NoteService
	Carrier *session.Carrier
}

// BuildServicesConfig groups dependencies for BuildServices.
type BuildServicesConfig struct {
	Config *config.AppConfig
	DB     *sql.DB
	Logger *slog.Logger
}

// BuildServices wires repositories, the token codec, the cookie carrier, and
// the services on top of them.
func BuildServices(cfg BuildServicesConfig) (*ServiceContainer, error) {
	appCfg := cfg.Config
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	codec, err := token.NewCodec(appCfg.Auth.JWTSecret, appCfg.Auth.TokenTTL)
	if err != nil {
		return nil, fmt.Errorf("build token codec: %w", err)
	}

	carrier, err := session.NewCarrier(session.Config{
		CookieName: appCfg.Auth.CookieName,
		Secrets:    appCfg.Auth.CookieSecrets,
		MaxAge:     appCfg.Auth.SessionMaxAge,
		Insecure:   appCfg.IsDev,
	})
	if err != nil {
		return nil, fmt.Errorf("build session carrier: %w", err)
	}

	userRepo := data.NewUserRepo(cfg.DB)
	noteRepo := data.NewNoteRepo(cfg.DB)

	authSvc := service.NewAuthService(service.AuthServiceOptions{
		Users:         userRepo,
		Codec:         codec,
		Hasher:        cryptoutil.NewBcryptHasher(appCfg.Auth.BcryptCost),
		LookupTimeout: appCfg.Auth.LookupTimeout,
		Logger:        logger,
	})
	noteSvc := service.NewNoteService(service.NoteServiceOptions{Notes: noteRepo})

	return &ServiceContainer{
		Auth:    authSvc,
		Notes:   noteSvc,
		Carrier: carrier,
	}, nil
}
