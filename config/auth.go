package config

import "time"

const (
	// DefaultTokenTTL is the lifetime of an issued auth token.
	DefaultTokenTTL = time.Hour

	// DefaultBcryptCost is the bcrypt work factor for new password hashes.
	DefaultBcryptCost = 10

	// minBcryptCost and maxBcryptCost bound the configurable work factor.
	minBcryptCost = 4
	maxBcryptCost = 31
)

// AuthConfig groups all authentication-related configuration.
type AuthConfig struct {
	// JWTSecret signs issued auth tokens. The process refuses to start
	// without it.
	JWTSecret string `env:"JWT_SECRET,required"`

	// CookieSecrets sign the session cookie. Multiple comma-separated
	// secrets support rotation: the newest (first) secret signs outgoing
	// cookies, and verification tries each in order.
	CookieSecrets []string `env:"COOKIE_SECRETS,required" envSeparator:","`

	// TokenTTL is the lifetime of an issued auth token.
	TokenTTL time.Duration `env:"TOKEN_TTL" envDefault:"1h"`

	// SessionMaxAge is the session cookie Max-Age. Zero means "align to
	// TokenTTL", which keeps a single source of truth for session
	// lifetime and avoids a dead-cookie window after token expiry.
	SessionMaxAge time.Duration `env:"SESSION_MAX_AGE" envDefault:"0"`

	// CookieName is the session cookie name.
	CookieName string `env:"SESSION_COOKIE_NAME" envDefault:"__session"`

	// LookupTimeout bounds the credential-store lookup performed on every
	// gated request.
	LookupTimeout time.Duration `env:"AUTH_LOOKUP_TIMEOUT" envDefault:"5s"`

	// BcryptCost is the bcrypt work factor for new password hashes.
	BcryptCost int `env:"BCRYPT_COST" envDefault:"10"`
}

// Sanitize applies guardrails to authentication configuration values.
func (a *AuthConfig) Sanitize() {
	if a.TokenTTL <= 0 {
		a.TokenTTL = DefaultTokenTTL
	}
	if a.SessionMaxAge <= 0 {
		a.SessionMaxAge = a.TokenTTL
	}
	if a.CookieName == "" {
		a.CookieName = "__session"
	}
	if a.LookupTimeout <= 0 {
		a.LookupTimeout = 5 * time.Second
	}
	if a.BcryptCost < minBcryptCost || a.BcryptCost > maxBcryptCost {
		a.BcryptCost = DefaultBcryptCost
	}
}
