package session

// Package session implements the browser-held session cookie: a signed
// container transporting the auth token and an optional one-shot flash
// message. Signing here is independent of the token's own signature; the
// cookie is tamper-evident even when empty of any token.

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// DefaultCookieName matches the original application's session cookie.
const DefaultCookieName = "__session"

// payload is the serialized session content.
type payload struct {
	JWT   string `json:"jwt,omitempty"`
	Error string `json:"error,omitempty"`
}

// Session is an in-memory, request-scoped view of the cookie content.
// Mutations have no external effect until committed.
type Session struct {
	data payload
}

// New returns an empty session, the starting point for a fresh login.
func New() *Session { return &Session{} }

// Token returns the stored auth token, or "" when absent.
func (s *Session) Token() string { return s.data.JWT }

// SetToken stores the auth token.
func (s *Session) SetToken(tok string) { s.data.JWT = tok }

// SetFlash stores a one-shot error message shown on the next page load.
func (s *Session) SetFlash(msg string) { s.data.Error = msg }

// Flash returns the flash message and clears it, so it is surfaced at most
// once. The clear only persists if the session is committed afterwards.
func (s *Session) Flash() (string, bool) {
	if s.data.Error == "" {
		return "", false
	}
	msg := s.data.Error
	s.data.Error = ""
	return msg, true
}

// IsEmpty reports whether the session carries neither token nor flash.
func (s *Session) IsEmpty() bool { return s.data == payload{} }

// Config configures a Carrier.
type Config struct {
	// CookieName is the session cookie name (default "__session").
	CookieName string
	// Secrets sign the cookie, newest first. Verification tries each in
	// order, so old cookies stay readable during a rotation.
	Secrets []string
	// MaxAge is the cookie lifetime.
	MaxAge time.Duration
	// Insecure drops the Secure attribute for local plain-HTTP development.
	Insecure bool
}

// Carrier signs, serializes, and parses session cookies.
type Carrier struct {
	name     string
	secrets  [][]byte
	maxAge   time.Duration
	insecure bool
}

// NewCarrier creates a Carrier. Running without signing secrets would make
// the session forgeable, so zero secrets is a startup-fatal condition.
func NewCarrier(cfg Config) (*Carrier, error) {
	if len(cfg.Secrets) == 0 {
		return nil, errors.New("session carrier requires at least one signing secret")
	}
	for i, s := range cfg.Secrets {
		if s == "" {
			return nil, fmt.Errorf("session signing secret %d is empty", i)
		}
	}
	name := cfg.CookieName
	if name == "" {
		name = DefaultCookieName
	}
	maxAge := cfg.MaxAge
	if maxAge <= 0 {
		maxAge = time.Hour
	}

	secrets := make([][]byte, len(cfg.Secrets))
	for i, s := range cfg.Secrets {
		secrets[i] = []byte(s)
	}
	return &Carrier{
		name:     name,
		secrets:  secrets,
		maxAge:   maxAge,
		insecure: cfg.Insecure,
	}, nil
}

// CookieName returns the configured cookie name.
func (c *Carrier) CookieName() string { return c.name }

// Load parses and authenticates a raw cookie value. A missing, tampered, or
// undecodable value yields an empty session: "no session" is a normal state,
// never an error.
func (c *Carrier) Load(raw string) *Session {
	s := &Session{}
	if raw == "" {
		return s
	}

	encoded, sig, ok := strings.Cut(raw, ".")
	if !ok {
		return s
	}
	sigBytes, err := base64.RawURLEncoding.DecodeString(sig)
	if err != nil {
		return s
	}
	if !c.verify([]byte(encoded), sigBytes) {
		return s
	}

	decoded, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return s
	}
	var data payload
	if err := json.Unmarshal(decoded, &data); err != nil {
		return s
	}
	s.data = data
	return s
}

// LoadRequest reads the session cookie from an incoming request.
func (c *Carrier) LoadRequest(r *http.Request) *Session {
	cookie, err := r.Cookie(c.name)
	if err != nil {
		return &Session{}
	}
	return c.Load(cookie.Value)
}

// Commit serializes and signs the session with the newest secret, returning
// the cookie to attach to the response.
func (c *Carrier) Commit(s *Session) (*http.Cookie, error) {
	body, err := json.Marshal(s.data)
	if err != nil {
		return nil, fmt.Errorf("serialize session: %w", err)
	}
	encoded := base64.RawURLEncoding.EncodeToString(body)
	sig := sign(c.secrets[0], []byte(encoded))
	value := encoded + "." + base64.RawURLEncoding.EncodeToString(sig)

	return &http.Cookie{
		Name:     c.name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(c.maxAge.Seconds()),
		HttpOnly: true,
		Secure:   !c.insecure,
		SameSite: http.SameSiteLaxMode,
	}, nil
}

// Destroy returns a cookie that instructs the client to expire the session
// immediately. It mirrors the attributes used by Commit so browsers match
// the cookie during deletion.
func (c *Carrier) Destroy() *http.Cookie {
	return &http.Cookie{
		Name:     c.name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0).UTC(),
		HttpOnly: true,
		Secure:   !c.insecure,
		SameSite: http.SameSiteLaxMode,
	}
}

func sign(secret, data []byte) []byte {
	mac := hmac.New(sha256.New, secret)
	mac.Write(data)
	return mac.Sum(nil)
}

// verify tries each configured secret, newest first. hmac.Equal is a
// constant-time comparison.
func (c *Carrier) verify(data, sig []byte) bool {
	for _, secret := range c.secrets {
		if hmac.Equal(sign(secret, data), sig) {
			return true
		}
	}
	return false
}
