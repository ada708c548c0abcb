package token

// Package token implements the signed identity token issued at login and
// re-verified on every gated request. Tokens are stateless: nothing is
// stored server-side and logout cannot revoke one before natural expiry.

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrExpired is returned when a structurally valid token is past its
	// expiry. Callers treat this distinctly: the dead cookie gets cleared.
	ErrExpired = errors.New("token expired")
	// ErrMalformed is returned when the signature does not match, the
	// structure cannot be parsed, or required claims are absent.
	ErrMalformed = errors.New("token malformed")
)

// Claims are the JWT claims carried by an auth token.
type Claims struct {
	jwt.RegisteredClaims
	UserID int64 `json:"userId"`
}

// Codec signs and verifies auth tokens with a symmetric HMAC secret.
// It is pure given (token, secret, clock); the clock is injectable for tests.
type Codec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// Option customizes a Codec.
type Option func(*Codec)

// WithClock overrides the time source (useful for expiry tests).
func WithClock(now func() time.Time) Option {
	return func(c *Codec) { c.now = now }
}

// NewCodec creates a Codec. An empty secret is a configuration fault; the
// constructor rejects it so the process fails at startup rather than
// mid-request.
func NewCodec(secret string, ttl time.Duration, opts ...Option) (*Codec, error) {
	if secret == "" {
		return nil, errors.New("token codec requires a signing secret")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("token codec requires a positive TTL, got %s", ttl)
	}
	c := &Codec{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Issue produces a signed token embedding userID, expiring TTL from now.
func (c *Codec) Issue(userID int64) (string, error) {
	now := c.now()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
		UserID: userID,
	})

	signed, err := tok.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature and expiry and returns the embedded user ID.
// Expiry is reported as ErrExpired; every other failure (wrong secret,
// wrong alg, garbage input, missing claims) is ErrMalformed.
func (c *Codec) Verify(tokenString string) (int64, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return c.secret, nil
	}, jwt.WithTimeFunc(c.now), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, ErrExpired
		}
		return 0, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if !tok.Valid || claims.UserID <= 0 {
		return 0, ErrMalformed
	}
	return claims.UserID, nil
}
