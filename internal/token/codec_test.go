package token

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCodec_RequiresSecret(t *testing.T) {
	_, err := NewCodec("", time.Hour)
	require.Error(t, err)
}

func TestNewCodec_RequiresPositiveTTL(t *testing.T) {
	_, err := NewCodec("secret", 0)
	require.Error(t, err)
}

func TestCodec_RoundTrip(t *testing.T) {
	codec, err := NewCodec("secret-a", time.Hour)
	require.NoError(t, err)

	signed, err := codec.Issue(42)
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	userID, err := codec.Verify(signed)
	require.NoError(t, err)
	assert.Equal(t, int64(42), userID)
}

func TestCodec_ExpiredToken(t *testing.T) {
	now := time.Now()
	clock := now
	codec, err := NewCodec("secret-a", time.Hour, WithClock(func() time.Time { return clock }))
	require.NoError(t, err)

	signed, err := codec.Issue(7)
	require.NoError(t, err)

	// Still valid just before expiry.
	clock = now.Add(59 * time.Minute)
	_, err = codec.Verify(signed)
	require.NoError(t, err)

	// Advance past issue_time + ttl.
	clock = now.Add(61 * time.Minute)
	_, err = codec.Verify(signed)
	assert.ErrorIs(t, err, ErrExpired)
}

func TestCodec_WrongSecretIsMalformed(t *testing.T) {
	codecA, err := NewCodec("secret-a", time.Hour)
	require.NoError(t, err)
	codecB, err := NewCodec("secret-b", time.Hour)
	require.NoError(t, err)

	signed, err := codecA.Issue(42)
	require.NoError(t, err)

	_, err = codecB.Verify(signed)
	assert.ErrorIs(t, err, ErrMalformed)
	assert.NotErrorIs(t, err, ErrExpired)
}

func TestCodec_GarbageIsMalformed(t *testing.T) {
	codec, err := NewCodec("secret-a", time.Hour)
	require.NoError(t, err)

	for _, in := range []string{"", "not-a-token", "a.b.c", strings.Repeat("x", 512)} {
		_, verr := codec.Verify(in)
		assert.ErrorIs(t, verr, ErrMalformed, "input %q", in)
	}
}

func TestCodec_TamperedPayloadIsMalformed(t *testing.T) {
	codec, err := NewCodec("secret-a", time.Hour)
	require.NoError(t, err)

	signed, err := codec.Issue(42)
	require.NoError(t, err)

	parts := strings.Split(signed, ".")
	require.Len(t, parts, 3)
	// Flip the payload; the signature no longer matches.
	tampered := parts[0] + "." + parts[1][:len(parts[1])-2] + "xx." + parts[2]

	_, err = codec.Verify(tampered)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestCodec_RejectsNoneAlgorithm(t *testing.T) {
	codec, err := NewCodec("secret-a", time.Hour)
	require.NoError(t, err)

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		UserID: 42,
	})
	raw, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = codec.Verify(raw)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestCodec_MissingExpiryIsMalformed(t *testing.T) {
	codec, err := NewCodec("secret-a", time.Hour)
	require.NoError(t, err)

	// Hand-roll a token with no exp claim, signed with the right secret.
	noExpiry := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{UserID: 42})
	raw, err := noExpiry.SignedString([]byte("secret-a"))
	require.NoError(t, err)

	_, err = codec.Verify(raw)
	assert.ErrorIs(t, err, ErrMalformed)
}
