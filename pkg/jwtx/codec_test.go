package jwtx

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func testCodec(t *testing.T) *Codec {
	t.Helper()

	c, err := NewCodec(Config{
		Secret:     []byte("unit-test-secret-at-least-32-bytes!!"),
		Issuer:     "authledger-test",
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 7 * 24 * time.Hour,
	})
	require.NoError(t, err)
	return c
}

func TestNewCodecConfig(t *testing.T) {
	t.Parallel()

	_, err := NewCodec(Config{})
	require.Error(t, err)

	_, err = NewCodec(Config{Secret: []byte("s"), Algorithm: "RS256"})
	require.Error(t, err)

	c, err := NewCodec(Config{Secret: []byte("s"), Algorithm: "hs512"})
	require.NoError(t, err)
	require.Equal(t, DefaultAccessTokenTTL, c.TTL(UseAccess))
	require.Equal(t, DefaultRefreshTokenTTL, c.TTL(UseRefresh))
}

func TestMintVerifyRoundTrip(t *testing.T) {
	t.Parallel()
	c := testCodec(t)

	extra := map[string]any{"username": "alice", "display_name": "Alice A"}
	token, err := c.Mint(UseAccess, "user-123", extra)
	require.NoError(t, err)
	require.Len(t, strings.Split(token, "."), 3)

	claims, err := c.Verify(token, "user-123")
	require.NoError(t, err)
	require.Equal(t, "user-123", claims.Subject)
	require.Equal(t, UseAccess, claims.TokenUse)
	require.Equal(t, "authledger-test", claims.Issuer)
	require.NotEmpty(t, claims.ID)
	require.Equal(t, "alice", claims.Extra["username"])
	require.Equal(t, "Alice A", claims.Extra["display_name"])
	require.WithinDuration(t, time.Now().Add(15*time.Minute), claims.ExpiresAt, 5*time.Second)
}

func TestMintedTokensAreDistinct(t *testing.T) {
	t.Parallel()
	c := testCodec(t)

	t1, err := c.Mint(UseAccess, "user-123", nil)
	require.NoError(t, err)
	t2, err := c.Mint(UseAccess, "user-123", nil)
	require.NoError(t, err)
	require.NotEqual(t, t1, t2)
}

func TestVerifyRejectsTamperedPayload(t *testing.T) {
	t.Parallel()
	c := testCodec(t)

	token, err := c.Mint(UseAccess, "user-123", map[string]any{"username": "alice"})
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)

	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(payload, &body))
	body["sub"] = "user-999"
	forged, err := json.Marshal(body)
	require.NoError(t, err)

	parts[1] = base64.RawURLEncoding.EncodeToString(forged)
	_, err = c.Verify(strings.Join(parts, "."), "user-999")
	require.ErrorIs(t, err, ErrInvalidSignature)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	t.Parallel()
	c := testCodec(t)

	other, err := NewCodec(Config{Secret: []byte("a completely different secret key")})
	require.NoError(t, err)

	token, err := other.Mint(UseAccess, "user-123", nil)
	require.NoError(t, err)

	_, err = c.Verify(token, "")
	require.ErrorIs(t, err, ErrInvalidSignature)
}

func TestVerifyRejectsExpired(t *testing.T) {
	t.Parallel()
	c := testCodec(t)

	token, err := c.MintAt(UseAccess, "user-123", nil, time.Now().Add(-time.Hour))
	require.NoError(t, err)

	_, err = c.Verify(token, "user-123")
	require.ErrorIs(t, err, ErrExpired)
}

func TestVerifyRejectsNotYetValid(t *testing.T) {
	t.Parallel()
	c := testCodec(t)

	// A token dated in the future has nbf ahead of the clock. It is
	// neither expired nor malformed and reports as neither.
	token, err := c.MintAt(UseAccess, "user-123", nil, time.Now().Add(time.Hour))
	require.NoError(t, err)

	_, err = c.Verify(token, "user-123")
	require.ErrorIs(t, err, ErrNotYetValid)
	require.NotErrorIs(t, err, ErrExpired)
}

func TestVerifyRejectsZeroTTL(t *testing.T) {
	t.Parallel()

	// A zero window means exp == iat, so the token is dead on arrival.
	c, err := NewCodec(Config{Secret: []byte("secret"), AccessTTL: time.Nanosecond})
	require.NoError(t, err)

	token, err := c.MintAt(UseAccess, "user-123", nil, time.Now().Add(-time.Second))
	require.NoError(t, err)

	_, err = c.Verify(token, "user-123")
	require.ErrorIs(t, err, ErrExpired)
}

func TestVerifySubjectMismatch(t *testing.T) {
	t.Parallel()
	c := testCodec(t)

	token, err := c.Mint(UseAccess, "user-123", nil)
	require.NoError(t, err)

	_, err = c.Verify(token, "user-456")
	require.ErrorIs(t, err, ErrSubjectMismatch)

	// Empty expected subject skips the check.
	_, err = c.Verify(token, "")
	require.NoError(t, err)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	t.Parallel()
	c := testCodec(t)

	for _, garbage := range []string{"", "abc", "a.b", "a.b.c", "....", "Bearer nope"} {
		_, err := c.Verify(garbage, "user-123")
		require.ErrorIs(t, err, ErrMalformed, "input %q", garbage)
	}
}

func TestExtractSubject(t *testing.T) {
	t.Parallel()
	c := testCodec(t)

	token, err := c.Mint(UseRefresh, "user-123", nil)
	require.NoError(t, err)

	sub, err := c.ExtractSubject(token)
	require.NoError(t, err)
	require.Equal(t, "user-123", sub)

	_, err = c.ExtractSubject("not-a-token")
	require.ErrorIs(t, err, ErrMalformed)

	// Extraction succeeds even with a broken signature; only Verify
	// establishes trust.
	parts := strings.Split(token, ".")
	parts[2] = "AAAA"
	sub, err = c.ExtractSubject(strings.Join(parts, "."))
	require.NoError(t, err)
	require.Equal(t, "user-123", sub)
}

func TestTokenUseTagSurvivesRoundTrip(t *testing.T) {
	t.Parallel()
	c := testCodec(t)

	token, err := c.Mint(UseRefresh, "user-123", nil)
	require.NoError(t, err)

	claims, err := c.Verify(token, "user-123")
	require.NoError(t, err)
	require.Equal(t, UseRefresh, claims.TokenUse)
}
