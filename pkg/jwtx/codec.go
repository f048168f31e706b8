package jwtx

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Config is the immutable signing configuration, loaded once at startup and
// injected into the Codec. The secret is never mutated after construction so
// concurrent Mint/Verify calls need no locking.
type Config struct {
	Secret     []byte
	Algorithm  string // HS256 (default), HS384 or HS512
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// Codec mints and verifies signed bearer tokens.
type Codec struct {
	secret     []byte
	method     *jwt.SigningMethodHMAC
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewCodec validates cfg and returns a ready Codec.
func NewCodec(cfg Config) (*Codec, error) {
	if len(cfg.Secret) == 0 {
		return nil, errors.New("jwtx: signing secret is required")
	}

	var method *jwt.SigningMethodHMAC
	switch strings.ToUpper(cfg.Algorithm) {
	case "", "HS256":
		method = jwt.SigningMethodHS256
	case "HS384":
		method = jwt.SigningMethodHS384
	case "HS512":
		method = jwt.SigningMethodHS512
	default:
		return nil, fmt.Errorf("jwtx: unsupported signing algorithm %q", cfg.Algorithm)
	}

	c := &Codec{
		secret:     cfg.Secret,
		method:     method,
		issuer:     cfg.Issuer,
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
	}
	if c.accessTTL == 0 {
		c.accessTTL = DefaultAccessTokenTTL
	}
	if c.refreshTTL == 0 {
		c.refreshTTL = DefaultRefreshTokenTTL
	}
	return c, nil
}

// TTL returns the validity window for a token use.
func (c *Codec) TTL(use TokenUse) time.Duration {
	if use == UseRefresh {
		return c.refreshTTL
	}
	return c.accessTTL
}

// Mint builds claims for subject, merges in the caller's extra claims and
// signs the result. Registered claims always win over extras of the same
// name. Successive mints for the same subject produce distinct strings
// because iat and jti differ; the ledger relies on that for its uniqueness
// constraint.
func (c *Codec) Mint(use TokenUse, subject string, extra map[string]any) (string, error) {
	return c.MintAt(use, subject, extra, time.Now())
}

// MintAt is Mint with an explicit issue time, for tests and deterministic
// reissue scenarios.
func (c *Codec) MintAt(use TokenUse, subject string, extra map[string]any, now time.Time) (string, error) {
	if subject == "" {
		return "", errors.New("jwtx: subject is required")
	}

	claims := jwt.MapClaims{}
	for name, value := range extra {
		claims[name] = value
	}

	claims["iss"] = c.issuer
	claims["sub"] = subject
	claims["iat"] = jwt.NewNumericDate(now)
	claims["nbf"] = jwt.NewNumericDate(now)
	claims["exp"] = jwt.NewNumericDate(now.Add(c.TTL(use)))
	claims["jti"] = newJTI()
	claims[claimUse] = string(use)

	return jwt.NewWithClaims(c.method, claims).SignedString(c.secret)
}

// Verify checks the signature and validity window of token and returns its
// claims. If expectedSubject is non-empty, the embedded subject must match.
// Failures map onto the codec's sentinel errors and nothing else; partial
// claims are never returned.
func (c *Codec) Verify(token, expectedSubject string) (Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{c.method.Alg()}),
		jwt.WithExpirationRequired(),
	)

	mc := jwt.MapClaims{}
	_, err := parser.ParseWithClaims(token, mc, func(t *jwt.Token) (any, error) {
		return c.secret, nil
	})
	if err != nil {
		return Claims{}, mapParseError(err)
	}

	claims := claimsFromMap(mc)
	if expectedSubject != "" && claims.Subject != expectedSubject {
		return Claims{}, ErrSubjectMismatch
	}
	return claims, nil
}

// ExtractSubject decodes the subject WITHOUT verifying the signature. It
// exists so callers can look up which principal to verify against; nothing
// from it may be trusted until a subsequent Verify succeeds.
func (c *Codec) ExtractSubject(token string) (string, error) {
	mc := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, mc); err != nil {
		return "", ErrMalformed
	}

	sub, err := mc.GetSubject()
	if err != nil || sub == "" {
		return "", ErrMalformed
	}
	return sub, nil
}

// mapParseError collapses golang-jwt's error tree onto the codec sentinels.
// Order matters: a tampered token must report the signature, not whatever
// claim content the tampering produced.
func mapParseError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ErrInvalidSignature
	case errors.Is(err, jwt.ErrTokenMalformed):
		return ErrMalformed
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpired
	case errors.Is(err, jwt.ErrTokenNotValidYet):
		return ErrNotYetValid
	default:
		return ErrMalformed
	}
}
