package jwtx

import (
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// claimUse is the custom claim carrying the TokenUse tag.
const claimUse = "use"

// registeredNames are the claims owned by the codec. Everything else in a
// verified payload surfaces through Claims.Extra.
var registeredNames = map[string]struct{}{
	"iss": {}, "sub": {}, "aud": {}, "exp": {}, "nbf": {}, "iat": {}, "jti": {}, claimUse: {},
}

// Claims is the verified content of a token. It only exists in memory; the
// persisted form is the encoded token string itself.
type Claims struct {
	Subject   string
	TokenUse  TokenUse
	Issuer    string
	ID        string // jti
	IssuedAt  time.Time
	ExpiresAt time.Time

	// Extra holds every caller-supplied claim that was merged in at mint
	// time, e.g. a display name.
	Extra map[string]any
}

// newJTI returns a URL-safe random identifier for the "jti" claim.
func newJTI() string {
	var b [20]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}

// claimsFromMap converts a parsed payload into Claims. The input is trusted
// at this point; signature and expiry checks have already happened.
func claimsFromMap(mc jwt.MapClaims) Claims {
	c := Claims{}

	if sub, err := mc.GetSubject(); err == nil {
		c.Subject = sub
	}
	if iss, err := mc.GetIssuer(); err == nil {
		c.Issuer = iss
	}
	if use, ok := mc[claimUse].(string); ok {
		c.TokenUse = TokenUse(use)
	}
	if jti, ok := mc["jti"].(string); ok {
		c.ID = jti
	}
	if iat, err := mc.GetIssuedAt(); err == nil && iat != nil {
		c.IssuedAt = iat.Time
	}
	if exp, err := mc.GetExpirationTime(); err == nil && exp != nil {
		c.ExpiresAt = exp.Time
	}

	for name, value := range mc {
		if _, owned := registeredNames[name]; owned {
			continue
		}
		if c.Extra == nil {
			c.Extra = make(map[string]any)
		}
		c.Extra[name] = value
	}

	return c
}
