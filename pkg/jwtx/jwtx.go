// Package jwtx is the token codec: it mints signed bearer tokens and
// verifies them back into claims. Tokens are self-contained JWS strings
// signed with a process-wide symmetric secret; revocation state lives in the
// token ledger, not here.
package jwtx

import "time"

// TokenUse tags what a token is for. The tag is embedded in the claims so an
// access token can never be replayed down the refresh path or vice versa.
type TokenUse string

const (
	UseAccess  TokenUse = "access"
	UseRefresh TokenUse = "refresh"
)

// Default token TTLs. Access tokens are short-lived because revocation is a
// ledger lookup away; refresh tokens ride on signature + expiry alone.
const (
	DefaultAccessTokenTTL  = 15 * time.Minute
	DefaultRefreshTokenTTL = 7 * 24 * time.Hour
)
