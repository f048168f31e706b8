package domain

import "time"

// TokenPair is what the auth endpoints return: a short-lived access token
// and a long-lived refresh token, both signed JWTs.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// LedgerEntry is one row of the token ledger: a record per issued ACCESS
// token, keyed by the token string itself. Refresh tokens are never
// ledgered; they are revalidated by signature and expiry alone.
//
// Revoked and Expired only ever move false->true, and always together. Rows
// are soft-revoked, never deleted here; compaction belongs to the
// housekeeping service.
type LedgerEntry struct {
	ID        string
	Token     string // the exact JWT string, unique
	UserID    string
	TokenType string // "access"
	Revoked   bool
	Expired   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Active reports whether the entry still authorizes requests.
func (e LedgerEntry) Active() bool {
	return !e.Revoked && !e.Expired
}

// RefreshOutcome is the result of the refresh protocol. A failed refresh is
// not an error: it is Suppressed, meaning the handler writes no body at all.
// The distinction keeps "nothing to send" separate from real I/O failures.
type RefreshOutcome struct {
	Suppressed bool
	Pair       *TokenPair
}
