package store

import (
	"context"
	"errors"
	"time"

	"github.com/lockbridge/authledger/internal/auth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")

	// ErrDuplicateToken reports a ledger insert for a token string that was
	// already recorded. The codec's jti/iat make this practically impossible
	// but the ledger still rejects it defensively.
	ErrDuplicateToken = errors.New("store: duplicate token")
)

// Store is the root data access interface. Concrete drivers (sqlite today)
// implement it. Sub-repositories keep concerns tidy and let the service
// layer depend on exactly the operations it needs.
type Store interface {
	Users() Users
	Tokens() Tokens

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store. The
	// caller MUST Commit or Rollback.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction, committing when fn returns
	// nil and rolling back otherwise. This is the recommended way to make
	// revoke-then-record sequences atomic.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error

	// Ping verifies the backing database is still reachable.
	Ping(ctx context.Context) error
}

// Tx is a transactional Store with explicit Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

// Users is the persistence half of the credential store.
type Users interface {
	// CreateUser inserts a new user (id assigned by the app via ULID).
	// Returns ErrAlreadyExists when the email is taken.
	CreateUser(ctx context.Context, u domain.User) error

	// GetUserByEmail is used during login.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// GetUserByID resolves the subject embedded in a token.
	GetUserByID(ctx context.Context, id string) (domain.User, error)
}

// Tokens is the token ledger. One row per issued access token; the row is
// the server-side kill switch for an otherwise self-verifying token.
type Tokens interface {
	// RecordToken inserts a fresh entry with both flags false. Returns
	// ErrDuplicateToken if the token string already has a row.
	RecordToken(ctx context.Context, e domain.LedgerEntry) error

	// IsTokenActive reports whether an entry exists for this exact token
	// string with revoked=false and expired=false. A missing row is false,
	// never an error.
	IsTokenActive(ctx context.Context, token string) (bool, error)

	// GetLedgerEntry fetches the row for a token string.
	GetLedgerEntry(ctx context.Context, token string) (domain.LedgerEntry, error)

	// ListActiveUserTokens returns every not-yet-fully-revoked entry for a
	// user, newest first.
	ListActiveUserTokens(ctx context.Context, userID string) ([]domain.LedgerEntry, error)

	// RevokeAllUserTokens flips revoked and expired to true on every entry
	// for userID that still has either flag false. The flip is a single
	// statement so concurrent readers never observe a half-revoked row.
	// Idempotent.
	RevokeAllUserTokens(ctx context.Context, userID string) error

	// DeleteRevokedTokensBefore removes fully-revoked rows older than
	// cutoff. Housekeeping only; the core never deletes ledger rows.
	DeleteRevokedTokensBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
