package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lockbridge/authledger/internal/auth/domain"
	"github.com/lockbridge/authledger/internal/auth/store"
)

type tokensRepo struct {
	db dbtx
}

func (r *tokensRepo) RecordToken(ctx context.Context, e domain.LedgerEntry) error {
	const q = `
		INSERT INTO tokens (id, jwt_token, revoked, expired, token_type, user_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, q,
		e.ID, e.Token, e.Revoked, e.Expired, e.TokenType, e.UserID, e.CreatedAt, e.UpdatedAt)
	if isUniqueViolation(err, "tokens.jwt_token") {
		return store.ErrDuplicateToken
	}
	return err
}

func (r *tokensRepo) IsTokenActive(ctx context.Context, token string) (bool, error) {
	const q = `
		SELECT COUNT(1) FROM tokens
		WHERE jwt_token = ? AND revoked = 0 AND expired = 0`

	var n int64
	if err := r.db.QueryRowContext(ctx, q, token).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *tokensRepo) GetLedgerEntry(ctx context.Context, token string) (domain.LedgerEntry, error) {
	const q = `
		SELECT id, jwt_token, revoked, expired, token_type, user_id, created_at, updated_at
		FROM tokens WHERE jwt_token = ?`

	var e domain.LedgerEntry
	err := r.db.QueryRowContext(ctx, q, token).Scan(
		&e.ID, &e.Token, &e.Revoked, &e.Expired, &e.TokenType, &e.UserID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return domain.LedgerEntry{}, mapNotFound(err)
	}
	return e, nil
}

func (r *tokensRepo) ListActiveUserTokens(
	ctx context.Context,
	userID string,
) ([]domain.LedgerEntry, error) {
	const q = `
		SELECT id, jwt_token, revoked, expired, token_type, user_id, created_at, updated_at
		FROM tokens
		WHERE user_id = ? AND (revoked = 0 OR expired = 0)
		ORDER BY id DESC`

	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.LedgerEntry
	for rows.Next() {
		var e domain.LedgerEntry
		if err := rows.Scan(
			&e.ID, &e.Token, &e.Revoked, &e.Expired, &e.TokenType, &e.UserID, &e.CreatedAt, &e.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// RevokeAllUserTokens flips both flags in one UPDATE. SQLite applies the
// statement atomically, so a concurrent IsTokenActive sees either the old
// row or the fully revoked row, never one flag without the other.
func (r *tokensRepo) RevokeAllUserTokens(ctx context.Context, userID string) error {
	const q = `
		UPDATE tokens
		SET revoked = 1, expired = 1, updated_at = ?
		WHERE user_id = ? AND (revoked = 0 OR expired = 0)`

	_, err := r.db.ExecContext(ctx, q, time.Now().UTC(), userID)
	return err
}

func (r *tokensRepo) DeleteRevokedTokensBefore(
	ctx context.Context,
	cutoff time.Time,
) (int64, error) {
	const q = `
		DELETE FROM tokens
		WHERE revoked = 1 AND expired = 1 AND updated_at < ?`

	res, err := r.db.ExecContext(ctx, q, cutoff)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return 0, err
	}
	return n, nil
}
