package service

import (
	"context"
	"errors"
	"time"

	"github.com/lockbridge/authledger/internal/auth/credstore"
	"github.com/lockbridge/authledger/internal/auth/domain"
	"github.com/lockbridge/authledger/internal/auth/store"
	"github.com/lockbridge/authledger/pkg/idx"
	"github.com/lockbridge/authledger/pkg/jwtx"
	"github.com/lockbridge/authledger/pkg/slogx"
)

var (
	ErrInvalidCredentials = credstore.ErrInvalidCredentials
	ErrAlreadyExists      = credstore.ErrAlreadyExists
)

// AuthService drives the register/login/refresh protocol. It owns no state
// of its own: credentials live in the credential store, issued access
// tokens in the ledger, and the tokens themselves carry everything else.
type AuthService struct {
	Credentials *credstore.CredentialStore
	Codec       *jwtx.Codec
	Store       store.Store
}

// Register creates the principal, mints an access+refresh pair, and records
// the access token in the ledger. There are no prior tokens to revoke. The
// user row and the ledger row commit together: a failed registration leaves
// no account behind.
func (s *AuthService) Register(
	ctx context.Context,
	email, username, password string,
) (*domain.TokenPair, error) {
	var (
		pair   *domain.TokenPair
		userID string
	)
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		u, err := s.Credentials.CreateUserInTx(ctx, tx, email, username, password)
		if err != nil {
			return err
		}
		userID = u.ID

		p, entry, err := s.mintPair(u)
		if err != nil {
			return err
		}
		pair = p

		return tx.Tokens().RecordToken(ctx, entry)
	})
	if err != nil {
		return nil, err
	}

	slogx.FromContext(ctx).Info("user registered", "user_id", userID)
	return pair, nil
}

// Login verifies credentials, revokes every previously active access token
// for the principal, and issues a fresh pair. Last login wins: at most one
// access token per principal is live at any time.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.TokenPair, error) {
	u, err := s.Credentials.VerifyPassword(ctx, email, password)
	if err != nil {
		return nil, err
	}

	pair, entry, err := s.mintPair(u)
	if err != nil {
		return nil, err
	}

	// Revoke-then-record must be atomic so a concurrent request never sees
	// a window with zero or two live tokens for this principal.
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Tokens().RevokeAllUserTokens(ctx, u.ID); err != nil {
			return err
		}
		return tx.Tokens().RecordToken(ctx, entry)
	})
	if err != nil {
		return nil, err
	}

	slogx.FromContext(ctx).Info("user logged in", "user_id", u.ID)
	return pair, nil
}

// Refresh rotates the access token without re-authentication. Any
// verification failure is a Suppressed outcome, not an error: the handler
// writes no body and the client's retry logic never sees a raw auth
// failure. Real I/O failures still surface as errors. On success, the new
// access token is paired with the ORIGINAL refresh token; refresh tokens
// are reused until their own expiry.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (domain.RefreshOutcome, error) {
	log := slogx.FromContext(ctx)
	suppressed := domain.RefreshOutcome{Suppressed: true}

	// Unverified peek at the subject; nothing is trusted until Verify.
	subject, err := s.Codec.ExtractSubject(refreshToken)
	if err != nil {
		log.Info("refresh suppressed", "reason", "malformed token")
		return suppressed, nil
	}

	u, err := s.Credentials.FindByID(ctx, subject)
	if err != nil {
		if errors.Is(err, credstore.ErrUserNotFound) {
			log.Info("refresh suppressed", "reason", "unknown subject")
			return suppressed, nil
		}
		return domain.RefreshOutcome{}, err
	}

	claims, err := s.Codec.Verify(refreshToken, u.ID)
	if err != nil {
		log.Info("refresh suppressed", "reason", "verification failed", "err", err)
		return suppressed, nil
	}
	if claims.TokenUse != jwtx.UseRefresh {
		log.Info("refresh suppressed", "reason", "not a refresh token")
		return suppressed, nil
	}

	access, err := s.Codec.Mint(jwtx.UseAccess, u.ID, accessClaims(u))
	if err != nil {
		return domain.RefreshOutcome{}, err
	}
	entry := newLedgerEntry(u.ID, access)

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Tokens().RevokeAllUserTokens(ctx, u.ID); err != nil {
			return err
		}
		return tx.Tokens().RecordToken(ctx, entry)
	})
	if err != nil {
		return domain.RefreshOutcome{}, err
	}

	log.Info("access token refreshed", "user_id", u.ID)
	return domain.RefreshOutcome{
		Pair: &domain.TokenPair{AccessToken: access, RefreshToken: refreshToken},
	}, nil
}

// mintPair issues an access+refresh pair and the ledger entry for the
// access token. Refresh tokens are never ledgered.
func (s *AuthService) mintPair(u domain.User) (*domain.TokenPair, domain.LedgerEntry, error) {
	access, err := s.Codec.Mint(jwtx.UseAccess, u.ID, accessClaims(u))
	if err != nil {
		return nil, domain.LedgerEntry{}, err
	}

	refresh, err := s.Codec.Mint(jwtx.UseRefresh, u.ID, nil)
	if err != nil {
		return nil, domain.LedgerEntry{}, err
	}

	pair := &domain.TokenPair{AccessToken: access, RefreshToken: refresh}
	return pair, newLedgerEntry(u.ID, access), nil
}

// accessClaims are the extra claims embedded in access tokens, e.g. the
// display name protected handlers want without a user lookup.
func accessClaims(u domain.User) map[string]any {
	return map[string]any{
		"username": u.Username,
		"email":    u.Email,
	}
}

func newLedgerEntry(userID, token string) domain.LedgerEntry {
	now := time.Now().UTC()
	return domain.LedgerEntry{
		ID:        idx.New().String(),
		Token:     token,
		UserID:    userID,
		TokenType: string(jwtx.UseAccess),
		CreatedAt: now,
		UpdatedAt: now,
	}
}
