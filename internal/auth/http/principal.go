package http

import (
	"context"

	"github.com/lockbridge/authledger/internal/auth/credstore"
	"github.com/lockbridge/authledger/internal/auth/store"
	"github.com/lockbridge/authledger/pkg/httpx"
)

// PrincipalAdapter resolves token subjects to principals for the bearer
// interceptor.
type PrincipalAdapter struct {
	Credentials *credstore.CredentialStore
}

func (a *PrincipalAdapter) ResolvePrincipal(ctx context.Context, subject string) (httpx.Principal, error) {
	u, err := a.Credentials.FindByID(ctx, subject)
	if err != nil {
		return httpx.Principal{}, err
	}
	return httpx.Principal{
		UserID:   u.ID,
		Email:    u.Email,
		Username: u.Username,
	}, nil
}

// ledgerAdapter narrows the store to the single question the interceptor
// asks of it.
type ledgerAdapter struct {
	store store.Store
}

func (a ledgerAdapter) IsTokenActive(ctx context.Context, token string) (bool, error) {
	return a.store.Tokens().IsTokenActive(ctx, token)
}
