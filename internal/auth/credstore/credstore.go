// Package credstore owns user credentials. It is the only place plaintext
// passwords are seen: they arrive, get hashed or compared, and are dropped.
// The token lifecycle core talks to it through the three operations below
// and never touches password material itself.
package credstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lockbridge/authledger/internal/auth/domain"
	"github.com/lockbridge/authledger/internal/auth/store"
	"github.com/lockbridge/authledger/pkg/cryptox"
	"github.com/lockbridge/authledger/pkg/idx"
)

var (
	// ErrInvalidCredentials covers both unknown email and wrong password so
	// callers cannot probe which emails are registered.
	ErrInvalidCredentials = errors.New("credstore: invalid credentials")

	// ErrAlreadyExists reports a registration against a taken email.
	ErrAlreadyExists = errors.New("credstore: email already registered")

	// ErrUserNotFound reports a lookup for a principal that does not exist.
	ErrUserNotFound = errors.New("credstore: user not found")
)

type CredentialStore struct {
	Store store.Store
}

// CreateUser registers a new principal. The password is hashed before it
// ever reaches the users table.
func (c *CredentialStore) CreateUser(
	ctx context.Context,
	email, username, password string,
) (domain.User, error) {
	return c.createUser(ctx, c.Store.Users(), email, username, password)
}

// CreateUserInTx is CreateUser against an open transaction, for callers
// that pair the insert with other writes that must land or roll back with
// it.
func (c *CredentialStore) CreateUserInTx(
	ctx context.Context,
	tx store.Tx,
	email, username, password string,
) (domain.User, error) {
	return c.createUser(ctx, tx.Users(), email, username, password)
}

func (c *CredentialStore) createUser(
	ctx context.Context,
	users store.Users,
	email, username, password string,
) (domain.User, error) {
	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	u := domain.User{
		ID:           idx.New().String(),
		Email:        email,
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := users.CreateUser(ctx, u); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, ErrAlreadyExists
		}
		return domain.User{}, err
	}

	u.PasswordHash = ""
	return u, nil
}

// FindByEmail returns the principal registered under email.
func (c *CredentialStore) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	u, err := c.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, err
	}
	u.PasswordHash = ""
	return u, nil
}

// FindByID resolves a token subject back to its principal.
func (c *CredentialStore) FindByID(ctx context.Context, id string) (domain.User, error) {
	u, err := c.Store.Users().GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, err
	}
	u.PasswordHash = ""
	return u, nil
}

// VerifyPassword checks email+password and returns the principal on
// success. Unknown email and bad password are indistinguishable to the
// caller.
func (c *CredentialStore) VerifyPassword(
	ctx context.Context,
	email, password string,
) (domain.User, error) {
	u, err := c.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrInvalidCredentials
		}
		return domain.User{}, err
	}

	if err := cryptox.VerifyPassword(password, u.PasswordHash); err != nil {
		if errors.Is(err, cryptox.ErrPasswordMismatch) {
			return domain.User{}, ErrInvalidCredentials
		}
		return domain.User{}, err
	}

	u.PasswordHash = ""
	return u, nil
}
