package credstore

import (
	"context"
	"testing"

	"github.com/lockbridge/authledger/internal/auth/store/drivers/sqlite"
	"github.com/stretchr/testify/require"
)

func newCredStore(t *testing.T) *CredentialStore {
	t.Helper()

	s, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.ApplyMigrations())

	return &CredentialStore{Store: s}
}

func TestCreateUserAndVerifyPassword(t *testing.T) {
	t.Parallel()
	cs := newCredStore(t)
	ctx := context.Background()

	u, err := cs.CreateUser(ctx, "alice@example.com", "alice", "hunter2hunter2")
	require.NoError(t, err)
	require.NotEmpty(t, u.ID)
	require.Empty(t, u.PasswordHash, "plaintext-adjacent material must not leak")

	verified, err := cs.VerifyPassword(ctx, "alice@example.com", "hunter2hunter2")
	require.NoError(t, err)
	require.Equal(t, u.ID, verified.ID)

	_, err = cs.VerifyPassword(ctx, "alice@example.com", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	// Unknown email fails identically to a wrong password.
	_, err = cs.VerifyPassword(ctx, "mallory@example.com", "hunter2hunter2")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	t.Parallel()
	cs := newCredStore(t)
	ctx := context.Background()

	_, err := cs.CreateUser(ctx, "bob@example.com", "bob", "password123")
	require.NoError(t, err)

	_, err = cs.CreateUser(ctx, "bob@example.com", "bobby", "different456")
	require.ErrorIs(t, err, ErrAlreadyExists)
}

func TestFindByIDAndEmail(t *testing.T) {
	t.Parallel()
	cs := newCredStore(t)
	ctx := context.Background()

	u, err := cs.CreateUser(ctx, "carol@example.com", "carol", "password123")
	require.NoError(t, err)

	byID, err := cs.FindByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "carol@example.com", byID.Email)
	require.Empty(t, byID.PasswordHash)

	byEmail, err := cs.FindByEmail(ctx, "carol@example.com")
	require.NoError(t, err)
	require.Equal(t, u.ID, byEmail.ID)

	_, err = cs.FindByID(ctx, "01JUNKJUNKJUNKJUNKJUNKJUNK")
	require.ErrorIs(t, err, ErrUserNotFound)
}
