package service

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/lockbridge/authledger/internal/auth/store"
	"github.com/stretchr/testify/require"
)

func TestHousekeepingSweepsDeadRows(t *testing.T) {
	t.Parallel()
	s := newAuthService(t)
	ctx := context.Background()

	// The second sign-in leaves the registration token dead in the ledger.
	old, err := s.Register(ctx, "alice@example.com", "alice", "hunter2hunter2")
	require.NoError(t, err)
	pair, err := s.Login(ctx, "alice@example.com", "hunter2hunter2")
	require.NoError(t, err)

	// A near-zero retention makes every dead row eligible immediately. The
	// sweep fires once on Start.
	hk := NewHousekeepingService(s.Store, slog.New(slog.DiscardHandler), time.Hour, time.Nanosecond)
	hk.Start()
	hk.Stop()

	_, err = s.Store.Tokens().GetLedgerEntry(ctx, old.AccessToken)
	require.ErrorIs(t, err, store.ErrNotFound, "dead row is gone")

	entries, err := s.Store.Tokens().ListActiveUserTokens(ctx, subjectOf(t, s, pair.AccessToken))
	require.NoError(t, err)
	require.Len(t, entries, 1, "live token survives compaction")
	require.Equal(t, pair.AccessToken, entries[0].Token)
}

func TestHousekeepingDefaults(t *testing.T) {
	t.Parallel()
	s := newAuthService(t)

	hk := NewHousekeepingService(s.Store, slog.New(slog.DiscardHandler), 0, 0)
	require.Equal(t, time.Hour, hk.Interval)
	require.Equal(t, 30*24*time.Hour, hk.Retention)
}

func subjectOf(t *testing.T, s *AuthService, token string) string {
	t.Helper()
	subject, err := s.Codec.ExtractSubject(token)
	require.NoError(t, err)
	return subject
}
