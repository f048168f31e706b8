package http

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/lockbridge/authledger/internal/auth/credstore"
	"github.com/lockbridge/authledger/internal/auth/domain"
	"github.com/lockbridge/authledger/internal/auth/service"
	"github.com/lockbridge/authledger/internal/auth/store/drivers/sqlite"
	"github.com/lockbridge/authledger/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	codec, err := jwtx.NewCodec(jwtx.Config{
		Secret:     []byte("e2e-test-secret-0123456789abcdef"),
		Issuer:     "authledger-test",
		AccessTTL:  time.Minute,
		RefreshTTL: time.Hour,
	})
	require.NoError(t, err)

	authService := &service.AuthService{
		Credentials: &credstore.CredentialStore{Store: st},
		Codec:       codec,
		Store:       st,
	}

	router := NewRouter(codec, "test", st, slog.New(slog.DiscardHandler))
	router.AuthService = authService
	router.ApplyRoutes()

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()

	buf, err := json.Marshal(body)
	require.NoError(t, err)

	resp, err := http.Post(url, "application/json", bytes.NewReader(buf))
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decodePair(t *testing.T, resp *http.Response) domain.TokenPair {
	t.Helper()

	var pair domain.TokenPair
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&pair))
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	return pair
}

func getMe(t *testing.T, srv *httptest.Server, accessToken string) *http.Response {
	t.Helper()

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/v1/me", nil)
	require.NoError(t, err)
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func register(t *testing.T, srv *httptest.Server, email string) domain.TokenPair {
	t.Helper()

	resp := postJSON(t, srv.URL+"/auth/register", map[string]string{
		"email":    email,
		"username": "alice",
		"password": "hunter2hunter2",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	return decodePair(t, resp)
}

func TestEndToEndRegisterLoginBearer(t *testing.T) {
	srv := newTestServer(t)

	// Register signs the account in immediately.
	first := register(t, srv, "alice@example.com")

	resp := getMe(t, srv, first.AccessToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var me meResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&me))
	require.Equal(t, "alice@example.com", me.Email)
	require.Equal(t, "alice", me.Username)

	// A second login supersedes the registration token.
	loginResp := postJSON(t, srv.URL+"/auth/login", map[string]string{
		"email":    "alice@example.com",
		"password": "hunter2hunter2",
	})
	require.Equal(t, http.StatusOK, loginResp.StatusCode)
	second := decodePair(t, loginResp)
	require.NotEqual(t, first.AccessToken, second.AccessToken)

	resp = getMe(t, srv, first.AccessToken)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode, "superseded token is dead")

	resp = getMe(t, srv, second.AccessToken)
	require.Equal(t, http.StatusOK, resp.StatusCode, "latest login's token works")
}

func TestEndToEndLoginRejectsBadCredentials(t *testing.T) {
	srv := newTestServer(t)
	register(t, srv, "alice@example.com")

	resp := postJSON(t, srv.URL+"/auth/login", map[string]string{
		"email":    "alice@example.com",
		"password": "wrong",
	})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Unknown account answers identically to a wrong password.
	resp = postJSON(t, srv.URL+"/auth/login", map[string]string{
		"email":    "nobody@example.com",
		"password": "hunter2hunter2",
	})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestEndToEndDuplicateRegistration(t *testing.T) {
	srv := newTestServer(t)
	register(t, srv, "alice@example.com")

	resp := postJSON(t, srv.URL+"/auth/register", map[string]string{
		"email":    "alice@example.com",
		"username": "alice-again",
		"password": "hunter2hunter2",
	})
	require.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestEndToEndRefreshRotatesAccessOnly(t *testing.T) {
	srv := newTestServer(t)
	first := register(t, srv, "alice@example.com")

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/auth/refresh-token", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+first.RefreshToken)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	refreshed := decodePair(t, resp)
	require.NotEqual(t, first.AccessToken, refreshed.AccessToken)
	require.Equal(t, first.RefreshToken, refreshed.RefreshToken, "refresh token is reused")

	// The refreshed access token supersedes the original.
	require.Equal(t, http.StatusUnauthorized, getMe(t, srv, first.AccessToken).StatusCode)
	require.Equal(t, http.StatusOK, getMe(t, srv, refreshed.AccessToken).StatusCode)
}

func TestEndToEndRefreshSuppressesFailures(t *testing.T) {
	srv := newTestServer(t)
	pair := register(t, srv, "alice@example.com")

	cases := map[string]string{
		"garbage":                 "Bearer not.a.jwt",
		"missing":                 "",
		"access token as refresh": "Bearer " + pair.AccessToken,
	}

	for name, authz := range cases {
		t.Run(name, func(t *testing.T) {
			req, err := http.NewRequest(http.MethodPost, srv.URL+"/auth/refresh-token", nil)
			require.NoError(t, err)
			if authz != "" {
				req.Header.Set("Authorization", authz)
			}

			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			require.Equal(t, http.StatusOK, resp.StatusCode)
			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			require.Empty(t, body, "suppressed refresh writes no body")
		})
	}
}

func TestEndToEndGarbageBearerNeverAttaches(t *testing.T) {
	srv := newTestServer(t)
	register(t, srv, "alice@example.com")

	for _, token := range []string{"not.a.jwt", "", "AAAA.BBBB.CCCC"} {
		resp := getMe(t, srv, token)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	}

	// Health endpoints stay open without any token.
	resp, err := http.Get(srv.URL + "/livez")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/readyz")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}
