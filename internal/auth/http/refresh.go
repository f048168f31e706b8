package http

import (
	"net/http"
	"strings"

	"github.com/lockbridge/authledger/internal/auth/service"
	"github.com/lockbridge/authledger/pkg/httpx"
	"github.com/lockbridge/authledger/pkg/slogx"
)

type RefreshHandler struct {
	AuthService *service.AuthService
}

// ServeHTTP exchanges a bearer refresh token for a fresh access token. The
// refresh token itself is reused until it expires; only the access token
// rotates. When the presented token fails any check the response is a bare
// 200 with no body, so a polling client quietly falls back to login
// instead of surfacing an auth error mid-session.
func (h *RefreshHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	authz := r.Header.Get("Authorization")
	if !strings.HasPrefix(authz, "Bearer ") {
		// Missing token is suppressed like every other refresh failure.
		httpx.NoCache(w)
		w.WriteHeader(http.StatusOK)
		return
	}
	raw := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer"))

	outcome, err := h.AuthService.Refresh(ctx, raw)
	if err != nil {
		log.Error("refresh failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error",
			"Failed to refresh token")
		return
	}
	if outcome.Suppressed {
		httpx.NoCache(w)
		w.WriteHeader(http.StatusOK)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, outcome.Pair)
}
