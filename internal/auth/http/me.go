package http

import (
	"net/http"

	"github.com/lockbridge/authledger/internal/auth/credstore"
	"github.com/lockbridge/authledger/pkg/httpx"
	"github.com/lockbridge/authledger/pkg/slogx"
)

type MeHandler struct {
	Credentials *credstore.CredentialStore
}

type meResponse struct {
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

// ServeHTTP returns the authenticated principal's account details. Routing
// guarantees a principal is present; RequirePrincipal runs first.
func (h *MeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	p, ok := httpx.PrincipalFromContext(ctx)
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "invalid_token",
			"Authentication required")
		return
	}

	u, err := h.Credentials.FindByID(ctx, p.UserID)
	if err != nil {
		log.Warn("failed to load account", "user_id", p.UserID, "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error",
			"Failed to load account")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, meResponse{
		UserID:   u.ID,
		Email:    u.Email,
		Username: u.Username,
	})
}
