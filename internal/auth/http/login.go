package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/lockbridge/authledger/internal/auth/service"
	"github.com/lockbridge/authledger/pkg/httpx"
	"github.com/lockbridge/authledger/pkg/slogx"
)

type LoginHandler struct {
	AuthService *service.AuthService
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ServeHTTP authenticates by email and password. A successful login kills
// every token the principal held before; sessions do not accumulate.
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}
	if req.Email == "" || req.Password == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request",
			"email and password are required")
		return
	}

	pair, err := h.AuthService.Login(ctx, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			// Unknown email and wrong password are indistinguishable here.
			httpx.WriteError(w, http.StatusUnauthorized, "invalid_credentials",
				"Email or password is incorrect")
		default:
			log.Error("login failed", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "server_error",
				"Failed to log in")
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, pair)
}
