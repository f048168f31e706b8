package httpx

import (
	"context"
	"net/http"
	"strings"

	"github.com/lockbridge/authledger/pkg/jwtx"
	"github.com/lockbridge/authledger/pkg/slogx"
)

// TokenVerifier is the codec surface the interceptor needs.
type TokenVerifier interface {
	Verify(token, expectedSubject string) (jwtx.Claims, error)
	ExtractSubject(token string) (string, error)
}

// PrincipalResolver loads a principal's current identity by token subject.
type PrincipalResolver interface {
	ResolvePrincipal(ctx context.Context, subject string) (Principal, error)
}

// TokenLedger answers whether an exact token string is still active.
type TokenLedger interface {
	IsTokenActive(ctx context.Context, token string) (bool, error)
}

// BearerAuthentication is the request interceptor. It runs once per inbound
// request and decides exactly one thing: whether a Principal gets attached
// to the context. It never terminates a request itself; a protected route
// that finds no principal makes its own denial decision downstream.
//
// Every failure mode (missing header, malformed token, bad signature,
// expiry, revoked ledger row, vanished user, ledger timeout) collapses to
// "no principal attached". The distinct reason is logged, never surfaced,
// so callers cannot distinguish expired from revoked from forged.
func BearerAuthentication(
	codec TokenVerifier,
	resolver PrincipalResolver,
	ledger TokenLedger,
	skipPrefixes ...string,
) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			// The auth protocol endpoints build trust by other means.
			for _, prefix := range skipPrefixes {
				if strings.HasPrefix(r.URL.Path, prefix) {
					next.ServeHTTP(w, r)
					return
				}
			}

			authz := r.Header.Get("Authorization")
			if authz == "" || !strings.HasPrefix(authz, "Bearer ") {
				next.ServeHTTP(w, r)
				return
			}
			raw := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer"))

			// Already authenticated by an earlier interceptor; idempotent.
			if _, ok := PrincipalFromContext(ctx); ok {
				next.ServeHTTP(w, r)
				return
			}

			// Unverified subject peek, only to know which principal to
			// verify against. Trust is established by Verify below.
			subject, err := codec.ExtractSubject(raw)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			principal, err := resolver.ResolvePrincipal(ctx, subject)
			if err != nil {
				log.Debug("bearer auth: principal resolution failed", "err", err)
				next.ServeHTTP(w, r)
				return
			}

			claims, err := codec.Verify(raw, subject)
			if err != nil {
				log.Debug("bearer auth: verification failed", "err", err)
				next.ServeHTTP(w, r)
				return
			}

			// Ledger errors (including timeouts) fail closed.
			active, err := ledger.IsTokenActive(ctx, raw)
			if err != nil {
				log.Warn("bearer auth: ledger lookup failed", "err", err)
				next.ServeHTTP(w, r)
				return
			}
			if !active {
				log.Debug("bearer auth: token not active in ledger")
				next.ServeHTTP(w, r)
				return
			}

			principal.Claims = claims
			principal.RemoteAddr = r.RemoteAddr
			next.ServeHTTP(w, r.WithContext(ContextWithPrincipal(ctx, principal)))
		})
	}
}

// RequirePrincipal is the downstream denial decision for protected routes:
// 401 when the interceptor attached nothing.
func RequirePrincipal() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := PrincipalFromContext(r.Context()); !ok {
				w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token"`)
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
