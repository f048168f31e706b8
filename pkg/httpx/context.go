package httpx

import (
	"context"

	"github.com/lockbridge/authledger/pkg/jwtx"
)

// Principal is the authenticated identity attached to a request context
// once its bearer token has passed signature, expiry and ledger checks.
type Principal struct {
	UserID   string
	Email    string
	Username string

	// Claims is the verified claim set of the presented token.
	Claims jwtx.Claims

	// RemoteAddr is the connection's remote address at authentication time.
	RemoteAddr string
}

type ctxKey struct{}

// ContextWithPrincipal attaches p to ctx for downstream handlers.
func ContextWithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

// PrincipalFromContext returns the attached principal, if any. Absence of a
// principal is the only signal protected handlers get; no error detail
// survives the interceptor.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(ctxKey{}).(Principal)
	return p, ok
}
