// Package httpx carries the HTTP plumbing shared by every handler: the
// middleware chain, the bearer-token interceptor, rate limiting and JSON
// response helpers.
package httpx

import "net/http"

// Middleware wraps a handler with extra behavior. Middlewares are composed
// explicitly with Chain; there is no implicit filter registry.
type Middleware func(http.Handler) http.Handler

// Chain applies middlewares to h so that the first listed middleware is the
// outermost, i.e. runs first on the way in.
func Chain(h http.Handler, middlewares ...Middleware) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}
