package middleware

import (
	"context"
	"net"
	"net/http"

	"github.com/itsatony/w4b_v3/server/apiary/internal/errors"
)

// Limiter decides whether key may proceed.
type Limiter interface {
	Allow(ctx context.Context, key string) bool
}

// RateLimit throttles per actor, falling back to the client address for
// unauthenticated requests.
func RateLimit(limiter Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := clientKey(r)
			if !limiter.Allow(r.Context(), key) {
				handleError(w, errors.NewRateLimitError("too many requests", nil))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientKey(r *http.Request) string {
	if actor := ActorFrom(r.Context()); !actor.Anonymous() {
		return "actor:" + actor.ID
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return "ip:" + host
}
