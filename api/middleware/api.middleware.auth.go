package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/itsatony/w4b_v3/server/apiary/internal/auth"
	"github.com/itsatony/w4b_v3/server/apiary/internal/errors"
	"github.com/itsatony/w4b_v3/server/apiary/internal/models"
	nuts "github.com/vaudience/go-nuts"
)

type contextKey string

const actorKey contextKey = "actor"

// ActorResolver maps a verified identity onto a stored, approved account.
type ActorResolver interface {
	ResolveActor(ctx context.Context, id *auth.Identity) (*models.Actor, error)
}

// AuthMiddleware verifies the bearer token and re-resolves the account on
// every request.
type AuthMiddleware struct {
	authenticator auth.Authenticator
	resolver      ActorResolver
}

func NewAuthMiddleware(authenticator auth.Authenticator, resolver ActorResolver) *AuthMiddleware {
	return &AuthMiddleware{authenticator: authenticator, resolver: resolver}
}

// Authenticate validates the token and adds the actor to the context
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractToken(r)
		if token == "" {
			handleError(w, errors.NewAuthError("no token provided", nil))
			return
		}

		identity, err := m.authenticator.Authenticate(r.Context(), token)
		if err != nil {
			handleError(w, err)
			return
		}

		actor, err := m.resolver.ResolveActor(r.Context(), identity)
		if err != nil {
			handleError(w, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
	})
}

// WithActor stores the actor for downstream handlers.
func WithActor(ctx context.Context, actor *models.Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

// ActorFrom returns the request's actor, or nil when unauthenticated.
func ActorFrom(ctx context.Context) *models.Actor {
	actor, _ := ctx.Value(actorKey).(*models.Actor)
	return actor
}

func extractToken(r *http.Request) string {
	parts := strings.Fields(r.Header.Get("Authorization"))
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return parts[1]
	}
	return ""
}

func handleError(w http.ResponseWriter, err error) {
	apiErr := errors.Wrap(err)
	if apiErr.Status >= http.StatusInternalServerError {
		nuts.L.Errorf("[Middleware] %s", apiErr.Error())
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(apiErr.Status)
	_ = json.NewEncoder(w).Encode(models.Envelope{
		Success:   false,
		Message:   apiErr.Message,
		Code:      apiErr.Code,
		RequestID: apiErr.RequestID,
	})
}
