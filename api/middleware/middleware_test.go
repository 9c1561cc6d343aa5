package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/itsatony/w4b_v3/server/apiary/internal/auth"
	"github.com/itsatony/w4b_v3/server/apiary/internal/errors"
	"github.com/itsatony/w4b_v3/server/apiary/internal/models"
	"github.com/itsatony/w4b_v3/server/apiary/internal/ratelimit"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubResolver map[string]*models.Actor

func (s stubResolver) ResolveActor(_ context.Context, id *auth.Identity) (*models.Actor, error) {
	if actor, ok := s[id.AccountID]; ok {
		return actor, nil
	}
	return nil, errors.NewAuthError("account no longer exists", nil)
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) models.Envelope {
	t.Helper()
	var env models.Envelope
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&env))
	return env
}

func TestAuthenticate(t *testing.T) {
	jwt := auth.NewJWTService("test-secret-0123456789", "apiary", time.Hour)
	resolver := stubResolver{"acc_1": {ID: "acc_1", Role: models.RoleBeekeeper}}
	mw := NewAuthMiddleware(jwt, resolver)

	var seen *models.Actor
	h := mw.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = ActorFrom(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, errors.CodeUnauthorized, decode(t, rec).Code)

	ctx := context.Background()
	good, err := jwt.Issue(ctx, &models.Account{ID: "acc_1", Role: models.RoleBeekeeper}, "")
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+good)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	require.NotNil(t, seen)
	assert.Equal(t, "acc_1", seen.ID)

	// a valid token for an account that is gone is rejected
	stale, err := jwt.Issue(ctx, &models.Account{ID: "acc_gone", Role: models.RoleAdmin}, "")
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+stale)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRateLimit(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	limiter, err := ratelimit.NewFixedWindowLimiter(client, "test", 1, time.Hour)
	require.NoError(t, err)

	h := RateLimit(limiter)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	call := func(actor *models.Actor) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req = req.WithContext(WithActor(req.Context(), actor))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	a := &models.Actor{ID: "acc_a", Role: models.RoleBeekeeper}
	assert.Equal(t, http.StatusOK, call(a).Code)
	rec := call(a)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, errors.CodeRateLimited, decode(t, rec).Code)

	assert.Equal(t, http.StatusOK, call(&models.Actor{ID: "acc_b", Role: models.RoleBeekeeper}).Code)
}
