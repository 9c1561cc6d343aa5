package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/itsatony/w4b_v3/server/apiary/internal/access"
	"github.com/itsatony/w4b_v3/server/apiary/internal/auth"
	"github.com/itsatony/w4b_v3/server/apiary/internal/errors"
	"github.com/itsatony/w4b_v3/server/apiary/internal/hubservice"
	"github.com/itsatony/w4b_v3/server/apiary/internal/ingest"
	"github.com/itsatony/w4b_v3/server/apiary/internal/models"
	"github.com/itsatony/w4b_v3/server/apiary/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Code    string          `json:"code"`
	Data    json.RawMessage `json:"data"`
}

type denyAll struct{}

func (denyAll) Allow(context.Context, string) bool { return false }

func newTestRouter(t *testing.T, opts Options) *Router {
	r, _ := newTestRouterWithService(t, opts)
	return r
}

func newTestRouterWithService(t *testing.T, opts Options) (*Router, *hubservice.HubService) {
	t.Helper()
	store := memory.NewStore()
	guard := access.NewGuard(store)
	pipeline := ingest.New(store, guard, ingest.Options{
		Picker: ingest.FirstPicker{},
		Source: ingest.FixedSource{Temperature: 41, Humidity: 50, Weight: 25},
	})
	jwt := auth.NewJWTService("test-secret-0123456789", "apiary", time.Hour)
	svc := hubservice.New(store, guard, pipeline, auth.NewPasswordHasher(bcrypt.MinCost), jwt, hubservice.DefaultLimits())
	require.NoError(t, svc.Validate())
	return NewRouter(svc, jwt, opts), svc
}

func call(t *testing.T, h http.Handler, method, path, token string, body interface{}) (int, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec.Code, env
}

func signUp(t *testing.T, h http.Handler, email string) string {
	t.Helper()
	status, env := call(t, h, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"full_name":        "Ann Keeper",
		"email":            email,
		"password":         "hunter2hunter2",
		"confirm_password": "hunter2hunter2",
	})
	require.Equal(t, http.StatusCreated, status, env.Message)
	return logIn(t, h, email)
}

func logIn(t *testing.T, h http.Handler, email string) string {
	t.Helper()
	status, env := call(t, h, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    email,
		"password": "hunter2hunter2",
	})
	require.Equal(t, http.StatusOK, status, env.Message)
	var session struct {
		Token   string `json:"token"`
		Landing string `json:"landing"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &session))
	require.NotEmpty(t, session.Token)
	return session.Token
}

func TestSimulateFlow(t *testing.T) {
	r := newTestRouter(t, Options{})
	token := signUp(t, r, "ann@apiary.io")

	status, env := call(t, r, http.MethodPost, "/api/v1/hives", token, map[string]string{"name": "Linden", "location": "Orchard"})
	require.Equal(t, http.StatusCreated, status, env.Message)
	var hive struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &hive))

	status, env = call(t, r, http.MethodPost, "/api/v1/sensors", token, map[string]string{
		"hive_id": hive.ID, "serial_number": "SN-001", "type": "combined",
	})
	require.Equal(t, http.StatusCreated, status, env.Message)

	status, env = call(t, r, http.MethodPost, "/api/v1/readings/simulate", token, nil)
	require.Equal(t, http.StatusCreated, status, env.Message)
	var result struct {
		Status       string `json:"status"`
		AlertCreated bool   `json:"alert_created"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.Equal(t, "critical", result.Status)
	assert.True(t, result.AlertCreated)

	status, env = call(t, r, http.MethodGet, "/api/v1/alerts", token, nil)
	require.Equal(t, http.StatusOK, status)
	var alerts []json.RawMessage
	require.NoError(t, json.Unmarshal(env.Data, &alerts))
	assert.Len(t, alerts, 1)

	status, env = call(t, r, http.MethodGet, "/api/v1/readings/live?hive_id="+hive.ID, token, nil)
	require.Equal(t, http.StatusOK, status, env.Message)
	var readings []json.RawMessage
	require.NoError(t, json.Unmarshal(env.Data, &readings))
	assert.Len(t, readings, 1)
}

func TestRouterErrors(t *testing.T) {
	r := newTestRouter(t, Options{})

	status, env := call(t, r, http.MethodGet, "/api/v1/hives", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, errors.CodeUnauthorized, env.Code)
	assert.False(t, env.Success)

	token := signUp(t, r, "ben@apiary.io")

	status, env = call(t, r, http.MethodGet, "/api/v1/admin/accounts", token, nil)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, errors.CodeForbiddenRole, env.Code)

	status, env = call(t, r, http.MethodPost, "/api/v1/readings/simulate", token, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, errors.CodeNoHivesFound, env.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/hives", bytes.NewBufferString("{not json"))
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	status, env = call(t, r, http.MethodPost, "/api/v1/auth/register", "", map[string]string{"email": "x@apiary.io"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, errors.CodeMissingFields, env.Code)
}

func TestSimulateRateLimited(t *testing.T) {
	r := newTestRouter(t, Options{SimulateLimiter: denyAll{}})
	token := signUp(t, r, "cara@apiary.io")

	status, env := call(t, r, http.MethodPost, "/api/v1/readings/simulate", token, nil)
	assert.Equal(t, http.StatusTooManyRequests, status)
	assert.Equal(t, errors.CodeRateLimited, env.Code)

	// other routes are not throttled
	status, _ = call(t, r, http.MethodGet, "/api/v1/hives", token, nil)
	assert.Equal(t, http.StatusOK, status)
}

func idOf(t *testing.T, env envelope) string {
	t.Helper()
	var v struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &v))
	require.NotEmpty(t, v.ID)
	return v.ID
}

func TestWorkflowRoutes(t *testing.T) {
	r, svc := newTestRouterWithService(t, Options{})
	hash, err := svc.Passwords.Hash("hunter2hunter2")
	require.NoError(t, err)
	require.NoError(t, svc.Store.Accounts().Create(context.Background(), &models.Account{
		ID: "acc_admin", FullName: "Root", Email: "root@apiary.io", PasswordHash: hash,
		Role: models.RoleAdmin, Approved: true, CreatedAt: time.Now(),
	}))
	admin := logIn(t, r, "root@apiary.io")

	status, env := call(t, r, http.MethodPost, "/api/v1/admin/accounts", admin, map[string]string{
		"full_name": "Olga Officer", "email": "olga@agri.gov", "password": "hunter2hunter2",
		"confirm_password": "hunter2hunter2", "role": "agricultural_officer",
	})
	require.Equal(t, http.StatusCreated, status, env.Message)
	officerID := idOf(t, env)
	officer := logIn(t, r, "olga@agri.gov")
	keeper := signUp(t, r, "ann@apiary.io")

	status, env = call(t, r, http.MethodGet, "/api/v1/officers", keeper, nil)
	require.Equal(t, http.StatusOK, status)
	var officers []struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &officers))
	require.Len(t, officers, 1)
	assert.Equal(t, officerID, officers[0].ID)

	status, env = call(t, r, http.MethodPost, "/api/v1/reports", keeper, map[string]string{
		"officer_id": officerID, "message": "Bees are restless",
	})
	require.Equal(t, http.StatusCreated, status, env.Message)
	reportID := idOf(t, env)

	status, env = call(t, r, http.MethodGet, "/api/v1/reports/received", officer, nil)
	require.Equal(t, http.StatusOK, status)
	var received []json.RawMessage
	require.NoError(t, json.Unmarshal(env.Data, &received))
	assert.Len(t, received, 1)

	status, env = call(t, r, http.MethodGet, "/api/v1/reports", keeper, nil)
	require.Equal(t, http.StatusOK, status)
	var sent []json.RawMessage
	require.NoError(t, json.Unmarshal(env.Data, &sent))
	assert.Len(t, sent, 1)

	var keeperID string
	accounts, err := svc.Store.Accounts().List(context.Background())
	require.NoError(t, err)
	for _, a := range accounts {
		if a.Email == "ann@apiary.io" {
			keeperID = a.ID
		}
	}
	require.NotEmpty(t, keeperID)

	status, env = call(t, r, http.MethodPost, "/api/v1/recommendations", officer, map[string]interface{}{
		"beekeeper_id": keeperID, "report_id": reportID, "message": "Check the queen",
	})
	require.Equal(t, http.StatusCreated, status, env.Message)
	recID := idOf(t, env)

	status, env = call(t, r, http.MethodDelete, "/api/v1/recommendations/"+recID, keeper, nil)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, errors.CodeForbiddenRole, env.Code)

	status, env = call(t, r, http.MethodGet, "/api/v1/recommendations/received", keeper, nil)
	require.Equal(t, http.StatusOK, status)
	var recs []json.RawMessage
	require.NoError(t, json.Unmarshal(env.Data, &recs))
	assert.Len(t, recs, 1)

	status, _ = call(t, r, http.MethodDelete, "/api/v1/reports/"+reportID, officer, nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestHealth(t *testing.T) {
	r := newTestRouter(t, Options{})
	status, env := call(t, r, http.MethodGet, "/api/v1/health", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.True(t, env.Success)
}
