package monitoring

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, s *Service) string {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	return string(body)
}

func TestCountersAreExported(t *testing.T) {
	s := NewService(Config{MetricsEnabled: true})
	s.RecordReading("critical")
	s.RecordReading("critical")
	s.RecordAlert()
	s.RecordDenial("hive.delete", "NOT_FOUND_OR_UNAUTHORIZED")
	s.RecordEvent("hive.deleted", map[string]string{"id": "hv_1"})

	out := scrape(t, s)
	assert.Contains(t, out, `apiary_ingest_readings_total{status="critical"} 2`)
	assert.Contains(t, out, `apiary_ingest_alerts_total 1`)
	assert.Contains(t, out, `apiary_access_denials_total{action="hive.delete",code="NOT_FOUND_OR_UNAUTHORIZED"} 1`)
	assert.Contains(t, out, `apiary_events_total{event="hive.deleted"} 1`)
}

func TestMiddlewareUsesRouteTemplate(t *testing.T) {
	s := NewService(Config{})
	r := mux.NewRouter()
	r.Use(s.Middleware)
	r.HandleFunc("/api/v1/hives/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/hives/hv_123", nil))

	out := scrape(t, s)
	assert.Contains(t, out, `apiary_http_requests_total{method="GET",route="/api/v1/hives/{id}",status="404"} 1`)
}

func TestServicesDoNotShareRegistries(t *testing.T) {
	a := NewService(Config{})
	b := NewService(Config{})
	a.RecordAlert()
	assert.Contains(t, scrape(t, a), "apiary_ingest_alerts_total 1")
	assert.Contains(t, scrape(t, b), "apiary_ingest_alerts_total 0")
}
