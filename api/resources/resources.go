// FilePath: server/apiary/api/resources/resources.go
package resources

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"

	"github.com/gorilla/schema"
	"github.com/itsatony/w4b_v3/server/apiary/api/middleware"
	"github.com/itsatony/w4b_v3/server/apiary/internal/errors"
	"github.com/itsatony/w4b_v3/server/apiary/internal/hubservice"
	"github.com/itsatony/w4b_v3/server/apiary/internal/models"
	nuts "github.com/vaudience/go-nuts"
)

// Resources holds all HTTP resource handlers
type Resources struct {
	Auth        *AuthHandlers
	Hives       *HiveHandlers
	Sensors     *SensorHandlers
	Readings    *ReadingHandlers
	Workflow    *WorkflowHandlers
	Admin       *AdminHandlers
	HealthCheck func(w http.ResponseWriter, r *http.Request)
	Metrics     func(w http.ResponseWriter, r *http.Request)
}

// NewResources creates a new Resources instance
func NewResources(svc *hubservice.HubService) *Resources {
	return &Resources{
		Auth:     &AuthHandlers{hubservice: svc},
		Hives:    &HiveHandlers{hubservice: svc},
		Sensors:  &SensorHandlers{hubservice: svc},
		Readings: &ReadingHandlers{hubservice: svc},
		Workflow: &WorkflowHandlers{hubservice: svc},
		Admin:    &AdminHandlers{hubservice: svc},
		HealthCheck: func(w http.ResponseWriter, r *http.Request) {
			respondWithData(w, http.StatusOK, "ok", nil)
		},
		Metrics: func(w http.ResponseWriter, r *http.Request) {
			respondWithError(w, nuts.NID("req", 12), errors.NewNotFoundError(errors.CodeNotFound, "metrics are disabled", nil))
		},
	}
}

// SetHealthCheck sets the health check handler
func (r *Resources) SetHealthCheck(h func(w http.ResponseWriter, r *http.Request)) {
	r.HealthCheck = h
}

// SetMetrics sets the metrics handler
func (r *Resources) SetMetrics(h func(w http.ResponseWriter, r *http.Request)) {
	r.Metrics = h
}

// Health reports liveness together with database reachability.
func Health(ping func(ctx context.Context) error) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		requestID := nuts.NID("req", 12)
		if err := ping(r.Context()); err != nil {
			respondWithError(w, requestID, errors.NewDatabaseError("database unavailable", err))
			return
		}
		respondWithData(w, http.StatusOK, "ok", nil)
	}
}

var queryDecoder = newQueryDecoder()

func newQueryDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	return d
}

func decodeQuery(r *http.Request, dst interface{}) error {
	if err := queryDecoder.Decode(dst, r.URL.Query()); err != nil {
		return errors.NewValidationError(errors.CodeMissingFields, "invalid query parameters", err)
	}
	return nil
}

func decodeBody(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errors.NewValidationError(errors.CodeMissingFields, "invalid request body", err)
	}
	return nil
}

// decodeOptionalBody accepts an empty body.
func decodeOptionalBody(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return nil
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !stderrors.Is(err, io.EOF) {
		return errors.NewValidationError(errors.CodeMissingFields, "invalid request body", err)
	}
	return nil
}

func actor(r *http.Request) *models.Actor {
	return middleware.ActorFrom(r.Context())
}

func respondWithError(w http.ResponseWriter, requestID string, err error) {
	apiErr := errors.Wrap(err)
	if apiErr.RequestID == "" {
		apiErr = apiErr.WithRequestID(requestID)
	}
	if apiErr.Status >= http.StatusInternalServerError {
		nuts.L.Errorf("[API] %s", apiErr.Error())
	} else {
		nuts.L.Infof("[API] %s", apiErr.Error())
	}
	respondWithJSON(w, apiErr.Status, models.Envelope{
		Success:   false,
		Message:   apiErr.Message,
		Code:      apiErr.Code,
		RequestID: apiErr.RequestID,
	})
}

func respondWithData(w http.ResponseWriter, status int, message string, data interface{}) {
	respondWithJSON(w, status, models.Envelope{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(payload)
}
