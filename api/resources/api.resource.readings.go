package resources

import (
	"net/http"

	"github.com/itsatony/w4b_v3/server/apiary/internal/hubservice"
	"github.com/itsatony/w4b_v3/server/apiary/internal/models"
	nuts "github.com/vaudience/go-nuts"
)

// ReadingHandlers serve ingestion and the reading and alert views
type ReadingHandlers struct {
	hubservice *hubservice.HubService
}

type simulateRequest struct {
	HiveID string `json:"hive_id"`
}

// @Summary Simulate a reading
// @Description Ingests one simulated reading; critical readings raise one alert
// @Tags readings
// @Accept json
// @Produce json
// @Param request body simulateRequest false "Target hive, defaults to the first hive"
// @Success 201 {object} models.Envelope
// @Failure 404 {object} models.Envelope
// @Failure 429 {object} models.Envelope
// @Router /readings/simulate [post]
// @Security BearerAuth
func (h *ReadingHandlers) Simulate(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)
	var req simulateRequest
	if err := decodeOptionalBody(r, &req); err != nil {
		respondWithError(w, requestID, err)
		return
	}
	if req.HiveID == "" {
		req.HiveID = r.URL.Query().Get("hive_id")
	}

	result, err := h.hubservice.SimulateReading(r.Context(), actor(r), req.HiveID)
	if err != nil {
		respondWithError(w, requestID, err)
		return
	}

	message := "reading recorded"
	if result.AlertCreated {
		message = "critical reading recorded, alert created"
	}
	respondWithData(w, http.StatusCreated, message, result)
}

// @Summary Live readings
// @Tags readings
// @Produce json
// @Param hive_id query string false "Restrict to one hive"
// @Success 200 {object} models.Envelope
// @Router /readings/live [get]
// @Security BearerAuth
func (h *ReadingHandlers) Live(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)
	var params models.ListParams
	if err := decodeQuery(r, &params); err != nil {
		respondWithError(w, requestID, err)
		return
	}

	readings, err := h.hubservice.LiveReadings(r.Context(), actor(r), params.HiveID)
	if err != nil {
		respondWithError(w, requestID, err)
		return
	}
	respondWithData(w, http.StatusOK, "", readings)
}

// @Summary Latest alerts
// @Tags alerts
// @Produce json
// @Success 200 {object} models.Envelope
// @Router /alerts [get]
// @Security BearerAuth
func (h *ReadingHandlers) Alerts(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)
	alerts, err := h.hubservice.Alerts(r.Context(), actor(r))
	if err != nil {
		respondWithError(w, requestID, err)
		return
	}
	respondWithData(w, http.StatusOK, "", alerts)
}
