// FilePath: server/apiary/api/resources/api.resource.sensors.go
package resources

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/itsatony/w4b_v3/server/apiary/internal/hubservice"
	nuts "github.com/vaudience/go-nuts"
)

// SensorHandlers encapsulates the sensor-related HTTP handlers
type SensorHandlers struct {
	hubservice *hubservice.HubService
}

// @Summary Register a sensor
// @Tags sensors
// @Accept json
// @Produce json
// @Param sensor body hubservice.SensorInput true "Sensor"
// @Success 201 {object} models.Envelope
// @Failure 400 {object} models.Envelope
// @Failure 409 {object} models.Envelope
// @Router /sensors [post]
// @Security BearerAuth
func (h *SensorHandlers) RegisterSensor(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)
	var in hubservice.SensorInput
	if err := decodeBody(r, &in); err != nil {
		respondWithError(w, requestID, err)
		return
	}

	sensor, err := h.hubservice.RegisterSensor(r.Context(), actor(r), in)
	if err != nil {
		respondWithError(w, requestID, err)
		return
	}
	respondWithData(w, http.StatusCreated, "sensor registered", sensor)
}

// @Summary List sensors
// @Tags sensors
// @Produce json
// @Success 200 {object} models.Envelope
// @Router /sensors [get]
// @Security BearerAuth
func (h *SensorHandlers) ListSensors(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)
	sensors, err := h.hubservice.ListSensors(r.Context(), actor(r))
	if err != nil {
		respondWithError(w, requestID, err)
		return
	}
	respondWithData(w, http.StatusOK, "", sensors)
}

// @Summary Update a sensor
// @Tags sensors
// @Accept json
// @Produce json
// @Param id path string true "Sensor ID"
// @Param sensor body hubservice.SensorInput true "Sensor"
// @Success 200 {object} models.Envelope
// @Router /sensors/{id} [put]
// @Security BearerAuth
func (h *SensorHandlers) UpdateSensor(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	requestID := nuts.NID("req", 12)
	var in hubservice.SensorInput
	if err := decodeBody(r, &in); err != nil {
		respondWithError(w, requestID, err)
		return
	}

	sensor, err := h.hubservice.UpdateSensor(r.Context(), actor(r), id, in)
	if err != nil {
		respondWithError(w, requestID, err)
		return
	}
	respondWithData(w, http.StatusOK, "sensor updated", sensor)
}

// @Summary Delete a sensor
// @Tags sensors
// @Param id path string true "Sensor ID"
// @Success 200 {object} models.Envelope
// @Router /sensors/{id} [delete]
// @Security BearerAuth
func (h *SensorHandlers) DeleteSensor(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	requestID := nuts.NID("req", 12)
	if err := h.hubservice.DeleteSensor(r.Context(), actor(r), id); err != nil {
		respondWithError(w, requestID, err)
		return
	}
	respondWithData(w, http.StatusOK, "sensor deleted", nil)
}

// @Summary Latest readings of a sensor
// @Tags sensors
// @Produce json
// @Param id path string true "Sensor ID"
// @Success 200 {object} models.Envelope
// @Router /sensors/{id}/readings [get]
// @Security BearerAuth
func (h *SensorHandlers) GetSensorReadings(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	requestID := nuts.NID("req", 12)
	readings, err := h.hubservice.SensorReadings(r.Context(), actor(r), id)
	if err != nil {
		respondWithError(w, requestID, err)
		return
	}
	respondWithData(w, http.StatusOK, "", readings)
}
