// FilePath: server/apiary/api/resources/api.resource.hives.go
package resources

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/itsatony/w4b_v3/server/apiary/internal/hubservice"
	"github.com/itsatony/w4b_v3/server/apiary/internal/models"
	nuts "github.com/vaudience/go-nuts"
)

// HiveHandlers encapsulates the hive-related HTTP handlers
type HiveHandlers struct {
	hubservice *hubservice.HubService
}

// @Summary Create a new hive
// @Description Create a new hive owned by the caller
// @Tags hives
// @Accept json
// @Produce json
// @Param hive body models.Hive true "Hive details"
// @Success 201 {object} models.Envelope
// @Failure 400 {object} models.Envelope
// @Failure 401 {object} models.Envelope
// @Router /hives [post]
// @Security BearerAuth
func (h *HiveHandlers) CreateHive(w http.ResponseWriter, r *http.Request) {
	var hive models.Hive
	requestID := nuts.NID("req", 12)

	if err := decodeBody(r, &hive); err != nil {
		respondWithError(w, requestID, err)
		return
	}

	if err := h.hubservice.CreateHive(r.Context(), actor(r), &hive); err != nil {
		respondWithError(w, requestID, err)
		return
	}

	respondWithData(w, http.StatusCreated, "hive created", hive)
}

// @Summary List hives
// @Description List the caller's hives ordered by name. view=refs returns ids and names only.
// @Tags hives
// @Produce json
// @Success 200 {object} models.Envelope
// @Router /hives [get]
// @Security BearerAuth
func (h *HiveHandlers) ListHives(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	if r.URL.Query().Get("view") == "refs" {
		refs, err := h.hubservice.ListHiveRefs(r.Context(), actor(r))
		if err != nil {
			respondWithError(w, requestID, err)
			return
		}
		respondWithData(w, http.StatusOK, "", refs)
		return
	}

	hives, err := h.hubservice.ListHives(r.Context(), actor(r))
	if err != nil {
		respondWithError(w, requestID, err)
		return
	}

	respondWithData(w, http.StatusOK, "", hives)
}

// @Summary Hive overview
// @Description Every owned hive with its latest reading
// @Tags hives
// @Produce json
// @Success 200 {object} models.Envelope
// @Router /hives/overview [get]
// @Security BearerAuth
func (h *HiveHandlers) Overview(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	overview, err := h.hubservice.GetOverview(r.Context(), actor(r))
	if err != nil {
		respondWithError(w, requestID, err)
		return
	}

	respondWithData(w, http.StatusOK, "", overview)
}

// @Summary Update a hive
// @Tags hives
// @Accept json
// @Produce json
// @Param id path string true "Hive ID"
// @Param hive body models.Hive true "Updated hive details"
// @Success 200 {object} models.Envelope
// @Failure 400 {object} models.Envelope
// @Failure 403 {object} models.Envelope
// @Router /hives/{id} [put]
// @Security BearerAuth
func (h *HiveHandlers) UpdateHive(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id := vars["id"]
	requestID := nuts.NID("req", 12)

	var hive models.Hive
	if err := decodeBody(r, &hive); err != nil {
		respondWithError(w, requestID, err)
		return
	}

	hive.ID = id
	updated, err := h.hubservice.UpdateHive(r.Context(), actor(r), &hive)
	if err != nil {
		respondWithError(w, requestID, err)
		return
	}

	respondWithData(w, http.StatusOK, "hive updated", updated)
}

// @Summary Delete a hive
// @Description Deletes the hive with its sensors, readings and alerts
// @Tags hives
// @Param id path string true "Hive ID"
// @Success 200 {object} models.Envelope
// @Failure 403 {object} models.Envelope
// @Router /hives/{id} [delete]
// @Security BearerAuth
func (h *HiveHandlers) DeleteHive(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	requestID := nuts.NID("req", 12)

	if err := h.hubservice.DeleteHive(r.Context(), actor(r), id); err != nil {
		respondWithError(w, requestID, err)
		return
	}

	respondWithData(w, http.StatusOK, "hive deleted", nil)
}
