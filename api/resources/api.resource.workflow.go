package resources

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/itsatony/w4b_v3/server/apiary/internal/hubservice"
	"github.com/itsatony/w4b_v3/server/apiary/internal/models"
	nuts "github.com/vaudience/go-nuts"
)

// WorkflowHandlers serve the report and recommendation exchange between
// beekeepers and agricultural officers
type WorkflowHandlers struct {
	hubservice *hubservice.HubService
}

// @Summary List agricultural officers
// @Tags workflow
// @Produce json
// @Success 200 {object} models.Envelope
// @Router /officers [get]
// @Security BearerAuth
func (h *WorkflowHandlers) ListOfficers(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)
	officers, err := h.hubservice.ListOfficers(r.Context(), actor(r))
	if err != nil {
		respondWithError(w, requestID, err)
		return
	}
	respondWithData(w, http.StatusOK, "", officers)
}

// @Summary Send a report to an officer
// @Tags workflow
// @Accept json
// @Produce json
// @Param report body models.ReportDraft true "Report"
// @Success 201 {object} models.Envelope
// @Router /reports [post]
// @Security BearerAuth
func (h *WorkflowHandlers) SendReport(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)
	var draft models.ReportDraft
	if err := decodeBody(r, &draft); err != nil {
		respondWithError(w, requestID, err)
		return
	}

	report, err := h.hubservice.SendReport(r.Context(), actor(r), draft)
	if err != nil {
		respondWithError(w, requestID, err)
		return
	}
	respondWithData(w, http.StatusCreated, "report sent", report)
}

// @Summary Edit a sent report
// @Tags workflow
// @Accept json
// @Produce json
// @Param id path string true "Report ID"
// @Param report body models.ReportDraft true "Report"
// @Success 200 {object} models.Envelope
// @Router /reports/{id} [put]
// @Security BearerAuth
func (h *WorkflowHandlers) UpdateReport(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	requestID := nuts.NID("req", 12)
	var draft models.ReportDraft
	if err := decodeBody(r, &draft); err != nil {
		respondWithError(w, requestID, err)
		return
	}

	report, err := h.hubservice.UpdateReport(r.Context(), actor(r), id, draft)
	if err != nil {
		respondWithError(w, requestID, err)
		return
	}
	respondWithData(w, http.StatusOK, "report updated", report)
}

// @Summary Delete a report
// @Description Authors and addressed officers may delete a report
// @Tags workflow
// @Param id path string true "Report ID"
// @Success 200 {object} models.Envelope
// @Router /reports/{id} [delete]
// @Security BearerAuth
func (h *WorkflowHandlers) DeleteReport(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	requestID := nuts.NID("req", 12)
	if err := h.hubservice.DeleteReport(r.Context(), actor(r), id); err != nil {
		respondWithError(w, requestID, err)
		return
	}
	respondWithData(w, http.StatusOK, "report deleted", nil)
}

// @Summary Reports sent by the caller
// @Tags workflow
// @Produce json
// @Success 200 {object} models.Envelope
// @Router /reports/sent [get]
// @Security BearerAuth
func (h *WorkflowHandlers) ListSentReports(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)
	reports, err := h.hubservice.ListSentReports(r.Context(), actor(r))
	if err != nil {
		respondWithError(w, requestID, err)
		return
	}
	respondWithData(w, http.StatusOK, "", reports)
}

// @Summary Reports addressed to the calling officer
// @Tags workflow
// @Produce json
// @Success 200 {object} models.Envelope
// @Router /reports/received [get]
// @Security BearerAuth
func (h *WorkflowHandlers) ListReceivedReports(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)
	reports, err := h.hubservice.ListReceivedReports(r.Context(), actor(r))
	if err != nil {
		respondWithError(w, requestID, err)
		return
	}
	respondWithData(w, http.StatusOK, "", reports)
}

// @Summary Send a recommendation to a beekeeper
// @Tags workflow
// @Accept json
// @Produce json
// @Param recommendation body models.RecommendationDraft true "Recommendation"
// @Success 201 {object} models.Envelope
// @Router /recommendations [post]
// @Security BearerAuth
func (h *WorkflowHandlers) AddRecommendation(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)
	var draft models.RecommendationDraft
	if err := decodeBody(r, &draft); err != nil {
		respondWithError(w, requestID, err)
		return
	}

	rec, err := h.hubservice.AddRecommendation(r.Context(), actor(r), draft)
	if err != nil {
		respondWithError(w, requestID, err)
		return
	}
	respondWithData(w, http.StatusCreated, "recommendation sent", rec)
}

// @Summary Edit a recommendation
// @Tags workflow
// @Accept json
// @Produce json
// @Param id path string true "Recommendation ID"
// @Success 200 {object} models.Envelope
// @Router /recommendations/{id} [put]
// @Security BearerAuth
func (h *WorkflowHandlers) UpdateRecommendation(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	requestID := nuts.NID("req", 12)
	var draft models.RecommendationDraft
	if err := decodeBody(r, &draft); err != nil {
		respondWithError(w, requestID, err)
		return
	}

	rec, err := h.hubservice.UpdateRecommendation(r.Context(), actor(r), id, draft)
	if err != nil {
		respondWithError(w, requestID, err)
		return
	}
	respondWithData(w, http.StatusOK, "recommendation updated", rec)
}

// @Summary Delete a recommendation
// @Tags workflow
// @Param id path string true "Recommendation ID"
// @Success 200 {object} models.Envelope
// @Router /recommendations/{id} [delete]
// @Security BearerAuth
func (h *WorkflowHandlers) DeleteRecommendation(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	requestID := nuts.NID("req", 12)
	if err := h.hubservice.DeleteRecommendation(r.Context(), actor(r), id); err != nil {
		respondWithError(w, requestID, err)
		return
	}
	respondWithData(w, http.StatusOK, "recommendation deleted", nil)
}

// @Summary Recommendations sent by the calling officer
// @Tags workflow
// @Produce json
// @Success 200 {object} models.Envelope
// @Router /recommendations/sent [get]
// @Security BearerAuth
func (h *WorkflowHandlers) ListSentRecommendations(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)
	recs, err := h.hubservice.ListSentRecommendations(r.Context(), actor(r))
	if err != nil {
		respondWithError(w, requestID, err)
		return
	}
	respondWithData(w, http.StatusOK, "", recs)
}

// @Summary Recommendations received by the calling beekeeper
// @Tags workflow
// @Produce json
// @Success 200 {object} models.Envelope
// @Router /recommendations/received [get]
// @Security BearerAuth
func (h *WorkflowHandlers) ListReceivedRecommendations(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)
	recs, err := h.hubservice.ListReceivedRecommendations(r.Context(), actor(r))
	if err != nil {
		respondWithError(w, requestID, err)
		return
	}
	respondWithData(w, http.StatusOK, "", recs)
}
