package resources

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/itsatony/w4b_v3/server/apiary/internal/hubservice"
	"github.com/itsatony/w4b_v3/server/apiary/internal/models"
	nuts "github.com/vaudience/go-nuts"
)

// AdminHandlers serve account administration
type AdminHandlers struct {
	hubservice *hubservice.HubService
}

// @Summary List accounts
// @Tags admin
// @Produce json
// @Success 200 {object} models.Envelope
// @Router /admin/accounts [get]
// @Security BearerAuth
func (h *AdminHandlers) ListAccounts(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)
	accounts, err := h.hubservice.ListAccounts(r.Context(), actor(r))
	if err != nil {
		respondWithError(w, requestID, err)
		return
	}
	respondWithData(w, http.StatusOK, "", accounts)
}

// @Summary Create an account with any role
// @Tags admin
// @Accept json
// @Produce json
// @Param account body models.Registration true "Account"
// @Success 201 {object} models.Envelope
// @Router /admin/accounts [post]
// @Security BearerAuth
func (h *AdminHandlers) CreateAccount(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)
	var reg models.Registration
	if err := decodeBody(r, &reg); err != nil {
		respondWithError(w, requestID, err)
		return
	}

	account, err := h.hubservice.CreateAccount(r.Context(), actor(r), reg)
	if err != nil {
		respondWithError(w, requestID, err)
		return
	}
	respondWithData(w, http.StatusCreated, "account created", account)
}

// @Summary Approve an account
// @Tags admin
// @Param id path string true "Account ID"
// @Success 200 {object} models.Envelope
// @Router /admin/accounts/{id}/approve [post]
// @Security BearerAuth
func (h *AdminHandlers) ApproveAccount(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	requestID := nuts.NID("req", 12)
	account, err := h.hubservice.ApproveAccount(r.Context(), actor(r), id)
	if err != nil {
		respondWithError(w, requestID, err)
		return
	}
	respondWithData(w, http.StatusOK, "account approved", account)
}

// @Summary Update an account
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "Account ID"
// @Param account body models.AccountUpdate true "Changes"
// @Success 200 {object} models.Envelope
// @Router /admin/accounts/{id} [put]
// @Security BearerAuth
func (h *AdminHandlers) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	requestID := nuts.NID("req", 12)
	var upd models.AccountUpdate
	if err := decodeBody(r, &upd); err != nil {
		respondWithError(w, requestID, err)
		return
	}

	account, err := h.hubservice.UpdateAccount(r.Context(), actor(r), id, &upd)
	if err != nil {
		respondWithError(w, requestID, err)
		return
	}
	respondWithData(w, http.StatusOK, "account updated", account)
}

// @Summary Delete an account
// @Tags admin
// @Param id path string true "Account ID"
// @Success 200 {object} models.Envelope
// @Router /admin/accounts/{id} [delete]
// @Security BearerAuth
func (h *AdminHandlers) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	requestID := nuts.NID("req", 12)
	if err := h.hubservice.DeleteAccount(r.Context(), actor(r), id); err != nil {
		respondWithError(w, requestID, err)
		return
	}
	respondWithData(w, http.StatusOK, "account deleted", nil)
}
