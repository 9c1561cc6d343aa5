package resources

import (
	"net/http"

	"github.com/itsatony/w4b_v3/server/apiary/internal/hubservice"
	"github.com/itsatony/w4b_v3/server/apiary/internal/models"
	nuts "github.com/vaudience/go-nuts"
)

// AuthHandlers serve the public sign-up and login endpoints
type AuthHandlers struct {
	hubservice *hubservice.HubService
}

// @Summary Register a beekeeper account
// @Tags auth
// @Accept json
// @Produce json
// @Param registration body models.Registration true "Registration"
// @Success 201 {object} models.Envelope
// @Failure 400 {object} models.Envelope
// @Failure 409 {object} models.Envelope
// @Router /auth/register [post]
func (h *AuthHandlers) Register(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)
	var reg models.Registration
	if err := decodeBody(r, &reg); err != nil {
		respondWithError(w, requestID, err)
		return
	}

	account, err := h.hubservice.Register(r.Context(), reg)
	if err != nil {
		respondWithError(w, requestID, err)
		return
	}
	respondWithData(w, http.StatusCreated, "registration successful", account)
}

// @Summary Log in
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body models.Credentials true "Credentials"
// @Success 200 {object} models.Envelope
// @Failure 401 {object} models.Envelope
// @Router /auth/login [post]
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)
	var creds models.Credentials
	if err := decodeBody(r, &creds); err != nil {
		respondWithError(w, requestID, err)
		return
	}

	session, err := h.hubservice.Login(r.Context(), creds)
	if err != nil {
		respondWithError(w, requestID, err)
		return
	}
	respondWithData(w, http.StatusOK, "login successful", session)
}
