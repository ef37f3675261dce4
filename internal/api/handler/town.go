package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/townsquare-go/internal/api/apierr"
	"github.com/mcoot/townsquare-go/internal/api/request"
	"github.com/mcoot/townsquare-go/internal/api/response"
	"github.com/mcoot/townsquare-go/internal/model"
	"github.com/mcoot/townsquare-go/internal/services/registry"
)

// TownPasswordHeader carries the one-time update password issued at
// town creation
const TownPasswordHeader = "X-Town-Password"

// TownHandler handles town lifecycle endpoints
type TownHandler struct {
	registry *registry.Controller
}

// NewTownHandler creates a new town handler
func NewTownHandler(reg *registry.Controller) *TownHandler {
	return &TownHandler{registry: reg}
}

// List handles GET /api/v1/towns
func (h *TownHandler) List(w http.ResponseWriter, r *http.Request) {
	towns := h.registry.ListTowns()
	if towns == nil {
		towns = []model.TownSummary{}
	}
	response.JSON(w, http.StatusOK, response.ListTownsResponse{Towns: towns})
}

// Create handles POST /api/v1/towns
func (h *TownHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateTownRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.FriendlyName == "" {
		apierr.WriteError(w, apierr.NewInvalidParametersError())
		return
	}

	townID, password, err := h.registry.CreateTown(r.Context(), req.FriendlyName, req.IsPubliclyListed)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.CreateTownResponse{
		TownID:             townID,
		TownUpdatePassword: password,
	})
}

// Update handles PATCH /api/v1/towns/{townID}
func (h *TownHandler) Update(w http.ResponseWriter, r *http.Request) {
	townID := model.TownID(mux.Vars(r)["townID"])

	var req request.UpdateTownRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidParametersError())
		return
	}

	err := h.registry.UpdateTown(r.Context(), townID, r.Header.Get(TownPasswordHeader), model.TownSettingsUpdate{
		FriendlyName:     req.FriendlyName,
		IsPubliclyListed: req.IsPubliclyListed,
	})
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// Delete handles DELETE /api/v1/towns/{townID}
func (h *TownHandler) Delete(w http.ResponseWriter, r *http.Request) {
	townID := model.TownID(mux.Vars(r)["townID"])

	if err := h.registry.DeleteTown(r.Context(), townID, r.Header.Get(TownPasswordHeader)); err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.NoContent(w)
}
