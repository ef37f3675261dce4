package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/townsquare-go/internal/api/apierr"
	"github.com/mcoot/townsquare-go/internal/api/middleware"
	"github.com/mcoot/townsquare-go/internal/api/request"
	"github.com/mcoot/townsquare-go/internal/api/response"
	"github.com/mcoot/townsquare-go/internal/model"
)

// AreaHandler handles interactable area endpoints. The town itself is
// resolved by the session middleware.
type AreaHandler struct{}

// NewAreaHandler creates a new area handler
func NewAreaHandler() *AreaHandler {
	return &AreaHandler{}
}

// CreateConversationArea handles POST /api/v1/towns/{townID}/conversationArea
func (h *AreaHandler) CreateConversationArea(w http.ResponseWriter, r *http.Request) {
	t := middleware.MustGetTown(r.Context())

	var req request.CreateConversationAreaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidParametersError())
		return
	}

	if err := t.AddConversationArea(r.Context(), model.InteractableID(req.ID), req.Topic); err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// CreateViewingArea handles POST /api/v1/towns/{townID}/viewingArea
func (h *AreaHandler) CreateViewingArea(w http.ResponseWriter, r *http.Request) {
	t := middleware.MustGetTown(r.Context())

	var req request.CreateViewingAreaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidParametersError())
		return
	}

	if err := t.AddViewingArea(r.Context(), model.InteractableID(req.ID), req.Video); err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// CreatePosterSessionArea handles POST /api/v1/towns/{townID}/posterSessionArea
func (h *AreaHandler) CreatePosterSessionArea(w http.ResponseWriter, r *http.Request) {
	t := middleware.MustGetTown(r.Context())

	var req request.CreatePosterSessionAreaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidParametersError())
		return
	}

	if err := t.AddPosterSessionArea(r.Context(), model.InteractableID(req.ID), req.Title, req.ImageContents); err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// GetPosterImage handles GET /api/v1/towns/{townID}/posterSessionArea/{areaID}/imageContents
func (h *AreaHandler) GetPosterImage(w http.ResponseWriter, r *http.Request) {
	t := middleware.MustGetTown(r.Context())
	areaID := model.InteractableID(mux.Vars(r)["areaID"])

	contents, err := t.PosterImageContents(r.Context(), areaID)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.ImageContentsResponse{ImageContents: contents})
}

// StarPoster handles POST /api/v1/towns/{townID}/posterSessionArea/{areaID}/stars
func (h *AreaHandler) StarPoster(w http.ResponseWriter, r *http.Request) {
	t := middleware.MustGetTown(r.Context())
	areaID := model.InteractableID(mux.Vars(r)["areaID"])

	stars, err := t.StarPoster(r.Context(), areaID)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.StarsResponse{Stars: stars})
}
