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

// PollHandler handles poll endpoints
type PollHandler struct{}

// NewPollHandler creates a new poll handler
func NewPollHandler() *PollHandler {
	return &PollHandler{}
}

// Create handles POST /api/v1/towns/{townID}/polls
func (h *PollHandler) Create(w http.ResponseWriter, r *http.Request) {
	t := middleware.MustGetTown(r.Context())
	player := middleware.MustGetPlayer(r.Context())

	var req request.CreatePollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidParametersError())
		return
	}

	pollID, err := t.CreatePoll(player.ID, req.Question, req.Options, req.Settings)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.CreatePollResponse{PollID: pollID})
}

// List handles GET /api/v1/towns/{townID}/polls
func (h *PollHandler) List(w http.ResponseWriter, r *http.Request) {
	t := middleware.MustGetTown(r.Context())
	player := middleware.MustGetPlayer(r.Context())

	polls := t.GetAllPolls(player.ID)
	if polls == nil {
		polls = []model.PollInfo{}
	}
	response.JSON(w, http.StatusOK, polls)
}

// Results handles GET /api/v1/towns/{townID}/polls/{pollID}
func (h *PollHandler) Results(w http.ResponseWriter, r *http.Request) {
	t := middleware.MustGetTown(r.Context())
	player := middleware.MustGetPlayer(r.Context())
	pollID := model.PollID(mux.Vars(r)["pollID"])

	results, userVotes, err := t.GetPollResults(player.ID, pollID)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	if userVotes == nil {
		userVotes = []int{}
	}

	response.JSON(w, http.StatusOK, response.PollResultsResponse{
		PollModel: results,
		UserVotes: userVotes,
	})
}

// Vote handles POST /api/v1/towns/{townID}/polls/{pollID}/vote
func (h *PollHandler) Vote(w http.ResponseWriter, r *http.Request) {
	t := middleware.MustGetTown(r.Context())
	player := middleware.MustGetPlayer(r.Context())
	pollID := model.PollID(mux.Vars(r)["pollID"])

	var req request.VoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidParametersError())
		return
	}

	voter := model.Voter{ID: player.ID, Name: player.UserName}
	if err := t.VoteInPoll(pollID, voter, req.UserVotes); err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// Delete handles DELETE /api/v1/towns/{townID}/polls/{pollID}
func (h *PollHandler) Delete(w http.ResponseWriter, r *http.Request) {
	t := middleware.MustGetTown(r.Context())
	player := middleware.MustGetPlayer(r.Context())
	pollID := model.PollID(mux.Vars(r)["pollID"])

	if err := t.DeletePoll(player.ID, pollID); err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.NoContent(w)
}
