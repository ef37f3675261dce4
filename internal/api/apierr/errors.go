package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/townsquare-go/internal/model"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Error codes. Validation, not-found and authorization failures are all
// reported as INVALID_PARAMETERS with an identical message, so a caller
// cannot probe for the existence of towns, players or polls.
const (
	CodeInvalidParameters = "INVALID_PARAMETERS"
	CodeInternalError     = "INTERNAL_ERROR"
)

// invalidParametersMessage is deliberately the same for every rejected
// request
const invalidParametersMessage = "Invalid values specified"

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// invalidParameterErrors is every domain error the API surfaces as a
// plain bad-request
var invalidParameterErrors = []error{
	model.ErrTownNotFound,
	model.ErrTownFull,
	model.ErrInvalidPassword,
	model.ErrInvalidSessionToken,
	model.ErrInteractableNotFound,
	model.ErrEmptyTopic,
	model.ErrTopicInUse,
	model.ErrEmptyVideo,
	model.ErrVideoInUse,
	model.ErrEmptyPosterImage,
	model.ErrPosterInUse,
	model.ErrPollNotFound,
	model.ErrNotPollCreator,
	model.ErrEmptyQuestion,
	model.ErrEmptyOption,
	model.ErrBadOptionCount,
	model.ErrOptionOutOfBounds,
	model.ErrMultiSelectDisabled,
	model.ErrAlreadyVoted,
	model.ErrEmptyVote,
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	for _, sentinel := range invalidParameterErrors {
		if errors.Is(err, sentinel) {
			return newInvalidParameters()
		}
	}

	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}

func newInvalidParameters() *httpError {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidParameters, invalidParametersMessage}}
}

// NewInvalidParametersError creates the uniform bad-request error for
// failures detected at the HTTP layer (malformed body, missing headers)
func NewInvalidParametersError() error {
	return newInvalidParameters()
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
