package model

import "errors"

// Common errors used across the application
var (
	// Town errors
	ErrTownNotFound    = errors.New("town not found")
	ErrTownFull        = errors.New("town is at maximum occupancy")
	ErrInvalidPassword = errors.New("invalid town update password")

	// Session errors
	ErrInvalidSessionToken = errors.New("invalid session token")

	// Map errors
	ErrMapMissingObjectLayer = errors.New("map has no object layer")
	ErrMapDuplicateArea      = errors.New("map has duplicate area ids")
	ErrMapOverlappingAreas   = errors.New("map has overlapping areas")

	// Interactable errors
	ErrInteractableNotFound    = errors.New("interactable not found")
	ErrUnknownInteractableKind = errors.New("unknown interactable kind")
	ErrEmptyTopic              = errors.New("conversation topic must not be empty")
	ErrTopicInUse              = errors.New("conversation area already has a topic")
	ErrEmptyVideo              = errors.New("viewing area video must not be empty")
	ErrVideoInUse              = errors.New("viewing area is already showing a video")
	ErrEmptyPosterImage        = errors.New("poster session area has no image")
	ErrPosterInUse             = errors.New("poster session area already has a poster")

	// Poll errors
	ErrPollNotFound        = errors.New("poll not found")
	ErrNotPollCreator      = errors.New("only the poll creator may delete it")
	ErrEmptyQuestion       = errors.New("poll question must not be empty")
	ErrEmptyOption         = errors.New("poll options must not be empty")
	ErrBadOptionCount      = errors.New("poll must have between 2 and 8 options")
	ErrOptionOutOfBounds   = errors.New("vote option index out of bounds")
	ErrMultiSelectDisabled = errors.New("poll does not allow multiple selections")
	ErrAlreadyVoted        = errors.New("player has already voted in this poll")
	ErrEmptyVote           = errors.New("vote must select at least one option")
)
