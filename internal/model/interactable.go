package model

import (
	"encoding/json"
	"fmt"
)

// InteractableID uniquely identifies a named map area within a town
type InteractableID string

// InteractableKind discriminates the interactable variants on the wire
type InteractableKind string

const (
	KindConversationArea  InteractableKind = "conversation"
	KindViewingArea       InteractableKind = "viewing"
	KindPosterSessionArea InteractableKind = "poster"
)

// InteractableModel is the wire projection of one named map area. The
// concrete type is one of ConversationAreaModel, ViewingAreaModel or
// PosterSessionAreaModel, selected by the kind discriminator.
type InteractableModel interface {
	AreaID() InteractableID
	AreaKind() InteractableKind
}

// ConversationAreaModel is the wire shape of a conversation area
type ConversationAreaModel struct {
	Kind          InteractableKind `json:"kind"`
	ID            InteractableID   `json:"id"`
	Topic         string           `json:"topic,omitempty"`
	OccupantsByID []PlayerID       `json:"occupantsByID"`
}

func (m ConversationAreaModel) AreaID() InteractableID     { return m.ID }
func (m ConversationAreaModel) AreaKind() InteractableKind { return KindConversationArea }

// ViewingAreaModel is the wire shape of a viewing area
type ViewingAreaModel struct {
	Kind           InteractableKind `json:"kind"`
	ID             InteractableID   `json:"id"`
	Video          string           `json:"video,omitempty"`
	IsPlaying      bool             `json:"isPlaying"`
	ElapsedTimeSec float64          `json:"elapsedTimeSec"`
	OccupantsByID  []PlayerID       `json:"occupantsByID"`
}

func (m ViewingAreaModel) AreaID() InteractableID     { return m.ID }
func (m ViewingAreaModel) AreaKind() InteractableKind { return KindViewingArea }

// PosterSessionAreaModel is the wire shape of a poster session area
type PosterSessionAreaModel struct {
	Kind          InteractableKind `json:"kind"`
	ID            InteractableID   `json:"id"`
	Title         string           `json:"title,omitempty"`
	ImageContents string           `json:"imageContents,omitempty"`
	Stars         int              `json:"stars"`
	OccupantsByID []PlayerID       `json:"occupantsByID"`
}

func (m PosterSessionAreaModel) AreaID() InteractableID     { return m.ID }
func (m PosterSessionAreaModel) AreaKind() InteractableKind { return KindPosterSessionArea }

// AreaDefinition is a map-authored interactable region before it becomes
// a live area: its kind, id and bounds
type AreaDefinition struct {
	Kind InteractableKind
	ID   InteractableID
	Box  BoundingBox
}

// UnmarshalInteractable decodes an interactable wire payload into the
// concrete model selected by its kind discriminator.
func UnmarshalInteractable(data []byte) (InteractableModel, error) {
	var probe struct {
		Kind InteractableKind `json:"kind"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("decoding interactable kind: %w", err)
	}

	switch probe.Kind {
	case KindConversationArea:
		var m ConversationAreaModel
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, err
		}
		return m, nil
	case KindViewingArea:
		var m ViewingAreaModel
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, err
		}
		return m, nil
	case KindPosterSessionArea:
		var m PosterSessionAreaModel
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, err
		}
		return m, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownInteractableKind, probe.Kind)
	}
}
