package town

import (
	"github.com/mcoot/townsquare-go/internal/model"
)

// Interactable is a named region of the town map that players occupy by
// standing inside its bounding box. Implementations hold the per-kind
// session state (topic, video, poster) and reset it when the last
// occupant leaves.
type Interactable interface {
	ID() model.InteractableID
	Kind() model.InteractableKind
	Box() model.BoundingBox

	// IsActive reports whether the area has a live session
	IsActive() bool

	// AddOccupant records a player inside the area. Idempotent.
	AddOccupant(id model.PlayerID)

	// RemoveOccupant removes a player from the area. When the last
	// occupant leaves, the area's session state resets.
	RemoveOccupant(id model.PlayerID)

	// Occupants returns the current occupant IDs in join order
	Occupants() []model.PlayerID

	// ApplyUpdate applies a client-sent model to the area and reports
	// whether anything was applied. Areas whose state is only mutable
	// through the REST surface return false.
	ApplyUpdate(m model.InteractableModel) bool

	// ToModel returns the wire representation of the area
	ToModel() model.InteractableModel
}

// occupantSet tracks occupants preserving join order
type occupantSet struct {
	ids []model.PlayerID
}

func (o *occupantSet) add(id model.PlayerID) {
	for _, existing := range o.ids {
		if existing == id {
			return
		}
	}
	o.ids = append(o.ids, id)
}

func (o *occupantSet) remove(id model.PlayerID) {
	for i, existing := range o.ids {
		if existing == id {
			o.ids = append(o.ids[:i], o.ids[i+1:]...)
			return
		}
	}
}

func (o *occupantSet) list() []model.PlayerID {
	out := make([]model.PlayerID, len(o.ids))
	copy(out, o.ids)
	return out
}

func (o *occupantSet) empty() bool {
	return len(o.ids) == 0
}

// ConversationArea is an interactable hosting a free-form discussion
// under a topic. The topic is set through the REST surface and clears
// when the area empties.
type ConversationArea struct {
	id        model.InteractableID
	box       model.BoundingBox
	topic     string
	occupants occupantSet
}

func NewConversationArea(def model.AreaDefinition) *ConversationArea {
	return &ConversationArea{id: def.ID, box: def.Box}
}

var _ Interactable = (*ConversationArea)(nil)

func (a *ConversationArea) ID() model.InteractableID     { return a.id }
func (a *ConversationArea) Kind() model.InteractableKind { return model.KindConversationArea }
func (a *ConversationArea) Box() model.BoundingBox       { return a.box }

func (a *ConversationArea) IsActive() bool {
	return a.topic != ""
}

// SetTopic activates the area with a discussion topic
func (a *ConversationArea) SetTopic(topic string) error {
	if topic == "" {
		return model.ErrEmptyTopic
	}
	if a.topic != "" {
		// A duplicate activation with the identical topic is a no-op
		if topic == a.topic {
			return nil
		}
		return model.ErrTopicInUse
	}
	a.topic = topic
	return nil
}

func (a *ConversationArea) AddOccupant(id model.PlayerID) {
	a.occupants.add(id)
}

func (a *ConversationArea) RemoveOccupant(id model.PlayerID) {
	a.occupants.remove(id)
	if a.occupants.empty() {
		a.topic = ""
	}
}

func (a *ConversationArea) Occupants() []model.PlayerID {
	return a.occupants.list()
}

func (a *ConversationArea) ApplyUpdate(m model.InteractableModel) bool {
	// Topics change through the REST surface only
	return false
}

func (a *ConversationArea) ToModel() model.InteractableModel {
	return model.ConversationAreaModel{
		Kind:          model.KindConversationArea,
		ID:            a.id,
		Topic:         a.topic,
		OccupantsByID: a.occupants.list(),
	}
}

// ViewingArea is an interactable playing a shared video. Playback state
// is driven by the occupants' clients over the socket.
type ViewingArea struct {
	id        model.InteractableID
	box       model.BoundingBox
	video     string
	isPlaying bool
	elapsed   float64
	occupants occupantSet
}

func NewViewingArea(def model.AreaDefinition) *ViewingArea {
	return &ViewingArea{id: def.ID, box: def.Box}
}

var _ Interactable = (*ViewingArea)(nil)

func (a *ViewingArea) ID() model.InteractableID     { return a.id }
func (a *ViewingArea) Kind() model.InteractableKind { return model.KindViewingArea }
func (a *ViewingArea) Box() model.BoundingBox       { return a.box }

func (a *ViewingArea) IsActive() bool {
	return a.video != ""
}

// Activate starts a viewing session with the given video. Re-activating
// with the video already playing is a no-op; a different video while one
// is playing is rejected.
func (a *ViewingArea) Activate(video string) error {
	if video == "" {
		return model.ErrEmptyVideo
	}
	if a.video != "" {
		if a.video == video {
			return nil
		}
		return model.ErrVideoInUse
	}
	a.video = video
	a.isPlaying = true
	a.elapsed = 0
	return nil
}

func (a *ViewingArea) AddOccupant(id model.PlayerID) {
	a.occupants.add(id)
}

func (a *ViewingArea) RemoveOccupant(id model.PlayerID) {
	a.occupants.remove(id)
	if a.occupants.empty() {
		a.video = ""
		a.isPlaying = false
		a.elapsed = 0
	}
}

func (a *ViewingArea) Occupants() []model.PlayerID {
	return a.occupants.list()
}

func (a *ViewingArea) ApplyUpdate(m model.InteractableModel) bool {
	vm, ok := m.(model.ViewingAreaModel)
	if !ok || vm.ID != a.id {
		return false
	}
	a.video = vm.Video
	a.isPlaying = vm.IsPlaying
	a.elapsed = vm.ElapsedTimeSec
	return true
}

func (a *ViewingArea) ToModel() model.InteractableModel {
	return model.ViewingAreaModel{
		Kind:           model.KindViewingArea,
		ID:             a.id,
		Video:          a.video,
		IsPlaying:      a.isPlaying,
		ElapsedTimeSec: a.elapsed,
		OccupantsByID:  a.occupants.list(),
	}
}

// PosterSessionArea is an interactable exhibiting a poster image that
// occupants can star. Image contents are held in the poster store; the
// area itself tracks title and star count.
type PosterSessionArea struct {
	id        model.InteractableID
	box       model.BoundingBox
	title     string
	image     string
	stars     int
	occupants occupantSet
}

func NewPosterSessionArea(def model.AreaDefinition) *PosterSessionArea {
	return &PosterSessionArea{id: def.ID, box: def.Box}
}

var _ Interactable = (*PosterSessionArea)(nil)

func (a *PosterSessionArea) ID() model.InteractableID     { return a.id }
func (a *PosterSessionArea) Kind() model.InteractableKind { return model.KindPosterSessionArea }
func (a *PosterSessionArea) Box() model.BoundingBox       { return a.box }

func (a *PosterSessionArea) IsActive() bool {
	return a.image != ""
}

// Activate starts a poster session with a title and image
func (a *PosterSessionArea) Activate(title, image string) error {
	if image == "" {
		return model.ErrEmptyPosterImage
	}
	if a.image != "" {
		if a.image == image && a.title == title {
			return nil
		}
		return model.ErrPosterInUse
	}
	a.title = title
	a.image = image
	a.stars = 0
	return nil
}

// IncrementStars adds a star and returns the new count
func (a *PosterSessionArea) IncrementStars() int {
	a.stars++
	return a.stars
}

// ImageContents returns the poster image, or an error if no session is active
func (a *PosterSessionArea) ImageContents() (string, error) {
	if a.image == "" {
		return "", model.ErrEmptyPosterImage
	}
	return a.image, nil
}

func (a *PosterSessionArea) AddOccupant(id model.PlayerID) {
	a.occupants.add(id)
}

func (a *PosterSessionArea) RemoveOccupant(id model.PlayerID) {
	a.occupants.remove(id)
	if a.occupants.empty() {
		a.title = ""
		a.image = ""
		a.stars = 0
	}
}

func (a *PosterSessionArea) Occupants() []model.PlayerID {
	return a.occupants.list()
}

func (a *PosterSessionArea) ApplyUpdate(m model.InteractableModel) bool {
	pm, ok := m.(model.PosterSessionAreaModel)
	if !ok || pm.ID != a.id {
		return false
	}
	a.title = pm.Title
	a.stars = pm.Stars
	return true
}

func (a *PosterSessionArea) ToModel() model.InteractableModel {
	return model.PosterSessionAreaModel{
		Kind:          model.KindPosterSessionArea,
		ID:            a.id,
		Title:         a.title,
		ImageContents: a.image,
		Stars:         a.stars,
		OccupantsByID: a.occupants.list(),
	}
}

// newInteractable builds the right entity for a map area definition
func newInteractable(def model.AreaDefinition) Interactable {
	switch def.Kind {
	case model.KindViewingArea:
		return NewViewingArea(def)
	case model.KindPosterSessionArea:
		return NewPosterSessionArea(def)
	default:
		return NewConversationArea(def)
	}
}
