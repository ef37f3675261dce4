package town

import (
	"context"
	"log/slog"
	"sync"

	"github.com/mcoot/townsquare-go/internal/dependencies/clock"
	"github.com/mcoot/townsquare-go/internal/dependencies/ident"
	"github.com/mcoot/townsquare-go/internal/model"
	"github.com/mcoot/townsquare-go/internal/services/video"
	"github.com/mcoot/townsquare-go/internal/storage"
)

const (
	// MinPollOptions and MaxPollOptions bound the option list of a poll
	MinPollOptions = 2
	MaxPollOptions = 8
)

// Connection is a player's live channel back to their client. Send must
// never block the caller; a slow client gets dropped events, not a
// stalled town.
type Connection interface {
	Send(event model.Event)
	Close()
}

// Broadcaster fans an event out to every connection in a town
type Broadcaster interface {
	Broadcast(event model.Event)
	BroadcastExcept(except model.PlayerID, event model.Event)
}

// Config is the static shape of a town at creation time
type Config struct {
	ID               model.TownID
	FriendlyName     string
	IsPubliclyListed bool
	Capacity         int
	Areas            []model.AreaDefinition
}

// Town coordinates one shared session: its players, its interactable
// areas, and its polls. All mutation is serialized through a single
// mutex; nothing blocks on external I/O while holding it except never
// (the one external call, the video token fetch, happens before the
// lock is taken).
type Town struct {
	id       model.TownID
	capacity int

	broadcaster Broadcaster
	video       video.TokenProvider
	posters     storage.PosterStore
	ident       ident.Source
	clock       clock.Clock
	logger      *slog.Logger

	mu               sync.RWMutex
	friendlyName     string
	isPubliclyListed bool
	players          []*Player
	interactables    []Interactable
	polls            []*model.Poll
}

// New creates a town from validated map area definitions
func New(
	cfg Config,
	broadcaster Broadcaster,
	videoProvider video.TokenProvider,
	posters storage.PosterStore,
	identSource ident.Source,
	clk clock.Clock,
	logger *slog.Logger,
) *Town {
	interactables := make([]Interactable, 0, len(cfg.Areas))
	for _, def := range cfg.Areas {
		interactables = append(interactables, newInteractable(def))
	}

	return &Town{
		id:               cfg.ID,
		capacity:         cfg.Capacity,
		broadcaster:      broadcaster,
		video:            videoProvider,
		posters:          posters,
		ident:            identSource,
		clock:            clk,
		logger:           logger.With(slog.String("town_id", string(cfg.ID))),
		friendlyName:     cfg.FriendlyName,
		isPubliclyListed: cfg.IsPubliclyListed,
		interactables:    interactables,
	}
}

// ID returns the town's identifier
func (t *Town) ID() model.TownID {
	return t.id
}

// Summary returns the public listing projection
func (t *Town) Summary() model.TownSummary {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return model.TownSummary{
		TownID:           t.id,
		FriendlyName:     t.friendlyName,
		CurrentOccupancy: len(t.players),
		MaximumOccupancy: t.capacity,
	}
}

// IsPubliclyListed reports whether the town appears in public listings
func (t *Town) IsPubliclyListed() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.isPubliclyListed
}

// Occupancy returns the current player count
func (t *Town) Occupancy() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.players)
}

// AddPlayer registers a new participant. The video token is fetched
// before the town lock is taken so a slow provider cannot stall other
// events; nothing is broadcast on join, the returned snapshot is for
// the caller to unicast to the new connection only.
func (t *Town) AddPlayer(ctx context.Context, userName string, conn Connection) (*Player, model.InitializePayload, error) {
	playerID := t.ident.NewPlayerID()
	sessionToken := t.ident.SessionToken()

	videoToken, err := t.video.GetTokenForTown(ctx, t.id, playerID)
	if err != nil {
		return nil, model.InitializePayload{}, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.capacity > 0 && len(t.players) >= t.capacity {
		return nil, model.InitializePayload{}, model.ErrTownFull
	}

	player := NewPlayer(playerID, userName, sessionToken)
	player.VideoToken = videoToken
	player.Attach(conn)
	t.players = append(t.players, player)

	t.logger.Debug("player joined",
		slog.String("player_id", string(playerID)),
		slog.String("user_name", userName))

	return player, t.initializePayloadLocked(player), nil
}

func (t *Town) initializePayloadLocked(player *Player) model.InitializePayload {
	currentPlayers := make([]model.Player, 0, len(t.players))
	for _, p := range t.players {
		currentPlayers = append(currentPlayers, p.ToModel())
	}

	return model.InitializePayload{
		UserID:             player.ID,
		SessionToken:       player.SessionToken,
		ProviderVideoToken: player.VideoToken,
		CurrentPlayers:     currentPlayers,
		FriendlyName:       t.friendlyName,
		IsPubliclyListed:   t.isPubliclyListed,
		Interactables:      t.interactableModelsLocked(),
	}
}

// GetPlayerBySessionToken resolves a session token to a live player
func (t *Town) GetPlayerBySessionToken(token string) (*Player, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, p := range t.players {
		if p.SessionToken == token {
			return p, nil
		}
	}
	return nil, model.ErrInvalidSessionToken
}

// Players returns the wire models of all players in join order
func (t *Town) Players() []model.Player {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]model.Player, 0, len(t.players))
	for _, p := range t.players {
		out = append(out, p.ToModel())
	}
	return out
}

// Interactables returns the wire models of all areas in map order
func (t *Town) Interactables() []model.InteractableModel {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.interactableModelsLocked()
}

func (t *Town) interactableModelsLocked() []model.InteractableModel {
	out := make([]model.InteractableModel, 0, len(t.interactables))
	for _, a := range t.interactables {
		out = append(out, a.ToModel())
	}
	return out
}

// HandleMovement updates a player's location, recomputes which area
// contains them, and broadcasts the move to the whole town (mover
// included). Unknown players are ignored.
func (t *Town) HandleMovement(playerID model.PlayerID, location model.PlayerLocation) {
	t.mu.Lock()

	player := t.findPlayerLocked(playerID)
	if player == nil {
		t.mu.Unlock()
		return
	}

	previous := player.Location.Interactable
	containing := t.containingAreaLocked(location.X, location.Y)

	location.Interactable = ""
	if containing != nil {
		location.Interactable = containing.ID()
	}
	player.Location = location

	var deactivated []model.InteractableModel
	if previous != location.Interactable {
		if previous != "" {
			if old := t.findInteractableLocked(previous); old != nil {
				wasActive := old.IsActive()
				old.RemoveOccupant(playerID)
				if wasActive && !old.IsActive() {
					deactivated = append(deactivated, old.ToModel())
				}
			}
		}
		if containing != nil {
			containing.AddOccupant(playerID)
		}
	}

	moved := player.ToModel()
	t.mu.Unlock()

	t.broadcaster.Broadcast(model.Event{Name: model.EventPlayerMoved, Payload: moved})
	for _, m := range deactivated {
		t.broadcaster.Broadcast(model.Event{Name: model.EventInteractableUpdate, Payload: m})
	}
}

// HandleInteractableUpdate applies a client-driven area update. Absent
// areas and areas with no client-mutable state are ignored silently;
// on success the canonical new state is broadcast to everyone except
// the sender, who already holds the state it sent.
func (t *Town) HandleInteractableUpdate(senderID model.PlayerID, update model.InteractableModel) {
	t.mu.Lock()

	area := t.findInteractableLocked(update.AreaID())
	if area == nil || !area.ApplyUpdate(update) {
		t.mu.Unlock()
		return
	}

	updated := area.ToModel()
	t.mu.Unlock()

	t.broadcaster.BroadcastExcept(senderID, model.Event{Name: model.EventInteractableUpdate, Payload: updated})
}

// HandleChatMessage forwards a chat line to every player whose current
// area matches the message's interactable scope. A message with no
// interactable scope reaches only players who are likewise in no area.
func (t *Town) HandleChatMessage(message model.ChatMessage) {
	if message.DateCreated.IsZero() {
		message.DateCreated = t.clock.Now()
	}

	t.mu.RLock()
	recipients := make([]*Player, 0, len(t.players))
	for _, p := range t.players {
		if p.Location.Interactable == message.Interactable {
			recipients = append(recipients, p)
		}
	}
	t.mu.RUnlock()

	event := model.Event{Name: model.EventChatMessage, Payload: message}
	for _, p := range recipients {
		p.Send(event)
	}
}

// HandleDisconnect tears down a player's session: occupancy, session
// token, and any polls they created, then notifies the rest of the town
func (t *Town) HandleDisconnect(playerID model.PlayerID) {
	t.mu.Lock()

	player := t.findPlayerLocked(playerID)
	if player == nil {
		t.mu.Unlock()
		return
	}

	var deactivated []model.InteractableModel
	if player.Location.Interactable != "" {
		if area := t.findInteractableLocked(player.Location.Interactable); area != nil {
			wasActive := area.IsActive()
			area.RemoveOccupant(playerID)
			if wasActive && !area.IsActive() {
				deactivated = append(deactivated, area.ToModel())
			}
		}
	}

	for i, p := range t.players {
		if p.ID == playerID {
			t.players = append(t.players[:i], t.players[i+1:]...)
			break
		}
	}

	kept := t.polls[:0]
	for _, poll := range t.polls {
		if poll.Creator.ID != playerID {
			kept = append(kept, poll)
		}
	}
	t.polls = kept

	left := player.ToModel()
	t.mu.Unlock()

	t.logger.Debug("player disconnected", slog.String("player_id", string(playerID)))

	t.broadcaster.BroadcastExcept(playerID, model.Event{Name: model.EventPlayerDisconnect, Payload: left})
	for _, m := range deactivated {
		t.broadcaster.BroadcastExcept(playerID, model.Event{Name: model.EventInteractableUpdate, Payload: m})
	}
}

// findPlayerLocked requires at least a read lock
func (t *Town) findPlayerLocked(id model.PlayerID) *Player {
	for _, p := range t.players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (t *Town) findInteractableLocked(id model.InteractableID) Interactable {
	for _, a := range t.interactables {
		if a.ID() == id {
			return a
		}
	}
	return nil
}

// containingAreaLocked returns the first map area whose box contains
// the point, or nil
func (t *Town) containingAreaLocked(x, y float64) Interactable {
	for _, a := range t.interactables {
		if a.Box().Contains(x, y) {
			return a
		}
	}
	return nil
}

// Area activation (REST surface)

// AddConversationArea activates a map-authored conversation area with a
// topic and broadcasts the new state town-wide
func (t *Town) AddConversationArea(ctx context.Context, areaID model.InteractableID, topic string) error {
	t.mu.Lock()

	area, ok := t.findInteractableLocked(areaID).(*ConversationArea)
	if !ok {
		t.mu.Unlock()
		return model.ErrInteractableNotFound
	}
	if err := area.SetTopic(topic); err != nil {
		t.mu.Unlock()
		return err
	}

	updated := area.ToModel()
	t.mu.Unlock()

	t.broadcaster.Broadcast(model.Event{Name: model.EventInteractableUpdate, Payload: updated})
	return nil
}

// AddViewingArea starts a viewing session in a map-authored viewing area
func (t *Town) AddViewingArea(ctx context.Context, areaID model.InteractableID, videoURL string) error {
	t.mu.Lock()

	area, ok := t.findInteractableLocked(areaID).(*ViewingArea)
	if !ok {
		t.mu.Unlock()
		return model.ErrInteractableNotFound
	}
	if err := area.Activate(videoURL); err != nil {
		t.mu.Unlock()
		return err
	}

	updated := area.ToModel()
	t.mu.Unlock()

	t.broadcaster.Broadcast(model.Event{Name: model.EventInteractableUpdate, Payload: updated})
	return nil
}

// AddPosterSessionArea starts a poster session; the image contents are
// written through to the poster store
func (t *Town) AddPosterSessionArea(ctx context.Context, areaID model.InteractableID, title, imageContents string) error {
	t.mu.Lock()

	area, ok := t.findInteractableLocked(areaID).(*PosterSessionArea)
	if !ok {
		t.mu.Unlock()
		return model.ErrInteractableNotFound
	}
	if err := area.Activate(title, imageContents); err != nil {
		t.mu.Unlock()
		return err
	}

	updated := area.ToModel()
	t.mu.Unlock()

	if err := t.posters.SaveImage(ctx, t.id, areaID, imageContents); err != nil {
		t.logger.Warn("saving poster image", slog.String("area_id", string(areaID)), slog.Any("error", err))
	}

	t.broadcaster.Broadcast(model.Event{Name: model.EventInteractableUpdate, Payload: updated})
	return nil
}

// PosterImageContents returns the image of an active poster session
func (t *Town) PosterImageContents(ctx context.Context, areaID model.InteractableID) (string, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	area, ok := t.findInteractableLocked(areaID).(*PosterSessionArea)
	if !ok {
		return "", model.ErrInteractableNotFound
	}
	return area.ImageContents()
}

// StarPoster adds a star to an active poster session and returns the
// new count
func (t *Town) StarPoster(ctx context.Context, areaID model.InteractableID) (int, error) {
	t.mu.Lock()

	area, ok := t.findInteractableLocked(areaID).(*PosterSessionArea)
	if !ok {
		t.mu.Unlock()
		return 0, model.ErrInteractableNotFound
	}
	if !area.IsActive() {
		t.mu.Unlock()
		return 0, model.ErrEmptyPosterImage
	}

	stars := area.IncrementStars()
	updated := area.ToModel()
	t.mu.Unlock()

	t.broadcaster.Broadcast(model.Event{Name: model.EventInteractableUpdate, Payload: updated})
	return stars, nil
}

// Poll operations

// CreatePoll validates and creates a poll owned by the given player
func (t *Town) CreatePoll(creatorID model.PlayerID, question string, options []string, settings model.PollSettings) (model.PollID, error) {
	if question == "" {
		return "", model.ErrEmptyQuestion
	}
	if len(options) < MinPollOptions || len(options) > MaxPollOptions {
		return "", model.ErrBadOptionCount
	}
	for _, option := range options {
		if option == "" {
			return "", model.ErrEmptyOption
		}
	}

	pollID := t.ident.NewPollID()
	now := t.clock.Now()

	t.mu.Lock()
	defer t.mu.Unlock()

	creator := t.findPlayerLocked(creatorID)
	if creator == nil {
		return "", model.ErrInvalidSessionToken
	}

	poll := model.NewPoll(pollID, model.Voter{ID: creator.ID, Name: creator.UserName}, question, options, settings, now)
	t.polls = append(t.polls, poll)

	return pollID, nil
}

// VoteInPoll records a vote, propagating the poll's own validation
func (t *Town) VoteInPoll(pollID model.PollID, voter model.Voter, optionIndexes []int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	poll := t.findPollLocked(pollID)
	if poll == nil {
		return model.ErrPollNotFound
	}
	return poll.Vote(voter, optionIndexes)
}

// GetPollResults returns the full wire model for a poll along with the
// option indexes the viewer themselves voted for
func (t *Town) GetPollResults(viewerID model.PlayerID, pollID model.PollID) (model.PollModel, []int, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	poll := t.findPollLocked(pollID)
	if poll == nil {
		return model.PollModel{}, nil, model.ErrPollNotFound
	}
	return poll.ToModel(), poll.UserVotes(viewerID), nil
}

// GetAllPolls returns summaries for every open poll in creation order
func (t *Town) GetAllPolls(viewerID model.PlayerID) []model.PollInfo {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]model.PollInfo, 0, len(t.polls))
	for _, poll := range t.polls {
		out = append(out, poll.Summary(viewerID))
	}
	return out
}

// DeletePoll removes a poll; only its creator may delete it
func (t *Town) DeletePoll(requesterID model.PlayerID, pollID model.PollID) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	for i, poll := range t.polls {
		if poll.ID == pollID {
			if poll.Creator.ID != requesterID {
				return model.ErrNotPollCreator
			}
			t.polls = append(t.polls[:i], t.polls[i+1:]...)
			return nil
		}
	}
	return model.ErrPollNotFound
}

func (t *Town) findPollLocked(id model.PollID) *model.Poll {
	for _, poll := range t.polls {
		if poll.ID == id {
			return poll
		}
	}
	return nil
}

// Settings and teardown

// UpdateSettings applies a partial settings change and broadcasts the
// new settings town-wide
func (t *Town) UpdateSettings(update model.TownSettingsUpdate) {
	t.mu.Lock()

	if update.FriendlyName != nil {
		t.friendlyName = *update.FriendlyName
	}
	if update.IsPubliclyListed != nil {
		t.isPubliclyListed = *update.IsPubliclyListed
	}

	payload := model.TownSettingsPayload{
		FriendlyName:     t.friendlyName,
		IsPubliclyListed: t.isPubliclyListed,
	}
	t.mu.Unlock()

	t.broadcaster.Broadcast(model.Event{Name: model.EventTownSettingsUpdated, Payload: payload})
}

// DisconnectAllPlayers broadcasts a closing notice then force-closes
// every connection. Used when the town itself is torn down.
func (t *Town) DisconnectAllPlayers() {
	t.broadcaster.Broadcast(model.Event{Name: model.EventTownClosing})

	t.mu.Lock()
	players := t.players
	t.players = nil
	t.polls = nil
	t.mu.Unlock()

	for _, p := range players {
		if p.conn != nil {
			p.conn.Close()
		}
	}
}
