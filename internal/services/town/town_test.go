package town

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/townsquare-go/internal/dependencies/mocks"
	"github.com/mcoot/townsquare-go/internal/model"
	"github.com/mcoot/townsquare-go/internal/storage/memory"
	"github.com/mcoot/townsquare-go/internal/testutil"
)

// recordingBroadcaster captures broadcast events for assertions
type recordingBroadcaster struct {
	events   []model.Event
	excluded []model.PlayerID
}

func (b *recordingBroadcaster) Broadcast(event model.Event) {
	b.events = append(b.events, event)
	b.excluded = append(b.excluded, "")
}

func (b *recordingBroadcaster) BroadcastExcept(except model.PlayerID, event model.Event) {
	b.events = append(b.events, event)
	b.excluded = append(b.excluded, except)
}

func (b *recordingBroadcaster) reset() {
	b.events = nil
	b.excluded = nil
}

func (b *recordingBroadcaster) named(name model.EventName) []model.Event {
	var out []model.Event
	for _, e := range b.events {
		if e.Name == name {
			out = append(out, e)
		}
	}
	return out
}

// recordingConn captures unicast events for one player
type recordingConn struct {
	events []model.Event
	closed bool
}

func (c *recordingConn) Send(event model.Event) {
	c.events = append(c.events, event)
}

func (c *recordingConn) Close() {
	c.closed = true
}

type TownSuite struct {
	suite.Suite
	town        *Town
	broadcaster *recordingBroadcaster
	ident       *mocks.MockIdent
	video       *mocks.MockTokenProvider
	clock       *mocks.MockClock
	posters     *memory.Storage
	ctx         context.Context
}

func TestTownSuite(t *testing.T) {
	suite.Run(t, new(TownSuite))
}

func (s *TownSuite) SetupTest() {
	s.broadcaster = &recordingBroadcaster{}
	s.ident = mocks.NewMockIdent()
	s.video = mocks.NewMockTokenProvider()
	s.clock = mocks.NewMockClock(time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC))
	s.posters = memory.New()
	s.ctx = context.Background()

	s.town = New(Config{
		ID:               "town-1",
		FriendlyName:     "Test Town",
		IsPubliclyListed: true,
		Capacity:         5,
		Areas: []model.AreaDefinition{
			{Kind: model.KindConversationArea, ID: "Lounge", Box: model.BoundingBox{X: 0, Y: 0, Width: 100, Height: 100}},
			{Kind: model.KindViewingArea, ID: "Cinema", Box: model.BoundingBox{X: 200, Y: 0, Width: 100, Height: 100}},
			{Kind: model.KindPosterSessionArea, ID: "Gallery", Box: model.BoundingBox{X: 400, Y: 0, Width: 100, Height: 100}},
		},
	}, s.broadcaster, s.video, s.posters, s.ident, s.clock, testutil.NopLogger())
}

func (s *TownSuite) join(name string) (*Player, *recordingConn) {
	conn := &recordingConn{}
	player, _, err := s.town.AddPlayer(s.ctx, name, conn)
	s.Require().NoError(err)
	return player, conn
}

// Construction

func (s *TownSuite) TestNewBuildsAreasFromDefinitions() {
	areas := s.town.Interactables()
	s.Require().Len(areas, 3)

	// One live area per map definition, in map order
	s.Equal(model.KindConversationArea, areas[0].AreaKind())
	s.Equal(model.InteractableID("Lounge"), areas[0].AreaID())
	s.Equal(model.KindViewingArea, areas[1].AreaKind())
	s.Equal(model.InteractableID("Cinema"), areas[1].AreaID())
	s.Equal(model.KindPosterSessionArea, areas[2].AreaKind())
	s.Equal(model.InteractableID("Gallery"), areas[2].AreaID())
}

// Join

func (s *TownSuite) TestAddPlayerReturnsSnapshot() {
	s.ident.QueuePlayerIDs("p1")
	s.ident.QueueSessionTokens("tok1")

	player, snapshot, err := s.town.AddPlayer(s.ctx, "alice", &recordingConn{})
	s.Require().NoError(err)

	s.Equal(model.PlayerID("p1"), player.ID)
	s.Equal("tok1", player.SessionToken)
	s.Equal(model.PlayerID("p1"), snapshot.UserID)
	s.Equal("tok1", snapshot.SessionToken)
	s.Equal("video-token:town-1:p1", snapshot.ProviderVideoToken)
	s.Equal("Test Town", snapshot.FriendlyName)
	s.True(snapshot.IsPubliclyListed)
	s.Len(snapshot.CurrentPlayers, 1)
	s.Len(snapshot.Interactables, 3)
}

func (s *TownSuite) TestAddPlayerBroadcastsNothing() {
	s.join("alice")
	s.Empty(s.broadcaster.events)
}

func (s *TownSuite) TestAddPlayerFetchesVideoTokenBeforeJoin() {
	player, _ := s.join("alice")

	s.Require().Len(s.video.Calls, 1)
	s.Equal(s.town.ID(), s.video.Calls[0].TownID)
	s.Equal(player.ID, s.video.Calls[0].PlayerID)
	s.NotEmpty(player.VideoToken)
}

func (s *TownSuite) TestAddPlayerVideoFailurePropagates() {
	s.video.Err = model.ErrTownNotFound

	_, _, err := s.town.AddPlayer(s.ctx, "alice", &recordingConn{})
	s.Error(err)
	s.Equal(0, s.town.Occupancy())
}

func (s *TownSuite) TestAddPlayerCapacityEnforced() {
	for i := 0; i < 5; i++ {
		s.join("player")
	}

	_, _, err := s.town.AddPlayer(s.ctx, "overflow", &recordingConn{})
	s.ErrorIs(err, model.ErrTownFull)
}

func (s *TownSuite) TestGetPlayerBySessionToken() {
	player, _ := s.join("alice")

	found, err := s.town.GetPlayerBySessionToken(player.SessionToken)
	s.Require().NoError(err)
	s.Equal(player.ID, found.ID)

	_, err = s.town.GetPlayerBySessionToken("bogus")
	s.ErrorIs(err, model.ErrInvalidSessionToken)
}

// Movement and occupancy

func (s *TownSuite) TestMovementBroadcastsToEveryone() {
	player, _ := s.join("alice")
	s.broadcaster.reset()

	s.town.HandleMovement(player.ID, model.PlayerLocation{X: 10, Y: 10, Rotation: model.RotationFront, Moving: true})

	moved := s.broadcaster.named(model.EventPlayerMoved)
	s.Require().Len(moved, 1)
	s.Equal(model.PlayerID(""), s.broadcaster.excluded[0], "movement is not sender-excluded")

	payload := moved[0].Payload.(model.Player)
	s.Equal(player.ID, payload.ID)
	s.Equal(10.0, payload.Location.X)
	s.True(payload.Location.Moving)
}

func (s *TownSuite) TestMovementIntoAreaAddsOccupant() {
	player, _ := s.join("alice")

	s.town.HandleMovement(player.ID, model.PlayerLocation{X: 50, Y: 50})

	models := s.town.Interactables()
	lounge := models[0].(model.ConversationAreaModel)
	s.Equal([]model.PlayerID{player.ID}, lounge.OccupantsByID)

	found, err := s.town.GetPlayerBySessionToken(player.SessionToken)
	s.Require().NoError(err)
	s.Equal(model.InteractableID("Lounge"), found.Location.Interactable)
}

func (s *TownSuite) TestMovementIsIdempotentForOccupancy() {
	player, _ := s.join("alice")

	s.town.HandleMovement(player.ID, model.PlayerLocation{X: 50, Y: 50})
	s.town.HandleMovement(player.ID, model.PlayerLocation{X: 50, Y: 50})

	lounge := s.town.Interactables()[0].(model.ConversationAreaModel)
	s.Len(lounge.OccupantsByID, 1)
}

func (s *TownSuite) TestMovementOutOfAreaRemovesOccupant() {
	player, _ := s.join("alice")

	s.town.HandleMovement(player.ID, model.PlayerLocation{X: 50, Y: 50})
	s.town.HandleMovement(player.ID, model.PlayerLocation{X: 150, Y: 150})

	lounge := s.town.Interactables()[0].(model.ConversationAreaModel)
	s.Empty(lounge.OccupantsByID)
}

func (s *TownSuite) TestLastOccupantLeavingClearsTopic() {
	player, _ := s.join("alice")
	s.town.HandleMovement(player.ID, model.PlayerLocation{X: 50, Y: 50})
	s.Require().NoError(s.town.AddConversationArea(s.ctx, "Lounge", "cats"))
	s.broadcaster.reset()

	s.town.HandleMovement(player.ID, model.PlayerLocation{X: 150, Y: 150})

	lounge := s.town.Interactables()[0].(model.ConversationAreaModel)
	s.Empty(lounge.Topic)

	// Deactivation is announced
	updates := s.broadcaster.named(model.EventInteractableUpdate)
	s.Require().Len(updates, 1)
	s.Empty(updates[0].Payload.(model.ConversationAreaModel).Topic)
}

func (s *TownSuite) TestBoundaryPointCountsAsInside() {
	player, _ := s.join("alice")

	s.town.HandleMovement(player.ID, model.PlayerLocation{X: 100, Y: 100})

	lounge := s.town.Interactables()[0].(model.ConversationAreaModel)
	s.Equal([]model.PlayerID{player.ID}, lounge.OccupantsByID)
}

// Interactable updates over the socket

func (s *TownSuite) TestViewingAreaUpdateBroadcastsExceptSender() {
	alice, _ := s.join("alice")
	s.broadcaster.reset()

	s.town.HandleInteractableUpdate(alice.ID, model.ViewingAreaModel{
		Kind: model.KindViewingArea, ID: "Cinema",
		Video: "https://example.com/v", IsPlaying: true, ElapsedTimeSec: 12,
	})

	updates := s.broadcaster.named(model.EventInteractableUpdate)
	s.Require().Len(updates, 1)
	s.Equal(alice.ID, s.broadcaster.excluded[0])

	cinema := updates[0].Payload.(model.ViewingAreaModel)
	s.Equal("https://example.com/v", cinema.Video)
	s.True(cinema.IsPlaying)
	s.Equal(12.0, cinema.ElapsedTimeSec)
}

func (s *TownSuite) TestUnknownInteractableUpdateIgnoredSilently() {
	alice, _ := s.join("alice")
	s.broadcaster.reset()

	s.town.HandleInteractableUpdate(alice.ID, model.ViewingAreaModel{
		Kind: model.KindViewingArea, ID: "Nowhere", Video: "x",
	})

	s.Empty(s.broadcaster.events)
}

func (s *TownSuite) TestConversationAreaNotClientUpdatable() {
	alice, _ := s.join("alice")
	s.broadcaster.reset()

	s.town.HandleInteractableUpdate(alice.ID, model.ConversationAreaModel{
		Kind: model.KindConversationArea, ID: "Lounge", Topic: "hijacked",
	})

	s.Empty(s.broadcaster.events)
	lounge := s.town.Interactables()[0].(model.ConversationAreaModel)
	s.Empty(lounge.Topic)
}

// Chat

func (s *TownSuite) TestChatRoutedByInteractable() {
	alice, aliceConn := s.join("alice")
	bob, bobConn := s.join("bob")
	_, carolConn := s.join("carol")

	s.town.HandleMovement(alice.ID, model.PlayerLocation{X: 50, Y: 50})
	s.town.HandleMovement(bob.ID, model.PlayerLocation{X: 60, Y: 60})
	aliceConn.events = nil
	bobConn.events = nil
	carolConn.events = nil

	s.town.HandleChatMessage(model.ChatMessage{
		Author: alice.ID, Body: "hi", Interactable: "Lounge",
	})

	s.Require().Len(aliceConn.events, 1)
	s.Equal(model.EventChatMessage, aliceConn.events[0].Name)
	s.Len(bobConn.events, 1)
	s.Empty(carolConn.events, "players outside the area do not receive scoped chat")
}

func (s *TownSuite) TestChatTimestampedWhenMissing() {
	alice, aliceConn := s.join("alice")
	aliceConn.events = nil

	s.town.HandleChatMessage(model.ChatMessage{Author: alice.ID, Body: "hi"})

	s.Require().Len(aliceConn.events, 1)
	msg := aliceConn.events[0].Payload.(model.ChatMessage)
	s.Equal(s.clock.CurrentTime, msg.DateCreated)
}

// Disconnect

func (s *TownSuite) TestDisconnectCascade() {
	alice, _ := s.join("alice")
	bob, _ := s.join("bob")

	s.town.HandleMovement(alice.ID, model.PlayerLocation{X: 50, Y: 50})
	alicePoll, err := s.town.CreatePoll(alice.ID, "q?", []string{"a", "b"}, model.PollSettings{})
	s.Require().NoError(err)
	bobPoll, err := s.town.CreatePoll(bob.ID, "r?", []string{"c", "d"}, model.PollSettings{})
	s.Require().NoError(err)
	s.Require().NoError(s.town.VoteInPoll(bobPoll, model.Voter{ID: alice.ID, Name: "alice"}, []int{0}))
	s.broadcaster.reset()

	s.town.HandleDisconnect(alice.ID)

	s.Equal(1, s.town.Occupancy())
	_, err = s.town.GetPlayerBySessionToken(alice.SessionToken)
	s.ErrorIs(err, model.ErrInvalidSessionToken)

	lounge := s.town.Interactables()[0].(model.ConversationAreaModel)
	s.Empty(lounge.OccupantsByID)

	// Alice's poll is gone; bob's poll and alice's vote on it survive
	_, _, err = s.town.GetPollResults(bob.ID, alicePoll)
	s.ErrorIs(err, model.ErrPollNotFound)
	results, _, err := s.town.GetPollResults(bob.ID, bobPoll)
	s.Require().NoError(err)
	s.Len(results.Responses.Voters[0], 1)

	notices := s.broadcaster.named(model.EventPlayerDisconnect)
	s.Require().Len(notices, 1)
	s.Equal(alice.ID, s.broadcaster.excluded[0])
}

func (s *TownSuite) TestDisconnectUnknownPlayerIgnored() {
	s.town.HandleDisconnect("ghost")
	s.Empty(s.broadcaster.events)
}

// Area activation

func (s *TownSuite) TestAddConversationArea() {
	alice, _ := s.join("alice")
	s.town.HandleMovement(alice.ID, model.PlayerLocation{X: 50, Y: 50})
	s.broadcaster.reset()

	s.Require().NoError(s.town.AddConversationArea(s.ctx, "Lounge", "gophers"))

	updates := s.broadcaster.named(model.EventInteractableUpdate)
	s.Require().Len(updates, 1)
	lounge := updates[0].Payload.(model.ConversationAreaModel)
	s.Equal("gophers", lounge.Topic)
	s.Equal([]model.PlayerID{alice.ID}, lounge.OccupantsByID)
}

func (s *TownSuite) TestAddConversationAreaRejections() {
	s.ErrorIs(s.town.AddConversationArea(s.ctx, "Lounge", ""), model.ErrEmptyTopic)
	s.ErrorIs(s.town.AddConversationArea(s.ctx, "Nowhere", "t"), model.ErrInteractableNotFound)
	s.ErrorIs(s.town.AddConversationArea(s.ctx, "Cinema", "t"), model.ErrInteractableNotFound)

	s.Require().NoError(s.town.AddConversationArea(s.ctx, "Lounge", "first"))
	s.NoError(s.town.AddConversationArea(s.ctx, "Lounge", "first"))
	s.ErrorIs(s.town.AddConversationArea(s.ctx, "Lounge", "second"), model.ErrTopicInUse)
}

func (s *TownSuite) TestAddViewingAreaIdempotentForSameVideo() {
	s.Require().NoError(s.town.AddViewingArea(s.ctx, "Cinema", "https://example.com/v"))
	s.NoError(s.town.AddViewingArea(s.ctx, "Cinema", "https://example.com/v"))
	s.ErrorIs(s.town.AddViewingArea(s.ctx, "Cinema", "https://example.com/other"), model.ErrVideoInUse)
}

func (s *TownSuite) TestAddPosterSessionAreaWritesImageThrough() {
	s.Require().NoError(s.town.AddPosterSessionArea(s.ctx, "Gallery", "My Poster", "imgdata"))

	contents, err := s.posters.GetImage(s.ctx, s.town.ID(), "Gallery")
	s.Require().NoError(err)
	s.Equal("imgdata", contents)

	s.ErrorIs(s.town.AddPosterSessionArea(s.ctx, "Gallery", "Other", "x"), model.ErrPosterInUse)
}

func (s *TownSuite) TestStarPoster() {
	_, err := s.town.StarPoster(s.ctx, "Gallery")
	s.ErrorIs(err, model.ErrEmptyPosterImage)

	s.Require().NoError(s.town.AddPosterSessionArea(s.ctx, "Gallery", "My Poster", "imgdata"))
	s.broadcaster.reset()

	stars, err := s.town.StarPoster(s.ctx, "Gallery")
	s.Require().NoError(err)
	s.Equal(1, stars)

	stars, err = s.town.StarPoster(s.ctx, "Gallery")
	s.Require().NoError(err)
	s.Equal(2, stars)

	s.Len(s.broadcaster.named(model.EventInteractableUpdate), 2)
}

func (s *TownSuite) TestPosterImageContents() {
	_, err := s.town.PosterImageContents(s.ctx, "Gallery")
	s.ErrorIs(err, model.ErrEmptyPosterImage)

	s.Require().NoError(s.town.AddPosterSessionArea(s.ctx, "Gallery", "My Poster", "imgdata"))

	contents, err := s.town.PosterImageContents(s.ctx, "Gallery")
	s.Require().NoError(err)
	s.Equal("imgdata", contents)
}

// Polls

func (s *TownSuite) TestCreatePollValidation() {
	alice, _ := s.join("alice")

	_, err := s.town.CreatePoll(alice.ID, "", []string{"a", "b"}, model.PollSettings{})
	s.ErrorIs(err, model.ErrEmptyQuestion)

	_, err = s.town.CreatePoll(alice.ID, "q?", []string{"a"}, model.PollSettings{})
	s.ErrorIs(err, model.ErrBadOptionCount)

	_, err = s.town.CreatePoll(alice.ID, "q?", []string{"a", "b", "c", "d", "e", "f", "g", "h", "i"}, model.PollSettings{})
	s.ErrorIs(err, model.ErrBadOptionCount)

	_, err = s.town.CreatePoll(alice.ID, "q?", []string{"a", ""}, model.PollSettings{})
	s.ErrorIs(err, model.ErrEmptyOption)

	_, err = s.town.CreatePoll("ghost", "q?", []string{"a", "b"}, model.PollSettings{})
	s.ErrorIs(err, model.ErrInvalidSessionToken)
}

func (s *TownSuite) TestGetAllPollsCreationOrder() {
	alice, _ := s.join("alice")

	first, err := s.town.CreatePoll(alice.ID, "first?", []string{"a", "b"}, model.PollSettings{})
	s.Require().NoError(err)
	second, err := s.town.CreatePoll(alice.ID, "second?", []string{"c", "d"}, model.PollSettings{})
	s.Require().NoError(err)

	polls := s.town.GetAllPolls(alice.ID)
	s.Require().Len(polls, 2)
	s.Equal(first, polls[0].PollID)
	s.Equal(second, polls[1].PollID)
}

func (s *TownSuite) TestPollResultsIncludeViewerVotes() {
	alice, _ := s.join("alice")
	bob, _ := s.join("bob")

	pollID, err := s.town.CreatePoll(alice.ID, "q?", []string{"a", "b", "c"}, model.PollSettings{MultiSelect: true})
	s.Require().NoError(err)
	s.Require().NoError(s.town.VoteInPoll(pollID, model.Voter{ID: bob.ID, Name: "bob"}, []int{0, 2}))

	_, userVotes, err := s.town.GetPollResults(bob.ID, pollID)
	s.Require().NoError(err)
	s.Equal([]int{0, 2}, userVotes)

	// A viewer who has not voted gets no votes back
	_, userVotes, err = s.town.GetPollResults(alice.ID, pollID)
	s.Require().NoError(err)
	s.Empty(userVotes)
}

func (s *TownSuite) TestVoteInMissingPoll() {
	alice, _ := s.join("alice")
	err := s.town.VoteInPoll("missing", model.Voter{ID: alice.ID, Name: "alice"}, []int{0})
	s.ErrorIs(err, model.ErrPollNotFound)
}

func (s *TownSuite) TestDeletePollCreatorOnly() {
	alice, _ := s.join("alice")
	bob, _ := s.join("bob")

	pollID, err := s.town.CreatePoll(alice.ID, "q?", []string{"a", "b"}, model.PollSettings{})
	s.Require().NoError(err)

	s.ErrorIs(s.town.DeletePoll(bob.ID, pollID), model.ErrNotPollCreator)
	s.NoError(s.town.DeletePoll(alice.ID, pollID))
	s.ErrorIs(s.town.DeletePoll(alice.ID, pollID), model.ErrPollNotFound)
	s.Empty(s.town.GetAllPolls(alice.ID))
}

// Settings and teardown

func (s *TownSuite) TestUpdateSettings() {
	name := "Renamed"
	listed := false
	s.town.UpdateSettings(model.TownSettingsUpdate{FriendlyName: &name, IsPubliclyListed: &listed})

	s.Equal("Renamed", s.town.Summary().FriendlyName)
	s.False(s.town.IsPubliclyListed())

	events := s.broadcaster.named(model.EventTownSettingsUpdated)
	s.Require().Len(events, 1)
	payload := events[0].Payload.(model.TownSettingsPayload)
	s.Equal("Renamed", payload.FriendlyName)
	s.False(payload.IsPubliclyListed)
}

func (s *TownSuite) TestUpdateSettingsPartial() {
	name := "Renamed"
	s.town.UpdateSettings(model.TownSettingsUpdate{FriendlyName: &name})

	s.Equal("Renamed", s.town.Summary().FriendlyName)
	s.True(s.town.IsPubliclyListed())
}

func (s *TownSuite) TestDisconnectAllPlayers() {
	_, aliceConn := s.join("alice")
	_, bobConn := s.join("bob")
	s.broadcaster.reset()

	s.town.DisconnectAllPlayers()

	s.Require().Len(s.broadcaster.named(model.EventTownClosing), 1)
	s.True(aliceConn.closed)
	s.True(bobConn.closed)
	s.Equal(0, s.town.Occupancy())
}
