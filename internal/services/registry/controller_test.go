package registry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/townsquare-go/internal/dependencies/mocks"
	"github.com/mcoot/townsquare-go/internal/model"
	"github.com/mcoot/townsquare-go/internal/services/town"
	"github.com/mcoot/townsquare-go/internal/storage/memory"
	"github.com/mcoot/townsquare-go/internal/testutil"
)

// nopBroadcaster discards all events
type nopBroadcaster struct{}

func (nopBroadcaster) Broadcast(model.Event)                       {}
func (nopBroadcaster) BroadcastExcept(model.PlayerID, model.Event) {}

type stubProvider struct {
	released []model.TownID
}

func (p *stubProvider) BroadcasterFor(model.TownID) town.Broadcaster {
	return nopBroadcaster{}
}

func (p *stubProvider) Release(id model.TownID) {
	p.released = append(p.released, id)
}

type ControllerSuite struct {
	suite.Suite
	controller *Controller
	provider   *stubProvider
	ident      *mocks.MockIdent
	posters    *memory.Storage
	ctx        context.Context
}

func TestControllerSuite(t *testing.T) {
	suite.Run(t, new(ControllerSuite))
}

func (s *ControllerSuite) SetupTest() {
	s.provider = &stubProvider{}
	s.ident = mocks.NewMockIdent()
	s.posters = memory.New()
	s.ctx = context.Background()

	areas := []model.AreaDefinition{
		{Kind: model.KindConversationArea, ID: "Lounge", Box: model.BoundingBox{X: 0, Y: 0, Width: 100, Height: 100}},
	}
	s.controller = NewController(
		areas,
		s.provider,
		mocks.NewMockTokenProvider(),
		s.posters,
		s.ident,
		mocks.NewMockClock(time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)),
		testutil.NopLogger(),
	)
}

func (s *ControllerSuite) TestCreateAndGetTown() {
	id, password, err := s.controller.CreateTown(s.ctx, "My Town", true)
	s.Require().NoError(err)
	s.NotEmpty(id)
	s.NotEmpty(password)

	t, err := s.controller.GetTown(id)
	s.Require().NoError(err)
	s.Equal(id, t.ID())
	s.Equal("My Town", t.Summary().FriendlyName)
}

func (s *ControllerSuite) TestGetTownNotFound() {
	_, err := s.controller.GetTown("missing")
	s.ErrorIs(err, model.ErrTownNotFound)
}

func (s *ControllerSuite) TestListTownsPublicOnlyCreationOrder() {
	first, _, err := s.controller.CreateTown(s.ctx, "First", true)
	s.Require().NoError(err)
	_, _, err = s.controller.CreateTown(s.ctx, "Hidden", false)
	s.Require().NoError(err)
	second, _, err := s.controller.CreateTown(s.ctx, "Second", true)
	s.Require().NoError(err)

	towns := s.controller.ListTowns()
	s.Require().Len(towns, 2)
	s.Equal(first, towns[0].TownID)
	s.Equal(second, towns[1].TownID)
}

func (s *ControllerSuite) TestUpdateTownChecksPassword() {
	id, password, err := s.controller.CreateTown(s.ctx, "My Town", true)
	s.Require().NoError(err)

	name := "Renamed"
	err = s.controller.UpdateTown(s.ctx, id, "wrong", model.TownSettingsUpdate{FriendlyName: &name})
	s.ErrorIs(err, model.ErrInvalidPassword)

	err = s.controller.UpdateTown(s.ctx, id, password, model.TownSettingsUpdate{FriendlyName: &name})
	s.Require().NoError(err)

	t, err := s.controller.GetTown(id)
	s.Require().NoError(err)
	s.Equal("Renamed", t.Summary().FriendlyName)
}

func (s *ControllerSuite) TestUpdateTownNotFound() {
	err := s.controller.UpdateTown(s.ctx, "missing", "pw", model.TownSettingsUpdate{})
	s.ErrorIs(err, model.ErrTownNotFound)
}

func (s *ControllerSuite) TestDeleteTown() {
	id, password, err := s.controller.CreateTown(s.ctx, "My Town", true)
	s.Require().NoError(err)

	s.ErrorIs(s.controller.DeleteTown(s.ctx, id, "wrong"), model.ErrInvalidPassword)

	s.Require().NoError(s.controller.DeleteTown(s.ctx, id, password))
	_, err = s.controller.GetTown(id)
	s.ErrorIs(err, model.ErrTownNotFound)
	s.Equal([]model.TownID{id}, s.provider.released)

	s.ErrorIs(s.controller.DeleteTown(s.ctx, id, password), model.ErrTownNotFound)
}

func (s *ControllerSuite) TestDeleteTownPurgesPosterImages() {
	id, password, err := s.controller.CreateTown(s.ctx, "My Town", true)
	s.Require().NoError(err)

	s.Require().NoError(s.posters.SaveImage(s.ctx, id, "Lounge", "img"))

	s.Require().NoError(s.controller.DeleteTown(s.ctx, id, password))

	_, err = s.posters.GetImage(s.ctx, id, "Lounge")
	s.ErrorIs(err, model.ErrEmptyPosterImage)
}
