package registry

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/townsquare-go/internal/dependencies/clock"
	"github.com/mcoot/townsquare-go/internal/dependencies/ident"
	"github.com/mcoot/townsquare-go/internal/model"
	"github.com/mcoot/townsquare-go/internal/services/town"
	"github.com/mcoot/townsquare-go/internal/services/video"
	"github.com/mcoot/townsquare-go/internal/storage"
)

const (
	// DefaultCapacity is the occupancy limit for new towns
	DefaultCapacity = 50
	// UpdatePasswordLength is the length of generated town update passwords
	UpdatePasswordLength = 10
)

// BroadcasterProvider hands out per-town broadcast channels and releases
// them when a town is torn down. Implemented by the gateway's hub
// manager.
type BroadcasterProvider interface {
	BroadcasterFor(id model.TownID) town.Broadcaster
	Release(id model.TownID)
}

// Controller owns the set of live towns. It replaces any notion of a
// global towns singleton; everything that needs town lookup receives
// this controller explicitly.
type Controller struct {
	areas        []model.AreaDefinition
	broadcasters BroadcasterProvider
	video        video.TokenProvider
	posters      storage.PosterStore
	ident        ident.Source
	clock        clock.Clock
	logger       *slog.Logger

	mu    sync.RWMutex
	towns []*entry
}

type entry struct {
	town         *town.Town
	passwordHash []byte
}

// NewController creates a towns registry. The area definitions come
// from a validated world map and are shared by every town.
func NewController(
	areas []model.AreaDefinition,
	broadcasters BroadcasterProvider,
	videoProvider video.TokenProvider,
	posters storage.PosterStore,
	identSource ident.Source,
	clk clock.Clock,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		areas:        areas,
		broadcasters: broadcasters,
		video:        videoProvider,
		posters:      posters,
		ident:        identSource,
		clock:        clk,
		logger:       logger,
	}
}

// CreateTown creates a new town and returns its ID together with the
// one-time update password. Only a bcrypt hash of the password is
// retained.
func (c *Controller) CreateTown(ctx context.Context, friendlyName string, isPubliclyListed bool) (model.TownID, string, error) {
	townID := c.ident.NewTownID()
	password := c.ident.Password(UpdatePasswordLength)

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", "", err
	}

	t := town.New(town.Config{
		ID:               townID,
		FriendlyName:     friendlyName,
		IsPubliclyListed: isPubliclyListed,
		Capacity:         DefaultCapacity,
		Areas:            c.areas,
	}, c.broadcasters.BroadcasterFor(townID), c.video, c.posters, c.ident, c.clock, c.logger)

	c.mu.Lock()
	c.towns = append(c.towns, &entry{town: t, passwordHash: hash})
	c.mu.Unlock()

	c.logger.Info("town created",
		slog.String("town_id", string(townID)),
		slog.String("friendly_name", friendlyName),
		slog.Bool("publicly_listed", isPubliclyListed))

	return townID, password, nil
}

// GetTown resolves a town ID to a live town
func (c *Controller) GetTown(id model.TownID) (*town.Town, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e := c.findLocked(id)
	if e == nil {
		return nil, model.ErrTownNotFound
	}
	return e.town, nil
}

// ListTowns returns summaries of publicly listed towns in creation order
func (c *Controller) ListTowns() []model.TownSummary {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]model.TownSummary, 0, len(c.towns))
	for _, e := range c.towns {
		if e.town.IsPubliclyListed() {
			out = append(out, e.town.Summary())
		}
	}
	return out
}

// UpdateTown applies a settings change after checking the update password
func (c *Controller) UpdateTown(ctx context.Context, id model.TownID, password string, update model.TownSettingsUpdate) error {
	c.mu.RLock()
	e := c.findLocked(id)
	c.mu.RUnlock()

	if e == nil {
		return model.ErrTownNotFound
	}
	if bcrypt.CompareHashAndPassword(e.passwordHash, []byte(password)) != nil {
		return model.ErrInvalidPassword
	}

	e.town.UpdateSettings(update)
	return nil
}

// DeleteTown tears a town down: notifies and disconnects its players,
// purges its poster images, and removes it from the registry
func (c *Controller) DeleteTown(ctx context.Context, id model.TownID, password string) error {
	c.mu.Lock()
	var e *entry
	for i, candidate := range c.towns {
		if candidate.town.ID() == id {
			if bcrypt.CompareHashAndPassword(candidate.passwordHash, []byte(password)) != nil {
				c.mu.Unlock()
				return model.ErrInvalidPassword
			}
			e = candidate
			c.towns = append(c.towns[:i], c.towns[i+1:]...)
			break
		}
	}
	c.mu.Unlock()

	if e == nil {
		return model.ErrTownNotFound
	}

	e.town.DisconnectAllPlayers()
	c.broadcasters.Release(id)

	if err := c.posters.DeleteTown(ctx, id); err != nil {
		c.logger.Warn("purging poster images", slog.String("town_id", string(id)), slog.Any("error", err))
	}

	c.logger.Info("town deleted", slog.String("town_id", string(id)))
	return nil
}

// findLocked requires at least a read lock
func (c *Controller) findLocked(id model.TownID) *entry {
	for _, e := range c.towns {
		if e.town.ID() == id {
			return e
		}
	}
	return nil
}
