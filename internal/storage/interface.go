package storage

import (
	"context"

	"github.com/mcoot/townsquare-go/internal/model"
)

// PosterStore persists poster image payloads for poster session areas.
// Town, player and poll state is deliberately in-memory only; poster
// images are the one payload big enough to justify a backing store.
type PosterStore interface {
	// SaveImage stores the image contents for an area in a town
	SaveImage(ctx context.Context, townID model.TownID, areaID model.InteractableID, contents string) error

	// GetImage returns the stored image contents, or
	// model.ErrEmptyPosterImage if none was ever stored
	GetImage(ctx context.Context, townID model.TownID, areaID model.InteractableID) (string, error)

	// DeleteTown removes every image stored for a town; called when the
	// town is torn down
	DeleteTown(ctx context.Context, townID model.TownID) error
}
