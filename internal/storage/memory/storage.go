package memory

import (
	"context"
	"sync"

	"github.com/mcoot/townsquare-go/internal/model"
	"github.com/mcoot/townsquare-go/internal/storage"
)

// Storage is an in-memory implementation of the poster store
type Storage struct {
	mu sync.RWMutex

	images map[imageKey]string
}

type imageKey struct {
	townID model.TownID
	areaID model.InteractableID
}

// New creates a new in-memory poster store
func New() *Storage {
	return &Storage{
		images: make(map[imageKey]string),
	}
}

// Ensure Storage implements the interface
var _ storage.PosterStore = (*Storage)(nil)

func (s *Storage) SaveImage(ctx context.Context, townID model.TownID, areaID model.InteractableID, contents string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.images[imageKey{townID, areaID}] = contents
	return nil
}

func (s *Storage) GetImage(ctx context.Context, townID model.TownID, areaID model.InteractableID) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	contents, ok := s.images[imageKey{townID, areaID}]
	if !ok {
		return "", model.ErrEmptyPosterImage
	}
	return contents, nil
}

func (s *Storage) DeleteTown(ctx context.Context, townID model.TownID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key := range s.images {
		if key.townID == townID {
			delete(s.images, key)
		}
	}
	return nil
}
