package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/townsquare-go/internal/model"
	"github.com/mcoot/townsquare-go/internal/storage"
)

// Storage is a Redis-backed implementation of the poster store
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis poster store
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis poster store with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.PosterStore = (*Storage)(nil)

func (s *Storage) SaveImage(ctx context.Context, townID model.TownID, areaID model.InteractableID, contents string) error {
	key := imageKey(townID, areaID)
	indexKey := imagesForTownIndexKey(townID)

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, key, contents, s.cfg.ImageTTL)
	pipe.SAdd(ctx, indexKey, key)
	if s.cfg.ImageTTL > 0 {
		pipe.Expire(ctx, indexKey, s.cfg.ImageTTL)
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (s *Storage) GetImage(ctx context.Context, townID model.TownID, areaID model.InteractableID) (string, error) {
	contents, err := s.client.Get(ctx, imageKey(townID, areaID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", model.ErrEmptyPosterImage
		}
		return "", err
	}
	return contents, nil
}

func (s *Storage) DeleteTown(ctx context.Context, townID model.TownID) error {
	indexKey := imagesForTownIndexKey(townID)

	keys, err := s.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	if len(keys) > 0 {
		pipe.Del(ctx, keys...)
	}
	pipe.Del(ctx, indexKey)
	_, err = pipe.Exec(ctx)
	return err
}
