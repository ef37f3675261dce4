package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/mcoot/townsquare-go/internal/dependencies/clock"
	"github.com/mcoot/townsquare-go/internal/dependencies/ident"
	"github.com/mcoot/townsquare-go/internal/gateway"
	"github.com/mcoot/townsquare-go/internal/model"
	"github.com/mcoot/townsquare-go/internal/services/registry"
	"github.com/mcoot/townsquare-go/internal/services/video"
	"github.com/mcoot/townsquare-go/internal/storage"
	"github.com/mcoot/townsquare-go/internal/storage/memory"
	redisstorage "github.com/mcoot/townsquare-go/internal/storage/redis"
	"github.com/mcoot/townsquare-go/internal/worldmap"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	PosterStore storage.PosterStore

	// External dependencies
	Clock clock.Clock
	Ident ident.Source

	// Services
	VideoProvider  video.TokenProvider
	Registry       *registry.Controller
	HubManager     *gateway.HubManager
	GatewayHandler *gateway.Handler
}

// Config holds configuration for the application factory
type Config struct {
	// Areas is the validated world map layout shared by all towns
	// (required; use worldmap.Default() for the embedded map)
	Areas []model.AreaDefinition
	// VideoConfig configures the video token provider
	VideoConfig video.Config
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the poster store backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	if len(cfg.Areas) == 0 {
		cfg.Areas = worldmap.Default()
	}

	var posters storage.PosterStore
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		posters = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		posters = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	clk := clock.New()

	videoProvider, err := video.NewJWTProvider(cfg.VideoConfig, clk)
	if err != nil {
		return nil, err
	}

	return newWithDependencies(cfg.Areas, posters, videoProvider, ident.New(), clk, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	areas []model.AreaDefinition,
	posters storage.PosterStore,
	videoProvider video.TokenProvider,
	identSource ident.Source,
	clk clock.Clock,
	logger *slog.Logger,
) *App {
	hubManager := gateway.NewHubManager(logger)
	reg := registry.NewController(areas, hubManager, videoProvider, posters, identSource, clk, logger)
	gatewayHandler := gateway.NewHandler(reg, hubManager, logger)

	return &App{
		PosterStore:    posters,
		Clock:          clk,
		Ident:          identSource,
		VideoProvider:  videoProvider,
		Registry:       reg,
		HubManager:     hubManager,
		GatewayHandler: gatewayHandler,
	}
}
