package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/mcoot/townsquare-go/internal/api"
	"github.com/mcoot/townsquare-go/internal/config"
	"github.com/mcoot/townsquare-go/internal/factory"
	"github.com/mcoot/townsquare-go/internal/model"
	"github.com/mcoot/townsquare-go/internal/services/video"
	redisstorage "github.com/mcoot/townsquare-go/internal/storage/redis"
	"github.com/mcoot/townsquare-go/internal/worldmap"
)

func main() {
	// A local .env is optional; real deployments set the environment
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("loading configuration", slog.Any("error", err))
		os.Exit(1)
	}

	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(cfg.LogLevel),
	}))
	slog.SetDefault(logger)

	// Load and validate the town map; layout violations are fatal
	var areas []model.AreaDefinition
	if cfg.MapPath != "" {
		areas, err = worldmap.Load(cfg.MapPath)
		if err != nil {
			logger.Error("loading world map", slog.String("path", cfg.MapPath), slog.Any("error", err))
			os.Exit(1)
		}
	} else {
		areas = worldmap.Default()
	}

	factoryCfg := factory.Config{
		Areas: areas,
		VideoConfig: video.Config{
			SigningSecret: cfg.VideoSigningSecret,
			TokenTTL:      cfg.VideoTokenTTL,
		},
		Logger:      logger,
		StorageType: cfg.StorageType,
	}

	if cfg.StorageType == factory.StorageTypeRedis {
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = cfg.RedisURL
		factoryCfg.RedisConfig = &redisCfg
	}

	app, err := factory.New(factoryCfg)
	if err != nil {
		logger.Error("failed to create application", slog.Any("error", err))
		os.Exit(1)
	}

	router := api.NewRouter(api.RouterConfig{
		Logger:         logger,
		Registry:       app.Registry,
		GatewayHandler: app.GatewayHandler,
	})

	serverConfig := api.DefaultServerConfig()
	serverConfig.Host = cfg.Host
	serverConfig.Port = cfg.Port
	server := api.NewServer(router, serverConfig, logger)

	// Handle graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Info("shutdown signal received")
		cancel()
	}()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info("server started", slog.String("addr", server.Addr()))

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	case <-ctx.Done():
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown error", slog.Any("error", err))
			os.Exit(1)
		}
	}

	logger.Info("server stopped")
}

func logLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
