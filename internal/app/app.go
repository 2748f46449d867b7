// Package app wires the services shared by the CLI and the preview server from configuration.
package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"qrMenu/internal/app/store"
	"qrMenu/internal/config"
	analytics "qrMenu/internal/modules/analytics/application/usecase"
	analyticsinfra "qrMenu/internal/modules/analytics/infrastructure"
	menus "qrMenu/internal/modules/menus/application/usecase"
	menuinfra "qrMenu/internal/modules/menus/infrastructure"
	restaurants "qrMenu/internal/modules/restaurants/application/usecase"
	restaurantinfra "qrMenu/internal/modules/restaurants/infrastructure"
	uploads "qrMenu/internal/modules/uploads/infrastructure"
	"qrMenu/internal/platform/apiclient"
	"qrMenu/internal/platform/storage"
	"qrMenu/internal/shared/notify"
)

// App holds one instance of every client-side service.
type App struct {
	Config *config.Config
	Logger *zap.Logger

	API    *apiclient.Client
	Bridge *storage.Bridge
	Store  *store.Store

	Restaurants *restaurants.RestaurantService
	Menus       *menus.MenuService
	Analytics   *analytics.AnalyticsService
	Uploads     *uploads.UploadAPI
	Public      *menuinfra.PublicAPI
}

// New opens the configured storage backend and builds the services on top of it.
func New(ctx context.Context, cfg *config.Config, notifier notify.Notifier, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.L()
	}
	backend, err := OpenBackend(ctx, cfg)
	if err != nil {
		return nil, err
	}
	bridge := storage.NewBridge(backend, logger)
	st := store.New(bridge, logger)

	client := apiclient.New(apiclient.Config{BaseURL: cfg.API.BaseURL, Timeout: cfg.API.Timeout}, logger)

	a := &App{
		Config:      cfg,
		Logger:      logger,
		API:         client,
		Bridge:      bridge,
		Store:       st,
		Restaurants: restaurants.NewRestaurantService(restaurantinfra.NewRestaurantAPI(client), st, notifier, logger),
		Menus:       menus.NewMenuService(menuinfra.NewMenuAPI(client), st, notifier, logger),
		Analytics:   analytics.NewAnalyticsService(analyticsinfra.NewAnalyticsAPI(client), notifier, logger),
		Uploads:     uploads.NewUploadAPI(client),
		Public:      menuinfra.NewPublicAPI(client),
	}
	logger.Debug("app initialised",
		zap.String("api", cfg.API.BaseURL),
		zap.String("storage", cfg.Storage.Backend),
	)
	return a, nil
}

// OpenBackend returns the storage backend named by cfg.Storage.Backend.
func OpenBackend(ctx context.Context, cfg *config.Config) (storage.Backend, error) {
	switch cfg.Storage.Backend {
	case "memory":
		return storage.NewMemoryBackend(), nil
	case "redis":
		client, err := storage.OpenRedis(ctx, storage.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, err
		}
		return storage.NewRedisBackend(client, cfg.Redis.Prefix), nil
	case "file", "":
		backend, err := storage.NewFileBackend(cfg.Storage.Dir)
		if err != nil {
			return nil, fmt.Errorf("open storage dir: %w", err)
		}
		return backend, nil
	default:
		return nil, fmt.Errorf("%w %q", config.ErrUnknownBackend, cfg.Storage.Backend)
	}
}

// Close stops following storage changes and releases the backend.
func (a *App) Close() error {
	a.Store.Unfollow()
	return a.Bridge.Close()
}
