package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"qrMenu/internal/app"
	"qrMenu/internal/config"
	menus "qrMenu/internal/modules/menus/domain"
	qrinfra "qrMenu/internal/modules/qrcodes/infrastructure"
	handler "qrMenu/internal/modules/realtime/application/handler"
	usecase "qrMenu/internal/modules/realtime/application/usecase"
	"qrMenu/internal/modules/realtime/infrastructure"
	transport "qrMenu/internal/modules/realtime/interface"
	"qrMenu/internal/platform/broker"
	"qrMenu/internal/shared/auth"
	"qrMenu/internal/shared/logging"
	"qrMenu/internal/shared/notify"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, ".env load warning: %v\n", err)
	}
	cfg, err := config.Load(os.Getenv("QRMENU_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load error: %v\n", err)
		os.Exit(1)
	}

	logger, closeLog, err := logging.Setup(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Output:    cfg.Logging.Output,
		Directory: cfg.Logging.Directory,
		Filename:  "server.log",
		AddSource: true,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging setup error: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", zap.Error(err))
		_ = closeLog()
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	logger.Info("preview server starting",
		zap.String("api", cfg.API.BaseURL),
		zap.String("storage", cfg.Storage.Backend),
		zap.Strings("kafka_brokers", cfg.Kafka.Brokers),
		zap.String("kafka_group", cfg.Kafka.GroupID),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := infrastructure.NewHub(logger)
	registry := infrastructure.NewHandlerRegistry(logger)
	broadcastUC := usecase.NewBroadcastUseCase(hub)

	// The relay reads the current restaurant lazily; the store exists only after app.New.
	var application *app.App
	relay := usecase.NewNotificationRelay(hub, func() string {
		if application == nil {
			return ""
		}
		if r := application.Store.CurrentRestaurant(); r != nil {
			return r.ID
		}
		return ""
	})
	notifier := notify.Fanout{notify.NewLogNotifier(logger), relay}

	application, err := app.New(ctx, cfg, notifier, logger)
	if err != nil {
		return fmt.Errorf("init app: %w", err)
	}
	defer application.Close()

	feed := usecase.NewMenuFeedUseCase(application.Public, broadcastUC, logger)

	// Menus edited by the CLI reach viewers through the storage bridge.
	stopMenuWatch := application.Store.OnCurrentMenuChange(func(m *menus.Menu) {
		if m == nil {
			return
		}
		feed.PublishLocal(ctx, m)
		notify.Info(notifier, fmt.Sprintf("Menu %q updated", m.Name))
	})
	defer stopMenuWatch()
	if err := application.Store.Follow(ctx); err != nil {
		logger.Warn("storage follow unavailable", zap.Error(err))
	}

	for _, topic := range cfg.Kafka.Topics {
		registry.Register(handler.NewChangeFeedHandler(topic, feed, logger))
	}
	waitConsumers := broker.StartKafkaConsumers(ctx, registry, cfg.Kafka.Brokers, cfg.Kafka.GroupID, registry.Topics(), logger)

	guard := auth.NewJWTValidator(cfg.Security.JWTSecret)
	if !guard.Enabled() {
		logger.Warn("notification stream is open: no jwt secret configured")
	}
	renderer := qrinfra.NewPNGRenderer(cfg.Server.PublicBaseURL, logger)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.RequestID())
	e.Use(middleware.Recover())
	e.Use(requestLogger(logger))

	e.GET("/health", transport.NewHealthHandler(application.API, hub, guard))
	e.GET("/menu/:slug", transport.NewMenuHTTPHandler(feed, logger))
	e.GET("/menu/:slug/qr.png", transport.NewQRCodeHandler(renderer, logger))
	e.GET("/ws/menu/:slug", transport.NewMenuWebsocketHandler(hub, feed, cfg.Websocket.Buffer, logger))
	e.GET("/ws/notifications", transport.NewNotificationsWebsocketHandler(hub, guard, cfg.Websocket.Buffer, logger))
	e.POST("/notifications", transport.NewBroadcastHTTPHandler(broadcastUC, guard, logger))

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("http server listening", zap.String("addr", cfg.ListenAddr()))
		if err := e.Start(cfg.ListenAddr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-stop:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	case err := <-serverErr:
		if err != nil {
			return err
		}
	}

	cancel()
	hub.Close()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown error", zap.Error(err))
	}
	waitConsumers()
	return nil
}

func requestLogger(logger *zap.Logger) echo.MiddlewareFunc {
	httpLogger := logger.Named("http")
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("req_id", v.RequestID),
			}
			if v.Error != nil {
				httpLogger.Warn("request failed", append(fields, zap.Error(v.Error))...)
				return nil
			}
			httpLogger.Info("request", fields...)
			return nil
		},
	})
}
