package transport

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"qrMenu/internal/modules/realtime/application/usecase"
	domain "qrMenu/internal/modules/realtime/domain"
	"qrMenu/internal/modules/realtime/infrastructure"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

const snapshotTimeout = 10 * time.Second

// NewMenuWebsocketHandler exposes /ws/menu/:slug. The viewer receives system.connected, then
// a snapshot of the menu, then every update published for its restaurant.
func NewMenuWebsocketHandler(hub *infrastructure.Hub, feed *usecase.MenuFeedUseCase, buffer int, logger *zap.Logger) echo.HandlerFunc {
	if logger == nil {
		logger = zap.L()
	}
	logger = logger.Named("ws-menu")

	return func(c echo.Context) error {
		slug := normalizeSlug(c.Param("slug"))
		requestID := c.Response().Header().Get(echo.HeaderXRequestID)
		peerIP := c.RealIP()

		if slug == "" {
			logger.Warn("ws rejected: missing slug", zap.String("ip", peerIP), zap.String("req_id", requestID))
			return echo.NewHTTPError(http.StatusBadRequest, "missing slug")
		}
		filter, err := filterFromQuery(c.QueryParams())
		if err != nil {
			return httpError(err)
		}

		ctx, cancel := context.WithTimeout(c.Request().Context(), snapshotTimeout)
		defer cancel()

		snapshot, err := feed.Snapshot(ctx, slug, filter)
		if err != nil {
			info := errorMapper.Map(err)
			fields := []zap.Field{zap.String("slug", slug), zap.Int("status", info.Status), zap.String("ip", peerIP), zap.String("req_id", requestID), zap.Error(err)}
			if info.Status >= http.StatusInternalServerError {
				logger.Error("ws snapshot failed", fields...)
			} else {
				logger.Warn("ws snapshot rejected", fields...)
			}
			return echo.NewHTTPError(info.Status, info.Message)
		}
		restaurantID := snapshot.Metadata["restaurantId"]

		conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
		if err != nil {
			logger.Error("ws upgrade failed", zap.String("slug", slug), zap.String("ip", peerIP), zap.Error(err))
			return err
		}

		info := infrastructure.ClientInfo{
			ViewerID:     viewerID(c),
			SessionID:    uuid.NewString(),
			RestaurantID: restaurantID,
			Slug:         slug,
		}
		client := infrastructure.NewClient(hub, conn, info, buffer, newMenuCommandHandler(feed, slug, logger))
		topics := menuTopics(restaurantID)
		hub.AttachClient(client, topics)

		go client.WritePump()
		go client.ReadPump()

		client.SendDomainMessage(connectedMessage(info, "menu", topics))
		client.SendDomainMessage(snapshot)

		logger.Info("ws menu viewer connected",
			zap.String("slug", slug),
			zap.String("restaurant_id", restaurantID),
			zap.String("viewer_id", info.ViewerID),
			zap.String("session_id", info.SessionID),
			zap.String("ip", peerIP),
			zap.String("req_id", requestID),
		)
		return nil
	}
}

func connectedMessage(info infrastructure.ClientInfo, mode string, topics []string) *domain.Message {
	metadata := map[string]string{
		"viewerId":  info.ViewerID,
		"sessionId": info.SessionID,
	}
	if info.RestaurantID != "" {
		metadata["restaurantId"] = info.RestaurantID
	}
	return &domain.Message{
		Topic:    domain.TopicSystemConnected,
		Entity:   domain.SystemEntity,
		Action:   domain.ActionConnected,
		Metadata: metadata,
		Data: map[string]any{
			"mode":   mode,
			"slug":   info.Slug,
			"topics": topics,
		},
		Timestamp: time.Now().UTC(),
	}
}

// viewerID honours a viewer query parameter so reconnecting tabs replace their old socket.
func viewerID(c echo.Context) string {
	if id := strings.TrimSpace(c.QueryParam("viewer")); id != "" {
		return id
	}
	return uuid.NewString()
}
