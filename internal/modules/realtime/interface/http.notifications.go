package transport

import (
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	domain "qrMenu/internal/modules/realtime/domain"
	"qrMenu/internal/modules/realtime/infrastructure"
	"qrMenu/internal/shared/auth"
)

// StreamGuard authorises notification stream clients. With no secret configured the stream
// is open.
type StreamGuard interface {
	Enabled() bool
	Validate(token string) (*auth.Claims, error)
}

// NewNotificationsWebsocketHandler exposes /ws/notifications and streams every notification
// and menu update the client's restaurant scope allows.
func NewNotificationsWebsocketHandler(hub *infrastructure.Hub, guard StreamGuard, buffer int, logger *zap.Logger) echo.HandlerFunc {
	if logger == nil {
		logger = zap.L()
	}
	logger = logger.Named("ws-notifications")

	return func(c echo.Context) error {
		requestID := c.Response().Header().Get(echo.HeaderXRequestID)
		peerIP := c.RealIP()

		info := infrastructure.ClientInfo{SessionID: uuid.NewString()}
		if guard != nil && guard.Enabled() {
			claims, err := guard.Validate(auth.ExtractToken(c.Request(), "token"))
			if err != nil {
				logger.Warn("notifications ws auth failed", zap.String("ip", peerIP), zap.String("req_id", requestID), zap.Error(err))
				return httpError(err)
			}
			info.ViewerID = claims.Subject
			info.RestaurantID = strings.TrimSpace(claims.RestaurantID)
		} else {
			info.ViewerID = viewerID(c)
			info.RestaurantID = strings.TrimSpace(c.QueryParam("restaurant"))
		}

		conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
		if err != nil {
			logger.Error("notifications ws upgrade failed", zap.String("ip", peerIP), zap.String("req_id", requestID), zap.Error(err))
			return err
		}

		client := infrastructure.NewClient(hub, conn, info, buffer, nil)
		hub.AttachClientToAll(client)

		go client.WritePump()
		go client.ReadPump()

		client.SendDomainMessage(connectedMessage(info, "notifications", []string{domain.TopicNotifications}))

		logger.Info("notifications ws connected",
			zap.String("viewer_id", info.ViewerID),
			zap.String("session_id", info.SessionID),
			zap.String("restaurant_id", info.RestaurantID),
			zap.String("ip", peerIP),
		)
		return nil
	}
}

// statusForGuard is used by the health endpoint.
func statusForGuard(guard StreamGuard) string {
	if guard == nil || !guard.Enabled() {
		return "open"
	}
	return "token"
}
