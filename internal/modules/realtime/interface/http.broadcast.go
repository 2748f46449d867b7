package transport

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"qrMenu/internal/modules/realtime/application/usecase"
	"qrMenu/internal/modules/realtime/domain"
	"qrMenu/internal/shared/auth"
	"qrMenu/internal/shared/notify"
)

// BroadcastRequest is the body of POST /notifications.
type BroadcastRequest struct {
	Type         string `json:"type"`
	Title        string `json:"title"`
	Message      string `json:"message,omitempty"`
	RestaurantID string `json:"restaurantId,omitempty"`
}

// BroadcastResponse represents the response after broadcasting.
type BroadcastResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
}

// NewBroadcastHTTPHandler pushes a notification to the notification stream. When the guard is
// enabled the caller needs a token, and a token bound to a restaurant can only reach that
// restaurant's viewers.
func NewBroadcastHTTPHandler(broadcastUC *usecase.BroadcastUseCase, guard StreamGuard, logger *zap.Logger) echo.HandlerFunc {
	if logger == nil {
		logger = zap.L()
	}
	logger = logger.Named("http-broadcast")

	return func(c echo.Context) error {
		var req BroadcastRequest
		if err := c.Bind(&req); err != nil {
			logger.Warn("broadcast: invalid request body", zap.Error(err))
			return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
		}
		if strings.TrimSpace(req.Title) == "" {
			return echo.NewHTTPError(http.StatusBadRequest, "title is required")
		}
		kind, ok := parseNotificationType(req.Type)
		if !ok {
			return echo.NewHTTPError(http.StatusBadRequest, "unknown notification type")
		}

		restaurantID := strings.TrimSpace(req.RestaurantID)
		if guard != nil && guard.Enabled() {
			claims, err := guard.Validate(auth.ExtractBearerToken(c.Request()))
			if err != nil {
				return httpError(err)
			}
			if scoped := strings.TrimSpace(claims.RestaurantID); scoped != "" {
				restaurantID = scoped
			}
		}

		n := notify.Notification{
			ID:      ulid.Make().String(),
			Type:    kind,
			Title:   strings.TrimSpace(req.Title),
			Message: strings.TrimSpace(req.Message),
		}
		var extras domain.Metadata
		if restaurantID != "" {
			extras = domain.Metadata{"restaurantId": restaurantID}
		}
		broadcastUC.Execute(c.Request().Context(), domain.BuildNotificationMessage(n, time.Now(), extras))

		logger.Info("broadcast: notification sent",
			zap.String("id", n.ID),
			zap.String("type", string(n.Type)),
			zap.String("restaurant_id", restaurantID),
		)
		return c.JSON(http.StatusAccepted, BroadcastResponse{Success: true, ID: n.ID})
	}
}

func parseNotificationType(raw string) (notify.Type, bool) {
	switch kind := notify.Type(strings.ToLower(strings.TrimSpace(raw))); kind {
	case "":
		return notify.TypeInfo, true
	case notify.TypeSuccess, notify.TypeError, notify.TypeWarning, notify.TypeInfo:
		return kind, true
	default:
		return "", false
	}
}
