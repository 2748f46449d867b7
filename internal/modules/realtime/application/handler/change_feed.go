package handler

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"qrMenu/internal/modules/realtime/application/port"
	"qrMenu/internal/modules/realtime/application/usecase"
	"qrMenu/internal/modules/realtime/domain"
)

// MenuRefresher is the part of the menu feed the change handlers drive.
type MenuRefresher interface {
	RefreshSlug(ctx context.Context, slug string)
	RefreshRestaurant(ctx context.Context, restaurantID string)
	RefreshAll(ctx context.Context)
	MenuDeleted(ctx context.Context, restaurantID, menuID string)
}

// ChangeFeedHandler turns backend change events into fresh menus for websocket viewers.
type ChangeFeedHandler struct {
	topic  string
	feed   MenuRefresher
	logger *zap.Logger
}

func NewChangeFeedHandler(topic string, feed MenuRefresher, logger *zap.Logger) *ChangeFeedHandler {
	if logger == nil {
		logger = zap.L()
	}
	return &ChangeFeedHandler{topic: strings.TrimSpace(topic), feed: feed, logger: logger.Named("change-feed")}
}

func (h *ChangeFeedHandler) Topic() string { return h.topic }

func (h *ChangeFeedHandler) Handle(ctx context.Context, msg *domain.Message) error {
	if msg == nil {
		return nil
	}
	restaurantID := metadataValue(msg, "restaurantId")
	slug := metadataValue(msg, "slug")

	switch h.topic {
	case domain.FeedMenusDeleted:
		menuID := firstNonEmpty(metadataValue(msg, "menuId"), msg.ResourceID)
		if restaurantID == "" {
			h.logger.Warn("menu deletion without restaurant ignored", zap.String("menu_id", menuID))
			return nil
		}
		h.feed.MenuDeleted(ctx, restaurantID, menuID)
	case domain.FeedRestaurantsUpdated:
		restaurantID = firstNonEmpty(restaurantID, msg.ResourceID)
		h.refresh(ctx, slug, restaurantID)
	default:
		h.refresh(ctx, slug, restaurantID)
	}
	return nil
}

func (h *ChangeFeedHandler) refresh(ctx context.Context, slug, restaurantID string) {
	switch {
	case slug != "":
		h.logger.Info("change-feed refresh slug", zap.String("topic", h.topic), zap.String("slug", slug))
		h.feed.RefreshSlug(ctx, slug)
	case restaurantID != "":
		h.logger.Info("change-feed refresh restaurant", zap.String("topic", h.topic), zap.String("restaurant_id", restaurantID))
		h.feed.RefreshRestaurant(ctx, restaurantID)
	default:
		h.logger.Info("change-feed refresh all", zap.String("topic", h.topic))
		h.feed.RefreshAll(ctx)
	}
}

func metadataValue(msg *domain.Message, key string) string {
	if msg.Metadata == nil {
		return ""
	}
	return strings.TrimSpace(msg.Metadata[key])
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

var (
	_ port.TopicHandler = (*ChangeFeedHandler)(nil)
	_ MenuRefresher     = (*usecase.MenuFeedUseCase)(nil)
)
