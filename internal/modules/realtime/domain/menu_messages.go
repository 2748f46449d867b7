package domain

import (
	"strings"
	"time"

	menus "qrMenu/internal/modules/menus/domain"
	"qrMenu/internal/shared/notify"
)

// BuildMenuMessage wraps a public menu for the viewers of its restaurant. It returns nil when
// the restaurant cannot be identified.
func BuildMenuMessage(action string, view menus.PublicMenu, at time.Time, extras Metadata) *Message {
	restaurantID := firstNonEmpty(view.Restaurant.ID, view.Menu.RestaurantID)
	if restaurantID == "" {
		return nil
	}
	metadata := mergeInto(map[string]string{"restaurantId": restaurantID}, Metadata{
		"slug":        view.Restaurant.Slug,
		"menuId":      view.Menu.ID,
		"lastUpdated": view.Menu.LastUpdated,
	})
	metadata = mergeInto(metadata, extras)

	return &Message{
		Topic:      MenuTopic(restaurantID),
		Entity:     MenusEntity,
		Action:     strings.TrimSpace(action),
		ResourceID: view.Menu.ID,
		Metadata:   metadata,
		Data:       view,
		Timestamp:  at.UTC(),
	}
}

// BuildMenuDeletedMessage tells viewers that the menu they watch is gone.
func BuildMenuDeletedMessage(restaurantID, menuID string, at time.Time) *Message {
	restaurantID = strings.TrimSpace(restaurantID)
	if restaurantID == "" {
		return nil
	}
	return &Message{
		Topic:      MenuTopic(restaurantID),
		Entity:     MenusEntity,
		Action:     ActionDeleted,
		ResourceID: strings.TrimSpace(menuID),
		Metadata:   mergeInto(map[string]string{"restaurantId": restaurantID}, Metadata{"menuId": menuID}),
		Timestamp:  at.UTC(),
	}
}

// BuildNotificationMessage forwards a user notification to the notification stream. A
// restaurantId in extras restricts delivery to viewers of that restaurant.
func BuildNotificationMessage(n notify.Notification, at time.Time, extras Metadata) *Message {
	return &Message{
		Topic:      TopicNotifications,
		Entity:     NotificationEntity,
		Action:     ActionNotify,
		ResourceID: n.ID,
		Metadata:   mergeInto(nil, extras),
		Data:       n,
		Timestamp:  at.UTC(),
	}
}

// BuildErrorMessage reports a rejected websocket command back to its sender.
func BuildErrorMessage(action, reason string, at time.Time) *Message {
	return &Message{
		Topic:     TopicSystemError,
		Entity:    SystemEntity,
		Action:    ActionError,
		Metadata:  mergeInto(nil, Metadata{"action": action, "reason": reason}),
		Data:      map[string]string{"error": reason},
		Timestamp: at.UTC(),
	}
}

func mergeInto(target map[string]string, extras Metadata) map[string]string {
	if len(extras) == 0 {
		return target
	}
	if target == nil {
		target = map[string]string{}
	}
	for key, value := range extras {
		trimmedKey := strings.TrimSpace(key)
		trimmedValue := strings.TrimSpace(value)
		if trimmedKey == "" || trimmedValue == "" {
			continue
		}
		target[trimmedKey] = trimmedValue
	}
	return target
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
