package domain

import "strings"

const (
	SystemEntity       = "system"
	MenusEntity        = "menus"
	RestaurantsEntity  = "restaurants"
	NotificationEntity = "notifications"

	TopicSystemConnected = SystemEntity + ".connected"
	TopicSystemPong      = SystemEntity + ".pong"
	TopicSystemError     = SystemEntity + ".error"
	TopicNotifications   = NotificationEntity

	ActionConnected = "connected"
	ActionPong      = "pong"
	ActionError     = "error"
	ActionSnapshot  = "snapshot"
	ActionUpdated   = "updated"
	ActionDeleted   = "deleted"
	ActionNotify    = "notify"
)

// Change feed topics consumed by the preview server.
const (
	FeedMenusUpdated       = "menus.updated"
	FeedMenusDeleted       = "menus.deleted"
	FeedRestaurantsUpdated = "restaurants.updated"
)

// MenuTopic is the topic viewers of one restaurant's menu subscribe to.
func MenuTopic(restaurantID string) string {
	return buildEntityTopic(MenusEntity, restaurantID)
}

// IsMenuTopic reports whether topic has the menus.<restaurantId> shape.
func IsMenuTopic(topic string) bool {
	rest, ok := strings.CutPrefix(strings.TrimSpace(topic), MenusEntity+".")
	return ok && rest != "" && !strings.Contains(rest, ".")
}

func buildEntityTopic(entity, suffix string) string {
	cleanEntity := strings.TrimSpace(entity)
	cleanSuffix := strings.TrimSpace(suffix)
	if cleanEntity == "" || cleanSuffix == "" {
		return ""
	}
	return cleanEntity + "." + cleanSuffix
}
