package transport

import (
	"strings"

	domain "qrMenu/internal/modules/realtime/domain"
)

// menuTopics lists the topics a menu viewer is attached to on connect.
func menuTopics(restaurantID string) []string {
	restaurantID = strings.TrimSpace(restaurantID)
	if restaurantID == "" {
		return nil
	}
	return []string{domain.MenuTopic(restaurantID)}
}

func normalizeSlug(raw string) string {
	trimmed := strings.ToLower(strings.TrimSpace(raw))
	switch trimmed {
	case "", "-":
		return ""
	default:
		return trimmed
	}
}
